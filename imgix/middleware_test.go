package imgix

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/greut/imgix/config"
)

func TestWithConfig(t *testing.T) {
	c := newConfig()

	var got *config.Config
	h := WithConfig(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
	}), c)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/url/image.jpg", nil))
	assert.Same(t, c, got)
}

func TestFromContextWithoutConfig(t *testing.T) {
	assert.Nil(t, FromContext(context.Background()))
	assert.Nil(t, rendersFromContext(context.Background()))

	ctx := context.WithValue(context.Background(), configKey, "not a config")
	assert.Nil(t, FromContext(ctx))
}
