package imgix

import (
	"context"
	"net/http"

	"github.com/golang/groupcache"

	"github.com/greut/imgix/config"
)

// ContextKey is the context key type of the service.
type ContextKey string

// context keys
const (
	configKey  = ContextKey("config")
	rendersKey = ContextKey("renders")
)

// WithGroupCaches sets the various caches, by group name.
func WithGroupCaches(h http.Handler, groups map[string]*groupcache.Group) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		for k, v := range groups {
			ctx = context.WithValue(ctx, ContextKey(k), v)
		}
		h.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithConfig sets the signing service configuration.
func WithConfig(h http.Handler, c *config.Config) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.ServeHTTP(w, r.WithContext(NewContext(r.Context(), c)))
	})
}

// NewContext returns a context carrying the configuration.
func NewContext(ctx context.Context, c *config.Config) context.Context {
	return context.WithValue(ctx, configKey, c)
}

// FromContext returns the configuration of the request, or nil.
func FromContext(ctx context.Context) *config.Config {
	c, _ := ctx.Value(configKey).(*config.Config)
	return c
}

// rendersFromContext returns the render cache, or nil without a cache.
func rendersFromContext(ctx context.Context) *groupcache.Group {
	g, _ := ctx.Value(rendersKey).(*groupcache.Group)
	return g
}
