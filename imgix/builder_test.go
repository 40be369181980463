package imgix

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHost = "demo.imgix.net"

func newBuilder(t *testing.T, path string, params ...string) *Builder {
	t.Helper()

	b, err := New(testHost, path)
	require.NoError(t, err)

	for i := 0; i+1 < len(params); i += 2 {
		_, err := b.WithParam(params[i], params[i+1])
		require.NoError(t, err)
	}

	return b
}

func TestRender(t *testing.T) {
	var tests = []struct {
		path     string
		params   []string
		secret   string
		expected string
	}{
		{"image.jpg", nil, "", "https://demo.imgix.net/image.jpg"},
		{"/image.jpg", []string{"w", "100"}, "", "https://demo.imgix.net/image.jpg?w=100"},
		{"image.jpg", []string{"w", "100"}, "FOO123bar", "https://demo.imgix.net/image.jpg?w=100&s=15f6c4f3fe810f2dea4047b81fbfa516"},
		{"image.jpg", nil, "FOO123bar", "https://demo.imgix.net/image.jpg?s=86f7279a6d6614a0af580fa84fbed137"},
		{
			"users/1.png",
			[]string{"w", "400", "h", "300", "fit", "crop"},
			"FOO123bar",
			"https://demo.imgix.net/users/1.png?fit=crop&h=300&w=400&s=aa003ea81e24b524785022d30ed58b68",
		},
		{
			"my image.jpg",
			[]string{"txt", "a&b", "w", "100"},
			"FOO123bar",
			"https://demo.imgix.net/my%20image.jpg?txt=a%26b&w=100&s=69fe952ce899411c0e6709ee56ba5d5c",
		},
	}

	for _, test := range tests {
		b := newBuilder(t, test.path, test.params...)
		b.WithSigningKey(test.secret)

		u, err := b.Render()
		require.NoError(t, err)
		if u != test.expected {
			t.Errorf("Render() got %v want %v", u, test.expected)
		}
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	b := newBuilder(t, "image.jpg", "w", "100", "auto", "format,compress", "txt", "hello world")
	b.WithSigningKey("FOO123bar")

	first, err := b.Render()
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		u, err := b.Render()
		require.NoError(t, err)
		assert.Equal(t, first, u)
	}
}

func TestRenderOrderIndependent(t *testing.T) {
	a := newBuilder(t, "image.jpg", "w", "100", "h", "200", "fit", "crop", "q", "75")
	b := newBuilder(t, "image.jpg", "q", "75", "fit", "crop", "h", "200", "w", "100")
	a.WithSigningKey("secret")
	b.WithSigningKey("secret")

	assert.Equal(t, a.String(), b.String())
}

func TestRenderSingleOccurrence(t *testing.T) {
	b := newBuilder(t, "image.jpg", "w", "100", "w", "200", "h", "300")
	b.WithSigningKey("secret").WithLib(LibVersion())

	u, err := b.Render()
	require.NoError(t, err)

	parsed, err := url.Parse(u)
	require.NoError(t, err)

	query := parsed.Query()
	for k, vs := range query {
		assert.Len(t, vs, 1, k)
	}
	assert.Equal(t, "200", query.Get("w"))
	assert.Equal(t, LibVersion(), query.Get(LibKey))
	assert.True(t, strings.HasSuffix(parsed.RawQuery, "&s="+query.Get(SignatureKey)), "signature comes last")
}

func TestRenderWithLib(t *testing.T) {
	b := newBuilder(t, "image.jpg", "w", "100", "auto", "format")
	b.WithLib("go-test")

	assert.Equal(t, "https://demo.imgix.net/image.jpg?auto=format&ixlib=go-test&w=100", b.String())

	b.WithLib("")
	assert.Equal(t, "https://demo.imgix.net/image.jpg?auto=format&w=100", b.String())
}

func TestRenderWebProxy(t *testing.T) {
	b := newBuilder(t, "http://example.com/image.jpg", "w", "100")

	assert.Equal(t, "https://demo.imgix.net/http%3A%2F%2Fexample.com%2Fimage.jpg?w=100", b.String())
}

func TestRenderConflicts(t *testing.T) {
	var tests = []struct {
		params []string
		keys   []string
	}{
		{[]string{"txt", "hello", "txt64", "aGVsbG8"}, []string{"txt", "txt64"}},
		{[]string{"w", "100", "h", "100", "ar", "1:1"}, []string{"ar", "h", "w"}},
		{[]string{"fit", "max", "crop", "faces"}, []string{"crop", "fit"}},
	}

	for _, test := range tests {
		b := newBuilder(t, "image.jpg", test.params...)

		_, err := b.Render()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrConflictingParams))
		for _, key := range test.keys {
			assert.Contains(t, err.Error(), "`"+key+"`")
		}
		assert.Equal(t, "", b.String())
	}
}

func TestReservedKeysInAnyOrder(t *testing.T) {
	b := newBuilder(t, "image.jpg")
	_, err := b.WithParam("s", "abc")
	assert.True(t, errors.Is(err, ErrReservedKey))

	b = newBuilder(t, "image.jpg")
	b.WithSigningKey("secret")
	_, err = b.WithParam("s", "abc")
	assert.True(t, errors.Is(err, ErrReservedKey))

	_, err = b.WithParam("ixlib", "go-0")
	assert.True(t, errors.Is(err, ErrReservedKey))
}

func TestWithParamsIsAtomic(t *testing.T) {
	b := newBuilder(t, "image.jpg", "w", "100")

	_, err := b.WithParams(map[string]string{
		"h":   "200",
		"fit": "crop",
		"zzz": "1",
	})
	assert.True(t, errors.Is(err, ErrUnknownKey))
	assert.Equal(t, 1, b.Params().Len())

	_, err = b.WithParams(map[string]string{"h": "200", "fit": "crop"})
	require.NoError(t, err)
	assert.Equal(t, 3, b.Params().Len())
}

func TestWithoutParam(t *testing.T) {
	b := newBuilder(t, "image.jpg", "w", "100", "h", "100")
	b.WithoutParam("h").WithoutParam("dpr")

	assert.Equal(t, "https://demo.imgix.net/image.jpg?w=100", b.String())
}

func TestClone(t *testing.T) {
	b := newBuilder(t, "image.jpg", "w", "100")
	c := b.Clone()

	_, err := c.WithParam("w", "200")
	require.NoError(t, err)
	c.WithSigningKey("secret")

	assert.Equal(t, "https://demo.imgix.net/image.jpg?w=100", b.String())
	assert.False(t, b.Signed())
	assert.True(t, c.Signed())
}

func TestNewInvalid(t *testing.T) {
	var tests = []struct {
		host string
		path string
		err  error
	}{
		{"", "image.jpg", ErrInvalidHost},
		{"https://demo.imgix.net", "image.jpg", ErrInvalidHost},
		{"demo.imgix.net/images", "image.jpg", ErrInvalidHost},
		{"demo imgix.net", "image.jpg", ErrInvalidHost},
		{"demo.imgix.net", "", ErrInvalidPath},
		{"demo.imgix.net", "/", ErrInvalidPath},
		{"demo.imgix.net", "//  ", ErrInvalidPath},
		{"demo.imgix.net", " ", ErrInvalidPath},
		{"demo.imgix.net", "/\t", ErrInvalidPath},
	}

	for _, test := range tests {
		b, err := New(test.host, test.path)
		if !errors.Is(err, test.err) {
			t.Errorf("New(%#v, %#v) got %v want %v", test.host, test.path, err, test.err)
		}
		assert.Nil(t, b)
	}
}

func TestAccessors(t *testing.T) {
	b := newBuilder(t, "//images/a.png", "w", "1")

	assert.Equal(t, testHost, b.Host())
	assert.Equal(t, "images/a.png", b.Path())
	v, ok := b.Params().Get("w")
	assert.True(t, ok)
	assert.Equal(t, "1", v)
}
