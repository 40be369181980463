package imgix

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	d "github.com/tj/go-debug"
)

var debug = d.Debug("imgix")

// Version of the library, sent as ixlib when asked to.
const Version = "0.1.0"

// LibKey is the query parameter identifying the client library.
const LibKey = "ixlib"

// LibVersion is the default ixlib value.
func LibVersion() string {
	return fmt.Sprintf("go-%s", Version)
}

// Builder assembles the URL of an image on a given host.
//
//	           host
//	      ┌──────┴──────┐
//	https://example.imgix.net/image/path.png?h=640&w=320&s=...
//	                         └──────┬──────┘ └─────┬────┘ └─┬─┘
//	                              path          params   signature
//
// A Builder is not safe for concurrent mutation, rendering is read-only.
type Builder struct {
	host   string
	path   string
	params *Store
	secret string
	lib    string
}

// New validates the host and path and creates an empty Builder.
func New(host, path string) (*Builder, error) {
	if reason := checkHost(host); reason != "" {
		return nil, &BuildError{Err: ErrInvalidHost, Host: host, Reason: reason}
	}

	p := strings.TrimLeft(path, "/")
	if strings.TrimSpace(p) == "" {
		return nil, &BuildError{Err: ErrInvalidPath, Path: path, Reason: "path cannot be empty"}
	}

	return &Builder{
		host:   host,
		path:   p,
		params: NewStore(),
	}, nil
}

func checkHost(host string) string {
	if host == "" {
		return "host cannot be empty"
	}

	if strings.Contains(host, "://") {
		return "host cannot contain a scheme"
	}

	for _, r := range host {
		if unicode.IsSpace(r) {
			return "host cannot contain whitespace"
		}
	}

	if strings.ContainsAny(host, "/?#") {
		return "host cannot contain a path, query or fragment"
	}

	return ""
}

// Host is the domain the URL points to.
func (b *Builder) Host() string {
	return b.host
}

// Path is the image path, without its leading slash.
func (b *Builder) Path() string {
	return b.path
}

// Params gives access to the parameter store.
func (b *Builder) Params() *Store {
	return b.params
}

// WithParam sets a parameter, see Store.Set.
func (b *Builder) WithParam(key, value string) (*Builder, error) {
	if err := b.params.Set(key, value); err != nil {
		return b, err
	}
	return b, nil
}

// WithParams sets all the parameters in key order. It stops at the first
// invalid one, leaving the builder unchanged.
func (b *Builder) WithParams(params map[string]string) (*Builder, error) {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	next := b.params.Clone()
	for _, k := range keys {
		if err := next.Set(k, params[k]); err != nil {
			return b, err
		}
	}

	b.params = next
	return b, nil
}

// WithoutParam removes a parameter, if present.
func (b *Builder) WithoutParam(key string) *Builder {
	b.params.Remove(key)
	return b
}

// WithSigningKey sets the secret token used to sign the URL. An empty
// secret disables the signature.
func (b *Builder) WithSigningKey(secret string) *Builder {
	b.secret = secret
	return b
}

// Signed tells whether the rendered URL will carry a signature.
func (b *Builder) Signed() bool {
	return b.secret != ""
}

// WithLib adds the ixlib parameter, use LibVersion() for the default value.
// An empty value removes it.
func (b *Builder) WithLib(lib string) *Builder {
	b.lib = lib
	return b
}

// Clone returns an independent copy of the builder.
func (b *Builder) Clone() *Builder {
	c := *b
	c.params = b.params.Clone()
	return &c
}

// Render produces the final URL. It does not modify the builder and always
// gives the same result for the same state.
func (b *Builder) Render() (string, error) {
	if err := b.params.Check(); err != nil {
		return "", err
	}

	path := EncodePath(b.path)

	entries := b.params.Entries()
	if b.lib != "" {
		entries = append(entries, Entry{LibKey, b.lib})
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Key < entries[j].Key
		})
	}

	query := EncodeQuery(entries)

	if b.secret != "" {
		signature := Sign(b.secret, path, query)
		if query != "" {
			query += "&"
		}
		query += SignatureKey + "=" + signature
	}

	u := fmt.Sprintf("https://%s/%s", b.host, path)
	if query != "" {
		u += "?" + query
	}

	debug("Render %s", u)
	return u, nil
}

// String renders the URL, or returns an empty string if it cannot be.
func (b *Builder) String() string {
	u, err := b.Render()
	if err != nil {
		return ""
	}
	return u
}
