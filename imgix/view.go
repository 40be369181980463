package imgix

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/golang/groupcache"
	"github.com/golang/protobuf/ptypes/wrappers"
	"github.com/gorilla/mux"

	"github.com/greut/imgix/config"
)

// error messages
var (
	configError     = "no configuration"
	keyError        = "malformed cache key: %#v"
	renderKindError = "unknown render kind: %#v"
)

// PresetKey is the query key selecting a preset.
const PresetKey = "preset"

// render kinds
const (
	kindURL       = "url"
	kindSourceSet = "srcset"
)

// renderRequest is what a render depends on, it doubles as the cache key.
type renderRequest struct {
	kind   string
	path   string
	preset string
	params map[string]string
}

func newRenderRequest(r *http.Request, kind string) *renderRequest {
	req := &renderRequest{
		kind:   kind,
		path:   mux.Vars(r)["path"],
		params: make(map[string]string),
	}

	// the last occurrence of a key wins, like Builder.WithParam.
	for k, vs := range r.URL.Query() {
		v := vs[len(vs)-1]
		if k == PresetKey {
			req.preset = v
			continue
		}
		req.params[k] = v
	}

	return req
}

// key is canonical, the order of the query string does not matter.
func (req *renderRequest) key() string {
	values := make(url.Values, len(req.params)+1)
	for k, v := range req.params {
		values.Set(k, v)
	}
	if req.preset != "" {
		values.Set(PresetKey, req.preset)
	}
	return req.kind + ":" + url.QueryEscape(req.path) + "?" + values.Encode()
}

func parseRenderKey(key string) (*renderRequest, error) {
	parts := strings.SplitN(key, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf(keyError, key)
	}

	rest := strings.SplitN(parts[1], "?", 2)
	path, err := url.QueryUnescape(rest[0])
	if err != nil {
		return nil, fmt.Errorf(keyError, key)
	}

	req := &renderRequest{
		kind:   parts[0],
		path:   path,
		params: make(map[string]string),
	}

	if len(rest) == 2 {
		values, err := url.ParseQuery(rest[1])
		if err != nil {
			return nil, fmt.Errorf(keyError, key)
		}
		for k := range values {
			if k == PresetKey {
				req.preset = values.Get(k)
				continue
			}
			req.params[k] = values.Get(k)
		}
	}

	return req, nil
}

func (req *renderRequest) render(c *config.Config) (string, error) {
	if c == nil {
		return "", HTTPError{http.StatusInternalServerError, configError}
	}

	b, err := NewFromConfig(c, req.path, req.preset)
	if err != nil {
		return "", err
	}

	if _, err := b.WithParams(req.params); err != nil {
		return "", err
	}

	switch req.kind {
	case kindURL:
		return b.Render()
	case kindSourceSet:
		return b.SourceSet(SourceSetOptionsFromConfig(c))
	default:
		return "", fmt.Errorf(renderKindError, req.kind)
	}
}

// render goes through the cache when there is one.
func render(r *http.Request, kind string) (string, error) {
	c := FromContext(r.Context())
	renders := rendersFromContext(r.Context())

	req := newRenderRequest(r, kind)
	if renders == nil {
		return req.render(c)
	}

	var value wrappers.StringValue
	if err := renders.Get(req, req.key(), groupcache.ProtoSink(&value)); err != nil {
		return "", err
	}
	return value.GetValue(), nil
}

func serveRender(w http.ResponseWriter, r *http.Request, kind string) (string, bool) {
	start := time.Now()
	s, err := render(r, kind)

	status := "ok"
	if err != nil {
		status = "error"
	}
	RecordRender(kind, status, time.Since(start).Seconds())

	if err != nil {
		e := asHTTPError(err)
		debug("Render failed %s: %s", r.URL, e.Message)
		http.Error(w, e.Error(), e.StatusCode)
		return "", false
	}
	return s, true
}

// URLHandler responds with the rendered URL.
func URLHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := serveRender(w, r, kindURL)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, s)
}

// SourceSetHandler responds with the srcset attribute value.
func SourceSetHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := serveRender(w, r, kindSourceSet)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, s)
}

// RedirectHandler sends the client to the rendered URL.
func RedirectHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := serveRender(w, r, kindURL)
	if !ok {
		return
	}

	http.Redirect(w, r, s, http.StatusSeeOther)
}

// ParamsHandler lists the known parameters.
func ParamsHandler(w http.ResponseWriter, r *http.Request) {
	c := FromContext(r.Context())

	reserved := make([]string, 0, len(Reserved))
	for k := range Reserved {
		reserved = append(reserved, k)
	}
	sort.Strings(reserved)

	p := Profile{
		Version:    LibVersion(),
		Parameters: Parameters,
		Conflicts:  Conflicts,
		Reserved:   reserved,
	}
	if c != nil {
		p.Signed = c.Token != ""
		p.Presets = c.PresetNames()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(p); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
