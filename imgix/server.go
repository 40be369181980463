package imgix

import (
	"net/http"
	"strings"

	"github.com/golang/groupcache"
	"github.com/golang/protobuf/ptypes/wrappers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/greut/imgix/config"
)

// groupcachePath is where the peers talk to each other.
const groupcachePath = "/_groupcache/"

// MakeRouter construct the basic router (no middlewares)
func MakeRouter() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/params.json", ParamsHandler)
	router.Handle("/metrics", promhttp.Handler())
	router.HandleFunc("/url/{path:.*}", URLHandler)
	router.HandleFunc("/srcset/{path:.*}", SourceSetHandler)
	router.HandleFunc("/redirect/{path:.*}", RedirectHandler)

	return router
}

// SetGroupCache sets the cache of rendered URLs and source sets. The first
// peer is the current node, without peers the cache stays local.
func SetGroupCache(router http.Handler, config *config.Config, peers ...string) http.Handler {
	var pool *groupcache.HTTPPool
	if len(peers) > 0 {
		pool = groupcache.NewHTTPPoolOpts(peers[0], &groupcache.HTTPPoolOptions{
			BasePath: groupcachePath,
		})
		pool.Set(peers...)
	}

	var renders = groupcache.NewGroup("renders", config.Server.CacheSize, groupcache.GetterFunc(
		func(ctx groupcache.Context, key string, dest groupcache.Sink) error {
			req, ok := ctx.(*renderRequest)
			if !ok {
				// Requests coming from a peer only carry the key.
				var err error
				req, err = parseRenderKey(key)
				if err != nil {
					return err
				}
			}

			s, err := req.render(config)
			if err != nil {
				return err
			}

			debug("Caching %s", key)
			return dest.SetProto(&wrappers.StringValue{Value: s})
		},
	))

	h := WithGroupCaches(router, map[string]*groupcache.Group{
		string(rendersKey): renders,
	})
	if pool == nil {
		return h
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, groupcachePath) {
			pool.ServeHTTP(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})
}
