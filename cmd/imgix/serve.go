package main

import (
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/greut/imgix/imgix"
)

func newServeCmd(opts *options) *cobra.Command {
	var peers []string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve signed URLs over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.NewWithOptions(os.Stderr, log.Options{
				Prefix:          "imgix",
				ReportTimestamp: true,
			})
			if opts.verbose {
				logger.SetLevel(log.DebugLevel)
			}

			c, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			if opts.configFile != "" {
				logger.Info("Configuration loaded", "file", opts.configFile)
			}
			if c.Token == "" {
				logger.Warn("No token, URLs will not be signed")
			}

			// this node comes first, groupcache uses it as self.
			if len(peers) == 0 {
				peers = c.Server.Peers
			}
			peers = append([]string{c.Self()}, peers...)

			// build router with group cache and configuration middlewares.
			handler := imgix.SetGroupCache(
				imgix.WithConfig(imgix.MakeRouter(), c),
				c,
				peers...,
			)

			listen := c.Listen()
			logger.Info("Server running", "listen", listen, "domain", c.Domain, "peers", len(peers)-1)
			return http.ListenAndServe(listen, withLogger(handler, logger))
		},
	}

	cmd.Flags().StringArrayVar(&peers, "peer", nil, "other groupcache peers, e.g. http://10.0.0.2:8080")

	return cmd
}

func withLogger(h http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		h.ServeHTTP(w, r)
		logger.Debug("Request", "method", r.Method, "url", r.URL.String(), "duration", time.Since(start))
	})
}
