package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/greut/imgix/config"
	"github.com/greut/imgix/imgix"
)

// options are the flags shared by every command.
type options struct {
	configFile string
	verbose    bool
	domain     string
	token      string
	ixlib      bool
	preset     string
	params     []string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "imgix",
		Short: "Build and sign imgix URLs",
		Long: `imgix builds image URLs for the imgix rendering API.

Parameters are validated before anything is rendered, the query string is
sorted and encoded the same way every time and, given a token, the URL is
signed.

Examples:
  imgix url --domain demo.imgix.net -p w=100 image.jpg
  imgix srcset --domain demo.imgix.net -p ar=16:9 image.jpg
  imgix serve --config config.toml`,
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "configuration file (TOML)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")
	flags.StringVar(&opts.domain, "domain", "", "imgix source domain, e.g. demo.imgix.net")
	flags.StringVar(&opts.token, "token", "", "secure URL token (default $"+config.TokenEnv+")")
	flags.BoolVar(&opts.ixlib, "ixlib", false, "add the ixlib parameter")
	flags.StringVar(&opts.preset, "preset", "", "preset from the configuration file")
	flags.StringArrayVarP(&opts.params, "param", "p", nil, "parameter as key=value, can be repeated")

	cmd.AddCommand(newURLCmd(opts))
	cmd.AddCommand(newSourceSetCmd(opts))
	cmd.AddCommand(newParamsCmd(opts))
	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// loadConfig reads the configuration file, if any, and applies the flags
// over it.
func (opts *options) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var c *config.Config
	if opts.configFile != "" {
		var err error
		c, err = config.NewConfigFromFile(opts.configFile)
		if err != nil {
			return nil, err
		}
	} else {
		c = config.Default()
		if err := c.Normalize(); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("domain") {
		c.Domain = opts.domain
	}
	if flags.Changed("token") {
		c.Token = opts.token
	}
	if flags.Changed("ixlib") {
		c.IncludeLib = opts.ixlib
	}

	return c, nil
}

// parseParams reads the key=value flags, the last occurrence of a key wins.
func (opts *options) parseParams() (map[string]string, error) {
	params := make(map[string]string, len(opts.params))
	for _, kv := range opts.params {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 || parts[0] == "" {
			return nil, fmt.Errorf("parameter %#v is not key=value", kv)
		}
		params[parts[0]] = parts[1]
	}
	return params, nil
}

func (opts *options) newBuilder(cmd *cobra.Command, path string) (*imgix.Builder, *config.Config, error) {
	c, err := opts.loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	params, err := opts.parseParams()
	if err != nil {
		return nil, nil, err
	}

	b, err := imgix.NewFromConfig(c, path, opts.preset)
	if err != nil {
		return nil, nil, err
	}

	if _, err := b.WithParams(params); err != nil {
		return nil, nil, err
	}

	return b, c, nil
}
