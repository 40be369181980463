package imgix

import (
	"github.com/greut/imgix/config"
)

// NewFromConfig creates a builder for the path using the configured domain,
// token and default parameters. A non-empty preset is applied over the
// defaults.
func NewFromConfig(c *config.Config, path, preset string) (*Builder, error) {
	b, err := New(c.Domain, path)
	if err != nil {
		return nil, err
	}

	params, err := c.DefaultParams()
	if err != nil {
		return nil, err
	}

	if preset != "" {
		overrides, err := c.Preset(preset)
		if err != nil {
			return nil, err
		}
		for k, v := range overrides {
			params[k] = v
		}
	}

	if _, err := b.WithParams(params); err != nil {
		return nil, err
	}

	b.WithSigningKey(c.Token)
	if c.IncludeLib {
		b.WithLib(LibVersion())
	}

	return b, nil
}

// SourceSetOptionsFromConfig reads the [srcset] section.
func SourceSetOptionsFromConfig(c *config.Config) SourceSetOptions {
	opts := SourceSetOptions{
		MinWidth:  c.SrcSet.MinWidth,
		MaxWidth:  c.SrcSet.MaxWidth,
		Tolerance: c.SrcSet.Tolerance,
	}

	if c.SrcSet.VariableQuality != nil {
		opts.DisableVariableQuality = !*c.SrcSet.VariableQuality
	}

	return opts
}
