package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/greut/imgix/imgix"
)

func newURLCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "url PATH",
		Short: "Render the URL of an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, _, err := opts.newBuilder(cmd, args[0])
			if err != nil {
				return err
			}

			u, err := b.Render()
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), u)
			return nil
		},
	}
}

func newSourceSetCmd(opts *options) *cobra.Command {
	var widths []int
	var disableVariableQuality bool

	cmd := &cobra.Command{
		Use:   "srcset PATH",
		Short: "Render the srcset attribute of an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, c, err := opts.newBuilder(cmd, args[0])
			if err != nil {
				return err
			}

			o := imgix.SourceSetOptionsFromConfig(c)
			o.Widths = widths
			if cmd.Flags().Changed("no-variable-quality") {
				o.DisableVariableQuality = disableVariableQuality
			}

			s, err := b.SourceSet(o)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), s)
			return nil
		},
	}

	cmd.Flags().IntSliceVar(&widths, "widths", nil, "explicit widths, e.g. 320,640,1280")
	cmd.Flags().BoolVar(&disableVariableQuality, "no-variable-quality", false, "keep the same quality for every pixel density")

	return cmd
}
