package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/assemblyline/pkg/index"
	"github.com/Sumatoshi-tech/assemblyline/pkg/observability"
)

// listOptions holds flag overrides for the list command.
type listOptions struct {
	input  string
	order  string
	view   string
	format string
}

func newListCommand(a *app) *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print a feed ordered by product id or processing time",
		Long: `Load a feed and print its records in the requested ordering, read from the
binary search tree, the sorted list, or both.

Examples:
  assemblyline list --input input.txt
  assemblyline list --by duration --view list --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := a.setup(cmd, observability.ModeCLI)
			if err != nil {
				return err
			}
			defer a.shutdown()

			return runList(cmd, a, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "feed file (default from config)")
	cmd.Flags().StringVar(&opts.order, "by", "", "ordering: id or duration (default from config)")
	cmd.Flags().StringVar(&opts.view, "view", "", "view: tree, list or both (default from config)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output: table, json, yaml or feed (default from config)")

	return cmd
}

func runList(cmd *cobra.Command, a *app, opts *listOptions) error {
	input := override(opts.input, a.cfg.Input.Path)

	order, err := index.ParseOrdering(override(opts.order, a.cfg.Display.Order))
	if err != nil {
		return err
	}

	views, err := parseViews(override(opts.view, a.cfg.Display.View))
	if err != nil {
		return err
	}

	renderer, err := a.renderer(cmd, override(opts.format, a.cfg.Display.Format))
	if err != nil {
		return err
	}

	sess, err := a.newSession()
	if err != nil {
		return err
	}

	_, err = sess.Load(cmd.Context(), input, a.cfg.Input.Strict)
	if err != nil {
		return err
	}

	return renderer.Sections(sess.Show(cmd.Context(), order, views...)...)
}

// override returns flag when set and fallback otherwise.
func override(flag, fallback string) string {
	if flag != "" {
		return flag
	}

	return fallback
}
