package commands

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/assemblyline/pkg/observability"
	"github.com/Sumatoshi-tech/assemblyline/pkg/render"
)

func newCheckCommand(a *app) *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Load a feed and verify the index structures agree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := a.setup(cmd, observability.ModeCLI)
			if err != nil {
				return err
			}
			defer a.shutdown()

			return runCheck(cmd, a, override(input, a.cfg.Input.Path))
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "feed file (default from config)")

	return cmd
}

func runCheck(cmd *cobra.Command, a *app, input string) error {
	sess, err := a.newSession()
	if err != nil {
		return err
	}

	report, err := sess.Load(cmd.Context(), input, a.cfg.Input.Strict)
	if err != nil {
		return err
	}

	err = sess.Verify(cmd.Context())
	if err != nil {
		return err
	}

	renderer := render.New(cmd.OutOrStdout(), render.FormatTable, a.cfg.Display.Color)
	style := renderer.Style()
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, style.Success("%s: %s records, index consistent", input, humanize.Comma(int64(report.Loaded))))

	for _, skipped := range report.Skipped {
		fmt.Fprintln(out, style.Warn("skipped %v", skipped))
	}

	return renderer.Stats(sess.Stats())
}
