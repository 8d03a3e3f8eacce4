package commands

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/assemblyline/pkg/feed"
)

func newGenerateCommand() *cobra.Command {
	var (
		count  int
		output string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write sample records in feed format",
		Long: fmt.Sprintf(`Write up to %d sample records from a fixed catalogue. Output ending in
.lz4 is compressed.

Examples:
  assemblyline generate -n 10 > input.txt
  assemblyline generate --output input.txt.lz4`, feed.MaxSample),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			records, err := feed.Sample(count)
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				return feed.NewWriter(cmd.OutOrStdout()).WriteAll(slices.Values(records))
			}

			return feed.Save(output, slices.Values(records))
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", feed.MaxSample, "number of records (0 to 50)")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file, - for stdout")

	return cmd
}
