package cli

import (
	"fmt"

	"github.com/jmylchreest/ryijy/internal/pattern"
	"github.com/spf13/cobra"
)

var (
	// Legend command flags
	legendFormat  string
	legendPreview string
)

// legendCmd represents the legend command
var legendCmd = &cobra.Command{
	Use:   "legend <pattern>",
	Short: "Show the yarn legend of a pattern",
	Long: `Show every yarn of a pattern with its label, colour, and how many knots use it.

Examples:
  # Legend with colour swatches
  ryijy legend --preview rug.json

  # Machine-readable legend
  ryijy legend -f json rug.json.xz`,
	Args: cobra.ExactArgs(1),
	RunE: runLegend,
}

func init() {
	addFormatFlag(legendCmd, &legendFormat)
	addPreviewFlag(legendCmd, &legendPreview)
}

// runLegend executes the legend command.
func runLegend(cmd *cobra.Command, args []string) error {
	doc, err := pattern.Load(args[0])
	if err != nil {
		return fmt.Errorf("failed to load pattern: %w", err)
	}

	out := cmd.OutOrStdout()
	if legendFormat == formatJSON {
		return writeJSON(out, doc.Palette)
	}

	fmt.Fprint(out, formatLegend(doc.Palette, legendTotal(doc.Palette), showPreview(legendPreview, out)))
	fmt.Fprintf(out, "\n%dx%d knots, %d colours\n", doc.Columns, doc.Rows, len(doc.Palette))
	return nil
}
