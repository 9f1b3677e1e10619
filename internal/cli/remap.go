package cli

import (
	"fmt"

	"github.com/jmylchreest/ryijy/internal/colour"
	"github.com/jmylchreest/ryijy/internal/pattern"
	"github.com/jmylchreest/ryijy/internal/quantise"
	"github.com/spf13/cobra"
)

var (
	// Remap command flags
	remapColours        int
	remapPalette        []string
	remapMergeThreshold float64
	remapIdentifiers    string
	remapOutput         string
)

// remapCmd represents the remap command
var remapCmd = &cobra.Command{
	Use:   "remap <pattern>",
	Short: "Move a pattern onto a different palette",
	Long: `Move every knot of an existing pattern onto a new palette.

With --colours the pattern's own colours are reduced again to at most K
yarns, reusing the seed recorded in the pattern. With --palette every knot is
moved to the nearest of the given hex colours, for example to match the
yarns actually on hand. Empty knots stay empty.

The result is written to --output, or to stdout as JSON.

Examples:
  # Shrink a finished pattern to 8 yarns
  ryijy remap -c 8 -o rug-8.json rug.json

  # Chart the pattern with a fixed yarn set
  ryijy remap --palette "#1b1b1b,#f2efe6,#b23a2e,#2f5d8a" -o rug-yarn.json rug.json`,
	Args: cobra.ExactArgs(1),
	RunE: runRemap,
}

func init() {
	remapCmd.Flags().IntVarP(&remapColours, "colours", "c", 0, "reduce to at most this many colours")
	remapCmd.Flags().StringSliceVar(&remapPalette, "palette", nil, "comma-separated hex colours to map onto")
	remapCmd.Flags().Float64Var(&remapMergeThreshold, "merge-threshold", quantise.DefaultOptions().MergeThreshold,
		"merge yarns closer than this RGB distance when reducing (0 disables)")
	remapCmd.Flags().Var(newChoiceValue(&remapIdentifiers, "", identifierChoices()...),
		"identifiers", "relabel yarns (default: keep the pattern's labelling)")
	remapCmd.Flags().StringVarP(&remapOutput, "output", "o", "", "pattern file to write (default: stdout)")

	remapCmd.MarkFlagsOneRequired("colours", "palette")
	remapCmd.MarkFlagsMutuallyExclusive("colours", "palette")
}

// runRemap executes the remap command.
func runRemap(cmd *cobra.Command, args []string) error {
	doc, err := pattern.Load(args[0])
	if err != nil {
		return fmt.Errorf("failed to load pattern: %w", err)
	}
	from, grid, err := doc.Resolve()
	if err != nil {
		return err
	}
	if remapIdentifiers != "" {
		doc.Identifiers = quantise.IdentifierMode(remapIdentifiers)
	}

	if len(remapPalette) > 0 {
		to, err := parsePalette(remapPalette)
		if err != nil {
			return err
		}
		remapped, err := quantise.Mapper{}.Remap(grid, from, to)
		if err != nil {
			return fmt.Errorf("failed to remap pattern: %w", err)
		}
		doc.SetGrid(to, remapped)
		doc.Stats = nil
		logger.Debug("remapped pattern onto palette", "from", from.Len(), "to", to.Len())
		return writePattern(cmd, doc, remapOutput)
	}

	opts := quantise.DefaultOptions()
	opts.K = remapColours
	opts.MergeThreshold = remapMergeThreshold
	opts.Seed = &doc.Seed
	opts.Logger = logger.Named("quantise")

	result, err := quantise.ReduceGrid(grid, from, opts)
	if err != nil {
		return fmt.Errorf("failed to reduce pattern: %w", err)
	}
	doc.SetGrid(result.Palette, result.Grid)
	stats := result.Stats
	doc.Stats = &stats
	logger.Debug("reduced pattern", "from", from.Len(), "to", result.Palette.Len())

	return writePattern(cmd, doc, remapOutput)
}

// parsePalette parses hex colour strings into a palette.
func parsePalette(hexes []string) (colour.Palette, error) {
	colours := make([]colour.RGB, 0, len(hexes))
	for _, h := range hexes {
		c, err := colour.ParseHex(h)
		if err != nil {
			return colour.Palette{}, fmt.Errorf("invalid --palette: %w", err)
		}
		colours = append(colours, c)
	}
	if len(colours) == 0 {
		return colour.Palette{}, fmt.Errorf("invalid --palette: no colours given")
	}
	return colour.NewPalette(colours), nil
}
