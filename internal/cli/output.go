package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/jmylchreest/ryijy/internal/colour"
	"github.com/jmylchreest/ryijy/internal/pattern"
	"github.com/jmylchreest/ryijy/internal/quantise"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Preview modes for --preview.
const (
	previewAuto   = "auto"
	previewAlways = "always"
	previewNever  = "never"
)

// Output formats for -f/--format.
const (
	formatTable = "table"
	formatJSON  = "json"
)

const swatchWidth = 6

// addPreviewFlag registers --preview; a bare --preview means always.
func addPreviewFlag(cmd *cobra.Command, p *string) {
	cmd.Flags().Var(newChoiceValue(p, previewAuto, previewAuto, previewAlways, previewNever),
		"preview", "show colour swatches in the legend")
	cmd.Flags().Lookup("preview").NoOptDefVal = previewAlways
}

// addFormatFlag registers -f/--format.
func addFormatFlag(cmd *cobra.Command, p *string) {
	cmd.Flags().VarP(newChoiceValue(p, formatTable, formatTable, formatJSON),
		"format", "f", "output format")
}

// showPreview reports whether swatches should be drawn on w.
func showPreview(mode string, w io.Writer) bool {
	switch mode {
	case previewAlways:
		return true
	case previewNever:
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) // #nosec G115 -- file descriptors fit in int
}

// formatLegend renders legend entries as a table. total is the number of
// knots the percentages are taken of.
func formatLegend(entries []quantise.LegendEntry, total int, preview bool) string {
	headers := []string{"ID", "Hex", "RGB", "Knots", "Share"}
	if preview {
		headers = append([]string{"Colour"}, headers...)
	}

	table := NewTable(headers)
	offset := len(headers) - 5
	table.AlignRight(offset + 3)
	table.AlignRight(offset + 4)

	for _, e := range entries {
		id := e.Identifier
		if id == "" {
			id = strconv.Itoa(e.Index)
		}
		share := 0.0
		if total > 0 {
			share = 100 * float64(e.Count) / float64(total)
		}
		row := []string{
			id,
			e.Hex,
			fmt.Sprintf("%d,%d,%d", e.Colour.R, e.Colour.G, e.Colour.B),
			strconv.Itoa(e.Count),
			fmt.Sprintf("%.1f%%", share),
		}
		if preview {
			row = append([]string{colour.ColourPreviewWithText(e.Colour, id, swatchWidth)}, row...)
		}
		table.AddRow(row)
	}
	return table.Render()
}

// legendTotal sums the knot counts of a legend.
func legendTotal(entries []quantise.LegendEntry) int {
	total := 0
	for _, e := range entries {
		total += e.Count
	}
	return total
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writePattern saves doc to path, or writes it to stdout as JSON when path is empty.
func writePattern(cmd *cobra.Command, doc *pattern.Document, path string) error {
	if path == "" {
		return pattern.Encode(cmd.OutOrStdout(), doc, false)
	}
	if err := pattern.Save(path, doc); err != nil {
		return fmt.Errorf("failed to save pattern: %w", err)
	}
	logger.Info("wrote pattern", "path", path, "columns", doc.Columns, "rows", doc.Rows, "colours", len(doc.Palette))
	return nil
}
