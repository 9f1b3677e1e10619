package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jmylchreest/ryijy/internal/pattern"
	"github.com/jmylchreest/ryijy/internal/plugin/executor"
	pluginapi "github.com/jmylchreest/ryijy/pkg/plugin"
	"github.com/spf13/cobra"
)

var (
	// Render command flags
	renderPlugin string
	renderOut    string
	renderTitle  string
	renderArgs   map[string]string
)

// renderCmd represents the render command
var renderCmd = &cobra.Command{
	Use:   "render <pattern>",
	Short: "Render a pattern with a renderer plugin",
	Long: `Hand a pattern to a renderer plugin and write the files it returns.

The plugin is either a path to an executable or a bare name. Bare names are
looked up in $RYIJY_PLUGIN_DIR and then as ryijy-<name> on PATH.

Examples:
  # Render a knot chart as CSV
  ryijy render --plugin csv --out charts/ rug.json

  # Pass options through to the plugin
  ryijy render --plugin ./ryijy-svg --out charts/ --arg knot-size=12 rug.json`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVar(&renderPlugin, "plugin", "", "renderer plugin path or name (required)")
	renderCmd.Flags().StringVar(&renderOut, "out", "", "directory to write rendered files into (required)")
	renderCmd.Flags().StringVar(&renderTitle, "title", "", "pattern title (default: pattern file name)")
	renderCmd.Flags().StringToStringVar(&renderArgs, "arg", nil, "plugin-specific arguments (key=value, repeatable)")
	_ = renderCmd.MarkFlagRequired("plugin")
	_ = renderCmd.MarkFlagRequired("out")
}

// runRender executes the render command.
func runRender(cmd *cobra.Command, args []string) error {
	patternPath := args[0]

	doc, err := pattern.Load(patternPath)
	if err != nil {
		return fmt.Errorf("failed to load pattern: %w", err)
	}

	title := renderTitle
	if title == "" {
		base := filepath.Base(patternPath)
		base = strings.TrimSuffix(base, pattern.CompressedSuffix)
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}

	data, err := executor.PatternData(doc, title)
	if err != nil {
		return err
	}
	if len(renderArgs) > 0 {
		data.PluginArgs = make(map[string]any, len(renderArgs))
		for k, v := range renderArgs {
			data.PluginArgs[k] = v
		}
	}

	pluginPath, err := executor.ResolvePluginPath(renderPlugin)
	if err != nil {
		return err
	}

	exec := executor.New(pluginPath, logger)
	defer exec.Close()

	info, err := exec.Info(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to query plugin: %w", err)
	}
	if info.ProtocolVersion != pluginapi.ProtocolVersion {
		return fmt.Errorf("plugin %s speaks protocol %q, expected %q", info.Name, info.ProtocolVersion, pluginapi.ProtocolVersion)
	}
	logger.Debug("rendering pattern", "plugin", info.Name, "version", info.Version, "path", pluginPath)

	files, err := exec.Render(cmd.Context(), data)
	if err != nil {
		return fmt.Errorf("failed to render pattern: %w", err)
	}

	written, err := executor.WriteOutputs(renderOut, files)
	if err != nil {
		return err
	}

	if !globalQuiet {
		out := cmd.OutOrStdout()
		for _, path := range written {
			fmt.Fprintln(out, path)
		}
	}
	return nil
}
