package plugin

import "context"

// Renderer turns a finished pattern into output files. Keys of the returned
// map are file names relative to the output directory.
type Renderer interface {
	Render(ctx context.Context, pattern PatternData) (map[string][]byte, error)

	// GetMetadata returns plugin metadata.
	GetMetadata() PluginInfo
}
