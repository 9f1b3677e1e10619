package plugin

// PluginInfo contains metadata about a renderer plugin.
type PluginInfo struct {
	Name            string `json:"name"`
	Version         string `json:"version"`
	ProtocolVersion string `json:"protocol_version"`
	Description     string `json:"description"`
	// Formats lists the output formats the renderer produces, e.g. "csv" or "svg".
	Formats []string `json:"formats,omitempty"`
}
