// Package plugin is the public API for ryijy renderer plugins.
// External plugins should import this package instead of internal packages.
package plugin

import (
	"github.com/hashicorp/go-plugin"
)

const (
	// ProtocolVersion defines the current plugin API version.
	// Format: MAJOR.MINOR.PATCH.
	// - Increment MAJOR for breaking changes (incompatible API changes).
	// - Increment MINOR for backward-compatible additions.
	// - Increment PATCH for backward-compatible bug fixes.
	ProtocolVersion = "0.1.0"

	// RendererPluginName is the key renderers are registered under in the go-plugin map.
	RendererPluginName = "renderer"

	// PluginInfoFlag makes a plugin binary print its PluginInfo as JSON and exit.
	PluginInfoFlag = "--plugin-info"
)

// Handshake is the handshake configuration for go-plugin protocol.
// This ensures that plugins using go-plugin can only connect to compatible hosts.
var Handshake = plugin.HandshakeConfig{
	ProtocolVersion:  0, // Major version from ProtocolVersion
	MagicCookieKey:   "RYIJY_PLUGIN",
	MagicCookieValue: "ryijy_pattern_renderer",
}

// PluginMap returns the go-plugin plugin set for a renderer. impl may be nil on the host side.
func PluginMap(impl Renderer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		RendererPluginName: &RendererRPC{Impl: impl},
	}
}
