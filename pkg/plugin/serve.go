package plugin

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-plugin"
)

// Serve runs impl as a go-plugin renderer. When the binary is invoked with
// PluginInfoFlag it prints its metadata as JSON and exits instead.
func Serve(impl Renderer) {
	if len(os.Args) > 1 && os.Args[1] == PluginInfoFlag {
		if err := WriteInfo(os.Stdout, impl); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding plugin info: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: Handshake,
		Plugins:         PluginMap(impl),
	})
}

// WriteInfo writes the renderer's metadata as indented JSON.
func WriteInfo(w io.Writer, impl Renderer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(impl.GetMetadata())
}
