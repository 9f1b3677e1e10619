package plugin

import (
	"context"
	"net/rpc"

	"github.com/hashicorp/go-plugin"
)

// RendererRPC implements the go-plugin Plugin interface for renderers.
type RendererRPC struct {
	plugin.Plugin
	Impl Renderer
}

// Server returns an RPC server for this plugin.
func (p *RendererRPC) Server(*plugin.MuxBroker) (any, error) {
	return &RendererRPCServer{Impl: p.Impl}, nil
}

// Client returns an RPC client for this plugin.
func (p *RendererRPC) Client(_ *plugin.MuxBroker, c *rpc.Client) (any, error) {
	return &RendererRPCClient{client: c}, nil
}

// RendererRPCServer is the plugin-side RPC server.
type RendererRPCServer struct {
	Impl Renderer
}

// Render implements the RPC method for rendering a pattern.
func (s *RendererRPCServer) Render(pattern PatternData, resp *map[string][]byte) error {
	result, err := s.Impl.Render(context.Background(), pattern)
	if err != nil {
		return err
	}
	*resp = result
	return nil
}

// GetMetadata implements the RPC method for fetching plugin metadata.
func (s *RendererRPCServer) GetMetadata(_ any, resp *PluginInfo) error {
	*resp = s.Impl.GetMetadata()
	return nil
}

// RendererRPCClient is the host-side RPC client. It implements Renderer.
type RendererRPCClient struct {
	client *rpc.Client
}

// Render calls the remote Render method.
func (c *RendererRPCClient) Render(_ context.Context, pattern PatternData) (map[string][]byte, error) {
	var result map[string][]byte
	if err := c.client.Call("Plugin.Render", pattern, &result); err != nil {
		return nil, &RPCError{Message: err.Error()}
	}
	return result, nil
}

// GetMetadata calls the remote GetMetadata method. A failed call yields empty metadata.
func (c *RendererRPCClient) GetMetadata() PluginInfo {
	var info PluginInfo
	if err := c.client.Call("Plugin.GetMetadata", new(any), &info); err != nil {
		return PluginInfo{}
	}
	return info
}

// RPCError represents an error returned from an RPC call.
type RPCError struct {
	Message string
}

// Error implements the error interface.
func (e *RPCError) Error() string {
	return e.Message
}
