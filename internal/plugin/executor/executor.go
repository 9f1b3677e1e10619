// Package executor launches renderer plugins and exchanges patterns with them
// over the go-plugin net/rpc protocol.
package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"

	pluginapi "github.com/jmylchreest/ryijy/pkg/plugin"
)

// InfoTimeout bounds a `--plugin-info` probe.
const InfoTimeout = 5 * time.Second

// PluginExecutor runs one renderer plugin binary. The go-plugin process is
// started lazily on the first RPC and kept until Close.
type PluginExecutor struct {
	path     string
	logger   hclog.Logger
	runner   ProcessRunner
	client   *plugin.Client
	renderer pluginapi.Renderer
}

// New creates an executor for the plugin at path. logger may be nil.
func New(path string, logger hclog.Logger) *PluginExecutor {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &PluginExecutor{
		path:   path,
		logger: logger.Named("plugin"),
		runner: NewRealProcessRunner(),
	}
}

// WithRunner replaces the process runner used for metadata probes.
func (e *PluginExecutor) WithRunner(r ProcessRunner) *PluginExecutor {
	e.runner = r
	return e
}

// Path returns the plugin binary path.
func (e *PluginExecutor) Path() string {
	return e.path
}

// Info runs the plugin with --plugin-info and decodes its metadata without
// starting an RPC session.
func (e *PluginExecutor) Info(ctx context.Context) (pluginapi.PluginInfo, error) {
	execCtx, cancel := context.WithTimeout(ctx, InfoTimeout)
	defer cancel()

	stdout, stderr, err := e.runner.Run(execCtx, e.path, []string{pluginapi.PluginInfoFlag}, nil)
	if err != nil {
		if len(stderr) > 0 {
			return pluginapi.PluginInfo{}, fmt.Errorf("failed to query plugin info: %w\nStderr: %s", err, stderr)
		}
		return pluginapi.PluginInfo{}, fmt.Errorf("failed to query plugin info: %w", err)
	}

	var info pluginapi.PluginInfo
	if err := json.Unmarshal(stdout, &info); err != nil {
		return pluginapi.PluginInfo{}, fmt.Errorf("failed to parse plugin info: %w", err)
	}
	if info.Name == "" {
		return pluginapi.PluginInfo{}, fmt.Errorf("plugin info from %s has no name", e.path)
	}
	return info, nil
}

// Render sends the pattern to the plugin and returns the files it produced.
func (e *PluginExecutor) Render(ctx context.Context, pattern pluginapi.PatternData) (map[string][]byte, error) {
	r, err := e.rendererClient()
	if err != nil {
		return nil, err
	}

	e.logger.Debug("rendering pattern", "path", e.path, "columns", pattern.Columns, "rows", pattern.Rows,
		"colours", len(pattern.Legend))
	files, err := r.Render(ctx, pattern)
	if err != nil {
		return nil, fmt.Errorf("plugin render failed: %w", err)
	}
	return files, nil
}

// Metadata fetches the plugin metadata over RPC.
func (e *PluginExecutor) Metadata() (pluginapi.PluginInfo, error) {
	r, err := e.rendererClient()
	if err != nil {
		return pluginapi.PluginInfo{}, err
	}
	return r.GetMetadata(), nil
}

// Close kills the plugin process, if one was started.
func (e *PluginExecutor) Close() {
	if e.client != nil {
		e.client.Kill()
		e.client = nil
		e.renderer = nil
	}
}

func (e *PluginExecutor) rendererClient() (pluginapi.Renderer, error) {
	if e.renderer != nil {
		return e.renderer, nil
	}

	e.client = plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  pluginapi.Handshake,
		Plugins:          pluginapi.PluginMap(nil),
		Cmd:              exec.Command(e.path), // #nosec G204 - plugin path resolved and validated by the caller
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolNetRPC},
		Logger:           e.logger,
	})

	rpcClient, err := e.client.Client()
	if err != nil {
		e.client.Kill()
		e.client = nil
		return nil, fmt.Errorf("failed to get RPC client: %w", err)
	}

	raw, err := rpcClient.Dispense(pluginapi.RendererPluginName)
	if err != nil {
		e.client.Kill()
		e.client = nil
		return nil, fmt.Errorf("failed to dispense plugin: %w", err)
	}

	r, ok := raw.(pluginapi.Renderer)
	if !ok {
		e.client.Kill()
		e.client = nil
		return nil, fmt.Errorf("plugin %s does not implement the renderer interface", e.path)
	}
	e.renderer = r
	return r, nil
}
