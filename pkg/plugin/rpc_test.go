package plugin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/rpc"
	"testing"
)

type mockRenderer struct {
	files     map[string][]byte
	metadata  PluginInfo
	renderErr error
	got       PatternData
}

func (m *mockRenderer) Render(_ context.Context, pattern PatternData) (map[string][]byte, error) {
	m.got = pattern
	if m.renderErr != nil {
		return nil, m.renderErr
	}
	return m.files, nil
}

func (m *mockRenderer) GetMetadata() PluginInfo {
	return m.metadata
}

func samplePattern() PatternData {
	return PatternData{
		Columns: 2,
		Rows:    1,
		Legend: []LegendEntry{
			{Index: 0, RGB: RGBColour{R: 255}, Hex: "#ff0000", Identifier: "A", Count: 1, LabelHex: "#ffffff"},
		},
		Cells:    [][]int{{0, EmptyCell}},
		Seed:     7,
		Settings: map[string]string{"aspect": "1:1"},
	}
}

// connect serves impl over an in-memory pipe and returns a host-side client.
func connect(t *testing.T, impl Renderer) Renderer {
	t.Helper()

	p := &RendererRPC{Impl: impl}
	srv, err := p.Server(nil)
	if err != nil {
		t.Fatalf("Server() error = %v", err)
	}
	server := rpc.NewServer()
	if err := server.RegisterName("Plugin", srv); err != nil {
		t.Fatalf("RegisterName() error = %v", err)
	}

	serverConn, clientConn := net.Pipe()
	go server.ServeConn(serverConn)

	rpcClient := rpc.NewClient(clientConn)
	t.Cleanup(func() { _ = rpcClient.Close() })

	raw, err := p.Client(nil, rpcClient)
	if err != nil {
		t.Fatalf("Client() error = %v", err)
	}
	client, ok := raw.(Renderer)
	if !ok {
		t.Fatalf("Client() returned %T, want Renderer", raw)
	}
	return client
}

func TestRendererRPCRoundTrip(t *testing.T) {
	mock := &mockRenderer{
		files: map[string][]byte{"pattern.csv": []byte("A,\n")},
		metadata: PluginInfo{
			Name:            "csv",
			Version:         "1.0.0",
			ProtocolVersion: ProtocolVersion,
			Formats:         []string{"csv"},
		},
	}
	client := connect(t, mock)

	t.Run("GetMetadata", func(t *testing.T) {
		info := client.GetMetadata()
		if info.Name != "csv" || info.ProtocolVersion != ProtocolVersion {
			t.Errorf("GetMetadata() = %+v", info)
		}
		if len(info.Formats) != 1 || info.Formats[0] != "csv" {
			t.Errorf("GetMetadata().Formats = %v, want [csv]", info.Formats)
		}
	})

	t.Run("Render", func(t *testing.T) {
		files, err := client.Render(context.Background(), samplePattern())
		if err != nil {
			t.Fatalf("Render() error = %v", err)
		}
		if string(files["pattern.csv"]) != "A,\n" {
			t.Errorf("Render() files = %v", files)
		}
		if mock.got.Cells[0][1] != EmptyCell || mock.got.Legend[0].Identifier != "A" {
			t.Errorf("plugin received %+v", mock.got)
		}
		if mock.got.Settings["aspect"] != "1:1" {
			t.Errorf("settings not passed through: %v", mock.got.Settings)
		}
	})
}

func TestRendererRPCRenderError(t *testing.T) {
	client := connect(t, &mockRenderer{renderErr: errors.New("no room on the loom")})

	_, err := client.Render(context.Background(), samplePattern())
	var rpcErr *RPCError
	if !errors.As(err, &rpcErr) {
		t.Fatalf("Render() error = %v, want *RPCError", err)
	}
	if rpcErr.Message != "no room on the loom" {
		t.Errorf("RPCError.Message = %q", rpcErr.Message)
	}
}

func TestRendererRPCServer(t *testing.T) {
	mock := &mockRenderer{
		files:    map[string][]byte{"legend.txt": []byte("A #ff0000")},
		metadata: PluginInfo{Name: "test-renderer"},
	}
	server := &RendererRPCServer{Impl: mock}

	t.Run("Render", func(t *testing.T) {
		var resp map[string][]byte
		if err := server.Render(samplePattern(), &resp); err != nil {
			t.Fatalf("Render() error = %v", err)
		}
		if _, ok := resp["legend.txt"]; !ok {
			t.Error("Render() missing expected file 'legend.txt'")
		}
	})

	t.Run("GetMetadata", func(t *testing.T) {
		var resp PluginInfo
		if err := server.GetMetadata(nil, &resp); err != nil {
			t.Fatalf("GetMetadata() error = %v", err)
		}
		if resp.Name != "test-renderer" {
			t.Errorf("GetMetadata() name = %q, want %q", resp.Name, "test-renderer")
		}
	})
}

func TestPluginMap(t *testing.T) {
	mock := &mockRenderer{}
	plugins := PluginMap(mock)

	p, ok := plugins[RendererPluginName].(*RendererRPC)
	if !ok {
		t.Fatalf("PluginMap()[%q] = %T, want *RendererRPC", RendererPluginName, plugins[RendererPluginName])
	}
	if p.Impl != mock {
		t.Error("PluginMap() impl not set correctly")
	}
}

func TestWriteInfo(t *testing.T) {
	var buf bytes.Buffer
	mock := &mockRenderer{metadata: PluginInfo{Name: "svg", Version: "0.2.0", Formats: []string{"svg"}}}
	if err := WriteInfo(&buf, mock); err != nil {
		t.Fatalf("WriteInfo() error = %v", err)
	}

	var info PluginInfo
	if err := json.Unmarshal(buf.Bytes(), &info); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if info.Name != "svg" || info.Version != "0.2.0" {
		t.Errorf("WriteInfo() wrote %+v", info)
	}
}

func TestRPCError(t *testing.T) {
	err := &RPCError{Message: "test error"}
	if err.Error() != "test error" {
		t.Errorf("RPCError.Error() = %q, want %q", err.Error(), "test error")
	}
}
