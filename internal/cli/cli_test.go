package cli

import (
	"bytes"
	"errors"
	stdimage "image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jmylchreest/ryijy/internal/pattern"
	"github.com/jmylchreest/ryijy/internal/plugin/executor"
	"github.com/jmylchreest/ryijy/internal/quantise"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// resetFlags restores every flag to its default so commands can run repeatedly.
func resetFlags(t *testing.T) {
	t.Helper()

	var reset func(c *cobra.Command)
	reset = func(c *cobra.Command) {
		c.Flags().VisitAll(func(f *pflag.Flag) {
			switch v := f.Value.(type) {
			case pflag.SliceValue:
				_ = v.Replace(nil)
			case *choiceValue:
				*v.value = f.DefValue
			default:
				if f.Value.Type() == "stringToString" {
					break
				}
				if err := f.Value.Set(f.DefValue); err != nil {
					t.Fatalf("failed to reset --%s: %v", f.Name, err)
				}
			}
			f.Changed = false
		})
		for _, sub := range c.Commands() {
			reset(sub)
		}
	}
	reset(rootCmd)
	renderArgs = map[string]string{}
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(t)

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// writeTestImage writes an 8x8 PNG: red top half, blue bottom half and a
// transparent top-left pixel.
func writeTestImage(t *testing.T) string {
	t.Helper()
	img := stdimage.NewNRGBA(stdimage.Rect(0, 0, 8, 8))
	for y := range 8 {
		for x := range 8 {
			c := color.NRGBA{R: 255, A: 255}
			if y >= 4 {
				c = color.NRGBA{B: 255, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	img.SetNRGBA(0, 0, color.NRGBA{})

	path := filepath.Join(t.TempDir(), "source.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create image: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

// reducePattern reduces the test image into a pattern file and returns its path.
func reducePattern(t *testing.T, extra ...string) string {
	t.Helper()
	out := filepath.Join(t.TempDir(), "rug.json")
	args := append([]string{"reduce", "-q", "-o", out}, extra...)
	args = append(args, writeTestImage(t))
	if _, _, err := execute(t, args...); err != nil {
		t.Fatalf("reduce failed: %v", err)
	}
	return out
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(stdout, "ryijy ") {
		t.Errorf("version output = %q, want ryijy banner", stdout)
	}
}

func TestVerboseQuietConflict(t *testing.T) {
	if _, _, err := execute(t, "version", "-v", "-q"); err == nil {
		t.Error("expected error for --verbose with --quiet")
	}
}

func TestReduceCommand(t *testing.T) {
	imagePath := writeTestImage(t)
	out := filepath.Join(t.TempDir(), "rug.json")

	stdout, _, err := execute(t, "reduce", "-c", "4", "--preview=never", "-o", out, imagePath)
	if err != nil {
		t.Fatalf("reduce failed: %v", err)
	}
	if !strings.Contains(stdout, "8x8 knots, 2 colours") {
		t.Errorf("summary missing from output:\n%s", stdout)
	}
	if strings.Contains(stdout, "\x1b[") {
		t.Errorf("--preview=never printed swatches:\n%s", stdout)
	}

	doc, err := pattern.Load(out)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if doc.Columns != 8 || doc.Rows != 8 {
		t.Errorf("pattern size = %dx%d, want 8x8", doc.Columns, doc.Rows)
	}
	if len(doc.Palette) != 2 {
		t.Fatalf("palette has %d entries, want 2", len(doc.Palette))
	}

	// Blue covers 32 knots and red 31, so blue sorts first.
	want := []struct {
		hex   string
		id    string
		count int
	}{
		{hex: "#0000ff", id: "A", count: 32},
		{hex: "#ff0000", id: "B", count: 31},
	}
	for i, w := range want {
		e := doc.Palette[i]
		if e.Hex != w.hex || e.Identifier != w.id || e.Count != w.count {
			t.Errorf("palette[%d] = %s %s x%d, want %s %s x%d", i, e.Hex, e.Identifier, e.Count, w.hex, w.id, w.count)
		}
	}
	if doc.Cells[0][0] != nil {
		t.Errorf("transparent pixel mapped to %d, want empty knot", *doc.Cells[0][0])
	}
	if doc.Source != imagePath {
		t.Errorf("Source = %q, want %q", doc.Source, imagePath)
	}
	if doc.Settings["aspect"] != "1:1" {
		t.Errorf("Settings[aspect] = %q, want 1:1", doc.Settings["aspect"])
	}
}

func TestReducePixelSize(t *testing.T) {
	out := reducePattern(t, "--pixel-size", "2", "--kernel", "nearest")

	doc, err := pattern.Load(out)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if doc.Columns != 4 || doc.Rows != 4 {
		t.Errorf("pattern size = %dx%d, want 4x4", doc.Columns, doc.Rows)
	}
	if doc.Settings["pixel_size"] != "2" {
		t.Errorf("Settings[pixel_size] = %q, want 2", doc.Settings["pixel_size"])
	}
}

func TestReduceExplicitGrid(t *testing.T) {
	out := reducePattern(t, "--columns", "2", "--rows", "3", "--aspect", "2:3")

	doc, err := pattern.Load(out)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if doc.Columns != 2 || doc.Rows != 3 {
		t.Errorf("pattern size = %dx%d, want 2x3", doc.Columns, doc.Rows)
	}
	if doc.Settings["aspect"] != "2:3" {
		t.Errorf("Settings[aspect] = %q, want 2:3", doc.Settings["aspect"])
	}
}

func TestReduceCompressed(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "rug.json")
	if _, _, err := execute(t, "reduce", "-q", "--compress", "-o", out, writeTestImage(t)); err != nil {
		t.Fatalf("reduce failed: %v", err)
	}

	doc, err := pattern.Load(out + pattern.CompressedSuffix)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(doc.Palette) != 2 {
		t.Errorf("palette has %d entries, want 2", len(doc.Palette))
	}
}

func TestReduceJSONOutput(t *testing.T) {
	stdout, _, err := execute(t, "reduce", "-f", "json", "--identifiers", "codes", writeTestImage(t))
	if err != nil {
		t.Fatalf("reduce failed: %v", err)
	}

	doc, err := pattern.Decode(strings.NewReader(stdout))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if doc.Palette[0].Identifier != "0000FF" {
		t.Errorf("identifier = %q, want 0000FF", doc.Palette[0].Identifier)
	}
}

func TestReduceQuiet(t *testing.T) {
	out := filepath.Join(t.TempDir(), "rug.json")
	stdout, _, err := execute(t, "reduce", "-q", "-o", out, writeTestImage(t))
	if err != nil {
		t.Fatalf("reduce failed: %v", err)
	}
	if stdout != "" {
		t.Errorf("quiet reduce printed %q", stdout)
	}
}

func TestReduceSeed(t *testing.T) {
	out := reducePattern(t, "--seed", "42")

	doc, err := pattern.Load(out)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if doc.Seed != 42 {
		t.Errorf("Seed = %d, want 42", doc.Seed)
	}

	first := reducePattern(t, "--seed-mode", "content")
	second := reducePattern(t, "--seed-mode", "content")
	a, err := pattern.Load(first)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	b, err := pattern.Load(second)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if a.Seed != b.Seed {
		t.Errorf("content seeds differ for identical images: %d vs %d", a.Seed, b.Seed)
	}
}

func TestReduceErrors(t *testing.T) {
	imagePath := writeTestImage(t)

	tests := []struct {
		name    string
		args    []string
		wantErr string
		is      error
	}{
		{name: "zero colours", args: []string{"-c", "0"}, is: quantise.ErrInvalidConfiguration},
		{name: "bad significance", args: []string{"--significance", "1.5"}, is: quantise.ErrInvalidConfiguration},
		{name: "bad aspect", args: []string{"--aspect", "wide"}, wantErr: "invalid aspect"},
		{name: "bad kernel", args: []string{"--kernel", "lanczos"}, wantErr: "must be one of"},
		{name: "columns without rows", args: []string{"--columns", "4"}, wantErr: "rows"},
		{name: "pixel size with columns", args: []string{"--pixel-size", "2", "--columns", "4", "--rows", "4"}, wantErr: "pixel-size"},
		{name: "seed with random mode", args: []string{"--seed", "1", "--seed-mode", "random"}, wantErr: "--seed requires"},
		{name: "manual mode without seed", args: []string{"--seed-mode", "manual"}, wantErr: "seed value is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"reduce"}, tt.args...)
			args = append(args, imagePath)
			_, _, err := execute(t, args...)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("error = %v, want %v", err, tt.is)
			}
			if tt.wantErr != "" && !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestReduceMissingImage(t *testing.T) {
	_, _, err := execute(t, "reduce", filepath.Join(t.TempDir(), "missing.png"))
	if err == nil || !strings.Contains(err.Error(), "invalid image path") {
		t.Errorf("error = %v, want invalid image path", err)
	}
}

func TestLegendCommand(t *testing.T) {
	path := reducePattern(t)

	t.Run("table", func(t *testing.T) {
		stdout, _, err := execute(t, "legend", path)
		if err != nil {
			t.Fatalf("legend failed: %v", err)
		}
		for _, want := range []string{"ID", "#0000ff", "#ff0000", "50.8%", "8x8 knots"} {
			if !strings.Contains(stdout, want) {
				t.Errorf("legend output missing %q:\n%s", want, stdout)
			}
		}
		if strings.Contains(stdout, "\x1b[") {
			t.Errorf("auto preview drew swatches on a non-terminal:\n%s", stdout)
		}
	})

	t.Run("preview", func(t *testing.T) {
		stdout, _, err := execute(t, "legend", "--preview", path)
		if err != nil {
			t.Fatalf("legend failed: %v", err)
		}
		if !strings.Contains(stdout, "\x1b[48;2;0;0;255m") {
			t.Errorf("expected blue swatch:\n%s", stdout)
		}
	})

	t.Run("json", func(t *testing.T) {
		stdout, _, err := execute(t, "legend", "-f", "json", path)
		if err != nil {
			t.Fatalf("legend failed: %v", err)
		}
		if !strings.Contains(stdout, `"hex": "#ff0000"`) || !strings.Contains(stdout, `"count": 31`) {
			t.Errorf("unexpected JSON legend:\n%s", stdout)
		}
	})
}

func TestRemapPalette(t *testing.T) {
	path := reducePattern(t)
	out := filepath.Join(t.TempDir(), "remapped.json")

	if _, _, err := execute(t, "remap", "--palette", "#ff0000,#0000ee", "-o", out, path); err != nil {
		t.Fatalf("remap failed: %v", err)
	}

	doc, err := pattern.Load(out)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(doc.Palette) != 2 {
		t.Fatalf("palette has %d entries, want 2", len(doc.Palette))
	}
	// Red maps exactly, blue lands on the darker blue.
	if doc.Palette[0].Count != 31 || doc.Palette[1].Count != 32 {
		t.Errorf("counts = %d, %d; want 31, 32", doc.Palette[0].Count, doc.Palette[1].Count)
	}
	if doc.Cells[0][0] != nil {
		t.Error("empty knot became filled after remap")
	}
	if doc.Stats != nil {
		t.Error("stale reduction stats kept after remap")
	}
}

func TestRemapColours(t *testing.T) {
	path := reducePattern(t, "--seed", "7")

	stdout, _, err := execute(t, "remap", "-c", "1", path)
	if err != nil {
		t.Fatalf("remap failed: %v", err)
	}

	doc, err := pattern.Decode(strings.NewReader(stdout))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(doc.Palette) != 1 {
		t.Fatalf("palette has %d entries, want 1", len(doc.Palette))
	}
	if doc.Palette[0].Count != 63 {
		t.Errorf("count = %d, want 63", doc.Palette[0].Count)
	}
	if doc.Seed != 7 {
		t.Errorf("Seed = %d, want the original 7", doc.Seed)
	}
}

func TestRemapErrors(t *testing.T) {
	path := reducePattern(t)

	tests := []struct {
		name string
		args []string
	}{
		{name: "no mode", args: []string{"remap", path}},
		{name: "both modes", args: []string{"remap", "-c", "2", "--palette", "#000000", path}},
		{name: "bad hex", args: []string{"remap", "--palette", "#12", path}},
		{name: "missing pattern", args: []string{"remap", "-c", "2", filepath.Join(t.TempDir(), "none.json")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := execute(t, tt.args...); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestRenderMissingPlugin(t *testing.T) {
	path := reducePattern(t)
	missing := filepath.Join(t.TempDir(), "ryijy-missing")

	_, _, err := execute(t, "render", "--plugin", missing, "--out", t.TempDir(), "--arg", "knot-size=4", path)
	if !errors.Is(err, executor.ErrPluginNotFound) {
		t.Errorf("error = %v, want ErrPluginNotFound", err)
	}
}

func TestRenderRequiresFlags(t *testing.T) {
	path := reducePattern(t)
	if _, _, err := execute(t, "render", path); err == nil || !strings.Contains(err.Error(), "required") {
		t.Errorf("error = %v, want required flag error", err)
	}
}

func TestChoiceValue(t *testing.T) {
	var s string
	v := newChoiceValue(&s, "table", "table", "json")

	if v.String() != "table" {
		t.Errorf("String() = %q, want table", v.String())
	}
	if err := v.Set(" JSON "); err != nil || s != "json" {
		t.Errorf("Set(JSON) = %v, value %q", err, s)
	}
	if err := v.Set("yaml"); err == nil {
		t.Error("Set(yaml) expected error")
	}
	if v.Type() != "table|json" {
		t.Errorf("Type() = %q", v.Type())
	}
}

func TestShowPreview(t *testing.T) {
	var buf bytes.Buffer
	tests := []struct {
		mode string
		want bool
	}{
		{mode: previewAlways, want: true},
		{mode: previewNever, want: false},
		{mode: previewAuto, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			if got := showPreview(tt.mode, &buf); got != tt.want {
				t.Errorf("showPreview(%s) = %v, want %v", tt.mode, got, tt.want)
			}
		})
	}
}

func TestFormatLegend(t *testing.T) {
	entries := []quantise.LegendEntry{
		{Index: 0, Hex: "#000000", Count: 0},
	}
	got := formatLegend(entries, 0, false)
	if !strings.Contains(got, "0.0%") {
		t.Errorf("zero total should render 0.0%%:\n%s", got)
	}
	// Unlabelled entries fall back to their index.
	lines := strings.Split(strings.TrimSpace(got), "\n")
	if !strings.HasPrefix(lines[len(lines)-1], "0 ") {
		t.Errorf("expected index fallback, got %q", lines[len(lines)-1])
	}
}
