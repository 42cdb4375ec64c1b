package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/citruspi/badger/pkg/errors"
	"github.com/citruspi/badger/pkg/metrics"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, log.InfoLevel)
	t.Cleanup(func() { c.Close() })

	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRootCommandTree(t *testing.T) {
	root := New(io.Discard, log.InfoLevel).RootCommand()

	want := []string{"completion", "dataset", "fonts", "icons", "render", "server"}
	var got []string
	for _, cmd := range root.Commands() {
		got = append(got, cmd.Name())
	}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("subcommands = %v, want %v", got, want)
	}

	for _, name := range []string{"verbose", "config", "log-file"} {
		if root.PersistentFlags().Lookup(name) == nil {
			t.Errorf("missing persistent flag --%s", name)
		}
	}
}

func TestRenderCommandStdout(t *testing.T) {
	out, err := execute(t, "render", "build", "passing", "--title-bg-colour", "#4c1")
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	for _, s := range []string{"<svg", ">build</text>", ">passing</text>", `fill="#4c1"`} {
		if !strings.Contains(out, s) {
			t.Errorf("output missing %q:\n%s", s, out)
		}
	}
}

func TestRenderCommandFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "badge.svg")
	if _, err := execute(t, "render", "--title", "stars", "--icon", "github", "-o", path); err != nil {
		t.Fatalf("render error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !bytes.Contains(data, []byte("<path d=")) {
		t.Errorf("badge should contain the icon:\n%s", data)
	}
}

func TestRenderCommandErrorBadge(t *testing.T) {
	out, err := execute(t, "render", "x", "--font-face", "bogus")
	if !errors.Is(err, errors.ErrCodeUnsupportedFont) {
		t.Fatalf("render error = %v, want UNSUPPORTED_FONT", err)
	}
	if !strings.Contains(out, ">error</text>") {
		t.Errorf("the error badge should still be written:\n%s", out)
	}
}

func TestRenderCommandDuplicateTitle(t *testing.T) {
	_, err := execute(t, "render", "build", "--title", "other")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("render error = %v, want INVALID_INPUT", err)
	}
}

func TestDatasetBuildCommand(t *testing.T) {
	dir := t.TempDir()
	font := filepath.Join(dir, "Regular.ttf")
	if err := os.WriteFile(font, goregular.TTF, 0o644); err != nil {
		t.Fatalf("write font: %v", err)
	}
	out := filepath.Join(dir, "metrics.json")

	if _, err := execute(t, "dataset", "build", "--face", font, "--face", "Other="+font, "--sizes", "11,14", "-o", out); err != nil {
		t.Fatalf("dataset build error: %v", err)
	}

	ds, err := metrics.Load(out)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got := strings.Join(ds.Config.Font.Faces, ","); got != "Regular,Other" {
		t.Errorf("faces = %s, want Regular,Other", got)
	}
	if got := strings.Join(ds.Config.Font.Sizes, ","); got != "11,14" {
		t.Errorf("sizes = %s, want 11,14", got)
	}

	// The built dataset drives the renderer.
	svg, err := execute(t, "render", "hi", "-r", out, "--font-face", "Other", "--font-size", "14")
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if !strings.Contains(svg, `font-size="14"`) {
		t.Errorf("badge should use size 14:\n%s", svg)
	}
}

func TestParseFaceArg(t *testing.T) {
	tests := []struct {
		arg, name, path string
	}{
		{"Inter=fonts/Inter.woff2", "Inter", "fonts/Inter.woff2"},
		{"Open Sans = OpenSans.ttf", "Open Sans", "OpenSans.ttf"},
		{"fonts/DejaVuSans.ttf", "DejaVuSans", "fonts/DejaVuSans.ttf"},
		{"=x.ttf", "", "x.ttf"},
	}
	for _, tt := range tests {
		name, path := parseFaceArg(tt.arg)
		if name != tt.name || path != tt.path {
			t.Errorf("parseFaceArg(%q) = %q, %q, want %q, %q", tt.arg, name, path, tt.name, tt.path)
		}
	}
}

func TestFontSourcesErrors(t *testing.T) {
	dir := t.TempDir()
	font := filepath.Join(dir, "a.ttf")
	if err := os.WriteFile(font, goregular.TTF, 0o644); err != nil {
		t.Fatalf("write font: %v", err)
	}

	for _, faces := range [][]string{
		{"=" + font},
		{"A=" + font, "A=" + font},
		{filepath.Join(dir, "missing.ttf")},
	} {
		if _, err := fontSources(faces); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("fontSources(%v) error = %v, want INVALID_INPUT", faces, err)
		}
	}

	sources, err := fontSources(nil)
	if err != nil {
		t.Fatalf("fontSources(nil) error: %v", err)
	}
	if len(sources) == 0 || sources[0].Name != "Go" {
		t.Errorf("builtin sources should start with the Go face, got %d sources", len(sources))
	}
}
