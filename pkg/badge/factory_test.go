package badge

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/citruspi/badger/pkg/errors"
	"github.com/citruspi/badger/pkg/observability"
	"github.com/citruspi/badger/pkg/template"
)

func testFactory(t *testing.T) *Factory {
	t.Helper()
	engine, err := template.Default()
	if err != nil {
		t.Fatalf("template.Default() error: %v", err)
	}
	f, err := NewFactory(Options{DataSet: testDataSet(t), Icons: testCatalog(), Engine: engine})
	if err != nil {
		t.Fatalf("NewFactory() error: %v", err)
	}
	return f
}

func TestNewFactoryRequiresDataSet(t *testing.T) {
	if _, err := NewFactory(Options{}); !errors.Is(err, errors.ErrCodeInvalidDataset) {
		t.Errorf("NewFactory() error = %v, want INVALID_DATASET", err)
	}
}

func TestNewFactoryVerifiesFallback(t *testing.T) {
	ds := testDataSet(t)
	ds.Config.Font.Faces = []string{"Wide", "Mono"}
	ds.Config.Font.Sizes = []string{"20", "10"}

	_, err := NewFactory(Options{DataSet: ds})
	if !errors.Is(err, errors.ErrCodeInvalidDataset) {
		t.Fatalf("NewFactory() error = %v, want INVALID_DATASET", err)
	}
	if !strings.Contains(err.Error(), "Wide 20px") {
		t.Errorf("error should name the default font: %v", err)
	}
}

func TestNewFactoryDefaults(t *testing.T) {
	f, err := NewFactory(Options{DataSet: testDataSet(t)})
	if err != nil {
		t.Fatalf("NewFactory() error: %v", err)
	}
	if _, ok := f.Icons().Lookup("github"); !ok {
		t.Error("default catalog should be loaded")
	}
	if f.Registry().DefaultFace() != "Mono" {
		t.Errorf("default face = %s, want Mono", f.Registry().DefaultFace())
	}
}

func TestRenderEndToEnd(t *testing.T) {
	f := testFactory(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     Request
		want    []string
		notWant []string
	}{
		{
			name: "title and text",
			req:  Request{Title: "Build", Text: String("Passing")},
			want: []string{">Build</text>", ">Passing</text>", `fill="#fff"`, `fill="#000"`},
		},
		{
			name:    "escaped title",
			req:     Request{Title: "A<B"},
			want:    []string{">A&lt;B</text>"},
			notWant: []string{"A<B"},
		},
		{
			name:    "icon without text",
			req:     Request{Title: "repo", Icon: String("github")},
			want:    []string{`<path d="M0 0h24v24H0z"/>`, "scale(0.38)"},
			notWant: []string{`<rect x=`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svg, err := f.Render(ctx, tt.req)
			if err != nil {
				t.Fatalf("Render() error: %v", err)
			}
			if !strings.HasPrefix(svg, "<svg") {
				t.Errorf("output should be an SVG document: %.40q", svg)
			}
			for _, s := range tt.want {
				if !strings.Contains(svg, s) {
					t.Errorf("output missing %q:\n%s", s, svg)
				}
			}
			for _, s := range tt.notWant {
				if strings.Contains(svg, s) {
					t.Errorf("output should not contain %q:\n%s", s, svg)
				}
			}
		})
	}
}

func TestRenderErrorBadge(t *testing.T) {
	f := testFactory(t)
	ctx := context.Background()

	_, err := f.Render(ctx, Request{Title: "x", FontFace: Face("bogus")})
	if !errors.Is(err, errors.ErrCodeUnsupportedFont) {
		t.Fatalf("Render() error = %v, want UNSUPPORTED_FONT", err)
	}

	svg := f.RenderError(ctx, err)
	for _, s := range []string{">error</text>", ErrorTitleBgColour, ">unsupported font: bogus 10px</text>"} {
		if !strings.Contains(svg, s) {
			t.Errorf("error badge missing %q:\n%s", s, svg)
		}
	}
}

func TestRenderErrorFallback(t *testing.T) {
	f := testFactory(t)

	svg := f.RenderError(context.Background(), errors.New(errors.ErrCodeInvalidIcon, "invalid icon: ☃"))
	if !strings.Contains(svg, ">"+FallbackMessage+"</text>") {
		t.Errorf("unrenderable message should fall back to %q:\n%s", FallbackMessage, svg)
	}
	if !strings.Contains(svg, ">error</text>") {
		t.Error("fallback badge should still carry the error title")
	}
}

func TestRenderErrorEscapesMessage(t *testing.T) {
	f := testFactory(t)

	svg := f.RenderError(context.Background(), errors.New(errors.ErrCodeInvalidColour, "invalid colour: <script>"))
	if strings.Contains(svg, "<script>") {
		t.Errorf("message should be escaped:\n%s", svg)
	}
	if !strings.Contains(svg, "&lt;script&gt;") {
		t.Errorf("escaped message missing:\n%s", svg)
	}
}

type countingHooks struct {
	mu       sync.Mutex
	starts   int
	failures int
	stages   []string
}

func (h *countingHooks) OnRenderStart(context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.starts++
}

func (h *countingHooks) OnRenderComplete(_ context.Context, _ time.Duration, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err != nil {
		h.failures++
	}
}

func (h *countingHooks) OnStageComplete(_ context.Context, stage string, _ time.Duration, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stages = append(h.stages, stage)
}

func TestRenderHooks(t *testing.T) {
	hooks := &countingHooks{}
	observability.SetRenderHooks(hooks)
	defer observability.Reset()

	f := testFactory(t)
	ctx := context.Background()

	if _, err := f.Render(ctx, Request{Title: "ok"}); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	_, err := f.Render(ctx, Request{Title: "bad", TitleColour: String("red")})
	f.RenderError(ctx, err)

	if hooks.starts != 2 {
		t.Errorf("starts = %d, want 2", hooks.starts)
	}
	if hooks.failures != 1 {
		t.Errorf("failures = %d, want 1", hooks.failures)
	}
	want := []string{
		observability.StageNormalize, observability.StageMeasure, observability.StageCompose,
		observability.StageNormalize,
	}
	if strings.Join(hooks.stages, ",") != strings.Join(want, ",") {
		t.Errorf("stages = %v, want %v", hooks.stages, want)
	}
}

func TestRenderConcurrent(t *testing.T) {
	f := testFactory(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := Request{Title: "build", Text: String(strings.Repeat("x", i+1))}
			if i%2 == 0 {
				req.Icon = String("github")
			}
			if _, err := f.Render(ctx, req); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Render() error: %v", err)
	}
}
