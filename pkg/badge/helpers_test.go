package badge

import (
	"bytes"
	"errors"
	"testing"

	"github.com/citruspi/badger/pkg/icons"
	"github.com/citruspi/badger/pkg/metrics"
)

// testDataSet returns a fixed-width dataset over printable ASCII.
// Faces Mono and Wide and sizes 10 and 20 are configured, but Wide is only
// measured at 10.
func testDataSet(t *testing.T) *metrics.DataSet {
	t.Helper()

	table := func(advance, ascent, descent float64) *metrics.Table {
		adv := make(map[string]float64)
		for r := rune(0x20); r <= 0x7e; r++ {
			adv[string(r)] = advance
		}
		return &metrics.Table{Ascent: ascent, Descent: descent, Advances: adv}
	}

	src := &metrics.DataSet{
		Config: metrics.Config{Font: metrics.FontConfig{
			Faces: []string{"Mono", "Wide"},
			Sizes: []string{"10", "20"},
		}},
		Tables: map[string]map[string]*metrics.Table{
			"Mono": {"10": table(6, 8, 2), "20": table(12, 16, 4)},
			"Wide": {"10": table(10, 8, 2)},
		},
	}

	var buf bytes.Buffer
	if err := src.Write(&buf); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	d, err := metrics.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	return d
}

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := NewRegistry(testDataSet(t).Config.Font)
	if err != nil {
		t.Fatalf("NewRegistry() error: %v", err)
	}
	return r
}

func testCatalog() *icons.Catalog {
	return icons.New(map[string]icons.Icon{
		"github": {Title: "GitHub", Path: "M0 0h24v24H0z"},
	})
}

// recordingEngine remembers the last context it rendered.
type recordingEngine struct {
	last map[string]any
	err  error
}

func (e *recordingEngine) Render(name string, ctx map[string]any) (string, error) {
	e.last = ctx
	if e.err != nil {
		return "", e.err
	}
	return "<svg>" + name + "</svg>", nil
}

var errEngine = errors.New("engine exploded")
