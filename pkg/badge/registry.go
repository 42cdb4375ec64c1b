package badge

import (
	"slices"

	"github.com/citruspi/badger/pkg/errors"
	"github.com/citruspi/badger/pkg/metrics"
)

// Registry is the set of font faces and sizes badges may be rendered in.
// The first face and size are the defaults.
type Registry struct {
	faces []FontFace
	sizes []FontSize
}

// NewRegistry builds a registry from a dataset's capability lists.
func NewRegistry(cfg metrics.FontConfig) (*Registry, error) {
	if len(cfg.Faces) == 0 || len(cfg.Sizes) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidDataset, "font registry needs at least one face and one size")
	}

	r := &Registry{
		faces: make([]FontFace, len(cfg.Faces)),
		sizes: make([]FontSize, len(cfg.Sizes)),
	}
	for i, f := range cfg.Faces {
		r.faces[i] = FontFace(f)
	}
	for i, s := range cfg.Sizes {
		r.sizes[i] = FontSize(s)
	}
	return r, nil
}

// DefaultFace returns the first configured face.
func (r *Registry) DefaultFace() FontFace { return r.faces[0] }

// DefaultSize returns the first configured size.
func (r *Registry) DefaultSize() FontSize { return r.sizes[0] }

// Faces returns a copy of the configured faces.
func (r *Registry) Faces() []FontFace { return slices.Clone(r.faces) }

// Sizes returns a copy of the configured sizes.
func (r *Registry) Sizes() []FontSize { return slices.Clone(r.sizes) }

// Supports reports whether face and size are each configured. The two lists
// are checked independently, so a pair the dataset never measured is still
// accepted here and only fails later, at layout.
func (r *Registry) Supports(face FontFace, size FontSize) bool {
	return slices.Contains(r.faces, face) && slices.Contains(r.sizes, size)
}
