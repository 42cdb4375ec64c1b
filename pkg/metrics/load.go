package metrics

import (
	"encoding/json"
	"io"
	"os"

	"github.com/citruspi/badger/pkg/errors"
)

// Load reads a JSON dataset from path.
func Load(path string) (*DataSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "open dataset %s", path)
	}
	defer f.Close()

	return Read(f)
}

// Read decodes and validates a JSON dataset.
func Read(r io.Reader) (*DataSet, error) {
	var d DataSet
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "decode dataset")
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Write encodes the dataset as indented JSON.
func (d *DataSet) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}
