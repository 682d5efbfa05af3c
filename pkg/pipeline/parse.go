package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"io"

	"github.com/matzehuels/canopy/pkg/catalog"
	"github.com/matzehuels/canopy/pkg/errors"
)

// maxRequestBytes bounds a decoded request. Outlines are a few hundred
// points at most.
const maxRequestBytes = 4 << 20

// DecodeOptions reads a JSON request body. Unknown fields are rejected so
// typos like "raster_width" surface as errors instead of silent defaults.
func DecodeOptions(r io.Reader) (Options, error) {
	var opts Options
	dec := json.NewDecoder(io.LimitReader(r, maxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil {
		return Options{}, errors.New(errors.ErrCodeInvalidInput, "invalid request body: %v", err)
	}
	return opts, nil
}

// LoadPlant reads plant data from a .json or .toml plant file.
func LoadPlant(path string) (*PlantData, error) {
	e, err := catalog.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromEntry(e), nil
}

// LookupPlant resolves plant data from a catalog source.
func LookupPlant(ctx context.Context, src catalog.Source, name string) (*PlantData, error) {
	e, err := src.Lookup(ctx, name)
	if err != nil {
		return nil, err
	}
	return FromEntry(e), nil
}

// mustJSON encodes v for hashing; encoding plain data cannot fail.
func mustJSON(v any) []byte {
	var buf bytes.Buffer
	_ = json.NewEncoder(&buf).Encode(v)
	return buf.Bytes()
}
