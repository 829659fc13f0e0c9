package pointbin

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// -----------------------------------------------------------------------------
// Export Descriptor
// -----------------------------------------------------------------------------

// Export is the flattened content of one dataset plus the provenance that
// goes into its sidecar. It lives for a single export call.
type Export struct {
	// Values is the flat row-major payload, or the selected indices when
	// OnlyIndices is set.
	Values []float32

	NumDimensions int
	NumPoints     int

	Derived             bool
	SourceName          string
	SourceNumDimensions int
	SourceNumPoints     int

	OnlyIndices bool
}

// Bytes returns Values as a headerless little-endian float32 array.
func (e *Export) Bytes() []byte {
	return MarshalSamples(e.Values)
}

// -----------------------------------------------------------------------------
// Encoder
// -----------------------------------------------------------------------------

// Encode flattens the selected rows of ds into an Export.
//
// A full dataset selects rows 0..NumPoints-1. Otherwise the dataset's own
// index list is used in the order given, unsorted. Each selected row
// contributes its NumDimensions samples in dimension order.
//
// With onlyIndices the selected row indices themselves are exported,
// converted to float32, and no sample data is read.
func Encode(ds Dataset, onlyIndices bool) (*Export, error) {
	if ds == nil {
		return nil, errors.New("pointbin: encode: dataset is required")
	}

	numDimensions := ds.NumDimensions()
	rows := selectedRows(ds)

	var values []float32
	if onlyIndices {
		values = make([]float32, len(rows))
		for i, row := range rows {
			values[i] = float32(row)
		}
	} else {
		samples, err := ds.Samples()
		if err != nil {
			return nil, fmt.Errorf("pointbin: encode %q: %w", ds.Name(), err)
		}
		values, err = flatten(samples, rows, numDimensions)
		if err != nil {
			return nil, fmt.Errorf("pointbin: encode %q: %w", ds.Name(), err)
		}
	}

	export := &Export{
		Values:        values,
		NumDimensions: numDimensions,
		NumPoints:     ds.NumPoints(),
		OnlyIndices:   onlyIndices,
	}

	if parent := ds.Parent(); parent != nil {
		export.Derived = true
		export.SourceName = parent.Name()
		export.SourceNumDimensions = parent.NumDimensions()
		export.SourceNumPoints = parent.NumPoints()
	}

	return export, nil
}

// selectedRows returns the row indices covered by ds, in export order.
func selectedRows(ds Dataset) []int {
	if !ds.IsFull() {
		return ds.Indices()
	}
	rows := make([]int, ds.NumPoints())
	for i := range rows {
		rows[i] = i
	}
	return rows
}

func flatten(samples []float32, rows []int, numDimensions int) ([]float32, error) {
	if numDimensions < 1 {
		return nil, fmt.Errorf("%w: dimensionality must be positive, got %d", ErrShapeMismatch, numDimensions)
	}
	out := make([]float32, 0, len(rows)*numDimensions)
	for _, row := range rows {
		start := row * numDimensions
		if row < 0 || start+numDimensions > len(samples) {
			return nil, fmt.Errorf("%w: row %d outside buffer of %d samples", ErrShapeMismatch, row, len(samples))
		}
		out = append(out, samples[start:start+numDimensions]...)
	}
	return out, nil
}

// MarshalSamples encodes values as a headerless little-endian float32 array.
func MarshalSamples(values []float32) []byte {
	b := make([]byte, len(values)*4)
	for i, v := range values {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(v))
	}
	return b
}

// -----------------------------------------------------------------------------
// Selection view
// -----------------------------------------------------------------------------

// selection is a non-full view over another dataset's rows.
type selection struct {
	Dataset
	indices []int
}

// Select returns a view of ds restricted to the given rows, in the given
// order. The view shares the underlying sample buffer.
func Select(ds Dataset, indices []int) Dataset {
	rows := make([]int, len(indices))
	copy(rows, indices)
	return &selection{Dataset: ds, indices: rows}
}

func (s *selection) NumPoints() int { return len(s.indices) }

func (s *selection) IsFull() bool { return false }

func (s *selection) Indices() []int {
	out := make([]int, len(s.indices))
	copy(out, s.indices)
	return out
}
