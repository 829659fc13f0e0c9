package pointbin

import "fmt"

// -----------------------------------------------------------------------------
// Sample Buffer
// -----------------------------------------------------------------------------

// SampleBuffer is a row-major (numPoints, numDimensions) matrix held as one
// flat slice in the float32 working representation.
type SampleBuffer struct {
	// ElementType is the type the samples are stored as.
	ElementType ElementType

	// NumDimensions is the number of samples per point.
	NumDimensions int

	// Values holds NumPoints()*NumDimensions samples.
	Values []float32
}

// NumPoints returns the number of rows.
func (b *SampleBuffer) NumPoints() int {
	if b.NumDimensions <= 0 {
		return 0
	}
	return len(b.Values) / b.NumDimensions
}

// Point returns the samples of row i. The slice aliases the buffer.
func (b *SampleBuffer) Point(i int) []float32 {
	start := i * b.NumDimensions
	return b.Values[start : start+b.NumDimensions]
}

// Validate checks that the buffer has a valid element type and a length
// that is an exact multiple of NumDimensions.
func (b *SampleBuffer) Validate() error {
	if !b.ElementType.Valid() {
		return fmt.Errorf("pointbin: %w: %d", ErrUnknownElementType, int(b.ElementType))
	}
	if b.NumDimensions < 1 {
		return fmt.Errorf("pointbin: %w: dimensionality must be positive, got %d", ErrShapeMismatch, b.NumDimensions)
	}
	if len(b.Values)%b.NumDimensions != 0 {
		return fmt.Errorf("pointbin: %w: %d samples not divisible by %d dimensions",
			ErrShapeMismatch, len(b.Values), b.NumDimensions)
	}
	return nil
}

// StoreAs returns a copy of the buffer re-typed to t.
func (b *SampleBuffer) StoreAs(t ElementType) (*SampleBuffer, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("pointbin: store as: %w: %d", ErrUnknownElementType, int(t))
	}
	values := make([]float32, len(b.Values))
	for i, v := range b.Values {
		values[i] = t.Convert(v)
	}
	return &SampleBuffer{
		ElementType:   t,
		NumDimensions: b.NumDimensions,
		Values:        values,
	}, nil
}

// -----------------------------------------------------------------------------
// Decoder
// -----------------------------------------------------------------------------

// Decode interprets b as a headerless little-endian array of elements of
// type t and shapes it into rows of numDimensions samples.
//
// Returns ErrMalformedInput if len(b) is not a multiple of the element size
// and ErrShapeMismatch if the element count is not a multiple of
// numDimensions. The input is never truncated.
func Decode(b []byte, t ElementType, numDimensions int) (*SampleBuffer, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("pointbin: decode: %w: %d", ErrUnknownElementType, int(t))
	}
	if numDimensions < 1 {
		return nil, fmt.Errorf("pointbin: decode: %w: dimensionality must be positive, got %d",
			ErrShapeMismatch, numDimensions)
	}

	size := t.Size()
	if len(b)%size != 0 {
		return nil, fmt.Errorf("pointbin: decode: %w: %d bytes is not a multiple of the %d-byte %s element",
			ErrMalformedInput, len(b), size, t)
	}

	count := len(b) / size
	if count%numDimensions != 0 {
		return nil, fmt.Errorf("pointbin: decode: %w: %d samples not divisible by %d dimensions",
			ErrShapeMismatch, count, numDimensions)
	}

	values := make([]float32, count)
	for i := range values {
		values[i] = t.decodeElement(b[i*size:])
	}

	return &SampleBuffer{
		ElementType:   t,
		NumDimensions: numDimensions,
		Values:        values,
	}, nil
}
