package pointbin

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// ElementType enumerates the supported point element types.
type ElementType int

// Element type constants. Float32 and Uint8 are the historical pair; the
// rest extend the set to all fixed-width numeric types.
const (
	Float32 ElementType = iota
	Uint8
	Int8
	Uint16
	Int16
	Uint32
	Int32
	Float64
	elementTypeMax // sentinel for validation
)

// ElementTypes returns every supported element type in declaration order.
func ElementTypes() []ElementType {
	types := make([]ElementType, 0, int(elementTypeMax))
	for t := Float32; t < elementTypeMax; t++ {
		types = append(types, t)
	}
	return types
}

// Valid reports whether t is in the supported set.
func (t ElementType) Valid() bool {
	return t >= 0 && t < elementTypeMax
}

// Size returns the byte size of one element.
func (t ElementType) Size() int {
	switch t {
	case Uint8, Int8:
		return 1
	case Uint16, Int16:
		return 2
	case Float32, Uint32, Int32:
		return 4
	case Float64:
		return 8
	default:
		return 0
	}
}

// String returns the canonical lowercase name.
func (t ElementType) String() string {
	switch t {
	case Float32:
		return "float32"
	case Uint8:
		return "uint8"
	case Int8:
		return "int8"
	case Uint16:
		return "uint16"
	case Int16:
		return "int16"
	case Uint32:
		return "uint32"
	case Int32:
		return "int32"
	case Float64:
		return "float64"
	default:
		return fmt.Sprintf("ElementType(%d)", int(t))
	}
}

// Label returns the name shown in the load dialog.
func (t ElementType) Label() string {
	switch t {
	case Float32:
		return "Float"
	case Uint8:
		return "Unsigned Byte"
	case Int8:
		return "Signed Byte"
	case Uint16:
		return "Unsigned Short"
	case Int16:
		return "Short"
	case Uint32:
		return "Unsigned Int"
	case Int32:
		return "Int"
	case Float64:
		return "Double"
	default:
		return t.String()
	}
}

// ParseElementType resolves a canonical name, a dialog label, or one of the
// aliases "float", "ubyte" and "byte". Matching is case-insensitive.
func ParseElementType(s string) (ElementType, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "float", "single":
		return Float32, nil
	case "ubyte", "byte":
		return Uint8, nil
	case "double":
		return Float64, nil
	}
	for _, t := range ElementTypes() {
		if name == t.String() || name == strings.ToLower(t.Label()) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownElementType, s)
}

// Convert maps a working-representation value into this type's domain.
// Integer types truncate toward zero and saturate at their bounds, NaN
// becomes zero. Float types pass values through.
func (t ElementType) Convert(v float32) float32 {
	switch t {
	case Float32, Float64:
		return v
	case Uint8:
		return saturate(v, 0, math.MaxUint8)
	case Int8:
		return saturate(v, math.MinInt8, math.MaxInt8)
	case Uint16:
		return saturate(v, 0, math.MaxUint16)
	case Int16:
		return saturate(v, math.MinInt16, math.MaxInt16)
	case Uint32:
		return saturate(v, 0, math.MaxUint32)
	case Int32:
		return saturate(v, math.MinInt32, math.MaxInt32)
	default:
		return v
	}
}

func saturate(v float32, lo, hi float64) float32 {
	f := float64(v)
	if math.IsNaN(f) {
		return 0
	}
	f = math.Trunc(f)
	if f < lo {
		f = lo
	}
	if f > hi {
		f = hi
	}
	r := float32(f)
	if float64(r) > hi || float64(r) < lo {
		r = math.Nextafter32(r, 0)
	}
	return r
}

// decodeElement reads one little-endian element from b.
// b must hold at least t.Size() bytes.
func (t ElementType) decodeElement(b []byte) float32 {
	switch t {
	case Float32:
		return math.Float32frombits(binary.LittleEndian.Uint32(b))
	case Uint8:
		return float32(b[0])
	case Int8:
		return float32(int8(b[0]))
	case Uint16:
		return float32(binary.LittleEndian.Uint16(b))
	case Int16:
		return float32(int16(binary.LittleEndian.Uint16(b)))
	case Uint32:
		return float32(binary.LittleEndian.Uint32(b))
	case Int32:
		return float32(int32(binary.LittleEndian.Uint32(b)))
	case Float64:
		return float32(math.Float64frombits(binary.LittleEndian.Uint64(b)))
	default:
		return 0
	}
}
