package pointbin

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSidecar_Plain(t *testing.T) {
	e := &Export{NumDimensions: 3, NumPoints: 2}

	want := "points.bin\n" +
		"Num dimensions: 3\n" +
		"Num data points: 2\n" +
		"Data type: float \n"
	assert.Equal(t, want, e.Sidecar("points.bin"))
}

func TestSidecar_Derived(t *testing.T) {
	e := &Export{
		NumDimensions:       2,
		NumPoints:           100,
		Derived:             true,
		SourceName:          "parent",
		SourceNumDimensions: 4,
		SourceNumPoints:     100,
	}

	got := e.Sidecar("child.bin")

	assert.Contains(t, got, "Derived: true \n")
	assert.Contains(t, got, "Source data: parent\n")
	assert.Contains(t, got, "Num dimensions (source): 4\n")
	assert.Contains(t, got, "Num data points (source): 100\n")
	assert.NotContains(t, got, "Contains only indices")
}

func TestSidecar_OnlyIndicesStillReportsFloat(t *testing.T) {
	e := &Export{NumDimensions: 5, NumPoints: 3, OnlyIndices: true}

	want := "sel.bin\n" +
		"Num dimensions: 5\n" +
		"Num data points: 3\n" +
		"Data type: float \n" +
		"Contains only indices (e.g. of a selection) \n"
	assert.Equal(t, want, e.Sidecar("sel.bin"))
}

func TestSidecarPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"data.bin", "data.txt"},
		{filepath.Join("out.v2", "data.bin"), filepath.Join("out.v2", "data.txt")},
		{"archive.tar.bin", "archive.tar.txt"},
		{"noext", "noext.txt"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SidecarPath(tt.in), tt.in)
	}
}
