package pointbin

import (
	"path/filepath"
	"strconv"
	"strings"
)

// SidecarExtension is the extension of the description file written next
// to every exported binary.
const SidecarExtension = ".txt"

// SidecarPath returns binPath with its extension replaced by ".txt".
// Only the final path element is considered, so dots in directory names
// are left alone.
func SidecarPath(binPath string) string {
	ext := filepath.Ext(binPath)
	return strings.TrimSuffix(binPath, ext) + SidecarExtension
}

// Sidecar renders the human-readable description of the export.
//
// The layout is fixed, including the trailing spaces on some lines. The data
// type is always reported as float, also for index exports.
func (e *Export) Sidecar(fileName string) string {
	var sb strings.Builder

	sb.WriteString(fileName + "\n")
	sb.WriteString("Num dimensions: " + strconv.Itoa(e.NumDimensions) + "\n")
	sb.WriteString("Num data points: " + strconv.Itoa(e.NumPoints) + "\n")
	sb.WriteString("Data type: float \n")

	if e.Derived {
		sb.WriteString("Derived: true \n")
		sb.WriteString("Source data: " + e.SourceName + "\n")
		sb.WriteString("Num dimensions (source): " + strconv.Itoa(e.SourceNumDimensions) + "\n")
		sb.WriteString("Num data points (source): " + strconv.Itoa(e.SourceNumPoints) + "\n")
	}

	if e.OnlyIndices {
		sb.WriteString("Contains only indices (e.g. of a selection) \n")
	}

	return sb.String()
}
