// Package pointbin loads raw binary files into point datasets and exports
// point datasets back to raw binary files with a plain-text sidecar.
//
// The on-disk format is deliberately minimal: a headerless little-endian
// array of samples laid out point-major, dimension-minor. The sidecar is
// documentation only and is never parsed back.
//
// pointbin does not own datasets. All dataset access goes through an
// injected Registry, and all user interaction goes through injected dialog
// and settings collaborators.
package pointbin

import (
	"context"
	"errors"
	"io"
)

// -----------------------------------------------------------------------------
// Core types
// -----------------------------------------------------------------------------

// DatasetID uniquely identifies a dataset within a registry.
type DatasetID string

// -----------------------------------------------------------------------------
// Dataset interfaces
// -----------------------------------------------------------------------------

// Dataset is a read-only handle to a point dataset owned by a Registry.
type Dataset interface {
	// ID returns the registry identifier.
	ID() DatasetID

	// Name returns the display name.
	Name() string

	// NumPoints returns the number of points in this view. For a full
	// dataset this is the row count of the raw buffer; for a selection it
	// is the number of selected indices.
	NumPoints() int

	// NumDimensions returns the number of samples per point.
	NumDimensions() int

	// ElementType returns the element type the samples are stored as.
	ElementType() ElementType

	// IsFull reports whether this view covers every row of the raw buffer.
	IsFull() bool

	// Indices returns the selected row indices, in selection order.
	// Meaningful only when IsFull is false.
	Indices() []int

	// Samples returns the complete raw sample buffer, row-major.
	// Callers must not modify the returned slice.
	Samples() ([]float32, error)

	// Parent returns the dataset this one was derived from, or nil.
	Parent() Dataset
}

// DatasetWriter is a dataset that has been created but not yet published.
type DatasetWriter interface {
	Dataset

	// SetData replaces the sample buffer and dimensionality.
	SetData(buf *SampleBuffer) error
}

// Registry abstracts the host's dataset store.
//
// Datasets returned by AddDataset and CreateDerivedData are pending: they
// are not visible through Datasets, Dataset or DatasetByName until
// NotifyDataAdded is called for them. Discard drops a pending dataset.
type Registry interface {
	// Datasets returns all published datasets.
	Datasets(ctx context.Context) ([]Dataset, error)

	// Dataset returns a published dataset by identifier.
	Dataset(ctx context.Context, id DatasetID) (Dataset, error)

	// DatasetByName returns a published dataset by display name.
	DatasetByName(ctx context.Context, name string) (Dataset, error)

	// AddDataset creates a pending, empty dataset.
	AddDataset(ctx context.Context, name string) (DatasetWriter, error)

	// CreateDerivedData creates a pending, empty dataset derived from parent.
	CreateDerivedData(ctx context.Context, name string, parent DatasetID) (DatasetWriter, error)

	// NotifyDataAdded publishes a pending dataset.
	NotifyDataAdded(ctx context.Context, id DatasetID) error

	// Discard removes a pending dataset. Discarding an unknown or already
	// published dataset is a no-op.
	Discard(ctx context.Context, id DatasetID) error
}

// -----------------------------------------------------------------------------
// File system interface
// -----------------------------------------------------------------------------

// FileSystem abstracts whole-file reads and writes.
type FileSystem interface {
	// ReadFile returns the complete file content.
	// Returns ErrFileNotFound if the path does not exist.
	ReadFile(ctx context.Context, path string) ([]byte, error)

	// WriteFile creates or truncates path and writes r to it.
	WriteFile(ctx context.Context, path string, r io.Reader) error

	// Exists checks whether a path exists.
	Exists(ctx context.Context, path string) (bool, error)

	// List returns paths under the given prefix.
	List(ctx context.Context, prefix string) ([]string, error)

	// Remove deletes the path if it exists.
	Remove(ctx context.Context, path string) error
}

// -----------------------------------------------------------------------------
// Settings interface
// -----------------------------------------------------------------------------

// Settings keys shared by the loader and exporter.
const (
	SettingDirectoryPath = "directoryPath"
	SettingDataType      = "dataType"
	SettingNumDimensions = "numDimensions"
	SettingStoreAs       = "storeAs"
)

// Settings is a key/value store for last-used choices, scoped to one
// plugin kind.
type Settings interface {
	// String returns the value for key, or "" if unset.
	String(key string) string

	// Int returns the value for key, or 0 if unset or not an integer.
	Int(key string) int

	// Set stores value under key and persists it.
	Set(key string, value any) error
}

// -----------------------------------------------------------------------------
// Dialog interfaces
// -----------------------------------------------------------------------------

// LoadPrompt is what the load dialog is initialized with.
type LoadPrompt struct {
	// FileName is the base name of the file being loaded, without extension.
	FileName string

	// Datasets lists the datasets that can be chosen as a parent.
	Datasets []Dataset

	// Defaults holds the last-used choices.
	Defaults LoadParameters
}

// LoadParameters are the choices collected by the load dialog.
type LoadParameters struct {
	Name          string
	ElementType   ElementType
	NumDimensions int
	Derived       bool
	Parent        DatasetID

	// StoreAs re-types the decoded samples. Nil keeps ElementType.
	StoreAs *ElementType
}

// LoadDialog collects LoadParameters. It returns false if the user cancelled.
type LoadDialog interface {
	LoadParameters(ctx context.Context, prompt LoadPrompt) (LoadParameters, bool, error)
}

// ExportChoice is the dataset selection made in the export dialog.
type ExportChoice struct {
	Name        string
	OnlyIndices bool
}

// ExportDialog collects the dataset to export and the save path.
// Both methods return false if the user cancelled.
type ExportDialog interface {
	ExportParameters(ctx context.Context, names []string) (ExportChoice, bool, error)
	SavePath(ctx context.Context, suggested string) (string, bool, error)
}

// -----------------------------------------------------------------------------
// Errors
// -----------------------------------------------------------------------------

// Error sentinel values. Returned errors wrap these; test with errors.Is.
var (
	// ErrFileNotFound indicates the source file could not be opened.
	ErrFileNotFound = errors.New("file not found")

	// ErrMalformedInput indicates a byte length not aligned to the element size.
	ErrMalformedInput = errors.New("malformed input")

	// ErrShapeMismatch indicates a sample count not divisible by the
	// dimensionality, or an index outside the sample buffer.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrWriteFailed indicates an output file could not be written.
	ErrWriteFailed = errors.New("write failed")

	// ErrNotFound indicates a requested dataset does not exist.
	ErrNotFound = errors.New("dataset not found")

	// ErrInvalidPath indicates a path that would escape the storage root.
	ErrInvalidPath = errors.New("invalid path: escapes storage root")

	// ErrUnknownElementType indicates an element type outside the supported set.
	ErrUnknownElementType = errors.New("unknown element type")
)
