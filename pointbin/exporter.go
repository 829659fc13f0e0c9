package pointbin

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
)

// ExporterKind is the settings scope of the exporter.
const ExporterKind = "BinExporter"

// BinaryExtension is the extension suggested for exported sample files.
const BinaryExtension = ".bin"

// ExportResult describes the files written by an export.
type ExportResult struct {
	Export       *Export
	BinPath      string
	SidecarPath  string
	BytesWritten int
}

// Exporter writes point datasets to raw binary files with a text sidecar.
type Exporter struct {
	registry Registry
	files    FileSystem
	dialog   ExportDialog
	settings Settings
	log      logrus.FieldLogger
}

// NewExporter creates an Exporter. registry and files are required. dialog
// is only needed by Export; settings may be nil.
func NewExporter(registry Registry, files FileSystem, dialog ExportDialog, settings Settings, opts ...Option) (*Exporter, error) {
	if registry == nil {
		return nil, errors.New("pointbin: registry is required")
	}
	if files == nil {
		return nil, errors.New("pointbin: file system is required")
	}
	cfg := resolveOptions(opts)
	return &Exporter{
		registry: registry,
		files:    files,
		dialog:   dialog,
		settings: settings,
		log:      cfg.logger.WithField("plugin", ExporterKind),
	}, nil
}

// Export asks the dialog for a dataset and a save path and writes it.
//
// Export returns (nil, nil) without reading any dataset or writing any file
// if either dialog step is cancelled or yields an empty value.
func (e *Exporter) Export(ctx context.Context) (*ExportResult, error) {
	if e.dialog == nil {
		return nil, errors.New("pointbin: export dialog is required")
	}

	datasets, err := e.registry.Datasets(ctx)
	if err != nil {
		return nil, fmt.Errorf("pointbin: list datasets: %w", err)
	}
	names := make([]string, len(datasets))
	for i, ds := range datasets {
		names[i] = ds.Name()
	}

	choice, ok, err := e.dialog.ExportParameters(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("pointbin: export dialog: %w", err)
	}
	if !ok || choice.Name == "" {
		e.log.Debug("no data written to disk: no data set selected")
		return nil, nil
	}

	path, ok, err := e.dialog.SavePath(ctx, e.suggestedPath(choice.Name))
	if err != nil {
		return nil, fmt.Errorf("pointbin: save dialog: %w", err)
	}
	if !ok || path == "" {
		e.log.Debug("no data written to disk: file name empty")
		return nil, nil
	}

	if e.settings != nil {
		if err := e.settings.Set(SettingDirectoryPath, directoryOf(path)); err != nil {
			e.log.WithError(err).Warn("could not store export directory")
		}
	}

	return e.ExportTo(ctx, choice.Name, path, choice.OnlyIndices)
}

// ExportTo writes the named dataset to path and its sidecar next to it.
// Existing files are overwritten.
func (e *Exporter) ExportTo(ctx context.Context, name, path string, onlyIndices bool) (*ExportResult, error) {
	ds, err := e.registry.DatasetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("pointbin: export %q: %w", name, err)
	}
	return e.ExportDataset(ctx, ds, path, onlyIndices)
}

// ExportDataset writes ds to path and its sidecar next to it.
func (e *Exporter) ExportDataset(ctx context.Context, ds Dataset, path string, onlyIndices bool) (*ExportResult, error) {
	if path == "" {
		return nil, fmt.Errorf("pointbin: export: %w", ErrInvalidPath)
	}

	export, err := Encode(ds, onlyIndices)
	if err != nil {
		return nil, err
	}

	log := e.log.WithFields(logrus.Fields{
		"dataset": ds.Name(),
		"path":    path,
	})

	data := export.Bytes()
	if err := e.files.WriteFile(ctx, path, bytes.NewReader(data)); err != nil {
		log.WithError(err).Error("could not write binary file")
		return nil, fmt.Errorf("pointbin: write %s: %w: %w", path, ErrWriteFailed, err)
	}

	sidecarPath := SidecarPath(path)
	sidecar := export.Sidecar(filepath.Base(path))
	if err := e.files.WriteFile(ctx, sidecarPath, strings.NewReader(sidecar)); err != nil {
		log.WithError(err).Error("could not write sidecar file")
		return nil, fmt.Errorf("pointbin: write %s: %w: %w", sidecarPath, ErrWriteFailed, err)
	}

	log.WithFields(logrus.Fields{
		"dims":         export.NumDimensions,
		"points":       export.NumPoints,
		"only_indices": export.OnlyIndices,
		"bytes":        humanize.Bytes(uint64(len(data))),
	}).Info("data written to disk")

	return &ExportResult{
		Export:       export,
		BinPath:      path,
		SidecarPath:  sidecarPath,
		BytesWritten: len(data),
	}, nil
}

func (e *Exporter) suggestedPath(name string) string {
	dir := ""
	if e.settings != nil {
		dir = e.settings.String(SettingDirectoryPath)
	}
	if dir == "" {
		return name + BinaryExtension
	}
	return filepath.Join(dir, name+BinaryExtension)
}

func directoryOf(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return filepath.Dir(abs)
	}
	return filepath.Dir(path)
}
