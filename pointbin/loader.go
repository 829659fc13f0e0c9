package pointbin

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
)

// LoaderKind is the settings scope of the loader.
const LoaderKind = "BinLoader"

// LoadResult describes a dataset registered by Load.
type LoadResult struct {
	Dataset Dataset
	Buffer  *SampleBuffer
}

// Loader reads raw binary files and registers them as point datasets.
type Loader struct {
	registry Registry
	files    FileSystem
	dialog   LoadDialog
	settings Settings
	log      logrus.FieldLogger
}

// NewLoader creates a Loader. registry, files and dialog are required;
// settings may be nil, in which case no choices are remembered.
func NewLoader(registry Registry, files FileSystem, dialog LoadDialog, settings Settings, opts ...Option) (*Loader, error) {
	if registry == nil {
		return nil, errors.New("pointbin: registry is required")
	}
	if files == nil {
		return nil, errors.New("pointbin: file system is required")
	}
	if dialog == nil {
		return nil, errors.New("pointbin: load dialog is required")
	}
	cfg := resolveOptions(opts)
	return &Loader{
		registry: registry,
		files:    files,
		dialog:   dialog,
		settings: settings,
		log:      cfg.logger.WithField("plugin", LoaderKind),
	}, nil
}

// Load reads path, asks the dialog how to interpret it and registers the
// result.
//
// Load returns (nil, nil) without touching the registry if path is empty,
// the dialog is cancelled, or no dataset name was given. Decoding errors
// are reported before any dataset is created; if registration fails midway
// the pending dataset is discarded.
func (l *Loader) Load(ctx context.Context, path string) (*LoadResult, error) {
	if path == "" {
		l.log.Debug("no file selected")
		return nil, nil
	}

	log := l.log.WithField("path", path)
	log.Info("loading BIN file")

	contents, err := l.files.ReadFile(ctx, path)
	if err != nil {
		log.WithError(err).Error("file could not be opened for reading")
		if errors.Is(err, ErrFileNotFound) {
			return nil, fmt.Errorf("pointbin: load %s: %w", path, err)
		}
		return nil, fmt.Errorf("pointbin: load %s: %w: %w", path, ErrFileNotFound, err)
	}
	log.WithField("bytes", humanize.Bytes(uint64(len(contents)))).Debug("read file")

	datasets, err := l.registry.Datasets(ctx)
	if err != nil {
		return nil, fmt.Errorf("pointbin: list datasets: %w", err)
	}

	prompt := LoadPrompt{
		FileName: baseName(path),
		Datasets: datasets,
		Defaults: loadDefaults(l.settings),
	}
	prompt.Defaults.Name = prompt.FileName

	params, ok, err := l.dialog.LoadParameters(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("pointbin: load dialog: %w", err)
	}
	if !ok {
		log.Debug("load cancelled")
		return nil, nil
	}

	if err := saveDefaults(l.settings, params); err != nil {
		log.WithError(err).Warn("could not store load defaults")
	}

	if params.Name == "" {
		log.Debug("no dataset name given")
		return nil, nil
	}

	buf, err := Decode(contents, params.ElementType, params.NumDimensions)
	if err != nil {
		return nil, fmt.Errorf("pointbin: load %s: %w", path, err)
	}
	if params.StoreAs != nil && *params.StoreAs != buf.ElementType {
		if buf, err = buf.StoreAs(*params.StoreAs); err != nil {
			return nil, err
		}
	}

	ds, err := l.register(ctx, params, buf)
	if err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"dataset": ds.Name(),
		"dims":    ds.NumDimensions(),
		"points":  ds.NumPoints(),
		"type":    buf.ElementType.String(),
	}).Info("BIN file loaded")

	return &LoadResult{Dataset: ds, Buffer: buf}, nil
}

func (l *Loader) register(ctx context.Context, params LoadParameters, buf *SampleBuffer) (Dataset, error) {
	var (
		w   DatasetWriter
		err error
	)
	if params.Derived && params.Parent != "" {
		w, err = l.registry.CreateDerivedData(ctx, params.Name, params.Parent)
	} else {
		w, err = l.registry.AddDataset(ctx, params.Name)
	}
	if err != nil {
		return nil, fmt.Errorf("pointbin: create dataset %q: %w", params.Name, err)
	}

	if err := w.SetData(buf); err != nil {
		l.discard(ctx, w.ID())
		return nil, fmt.Errorf("pointbin: set data %q: %w", params.Name, err)
	}

	if err := l.registry.NotifyDataAdded(ctx, w.ID()); err != nil {
		l.discard(ctx, w.ID())
		return nil, fmt.Errorf("pointbin: publish %q: %w", params.Name, err)
	}

	return w, nil
}

func (l *Loader) discard(ctx context.Context, id DatasetID) {
	if err := l.registry.Discard(ctx, id); err != nil {
		l.log.WithError(err).WithField("dataset", id).Warn("could not discard pending dataset")
	}
}

// baseName returns the file name of path without directory and extension.
func baseName(path string) string {
	name := filepath.Base(path)
	if i := strings.Index(name, "."); i > 0 {
		name = name[:i]
	}
	return name
}
