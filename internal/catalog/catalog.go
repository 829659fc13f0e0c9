// Package catalog provides a directory-backed pointbin.Registry.
//
// Each dataset lives under datasets/<id>/: samples.parquet holds the
// row-major samples and manifest.json describes them. The samples file is
// written first; a dataset exists once its manifest exists.
package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/justapithecus/pointbin/pointbin"
)

// json is a drop-in replacement for encoding/json with better performance.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	// ManifestSchemaName is the canonical schema name for catalog manifests.
	ManifestSchemaName = "pointbin-manifest"

	// ManifestFormatVersion is the current manifest format version.
	ManifestFormatVersion = "1.0.0"

	datasetsPrefix = "datasets"
	manifestFile   = "manifest.json"
	samplesFile    = "samples.parquet"
)

// Manifest describes one committed dataset.
type Manifest struct {
	SchemaName    string             `json:"schema_name"`
	FormatVersion string             `json:"format_version"`
	ID            pointbin.DatasetID `json:"id"`
	Name          string             `json:"name"`
	ElementType   string             `json:"element_type"`
	NumDimensions int                `json:"num_dimensions"`
	NumPoints     int                `json:"num_points"`
	ParentID      pointbin.DatasetID `json:"parent_id,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
}

// Catalog implements pointbin.Registry on a pointbin.FileSystem.
//
// Pending datasets are held in memory until NotifyDataAdded commits them.
// Catalog is safe for concurrent use within one process.
type Catalog struct {
	files pointbin.FileSystem

	mu      sync.Mutex
	pending map[pointbin.DatasetID]*dataset
}

// New creates a Catalog on files.
func New(files pointbin.FileSystem) (*Catalog, error) {
	if files == nil {
		return nil, errors.New("catalog: file system is required")
	}
	return &Catalog{
		files:   files,
		pending: make(map[pointbin.DatasetID]*dataset),
	}, nil
}

// Open creates a Catalog rooted at dir, creating the directory if needed.
func Open(dir string) (*Catalog, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	files, err := pointbin.NewRootedFileSystem(dir)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return New(files)
}

// Datasets returns all committed datasets, oldest first.
func (c *Catalog) Datasets(ctx context.Context) ([]pointbin.Dataset, error) {
	all, err := c.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]pointbin.Dataset, len(all))
	for i, ds := range all {
		out[i] = ds
	}
	return out, nil
}

// Dataset returns a committed dataset by identifier.
func (c *Catalog) Dataset(ctx context.Context, id pointbin.DatasetID) (pointbin.Dataset, error) {
	all, err := c.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, ds := range all {
		if ds.manifest.ID == id {
			return ds, nil
		}
	}
	return nil, fmt.Errorf("catalog: %w: %s", pointbin.ErrNotFound, id)
}

// DatasetByName returns the oldest committed dataset with the given name.
func (c *Catalog) DatasetByName(ctx context.Context, name string) (pointbin.Dataset, error) {
	all, err := c.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, ds := range all {
		if ds.manifest.Name == name {
			return ds, nil
		}
	}
	return nil, fmt.Errorf("catalog: %w: %q", pointbin.ErrNotFound, name)
}

// AddDataset creates a pending dataset.
func (c *Catalog) AddDataset(_ context.Context, name string) (pointbin.DatasetWriter, error) {
	return c.create(name, nil)
}

// CreateDerivedData creates a pending dataset derived from a committed parent.
func (c *Catalog) CreateDerivedData(ctx context.Context, name string, parent pointbin.DatasetID) (pointbin.DatasetWriter, error) {
	p, err := c.Dataset(ctx, parent)
	if err != nil {
		return nil, fmt.Errorf("catalog: parent: %w", err)
	}
	return c.create(name, p.(*dataset))
}

func (c *Catalog) create(name string, parent *dataset) (pointbin.DatasetWriter, error) {
	if name == "" {
		return nil, errors.New("catalog: dataset name is required")
	}

	ds := &dataset{
		catalog: c,
		manifest: Manifest{
			SchemaName:    ManifestSchemaName,
			FormatVersion: ManifestFormatVersion,
			ID:            pointbin.DatasetID(uuid.NewString()),
			Name:          name,
			ElementType:   pointbin.Float32.String(),
			NumDimensions: 1,
		},
		elementType: pointbin.Float32,
		samples:     []float32{},
		loaded:      true,
	}
	if parent != nil {
		ds.parent = parent
		ds.manifest.ParentID = parent.manifest.ID
	}

	c.mu.Lock()
	c.pending[ds.manifest.ID] = ds
	c.mu.Unlock()

	return ds, nil
}

// NotifyDataAdded commits a pending dataset to disk.
func (c *Catalog) NotifyDataAdded(ctx context.Context, id pointbin.DatasetID) error {
	c.mu.Lock()
	ds, ok := c.pending[id]
	c.mu.Unlock()
	if !ok {
		return fmt.Errorf("catalog: %w: no pending dataset %s", pointbin.ErrNotFound, id)
	}

	ds.mu.Lock()
	ds.manifest.CreatedAt = time.Now().UTC()
	manifest := ds.manifest
	samples := ds.samples
	ds.mu.Unlock()

	var samplesBuf bytes.Buffer
	if err := encodeSamples(&samplesBuf, samples); err != nil {
		return fmt.Errorf("catalog: encode samples: %w", err)
	}
	samplesPath := datasetPath(id, samplesFile)
	if err := c.files.WriteFile(ctx, samplesPath, &samplesBuf); err != nil {
		return fmt.Errorf("catalog: write samples: %w", err)
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		_ = c.files.Remove(ctx, samplesPath)
		return fmt.Errorf("catalog: encode manifest: %w", err)
	}
	if err := c.files.WriteFile(ctx, datasetPath(id, manifestFile), bytes.NewReader(data)); err != nil {
		_ = c.files.Remove(ctx, samplesPath)
		return fmt.Errorf("catalog: write manifest: %w", err)
	}

	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
	return nil
}

// Discard drops a pending dataset.
func (c *Catalog) Discard(_ context.Context, id pointbin.DatasetID) error {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
	return nil
}

// loadAll reads every manifest, links parents and sorts by creation time.
func (c *Catalog) loadAll(ctx context.Context) ([]*dataset, error) {
	paths, err := c.files.List(ctx, datasetsPrefix)
	if err != nil {
		return nil, fmt.Errorf("catalog: list datasets: %w", err)
	}

	byID := make(map[pointbin.DatasetID]*dataset)
	var all []*dataset
	for _, p := range paths {
		if path.Base(p) != manifestFile {
			continue
		}
		ds, err := c.readManifest(ctx, p)
		if err != nil {
			return nil, err
		}
		byID[ds.manifest.ID] = ds
		all = append(all, ds)
	}

	for _, ds := range all {
		if ds.manifest.ParentID != "" {
			ds.parent = byID[ds.manifest.ParentID]
		}
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].manifest.CreatedAt.Equal(all[j].manifest.CreatedAt) {
			return all[i].manifest.ID < all[j].manifest.ID
		}
		return all[i].manifest.CreatedAt.Before(all[j].manifest.CreatedAt)
	})
	return all, nil
}

func (c *Catalog) readManifest(ctx context.Context, manifestPath string) (*dataset, error) {
	data, err := c.files.ReadFile(ctx, manifestPath)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", manifestPath, err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("catalog: decode %s: %w", manifestPath, err)
	}
	if m.SchemaName != ManifestSchemaName {
		return nil, fmt.Errorf("catalog: %s: unexpected schema %q", manifestPath, m.SchemaName)
	}
	elementType, err := pointbin.ParseElementType(m.ElementType)
	if err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", manifestPath, err)
	}

	return &dataset{catalog: c, ctx: ctx, manifest: m, elementType: elementType}, nil
}

func (c *Catalog) readSamples(ctx context.Context, m Manifest) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("catalog: read samples of %q: %w", m.Name, err)
	}
	data, err := c.files.ReadFile(ctx, datasetPath(m.ID, samplesFile))
	if err != nil {
		return nil, fmt.Errorf("catalog: read samples of %q: %w", m.Name, err)
	}
	values, err := decodeSamples(data)
	if err != nil {
		return nil, fmt.Errorf("catalog: samples of %q: %w", m.Name, err)
	}
	if len(values) != m.NumPoints*m.NumDimensions {
		return nil, fmt.Errorf("catalog: samples of %q: %w: have %d, manifest declares %dx%d",
			m.Name, pointbin.ErrShapeMismatch, len(values), m.NumPoints, m.NumDimensions)
	}
	return values, nil
}

func datasetPath(id pointbin.DatasetID, file string) string {
	return strings.Join([]string{datasetsPrefix, string(id), file}, "/")
}

// Ensure Catalog implements pointbin.Registry
var _ pointbin.Registry = (*Catalog)(nil)
