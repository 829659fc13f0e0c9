package catalog

import (
	"context"
	"errors"
	"sync"

	"github.com/justapithecus/pointbin/pointbin"
)

// dataset is a catalog entry. Committed entries load their samples on
// first use, under the context of the lookup that returned them; pending
// entries hold them in memory.
type dataset struct {
	catalog *Catalog
	ctx     context.Context

	mu          sync.Mutex
	manifest    Manifest
	elementType pointbin.ElementType
	parent      *dataset
	samples     []float32
	loaded      bool
}

func (d *dataset) ID() pointbin.DatasetID { return d.manifest.ID }

func (d *dataset) Name() string { return d.manifest.Name }

func (d *dataset) NumPoints() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.manifest.NumPoints
}

func (d *dataset) NumDimensions() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.manifest.NumDimensions
}

func (d *dataset) ElementType() pointbin.ElementType {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.elementType
}

// IsFull is always true: the catalog stores whole datasets only.
func (d *dataset) IsFull() bool { return true }

func (d *dataset) Indices() []int { return nil }

func (d *dataset) Samples() ([]float32, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.loaded {
		return d.samples, nil
	}
	ctx := d.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	values, err := d.catalog.readSamples(ctx, d.manifest)
	if err != nil {
		return nil, err
	}
	d.samples = values
	d.loaded = true
	return d.samples, nil
}

func (d *dataset) Parent() pointbin.Dataset {
	if d.parent == nil {
		return nil
	}
	return d.parent
}

func (d *dataset) SetData(buf *pointbin.SampleBuffer) error {
	if buf == nil {
		return errors.New("catalog: nil sample buffer")
	}
	if err := buf.Validate(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.samples = buf.Values
	d.loaded = true
	d.elementType = buf.ElementType
	d.manifest.ElementType = buf.ElementType.String()
	d.manifest.NumDimensions = buf.NumDimensions
	d.manifest.NumPoints = buf.NumPoints()
	return nil
}
