package pointbin

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// -----------------------------------------------------------------------------
// Memory Registry
// -----------------------------------------------------------------------------

// MemoryRegistry implements Registry in memory.
//
// Consistency: Immediate.
// MemoryRegistry is safe for concurrent use.
type MemoryRegistry struct {
	mu        sync.RWMutex
	published map[DatasetID]*pointSet
	pending   map[DatasetID]*pointSet
	order     []DatasetID
	mutations int
}

// NewMemoryRegistry creates an empty in-memory Registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		published: make(map[DatasetID]*pointSet),
		pending:   make(map[DatasetID]*pointSet),
	}
}

// Datasets returns all published datasets in publication order.
func (r *MemoryRegistry) Datasets(_ context.Context) ([]Dataset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Dataset, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.published[id])
	}
	return out, nil
}

// Dataset returns a published dataset by identifier.
func (r *MemoryRegistry) Dataset(_ context.Context, id DatasetID) (Dataset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ds, ok := r.published[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return ds, nil
}

// DatasetByName returns the earliest published dataset with the given name.
func (r *MemoryRegistry) DatasetByName(_ context.Context, name string) (Dataset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		if ds := r.published[id]; ds.name == name {
			return ds, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
}

// AddDataset creates a pending dataset.
func (r *MemoryRegistry) AddDataset(_ context.Context, name string) (DatasetWriter, error) {
	return r.create(name, nil)
}

// CreateDerivedData creates a pending dataset derived from a published parent.
func (r *MemoryRegistry) CreateDerivedData(_ context.Context, name string, parent DatasetID) (DatasetWriter, error) {
	r.mu.RLock()
	p, ok := r.published[parent]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("pointbin: parent: %w: %s", ErrNotFound, parent)
	}
	return r.create(name, p)
}

func (r *MemoryRegistry) create(name string, parent *pointSet) (DatasetWriter, error) {
	if name == "" {
		return nil, errors.New("pointbin: dataset name is required")
	}

	ds := &pointSet{
		registry: r,
		id:       DatasetID(uuid.NewString()),
		name:     name,
		buf:      &SampleBuffer{ElementType: Float32, NumDimensions: 1},
		full:     true,
	}
	if parent != nil {
		ds.parent = parent
	}

	r.mu.Lock()
	r.pending[ds.id] = ds
	r.mutations++
	r.mu.Unlock()

	return ds, nil
}

// NotifyDataAdded publishes a pending dataset.
func (r *MemoryRegistry) NotifyDataAdded(_ context.Context, id DatasetID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ds, ok := r.pending[id]
	if !ok {
		return fmt.Errorf("%w: no pending dataset %s", ErrNotFound, id)
	}
	delete(r.pending, id)
	r.published[id] = ds
	r.order = append(r.order, id)
	r.mutations++
	return nil
}

// Discard removes a pending dataset.
func (r *MemoryRegistry) Discard(_ context.Context, id DatasetID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.pending[id]; ok {
		delete(r.pending, id)
		r.mutations++
	}
	return nil
}

// CreateSubset publishes a selection over the rows of a published dataset.
// The subset shares its source's samples and keeps indices in the given order.
func (r *MemoryRegistry) CreateSubset(_ context.Context, source DatasetID, name string, indices []int) (Dataset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	src, ok := r.published[source]
	if !ok {
		return nil, fmt.Errorf("pointbin: subset source: %w: %s", ErrNotFound, source)
	}

	rows := make([]int, len(indices))
	copy(rows, indices)

	ds := &pointSet{
		registry: r,
		id:       DatasetID(uuid.NewString()),
		name:     name,
		buf:      src.buffer(),
		parent:   src.parent,
		full:     false,
		indices:  rows,
	}
	r.published[ds.id] = ds
	r.order = append(r.order, ds.id)
	r.mutations++
	return ds, nil
}

// Pending returns the number of created but unpublished datasets.
func (r *MemoryRegistry) Pending() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.pending)
}

// Mutations returns the number of state-changing calls served so far.
func (r *MemoryRegistry) Mutations() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.mutations
}

// -----------------------------------------------------------------------------
// Point Set
// -----------------------------------------------------------------------------

// pointSet is the dataset handle handed out by MemoryRegistry.
type pointSet struct {
	registry *MemoryRegistry

	mu      sync.RWMutex
	id      DatasetID
	name    string
	buf     *SampleBuffer
	parent  *pointSet
	full    bool
	indices []int
}

func (p *pointSet) ID() DatasetID { return p.id }

func (p *pointSet) Name() string { return p.name }

func (p *pointSet) NumPoints() int {
	if !p.full {
		return len(p.indices)
	}
	return p.buffer().NumPoints()
}

func (p *pointSet) NumDimensions() int { return p.buffer().NumDimensions }

func (p *pointSet) ElementType() ElementType { return p.buffer().ElementType }

func (p *pointSet) IsFull() bool { return p.full }

func (p *pointSet) Indices() []int {
	if p.indices == nil {
		return nil
	}
	out := make([]int, len(p.indices))
	copy(out, p.indices)
	return out
}

func (p *pointSet) Samples() ([]float32, error) { return p.buffer().Values, nil }

func (p *pointSet) Parent() Dataset {
	if p.parent == nil {
		return nil
	}
	return p.parent
}

func (p *pointSet) SetData(buf *SampleBuffer) error {
	if buf == nil {
		return errors.New("pointbin: sample buffer is required")
	}
	if err := buf.Validate(); err != nil {
		return err
	}

	p.mu.Lock()
	p.buf = buf
	p.mu.Unlock()

	p.registry.mu.Lock()
	p.registry.mutations++
	p.registry.mu.Unlock()
	return nil
}

func (p *pointSet) buffer() *SampleBuffer {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.buf
}
