package pointbin

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLoader(t *testing.T, reg Registry, files FileSystem, dialog LoadDialog, settings Settings) *Loader {
	t.Helper()
	l, err := NewLoader(reg, files, dialog, settings, WithLogger(quietLogger()))
	require.NoError(t, err)
	return l
}

func writeFile(t *testing.T, files *MemoryFileSystem, path string, data []byte) {
	t.Helper()
	require.NoError(t, files.WriteFile(context.Background(), path, bytes.NewReader(data)))
}

func TestNewLoader_RequiresCollaborators(t *testing.T) {
	_, err := NewLoader(nil, NewMemoryFileSystem(), &scriptedLoadDialog{}, nil)
	assert.Error(t, err)
	_, err = NewLoader(NewMemoryRegistry(), nil, &scriptedLoadDialog{}, nil)
	assert.Error(t, err)
	_, err = NewLoader(NewMemoryRegistry(), NewMemoryFileSystem(), nil, nil)
	assert.Error(t, err)
}

func TestLoader_Load_Float(t *testing.T) {
	ctx := context.Background()
	reg := NewMemoryRegistry()
	files := NewMemoryFileSystem()
	writeFile(t, files, "in/points.bin", float32Bytes(1, 2, 3, 4, 5, 6))

	dialog := &scriptedLoadDialog{params: LoadParameters{
		Name:          "points",
		ElementType:   Float32,
		NumDimensions: 3,
	}}
	loader := newTestLoader(t, reg, files, dialog, NewMemorySettings())

	res, err := loader.Load(ctx, "in/points.bin")
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, "points", dialog.prompt.FileName)
	assert.Equal(t, "points", dialog.prompt.Defaults.Name)

	ds, err := reg.DatasetByName(ctx, "points")
	require.NoError(t, err)
	assert.Equal(t, 2, ds.NumPoints())
	assert.Equal(t, 3, ds.NumDimensions())
	assert.True(t, ds.IsFull())
	assert.Nil(t, ds.Parent())

	samples, err := ds.Samples()
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6}, samples)
	assert.Equal(t, 0, reg.Pending())
}

func TestLoader_Load_Uint8(t *testing.T) {
	ctx := context.Background()
	reg := NewMemoryRegistry()
	files := NewMemoryFileSystem()
	writeFile(t, files, "img.bin", []byte{0, 128, 255, 7})

	dialog := &scriptedLoadDialog{params: LoadParameters{Name: "img", ElementType: Uint8, NumDimensions: 2}}
	res, err := newTestLoader(t, reg, files, dialog, nil).Load(ctx, "img.bin")
	require.NoError(t, err)

	assert.Equal(t, []float32{0, 128, 255, 7}, res.Buffer.Values)
	assert.Equal(t, Uint8, res.Dataset.ElementType())
	assert.Equal(t, 2, res.Dataset.NumPoints())
}

func TestLoader_Load_Derived(t *testing.T) {
	ctx := context.Background()
	reg := NewMemoryRegistry()
	parent := publish(t, reg, "parent", &SampleBuffer{NumDimensions: 4, Values: make([]float32, 400)})

	files := NewMemoryFileSystem()
	writeFile(t, files, "embedding.bin", float32Bytes(make([]float32, 200)...))

	dialog := &scriptedLoadDialog{params: LoadParameters{
		Name:          "embedding",
		ElementType:   Float32,
		NumDimensions: 2,
		Derived:       true,
		Parent:        parent.ID(),
	}}
	res, err := newTestLoader(t, reg, files, dialog, nil).Load(ctx, "embedding.bin")
	require.NoError(t, err)

	require.Len(t, dialog.prompt.Datasets, 1)
	require.NotNil(t, res.Dataset.Parent())
	assert.Equal(t, parent.ID(), res.Dataset.Parent().ID())
	assert.Equal(t, 100, res.Dataset.NumPoints())
}

func TestLoader_Load_DerivedWithoutParentIsPlain(t *testing.T) {
	reg := NewMemoryRegistry()
	files := NewMemoryFileSystem()
	writeFile(t, files, "a.bin", float32Bytes(1))

	dialog := &scriptedLoadDialog{params: LoadParameters{Name: "a", ElementType: Float32, NumDimensions: 1, Derived: true}}
	res, err := newTestLoader(t, reg, files, dialog, nil).Load(context.Background(), "a.bin")
	require.NoError(t, err)
	assert.Nil(t, res.Dataset.Parent())
}

func TestLoader_Load_StoreAs(t *testing.T) {
	reg := NewMemoryRegistry()
	files := NewMemoryFileSystem()
	writeFile(t, files, "a.bin", float32Bytes(-1, 2.7, 512))

	storeAs := Uint8
	dialog := &scriptedLoadDialog{params: LoadParameters{Name: "a", ElementType: Float32, NumDimensions: 1, StoreAs: &storeAs}}
	settings := NewMemorySettings()
	res, err := newTestLoader(t, reg, files, dialog, settings).Load(context.Background(), "a.bin")
	require.NoError(t, err)

	assert.Equal(t, Uint8, res.Dataset.ElementType())
	assert.Equal(t, []float32{0, 2, 255}, res.Buffer.Values)
	assert.Equal(t, "uint8", settings.String(SettingStoreAs))
}

func TestLoader_Load_CancelIsNoOp(t *testing.T) {
	reg := NewMemoryRegistry()
	files := NewMemoryFileSystem()
	writeFile(t, files, "a.bin", float32Bytes(1, 2))

	dialog := &scriptedLoadDialog{cancel: true}
	settings := NewMemorySettings()
	res, err := newTestLoader(t, reg, files, dialog, settings).Load(context.Background(), "a.bin")
	require.NoError(t, err)
	assert.Nil(t, res)

	assert.Equal(t, 0, reg.Mutations())
	assert.Equal(t, "", settings.String(SettingDataType))
}

func TestLoader_Load_EmptyPathIsNoOp(t *testing.T) {
	reg := NewMemoryRegistry()
	dialog := &scriptedLoadDialog{}
	res, err := newTestLoader(t, reg, NewMemoryFileSystem(), dialog, nil).Load(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Equal(t, 0, dialog.callCount)
	assert.Equal(t, 0, reg.Mutations())
}

func TestLoader_Load_EmptyNameIsNoOp(t *testing.T) {
	reg := NewMemoryRegistry()
	files := NewMemoryFileSystem()
	writeFile(t, files, "a.bin", float32Bytes(1))

	dialog := &scriptedLoadDialog{params: LoadParameters{ElementType: Float32, NumDimensions: 1}}
	res, err := newTestLoader(t, reg, files, dialog, nil).Load(context.Background(), "a.bin")
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Equal(t, 0, reg.Mutations())
}

func TestLoader_Load_FileNotFound(t *testing.T) {
	reg := NewMemoryRegistry()
	dialog := &scriptedLoadDialog{}
	_, err := newTestLoader(t, reg, NewMemoryFileSystem(), dialog, nil).Load(context.Background(), "missing.bin")
	require.ErrorIs(t, err, ErrFileNotFound)
	assert.Contains(t, err.Error(), "missing.bin")
	assert.Equal(t, 0, dialog.callCount)
}

func TestLoader_Load_UnreadablePathIsFileNotFound(t *testing.T) {
	reg := NewMemoryRegistry()
	dialog := &scriptedLoadDialog{}
	_, err := newTestLoader(t, reg, NewOSFileSystem(), dialog, nil).Load(context.Background(), t.TempDir())
	require.ErrorIs(t, err, ErrFileNotFound)
	assert.Equal(t, 0, dialog.callCount)
	assert.Equal(t, 0, reg.Mutations())
}

func TestLoader_Load_ReadErrorIsFileNotFound(t *testing.T) {
	files := failingReadFS{MemoryFileSystem: NewMemoryFileSystem()}
	_, err := newTestLoader(t, NewMemoryRegistry(), files, &scriptedLoadDialog{}, nil).Load(context.Background(), "locked.bin")
	require.ErrorIs(t, err, ErrFileNotFound)
	assert.Contains(t, err.Error(), "permission denied")
}

func TestLoader_Load_ShapeMismatchCreatesNothing(t *testing.T) {
	reg := NewMemoryRegistry()
	files := NewMemoryFileSystem()
	writeFile(t, files, "a.bin", float32Bytes(make([]float32, 10)...))

	dialog := &scriptedLoadDialog{params: LoadParameters{Name: "a", ElementType: Float32, NumDimensions: 3}}
	_, err := newTestLoader(t, reg, files, dialog, nil).Load(context.Background(), "a.bin")
	require.ErrorIs(t, err, ErrShapeMismatch)
	assert.Equal(t, 0, reg.Mutations())
}

func TestLoader_Load_MalformedCreatesNothing(t *testing.T) {
	reg := NewMemoryRegistry()
	files := NewMemoryFileSystem()
	writeFile(t, files, "a.bin", []byte{1, 2, 3, 4, 5})

	dialog := &scriptedLoadDialog{params: LoadParameters{Name: "a", ElementType: Float32, NumDimensions: 1}}
	_, err := newTestLoader(t, reg, files, dialog, nil).Load(context.Background(), "a.bin")
	require.ErrorIs(t, err, ErrMalformedInput)
	assert.Equal(t, 0, reg.Mutations())
}

func TestLoader_Load_NotifyFailureDiscards(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryRegistry()
	files := NewMemoryFileSystem()
	writeFile(t, files, "a.bin", float32Bytes(1, 2))

	dialog := &scriptedLoadDialog{params: LoadParameters{Name: "a", ElementType: Float32, NumDimensions: 1}}
	_, err := newTestLoader(t, failingNotifyRegistry{mem}, files, dialog, nil).Load(ctx, "a.bin")
	require.Error(t, err)

	assert.Equal(t, 0, mem.Pending())
	all, err := mem.Datasets(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestLoader_Load_DialogError(t *testing.T) {
	reg := NewMemoryRegistry()
	files := NewMemoryFileSystem()
	writeFile(t, files, "a.bin", float32Bytes(1))

	dialogErr := errors.New("display unavailable")
	_, err := newTestLoader(t, reg, files, &scriptedLoadDialog{err: dialogErr}, nil).Load(context.Background(), "a.bin")
	require.ErrorIs(t, err, dialogErr)
	assert.Equal(t, 0, reg.Mutations())
}

func TestLoader_Load_DefaultsRoundTrip(t *testing.T) {
	ctx := context.Background()
	reg := NewMemoryRegistry()
	files := NewMemoryFileSystem()
	writeFile(t, files, "a.bin", []byte{1, 2, 3, 4, 5, 6})
	settings := NewMemorySettings()

	first := &scriptedLoadDialog{params: LoadParameters{Name: "a", ElementType: Uint8, NumDimensions: 3}}
	_, err := newTestLoader(t, reg, files, first, settings).Load(ctx, "a.bin")
	require.NoError(t, err)

	assert.Equal(t, Float32, first.prompt.Defaults.ElementType)
	assert.Equal(t, 1, first.prompt.Defaults.NumDimensions)

	second := &scriptedLoadDialog{cancel: true}
	_, err = newTestLoader(t, reg, files, second, settings).Load(ctx, "a.bin")
	require.NoError(t, err)

	assert.Equal(t, Uint8, second.prompt.Defaults.ElementType)
	assert.Equal(t, 3, second.prompt.Defaults.NumDimensions)
	assert.Nil(t, second.prompt.Defaults.StoreAs)
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "points", baseName("/tmp/x.y/points.bin"))
	assert.Equal(t, "archive", baseName("archive.tar.bin"))
	assert.Equal(t, "noext", baseName("noext"))
}
