package pointbin

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

// scriptedLoadDialog returns fixed parameters and records the prompt it saw.
type scriptedLoadDialog struct {
	params    LoadParameters
	cancel    bool
	err       error
	prompt    LoadPrompt
	callCount int
}

func (d *scriptedLoadDialog) LoadParameters(_ context.Context, prompt LoadPrompt) (LoadParameters, bool, error) {
	d.callCount++
	d.prompt = prompt
	if d.err != nil {
		return LoadParameters{}, false, d.err
	}
	return d.params, !d.cancel, nil
}

// scriptedExportDialog returns a fixed choice and save path.
type scriptedExportDialog struct {
	choice       ExportChoice
	cancelChoice bool
	path         string
	cancelPath   bool
	names        []string
	suggested    string
}

func (d *scriptedExportDialog) ExportParameters(_ context.Context, names []string) (ExportChoice, bool, error) {
	d.names = names
	return d.choice, !d.cancelChoice, nil
}

func (d *scriptedExportDialog) SavePath(_ context.Context, suggested string) (string, bool, error) {
	d.suggested = suggested
	return d.path, !d.cancelPath, nil
}

// failingNotifyRegistry fails every NotifyDataAdded call.
type failingNotifyRegistry struct {
	*MemoryRegistry
}

func (r failingNotifyRegistry) NotifyDataAdded(context.Context, DatasetID) error {
	return errors.New("notify rejected")
}

// failingWriteFS fails writes to a single path.
type failingWriteFS struct {
	*MemoryFileSystem
	failPath string
}

func (f failingWriteFS) WriteFile(ctx context.Context, path string, r io.Reader) error {
	if path == f.failPath {
		return errors.New("disk full")
	}
	return f.MemoryFileSystem.WriteFile(ctx, path, r)
}

// failingReadFS fails every read with a generic I/O error.
type failingReadFS struct {
	*MemoryFileSystem
}

func (f failingReadFS) ReadFile(context.Context, string) ([]byte, error) {
	return nil, errors.New("permission denied")
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// publish registers buf under name and returns the published dataset.
func publish(t *testing.T, reg *MemoryRegistry, name string, buf *SampleBuffer) Dataset {
	t.Helper()
	ctx := context.Background()

	w, err := reg.AddDataset(ctx, name)
	require.NoError(t, err)
	require.NoError(t, w.SetData(buf))
	require.NoError(t, reg.NotifyDataAdded(ctx, w.ID()))

	ds, err := reg.Dataset(ctx, w.ID())
	require.NoError(t, err)
	return ds
}

// publishDerived registers buf under name as derived from parent.
func publishDerived(t *testing.T, reg *MemoryRegistry, name string, parent DatasetID, buf *SampleBuffer) Dataset {
	t.Helper()
	ctx := context.Background()

	w, err := reg.CreateDerivedData(ctx, name, parent)
	require.NoError(t, err)
	require.NoError(t, w.SetData(buf))
	require.NoError(t, reg.NotifyDataAdded(ctx, w.ID()))
	return w
}
