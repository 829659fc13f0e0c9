package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/justapithecus/pointbin/pointbin"
)

// flagLoadDialog answers the load dialog from command-line flags. Flags that
// were not given keep the prompt defaults.
type flagLoadDialog struct {
	name        *string
	elementType *string
	dims        *int
	derivedFrom *string
	storeAs     *string
}

func (d *flagLoadDialog) LoadParameters(_ context.Context, prompt pointbin.LoadPrompt) (pointbin.LoadParameters, bool, error) {
	params := prompt.Defaults

	if d.name != nil {
		params.Name = *d.name
	}
	if d.elementType != nil {
		t, err := pointbin.ParseElementType(*d.elementType)
		if err != nil {
			return pointbin.LoadParameters{}, false, err
		}
		params.ElementType = t
	}
	if d.dims != nil {
		params.NumDimensions = *d.dims
	}
	if d.storeAs != nil {
		switch strings.ToLower(*d.storeAs) {
		case "", "none":
			params.StoreAs = nil
		default:
			t, err := pointbin.ParseElementType(*d.storeAs)
			if err != nil {
				return pointbin.LoadParameters{}, false, err
			}
			params.StoreAs = &t
		}
	}
	if d.derivedFrom != nil && *d.derivedFrom != "" {
		parent, err := findDataset(prompt.Datasets, *d.derivedFrom)
		if err != nil {
			return pointbin.LoadParameters{}, false, err
		}
		params.Derived = true
		params.Parent = parent.ID()
	}

	return params, true, nil
}

// findDataset matches ref against dataset IDs first, then names.
func findDataset(datasets []pointbin.Dataset, ref string) (pointbin.Dataset, error) {
	for _, ds := range datasets {
		if string(ds.ID()) == ref {
			return ds, nil
		}
	}
	for _, ds := range datasets {
		if ds.Name() == ref {
			return ds, nil
		}
	}
	return nil, fmt.Errorf("source dataset %q: %w", ref, pointbin.ErrNotFound)
}

// flagExportDialog answers the export dialog from command-line arguments.
// An empty out accepts the suggested path.
type flagExportDialog struct {
	name        string
	onlyIndices bool
	out         string
}

func (d *flagExportDialog) ExportParameters(context.Context, []string) (pointbin.ExportChoice, bool, error) {
	return pointbin.ExportChoice{Name: d.name, OnlyIndices: d.onlyIndices}, true, nil
}

func (d *flagExportDialog) SavePath(_ context.Context, suggested string) (string, bool, error) {
	if d.out != "" {
		return d.out, true, nil
	}
	return suggested, true, nil
}

// selectingRegistry narrows the dataset called name to rows.
type selectingRegistry struct {
	pointbin.Registry
	name string
	rows []int
}

func (r selectingRegistry) DatasetByName(ctx context.Context, name string) (pointbin.Dataset, error) {
	ds, err := r.Registry.DatasetByName(ctx, name)
	if err != nil || name != r.name {
		return ds, err
	}
	return pointbin.Select(ds, r.rows), nil
}
