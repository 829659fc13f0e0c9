package commands

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/justapithecus/pointbin/pointbin"
)

func newLoadCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load <file.bin>",
		Short: "Load a raw binary file into the workspace catalog",
		Long: `Load reads a headerless little-endian sample file and registers it as a
dataset. Unset flags fall back to the choices of the previous load.`,
		Args: cobra.ExactArgs(1),
	}

	cmd.Flags().String("name", "", "Dataset name (default: file base name)")
	cmd.Flags().String("type", "", "Element type of the file (float32, uint8, ...)")
	cmd.Flags().Int("dims", 0, "Number of dimensions per point")
	cmd.Flags().String("derived-from", "", "Name or ID of the source dataset")
	cmd.Flags().String("store-as", "", "Element type to store the samples as (none keeps the file type)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		dialog, err := loadDialogFromFlags(cmd)
		if err != nil {
			return err
		}

		cat, err := a.catalog()
		if err != nil {
			return err
		}
		store, err := a.settings(pointbin.LoaderKind)
		if err != nil {
			return err
		}

		loader, err := pointbin.NewLoader(cat, pointbin.NewOSFileSystem(), dialog, store, pointbin.WithLogger(a.log))
		if err != nil {
			return err
		}

		res, err := loader.Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if res == nil {
			fmt.Fprintln(out, "nothing loaded")
			return nil
		}

		ds := res.Dataset
		fmt.Fprintf(out, "loaded %q (%s): %s points x %d dims, %s\n",
			ds.Name(), ds.ID(),
			humanize.Comma(int64(ds.NumPoints())), ds.NumDimensions(),
			res.Buffer.ElementType.Label())
		return nil
	}
	return cmd
}

func loadDialogFromFlags(cmd *cobra.Command) (*flagLoadDialog, error) {
	d := &flagLoadDialog{}
	flags := cmd.Flags()

	if flags.Changed("name") {
		v, err := flags.GetString("name")
		if err != nil {
			return nil, err
		}
		d.name = &v
	}
	if flags.Changed("type") {
		v, err := flags.GetString("type")
		if err != nil {
			return nil, err
		}
		d.elementType = &v
	}
	if flags.Changed("dims") {
		v, err := flags.GetInt("dims")
		if err != nil {
			return nil, err
		}
		d.dims = &v
	}
	if flags.Changed("derived-from") {
		v, err := flags.GetString("derived-from")
		if err != nil {
			return nil, err
		}
		d.derivedFrom = &v
	}
	if flags.Changed("store-as") {
		v, err := flags.GetString("store-as")
		if err != nil {
			return nil, err
		}
		d.storeAs = &v
	}
	return d, nil
}
