package commands

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/justapithecus/pointbin/pointbin"
)

func newExportCommand(a *app) *cobra.Command {
	var (
		out         string
		onlyIndices bool
		rows        []int
	)

	cmd := &cobra.Command{
		Use:   "export <dataset>",
		Short: "Write a catalog dataset to a .bin file and .txt sidecar",
		Long: `Export writes the named dataset as headerless little-endian float32
samples. Without --out the file goes to the directory of the previous export.
--rows restricts the export to the given rows, in the given order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := a.catalog()
			if err != nil {
				return err
			}
			store, err := a.settings(pointbin.ExporterKind)
			if err != nil {
				return err
			}

			var registry pointbin.Registry = cat
			if cmd.Flags().Changed("rows") {
				registry = selectingRegistry{Registry: cat, name: args[0], rows: rows}
			}

			dialog := &flagExportDialog{name: args[0], onlyIndices: onlyIndices, out: out}
			exporter, err := pointbin.NewExporter(registry, pointbin.NewOSFileSystem(), dialog, store, pointbin.WithLogger(a.log))
			if err != nil {
				return err
			}

			res, err := exporter.Export(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if res == nil {
				fmt.Fprintln(w, "nothing exported")
				return nil
			}
			fmt.Fprintf(w, "wrote %s (%s) and %s\n",
				res.BinPath, humanize.Bytes(uint64(res.BytesWritten)), res.SidecarPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output .bin path")
	cmd.Flags().BoolVar(&onlyIndices, "indices-only", false, "Write the selected row indices instead of the samples")
	cmd.Flags().IntSliceVar(&rows, "rows", nil, "Rows to export, e.g. 2,0,5")
	return cmd
}
