package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the datasets in the workspace catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := a.catalog()
			if err != nil {
				return err
			}
			datasets, err := cat.Datasets(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tTYPE\tPOINTS\tDIMS\tSOURCE\tID")
			for _, ds := range datasets {
				source := "-"
				if p := ds.Parent(); p != nil {
					source = p.Name()
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
					ds.Name(), ds.ElementType(), humanize.Comma(int64(ds.NumPoints())),
					ds.NumDimensions(), source, ds.ID())
			}
			return tw.Flush()
		},
	}
}
