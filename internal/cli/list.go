package cli

import (
	"github.com/spf13/cobra"

	"github.com/propdesk/propdesk/internal/property"
)

func newListCmd() *cobra.Command {
	var opts property.ListOptions
	var maxPrice int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List inventory properties",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if maxPrice > 0 {
				opts.MaxPrice = &maxPrice
			}
			return runList(opts)
		},
	}

	cmd.Flags().StringVar(&opts.Area, "area", "", "filter by area substring")
	cmd.Flags().StringVar(&opts.BHK, "bhk", "", "filter by configuration")
	cmd.Flags().Int64Var(&maxPrice, "max-price", 0, "filter by maximum price in rupees")

	return cmd
}

func runList(opts property.ListOptions) error {
	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	records, err := property.NewRepository(database).List(opts)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(records)
	}
	return printPropertyTable(records)
}
