package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/propdesk/propdesk/internal/property"
)

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a property from the inventory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid property ID %q", args[0])
			}
			return runRemove(id)
		},
	}
}

func runRemove(id int64) error {
	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	if err := property.NewRepository(database).Delete(id); err != nil {
		return err
	}

	fmt.Printf("Removed property #%d\n", id)
	return nil
}
