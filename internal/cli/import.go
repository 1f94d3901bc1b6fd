package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/propdesk/propdesk/internal/property"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import properties from a CSV file",
		Long:  "Import inventory from CSV. Required columns: project_name, area. Rows sharing an identity key (RERA number, or project+area) update the existing record.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(args[0])
		},
	}
}

func runImport(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	count, err := property.NewRepository(database).ImportCSV(f)
	if err != nil {
		return err
	}

	fmt.Printf("Imported %d properties\n", count)
	return nil
}
