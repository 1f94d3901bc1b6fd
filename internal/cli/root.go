// Package cli defines the cobra command tree for the pd dashboard tool.
package cli

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/propdesk/propdesk/internal/db"
	"github.com/propdesk/propdesk/internal/schedule"
)

var (
	flagFormat  string
	flagDB      string
	flagExperts string
)

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "pd",
		Short:         "Property matching and expert scheduling",
		Long:          "Dashboard tooling for the property desk: match buyer requirements against inventory, manage requirements, and book expert consultations.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format (text|json)")
	root.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite database path (default: ~/.propdesk/propdesk.db)")
	root.PersistentFlags().StringVar(&flagExperts, "experts", "", "experts directory YAML file (default: experts.yaml)")

	root.AddCommand(
		newMatchCmd(),
		newListCmd(),
		newImportCmd(),
		newRemoveCmd(),
		newRequirementsCmd(),
		newBookCmd(),
		newSlotsCmd(),
		newExpertsCmd(),
		newServeCmd(),
		newVersionCmd(),
	)

	return root
}

// openDB opens the SQLite database using the --db flag or default path.
func openDB() (*sql.DB, error) {
	path := flagDB
	if path == "" {
		var err error
		path, err = db.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return db.Open(path)
}

// loadExperts reads the expert directory from the --experts file.
func loadExperts() ([]schedule.Expert, error) {
	path := flagExperts
	if path == "" {
		path = "experts.yaml"
	}
	return schedule.LoadExperts(path)
}

// isJSON returns true if the --format flag is set to json.
func isJSON() bool {
	return flagFormat == "json"
}

// closeDB closes the database, logging any error to stderr.
func closeDB(database *sql.DB) {
	if err := database.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: closing database: %v\n", err)
	}
}
