package cli

import (
	"github.com/spf13/cobra"

	"github.com/propdesk/propdesk/internal/inventory"
	"github.com/propdesk/propdesk/internal/match"
	"github.com/propdesk/propdesk/internal/property"
)

func newMatchCmd() *cobra.Command {
	var criteria match.Criteria
	var all bool

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Match inventory against buyer criteria",
		Long:  `Filter the property inventory by budget, configuration, location, possession and size. Budget accepts free-form Indian notation: "1 Crore", "50L - 2 Cr".`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			criteria.IncludeProperties = true
			criteria.ReturnAll = all
			return runMatch(criteria)
		},
	}

	cmd.Flags().StringVar(&criteria.Budget, "budget", "", `budget ("1 Crore", "50L-75L")`)
	cmd.Flags().StringSliceVar(&criteria.Configurations, "bhk", nil, "configurations (e.g. 2,3)")
	cmd.Flags().StringSliceVar(&criteria.Locations, "location", nil, "location substrings")
	cmd.Flags().StringSliceVar(&criteria.Possessions, "possession", nil, `possession buckets (e.g. "Ready To Move In")`)
	cmd.Flags().StringVar(&criteria.PropertyType, "type", "", "property type")
	cmd.Flags().IntVar(&criteria.Limit, "limit", 0, "max properties to print (default 20)")
	cmd.Flags().BoolVar(&all, "all", false, "print every match")

	return cmd
}

func runMatch(criteria match.Criteria) error {
	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	inv := inventory.New(property.NewRepository(database), inventory.DefaultTTL)
	result, err := match.New(inv).Match(criteria)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(result)
	}
	return printMatchResult(result)
}
