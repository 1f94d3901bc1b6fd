package cli

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/propdesk/propdesk/internal/requirement"
)

func newRequirementsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "requirements",
		Short: "Manage client requirements",
	}

	cmd.AddCommand(
		newRequirementsListCmd(),
		newRequirementsAddCmd(),
		newRequirementsRemoveCmd(),
	)

	return cmd
}

func newRequirementsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <client-id>",
		Short: "List a client's requirements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequirementsList(args[0])
		},
	}
}

func runRequirementsList(clientID string) error {
	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	reqs, err := requirement.NewRepository(database).ListByClient(clientID)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(reqs)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SEQ\tNAME\tBUDGET\tLOCATIONS\tMATCHES")
	for _, r := range reqs {
		budget := r.Budget
		if budget == "" {
			budget = "-"
		}
		locations := "-"
		if len(r.Locations) > 0 {
			locations = fmt.Sprint(r.Locations)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d (%d unique)\n",
			r.Seq, r.Name, budget, locations, r.MatchedCount, r.UniqueMatchedCount)
	}
	return w.Flush()
}

func newRequirementsAddCmd() *cobra.Command {
	var req requirement.Requirement
	var financing string

	cmd := &cobra.Command{
		Use:   "add <client-id>",
		Short: "Add a requirement for a client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.ClientID = args[0]
			req.Financing = requirement.Financing(financing)
			return runRequirementsAdd(&req)
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "requirement name")
	cmd.Flags().StringVar(&req.Budget, "budget", "", `budget ("1 Crore", "50L-75L")`)
	cmd.Flags().StringSliceVar(&req.Configurations, "bhk", nil, "configurations (e.g. 2,3)")
	cmd.Flags().StringSliceVar(&req.Locations, "location", nil, "location substrings")
	cmd.Flags().StringSliceVar(&req.Possessions, "possession", nil, "possession buckets")
	cmd.Flags().StringVar(&req.PropertyType, "type", "", "property type")
	cmd.Flags().StringVar(&financing, "financing", "", `financing option ("OTP" or "Loan option")`)
	cmd.Flags().BoolVar(&req.IncludeGST, "gst", false, "budget includes GST and registration")

	return cmd
}

func runRequirementsAdd(req *requirement.Requirement) error {
	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	added, err := requirement.NewRepository(database).Add(req)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(added)
	}
	fmt.Printf("Added requirement %d (%s) for client %s\n", added.Seq, added.Name, added.ClientID)
	return nil
}

func newRequirementsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <client-id> <seq>",
		Short: "Remove a requirement (requirement 1 is protected)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			seq, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid requirement number %q", args[1])
			}
			return runRequirementsRemove(args[0], seq)
		},
	}
}

func runRequirementsRemove(clientID string, seq int) error {
	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	if err := requirement.NewRepository(database).Delete(clientID, seq); err != nil {
		return err
	}

	fmt.Printf("Removed requirement %d for client %s\n", seq, clientID)
	return nil
}
