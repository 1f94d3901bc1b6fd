package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newExpertsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "experts",
		Short: "List the expert directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExperts()
		},
	}
}

func runExperts() error {
	experts, err := loadExperts()
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(experts)
	}

	for _, e := range experts {
		if e.Name != "" {
			fmt.Printf("%s <%s>\n", e.Name, e.Email)
		} else {
			fmt.Println(e.Email)
		}
	}
	return nil
}
