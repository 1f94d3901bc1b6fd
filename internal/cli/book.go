package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/propdesk/propdesk/internal/schedule"
)

func newBookCmd() *cobra.Command {
	var clientID, clientName, expert, start string

	cmd := &cobra.Command{
		Use:   "book",
		Short: "Book an expert consultation",
		Long:  "Book a 45-minute consultation. The first available expert is assigned unless --expert pins one.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			startTime, err := parseStartTime(start)
			if err != nil {
				return err
			}
			return runBook(schedule.Request{
				ClientID:    clientID,
				ClientName:  clientName,
				ExpertEmail: expert,
				StartTime:   startTime,
			})
		},
	}

	cmd.Flags().StringVar(&clientID, "client-id", "", "client identifier")
	cmd.Flags().StringVar(&clientName, "client-name", "", "client display name")
	cmd.Flags().StringVar(&expert, "expert", "", "pin a specific expert by email")
	cmd.Flags().StringVar(&start, "start", "", `start time (RFC 3339 or "YYYY-MM-DD HH:MM")`)
	_ = cmd.MarkFlagRequired("start")

	return cmd
}

func runBook(req schedule.Request) error {
	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	experts, err := loadExperts()
	if err != nil {
		return err
	}

	scheduler := schedule.NewScheduler(schedule.NewRepository(database), experts)
	m, err := scheduler.CheckAvailabilityAndSchedule(context.Background(), req)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(m)
	}
	printMeeting(m)
	return nil
}
