package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/propdesk/propdesk/internal/schedule"
)

func newSlotsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "slots <date>",
		Short: "Show the day's booking slots",
		Long:  "Show candidate consultation slots for a date (YYYY-MM-DD) with per-slot booking counts.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := time.ParseInLocation("2006-01-02", args[0], time.Local)
			if err != nil {
				return fmt.Errorf("invalid date %q, want YYYY-MM-DD", args[0])
			}
			return runSlots(date)
		},
	}
}

func runSlots(date time.Time) error {
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
	slots, err := scheduler.SlotsForDate(date, schedule.DefaultWindow)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(slots)
	}
	return printSlots(slots)
}
