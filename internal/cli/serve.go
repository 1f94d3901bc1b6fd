package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/propdesk/propdesk/internal/config"
	"github.com/propdesk/propdesk/internal/crm"
	"github.com/propdesk/propdesk/internal/db"
	"github.com/propdesk/propdesk/internal/logging"
	"github.com/propdesk/propdesk/internal/notify"
	"github.com/propdesk/propdesk/internal/requirement"
	"github.com/propdesk/propdesk/internal/schedule"
	"github.com/propdesk/propdesk/internal/web"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard API server",
		Long:  "Start the JSON API server. Settings come from the environment (PD_ prefix) and an optional .env file; --db and --experts override their counterparts.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Command-line flags win over environment settings.
	if flagDB != "" {
		cfg.DBPath = flagDB
	}
	if flagExperts != "" {
		cfg.ExpertsFile = flagExperts
	}

	logging.Setup(cfg.DevMode)

	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath, err = db.DefaultPath()
		if err != nil {
			return err
		}
	}

	database, err := db.Open(dbPath)
	if err != nil {
		return err
	}
	defer closeDB(database)

	experts, err := schedule.LoadExperts(cfg.ExpertsFile)
	if err != nil {
		return err
	}

	var leads requirement.LeadSource
	var notes notify.NoteWriter
	if cfg.CRMToken != "" {
		client, err := crm.NewClient(cfg.CRMToken)
		if err != nil {
			return err
		}
		leads = client
		notes = client
	}

	meetings := schedule.NewRepository(database)
	smtp := notify.SMTPConfig{
		Host: cfg.SMTPHost, Port: cfg.SMTPPort,
		User: cfg.SMTPUser, Pass: cfg.SMTPPass, From: cfg.SMTPFrom,
	}
	var calendar notify.EventCreator
	if cfg.CalendarCredentials != "" {
		svc, err := notify.NewCalendarService(ctx, cfg.CalendarCredentials, cfg.CalendarID)
		if err != nil {
			return fmt.Errorf("setting up calendar: %w", err)
		}
		calendar = svc
	}
	var notifier web.BookingNotifier
	if smtp.IsConfigured() || calendar != nil || notes != nil {
		notifier = notify.NewNotifier(smtp, "", calendar, meetings, notes)
	}

	server := web.NewServer(database, experts, leads, notifier)

	slog.Info("starting server", "port", cfg.Port, "db", dbPath, "experts", len(experts))
	return server.ListenAndServe(cfg.Port)
}
