// Package web provides the JSON API for the expert dashboard.
package web

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/propdesk/propdesk/internal/inventory"
	"github.com/propdesk/propdesk/internal/logging"
	"github.com/propdesk/propdesk/internal/match"
	"github.com/propdesk/propdesk/internal/property"
	"github.com/propdesk/propdesk/internal/requirement"
	"github.com/propdesk/propdesk/internal/schedule"
	"github.com/propdesk/propdesk/internal/shortlist"
)

// BookingNotifier runs post-booking side effects. Implemented by
// notify.Notifier; nil disables notifications.
type BookingNotifier interface {
	MeetingBooked(ctx context.Context, m *schedule.Meeting) []string
}

// Server is the dashboard API server.
type Server struct {
	propRepo   *property.Repository
	reqRepo    *requirement.Repository
	reqService *requirement.Service
	shortlists *shortlist.Repository
	meetings   *schedule.Repository
	scheduler  *schedule.Scheduler
	inv        *inventory.Cache
	matcher    *match.Matcher
	notifier   BookingNotifier
	mux        *http.ServeMux
}

// NewServer wires the API server. notifier and the requirement service's
// CRM source may be nil when those integrations are not configured.
func NewServer(db *sql.DB, experts []schedule.Expert, leads requirement.LeadSource, notifier BookingNotifier) *Server {
	propRepo := property.NewRepository(db)
	reqRepo := requirement.NewRepository(db)
	meetings := schedule.NewRepository(db)
	inv := inventory.New(propRepo, inventory.DefaultTTL)

	s := &Server{
		propRepo:   propRepo,
		reqRepo:    reqRepo,
		reqService: requirement.NewService(reqRepo, leads),
		shortlists: shortlist.NewRepository(db),
		meetings:   meetings,
		scheduler:  schedule.NewScheduler(meetings, experts),
		inv:        inv,
		matcher:    match.New(inv),
		notifier:   notifier,
		mux:        http.NewServeMux(),
	}

	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/match", s.handleMatch)
	s.mux.HandleFunc("/api/properties", s.handleProperties)
	s.mux.HandleFunc("/api/properties/", s.handleProperties)
	s.mux.HandleFunc("/api/clients/", s.handleClientRoute)
	s.mux.HandleFunc("/api/meetings", s.handleMeetings)
	s.mux.HandleFunc("/api/slots", s.handleSlots)
	s.mux.HandleFunc("/api/experts", s.handleExperts)

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logging.RequestLogger(s.mux).ServeHTTP(w, r)
}

// ListenAndServe starts the API server.
func (s *Server) ListenAndServe(port string) error {
	return http.ListenAndServe(":"+port, s)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	apiJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}
