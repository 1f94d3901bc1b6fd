package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/propdesk/propdesk/internal/match"
	"github.com/propdesk/propdesk/internal/property"
	"github.com/propdesk/propdesk/internal/requirement"
	"github.com/propdesk/propdesk/internal/schedule"
	"github.com/propdesk/propdesk/internal/suggest"
)

// apiError writes a JSON error response.
func apiError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	resp := map[string]string{"error": msg}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
	}
}

// apiJSON writes a JSON response with the given status code.
func apiJSON(w http.ResponseWriter, data interface{}, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
	}
}

// handleMatch runs the matcher for ad-hoc criteria.
func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var criteria match.Criteria
	if err := json.NewDecoder(r.Body).Decode(&criteria); err != nil {
		apiError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := s.matcher.Match(criteria)
	if err != nil {
		apiError(w, "matching failed", http.StatusInternalServerError)
		return
	}

	apiJSON(w, result, http.StatusOK)
}

// handleProperties routes /api/properties requests.
func (s *Server) handleProperties(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/properties")
	path = strings.TrimPrefix(path, "/")

	// /api/properties — list or add
	if path == "" {
		switch r.Method {
		case http.MethodGet:
			s.apiListProperties(w, r)
		case http.MethodPost:
			s.apiAddProperty(w, r)
		default:
			apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	// /api/properties/{id} — show or remove
	id, err := strconv.ParseInt(path, 10, 64)
	if err != nil {
		apiError(w, "invalid property ID", http.StatusBadRequest)
		return
	}
	switch r.Method {
	case http.MethodGet:
		s.apiGetProperty(w, id)
	case http.MethodDelete:
		s.apiDeleteProperty(w, id)
	default:
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) apiListProperties(w http.ResponseWriter, r *http.Request) {
	opts := property.ListOptions{
		Area: r.URL.Query().Get("area"),
		BHK:  r.URL.Query().Get("bhk"),
	}
	if maxPrice := r.URL.Query().Get("max_price"); maxPrice != "" {
		v, err := strconv.ParseInt(maxPrice, 10, 64)
		if err != nil {
			apiError(w, "invalid max_price", http.StatusBadRequest)
			return
		}
		opts.MaxPrice = &v
	}

	records, err := s.propRepo.List(opts)
	if err != nil {
		apiError(w, "listing properties failed", http.StatusInternalServerError)
		return
	}

	apiJSON(w, records, http.StatusOK)
}

func (s *Server) apiAddProperty(w http.ResponseWriter, r *http.Request) {
	var rec property.Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		apiError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	saved, err := s.propRepo.Upsert(&rec)
	if err != nil {
		apiError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := s.inv.Refresh(); err != nil {
		apiError(w, "refreshing inventory failed", http.StatusInternalServerError)
		return
	}

	apiJSON(w, saved, http.StatusCreated)
}

func (s *Server) apiGetProperty(w http.ResponseWriter, id int64) {
	rec, err := s.propRepo.GetByID(id)
	if err != nil {
		apiError(w, "property not found", http.StatusNotFound)
		return
	}
	apiJSON(w, rec, http.StatusOK)
}

func (s *Server) apiDeleteProperty(w http.ResponseWriter, id int64) {
	if err := s.propRepo.Delete(id); err != nil {
		apiError(w, "property not found", http.StatusNotFound)
		return
	}

	if _, err := s.inv.Refresh(); err != nil {
		apiError(w, "refreshing inventory failed", http.StatusInternalServerError)
		return
	}

	apiJSON(w, map[string]string{"status": "deleted"}, http.StatusOK)
}

// handleClientRoute routes /api/clients/{id}/* requests.
func (s *Server) handleClientRoute(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/clients/")
	clientID, rest, _ := strings.Cut(path, "/")
	if clientID == "" {
		apiError(w, "client ID is required", http.StatusBadRequest)
		return
	}

	switch {
	case rest == "requirements":
		s.handleRequirements(w, r, clientID)
	case strings.HasPrefix(rest, "requirements/"):
		s.handleRequirement(w, r, clientID, strings.TrimPrefix(rest, "requirements/"))
	case rest == "shortlist":
		s.handleShortlist(w, r, clientID)
	case rest == "sync":
		s.handleCRMSync(w, r, clientID)
	default:
		apiError(w, "not found", http.StatusNotFound)
	}
}

func (s *Server) handleRequirements(w http.ResponseWriter, r *http.Request, clientID string) {
	switch r.Method {
	case http.MethodGet:
		reqs, err := s.reqRepo.ListByClient(clientID)
		if err != nil {
			apiError(w, "listing requirements failed", http.StatusInternalServerError)
			return
		}
		apiJSON(w, reqs, http.StatusOK)
	case http.MethodPost:
		var req requirement.Requirement
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiError(w, "invalid request body", http.StatusBadRequest)
			return
		}
		req.ClientID = clientID

		added, err := s.reqRepo.Add(&req)
		if err != nil {
			apiError(w, err.Error(), http.StatusBadRequest)
			return
		}
		apiJSON(w, added, http.StatusCreated)
	default:
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleRequirement routes /api/clients/{id}/requirements/{n} and
// /api/clients/{id}/requirements/{n}/match.
func (s *Server) handleRequirement(w http.ResponseWriter, r *http.Request, clientID, rest string) {
	seqStr, action, _ := strings.Cut(rest, "/")
	seq, err := strconv.Atoi(seqStr)
	if err != nil || seq < 1 {
		apiError(w, "invalid requirement number", http.StatusBadRequest)
		return
	}

	if action == "match" {
		if r.Method != http.MethodPost {
			apiError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.apiMatchRequirement(w, r, clientID, seq)
		return
	}
	if action != "" {
		apiError(w, "not found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		req, err := s.reqRepo.GetByClientSeq(clientID, seq)
		if err != nil {
			apiError(w, "requirement not found", http.StatusNotFound)
			return
		}
		apiJSON(w, req, http.StatusOK)
	case http.MethodDelete:
		if err := s.reqRepo.Delete(clientID, seq); err != nil {
			code := http.StatusNotFound
			if seq == 1 {
				code = http.StatusBadRequest
			}
			apiError(w, err.Error(), code)
			return
		}
		apiJSON(w, map[string]string{"status": "deleted"}, http.StatusOK)
	default:
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// apiMatchRequirement runs the matcher for a stored requirement, caches the
// counts on it and merges the client's shortlist annotations and any
// bot-suggested text into the response.
func (s *Server) apiMatchRequirement(w http.ResponseWriter, r *http.Request, clientID string, seq int) {
	req, err := s.reqRepo.GetByClientSeq(clientID, seq)
	if err != nil {
		apiError(w, "requirement not found", http.StatusNotFound)
		return
	}

	var body struct {
		SuggestionsText string `json:"suggestions_text,omitempty"`
	}
	if r.Body != nil {
		// Body is optional for this endpoint.
		_ = json.NewDecoder(r.Body).Decode(&body)
	}

	criteria := req.Criteria()
	criteria.IncludeProperties = true
	criteria.ReturnAll = true
	result, err := s.matcher.Match(criteria)
	if err != nil {
		apiError(w, "matching failed", http.StatusInternalServerError)
		return
	}

	if err := s.reqRepo.UpdateMatchCounts(clientID, seq, result.TotalMatches, result.MatchedCount); err != nil {
		apiError(w, "caching match counts failed", http.StatusInternalServerError)
		return
	}

	annotations, err := s.shortlists.AnnotationsByKey(clientID)
	if err != nil {
		apiError(w, "loading shortlist failed", http.StatusInternalServerError)
		return
	}

	dynamic := make([]*match.Entry, 0, len(result.Properties))
	for _, rec := range result.Properties {
		entry := &match.Entry{Property: rec, Source: match.SourceDynamic}
		if ann, ok := annotations[rec.IdentityKey()]; ok {
			entry.Note = ann.Note
			entry.Status = ann.Status
		}
		dynamic = append(dynamic, entry)
	}

	var bot []*match.Entry
	for _, rec := range suggest.ParseSuggestedProperties(body.SuggestionsText) {
		entry := &match.Entry{Property: rec, Source: match.SourceBot}
		if ann, ok := annotations[rec.IdentityKey()]; ok {
			entry.Note = ann.Note
			entry.Status = ann.Status
		}
		bot = append(bot, entry)
	}

	apiJSON(w, struct {
		TotalMatches int            `json:"totalMatches"`
		MatchedCount int            `json:"matchedCount"`
		Entries      []*match.Entry `json:"entries"`
	}{
		TotalMatches: result.TotalMatches,
		MatchedCount: result.MatchedCount,
		Entries:      match.Merge(dynamic, bot),
	}, http.StatusOK)
}

func (s *Server) handleShortlist(w http.ResponseWriter, r *http.Request, clientID string) {
	switch r.Method {
	case http.MethodGet:
		items, err := s.shortlists.ListByClient(clientID)
		if err != nil {
			apiError(w, "listing shortlist failed", http.StatusInternalServerError)
			return
		}
		apiJSON(w, items, http.StatusOK)
	case http.MethodPost:
		var body struct {
			PropertyKey string `json:"property_key"`
			Note        string `json:"note,omitempty"`
			Status      string `json:"status,omitempty"`
			Source      string `json:"source,omitempty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			apiError(w, "invalid request body", http.StatusBadRequest)
			return
		}

		item, err := s.shortlists.Annotate(clientID, body.PropertyKey, body.Note, body.Status, body.Source)
		if err != nil {
			apiError(w, err.Error(), http.StatusBadRequest)
			return
		}
		apiJSON(w, item, http.StatusOK)
	case http.MethodDelete:
		key := r.URL.Query().Get("key")
		if key == "" {
			apiError(w, "key query parameter is required", http.StatusBadRequest)
			return
		}
		if err := s.shortlists.Remove(clientID, key); err != nil {
			apiError(w, err.Error(), http.StatusNotFound)
			return
		}
		apiJSON(w, map[string]string{"status": "deleted"}, http.StatusOK)
	default:
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleCRMSync(w http.ResponseWriter, r *http.Request, clientID string) {
	if r.Method != http.MethodPost {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	added, err := s.reqService.SyncFromLead(clientID)
	if err != nil {
		apiError(w, err.Error(), http.StatusBadGateway)
		return
	}

	if added == nil {
		apiJSON(w, map[string]string{"status": "unchanged"}, http.StatusOK)
		return
	}
	apiJSON(w, added, http.StatusCreated)
}

// handleMeetings books and lists meetings.
func (s *Server) handleMeetings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.apiBookMeeting(w, r)
	case http.MethodGet:
		s.apiListMeetings(w, r)
	default:
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) apiBookMeeting(w http.ResponseWriter, r *http.Request) {
	var req schedule.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	m, err := s.scheduler.CheckAvailabilityAndSchedule(r.Context(), req)
	if err != nil {
		var verr *schedule.ValidationError
		switch {
		case errors.As(err, &verr):
			apiError(w, verr.Error(), http.StatusBadRequest)
		case errors.Is(err, schedule.ErrPastDateTime):
			apiError(w, err.Error(), http.StatusUnprocessableEntity)
		case errors.Is(err, schedule.ErrNoExpertAvailable):
			apiError(w, err.Error(), http.StatusConflict)
		default:
			apiError(w, "booking failed", http.StatusInternalServerError)
		}
		return
	}

	var warnings []string
	if s.notifier != nil {
		warnings = s.notifier.MeetingBooked(r.Context(), m)
	}

	apiJSON(w, struct {
		Meeting  *schedule.Meeting `json:"meeting"`
		Warnings []string          `json:"warnings,omitempty"`
	}{Meeting: m, Warnings: warnings}, http.StatusCreated)
}

func (s *Server) apiListMeetings(w http.ResponseWriter, r *http.Request) {
	from := time.Now()
	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		parsed, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			apiError(w, "invalid from timestamp", http.StatusBadRequest)
			return
		}
		from = parsed
	}

	var meetings []*schedule.Meeting
	var err error
	if expert := r.URL.Query().Get("expert"); expert != "" {
		meetings, err = s.meetings.ListByExpert(expert, from)
	} else {
		meetings, err = s.meetings.ListBetween(from, from.AddDate(0, 0, 7))
	}
	if err != nil {
		apiError(w, "listing meetings failed", http.StatusInternalServerError)
		return
	}

	apiJSON(w, meetings, http.StatusOK)
}

// handleSlots reports the day's slot grid for the booking UI.
func (s *Server) handleSlots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		apiError(w, "date query parameter is required", http.StatusBadRequest)
		return
	}
	date, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
	if err != nil {
		apiError(w, "invalid date, want YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	slots, err := s.scheduler.SlotsForDate(date, schedule.DefaultWindow)
	if err != nil {
		apiError(w, "listing slots failed", http.StatusInternalServerError)
		return
	}

	apiJSON(w, slots, http.StatusOK)
}

func (s *Server) handleExperts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	apiJSON(w, s.scheduler.Experts(), http.StatusOK)
}
