package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/propdesk/propdesk/internal/db"
	"github.com/propdesk/propdesk/internal/match"
	"github.com/propdesk/propdesk/internal/property"
	"github.com/propdesk/propdesk/internal/requirement"
	"github.com/propdesk/propdesk/internal/schedule"
)

var testExperts = []schedule.Expert{
	{Email: "priya@propdesk.in", Name: "Priya"},
	{Email: "rahul@propdesk.in", Name: "Rahul"},
}

func testServer(t *testing.T) *Server {
	t.Helper()

	conn, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return NewServer(conn, testExperts, nil, nil)
}

func doJSON(t *testing.T, s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshaling request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, into interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), into); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
}

func seedProperty(t *testing.T, s *Server, project, area string, price int64, bhk string) {
	t.Helper()
	rec := doJSON(t, s, "POST", "/api/properties", map[string]interface{}{
		"project_name": project,
		"area":         area,
		"price":        price,
		"bhk":          bhk,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("seeding property: status %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestHealthEndpoint(t *testing.T) {
	rec := doJSON(t, testServer(t), "GET", "/health", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestMatchEndpoint(t *testing.T) {
	s := testServer(t)
	seedProperty(t, s, "Sunrise Towers", "Uppal", 9500000, "2")
	seedProperty(t, s, "Lake View", "Nagole", 13000000, "3")
	seedProperty(t, s, "Budget Homes", "Uppal", 6000000, "2")

	rec := doJSON(t, s, "POST", "/api/match", map[string]interface{}{
		"budget":             "1 Crore",
		"locations":          []string{"Uppal"},
		"include_properties": true,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var result match.Result
	decode(t, rec, &result)
	if result.TotalMatches != 2 {
		t.Errorf("totalMatches = %d, want 2", result.TotalMatches)
	}
	if len(result.Properties) != 2 {
		t.Errorf("got %d properties", len(result.Properties))
	}
}

func TestMatchEndpointRejectsBadBody(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest("POST", "/api/match", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	if rec := doJSON(t, s, "GET", "/api/match", nil); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET status = %d, want 405", rec.Code)
	}
}

func TestPropertyCRUD(t *testing.T) {
	s := testServer(t)
	seedProperty(t, s, "Sunrise Towers", "Uppal", 9500000, "2")

	var records []*property.Record
	rec := doJSON(t, s, "GET", "/api/properties?area=uppal", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	decode(t, rec, &records)
	if len(records) != 1 {
		t.Fatalf("got %d records", len(records))
	}

	id := records[0].ID
	rec = doJSON(t, s, "GET", fmt.Sprintf("/api/properties/%d", id), nil)
	if rec.Code != http.StatusOK {
		t.Errorf("get status = %d", rec.Code)
	}

	rec = doJSON(t, s, "DELETE", fmt.Sprintf("/api/properties/%d", id), nil)
	if rec.Code != http.StatusOK {
		t.Errorf("delete status = %d", rec.Code)
	}

	// The inventory cache must have been refreshed.
	rec = doJSON(t, s, "POST", "/api/match", map[string]interface{}{"include_properties": true})
	var result match.Result
	decode(t, rec, &result)
	if result.TotalMatches != 0 {
		t.Errorf("totalMatches after delete = %d, want 0", result.TotalMatches)
	}

	if rec := doJSON(t, s, "GET", "/api/properties/notanid", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("invalid id status = %d, want 400", rec.Code)
	}
	if rec := doJSON(t, s, "GET", fmt.Sprintf("/api/properties/%d", id), nil); rec.Code != http.StatusNotFound {
		t.Errorf("deleted id status = %d, want 404", rec.Code)
	}
}

func TestRequirementEndpoints(t *testing.T) {
	s := testServer(t)

	rec := doJSON(t, s, "POST", "/api/clients/client-1/requirements", map[string]interface{}{
		"budget":         "1 Crore",
		"configurations": []string{"2 BHK"},
		"locations":      []string{"Uppal"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add status = %d, body %s", rec.Code, rec.Body.String())
	}

	var added requirement.Requirement
	decode(t, rec, &added)
	if added.Seq != 2 {
		t.Errorf("seq = %d, want 2", added.Seq)
	}

	var reqs []*requirement.Requirement
	rec = doJSON(t, s, "GET", "/api/clients/client-1/requirements", nil)
	decode(t, rec, &reqs)
	if len(reqs) != 2 || !reqs[0].IsSentinel() {
		t.Errorf("list = %d requirements, sentinel first = %v", len(reqs), reqs[0].IsSentinel())
	}

	if rec := doJSON(t, s, "DELETE", "/api/clients/client-1/requirements/1", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("delete sentinel status = %d, want 400", rec.Code)
	}
	if rec := doJSON(t, s, "DELETE", "/api/clients/client-1/requirements/2", nil); rec.Code != http.StatusOK {
		t.Errorf("delete status = %d", rec.Code)
	}
	if rec := doJSON(t, s, "GET", "/api/clients/client-1/requirements/2", nil); rec.Code != http.StatusNotFound {
		t.Errorf("get deleted status = %d, want 404", rec.Code)
	}
}

func TestRequirementMatchMergesShortlist(t *testing.T) {
	s := testServer(t)
	seedProperty(t, s, "Sunrise Towers", "Uppal", 9500000, "2")
	seedProperty(t, s, "Budget Homes", "Uppal", 6000000, "2")

	rec := doJSON(t, s, "POST", "/api/clients/client-1/requirements", map[string]interface{}{
		"budget":    "1 Crore",
		"locations": []string{"Uppal"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add requirement: %s", rec.Body.String())
	}

	rec = doJSON(t, s, "POST", "/api/clients/client-1/shortlist", map[string]interface{}{
		"property_key": "proj:sunrise towers|uppal",
		"note":         "client liked photos",
		"status":       "interested",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("annotate: %s", rec.Body.String())
	}

	rec = doJSON(t, s, "POST", "/api/clients/client-1/requirements/2/match", map[string]interface{}{
		"suggestions_text": "Moonrise Heights - Kompally - 90L - 2 BHK",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("match status = %d, body %s", rec.Code, rec.Body.String())
	}

	var result struct {
		TotalMatches int            `json:"totalMatches"`
		Entries      []*match.Entry `json:"entries"`
	}
	decode(t, rec, &result)
	if result.TotalMatches != 2 {
		t.Errorf("totalMatches = %d, want 2", result.TotalMatches)
	}
	if len(result.Entries) != 3 {
		t.Fatalf("got %d entries, want 2 dynamic + 1 bot", len(result.Entries))
	}

	byProject := map[string]*match.Entry{}
	for _, e := range result.Entries {
		byProject[e.Property.ProjectName] = e
	}
	sunrise := byProject["Sunrise Towers"]
	if sunrise == nil || sunrise.Note != "client liked photos" {
		t.Errorf("sunrise entry = %+v, want annotated", sunrise)
	}
	moonrise := byProject["Moonrise Heights"]
	if moonrise == nil || moonrise.Source != match.SourceBot {
		t.Errorf("moonrise entry = %+v, want bot source", moonrise)
	}

	// Counts are cached on the requirement.
	var req requirement.Requirement
	rec = doJSON(t, s, "GET", "/api/clients/client-1/requirements/2", nil)
	decode(t, rec, &req)
	if req.MatchedCount != 2 || req.UniqueMatchedCount != 2 {
		t.Errorf("cached counts = %d/%d, want 2/2", req.MatchedCount, req.UniqueMatchedCount)
	}
}

func TestBookMeetingStatusCodes(t *testing.T) {
	s := testServer(t)
	start := time.Now().Add(48 * time.Hour).Truncate(time.Hour)

	book := func(clientID, clientName string, startTime time.Time) *httptest.ResponseRecorder {
		return doJSON(t, s, "POST", "/api/meetings", map[string]interface{}{
			"client_id":   clientID,
			"client_name": clientName,
			"start_time":  startTime.Format(time.RFC3339),
		})
	}

	rec := book("client-1", "Asha", start)
	if rec.Code != http.StatusCreated {
		t.Fatalf("book status = %d, body %s", rec.Code, rec.Body.String())
	}
	var booked struct {
		Meeting *schedule.Meeting `json:"meeting"`
	}
	decode(t, rec, &booked)
	if booked.Meeting.ExpertEmail != "priya@propdesk.in" {
		t.Errorf("expert = %s", booked.Meeting.ExpertEmail)
	}

	if rec := book("client-2", "Vikram", start); rec.Code != http.StatusCreated {
		t.Errorf("second expert book status = %d", rec.Code)
	}
	if rec := book("client-3", "Meera", start); rec.Code != http.StatusConflict {
		t.Errorf("fully booked status = %d, want 409", rec.Code)
	}
	if rec := book("client-4", "Divya", time.Now().Add(-time.Hour)); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("past slot status = %d, want 422", rec.Code)
	}
	if rec := book("", "Asha", start.Add(3*time.Hour)); rec.Code != http.StatusBadRequest {
		t.Errorf("missing field status = %d, want 400", rec.Code)
	}

	var meetings []*schedule.Meeting
	rec = doJSON(t, s, "GET", "/api/meetings?expert=priya@propdesk.in", nil)
	decode(t, rec, &meetings)
	if len(meetings) != 1 {
		t.Errorf("got %d meetings for priya, want 1", len(meetings))
	}
}

func TestSlotsEndpoint(t *testing.T) {
	s := testServer(t)

	date := time.Now().AddDate(0, 0, 2).Format("2006-01-02")
	rec := doJSON(t, s, "GET", "/api/slots?date="+date, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var slots []schedule.Slot
	decode(t, rec, &slots)
	if len(slots) != 34 {
		t.Errorf("got %d slots, want 34", len(slots))
	}

	if rec := doJSON(t, s, "GET", "/api/slots", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("missing date status = %d, want 400", rec.Code)
	}
	if rec := doJSON(t, s, "GET", "/api/slots?date=tomorrow", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("bad date status = %d, want 400", rec.Code)
	}
}

func TestExpertsEndpoint(t *testing.T) {
	rec := doJSON(t, testServer(t), "GET", "/api/experts", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var experts []schedule.Expert
	decode(t, rec, &experts)
	if len(experts) != 2 || experts[0].Email != "priya@propdesk.in" {
		t.Errorf("experts = %+v", experts)
	}
}

func TestCRMSyncWithoutCRM(t *testing.T) {
	rec := doJSON(t, testServer(t), "POST", "/api/clients/client-1/sync", nil)
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
}
