package schedule

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Scheduling failures the API maps to distinct status codes.
var (
	ErrPastDateTime      = errors.New("start time must be in the future")
	ErrNoExpertAvailable = errors.New("no expert available for this slot")
)

// ValidationError reports a missing required request field.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// Request asks for a consultation at StartTime. ExpertEmail pins a specific
// expert; when empty the scheduler assigns one.
type Request struct {
	ClientID    string    `json:"client_id"`
	ClientName  string    `json:"client_name"`
	ExpertEmail string    `json:"expert_email,omitempty"`
	StartTime   time.Time `json:"start_time"`
}

// Ranker orders experts by assignment preference. The first available expert
// in the returned order gets the meeting.
type Ranker func(experts []Expert) []Expert

// FirstAvailable keeps the directory order, so the first listed free expert
// is assigned.
func FirstAvailable(experts []Expert) []Expert {
	return experts
}

// NewRoundRobin returns a ranker that rotates the starting expert on every
// call, spreading bookings across the pool.
func NewRoundRobin() Ranker {
	var mu sync.Mutex
	var offset int
	return func(experts []Expert) []Expert {
		if len(experts) == 0 {
			return experts
		}
		mu.Lock()
		start := offset % len(experts)
		offset++
		mu.Unlock()

		rotated := make([]Expert, 0, len(experts))
		rotated = append(rotated, experts[start:]...)
		rotated = append(rotated, experts[:start]...)
		return rotated
	}
}

// Scheduler books meetings against the expert pool.
type Scheduler struct {
	repo    *Repository
	experts []Expert
	rank    Ranker
	now     func() time.Time
}

// NewScheduler creates a scheduler with the default first-available
// assignment policy.
func NewScheduler(repo *Repository, experts []Expert) *Scheduler {
	return &Scheduler{
		repo:    repo,
		experts: experts,
		rank:    FirstAvailable,
		now:     time.Now,
	}
}

// WithRanker replaces the assignment policy.
func (s *Scheduler) WithRanker(rank Ranker) *Scheduler {
	s.rank = rank
	return s
}

// withClock fixes the scheduler's wall clock. Test use only.
func (s *Scheduler) withClock(now func() time.Time) *Scheduler {
	s.now = now
	return s
}

// Experts returns the configured expert pool.
func (s *Scheduler) Experts() []Expert {
	return s.experts
}

// CheckAvailabilityAndSchedule validates the request, finds a free expert
// and books the meeting. The booking itself re-checks under a write lock,
// so a winner is guaranteed even under concurrent requests.
func (s *Scheduler) CheckAvailabilityAndSchedule(ctx context.Context, req Request) (*Meeting, error) {
	switch {
	case req.ClientID == "":
		return nil, &ValidationError{Field: "client_id"}
	case req.ClientName == "":
		return nil, &ValidationError{Field: "client_name"}
	case req.StartTime.IsZero():
		return nil, &ValidationError{Field: "start_time"}
	}

	// SQLite compares stored timestamps as text, so every persisted or
	// queried instant must carry the same zone. Normalize here; the same
	// wall-clock instant in any offset books the same slot.
	req.StartTime = req.StartTime.UTC()

	if !req.StartTime.After(s.now()) {
		return nil, ErrPastDateTime
	}

	existing, err := s.repo.RelevantTo(req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("loading meetings: %w", err)
	}

	candidates := s.candidateExperts(req)
	for _, expert := range candidates {
		if expertBusy(expert.Email, req.StartTime, existing) {
			continue
		}

		m := &Meeting{
			ID:              uuid.NewString(),
			ClientID:        req.ClientID,
			ClientName:      req.ClientName,
			ExpertEmail:     expert.Email,
			ExpertName:      expert.Name,
			StartTime:       req.StartTime,
			EndTime:         req.StartTime.Add(MeetingDuration),
			DurationMinutes: int(MeetingDuration.Minutes()),
			Status:          StatusScheduled,
		}

		err := s.repo.Book(ctx, m)
		if errors.Is(err, ErrSlotTaken) {
			// Raced with another booking for this expert. Try the next.
			continue
		}
		if err != nil {
			return nil, err
		}

		return m, nil
	}

	return nil, ErrNoExpertAvailable
}

// candidateExperts resolves the request to an ordered expert list. A pinned
// email restricts the pool to that expert.
func (s *Scheduler) candidateExperts(req Request) []Expert {
	if req.ExpertEmail != "" {
		for _, e := range s.experts {
			if e.Email == req.ExpertEmail {
				return []Expert{e}
			}
		}
		return nil
	}
	return s.rank(s.experts)
}

// expertBusy reports whether any of the expert's meetings conflicts with a
// candidate slot at start.
func expertBusy(email string, start time.Time, meetings []*Meeting) bool {
	for _, m := range meetings {
		if m.ExpertEmail == email && m.conflictsWith(start) {
			return true
		}
	}
	return false
}
