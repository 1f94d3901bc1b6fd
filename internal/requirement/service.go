package requirement

import (
	"fmt"
	"log/slog"

	"github.com/propdesk/propdesk/internal/crm"
)

// LeadSource fetches lead records from the CRM.
type LeadSource interface {
	GetLead(id string) (*crm.Lead, error)
}

// Service layers CRM lead synthesis on top of the repository.
type Service struct {
	repo  *Repository
	leads LeadSource
}

// NewService creates a requirement service. leads may be nil when no CRM is
// configured; SyncFromLead then fails with a clear error.
func NewService(repo *Repository, leads LeadSource) *Service {
	return &Service{repo: repo, leads: leads}
}

// SyncFromLead loads the CRM lead, guarantees the client's sentinel
// requirement, and creates one requirement from the lead's stated
// preferences. Leads with no preferences, and clients that already carry a
// synthesized or manual requirement, leave the list unchanged.
func (s *Service) SyncFromLead(leadID string) (*Requirement, error) {
	if s.leads == nil {
		return nil, fmt.Errorf("no CRM configured")
	}

	lead, err := s.leads.GetLead(leadID)
	if err != nil {
		return nil, fmt.Errorf("fetching lead: %w", err)
	}

	existing, err := s.repo.ListByClient(lead.ID)
	if err != nil {
		return nil, err
	}
	for _, req := range existing {
		if !req.IsSentinel() {
			slog.Debug("client already has requirements, skipping lead sync",
				"client_id", lead.ID, "count", len(existing)-1)
			return nil, nil
		}
	}

	synthesized := &Requirement{
		ClientID:       lead.ID,
		Name:           "From CRM lead",
		Budget:         lead.Budget,
		Configurations: lead.Configurations,
		Locations:      lead.Locations,
		PropertyType:   lead.PropertyType,
	}
	if !synthesized.HasPreferences() {
		slog.Debug("lead has no stated preferences", "client_id", lead.ID)
		return nil, nil
	}

	added, err := s.repo.Add(synthesized)
	if err != nil {
		return nil, fmt.Errorf("creating requirement from lead: %w", err)
	}

	slog.Info("synthesized requirement from CRM lead",
		"client_id", lead.ID, "seq", added.Seq)
	return added, nil
}
