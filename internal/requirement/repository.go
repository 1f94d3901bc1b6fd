package requirement

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

// Repository provides CRUD operations for client requirements.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a requirement repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const selectColumns = `id, client_id, seq, name, budget_text, budget_min, budget_max,
	configurations, locations, possessions, property_type, size_min, size_max,
	financing, include_gst, matched_count, unique_matched_count, created_at, updated_at`

// EnsureDefault guarantees the sentinel requirement (seq 1) exists for the
// client and returns it. Safe to call repeatedly.
func (r *Repository) EnsureDefault(clientID string) (*Requirement, error) {
	if clientID == "" {
		return nil, fmt.Errorf("client id is required")
	}

	_, err := r.db.Exec(
		`INSERT INTO requirements (client_id, seq, name) VALUES (?, 1, ?)
		 ON CONFLICT (client_id, seq) DO NOTHING`,
		clientID, SentinelName,
	)
	if err != nil {
		return nil, fmt.Errorf("ensuring default requirement: %w", err)
	}

	return r.GetByClientSeq(clientID, 1)
}

// Add stores a new requirement for the client at the next sequence number
// (always ≥ 2; the sentinel is created first if missing).
func (r *Repository) Add(req *Requirement) (*Requirement, error) {
	if req.ClientID == "" {
		return nil, fmt.Errorf("client id is required")
	}
	if !ValidFinancing(string(req.Financing)) {
		return nil, fmt.Errorf("invalid financing option: %q", req.Financing)
	}

	if _, err := r.EnsureDefault(req.ClientID); err != nil {
		return nil, err
	}

	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // no-op after commit
	}()

	var nextSeq int
	err = tx.QueryRow(
		"SELECT COALESCE(MAX(seq), 1) + 1 FROM requirements WHERE client_id = ?",
		req.ClientID,
	).Scan(&nextSeq)
	if err != nil {
		return nil, fmt.Errorf("finding next sequence: %w", err)
	}

	configs, locations, possessions, err := marshalLists(req)
	if err != nil {
		return nil, err
	}

	name := req.Name
	if name == "" {
		name = fmt.Sprintf("Requirement %d", nextSeq)
	}

	_, err = tx.Exec(
		`INSERT INTO requirements
			(client_id, seq, name, budget_text, budget_min, budget_max,
			 configurations, locations, possessions, property_type,
			 size_min, size_max, financing, include_gst)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		req.ClientID, nextSeq, name, req.Budget, req.BudgetMin, req.BudgetMax,
		configs, locations, possessions, req.PropertyType,
		req.SizeMin, req.SizeMax, string(req.Financing), boolToInt(req.IncludeGST),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting requirement: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing requirement: %w", err)
	}

	return r.GetByClientSeq(req.ClientID, nextSeq)
}

// GetByClientSeq returns the client's requirement with the given sequence.
func (r *Repository) GetByClientSeq(clientID string, seq int) (*Requirement, error) {
	query := fmt.Sprintf("SELECT %s FROM requirements WHERE client_id = ? AND seq = ?", selectColumns)
	row := r.db.QueryRow(query, clientID, seq)

	req, err := scanRequirement(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("requirement %d for client %s not found", seq, clientID)
	}
	if err != nil {
		return nil, fmt.Errorf("querying requirement %d for client %s: %w", seq, clientID, err)
	}

	return req, nil
}

// ListByClient returns all requirements for a client, in sequence order.
// The sentinel is created if the client has no rows yet.
func (r *Repository) ListByClient(clientID string) ([]*Requirement, error) {
	if _, err := r.EnsureDefault(clientID); err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM requirements WHERE client_id = ? ORDER BY seq", selectColumns)
	rows, err := r.db.Query(query, clientID)
	if err != nil {
		return nil, fmt.Errorf("listing requirements: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	var reqs []*Requirement
	for rows.Next() {
		req, err := scanRequirement(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning requirement: %w", err)
		}
		reqs = append(reqs, req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating requirements: %w", err)
	}

	return reqs, nil
}

// Delete removes a requirement. The sentinel (seq 1) is non-deletable.
func (r *Repository) Delete(clientID string, seq int) error {
	if seq == 1 {
		return fmt.Errorf("requirement 1 cannot be deleted")
	}

	result, err := r.db.Exec(
		"DELETE FROM requirements WHERE client_id = ? AND seq = ?", clientID, seq,
	)
	if err != nil {
		return fmt.Errorf("deleting requirement: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("requirement %d for client %s not found", seq, clientID)
	}

	return nil
}

// UpdateMatchCounts caches the latest match result on the requirement.
func (r *Repository) UpdateMatchCounts(clientID string, seq, total, unique int) error {
	result, err := r.db.Exec(
		`UPDATE requirements SET matched_count = ?, unique_matched_count = ?,
			updated_at = CURRENT_TIMESTAMP
		 WHERE client_id = ? AND seq = ?`,
		total, unique, clientID, seq,
	)
	if err != nil {
		return fmt.Errorf("updating match counts: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("requirement %d for client %s not found", seq, clientID)
	}

	return nil
}

// scanRequirement scans a requirement from a database row.
func scanRequirement(row interface{ Scan(...interface{}) error }) (*Requirement, error) {
	var req Requirement
	var budgetMin, budgetMax sql.NullInt64
	var sizeMin, sizeMax sql.NullFloat64
	var configs, locations, possessions, financing string
	var includeGST int

	err := row.Scan(
		&req.ID, &req.ClientID, &req.Seq, &req.Name, &req.Budget,
		&budgetMin, &budgetMax, &configs, &locations, &possessions,
		&req.PropertyType, &sizeMin, &sizeMax, &financing, &includeGST,
		&req.MatchedCount, &req.UniqueMatchedCount, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if budgetMin.Valid {
		req.BudgetMin = &budgetMin.Int64
	}
	if budgetMax.Valid {
		req.BudgetMax = &budgetMax.Int64
	}
	if sizeMin.Valid {
		req.SizeMin = &sizeMin.Float64
	}
	if sizeMax.Valid {
		req.SizeMax = &sizeMax.Float64
	}
	req.Financing = Financing(financing)
	req.IncludeGST = includeGST != 0

	for _, pair := range []struct {
		raw string
		dst *[]string
	}{
		{configs, &req.Configurations},
		{locations, &req.Locations},
		{possessions, &req.Possessions},
	} {
		if pair.raw == "" {
			continue
		}
		if err := json.Unmarshal([]byte(pair.raw), pair.dst); err != nil {
			return nil, fmt.Errorf("decoding list column: %w", err)
		}
	}

	return &req, nil
}

// marshalLists encodes the requirement's list fields as JSON text columns.
func marshalLists(req *Requirement) (configs, locations, possessions string, err error) {
	encode := func(v []string) (string, error) {
		if v == nil {
			v = []string{}
		}
		b, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("encoding list column: %w", err)
		}
		return string(b), nil
	}

	if configs, err = encode(req.Configurations); err != nil {
		return "", "", "", err
	}
	if locations, err = encode(req.Locations); err != nil {
		return "", "", "", err
	}
	if possessions, err = encode(req.Possessions); err != nil {
		return "", "", "", err
	}
	return configs, locations, possessions, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
