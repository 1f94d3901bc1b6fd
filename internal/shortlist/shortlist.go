// Package shortlist persists per-client annotations on matched properties.
// Rows are keyed by the property identity key so notes and statuses survive
// inventory refreshes that replace the underlying property rows.
package shortlist

import (
	"database/sql"
	"fmt"
	"time"
)

// Known statuses. Free text is accepted; these are what the UI offers.
const (
	StatusInterested = "interested"
	StatusVisited    = "visited"
	StatusRejected   = "rejected"
)

// Item is one annotated property for a client.
type Item struct {
	ID          int64     `json:"id"`
	ClientID    string    `json:"client_id"`
	PropertyKey string    `json:"property_key"`
	Note        string    `json:"note,omitempty"`
	Status      string    `json:"status,omitempty"`
	Source      string    `json:"source"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Repository provides shortlist storage.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a shortlist repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Annotate upserts the note and status for a (client, property) pair.
// Empty note or status fields keep the stored value.
func (r *Repository) Annotate(clientID, propertyKey, note, status, source string) (*Item, error) {
	if clientID == "" || propertyKey == "" {
		return nil, fmt.Errorf("client id and property key are required")
	}
	if source == "" {
		source = "dynamic"
	}

	_, err := r.db.Exec(
		`INSERT INTO shortlist (client_id, property_key, note, status, source)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (client_id, property_key) DO UPDATE SET
			note = CASE WHEN excluded.note != '' THEN excluded.note ELSE shortlist.note END,
			status = CASE WHEN excluded.status != '' THEN excluded.status ELSE shortlist.status END,
			updated_at = CURRENT_TIMESTAMP`,
		clientID, propertyKey, note, status, source,
	)
	if err != nil {
		return nil, fmt.Errorf("annotating property: %w", err)
	}

	return r.Get(clientID, propertyKey)
}

// Get returns the annotation for a (client, property) pair.
func (r *Repository) Get(clientID, propertyKey string) (*Item, error) {
	row := r.db.QueryRow(
		`SELECT id, client_id, property_key, note, status, source, created_at, updated_at
		 FROM shortlist WHERE client_id = ? AND property_key = ?`,
		clientID, propertyKey,
	)

	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no annotation for %s", propertyKey)
	}
	if err != nil {
		return nil, fmt.Errorf("querying annotation: %w", err)
	}

	return item, nil
}

// ListByClient returns all annotations for a client, newest update first.
func (r *Repository) ListByClient(clientID string) ([]*Item, error) {
	rows, err := r.db.Query(
		`SELECT id, client_id, property_key, note, status, source, created_at, updated_at
		 FROM shortlist WHERE client_id = ? ORDER BY updated_at DESC, id DESC`,
		clientID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing shortlist: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning shortlist item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating shortlist: %w", err)
	}

	return items, nil
}

// AnnotationsByKey returns the client's annotations indexed by property key,
// for merge with live match results.
func (r *Repository) AnnotationsByKey(clientID string) (map[string]*Item, error) {
	items, err := r.ListByClient(clientID)
	if err != nil {
		return nil, err
	}

	byKey := make(map[string]*Item, len(items))
	for _, item := range items {
		byKey[item.PropertyKey] = item
	}
	return byKey, nil
}

// Remove deletes the annotation for a (client, property) pair.
func (r *Repository) Remove(clientID, propertyKey string) error {
	result, err := r.db.Exec(
		"DELETE FROM shortlist WHERE client_id = ? AND property_key = ?",
		clientID, propertyKey,
	)
	if err != nil {
		return fmt.Errorf("removing annotation: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("no annotation for %s", propertyKey)
	}

	return nil
}

func scanItem(row interface{ Scan(...interface{}) error }) (*Item, error) {
	var item Item
	err := row.Scan(
		&item.ID, &item.ClientID, &item.PropertyKey, &item.Note,
		&item.Status, &item.Source, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}
