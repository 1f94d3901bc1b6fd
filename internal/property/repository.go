package property

import (
	"database/sql"
	"fmt"
	"strings"
)

// Repository provides CRUD operations for inventory records.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a property repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const insertSQL = `INSERT INTO properties
	(project_name, area, price, bhk, size_min, size_max, property_type, possession, builder, rera_number)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const selectColumns = `id, project_name, area, price, bhk, size_min, size_max, property_type, possession, builder, rera_number, created_at, updated_at`

// Insert adds a new record and returns it with its generated ID.
func (r *Repository) Insert(p *Record) (*Record, error) {
	result, err := r.db.Exec(insertSQL,
		p.ProjectName, p.Area, p.Price, p.BHK,
		p.SizeMin, p.SizeMax, p.PropertyType, p.Possession,
		p.Builder, p.ReraNumber,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting property: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting insert id: %w", err)
	}

	return r.GetByID(id)
}

// Upsert inserts p, or refreshes the existing row that shares p's identity
// key and BHK. Rows of the same project with different configurations stay
// separate; dedup across them happens at match time.
func (r *Repository) Upsert(p *Record) (*Record, error) {
	existing, err := r.findSameUnit(p)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return r.Insert(p)
	}

	_, err = r.db.Exec(
		`UPDATE properties SET project_name = ?, area = ?, price = ?, size_min = ?, size_max = ?,
			property_type = ?, possession = ?, builder = ?, rera_number = ?,
			updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		p.ProjectName, p.Area, p.Price, p.SizeMin, p.SizeMax,
		p.PropertyType, p.Possession, p.Builder, p.ReraNumber,
		existing.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating property %d: %w", existing.ID, err)
	}

	return r.GetByID(existing.ID)
}

// findSameUnit returns the stored row with p's identity key and BHK, or nil.
func (r *Repository) findSameUnit(p *Record) (*Record, error) {
	all, err := r.List(ListOptions{})
	if err != nil {
		return nil, err
	}
	key := p.IdentityKey()
	for _, rec := range all {
		if rec.IdentityKey() == key && rec.BHK == p.BHK {
			return rec, nil
		}
	}
	return nil, nil
}

// GetByID returns a record by its ID.
func (r *Repository) GetByID(id int64) (*Record, error) {
	query := fmt.Sprintf("SELECT %s FROM properties WHERE id = ?", selectColumns)
	row := r.db.QueryRow(query, id)

	p, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("property %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying property %d: %w", id, err)
	}

	return p, nil
}

// ListOptions controls filtering for List.
type ListOptions struct {
	Area     string // substring, case-insensitive; empty = all
	BHK      string // exact; empty = all
	MaxPrice *int64
}

// List returns all inventory records, optionally filtered.
func (r *Repository) List(opts ListOptions) ([]*Record, error) {
	query := fmt.Sprintf("SELECT %s FROM properties", selectColumns)
	var args []interface{}
	var conditions []string

	if opts.Area != "" {
		conditions = append(conditions, "LOWER(area) LIKE ?")
		args = append(args, "%"+strings.ToLower(opts.Area)+"%")
	}

	if opts.BHK != "" {
		conditions = append(conditions, "bhk = ?")
		args = append(args, opts.BHK)
	}

	if opts.MaxPrice != nil {
		conditions = append(conditions, "price IS NOT NULL AND price <= ?")
		args = append(args, *opts.MaxPrice)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY project_name, bhk, id"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing properties: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	var records []*Record
	for rows.Next() {
		p, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning property: %w", err)
		}
		records = append(records, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating properties: %w", err)
	}

	return records, nil
}

// Delete removes a record by ID.
func (r *Repository) Delete(id int64) error {
	result, err := r.db.Exec("DELETE FROM properties WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting property: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("property %d not found", id)
	}

	return nil
}
