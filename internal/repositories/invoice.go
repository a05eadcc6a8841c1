package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/trackbrowse/internal/models"
	"github.com/desertthunder/trackbrowse/internal/shared"
)

var _ models.Repository[*models.InvoiceItem] = (*InvoiceRepository)(nil)

// ErrAlreadyInvoiced is returned when a track is added to the invoice twice.
var ErrAlreadyInvoiced = errors.New("track is already on the invoice")

// InvoiceRepository implements models.Repository[*models.InvoiceItem] over the invoice_items table.
type InvoiceRepository struct {
	db *sql.DB
}

// NewInvoiceRepository creates a new InvoiceRepository with the given database connection
func NewInvoiceRepository(db *sql.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// Create inserts item with a generated ID. A track can be on the invoice once.
func (r *InvoiceRepository) Create(item *models.InvoiceItem) error {
	item.SetID(shared.GenerateID())

	if err := item.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	query := `
		INSERT INTO invoice_items (id, track_id, name, unit_price, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query, item.ID(), item.TrackID(), item.Name(), item.UnitPrice(), item.CreatedAt())
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %d", ErrAlreadyInvoiced, item.TrackID())
	}
	if err != nil {
		return fmt.Errorf("failed to insert invoice item: %w", err)
	}
	return nil
}

// Get retrieves an invoice item by ID
func (r *InvoiceRepository) Get(id string) (*models.InvoiceItem, error) {
	query := `
		SELECT id, track_id, name, unit_price, created_at
		FROM invoice_items
		WHERE id = ?
	`
	return r.scan(r.db.QueryRow(query, id))
}

// GetByTrackID retrieves the invoice item for a catalog track
func (r *InvoiceRepository) GetByTrackID(trackID int) (*models.InvoiceItem, error) {
	query := `
		SELECT id, track_id, name, unit_price, created_at
		FROM invoice_items
		WHERE track_id = ?
	`
	return r.scan(r.db.QueryRow(query, trackID))
}

// Delete removes an invoice item by ID
func (r *InvoiceRepository) Delete(id string) error {
	return r.delete("id = ?", id)
}

// DeleteByTrackID removes a catalog track from the invoice
func (r *InvoiceRepository) DeleteByTrackID(trackID int) error {
	return r.delete("track_id = ?", trackID)
}

// List retrieves every invoice item, oldest first
func (r *InvoiceRepository) List() ([]*models.InvoiceItem, error) {
	query := `
		SELECT id, track_id, name, unit_price, created_at
		FROM invoice_items
		ORDER BY created_at ASC, track_id ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoice items: %w", err)
	}
	defer rows.Close()

	var items []*models.InvoiceItem
	for rows.Next() {
		item, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return items, nil
}

// Contains reports whether trackID is on the invoice. Lookup failures count as absent.
func (r *InvoiceRepository) Contains(trackID int) bool {
	var n int
	err := r.db.QueryRow("SELECT COUNT(1) FROM invoice_items WHERE track_id = ?", trackID).Scan(&n)
	return err == nil && n > 0
}

func (r *InvoiceRepository) delete(where string, arg any) error {
	result, err := r.db.Exec("DELETE FROM invoice_items WHERE "+where, arg)
	if err != nil {
		return fmt.Errorf("failed to delete invoice item: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: invoice item %v", shared.ErrNotFound, arg)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scan reads one invoice_items row from a [sql.Row] or [sql.Rows]
func (r *InvoiceRepository) scan(s scanner) (*models.InvoiceItem, error) {
	var (
		id        string
		trackID   int
		name      string
		unitPrice float64
		createdAt time.Time
	)

	err := s.Scan(&id, &trackID, &name, &unitPrice, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: invoice item", shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan invoice item: %w", err)
	}

	return models.RestoreInvoiceItem(id, trackID, name, unitPrice, createdAt), nil
}
