package models

import (
	"fmt"
	"time"
)

var _ Model = (*InvoiceItem)(nil)

// InvoiceItem is a track the user has put on their invoice.
type InvoiceItem struct {
	id        string
	trackID   int
	name      string
	unitPrice float64
	createdAt time.Time
}

// NewInvoiceItem creates an unsaved [InvoiceItem] for the given track. The ID is assigned on create.
func NewInvoiceItem(trackID int, name string, unitPrice float64) *InvoiceItem {
	return &InvoiceItem{
		trackID:   trackID,
		name:      name,
		unitPrice: unitPrice,
		createdAt: time.Now().UTC(),
	}
}

// RestoreInvoiceItem rebuilds an [InvoiceItem] from stored values.
func RestoreInvoiceItem(id string, trackID int, name string, unitPrice float64, createdAt time.Time) *InvoiceItem {
	return &InvoiceItem{id: id, trackID: trackID, name: name, unitPrice: unitPrice, createdAt: createdAt}
}

func (i *InvoiceItem) ID() string           { return i.id }
func (i *InvoiceItem) SetID(id string)      { i.id = id }
func (i *InvoiceItem) TrackID() int         { return i.trackID }
func (i *InvoiceItem) Name() string         { return i.name }
func (i *InvoiceItem) UnitPrice() float64   { return i.unitPrice }
func (i *InvoiceItem) CreatedAt() time.Time { return i.createdAt }

// Validate checks the track reference and price.
func (i *InvoiceItem) Validate() error {
	if i.id == "" {
		return fmt.Errorf("invoice item id is required")
	}
	if i.trackID <= 0 {
		return fmt.Errorf("invalid track id %d", i.trackID)
	}
	if i.unitPrice < 0 {
		return fmt.Errorf("unit price must not be negative")
	}
	return nil
}
