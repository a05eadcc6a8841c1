// Package repositories implements SQLite persistence for locally stored entities.
//
// Key Implementations:
//   - [InvoiceRepository] : tracks the user has put on their invoice, keyed by catalog track ID
//
// The invoice is consulted read-only by the browse session through [InvoiceRepository.Contains].
package repositories
