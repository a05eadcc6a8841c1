// Package models defines the catalog entities and the persisted invoice model.
//
// The package contains two categories of types:
//
// 1. Catalog snapshots decoded from the remote catalog service
//   - [Track] : a track with its embedded [Genre] and [Album]
//   - [Genre] : a genre used for filtering and annotation
//   - [Price] : a decimal that accepts number or string encodings
//
// 2. Persistent entities
//   - [InvoiceItem] : a locally invoiced track
//
// Persistent entities implement the [Model] interface; [Repository] defines the CRUD operations for database access.
package models
