// package browse holds the state machine behind the track browser.
//
// A [Session] owns the browse state (tracks, genres, search options, pagination) and the three triggers that
// mutate it: the initial load, a debounced search submit and a page change. Each trigger issues catalog
// requests through a [services.Catalog]; responses that were superseded by a newer request of the same kind
// are dropped, failures leave the state as it was, and the loading flag stays set while any request is in
// flight.
package browse
