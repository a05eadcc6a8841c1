// Package services implements the client for the remote catalog service.
//
// # Catalog Interface
//
// [Catalog] is the capability the browse session depends on: list a page of tracks, count the tracks matching a
// filter, and list genres. [CatalogService] implements it over HTTP.
//
// # Collections
//
// The authentication flag only selects the entity collection:
//   - Tracks : the public collection
//   - MarkedTracks : the personalized collection, which additionally reports alreadyOrdered
//
// Authenticated requests go through an [oauth2] client built from either a static access token or the
// client-credentials flow (see [TokenSource]).
//
// # Requests
//
// Query strings are composed by package query. Every request waits on an optional [rate.Limiter].
// Responses are OData envelopes (`{"value": [...]}`) except $count, which returns a bare integer.
//
// # Error Handling
//
// Every failure is a [*RemoteError] classified by [ErrorKind] (network, 4xx client, 5xx server, decode) and matching
// [shared.ErrAPIRequest] with errors.Is. Nothing is retried.
package services
