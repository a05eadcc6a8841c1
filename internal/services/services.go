// package services defines clients for the remote catalog service
package services

import (
	"context"

	"github.com/desertthunder/trackbrowse/internal/models"
	"github.com/desertthunder/trackbrowse/internal/query"
)

// Catalog defines the remote operations the browse session depends on.
type Catalog interface {
	// ListTracks fetches one page of tracks matching the filter, with the genre expanded.
	// authenticated selects the personalized collection, which also reports alreadyOrdered.
	ListTracks(ctx context.Context, authenticated bool, f query.Filter, p query.Page) ([]models.Track, error)

	// CountTracks returns the number of tracks matching the filter.
	CountTracks(ctx context.Context, authenticated bool, f query.Filter) (int, error)

	// ListGenres returns every genre, unpaginated.
	ListGenres(ctx context.Context) ([]models.Genre, error)
}

// Entity collections exposed by the catalog service.
const (
	PublicCollection = "Tracks"
	MarkedCollection = "MarkedTracks"
	GenreCollection  = "Genres"
)

// Collection returns the track collection for the authentication state.
func Collection(authenticated bool) string {
	if authenticated {
		return MarkedCollection
	}
	return PublicCollection
}
