package testing

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/trackbrowse/internal/models"
)

// CatalogRequest is one request received by a [CatalogServer].
type CatalogRequest struct {
	Path          string
	Filter        string
	Top           string
	Skip          string
	Expand        string
	Authorization string
}

// CatalogServer is an httptest catalog service serving fixed tracks and genres.
//
// Filters are recorded but not evaluated; pages are cut from Tracks by $skip and $top.
type CatalogServer struct {
	*httptest.Server

	Tracks []models.Track
	Genres []models.Genre
	Count  int // reported by $count; defaults to len(Tracks) when negative

	mu       sync.Mutex
	requests []CatalogRequest
	failures map[string]int
}

// NewCatalogServer starts a [CatalogServer] closed at the end of the test.
func NewCatalogServer(t *testing.T, tracks []models.Track, genres []models.Genre) *CatalogServer {
	t.Helper()
	cs := &CatalogServer{Tracks: tracks, Genres: genres, Count: -1, failures: map[string]int{}}
	cs.Server = httptest.NewServer(http.HandlerFunc(cs.serve))
	t.Cleanup(cs.Close)
	return cs
}

// Fail makes requests whose path ends with suffix respond with status.
func (cs *CatalogServer) Fail(suffix string, status int) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.failures[suffix] = status
}

// Requests returns a copy of the requests received so far.
func (cs *CatalogServer) Requests() []CatalogRequest {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	out := make([]CatalogRequest, len(cs.requests))
	copy(out, cs.requests)
	return out
}

// RequestsTo returns the received requests whose path ends with suffix.
func (cs *CatalogServer) RequestsTo(suffix string) []CatalogRequest {
	var out []CatalogRequest
	for _, r := range cs.Requests() {
		if strings.HasSuffix(r.Path, suffix) {
			out = append(out, r)
		}
	}
	return out
}

func (cs *CatalogServer) serve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := CatalogRequest{
		Path:          r.URL.Path,
		Filter:        q.Get("$filter"),
		Top:           q.Get("$top"),
		Skip:          q.Get("$skip"),
		Expand:        q.Get("$expand"),
		Authorization: r.Header.Get("Authorization"),
	}

	cs.mu.Lock()
	cs.requests = append(cs.requests, req)
	status := 0
	for suffix, code := range cs.failures {
		if strings.HasSuffix(r.URL.Path, suffix) {
			status = code
		}
	}
	cs.mu.Unlock()

	if status != 0 {
		http.Error(w, "fixture failure", status)
		return
	}

	switch {
	case strings.HasSuffix(r.URL.Path, "/$count"):
		count := cs.Count
		if count < 0 {
			count = len(cs.Tracks)
		}
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprint(w, count)
	case strings.HasSuffix(r.URL.Path, "/Genres"):
		writeValue(w, cs.Genres)
	case strings.HasSuffix(r.URL.Path, "/Tracks"), strings.HasSuffix(r.URL.Path, "/MarkedTracks"):
		writeValue(w, page(cs.Tracks, req.Skip, req.Top))
	default:
		http.NotFound(w, r)
	}
}

func page(tracks []models.Track, skip, top string) []models.Track {
	s, _ := strconv.Atoi(skip)
	if s > len(tracks) {
		s = len(tracks)
	}
	end := len(tracks)
	if n, err := strconv.Atoi(top); err == nil && s+n < end {
		end = s + n
	}
	return tracks[s:end]
}

func writeValue[T any](w http.ResponseWriter, values []T) {
	if values == nil {
		values = []T{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"value": values})
}

// SampleTracks returns n tracks with IDs 1..n alternating between genres 1 and 2.
func SampleTracks(n int) []models.Track {
	tracks := make([]models.Track, n)
	for i := range tracks {
		id := i + 1
		genre := models.Genre{ID: 1 + i%2, Name: []string{"Rock", "Jazz"}[i%2]}
		tracks[i] = models.Track{
			ID:        id,
			Name:      fmt.Sprintf("Track %d", id),
			Composer:  "Composer",
			UnitPrice: 0.99,
			Genre:     genre,
			Album:     models.Album{Title: fmt.Sprintf("Album %d", 1+i/10), Artist: models.Artist{Name: "Artist"}},
		}
	}
	return tracks
}

// SampleGenres returns the genres used by [SampleTracks].
func SampleGenres() []models.Genre {
	return []models.Genre{{ID: 1, Name: "Rock"}, {ID: 2, Name: "Jazz"}}
}
