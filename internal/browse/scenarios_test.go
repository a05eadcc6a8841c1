package browse

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/desertthunder/trackbrowse/internal/services"
	"github.com/desertthunder/trackbrowse/internal/shared"
	tu "github.com/desertthunder/trackbrowse/internal/testing"
	"golang.org/x/oauth2"
)

func newServedSession(t *testing.T, cs *tu.CatalogServer, token string, r ErrorReporter) (*Session, *services.CatalogService) {
	t.Helper()
	logger := shared.NewLogger(io.Discard)
	opts := services.CatalogOpts{BaseURL: cs.URL, Logger: logger}
	if token != "" {
		opts.TokenSource = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	}
	catalog := services.NewCatalogService(opts)
	s := New(catalog, Options{Identity: catalog, Reporter: r, Logger: logger})
	return s, catalog
}

func TestBrowseScenarios(t *testing.T) {
	ctx := context.Background()

	t.Run("Anonymous Initial Load", func(t *testing.T) {
		cs := tu.NewCatalogServer(t, tu.SampleTracks(45), tu.SampleGenres())
		r := &recordingReporter{}
		s, _ := newServedSession(t, cs, "", r)

		if err := s.Load(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		lists := cs.RequestsTo("/Tracks")
		if len(lists) != 1 {
			t.Fatalf("expected one listing request, got %d", len(lists))
		}
		if lists[0].Filter != "contains(name,'')" || lists[0].Skip != "0" || lists[0].Top != "20" {
			t.Errorf("unexpected listing request %+v", lists[0])
		}
		if lists[0].Expand != "genre" {
			t.Errorf("expected genre expansion, got %q", lists[0].Expand)
		}

		counts := cs.RequestsTo("/Tracks/$count")
		if len(counts) != 1 || counts[0].Filter != lists[0].Filter {
			t.Errorf("expected count mirroring the listing filter, got %+v", counts)
		}

		st := s.Snapshot()
		if st.Pagination.CurrentPage != 1 || st.Pagination.TotalItems != 45 || len(st.Tracks) != 20 {
			t.Errorf("unexpected state: page %d total %d tracks %d",
				st.Pagination.CurrentPage, st.Pagination.TotalItems, len(st.Tracks))
		}
		if len(st.Genres) != 2 {
			t.Errorf("expected genres loaded, got %d", len(st.Genres))
		}
		if st.Loading {
			t.Error("expected loading cleared")
		}
	})

	t.Run("Edits Within Debounce Window Submit Once", func(t *testing.T) {
		cs := tu.NewCatalogServer(t, tu.SampleTracks(45), tu.SampleGenres())
		s, _ := newServedSession(t, cs, "", &recordingReporter{})

		if err := s.ChangePage(ctx, 2); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		s.SetSubstring("Rock")
		s.ToggleGenre(3)
		s.ToggleGenre(7)

		fired := 0
		for i := 0; i < 3; i++ {
			ok, err := s.Submit(ctx)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ok {
				fired++
			}
		}
		if fired != 1 {
			t.Errorf("expected one submit to fire, got %d", fired)
		}

		want := "contains(name,'Rock') and (genre_ID eq 3 or genre_ID eq 7)"
		var submitted []tu.CatalogRequest
		for _, req := range cs.RequestsTo("/Tracks") {
			if req.Filter == want {
				submitted = append(submitted, req)
			}
		}
		if len(submitted) != 1 {
			t.Fatalf("expected exactly one listing with %q, got %d", want, len(submitted))
		}
		if submitted[0].Skip != "0" {
			t.Errorf("expected first page, got skip %s", submitted[0].Skip)
		}
		if got := s.Snapshot().Pagination.CurrentPage; got != 1 {
			t.Errorf("expected current page reset to 1, got %d", got)
		}
	})

	t.Run("Authenticated Page Change", func(t *testing.T) {
		cs := tu.NewCatalogServer(t, tu.SampleTracks(70), tu.SampleGenres())
		s, catalog := newServedSession(t, cs, "secret", &recordingReporter{})
		if !catalog.Authenticated() {
			t.Fatal("expected authenticated catalog")
		}

		if err := s.Load(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		total := s.Snapshot().Pagination.TotalItems

		cs.Count = 999
		if err := s.ChangePage(ctx, 3); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		lists := cs.RequestsTo("/MarkedTracks")
		if len(lists) != 2 {
			t.Fatalf("expected two personalized listings, got %d", len(lists))
		}
		if lists[1].Skip != "40" || lists[1].Top != "20" {
			t.Errorf("expected skip 40 top 20, got skip %s top %s", lists[1].Skip, lists[1].Top)
		}
		if lists[1].Authorization != "Bearer secret" {
			t.Errorf("expected bearer token, got %q", lists[1].Authorization)
		}
		if n := len(cs.RequestsTo("/$count")); n != 1 {
			t.Errorf("expected count not re-issued, got %d count requests", n)
		}

		st := s.Snapshot()
		if st.Pagination.TotalItems != total || st.Pagination.CurrentPage != 3 {
			t.Errorf("expected total %d unchanged on page 3, got %+v", total, st.Pagination)
		}
		if len(st.Tracks) != 20 || st.Tracks[0].ID != 41 {
			t.Errorf("unexpected page contents")
		}
	})

	t.Run("Genre Failure During Initial Load", func(t *testing.T) {
		cs := tu.NewCatalogServer(t, tu.SampleTracks(5), tu.SampleGenres())
		cs.Fail("/Genres", http.StatusInternalServerError)
		r := &recordingReporter{}
		s, _ := newServedSession(t, cs, "", r)

		err := s.Load(ctx)
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected API request error, got %v", err)
		}

		var remote *services.RemoteError
		if !errors.As(err, &remote) || remote.StatusCode != http.StatusInternalServerError {
			t.Errorf("expected remote error with status 500, got %v", err)
		}

		st := s.Snapshot()
		if len(st.Tracks) != 5 || st.Pagination.TotalItems != 5 {
			t.Errorf("expected tracks and count populated, got %d/%d", len(st.Tracks), st.Pagination.TotalItems)
		}
		if len(st.Genres) != 0 {
			t.Error("expected genre selector empty")
		}
		if r.count() != 1 {
			t.Errorf("expected one reported error, got %d", r.count())
		}
		if st.Loading {
			t.Error("expected loading cleared")
		}
	})
}
