package browse

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/trackbrowse/internal/models"
	"github.com/desertthunder/trackbrowse/internal/query"
	"github.com/desertthunder/trackbrowse/internal/services"
	"github.com/desertthunder/trackbrowse/internal/shared"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultPageSize = 20
	DefaultDebounce = 500 * time.Millisecond
)

// Identity reports whether the current user is signed in to the catalog.
type Identity interface {
	Authenticated() bool
}

// InvoicedItems is the read-only set of tracks already on the user's invoice.
type InvoicedItems interface {
	Contains(trackID int) bool
}

// SearchOptions are the user's editable search fields.
type SearchOptions struct {
	Substring string
	GenreIDs  []int
}

// Filter returns the search options as a query filter.
func (o SearchOptions) Filter() query.Filter {
	return query.Filter{Substring: o.Substring, GenreIDs: o.GenreIDs}.Clone()
}

// Pagination describes the current page within the filtered result set.
//
// TotalItems is authoritative right after a count resolves; it is not refreshed on page changes.
type Pagination struct {
	CurrentPage int
	PageSize    int
	TotalItems  int
}

// State is a copy of the session's state.
type State struct {
	Tracks     []models.Track
	Genres     []models.Genre
	Search     SearchOptions
	Applied    query.Filter // filter of the last applied track listing
	Pagination Pagination
	Loading    bool
}

// TrackRow is a track annotated for display.
type TrackRow struct {
	models.Track
	Invoiced bool `json:"invoiced"` // on the local invoice
	CanOrder bool `json:"canOrder"` // authenticated and not yet ordered
}

// Options configures a [Session]. Zero values select defaults; a negative Debounce disables debouncing.
type Options struct {
	PageSize    int
	Debounce    time.Duration
	Identity    Identity
	Invoiced    InvoicedItems
	Reporter    ErrorReporter
	Logger      *log.Logger
	Events      chan<- Event
	OnScrollTop func()
	Now         func() time.Time
}

// Session owns the browse state and the transition rules for its three triggers.
//
// Triggers may run concurrently from any goroutine. Each trigger kind tags its requests with a monotonically
// increasing sequence number; a response is applied only while its tag is still the latest for its kind.
// Across kinds:
//   - a search supersedes every earlier load and page change;
//   - a page change supersedes the listing of an earlier load, but not its count or filter;
//   - a page response is applied only while the filter it was requested for is still the applied filter.
//
// Together these keep tracks, totalItems and currentPage describing the same filtered result set.
type Session struct {
	catalog     services.Catalog
	identity    Identity
	invoiced    InvoicedItems
	reporter    ErrorReporter
	logger      *log.Logger
	events      chan<- Event
	onScrollTop func()
	debouncer   *Debouncer

	mu       sync.Mutex
	tracks   []models.Track
	genres   []models.Genre
	search   SearchOptions
	applied  query.Filter
	page     Pagination
	seq      [triggerKinds]uint64
	inflight [triggerKinds]int
}

// ticket identifies one fetch sequence: its kind, the sequence numbers current when it began, and the filter and
// page size it requested.
type ticket struct {
	kind   TriggerKind
	seq    [triggerKinds]uint64
	filter query.Filter
	size   int
}

// New creates a session over catalog. No request is made until [Session.Load].
func New(catalog services.Catalog, opts Options) *Session {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	switch {
	case opts.Debounce == 0:
		opts.Debounce = DefaultDebounce
	case opts.Debounce < 0:
		opts.Debounce = 0
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Reporter == nil {
		opts.Reporter = LogReporter{Logger: opts.Logger}
	}

	return &Session{
		catalog:     catalog,
		identity:    opts.Identity,
		invoiced:    opts.Invoiced,
		reporter:    opts.Reporter,
		logger:      shared.WithLogger(opts.Logger, "component", "browse"),
		events:      opts.Events,
		onScrollTop: opts.OnScrollTop,
		debouncer:   NewDebouncer(opts.Debounce, opts.Now),
		search:      SearchOptions{GenreIDs: []int{}},
		applied:     query.Filter{GenreIDs: []int{}},
		page:        Pagination{CurrentPage: 1, PageSize: opts.PageSize},
	}
}

// Load performs the initial load: count, first page and genres, fetched concurrently.
//
// The track listing and its count succeed or fail together; genres are applied on their own. A page change
// started while the load is in flight keeps its own listing, and the load then contributes only the count.
// Failures that were not superseded are reported, and the returned error joins them.
func (s *Session) Load(ctx context.Context) error {
	t := s.begin(TriggerLoad)
	defer s.end(TriggerLoad)

	authenticated := s.authenticated()

	var (
		wg        sync.WaitGroup
		genres    []models.Genre
		genresErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		genres, genresErr = s.catalog.ListGenres(ctx)
	}()

	tracks, total, pairErr := s.fetchPair(ctx, authenticated, t.filter, query.Page{Top: t.size})
	wg.Wait()

	s.mu.Lock()
	countApplied := pairErr == nil && s.freshLocked(t)
	tracksApplied := false
	if countApplied {
		// A page change started since owns the listing, unless it was requested for another filter.
		if s.currentLocked(t, TriggerPage) || !s.applied.Equal(t.filter) {
			s.tracks = s.clamp(tracks, t.size)
			s.page.CurrentPage = 1
			tracksApplied = true
		}
		s.page.TotalItems = total
		s.applied = t.filter
	}
	genresApplied := genresErr == nil && s.currentLocked(t)
	if genresApplied {
		s.genres = genres
	}
	s.mu.Unlock()

	if countApplied || genresApplied {
		s.logger.Debug("initial load applied",
			"tracks", tracksApplied, "total", countApplied, "genres", genresApplied)
		s.emit(Event{Type: EventUpdated, Trigger: TriggerLoad})
	}
	if (pairErr == nil && !countApplied) || (genresErr == nil && !genresApplied) {
		s.logger.Debug("dropped stale response", "trigger", t.kind, "seq", t.seq[t.kind])
		s.emit(Event{Type: EventStale, Trigger: t.kind})
	}

	var errs []error
	if pairErr != nil && s.fail(t, pairErr, s.freshLocked) {
		errs = append(errs, pairErr)
	}
	if genresErr != nil && s.fail(t, genresErr, s.ownLocked) {
		errs = append(errs, genresErr)
	}
	return errors.Join(errs...)
}

// SetSubstring updates the search text. It never fetches.
func (s *Session) SetSubstring(substr string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.search.Substring = substr
}

// SetGenres replaces the selected genre ids, keeping their order. It never fetches.
func (s *Session) SetGenres(ids []int) {
	cp := make([]int, len(ids))
	copy(cp, ids)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.search.GenreIDs = cp
}

// ToggleGenre adds id to the selected genres, or removes it if already selected. It never fetches.
func (s *Session) ToggleGenre(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int, 0, len(s.search.GenreIDs)+1)
	found := false
	for _, g := range s.search.GenreIDs {
		if g == id {
			found = true
			continue
		}
		ids = append(ids, g)
	}
	if !found {
		ids = append(ids, id)
	}
	s.search.GenreIDs = ids
}

// Submit runs a search with the current search options, subject to the leading-edge debounce.
//
// It reports whether the submit fired. When it fires, the first page and the count are fetched together; on
// success they replace the tracks and total, and the current page resets to 1. Genres are untouched.
func (s *Session) Submit(ctx context.Context) (bool, error) {
	if !s.debouncer.Allow() {
		s.logger.Debug("search submit suppressed")
		return false, nil
	}

	t := s.begin(TriggerSearch)
	defer s.end(TriggerSearch)

	authenticated := s.authenticated()

	tracks, total, err := s.fetchPair(ctx, authenticated, t.filter, query.Page{Top: t.size, Skip: 0})
	if err != nil {
		if s.fail(t, err, s.freshLocked) {
			return true, err
		}
		return true, nil
	}

	s.apply(t, func() {
		s.tracks = s.clamp(tracks, t.size)
		s.page.TotalItems = total
		s.page.CurrentPage = 1
		s.applied = t.filter
	})
	return true, nil
}

// ChangePage fetches page (1-based) of the last applied filter.
//
// The scroll-to-top hook runs when the request starts. On success the tracks and current page are replaced;
// the total is kept, because the filter did not change.
func (s *Session) ChangePage(ctx context.Context, page int) error {
	if page < 1 {
		return fmt.Errorf("%w: page must be at least 1, got %d", shared.ErrInvalidArgument, page)
	}

	s.scrollTop()

	t := s.begin(TriggerPage)
	defer s.end(TriggerPage)

	authenticated := s.authenticated()

	p := query.Page{Top: t.size, Skip: query.Offset(page, t.size)}
	tracks, err := s.catalog.ListTracks(ctx, authenticated, t.filter, p)
	if err != nil {
		if s.fail(t, err, s.freshLocked) {
			return err
		}
		return nil
	}

	s.apply(t, func() {
		s.tracks = s.clamp(tracks, t.size)
		s.page.CurrentPage = page
	})
	return nil
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return State{
		Tracks:     append([]models.Track(nil), s.tracks...),
		Genres:     append([]models.Genre(nil), s.genres...),
		Search:     SearchOptions{Substring: s.search.Substring, GenreIDs: append([]int{}, s.search.GenreIDs...)},
		Applied:    s.applied.Clone(),
		Pagination: s.page,
		Loading:    s.loadingLocked(),
	}
}

// Rows returns the current tracks annotated with invoice and order flags.
func (s *Session) Rows() []TrackRow {
	authenticated := s.authenticated()

	s.mu.Lock()
	tracks := append([]models.Track(nil), s.tracks...)
	s.mu.Unlock()

	rows := make([]TrackRow, len(tracks))
	for i, t := range tracks {
		rows[i] = TrackRow{
			Track:    t,
			Invoiced: s.invoiced != nil && s.invoiced.Contains(t.ID),
			CanOrder: authenticated && !t.AlreadyOrdered,
		}
	}
	return rows
}

// Loading reports whether any request of any trigger kind is in flight.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadingLocked()
}

// InFlight returns the number of in-flight fetch sequences of the given kind.
func (s *Session) InFlight(kind TriggerKind) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight[kind]
}

// TotalPages returns the number of pages for the last known total.
func (s *Session) TotalPages() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.page.TotalItems == 0 {
		return 0
	}
	return (s.page.TotalItems + s.page.PageSize - 1) / s.page.PageSize
}

// fetchPair fetches a page and the matching count. If either fails the other is canceled.
func (s *Session) fetchPair(ctx context.Context, authenticated bool, f query.Filter, p query.Page) ([]models.Track, int, error) {
	var (
		tracks []models.Track
		total  int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tracks, err = s.catalog.ListTracks(gctx, authenticated, f, p)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.catalog.CountTracks(gctx, authenticated, f)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return tracks, total, nil
}

func (s *Session) begin(kind TriggerKind) ticket {
	s.mu.Lock()
	s.seq[kind]++
	s.inflight[kind]++
	t := ticket{kind: kind, seq: s.seq, size: s.page.PageSize}
	if kind == TriggerPage {
		t.filter = s.applied.Clone()
	} else {
		t.filter = s.search.Filter()
	}
	s.mu.Unlock()

	s.emit(Event{Type: EventLoading, Trigger: kind, Loading: true})
	return t
}

func (s *Session) end(kind TriggerKind) {
	s.mu.Lock()
	s.inflight[kind]--
	loading := s.loadingLocked()
	s.mu.Unlock()

	s.emit(Event{Type: EventLoading, Trigger: kind, Loading: loading})
}

// currentLocked reports whether no request of t's kind, nor of any of the given kinds, has started since t began.
func (s *Session) currentLocked(t ticket, kinds ...TriggerKind) bool {
	if s.seq[t.kind] != t.seq[t.kind] {
		return false
	}
	for _, k := range kinds {
		if s.seq[k] != t.seq[k] {
			return false
		}
	}
	return true
}

// ownLocked checks t against its own kind only.
func (s *Session) ownLocked(t ticket) bool {
	return s.currentLocked(t)
}

// freshLocked reports whether the result set t fetched may still be applied.
func (s *Session) freshLocked(t ticket) bool {
	switch t.kind {
	case TriggerPage:
		return s.currentLocked(t, TriggerSearch) && t.filter.Equal(s.applied)
	case TriggerLoad:
		return s.currentLocked(t, TriggerSearch)
	default:
		return s.currentLocked(t)
	}
}

// apply runs update under the lock if t is fresh, and emits the outcome.
func (s *Session) apply(t ticket, update func()) bool {
	s.mu.Lock()
	fresh := s.freshLocked(t)
	if fresh {
		update()
	}
	s.mu.Unlock()

	if !fresh {
		s.logger.Debug("dropped stale response", "trigger", t.kind, "seq", t.seq[t.kind])
		s.emit(Event{Type: EventStale, Trigger: t.kind})
		return false
	}
	s.emit(Event{Type: EventUpdated, Trigger: t.kind})
	return true
}

// fail reports err if fresh still holds for t; otherwise the failure is dropped like any stale response.
func (s *Session) fail(t ticket, err error, fresh func(ticket) bool) bool {
	s.mu.Lock()
	ok := fresh(t)
	s.mu.Unlock()

	if !ok {
		s.logger.Debug("dropped stale failure", "trigger", t.kind, "error", err)
		s.emit(Event{Type: EventStale, Trigger: t.kind})
		return false
	}

	s.reporter.Report(t.kind, err)
	s.emit(Event{Type: EventFailed, Trigger: t.kind, Err: err})
	return true
}

// clamp enforces the page-size invariant on a listing.
func (s *Session) clamp(tracks []models.Track, size int) []models.Track {
	if len(tracks) > size {
		s.logger.Warn("catalog returned more tracks than requested", "got", len(tracks), "page_size", size)
		tracks = tracks[:size]
	}
	return tracks
}

func (s *Session) authenticated() bool {
	return s.identity != nil && s.identity.Authenticated()
}

func (s *Session) loadingLocked() bool {
	for _, n := range s.inflight {
		if n > 0 {
			return true
		}
	}
	return false
}

func (s *Session) scrollTop() {
	if s.onScrollTop != nil {
		s.onScrollTop()
	}
	s.emit(Event{Type: EventScrollTop, Trigger: TriggerPage})
}

// emit sends e without blocking.
func (s *Session) emit(e Event) {
	if s.events == nil {
		return
	}
	select {
	case s.events <- e:
	default:
	}
}
