package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/trackbrowse/internal/browse"
	"github.com/desertthunder/trackbrowse/internal/models"
	"github.com/desertthunder/trackbrowse/internal/repositories"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	TrackListView ViewState = iota
	SearchView
	GenreView
)

// Invoicer stores tracks the user adds to their invoice.
type Invoicer interface {
	Create(item *models.InvoiceItem) error
}

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	view    ViewState
	session *browse.Session
	events  <-chan browse.Event
	invoice Invoicer
	width   int
	height  int
	tracks  list.Model
	genres  list.Model
	input   textinput.Model
	spinner spinner.Model
	pager   paginator.Model
	status  string
	err     error
	help    help.Model
	keys    keyMap
}

// NewModel creates a TUI over session. events must be the channel the session was created with; invoice may be nil.
func NewModel(ctx context.Context, session *browse.Session, events <-chan browse.Event, invoice Invoicer) *Model {
	input := textinput.New()
	input.Placeholder = "track name"
	input.Prompt = "search: "
	input.CharLimit = 120

	pager := paginator.New()
	pager.Type = paginator.Dots

	tracks := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	tracks.Title = "Tracks"
	tracks.SetFilteringEnabled(false)
	tracks.SetShowHelp(false)
	tracks.SetShowStatusBar(false)

	genres := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	genres.Title = "Genres"
	genres.SetFilteringEnabled(false)
	genres.SetShowHelp(false)

	return &Model{
		ctx:     ctx,
		view:    TrackListView,
		session: session,
		events:  events,
		invoice: invoice,
		tracks:  tracks,
		genres:  genres,
		input:   input,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		pager:   pager,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Init starts the initial load and begins listening for session events.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load(), m.waitForEvent())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.tracks.SetSize(msg.Width-4, msg.Height-10)
		m.genres.SetSize(msg.Width-4, msg.Height-10)
		m.input.Width = msg.Width - 12
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		return m.handleMsg(msg)

	case tea.KeyMsg:
		switch m.view {
		case SearchView:
			return m.handleSearchKeys(msg)
		case GenreView:
			return m.handleGenreKeys(msg)
		default:
			return m.handleTrackKeys(msg)
		}
	}

	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgSessionEvent:
		e := msg.data.(browse.Event)
		switch e.Type {
		case browse.EventUpdated:
			m.refresh()
		case browse.EventScrollTop:
			m.tracks.Select(0)
		case browse.EventFailed:
			m.err = e.Err
		}
		return m, m.waitForEvent()

	case MsgTriggerDone:
		r := msg.data.(triggerResult)
		switch {
		case r.err != nil:
			m.err = r.err
		case !r.fired:
			m.status = "search ignored, try again in a moment"
		default:
			m.err = nil
			m.status = ""
		}
		m.refresh()
		return m, nil

	case MsgInvoiced:
		d := msg.data.(struct {
			name string
			err  error
		})
		if d.err != nil {
			m.err = d.err
		} else {
			m.status = fmt.Sprintf("added %q to the invoice", d.name)
		}
		m.refresh()
		return m, nil
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	header := styles.title.Render("Track Browser")
	if m.session.Loading() {
		header = fmt.Sprintf("%s %s", header, m.spinner.View())
	}

	body := m.tracks.View()
	if m.view == GenreView {
		body = m.genres.View()
	}

	return fmt.Sprintf("%s\n%s\n%s\n\n%s\n%s\n%s\n%s",
		header,
		m.input.View(),
		m.renderFilter(),
		body,
		m.renderPager(),
		m.renderStatus(),
		m.renderHelp(),
	)
}

func (m *Model) handleTrackKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := m.session.Snapshot()

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.search):
		m.view = SearchView
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.genres):
		m.view = GenreView
		m.genres.SetItems(genreItems(st.Genres, st.Search.GenreIDs))
		return m, nil
	case key.Matches(msg, m.keys.prev):
		if st.Pagination.CurrentPage > 1 {
			return m, m.changePage(st.Pagination.CurrentPage - 1)
		}
		return m, nil
	case key.Matches(msg, m.keys.next):
		if st.Pagination.CurrentPage < m.session.TotalPages() {
			return m, m.changePage(st.Pagination.CurrentPage + 1)
		}
		return m, nil
	case key.Matches(msg, m.keys.add):
		if item, ok := m.tracks.SelectedItem().(trackItem); ok {
			return m, m.addToInvoice(item.row)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.tracks, cmd = m.tracks.Update(msg)
	return m, cmd
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.input.Blur()
		m.view = TrackListView
		return m, nil
	case key.Matches(msg, m.keys.submit):
		m.session.SetSubstring(m.input.Value())
		m.input.Blur()
		m.view = TrackListView
		return m, m.submit()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.session.SetSubstring(m.input.Value())
	return m, cmd
}

func (m *Model) handleGenreKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = TrackListView
		return m, nil
	case key.Matches(msg, m.keys.toggle):
		if item, ok := m.genres.SelectedItem().(genreItem); ok {
			m.session.ToggleGenre(item.genre.ID)
			st := m.session.Snapshot()
			return m, m.genres.SetItems(genreItems(st.Genres, st.Search.GenreIDs))
		}
		return m, nil
	case key.Matches(msg, m.keys.submit):
		m.view = TrackListView
		return m, m.submit()
	}

	var cmd tea.Cmd
	m.genres, cmd = m.genres.Update(msg)
	return m, cmd
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case TrackListView:
		m.tracks, cmd = m.tracks.Update(msg)
	case GenreView:
		m.genres, cmd = m.genres.Update(msg)
	case SearchView:
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

// refresh copies the session state into the list and paginator.
func (m *Model) refresh() {
	st := m.session.Snapshot()
	index := m.tracks.Index()
	m.tracks.SetItems(trackItems(m.session.Rows()))
	if index < len(st.Tracks) {
		m.tracks.Select(index)
	}

	m.pager.PerPage = st.Pagination.PageSize
	m.pager.SetTotalPages(st.Pagination.TotalItems)
	m.pager.Page = st.Pagination.CurrentPage - 1
}

func (m *Model) load() tea.Cmd {
	return func() tea.Msg {
		err := m.session.Load(m.ctx)
		return triggerDoneMsg(browse.TriggerLoad, true, err)
	}
}

func (m *Model) submit() tea.Cmd {
	return func() tea.Msg {
		fired, err := m.session.Submit(m.ctx)
		return triggerDoneMsg(browse.TriggerSearch, fired, err)
	}
}

func (m *Model) changePage(page int) tea.Cmd {
	return func() tea.Msg {
		err := m.session.ChangePage(m.ctx, page)
		return triggerDoneMsg(browse.TriggerPage, true, err)
	}
}

func (m *Model) addToInvoice(row browse.TrackRow) tea.Cmd {
	switch {
	case m.invoice == nil:
		m.status = "no invoice database configured"
		return nil
	case row.Invoiced:
		m.status = fmt.Sprintf("%q is already on the invoice", row.Name)
		return nil
	case !row.CanOrder:
		m.status = fmt.Sprintf("%q cannot be ordered", row.Name)
		return nil
	}

	invoice := m.invoice
	return func() tea.Msg {
		err := invoice.Create(models.NewInvoiceItem(row.ID, row.Name, float64(row.UnitPrice)))
		if errors.Is(err, repositories.ErrAlreadyInvoiced) {
			err = nil
		}
		return invoicedMsg(row.Name, err)
	}
}

func (m *Model) waitForEvent() tea.Cmd {
	if m.events == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case e := <-m.events:
			return sessionEventMsg(e)
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *Model) renderFilter() string {
	st := m.session.Snapshot()
	if len(st.Search.GenreIDs) == 0 {
		return styles.help.Render("all genres")
	}

	names := make(map[int]string, len(st.Genres))
	for _, g := range st.Genres {
		names[g.ID] = g.Name
	}
	out := "genres:"
	for _, id := range st.Search.GenreIDs {
		name := names[id]
		if name == "" {
			name = fmt.Sprintf("#%d", id)
		}
		out += " " + styles.active.Render(name)
	}
	return out
}

func (m *Model) renderPager() string {
	st := m.session.Snapshot()
	summary := fmt.Sprintf("page %d of %d • %d tracks", st.Pagination.CurrentPage, m.session.TotalPages(), st.Pagination.TotalItems)
	if m.pager.TotalPages > 1 {
		return fmt.Sprintf("%s  %s", m.pager.View(), styles.help.Render(summary))
	}
	return styles.help.Render(summary)
}

func (m *Model) renderStatus() string {
	switch {
	case m.err != nil:
		return styles.err.Render(fmt.Sprintf("Error: %v", m.err))
	case m.status != "":
		return styles.warn.Render(m.status)
	default:
		return ""
	}
}

func (m *Model) renderHelp() string {
	var keys []key.Binding
	switch m.view {
	case SearchView:
		keys = []key.Binding{m.keys.submit, m.keys.back}
	case GenreView:
		keys = []key.Binding{m.keys.toggle, m.keys.submit, m.keys.back}
	default:
		keys = []key.Binding{m.keys.search, m.keys.genres, m.keys.prev, m.keys.next, m.keys.add, m.keys.quit}
	}
	return m.help.ShortHelpView(keys)
}
