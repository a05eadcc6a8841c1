package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/trackbrowse/internal/browse"
	"github.com/desertthunder/trackbrowse/internal/formatter"
	"github.com/desertthunder/trackbrowse/internal/models"
)

var (
	_ list.Item = trackItem{}
	_ list.Item = genreItem{}
)

// trackItem wraps [browse.TrackRow] to implement [list.Item].
type trackItem struct {
	row browse.TrackRow
}

func (i trackItem) FilterValue() string { return i.row.Name }
func (i trackItem) Title() string {
	title := i.row.Name
	if i.row.Invoiced {
		title += " " + styles.ok.Render("[invoiced]")
	}
	return title
}
func (i trackItem) Description() string {
	parts := []string{i.row.Album.Artist.Name, i.row.Album.Title, i.row.Genre.Name, formatter.FormatPrice(float64(i.row.UnitPrice))}
	desc := strings.Join(nonEmpty(parts), " • ")
	switch {
	case i.row.AlreadyOrdered:
		desc = fmt.Sprintf("%s • %s", desc, styles.warn.Render("ordered"))
	case i.row.CanOrder:
		desc = fmt.Sprintf("%s • %s", desc, "available")
	}
	return desc
}

// genreItem wraps [models.Genre] with its selection state to implement [list.Item].
type genreItem struct {
	genre    models.Genre
	selected bool
}

func (i genreItem) FilterValue() string { return i.genre.Name }
func (i genreItem) Title() string {
	mark := "[ ]"
	if i.selected {
		mark = "[x]"
	}
	return fmt.Sprintf("%s %s", mark, i.genre.Name)
}
func (i genreItem) Description() string { return fmt.Sprintf("genre %d", i.genre.ID) }

func trackItems(rows []browse.TrackRow) []list.Item {
	items := make([]list.Item, len(rows))
	for i, row := range rows {
		items[i] = trackItem{row: row}
	}
	return items
}

func genreItems(genres []models.Genre, selected []int) []list.Item {
	set := make(map[int]bool, len(selected))
	for _, id := range selected {
		set[id] = true
	}

	items := make([]list.Item, len(genres))
	for i, g := range genres {
		items[i] = genreItem{genre: g, selected: set[g.ID]}
	}
	return items
}

func nonEmpty(parts []string) []string {
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
