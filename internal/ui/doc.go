// Package ui implements an interactive terminal track browser using bubbletea's Elm architecture.
//
// The TUI has three views over one [browse.Session]:
//  1. [TrackListView] : the current page of tracks, with paging and invoice actions
//  2. [SearchView] : edit the name substring; enter submits the search
//  3. [GenreView] : toggle genres in the filter; enter submits the search
//
// Catalog requests run as commands; their outcome arrives as [Msg] values, and session events (updates, failures,
// scroll-to-top) are relayed from the session's event channel. Edits never fetch on their own.
//
// Keyboard navigation uses vim-style bindings (j/k, h/l, /, g, space, a, esc, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
