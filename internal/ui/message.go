package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/trackbrowse/internal/browse"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgSessionEvent MsgKind = iota
	MsgTriggerDone
	MsgInvoiced
)

// triggerResult is the payload of [MsgTriggerDone].
type triggerResult struct {
	kind  browse.TriggerKind
	fired bool
	err   error
}

// sessionEventMsg is the constructor for [MsgSessionEvent]
func sessionEventMsg(e browse.Event) Msg {
	return Msg{kind: MsgSessionEvent, data: e}
}

// triggerDoneMsg is the constructor for [MsgTriggerDone]
func triggerDoneMsg(kind browse.TriggerKind, fired bool, err error) Msg {
	return Msg{kind: MsgTriggerDone, data: triggerResult{kind: kind, fired: fired, err: err}}
}

// invoicedMsg is the constructor for [MsgInvoiced]
func invoicedMsg(name string, err error) Msg {
	return Msg{
		kind: MsgInvoiced,
		data: struct {
			name string
			err  error
		}{name, err},
	}
}
