package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/tvx/internal/models"
	"github.com/desertthunder/tvx/internal/tasks"
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
	MsgPageFetched MsgKind = iota
	MsgProgressUpdate
	MsgDetailsFetched
	MsgSearchChanged
)

type pageFetched struct {
	page   int
	result *tasks.BrowseResult
	err    error
}

type detailsFetched struct {
	details *models.ShowDetails
	err     error
}

// searchSnapshot is the coordinator state read after a change notification.
type searchSnapshot struct {
	results []models.Show
	loading bool
	err     error
}

// pageFetchedMsg is the constructor for [MsgPageFetched]
func pageFetchedMsg(page int, result *tasks.BrowseResult, err error) Msg {
	return Msg{kind: MsgPageFetched, data: pageFetched{page: page, result: result, err: err}}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// detailsFetchedMsg is the constructor for [MsgDetailsFetched]
func detailsFetchedMsg(details *models.ShowDetails, err error) Msg {
	return Msg{kind: MsgDetailsFetched, data: detailsFetched{details: details, err: err}}
}

// searchChangedMsg is the constructor for [MsgSearchChanged]
func searchChangedMsg(snap searchSnapshot) Msg {
	return Msg{kind: MsgSearchChanged, data: snap}
}
