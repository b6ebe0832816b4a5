package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/smarterz/internal/models"
	"github.com/desertthunder/smarterz/internal/tasks"
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
	MsgBatchesFetched MsgKind = iota
	MsgProgressUpdate
	MsgBatchLoaded
	MsgToggled
	MsgCopied
)

type batchesFetched struct {
	batches []models.Batch
	err     error
}

type batchLoaded struct {
	result    *tasks.AggregateResult
	completed []string
	err       error
}

type toggled struct {
	id   string
	done bool
	err  error
}

type copied struct {
	text string
	err  error
}

// batchesFetchedMsg is the constructor for [MsgBatchesFetched]
func batchesFetchedMsg(batches []models.Batch, err error) Msg {
	return Msg{kind: MsgBatchesFetched, data: batchesFetched{batches, err}}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// batchLoadedMsg is the constructor for [MsgBatchLoaded]
func batchLoadedMsg(result *tasks.AggregateResult, completed []string, err error) Msg {
	return Msg{kind: MsgBatchLoaded, data: batchLoaded{result, completed, err}}
}

// toggledMsg is the constructor for [MsgToggled]
func toggledMsg(id string, done bool, err error) Msg {
	return Msg{kind: MsgToggled, data: toggled{id, done, err}}
}

// copiedMsg is the constructor for [MsgCopied]
func copiedMsg(text string, err error) Msg {
	return Msg{kind: MsgCopied, data: copied{text, err}}
}
