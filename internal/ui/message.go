package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/radar/internal/tasks"
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
	MsgReleasesDiscovered MsgKind = iota
	MsgProgressUpdate
	MsgWriteComplete
)

type discovered struct {
	releases []tasks.Release
	err      error
}

type written struct {
	result *tasks.ReconcileResult
	err    error
}

// releasesDiscoveredMsg is the constructor for [MsgReleasesDiscovered]
func releasesDiscoveredMsg(releases []tasks.Release, err error) Msg {
	return Msg{kind: MsgReleasesDiscovered, data: discovered{releases, err}}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// writeCompleteMsg is the constructor for [MsgWriteComplete]
func writeCompleteMsg(result *tasks.ReconcileResult, err error) Msg {
	return Msg{kind: MsgWriteComplete, data: written{result, err}}
}
