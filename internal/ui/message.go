package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/intune/internal/models"
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
	MsgRefresh MsgKind = iota
	MsgPlaylistCreated
	MsgStorySaved
)

type playlistResult struct {
	playlist *models.CreatedPlaylist
	record   *models.PlaylistRecord
	err      error
}

type storyResult struct {
	path string
	err  error
}

// refreshMsg is the constructor for [MsgRefresh], sent whenever the controller renders.
func refreshMsg() Msg {
	return Msg{kind: MsgRefresh}
}

// playlistCreatedMsg is the constructor for [MsgPlaylistCreated]
func playlistCreatedMsg(playlist *models.CreatedPlaylist, record *models.PlaylistRecord, err error) Msg {
	return Msg{kind: MsgPlaylistCreated, data: playlistResult{playlist, record, err}}
}

// storySavedMsg is the constructor for [MsgStorySaved]
func storySavedMsg(path string, err error) Msg {
	return Msg{kind: MsgStorySaved, data: storyResult{path, err}}
}
