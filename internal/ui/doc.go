// Package ui implements an interactive terminal interface for the custom view using bubbletea's Elm architecture.
//
// The TUI has four input modes:
//  1. [BoardMode] : Move between artist and track cards, clear cards, download the story
//  2. [SearchMode] : The add modal. Typing searches, enter selects a result, enter again or ctrl+s saves it
//  3. [HeaderMode] : Inline editing of the page title and grid headers
//  4. [PlaylistMode] : Name and create a playlist from the user's top tracks
//
// The [custom.Controller] owns all board state. [Screen] is its view: it keeps the latest snapshots and
// asks the program to redraw with a Msg of kind [MsgRefresh], so debounced search results arriving on the
// timer goroutine show up without polling.
//
// Keyboard navigation uses vim-style bindings (h/l, tab, enter, esc, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
