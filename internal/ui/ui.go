package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/intune/internal/custom"
	"github.com/desertthunder/intune/internal/models"
	"github.com/desertthunder/intune/internal/services"
	"github.com/desertthunder/intune/internal/shared"
)

const (
	cardWidth   = 24
	cardsPerRow = 5
	modalWidth  = 64
)

// Mode is the current input mode of the TUI.
type Mode int

const (
	BoardMode Mode = iota
	SearchMode
	HeaderMode
	PlaylistMode
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusErr
)

// PlaylistRecorder stores playlists created from the TUI.
type PlaylistRecorder interface {
	Record(p *models.CreatedPlaylist) (*models.PlaylistRecord, error)
}

// ModelOpts contains the dependencies of the TUI [Model]. Controller, Headers and Screen are required.
type ModelOpts struct {
	Controller *custom.Controller
	Headers    *custom.HeaderEditor
	Screen     *Screen
	Playlists  services.PlaylistCreator
	History    PlaylistRecorder
	Stories    services.StoryGenerator
	StoryPath  string
	OpenURL    func(url string) error
	Logger     *log.Logger
}

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	ctrl      *custom.Controller
	headers   *custom.HeaderEditor
	screen    *Screen
	playlists services.PlaylistCreator
	history   PlaylistRecorder
	stories   services.StoryGenerator
	storyPath string
	openURL   func(string) error
	logger    *log.Logger

	mode       Mode
	focusType  models.CardType
	focusIndex int
	slots      map[models.CardType]int

	search    textinput.Model
	results   list.Model
	lastQuery string
	input     textinput.Model
	field     string

	status       string
	statusKind   statusKind
	lastPlaylist *models.CreatedPlaylist

	width  int
	height int
	help   help.Model
	keys   keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, opts ModelOpts) *Model {
	if opts.StoryPath == "" {
		opts.StoryPath = "intune_story.png"
	}
	if opts.OpenURL == nil {
		opts.OpenURL = shared.OpenBrowser
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	search := textinput.New()
	search.CharLimit = 100
	search.Width = modalWidth - 8

	input := textinput.New()
	input.CharLimit = 80
	input.Width = modalWidth - 8

	return &Model{
		ctx:       ctx,
		ctrl:      opts.Controller,
		headers:   opts.Headers,
		screen:    opts.Screen,
		playlists: opts.Playlists,
		history:   opts.History,
		stories:   opts.Stories,
		storyPath: opts.StoryPath,
		openURL:   opts.OpenURL,
		logger:    shared.WithLogger(opts.Logger, "component", "ui"),
		mode:      BoardMode,
		focusType: models.ArtistCard,
		slots: map[models.CardType]int{
			models.ArtistCard: len(opts.Controller.Cards(models.ArtistCard)),
			models.TrackCard:  len(opts.Controller.Cards(models.TrackCard)),
		},
		search:  search,
		results: newResultList(),
		input:   input,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Mode returns the current input mode.
func (m *Model) Mode() Mode { return m.mode }

// Init implements [tea.Model].
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case SearchMode:
			return m.handleSearchKeys(msg)
		case HeaderMode:
			return m.handleHeaderKeys(msg)
		case PlaylistMode:
			return m.handlePlaylistKeys(msg)
		default:
			return m.handleBoardKeys(msg)
		}

	case Msg:
		switch msg.kind {
		case MsgRefresh:
			m.syncModal()
		case MsgPlaylistCreated:
			m.onPlaylistCreated(msg.data.(playlistResult))
		case MsgStorySaved:
			res := msg.data.(storyResult)
			if res.err != nil {
				m.setStatus(statusErr, "Story download failed: %v", res.err)
			} else {
				m.setStatus(statusOK, "Story saved to %s", res.path)
			}
		}
		return m, nil
	}

	return m, nil
}

func (m *Model) handleBoardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.left):
		m.moveFocus(-1)
	case key.Matches(msg, m.keys.right):
		m.moveFocus(1)
	case key.Matches(msg, m.keys.grid):
		if m.focusType == models.ArtistCard {
			m.focusType = models.TrackCard
		} else {
			m.focusType = models.ArtistCard
		}
		if n := m.slots[m.focusType]; m.focusIndex >= n {
			m.focusIndex = max(n-1, 0)
		}
	case key.Matches(msg, m.keys.add):
		return m, m.openModal()
	case key.Matches(msg, m.keys.clear):
		if err := m.ctrl.ClearCard(m.focusType, m.focusIndex); err != nil {
			m.setStatus(statusErr, "%v", err)
		} else {
			m.setStatus(statusInfo, "Cleared %s %d", m.focusType, m.focusIndex+1)
		}
	case key.Matches(msg, m.keys.header):
		field := custom.FieldArtistsHeader
		if m.focusType == models.TrackCard {
			field = custom.FieldTracksHeader
		}
		return m, m.startHeaderEdit(field)
	case key.Matches(msg, m.keys.title):
		return m, m.startHeaderEdit(custom.FieldPageTitle)
	case key.Matches(msg, m.keys.playlist):
		if m.playlists == nil {
			m.setStatus(statusErr, "%v: playlist creation is not configured", shared.ErrServiceUnavailable)
			return m, nil
		}
		m.mode = PlaylistMode
		m.input.Reset()
		m.input.Placeholder = "Playlist name"
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.open):
		if m.lastPlaylist == nil || m.lastPlaylist.URL == "" {
			m.setStatus(statusWarn, "No playlist created yet")
			return m, nil
		}
		if err := m.openURL(m.lastPlaylist.URL); err != nil {
			m.setStatus(statusErr, "%v", err)
		}
	case key.Matches(msg, m.keys.story):
		if m.stories == nil {
			m.setStatus(statusErr, "%v: story download is not configured", shared.ErrServiceUnavailable)
			return m, nil
		}
		m.setStatus(statusInfo, "Generating story...")
		return m, m.downloadStory()
	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back):
		m.ctrl.Close()
		m.leaveModal()
		return m, nil
	case key.Matches(msg, m.keys.commit):
		m.commit()
		return m, nil
	case msg.String() == "enter":
		selected, ok := m.results.SelectedItem().(resultItem)
		if !ok {
			return m, nil
		}
		if selected.selected {
			m.commit()
			return m, nil
		}
		if err := m.ctrl.Select(selected.item.ID); err != nil {
			m.setStatus(statusErr, "%v", err)
		}
		m.syncModal()
		return m, nil
	case key.Matches(msg, m.keys.up, m.keys.down), msg.String() == "pgup", msg.String() == "pgdown":
		var cmd tea.Cmd
		m.results, cmd = m.results.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if value := m.search.Value(); value != m.lastQuery {
		m.lastQuery = value
		if err := m.ctrl.QueryChanged(value); err != nil {
			m.logger.Warn("query ignored", "error", err)
		}
		m.syncModal()
	}
	return m, cmd
}

func (m *Model) handleHeaderKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back):
		m.headers.Cancel(m.field)
		m.mode = BoardMode
		m.input.Blur()
		return m, nil
	case msg.String() == "enter":
		text, outcome, err := m.headers.Finish(m.field, m.input.Value())
		m.mode = BoardMode
		m.input.Blur()
		switch {
		case err != nil:
			m.setStatus(statusErr, "%v", err)
		case outcome == custom.Saved:
			m.setStatus(statusOK, "Saved %q", text)
		case outcome == custom.Reverted:
			m.setStatus(statusWarn, "Reverted to %q", text)
		default:
			m.status = ""
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handlePlaylistKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back):
		m.mode = BoardMode
		m.input.Blur()
		return m, nil
	case msg.String() == "enter":
		name := strings.TrimSpace(m.input.Value())
		if name == "" {
			m.setStatus(statusWarn, "Please enter a playlist name")
			return m, nil
		}
		m.mode = BoardMode
		m.input.Blur()
		m.setStatus(statusInfo, "Creating playlist %q...", name)
		return m, m.createPlaylist(name)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) openModal() tea.Cmd {
	if err := m.ctrl.Open(m.focusType, m.focusIndex); err != nil {
		m.setStatus(statusErr, "%v", err)
		return nil
	}

	modal := m.ctrl.Modal()
	m.mode = SearchMode
	m.lastQuery = ""
	m.status = ""
	m.search.Reset()
	m.search.Placeholder = modal.Placeholder
	m.results.SetItems(nil)
	m.results.ResetSelected()
	return m.search.Focus()
}

func (m *Model) leaveModal() {
	m.mode = BoardMode
	m.search.Blur()
	m.results.SetItems(nil)
}

func (m *Model) commit() {
	modal := m.ctrl.Modal()
	if err := m.ctrl.Commit(); err != nil {
		if errors.Is(err, shared.ErrNoSelection) {
			m.setStatus(statusWarn, "Select a result first")
		} else {
			m.setStatus(statusErr, "%v", err)
		}
		return
	}

	m.leaveModal()
	m.setStatus(statusOK, "Added %s to %s %d", modal.Selected.Name, modal.Target, modal.Index+1)
}

// syncModal copies the controller's latest modal into the result list.
func (m *Model) syncModal() {
	modal := m.screen.Modal()
	if m.mode != SearchMode {
		return
	}
	if !modal.Open {
		m.leaveModal()
		return
	}
	m.results.SetItems(resultItems(modal))
}

func (m *Model) startHeaderEdit(field string) tea.Cmd {
	text, err := m.headers.Start(field)
	if err != nil {
		m.setStatus(statusErr, "%v", err)
		return nil
	}

	m.mode = HeaderMode
	m.field = field
	m.input.Reset()
	m.input.Placeholder, _ = m.headers.Default(field)
	m.input.SetValue(text)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) moveFocus(delta int) {
	n := m.slots[m.focusType]
	if n == 0 {
		m.focusIndex = 0
		return
	}
	m.focusIndex = ((m.focusIndex+delta)%n + n) % n
}

func (m *Model) setStatus(kind statusKind, format string, args ...any) {
	m.statusKind = kind
	m.status = fmt.Sprintf(format, args...)
}

func (m *Model) onPlaylistCreated(res playlistResult) {
	if res.err != nil {
		m.setStatus(statusErr, "Playlist creation failed: %v", res.err)
		return
	}

	m.lastPlaylist = res.playlist
	msg := fmt.Sprintf("Created %q with %d tracks", res.playlist.Name, res.playlist.TracksAdded)
	if res.record != nil {
		msg = fmt.Sprintf("%s (#%d)", msg, res.record.Sequence)
	}
	if res.playlist.URL != "" {
		msg += ", press o to open"
	}
	m.setStatus(statusOK, "%s", msg)
}

func (m *Model) createPlaylist(name string) tea.Cmd {
	return func() tea.Msg {
		playlist, err := m.playlists.CreatePlaylist(m.ctx, name)
		if err != nil {
			return playlistCreatedMsg(nil, nil, err)
		}

		var record *models.PlaylistRecord
		if m.history != nil {
			if record, err = m.history.Record(playlist); err != nil {
				m.logger.Warn("could not record playlist", "name", playlist.Name, "error", err)
			}
		}
		return playlistCreatedMsg(playlist, record, nil)
	}
}

func (m *Model) downloadStory() tea.Cmd {
	return func() tea.Msg {
		image, err := m.stories.GenerateStory(m.ctx)
		if err != nil {
			return storySavedMsg("", err)
		}
		if err := os.WriteFile(m.storyPath, image, 0644); err != nil {
			return storySavedMsg("", fmt.Errorf("failed to write story: %w", err))
		}
		return storySavedMsg(m.storyPath, nil)
	}
}

// View renders the UI based on the current mode.
func (m *Model) View() string {
	if m.mode == SearchMode {
		modal := m.renderModal()
		if m.width > 0 && m.height > 0 {
			return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
		}
		return modal
	}

	var b strings.Builder
	b.WriteString(styles.title.Render(m.label(custom.FieldPageTitle)))
	b.WriteString("\n")

	averages := m.screen.Averages()
	b.WriteString(m.renderGrid(models.ArtistCard, m.label(custom.FieldArtistsHeader), averages.Artist))
	b.WriteString("\n")
	b.WriteString(m.renderGrid(models.TrackCard, m.label(custom.FieldTracksHeader), averages.Track))
	b.WriteString("\n")

	switch m.mode {
	case HeaderMode:
		b.WriteString(fmt.Sprintf("Edit %s: %s\n", strings.ReplaceAll(m.field, "_", " "), m.input.View()))
	case PlaylistMode:
		b.WriteString(fmt.Sprintf("New playlist: %s\n", m.input.View()))
	}

	if m.status != "" {
		b.WriteString(m.renderStatus())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) label(field string) string {
	text, err := m.headers.Text(field)
	if err != nil {
		return field
	}
	return text
}

func (m *Model) renderGrid(cardType models.CardType, header string, average float64) string {
	avgLabel := "Artist"
	if cardType == models.TrackCard {
		avgLabel = "Track"
	}

	title := fmt.Sprintf("%s  %s",
		styles.header.Render(header),
		styles.help.Render(fmt.Sprintf("Avg Top %s Popularity: %s/100", avgLabel, custom.FormatAverage(average))))

	var rows []string
	var row []string
	for i := 0; i < m.slots[cardType]; i++ {
		card, ok := m.screen.Card(cardType, i)
		if !ok {
			card = models.NewPlaceholderCard(cardType, i)
		}
		row = append(row, m.renderCard(card))
		if len(row) == cardsPerRow {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, append([]string{title}, rows...)...)
}

func (m *Model) renderCard(c models.Card) string {
	body := describeCard(c)
	if !c.Populated {
		body = styles.placeholder.Render(body)
	}

	style := styles.card
	if m.mode == BoardMode && c.Type == m.focusType && c.Index == m.focusIndex {
		style = styles.focused
	}
	return style.Render(fmt.Sprintf("%d\n%s", c.Index+1, body))
}

func (m *Model) renderModal() string {
	modal := m.screen.Modal()

	var b strings.Builder
	b.WriteString(styles.title.Render(modal.Title))
	b.WriteString("\n")
	b.WriteString(m.search.View())
	b.WriteString("\n\n")

	switch modal.State {
	case custom.ResultsIdle:
		b.WriteString(styles.help.Render("Start typing to search"))
	case custom.ResultsTooShort:
		b.WriteString(styles.help.Render(fmt.Sprintf("Type at least %d characters to search", modal.MinQuery)))
	case custom.ResultsLoading:
		b.WriteString(styles.help.Render("Searching..."))
	case custom.ResultsNotFound:
		b.WriteString(styles.warn.Render(fmt.Sprintf("No %s found", modal.Target.Plural())))
	case custom.ResultsError:
		b.WriteString(styles.err.Render(modal.Err))
	case custom.ResultsFound:
		b.WriteString(m.results.View())
	}
	b.WriteString("\n\n")

	if modal.Selected != nil {
		b.WriteString(styles.ok.Render(fmt.Sprintf("Selected: %s (%d/100)", modal.Selected.Name, modal.Selected.Popularity)))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(m.renderStatus())
		b.WriteString("\n")
	}

	saveHelp := m.keys.commit
	saveHelp.SetEnabled(modal.CanCommit())
	enterHelp := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select"))
	b.WriteString(m.help.ShortHelpView([]key.Binding{enterHelp, saveHelp, m.keys.back}))

	return styles.modal.Render(b.String())
}

func (m *Model) renderStatus() string {
	switch m.statusKind {
	case statusOK:
		return styles.ok.Render(m.status)
	case statusWarn:
		return styles.warn.Render(m.status)
	case statusErr:
		return styles.err.Render(m.status)
	default:
		return styles.help.Render(m.status)
	}
}
