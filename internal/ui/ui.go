package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/radar/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	DiscoverView ViewState = iota
	ReleaseListView
	ConfirmView
	WriteView
	ResultView
)

// Engine is the subset of [tasks.Engine] the TUI drives.
type Engine interface {
	Discover(ctx context.Context, window time.Duration, progress chan<- tasks.ProgressUpdate) ([]tasks.Release, error)
	WriteReleases(ctx context.Context, playlistName string, releases []tasks.Release, progress chan<- tasks.ProgressUpdate) (*tasks.ReconcileResult, error)
}

var _ Engine = (*tasks.Engine)(nil)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	engine       Engine
	playlist     string
	window       time.Duration
	width        int
	height       int
	spinner      spinner.Model
	releaseList  list.Model
	releases     []tasks.Release
	progressChan chan tasks.ProgressUpdate
	doneChan     chan Msg
	progress     tasks.ProgressUpdate
	result       *tasks.ReconcileResult
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model that updates playlist with the releases of the trailing window.
func NewModel(ctx context.Context, engine Engine, playlist string, window time.Duration) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.heading.UnsetMarginBottom()

	return &Model{
		ctx:      ctx,
		view:     DiscoverView,
		engine:   engine,
		playlist: playlist,
		window:   window,
		spinner:  s,
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

// Init starts the spinner and the discovery run.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startDiscovery())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.view == ReleaseListView {
			m.releaseList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case spinner.TickMsg:
		if m.view != DiscoverView && m.view != WriteView {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch m.view {
		case DiscoverView, WriteView:
			if key.Matches(msg, m.keys.quit) {
				return m, tea.Quit
			}
			return m, nil
		case ReleaseListView:
			return m.handleReleaseListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateList(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgProgressUpdate:
		m.progress = msg.data.(tasks.ProgressUpdate)
		return m, m.waitForProgress()

	case MsgReleasesDiscovered:
		data := msg.data.(discovered)
		m.clearOperation()
		if data.err != nil {
			m.err = data.err
			m.view = ResultView
			return m, nil
		}

		m.releases = tasks.UniqueTracks(data.releases)
		m.releaseList = newReleaseList(m.releases, fmt.Sprintf("New releases for '%s' (%d)", m.playlist, len(m.releases)))
		if m.width > 0 {
			m.releaseList.SetSize(m.width-4, m.height-8)
		}
		m.view = ReleaseListView
		return m, nil

	case MsgWriteComplete:
		data := msg.data.(written)
		m.clearOperation()
		m.result = data.result
		m.err = data.err
		m.view = ResultView
		return m, nil
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case DiscoverView:
		return m.renderProgress("Discovering New Releases")
	case ReleaseListView:
		return m.renderReleaseList()
	case ConfirmView:
		return m.renderConfirm()
	case WriteView:
		return m.renderProgress("Updating Playlist")
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleReleaseListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.releaseList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.releaseList, cmd = m.releaseList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.write):
		m.view = ConfirmView
		return m, nil
	}

	var cmd tea.Cmd
	m.releaseList, cmd = m.releaseList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.cancel), key.Matches(msg, m.keys.quit):
		m.view = ReleaseListView
		return m, nil
	case key.Matches(msg, m.keys.confirm):
		m.view = WriteView
		return m, tea.Batch(m.spinner.Tick, m.startWrite())
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.rediscover):
		m.view = DiscoverView
		m.releases = nil
		m.result = nil
		m.err = nil
		m.progress = tasks.ProgressUpdate{}
		return m, tea.Batch(m.spinner.Tick, m.startDiscovery())
	}
	return m, nil
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.view == ReleaseListView {
		m.releaseList, cmd = m.releaseList.Update(msg)
	}
	return m, cmd
}

// run executes op in the background and streams its progress as messages.
func (m *Model) run(op func(progress chan<- tasks.ProgressUpdate) Msg) tea.Cmd {
	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan Msg, 1)
	m.progressChan = progress
	m.doneChan = done

	go func() {
		msg := op(progress)
		close(progress)
		done <- msg
	}()

	return m.waitForProgress()
}

func (m *Model) startDiscovery() tea.Cmd {
	return m.run(func(progress chan<- tasks.ProgressUpdate) Msg {
		releases, err := m.engine.Discover(m.ctx, m.window, progress)
		return releasesDiscoveredMsg(releases, err)
	})
}

func (m *Model) startWrite() tea.Cmd {
	releases := m.releases
	return m.run(func(progress chan<- tasks.ProgressUpdate) Msg {
		result, err := m.engine.WriteReleases(m.ctx, m.playlist, releases, progress)
		return writeCompleteMsg(result, err)
	})
}

func (m *Model) waitForProgress() tea.Cmd {
	progress, done := m.progressChan, m.doneChan
	return func() tea.Msg {
		if progress == nil {
			return nil
		}
		update, ok := <-progress
		if !ok {
			return <-done
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) clearOperation() {
	m.progressChan = nil
	m.doneChan = nil
}

func (m *Model) renderProgress(heading string) string {
	title := styles.heading.Render(heading)

	message := m.progress.Message
	if message == "" {
		message = "Starting..."
	}

	helpView := m.help.ShortHelpView(m.keys.forView(m.view))
	return fmt.Sprintf("%s\n\n%s %s\n\n%s", title, m.spinner.View(), message, helpView)
}

func (m *Model) renderReleaseList() string {
	helpView := m.help.ShortHelpView(m.keys.forView(m.view))
	return fmt.Sprintf("%s\n\n%s", m.releaseList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.heading.Render(fmt.Sprintf("Replace the contents of '%s'?", m.playlist))
	info := fmt.Sprintf("\nPlaylist: %s\nTracks: %d\n", m.playlist, len(m.releases))
	if len(m.releases) == 0 {
		info += styles.pending.Render("The playlist will be emptied.") + "\n"
	}

	helpView := m.help.ShortHelpView(m.keys.forView(m.view))

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderResult() string {
	helpView := m.help.ShortHelpView(m.keys.forView(m.view))

	if m.err != nil {
		return fmt.Sprintf("%s\n\n%s", styles.failed.Render(fmt.Sprintf("Update failed: %v", m.err)), helpView)
	}
	if m.result == nil {
		return fmt.Sprintf("%s\n\n%s", styles.failed.Render("No result available"), helpView)
	}

	var title string
	if m.result.Confirmed {
		title = styles.confirmed.Render("✓ Playlist Updated!")
	} else {
		title = styles.pending.Render("Playlist write was not confirmed")
	}

	created := ""
	if m.result.Created {
		created = " (created)"
	}
	info := fmt.Sprintf("\nPlaylist: %s%s\nTracks: %d", m.result.Playlist.Name, created, len(m.result.Releases))
	if m.result.SnapshotID != "" {
		info += "\nSnapshot: " + styles.detail.Render(m.result.SnapshotID)
	}

	return fmt.Sprintf("%s\n%s\n\n%s", title, info, helpView)
}
