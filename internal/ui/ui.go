package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/smarterz/internal/models"
	"github.com/desertthunder/smarterz/internal/repositories"
	"github.com/desertthunder/smarterz/internal/services"
	"github.com/desertthunder/smarterz/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	BatchListView ViewState = iota
	LoadingView
	ContentListView
)

// Tab selects which half of a batch the content view lists.
type Tab int

const (
	PendingTab Tab = iota
	CompletedTab
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	tab          Tab
	upstream     services.Upstream
	aggregator   *tasks.Aggregator
	store        repositories.ProgressStore
	playerURL    string
	copyText     func(string) error
	width        int
	height       int
	batchList    list.Model
	contentList  list.Model
	batch        models.Batch
	result       *tasks.AggregateResult
	completed    models.CompletedSet
	progressChan chan tasks.ProgressUpdate
	doneChan     chan Msg
	progress     tasks.ProgressUpdate
	status       string
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, upstream services.Upstream, aggregator *tasks.Aggregator, store repositories.ProgressStore, playerURL string) *Model {
	batchList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	batchList.Title = "Batches"
	contentList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	contentList.SetShowTitle(false)

	return &Model{
		ctx:         ctx,
		view:        BatchListView,
		upstream:    upstream,
		aggregator:  aggregator,
		store:       store,
		playerURL:   playerURL,
		copyText:    clipboard.WriteAll,
		batchList:   batchList,
		contentList: contentList,
		help:        help.New(),
		keys:        newKeyMap(),
	}
}

// WithClipboard replaces the system clipboard writer.
func (m *Model) WithClipboard(fn func(string) error) *Model {
	m.copyText = fn
	return m
}

// Err returns the error that ended the session, if any.
func (m *Model) Err() error {
	return m.err
}

// Init initializes the TUI by fetching the batch list.
func (m *Model) Init() tea.Cmd {
	return m.fetchBatches()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.batchList.SetSize(msg.Width-4, msg.Height-8)
		m.contentList.SetSize(msg.Width-4, msg.Height-10)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case BatchListView:
			return m.handleBatchListKeys(msg)
		case LoadingView:
			if key.Matches(msg, m.keys.quit) {
				return m, tea.Quit
			}
			return m, nil
		case ContentListView:
			return m.handleContentListKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgBatchesFetched:
		data := msg.data.(batchesFetched)
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		items := make([]list.Item, len(data.batches))
		for i, b := range data.batches {
			items[i] = batchItem{batch: b}
		}
		return m, m.batchList.SetItems(items)

	case MsgProgressUpdate:
		m.progress = msg.data.(tasks.ProgressUpdate)
		return m, waitForProgress(m.progressChan, m.doneChan)

	case MsgBatchLoaded:
		data := msg.data.(batchLoaded)
		m.progressChan, m.doneChan = nil, nil
		if data.err != nil {
			m.status = styles.err.Render(fmt.Sprintf("Failed to load %s: %v", m.batch.Name, data.err))
			m.view = BatchListView
			return m, nil
		}
		m.result = data.result
		m.completed = models.CompletedSet(data.completed)
		m.tab = PendingTab
		m.status = ""
		if failures := data.result.Failures(); len(failures) > 0 {
			m.status = styles.warn.Render(fmt.Sprintf("%d of %d collections unavailable", len(failures), len(data.result.Units)))
		}
		m.contentList.ResetFilter()
		m.contentList.ResetSelected()
		m.view = ContentListView
		return m, m.refreshContent()

	case MsgToggled:
		data := msg.data.(toggled)
		if data.err != nil {
			m.status = styles.err.Render(fmt.Sprintf("Failed to update progress: %v", data.err))
			return m, nil
		}
		if data.done {
			m.completed.Add(data.id)
			m.status = styles.ok.Render("Marked done")
		} else {
			m.completed.Remove(data.id)
			m.status = styles.help.Render("Moved back to pending")
		}
		return m, m.refreshContent()

	case MsgCopied:
		data := msg.data.(copied)
		if data.err != nil {
			m.status = styles.err.Render(fmt.Sprintf("Copy failed: %v", data.err))
		} else {
			m.status = styles.ok.Render("Copied: " + data.text)
		}
		return m, nil
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case BatchListView:
		return m.renderBatchList()
	case LoadingView:
		return m.renderLoading()
	case ContentListView:
		return m.renderContentList()
	default:
		return ""
	}
}

func (m *Model) handleBatchListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.batchList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.batchList, cmd = m.batchList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.enter):
		if selected, ok := m.batchList.SelectedItem().(batchItem); ok {
			return m, m.startAggregate(selected.batch)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.batchList, cmd = m.batchList.Update(msg)
	return m, cmd
}

func (m *Model) handleContentListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.contentList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.contentList, cmd = m.contentList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = BatchListView
		m.result = nil
		m.status = ""
		return m, nil
	case key.Matches(msg, m.keys.tab):
		if m.tab == PendingTab {
			m.tab = CompletedTab
		} else {
			m.tab = PendingTab
		}
		m.contentList.ResetSelected()
		return m, m.refreshContent()
	case key.Matches(msg, m.keys.toggle):
		if selected, ok := m.contentList.SelectedItem().(contentItem); ok {
			return m, m.toggle(selected.item.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.copy):
		if selected, ok := m.contentList.SelectedItem().(contentItem); ok {
			return m, m.copy(selected.item.ShareText(m.playerURL))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.contentList, cmd = m.contentList.Update(msg)
	return m, cmd
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case BatchListView:
		m.batchList, cmd = m.batchList.Update(msg)
	case ContentListView:
		m.contentList, cmd = m.contentList.Update(msg)
	}
	return m, cmd
}

// partition splits the loaded batch by the current completed set.
func (m *Model) partition() (pending, done []models.ContentItem) {
	if m.result == nil {
		return nil, nil
	}
	return m.completed.Partition(m.result.Items)
}

// refreshContent reloads the content list for the active tab, keeping the cursor in range.
func (m *Model) refreshContent() tea.Cmd {
	pending, done := m.partition()

	var items []list.Item
	if m.tab == PendingTab {
		items = contentItems(pending, false)
	} else {
		items = contentItems(done, true)
	}

	idx := m.contentList.Index()
	cmd := m.contentList.SetItems(items)
	if idx >= len(items) {
		idx = len(items) - 1
	}
	if idx >= 0 {
		m.contentList.Select(idx)
	}
	return cmd
}

func (m *Model) fetchBatches() tea.Cmd {
	return func() tea.Msg {
		batches, err := m.upstream.Batches(m.ctx)
		return batchesFetchedMsg(batches, err)
	}
}

func (m *Model) startAggregate(batch models.Batch) tea.Cmd {
	m.batch = batch
	m.view = LoadingView
	m.status = ""
	m.progress = tasks.ProgressUpdate{}
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	m.doneChan = make(chan Msg, 1)

	progress, done := m.progressChan, m.doneChan
	go func() {
		result, err := m.aggregator.Aggregate(m.ctx, batch.ID, progress)
		close(progress)
		if err != nil {
			done <- batchLoadedMsg(nil, nil, err)
			return
		}
		completed, err := m.store.Completed()
		done <- batchLoadedMsg(result, completed, err)
	}()

	return waitForProgress(progress, done)
}

// waitForProgress relays one update, or the final result once the progress channel closes.
func waitForProgress(progress <-chan tasks.ProgressUpdate, done <-chan Msg) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-progress
		if !ok {
			return <-done
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) toggle(id string) tea.Cmd {
	return func() tea.Msg {
		done, err := m.store.Toggle(id)
		return toggledMsg(id, done, err)
	}
}

func (m *Model) copy(text string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg(text, m.copyText(text))
	}
}

func (m *Model) renderBatchList() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.quit})
	if m.status != "" {
		return fmt.Sprintf("%s\n%s\n\n%s", m.batchList.View(), m.status, helpView)
	}
	return fmt.Sprintf("%s\n\n%s", m.batchList.View(), helpView)
}

func (m *Model) renderLoading() string {
	title := styles.title.Render(fmt.Sprintf("Loading %s", m.batch.Name))

	var phase string
	switch m.progress.Phase {
	case tasks.FetchSubjects:
		phase = "Fetching subjects..."
	case tasks.FetchContents:
		phase = fmt.Sprintf("Fetching collections (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.Flatten:
		phase = "Flattening results..."
	default:
		phase = "Starting..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, styles.help.Render(m.progress.Message))
}

func (m *Model) renderContentList() string {
	pending, done := m.partition()
	title := styles.title.Render(m.batch.Name)

	pendingTab := fmt.Sprintf("Pending (%d)", len(pending))
	doneTab := fmt.Sprintf("Completed (%d)", len(done))
	if m.tab == PendingTab {
		pendingTab = styles.tab.Render(pendingTab)
		doneTab = styles.help.Render(doneTab)
	} else {
		pendingTab = styles.help.Render(pendingTab)
		doneTab = styles.tab.Render(doneTab)
	}
	tabs := strings.Join([]string{pendingTab, doneTab}, "   ")

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.toggle, m.keys.copy, m.keys.tab, m.keys.back, m.keys.quit})

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n\n%s\n", title, tabs, m.contentList.View())
	if m.status != "" {
		b.WriteString(m.status + "\n")
	}
	b.WriteString("\n" + helpView)
	return b.String()
}
