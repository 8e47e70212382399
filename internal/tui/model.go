// Package tui is the interactive terminal front end.
//
// The model never touches the task store directly. Every action is a
// client call run as a tea.Cmd; when it returns, the model re-reads the
// client snapshot and renders that.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"todo/internal/client"
	"todo/internal/service"
)

type mode int

const (
	modeList mode = iota
	modeAdd
)

type op int

const (
	opRefresh op = iota
	opAdd
	opToggle
	opDelete
	opClear
)

// syncedMsg reports that a client call finished.
type syncedMsg struct {
	op  op
	err error
}

// expireMsg asks the model to re-read the snapshot once a success
// message may have expired.
type expireMsg struct{}

// Model is the Bubble Tea model for the task list.
type Model struct {
	ctx    context.Context
	client *client.Client

	snap   client.State
	cursor int
	mode   mode

	name  textinput.Model
	desc  textinput.Model
	field int

	// deleting is set while a confirmed delete is in flight.
	deleting bool
	quitting bool
	width    int
}

// New creates a model over c. Nothing is fetched until Init.
func New(ctx context.Context, c *client.Client) Model {
	name := textinput.New()
	name.Placeholder = "Task name"
	name.CharLimit = 256
	name.Width = 40

	desc := textinput.New()
	desc.Placeholder = "Description (optional)"
	desc.CharLimit = 1024
	desc.Width = 40

	return Model{
		ctx:    ctx,
		client: c,
		snap:   c.Snapshot(),
		name:   name,
		desc:   desc,
		mode:   modeList,
	}
}

// Run starts the program and blocks until the user quits or ctx is done.
func Run(ctx context.Context, c *client.Client, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	_, err := tea.NewProgram(New(ctx, c), opts...).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return m.run(opRefresh, m.client.Refresh)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case syncedMsg:
		return m.synced(msg)
	case expireMsg:
		m.snap = m.client.Snapshot()
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if w := msg.Width - 20; w > 10 {
			m.name.Width = w
			m.desc.Width = w
		}
		return m, nil
	case tea.KeyMsg:
		if m.snap.Confirming() {
			return m.updateConfirm(msg.String())
		}
		if m.mode == modeAdd {
			return m.updateAdd(msg)
		}
		return m.updateList(msg.String())
	}
	return m, nil
}

func (m Model) synced(msg syncedMsg) (tea.Model, tea.Cmd) {
	m.snap = m.client.Snapshot()
	m.cursor = clampCursor(m.cursor, len(m.snap.Tasks))

	switch msg.op {
	case opAdd:
		// The draft is gone once the add lands, even if the re-fetch failed.
		if client.Applied(msg.err) {
			m = m.closeForm()
		}
	case opDelete:
		m.deleting = false
	}

	if m.snap.Message.Kind == client.MessageSuccess {
		return m, expireAfter(m.client.MessageTTL())
	}
	return m, nil
}

func (m Model) updateList(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		m.cursor = clampCursor(m.cursor-1, len(m.snap.Tasks))
	case "down", "j":
		m.cursor = clampCursor(m.cursor+1, len(m.snap.Tasks))
	case "a":
		m.mode = modeAdd
		m.field = 0
		m.desc.Blur()
		return m, m.name.Focus()
	case " ", "space", "x":
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m, m.run(opToggle, func(ctx context.Context) error {
			return m.client.Toggle(ctx, task.ID)
		})
	case "d":
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		if err := m.client.RequestDelete(task.ID); err != nil {
			// No modal; the error is in the snapshot message.
			m.snap = m.client.Snapshot()
			return m, nil
		}
		m.snap = m.client.Snapshot()
	case "c":
		return m, m.run(opClear, m.client.DeleteCompleted)
	case "r":
		return m, m.run(opRefresh, m.client.Refresh)
	case "esc":
		m.client.DismissMessage()
		m.snap = m.client.Snapshot()
	}
	return m, nil
}

func (m Model) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "esc":
		m.client.SetDraft("", "")
		m = m.closeForm()
		m.snap = m.client.Snapshot()
		return m, nil
	case "tab", "shift+tab":
		return m.switchField()
	case "enter":
		m.client.SetDraft(m.name.Value(), m.desc.Value())
		return m, m.run(opAdd, m.client.Submit)
	}

	var cmd tea.Cmd
	if m.field == 0 {
		m.name, cmd = m.name.Update(msg)
	} else {
		m.desc, cmd = m.desc.Update(msg)
	}
	return m, cmd
}

func (m Model) updateConfirm(key string) (tea.Model, tea.Cmd) {
	if m.deleting {
		return m, nil
	}
	switch key {
	case "y", "Y", "enter":
		m.deleting = true
		return m, m.run(opDelete, m.client.ConfirmDelete)
	case "n", "N", "esc":
		m.client.CancelDelete()
		m.snap = m.client.Snapshot()
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) switchField() (tea.Model, tea.Cmd) {
	if m.field == 0 {
		m.field = 1
		m.name.Blur()
		return m, m.desc.Focus()
	}
	m.field = 0
	m.desc.Blur()
	return m, m.name.Focus()
}

func (m Model) closeForm() Model {
	m.mode = modeList
	m.field = 0
	m.name.Reset()
	m.desc.Reset()
	m.name.Blur()
	m.desc.Blur()
	return m
}

func (m Model) selected() (service.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.snap.Tasks) {
		return service.Task{}, false
	}
	return m.snap.Tasks[m.cursor], true
}

// run wraps a client call as a command reporting op when it finishes.
func (m Model) run(o op, fn func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return syncedMsg{op: o, err: fn(ctx)}
	}
}

func expireAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return expireMsg{}
	})
}

func clampCursor(cursor, total int) int {
	if total == 0 || cursor < 0 {
		return 0
	}
	if cursor >= total {
		return total - 1
	}
	return cursor
}
