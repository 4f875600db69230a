// Package tui is the interactive terminal view over the task controller. It
// owns no task data: every render reads the controller, editor and form.
package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/hay-kot/todos/internal/auth"
	"github.com/hay-kot/todos/internal/core/logging"
	"github.com/hay-kot/todos/internal/core/styles"
	"github.com/hay-kot/todos/internal/core/task"
	"github.com/hay-kot/todos/internal/remote"
	"github.com/hay-kot/todos/internal/todos"
	"github.com/hay-kot/todos/internal/tui/components"
	"github.com/hay-kot/todos/internal/tui/components/form"
)

// UIState represents the current state of the TUI.
type UIState int

const (
	stateNormal UIState = iota
	stateCreating
	stateEditing
	stateConfirming
	statePreviewing
	stateShowingHelp
)

const (
	defaultWidth  = 80
	defaultHeight = 24
)

// op identifies the controller operation a result belongs to.
type op int

const (
	opRefresh op = iota
	opCreate
	opSave
	opToggle
	opRemove
)

// opDoneMsg carries the result of a controller operation back to Update.
type opDoneMsg struct {
	op     op
	res    todos.Result
	notice string
}

// identityMsg carries the signed-in identity for the header.
type identityMsg struct {
	identity todos.Identity
	err      error
}

// Options configures the TUI behavior.
type Options struct {
	// Context is passed to every controller operation. Defaults to
	// context.Background.
	Context context.Context
	// Now is used to flag overdue tasks. Defaults to time.Now.
	Now func() time.Time
}

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	app  *todos.App
	ctx  context.Context
	now  func() time.Time
	log  zerolog.Logger
	keys KeyMap

	state    UIState
	width    int
	height   int
	spinner  spinner.Model
	busy     int
	quitting bool

	cursor     int
	selectedID string
	identity   string
	// needsLogin is set while the last failure was a missing or rejected token.
	needsLogin bool

	createDialog  *form.Dialog
	editDialog    *form.Dialog
	editSaving    bool
	confirm       components.ConfirmModal
	pendingDelete string
	preview       *components.InfoDialog
	help          *components.HelpDialog
	toasts        toasts
}

// New creates the model. The initial refresh is issued by Init.
func New(app *todos.App, opts Options) Model {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.LoadingStyle

	return Model{
		app:     app,
		ctx:     opts.Context,
		now:     opts.Now,
		log:     logging.Component("tui"),
		keys:    DefaultKeyMap(),
		spinner: s,
		width:   defaultWidth,
		height:  defaultHeight,
		// accounts for the refresh Init issues on mount
		busy: 1,
	}
}

// Init loads the task list and the signed-in identity. New already counts
// the mount refresh as in flight.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.runOp(opRefresh, func(ctx context.Context, app *todos.App) todos.Result {
			return app.Tasks.Refresh(ctx)
		}),
		m.loadIdentity(),
		m.spinner.Tick,
	)
}

// Update dispatches messages to the handler for the current state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case opDoneMsg:
		return m.handleOpDone(msg)
	case identityMsg:
		return m.handleIdentity(msg)
	case toastTickMsg:
		return m.handleToastTick()
	case spinner.TickMsg:
		if !m.loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}

	return m.forwardToDialog(msg)
}

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	switch m.state {
	case stateCreating:
		return m.handleCreateKey(msg)
	case stateEditing:
		return m.handleEditKey(msg)
	case stateConfirming:
		return m.handleConfirmKey(msg)
	case statePreviewing:
		return m.handlePreviewKey(msg)
	case stateShowingHelp:
		return m.handleHelpKey(msg)
	default:
		return m.handleNormalKey(msg)
	}
}

func (m Model) handleNormalKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Refresh):
		cmd := m.runOp(opRefresh, func(ctx context.Context, app *todos.App) todos.Result {
			return app.Tasks.Refresh(ctx)
		})
		return m, cmd
	case key.Matches(msg, m.keys.New):
		return m.openCreateForm()
	case key.Matches(msg, m.keys.Toggle):
		t, ok := m.selectedTask()
		if !ok {
			return m, nil
		}
		notice := "Marked " + strings.ToLower(string(t.Status.Toggle()))
		cmd := m.runNoticed(opToggle, notice, func(ctx context.Context, app *todos.App) todos.Result {
			return app.Tasks.ToggleComplete(ctx, t.ID)
		})
		return m, cmd
	case key.Matches(msg, m.keys.Edit):
		t, ok := m.selectedTask()
		if !ok {
			return m, nil
		}
		return m.openEditForm(t)
	case key.Matches(msg, m.keys.Delete):
		t, ok := m.selectedTask()
		if !ok {
			return m, nil
		}
		return m.requestDelete(t)
	case key.Matches(msg, m.keys.Preview):
		t, ok := m.selectedTask()
		if !ok {
			return m, nil
		}
		m.preview = newPreview(t, m.now(), m.width, m.height)
		m.state = statePreviewing
	case key.Matches(msg, m.keys.Help):
		m.help = components.NewHelpDialog("Keys", m.keys.helpSections())
		m.state = stateShowingHelp
	case key.Matches(msg, m.keys.Dismiss):
		m.toasts.dismiss()
	}

	return m, nil
}

func (m Model) handlePreviewKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "enter":
		m.preview = nil
		m.state = stateNormal
	case "up", "k":
		m.preview.ScrollUp()
	case "down", "j":
		m.preview.ScrollDown()
	}
	return m, nil
}

func (m Model) handleHelpKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "?", "q":
		m.help = nil
		m.state = stateNormal
	}
	return m, nil
}

// forwardToDialog passes non-key messages such as cursor blinks to the open
// form so its inputs keep animating.
func (m Model) forwardToDialog(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.state == stateCreating && m.createDialog != nil:
		m.createDialog, cmd = m.createDialog.Update(msg)
	case m.state == stateEditing && m.editDialog != nil:
		m.editDialog, cmd = m.editDialog.Update(msg)
	}
	return m, cmd
}

func (m Model) handleOpDone(msg opDoneMsg) (tea.Model, tea.Cmd) {
	m.busy = max(m.busy-1, 0)

	switch {
	case msg.res.Invalid():
	case !msg.res.OK():
		m.log.Debug().Err(msg.res.Err).Int("op", int(msg.op)).Msg("operation failed")
		m.needsLogin = authFailure(msg.res.Err)
	case msg.res.Refreshed:
		m.needsLogin = false
	}

	var cmd tea.Cmd
	switch msg.op {
	case opCreate:
		cmd = m.finishCreate(msg.res)
	case opSave:
		m.finishEdit(msg.res)
	}

	m.restoreCursor()
	toast := m.notifyResult(msg)
	return m, tea.Batch(cmd, toast)
}

// notifyResult toasts an accepted mutation, with a warning when the
// follow-up refresh did not land.
func (m *Model) notifyResult(msg opDoneMsg) tea.Cmd {
	if !msg.res.Applied {
		return nil
	}

	notice := msg.notice
	if notice == "" {
		notice = defaultNotices[msg.op]
	}
	if notice == "" {
		return nil
	}

	if !msg.res.Refreshed {
		return m.notify(toastWarning, notice+"; list may be stale")
	}
	return m.notify(toastInfo, notice)
}

var defaultNotices = map[op]string{
	opCreate: "Task created",
	opSave:   "Task updated",
	opToggle: "Task updated",
	opRemove: "Task deleted",
}

func (m Model) handleIdentity(msg identityMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.err != nil:
		m.identity = ""
	case msg.identity.Opaque:
		m.identity = "signed in"
	default:
		m.identity = msg.identity.Display()
	}
	return m, nil
}

func authFailure(err error) bool {
	return errors.Is(err, auth.ErrNoSession) || remote.IsUnauthorized(err)
}

// runOp runs fn as a command and reports its result as an opDoneMsg. The
// spinner starts ticking when the first operation goes in flight.
func (m *Model) runOp(kind op, fn func(ctx context.Context, app *todos.App) todos.Result) tea.Cmd {
	return m.runNoticed(kind, "", fn)
}

// runNoticed is runOp with the toast text to show once the mutation lands.
func (m *Model) runNoticed(kind op, notice string, fn func(ctx context.Context, app *todos.App) todos.Result) tea.Cmd {
	ctx, app := m.ctx, m.app
	cmd := func() tea.Msg {
		return opDoneMsg{op: kind, res: fn(ctx, app), notice: notice}
	}

	m.busy++
	if m.busy == 1 {
		return tea.Batch(cmd, m.spinner.Tick)
	}
	return cmd
}

func (m Model) loadIdentity() tea.Cmd {
	ctx, app := m.ctx, m.app
	return func() tea.Msg {
		id, err := app.Whoami(ctx)
		return identityMsg{identity: id, err: err}
	}
}

func (m Model) loading() bool {
	return m.busy > 0 || m.app.Tasks.Loading()
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

// rows returns tasks in display order: pending first, then completed, each in
// service order.
func (m Model) rows() []task.Task {
	pending, completed := task.Partition(m.app.Tasks.Tasks())
	return append(pending, completed...)
}

func (m Model) selectedTask() (task.Task, bool) {
	rows := m.rows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return task.Task{}, false
	}
	return rows[m.cursor], true
}

func (m *Model) moveCursor(delta int) {
	rows := m.rows()
	if len(rows) == 0 {
		m.cursor = 0
		m.selectedID = ""
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), len(rows)-1)
	m.selectedID = rows[m.cursor].ID
}

// restoreCursor keeps the cursor on the same task across refreshes. When the
// task is gone the cursor stays at the same position, clamped.
func (m *Model) restoreCursor() {
	rows := m.rows()
	for i, t := range rows {
		if t.ID == m.selectedID {
			m.cursor = i
			return
		}
	}
	m.moveCursor(0)
}
