package tui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/cerridwen-io/babyrs/internal/event"
	"github.com/cerridwen-io/babyrs/internal/store"
)

// mode identifies the current interaction state.
type mode int

const (
	modeListing mode = iota
	modePicking
	modeCreating
	modeEditing
	modeDeleting
)

// Model is the bubbletea model for the session.
type Model struct {
	st  *store.Store
	ctx context.Context
	now func() time.Time

	mode   mode
	events []event.Event
	cursor int

	pick   int // selected index into event.Kinds while picking
	form   form
	editID int64

	status   string
	width    int
	height   int
	quitting bool
}

// Option configures a Model.
type Option func(*Model)

// WithClock overrides the timestamp source used to prefill forms.
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

// New creates the session model and loads the initial event list.
func New(st *store.Store, opts ...Option) (Model, error) {
	m := Model{
		st:   st,
		ctx:  context.Background(),
		now:  time.Now,
		mode: modeListing,
	}
	for _, opt := range opts {
		opt(&m)
	}

	events, err := st.ListEvents(m.ctx, store.Filter{})
	if err != nil {
		return Model{}, fmt.Errorf("load events: %w", err)
	}
	m.events = events

	return m, nil
}

// Run starts the interactive session and blocks until quit.
func Run(st *store.Store) error {
	session := uuid.NewString()
	slog.Info("starting session", "session", session)

	m, err := New(st)
	if err != nil {
		return err
	}

	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run session: %w", err)
	}

	slog.Info("session ended", "session", session)
	return nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch m.mode {
		case modeListing:
			return m.updateListing(msg)
		case modePicking:
			return m.updatePicking(msg)
		case modeCreating, modeEditing:
			return m.updateForm(msg)
		case modeDeleting:
			return m.updateDeleting(msg)
		}
	}
	return m, nil
}

func (m Model) updateListing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.events)-1 {
			m.cursor++
		}
	case "n":
		m.mode = modePicking
		m.pick = 0
		m.status = ""
	case "e":
		if len(m.events) == 0 {
			break
		}
		selected := m.events[m.cursor]
		m.mode = modeEditing
		m.editID = selected.ID
		m.form = editForm(selected)
		m.status = ""
	case "d":
		if len(m.events) == 0 {
			break
		}
		m.mode = modeDeleting
		m.status = ""
	case "r":
		m.reload()
	}
	return m, nil
}

func (m Model) updatePicking(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeListing
	case "up", "k":
		if m.pick > 0 {
			m.pick--
		}
	case "down", "j":
		if m.pick < len(event.Kinds)-1 {
			m.pick++
		}
	case "enter":
		m.mode = modeCreating
		m.form = newForm(event.Kinds[m.pick], m.now())
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeListing
		return m, nil
	case "tab", "down":
		m.form.focusNext()
		return m, nil
	case "shift+tab", "up":
		m.form.focusPrev()
		return m, nil
	case "enter":
		return m.submitForm()
	}

	// Everything else edits the focused input.
	var cmd tea.Cmd
	m.form, cmd = m.form.updateFocused(msg)
	return m, cmd
}

// submitForm validates the form and calls the store. A validation
// failure re-renders the form with the reason inline and keeps all
// entered input; a storage failure does the same so nothing typed is
// lost.
func (m Model) submitForm() (tea.Model, tea.Cmd) {
	e, err := m.form.parse()
	if err != nil {
		m.form.errMsg = err.Error()
		return m, nil
	}

	if m.mode == modeEditing {
		if _, err := m.st.UpdateEvent(m.ctx, m.editID, e); err != nil {
			m.form.errMsg = err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("Updated event #%d", m.editID)
	} else {
		id, err := m.st.CreateEvent(m.ctx, e)
		if err != nil {
			m.form.errMsg = err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("Created event #%d", id)
	}

	m.mode = modeListing
	m.reload()
	return m, nil
}

func (m Model) updateDeleting(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() != "y" {
		// Any other key cancels with no side effect.
		m.mode = modeListing
		m.status = "Delete cancelled"
		return m, nil
	}

	selected := m.events[m.cursor]
	if err := m.st.DeleteEvent(m.ctx, selected.ID); err != nil {
		m.status = err.Error()
	} else {
		m.status = fmt.Sprintf("Deleted event #%d", selected.ID)
	}

	m.mode = modeListing
	m.reload()
	return m, nil
}

// reload refreshes the event list from the store. Failures become a
// status message; the previous list stays on screen.
func (m *Model) reload() {
	events, err := m.st.ListEvents(m.ctx, store.Filter{})
	if err != nil {
		m.status = err.Error()
		return
	}
	m.events = events
	if m.cursor >= len(m.events) {
		m.cursor = len(m.events) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Events exposes the cached list for tests.
func (m Model) Events() []event.Event {
	return m.events
}

// Status exposes the status line for tests.
func (m Model) Status() string {
	return m.status
}
