// Package tui renders the board and translates key presses into
// application actions.
package tui

import (
	tea "charm.land/bubbletea/v2"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"github.com/atotto/clipboard"

	"github.com/ahlgren/tavla/internal/app"
)

// Model wraps the application state machine for bubbletea.
type Model struct {
	app *app.App

	ready  bool
	width  int
	height int

	status string

	help help.Model
	keys keyMap

	md descriptionRenderer
}

// Option defines a functional option for model configuration.
type Option func(*Model)

// NewModel constructs a new value for this package.
func NewModel(a *app.App, opts ...Option) Model {
	h := help.New()
	h.ShowAll = false
	m := Model{
		app:  a,
		help: h,
		keys: newKeyMap(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	return m
}

// Init handles init.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update updates state for the requested operation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)

	default:
		return m, nil
	}
}

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	// ctrl+c quits from every mode, typing included.
	if msg.String() == "ctrl+c" {
		m.app.Save()
		return m, tea.Quit
	}
	switch m.app.Mode() {
	case app.ModeNormal:
		return m.handleNormalKey(msg)
	case app.ModeViewing:
		return m.handleViewingKey(msg)
	case app.ModeSelectingBoard:
		return m.handleBoardSelectKey(msg)
	default:
		return m.handleTextEntryKey(msg)
	}
}

func (m Model) handleNormalKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch {
	case key.Matches(msg, m.keys.quit):
		m.app.Save()
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.moveTaskLeft):
		m.app.MoveTaskLeft()
		return m, nil
	case key.Matches(msg, m.keys.moveTaskRight):
		m.app.MoveTaskRight()
		return m, nil
	case key.Matches(msg, m.keys.columnLeft):
		m.app.PreviousColumn()
		return m, nil
	case key.Matches(msg, m.keys.columnRight):
		m.app.NextColumn()
		return m, nil
	case key.Matches(msg, m.keys.taskUp):
		m.app.PreviousTask()
		return m, nil
	case key.Matches(msg, m.keys.taskDown):
		m.app.NextTask()
		return m, nil
	case key.Matches(msg, m.keys.newTask):
		m.app.StartCreating()
		return m, nil
	case key.Matches(msg, m.keys.editTask):
		m.app.StartEditing()
		return m, nil
	case key.Matches(msg, m.keys.viewTask):
		m.app.StartViewing()
		return m, nil
	case key.Matches(msg, m.keys.cyclePriority):
		m.app.CyclePriority()
		return m, nil
	case key.Matches(msg, m.keys.editDescription):
		m.app.StartEditingDescription()
		return m, nil
	case key.Matches(msg, m.keys.addTag):
		m.app.StartAddingTag()
		return m, nil
	case key.Matches(msg, m.keys.deleteTask):
		m.app.DeleteSelectedTask()
		return m, nil
	case key.Matches(msg, m.keys.selectBoard):
		m.app.StartBoardSelection()
		return m, nil
	case key.Matches(msg, m.keys.newBoard):
		m.app.StartCreatingBoard()
		return m, nil
	case key.Matches(msg, m.keys.yankTitle):
		if task, ok := m.app.SelectedTask(); ok {
			if err := clipboard.WriteAll(task.Title); err != nil {
				m.status = "clipboard unavailable"
			} else {
				m.status = "title copied"
			}
		}
		return m, nil
	default:
		return m, nil
	}
}

func (m Model) handleViewingKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "i", "enter":
		m.app.StopViewing()
	}
	return m, nil
}

func (m Model) handleBoardSelectKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.app.CancelBoardSelection()
	case "j", "down":
		m.app.NextBoardInList()
	case "k", "up":
		m.app.PreviousBoardInList()
	case "enter":
		m.app.SwitchToSelectedBoard()
	case "d":
		m.app.DeleteSelectedBoard()
	case "n", "B":
		m.app.CancelBoardSelection()
		m.app.StartCreatingBoard()
	}
	return m, nil
}

func (m Model) handleTextEntryKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.cancelTextEntry()
		return m, nil
	case "enter":
		m.commitTextEntry()
		return m, nil
	case "backspace":
		m.app.HandleBackspace()
		return m, nil
	default:
		if msg.Text != "" {
			m.app.HandleTextInput(msg.Text)
		}
		return m, nil
	}
}

func (m Model) commitTextEntry() {
	switch m.app.Mode() {
	case app.ModeCreating:
		m.app.CreateTask()
	case app.ModeEditing:
		m.app.SaveEdit()
	case app.ModeEditingDescription:
		m.app.SaveDescription()
	case app.ModeAddingTag:
		m.app.AddTag()
	case app.ModeCreatingBoard:
		m.app.CreateNewBoard()
	}
}

func (m Model) cancelTextEntry() {
	switch m.app.Mode() {
	case app.ModeCreating:
		m.app.CancelCreating()
	case app.ModeEditing:
		m.app.CancelEditing()
	case app.ModeEditingDescription:
		m.app.CancelEditingDescription()
	case app.ModeAddingTag:
		m.app.CancelAddingTag()
	case app.ModeCreatingBoard:
		m.app.CancelCreatingBoard()
	}
}
