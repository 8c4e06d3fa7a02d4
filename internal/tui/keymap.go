package tui

import "charm.land/bubbles/v2/key"

// keyMap represents key map data used by this package.
type keyMap struct {
	quit            key.Binding
	toggleHelp      key.Binding
	columnLeft      key.Binding
	columnRight     key.Binding
	taskUp          key.Binding
	taskDown        key.Binding
	newTask         key.Binding
	editTask        key.Binding
	viewTask        key.Binding
	cyclePriority   key.Binding
	editDescription key.Binding
	addTag          key.Binding
	deleteTask      key.Binding
	moveTaskLeft    key.Binding
	moveTaskRight   key.Binding
	selectBoard     key.Binding
	newBoard        key.Binding
	yankTitle       key.Binding
}

// newKeyMap constructs key map.
func newKeyMap() keyMap {
	return keyMap{
		quit:            key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		toggleHelp:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		columnLeft:      key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "column left")),
		columnRight:     key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "column right")),
		taskUp:          key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "task up")),
		taskDown:        key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "task down")),
		newTask:         key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new task")),
		editTask:        key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit title")),
		viewTask:        key.NewBinding(key.WithKeys("i", "enter"), key.WithHelp("i/enter", "task details")),
		cyclePriority:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "cycle priority")),
		editDescription: key.NewBinding(key.WithKeys("D", "shift+d"), key.WithHelp("D", "edit description")),
		addTag:          key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "add tag")),
		deleteTask:      key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete task")),
		moveTaskLeft:    key.NewBinding(key.WithKeys("H", "shift+h"), key.WithHelp("H", "move task left")),
		moveTaskRight:   key.NewBinding(key.WithKeys("L", "shift+l"), key.WithHelp("L", "move task right")),
		selectBoard:     key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "switch board")),
		newBoard:        key.NewBinding(key.WithKeys("B", "shift+b"), key.WithHelp("B", "new board")),
		yankTitle:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yank title")),
	}
}

// ShortHelp handles short help.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.newTask, k.viewTask, k.editTask, k.deleteTask, k.selectBoard, k.toggleHelp, k.quit,
	}
}

// FullHelp handles full help.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.newTask, k.viewTask, k.editTask, k.editDescription, k.cyclePriority, k.addTag, k.yankTitle, k.deleteTask},
		{k.columnLeft, k.columnRight, k.taskUp, k.taskDown, k.moveTaskLeft, k.moveTaskRight},
		{k.selectBoard, k.newBoard, k.toggleHelp, k.quit},
	}
}
