// Package app holds the application state machine driving the board UI:
// the loaded board, the cursor position, and the current input mode.
package app

import (
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/ahlgren/tavla/internal/domain"
	"github.com/ahlgren/tavla/internal/storage"
)

// InputMode identifies which keyboard mode the application is in.
type InputMode int

const (
	// ModeNormal is the default navigation mode.
	ModeNormal InputMode = iota
	// ModeCreating collects a title for a new task.
	ModeCreating
	// ModeEditing collects a replacement title for the selected task.
	ModeEditing
	// ModeViewing shows the selected task's details read-only.
	ModeViewing
	// ModeEditingDescription collects a description for the selected task.
	ModeEditingDescription
	// ModeAddingTag collects a tag for the selected task.
	ModeAddingTag
	// ModeSelectingBoard shows the board switcher list.
	ModeSelectingBoard
	// ModeCreatingBoard collects a name for a new board.
	ModeCreatingBoard
)

// String returns a short mode label for logs and the status line.
func (m InputMode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeCreating:
		return "creating"
	case ModeEditing:
		return "editing"
	case ModeViewing:
		return "viewing"
	case ModeEditingDescription:
		return "editing-description"
	case ModeAddingTag:
		return "adding-tag"
	case ModeSelectingBoard:
		return "selecting-board"
	case ModeCreatingBoard:
		return "creating-board"
	default:
		return "unknown"
	}
}

// textEntry reports whether the mode consumes typed characters.
func (m InputMode) textEntry() bool {
	switch m {
	case ModeCreating, ModeEditing, ModeEditingDescription, ModeAddingTag, ModeCreatingBoard:
		return true
	default:
		return false
	}
}

// Clock supplies the current time; tests substitute a fixed one.
type Clock func() time.Time

// Defaults carries the configured shape of boards created from scratch.
// Zero values fall back to the built-in board name and column set.
type Defaults struct {
	BoardName string
	Columns   []string
}

// App coordinates one loaded board, the selection cursor, and the input
// mode state machine. It is single-threaded: the UI event loop is the only
// caller.
type App struct {
	store    *storage.Store
	logger   *log.Logger
	clock    Clock
	defaults Defaults

	board     domain.Board
	boardName string

	selectedColumn int
	selectedTask   int // -1 when the selected column is empty
	mode           InputMode
	inputBuffer    string
	editingTaskID  uint64 // 0 when no edit is in flight

	availableBoards    []string
	selectedBoardIndex int
}

// New loads the active board from the store and positions the cursor on
// the first task of the first column. Boards created from scratch take
// their name and columns from defaults.
func New(store *storage.Store, logger *log.Logger, clock Clock, defaults Defaults) (*App, error) {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if defaults.BoardName == "" {
		defaults.BoardName = storage.DefaultBoardName
	}
	a := &App{
		store:              store,
		logger:             logger,
		clock:              clock,
		defaults:           defaults,
		selectedTask:       -1,
		selectedBoardIndex: -1,
	}

	name, err := store.ActiveBoardName()
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = defaults.BoardName
	}
	a.loadOrCreate(name)
	return a, nil
}

// loadOrCreate loads a board by name, creating and persisting a fresh one
// when it does not exist yet. Storage failures never abort: an unreadable
// board file falls back to a fresh board with the file left alone until
// the next save, and a failed first save keeps the in-memory board.
func (a *App) loadOrCreate(name string) {
	board, err := a.store.LoadBoard(name, a.clock())
	if err != nil {
		if !a.store.BoardExists(name) {
			board = domain.NewBoardWithColumns(name, a.defaults.Columns)
			if saveErr := a.store.SaveBoard(name, board); saveErr != nil {
				a.logger.Error("save board", "board", name, "err", saveErr)
			}
		} else {
			a.logger.Error("load board", "board", name, "err", err)
			board = domain.NewBoardWithColumns(name, a.defaults.Columns)
		}
	}
	a.board = board
	a.boardName = name
	a.selectedColumn = 0
	a.updateTaskSelection()
}

// Save persists the current board. Failures are logged and swallowed so a
// transient write error never kills the session.
func (a *App) Save() {
	if err := a.store.SaveBoard(a.boardName, a.board); err != nil {
		a.logger.Error("save board", "board", a.boardName, "err", err)
	}
}

// Board returns the loaded board.
func (a *App) Board() domain.Board {
	return a.board
}

// BoardName returns the active board's name.
func (a *App) BoardName() string {
	return a.boardName
}

// Mode returns the current input mode.
func (a *App) Mode() InputMode {
	return a.mode
}

// InputBuffer returns the text typed so far in a text-entry mode.
func (a *App) InputBuffer() string {
	return a.inputBuffer
}

// SelectedColumn returns the index of the focused column.
func (a *App) SelectedColumn() int {
	return a.selectedColumn
}

// SelectedTaskIndex returns the focused task's index within its column,
// false when the column is empty.
func (a *App) SelectedTaskIndex() (int, bool) {
	if a.selectedTask < 0 {
		return 0, false
	}
	return a.selectedTask, true
}

// SelectedTask returns the focused task, false when none is selected.
func (a *App) SelectedTask() (domain.Task, bool) {
	idx, ok := a.SelectedTaskIndex()
	if !ok {
		return domain.Task{}, false
	}
	tasks := a.board.Columns[a.selectedColumn].Tasks
	if idx >= len(tasks) {
		return domain.Task{}, false
	}
	return tasks[idx], true
}

// AvailableBoards returns the board names shown by the board switcher.
func (a *App) AvailableBoards() []string {
	return a.availableBoards
}

// SelectedBoardIndex returns the highlighted row in the board switcher,
// false when the list is empty.
func (a *App) SelectedBoardIndex() (int, bool) {
	if a.selectedBoardIndex < 0 {
		return 0, false
	}
	return a.selectedBoardIndex, true
}

// NextColumn focuses the column to the right, wrapping at the edge.
func (a *App) NextColumn() {
	if len(a.board.Columns) == 0 {
		return
	}
	a.selectedColumn = (a.selectedColumn + 1) % len(a.board.Columns)
	a.updateTaskSelection()
}

// PreviousColumn focuses the column to the left, wrapping at the edge.
func (a *App) PreviousColumn() {
	if len(a.board.Columns) == 0 {
		return
	}
	a.selectedColumn = (a.selectedColumn - 1 + len(a.board.Columns)) % len(a.board.Columns)
	a.updateTaskSelection()
}

// NextTask moves the cursor down within the column, wrapping at the end.
func (a *App) NextTask() {
	count := a.selectedColumnTaskCount()
	if count == 0 {
		return
	}
	a.selectedTask = (a.selectedTask + 1) % count
}

// PreviousTask moves the cursor up within the column, wrapping at the top.
func (a *App) PreviousTask() {
	count := a.selectedColumnTaskCount()
	if count == 0 {
		return
	}
	a.selectedTask = (a.selectedTask - 1 + count) % count
}

// MoveTaskLeft moves the selected task one column to the left. At the
// leftmost column it is a no-op.
func (a *App) MoveTaskLeft() {
	a.moveSelectedTask(a.selectedColumn - 1)
}

// MoveTaskRight moves the selected task one column to the right. At the
// rightmost column it is a no-op.
func (a *App) MoveTaskRight() {
	a.moveSelectedTask(a.selectedColumn + 1)
}

func (a *App) moveSelectedTask(target int) {
	task, ok := a.SelectedTask()
	if !ok {
		return
	}
	if target < 0 || target >= len(a.board.Columns) {
		return
	}
	if err := a.board.MoveTask(a.selectedColumn, target, task.ID); err != nil {
		a.logger.Error("move task", "task", task.ID, "err", err)
		return
	}
	a.selectedColumn = target
	a.selectTaskByID(task.ID)
	a.Save()
}

// DeleteSelectedTask removes the focused task and repairs the selection.
func (a *App) DeleteSelectedTask() {
	task, ok := a.SelectedTask()
	if !ok {
		return
	}
	if _, err := a.board.RemoveTask(a.selectedColumn, task.ID); err != nil {
		a.logger.Error("delete task", "task", task.ID, "err", err)
		return
	}
	count := a.selectedColumnTaskCount()
	switch {
	case count == 0:
		a.selectedTask = -1
	case a.selectedTask >= count:
		a.selectedTask = count - 1
	}
	a.Save()
}

// StartCreating enters task-title entry for the focused column.
func (a *App) StartCreating() {
	a.mode = ModeCreating
	a.inputBuffer = ""
}

// CreateTask commits the typed title as a new task. An empty title just
// leaves the mode.
func (a *App) CreateTask() {
	title := a.inputBuffer
	a.mode = ModeNormal
	a.inputBuffer = ""
	if title == "" {
		return
	}
	if _, err := a.board.AddTask(a.selectedColumn, title, a.clock()); err != nil {
		a.logger.Error("create task", "err", err)
		return
	}
	a.selectedTask = a.selectedColumnTaskCount() - 1
	a.Save()
}

// CancelCreating leaves task creation without committing.
func (a *App) CancelCreating() {
	a.mode = ModeNormal
	a.inputBuffer = ""
}

// StartEditing enters title editing for the focused task, prefilled with
// the current title.
func (a *App) StartEditing() {
	task, ok := a.SelectedTask()
	if !ok {
		return
	}
	a.mode = ModeEditing
	a.inputBuffer = task.Title
	a.editingTaskID = task.ID
}

// SaveEdit commits the typed title. An empty title discards the edit.
func (a *App) SaveEdit() {
	title := a.inputBuffer
	taskID := a.editingTaskID
	a.mode = ModeNormal
	a.inputBuffer = ""
	a.editingTaskID = 0
	if title == "" || taskID == 0 {
		return
	}
	if err := a.board.UpdateTaskTitle(a.selectedColumn, taskID, title, a.clock()); err != nil {
		a.logger.Error("edit task", "task", taskID, "err", err)
		return
	}
	a.Save()
}

// CancelEditing leaves title editing without committing.
func (a *App) CancelEditing() {
	a.mode = ModeNormal
	a.inputBuffer = ""
	a.editingTaskID = 0
}

// StartViewing opens the detail view for the focused task.
func (a *App) StartViewing() {
	if _, ok := a.SelectedTask(); !ok {
		return
	}
	a.mode = ModeViewing
}

// StopViewing closes the detail view.
func (a *App) StopViewing() {
	a.mode = ModeNormal
}

// CyclePriority advances the focused task's priority one step and persists.
func (a *App) CyclePriority() {
	task, ok := a.SelectedTask()
	if !ok {
		return
	}
	if err := a.board.CycleTaskPriority(a.selectedColumn, task.ID, a.clock()); err != nil {
		a.logger.Error("cycle priority", "task", task.ID, "err", err)
		return
	}
	a.Save()
}

// StartEditingDescription enters description entry for the focused task,
// prefilled with the existing description.
func (a *App) StartEditingDescription() {
	task, ok := a.SelectedTask()
	if !ok {
		return
	}
	a.mode = ModeEditingDescription
	a.editingTaskID = task.ID
	if task.Description != nil {
		a.inputBuffer = *task.Description
	} else {
		a.inputBuffer = ""
	}
}

// SaveDescription commits the typed description. Unlike titles an empty
// buffer is meaningful: it clears the description.
func (a *App) SaveDescription() {
	description := a.inputBuffer
	taskID := a.editingTaskID
	a.mode = ModeNormal
	a.inputBuffer = ""
	a.editingTaskID = 0
	if taskID == 0 {
		return
	}
	if err := a.board.UpdateTaskDescription(a.selectedColumn, taskID, description, a.clock()); err != nil {
		a.logger.Error("edit description", "task", taskID, "err", err)
		return
	}
	a.Save()
}

// CancelEditingDescription leaves description entry without committing.
func (a *App) CancelEditingDescription() {
	a.mode = ModeNormal
	a.inputBuffer = ""
	a.editingTaskID = 0
}

// StartAddingTag enters tag entry for the focused task.
func (a *App) StartAddingTag() {
	task, ok := a.SelectedTask()
	if !ok {
		return
	}
	a.mode = ModeAddingTag
	a.inputBuffer = ""
	a.editingTaskID = task.ID
}

// AddTag commits the typed tag. Empty tags are dropped.
func (a *App) AddTag() {
	tag := a.inputBuffer
	taskID := a.editingTaskID
	a.mode = ModeNormal
	a.inputBuffer = ""
	a.editingTaskID = 0
	if tag == "" || taskID == 0 {
		return
	}
	if err := a.board.AddTaskTag(a.selectedColumn, taskID, tag, a.clock()); err != nil {
		a.logger.Error("add tag", "task", taskID, "err", err)
		return
	}
	a.Save()
}

// CancelAddingTag leaves tag entry without committing.
func (a *App) CancelAddingTag() {
	a.mode = ModeNormal
	a.inputBuffer = ""
	a.editingTaskID = 0
}

// StartBoardSelection opens the board switcher, refreshing the board list.
func (a *App) StartBoardSelection() {
	boards, err := a.store.ListBoards()
	if err != nil {
		a.logger.Error("list boards", "err", err)
		return
	}
	if len(boards) == 0 {
		boards = []string{a.boardName}
	}
	a.availableBoards = boards
	a.selectedBoardIndex = 0
	for i, name := range boards {
		if name == a.boardName {
			a.selectedBoardIndex = i
			break
		}
	}
	a.mode = ModeSelectingBoard
}

// CancelBoardSelection closes the board switcher.
func (a *App) CancelBoardSelection() {
	a.mode = ModeNormal
	a.availableBoards = nil
	a.selectedBoardIndex = -1
}

// NextBoardInList highlights the next row, wrapping.
func (a *App) NextBoardInList() {
	if len(a.availableBoards) == 0 {
		return
	}
	a.selectedBoardIndex = (a.selectedBoardIndex + 1) % len(a.availableBoards)
}

// PreviousBoardInList highlights the previous row, wrapping.
func (a *App) PreviousBoardInList() {
	if len(a.availableBoards) == 0 {
		return
	}
	a.selectedBoardIndex = (a.selectedBoardIndex - 1 + len(a.availableBoards)) % len(a.availableBoards)
}

// SwitchToSelectedBoard loads the highlighted board and closes the switcher.
func (a *App) SwitchToSelectedBoard() {
	idx, ok := a.SelectedBoardIndex()
	if !ok || idx >= len(a.availableBoards) {
		return
	}
	name := a.availableBoards[idx]
	a.CancelBoardSelection()
	a.switchBoard(name)
}

// StartCreatingBoard enters board-name entry.
func (a *App) StartCreatingBoard() {
	a.mode = ModeCreatingBoard
	a.inputBuffer = ""
}

// CreateNewBoard commits the typed name as a new (or existing) board and
// switches to it. An empty name just leaves the mode.
func (a *App) CreateNewBoard() {
	name := strings.TrimSpace(a.inputBuffer)
	a.mode = ModeNormal
	a.inputBuffer = ""
	a.availableBoards = nil
	a.selectedBoardIndex = -1
	if name == "" {
		return
	}
	a.switchBoard(name)
}

// CancelCreatingBoard leaves board-name entry without committing.
func (a *App) CancelCreatingBoard() {
	a.mode = ModeNormal
	a.inputBuffer = ""
}

// DeleteSelectedBoard removes the highlighted board. The last remaining
// board cannot be deleted. Deleting the current board switches to the one
// the store reassigns as active.
func (a *App) DeleteSelectedBoard() {
	idx, ok := a.SelectedBoardIndex()
	if !ok || idx >= len(a.availableBoards) {
		return
	}
	if len(a.availableBoards) <= 1 {
		return
	}
	name := a.availableBoards[idx]
	if err := a.store.DeleteBoard(name); err != nil {
		a.logger.Error("delete board", "board", name, "err", err)
		return
	}

	if name == a.boardName {
		active, err := a.store.ActiveBoardName()
		if err != nil {
			a.logger.Error("active board", "err", err)
		}
		if active == "" {
			active = a.defaults.BoardName
		}
		a.loadOrCreate(active)
	}

	boards, err := a.store.ListBoards()
	if err != nil {
		a.logger.Error("list boards", "err", err)
		boards = []string{a.boardName}
	}
	a.availableBoards = boards
	if a.selectedBoardIndex >= len(boards) {
		a.selectedBoardIndex = len(boards) - 1
	}
}

// switchBoard saves the current board, loads (or creates) the named one,
// and records it as active. Switching to the current board reloads it
// from disk.
func (a *App) switchBoard(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	a.Save()
	a.loadOrCreate(name)
	if err := a.store.SetActiveBoardName(name); err != nil {
		a.logger.Error("set active board", "board", name, "err", err)
	}
}

// HandleTextInput appends typed text to the buffer in text-entry modes.
func (a *App) HandleTextInput(text string) {
	if !a.mode.textEntry() || text == "" {
		return
	}
	a.inputBuffer += text
}

// HandleBackspace removes the last rune from the buffer.
func (a *App) HandleBackspace() {
	if !a.mode.textEntry() || a.inputBuffer == "" {
		return
	}
	_, size := utf8.DecodeLastRuneInString(a.inputBuffer)
	a.inputBuffer = a.inputBuffer[:len(a.inputBuffer)-size]
}

// updateTaskSelection snaps the cursor to the first task of the focused
// column, or clears it when the column is empty.
func (a *App) updateTaskSelection() {
	if a.selectedColumnTaskCount() == 0 {
		a.selectedTask = -1
		return
	}
	a.selectedTask = 0
}

// selectTaskByID points the cursor at a task in the focused column.
func (a *App) selectTaskByID(id uint64) {
	tasks := a.board.Columns[a.selectedColumn].Tasks
	for i := range tasks {
		if tasks[i].ID == id {
			a.selectedTask = i
			return
		}
	}
	a.updateTaskSelection()
}

func (a *App) selectedColumnTaskCount() int {
	if a.selectedColumn < 0 || a.selectedColumn >= len(a.board.Columns) {
		return 0
	}
	return len(a.board.Columns[a.selectedColumn].Tasks)
}
