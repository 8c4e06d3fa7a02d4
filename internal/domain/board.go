package domain

import (
	"fmt"
	"time"
)

var defaultColumnNames = []string{"To Do", "In Progress", "Done"}

// Board represents a named kanban board: an ordered list of columns plus the
// id counter used for new tasks. NextTaskID only ever grows, so task ids are
// never reused within a board even after deletions.
type Board struct {
	Name       string   `json:"name"`
	Columns    []Column `json:"columns"`
	NextTaskID uint64   `json:"next_task_id"`
}

// NewBoard constructs a board with the standard To Do / In Progress / Done columns.
func NewBoard(name string) Board {
	return NewBoardWithColumns(name, defaultColumnNames)
}

// NewBoardWithColumns constructs a board with the given column names. An empty
// list falls back to the standard columns.
func NewBoardWithColumns(name string, columnNames []string) Board {
	if len(columnNames) == 0 {
		columnNames = defaultColumnNames
	}
	columns := make([]Column, 0, len(columnNames))
	for _, columnName := range columnNames {
		columns = append(columns, NewColumn(columnName))
	}
	return Board{Name: name, Columns: columns, NextTaskID: 1}
}

// AddTask creates a task with the next fresh id at the end of the given
// column and returns the assigned id.
func (b *Board) AddTask(columnIndex int, title string, now time.Time) (uint64, error) {
	if err := b.checkColumn(columnIndex); err != nil {
		return 0, err
	}
	id := b.NextTaskID
	b.NextTaskID++
	b.Columns[columnIndex].AddTask(NewTask(id, title, now))
	return id, nil
}

// MoveTask moves a task between columns, appending it to the end of the
// destination. Moving within the same column re-appends the task at the end.
// Both indexes are validated before any mutation.
func (b *Board) MoveTask(fromIndex, toIndex int, taskID uint64) error {
	if err := b.checkColumn(fromIndex); err != nil {
		return err
	}
	if err := b.checkColumn(toIndex); err != nil {
		return err
	}
	task, ok := b.Columns[fromIndex].RemoveTask(taskID)
	if !ok {
		return fmt.Errorf("move task %d: %w", taskID, ErrTaskNotFound)
	}
	b.Columns[toIndex].AddTask(task)
	return nil
}

// UpdateTaskTitle renames a task in the given column.
func (b *Board) UpdateTaskTitle(columnIndex int, taskID uint64, title string, now time.Time) error {
	return b.mutateTask(columnIndex, taskID, func(t *Task) { t.UpdateTitle(title, now) })
}

// UpdateTaskDescription replaces a task's description; empty clears it.
func (b *Board) UpdateTaskDescription(columnIndex int, taskID uint64, description string, now time.Time) error {
	return b.mutateTask(columnIndex, taskID, func(t *Task) { t.SetDescription(description, now) })
}

// CycleTaskPriority advances a task's priority one step.
func (b *Board) CycleTaskPriority(columnIndex int, taskID uint64, now time.Time) error {
	return b.mutateTask(columnIndex, taskID, func(t *Task) { t.CyclePriority(now) })
}

// AddTaskTag adds a tag to a task in the given column.
func (b *Board) AddTaskTag(columnIndex int, taskID uint64, tag string, now time.Time) error {
	return b.mutateTask(columnIndex, taskID, func(t *Task) { t.AddTag(tag, now) })
}

// RemoveTaskTag removes a tag from a task in the given column.
func (b *Board) RemoveTaskTag(columnIndex int, taskID uint64, tag string, now time.Time) error {
	return b.mutateTask(columnIndex, taskID, func(t *Task) { t.RemoveTag(tag, now) })
}

// SetTaskDueDate sets or clears a task's due date.
func (b *Board) SetTaskDueDate(columnIndex int, taskID uint64, dueDate *string, now time.Time) error {
	return b.mutateTask(columnIndex, taskID, func(t *Task) { t.SetDueDate(dueDate, now) })
}

// RemoveTask removes a task from the given column and returns it.
func (b *Board) RemoveTask(columnIndex int, taskID uint64) (Task, error) {
	if err := b.checkColumn(columnIndex); err != nil {
		return Task{}, err
	}
	task, ok := b.Columns[columnIndex].RemoveTask(taskID)
	if !ok {
		return Task{}, fmt.Errorf("remove task %d: %w", taskID, ErrTaskNotFound)
	}
	return task, nil
}

// GetTask searches every column for a task id and returns the task along with
// the index of the column holding it.
func (b *Board) GetTask(taskID uint64) (Task, int, bool) {
	for i := range b.Columns {
		if task, ok := b.Columns[i].FindTask(taskID); ok {
			return task, i, true
		}
	}
	return Task{}, 0, false
}

// TaskCount returns the number of tasks across all columns.
func (b Board) TaskCount() int {
	total := 0
	for i := range b.Columns {
		total += len(b.Columns[i].Tasks)
	}
	return total
}

// Normalize backfills fields that files written by older versions omit and
// repairs an id counter that lags behind the tasks on the board.
func (b *Board) Normalize(now time.Time) {
	if b.Columns == nil {
		b.Columns = []Column{}
	}
	maxID := uint64(0)
	for i := range b.Columns {
		column := &b.Columns[i]
		if column.Tasks == nil {
			column.Tasks = []Task{}
		}
		for j := range column.Tasks {
			column.Tasks[j].normalize(now)
			if column.Tasks[j].ID > maxID {
				maxID = column.Tasks[j].ID
			}
		}
	}
	if b.NextTaskID <= maxID {
		b.NextTaskID = maxID + 1
	}
	if b.NextTaskID == 0 {
		b.NextTaskID = 1
	}
}

// mutateTask applies fn to the task with the given id in the given column.
func (b *Board) mutateTask(columnIndex int, taskID uint64, fn func(*Task)) error {
	if err := b.checkColumn(columnIndex); err != nil {
		return err
	}
	tasks := b.Columns[columnIndex].Tasks
	for i := range tasks {
		if tasks[i].ID == taskID {
			fn(&tasks[i])
			return nil
		}
	}
	return fmt.Errorf("task %d in column %d: %w", taskID, columnIndex, ErrTaskNotFound)
}

// checkColumn validates a column index.
func (b *Board) checkColumn(columnIndex int) error {
	if columnIndex < 0 || columnIndex >= len(b.Columns) {
		return fmt.Errorf("column %d of %d: %w", columnIndex, len(b.Columns), ErrColumnIndexOutOfBounds)
	}
	return nil
}
