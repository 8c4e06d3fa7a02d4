package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestNewBoardDefaultColumns(t *testing.T) {
	board := NewBoard("work")
	if board.Name != "work" {
		t.Fatalf("name = %q", board.Name)
	}
	if len(board.Columns) != 3 {
		t.Fatalf("columns = %d, want 3", len(board.Columns))
	}
	want := []string{"To Do", "In Progress", "Done"}
	for i, name := range want {
		if board.Columns[i].Name != name {
			t.Fatalf("column %d = %q, want %q", i, board.Columns[i].Name, name)
		}
	}
	if board.NextTaskID != 1 {
		t.Fatalf("next_task_id = %d, want 1", board.NextTaskID)
	}
}

func TestNewBoardWithColumns(t *testing.T) {
	board := NewBoardWithColumns("w", []string{"Backlog", "Doing"})
	if len(board.Columns) != 2 || board.Columns[0].Name != "Backlog" {
		t.Fatalf("columns = %+v", board.Columns)
	}
	fallback := NewBoardWithColumns("w", nil)
	if len(fallback.Columns) != 3 {
		t.Fatalf("empty column list should fall back to defaults, got %d", len(fallback.Columns))
	}
}

func TestAddTaskAssignsMonotonicIDs(t *testing.T) {
	board := NewBoard("w")
	for want := uint64(1); want <= 3; want++ {
		id, err := board.AddTask(0, "task", testNow)
		if err != nil {
			t.Fatalf("add: %v", err)
		}
		if id != want {
			t.Fatalf("id = %d, want %d", id, want)
		}
	}
}

func TestTaskIDsNeverReused(t *testing.T) {
	board := NewBoard("w")
	board.AddTask(0, "a", testNow)
	id2, _ := board.AddTask(0, "b", testNow)
	board.AddTask(0, "c", testNow)
	if _, err := board.RemoveTask(0, id2); err != nil {
		t.Fatalf("remove: %v", err)
	}
	id4, err := board.AddTask(0, "d", testNow)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if id4 != 4 {
		t.Fatalf("id after delete = %d, want 4", id4)
	}
}

func TestAddTaskOutOfRangeColumn(t *testing.T) {
	board := NewBoard("w")
	if _, err := board.AddTask(3, "x", testNow); !errors.Is(err, ErrColumnIndexOutOfBounds) {
		t.Fatalf("err = %v, want ErrColumnIndexOutOfBounds", err)
	}
	if _, err := board.AddTask(-1, "x", testNow); !errors.Is(err, ErrColumnIndexOutOfBounds) {
		t.Fatalf("err = %v, want ErrColumnIndexOutOfBounds", err)
	}
	if board.NextTaskID != 1 {
		t.Fatalf("failed add consumed an id, next = %d", board.NextTaskID)
	}
}

func TestMoveTaskAppendsToDestination(t *testing.T) {
	board := NewBoard("w")
	id1, _ := board.AddTask(0, "first", testNow)
	board.AddTask(1, "already there", testNow)
	if err := board.MoveTask(0, 1, id1); err != nil {
		t.Fatalf("move: %v", err)
	}
	if len(board.Columns[0].Tasks) != 0 {
		t.Fatalf("source still has %d tasks", len(board.Columns[0].Tasks))
	}
	dest := board.Columns[1].Tasks
	if len(dest) != 2 || dest[1].ID != id1 {
		t.Fatalf("destination = %+v, moved task should be last", dest)
	}

	if err := board.MoveTask(1, 0, id1); err != nil {
		t.Fatalf("move back: %v", err)
	}
	if len(board.Columns[1].Tasks) != 1 {
		t.Fatalf("destination still has %d tasks", len(board.Columns[1].Tasks))
	}
	back := board.Columns[0].Tasks
	if len(back) != 1 || back[0].ID != id1 {
		t.Fatalf("source after round trip = %+v", back)
	}
}

func TestMoveTaskSameColumnMovesToEnd(t *testing.T) {
	board := NewBoard("w")
	id1, _ := board.AddTask(0, "a", testNow)
	board.AddTask(0, "b", testNow)
	if err := board.MoveTask(0, 0, id1); err != nil {
		t.Fatalf("move: %v", err)
	}
	tasks := board.Columns[0].Tasks
	if len(tasks) != 2 || tasks[1].ID != id1 {
		t.Fatalf("tasks = %+v, want moved task at the end", tasks)
	}
}

func TestMoveTaskErrorsLeaveBoardUnchanged(t *testing.T) {
	board := NewBoard("w")
	id1, _ := board.AddTask(0, "a", testNow)

	if err := board.MoveTask(0, 9, id1); !errors.Is(err, ErrColumnIndexOutOfBounds) {
		t.Fatalf("err = %v, want ErrColumnIndexOutOfBounds", err)
	}
	if len(board.Columns[0].Tasks) != 1 {
		t.Fatalf("failed move mutated the board")
	}
	if err := board.MoveTask(0, 1, 42); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("err = %v, want ErrTaskNotFound", err)
	}
	if len(board.Columns[0].Tasks) != 1 || len(board.Columns[1].Tasks) != 0 {
		t.Fatalf("failed move mutated the board")
	}
}

func TestBoardTaskMutators(t *testing.T) {
	board := NewBoard("w")
	id, _ := board.AddTask(0, "a", testNow)

	if err := board.UpdateTaskTitle(0, id, "renamed", testNow); err != nil {
		t.Fatalf("title: %v", err)
	}
	if err := board.UpdateTaskDescription(0, id, "notes", testNow); err != nil {
		t.Fatalf("description: %v", err)
	}
	if err := board.CycleTaskPriority(0, id, testNow); err != nil {
		t.Fatalf("priority: %v", err)
	}
	if err := board.AddTaskTag(0, id, "urgent", testNow); err != nil {
		t.Fatalf("tag: %v", err)
	}
	due := "2025-07-01 00:00:00"
	if err := board.SetTaskDueDate(0, id, &due, testNow); err != nil {
		t.Fatalf("due: %v", err)
	}

	if err := board.AddTaskTag(0, id, "later", testNow); err != nil {
		t.Fatalf("tag: %v", err)
	}
	if err := board.RemoveTaskTag(0, id, "later", testNow); err != nil {
		t.Fatalf("untag: %v", err)
	}

	task, col, ok := board.GetTask(id)
	if !ok || col != 0 {
		t.Fatalf("GetTask = %v %d %v", task, col, ok)
	}
	if task.Title != "renamed" || *task.Description != "notes" ||
		task.Priority != PriorityLow || task.Tags[0] != "urgent" || *task.DueDate != due {
		t.Fatalf("task = %+v", task)
	}

	if err := board.UpdateTaskTitle(0, 99, "x", testNow); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("err = %v, want ErrTaskNotFound", err)
	}
	if err := board.UpdateTaskTitle(5, id, "x", testNow); !errors.Is(err, ErrColumnIndexOutOfBounds) {
		t.Fatalf("err = %v, want ErrColumnIndexOutOfBounds", err)
	}
}

func TestTaskCountOnBoardValue(t *testing.T) {
	board := NewBoard("w")
	board.AddTask(0, "a", testNow)
	board.AddTask(1, "b", testNow)
	copied := func() Board { return board }
	if copied().TaskCount() != 2 {
		t.Fatalf("count = %d", copied().TaskCount())
	}
}

func TestGetTaskSearchesAllColumns(t *testing.T) {
	board := NewBoard("w")
	board.AddTask(0, "a", testNow)
	id, _ := board.AddTask(2, "b", testNow)
	task, col, ok := board.GetTask(id)
	if !ok || col != 2 || task.Title != "b" {
		t.Fatalf("GetTask = %+v col=%d ok=%v", task, col, ok)
	}
	if _, _, ok := board.GetTask(999); ok {
		t.Fatalf("found a task that does not exist")
	}
}

func TestNormalizeBackfillsLegacyFields(t *testing.T) {
	raw := `{
		"name": "old",
		"columns": [
			{"name": "To Do", "tasks": [
				{"id": 5, "title": "legacy", "description": null, "priority": "", "created_at": "", "updated_at": "", "due_date": null}
			]}
		],
		"next_task_id": 0
	}`
	var board Board
	if err := json.Unmarshal([]byte(raw), &board); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	board.Normalize(testNow)

	task := board.Columns[0].Tasks[0]
	if task.Priority != PriorityNone {
		t.Fatalf("priority = %q, want None", task.Priority)
	}
	if task.Tags == nil || len(task.Tags) != 0 {
		t.Fatalf("tags = %v, want empty slice", task.Tags)
	}
	if task.CreatedAt == "" || task.UpdatedAt == "" {
		t.Fatalf("timestamps not backfilled: %+v", task)
	}
	if board.NextTaskID != 6 {
		t.Fatalf("next_task_id = %d, want 6 (max id + 1)", board.NextTaskID)
	}
}

func TestBoardJSONRoundTrip(t *testing.T) {
	board := NewBoard("w")
	id, _ := board.AddTask(0, "a", testNow)
	board.UpdateTaskDescription(0, id, "body", testNow)
	board.AddTaskTag(0, id, "t1", testNow)

	data, err := json.Marshal(board)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded Board
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Name != board.Name || decoded.NextTaskID != board.NextTaskID {
		t.Fatalf("decoded = %+v", decoded)
	}
	got, _, ok := decoded.GetTask(id)
	if !ok || got.Title != "a" || *got.Description != "body" || got.Tags[0] != "t1" {
		t.Fatalf("decoded task = %+v", got)
	}
}
