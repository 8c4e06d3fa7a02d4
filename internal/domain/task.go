package domain

import (
	"slices"
	"time"
)

// Priority represents a selectable task priority level.
type Priority string

// PriorityHigh and related constants define the priority scale, ordered
// High > Medium > Low > None.
const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
	PriorityNone   Priority = "None"
)

var validPriorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow, PriorityNone}

// Next returns the following priority in the None → Low → Medium → High → None cycle.
func (p Priority) Next() Priority {
	switch p {
	case PriorityNone:
		return PriorityLow
	case PriorityLow:
		return PriorityMedium
	case PriorityMedium:
		return PriorityHigh
	default:
		return PriorityNone
	}
}

// Symbol returns the compact display marker for card rendering.
func (p Priority) Symbol() string {
	switch p {
	case PriorityHigh:
		return "!!"
	case PriorityMedium:
		return "!"
	case PriorityLow:
		return "·"
	default:
		return ""
	}
}

// timeLayout matches the persisted timestamp format.
const timeLayout = "2006-01-02 15:04:05"

// Timestamp formats a point in time the way board files store it.
func Timestamp(now time.Time) string {
	return now.Format(timeLayout)
}

// Task represents one work item on a board.
//
// The ID is assigned by the owning Board and is unique across the whole
// board, never reused. Titles and due dates are caller-supplied and not
// validated; tags are kept unique in insertion order.
type Task struct {
	ID          uint64   `json:"id"`
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	Priority    Priority `json:"priority"`
	Tags        []string `json:"tags"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
	DueDate     *string  `json:"due_date"`
}

// NewTask constructs a task with default metadata and both timestamps set to now.
func NewTask(id uint64, title string, now time.Time) Task {
	return Task{
		ID:        id,
		Title:     title,
		Priority:  PriorityNone,
		Tags:      []string{},
		CreatedAt: Timestamp(now),
		UpdatedAt: Timestamp(now),
	}
}

// NewTaskWithDescription constructs a task that starts with a description.
func NewTaskWithDescription(id uint64, title, description string, now time.Time) Task {
	task := NewTask(id, title, now)
	task.Description = &description
	return task
}

// SetDescription replaces the description; an empty string clears it.
func (t *Task) SetDescription(description string, now time.Time) {
	if description == "" {
		t.Description = nil
	} else {
		t.Description = &description
	}
	t.touch(now)
}

// SetPriority sets the priority level.
func (t *Task) SetPriority(priority Priority, now time.Time) {
	t.Priority = priority
	t.touch(now)
}

// CyclePriority advances the priority one step along the 4-cycle.
func (t *Task) CyclePriority(now time.Time) {
	t.Priority = t.Priority.Next()
	t.touch(now)
}

// AddTag appends a tag unless it is empty or already present. Comparison is
// exact and case-sensitive.
func (t *Task) AddTag(tag string, now time.Time) {
	if tag == "" || slices.Contains(t.Tags, tag) {
		return
	}
	t.Tags = append(t.Tags, tag)
	t.touch(now)
}

// RemoveTag drops a tag, preserving the order of the remaining ones.
func (t *Task) RemoveTag(tag string, now time.Time) {
	idx := slices.Index(t.Tags, tag)
	if idx < 0 {
		return
	}
	t.Tags = slices.Delete(t.Tags, idx, idx+1)
	t.touch(now)
}

// SetDueDate stores a caller-formatted due date; nil clears it.
func (t *Task) SetDueDate(dueDate *string, now time.Time) {
	t.DueDate = dueDate
	t.touch(now)
}

// UpdateTitle replaces the title.
func (t *Task) UpdateTitle(title string, now time.Time) {
	t.Title = title
	t.touch(now)
}

// touch refreshes the updated_at timestamp.
func (t *Task) touch(now time.Time) {
	t.UpdatedAt = Timestamp(now)
}

// normalize backfills fields that older board files omit.
func (t *Task) normalize(now time.Time) {
	if !slices.Contains(validPriorities, t.Priority) {
		t.Priority = PriorityNone
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	if t.CreatedAt == "" {
		t.CreatedAt = Timestamp(now)
	}
	if t.UpdatedAt == "" {
		t.UpdatedAt = Timestamp(now)
	}
}
