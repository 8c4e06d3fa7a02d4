package domain

import "slices"

// Column represents a named ordered list of tasks.
type Column struct {
	Name  string `json:"name"`
	Tasks []Task `json:"tasks"`
}

// NewColumn constructs an empty column.
func NewColumn(name string) Column {
	return Column{Name: name, Tasks: []Task{}}
}

// AddTask appends a task to the end of the column.
func (c *Column) AddTask(task Task) {
	c.Tasks = append(c.Tasks, task)
}

// RemoveTask removes the task with the given id and returns it. The second
// return value is false when the id is not in this column.
func (c *Column) RemoveTask(id uint64) (Task, bool) {
	idx := slices.IndexFunc(c.Tasks, func(t Task) bool { return t.ID == id })
	if idx < 0 {
		return Task{}, false
	}
	task := c.Tasks[idx]
	c.Tasks = slices.Delete(c.Tasks, idx, idx+1)
	return task, true
}

// FindTask returns the task with the given id without removing it.
func (c *Column) FindTask(id uint64) (Task, bool) {
	idx := slices.IndexFunc(c.Tasks, func(t Task) bool { return t.ID == id })
	if idx < 0 {
		return Task{}, false
	}
	return c.Tasks[idx], true
}
