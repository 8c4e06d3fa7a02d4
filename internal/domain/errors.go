package domain

import "errors"

// ErrColumnIndexOutOfBounds reports a column index outside the board's columns.
var ErrColumnIndexOutOfBounds = errors.New("column index out of bounds")

// ErrTaskNotFound reports a task id missing from the column searched.
var ErrTaskNotFound = errors.New("task not found")
