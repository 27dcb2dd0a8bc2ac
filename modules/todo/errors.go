package todo

import "errors"

// Sentinel errors for list and task operations.
var (
	// ErrListNotFound is returned when no list matches the ID or shortlink.
	ErrListNotFound = errors.New("list not found")

	// ErrTaskNotFound is returned when no task matches the ID.
	ErrTaskNotFound = errors.New("task not found")

	// ErrNotListOwner is returned when a caller tries to delete a list
	// claimed by a different account.
	ErrNotListOwner = errors.New("not the list owner")
)
