package todo

import (
	"errors"
	"time"
)

const (
	// dueDateInputLayout is the DD-MM-YYYY format submitted by the form.
	dueDateInputLayout = "02-01-2006"
	// dueDateStoredLayout is the YYYY-MM-DD form the date is stored in,
	// which sorts lexicographically by day.
	dueDateStoredLayout = "2006-01-02"
)

// ErrInvalidDate is returned when a due date input cannot be parsed.
var ErrInvalidDate = errors.New("invalid due date")

// NormalizeDueDate converts a DD-MM-YYYY form input into the stored
// YYYY-MM-DD representation. An empty input clears the due date and is
// not an error.
func NormalizeDueDate(input string) (string, error) {
	if input == "" {
		return "", nil
	}
	parsed, err := time.Parse(dueDateInputLayout, input)
	if err != nil {
		return "", ErrInvalidDate
	}
	return parsed.Format(dueDateStoredLayout), nil
}

// Today returns today's date as DD-MM-YYYY, handed to the list view so
// the client can compare it against task due dates.
func Today() string {
	return time.Now().Format(dueDateInputLayout)
}
