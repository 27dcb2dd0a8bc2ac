package todo

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// ListClaimedEvent is published when an anonymous list is saved to an
// account.
type ListClaimedEvent struct {
	ListID    string    `json:"list_id"`
	Shortlink string    `json:"shortlink"`
	UserID    string    `json:"user_id"`
	TaskCount int       `json:"task_count"`
	ClaimedAt time.Time `json:"claimed_at"`
}

// TaskAddedEvent is published when a task is added to a list.
type TaskAddedEvent struct {
	TaskID    string    `json:"task_id"`
	ListID    string    `json:"list_id"`
	Shortlink string    `json:"shortlink"`
	Text      string    `json:"text"`
	UserID    string    `json:"user_id,omitempty"`
	AddedAt   time.Time `json:"added_at"`
}

// Event definitions for the todo module.
var (
	// ListClaimedV1 is published after a successful save-list.
	ListClaimedV1 = helper.EventDefinition[ListClaimedEvent](
		"todo",
		"ListClaimed",
		"v1",
	)

	// TaskAddedV1 is published after a successful add-task.
	TaskAddedV1 = helper.EventDefinition[TaskAddedEvent](
		"todo",
		"TaskAdded",
		"v1",
	)
)
