package todo

import (
	domain "github.com/example/todo-lists-demo/domain/todo"
)

// TaskResponse is the serializable view of a task.
type TaskResponse struct {
	ID       string `json:"id"`
	ListID   string `json:"list_id"`
	UserID   string `json:"user_id,omitempty"`
	Text     string `json:"text"`
	DueDate  string `json:"due_date,omitempty"`
	Complete bool   `json:"complete"`
	Starred  bool   `json:"starred"`
}

// ListResponse is the serializable view of a task list, optionally with
// its tasks.
type ListResponse struct {
	ID        string         `json:"id"`
	Shortlink string         `json:"shortlink"`
	Name      string         `json:"name"`
	UserID    string         `json:"user_id,omitempty"`
	Tasks     []TaskResponse `json:"tasks,omitempty"`
}

// CreateListRequest carries no parameters; new lists are always
// anonymous with a default name.
type CreateListRequest struct{}

// GetListRequest asks for a list and its tasks by shortlink.
type GetListRequest struct {
	Shortlink string `json:"shortlink"`
}

// SaveListRequest claims an anonymous list for a user.
type SaveListRequest struct {
	Shortlink string `json:"shortlink"`
	UserID    string `json:"user_id"`
}

// RenameListRequest sets a list's display name.
type RenameListRequest struct {
	Shortlink string `json:"shortlink"`
	Name      string `json:"name"`
}

// DeleteListRequest removes a list on behalf of a user.
type DeleteListRequest struct {
	ListID string `json:"list_id"`
	UserID string `json:"user_id"`
}

// DeleteListResponse confirms the deletion.
type DeleteListResponse struct {
	Deleted bool `json:"deleted"`
}

// ListsForUserRequest asks for every list claimed by a user.
type ListsForUserRequest struct {
	UserID string `json:"user_id"`
}

// ListsForUserResponse carries the user's lists, newest first.
type ListsForUserResponse struct {
	Lists []ListResponse `json:"lists"`
	Total int            `json:"total"`
}

// AddTaskRequest appends a task to a list. UserID is empty for
// anonymous viewers.
type AddTaskRequest struct {
	ListID string `json:"list_id"`
	Text   string `json:"text"`
	UserID string `json:"user_id,omitempty"`
}

// SetDueDateRequest assigns a DD-MM-YYYY due date to a task. An empty
// date clears it.
type SetDueDateRequest struct {
	TaskID  string `json:"task_id"`
	DueDate string `json:"due_date"`
}

// ToggleTaskRequest flips a task's complete or starred flag, depending
// on the service it is sent to.
type ToggleTaskRequest struct {
	TaskID string `json:"task_id"`
}

// DeleteTaskRequest removes a single task.
type DeleteTaskRequest struct {
	TaskID string `json:"task_id"`
}

// TaskActionResponse is returned by every task mutation. Shortlink
// identifies the parent list so callers can redirect back to it.
type TaskActionResponse struct {
	Task      TaskResponse `json:"task"`
	Shortlink string       `json:"shortlink"`
}

// DeleteTaskResponse carries the parent list's shortlink after a task
// is removed.
type DeleteTaskResponse struct {
	Shortlink string `json:"shortlink"`
}

// SweepRequest triggers removal of all unclaimed lists.
type SweepRequest struct{}

// SweepResponse reports how many lists the sweep removed.
type SweepResponse struct {
	Removed int64 `json:"removed"`
}

func toTaskResponse(task *domain.Task) TaskResponse {
	resp := TaskResponse{
		ID:       task.ID,
		ListID:   task.ListID,
		Text:     task.Text,
		DueDate:  task.DueDate,
		Complete: task.Complete,
		Starred:  task.Starred,
	}
	if task.UserID != nil {
		resp.UserID = *task.UserID
	}
	return resp
}

func toListResponse(list *domain.TaskList, tasks []*domain.Task) ListResponse {
	resp := ListResponse{
		ID:        list.ID,
		Shortlink: list.Shortlink,
		Name:      list.Name,
	}
	if list.UserID != nil {
		resp.UserID = *list.UserID
	}
	for _, task := range tasks {
		resp.Tasks = append(resp.Tasks, toTaskResponse(task))
	}
	return resp
}
