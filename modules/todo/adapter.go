package todo

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// TodoPort defines the interface other modules use to access list and
// task functionality.
type TodoPort interface {
	CreateList(ctx context.Context) (*ListResponse, error)
	GetList(ctx context.Context, shortlink string) (*ListResponse, error)
	SaveList(ctx context.Context, shortlink, userID string) (*ListResponse, error)
	RenameList(ctx context.Context, shortlink, name string) (*ListResponse, error)
	DeleteList(ctx context.Context, listID, userID string) error
	ListsForUser(ctx context.Context, userID string) (*ListsForUserResponse, error)
	AddTask(ctx context.Context, listID, text, userID string) (*TaskActionResponse, error)
	SetDueDate(ctx context.Context, taskID, dueDate string) (*TaskActionResponse, error)
	ToggleComplete(ctx context.Context, taskID string) (*TaskActionResponse, error)
	ToggleStarred(ctx context.Context, taskID string) (*TaskActionResponse, error)
	DeleteTask(ctx context.Context, taskID string) (*DeleteTaskResponse, error)
	SweepUnclaimed(ctx context.Context) (int64, error)
}

// todoAdapter implements TodoPort using the service container.
type todoAdapter struct {
	container mono.ServiceContainer
}

// NewTodoAdapter creates a new adapter for the todo services.
func NewTodoAdapter(container mono.ServiceContainer) TodoPort {
	return &todoAdapter{container: container}
}

// CreateList creates a new anonymous list.
func (a *todoAdapter) CreateList(ctx context.Context) (*ListResponse, error) {
	req := CreateListRequest{}
	var resp ListResponse

	if err := helper.CallRequestReplyService(
		ctx, a.container, "create-list",
		json.Marshal, json.Unmarshal,
		&req, &resp,
	); err != nil {
		return nil, mapServiceError(err)
	}

	return &resp, nil
}

// GetList loads a list and its tasks by shortlink.
func (a *todoAdapter) GetList(ctx context.Context, shortlink string) (*ListResponse, error) {
	req := GetListRequest{Shortlink: shortlink}
	var resp ListResponse

	if err := helper.CallRequestReplyService(
		ctx, a.container, "get-list",
		json.Marshal, json.Unmarshal,
		&req, &resp,
	); err != nil {
		return nil, mapServiceError(err)
	}

	return &resp, nil
}

// SaveList claims an anonymous list for a user.
func (a *todoAdapter) SaveList(ctx context.Context, shortlink, userID string) (*ListResponse, error) {
	req := SaveListRequest{Shortlink: shortlink, UserID: userID}
	var resp ListResponse

	if err := helper.CallRequestReplyService(
		ctx, a.container, "save-list",
		json.Marshal, json.Unmarshal,
		&req, &resp,
	); err != nil {
		return nil, mapServiceError(err)
	}

	return &resp, nil
}

// RenameList sets a list's display name.
func (a *todoAdapter) RenameList(ctx context.Context, shortlink, name string) (*ListResponse, error) {
	req := RenameListRequest{Shortlink: shortlink, Name: name}
	var resp ListResponse

	if err := helper.CallRequestReplyService(
		ctx, a.container, "rename-list",
		json.Marshal, json.Unmarshal,
		&req, &resp,
	); err != nil {
		return nil, mapServiceError(err)
	}

	return &resp, nil
}

// DeleteList removes a list on behalf of a user.
func (a *todoAdapter) DeleteList(ctx context.Context, listID, userID string) error {
	req := DeleteListRequest{ListID: listID, UserID: userID}
	var resp DeleteListResponse

	if err := helper.CallRequestReplyService(
		ctx, a.container, "delete-list",
		json.Marshal, json.Unmarshal,
		&req, &resp,
	); err != nil {
		return mapServiceError(err)
	}

	return nil
}

// ListsForUser returns every list the user has claimed.
func (a *todoAdapter) ListsForUser(ctx context.Context, userID string) (*ListsForUserResponse, error) {
	req := ListsForUserRequest{UserID: userID}
	var resp ListsForUserResponse

	if err := helper.CallRequestReplyService(
		ctx, a.container, "lists-for-user",
		json.Marshal, json.Unmarshal,
		&req, &resp,
	); err != nil {
		return nil, mapServiceError(err)
	}

	return &resp, nil
}

// AddTask appends a task to a list. userID is empty for anonymous
// viewers.
func (a *todoAdapter) AddTask(ctx context.Context, listID, text, userID string) (*TaskActionResponse, error) {
	req := AddTaskRequest{ListID: listID, Text: text, UserID: userID}
	var resp TaskActionResponse

	if err := helper.CallRequestReplyService(
		ctx, a.container, "add-task",
		json.Marshal, json.Unmarshal,
		&req, &resp,
	); err != nil {
		return nil, mapServiceError(err)
	}

	return &resp, nil
}

// SetDueDate assigns a DD-MM-YYYY due date to a task.
func (a *todoAdapter) SetDueDate(ctx context.Context, taskID, dueDate string) (*TaskActionResponse, error) {
	req := SetDueDateRequest{TaskID: taskID, DueDate: dueDate}
	var resp TaskActionResponse

	if err := helper.CallRequestReplyService(
		ctx, a.container, "set-due-date",
		json.Marshal, json.Unmarshal,
		&req, &resp,
	); err != nil {
		return nil, mapServiceError(err)
	}

	return &resp, nil
}

// ToggleComplete flips a task's completion flag.
func (a *todoAdapter) ToggleComplete(ctx context.Context, taskID string) (*TaskActionResponse, error) {
	req := ToggleTaskRequest{TaskID: taskID}
	var resp TaskActionResponse

	if err := helper.CallRequestReplyService(
		ctx, a.container, "toggle-complete",
		json.Marshal, json.Unmarshal,
		&req, &resp,
	); err != nil {
		return nil, mapServiceError(err)
	}

	return &resp, nil
}

// ToggleStarred flips a task's starred flag.
func (a *todoAdapter) ToggleStarred(ctx context.Context, taskID string) (*TaskActionResponse, error) {
	req := ToggleTaskRequest{TaskID: taskID}
	var resp TaskActionResponse

	if err := helper.CallRequestReplyService(
		ctx, a.container, "toggle-starred",
		json.Marshal, json.Unmarshal,
		&req, &resp,
	); err != nil {
		return nil, mapServiceError(err)
	}

	return &resp, nil
}

// DeleteTask removes a single task.
func (a *todoAdapter) DeleteTask(ctx context.Context, taskID string) (*DeleteTaskResponse, error) {
	req := DeleteTaskRequest{TaskID: taskID}
	var resp DeleteTaskResponse

	if err := helper.CallRequestReplyService(
		ctx, a.container, "delete-task",
		json.Marshal, json.Unmarshal,
		&req, &resp,
	); err != nil {
		return nil, mapServiceError(err)
	}

	return &resp, nil
}

// SweepUnclaimed deletes every anonymous list.
func (a *todoAdapter) SweepUnclaimed(ctx context.Context) (int64, error) {
	req := SweepRequest{}
	var resp SweepResponse

	if err := helper.CallRequestReplyService(
		ctx, a.container, "sweep-unclaimed",
		json.Marshal, json.Unmarshal,
		&req, &resp,
	); err != nil {
		return 0, mapServiceError(err)
	}

	return resp.Removed, nil
}

// mapServiceError restores sentinel errors from error strings, since
// type information is lost crossing the service container.
func mapServiceError(err error) error {
	if err == nil {
		return nil
	}

	errMsg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(errMsg, "list not found"):
		return ErrListNotFound
	case strings.Contains(errMsg, "task not found"):
		return ErrTaskNotFound
	case strings.Contains(errMsg, "invalid due date"):
		return ErrInvalidDate
	case strings.Contains(errMsg, "not the list owner"):
		return ErrNotListOwner
	}

	return err
}
