package todo

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	domain "github.com/example/todo-lists-demo/domain/todo"
)

// DefaultListName is the name every freshly created list starts with.
const DefaultListName = "New List"

// maxShortlinkAttempts bounds the retry loop when a generated shortlink
// collides with an existing one.
const maxShortlinkAttempts = 10

// Service implements the task list lifecycle: creation, claiming,
// renaming, deletion, task mutations and the unclaimed-list sweep.
type Service struct {
	repo         *Repository
	newShortlink func() string
}

// NewService creates a new todo service.
func NewService(repo *Repository, newShortlink func() string) *Service {
	return &Service{
		repo:         repo,
		newShortlink: newShortlink,
	}
}

// CreateList creates a new anonymous list under a fresh shortlink.
func (s *Service) CreateList(_ context.Context) (*domain.TaskList, error) {
	for attempt := 0; attempt < maxShortlinkAttempts; attempt++ {
		shortlink := s.newShortlink()
		taken, err := s.repo.ShortlinkExists(shortlink)
		if err != nil {
			return nil, err
		}
		if taken {
			continue
		}

		list := &domain.TaskList{
			ID:        uuid.New().String(),
			Shortlink: shortlink,
			Name:      DefaultListName,
		}
		if err := s.repo.CreateList(list); err != nil {
			return nil, err
		}
		return list, nil
	}
	return nil, fmt.Errorf("failed to generate a unique shortlink after %d attempts", maxShortlinkAttempts)
}

// GetList loads a list and its tasks by shortlink.
func (s *Service) GetList(_ context.Context, shortlink string) (*domain.TaskList, []*domain.Task, error) {
	list, err := s.repo.FindListByShortlink(shortlink)
	if err != nil {
		return nil, nil, err
	}
	tasks, err := s.repo.FindTasksByList(list.ID)
	if err != nil {
		return nil, nil, err
	}
	return list, tasks, nil
}

// SaveList claims an anonymous list for a user. Claiming a list the
// user already owns is a no-op; the tasks are rewritten either way so
// the operation stays idempotent.
func (s *Service) SaveList(_ context.Context, shortlink, userID string) (*domain.TaskList, int, error) {
	list, err := s.repo.FindListByShortlink(shortlink)
	if err != nil {
		return nil, 0, err
	}
	if err := s.repo.ClaimList(list.ID, userID); err != nil {
		return nil, 0, err
	}
	count, err := s.repo.CountTasks(list.ID)
	if err != nil {
		return nil, 0, err
	}
	list.UserID = &userID
	return list, int(count), nil
}

// RenameList sets a list's display name. A blank submission keeps the
// current name rather than wiping it.
func (s *Service) RenameList(_ context.Context, shortlink, name string) (*domain.TaskList, error) {
	list, err := s.repo.FindListByShortlink(shortlink)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" || name == list.Name {
		return list, nil
	}
	if err := s.repo.UpdateListName(list.ID, name); err != nil {
		return nil, err
	}
	list.Name = name
	return list, nil
}

// DeleteList removes a list and its tasks. Claimed lists may only be
// deleted by their owner; anonymous lists by anyone who has the link.
func (s *Service) DeleteList(_ context.Context, listID, userID string) error {
	list, err := s.repo.FindListByID(listID)
	if err != nil {
		return err
	}
	if list.UserID != nil && *list.UserID != userID {
		return ErrNotListOwner
	}
	return s.repo.DeleteListWithTasks(list.ID)
}

// ListsForUser returns every list the user has claimed, newest first.
func (s *Service) ListsForUser(_ context.Context, userID string) ([]*domain.TaskList, error) {
	return s.repo.FindListsByUser(userID)
}

// AddTask appends a task to a list. The task inherits the viewer's
// identity when one is present, otherwise it stays anonymous until the
// list is saved.
func (s *Service) AddTask(_ context.Context, listID, text string, userID *string) (*domain.Task, *domain.TaskList, error) {
	list, err := s.repo.FindListByID(listID)
	if err != nil {
		return nil, nil, err
	}

	task := &domain.Task{
		ID:     uuid.New().String(),
		ListID: list.ID,
		UserID: userID,
		Text:   text,
	}
	if err := s.repo.CreateTask(task); err != nil {
		return nil, nil, err
	}
	return task, list, nil
}

// SetDueDate assigns a due date to a task from a DD-MM-YYYY form input.
// An empty input clears the date.
func (s *Service) SetDueDate(_ context.Context, taskID, input string) (*domain.Task, *domain.TaskList, error) {
	normalized, err := NormalizeDueDate(input)
	if err != nil {
		return nil, nil, err
	}
	task, list, err := s.findTaskWithList(taskID)
	if err != nil {
		return nil, nil, err
	}
	task.DueDate = normalized
	if err := s.repo.UpdateTask(task); err != nil {
		return nil, nil, err
	}
	return task, list, nil
}

// ToggleComplete flips a task's completion flag.
func (s *Service) ToggleComplete(_ context.Context, taskID string) (*domain.Task, *domain.TaskList, error) {
	task, list, err := s.findTaskWithList(taskID)
	if err != nil {
		return nil, nil, err
	}
	task.Complete = !task.Complete
	if err := s.repo.UpdateTask(task); err != nil {
		return nil, nil, err
	}
	return task, list, nil
}

// ToggleStarred flips a task's starred flag.
func (s *Service) ToggleStarred(_ context.Context, taskID string) (*domain.Task, *domain.TaskList, error) {
	task, list, err := s.findTaskWithList(taskID)
	if err != nil {
		return nil, nil, err
	}
	task.Starred = !task.Starred
	if err := s.repo.UpdateTask(task); err != nil {
		return nil, nil, err
	}
	return task, list, nil
}

// DeleteTask removes a task and returns its parent list so the caller
// can redirect back to it.
func (s *Service) DeleteTask(_ context.Context, taskID string) (*domain.TaskList, error) {
	_, list, err := s.findTaskWithList(taskID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.DeleteTask(taskID); err != nil {
		return nil, err
	}
	return list, nil
}

// SweepUnclaimed deletes every anonymous list and returns how many
// were removed.
func (s *Service) SweepUnclaimed(_ context.Context) (int64, error) {
	return s.repo.DeleteUnclaimed()
}

// findTaskWithList resolves a task together with its parent list.
// A task whose list has vanished is reported as not found.
func (s *Service) findTaskWithList(taskID string) (*domain.Task, *domain.TaskList, error) {
	task, err := s.repo.FindTaskByID(taskID)
	if err != nil {
		return nil, nil, err
	}
	list, err := s.repo.FindListByID(task.ListID)
	if err != nil {
		if err == ErrListNotFound {
			return nil, nil, ErrTaskNotFound
		}
		return nil, nil, err
	}
	return task, list, nil
}
