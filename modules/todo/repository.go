package todo

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	domain "github.com/example/todo-lists-demo/domain/todo"
)

// Repository handles database operations for lists and tasks. Relations
// between the two tables are maintained by identifier, never by ORM
// association, so every cross-table change runs inside a transaction.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new repository instance.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateList inserts a new task list.
func (r *Repository) CreateList(list *domain.TaskList) error {
	if err := r.db.Create(list).Error; err != nil {
		return fmt.Errorf("failed to create list: %w", err)
	}
	return nil
}

// FindListByID retrieves a list by its ID.
func (r *Repository) FindListByID(id string) (*domain.TaskList, error) {
	var list domain.TaskList
	err := r.db.Where("id = ?", id).First(&list).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListNotFound
		}
		return nil, fmt.Errorf("failed to find list: %w", err)
	}
	return &list, nil
}

// FindListByShortlink retrieves a list by its shortlink.
func (r *Repository) FindListByShortlink(shortlink string) (*domain.TaskList, error) {
	var list domain.TaskList
	err := r.db.Where("shortlink = ?", shortlink).First(&list).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListNotFound
		}
		return nil, fmt.Errorf("failed to find list: %w", err)
	}
	return &list, nil
}

// ShortlinkExists reports whether a shortlink is already taken.
func (r *Repository) ShortlinkExists(shortlink string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.TaskList{}).Where("shortlink = ?", shortlink).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check shortlink: %w", err)
	}
	return count > 0, nil
}

// FindListsByUser retrieves all lists claimed by a user, newest first.
func (r *Repository) FindListsByUser(userID string) ([]*domain.TaskList, error) {
	var lists []*domain.TaskList
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&lists).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list lists: %w", err)
	}
	return lists, nil
}

// UpdateListName sets a list's display name.
func (r *Repository) UpdateListName(listID, name string) error {
	result := r.db.Model(&domain.TaskList{}).
		Where("id = ?", listID).
		Update("name", name)
	if result.Error != nil {
		return fmt.Errorf("failed to rename list: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrListNotFound
	}
	return nil
}

// ClaimList assigns an anonymous list and all of its tasks to a user.
// Both updates happen in one transaction so the list never ends up
// claimed while its tasks stay anonymous.
func (r *Repository) ClaimList(listID, userID string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&domain.TaskList{}).
			Where("id = ?", listID).
			Update("user_id", userID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrListNotFound
		}
		return tx.Model(&domain.Task{}).
			Where("list_id = ?", listID).
			Update("user_id", userID).Error
	})
	if err != nil {
		if errors.Is(err, ErrListNotFound) {
			return ErrListNotFound
		}
		return fmt.Errorf("failed to claim list: %w", err)
	}
	return nil
}

// DeleteListWithTasks removes a list and every task that belongs to it
// in one transaction.
func (r *Repository) DeleteListWithTasks(listID string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("list_id = ?", listID).Delete(&domain.Task{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", listID).Delete(&domain.TaskList{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrListNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrListNotFound) {
			return ErrListNotFound
		}
		return fmt.Errorf("failed to delete list: %w", err)
	}
	return nil
}

// DeleteUnclaimed removes every list that was never saved to an
// account, together with its tasks. Returns the number of lists
// removed.
func (r *Repository) DeleteUnclaimed() (int64, error) {
	var removed int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("list_id IN (?)",
			tx.Model(&domain.TaskList{}).Select("id").Where("user_id IS NULL"),
		).Delete(&domain.Task{}).Error
		if err != nil {
			return err
		}
		result := tx.Where("user_id IS NULL").Delete(&domain.TaskList{})
		if result.Error != nil {
			return result.Error
		}
		removed = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to sweep unclaimed lists: %w", err)
	}
	return removed, nil
}

// CreateTask inserts a new task.
func (r *Repository) CreateTask(task *domain.Task) error {
	if err := r.db.Create(task).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// FindTaskByID retrieves a task by its ID.
func (r *Repository) FindTaskByID(id string) (*domain.Task, error) {
	var task domain.Task
	err := r.db.Where("id = ?", id).First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &task, nil
}

// FindTasksByList retrieves a list's tasks in insertion order.
func (r *Repository) FindTasksByList(listID string) ([]*domain.Task, error) {
	var tasks []*domain.Task
	err := r.db.Where("list_id = ?", listID).
		Order("created_at ASC, id ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// UpdateTask persists changes to an existing task.
func (r *Repository) UpdateTask(task *domain.Task) error {
	if err := r.db.Save(task).Error; err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return nil
}

// DeleteTask removes a single task.
func (r *Repository) DeleteTask(id string) error {
	result := r.db.Where("id = ?", id).Delete(&domain.Task{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// CountTasks returns the number of tasks in a list.
func (r *Repository) CountTasks(listID string) (int64, error) {
	var count int64
	err := r.db.Model(&domain.Task{}).Where("list_id = ?", listID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return count, nil
}
