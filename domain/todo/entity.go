package todo

import (
	"time"
)

// TaskList is a shareable container of tasks, addressed publicly by its
// shortlink rather than its internal ID. A nil UserID means the list is
// unclaimed and subject to garbage collection.
type TaskList struct {
	ID        string  `gorm:"primaryKey;size:36"`
	Shortlink string  `gorm:"uniqueIndex;not null;size:32"`
	Name      string  `gorm:"not null;size:250"`
	UserID    *string `gorm:"index;size:36"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for the TaskList entity.
func (TaskList) TableName() string {
	return "task_lists"
}

// Task belongs to exactly one TaskList. UserID mirrors the list's owner
// at creation time; it is only rewritten when the list is saved.
// DueDate is stored normalized as YYYY-MM-DD, empty when unset.
type Task struct {
	ID        string  `gorm:"primaryKey;size:36"`
	ListID    string  `gorm:"index;not null;size:36"`
	UserID    *string `gorm:"index;size:36"`
	Text      string  `gorm:"not null;size:250"`
	DueDate   string  `gorm:"size:10"`
	Complete  bool    `gorm:"not null;default:false"`
	Starred   bool    `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for the Task entity.
func (Task) TableName() string {
	return "tasks"
}
