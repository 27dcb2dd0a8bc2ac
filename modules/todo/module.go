package todo

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	domain "github.com/example/todo-lists-demo/domain/todo"
)

// TodoModule provides task list lifecycle services and publishes
// domain events for the activity module.
type TodoModule struct {
	db       *gorm.DB
	service  *Service
	eventBus mono.EventBus
	dbPath   string
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*TodoModule)(nil)
	_ mono.ServiceProviderModule = (*TodoModule)(nil)
	_ mono.HealthCheckableModule = (*TodoModule)(nil)
	_ mono.EventBusAwareModule   = (*TodoModule)(nil)
	_ mono.EventEmitterModule    = (*TodoModule)(nil)
)

// NewModule creates a new TodoModule.
func NewModule() *TodoModule {
	dbPath := os.Getenv("TODO_DB_PATH")
	if dbPath == "" {
		dbPath = "todo.db"
	}
	return &TodoModule{dbPath: dbPath}
}

// Name returns the module name.
func (m *TodoModule) Name() string {
	return "todo"
}

// SetEventBus receives the EventBus from the framework.
func (m *TodoModule) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events this module can emit.
func (m *TodoModule) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		ListClaimedV1.ToBase(),
		TaskAddedV1.ToBase(),
	}
}

// Start initializes the database and the todo service.
func (m *TodoModule) Start(_ context.Context) error {
	db, err := gorm.Open(sqlite.Open(m.dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	m.db = db

	if err := db.AutoMigrate(&domain.TaskList{}, &domain.Task{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	newShortlink, err := NewShortlinkGenerator()
	if err != nil {
		return fmt.Errorf("failed to create shortlink generator: %w", err)
	}

	m.service = NewService(NewRepository(db), newShortlink)

	log.Printf("[todo] Module started (database: %s)", m.dbPath)
	return nil
}

// Stop shuts down the module.
func (m *TodoModule) Stop(_ context.Context) error {
	if m.db != nil {
		sqlDB, err := m.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
	log.Println("[todo] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *TodoModule) Health(ctx context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get database connection: %v", err),
		}
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"database": m.dbPath,
		},
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *TodoModule) RegisterServices(container mono.ServiceContainer) error {
	services := []struct {
		name     string
		register func() error
	}{
		{"create-list", func() error {
			return helper.RegisterTypedRequestReplyService(container, "create-list", json.Unmarshal, json.Marshal, m.handleCreateList)
		}},
		{"get-list", func() error {
			return helper.RegisterTypedRequestReplyService(container, "get-list", json.Unmarshal, json.Marshal, m.handleGetList)
		}},
		{"save-list", func() error {
			return helper.RegisterTypedRequestReplyService(container, "save-list", json.Unmarshal, json.Marshal, m.handleSaveList)
		}},
		{"rename-list", func() error {
			return helper.RegisterTypedRequestReplyService(container, "rename-list", json.Unmarshal, json.Marshal, m.handleRenameList)
		}},
		{"delete-list", func() error {
			return helper.RegisterTypedRequestReplyService(container, "delete-list", json.Unmarshal, json.Marshal, m.handleDeleteList)
		}},
		{"lists-for-user", func() error {
			return helper.RegisterTypedRequestReplyService(container, "lists-for-user", json.Unmarshal, json.Marshal, m.handleListsForUser)
		}},
		{"add-task", func() error {
			return helper.RegisterTypedRequestReplyService(container, "add-task", json.Unmarshal, json.Marshal, m.handleAddTask)
		}},
		{"set-due-date", func() error {
			return helper.RegisterTypedRequestReplyService(container, "set-due-date", json.Unmarshal, json.Marshal, m.handleSetDueDate)
		}},
		{"toggle-complete", func() error {
			return helper.RegisterTypedRequestReplyService(container, "toggle-complete", json.Unmarshal, json.Marshal, m.handleToggleComplete)
		}},
		{"toggle-starred", func() error {
			return helper.RegisterTypedRequestReplyService(container, "toggle-starred", json.Unmarshal, json.Marshal, m.handleToggleStarred)
		}},
		{"delete-task", func() error {
			return helper.RegisterTypedRequestReplyService(container, "delete-task", json.Unmarshal, json.Marshal, m.handleDeleteTask)
		}},
		{"sweep-unclaimed", func() error {
			return helper.RegisterTypedRequestReplyService(container, "sweep-unclaimed", json.Unmarshal, json.Marshal, m.handleSweepUnclaimed)
		}},
	}

	for _, svc := range services {
		if err := svc.register(); err != nil {
			return fmt.Errorf("failed to register %s service: %w", svc.name, err)
		}
	}

	log.Printf("[todo] Registered %d services", len(services))
	return nil
}

func (m *TodoModule) handleCreateList(ctx context.Context, _ CreateListRequest, _ *mono.Msg) (ListResponse, error) {
	list, err := m.service.CreateList(ctx)
	if err != nil {
		return ListResponse{}, err
	}
	return toListResponse(list, nil), nil
}

func (m *TodoModule) handleGetList(ctx context.Context, req GetListRequest, _ *mono.Msg) (ListResponse, error) {
	list, tasks, err := m.service.GetList(ctx, req.Shortlink)
	if err != nil {
		return ListResponse{}, err
	}
	return toListResponse(list, tasks), nil
}

func (m *TodoModule) handleSaveList(ctx context.Context, req SaveListRequest, _ *mono.Msg) (ListResponse, error) {
	list, taskCount, err := m.service.SaveList(ctx, req.Shortlink, req.UserID)
	if err != nil {
		return ListResponse{}, err
	}

	event := ListClaimedEvent{
		ListID:    list.ID,
		Shortlink: list.Shortlink,
		UserID:    req.UserID,
		TaskCount: taskCount,
		ClaimedAt: time.Now(),
	}
	if err := ListClaimedV1.Publish(m.eventBus, event, nil); err != nil {
		log.Printf("[todo] Failed to publish ListClaimed event: %v", err)
	}

	return toListResponse(list, nil), nil
}

func (m *TodoModule) handleRenameList(ctx context.Context, req RenameListRequest, _ *mono.Msg) (ListResponse, error) {
	list, err := m.service.RenameList(ctx, req.Shortlink, req.Name)
	if err != nil {
		return ListResponse{}, err
	}
	return toListResponse(list, nil), nil
}

func (m *TodoModule) handleDeleteList(ctx context.Context, req DeleteListRequest, _ *mono.Msg) (DeleteListResponse, error) {
	if err := m.service.DeleteList(ctx, req.ListID, req.UserID); err != nil {
		return DeleteListResponse{}, err
	}
	return DeleteListResponse{Deleted: true}, nil
}

func (m *TodoModule) handleListsForUser(ctx context.Context, req ListsForUserRequest, _ *mono.Msg) (ListsForUserResponse, error) {
	lists, err := m.service.ListsForUser(ctx, req.UserID)
	if err != nil {
		return ListsForUserResponse{}, err
	}

	resp := ListsForUserResponse{Total: len(lists)}
	for _, list := range lists {
		resp.Lists = append(resp.Lists, toListResponse(list, nil))
	}
	return resp, nil
}

func (m *TodoModule) handleAddTask(ctx context.Context, req AddTaskRequest, _ *mono.Msg) (TaskActionResponse, error) {
	var userID *string
	if req.UserID != "" {
		userID = &req.UserID
	}

	task, list, err := m.service.AddTask(ctx, req.ListID, req.Text, userID)
	if err != nil {
		return TaskActionResponse{}, err
	}

	event := TaskAddedEvent{
		TaskID:    task.ID,
		ListID:    list.ID,
		Shortlink: list.Shortlink,
		Text:      task.Text,
		UserID:    req.UserID,
		AddedAt:   time.Now(),
	}
	if err := TaskAddedV1.Publish(m.eventBus, event, nil); err != nil {
		log.Printf("[todo] Failed to publish TaskAdded event: %v", err)
	}

	return TaskActionResponse{
		Task:      toTaskResponse(task),
		Shortlink: list.Shortlink,
	}, nil
}

func (m *TodoModule) handleSetDueDate(ctx context.Context, req SetDueDateRequest, _ *mono.Msg) (TaskActionResponse, error) {
	task, list, err := m.service.SetDueDate(ctx, req.TaskID, req.DueDate)
	if err != nil {
		return TaskActionResponse{}, err
	}
	return TaskActionResponse{
		Task:      toTaskResponse(task),
		Shortlink: list.Shortlink,
	}, nil
}

func (m *TodoModule) handleToggleComplete(ctx context.Context, req ToggleTaskRequest, _ *mono.Msg) (TaskActionResponse, error) {
	task, list, err := m.service.ToggleComplete(ctx, req.TaskID)
	if err != nil {
		return TaskActionResponse{}, err
	}
	return TaskActionResponse{
		Task:      toTaskResponse(task),
		Shortlink: list.Shortlink,
	}, nil
}

func (m *TodoModule) handleToggleStarred(ctx context.Context, req ToggleTaskRequest, _ *mono.Msg) (TaskActionResponse, error) {
	task, list, err := m.service.ToggleStarred(ctx, req.TaskID)
	if err != nil {
		return TaskActionResponse{}, err
	}
	return TaskActionResponse{
		Task:      toTaskResponse(task),
		Shortlink: list.Shortlink,
	}, nil
}

func (m *TodoModule) handleDeleteTask(ctx context.Context, req DeleteTaskRequest, _ *mono.Msg) (DeleteTaskResponse, error) {
	list, err := m.service.DeleteTask(ctx, req.TaskID)
	if err != nil {
		return DeleteTaskResponse{}, err
	}
	return DeleteTaskResponse{Shortlink: list.Shortlink}, nil
}

func (m *TodoModule) handleSweepUnclaimed(ctx context.Context, _ SweepRequest, _ *mono.Msg) (SweepResponse, error) {
	removed, err := m.service.SweepUnclaimed(ctx)
	if err != nil {
		return SweepResponse{}, err
	}
	if removed > 0 {
		log.Printf("[todo] Swept %d unclaimed lists", removed)
	}
	return SweepResponse{Removed: removed}, nil
}
