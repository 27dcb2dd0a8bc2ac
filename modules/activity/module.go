package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/go-monolith/mono"

	"github.com/example/todo-lists-demo/modules/todo"
)

// ActivityModule consumes todo events and keeps a bounded in-memory
// record of recent activity. Losing it on restart is acceptable.
type ActivityModule struct {
	store *Store
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*ActivityModule)(nil)
	_ mono.EventConsumerModule   = (*ActivityModule)(nil)
	_ mono.ServiceProviderModule = (*ActivityModule)(nil)
)

// NewModule creates a new ActivityModule.
func NewModule() *ActivityModule {
	return &ActivityModule{store: NewStore()}
}

// Name returns the module name.
func (m *ActivityModule) Name() string {
	return "activity"
}

// Start initializes the module.
func (m *ActivityModule) Start(_ context.Context) error {
	log.Println("[activity] Module started")
	return nil
}

// Stop shuts down the module.
func (m *ActivityModule) Stop(_ context.Context) error {
	log.Println("[activity] Module stopped")
	return nil
}

// Store returns the activity store.
func (m *ActivityModule) Store() *Store {
	return m.store
}

// RegisterEventConsumers registers handlers for todo events.
func (m *ActivityModule) RegisterEventConsumers(registry mono.EventRegistry) error {
	claimedDef, ok := registry.GetEventByName("ListClaimed", "v1", "todo")
	if !ok {
		return fmt.Errorf("event ListClaimed.v1 not found")
	}
	if err := registry.RegisterEventConsumer(claimedDef, m.handleListClaimed, m); err != nil {
		return fmt.Errorf("failed to register ListClaimed consumer: %w", err)
	}

	addedDef, ok := registry.GetEventByName("TaskAdded", "v1", "todo")
	if !ok {
		return fmt.Errorf("event TaskAdded.v1 not found")
	}
	if err := registry.RegisterEventConsumer(addedDef, m.handleTaskAdded, m); err != nil {
		return fmt.Errorf("failed to register TaskAdded consumer: %w", err)
	}

	log.Println("[activity] Registered event consumers: ListClaimed.v1, TaskAdded.v1")
	return nil
}

// handleListClaimed records a list being saved to an account.
func (m *ActivityModule) handleListClaimed(_ context.Context, msg *mono.Msg) error {
	var event todo.ListClaimedEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		log.Printf("[activity] Failed to unmarshal ListClaimed event: %v", err)
		return nil // don't retry on unmarshal errors
	}

	m.store.Record(Entry{
		Kind:       KindListClaimed,
		Shortlink:  event.Shortlink,
		Detail:     fmt.Sprintf("%d tasks", event.TaskCount),
		UserID:     event.UserID,
		OccurredAt: event.ClaimedAt,
	})
	return nil
}

// handleTaskAdded records a task being added to a list.
func (m *ActivityModule) handleTaskAdded(_ context.Context, msg *mono.Msg) error {
	var event todo.TaskAddedEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		log.Printf("[activity] Failed to unmarshal TaskAdded event: %v", err)
		return nil // don't retry on unmarshal errors
	}

	m.store.Record(Entry{
		Kind:       KindTaskAdded,
		Shortlink:  event.Shortlink,
		Detail:     event.Text,
		UserID:     event.UserID,
		OccurredAt: event.AddedAt,
	})
	return nil
}

// RegisterServices registers request-reply services in the service container.
func (m *ActivityModule) RegisterServices(container mono.ServiceContainer) error {
	if err := container.RegisterRequestReplyService("activity-summary", m.handleSummary); err != nil {
		return fmt.Errorf("failed to register activity-summary service: %w", err)
	}

	if err := container.RegisterRequestReplyService("recent-activity", m.handleRecent); err != nil {
		return fmt.Errorf("failed to register recent-activity service: %w", err)
	}

	log.Printf("[activity] Registered services: activity-summary, recent-activity")
	return nil
}

// handleSummary handles activity-summary service requests.
func (m *ActivityModule) handleSummary(_ context.Context, _ *mono.Msg) ([]byte, error) {
	return json.Marshal(m.store.Summary())
}

// handleRecent handles recent-activity service requests.
func (m *ActivityModule) handleRecent(_ context.Context, msg *mono.Msg) ([]byte, error) {
	var req struct {
		Limit int `json:"limit"`
	}
	if len(msg.Data) > 0 {
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			return nil, fmt.Errorf("invalid request: %w", err)
		}
	}

	if req.Limit <= 0 {
		req.Limit = 100
	}
	if req.Limit > DefaultMaxEntries {
		req.Limit = DefaultMaxEntries
	}

	return json.Marshal(m.store.Recent(req.Limit))
}
