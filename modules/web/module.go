package web

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/go-monolith/mono"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/example/todo-lists-demo/modules/auth"
	"github.com/example/todo-lists-demo/modules/todo"
)

// WebModule serves the HTML frontend on top of the auth and todo
// modules.
type WebModule struct {
	app         *fiber.App
	views       *Views
	authAdapter auth.AuthPort
	todoAdapter todo.TodoPort
	port        string
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*WebModule)(nil)
	_ mono.DependentModule       = (*WebModule)(nil)
	_ mono.HealthCheckableModule = (*WebModule)(nil)
)

// NewModule creates a new WebModule.
func NewModule() *WebModule {
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	return &WebModule{port: port}
}

// Name returns the module name.
func (m *WebModule) Name() string {
	return "web"
}

// Dependencies returns the list of module dependencies.
func (m *WebModule) Dependencies() []string {
	return []string{"auth", "todo"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *WebModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "auth":
		m.authAdapter = auth.NewAuthAdapter(container)
	case "todo":
		m.todoAdapter = todo.NewTodoAdapter(container)
	}
}

// Start initializes the Fiber HTTP server.
func (m *WebModule) Start(_ context.Context) error {
	if m.authAdapter == nil {
		return fmt.Errorf("auth dependency not set")
	}
	if m.todoAdapter == nil {
		return fmt.Errorf("todo dependency not set")
	}

	views, err := NewViews()
	if err != nil {
		return fmt.Errorf("failed to load views: %w", err)
	}
	m.views = views

	m.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          m.errorHandler,
	})

	m.app.Use(recover.New())
	m.app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	m.setupRoutes()

	go func() {
		if err := m.app.Listen(":" + m.port); err != nil {
			log.Printf("[web] HTTP server error: %v", err)
		}
	}()

	log.Printf("[web] HTTP server started on :%s", m.port)
	return nil
}

// Stop shuts down the Fiber HTTP server.
func (m *WebModule) Stop(_ context.Context) error {
	if m.app == nil {
		return nil
	}
	log.Println("[web] Shutting down HTTP server...")
	return m.app.Shutdown()
}

// Health returns the health status of the module.
func (m *WebModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"port": m.port,
		},
	}
}

// setupRoutes configures all routes.
func (m *WebModule) setupRoutes() {
	handlers := NewHandlers(m.authAdapter, m.todoAdapter, m.views)

	// Health check endpoint
	m.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"module": "web",
		})
	})

	// Every page resolves the session cookie when one is present.
	m.app.Use(OptionalUser(m.authAdapter))

	m.app.Get("/", handlers.Home)
	m.app.Get("/new-list", handlers.NewList)

	m.app.Get("/register", handlers.ShowRegister)
	m.app.Post("/register", handlers.Register)
	m.app.Get("/login", handlers.ShowLogin)
	m.app.Post("/login", handlers.Login)
	m.app.Get("/logout", handlers.Logout)

	m.app.Get("/list/:shortlink", handlers.ShowList)
	m.app.Post("/update/:shortlink", handlers.UpdateList)
	m.app.Post("/add-task/:listID", handlers.AddTask)
	m.app.Post("/date/:taskID", handlers.SetDueDate)
	m.app.Get("/complete/:taskID", handlers.CompleteTask)
	m.app.Get("/star/:taskID", handlers.StarTask)
	m.app.Get("/delete-task/:taskID", handlers.DeleteTask)

	// Routes requiring a logged-in user.
	protected := m.app.Group("")
	protected.Use(RequireUser())
	protected.Get("/my-lists", handlers.MyLists)
	protected.Get("/save-list/:shortlink", handlers.SaveList)
	protected.Get("/delete/:listID", handlers.DeleteList)
}

// errorHandler renders unexpected errors as an HTML page rather than
// Fiber's default plain-text response.
func (m *WebModule) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	log.Printf("[web] %s %s failed: %v", c.Method(), c.Path(), err)

	if m.views != nil {
		name := "error"
		if code == fiber.StatusNotFound {
			name = "not-found"
		}
		if renderErr := m.views.Render(c, code, name, PageData{Title: "Error"}); renderErr == nil {
			return nil
		}
	}
	return c.Status(code).SendString("Something went wrong.")
}
