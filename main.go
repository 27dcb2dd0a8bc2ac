package main

import (
	"context"
	"log"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"

	"github.com/example/todo-lists-demo/modules/activity"
	"github.com/example/todo-lists-demo/modules/auth"
	"github.com/example/todo-lists-demo/modules/todo"
	"github.com/example/todo-lists-demo/modules/web"
)

const shutdownTimeout = 30 * time.Second

func main() {
	log.Println("=== Todo Lists ===")

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Register modules with the framework
	// Order: independent modules first, then dependent modules
	app.Register(auth.NewModule())     // Account and session services
	app.Register(todo.NewModule())     // List and task lifecycle, emits events
	app.Register(activity.NewModule()) // Consumes todo events
	app.Register(web.NewModule())      // HTML frontend, depends on auth + todo

	// Start application
	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo()

	// Graceful shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo() {
	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Println("Pages (http://localhost:3000):")
	log.Println("")
	log.Println("  GET  /                    - Sweep unclaimed lists, start a fresh one")
	log.Println("  GET  /new-list            - Create a list and open it")
	log.Println("  GET  /list/:shortlink     - View a list (shareable link)")
	log.Println("  GET  /register, /login    - Account pages")
	log.Println("  GET  /my-lists            - Lists saved to your account (login required)")
	log.Println("  GET  /save-list/:shortlink - Claim an anonymous list (login required)")
	log.Println("  GET  /health              - Health check")
	log.Println("")
	log.Println("List actions are plain form posts and links:")
	log.Println("  POST /update/:shortlink, /add-task/:listID, /date/:taskID")
	log.Println("  GET  /complete/:taskID, /star/:taskID, /delete-task/:taskID, /delete/:listID")
	log.Println("")
	log.Println("Set SESSION_SECRET in production. AUTH_DB_PATH, TODO_DB_PATH and PORT are optional.")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
