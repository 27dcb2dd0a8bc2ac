package web

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/example/todo-lists-demo/modules/auth"
	"github.com/example/todo-lists-demo/modules/todo"
)

func newTestWebApp(t *testing.T, authPort auth.AuthPort, todoPort todo.TodoPort) *fiber.App {
	t.Helper()

	m := &WebModule{
		authAdapter: authPort,
		todoAdapter: todoPort,
		port:        "3000",
	}

	views, err := NewViews()
	if err != nil {
		t.Fatalf("NewViews() error = %v", err)
	}
	m.views = views

	m.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          m.errorHandler,
	})
	m.setupRoutes()

	return m.app
}

func formRequest(path, body string) *http.Request {
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func assertRedirect(t *testing.T, resp *http.Response, status int, location string) {
	t.Helper()
	if resp.StatusCode != status {
		t.Errorf("status = %d, want %d", resp.StatusCode, status)
	}
	if loc := resp.Header.Get("Location"); loc != location {
		t.Errorf("Location = %q, want %q", loc, location)
	}
}

func assertBodyContains(t *testing.T, resp *http.Response, want string) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	if !strings.Contains(string(body), want) {
		t.Errorf("body does not contain %q:\n%s", want, body)
	}
}

func flashValue(t *testing.T, resp *http.Response) string {
	t.Helper()
	for _, cookie := range resp.Cookies() {
		if cookie.Name == FlashCookie && cookie.Value != "" {
			message, err := url.QueryUnescape(cookie.Value)
			if err != nil {
				t.Fatalf("flash cookie not unescapable: %v", err)
			}
			return message
		}
	}
	return ""
}

func sessionCookieValue(resp *http.Response) string {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == SessionCookie {
			return cookie.Value
		}
	}
	return ""
}

func TestHome_SweepsAndRedirects(t *testing.T) {
	swept := false
	todoPort := &mockTodoPort{
		sweepFunc: func(_ context.Context) (int64, error) {
			swept = true
			return 2, nil
		},
	}
	app := newTestWebApp(t, validatingAuth(), todoPort)

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()

	assertRedirect(t, resp, http.StatusFound, "/new-list")
	if !swept {
		t.Error("home visit did not trigger the sweep")
	}
}

func TestNewList(t *testing.T) {
	todoPort := &mockTodoPort{
		createListFunc: func(_ context.Context) (*todo.ListResponse, error) {
			return &todo.ListResponse{ID: "list-1", Shortlink: "abc123xyz0", Name: "New List"}, nil
		},
	}
	app := newTestWebApp(t, validatingAuth(), todoPort)

	resp, err := app.Test(httptest.NewRequest("GET", "/new-list", nil), -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()

	assertRedirect(t, resp, http.StatusFound, "/list/abc123xyz0")
}

func TestRegister(t *testing.T) {
	t.Run("success sets session and redirects", func(t *testing.T) {
		authPort := &mockAuthPort{
			registerFunc: func(_ context.Context, name, email, _ string) (*auth.SessionResponse, error) {
				if name != "Jane" || email != "jane@example.com" {
					t.Errorf("Register called with name=%q email=%q", name, email)
				}
				return &auth.SessionResponse{SessionToken: "new-token", UserID: "user-1"}, nil
			},
		}
		app := newTestWebApp(t, authPort, &mockTodoPort{})

		req := formRequest("/register", "name=Jane&email=jane%40example.com&password=secretpass")
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		defer resp.Body.Close()

		assertRedirect(t, resp, http.StatusSeeOther, "/my-lists")
		if got := sessionCookieValue(resp); got != "new-token" {
			t.Errorf("session cookie = %q, want %q", got, "new-token")
		}
	})

	t.Run("duplicate email flashes and goes to login", func(t *testing.T) {
		authPort := &mockAuthPort{
			registerFunc: func(_ context.Context, _, _, _ string) (*auth.SessionResponse, error) {
				return nil, auth.ErrEmailExists
			},
		}
		app := newTestWebApp(t, authPort, &mockTodoPort{})

		req := formRequest("/register", "name=Jane&email=jane%40example.com&password=secretpass")
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		defer resp.Body.Close()

		assertRedirect(t, resp, http.StatusSeeOther, "/login")
		if flash := flashValue(t, resp); !strings.Contains(flash, "already registered") {
			t.Errorf("flash = %q, want a duplicate-email notice", flash)
		}
	})

	t.Run("missing fields rejected before the service call", func(t *testing.T) {
		app := newTestWebApp(t, &mockAuthPort{}, &mockTodoPort{})

		resp, err := app.Test(formRequest("/register", "name=Jane"), -1)
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		defer resp.Body.Close()

		assertRedirect(t, resp, http.StatusSeeOther, "/register")
	})
}

func TestLogin(t *testing.T) {
	t.Run("success sets session and redirects", func(t *testing.T) {
		authPort := &mockAuthPort{
			loginFunc: func(_ context.Context, email, password string) (*auth.SessionResponse, error) {
				if email != "jane@example.com" || password != "rightpass" {
					return nil, auth.ErrInvalidPassword
				}
				return &auth.SessionResponse{SessionToken: "login-token"}, nil
			},
		}
		app := newTestWebApp(t, authPort, &mockTodoPort{})

		resp, err := app.Test(formRequest("/login", "email=jane%40example.com&password=rightpass"), -1)
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		defer resp.Body.Close()

		assertRedirect(t, resp, http.StatusSeeOther, "/my-lists")
		if got := sessionCookieValue(resp); got != "login-token" {
			t.Errorf("session cookie = %q, want %q", got, "login-token")
		}
	})

	t.Run("unknown email and wrong password give distinct notices", func(t *testing.T) {
		authPort := &mockAuthPort{
			loginFunc: func(_ context.Context, email, _ string) (*auth.SessionResponse, error) {
				if email == "nobody@example.com" {
					return nil, auth.ErrUserNotFound
				}
				return nil, auth.ErrInvalidPassword
			},
		}
		app := newTestWebApp(t, authPort, &mockTodoPort{})

		respUnknown, err := app.Test(formRequest("/login", "email=nobody%40example.com&password=x"), -1)
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		defer respUnknown.Body.Close()
		unknownFlash := flashValue(t, respUnknown)

		respWrong, err := app.Test(formRequest("/login", "email=jane%40example.com&password=wrong"), -1)
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		defer respWrong.Body.Close()
		wrongFlash := flashValue(t, respWrong)

		if !strings.Contains(unknownFlash, "No account") {
			t.Errorf("unknown-email flash = %q", unknownFlash)
		}
		if !strings.Contains(wrongFlash, "incorrect") {
			t.Errorf("wrong-password flash = %q", wrongFlash)
		}
		if unknownFlash == wrongFlash {
			t.Error("unknown email and wrong password produced the same notice")
		}
	})
}

func TestLogout(t *testing.T) {
	app := newTestWebApp(t, validatingAuth(), &mockTodoPort{})

	req := withSession(httptest.NewRequest("GET", "/logout", nil))
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()

	// Logging out lands on the home page, not the login form.
	assertRedirect(t, resp, http.StatusFound, "/")
	for _, cookie := range resp.Cookies() {
		if cookie.Name == SessionCookie && cookie.Value != "" {
			t.Error("logout did not clear the session cookie")
		}
	}
}

func TestMyLists(t *testing.T) {
	todoPort := &mockTodoPort{
		listsForUserFunc: func(_ context.Context, userID string) (*todo.ListsForUserResponse, error) {
			if userID != "user-1" {
				t.Errorf("ListsForUser called with %q", userID)
			}
			return &todo.ListsForUserResponse{
				Lists: []todo.ListResponse{{ID: "l1", Shortlink: "aaa", Name: "Groceries"}},
				Total: 1,
			}, nil
		},
	}
	app := newTestWebApp(t, validatingAuth(), todoPort)

	t.Run("anonymous redirected to login", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/my-lists", nil), -1)
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		defer resp.Body.Close()
		assertRedirect(t, resp, http.StatusFound, "/login")
	})

	t.Run("logged-in user sees their lists", func(t *testing.T) {
		req := withSession(httptest.NewRequest("GET", "/my-lists", nil))
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Errorf("status = %d, want 200", resp.StatusCode)
		}
		assertBodyContains(t, resp, "Groceries")
	})
}

func TestShowList(t *testing.T) {
	todoPort := &mockTodoPort{
		getListFunc: func(_ context.Context, shortlink string) (*todo.ListResponse, error) {
			if shortlink != "abc123xyz0" {
				return nil, todo.ErrListNotFound
			}
			return &todo.ListResponse{
				ID:        "list-1",
				Shortlink: "abc123xyz0",
				Name:      "Groceries",
				Tasks: []todo.TaskResponse{
					{ID: "t1", Text: "buy milk", DueDate: "2026-12-25"},
				},
			}, nil
		},
	}
	app := newTestWebApp(t, validatingAuth(), todoPort)

	t.Run("renders tasks with display dates", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/list/abc123xyz0", nil), -1)
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Fatalf("failed to read body: %v", err)
		}
		for _, want := range []string{"buy milk", "25-12-2026", "Groceries"} {
			if !strings.Contains(string(body), want) {
				t.Errorf("body does not contain %q", want)
			}
		}
	})

	t.Run("unknown shortlink is a 404", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/list/missing123", nil), -1)
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("status = %d, want 404", resp.StatusCode)
		}
	})
}

func TestSaveList(t *testing.T) {
	todoPort := &mockTodoPort{
		saveListFunc: func(_ context.Context, shortlink, userID string) (*todo.ListResponse, error) {
			if userID != "user-1" {
				t.Errorf("SaveList called with userID %q", userID)
			}
			return &todo.ListResponse{Shortlink: shortlink, UserID: userID}, nil
		},
	}
	app := newTestWebApp(t, validatingAuth(), todoPort)

	t.Run("anonymous redirected to login", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/save-list/abc123xyz0", nil), -1)
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		defer resp.Body.Close()
		assertRedirect(t, resp, http.StatusFound, "/login")
	})

	t.Run("logged-in user claims the list", func(t *testing.T) {
		req := withSession(httptest.NewRequest("GET", "/save-list/abc123xyz0", nil))
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		defer resp.Body.Close()
		assertRedirect(t, resp, http.StatusFound, "/list/abc123xyz0")
	})
}

func TestUpdateList(t *testing.T) {
	renamed := ""
	todoPort := &mockTodoPort{
		renameListFunc: func(_ context.Context, shortlink, name string) (*todo.ListResponse, error) {
			renamed = name
			return &todo.ListResponse{Shortlink: shortlink, Name: name}, nil
		},
	}
	app := newTestWebApp(t, validatingAuth(), todoPort)

	resp, err := app.Test(formRequest("/update/abc123xyz0", "listname=Groceries"), -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()

	assertRedirect(t, resp, http.StatusSeeOther, "/list/abc123xyz0")
	if renamed != "Groceries" {
		t.Errorf("rename received %q, want %q", renamed, "Groceries")
	}
}

func TestDeleteList(t *testing.T) {
	todoPort := &mockTodoPort{
		deleteListFunc: func(_ context.Context, listID, userID string) error {
			switch listID {
			case "owned":
				return nil
			case "foreign":
				return todo.ErrNotListOwner
			}
			return todo.ErrListNotFound
		},
	}
	app := newTestWebApp(t, validatingAuth(), todoPort)

	t.Run("owner deletes and returns to my-lists", func(t *testing.T) {
		req := withSession(httptest.NewRequest("GET", "/delete/owned", nil))
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		defer resp.Body.Close()
		assertRedirect(t, resp, http.StatusFound, "/my-lists")
	})

	t.Run("non-owner gets 403", func(t *testing.T) {
		req := withSession(httptest.NewRequest("GET", "/delete/foreign", nil))
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("status = %d, want 403", resp.StatusCode)
		}
	})

	t.Run("missing list is a 404", func(t *testing.T) {
		req := withSession(httptest.NewRequest("GET", "/delete/missing", nil))
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("status = %d, want 404", resp.StatusCode)
		}
	})
}

func TestAddTask(t *testing.T) {
	var gotText, gotUserID string
	todoPort := &mockTodoPort{
		addTaskFunc: func(_ context.Context, listID, text, userID string) (*todo.TaskActionResponse, error) {
			gotText, gotUserID = text, userID
			return &todo.TaskActionResponse{Shortlink: "abc123xyz0"}, nil
		},
	}
	app := newTestWebApp(t, validatingAuth(), todoPort)

	t.Run("anonymous visitor can add", func(t *testing.T) {
		resp, err := app.Test(formRequest("/add-task/list-1", "task=buy+milk"), -1)
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		defer resp.Body.Close()

		assertRedirect(t, resp, http.StatusSeeOther, "/list/abc123xyz0")
		if gotText != "buy milk" || gotUserID != "" {
			t.Errorf("AddTask received text=%q userID=%q", gotText, gotUserID)
		}
	})

	t.Run("logged-in task carries identity", func(t *testing.T) {
		req := withSession(formRequest("/add-task/list-1", "task=walk+dog"))
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		defer resp.Body.Close()

		if gotUserID != "user-1" {
			t.Errorf("AddTask userID = %q, want user-1", gotUserID)
		}
	})

	t.Run("blank task is dropped without a service call", func(t *testing.T) {
		gotText = ""
		resp, err := app.Test(formRequest("/add-task/list-1", "task=++"), -1)
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusSeeOther {
			t.Errorf("status = %d, want 303", resp.StatusCode)
		}
		if gotText != "" {
			t.Errorf("blank task reached the service: %q", gotText)
		}
	})
}

func TestSetDueDate(t *testing.T) {
	todoPort := &mockTodoPort{
		setDueDateFunc: func(_ context.Context, taskID, dueDate string) (*todo.TaskActionResponse, error) {
			if dueDate == "garbage" {
				return nil, todo.ErrInvalidDate
			}
			return &todo.TaskActionResponse{Shortlink: "abc123xyz0"}, nil
		},
	}
	app := newTestWebApp(t, validatingAuth(), todoPort)

	t.Run("valid date redirects to the list", func(t *testing.T) {
		resp, err := app.Test(formRequest("/date/t1", "due_date=25-12-2026"), -1)
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		defer resp.Body.Close()
		assertRedirect(t, resp, http.StatusSeeOther, "/list/abc123xyz0")
	})

	t.Run("invalid date flashes and goes back", func(t *testing.T) {
		resp, err := app.Test(formRequest("/date/t1", "due_date=garbage"), -1)
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusSeeOther {
			t.Errorf("status = %d, want 303", resp.StatusCode)
		}
		if flash := flashValue(t, resp); !strings.Contains(flash, "DD-MM-YYYY") {
			t.Errorf("flash = %q, want a date-format notice", flash)
		}
	})
}

func TestTaskToggleAndDelete(t *testing.T) {
	todoPort := &mockTodoPort{
		toggleCompleteFunc: func(_ context.Context, taskID string) (*todo.TaskActionResponse, error) {
			if taskID == "missing" {
				return nil, todo.ErrTaskNotFound
			}
			return &todo.TaskActionResponse{Shortlink: "abc123xyz0"}, nil
		},
		toggleStarredFunc: func(_ context.Context, taskID string) (*todo.TaskActionResponse, error) {
			return &todo.TaskActionResponse{Shortlink: "abc123xyz0"}, nil
		},
		deleteTaskFunc: func(_ context.Context, taskID string) (*todo.DeleteTaskResponse, error) {
			return &todo.DeleteTaskResponse{Shortlink: "abc123xyz0"}, nil
		},
	}
	app := newTestWebApp(t, validatingAuth(), todoPort)

	for _, path := range []string{"/complete/t1", "/star/t1", "/delete-task/t1"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil), -1)
		if err != nil {
			t.Fatalf("app.Test(%s) error = %v", path, err)
		}
		assertRedirect(t, resp, http.StatusFound, "/list/abc123xyz0")
		resp.Body.Close()
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/complete/missing", nil), -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestHealth(t *testing.T) {
	app := newTestWebApp(t, &mockAuthPort{}, &mockTodoPort{})

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil), -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	assertBodyContains(t, resp, "healthy")
}
