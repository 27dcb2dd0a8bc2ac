package web

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/example/todo-lists-demo/modules/auth"
	"github.com/example/todo-lists-demo/modules/todo"
)

// Handlers implements the server-rendered routes on top of the auth
// and todo ports.
type Handlers struct {
	auth  auth.AuthPort
	todo  todo.TodoPort
	views *Views
}

// NewHandlers creates the route handlers.
func NewHandlers(authPort auth.AuthPort, todoPort todo.TodoPort, views *Views) *Handlers {
	return &Handlers{
		auth:  authPort,
		todo:  todoPort,
		views: views,
	}
}

// pageData builds the base template data for the current request.
func (h *Handlers) pageData(c *fiber.Ctx, title string) PageData {
	return PageData{
		Title: title,
		User:  identityFromCtx(c),
		Flash: takeFlash(c),
	}
}

// Home garbage-collects unclaimed lists and sends the visitor to a
// fresh one. A failed sweep is logged but never blocks the visit.
func (h *Handlers) Home(c *fiber.Ctx) error {
	removed, err := h.todo.SweepUnclaimed(c.UserContext())
	if err != nil {
		log.Printf("[web] Sweep of unclaimed lists failed: %v", err)
	} else if removed > 0 {
		log.Printf("[web] Swept %d unclaimed lists", removed)
	}
	return c.Redirect("/new-list", fiber.StatusFound)
}

// NewList creates an anonymous list and opens it.
func (h *Handlers) NewList(c *fiber.Ctx) error {
	list, err := h.todo.CreateList(c.UserContext())
	if err != nil {
		return err
	}
	return c.Redirect("/list/"+list.Shortlink, fiber.StatusFound)
}

// ShowRegister renders the registration form.
func (h *Handlers) ShowRegister(c *fiber.Ctx) error {
	if identityFromCtx(c) != nil {
		return c.Redirect("/my-lists", fiber.StatusFound)
	}
	return h.views.Render(c, fiber.StatusOK, "register", h.pageData(c, "Register"))
}

// Register creates an account and logs the new user in.
func (h *Handlers) Register(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.FormValue("name"))
	email := strings.TrimSpace(c.FormValue("email"))
	password := c.FormValue("password")

	if name == "" || email == "" || password == "" {
		setFlash(c, "All fields are required.")
		return c.Redirect("/register", fiber.StatusSeeOther)
	}

	session, err := h.auth.Register(c.UserContext(), name, email, password)
	if err != nil {
		setFlash(c, registerFailureNotice(err))
		// An already-registered email belongs on the login page.
		if errors.Is(err, auth.ErrEmailExists) {
			return c.Redirect("/login", fiber.StatusSeeOther)
		}
		return c.Redirect("/register", fiber.StatusSeeOther)
	}

	setSessionCookie(c, session.SessionToken)
	return c.Redirect("/my-lists", fiber.StatusSeeOther)
}

// ShowLogin renders the login form.
func (h *Handlers) ShowLogin(c *fiber.Ctx) error {
	if identityFromCtx(c) != nil {
		return c.Redirect("/my-lists", fiber.StatusFound)
	}
	return h.views.Render(c, fiber.StatusOK, "login", h.pageData(c, "Log in"))
}

// Login authenticates and starts a session.
func (h *Handlers) Login(c *fiber.Ctx) error {
	email := strings.TrimSpace(c.FormValue("email"))
	password := c.FormValue("password")

	session, err := h.auth.Login(c.UserContext(), email, password)
	if err != nil {
		setFlash(c, loginFailureNotice(err))
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	setSessionCookie(c, session.SessionToken)
	return c.Redirect("/my-lists", fiber.StatusSeeOther)
}

// Logout ends the session. Landing on the home page afterwards also
// runs the unclaimed-list sweep.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	clearSessionCookie(c)
	setFlash(c, "You have been logged out.")
	return c.Redirect("/", fiber.StatusFound)
}

// MyLists shows the lists saved to the logged-in account.
func (h *Handlers) MyLists(c *fiber.Ctx) error {
	identity := identityFromCtx(c)

	resp, err := h.todo.ListsForUser(c.UserContext(), identity.UserID)
	if err != nil {
		return err
	}

	return h.views.Render(c, fiber.StatusOK, "my-lists", MyListsPageData{
		PageData: h.pageData(c, "My lists"),
		Lists:    resp.Lists,
	})
}

// ShowList renders a list and its tasks.
func (h *Handlers) ShowList(c *fiber.Ctx) error {
	list, err := h.todo.GetList(c.UserContext(), c.Params("shortlink"))
	if err != nil {
		if errors.Is(err, todo.ErrListNotFound) {
			return h.renderNotFound(c)
		}
		return err
	}

	for i := range list.Tasks {
		list.Tasks[i].DueDate = formatDueDate(list.Tasks[i].DueDate)
	}

	return h.views.Render(c, fiber.StatusOK, "list", ListPageData{
		PageData: h.pageData(c, list.Name),
		List:     *list,
		Today:    todo.Today(),
	})
}

// SaveList claims the list for the logged-in account.
func (h *Handlers) SaveList(c *fiber.Ctx) error {
	identity := identityFromCtx(c)
	shortlink := c.Params("shortlink")

	if _, err := h.todo.SaveList(c.UserContext(), shortlink, identity.UserID); err != nil {
		if errors.Is(err, todo.ErrListNotFound) {
			return h.renderNotFound(c)
		}
		return err
	}

	setFlash(c, "List saved to your account.")
	return c.Redirect("/list/"+shortlink, fiber.StatusFound)
}

// UpdateList renames a list.
func (h *Handlers) UpdateList(c *fiber.Ctx) error {
	shortlink := c.Params("shortlink")

	if _, err := h.todo.RenameList(c.UserContext(), shortlink, c.FormValue("listname")); err != nil {
		if errors.Is(err, todo.ErrListNotFound) {
			return h.renderNotFound(c)
		}
		return err
	}

	return c.Redirect("/list/"+shortlink, fiber.StatusSeeOther)
}

// DeleteList removes a list the user owns.
func (h *Handlers) DeleteList(c *fiber.Ctx) error {
	identity := identityFromCtx(c)

	err := h.todo.DeleteList(c.UserContext(), c.Params("listID"), identity.UserID)
	if err != nil {
		switch {
		case errors.Is(err, todo.ErrListNotFound):
			return h.renderNotFound(c)
		case errors.Is(err, todo.ErrNotListOwner):
			return h.views.Render(c, fiber.StatusForbidden, "forbidden", h.pageData(c, "Not allowed"))
		}
		return err
	}

	setFlash(c, "List deleted.")
	return c.Redirect("/my-lists", fiber.StatusFound)
}

// AddTask appends a task to a list.
func (h *Handlers) AddTask(c *fiber.Ctx) error {
	text := strings.TrimSpace(c.FormValue("task"))
	if text == "" {
		return c.Redirect(backTo(c), fiber.StatusSeeOther)
	}

	userID := ""
	if identity := identityFromCtx(c); identity != nil {
		userID = identity.UserID
	}

	resp, err := h.todo.AddTask(c.UserContext(), c.Params("listID"), text, userID)
	if err != nil {
		if errors.Is(err, todo.ErrListNotFound) {
			return h.renderNotFound(c)
		}
		return err
	}

	return c.Redirect("/list/"+resp.Shortlink, fiber.StatusSeeOther)
}

// SetDueDate assigns or clears a task's due date.
func (h *Handlers) SetDueDate(c *fiber.Ctx) error {
	resp, err := h.todo.SetDueDate(c.UserContext(), c.Params("taskID"), strings.TrimSpace(c.FormValue("due_date")))
	if err != nil {
		switch {
		case errors.Is(err, todo.ErrInvalidDate):
			setFlash(c, "Dates must be DD-MM-YYYY.")
			return c.Redirect(backTo(c), fiber.StatusSeeOther)
		case errors.Is(err, todo.ErrTaskNotFound):
			return h.renderNotFound(c)
		}
		return err
	}

	return c.Redirect("/list/"+resp.Shortlink, fiber.StatusSeeOther)
}

// CompleteTask toggles a task's completion flag.
func (h *Handlers) CompleteTask(c *fiber.Ctx) error {
	resp, err := h.todo.ToggleComplete(c.UserContext(), c.Params("taskID"))
	if err != nil {
		if errors.Is(err, todo.ErrTaskNotFound) {
			return h.renderNotFound(c)
		}
		return err
	}
	return c.Redirect("/list/"+resp.Shortlink, fiber.StatusFound)
}

// StarTask toggles a task's starred flag.
func (h *Handlers) StarTask(c *fiber.Ctx) error {
	resp, err := h.todo.ToggleStarred(c.UserContext(), c.Params("taskID"))
	if err != nil {
		if errors.Is(err, todo.ErrTaskNotFound) {
			return h.renderNotFound(c)
		}
		return err
	}
	return c.Redirect("/list/"+resp.Shortlink, fiber.StatusFound)
}

// DeleteTask removes a task.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	resp, err := h.todo.DeleteTask(c.UserContext(), c.Params("taskID"))
	if err != nil {
		if errors.Is(err, todo.ErrTaskNotFound) {
			return h.renderNotFound(c)
		}
		return err
	}
	return c.Redirect("/list/"+resp.Shortlink, fiber.StatusFound)
}

// renderNotFound renders the shared 404 page.
func (h *Handlers) renderNotFound(c *fiber.Ctx) error {
	return h.views.Render(c, fiber.StatusNotFound, "not-found", h.pageData(c, "Not found"))
}

// backTo returns the page the form was submitted from, falling back to
// the home page.
func backTo(c *fiber.Ctx) string {
	if referer := c.Get(fiber.HeaderReferer); referer != "" {
		return referer
	}
	return "/"
}

// registerFailureNotice maps a registration error to a user-facing
// notice.
func registerFailureNotice(err error) string {
	switch {
	case errors.Is(err, auth.ErrEmailExists):
		return "That email is already registered. Try logging in instead."
	case errors.Is(err, auth.ErrInvalidEmail):
		return "That email address does not look valid."
	case errors.Is(err, auth.ErrPasswordTooLong):
		return "That password is too long."
	}
	return "Registration failed. Please try again."
}

// loginFailureNotice maps a login error to a user-facing notice. An
// unknown email and a wrong password give different messages.
func loginFailureNotice(err error) string {
	switch {
	case errors.Is(err, auth.ErrUserNotFound):
		return "No account uses that email address."
	case errors.Is(err, auth.ErrInvalidPassword):
		return "That password is incorrect."
	}
	return "Login failed. Please try again."
}

// formatDueDate converts a stored YYYY-MM-DD due date to the DD-MM-YYYY
// form shown on the page. Unparseable values pass through unchanged.
func formatDueDate(stored string) string {
	if stored == "" {
		return ""
	}
	parsed, err := time.Parse("2006-01-02", stored)
	if err != nil {
		return stored
	}
	return parsed.Format("02-01-2006")
}
