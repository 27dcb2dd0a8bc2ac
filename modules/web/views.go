package web

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/gofiber/fiber/v2"

	user "github.com/example/todo-lists-demo/domain/user"
	"github.com/example/todo-lists-demo/modules/todo"
)

// PageData carries the fields every page template needs.
type PageData struct {
	Title string
	User  *user.Identity
	Flash string
}

// ListPageData renders a single list with its tasks.
type ListPageData struct {
	PageData
	List  todo.ListResponse
	Today string
}

// MyListsPageData renders the lists a user has saved.
type MyListsPageData struct {
	PageData
	Lists []todo.ListResponse
}

// Views holds the parsed page templates.
type Views struct {
	tmpl *template.Template
}

// NewViews parses all page templates.
func NewViews() (*Views, error) {
	tmpl := template.New("views")
	for name, text := range pageTemplates {
		if _, err := tmpl.New(name).Parse(text); err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
	}
	return &Views{tmpl: tmpl}, nil
}

// Render executes a page template into the response. Rendering into a
// buffer first keeps a template error from producing a half-written page.
func (v *Views) Render(c *fiber.Ctx, status int, name string, data any) error {
	var buf bytes.Buffer
	if err := v.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(status).Send(buf.Bytes())
}

var pageTemplates = map[string]string{
	"header": `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; max-width: 640px; margin: 2rem auto; padding: 0 1rem; color: #222; }
nav { display: flex; gap: 1rem; margin-bottom: 1.5rem; border-bottom: 1px solid #ddd; padding-bottom: .75rem; }
nav a { text-decoration: none; color: #06c; }
.flash { background: #fffbe6; border: 1px solid #e6d780; padding: .5rem .75rem; margin-bottom: 1rem; }
ul.tasks { list-style: none; padding: 0; }
ul.tasks li { display: flex; align-items: center; gap: .5rem; padding: .35rem 0; border-bottom: 1px solid #eee; }
.done { text-decoration: line-through; color: #999; }
.task-text { flex: 1; }
form.inline { display: inline; margin: 0; }
input[type=date], input[type=text] { padding: .2rem; }
.muted { color: #888; font-size: .85rem; }
</style>
</head>
<body>
<nav>
<a href="/new-list">New list</a>
{{if .User}}<a href="/my-lists">My lists</a><a href="/logout">Log out ({{.User.Name}})</a>{{else}}<a href="/login">Log in</a><a href="/register">Register</a>{{end}}
</nav>
{{if .Flash}}<div class="flash">{{.Flash}}</div>{{end}}
`,

	"footer": `</body>
</html>
`,

	"login": `{{template "header" .}}
<h1>Log in</h1>
<form method="post" action="/login">
<p><label>Email<br><input type="text" name="email" required></label></p>
<p><label>Password<br><input type="password" name="password" required></label></p>
<p><button type="submit">Log in</button></p>
</form>
<p class="muted">No account yet? <a href="/register">Register</a>.</p>
{{template "footer" .}}`,

	"register": `{{template "header" .}}
<h1>Register</h1>
<form method="post" action="/register">
<p><label>Name<br><input type="text" name="name" required></label></p>
<p><label>Email<br><input type="text" name="email" required></label></p>
<p><label>Password<br><input type="password" name="password" required></label></p>
<p><button type="submit">Create account</button></p>
</form>
<p class="muted">Already registered? <a href="/login">Log in</a>.</p>
{{template "footer" .}}`,

	"my-lists": `{{template "header" .}}
<h1>My lists</h1>
{{if .Lists}}
<ul class="tasks">
{{range .Lists}}
<li><a class="task-text" href="/list/{{.Shortlink}}">{{.Name}}</a><a href="/delete/{{.ID}}" title="Delete list">&#10005;</a></li>
{{end}}
</ul>
{{else}}
<p>You have no saved lists yet. <a href="/new-list">Start one</a> and save it.</p>
{{end}}
{{template "footer" .}}`,

	"list": `{{template "header" .}}
<form method="post" action="/update/{{.List.Shortlink}}">
<h1><input type="text" name="listname" value="{{.List.Name}}"> <button type="submit">Rename</button></h1>
</form>
<p class="muted">Share this list: /list/{{.List.Shortlink}} &middot; Today is {{.Today}}</p>
{{if and .User (not .List.UserID)}}<p><a href="/save-list/{{.List.Shortlink}}">Save this list to your account</a></p>{{end}}
<ul class="tasks">
{{range .List.Tasks}}
<li>
<a href="/complete/{{.ID}}" title="Toggle complete">{{if .Complete}}&#9745;{{else}}&#9744;{{end}}</a>
<span class="task-text{{if .Complete}} done{{end}}">{{.Text}}</span>
<a href="/star/{{.ID}}" title="Toggle star">{{if .Starred}}&#9733;{{else}}&#9734;{{end}}</a>
<form class="inline" method="post" action="/date/{{.ID}}">
<input type="text" name="due_date" size="10" placeholder="DD-MM-YYYY" value="{{.DueDate}}">
<button type="submit">Set date</button>
</form>
<a href="/delete-task/{{.ID}}" title="Delete task">&#10005;</a>
</li>
{{end}}
</ul>
<form method="post" action="/add-task/{{.List.ID}}">
<input type="text" name="task" placeholder="Add a task" required>
<button type="submit">Add</button>
</form>
{{template "footer" .}}`,

	"not-found": `{{template "header" .}}
<h1>Not found</h1>
<p>That page does not exist. The list may have been deleted or never saved.</p>
<p><a href="/new-list">Start a new list</a></p>
{{template "footer" .}}`,

	"forbidden": `{{template "header" .}}
<h1>Not allowed</h1>
<p>This list belongs to another account.</p>
<p><a href="/my-lists">Back to my lists</a></p>
{{template "footer" .}}`,

	"error": `{{template "header" .}}
<h1>Something went wrong</h1>
<p>The request could not be completed. Please try again.</p>
{{template "footer" .}}`,
}
