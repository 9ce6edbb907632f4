// Package web holds the server-rendered pages.
package web

import (
	"embed"
	"html/template"

	"goalgrid/internal/models"
	"goalgrid/internal/tasks"
)

//go:embed templates/*.tmpl
var files embed.FS

const (
	BoardPage   = "board.tmpl"
	LoginPage   = "login.tmpl"
	SignupPage  = "signup.tmpl"
	ProfilePage = "profile.tmpl"
	ForgotPage  = "forgot.tmpl"
)

// Page is the data every template receives. Fields a page does not use
// stay zero.
type Page struct {
	Title       string
	User        *models.User
	Error       string
	Notice      string
	Username    string
	Description string
	Board       *tasks.Board
}

// Templates parses the embedded page set.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"priorityClass": priorityClass,
	}).ParseFS(files, "templates/*.tmpl")
}

func priorityClass(p models.Priority) string {
	switch p {
	case models.PriorityHigh:
		return "priority-high"
	case models.PriorityMedium:
		return "priority-medium"
	default:
		return "priority-low"
	}
}
