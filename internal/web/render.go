package web

import (
	"embed"
	"fmt"
	"html/template"

	"docsign_web/internal/audit"
	"docsign_web/internal/common"
	"docsign_web/internal/shared"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	pageHome      = "home"
	pageSignUp    = "signup"
	pageLogin     = "login"
	pageDashboard = "dashboard"
)

var funcs = template.FuncMap{
	"isError": common.IsErrorMessage,
	"label":   func(a audit.Action) string { return a.Label() },
}

// pageData is what every template receives. The password is never part of it.
type pageData struct {
	Title     string
	Wide      bool
	CSRFToken string
	Session   *shared.Session
	Email     string
	Message   string
	Activity  []audit.EventResponse
}

// parsePages builds one template set per page, each sharing the layout.
func parsePages() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template)
	for _, name := range []string{pageHome, pageSignUp, pageLogin, pageDashboard} {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		pages[name] = t
	}
	return pages, nil
}
