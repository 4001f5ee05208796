package api

import (
	"embed"
	"encoding/json"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/quizgen/quizgen/internal/auth"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

type pageData struct {
	Title         string
	Authenticated bool
	Username      string
	Flashes       []Flash
	Next          string
	Form          formValues
}

// formValues refills a form after a failed submission. Passwords are never
// echoed back.
type formValues struct {
	Username string
	Email    string
}

func parseTemplates() (map[string]*template.Template, error) {
	pages := []string{"index.html", "login.html", "signup.html", "ques.html", "about.html"}
	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		tmpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, err
		}
		templates[page] = tmpl
	}
	return templates, nil
}

func staticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

// render executes a page inside the shared layout. Pending flashes from the
// cookie are shown before the ones added for this response.
func (h *APIHandler) render(w http.ResponseWriter, r *http.Request, status int, page string, data pageData) {
	tmpl, ok := h.templates[page]
	if !ok {
		h.logger.Error("Unknown template", "page", page)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}

	if user, ok := auth.UserFromContext(r.Context()); ok {
		data.Authenticated = true
		data.Username = user.Username
	}
	data.Flashes = append(h.sessions.Flashes(w, r), data.Flashes...)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		h.logger.Error("Template error", "page", page, "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
