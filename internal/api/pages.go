package api

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/quizgen/quizgen/internal/auth"
	"github.com/quizgen/quizgen/internal/core"
	"github.com/quizgen/quizgen/internal/metrics"
)

type LoginForm struct {
	Email    string `validate:"required,max=150"`
	Password string `validate:"required"`
}

type SignupForm struct {
	Username string `validate:"required,max=150"`
	Email    string `validate:"required,max=150"`
	Password string `validate:"required"`
}

func (h *APIHandler) HomePage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "index.html", pageData{Title: "Home"})
}

func (h *APIHandler) AboutPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "about.html", pageData{Title: "About"})
}

func (h *APIHandler) QuestionPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "ques.html", pageData{Title: "Questions"})
}

func (h *APIHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if auth.IsAuthenticated(r.Context()) {
		http.Redirect(w, r, "/home", http.StatusFound)
		return
	}
	h.render(w, r, http.StatusOK, "login.html", pageData{Title: "Login", Next: r.URL.Query().Get("next")})
}

func (h *APIHandler) Login(w http.ResponseWriter, r *http.Request) {
	if auth.IsAuthenticated(r.Context()) {
		http.Redirect(w, r, "/home", http.StatusFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	form := LoginForm{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}
	next := r.PostFormValue("next")
	data := pageData{Title: "Login", Next: next, Form: formValues{Email: form.Email}}

	if err := h.validate.Struct(form); err != nil {
		data.Flashes = []Flash{{FlashDanger, validationMessage(err, "Email and password are required.")}}
		h.render(w, r, http.StatusBadRequest, "login.html", data)
		return
	}

	_, sess, err := h.authService.Login(r.Context(), form.Email, form.Password)
	if err != nil {
		if errors.Is(err, core.ErrInvalidCredentials) || errors.Is(err, core.ErrMissingCredentials) {
			metrics.RecordAuthEvent("login", metrics.OutcomeFailure)
			data.Flashes = []Flash{{FlashDanger, "Login failed. Check your email and password."}}
			h.render(w, r, http.StatusOK, "login.html", data)
			return
		}
		h.logger.Error("Error logging in", "error", err)
		http.Error(w, "Failed to log in", http.StatusInternalServerError)
		return
	}

	if err := h.sessions.SetSessionID(w, r, sess.ID); err != nil {
		h.logger.Error("Error saving session cookie", "error", err)
		http.Error(w, "Failed to log in", http.StatusInternalServerError)
		return
	}
	metrics.RecordAuthEvent("login", metrics.OutcomeSuccess)
	_ = h.sessions.AddFlash(w, r, FlashSuccess, "Login successful!")
	http.Redirect(w, r, safeNext(next), http.StatusFound)
}

func (h *APIHandler) SignupPage(w http.ResponseWriter, r *http.Request) {
	if auth.IsAuthenticated(r.Context()) {
		http.Redirect(w, r, "/home", http.StatusFound)
		return
	}
	h.render(w, r, http.StatusOK, "signup.html", pageData{Title: "Sign Up"})
}

func (h *APIHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if auth.IsAuthenticated(r.Context()) {
		http.Redirect(w, r, "/home", http.StatusFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	form := SignupForm{
		Username: r.PostFormValue("username"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}
	data := pageData{Title: "Sign Up", Form: formValues{Username: form.Username, Email: form.Email}}
	const missingMsg = "Username, email, and password are required."

	if err := h.validate.Struct(form); err != nil {
		data.Flashes = []Flash{{FlashDanger, validationMessage(err, missingMsg)}}
		h.render(w, r, http.StatusBadRequest, "signup.html", data)
		return
	}

	_, err := h.authService.Signup(r.Context(), form.Username, form.Email, form.Password)
	switch {
	case errors.Is(err, core.ErrUserExists):
		metrics.RecordAuthEvent("signup", metrics.OutcomeFailure)
		_ = h.sessions.AddFlash(w, r, FlashDanger, "Email or username already exists. Please log in or use different credentials.")
		http.Redirect(w, r, "/signup", http.StatusFound)
		return
	case errors.Is(err, auth.ErrPasswordTooLong):
		data.Flashes = []Flash{{FlashDanger, "Password must be at most 72 bytes."}}
		h.render(w, r, http.StatusBadRequest, "signup.html", data)
		return
	case errors.Is(err, core.ErrMissingCredentials):
		data.Flashes = []Flash{{FlashDanger, missingMsg}}
		h.render(w, r, http.StatusBadRequest, "signup.html", data)
		return
	case err != nil:
		h.logger.Error("Error signing up", "error", err)
		http.Error(w, "Failed to create account", http.StatusInternalServerError)
		return
	}

	metrics.RecordAuthEvent("signup", metrics.OutcomeSuccess)
	_ = h.sessions.AddFlash(w, r, FlashSuccess, "Account created successfully. Please log in.")
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (h *APIHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.Logout(r.Context(), h.sessions.SessionID(r)); err != nil {
		// The cookie is cleared regardless; the janitor or TTL removes the record.
		h.logger.Error("Error deleting session", "error", err)
	}
	_ = h.sessions.Clear(w, r)

	metrics.RecordAuthEvent("logout", metrics.OutcomeSuccess)
	_ = h.sessions.AddFlash(w, r, FlashInfo, "You have been logged out.")
	http.Redirect(w, r, "/home", http.StatusFound)
}

// validationMessage returns a length hint for max violations and fallback
// for everything else.
func validationMessage(err error, fallback string) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Tag() == "max" {
				return fe.Field() + " must be at most " + fe.Param() + " characters."
			}
		}
	}
	return fallback
}
