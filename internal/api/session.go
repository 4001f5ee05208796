package api

import (
	"encoding/gob"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/sessions"

	"github.com/quizgen/quizgen/internal/auth"
	"github.com/quizgen/quizgen/internal/core"
	"github.com/quizgen/quizgen/internal/store"
)

const (
	SessionCookieName = "quizgen_session"
	flashCookieName   = "quizgen_flash"
	sessionIDKey      = "session_id"
)

// Flash categories used by the templates.
const (
	FlashSuccess = "success"
	FlashDanger  = "danger"
	FlashInfo    = "info"
)

type Flash struct {
	Category string
	Message  string
}

func init() {
	gob.Register(Flash{})
}

// SessionManager stores the opaque session id and pending flash messages in
// signed cookies. The session record itself lives server-side.
type SessionManager struct {
	store  *sessions.CookieStore
	ttl    time.Duration
	secure bool
}

func NewSessionManager(secret []byte, ttl time.Duration, secure bool) *SessionManager {
	cs := sessions.NewCookieStore(secret)
	cs.MaxAge(int(ttl.Seconds()))
	cs.Options.Path = "/"
	cs.Options.HttpOnly = true
	cs.Options.Secure = secure
	cs.Options.SameSite = http.SameSiteLaxMode
	return &SessionManager{store: cs, ttl: ttl, secure: secure}
}

// SessionID returns the id carried by the session cookie, or "" when the
// cookie is missing or fails signature checks.
func (m *SessionManager) SessionID(r *http.Request) string {
	session, err := m.store.Get(r, SessionCookieName)
	if err != nil {
		return ""
	}
	id, _ := session.Values[sessionIDKey].(string)
	return id
}

func (m *SessionManager) SetSessionID(w http.ResponseWriter, r *http.Request, id string) error {
	session, _ := m.store.Get(r, SessionCookieName)
	session.Values[sessionIDKey] = id
	session.Options.MaxAge = int(m.ttl.Seconds())
	return session.Save(r, w)
}

func (m *SessionManager) Clear(w http.ResponseWriter, r *http.Request) error {
	session, _ := m.store.Get(r, SessionCookieName)
	delete(session.Values, sessionIDKey)
	session.Options.MaxAge = -1
	return session.Save(r, w)
}

func (m *SessionManager) flashSession(r *http.Request) *sessions.Session {
	session, _ := m.store.Get(r, flashCookieName)
	// Flashes survive one redirect, not the whole login lifetime.
	session.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
	return session
}

func (m *SessionManager) AddFlash(w http.ResponseWriter, r *http.Request, category, message string) error {
	session := m.flashSession(r)
	session.AddFlash(Flash{Category: category, Message: message})
	return session.Save(r, w)
}

// Flashes pops every pending flash. It writes a cookie, so call it before the
// response body.
func (m *SessionManager) Flashes(w http.ResponseWriter, r *http.Request) []Flash {
	session := m.flashSession(r)
	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	_ = session.Save(r, w)

	flashes := make([]Flash, 0, len(raw))
	for _, v := range raw {
		if f, ok := v.(Flash); ok {
			flashes = append(flashes, f)
		}
	}
	return flashes
}

// LoadSession attaches the signed-in user, if any, without requiring one.
func (h *APIHandler) LoadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := h.sessions.SessionID(r)
		if sessionID != "" {
			user, err := h.authService.ResolveSession(r.Context(), sessionID)
			if err == nil {
				r = r.WithContext(auth.WithUser(r.Context(), user))
			} else if !errors.Is(err, core.ErrSessionInvalid) {
				h.logger.Error("Failed to resolve session", "error", err)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSession gates a route on a live login session. API clients may send
// a bearer token from /api/token instead and get 401 rather than a redirect.
func (h *APIHandler) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token, ok := bearerToken(r); ok {
			user, ok := h.userFromToken(w, r, token)
			if !ok {
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), user)))
			return
		}

		sessionID := h.sessions.SessionID(r)
		user, err := h.authService.ResolveSession(r.Context(), sessionID)
		if err != nil {
			if !errors.Is(err, core.ErrSessionInvalid) {
				h.logger.Error("Failed to resolve session", "error", err)
				http.Error(w, "Failed to load session", http.StatusInternalServerError)
				return
			}
			if sessionID != "" {
				// Stale cookie: the server-side session expired or was removed.
				_ = h.sessions.Clear(w, r)
			}
			h.redirectToLogin(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), user)))
	})
}

func (h *APIHandler) userFromToken(w http.ResponseWriter, r *http.Request, token string) (*store.User, bool) {
	userID, err := auth.ValidateJWT(h.tokenSecret, token)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return nil, false
	}
	user, err := h.authService.ResolveUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, core.ErrSessionInvalid) {
			writeError(w, http.StatusUnauthorized, "User not found")
			return nil, false
		}
		h.logger.Error("Failed to resolve token user", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to process user identity")
		return nil, false
	}
	return user, true
}

// questionPage hosts the forms behind the POST-only generation endpoints.
const questionPage = "/question"

// redirectToLogin sends the client to the login page. Only GET and HEAD
// targets are replayable after login, so other methods resume at questionPage.
func (h *APIHandler) redirectToLogin(w http.ResponseWriter, r *http.Request) {
	_ = h.sessions.AddFlash(w, r, FlashInfo, "Please log in to access this page.")
	next := r.URL.RequestURI()
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		next = questionPage
	}
	http.Redirect(w, r, "/login?next="+url.QueryEscape(next), http.StatusFound)
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")), true
}

// safeNext only allows redirects to paths on this site.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/home"
	}
	u, err := url.Parse(next)
	if err != nil || u.IsAbs() || u.Host != "" {
		return "/home"
	}
	return next
}
