package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/quizgen/quizgen/internal/auth"
	"github.com/quizgen/quizgen/internal/core"
	"github.com/quizgen/quizgen/internal/metrics"
)

type APIHandler struct {
	authService       *core.AuthService
	generationService *core.GenerationService
	sessions          *SessionManager
	tokenSecret       []byte
	tokenTTL          time.Duration
	validate          *validator.Validate
	templates         map[string]*template.Template
	logger            *slog.Logger
}

func NewAPIHandler(as *core.AuthService, gs *core.GenerationService, sm *SessionManager,
	tokenSecret []byte, tokenTTL time.Duration, logger *slog.Logger) (*APIHandler, error) {
	templates, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &APIHandler{
		authService:       as,
		generationService: gs,
		sessions:          sm,
		tokenSecret:       tokenSecret,
		tokenTTL:          tokenTTL,
		validate:          validator.New(),
		templates:         templates,
		logger:            logger,
	}, nil
}

type GenerateRequest struct {
	Content string `json:"content"`
}

type QuestionResponse struct {
	Question string `json:"question"`
}

type FlashcardsResponse struct {
	Flashcards []string `json:"flashcards"`
}

type CheckAnswerRequest struct {
	Answer   string `json:"answer"`
	Content  string `json:"content"`
	Question string `json:"question"`
}

type CheckAnswerResponse struct {
	Result string `json:"result"`
}

// generationMessages are the user-facing texts for one generation endpoint.
type generationMessages struct {
	kind    string
	missing string
	empty   string
}

var (
	questionMessages = generationMessages{
		kind:    "question",
		missing: "Content is required to generate a question.",
		empty:   "No valid question could be generated.",
	}
	flashcardsMessages = generationMessages{
		kind:    "flashcards",
		missing: "Content is required to generate flashcards.",
		empty:   "No valid flashcards could be generated.",
	}
	checkAnswerMessages = generationMessages{
		kind:    "check_answer",
		missing: "Answer, content, and question are required.",
		empty:   "No valid response could be generated.",
	}
)

func (h *APIHandler) GenerateQuestionHandler(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeGenerationError(w, questionMessages, core.ErrMissingInput)
		return
	}

	question, err := h.generationService.GenerateQuestion(r.Context(), req.Content)
	if err != nil {
		h.writeGenerationError(w, questionMessages, err)
		return
	}

	metrics.RecordGeneration(questionMessages.kind, metrics.OutcomeSuccess)
	writeJSON(w, http.StatusOK, QuestionResponse{Question: question})
}

func (h *APIHandler) GenerateFlashcardsHandler(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeGenerationError(w, flashcardsMessages, core.ErrMissingInput)
		return
	}

	flashcards, err := h.generationService.GenerateFlashcards(r.Context(), req.Content)
	if err != nil {
		h.writeGenerationError(w, flashcardsMessages, err)
		return
	}

	metrics.RecordGeneration(flashcardsMessages.kind, metrics.OutcomeSuccess)
	writeJSON(w, http.StatusOK, FlashcardsResponse{Flashcards: flashcards})
}

func (h *APIHandler) CheckAnswerHandler(w http.ResponseWriter, r *http.Request) {
	var req CheckAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeGenerationError(w, checkAnswerMessages, core.ErrMissingInput)
		return
	}

	result, err := h.generationService.CheckAnswer(r.Context(), req.Content, req.Question, req.Answer)
	if err != nil {
		h.writeGenerationError(w, checkAnswerMessages, err)
		return
	}

	metrics.RecordGeneration(checkAnswerMessages.kind, metrics.OutcomeSuccess)
	writeJSON(w, http.StatusOK, CheckAnswerResponse{Result: result})
}

// writeGenerationError maps a generation failure to its status code. Upstream
// errors are passed through verbatim.
func (h *APIHandler) writeGenerationError(w http.ResponseWriter, msgs generationMessages, err error) {
	switch {
	case errors.Is(err, core.ErrMissingInput):
		metrics.RecordGeneration(msgs.kind, metrics.OutcomeInvalid)
		writeError(w, http.StatusBadRequest, msgs.missing)
	case errors.Is(err, core.ErrEmptyReply):
		metrics.RecordGeneration(msgs.kind, metrics.OutcomeEmpty)
		writeError(w, http.StatusBadRequest, msgs.empty)
	default:
		metrics.RecordGeneration(msgs.kind, metrics.OutcomeFailure)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

type TokenRequest struct {
	Email    string `json:"email" validate:"required,max=150"`
	Password string `json:"password" validate:"required"`
}

type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

// TokenHandler exchanges credentials for a bearer token accepted by the
// session-gated routes.
func (h *APIHandler) TokenHandler(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.authService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, core.ErrInvalidCredentials) || errors.Is(err, core.ErrMissingCredentials) {
			metrics.RecordAuthEvent("token", metrics.OutcomeFailure)
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		h.logger.Error("Error authenticating token request", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to authenticate")
		return
	}

	token, err := auth.GenerateJWT(h.tokenSecret, user.ID, h.tokenTTL)
	if err != nil {
		h.logger.Error("Error generating JWT", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	metrics.RecordAuthEvent("token", metrics.OutcomeSuccess)
	writeJSON(w, http.StatusOK, TokenResponse{Token: token, ExpiresIn: int64(h.tokenTTL.Seconds())})
}

func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
