package core

import (
	"context"
	"errors"
	"log/slog"

	"github.com/quizgen/quizgen/internal/utils"
)

var (
	ErrMissingInput = errors.New("missing required input")
	ErrEmptyReply   = errors.New("generator returned no content")
)

// Generator sends one prompt to a text-generation model and returns the text
// fragments of its reply in order.
type Generator interface {
	GenerateText(ctx context.Context, prompt string) ([]string, error)
}

type GenerationService struct {
	generator Generator
	logger    *slog.Logger
}

func NewGenerationService(generator Generator, logger *slog.Logger) *GenerationService {
	return &GenerationService{
		generator: generator,
		logger:    logger,
	}
}

func (s *GenerationService) GenerateQuestion(ctx context.Context, content string) (string, error) {
	if blank(content) {
		return "", ErrMissingInput
	}

	parts, err := s.generate(ctx, "question", questionPrompt(content))
	if err != nil {
		return "", err
	}
	return utils.FirstTrimmed(parts), nil
}

// GenerateFlashcards returns every non-empty fragment of the reply. The model
// is asked for three cards but the count is not enforced.
func (s *GenerationService) GenerateFlashcards(ctx context.Context, content string) ([]string, error) {
	if blank(content) {
		return nil, ErrMissingInput
	}

	parts, err := s.generate(ctx, "flashcards", flashcardsPrompt(content))
	if err != nil {
		return nil, err
	}
	return utils.TrimmedNonEmpty(parts), nil
}

func (s *GenerationService) CheckAnswer(ctx context.Context, content, question, answer string) (string, error) {
	if blank(answer) || blank(content) || blank(question) {
		return "", ErrMissingInput
	}

	parts, err := s.generate(ctx, "check_answer", checkAnswerPrompt(content, question, answer))
	if err != nil {
		return "", err
	}
	// The prompt forbids emphasis but the model does not always comply.
	return utils.StripEmphasis(utils.FirstTrimmed(parts)), nil
}

func (s *GenerationService) generate(ctx context.Context, kind, prompt string) ([]string, error) {
	parts, err := s.generator.GenerateText(ctx, prompt)
	if err != nil {
		s.logger.Error("Generation failed", "kind", kind, "error", err)
		return nil, err
	}
	if len(parts) == 0 {
		s.logger.Warn("Generation returned no parts", "kind", kind)
		return nil, ErrEmptyReply
	}
	return parts, nil
}
