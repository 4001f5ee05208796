package core

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultModelName = "gemini-1.5-pro"

// contentGenerator is the part of *genai.GenerativeModel LLMService uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// LLMService is the production Generator backed by the Gemini API.
type LLMService struct {
	client    *genai.Client
	model     contentGenerator
	modelName string
	logger    *slog.Logger
}

func NewLLMService(ctx context.Context, apiKey, modelName string, logger *slog.Logger) (*LLMService, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	if modelName == "" {
		modelName = defaultModelName
	}
	return &LLMService{
		client:    client,
		model:     client.GenerativeModel(modelName),
		modelName: modelName,
		logger:    logger,
	}, nil
}

func (s *LLMService) Close() {
	if s.client != nil {
		if err := s.client.Close(); err != nil {
			s.logger.Error("Error closing GenAI client", "error", err)
		} else {
			s.logger.Info("GenAI client closed")
		}
	}
}

// GenerateText sends a single-turn prompt and returns the text parts of the
// first candidate. A reply without candidates or parts yields an empty slice.
// Upstream errors are returned unwrapped so their text reaches the caller as is.
func (s *LLMService) GenerateText(ctx context.Context, prompt string) ([]string, error) {
	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		s.logger.Error("Gemini generate request failed", "model", s.modelName, "error", err)
		return nil, err
	}
	return textParts(resp, s.logger), nil
}

func textParts(resp *genai.GenerateContentResponse, logger *slog.Logger) []string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return []string{}
	}

	parts := make([]string, 0, len(resp.Candidates[0].Content.Parts))
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			parts = append(parts, string(txt))
		} else {
			logger.Warn("Gemini response part was not text", "type", fmt.Sprintf("%T", part))
		}
	}
	return parts
}
