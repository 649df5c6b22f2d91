package service

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/pageza/mealtracker/backend/config"
)

// GeminiModel is the ReportModel backed by the Gemini API.
type GeminiModel struct {
	client      *genai.Client
	model       string
	temperature float32
}

// NewGeminiModel returns ErrModelNotConfigured when apiKey is empty.
func NewGeminiModel(ctx context.Context, apiKey, model string, temperature float32) (*GeminiModel, error) {
	if apiKey == "" {
		return nil, ErrModelNotConfigured
	}
	if model == "" {
		model = config.DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiModel{
		client:      client,
		model:       model,
		temperature: temperature,
	}, nil
}

func (m *GeminiModel) GenerateReport(ctx context.Context, prompt Prompt, schema *genai.Schema) (string, error) {
	temperature := m.temperature
	genConfig := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(prompt.System, genai.RoleUser),
		Temperature:       &temperature,
		ResponseMIMEType:  "application/json",
		ResponseSchema:    schema,
	}

	resp, err := m.client.Models.GenerateContent(ctx,
		m.model,
		[]*genai.Content{genai.NewContentFromText(prompt.User, genai.RoleUser)},
		genConfig,
	)
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", errors.New("GenAI returned no content")
	}
	return text, nil
}
