// Package gemini implements the AI client port on the Google Gemini API.
package gemini

import (
	"context"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/mealsync/api/internal/infrastructure/config"
	"github.com/mealsync/api/internal/ports/outbound"
	apperrors "github.com/mealsync/api/pkg/errors"
)

// Client is a Gemini-backed implementation of the AI client port.
type Client struct {
	client         *genai.Client
	defaultModel   string
	maxTokens      int32
	requestTimeout time.Duration
	logger         *zap.Logger
}

// NewClient creates a new Gemini API client.
func NewClient(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.AI.APIKey))
	if err != nil {
		return nil, apperrors.NewExternalService("gemini", err)
	}
	return &Client{
		client:         client,
		defaultModel:   cfg.AI.Model,
		maxTokens:      cfg.AI.MaxOutputTokens,
		requestTimeout: cfg.AI.RequestTimeout,
		logger:         logger,
	}, nil
}

// GenerateText sends the prompt to Gemini and returns the raw model output.
func (c *Client) GenerateText(ctx context.Context, prompt string, opts outbound.GenerateOptions) (string, error) {
	modelName := c.defaultModel
	if opts.Model != "" {
		modelName = opts.Model
	}

	if c.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.requestTimeout)
		defer cancel()
	}

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(opts.Temperature)
	if opts.MaxOutputTokens > 0 {
		model.SetMaxOutputTokens(opts.MaxOutputTokens)
	} else if c.maxTokens > 0 {
		model.SetMaxOutputTokens(c.maxTokens)
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", mapGeminiError(err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", apperrors.NewInternal("AI service returned empty response")
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", apperrors.NewInternal("AI service returned non-text content")
	}

	c.logger.Debug("gemini response received",
		zap.String("model", modelName),
		zap.Int("length", len(text)),
	)
	return string(text), nil
}

// Close closes the underlying Gemini client.
func (c *Client) Close() error {
	return c.client.Close()
}

// mapGeminiError turns provider errors into user-presentable ones. The
// string matching mirrors how the Gemini SDK surfaces quota and auth
// failures.
func mapGeminiError(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "api") && strings.Contains(msg, "key"):
		return apperrors.NewInternal("AI service configuration error. Please contact administrator.").WithCause(err)
	case strings.Contains(msg, "rate") || strings.Contains(msg, "limit"):
		return apperrors.NewInternal("AI service is busy. Please try again in a few moments.").WithCause(err)
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline"):
		return apperrors.NewBadRequest("AI request timed out. Please try with a simpler request.").WithCause(err)
	default:
		return apperrors.NewExternalService("gemini", err)
	}
}
