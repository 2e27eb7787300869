package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/fefe-learning/curriculum-ai/pkg/circuitbreaker"
	"github.com/fefe-learning/curriculum-ai/pkg/config"
	"github.com/fefe-learning/curriculum-ai/pkg/logger"
	"github.com/fefe-learning/curriculum-ai/pkg/retry"
)

// RemoteProvider is a generative backend reached over an OpenAI-compatible
// chat completion API. The educational and creative variants differ only in
// endpoint, prompt shaping and reported confidence.
type RemoteProvider struct {
	id             ID
	service        string
	convService    string
	responseType   string
	convType       string
	systemPrompt   string
	buildPrompt    func(req Request) string
	baseConfidence float64
	model          string
	temperature    float32
	maxTokens      int
	client         *openai.Client
	cb             *circuitbreaker.Breaker
	retryCfg       retry.Config
}

// NewEducational builds the structured-education backend (a Gemini-family
// model behind its OpenAI-compatible endpoint in production). Returns an
// unconfigured provider when the API key is absent.
func NewEducational(cfg config.RemoteProviderConfig) *RemoteProvider {
	p := newRemote(Educational, cfg)
	p.service = "Google Gemini"
	p.convService = "Google Gemini (Conversational)"
	p.responseType = "comprehensive_educational"
	p.convType = "conversational_educational"
	p.systemPrompt = "You are an expert CAPS curriculum educator and AI tutor helping a student understand an uploaded curriculum document."
	p.buildPrompt = educationalPrompt
	p.baseConfidence = 0.95
	return p
}

// NewCreative builds the creative backend (OpenAI chat completions).
func NewCreative(cfg config.RemoteProviderConfig) *RemoteProvider {
	p := newRemote(Creative, cfg)
	p.service = "OpenAI GPT"
	p.convService = "OpenAI GPT (Conversational)"
	p.responseType = "creative_interactive"
	p.convType = "conversational_creative"
	p.systemPrompt = "You are a creative and engaging CAPS curriculum tutor who makes learning fun and conversational."
	p.buildPrompt = creativePrompt
	p.baseConfidence = 0.90
	return p
}

func newRemote(id ID, cfg config.RemoteProviderConfig) *RemoteProvider {
	p := &RemoteProvider{
		id:          id,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}

	if cfg.APIKey == "" {
		logger.Warn("Provider API key not found, provider disabled",
			zap.String("provider", string(id)),
		)
		return p
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	p.client = openai.NewClientWithConfig(clientCfg)

	p.cb = circuitbreaker.New(string(id), circuitbreaker.Config{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		OpenTimeout:      30 * time.Second,
		Logger:           logger.GetLogger(),
	})

	p.retryCfg = retry.Config{
		MaxAttempts:  2,
		InitialDelay: 300 * time.Millisecond,
		MaxDelay:     2 * time.Second,
		Multiplier:   2.0,
		Jitter:       0.1,
		Retryable: func(err error) bool {
			// The surrounding deadline is authoritative; a cancelled
			// context must not burn another attempt.
			return !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled)
		},
		Logger: logger.GetLogger(),
	}

	logger.Info("Provider connected",
		zap.String("provider", string(id)),
		zap.String("model", cfg.Model),
	)

	return p
}

func (p *RemoteProvider) ID() ID {
	return p.id
}

// Available reflects the startup probe (credentials present) and the
// breaker's view of recent failures.
func (p *RemoteProvider) Available() bool {
	if p.client == nil {
		return false
	}
	return p.cb.State() != circuitbreaker.StateOpen
}

func (p *RemoteProvider) Invoke(ctx context.Context, req Request) (*Result, error) {
	if p.client == nil {
		return nil, ErrUnavailable
	}
	if !p.cb.Allow() {
		return nil, ErrUnavailable
	}

	userPrompt := req.Prompt
	responseType := p.convType
	service := p.convService
	if userPrompt == "" {
		userPrompt = p.buildPrompt(req)
		responseType = p.responseType
		service = p.service
	}

	var content string
	err := retry.Do(ctx, p.retryCfg, func() error {
		resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: p.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: p.systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: userPrompt},
			},
			Temperature: p.temperature,
			MaxTokens:   p.maxTokens,
		})
		if err != nil {
			return fmt.Errorf("chat completion: %w", err)
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("chat completion: empty response")
		}
		content = resp.Choices[0].Message.Content
		return nil
	})
	p.cb.Record(err == nil)

	if err != nil {
		logger.Warn("Provider invocation failed",
			zap.String("provider", string(p.id)),
			zap.Error(err),
		)
		return nil, err
	}

	return &Result{
		Answer:       content,
		Confidence:   p.baseConfidence,
		Service:      service,
		ResponseType: responseType,
	}, nil
}
