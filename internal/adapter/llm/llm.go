// Package llm wires the language-model provider shared by the patient
// generator, responder and evaluator.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"medquest/internal/config"
	"medquest/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

const defaultTimeout = 60 * time.Second

// NewModel builds the configured provider. It is called once at startup.
func NewModel(cfg config.LLMConfig) (llms.Model, error) {
	httpClient := &http.Client{Timeout: timeoutOrDefault(cfg.Timeout) + 5*time.Second}

	switch cfg.Provider {
	case "ollama":
		opts := []ollama.Option{
			ollama.WithModel(cfg.Model),
			ollama.WithHTTPClient(httpClient),
		}
		if cfg.ServerURL != "" {
			opts = append(opts, ollama.WithServerURL(cfg.ServerURL))
		}
		model, err := ollama.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create ollama client: %w", err)
		}
		return model, nil
	case "openai", "":
		if cfg.APIKey == "" {
			return nil, errors.New("llm.api_key is required for the openai provider")
		}
		opts := []openai.Option{
			openai.WithToken(cfg.APIKey),
			openai.WithModel(cfg.Model),
			openai.WithHTTPClient(httpClient),
		}
		if cfg.ServerURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.ServerURL))
		}
		model, err := openai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create openai client: %w", err)
		}
		return model, nil
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
}

func timeoutOrDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return defaultTimeout
	}
	return d
}

// Completer issues single-shot completions whose only message is a system
// prompt. No conversation state is kept between calls.
type Completer struct {
	model       llms.Model
	timeout     time.Duration
	temperature float64
}

func NewCompleter(model llms.Model, cfg config.LLMConfig) *Completer {
	return &Completer{
		model:       model,
		timeout:     timeoutOrDefault(cfg.Timeout),
		temperature: cfg.Temperature,
	}
}

// Complete returns the first choice's content, unmodified.
func (c *Completer) Complete(ctx context.Context, prompt string, opts ...llms.CallOption) (string, error) {
	l := logger.Get()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, prompt),
	}
	callOpts := append([]llms.CallOption{llms.WithTemperature(c.temperature)}, opts...)

	start := time.Now()
	resp, err := c.model.GenerateContent(ctx, messages, callOpts...)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			l.Error("LLM request timed out", zap.Duration("timeout", c.timeout))
			return "", fmt.Errorf("LLM request timed out: %w", err)
		}
		l.Error("LLM call failed", zap.Error(err))
		return "", fmt.Errorf("LLM call failed: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", errors.New("LLM returned no choices")
	}

	l.Debug("LLM call completed",
		zap.Duration("duration", time.Since(start)),
		zap.Int("prompt_length", len(prompt)))
	return resp.Choices[0].Content, nil
}

var (
	thinkBlock = regexp.MustCompile(`(?s)<think>.*?</think>`)
	codeFence  = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*\n?(.*?)\\s*```$")
)

// CleanResponse strips reasoning blocks emitted by some local models and a
// surrounding Markdown code fence.
func CleanResponse(s string) string {
	s = strings.TrimSpace(thinkBlock.ReplaceAllString(s, ""))
	if m := codeFence.FindStringSubmatch(s); m != nil {
		s = strings.TrimSpace(m[1])
	}
	return s
}
