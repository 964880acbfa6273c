// Package llmtest provides a scripted llms.Model for tests.
package llmtest

import (
	"context"
	"errors"
	"sync"

	"github.com/tmc/langchaingo/llms"
)

// FakeModel records every prompt and answers with Reply or ReplyFunc.
type FakeModel struct {
	mu        sync.Mutex
	Reply     string
	Err       error
	ReplyFunc func(prompt string) (string, error)
	Prompts   []string
	Options   []llms.CallOptions
}

func (f *FakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	if len(messages) == 0 || len(messages[0].Parts) == 0 {
		return nil, errors.New("llmtest: no messages")
	}
	text, ok := messages[0].Parts[0].(llms.TextContent)
	if !ok {
		return nil, errors.New("llmtest: first part is not text")
	}

	var opts llms.CallOptions
	for _, o := range options {
		o(&opts)
	}

	f.mu.Lock()
	f.Prompts = append(f.Prompts, text.Text)
	f.Options = append(f.Options, opts)
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reply, err := f.Reply, f.Err
	if f.ReplyFunc != nil {
		reply, err = f.ReplyFunc(text.Text)
	}
	if err != nil {
		return nil, err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: reply}}}, nil
}

func (f *FakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

// LastPrompt returns the most recent prompt, or "" if none was sent.
func (f *FakeModel) LastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Prompts) == 0 {
		return ""
	}
	return f.Prompts[len(f.Prompts)-1]
}

// Calls reports how many completions were requested.
func (f *FakeModel) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Prompts)
}
