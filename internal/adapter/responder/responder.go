package responder

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"medquest/internal/adapter/llm"
	"medquest/internal/domain"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

type Completer interface {
	Complete(ctx context.Context, prompt string, opts ...llms.CallOption) (string, error)
}

// Responder answers doctor questions as the chat's patient. Each call
// rebuilds the full persona from storage.
type Responder struct {
	completer Completer
	logger    *zap.Logger
}

func NewResponder(completer Completer, logger *zap.Logger) *Responder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Responder{completer: completer, logger: logger}
}

var _ domain.PatientResponder = (*Responder)(nil)

func responseStyle(d domain.Difficulty) string {
	switch d {
	case domain.DifficultyEasy:
		return "Answer the doctor's questions accurately and in detail."
	case domain.DifficultyMedium:
		return "Answer fairly accurately, but you may sometimes miss some details or get a bit confused."
	default:
		return "Answer inaccurately, get confused in descriptions, and sometimes complain about symptoms unrelated to your main disease."
	}
}

func indentJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}

func buildPrompt(chat *domain.Chat, question string) string {
	return fmt.Sprintf(`You are a virtual patient with the following data:
%s

You have the following pre-prepared responses:
%s

%s

Doctor's question: %s

If the doctor's question matches one of the pre-prepared responses, use it as a basis,
but adapt it to the specific question. If the question is new, answer it based on the patient's data and response style.
Answer the doctor's question as the patient.
IMPORTANT: DO NOT MENTION THE NAME OF THE DISEASE`,
		indentJSON(chat.PatientData),
		indentJSON(chat.PatientResponses),
		responseStyle(chat.Difficulty),
		question)
}

// Respond implements domain.PatientResponder. The reply is returned as the
// model wrote it apart from reasoning blocks and outer whitespace.
func (r *Responder) Respond(ctx context.Context, chat *domain.Chat, question string) (string, error) {
	raw, err := r.completer.Complete(ctx, buildPrompt(chat, question))
	if err != nil {
		return "", domain.NewGenerationError("patient response failed", err)
	}

	reply := llm.CleanResponse(raw)
	if reply == "" {
		r.logger.Warn("Empty patient reply from LLM", zap.String("chat_id", chat.ID))
		return "", domain.NewGenerationError("patient response was empty", errors.New("empty completion"))
	}
	return reply, nil
}
