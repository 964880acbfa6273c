package evaluator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"medquest/internal/adapter/llm"
	"medquest/internal/domain"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

type Completer interface {
	Complete(ctx context.Context, prompt string, opts ...llms.CallOption) (string, error)
}

// llmEvaluator implements domain.DiagnosisEvaluator
type llmEvaluator struct {
	completer Completer
	logger    *zap.Logger
}

func NewLLMEvaluator(completer Completer, logger *zap.Logger) domain.DiagnosisEvaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &llmEvaluator{completer: completer, logger: logger}
}

func buildPrompt(correctDiagnosis string, questions []string, answer string) string {
	if questions == nil {
		questions = []string{}
	}
	q, _ := json.MarshalIndent(questions, "", "  ")
	return fmt.Sprintf(`You are a medical expert. Evaluate the doctor's work based on the following criteria:

Evaluate the following aspects:
1. Accuracy of diagnosis (0-2000 points)
2. Quality of symptom information gathering (0-1000 points)
3. Questions about the patient's appearance (0-500 points)
4. Questions about tactile sensations (0-500 points)
5. Overall approach and logic (0-1000 points)

Correct diagnosis: %s

Doctor's questions:
%s

Doctor's final diagnosis: %s

Provide the evaluation in the format:
Score: [total points across all criteria, 0-5000 points]
Feedback: [brief comment on each criterion]`, correctDiagnosis, q, answer)
}

// Evaluate implements domain.DiagnosisEvaluator. The chat's messages must be loaded.
func (e *llmEvaluator) Evaluate(ctx context.Context, chat *domain.Chat, answer string) (*domain.Evaluation, error) {
	l := e.logger
	questions := chat.DoctorQuestions()

	l.Info("Evaluating diagnosis",
		zap.String("chat_id", chat.ID),
		zap.Int("question_count", len(questions)))

	raw, err := e.completer.Complete(ctx, buildPrompt(chat.CorrectDiagnosis, questions, answer),
		llms.WithTemperature(0.1))
	if err != nil {
		return nil, domain.NewGenerationError("evaluation request failed", err)
	}

	score, feedback, err := ParseEvaluation(llm.CleanResponse(raw))
	if err != nil {
		l.Error("Evaluation reply broke the Score/Feedback format",
			zap.String("chat_id", chat.ID),
			zap.String("raw_response", raw),
			zap.Error(err))
		return nil, err
	}

	return &domain.Evaluation{
		CorrectDiagnosis: chat.CorrectDiagnosis,
		Score:            score,
		Feedback:         feedback,
	}, nil
}

const (
	scoreMarker    = "Score:"
	feedbackMarker = "Feedback:"
)

// ParseEvaluation reads a reply of the form
//
//	Score: 3750
//	Feedback: ...
//
// The score comes from the first line starting with "Score:" and the
// feedback is everything after the first "Feedback:" marker.
func ParseEvaluation(reply string) (int, string, error) {
	var scoreLine string
	found := false
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, scoreMarker) {
			scoreLine = line
			found = true
			break
		}
	}
	if !found {
		return 0, "", domain.NewEvaluationParseError("no Score line in evaluation", nil)
	}

	fields := strings.Fields(scoreLine)
	if len(fields) < 2 {
		return 0, "", domain.NewEvaluationParseError("Score line has no value", nil)
	}
	score, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, "", domain.NewEvaluationParseError("score is not an integer", err)
	}
	if score < 0 || score > domain.MaxScore {
		return 0, "", domain.NewEvaluationParseError(
			fmt.Sprintf("score %d outside 0-%d", score, domain.MaxScore),
			errors.New("score out of range"))
	}

	idx := strings.Index(reply, feedbackMarker)
	if idx < 0 {
		return 0, "", domain.NewEvaluationParseError("no Feedback section in evaluation", nil)
	}
	feedback := strings.TrimSpace(reply[idx+len(feedbackMarker):])

	return score, feedback, nil
}
