package domain

import (
	"context"
	"encoding/json"
	"strings"
	"time"
)

// Difficulty controls disease pool breadth and how realistic the patient is.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// MaxScore is the ceiling of the evaluation rubric.
const MaxScore = 5000

// ParseDifficulty normalises a request value. Empty means easy; anything
// outside the three tiers is rejected.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if d == "" {
		return DifficultyEasy, nil
	}
	if !d.Valid() {
		return "", ValidationErrors{NewInvalidFormatError("difficulty", s)}
	}
	return d, nil
}

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

type Sender string

const (
	SenderDoctor  Sender = "doctor"
	SenderPatient Sender = "patient"
)

// Chat is one game session between a doctor and a generated patient.
type Chat struct {
	ID               string
	DoctorID         string
	PatientData      json.RawMessage
	PatientResponses json.RawMessage
	Difficulty       Difficulty
	CorrectDiagnosis string
	Diagnosis        *string
	Score            *int
	Feedback         *string
	IsFinished       bool
	StartTime        time.Time
	EndTime          *time.Time
	Messages         []Message
}

func (c *Chat) OwnedBy(doctorID string) bool {
	return c.DoctorID == doctorID
}

// DoctorQuestions returns the doctor's messages in storage order.
func (c *Chat) DoctorQuestions() []string {
	var questions []string
	for _, m := range c.Messages {
		if m.Sender == SenderDoctor {
			questions = append(questions, m.Content)
		}
	}
	return questions
}

// Finish applies an evaluation. It fails if the chat was already finalized.
func (c *Chat) Finish(answer string, eval *Evaluation, at time.Time) error {
	if c.IsFinished {
		return NewAlreadyFinishedError(c.ID)
	}
	score := eval.Score
	feedback := eval.Feedback
	c.Diagnosis = &answer
	c.Score = &score
	c.Feedback = &feedback
	c.IsFinished = true
	c.EndTime = &at
	return nil
}

type Message struct {
	ID        string
	ChatID    string
	Sender    Sender
	Content   string
	CreatedAt time.Time
}

// PatientCase is a freshly generated persona plus the concealed diagnosis.
type PatientCase struct {
	PatientData      json.RawMessage
	PatientResponses json.RawMessage
	CorrectDiagnosis string
	Difficulty       Difficulty
}

type Evaluation struct {
	CorrectDiagnosis string
	Score            int
	Feedback         string
}

// PatientGenerator produces a new persona for a difficulty tier.
type PatientGenerator interface {
	GeneratePatient(ctx context.Context, difficulty Difficulty) (*PatientCase, error)
}

// PatientResponder answers a doctor's question in character.
type PatientResponder interface {
	Respond(ctx context.Context, chat *Chat, question string) (string, error)
}

// DiagnosisEvaluator scores a finished interview.
type DiagnosisEvaluator interface {
	Evaluate(ctx context.Context, chat *Chat, answer string) (*Evaluation, error)
}

// ChatFilter narrows a doctor's chat listing.
type ChatFilter struct {
	IsFinished *bool
	Limit      int
	Offset     int
}

type ChatRepository interface {
	CreateChat(ctx context.Context, chat *Chat) error
	// GetChatByID returns nil, nil when the chat does not exist.
	GetChatByID(ctx context.Context, id string) (*Chat, error)
	ListChatsByDoctor(ctx context.Context, doctorID string, filter ChatFilter) ([]*Chat, int, error)
	// FinishChat persists the end-game fields only if the row is still open.
	// It reports false when another finalization got there first.
	FinishChat(ctx context.Context, chat *Chat) (bool, error)
	DeleteChat(ctx context.Context, id string) error
	SumFinishedScores(ctx context.Context, doctorID string) (int, error)
}

type MessageRepository interface {
	CreateMessage(ctx context.Context, msg *Message) error
	ListMessagesByChat(ctx context.Context, chatID string) ([]Message, error)
}
