package dto

import (
	"encoding/json"
	"time"

	"medquest/internal/domain"
)

// CreateChatRequest starts a new game.
// @Description Request body for creating a chat; difficulty defaults to easy
type CreateChatRequest struct {
	Difficulty string `json:"difficulty,omitempty" example:"medium" enums:"easy,medium,hard"`
}

// SendMessageRequest carries the doctor's question.
type SendMessageRequest struct {
	Content string `json:"content" example:"How long have you had the fever?"`
}

// EndGameRequest carries the doctor's final diagnosis.
type EndGameRequest struct {
	Answer string `json:"answer" example:"Influenza"`
}

type ChatMessageResponse struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatResponse is the client view of a chat. It never carries the correct
// diagnosis or the canned patient responses.
type ChatResponse struct {
	ID          string                `json:"id"`
	Doctor      string                `json:"doctor"`
	PatientData json.RawMessage       `json:"patient_data" swaggertype:"object"`
	Difficulty  string                `json:"difficulty"`
	StartTime   time.Time             `json:"start_time"`
	EndTime     *time.Time            `json:"end_time"`
	Diagnosis   *string               `json:"diagnosis"`
	Score       *int                  `json:"score"`
	Feedback    *string               `json:"feedback"`
	IsFinished  bool                  `json:"is_finished"`
	Messages    []ChatMessageResponse `json:"messages"`
}

type ChatListResponse struct {
	Chats          []ChatResponse `json:"chats"`
	PaginationInfo PaginationInfo `json:"pagination_info"`
}

// EndGameResponse is the evaluation; the true diagnosis is revealed here.
type EndGameResponse struct {
	CorrectDiagnosis string `json:"correct_diagnosis"`
	Score            int    `json:"score"`
	Feedback         string `json:"feedback"`
}

func NewChatMessageResponse(m domain.Message) ChatMessageResponse {
	return ChatMessageResponse{
		ID:        m.ID,
		Sender:    string(m.Sender),
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}

func NewChatResponse(c *domain.Chat) ChatResponse {
	msgs := make([]ChatMessageResponse, 0, len(c.Messages))
	for _, m := range c.Messages {
		msgs = append(msgs, NewChatMessageResponse(m))
	}
	data := c.PatientData
	if len(data) == 0 || !json.Valid(data) {
		data = json.RawMessage("null")
	}
	return ChatResponse{
		ID:          c.ID,
		Doctor:      c.DoctorID,
		PatientData: data,
		Difficulty:  string(c.Difficulty),
		StartTime:   c.StartTime,
		EndTime:     c.EndTime,
		Diagnosis:   c.Diagnosis,
		Score:       c.Score,
		Feedback:    c.Feedback,
		IsFinished:  c.IsFinished,
		Messages:    msgs,
	}
}

func NewEndGameResponse(e *domain.Evaluation) EndGameResponse {
	return EndGameResponse{CorrectDiagnosis: e.CorrectDiagnosis, Score: e.Score, Feedback: e.Feedback}
}

func NewProfileResponse(p *domain.Profile) ProfileResponse {
	return ProfileResponse{
		UserID:   p.UserID,
		Email:    p.Email,
		Username: p.Username,
		Points:   p.Points,
		Rank:     p.Rank,
	}
}
