package repository

import (
	"context"
	"fmt"
	"time"

	"medquest/internal/domain"
	"medquest/internal/repository/models"
	"medquest/internal/util"

	"github.com/jmoiron/sqlx"
)

type sqlxMessageRepository struct {
	db DBTX
}

func NewSQLXMessageRepository(db *sqlx.DB) domain.MessageRepository {
	return &sqlxMessageRepository{db: db}
}

func (r *sqlxMessageRepository) CreateMessage(ctx context.Context, msg *domain.Message) error {
	if msg.ID == "" {
		msg.ID = util.NewULID()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	query := `INSERT INTO messages (id, chat_id, sender, content, created_at)
	          VALUES (:ID, :CHAT_ID, :SENDER, :CONTENT, :CREATED_AT)`
	m := &models.Message{
		ID:        msg.ID,
		ChatID:    msg.ChatID,
		Sender:    string(msg.Sender),
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt,
	}
	if _, err := GetExecutor(ctx, r.db).NamedExecContext(ctx, query, m); err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// ListMessagesByChat returns the transcript in creation order.
func (r *sqlxMessageRepository) ListMessagesByChat(ctx context.Context, chatID string) ([]domain.Message, error) {
	query := `SELECT id, chat_id, sender, content, created_at FROM messages
	          WHERE chat_id = :1 ORDER BY created_at ASC, id ASC`

	var rows []models.Message
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query, chatID); err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	msgs := make([]domain.Message, len(rows))
	for i, m := range rows {
		msgs[i] = domain.Message{
			ID:        m.ID,
			ChatID:    m.ChatID,
			Sender:    domain.Sender(m.Sender),
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		}
	}
	return msgs, nil
}
