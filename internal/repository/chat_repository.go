package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"medquest/internal/domain"
	"medquest/internal/repository/models"
	"medquest/internal/util"

	"github.com/jmoiron/sqlx"
)

const chatColumns = `id, doctor_id, patient_data, patient_responses, difficulty, correct_diagnosis, ` +
	`diagnosis, score, feedback, is_finished, start_time, end_time`

type sqlxChatRepository struct {
	db DBTX
}

func NewSQLXChatRepository(db *sqlx.DB) domain.ChatRepository {
	return &sqlxChatRepository{db: db}
}

func toDomainChat(m *models.Chat) *domain.Chat {
	return &domain.Chat{
		ID:               m.ID,
		DoctorID:         m.DoctorID,
		PatientData:      json.RawMessage(m.PatientData),
		PatientResponses: json.RawMessage(m.PatientResponses),
		Difficulty:       domain.Difficulty(m.Difficulty),
		CorrectDiagnosis: m.CorrectDiagnosis,
		Diagnosis:        util.NullStringToPtr(m.Diagnosis),
		Score:            util.NullInt64ToPtr(m.Score),
		Feedback:         util.NullStringToPtr(m.Feedback),
		IsFinished:       m.IsFinished == 1,
		StartTime:        m.StartTime,
		EndTime:          util.NullTimeToPtr(m.EndTime),
	}
}

func fromDomainChat(c *domain.Chat) *models.Chat {
	return &models.Chat{
		ID:               c.ID,
		DoctorID:         c.DoctorID,
		PatientData:      string(c.PatientData),
		PatientResponses: string(c.PatientResponses),
		Difficulty:       string(c.Difficulty),
		CorrectDiagnosis: c.CorrectDiagnosis,
		Diagnosis:        util.PtrToNullString(c.Diagnosis),
		Score:            util.PtrToNullInt64(c.Score),
		Feedback:         util.PtrToNullString(c.Feedback),
		IsFinished:       util.BoolToInt(c.IsFinished),
		StartTime:        c.StartTime,
		EndTime:          util.PtrToNullTime(c.EndTime),
	}
}

func (r *sqlxChatRepository) CreateChat(ctx context.Context, chat *domain.Chat) error {
	if chat.ID == "" {
		chat.ID = util.NewULID()
	}
	if chat.StartTime.IsZero() {
		chat.StartTime = time.Now()
	}

	query := `INSERT INTO chats (id, doctor_id, patient_data, patient_responses, difficulty, correct_diagnosis, is_finished, start_time)
	          VALUES (:ID, :DOCTOR_ID, :PATIENT_DATA, :PATIENT_RESPONSES, :DIFFICULTY, :CORRECT_DIAGNOSIS, :IS_FINISHED, :START_TIME)`

	if _, err := GetExecutor(ctx, r.db).NamedExecContext(ctx, query, fromDomainChat(chat)); err != nil {
		return fmt.Errorf("failed to create chat: %w", err)
	}
	return nil
}

// GetChatByID returns nil, nil when the chat does not exist. Messages are not loaded.
func (r *sqlxChatRepository) GetChatByID(ctx context.Context, id string) (*domain.Chat, error) {
	var m models.Chat
	query := `SELECT ` + chatColumns + ` FROM chats WHERE id = :1`
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &m, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get chat: %w", err)
	}
	return toDomainChat(&m), nil
}

// ListChatsByDoctor returns one page of the doctor's chats, newest first, and
// the total matching the filter.
func (r *sqlxChatRepository) ListChatsByDoctor(ctx context.Context, doctorID string, filter domain.ChatFilter) ([]*domain.Chat, int, error) {
	where := []string{"doctor_id = :doctor_id"}
	args := map[string]interface{}{"doctor_id": doctorID}
	if filter.IsFinished != nil {
		where = append(where, "is_finished = :is_finished")
		args["is_finished"] = util.BoolToInt(*filter.IsFinished)
	}
	cond := strings.Join(where, " AND ")

	exec := GetExecutor(ctx, r.db)

	countRows, err := sqlx.NamedQueryContext(ctx, exec, `SELECT COUNT(*) FROM chats WHERE `+cond, args)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count chats: %w", err)
	}
	var total int
	if countRows.Next() {
		if err := countRows.Scan(&total); err != nil {
			countRows.Close()
			return nil, 0, fmt.Errorf("failed to scan chat count: %w", err)
		}
	}
	countRows.Close()

	args["offset"] = filter.Offset
	args["limit"] = filter.Limit
	query := `SELECT ` + chatColumns + ` FROM chats WHERE ` + cond + `
	          ORDER BY start_time DESC, id DESC
	          OFFSET :offset ROWS FETCH NEXT :limit ROWS ONLY`

	rows, err := sqlx.NamedQueryContext(ctx, exec, query, args)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list chats: %w", err)
	}
	defer rows.Close()

	var chats []*domain.Chat
	for rows.Next() {
		var m models.Chat
		if err := rows.StructScan(&m); err != nil {
			return nil, 0, fmt.Errorf("failed to scan chat: %w", err)
		}
		chats = append(chats, toDomainChat(&m))
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate chats: %w", err)
	}
	return chats, total, nil
}

// FinishChat writes the end-game fields guarded by is_finished = 0, so at most
// one finalization per chat can succeed.
func (r *sqlxChatRepository) FinishChat(ctx context.Context, chat *domain.Chat) (bool, error) {
	query := `UPDATE chats
	          SET diagnosis = :DIAGNOSIS, score = :SCORE, feedback = :FEEDBACK, is_finished = 1, end_time = :END_TIME
	          WHERE id = :ID AND is_finished = 0`

	res, err := GetExecutor(ctx, r.db).NamedExecContext(ctx, query, fromDomainChat(chat))
	if err != nil {
		return false, fmt.Errorf("failed to finish chat: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n == 1, nil
}

// DeleteChat removes the chat; messages go with it through ON DELETE CASCADE.
func (r *sqlxChatRepository) DeleteChat(ctx context.Context, id string) error {
	res, err := GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM chats WHERE id = :1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete chat: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NewNotFoundError("chat not found").WithContext("chat_id", id)
	}
	return nil
}

// SumFinishedScores totals the doctor's finished chats; zero when there are none.
func (r *sqlxChatRepository) SumFinishedScores(ctx context.Context, doctorID string) (int, error) {
	var total int
	query := `SELECT COALESCE(SUM(score), 0) FROM chats WHERE doctor_id = :1 AND is_finished = 1`
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &total, query, doctorID); err != nil {
		return 0, fmt.Errorf("failed to sum scores: %w", err)
	}
	return total, nil
}
