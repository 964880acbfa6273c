package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"medquest/internal/domain"
	"medquest/internal/repository/models"
	"medquest/internal/util"

	"github.com/jmoiron/sqlx"
)

type sqlxProfileRepository struct {
	db DBTX
}

func NewSQLXProfileRepository(db *sqlx.DB) domain.ProfileRepository {
	return &sqlxProfileRepository{db: db}
}

func toDomainProfile(m *models.Profile) *domain.Profile {
	return &domain.Profile{
		ID:        m.ID,
		UserID:    m.UserID,
		Email:     m.Email.String,
		Username:  m.Username.String,
		Points:    m.Points,
		Rank:      m.Rank,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func (r *sqlxProfileRepository) CreateProfile(ctx context.Context, p *domain.Profile) error {
	if p.ID == "" {
		p.ID = util.NewULID()
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	query := `INSERT INTO profiles (id, user_id, points, user_rank, created_at, updated_at)
	          VALUES (:ID, :USER_ID, :POINTS, :USER_RANK, :CREATED_AT, :UPDATED_AT)`
	m := &models.Profile{
		ID:        p.ID,
		UserID:    p.UserID,
		Points:    p.Points,
		Rank:      p.Rank,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if _, err := GetExecutor(ctx, r.db).NamedExecContext(ctx, query, m); err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// GetProfileByUserID returns nil, nil when the user has no profile.
func (r *sqlxProfileRepository) GetProfileByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	query := `SELECT p.id, p.user_id, p.points, p.user_rank, p.created_at, p.updated_at, u.email, u.username
	          FROM profiles p JOIN users u ON u.id = p.user_id
	          WHERE p.user_id = :1`

	var m models.Profile
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &m, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return toDomainProfile(&m), nil
}

func (r *sqlxProfileRepository) UpdatePoints(ctx context.Context, userID string, points int) error {
	query := `UPDATE profiles SET points = :1, updated_at = :2 WHERE user_id = :3`
	res, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, points, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to update points: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NewNotFoundError("profile not found").WithContext("user_id", userID)
	}
	return nil
}

// LockRanking takes the profiles table in EXCLUSIVE mode. Readers are not
// blocked; concurrent re-ranks queue here instead of deadlocking on each
// other's row locks. It only has an effect inside a transaction.
func (r *sqlxProfileRepository) LockRanking(ctx context.Context) error {
	if _, err := GetExecutor(ctx, r.db).ExecContext(ctx, `LOCK TABLE profiles IN EXCLUSIVE MODE`); err != nil {
		return fmt.Errorf("failed to lock profiles for ranking: %w", err)
	}
	return nil
}

// ListRankEntries reads every profile in ranking order. This is O(N) and runs
// after every points change.
func (r *sqlxProfileRepository) ListRankEntries(ctx context.Context) ([]domain.RankEntry, error) {
	query := `SELECT id, points, user_rank FROM profiles ORDER BY points DESC, id ASC`

	var rows []models.RankRow
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list rank entries: %w", err)
	}
	entries := make([]domain.RankEntry, len(rows))
	for i, row := range rows {
		entries[i] = domain.RankEntry{ProfileID: row.ID, Points: row.Points, Rank: row.Rank}
	}
	return entries, nil
}

func (r *sqlxProfileRepository) UpdateRank(ctx context.Context, profileID string, rank int) error {
	query := `UPDATE profiles SET user_rank = :1 WHERE id = :2`
	if _, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, rank, profileID); err != nil {
		return fmt.Errorf("failed to update rank for profile %s: %w", profileID, err)
	}
	return nil
}

func (r *sqlxProfileRepository) ListTopProfiles(ctx context.Context, limit int) ([]*domain.Profile, error) {
	query := `SELECT p.id, p.user_id, p.points, p.user_rank, p.created_at, p.updated_at, u.email, u.username
	          FROM profiles p JOIN users u ON u.id = p.user_id
	          ORDER BY p.points DESC, p.id ASC
	          FETCH FIRST :1 ROWS ONLY`

	var rows []models.Profile
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list top profiles: %w", err)
	}
	profiles := make([]*domain.Profile, len(rows))
	for i := range rows {
		profiles[i] = toDomainProfile(&rows[i])
	}
	return profiles, nil
}

func (r *sqlxProfileRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &ids, `SELECT user_id FROM profiles ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to list profile users: %w", err)
	}
	return ids, nil
}
