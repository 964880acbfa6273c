package domain

import (
	"context"
	"time"
)

// User represents a registered doctor.
type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile holds a user's leaderboard standing.
type Profile struct {
	ID        string
	UserID    string
	Email     string
	Username  string
	Points    int
	Rank      int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserRepository defines the interface for user data persistence.
type UserRepository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, userID string) (*User, error)
}

// ProfileRepository persists points and ranks.
type ProfileRepository interface {
	CreateProfile(ctx context.Context, profile *Profile) error
	GetProfileByUserID(ctx context.Context, userID string) (*Profile, error)
	UpdatePoints(ctx context.Context, userID string, points int) error
	// LockRanking blocks other points and rank writers until the caller's
	// transaction ends. Call it before the first profile write.
	LockRanking(ctx context.Context) error
	// ListRankEntries returns every profile ordered by points desc, id asc.
	ListRankEntries(ctx context.Context) ([]RankEntry, error)
	UpdateRank(ctx context.Context, profileID string, rank int) error
	ListTopProfiles(ctx context.Context, limit int) ([]*Profile, error)
	ListUserIDs(ctx context.Context) ([]string, error)
}

// TransactionManager runs fn inside a single database transaction.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
