package models

import (
	"database/sql"
	"time"
)

// User maps the USERS table.
type User struct {
	ID           string         `db:"ID"`
	Email        string         `db:"EMAIL"`
	Username     sql.NullString `db:"USERNAME"`
	PasswordHash string         `db:"PASSWORD_HASH"`
	CreatedAt    time.Time      `db:"CREATED_AT"`
	UpdatedAt    time.Time      `db:"UPDATED_AT"`
}

// Profile maps the PROFILES table. Email and Username are filled only by
// queries that join USERS.
type Profile struct {
	ID        string         `db:"ID"`
	UserID    string         `db:"USER_ID"`
	Points    int            `db:"POINTS"`
	Rank      int            `db:"USER_RANK"`
	CreatedAt time.Time      `db:"CREATED_AT"`
	UpdatedAt time.Time      `db:"UPDATED_AT"`
	Email     sql.NullString `db:"EMAIL"`
	Username  sql.NullString `db:"USERNAME"`
}

type RankRow struct {
	ID     string `db:"ID"`
	Points int    `db:"POINTS"`
	Rank   int    `db:"USER_RANK"`
}
