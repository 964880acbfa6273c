package models

import (
	"database/sql"
	"time"
)

// Chat maps the CHATS table. PATIENT_DATA and PATIENT_RESPONSES are CLOBs
// holding serialized JSON.
type Chat struct {
	ID               string         `db:"ID"`
	DoctorID         string         `db:"DOCTOR_ID"`
	PatientData      string         `db:"PATIENT_DATA"`
	PatientResponses string         `db:"PATIENT_RESPONSES"`
	Difficulty       string         `db:"DIFFICULTY"`
	CorrectDiagnosis string         `db:"CORRECT_DIAGNOSIS"`
	Diagnosis        sql.NullString `db:"DIAGNOSIS"`
	Score            sql.NullInt64  `db:"SCORE"`
	Feedback         sql.NullString `db:"FEEDBACK"`
	IsFinished       int            `db:"IS_FINISHED"`
	StartTime        time.Time      `db:"START_TIME"`
	EndTime          sql.NullTime   `db:"END_TIME"`
}

type Message struct {
	ID        string    `db:"ID"`
	ChatID    string    `db:"CHAT_ID"`
	Sender    string    `db:"SENDER"`
	Content   string    `db:"CONTENT"`
	CreatedAt time.Time `db:"CREATED_AT"`
}
