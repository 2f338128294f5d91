package entities

import (
	"time"
)

// ActivityEntry records a mutation performed through the API, for the admin
// activity dashboard.
type ActivityEntry struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Action    string    `json:"action" db:"action"`
	Entity    string    `json:"entity" db:"entity"`
	EntityID  string    `json:"entity_id" db:"entity_id"`
	Detail    string    `json:"detail" db:"detail"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ErrorEntry records a server-side failure surfaced to a client, for the
// admin error dashboard.
type ErrorEntry struct {
	ID         string    `json:"id" db:"id"`
	Level      string    `json:"level" db:"level"`
	Message    string    `json:"message" db:"message"`
	Method     string    `json:"method" db:"method"`
	Path       string    `json:"path" db:"path"`
	StatusCode int       `json:"status_code" db:"status_code"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
