package entities

import (
	"encoding/json"
	"time"
)

// TaskStatus represents the moderation state of a user-submitted task
type TaskStatus string

const (
	TaskStatusPending  TaskStatus = "pending"
	TaskStatusApproved TaskStatus = "approved"
	TaskStatusRejected TaskStatus = "rejected"
)

// Task is a user-submitted item awaiting admin moderation, e.g. a suggested
// organization correction or a new listing request.
type Task struct {
	ID            string          `json:"id" db:"id"`
	UserID        string          `json:"user_id" db:"user_id"`
	Type          string          `json:"type" db:"type"`
	Payload       json.RawMessage `json:"payload" db:"payload"`
	Status        TaskStatus      `json:"status" db:"status"`
	ModeratorID   *string         `json:"moderator_id,omitempty" db:"moderator_id"`
	ModeratorNote string          `json:"moderator_note" db:"moderator_note"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}
