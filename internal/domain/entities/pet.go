package entities

import (
	"time"
)

// Pet represents a client's pet
type Pet struct {
	ID        string     `json:"id" db:"id"`
	OwnerID   string     `json:"owner_id" db:"owner_id"`
	Name      string     `json:"name" db:"name"`
	Species   string     `json:"species" db:"species"`
	BreedID   *string    `json:"breed_id,omitempty" db:"breed_id"`
	BirthDate *time.Time `json:"birth_date,omitempty" db:"birth_date"`
	Notes     string     `json:"notes" db:"notes"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}
