package entities

import (
	"time"
)

// Organization represents a care provider (clinic, groomer, etc.) in the marketplace
type Organization struct {
	ID                string    `json:"id" db:"id"`
	Name              string    `json:"name" db:"name"`
	Slug              string    `json:"slug" db:"slug"`
	Description       string    `json:"description" db:"description"`
	Address           Address   `json:"address" db:"-"`
	PhoneNumber       string    `json:"phone_number" db:"phone_number"`
	Email             string    `json:"email" db:"email"`
	Website           string    `json:"website" db:"website"`
	CareTypes         []string  `json:"care_types" db:"-"`
	ConsultationTypes []string  `json:"consultation_types" db:"-"`
	Rating            float64   `json:"rating" db:"rating"`
	ReviewCount       int       `json:"review_count" db:"review_count"`
	IsActive          bool      `json:"is_active" db:"is_active"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// Address represents a physical address
type Address struct {
	Street  string `json:"street" db:"street"`
	City    string `json:"city" db:"city"`
	ZipCode string `json:"zip_code" db:"zip_code"`
	Country string `json:"country" db:"country"`
}
