package entities

import (
	"time"
)

// AdCampaign is an advertising campaign mirrored from the marketing platform
type AdCampaign struct {
	ID              string    `json:"id" db:"id"`
	ExternalID      string    `json:"external_id" db:"external_id"`
	Name            string    `json:"name" db:"name"`
	Objective       string    `json:"objective" db:"objective"`
	Status          string    `json:"status" db:"status"`
	EffectiveStatus string    `json:"effective_status" db:"effective_status"`
	DailyBudget     float64   `json:"daily_budget" db:"daily_budget"`
	Currency        string    `json:"currency" db:"currency"`
	StartedAt       *time.Time `json:"started_at,omitempty" db:"started_at"`
	StoppedAt       *time.Time `json:"stopped_at,omitempty" db:"stopped_at"`
	SyncedAt        time.Time `json:"synced_at" db:"synced_at"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// AdSet is an ad set belonging to a campaign
type AdSet struct {
	ID                 string    `json:"id" db:"id"`
	ExternalID         string    `json:"external_id" db:"external_id"`
	CampaignExternalID string    `json:"campaign_external_id" db:"campaign_external_id"`
	Name               string    `json:"name" db:"name"`
	Status             string    `json:"status" db:"status"`
	OptimizationGoal   string    `json:"optimization_goal" db:"optimization_goal"`
	DailyBudget        float64   `json:"daily_budget" db:"daily_budget"`
	SyncedAt           time.Time `json:"synced_at" db:"synced_at"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}

// Ad is a single ad belonging to an ad set
type Ad struct {
	ID              string    `json:"id" db:"id"`
	ExternalID      string    `json:"external_id" db:"external_id"`
	AdSetExternalID string    `json:"adset_external_id" db:"adset_external_id"`
	Name            string    `json:"name" db:"name"`
	Status          string    `json:"status" db:"status"`
	CreativeID      string    `json:"creative_id" db:"creative_id"`
	SyncedAt        time.Time `json:"synced_at" db:"synced_at"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}
