package database

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/vetlink/vetlink-backend/internal/domain/entities"
	"github.com/vetlink/vetlink-backend/internal/domain/repositories"
	"github.com/vetlink/vetlink-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/vetlink/vetlink-backend/pkg/errors"
)

// CampaignAdapter implements the CampaignRepository interface. Upserts use
// ON CONFLICT on the external ID; (xmax = 0) distinguishes a fresh insert
// from a conflict update.
type CampaignAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewCampaignAdapter creates a new campaign adapter
func NewCampaignAdapter(client *postgres.Client) repositories.CampaignRepository {
	return &CampaignAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

const upsertCampaignQuery = `
	INSERT INTO ad_campaigns (
		id, external_id, name, objective, status, effective_status,
		daily_budget, currency, started_at, stopped_at, synced_at,
		created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)
	ON CONFLICT (external_id) DO UPDATE SET
		name = EXCLUDED.name,
		objective = EXCLUDED.objective,
		status = EXCLUDED.status,
		effective_status = EXCLUDED.effective_status,
		daily_budget = EXCLUDED.daily_budget,
		currency = EXCLUDED.currency,
		started_at = EXCLUDED.started_at,
		stopped_at = EXCLUDED.stopped_at,
		synced_at = EXCLUDED.synced_at,
		updated_at = EXCLUDED.updated_at
	RETURNING (xmax = 0)`

// UpsertCampaign inserts or updates a campaign by external ID
func (a *CampaignAdapter) UpsertCampaign(ctx context.Context, campaign *entities.AdCampaign) (bool, error) {
	if campaign.ID == "" {
		campaign.ID = uuid.New().String()
	}
	now := time.Now()
	campaign.SyncedAt = now

	var created bool
	err := a.client.DB().QueryRowContext(ctx, upsertCampaignQuery,
		campaign.ID, campaign.ExternalID, campaign.Name, campaign.Objective,
		campaign.Status, campaign.EffectiveStatus, campaign.DailyBudget,
		campaign.Currency, campaign.StartedAt, campaign.StoppedAt,
		campaign.SyncedAt, now,
	).Scan(&created)
	if err != nil {
		return false, apperrors.NewInternalError("failed to upsert campaign", err)
	}
	return created, nil
}

const upsertAdSetQuery = `
	INSERT INTO ad_sets (
		id, external_id, campaign_external_id, name, status,
		optimization_goal, daily_budget, synced_at, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
	ON CONFLICT (external_id) DO UPDATE SET
		campaign_external_id = EXCLUDED.campaign_external_id,
		name = EXCLUDED.name,
		status = EXCLUDED.status,
		optimization_goal = EXCLUDED.optimization_goal,
		daily_budget = EXCLUDED.daily_budget,
		synced_at = EXCLUDED.synced_at,
		updated_at = EXCLUDED.updated_at
	RETURNING (xmax = 0)`

// UpsertAdSet inserts or updates an ad set by external ID
func (a *CampaignAdapter) UpsertAdSet(ctx context.Context, adSet *entities.AdSet) (bool, error) {
	if adSet.ID == "" {
		adSet.ID = uuid.New().String()
	}
	now := time.Now()
	adSet.SyncedAt = now

	var created bool
	err := a.client.DB().QueryRowContext(ctx, upsertAdSetQuery,
		adSet.ID, adSet.ExternalID, adSet.CampaignExternalID, adSet.Name,
		adSet.Status, adSet.OptimizationGoal, adSet.DailyBudget,
		adSet.SyncedAt, now,
	).Scan(&created)
	if err != nil {
		return false, apperrors.NewInternalError("failed to upsert ad set", err)
	}
	return created, nil
}

const upsertAdQuery = `
	INSERT INTO ads (
		id, external_id, adset_external_id, name, status, creative_id,
		synced_at, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
	ON CONFLICT (external_id) DO UPDATE SET
		adset_external_id = EXCLUDED.adset_external_id,
		name = EXCLUDED.name,
		status = EXCLUDED.status,
		creative_id = EXCLUDED.creative_id,
		synced_at = EXCLUDED.synced_at,
		updated_at = EXCLUDED.updated_at
	RETURNING (xmax = 0)`

// UpsertAd inserts or updates an ad by external ID
func (a *CampaignAdapter) UpsertAd(ctx context.Context, ad *entities.Ad) (bool, error) {
	if ad.ID == "" {
		ad.ID = uuid.New().String()
	}
	now := time.Now()
	ad.SyncedAt = now

	var created bool
	err := a.client.DB().QueryRowContext(ctx, upsertAdQuery,
		ad.ID, ad.ExternalID, ad.AdSetExternalID, ad.Name, ad.Status,
		ad.CreativeID, ad.SyncedAt, now,
	).Scan(&created)
	if err != nil {
		return false, apperrors.NewInternalError("failed to upsert ad", err)
	}
	return created, nil
}

// ListCampaigns retrieves mirrored campaigns, newest first
func (a *CampaignAdapter) ListCampaigns(ctx context.Context, limit, offset int) ([]*entities.AdCampaign, error) {
	if limit <= 0 {
		limit = 50
	}

	query, args, err := a.db.Select(
		"id", "external_id", "name", "objective", "status", "effective_status",
		"daily_budget", "currency", "started_at", "stopped_at", "synced_at",
		"created_at", "updated_at",
	).
		From("ad_campaigns").
		Order(goqu.I("synced_at").Desc()).
		Limit(uint(limit)).
		Offset(uint(offset)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query campaigns", err)
	}
	defer rows.Close()

	campaigns := []*entities.AdCampaign{}
	for rows.Next() {
		campaign := &entities.AdCampaign{}
		if err := rows.Scan(
			&campaign.ID, &campaign.ExternalID, &campaign.Name, &campaign.Objective,
			&campaign.Status, &campaign.EffectiveStatus, &campaign.DailyBudget,
			&campaign.Currency, &campaign.StartedAt, &campaign.StoppedAt,
			&campaign.SyncedAt, &campaign.CreatedAt, &campaign.UpdatedAt,
		); err != nil {
			return nil, apperrors.NewInternalError("failed to scan campaign", err)
		}
		campaigns = append(campaigns, campaign)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate campaigns", err)
	}
	return campaigns, nil
}
