package repositories

import (
	"context"

	"github.com/vetlink/vetlink-backend/internal/domain/entities"
)

// CampaignRepository persists advertising data mirrored from the marketing
// platform. Upserts are keyed by external ID and report whether a row was
// created so sync runs can count creations vs updates.
type CampaignRepository interface {
	// UpsertCampaign inserts or updates a campaign by external ID
	UpsertCampaign(ctx context.Context, campaign *entities.AdCampaign) (created bool, err error)

	// UpsertAdSet inserts or updates an ad set by external ID
	UpsertAdSet(ctx context.Context, adSet *entities.AdSet) (created bool, err error)

	// UpsertAd inserts or updates an ad by external ID
	UpsertAd(ctx context.Context, ad *entities.Ad) (created bool, err error)

	// ListCampaigns retrieves mirrored campaigns, newest first
	ListCampaigns(ctx context.Context, limit, offset int) ([]*entities.AdCampaign, error)
}
