package services

import (
	"context"
	"time"

	"github.com/vetlink/vetlink-backend/internal/domain/entities"
	"github.com/vetlink/vetlink-backend/internal/domain/repositories"
	"github.com/vetlink/vetlink-backend/internal/infrastructure/clients/marketing"
	"github.com/vetlink/vetlink-backend/internal/infrastructure/observability"
	"github.com/vetlink/vetlink-backend/pkg/retry"
)

// CampaignSyncSummary reports the outcome of one sync run
type CampaignSyncSummary struct {
	CampaignsCreated int       `json:"campaigns_created"`
	CampaignsUpdated int       `json:"campaigns_updated"`
	AdSetsCreated    int       `json:"ad_sets_created"`
	AdSetsUpdated    int       `json:"ad_sets_updated"`
	AdsCreated       int       `json:"ads_created"`
	AdsUpdated       int       `json:"ads_updated"`
	StartedAt        time.Time `json:"started_at"`
	FinishedAt       time.Time `json:"finished_at"`
}

// CampaignSyncService mirrors the advertising account's campaigns, ad sets
// and ads into the local store. Page fetches are retried with backoff and
// honor the platform's Retry-After on rate limits.
type CampaignSyncService struct {
	client       marketing.Client
	campaignRepo repositories.CampaignRepository
	metrics      *observability.Metrics
	pageSize     int
	retryCfg     retry.Config
}

// NewCampaignSyncService creates a new campaign sync service
func NewCampaignSyncService(client marketing.Client, campaignRepo repositories.CampaignRepository, metrics *observability.Metrics, pageSize int) *CampaignSyncService {
	if pageSize <= 0 {
		pageSize = 100
	}
	return &CampaignSyncService{
		client:       client,
		campaignRepo: campaignRepo,
		metrics:      metrics,
		pageSize:     pageSize,
		retryCfg:     retry.APIConfig(),
	}
}

// fetchPage retries a page fetch, logging each failed attempt
func (s *CampaignSyncService) fetchPage(ctx context.Context, name string, fn func() error) error {
	logger := observability.LoggerFromContext(ctx)
	return retry.DoWithLog(ctx, s.retryCfg, name, fn, func(attempt int, err error, nextDelay time.Duration) {
		logger.Warn().Err(err).
			Int("attempt", attempt).
			Dur("next_delay", nextDelay).
			Str("operation", name).
			Msg("Marketing API call failed, retrying")
	})
}

// Sync walks the full campaign tree of the account and upserts every record
func (s *CampaignSyncService) Sync(ctx context.Context) (*CampaignSyncSummary, error) {
	logger := observability.LoggerFromContext(ctx)
	summary := &CampaignSyncSummary{StartedAt: time.Now()}

	after := ""
	for {
		var page *marketing.CampaignPage
		err := s.fetchPage(ctx, "list campaigns", func() error {
			var fetchErr error
			page, fetchErr = s.client.ListCampaigns(ctx, marketing.ListRequest{Limit: s.pageSize, After: after})
			return fetchErr
		})
		if err != nil {
			return summary, err
		}

		for _, record := range page.Data {
			created, err := s.campaignRepo.UpsertCampaign(ctx, campaignFromRecord(record))
			if err != nil {
				return summary, err
			}
			if created {
				summary.CampaignsCreated++
			} else {
				summary.CampaignsUpdated++
			}

			if err := s.syncAdSets(ctx, record.ID, summary); err != nil {
				return summary, err
			}
		}

		if !page.Paging.HasNext() {
			break
		}
		after = page.Paging.Cursors.After
	}

	summary.FinishedAt = time.Now()
	logger.Info().
		Int("campaigns_created", summary.CampaignsCreated).
		Int("campaigns_updated", summary.CampaignsUpdated).
		Int("ads_created", summary.AdsCreated).
		Int("ads_updated", summary.AdsUpdated).
		Dur("duration", summary.FinishedAt.Sub(summary.StartedAt)).
		Msg("Campaign sync finished")
	if s.metrics != nil {
		observability.RecordSyncedRecords(ctx, s.metrics, "campaign", summary.CampaignsCreated+summary.CampaignsUpdated)
		observability.RecordSyncedRecords(ctx, s.metrics, "ad_set", summary.AdSetsCreated+summary.AdSetsUpdated)
		observability.RecordSyncedRecords(ctx, s.metrics, "ad", summary.AdsCreated+summary.AdsUpdated)
	}
	return summary, nil
}

func (s *CampaignSyncService) syncAdSets(ctx context.Context, campaignExternalID string, summary *CampaignSyncSummary) error {
	after := ""
	for {
		var page *marketing.AdSetPage
		err := s.fetchPage(ctx, "list ad sets", func() error {
			var fetchErr error
			page, fetchErr = s.client.ListAdSets(ctx, campaignExternalID, marketing.ListRequest{Limit: s.pageSize, After: after})
			return fetchErr
		})
		if err != nil {
			return err
		}

		for _, record := range page.Data {
			created, err := s.campaignRepo.UpsertAdSet(ctx, adSetFromRecord(record, campaignExternalID))
			if err != nil {
				return err
			}
			if created {
				summary.AdSetsCreated++
			} else {
				summary.AdSetsUpdated++
			}

			if err := s.syncAds(ctx, record.ID, summary); err != nil {
				return err
			}
		}

		if !page.Paging.HasNext() {
			return nil
		}
		after = page.Paging.Cursors.After
	}
}

func (s *CampaignSyncService) syncAds(ctx context.Context, adSetExternalID string, summary *CampaignSyncSummary) error {
	after := ""
	for {
		var page *marketing.AdPage
		err := s.fetchPage(ctx, "list ads", func() error {
			var fetchErr error
			page, fetchErr = s.client.ListAds(ctx, adSetExternalID, marketing.ListRequest{Limit: s.pageSize, After: after})
			return fetchErr
		})
		if err != nil {
			return err
		}

		for _, record := range page.Data {
			created, err := s.campaignRepo.UpsertAd(ctx, adFromRecord(record, adSetExternalID))
			if err != nil {
				return err
			}
			if created {
				summary.AdsCreated++
			} else {
				summary.AdsUpdated++
			}
		}

		if !page.Paging.HasNext() {
			return nil
		}
		after = page.Paging.Cursors.After
	}
}

func campaignFromRecord(record marketing.CampaignRecord) *entities.AdCampaign {
	return &entities.AdCampaign{
		ExternalID:      record.ID,
		Name:            record.Name,
		Objective:       record.Objective,
		Status:          record.Status,
		EffectiveStatus: record.EffectiveStatus,
		DailyBudget:     record.DailyBudgetValue(),
		Currency:        record.Currency,
		StartedAt:       record.StartTime,
		StoppedAt:       record.StopTime,
	}
}

func adSetFromRecord(record marketing.AdSetRecord, campaignExternalID string) *entities.AdSet {
	return &entities.AdSet{
		ExternalID:         record.ID,
		CampaignExternalID: campaignExternalID,
		Name:               record.Name,
		Status:             record.Status,
		OptimizationGoal:   record.OptimizationGoal,
		DailyBudget:        record.DailyBudgetValue(),
	}
}

func adFromRecord(record marketing.AdRecord, adSetExternalID string) *entities.Ad {
	return &entities.Ad{
		ExternalID:      record.ID,
		AdSetExternalID: adSetExternalID,
		Name:            record.Name,
		Status:          record.Status,
		CreativeID:      record.Creative.ID,
	}
}
