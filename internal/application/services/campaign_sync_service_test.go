package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vetlink/vetlink-backend/internal/domain/entities"
	"github.com/vetlink/vetlink-backend/internal/infrastructure/clients/marketing"
)

type MockMarketingClient struct {
	mock.Mock
}

func (m *MockMarketingClient) ExchangeToken(ctx context.Context, shortLivedToken string) (*marketing.TokenResponse, error) {
	args := m.Called(ctx, shortLivedToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*marketing.TokenResponse), args.Error(1)
}
func (m *MockMarketingClient) ListCampaigns(ctx context.Context, req marketing.ListRequest) (*marketing.CampaignPage, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*marketing.CampaignPage), args.Error(1)
}
func (m *MockMarketingClient) ListAdSets(ctx context.Context, campaignID string, req marketing.ListRequest) (*marketing.AdSetPage, error) {
	args := m.Called(ctx, campaignID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*marketing.AdSetPage), args.Error(1)
}
func (m *MockMarketingClient) ListAds(ctx context.Context, adSetID string, req marketing.ListRequest) (*marketing.AdPage, error) {
	args := m.Called(ctx, adSetID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*marketing.AdPage), args.Error(1)
}

type MockCampaignRepo struct {
	mock.Mock
}

func (m *MockCampaignRepo) UpsertCampaign(ctx context.Context, campaign *entities.AdCampaign) (bool, error) {
	args := m.Called(ctx, campaign)
	return args.Bool(0), args.Error(1)
}
func (m *MockCampaignRepo) UpsertAdSet(ctx context.Context, adSet *entities.AdSet) (bool, error) {
	args := m.Called(ctx, adSet)
	return args.Bool(0), args.Error(1)
}
func (m *MockCampaignRepo) UpsertAd(ctx context.Context, ad *entities.Ad) (bool, error) {
	args := m.Called(ctx, ad)
	return args.Bool(0), args.Error(1)
}
func (m *MockCampaignRepo) ListCampaigns(ctx context.Context, limit, offset int) ([]*entities.AdCampaign, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.AdCampaign), args.Error(1)
}

func pagedCursor(after string) *marketing.Paging {
	p := &marketing.Paging{Next: "https://next.page"}
	p.Cursors.After = after
	return p
}

func TestSyncWalksCampaignTree(t *testing.T) {
	client := new(MockMarketingClient)
	repo := new(MockCampaignRepo)
	svc := NewCampaignSyncService(client, repo, nil, 50)

	campaignPage := &marketing.CampaignPage{
		Data: []marketing.CampaignRecord{
			{ID: "camp-1", Name: "Spring push", DailyBudget: "2500", Currency: "EUR"},
		},
	}
	adSetPage := &marketing.AdSetPage{
		Data: []marketing.AdSetRecord{
			{ID: "set-1", Name: "Utrecht owners", DailyBudget: "1000"},
		},
	}
	adPage := &marketing.AdPage{
		Data: []marketing.AdRecord{
			{ID: "ad-1", Name: "Teaser"},
		},
	}

	client.On("ListCampaigns", mock.Anything, marketing.ListRequest{Limit: 50}).Return(campaignPage, nil)
	client.On("ListAdSets", mock.Anything, "camp-1", marketing.ListRequest{Limit: 50}).Return(adSetPage, nil)
	client.On("ListAds", mock.Anything, "set-1", marketing.ListRequest{Limit: 50}).Return(adPage, nil)

	repo.On("UpsertCampaign", mock.Anything, mock.MatchedBy(func(c *entities.AdCampaign) bool {
		return c.ExternalID == "camp-1" && c.DailyBudget == 25.0
	})).Return(true, nil)
	repo.On("UpsertAdSet", mock.Anything, mock.MatchedBy(func(s *entities.AdSet) bool {
		return s.ExternalID == "set-1" && s.CampaignExternalID == "camp-1" && s.DailyBudget == 10.0
	})).Return(true, nil)
	repo.On("UpsertAd", mock.Anything, mock.MatchedBy(func(a *entities.Ad) bool {
		return a.ExternalID == "ad-1" && a.AdSetExternalID == "set-1"
	})).Return(false, nil)

	summary, err := svc.Sync(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, summary.CampaignsCreated)
	assert.Equal(t, 1, summary.AdSetsCreated)
	assert.Equal(t, 0, summary.AdsCreated)
	assert.Equal(t, 1, summary.AdsUpdated)
	client.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestSyncFollowsPaginationCursor(t *testing.T) {
	client := new(MockMarketingClient)
	repo := new(MockCampaignRepo)
	svc := NewCampaignSyncService(client, repo, nil, 1)

	first := &marketing.CampaignPage{
		Data:   []marketing.CampaignRecord{{ID: "camp-1"}},
		Paging: pagedCursor("cursor-1"),
	}
	second := &marketing.CampaignPage{
		Data: []marketing.CampaignRecord{{ID: "camp-2"}},
	}

	client.On("ListCampaigns", mock.Anything, marketing.ListRequest{Limit: 1}).Return(first, nil)
	client.On("ListCampaigns", mock.Anything, marketing.ListRequest{Limit: 1, After: "cursor-1"}).Return(second, nil)
	client.On("ListAdSets", mock.Anything, mock.Anything, mock.Anything).Return(&marketing.AdSetPage{}, nil)

	repo.On("UpsertCampaign", mock.Anything, mock.Anything).Return(true, nil).Times(2)

	summary, err := svc.Sync(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, summary.CampaignsCreated)
	client.AssertExpectations(t)
}
