package marketing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/vetlink/vetlink-backend/pkg/config"
	"github.com/vetlink/vetlink-backend/pkg/retry"
)

// Client is the interface to the advertising platform API. An explicit client
// instance carries its own credentials; there is no shared package-level
// state, so concurrent callers with different tokens cannot interfere.
type Client interface {
	// ExchangeToken exchanges a short-lived token for a long-lived one
	ExchangeToken(ctx context.Context, shortLivedToken string) (*TokenResponse, error)

	// ListCampaigns returns one page of campaigns for the configured account
	ListCampaigns(ctx context.Context, req ListRequest) (*CampaignPage, error)

	// ListAdSets returns one page of ad sets belonging to a campaign
	ListAdSets(ctx context.Context, campaignID string, req ListRequest) (*AdSetPage, error)

	// ListAds returns one page of ads belonging to an ad set
	ListAds(ctx context.Context, adSetID string, req ListRequest) (*AdPage, error)
}

// ListRequest holds cursor pagination parameters
type ListRequest struct {
	Limit int
	After string
}

// TokenResponse is the result of a token exchange
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Paging is the cursor envelope returned with every list response
type Paging struct {
	Cursors struct {
		Before string `json:"before"`
		After  string `json:"after"`
	} `json:"cursors"`
	Next string `json:"next,omitempty"`
}

// HasNext reports whether another page exists
func (p *Paging) HasNext() bool {
	return p != nil && p.Next != ""
}

// CampaignRecord is a campaign as returned by the platform
type CampaignRecord struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Objective       string     `json:"objective"`
	Status          string     `json:"status"`
	EffectiveStatus string     `json:"effective_status"`
	DailyBudget     string     `json:"daily_budget"`
	Currency        string     `json:"currency"`
	StartTime       *time.Time `json:"start_time,omitempty"`
	StopTime        *time.Time `json:"stop_time,omitempty"`
}

// DailyBudgetValue parses the platform's minor-unit budget string into a
// major-unit amount (the API reports budgets in cents).
func (c *CampaignRecord) DailyBudgetValue() float64 {
	cents, err := strconv.ParseFloat(c.DailyBudget, 64)
	if err != nil {
		return 0
	}
	return cents / 100
}

// AdSetRecord is an ad set as returned by the platform
type AdSetRecord struct {
	ID               string `json:"id"`
	CampaignID       string `json:"campaign_id"`
	Name             string `json:"name"`
	Status           string `json:"status"`
	OptimizationGoal string `json:"optimization_goal"`
	DailyBudget      string `json:"daily_budget"`
}

// DailyBudgetValue parses the ad set budget string, reported in cents.
func (a *AdSetRecord) DailyBudgetValue() float64 {
	cents, err := strconv.ParseFloat(a.DailyBudget, 64)
	if err != nil {
		return 0
	}
	return cents / 100
}

// AdRecord is a single ad as returned by the platform
type AdRecord struct {
	ID       string `json:"id"`
	AdSetID  string `json:"adset_id"`
	Name     string `json:"name"`
	Status   string `json:"status"`
	Creative struct {
		ID string `json:"id"`
	} `json:"creative"`
}

// CampaignPage is one page of campaigns
type CampaignPage struct {
	Data   []CampaignRecord `json:"data"`
	Paging *Paging          `json:"paging"`
}

// AdSetPage is one page of ad sets
type AdSetPage struct {
	Data   []AdSetRecord `json:"data"`
	Paging *Paging       `json:"paging"`
}

// AdPage is one page of ads
type AdPage struct {
	Data   []AdRecord `json:"data"`
	Paging *Paging    `json:"paging"`
}

// HTTPClient implements Client against the platform's REST API
type HTTPClient struct {
	baseURL     string
	accountID   string
	accessToken string
	httpClient  *http.Client
}

// NewHTTPClient creates a new marketing API client from configuration
func NewHTTPClient(cfg *config.MarketingConfig) *HTTPClient {
	return &HTTPClient{
		baseURL:     cfg.BaseURL,
		accountID:   cfg.AccountID,
		accessToken: cfg.AccessToken,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
	}
}

// ExchangeToken exchanges a short-lived token for a long-lived one
func (c *HTTPClient) ExchangeToken(ctx context.Context, shortLivedToken string) (*TokenResponse, error) {
	params := url.Values{}
	params.Set("grant_type", "fb_exchange_token")
	params.Set("fb_exchange_token", shortLivedToken)

	var token TokenResponse
	if err := c.get(ctx, "/oauth/access_token", params, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

// ListCampaigns returns one page of campaigns for the configured account
func (c *HTTPClient) ListCampaigns(ctx context.Context, req ListRequest) (*CampaignPage, error) {
	params := c.listParams(req)
	params.Set("fields", "id,name,objective,status,effective_status,daily_budget,currency,start_time,stop_time")

	var page CampaignPage
	if err := c.get(ctx, fmt.Sprintf("/%s/campaigns", c.accountID), params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ListAdSets returns one page of ad sets belonging to a campaign
func (c *HTTPClient) ListAdSets(ctx context.Context, campaignID string, req ListRequest) (*AdSetPage, error) {
	params := c.listParams(req)
	params.Set("fields", "id,campaign_id,name,status,optimization_goal,daily_budget")

	var page AdSetPage
	if err := c.get(ctx, fmt.Sprintf("/%s/adsets", campaignID), params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ListAds returns one page of ads belonging to an ad set
func (c *HTTPClient) ListAds(ctx context.Context, adSetID string, req ListRequest) (*AdPage, error) {
	params := c.listParams(req)
	params.Set("fields", "id,adset_id,name,status,creative")

	var page AdPage
	if err := c.get(ctx, fmt.Sprintf("/%s/ads", adSetID), params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *HTTPClient) listParams(req ListRequest) url.Values {
	params := url.Values{}
	if req.Limit > 0 {
		params.Set("limit", strconv.Itoa(req.Limit))
	}
	if req.After != "" {
		params.Set("after", req.After)
	}
	return params
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	params.Set("access_token", c.accessToken)

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		after := parseRetryAfter(resp.Header.Get("Retry-After"))
		return &retry.RetryAfterError{
			After: after,
			Err:   fmt.Errorf("marketing api rate limited: %s", path),
		}
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("marketing api error: status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode marketing api response: %w", err)
	}
	return nil
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return 0
}
