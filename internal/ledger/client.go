package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// AvailableCredit is the credit position of an account as reported by the
// ledger service.
type AvailableCredit struct {
	AccountID      string `json:"accountId"`
	AvailableCents int64  `json:"availableCents"`
	Currency       string `json:"currency"`
	HoldsCents     int64  `json:"holdsCents"`
	CapturedCents  int64  `json:"capturedCents"`
}

// LimitRule is a spending limit scoped to a user or a card hash. A ceiling of
// zero or below means that dimension is not configured.
type LimitRule struct {
	ScopeType         string `json:"scopeType"`
	ScopeKey          string `json:"scopeKey"`
	Currency          string `json:"currency"`
	CreditLimitCents  int64  `json:"creditLimitCents"`
	DailyLimitCents   int64  `json:"dailyLimitCents"`
	MonthlyLimitCents int64  `json:"monthlyLimitCents"`
}

// Client talks to the ledger's limits/credit HTTP API. Any transport error,
// non-2xx status (other than 404 on a limit lookup) or undecodable body is an
// infrastructure failure surfaced as an error, never as a business outcome.
type Client struct {
	base string
	http *http.Client
}

func New(base string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{base: strings.TrimRight(base, "/"), http: hc}
}

func (c *Client) AvailableCredit(ctx context.Context, accountID string) (AvailableCredit, error) {
	target := fmt.Sprintf("%s/accounts/%s/available-credit", c.base, url.PathEscape(accountID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return AvailableCredit{}, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return AvailableCredit{}, fmt.Errorf("available-credit: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		b, _ := io.ReadAll(resp.Body)
		return AvailableCredit{}, fmt.Errorf("available-credit status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var credit AvailableCredit
	if err := json.NewDecoder(resp.Body).Decode(&credit); err != nil {
		return AvailableCredit{}, fmt.Errorf("decode available-credit: %w", err)
	}
	return credit, nil
}

// UserLimit returns the limit rule scoped to a user, or nil when the ledger
// has none configured.
func (c *Client) UserLimit(ctx context.Context, userID string) (*LimitRule, error) {
	return c.limit(ctx, "/limits/users/"+url.PathEscape(userID))
}

// PANLimit returns the limit rule scoped to a hashed card number, or nil when
// the ledger has none configured.
func (c *Client) PANLimit(ctx context.Context, panHash string) (*LimitRule, error) {
	return c.limit(ctx, "/limits/pan/"+url.PathEscape(panHash))
}

func (c *Client) limit(ctx context.Context, path string) (*LimitRule, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("limit lookup: %w", err)
	}
	defer resp.Body.Close()

	// 404 means no rule is configured for this scope; that is a valid
	// outcome, not an error.
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode/100 != 2 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("limit lookup status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var rule LimitRule
	if err := json.NewDecoder(resp.Body).Decode(&rule); err != nil {
		return nil, fmt.Errorf("decode limit rule: %w", err)
	}
	return &rule, nil
}

// Ping reports whether the ledger is reachable. Any HTTP response counts;
// only transport failures mark the ledger as down.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/health", nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("ping ledger: %w", err)
	}
	resp.Body.Close()
	return nil
}
