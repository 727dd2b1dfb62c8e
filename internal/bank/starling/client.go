// Package starling implements the bank.Gateway contract against the
// Starling REST API.
package starling

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"roundup/internal/bank"
)

const DefaultBaseURL = "https://api.starlingbank.com/api/v2"

type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
}

// Ensure interface conformance
var _ bank.Gateway = (*Client)(nil)

// New creates a client for the API at baseURL. The token is sent as a
// bearer credential on every request; obtaining it is out of scope.
func New(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpc:   &http.Client{Timeout: timeout},
	}
}

// NewFromEnv creates a client from environment variables.
// Required: STARLING_ACCESS_TOKEN
// Optional: STARLING_BASE_URL (default DefaultBaseURL),
// STARLING_HTTP_TIMEOUT (Go duration, default 10s).
func NewFromEnv() (*Client, error) {
	token := strings.TrimSpace(os.Getenv("STARLING_ACCESS_TOKEN"))
	if token == "" {
		return nil, errors.New("missing STARLING_ACCESS_TOKEN")
	}
	baseURL := strings.TrimSpace(os.Getenv("STARLING_BASE_URL"))
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := 10 * time.Second
	if v := strings.TrimSpace(os.Getenv("STARLING_HTTP_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid STARLING_HTTP_TIMEOUT %q: %w", v, err)
		}
		timeout = d
	}
	return New(baseURL, token, timeout), nil
}

type accountList struct {
	Accounts []bank.AccountEntity `json:"accounts"`
}

type feedList struct {
	FeedItems []bank.TransactionEntity `json:"feedItems"`
}

type savingsGoalList struct {
	SavingsGoalList []bank.SavingsGoalEntity `json:"savingsGoalList"`
}

type createGoalRequest struct {
	Name     string `json:"name"`
	Currency string `json:"currency"`
}

type topUpRequest struct {
	Amount topUpAmount `json:"amount"`
}

type topUpAmount struct {
	Currency   string `json:"currency"`
	MinorUnits int64  `json:"minorUnits"`
}

func (c *Client) GetAccounts(ctx context.Context) ([]bank.AccountEntity, error) {
	var out accountList
	if err := c.get(ctx, "/accounts", nil, &out); err != nil {
		return nil, err
	}
	return out.Accounts, nil
}

func (c *Client) GetTransactions(ctx context.Context, accountUID, categoryUID, minTimestamp, maxTimestamp string) ([]bank.TransactionEntity, error) {
	query := url.Values{
		"minTransactionTimestamp": {minTimestamp},
		"maxTransactionTimestamp": {maxTimestamp},
	}
	path := fmt.Sprintf("/feed/account/%s/category/%s/transactions-between", url.PathEscape(accountUID), url.PathEscape(categoryUID))
	var out feedList
	if err := c.get(ctx, path, query, &out); err != nil {
		return nil, err
	}
	return out.FeedItems, nil
}

func (c *Client) GetSavingsGoals(ctx context.Context, accountUID string) ([]bank.SavingsGoalEntity, error) {
	var out savingsGoalList
	if err := c.get(ctx, fmt.Sprintf("/account/%s/savings-goals", url.PathEscape(accountUID)), nil, &out); err != nil {
		return nil, err
	}
	return out.SavingsGoalList, nil
}

func (c *Client) CreateSavingsGoal(ctx context.Context, accountUID, name, currency string) (bank.CreateGoalResult, error) {
	var out bank.CreateGoalResult
	path := fmt.Sprintf("/account/%s/savings-goals", url.PathEscape(accountUID))
	if err := c.put(ctx, path, createGoalRequest{Name: name, Currency: currency}, &out); err != nil {
		return bank.CreateGoalResult{}, err
	}
	return out, nil
}

func (c *Client) AddMoneyToGoal(ctx context.Context, accountUID, goalUID, transferUID string, minorUnits int64, currency string) (bank.TransferResult, error) {
	var out bank.TransferResult
	path := fmt.Sprintf("/account/%s/savings-goals/%s/add-money/%s",
		url.PathEscape(accountUID), url.PathEscape(goalUID), url.PathEscape(transferUID))
	body := topUpRequest{Amount: topUpAmount{Currency: currency, MinorUnits: minorUnits}}
	if err := c.put(ctx, path, body, &out); err != nil {
		return bank.TransferResult{}, err
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("starling: encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("starling: build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("starling: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little of the body so the error is actionable.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("starling: %s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("starling: decode %s %s: %w", method, path, err)
	}
	return nil
}
