package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
)

// MonzoAPIURL is the production API endpoint.
const MonzoAPIURL = "https://api.monzo.com"

const transactionsPageSize = 100

// Account is one Monzo account of the authenticated user.
type Account struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Closed      bool   `json:"closed"`
}

// Client wraps the Monzo API with automatic token refresh on 401.
type Client struct {
	tokens *TokenManager
	http   *http.Client
	apiURL string
}

// NewClient creates a Monzo API client using the given token manager.
func NewClient(tokens *TokenManager) *Client {
	return &Client{tokens: tokens, http: new(http.Client), apiURL: MonzoAPIURL}
}

// get performs an authenticated GET, re-authenticating once when the token
// is rejected.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	const maxAttempts = 2
	for attempt := 0; attempt < maxAttempts; attempt++ {
		token, err := c.tokens.AccessToken(ctx)
		if err != nil {
			return nil, err
		}

		addr := c.apiURL + endpoint
		if len(params) > 0 {
			addr += "?" + params.Encode()
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, err
		}

		if resp.StatusCode == http.StatusUnauthorized {
			log.Println("token expired or invalid, re-authenticating...")
			c.tokens.Invalidate()
			continue
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("cannot GET %s: %s - %s", endpoint, resp.Status, strings.TrimSpace(string(body)))
		}
		return body, nil
	}
	return nil, fmt.Errorf("authentication failed after multiple attempts")
}

// Accounts retrieves the user's Monzo accounts.
func (c *Client) Accounts(ctx context.Context) ([]Account, error) {
	body, err := c.get(ctx, "/accounts", nil)
	if err != nil {
		return nil, err
	}
	var content struct {
		Accounts []Account `json:"accounts"`
	}
	if err := json.Unmarshal(body, &content); err != nil {
		return nil, fmt.Errorf("could not decode accounts response: %w", err)
	}
	return content.Accounts, nil
}

// Transactions retrieves all transactions of the last N days for an account,
// paginating through the whole window, and converts them to records.
func (c *Client) Transactions(ctx context.Context, accountID string, days int) ([]Record, error) {
	since := time.Now().Add(-time.Duration(days) * 24 * time.Hour).UTC().Format("2006-01-02T15:04:05Z")

	var records []Record
	for {
		params := url.Values{}
		params.Set("account_id", accountID)
		params.Set("since", since)
		params.Add("expand[]", "merchant")
		params.Set("limit", fmt.Sprint(transactionsPageSize))

		body, err := c.get(ctx, "/transactions", params)
		if err != nil {
			return nil, err
		}
		var page struct {
			Transactions []json.RawMessage `json:"transactions"`
		}
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("could not decode transactions response: %w", err)
		}
		if len(page.Transactions) == 0 {
			break
		}

		for _, raw := range page.Transactions {
			tx, err := decodeTransaction(raw)
			if err != nil {
				return nil, err
			}
			record, err := NewRecord(tx)
			if err != nil {
				log.Printf("skipping transaction: %v", err)
				continue
			}
			records = append(records, record)
		}

		// The last transaction's id is the cursor for the next page.
		var last struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(page.Transactions[len(page.Transactions)-1], &last); err != nil {
			return nil, err
		}
		since = last.ID

		if len(page.Transactions) < transactionsPageSize {
			break
		}
	}
	return records, nil
}

// decodeTransaction decodes one raw transaction. The merchant field is the
// loose part of the payload: depending on expansion it is null, a bare
// merchant id string, or the expanded object, so it is picked apart with
// jsonpath instead of a fixed struct.
func decodeTransaction(raw json.RawMessage) (RawTransaction, error) {
	var tx struct {
		ID          string          `json:"id"`
		Amount      int64           `json:"amount"`
		Currency    string          `json:"currency"`
		Created     time.Time       `json:"created"`
		Description string          `json:"description"`
		Category    string          `json:"category"`
		Notes       string          `json:"notes"`
		Merchant    json.RawMessage `json:"merchant"`
	}
	if err := json.Unmarshal(raw, &tx); err != nil {
		return RawTransaction{}, fmt.Errorf("could not decode transaction: %w", err)
	}

	result := RawTransaction{
		ID:          tx.ID,
		Amount:      tx.Amount,
		Currency:    tx.Currency,
		Created:     tx.Created,
		Description: tx.Description,
		Category:    tx.Category,
		Notes:       tx.Notes,
	}

	if len(tx.Merchant) > 0 && tx.Merchant[0] == '{' {
		var jobj any
		if err := json.Unmarshal(tx.Merchant, &jobj); err != nil {
			return result, fmt.Errorf("could not decode merchant of %s: %w", tx.ID, err)
		}
		m := &Merchant{}
		for path, dst := range map[string]*string{
			"$.id":       &m.ID,
			"$.name":     &m.Name,
			"$.category": &m.Category,
			"$.logo":     &m.Logo,
		} {
			jval, err := jsonpath.Get(path, jobj)
			if err != nil {
				continue // field absent, that's fine
			}
			if s, ok := jval.(string); ok {
				*dst = s
			}
		}
		result.Merchant = m
	}
	return result, nil
}
