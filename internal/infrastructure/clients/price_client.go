package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/starbookhq/starbook/internal/domain"
	"github.com/starbookhq/starbook/pkg/config"
)

type PriceAPIClient struct {
	baseURL    string
	httpClient *http.Client
	config     *config.PriceAPIConfig
	logger     zerolog.Logger
}

func NewPriceAPIClient(cfg *config.PriceAPIConfig, logger zerolog.Logger) *PriceAPIClient {
	return &PriceAPIClient{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     30 * time.Second,
				MaxIdleConnsPerHost: 10,
			},
		},
		config: cfg,
		logger: logger.With().Str("component", "coincap_price_client").Logger(),
	}
}

func (c *PriceAPIClient) GetAssetPriceUsd(ctx context.Context, asset string) (decimal.Decimal, error) {
	return c.getPriceWithRetry(ctx, asset, 0)
}

func (c *PriceAPIClient) getPriceWithRetry(ctx context.Context, asset string, attempt int) (decimal.Decimal, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid base URL: %w", err)
	}
	u.Path = fmt.Sprintf("/v3/assets/%s", mapAssetToCoinCapID(asset))

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("creating request failed: %w", err)
	}
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if shouldRetry(err) && attempt < c.config.MaxRetries {
			backoff := calculateBackoff(attempt, c.config.RetryBackoffBase)
			c.logger.Info().
				Err(err).
				Int("attempt", attempt+1).
				Dur("backoff", backoff).
				Msg("Price request failed, retrying after backoff")
			time.Sleep(backoff)
			return c.getPriceWithRetry(ctx, asset, attempt+1)
		}
		return decimal.Zero, fmt.Errorf("%w: %v", domain.ErrPriceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if shouldRetryStatusCode(resp.StatusCode) && attempt < c.config.MaxRetries {
			backoff := calculateBackoff(attempt, c.config.RetryBackoffBase)
			c.logger.Warn().
				Int("status_code", resp.StatusCode).
				Int("attempt", attempt+1).
				Dur("backoff", backoff).
				Msg("Received non-200 status, retrying after backoff")
			time.Sleep(backoff)
			return c.getPriceWithRetry(ctx, asset, attempt+1)
		}
		return decimal.Zero, fmt.Errorf("%w: HTTP %d", domain.ErrPriceUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: reading response body failed: %v", domain.ErrPriceUnavailable, err)
	}

	return c.parseCoinCapResponse(body)
}

func (c *PriceAPIClient) parseCoinCapResponse(body []byte) (decimal.Decimal, error) {
	var response struct {
		Data      domain.CoinCapAsset `json:"data"`
		Timestamp int64               `json:"timestamp"`
	}

	if err := json.Unmarshal(body, &response); err != nil {
		return decimal.Zero, fmt.Errorf("%w: parsing JSON response failed: %v", domain.ErrPriceUnavailable, err)
	}
	if response.Data.PriceUSD == "" {
		return decimal.Zero, fmt.Errorf("%w: empty price in response", domain.ErrPriceUnavailable)
	}

	price, err := decimal.NewFromString(response.Data.PriceUSD)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: invalid price format: %v", domain.ErrPriceUnavailable, err)
	}
	if price.IsZero() || price.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: non-positive price %s", domain.ErrPriceUnavailable, price)
	}
	return price, nil
}

func mapAssetToCoinCapID(asset string) string {
	mapping := map[string]string{
		"BTC":  "bitcoin",
		"ETH":  "ethereum",
		"LTC":  "litecoin",
		"USDT": "tether",
		"USDC": "usd-coin",
		"XRP":  "xrp",
		"ADA":  "cardano",
		"DOGE": "dogecoin",
		"SOL":  "solana",
		"DOT":  "polkadot",
		"TRX":  "tron",
		"LINK": "chainlink",
	}

	if id, exists := mapping[asset]; exists {
		return id
	}
	return asset
}

func shouldRetry(err error) bool {
	if err, ok := err.(interface{ Timeout() bool }); ok && err.Timeout() {
		return true
	}
	if err, ok := err.(interface{ Temporary() bool }); ok && err.Temporary() {
		return true
	}
	return false
}

func shouldRetryStatusCode(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests ||
		statusCode == http.StatusInternalServerError ||
		statusCode == http.StatusBadGateway ||
		statusCode == http.StatusServiceUnavailable ||
		statusCode == http.StatusGatewayTimeout
}

func calculateBackoff(attempt, base int) time.Duration {
	if base <= 0 {
		base = 2
	}
	backoff := time.Duration(base<<attempt) * time.Second
	if backoff > 30*time.Second {
		backoff = 30 * time.Second
	}
	return backoff
}
