// Package oracle fetches live market prices from CoinGecko. It is a thin
// collaborator with no retries and no caching. A failed fetch fails the
// single update that asked for it and nothing else.
package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	apperrors "patrimonio/internal/errors"
)

// coinIDs maps the asset-type tokens used in concepto parentheticals to
// CoinGecko coin ids. GOLD is quoted through pax-gold.
var coinIDs = map[string]string{
	"BTC":  "bitcoin",
	"ETH":  "ethereum",
	"USDT": "tether",
	"USDC": "usd-coin",
	"BNB":  "binancecoin",
	"SOL":  "solana",
	"ADA":  "cardano",
	"XRP":  "ripple",
	"DOT":  "polkadot",
	"DOGE": "dogecoin",
	"GOLD": "pax-gold",
}

// Client is a CoinGecko price client. Prices are returned in USD.
type Client struct {
	client *resty.Client
}

// NewClient creates a price client against baseURL with the given request
// timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &Client{client: client}
}

// Price returns the current USD unit price for a symbol token (BTC, ETH,
// ..., GOLD). Unknown symbols and missing quotes return PRICE_NOT_FOUND;
// transport and status failures return ORACLE_UNAVAILABLE.
func (c *Client) Price(ctx context.Context, symbol string) (float64, error) {
	coinID, ok := coinIDs[strings.ToUpper(strings.TrimSpace(symbol))]
	if !ok {
		return 0, apperrors.WithMessage(apperrors.ErrPriceNotFound, "Unknown symbol: "+symbol)
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"ids":           coinID,
			"vs_currencies": "usd",
		}).
		Get("/simple/price")
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrOracleUnavailable, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return 0, apperrors.Wrap(apperrors.ErrOracleUnavailable,
			fmt.Errorf("unexpected status code: %d", resp.StatusCode()))
	}

	var result map[string]map[string]float64
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return 0, apperrors.Wrap(apperrors.ErrOracleUnavailable, err)
	}

	price, ok := result[coinID]["usd"]
	if !ok {
		return 0, apperrors.WithMessage(apperrors.ErrPriceNotFound, "No quote for symbol: "+symbol)
	}
	if price <= 0 || math.IsInf(price, 0) || math.IsNaN(price) {
		return 0, apperrors.WithMessage(apperrors.ErrPriceNotFound, "Quote is not a positive finite number")
	}

	return price, nil
}
