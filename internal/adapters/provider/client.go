package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"aurum/pkg/errors"
)

const (
	defaultHTTPTimeout = 10 * time.Second
	maxLogoBytes       = 2 << 20 // 2 MiB
)

// Config configures the market-data provider client
type Config struct {
	BaseURL string
	Token   string

	HTTPClient        *http.Client
	RequestsPerMinute int
}

// Client is a thin HTTP wrapper for the external market-data source
type Client struct {
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a new provider client
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("provider base url required")
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}

	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 60
	}

	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 5),
	}, nil
}

// GetQuote fetches one equity quote with metadata
func (c *Client) GetQuote(ctx context.Context, symbol string) (*Quote, error) {
	data, reqURL, err := c.get(ctx, "/quote/"+url.PathEscape(strings.ToUpper(symbol)), url.Values{
		"fundamental": []string{"true"},
	})
	if err != nil {
		return nil, err
	}

	var res struct {
		Results []quotePayload `json:"results"`
	}
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, err
	}

	if len(res.Results) == 0 {
		return nil, NewAPIError(http.StatusNotFound, http.MethodGet, reqURL, "empty result set")
	}

	return res.Results[0].toQuote(), nil
}

// GetCurrencyQuote fetches one currency-pair quote (e.g. "USD-BRL")
func (c *Client) GetCurrencyQuote(ctx context.Context, pair string) (*Quote, error) {
	data, reqURL, err := c.get(ctx, "/v2/currency", url.Values{
		"currency": []string{strings.ToUpper(pair)},
	})
	if err != nil {
		return nil, err
	}

	var res struct {
		Currency []struct {
			FromCurrency string `json:"fromCurrency"`
			ToCurrency   string `json:"toCurrency"`
			Name         string `json:"name"`
			BidPrice     string `json:"bidPrice"`
			BidVariation string `json:"bidVariation"`
			High         string `json:"high"`
			Low          string `json:"low"`
			Timestamp    int64  `json:"timestamp"`
		} `json:"currency"`
	}
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, err
	}

	if len(res.Currency) == 0 {
		return nil, NewAPIError(http.StatusNotFound, http.MethodGet, reqURL, "empty currency set")
	}

	cur := res.Currency[0]
	return &Quote{
		Symbol:        cur.FromCurrency + cur.ToCurrency,
		Name:          cur.Name,
		Price:         parseDecimal(cur.BidPrice),
		ChangePercent: parseDecimal(cur.BidVariation),
		High:          parseDecimal(cur.High),
		Low:           parseDecimal(cur.Low),
		Currency:      cur.ToCurrency,
		UpdatedAt:     time.Unix(cur.Timestamp, 0),
	}, nil
}

// ListTickers fetches the provider's full ticker list
func (c *Client) ListTickers(ctx context.Context) ([]string, error) {
	data, _, err := c.get(ctx, "/available", nil)
	if err != nil {
		return nil, err
	}

	var res struct {
		Indexes []string `json:"indexes"`
		Stocks  []string `json:"stocks"`
	}
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, err
	}

	tickers := make([]string, 0, len(res.Stocks)+len(res.Indexes))
	tickers = append(tickers, res.Stocks...)
	tickers = append(tickers, res.Indexes...)
	return tickers, nil
}

// DownloadLogo fetches raw image bytes from a logo URL
func (c *Client) DownloadLogo(ctx context.Context, logoURL string) ([]byte, string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, logoURL, nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", errors.Wrapf(err, "download logo %s", logoURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, "", NewAPIError(resp.StatusCode, http.MethodGet, logoURL, "logo download failed")
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxLogoBytes))
	if err != nil {
		return nil, "", err
	}

	return data, resp.Header.Get("Content-Type"), nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, "", err
	}

	if params == nil {
		params = url.Values{}
	}
	if c.cfg.Token != "" {
		params.Set("token", c.cfg.Token)
	}

	reqURL := c.cfg.BaseURL + path
	if query := params.Encode(); query != "" {
		reqURL = reqURL + "?" + query
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, reqURL, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, reqURL, errors.Wrapf(err, "provider GET %s", reqURL)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, reqURL, err
	}

	if resp.StatusCode >= 400 {
		return nil, reqURL, NewAPIError(resp.StatusCode, http.MethodGet, reqURL, apiMessage(payload))
	}

	return payload, reqURL, nil
}

// quotePayload mirrors the provider's quote document
type quotePayload struct {
	Symbol             string      `json:"symbol"`
	ShortName          string      `json:"shortName"`
	LongName           string      `json:"longName"`
	RegularMarketPrice json.Number `json:"regularMarketPrice"`
	ChangePercent      json.Number `json:"regularMarketChangePercent"`
	Volume             json.Number `json:"regularMarketVolume"`
	DayHigh            json.Number `json:"regularMarketDayHigh"`
	DayLow             json.Number `json:"regularMarketDayLow"`
	Sector             string      `json:"sector"`
	MarketCap          json.Number `json:"marketCap"`
	Currency           string      `json:"currency"`
	Logo               LogoRef     `json:"logourl"`
	Website            string      `json:"website"`
	UpdatedAt          string      `json:"regularMarketTime"`
}

func (p quotePayload) toQuote() *Quote {
	name := p.LongName
	if name == "" {
		name = p.ShortName
	}

	updated, _ := time.Parse(time.RFC3339, p.UpdatedAt)

	return &Quote{
		Symbol:        strings.ToUpper(p.Symbol),
		Name:          name,
		Price:         parseDecimal(p.RegularMarketPrice.String()),
		ChangePercent: parseDecimal(p.ChangePercent.String()),
		Volume:        parseDecimal(p.Volume.String()),
		High:          parseDecimal(p.DayHigh.String()),
		Low:           parseDecimal(p.DayLow.String()),
		Sector:        p.Sector,
		MarketCap:     parseDecimal(p.MarketCap.String()),
		Currency:      p.Currency,
		Logo:          p.Logo,
		Website:       p.Website,
		UpdatedAt:     updated,
	}
}

func apiMessage(payload []byte) string {
	var apiErr struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(payload, &apiErr); err == nil {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		if apiErr.Error != "" {
			return apiErr.Error
		}
	}
	return string(payload)
}

func parseDecimal(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero
	}
	return d
}
