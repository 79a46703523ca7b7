package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "aurum/pkg/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{
		BaseURL:           srv.URL,
		Token:             "test-token",
		HTTPClient:        srv.Client(),
		RequestsPerMinute: 6000,
	})
	require.NoError(t, err)
	return client, srv
}

func TestClient_GetQuote(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quote/PETR4", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("fundamental"))
		assert.Equal(t, "test-token", r.URL.Query().Get("token"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{
			"symbol": "PETR4",
			"longName": "Petroleo Brasileiro SA",
			"regularMarketPrice": 38.42,
			"regularMarketChangePercent": -1.25,
			"regularMarketVolume": 52000000,
			"regularMarketDayHigh": 39.1,
			"regularMarketDayLow": 38.0,
			"sector": "Energy",
			"marketCap": 501000000000,
			"currency": "BRL",
			"logourl": "https://cdn.example.com/petr4.png",
			"regularMarketTime": "2026-08-31T20:00:00Z"
		}]}`))
	})

	quote, err := client.GetQuote(context.Background(), "petr4")

	require.NoError(t, err)
	assert.Equal(t, "PETR4", quote.Symbol)
	assert.Equal(t, "Petroleo Brasileiro SA", quote.Name)
	assert.True(t, quote.Price.Equal(decimal.NewFromFloat(38.42)), "price %s", quote.Price)
	assert.True(t, quote.ChangePercent.Equal(decimal.NewFromFloat(-1.25)))
	assert.Equal(t, "Energy", quote.Sector)
	assert.Equal(t, "BRL", quote.Currency)
	assert.Equal(t, "https://cdn.example.com/petr4.png", quote.Logo.URL())
	assert.Equal(t, 2026, quote.UpdatedAt.Year())
}

func TestClient_GetQuote_LogoObjectForm(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[{
			"symbol": "VALE3",
			"shortName": "VALE ON",
			"regularMarketPrice": 61.2,
			"logourl": {"small": "https://cdn.example.com/s.png", "large": "https://cdn.example.com/l.png"}
		}]}`))
	})

	quote, err := client.GetQuote(context.Background(), "VALE3")

	require.NoError(t, err)
	assert.Equal(t, "VALE ON", quote.Name)
	assert.Equal(t, "https://cdn.example.com/l.png", quote.Logo.URL())
}

func TestClient_GetQuote_RateLimited(t *testing.T) {
	client, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message": "You have reached the request limit"}`))
	})

	_, err := client.GetQuote(context.Background(), "PETR4")

	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.ErrRateLimited))

	var apiErr *APIError
	require.True(t, pkgerrors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, http.MethodGet, apiErr.Method)
	assert.Contains(t, apiErr.URL, srv.URL+"/quote/PETR4")
	assert.Equal(t, "You have reached the request limit", apiErr.Message)
}

func TestClient_GetQuote_EmptyResultsIsNotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[]}`))
	})

	_, err := client.GetQuote(context.Background(), "NOPE3")

	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.ErrDataNotFound))
}

func TestClient_GetQuote_ServerErrorIsProvider(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`upstream unavailable`))
	})

	_, err := client.GetQuote(context.Background(), "PETR4")

	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.ErrProvider))
	assert.False(t, pkgerrors.Is(err, pkgerrors.ErrRateLimited))
}

func TestClient_GetCurrencyQuote(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/currency", r.URL.Path)
		assert.Equal(t, "USD-BRL", r.URL.Query().Get("currency"))

		w.Write([]byte(`{"currency":[{
			"fromCurrency": "USD",
			"toCurrency": "BRL",
			"name": "Dolar Americano/Real Brasileiro",
			"bidPrice": "5.4321",
			"bidVariation": "0.25",
			"high": "5.50",
			"low": "5.40",
			"timestamp": 1756670400
		}]}`))
	})

	quote, err := client.GetCurrencyQuote(context.Background(), "usd-brl")

	require.NoError(t, err)
	assert.Equal(t, "USDBRL", quote.Symbol)
	assert.True(t, quote.Price.Equal(decimal.NewFromFloat(5.4321)))
	assert.Equal(t, "BRL", quote.Currency)
}

func TestClient_ListTickers(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/available", r.URL.Path)
		w.Write([]byte(`{"stocks": ["PETR4", "VALE3"], "indexes": ["BOVA11"]}`))
	})

	tickers, err := client.ListTickers(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"PETR4", "VALE3", "BOVA11"}, tickers)
}

func TestClient_DownloadLogo(t *testing.T) {
	client, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/logo.png" {
			w.Header().Set("Content-Type", "image/png")
			w.Write([]byte("fake-png-bytes"))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	data, contentType, err := client.DownloadLogo(context.Background(), srv.URL+"/logo.png")

	require.NoError(t, err)
	assert.Equal(t, []byte("fake-png-bytes"), data)
	assert.Equal(t, "image/png", contentType)

	_, _, err = client.DownloadLogo(context.Background(), srv.URL+"/missing.png")
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.ErrDataNotFound))
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := NewClient(Config{})
	require.Error(t, err)
}
