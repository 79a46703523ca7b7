package analysis

import (
	"context"
	"time"

	"github.com/google/uuid"

	"aurum/internal/adapters/provider"
	"aurum/internal/domain/asset"
	"aurum/internal/domain/insight"
	"aurum/internal/domain/technique"
	"aurum/pkg/errors"
	"aurum/pkg/logger"
)

// QuoteSource is the slice of the provider client the executor needs
type QuoteSource interface {
	GetQuote(ctx context.Context, symbol string) (*provider.Quote, error)
	GetCurrencyQuote(ctx context.Context, pair string) (*provider.Quote, error)
}

// Executor evaluates one asset under one technique and records the result
type Executor struct {
	quotes   QuoteSource
	insights insight.Repository
	scorers  *Registry
	log      *logger.Logger
}

// NewExecutor creates a new analysis executor
func NewExecutor(quotes QuoteSource, insights insight.Repository, scorers *Registry) *Executor {
	if scorers == nil {
		scorers = NewRegistry()
	}
	return &Executor{
		quotes:   quotes,
		insights: insights,
		scorers:  scorers,
		log:      logger.Get().With("component", "analysis_executor"),
	}
}

// PerformAnalysis fetches a quote for the asset, scores it under the
// technique and persists one insight. A quote-fetch failure propagates
// and nothing is written; no retry is attempted here — batch callers
// isolate failures instead.
func (e *Executor) PerformAnalysis(ctx context.Context, a *asset.Asset, t *technique.Technique) (*insight.Insight, error) {
	quote, err := e.fetchQuote(ctx, a)
	if err != nil {
		return nil, errors.Wrapf(err, "quote fetch for %s", a.Symbol)
	}

	score := e.scorers.For(t.Category).Score(quote, t)

	ins := &insight.Insight{
		ID:             uuid.New(),
		AssetID:        a.ID,
		TechniqueID:    t.ID,
		Analysis:       score.Analysis,
		Recommendation: score.Recommendation,
		Confidence:     score.Confidence,
		Price:          quote.Price,
		TargetPrice:    score.TargetPrice,
		StopLoss:       score.StopLoss,
		ExecutedAt:     time.Now().UTC(),
	}

	if err := e.insights.Insert(ctx, ins); err != nil {
		return nil, errors.Wrapf(err, "persist insight for %s/%s", a.Symbol, t.Title)
	}

	e.log.Debugw("Insight recorded",
		"symbol", a.Symbol,
		"technique", t.Title,
		"recommendation", ins.Recommendation,
		"confidence", ins.Confidence,
	)

	return ins, nil
}

// fetchQuote selects the endpoint family by asset type
func (e *Executor) fetchQuote(ctx context.Context, a *asset.Asset) (*provider.Quote, error) {
	if a.Type == asset.TypeCurrency {
		return e.quotes.GetCurrencyQuote(ctx, currencyPair(a.Symbol))
	}
	return e.quotes.GetQuote(ctx, a.Symbol)
}

// currencyPair renders a stored currency symbol (e.g. "USDBRL") in the
// provider's pair form ("USD-BRL"). Symbols that are not six letters
// pass through unchanged.
func currencyPair(symbol string) string {
	if len(symbol) == 6 {
		return symbol[:3] + "-" + symbol[3:]
	}
	return symbol
}
