package analysis

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"aurum/internal/adapters/provider"
	"aurum/internal/domain/asset"
	"aurum/internal/domain/insight"
	pkgerrors "aurum/pkg/errors"
)

// MockQuoteSource is a mock for the QuoteSource interface
type MockQuoteSource struct {
	mock.Mock
}

func (m *MockQuoteSource) GetQuote(ctx context.Context, symbol string) (*provider.Quote, error) {
	args := m.Called(ctx, symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.Quote), args.Error(1)
}

func (m *MockQuoteSource) GetCurrencyQuote(ctx context.Context, pair string) (*provider.Quote, error) {
	args := m.Called(ctx, pair)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.Quote), args.Error(1)
}

// MockInsightRepository is a mock for insight.Repository
type MockInsightRepository struct {
	mock.Mock
}

func (m *MockInsightRepository) Insert(ctx context.Context, ins *insight.Insight) error {
	args := m.Called(ctx, ins)
	return args.Error(0)
}

func stockAsset(symbol string) *asset.Asset {
	return &asset.Asset{ID: uuid.New(), Symbol: symbol, Type: asset.TypeStock, IsActive: true}
}

func TestExecutor_PerformAnalysis_RecordsInsight(t *testing.T) {
	quotes := new(MockQuoteSource)
	insights := new(MockInsightRepository)

	a := stockAsset("PETR4")
	tech := trendTechnique()
	tech.ID = uuid.New()

	quotes.On("GetQuote", mock.Anything, "PETR4").Return(quoteWith(3.0, 30), nil)
	insights.On("Insert", mock.Anything, mock.MatchedBy(func(ins *insight.Insight) bool {
		return ins.AssetID == a.ID &&
			ins.TechniqueID == tech.ID &&
			ins.Recommendation == insight.RecommendationBuy &&
			!ins.ExecutedAt.IsZero()
	})).Return(nil)

	exec := NewExecutor(quotes, insights, NewRegistry())
	ins, err := exec.PerformAnalysis(context.Background(), a, tech)

	require.NoError(t, err)
	assert.Equal(t, insight.RecommendationBuy, ins.Recommendation)
	assert.True(t, ins.Price.Equal(decimal.NewFromInt(30)))
	insights.AssertExpectations(t)
}

func TestExecutor_PerformAnalysis_CurrencyUsesPairEndpoint(t *testing.T) {
	quotes := new(MockQuoteSource)
	insights := new(MockInsightRepository)

	a := stockAsset("USDBRL")
	a.Type = asset.TypeCurrency
	tech := trendTechnique()

	quotes.On("GetCurrencyQuote", mock.Anything, "USD-BRL").Return(quoteWith(0.2, 5.40), nil)
	insights.On("Insert", mock.Anything, mock.Anything).Return(nil)

	exec := NewExecutor(quotes, insights, NewRegistry())
	_, err := exec.PerformAnalysis(context.Background(), a, tech)

	require.NoError(t, err)
	quotes.AssertNotCalled(t, "GetQuote", mock.Anything, mock.Anything)
}

func TestExecutor_PerformAnalysis_QuoteFailureWritesNothing(t *testing.T) {
	quotes := new(MockQuoteSource)
	insights := new(MockInsightRepository)

	a := stockAsset("GONE3")
	quotes.On("GetQuote", mock.Anything, "GONE3").
		Return(nil, pkgerrors.Wrap(pkgerrors.ErrDataNotFound, "no results"))

	exec := NewExecutor(quotes, insights, NewRegistry())
	_, err := exec.PerformAnalysis(context.Background(), a, trendTechnique())

	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.ErrDataNotFound))
	insights.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestExecutor_PerformAnalysis_InsertFailurePropagates(t *testing.T) {
	quotes := new(MockQuoteSource)
	insights := new(MockInsightRepository)

	a := stockAsset("PETR4")
	quotes.On("GetQuote", mock.Anything, "PETR4").Return(quoteWith(0.1, 30), nil)
	insights.On("Insert", mock.Anything, mock.Anything).
		Return(pkgerrors.Wrap(pkgerrors.ErrPersistence, "insert failed"))

	exec := NewExecutor(quotes, insights, NewRegistry())
	_, err := exec.PerformAnalysis(context.Background(), a, trendTechnique())

	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.ErrPersistence))
}

func TestCurrencyPair(t *testing.T) {
	assert.Equal(t, "USD-BRL", currencyPair("USDBRL"))
	assert.Equal(t, "EUR-BRL", currencyPair("EURBRL"))
	assert.Equal(t, "BTC", currencyPair("BTC"))
}
