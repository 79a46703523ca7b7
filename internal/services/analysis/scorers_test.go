package analysis

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aurum/internal/adapters/provider"
	"aurum/internal/domain/insight"
	"aurum/internal/domain/technique"
)

func quoteWith(change, price float64) *provider.Quote {
	return &provider.Quote{
		Symbol:        "PETR4",
		Price:         decimal.NewFromFloat(price),
		ChangePercent: decimal.NewFromFloat(change),
		High:          decimal.NewFromFloat(price * 1.05),
		Low:           decimal.NewFromFloat(price * 0.95),
	}
}

func trendTechnique() *technique.Technique {
	return &technique.Technique{
		Title:         "Trend breakout",
		Category:      technique.CategoryTrendFollowing,
		Timeframe:     "1d",
		BuyThreshold:  decimal.NewFromInt(2),
		SellThreshold: decimal.NewFromInt(2),
		StopLoss:      decimal.NewFromInt(5),
		TakeProfit:    decimal.NewFromInt(10),
	}
}

func TestTrendScorer(t *testing.T) {
	tests := []struct {
		name   string
		change float64
		want   insight.Recommendation
	}{
		{"above buy threshold", 3.0, insight.RecommendationBuy},
		{"exactly at buy threshold", 2.0, insight.RecommendationBuy},
		{"inside band", 0.5, insight.RecommendationHold},
		{"below sell threshold", -3.0, insight.RecommendationSell},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := trendScorer{}.Score(quoteWith(tt.change, 30), trendTechnique())
			assert.Equal(t, tt.want, score.Recommendation)
			assert.NotEmpty(t, score.Analysis)
			assert.GreaterOrEqual(t, score.Confidence, 50)
			assert.LessOrEqual(t, score.Confidence, 95)
		})
	}
}

func TestTrendScorer_BuySetsTargets(t *testing.T) {
	score := trendScorer{}.Score(quoteWith(3.0, 100), trendTechnique())

	require.NotNil(t, score.TargetPrice)
	require.NotNil(t, score.StopLoss)
	assert.True(t, score.TargetPrice.Equal(decimal.NewFromInt(110)), "target %s", score.TargetPrice)
	assert.True(t, score.StopLoss.Equal(decimal.NewFromInt(95)), "stop %s", score.StopLoss)
}

func TestMomentumScorer_IsContrarian(t *testing.T) {
	tech := trendTechnique()
	tech.Category = technique.CategoryMomentum

	// A sell-off reads as oversold, a run-up as overbought
	buy := momentumScorer{}.Score(quoteWith(-3.0, 30), tech)
	assert.Equal(t, insight.RecommendationBuy, buy.Recommendation)

	sell := momentumScorer{}.Score(quoteWith(3.0, 30), tech)
	assert.Equal(t, insight.RecommendationSell, sell.Recommendation)

	hold := momentumScorer{}.Score(quoteWith(0.5, 30), tech)
	assert.Equal(t, insight.RecommendationHold, hold.Recommendation)
}

func TestRangeScorer(t *testing.T) {
	tech := &technique.Technique{
		Category: technique.CategorySupportResistance,
		StopLoss: decimal.NewFromInt(3),
	}

	nearLow := &provider.Quote{
		Symbol: "VALE3",
		Price:  decimal.NewFromInt(101),
		High:   decimal.NewFromInt(110),
		Low:    decimal.NewFromInt(100),
	}
	score := rangeScorer{}.Score(nearLow, tech)
	assert.Equal(t, insight.RecommendationBuy, score.Recommendation)
	require.NotNil(t, score.TargetPrice)
	assert.True(t, score.TargetPrice.Equal(nearLow.High))

	nearHigh := &provider.Quote{
		Symbol: "VALE3",
		Price:  decimal.NewFromInt(109),
		High:   decimal.NewFromInt(110),
		Low:    decimal.NewFromInt(100),
	}
	assert.Equal(t, insight.RecommendationSell, rangeScorer{}.Score(nearHigh, tech).Recommendation)

	flat := &provider.Quote{
		Symbol: "VALE3",
		Price:  decimal.NewFromInt(100),
		High:   decimal.NewFromInt(100),
		Low:    decimal.NewFromInt(100),
	}
	assert.Equal(t, insight.RecommendationHold, rangeScorer{}.Score(flat, tech).Recommendation)
}

func TestRegistry_FallsBackToNeutral(t *testing.T) {
	r := NewRegistry()

	scorer := r.For(technique.Category("astrology"))
	score := scorer.Score(quoteWith(5, 30), &technique.Technique{Category: "astrology"})

	assert.Equal(t, insight.RecommendationHold, score.Recommendation)
	assert.Equal(t, 50, score.Confidence)
}

func TestConfidenceFromDistance_Clamped(t *testing.T) {
	// Barely over the threshold stays near the floor
	low := confidenceFromDistance(decimal.NewFromFloat(2.0), decimal.NewFromInt(2))
	assert.Equal(t, 60, low)

	// A huge overshoot caps at the ceiling
	high := confidenceFromDistance(decimal.NewFromInt(100), decimal.NewFromInt(2))
	assert.Equal(t, 95, high)

	// Zero threshold cannot divide
	assert.Equal(t, 60, confidenceFromDistance(decimal.NewFromInt(5), decimal.Zero))
}
