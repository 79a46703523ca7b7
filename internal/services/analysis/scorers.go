package analysis

import (
	"fmt"

	"github.com/shopspring/decimal"

	"aurum/internal/adapters/provider"
	"aurum/internal/domain/insight"
	"aurum/internal/domain/technique"
)

// Score is the outcome of evaluating one quote against one technique.
// Scoring is total: every scorer returns a Score for every input.
type Score struct {
	Recommendation insight.Recommendation
	Confidence     int
	Analysis       string
	TargetPrice    *decimal.Decimal
	StopLoss       *decimal.Decimal
}

// Scorer evaluates a quote under one technique category
type Scorer interface {
	Score(q *provider.Quote, t *technique.Technique) Score
}

// Registry dispatches scorers by technique category.
// Unregistered categories fall back to the neutral scorer, so dispatch
// never fails on an unrecognized technique.
type Registry struct {
	scorers  map[technique.Category]Scorer
	fallback Scorer
}

// NewRegistry creates a registry with the built-in scorers registered
func NewRegistry() *Registry {
	r := &Registry{
		scorers:  make(map[technique.Category]Scorer),
		fallback: neutralScorer{},
	}
	r.Register(technique.CategoryTrendFollowing, trendScorer{})
	r.Register(technique.CategoryMomentum, momentumScorer{})
	r.Register(technique.CategorySupportResistance, rangeScorer{})
	return r
}

// Register adds or replaces the scorer for a category
func (r *Registry) Register(cat technique.Category, s Scorer) {
	r.scorers[cat] = s
}

// For returns the scorer for a category, or the neutral fallback
func (r *Registry) For(cat technique.Category) Scorer {
	if s, ok := r.scorers[cat]; ok {
		return s
	}
	return r.fallback
}

// neutralScorer always holds at confidence 50
type neutralScorer struct{}

func (neutralScorer) Score(q *provider.Quote, t *technique.Technique) Score {
	return Score{
		Recommendation: insight.RecommendationHold,
		Confidence:     50,
		Analysis:       fmt.Sprintf("No scorer registered for %q; holding %s at %s.", t.Category, q.Symbol, q.Price),
	}
}

// trendScorer follows the day's direction: a move beyond the buy
// threshold signals continuation, a move below the sell threshold
// signals reversal.
type trendScorer struct{}

func (trendScorer) Score(q *provider.Quote, t *technique.Technique) Score {
	change := q.ChangePercent

	switch {
	case change.GreaterThanOrEqual(t.BuyThreshold):
		return Score{
			Recommendation: insight.RecommendationBuy,
			Confidence:     confidenceFromDistance(change, t.BuyThreshold),
			Analysis:       fmt.Sprintf("%s is up %s%% over the %s window, above the %s%% trend threshold.", q.Symbol, change, t.Timeframe, t.BuyThreshold),
			TargetPrice:    applyPercent(q.Price, t.TakeProfit),
			StopLoss:       applyPercent(q.Price, t.StopLoss.Neg()),
		}
	case change.LessThanOrEqual(t.SellThreshold.Neg()):
		return Score{
			Recommendation: insight.RecommendationSell,
			Confidence:     confidenceFromDistance(change.Neg(), t.SellThreshold),
			Analysis:       fmt.Sprintf("%s is down %s%% over the %s window, beyond the %s%% reversal threshold.", q.Symbol, change.Abs(), t.Timeframe, t.SellThreshold),
		}
	default:
		return Score{
			Recommendation: insight.RecommendationHold,
			Confidence:     50,
			Analysis:       fmt.Sprintf("%s moved %s%%, inside the %s/%s threshold band.", q.Symbol, change, t.BuyThreshold, t.SellThreshold),
		}
	}
}

// momentumScorer reads the size of the move itself: outsized swings in
// either direction are treated as overextended.
type momentumScorer struct{}

func (momentumScorer) Score(q *provider.Quote, t *technique.Technique) Score {
	change := q.ChangePercent

	switch {
	case change.LessThanOrEqual(t.BuyThreshold.Neg()):
		return Score{
			Recommendation: insight.RecommendationBuy,
			Confidence:     confidenceFromDistance(change.Neg(), t.BuyThreshold),
			Analysis:       fmt.Sprintf("%s sold off %s%%; momentum oversold against the %s%% bound.", q.Symbol, change.Abs(), t.BuyThreshold),
			TargetPrice:    applyPercent(q.Price, t.TakeProfit),
			StopLoss:       applyPercent(q.Price, t.StopLoss.Neg()),
		}
	case change.GreaterThanOrEqual(t.SellThreshold):
		return Score{
			Recommendation: insight.RecommendationSell,
			Confidence:     confidenceFromDistance(change, t.SellThreshold),
			Analysis:       fmt.Sprintf("%s ran up %s%%; momentum overbought against the %s%% bound.", q.Symbol, change, t.SellThreshold),
		}
	default:
		return Score{
			Recommendation: insight.RecommendationHold,
			Confidence:     50,
			Analysis:       fmt.Sprintf("%s momentum of %s%% is within bounds.", q.Symbol, change),
		}
	}
}

// rangeScorer positions the price inside the day's high/low band
type rangeScorer struct{}

func (rangeScorer) Score(q *provider.Quote, t *technique.Technique) Score {
	band := q.High.Sub(q.Low)
	if band.IsZero() || q.Price.IsZero() {
		return Score{
			Recommendation: insight.RecommendationHold,
			Confidence:     50,
			Analysis:       fmt.Sprintf("%s has no intraday range to position against.", q.Symbol),
		}
	}

	// 0 = at the low, 100 = at the high
	position := q.Price.Sub(q.Low).Div(band).Mul(decimal.NewFromInt(100))

	switch {
	case position.LessThanOrEqual(decimal.NewFromInt(20)):
		return Score{
			Recommendation: insight.RecommendationBuy,
			Confidence:     70,
			Analysis:       fmt.Sprintf("%s trades at %s near the day low %s; support band entry.", q.Symbol, q.Price, q.Low),
			TargetPrice:    &q.High,
			StopLoss:       applyPercent(q.Low, t.StopLoss.Neg()),
		}
	case position.GreaterThanOrEqual(decimal.NewFromInt(80)):
		return Score{
			Recommendation: insight.RecommendationSell,
			Confidence:     70,
			Analysis:       fmt.Sprintf("%s trades at %s near the day high %s; resistance band exit.", q.Symbol, q.Price, q.High),
		}
	default:
		return Score{
			Recommendation: insight.RecommendationHold,
			Confidence:     50,
			Analysis:       fmt.Sprintf("%s sits mid-range between %s and %s.", q.Symbol, q.Low, q.High),
		}
	}
}

// confidenceFromDistance scales confidence with how far the move cleared
// its threshold, clamped to [55, 95].
func confidenceFromDistance(value, threshold decimal.Decimal) int {
	if threshold.IsZero() {
		return 60
	}

	ratio := value.Div(threshold)
	conf := 50 + ratio.Mul(decimal.NewFromInt(10)).IntPart()
	if conf < 55 {
		conf = 55
	}
	if conf > 95 {
		conf = 95
	}
	return int(conf)
}

// applyPercent offsets price by pct percent; nil when pct is zero
func applyPercent(price, pct decimal.Decimal) *decimal.Decimal {
	if pct.IsZero() || price.IsZero() {
		return nil
	}
	v := price.Mul(decimal.NewFromInt(100).Add(pct)).Div(decimal.NewFromInt(100))
	return &v
}
