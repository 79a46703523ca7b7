package insight

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Insight is one immutable analysis result produced for an association
// at a point in time. Rows are append-only; after creation only the
// is_hidden toggle (owned by the CRUD layer) may change.
type Insight struct {
	ID          uuid.UUID `db:"id"`
	AssetID     uuid.UUID `db:"asset_id"`
	TechniqueID uuid.UUID `db:"technique_id"`

	Analysis       string         `db:"analysis"`
	Recommendation Recommendation `db:"recommendation"`
	Confidence     int            `db:"confidence"`

	Price       decimal.Decimal  `db:"price"`
	TargetPrice *decimal.Decimal `db:"target_price"`
	StopLoss    *decimal.Decimal `db:"stop_loss"`

	IsHidden   bool      `db:"is_hidden"`
	ExecutedAt time.Time `db:"executed_at"`
	CreatedAt  time.Time `db:"created_at"`
}

// Recommendation is the trading signal direction
type Recommendation string

const (
	RecommendationBuy  Recommendation = "buy"
	RecommendationSell Recommendation = "sell"
	RecommendationHold Recommendation = "hold"
)

// Valid checks if the recommendation is valid
func (r Recommendation) Valid() bool {
	return r == RecommendationBuy || r == RecommendationSell || r == RecommendationHold
}
