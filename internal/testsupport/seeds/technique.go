package seeds

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"aurum/internal/domain/technique"
)

// TechniqueBuilder provides a fluent API for creating Technique entities
type TechniqueBuilder struct {
	db     DBTX
	ctx    context.Context
	entity *technique.Technique
}

// NewTechniqueBuilder creates a new TechniqueBuilder with sensible defaults
func NewTechniqueBuilder(db DBTX, ctx context.Context) *TechniqueBuilder {
	now := time.Now()
	return &TechniqueBuilder{
		db:  db,
		ctx: ctx,
		entity: &technique.Technique{
			ID:               uuid.New(),
			Title:            "Daily trend breakout",
			Category:         technique.CategoryTrendFollowing,
			Periodicity:      technique.PeriodicityDaily,
			Timeframe:        "1d",
			Period:           14,
			BuyThreshold:     decimal.NewFromInt(2),
			SellThreshold:    decimal.NewFromInt(2),
			StopLoss:         decimal.NewFromInt(5),
			TakeProfit:       decimal.NewFromInt(10),
			SignalConditions: "close above threshold band",
			RiskLevel:        "medium",
			IsActive:         true,
			CreatedAt:        now,
			UpdatedAt:        now,
		},
	}
}

// WithID sets a specific ID
func (b *TechniqueBuilder) WithID(id uuid.UUID) *TechniqueBuilder {
	b.entity.ID = id
	return b
}

// WithTitle sets the technique title
func (b *TechniqueBuilder) WithTitle(title string) *TechniqueBuilder {
	b.entity.Title = title
	return b
}

// WithCategory sets the scorer dispatch category
func (b *TechniqueBuilder) WithCategory(cat technique.Category) *TechniqueBuilder {
	b.entity.Category = cat
	return b
}

// WithPeriodicity sets the trigger class
func (b *TechniqueBuilder) WithPeriodicity(p technique.Periodicity) *TechniqueBuilder {
	b.entity.Periodicity = p
	return b
}

// WithThresholds sets the buy and sell thresholds
func (b *TechniqueBuilder) WithThresholds(buy, sell decimal.Decimal) *TechniqueBuilder {
	b.entity.BuyThreshold = buy
	b.entity.SellThreshold = sell
	return b
}

// Inactive marks the technique as deactivated
func (b *TechniqueBuilder) Inactive() *TechniqueBuilder {
	b.entity.IsActive = false
	return b
}

// Insert persists the technique
func (b *TechniqueBuilder) Insert() (*technique.Technique, error) {
	_, err := b.db.ExecContext(b.ctx, `
		INSERT INTO techniques (
			id, title, category, periodicity, timeframe, period,
			buy_threshold, sell_threshold, stop_loss, take_profit,
			signal_conditions, risk_level, is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (id) DO NOTHING`,
		b.entity.ID, b.entity.Title, b.entity.Category, b.entity.Periodicity,
		b.entity.Timeframe, b.entity.Period, b.entity.BuyThreshold, b.entity.SellThreshold,
		b.entity.StopLoss, b.entity.TakeProfit, b.entity.SignalConditions, b.entity.RiskLevel,
		b.entity.IsActive, b.entity.CreatedAt, b.entity.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("seed technique %q: %w", b.entity.Title, err)
	}
	return b.entity, nil
}

// MustInsert persists the technique or panics
func (b *TechniqueBuilder) MustInsert() *technique.Technique {
	t, err := b.Insert()
	if err != nil {
		panic(err)
	}
	return t
}
