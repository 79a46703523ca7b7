package postgres

import (
	"context"

	"aurum/internal/domain/insight"
	"aurum/pkg/errors"
)

// Compile-time check
var _ insight.Repository = (*InsightRepository)(nil)

// InsightRepository implements insight.Repository using sqlx
type InsightRepository struct {
	db DBTX
}

// NewInsightRepository creates a new insight repository
func NewInsightRepository(db DBTX) *InsightRepository {
	return &InsightRepository{db: db}
}

// Insert appends a new insight row
func (r *InsightRepository) Insert(ctx context.Context, ins *insight.Insight) error {
	query := `
		INSERT INTO insights (
			id, asset_id, technique_id, analysis, recommendation,
			confidence, price, target_price, stop_loss, is_hidden,
			executed_at, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW()
		)`

	_, err := r.db.ExecContext(ctx, query,
		ins.ID, ins.AssetID, ins.TechniqueID, ins.Analysis,
		ins.Recommendation, ins.Confidence, ins.Price,
		ins.TargetPrice, ins.StopLoss, ins.IsHidden, ins.ExecutedAt,
	)
	if err != nil {
		return errors.Wrapf(errors.ErrPersistence, "insert insight: %v", err)
	}

	return nil
}
