package association

import (
	"context"

	"github.com/google/uuid"

	"aurum/internal/domain/technique"
)

// Repository defines read operations for asset-technique associations
type Repository interface {
	// GetByPair retrieves the association for one (asset, technique) pair
	GetByPair(ctx context.Context, assetID, techniqueID uuid.UUID) (*AssetTechnique, error)

	// FindActiveForPeriodicity retrieves active associations joined to
	// their asset and technique, keeping only rows where both sides are
	// active and the technique matches the periodicity class.
	FindActiveForPeriodicity(ctx context.Context, p technique.Periodicity) ([]*Pair, error)
}
