package association

import (
	"time"

	"github.com/google/uuid"

	"aurum/internal/domain/asset"
	"aurum/internal/domain/technique"
)

// AssetTechnique pairs one asset with one technique.
// At most one association exists per (asset, technique) pair.
type AssetTechnique struct {
	ID          uuid.UUID `db:"id"`
	AssetID     uuid.UUID `db:"asset_id"`
	TechniqueID uuid.UUID `db:"technique_id"`
	IsActive    bool      `db:"is_active"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// Pair is an association populated with its asset and technique,
// as loaded for a scheduled batch.
type Pair struct {
	Association AssetTechnique
	Asset       asset.Asset
	Technique   technique.Technique
}
