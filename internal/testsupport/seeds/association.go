package seeds

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"aurum/internal/domain/association"
)

// AssociationBuilder provides a fluent API for creating AssetTechnique entities
type AssociationBuilder struct {
	db     DBTX
	ctx    context.Context
	entity *association.AssetTechnique
}

// NewAssociationBuilder creates a new AssociationBuilder.
// AssetID and TechniqueID must be set before Insert.
func NewAssociationBuilder(db DBTX, ctx context.Context) *AssociationBuilder {
	now := time.Now()
	return &AssociationBuilder{
		db:  db,
		ctx: ctx,
		entity: &association.AssetTechnique{
			ID:        uuid.New(),
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

// WithAssetID sets the asset side of the pair (required)
func (b *AssociationBuilder) WithAssetID(id uuid.UUID) *AssociationBuilder {
	b.entity.AssetID = id
	return b
}

// WithTechniqueID sets the technique side of the pair (required)
func (b *AssociationBuilder) WithTechniqueID(id uuid.UUID) *AssociationBuilder {
	b.entity.TechniqueID = id
	return b
}

// Inactive marks the association as deactivated
func (b *AssociationBuilder) Inactive() *AssociationBuilder {
	b.entity.IsActive = false
	return b
}

// Insert persists the association, skipping pairs that already exist
func (b *AssociationBuilder) Insert() (*association.AssetTechnique, error) {
	if b.entity.AssetID == uuid.Nil || b.entity.TechniqueID == uuid.Nil {
		return nil, fmt.Errorf("seed association: asset and technique ids required")
	}

	_, err := b.db.ExecContext(b.ctx, `
		INSERT INTO asset_techniques (id, asset_id, technique_id, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (asset_id, technique_id) DO NOTHING`,
		b.entity.ID, b.entity.AssetID, b.entity.TechniqueID,
		b.entity.IsActive, b.entity.CreatedAt, b.entity.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("seed association %s/%s: %w", b.entity.AssetID, b.entity.TechniqueID, err)
	}
	return b.entity, nil
}

// MustInsert persists the association or panics
func (b *AssociationBuilder) MustInsert() *association.AssetTechnique {
	a, err := b.Insert()
	if err != nil {
		panic(err)
	}
	return a
}
