package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"aurum/internal/domain/association"
	"aurum/internal/domain/technique"
	"aurum/pkg/errors"
)

// Compile-time check
var _ association.Repository = (*AssociationRepository)(nil)

// AssociationRepository implements association.Repository using sqlx
type AssociationRepository struct {
	db DBTX
}

// NewAssociationRepository creates a new association repository
func NewAssociationRepository(db DBTX) *AssociationRepository {
	return &AssociationRepository{db: db}
}

// GetByPair retrieves the association for one (asset, technique) pair.
// The unique constraint on (asset_id, technique_id) guarantees at most one row.
func (r *AssociationRepository) GetByPair(ctx context.Context, assetID, techniqueID uuid.UUID) (*association.AssetTechnique, error) {
	var at association.AssetTechnique

	query := `SELECT * FROM asset_techniques WHERE asset_id = $1 AND technique_id = $2`

	err := r.db.GetContext(ctx, &at, query, assetID, techniqueID)
	if err == sql.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &at, nil
}

// FindActiveForPeriodicity retrieves active associations joined to their
// active asset and active technique of the given periodicity class.
// The join itself discards rows where either side is inactive.
func (r *AssociationRepository) FindActiveForPeriodicity(ctx context.Context, p technique.Periodicity) ([]*association.Pair, error) {
	rows, err := r.db.QueryxContext(ctx, `
		SELECT at.id, at.asset_id, at.technique_id, at.is_active,
		       at.created_at, at.updated_at
		FROM asset_techniques at
		JOIN assets a      ON a.id = at.asset_id      AND a.is_active = true
		JOIN techniques t  ON t.id = at.technique_id  AND t.is_active = true
		WHERE at.is_active = true AND t.periodicity = $1
		ORDER BY a.symbol ASC`, p)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assocs []association.AssetTechnique
	for rows.Next() {
		var at association.AssetTechnique
		if err := rows.StructScan(&at); err != nil {
			return nil, err
		}
		assocs = append(assocs, at)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	assets := NewAssetRepository(r.db)
	techniques := NewTechniqueRepository(r.db)

	pairs := make([]*association.Pair, 0, len(assocs))
	for _, at := range assocs {
		a, err := assets.GetByID(ctx, at.AssetID)
		if err != nil {
			return nil, errors.Wrapf(err, "load asset %s", at.AssetID)
		}
		t, err := techniques.GetByID(ctx, at.TechniqueID)
		if err != nil {
			return nil, errors.Wrapf(err, "load technique %s", at.TechniqueID)
		}
		pairs = append(pairs, &association.Pair{
			Association: at,
			Asset:       *a,
			Technique:   *t,
		})
	}

	return pairs, nil
}
