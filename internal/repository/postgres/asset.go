package postgres

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"aurum/internal/domain/asset"
	"aurum/pkg/errors"
)

// Compile-time check
var _ asset.Repository = (*AssetRepository)(nil)

// AssetRepository implements asset.Repository using sqlx
type AssetRepository struct {
	db DBTX
}

// NewAssetRepository creates a new asset repository
func NewAssetRepository(db DBTX) *AssetRepository {
	return &AssetRepository{db: db}
}

// GetByID retrieves an asset by ID
func (r *AssetRepository) GetByID(ctx context.Context, id uuid.UUID) (*asset.Asset, error) {
	var a asset.Asset

	query := `SELECT * FROM assets WHERE id = $1`

	err := r.db.GetContext(ctx, &a, query, id)
	if err == sql.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &a, nil
}

// GetBySymbol retrieves an asset by its unique symbol
func (r *AssetRepository) GetBySymbol(ctx context.Context, symbol string) (*asset.Asset, error) {
	var a asset.Asset

	query := `SELECT * FROM assets WHERE symbol = $1`

	err := r.db.GetContext(ctx, &a, query, strings.ToUpper(symbol))
	if err == sql.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &a, nil
}

// FindActive retrieves all active assets ordered by symbol
func (r *AssetRepository) FindActive(ctx context.Context) ([]*asset.Asset, error) {
	var assets []*asset.Asset

	query := `SELECT * FROM assets WHERE is_active = true ORDER BY symbol ASC`

	if err := r.db.SelectContext(ctx, &assets, query); err != nil {
		return nil, err
	}

	return assets, nil
}

// UpsertBySymbol creates the asset or overwrites its fields if a row with
// the same symbol exists. The symbol is the idempotency key: running the
// same upsert twice leaves exactly one row.
func (r *AssetRepository) UpsertBySymbol(ctx context.Context, a *asset.Asset) (*asset.Asset, error) {
	var stored asset.Asset

	query := `
		INSERT INTO assets (
			id, symbol, name, type, market, is_active, logo_path, metadata,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW()
		)
		ON CONFLICT (symbol) DO UPDATE SET
			name       = EXCLUDED.name,
			type       = EXCLUDED.type,
			market     = EXCLUDED.market,
			is_active  = EXCLUDED.is_active,
			logo_path  = COALESCE(EXCLUDED.logo_path, assets.logo_path),
			metadata   = EXCLUDED.metadata,
			updated_at = NOW()
		RETURNING *`

	err := r.db.GetContext(ctx, &stored, query,
		a.ID, strings.ToUpper(a.Symbol), a.Name, a.Type, a.Market,
		a.IsActive, a.LogoPath, a.Metadata,
	)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrPersistence, "upsert asset %s: %v", a.Symbol, err)
	}

	return &stored, nil
}

// SetActive flips the soft-delete flag for one symbol
func (r *AssetRepository) SetActive(ctx context.Context, symbol string, active bool) error {
	query := `UPDATE assets SET is_active = $2, updated_at = NOW() WHERE symbol = $1`

	res, err := r.db.ExecContext(ctx, query, strings.ToUpper(symbol), active)
	if err != nil {
		return errors.Wrapf(errors.ErrPersistence, "set active %s: %v", symbol, err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.ErrNotFound
	}

	return nil
}
