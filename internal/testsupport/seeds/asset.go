package seeds

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"aurum/internal/domain/asset"
)

// AssetBuilder provides a fluent API for creating Asset entities
type AssetBuilder struct {
	db     DBTX
	ctx    context.Context
	entity *asset.Asset
}

// NewAssetBuilder creates a new AssetBuilder with sensible defaults
func NewAssetBuilder(db DBTX, ctx context.Context) *AssetBuilder {
	now := time.Now()
	return &AssetBuilder{
		db:  db,
		ctx: ctx,
		entity: &asset.Asset{
			ID:        uuid.New(),
			Symbol:    "PETR4",
			Name:      "Petroleo Brasileiro SA",
			Type:      asset.TypeStock,
			Market:    asset.MarketB3,
			IsActive:  true,
			Metadata:  json.RawMessage("{}"),
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

// WithID sets a specific ID
func (b *AssetBuilder) WithID(id uuid.UUID) *AssetBuilder {
	b.entity.ID = id
	return b
}

// WithSymbol sets the ticker symbol
func (b *AssetBuilder) WithSymbol(symbol string) *AssetBuilder {
	b.entity.Symbol = symbol
	return b
}

// WithName sets the display name
func (b *AssetBuilder) WithName(name string) *AssetBuilder {
	b.entity.Name = name
	return b
}

// WithType sets the asset type
func (b *AssetBuilder) WithType(t asset.Type) *AssetBuilder {
	b.entity.Type = t
	return b
}

// WithMarket sets the venue
func (b *AssetBuilder) WithMarket(m asset.Market) *AssetBuilder {
	b.entity.Market = m
	return b
}

// Inactive marks the asset as deactivated
func (b *AssetBuilder) Inactive() *AssetBuilder {
	b.entity.IsActive = false
	return b
}

// Insert persists the asset, skipping symbols that already exist
func (b *AssetBuilder) Insert() (*asset.Asset, error) {
	_, err := b.db.ExecContext(b.ctx, `
		INSERT INTO assets (id, symbol, name, type, market, is_active, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (symbol) DO NOTHING`,
		b.entity.ID, b.entity.Symbol, b.entity.Name, b.entity.Type, b.entity.Market,
		b.entity.IsActive, b.entity.Metadata, b.entity.CreatedAt, b.entity.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("seed asset %s: %w", b.entity.Symbol, err)
	}
	return b.entity, nil
}

// MustInsert persists the asset or panics
func (b *AssetBuilder) MustInsert() *asset.Asset {
	a, err := b.Insert()
	if err != nil {
		panic(err)
	}
	return a
}
