package asset

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines operations for asset persistence
type Repository interface {
	// GetByID retrieves an asset by ID
	GetByID(ctx context.Context, id uuid.UUID) (*Asset, error)

	// GetBySymbol retrieves an asset by its unique symbol
	GetBySymbol(ctx context.Context, symbol string) (*Asset, error)

	// FindActive retrieves all active assets ordered by symbol
	FindActive(ctx context.Context) ([]*Asset, error)

	// UpsertBySymbol creates the asset or overwrites its fields if a row
	// with the same symbol exists. The returned asset carries the stored
	// id and timestamps.
	UpsertBySymbol(ctx context.Context, a *Asset) (*Asset, error)

	// SetActive flips the soft-delete flag for one symbol
	SetActive(ctx context.Context, symbol string, active bool) error
}
