package technique

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines read operations for techniques
type Repository interface {
	// GetByID retrieves a technique by ID
	GetByID(ctx context.Context, id uuid.UUID) (*Technique, error)

	// GetActive retrieves all active techniques
	GetActive(ctx context.Context) ([]*Technique, error)
}
