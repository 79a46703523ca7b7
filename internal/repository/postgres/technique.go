package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"aurum/internal/domain/technique"
	"aurum/pkg/errors"
)

// Compile-time check
var _ technique.Repository = (*TechniqueRepository)(nil)

// TechniqueRepository implements technique.Repository using sqlx
type TechniqueRepository struct {
	db DBTX
}

// NewTechniqueRepository creates a new technique repository
func NewTechniqueRepository(db DBTX) *TechniqueRepository {
	return &TechniqueRepository{db: db}
}

// GetByID retrieves a technique by ID
func (r *TechniqueRepository) GetByID(ctx context.Context, id uuid.UUID) (*technique.Technique, error) {
	var t technique.Technique

	query := `SELECT * FROM techniques WHERE id = $1`

	err := r.db.GetContext(ctx, &t, query, id)
	if err == sql.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// GetActive retrieves all active techniques
func (r *TechniqueRepository) GetActive(ctx context.Context) ([]*technique.Technique, error) {
	var techniques []*technique.Technique

	query := `SELECT * FROM techniques WHERE is_active = true ORDER BY title ASC`

	if err := r.db.SelectContext(ctx, &techniques, query); err != nil {
		return nil, err
	}

	return techniques, nil
}
