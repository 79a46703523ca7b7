package seeds

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"aurum/pkg/logger"
)

// DBTX is the interface that both *sql.DB and *sql.Tx satisfy
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

// Seeder is the central orchestrator for creating seed data
// It provides a fluent API to build complex scenarios
type Seeder struct {
	db  DBTX
	ctx context.Context
	log *logger.Logger
}

// New creates a new Seeder instance
func New(db DBTX) *Seeder {
	return &Seeder{
		db:  db,
		ctx: context.Background(),
		log: logger.Get().With("component", "seeds"),
	}
}

// WithContext sets the context for database operations
func (s *Seeder) WithContext(ctx context.Context) *Seeder {
	s.ctx = ctx
	return s
}

// Log returns the logger instance
func (s *Seeder) Log() *logger.Logger {
	return s.log
}

// Asset starts building an Asset entity
func (s *Seeder) Asset() *AssetBuilder {
	return NewAssetBuilder(s.db, s.ctx)
}

// Technique starts building a Technique entity
func (s *Seeder) Technique() *TechniqueBuilder {
	return NewTechniqueBuilder(s.db, s.ctx)
}

// Association starts building an AssetTechnique entity
func (s *Seeder) Association() *AssociationBuilder {
	return NewAssociationBuilder(s.db, s.ctx)
}

// LookupAssetID resolves a seeded asset's ID by symbol
func (s *Seeder) LookupAssetID(symbol string) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.db.QueryRowContext(s.ctx, `SELECT id FROM assets WHERE symbol = $1`, symbol).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("lookup asset %s: %w", symbol, err)
	}
	return id, nil
}

// LookupTechniqueID resolves a seeded technique's ID by title
func (s *Seeder) LookupTechniqueID(title string) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.db.QueryRowContext(s.ctx, `SELECT id FROM techniques WHERE title = $1`, title).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("lookup technique %q: %w", title, err)
	}
	return id, nil
}
