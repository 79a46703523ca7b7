package test

import (
	"context"

	"aurum/internal/domain/asset"
	"aurum/internal/domain/technique"
	"aurum/internal/testsupport/seeds"
)

// SeedAssets creates a minimal asset set for automated tests (idempotent)
func SeedAssets(ctx context.Context, s *seeds.Seeder) error {
	symbols := []struct {
		symbol string
		typ    asset.Type
	}{
		{"TEST3", asset.TypeStock},
		{"TEST11", asset.TypeIndex},
	}

	for _, a := range symbols {
		if _, err := s.Asset().WithSymbol(a.symbol).WithName(a.symbol).WithType(a.typ).Insert(); err != nil {
			return err
		}
	}
	return nil
}

// SeedTechniques creates one technique for automated tests (idempotent)
func SeedTechniques(ctx context.Context, s *seeds.Seeder) error {
	_, err := s.Technique().
		WithTitle("Test daily trend").
		WithPeriodicity(technique.PeriodicityDaily).
		Insert()
	return err
}
