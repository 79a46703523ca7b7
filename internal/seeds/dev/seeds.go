package dev

import (
	"context"

	"github.com/shopspring/decimal"

	"aurum/internal/domain/asset"
	"aurum/internal/domain/technique"
	"aurum/internal/testsupport/seeds"
)

// SeedAssets creates the development asset universe (idempotent)
func SeedAssets(ctx context.Context, s *seeds.Seeder) error {
	assets := []struct {
		symbol string
		name   string
		typ    asset.Type
	}{
		{"PETR4", "Petroleo Brasileiro SA", asset.TypeStock},
		{"VALE3", "Vale SA", asset.TypeStock},
		{"ITUB4", "Itau Unibanco Holding SA", asset.TypeStock},
		{"BBDC4", "Banco Bradesco SA", asset.TypeStock},
		{"WEGE3", "WEG SA", asset.TypeStock},
		{"BOVA11", "iShares Ibovespa Fund", asset.TypeIndex},
		{"IVVB11", "iShares S&P 500 Fund", asset.TypeIndex},
		{"USDBRL", "US Dollar / Brazilian Real", asset.TypeCurrency},
	}

	for _, a := range assets {
		builder := s.Asset().WithSymbol(a.symbol).WithName(a.name).WithType(a.typ)
		if a.typ == asset.TypeCurrency {
			builder = builder.WithMarket(asset.MarketUSD)
		}
		if _, err := builder.Insert(); err != nil {
			return err
		}
	}

	s.Log().Infow("Seeded assets", "count", len(assets))
	return nil
}

// SeedTechniques creates one technique per periodicity class (idempotent)
func SeedTechniques(ctx context.Context, s *seeds.Seeder) error {
	techniques := []struct {
		title       string
		category    technique.Category
		periodicity technique.Periodicity
		buy, sell   int64
	}{
		{"Hourly momentum fade", technique.CategoryMomentum, technique.PeriodicityHourly, 3, 3},
		{"Daily trend breakout", technique.CategoryTrendFollowing, technique.PeriodicityDaily, 2, 2},
		{"Weekly range position", technique.CategorySupportResistance, technique.PeriodicityWeekly, 2, 2},
		{"Monthly trend review", technique.CategoryTrendFollowing, technique.PeriodicityMonthly, 5, 5},
	}

	for _, t := range techniques {
		_, err := s.Technique().
			WithTitle(t.title).
			WithCategory(t.category).
			WithPeriodicity(t.periodicity).
			WithThresholds(decimal.NewFromInt(t.buy), decimal.NewFromInt(t.sell)).
			Insert()
		if err != nil {
			return err
		}
	}

	s.Log().Infow("Seeded techniques", "count", len(techniques))
	return nil
}

// SeedAssociations pairs each seeded asset with the daily technique and
// the index funds with the weekly one (idempotent).
func SeedAssociations(ctx context.Context, s *seeds.Seeder) error {
	pairs := []struct {
		symbol string
		title  string
	}{
		{"PETR4", "Daily trend breakout"},
		{"VALE3", "Daily trend breakout"},
		{"ITUB4", "Daily trend breakout"},
		{"PETR4", "Hourly momentum fade"},
		{"BOVA11", "Weekly range position"},
		{"IVVB11", "Weekly range position"},
		{"USDBRL", "Monthly trend review"},
	}

	for _, p := range pairs {
		assetID, err := s.LookupAssetID(p.symbol)
		if err != nil {
			return err
		}
		techniqueID, err := s.LookupTechniqueID(p.title)
		if err != nil {
			return err
		}
		if _, err := s.Association().WithAssetID(assetID).WithTechniqueID(techniqueID).Insert(); err != nil {
			return err
		}
	}

	s.Log().Infow("Seeded associations", "count", len(pairs))
	return nil
}
