package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"aurum/internal/domain/asset"
)

func TestClassifySymbol(t *testing.T) {
	tests := []struct {
		symbol string
		want   asset.Type
	}{
		// Trailing "11" wins over the generic trailing-digit rule
		{"BOVA11", asset.TypeIndex},
		{"IVVB11", asset.TypeIndex},
		{"KNRI11", asset.TypeIndex},

		{"PETR4", asset.TypeStock},
		{"VALE3", asset.TypeStock},
		{"ITUB4", asset.TypeStock},
		{"SANB3", asset.TypeStock},

		{"USDBRL", asset.TypeCurrency},
		{"EURBRL", asset.TypeCurrency},
		{"GBPJPY", asset.TypeCurrency},

		// Six letters but not two fiat codes
		{"ABCDEF", asset.TypeStock},
		// No trailing digit and not a pair
		{"IBOV", asset.TypeStock},
	}

	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifySymbol(tt.symbol))
		})
	}
}

func TestCurrencyPair(t *testing.T) {
	assert.Equal(t, "USD-BRL", currencyPair("USDBRL"))
	assert.Equal(t, "PETR4", currencyPair("PETR4"))
}

func TestMarketFor(t *testing.T) {
	assert.Equal(t, asset.MarketUSD, marketFor(asset.TypeCurrency))
	assert.Equal(t, asset.MarketB3, marketFor(asset.TypeStock))
	assert.Equal(t, asset.MarketB3, marketFor(asset.TypeIndex))
}
