package sync

import (
	"time"

	"github.com/shopspring/decimal"

	"aurum/internal/adapters/provider"
)

// syntheticQuote builds a deterministic fake payload for simulate mode.
// Values vary per symbol so repeated runs still exercise the upsert
// update path with distinguishable snapshots.
func syntheticQuote(symbol string, seq int) *provider.Quote {
	base := decimal.NewFromInt(int64(10 + seq*7))
	change := decimal.NewFromInt(int64(seq%5 - 2)) // -2..2 percent

	return &provider.Quote{
		Symbol:        symbol,
		Name:          symbol + " (simulated)",
		Price:         base.Add(change.Div(decimal.NewFromInt(10))),
		ChangePercent: change,
		Volume:        decimal.NewFromInt(int64(1000 * (seq + 1))),
		High:          base.Mul(decimal.NewFromFloat(1.02)),
		Low:           base.Mul(decimal.NewFromFloat(0.98)),
		Currency:      "BRL",
		UpdatedAt:     time.Now().UTC(),
	}
}
