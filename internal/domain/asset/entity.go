package asset

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxSymbolLen bounds instrument symbols (uppercase ticker codes)
const MaxSymbolLen = 10

// Asset represents a tradable instrument reference kept fresh by the sync engine.
// Rows are created and updated only through UpsertBySymbol; they are never
// deleted, only soft-deactivated by the reconciliation pass.
type Asset struct {
	ID       uuid.UUID `db:"id"`
	Symbol   string    `db:"symbol"`
	Name     string    `db:"name"`
	Type     Type      `db:"type"`
	Market   Market    `db:"market"`
	IsActive bool      `db:"is_active"`
	LogoPath *string   `db:"logo_path"`

	// Metadata is an opaque provider snapshot, refreshed on every sync
	Metadata json.RawMessage `db:"metadata"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Type classifies the instrument
type Type string

const (
	TypeStock     Type = "stock"
	TypeCurrency  Type = "currency"
	TypeCommodity Type = "commodity"
	TypeIndex     Type = "index"
)

// Valid checks if the type is valid
func (t Type) Valid() bool {
	return t == TypeStock || t == TypeCurrency || t == TypeCommodity || t == TypeIndex
}

// Market identifies the venue an instrument trades on
type Market string

const (
	MarketB3     Market = "B3"
	MarketUSD    Market = "USD"
	MarketCrypto Market = "CRYPTO"
)

// Valid checks if the market is valid
func (m Market) Valid() bool {
	return m == MarketB3 || m == MarketUSD || m == MarketCrypto
}

// Snapshot is the provider metadata persisted alongside an asset
type Snapshot struct {
	Sector        string          `json:"sector,omitempty"`
	MarketCap     decimal.Decimal `json:"market_cap,omitempty"`
	Currency      string          `json:"currency,omitempty"`
	Price         decimal.Decimal `json:"price"`
	ChangePercent decimal.Decimal `json:"change_percent"`
	LastUpdated   time.Time       `json:"last_updated"`
}

// ValidSymbol reports whether s is a well-formed instrument symbol:
// non-empty, at most MaxSymbolLen chars, uppercase letters and digits only.
func ValidSymbol(s string) bool {
	if len(s) == 0 || len(s) > MaxSymbolLen {
		return false
	}
	for _, r := range s {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
