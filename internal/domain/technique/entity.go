package technique

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Technique represents a named, parameterized analysis strategy.
// Owned by the CRUD layer; the scheduler and analysis executor only read it.
type Technique struct {
	ID          uuid.UUID   `db:"id"`
	Title       string      `db:"title"`
	Category    Category    `db:"category"`
	Periodicity Periodicity `db:"periodicity"`
	Timeframe   string      `db:"timeframe"`

	// Numeric parameters
	Period        int             `db:"period"`
	BuyThreshold  decimal.Decimal `db:"buy_threshold"`
	SellThreshold decimal.Decimal `db:"sell_threshold"`
	StopLoss      decimal.Decimal `db:"stop_loss"`
	TakeProfit    decimal.Decimal `db:"take_profit"`

	SignalConditions string `db:"signal_conditions"`
	RiskLevel        string `db:"risk_level"`
	IsActive         bool   `db:"is_active"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Category is the stable key scorers are dispatched on.
// New techniques are added by registering a scorer for a new category,
// not by matching free-text titles.
type Category string

const (
	CategoryTrendFollowing    Category = "trend_following"
	CategoryMomentum          Category = "momentum"
	CategorySupportResistance Category = "support_resistance"
)

// Periodicity determines which recurring trigger evaluates a technique
type Periodicity string

const (
	PeriodicityHourly  Periodicity = "hourly"
	PeriodicityDaily   Periodicity = "daily"
	PeriodicityWeekly  Periodicity = "weekly"
	PeriodicityMonthly Periodicity = "monthly"
)

// Valid checks if the periodicity is valid
func (p Periodicity) Valid() bool {
	switch p {
	case PeriodicityHourly, PeriodicityDaily, PeriodicityWeekly, PeriodicityMonthly:
		return true
	}
	return false
}

// Periodicities lists all periodicity classes in trigger order
func Periodicities() []Periodicity {
	return []Periodicity{
		PeriodicityHourly,
		PeriodicityDaily,
		PeriodicityWeekly,
		PeriodicityMonthly,
	}
}
