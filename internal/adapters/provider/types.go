package provider

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Quote is one instrument snapshot returned by the provider
type Quote struct {
	Symbol        string
	Name          string
	Price         decimal.Decimal
	ChangePercent decimal.Decimal
	Volume        decimal.Decimal
	High          decimal.Decimal
	Low           decimal.Decimal
	Sector        string
	MarketCap     decimal.Decimal
	Currency      string
	Logo          LogoRef
	Website       string
	UpdatedAt     time.Time
}

// LogoRef is the provider's logo reference. The payload is either a bare
// URL string or an object with size variants; both decode into LogoRef.
type LogoRef struct {
	Small  string `json:"small"`
	Medium string `json:"medium"`
	Large  string `json:"large"`
}

// UnmarshalJSON accepts both the string and the size-variant object form
func (l *LogoRef) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	if data[0] == '"' {
		var url string
		if err := json.Unmarshal(data, &url); err != nil {
			return err
		}
		l.Large = url
		return nil
	}

	type alias LogoRef
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*l = LogoRef(a)
	return nil
}

// URL returns the preferred variant, largest first
func (l LogoRef) URL() string {
	switch {
	case l.Large != "":
		return l.Large
	case l.Medium != "":
		return l.Medium
	default:
		return l.Small
	}
}

// Empty reports whether no logo reference is present
func (l LogoRef) Empty() bool {
	return l.URL() == ""
}
