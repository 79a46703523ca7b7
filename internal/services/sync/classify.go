package sync

import (
	"strings"

	"aurum/internal/domain/asset"
)

// fiatCodes are currency codes recognized in six-letter pair symbols
var fiatCodes = map[string]bool{
	"USD": true, "BRL": true, "EUR": true, "GBP": true,
	"JPY": true, "ARS": true, "CLP": true, "CNY": true,
}

// ClassifySymbol derives the asset type from ticker-suffix conventions:
// a trailing "11" marks a fund or index-like instrument (units, ETFs,
// FIIs), any other trailing digit marks a common/preferred share, and a
// six-letter fiat pair (e.g. USDBRL) marks a currency. Everything else
// defaults to stock.
//
// These rules mirror the exchange's listing conventions; changing them
// silently reclassifies existing holdings.
func ClassifySymbol(symbol string) asset.Type {
	s := strings.ToUpper(strings.TrimSpace(symbol))

	if strings.HasSuffix(s, "11") {
		return asset.TypeIndex
	}

	if len(s) > 0 {
		last := s[len(s)-1]
		if last >= '0' && last <= '9' {
			return asset.TypeStock
		}
	}

	if len(s) == 6 && fiatCodes[s[:3]] && fiatCodes[s[3:]] {
		return asset.TypeCurrency
	}

	return asset.TypeStock
}

// currencyPair renders a stored currency symbol (e.g. "USDBRL") in the
// provider's pair form ("USD-BRL"). Symbols that are not six letters
// pass through unchanged.
func currencyPair(symbol string) string {
	if len(symbol) == 6 {
		return symbol[:3] + "-" + symbol[3:]
	}
	return symbol
}

// marketFor maps an asset type onto its venue
func marketFor(t asset.Type) asset.Market {
	if t == asset.TypeCurrency {
		return asset.MarketUSD
	}
	return asset.MarketB3
}
