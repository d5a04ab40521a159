package model

import (
	"strings"
)

// MaxSymbolSize bounds every registry symbol.
const MaxSymbolSize = 64

// SymbolKind selects the punctuation allowed in a symbol.
type SymbolKind int

const (
	SymbolToken SymbolKind = iota
	SymbolCert
	SymbolUID
	SymbolCandidate
)

var symbolPunctuation = map[SymbolKind]string{
	SymbolToken:     ".",
	SymbolCert:      ".",
	SymbolUID:       "@._-",
	SymbolCandidate: "._-",
}

// reservedSymbols may not be issued as tokens or certificates once the
// nova feature version is in force.
var reservedSymbols = []string{
	"ETP", "MVS", "BTC", "ETH", "XBT", "USD", "CNY", "EUR", "JPY", "GBP",
	"HKD", "USDT", "BITCOIN", "ETHEREUM", "METAVERSE",
}

// IsValidSymbol checks the length, the character set for kind, and, from
// TxVersionCheckNovaFeature, the case and reserved word rules for token
// and certificate symbols.
func IsValidSymbol(kind SymbolKind, symbol string, txVersion uint32) bool {
	if symbol == "" || len(symbol) > MaxSymbolSize {
		return false
	}

	punctuation := symbolPunctuation[kind]

	for i := 0; i < len(symbol); i++ {
		c := symbol[i]

		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case strings.IndexByte(punctuation, c) >= 0:
		default:
			return false
		}
	}

	if txVersion < TxVersionCheckNovaFeature || (kind != SymbolToken && kind != SymbolCert) {
		return true
	}

	if symbol != strings.ToUpper(symbol) {
		return false
	}

	return !IsReservedSymbol(symbol)
}

// IsReservedSymbol matches the reserved list against the symbol and its domain.
func IsReservedSymbol(symbol string) bool {
	upper := strings.ToUpper(symbol)
	domain := TokenDomain(upper)

	for _, reserved := range reservedSymbols {
		if upper == reserved || domain == reserved {
			return true
		}
	}

	return false
}

// TokenDomain returns the part of symbol before the first dot.
func TokenDomain(symbol string) string {
	domain, _, _ := strings.Cut(symbol, ".")
	return domain
}
