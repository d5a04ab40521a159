package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidSymbol(t *testing.T) {
	tests := []struct {
		name    string
		kind    SymbolKind
		symbol  string
		version uint32
		valid   bool
	}{
		{"token", SymbolToken, "ABC", TxVersionCheckNovaFeature, true},
		{"token with domain", SymbolToken, "ABC.DEF", TxVersionCheckNovaFeature, true},
		{"lower case before nova", SymbolToken, "abc", TxVersionFirst, true},
		{"lower case after nova", SymbolToken, "abc", TxVersionCheckNovaFeature, false},
		{"reserved", SymbolToken, "BTC", TxVersionCheckNovaFeature, false},
		{"reserved domain", SymbolCert, "ETH.GOLD", TxVersionCheckNovaFeature, false},
		{"reserved before nova", SymbolToken, "BTC", TxVersionFirst, true},
		{"empty", SymbolToken, "", TxVersionFirst, false},
		{"too long", SymbolToken, strings.Repeat("A", MaxSymbolSize+1), TxVersionFirst, false},
		{"max length", SymbolToken, strings.Repeat("A", MaxSymbolSize), TxVersionFirst, true},
		{"token punctuation", SymbolToken, "AB-C", TxVersionFirst, false},
		{"uid punctuation", SymbolUID, "alice@home_1-x.y", TxVersionCheckNovaFeature, true},
		{"uid case is free", SymbolUID, "Alice", TxVersionCheckNovaFeature, true},
		{"candidate punctuation", SymbolCandidate, "node_1-a.b", TxVersionCheckNovaFeature, true},
		{"candidate at", SymbolCandidate, "node@1", TxVersionFirst, false},
		{"space", SymbolUID, "a b", TxVersionFirst, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidSymbol(tt.kind, tt.symbol, tt.version))
		})
	}
}

func TestTokenDomain(t *testing.T) {
	assert.Equal(t, "ABC", TokenDomain("ABC.DEF.GHI"))
	assert.Equal(t, "ABC", TokenDomain("ABC"))
}
