package model

import (
	"testing"

	"github.com/mvs-org/mvsd/script"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentAddress(t *testing.T) {
	versions := AddressVersions{PayKeyHash: 0x32, PayScriptHash: 0x05}

	a, ok := AddressFromScript(script.ToPayKeyHash(testKeyHash(7)), versions)
	require.True(t, ok)
	assert.Equal(t, byte(0x32), a.Version)

	encoded := a.String()
	assert.Equal(t, "M", encoded[:1])

	decoded, err := DecodeAddress(encoded)
	require.NoError(t, err)
	assert.Equal(t, a, decoded)

	corrupted := []byte(encoded)
	if corrupted[5] == 'z' {
		corrupted[5] = 'y'
	} else {
		corrupted[5] = 'z'
	}

	_, err = DecodeAddress(string(corrupted))
	require.Error(t, err)

	p2sh, ok := AddressFromScript(script.ToPayScriptHash(testKeyHash(8)), versions)
	require.True(t, ok)
	assert.Equal(t, byte(0x05), p2sh.Version)

	_, ok = AddressFromScript(script.ToNullData(nil), versions)
	assert.False(t, ok)
}

func TestAddressFromLockedScripts(t *testing.T) {
	versions := AddressVersions{PayKeyHash: 0x7f, PayScriptHash: 0xc4}
	plain, _ := AddressFromScript(script.ToPayKeyHash(testKeyHash(4)), versions)

	locked, ok := AddressFromScript(script.ToPayKeyHashWithLockHeight(testKeyHash(4), 25200), versions)
	require.True(t, ok)
	assert.Equal(t, plain, locked)
}

func TestRegistryKeys(t *testing.T) {
	assert.NotEqual(t, SymbolHash("ABC"), SymbolHash("ABD"))
	assert.NotEqual(t, CertKey("ABC", CertTypeIssue), CertKey("ABC", CertTypeDomain))
	assert.Equal(t, AddressHash("x"), AddressHash("x"))
}
