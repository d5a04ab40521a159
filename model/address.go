package model

import (
	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/libsv/go-bk/crypto"
	"github.com/mvs-org/mvsd/errors"
	"github.com/mvs-org/mvsd/script"
)

// AddressVersions holds the base58check version bytes of a network.
type AddressVersions struct {
	PayKeyHash    byte
	PayScriptHash byte
}

// PaymentAddress is a version byte and a 20 byte hash.
type PaymentAddress struct {
	Version byte
	Hash    [script.ShortHashSize]byte
}

func NewPaymentAddress(version byte, hash []byte) (PaymentAddress, error) {
	if len(hash) != script.ShortHashSize {
		return PaymentAddress{}, errors.NewInvalidArgumentError("address hash should be %d bytes long, got %d", script.ShortHashSize, len(hash))
	}

	a := PaymentAddress{Version: version}
	copy(a.Hash[:], hash)

	return a, nil
}

// DecodeAddress parses a base58check encoded address.
func DecodeAddress(encoded string) (PaymentAddress, error) {
	payload, version, err := base58.CheckDecode(encoded)
	if err != nil {
		return PaymentAddress{}, errors.NewInvalidArgumentError("invalid address %q", encoded, err)
	}

	return NewPaymentAddress(version, payload)
}

func (a PaymentAddress) String() string {
	return base58.CheckEncode(a.Hash[:], a.Version)
}

// AddressFromScript derives the address an output script pays to.
func AddressFromScript(s script.Script, versions AddressVersions) (PaymentAddress, bool) {
	if hash, ok := script.PayKeyHashOf(s); ok {
		a, err := NewPaymentAddress(versions.PayKeyHash, hash)
		return a, err == nil
	}

	if hash, ok := script.ScriptHashOf(s); ok {
		a, err := NewPaymentAddress(versions.PayScriptHash, hash)
		return a, err == nil
	}

	if script.IsPayPublicKey(s) {
		a, err := NewPaymentAddress(versions.PayKeyHash, crypto.Hash160(s[0].Data))
		return a, err == nil
	}

	return PaymentAddress{}, false
}

// AddressFromInputScript derives the address that signed a pay-key-hash or
// pay-script-hash unlocking script.
func AddressFromInputScript(s script.Script, versions AddressVersions) (PaymentAddress, bool) {
	switch script.ClassifyInput(s) {
	case script.SignKeyHash, script.SignKeyHashWithLockHeight:
		a, err := NewPaymentAddress(versions.PayKeyHash, crypto.Hash160(s[1].Data))
		return a, err == nil
	case script.SignScriptHash:
		a, err := NewPaymentAddress(versions.PayScriptHash, crypto.Hash160(s[len(s)-1].Data))
		return a, err == nil
	default:
		return PaymentAddress{}, false
	}
}

// AddressHash keys address history rows.
func AddressHash(address string) chainhash.Hash {
	return chainhash.DoubleHashH([]byte(address))
}

// SymbolHash keys registry records.
func SymbolHash(symbol string) chainhash.Hash {
	return chainhash.DoubleHashH([]byte(symbol))
}

// CertKey keys certificate records by symbol and certificate type.
func CertKey(symbol string, certType uint32) chainhash.Hash {
	return chainhash.DoubleHashH(appendUint32([]byte(symbol), certType))
}
