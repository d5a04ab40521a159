package script

import (
	"bytes"
)

const (
	ShortHashSize = 20
	// PointSize is the encoded size of an output point, hash then index.
	PointSize = 36

	MaxNullDataSize = 80
	MaxMultisigKeys = 16
	// MaxLockHeightSize bounds the script number holding a lock height.
	MaxLockHeightSize = 8
)

type Pattern int

const (
	NonStandard Pattern = iota
	PayKeyHash
	PayScriptHash
	PayMultisig
	PayPublicKey
	PayKeyHashWithLockHeight
	PayKeyHashWithAttenuationModel
	PayBlackhole
	NullData
	SignKeyHash
	SignKeyHashWithLockHeight
	SignScriptHash
	SignMultisig
)

var patternNames = [...]string{
	"non_standard",
	"pay_key_hash",
	"pay_script_hash",
	"pay_multisig",
	"pay_public_key",
	"pay_key_hash_with_lock_height",
	"pay_key_hash_with_attenuation_model",
	"pay_blackhole",
	"null_data",
	"sign_key_hash",
	"sign_key_hash_with_lock_height",
	"sign_script_hash",
	"sign_multisig",
}

func (p Pattern) String() string {
	if int(p) < len(patternNames) {
		return patternNames[p]
	}

	return "unknown"
}

var blackholeHash = make([]byte, ShortHashSize)

// IsPublicKeyShape checks the length and prefix of a serialized public key.
func IsPublicKeyShape(key []byte) bool {
	switch len(key) {
	case 33:
		return key[0] == 0x02 || key[0] == 0x03
	case 65:
		return key[0] == 0x04
	default:
		return false
	}
}

func isSignatureShape(sig []byte) bool {
	return len(sig) >= 9 && len(sig) <= 73
}

func isDataPush(op Operation) bool {
	switch op.Code {
	case OpSPECIAL, OpPUSHDATA1, OpPUSHDATA2, OpPUSHDATA4:
		return true
	default:
		return false
	}
}

func isShortHashPush(op Operation) bool {
	return op.Code == OpSPECIAL && len(op.Data) == ShortHashSize
}

func isPayKeyHashTail(ops Script) bool {
	return len(ops) == 5 &&
		ops[0].Code == OpDUP &&
		ops[1].Code == OpHASH160 &&
		isShortHashPush(ops[2]) &&
		ops[3].Code == OpEQUALVERIFY &&
		ops[4].Code == OpCHECKSIG
}

func IsPayKeyHash(s Script) bool {
	return isPayKeyHashTail(s)
}

func IsPayScriptHash(s Script) bool {
	return len(s) == 3 &&
		s[0].Code == OpHASH160 &&
		isShortHashPush(s[1]) &&
		s[2].Code == OpEQUAL
}

func IsPayPublicKey(s Script) bool {
	return len(s) == 2 &&
		isDataPush(s[0]) && IsPublicKeyShape(s[0].Data) &&
		s[1].Code == OpCHECKSIG
}

// IsPayMultisig matches OP_m <n keys> OP_n OP_CHECKMULTISIG with 1 <= m <= n <= 16.
func IsPayMultisig(s Script) bool {
	if len(s) < 4 || s[len(s)-1].Code != OpCHECKMULTISIG {
		return false
	}

	m := s[0].Code.PositiveValue()
	n := s[len(s)-2].Code.PositiveValue()

	if m < 1 || n < 1 || m > n || len(s) != n+3 {
		return false
	}

	for _, op := range s[1 : len(s)-2] {
		if !isDataPush(op) || !IsPublicKeyShape(op.Data) {
			return false
		}
	}

	return true
}

// IsPayKeyHashWithLockHeight matches <height> OP_NUMEQUALVERIFY followed by pay-key-hash.
func IsPayKeyHashWithLockHeight(s Script) bool {
	return len(s) == 7 &&
		(s[0].Code == OpZERO || isDataPush(s[0])) && len(s[0].Data) <= MaxLockHeightSize &&
		s[1].Code == OpNUMEQUALVERIFY &&
		isPayKeyHashTail(s[2:])
}

// IsPayKeyHashWithAttenuationModel matches <model> <input point>
// OP_CHECKATTENUATIONVERIFY followed by pay-key-hash.
func IsPayKeyHashWithAttenuationModel(s Script) bool {
	return len(s) == 8 &&
		isDataPush(s[0]) && len(s[0].Data) > 0 &&
		isDataPush(s[1]) && len(s[1].Data) == PointSize &&
		s[2].Code == OpCHECKATTENUATIONVERIFY &&
		isPayKeyHashTail(s[3:])
}

// IsPayBlackhole matches pay-key-hash to the all zero hash, which no key can spend.
func IsPayBlackhole(s Script) bool {
	return IsPayKeyHash(s) && bytes.Equal(s[2].Data, blackholeHash)
}

func IsNullData(s Script) bool {
	if len(s) == 1 {
		return s[0].Code == OpRETURN
	}

	return len(s) == 2 &&
		s[0].Code == OpRETURN &&
		(s[1].Code == OpZERO || isDataPush(s[1])) && len(s[1].Data) <= MaxNullDataSize
}

func IsSignKeyHash(s Script) bool {
	return len(s) == 2 &&
		isDataPush(s[0]) && isSignatureShape(s[0].Data) &&
		isDataPush(s[1]) && IsPublicKeyShape(s[1].Data)
}

func IsSignKeyHashWithLockHeight(s Script) bool {
	return len(s) == 3 &&
		IsSignKeyHash(s[:2]) &&
		(s[2].Code == OpZERO || isDataPush(s[2])) && len(s[2].Data) <= MaxLockHeightSize
}

func IsSignMultisig(s Script) bool {
	if len(s) < 2 || s[0].Code != OpZERO {
		return false
	}

	for _, op := range s[1:] {
		if !isDataPush(op) || !isSignatureShape(op.Data) {
			return false
		}
	}

	return true
}

// IsSignScriptHash matches push-only scripts whose last push is a standard redeem script.
func IsSignScriptHash(s Script) bool {
	if len(s) == 0 || !s.IsPushOnly() {
		return false
	}

	last := s[len(s)-1]
	if !isDataPush(last) {
		return false
	}

	redeem, err := ParseScript(last.Data)
	if err != nil {
		return false
	}

	switch Classify(redeem) {
	case NonStandard, NullData, PayScriptHash:
		return false
	default:
		return true
	}
}

// Classify returns the output pattern of s, or NonStandard.
func Classify(s Script) Pattern {
	switch {
	case IsNullData(s):
		return NullData
	case IsPayBlackhole(s):
		return PayBlackhole
	case IsPayKeyHash(s):
		return PayKeyHash
	case IsPayScriptHash(s):
		return PayScriptHash
	case IsPayPublicKey(s):
		return PayPublicKey
	case IsPayMultisig(s):
		return PayMultisig
	case IsPayKeyHashWithLockHeight(s):
		return PayKeyHashWithLockHeight
	case IsPayKeyHashWithAttenuationModel(s):
		return PayKeyHashWithAttenuationModel
	default:
		return NonStandard
	}
}

// ClassifyInput returns the sign pattern of an unlocking script, or NonStandard.
func ClassifyInput(s Script) Pattern {
	switch {
	case IsSignKeyHashWithLockHeight(s):
		return SignKeyHashWithLockHeight
	case IsSignKeyHash(s):
		return SignKeyHash
	case IsSignScriptHash(s):
		return SignScriptHash
	case IsSignMultisig(s):
		return SignMultisig
	default:
		return NonStandard
	}
}

func IsStandard(s Script) bool {
	return Classify(s) != NonStandard
}

// PayKeyHashOf returns the key hash paid to by any of the pay-key-hash shapes.
func PayKeyHashOf(s Script) ([]byte, bool) {
	switch {
	case IsPayKeyHash(s):
		return s[2].Data, true
	case IsPayKeyHashWithLockHeight(s):
		return s[4].Data, true
	case IsPayKeyHashWithAttenuationModel(s):
		return s[5].Data, true
	default:
		return nil, false
	}
}

func ScriptHashOf(s Script) ([]byte, bool) {
	if !IsPayScriptHash(s) {
		return nil, false
	}

	return s[1].Data, true
}

func LockHeightFromPayKeyHashWithLockHeight(s Script) (int64, bool) {
	if !IsPayKeyHashWithLockHeight(s) {
		return 0, false
	}

	height, err := ParseNumber(s[0].Data, MaxLockHeightSize)
	if err != nil {
		return 0, false
	}

	return height, true
}

func LockHeightFromSignKeyHashWithLockHeight(s Script) (int64, bool) {
	if !IsSignKeyHashWithLockHeight(s) {
		return 0, false
	}

	height, err := ParseNumber(s[2].Data, MaxLockHeightSize)
	if err != nil {
		return 0, false
	}

	return height, true
}

func AttenuationModelParam(s Script) ([]byte, bool) {
	if !IsPayKeyHashWithAttenuationModel(s) {
		return nil, false
	}

	return s[0].Data, true
}

func AttenuationInputPoint(s Script) ([]byte, bool) {
	if !IsPayKeyHashWithAttenuationModel(s) {
		return nil, false
	}

	return s[1].Data, true
}

func payKeyHashTail(hash []byte) Script {
	return Script{
		{Code: OpDUP},
		{Code: OpHASH160},
		{Code: OpSPECIAL, Data: hash},
		{Code: OpEQUALVERIFY},
		{Code: OpCHECKSIG},
	}
}

// The builders below return an empty script when the parameters cannot be
// represented.

func ToPayKeyHash(hash []byte) Script {
	if len(hash) != ShortHashSize {
		return Script{}
	}

	return payKeyHashTail(hash)
}

func ToPayScriptHash(hash []byte) Script {
	if len(hash) != ShortHashSize {
		return Script{}
	}

	return Script{
		{Code: OpHASH160},
		{Code: OpSPECIAL, Data: hash},
		{Code: OpEQUAL},
	}
}

func ToPayPublicKey(key []byte) Script {
	if !IsPublicKeyShape(key) {
		return Script{}
	}

	return Script{NewDataOperation(key), {Code: OpCHECKSIG}}
}

func ToPayMultisig(m int, keys [][]byte) Script {
	n := len(keys)
	if m < 1 || n < 1 || m > n || n > MaxMultisigKeys {
		return Script{}
	}

	s := make(Script, 0, n+3)
	s = append(s, Operation{Code: OpcodeFromPositive(m)})

	for _, key := range keys {
		if !IsPublicKeyShape(key) {
			return Script{}
		}

		s = append(s, NewDataOperation(key))
	}

	return append(s, Operation{Code: OpcodeFromPositive(n)}, Operation{Code: OpCHECKMULTISIG})
}

func ToPayKeyHashWithLockHeight(hash []byte, lockHeight uint64) Script {
	if len(hash) != ShortHashSize || lockHeight > 1<<62 {
		return Script{}
	}

	s := Script{NewDataOperation(NumberBytes(int64(lockHeight))), {Code: OpNUMEQUALVERIFY}}

	return append(s, payKeyHashTail(hash)...)
}

func ToPayKeyHashWithAttenuationModel(model []byte, hash []byte, inputPoint []byte) Script {
	if len(model) == 0 || len(hash) != ShortHashSize || len(inputPoint) != PointSize {
		return Script{}
	}

	s := Script{
		NewDataOperation(model),
		NewDataOperation(inputPoint),
		{Code: OpCHECKATTENUATIONVERIFY},
	}

	return append(s, payKeyHashTail(hash)...)
}

func ToNullData(data []byte) Script {
	if len(data) > MaxNullDataSize {
		return Script{}
	}

	return Script{{Code: OpRETURN}, NewDataOperation(data)}
}

func ToSignKeyHash(signature []byte, key []byte) Script {
	if !isSignatureShape(signature) || !IsPublicKeyShape(key) {
		return Script{}
	}

	return Script{NewDataOperation(signature), NewDataOperation(key)}
}

func ToSignKeyHashWithLockHeight(signature []byte, key []byte, lockHeight uint64) Script {
	s := ToSignKeyHash(signature, key)
	if len(s) == 0 || lockHeight > 1<<62 {
		return Script{}
	}

	return append(s, NewDataOperation(NumberBytes(int64(lockHeight))))
}

func ToSignMultisig(signatures [][]byte) Script {
	if len(signatures) == 0 {
		return Script{}
	}

	s := Script{{Code: OpZERO}}

	for _, sig := range signatures {
		if !isSignatureShape(sig) {
			return Script{}
		}

		s = append(s, NewDataOperation(sig))
	}

	return s
}

// ToSignScriptHash appends the serialized redeem script to an unlocking script.
func ToSignScriptHash(unlock Script, redeem Script) Script {
	if !unlock.IsPushOnly() || len(redeem) == 0 {
		return Script{}
	}

	s := make(Script, 0, len(unlock)+1)
	s = append(s, unlock...)

	return append(s, NewDataOperation(redeem.Bytes()))
}
