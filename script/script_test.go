package script

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberBytes(t *testing.T) {
	tests := []struct {
		n        int64
		expected string
	}{
		{0, ""},
		{1, "01"},
		{-1, "81"},
		{127, "7f"},
		{128, "8000"},
		{-128, "8080"},
		{255, "ff00"},
		{256, "0001"},
		{1000, "e803"},
		{-1000, "e883"},
		{1314000, "d00c14"},
	}

	for _, tt := range tests {
		encoded := NumberBytes(tt.n)
		assert.Equal(t, tt.expected, hex.EncodeToString(encoded), "n=%d", tt.n)

		decoded, err := ParseNumber(encoded, 8)
		require.NoError(t, err)
		assert.Equal(t, tt.n, decoded)
	}
}

func TestParseNumber(t *testing.T) {
	t.Run("too long", func(t *testing.T) {
		_, err := ParseNumber([]byte{1, 2, 3, 4, 5}, DefaultNumberLength)
		require.Error(t, err)
	})

	t.Run("non minimal accepted", func(t *testing.T) {
		n, err := ParseNumber([]byte{0x05, 0x00}, DefaultNumberLength)
		require.NoError(t, err)
		assert.Equal(t, int64(5), n)
	})

	t.Run("negative zero", func(t *testing.T) {
		n, err := ParseNumber([]byte{0x80}, DefaultNumberLength)
		require.NoError(t, err)
		assert.Equal(t, int64(0), n)
	})
}

func TestOperation(t *testing.T) {
	t.Run("minimal push selection", func(t *testing.T) {
		assert.Equal(t, OpZERO, NewDataOperation(nil).Code)
		assert.Equal(t, OpSPECIAL, NewDataOperation(make([]byte, 75)).Code)
		assert.Equal(t, OpPUSHDATA1, NewDataOperation(make([]byte, 76)).Code)
		assert.Equal(t, OpPUSHDATA2, NewDataOperation(make([]byte, 256)).Code)
		assert.Equal(t, OpPUSHDATA4, NewDataOperation(make([]byte, 65536)).Code)
	})

	t.Run("round trip", func(t *testing.T) {
		for _, size := range []int{1, 20, 75, 76, 255, 256, 520} {
			op := NewDataOperation(bytes.Repeat([]byte{0xab}, size))

			var decoded Operation
			require.NoError(t, decoded.Decode(bytes.NewReader(op.Bytes())))
			assert.True(t, op.Equal(decoded), "size %d", size)
			assert.Equal(t, op.SerializedSize(), len(op.Bytes()))
		}
	})

	t.Run("truncated push resets", func(t *testing.T) {
		op := Operation{Code: OpDUP}

		err := op.Decode(bytes.NewReader([]byte{0x4c, 0x10, 0x01}))
		require.Error(t, err)
		assert.Equal(t, OpZERO, op.Code)
		assert.Nil(t, op.Data)
	})

	t.Run("number operation", func(t *testing.T) {
		assert.Equal(t, OpNEGATIVE1, NewNumberOperation(-1).Code)
		assert.Equal(t, OpcodeFromPositive(16), NewNumberOperation(16).Code)
		assert.Equal(t, OpSPECIAL, NewNumberOperation(17).Code)
	})

	t.Run("minimal push", func(t *testing.T) {
		assert.False(t, Operation{Code: OpSPECIAL, Data: []byte{5}}.IsMinimalPush())
		assert.False(t, Operation{Code: OpPUSHDATA1, Data: []byte{1, 2}}.IsMinimalPush())
		assert.True(t, NewDataOperation(make([]byte, 80)).IsMinimalPush())
	})
}

func TestScriptRoundTrip(t *testing.T) {
	hash := bytes.Repeat([]byte{0x11}, ShortHashSize)
	s := ToPayKeyHash(hash)

	b := s.Bytes()
	assert.Equal(t, "76a914"+hex.EncodeToString(hash)+"88ac", hex.EncodeToString(b))

	parsed, err := ParseScript(b)
	require.NoError(t, err)
	assert.True(t, s.Equal(parsed))
	assert.Equal(t, "dup hash160 ["+hex.EncodeToString(hash)+"] equalverify checksig", parsed.String())
}

func TestScriptRawData(t *testing.T) {
	b := []byte{0x76, 0x4d, 0xff}

	_, err := ParseScript(b)
	require.Error(t, err)

	s := NewScriptFromBytes(b)
	assert.True(t, s.IsRawData())
	assert.Equal(t, b, s.Bytes())
	assert.Equal(t, NonStandard, Classify(s))
	assert.Equal(t, 0, SigOps(s, true))
}

func TestScriptFilters(t *testing.T) {
	sig := bytes.Repeat([]byte{0x30}, 71)
	s := Script{NewDataOperation(sig), {Code: OpCODESEPARATOR}, {Code: OpCHECKSIG}, NewDataOperation(sig)}

	assert.Len(t, s.WithoutCodeSeparators(), 3)
	assert.Equal(t, Script{{Code: OpCODESEPARATOR}, {Code: OpCHECKSIG}}, s.WithoutPush(sig))
}

func testKey(b byte) []byte {
	key := bytes.Repeat([]byte{b}, 33)
	key[0] = 0x02

	return key
}

func TestPatterns(t *testing.T) {
	hash := bytes.Repeat([]byte{0x22}, ShortHashSize)
	sig := bytes.Repeat([]byte{0x30}, 71)
	point := bytes.Repeat([]byte{0x01}, PointSize)

	tests := []struct {
		name    string
		script  Script
		pattern Pattern
	}{
		{"pay key hash", ToPayKeyHash(hash), PayKeyHash},
		{"pay script hash", ToPayScriptHash(hash), PayScriptHash},
		{"pay public key", ToPayPublicKey(testKey(1)), PayPublicKey},
		{"pay multisig", ToPayMultisig(2, [][]byte{testKey(1), testKey(2), testKey(3)}), PayMultisig},
		{"lock height", ToPayKeyHashWithLockHeight(hash, 1000), PayKeyHashWithLockHeight},
		{"attenuation", ToPayKeyHashWithAttenuationModel([]byte("PN=0;LH=20;TYPE=1;LQ=9001;LP=60001;UN=3"), hash, point), PayKeyHashWithAttenuationModel},
		{"blackhole", ToPayKeyHash(make([]byte, ShortHashSize)), PayBlackhole},
		{"null data", ToNullData([]byte("hello")), NullData},
		{"bare return", Script{{Code: OpRETURN}}, NullData},
		{"non standard", Script{{Code: OpNOP}}, NonStandard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotEmpty(t, tt.script)
			assert.Equal(t, tt.pattern, Classify(tt.script))
			assert.Equal(t, tt.pattern != NonStandard, IsStandard(tt.script))

			// patterns survive serialization
			parsed, err := ParseScript(tt.script.Bytes())
			require.NoError(t, err)
			assert.Equal(t, tt.pattern, Classify(parsed))
		})
	}

	t.Run("input patterns", func(t *testing.T) {
		assert.Equal(t, SignKeyHash, ClassifyInput(ToSignKeyHash(sig, testKey(1))))
		assert.Equal(t, SignKeyHashWithLockHeight, ClassifyInput(ToSignKeyHashWithLockHeight(sig, testKey(1), 1000)))
		assert.Equal(t, SignMultisig, ClassifyInput(ToSignMultisig([][]byte{sig, sig})))

		redeem := ToPayMultisig(1, [][]byte{testKey(1), testKey(2)})
		assert.Equal(t, SignScriptHash, ClassifyInput(ToSignScriptHash(Script{{Code: OpZERO}, NewDataOperation(sig)}, redeem)))
		assert.Equal(t, NonStandard, ClassifyInput(Script{{Code: OpDUP}}))
	})
}

func TestBuildersRejectInvalidParameters(t *testing.T) {
	hash := bytes.Repeat([]byte{0x22}, ShortHashSize)

	assert.Empty(t, ToPayKeyHash(hash[:19]))
	assert.Empty(t, ToPayScriptHash(append(hash, 0)))
	assert.Empty(t, ToPayPublicKey([]byte{0x05, 0x01}))
	assert.Empty(t, ToNullData(make([]byte, MaxNullDataSize+1)))
	assert.Empty(t, ToPayKeyHashWithAttenuationModel(nil, hash, make([]byte, PointSize)))
	assert.Empty(t, ToPayKeyHashWithAttenuationModel([]byte("m"), hash, make([]byte, 10)))
	assert.Empty(t, ToSignKeyHash([]byte{1}, testKey(1)))
	assert.Empty(t, ToSignMultisig(nil))

	badKey := testKey(1)
	badKey[0] = 0x07
	assert.Empty(t, ToPayMultisig(1, [][]byte{badKey}))
}

func TestPayMultisigSoundness(t *testing.T) {
	keys := make([][]byte, 17)
	for i := range keys {
		keys[i] = testKey(byte(i + 1))
	}

	for n := 0; n <= 17; n++ {
		for m := 0; m <= 17; m++ {
			s := ToPayMultisig(m, keys[:n])

			valid := m >= 1 && n >= 1 && m <= n && n <= MaxMultisigKeys
			if !valid {
				assert.Empty(t, s, "m=%d n=%d", m, n)
				continue
			}

			require.Len(t, s, n+3, "m=%d n=%d", m, n)
			assert.True(t, IsPayMultisig(s), "m=%d n=%d", m, n)
			assert.Equal(t, n, SigOps(s, true))
			assert.Equal(t, MaxPubKeysPerMultisig, SigOps(s, false))
		}
	}
}

func TestLockHeightExtraction(t *testing.T) {
	hash := bytes.Repeat([]byte{0x33}, ShortHashSize)
	s := ToPayKeyHashWithLockHeight(hash, 1000)

	require.Len(t, s, 7)
	assert.Equal(t, []byte{0xe8, 0x03}, s[0].Data)
	assert.Equal(t, OpNUMEQUALVERIFY, s[1].Code)

	height, ok := LockHeightFromPayKeyHashWithLockHeight(s)
	require.True(t, ok)
	assert.Equal(t, int64(1000), height)

	keyHash, ok := PayKeyHashOf(s)
	require.True(t, ok)
	assert.Equal(t, hash, keyHash)

	_, ok = LockHeightFromPayKeyHashWithLockHeight(ToPayKeyHash(hash))
	assert.False(t, ok)

	sig := bytes.Repeat([]byte{0x30}, 70)
	height, ok = LockHeightFromSignKeyHashWithLockHeight(ToSignKeyHashWithLockHeight(sig, testKey(9), 1000))
	require.True(t, ok)
	assert.Equal(t, int64(1000), height)
}

func TestAttenuationExtraction(t *testing.T) {
	hash := bytes.Repeat([]byte{0x44}, ShortHashSize)
	point := bytes.Repeat([]byte{0x05}, PointSize)
	model := []byte("PN=0;LH=20;TYPE=1;LQ=9001;LP=60001;UN=3")

	s := ToPayKeyHashWithAttenuationModel(model, hash, point)

	param, ok := AttenuationModelParam(s)
	require.True(t, ok)
	assert.Equal(t, model, param)

	in, ok := AttenuationInputPoint(s)
	require.True(t, ok)
	assert.Equal(t, point, in)

	keyHash, ok := PayKeyHashOf(s)
	require.True(t, ok)
	assert.Equal(t, hash, keyHash)
}

func TestSigOps(t *testing.T) {
	hash := bytes.Repeat([]byte{0x22}, ShortHashSize)
	assert.Equal(t, 1, SigOps(ToPayKeyHash(hash), false))
	assert.Equal(t, 0, SigOps(ToPayScriptHash(hash), true))

	redeem := ToPayMultisig(2, [][]byte{testKey(1), testKey(2), testKey(3)})
	sig := bytes.Repeat([]byte{0x30}, 71)
	unlock := ToSignScriptHash(Script{{Code: OpZERO}, NewDataOperation(sig), NewDataOperation(sig)}, redeem)

	assert.Equal(t, 3, P2SHSigOps(unlock))
	assert.Equal(t, 0, P2SHSigOps(Script{{Code: OpDUP}}))
}
