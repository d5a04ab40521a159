package model

import (
	"bytes"
	"testing"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/mvs-org/mvsd/errors"
	"github.com/mvs-org/mvsd/script"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKeyHash(b byte) []byte {
	return bytes.Repeat([]byte{b}, script.ShortHashSize)
}

func testTx() *Tx {
	prev := chainhash.DoubleHashH([]byte("previous"))

	return &Tx{
		Version: TxVersionCheckNovaFeature,
		Inputs: []*Input{
			{
				PreviousOutput: Point{Hash: prev, Index: 1},
				Script:         script.Script{script.NewDataOperation(bytes.Repeat([]byte{0x30}, 71)), script.NewDataOperation(bytes.Repeat([]byte{0x02}, 33))},
				Sequence:       MaxInputSequence,
			},
		},
		Outputs: []*Output{
			{Value: 1000, Script: script.ToPayKeyHash(testKeyHash(1)), Attachment: NewAttachment(&Currency{})},
			{
				Script: script.ToPayKeyHash(testKeyHash(2)),
				Attachment: Attachment{
					Version: AttachmentVersionUID,
					ToUID:   "alice",
					FromUID: "bob",
					Data:    &TokenTransfer{Symbol: "ABC", Quantity: 50},
				},
			},
			{Script: script.ToNullData([]byte("memo")), Attachment: NewAttachment(&Message{Content: "hello"})},
		},
		LockTime: 0,
	}
}

func TestTxRoundTrip(t *testing.T) {
	tx := testTx()

	b := tx.Bytes()
	assert.Len(t, b, tx.SerializedSize())

	decoded, err := NewTxFromBytes(b)
	require.NoError(t, err)
	assert.Equal(t, tx, decoded)
	assert.Equal(t, tx.Hash(), decoded.Hash())
}

func TestTxDecodeFailureResets(t *testing.T) {
	b := testTx().Bytes()

	tx := testTx()
	err := tx.Decode(bytes.NewReader(b[:len(b)-3]))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrDecode))
	assert.Equal(t, Tx{}, *tx)

	_, err = NewTxFromBytes(append(b, 0x00))
	require.Error(t, err)
}

func TestTxPredicates(t *testing.T) {
	tx := testTx()
	assert.False(t, tx.IsCoinbase())
	assert.False(t, tx.HasDuplicateInputs())

	total, ok := tx.TotalOutputValue()
	require.True(t, ok)
	assert.Equal(t, uint64(1000), total)

	tx.Inputs = append(tx.Inputs, &Input{PreviousOutput: tx.Inputs[0].PreviousOutput})
	assert.True(t, tx.HasDuplicateInputs())

	tx.Outputs[1].Value = ^uint64(0)
	_, ok = tx.TotalOutputValue()
	assert.False(t, ok)

	coinbase := &Tx{Version: 1, Inputs: []*Input{{PreviousOutput: NullPoint}}}
	assert.True(t, coinbase.IsCoinbase())
	assert.True(t, coinbase.Inputs[0].PreviousOutput.IsNull())
}

func TestTxIsFinal(t *testing.T) {
	tx := testTx()
	tx.LockTime = 100
	tx.Inputs[0].Sequence = 0

	assert.False(t, tx.IsFinal(100, 0))
	assert.True(t, tx.IsFinal(101, 0))

	tx.Inputs[0].Sequence = MaxInputSequence
	assert.True(t, tx.IsFinal(50, 0))
}

func TestTxClone(t *testing.T) {
	tx := testTx()
	clone := tx.Clone()

	clone.Outputs[0].Value = 1
	assert.Equal(t, uint64(1000), tx.Outputs[0].Value)
}

func TestPoint(t *testing.T) {
	p := Point{Hash: chainhash.DoubleHashH([]byte("x")), Index: 7}

	decoded, err := NewPointFromBytes(p.Bytes())
	require.NoError(t, err)
	assert.Equal(t, p, decoded)
	assert.Equal(t, p, p.Key().Point())

	_, err = NewPointFromBytes(p.Bytes()[:10])
	require.Error(t, err)

	assert.True(t, NullPoint.IsNull())
	assert.False(t, Point{Index: 0xffffffff, Hash: p.Hash}.IsNull())
}
