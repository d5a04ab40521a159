package model

import (
	"bytes"
	"testing"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/mvs-org/mvsd/script"
	"github.com/mvs-org/mvsd/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBlock() *Block {
	coinbase := &Tx{
		Version: TxVersionFirst,
		Inputs: []*Input{{
			PreviousOutput: NullPoint,
			Script:         script.Script{script.NewDataOperation(script.NumberBytes(12)), script.NewDataOperation([]byte("mvsd"))},
			Sequence:       MaxInputSequence,
		}},
		Outputs: []*Output{{Value: 300000000, Script: script.ToPayKeyHash(testKeyHash(9)), Attachment: NewAttachment(&Currency{})}},
	}

	block := &Block{
		Header: BlockHeader{
			Version:           BlockVersionPoW,
			PreviousBlockHash: chainhash.DoubleHashH([]byte("parent")),
			Timestamp:         1700000000,
			Bits:              0x207fffff,
			Nonce:             42,
			Number:            12,
		},
		Transactions: []*Tx{coinbase, testTx()},
	}
	block.Header.MerkleRoot = block.CalculateMerkleRoot()

	return block
}

func TestBlockHeaderRoundTrip(t *testing.T) {
	header := testBlock().Header

	b := header.Bytes()
	require.Len(t, b, BlockHeaderSize)
	assert.Equal(t, 120, BlockHeaderSize)

	decoded, err := NewBlockHeaderFromBytes(b)
	require.NoError(t, err)
	assert.Equal(t, header, *decoded)

	_, err = NewBlockHeaderFromBytes(b[:119])
	require.Error(t, err)

	var truncated BlockHeader
	truncated.Number = 5
	require.Error(t, truncated.Decode(bytes.NewReader(b[:50])))
	assert.Equal(t, BlockHeader{}, truncated)
}

func TestBlockRoundTrip(t *testing.T) {
	block := testBlock()

	b := block.Bytes()
	assert.Len(t, b, block.SerializedSize())

	decoded, err := NewBlockFromBytes(b)
	require.NoError(t, err)
	assert.Equal(t, block, decoded)
	assert.Equal(t, block.Hash(), decoded.Hash())
	assert.Equal(t, uint32(12), decoded.Height())
}

func TestBlockMerkleRoot(t *testing.T) {
	block := testBlock()
	hashes := block.TxHashes()

	assert.Equal(t, util.MerkleRoot(hashes), block.Header.MerkleRoot)

	block.Transactions = block.Transactions[:1]
	assert.Equal(t, hashes[0], block.CalculateMerkleRoot())
}

func TestBlockWork(t *testing.T) {
	header := testBlock().Header
	easy := header.Work()

	header.Bits = 0x1d00ffff
	assert.Equal(t, 1, header.Work().Cmp(easy))
}

func TestBlockLegacySigOps(t *testing.T) {
	// one checksig per pay-key-hash output
	assert.Equal(t, 3, testBlock().LegacySigOps())
}
