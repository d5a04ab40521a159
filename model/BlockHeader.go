package model

import (
	"bytes"
	"io"
	"math/big"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/mvs-org/mvsd/errors"
	"github.com/mvs-org/mvsd/util"
)

// BlockHeaderSize is the fixed encoded size of a BlockHeader.
const BlockHeaderSize = 4 + chainhash.HashSize + chainhash.HashSize + 4 + 4 + 8 + chainhash.HashSize + 4

// Block versions.
const (
	BlockVersionPoW  uint32 = 1
	BlockVersionPoS  uint32 = 2
	BlockVersionDPoS uint32 = 3
)

type BlockHeader struct {
	// Version of the block.
	Version uint32

	// Hash of the previous block header in the blockchain.
	PreviousBlockHash chainhash.Hash

	// Merkle root over the hashes of all transactions in the block.
	MerkleRoot chainhash.Hash

	// Time the block was created in unix time.
	Timestamp uint32

	// Compact difficulty target for the block.
	Bits uint32

	Nonce   uint64
	MixHash chainhash.Hash

	// Height of the block.
	Number uint32
}

func NewBlockHeaderFromBytes(b []byte) (*BlockHeader, error) {
	if len(b) != BlockHeaderSize {
		return nil, errors.NewDecodeError("block header should be %d bytes long, got %d", BlockHeaderSize, len(b))
	}

	header := &BlockHeader{}
	if err := header.Decode(bytes.NewReader(b)); err != nil {
		return nil, err
	}

	return header, nil
}

func (bh *BlockHeader) Hash() chainhash.Hash {
	return chainhash.DoubleHashH(bh.Bytes())
}

func (bh *BlockHeader) Bytes() []byte {
	buf := make([]byte, 0, BlockHeaderSize)
	return bh.appendTo(buf)
}

func (bh *BlockHeader) appendTo(buf []byte) []byte {
	buf = appendUint32(buf, bh.Version)
	buf = append(buf, bh.PreviousBlockHash[:]...)
	buf = append(buf, bh.MerkleRoot[:]...)
	buf = appendUint32(buf, bh.Timestamp)
	buf = appendUint32(buf, bh.Bits)
	buf = appendUint64(buf, bh.Nonce)
	buf = append(buf, bh.MixHash[:]...)

	return appendUint32(buf, bh.Number)
}

// Decode reads a header. On failure the header is reset.
func (bh *BlockHeader) Decode(r io.Reader) error {
	var b [BlockHeaderSize]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		*bh = BlockHeader{}
		return errors.NewDecodeError("failed to read block header", err)
	}

	rd := bytes.NewReader(b[:])

	// the buffer is complete so none of these reads can fail
	bh.Version, _ = readUint32(rd)
	bh.PreviousBlockHash, _ = readHash(rd)
	bh.MerkleRoot, _ = readHash(rd)
	bh.Timestamp, _ = readUint32(rd)
	bh.Bits, _ = readUint32(rd)
	bh.Nonce, _ = readUint64(rd)
	bh.MixHash, _ = readHash(rd)
	bh.Number, _ = readUint32(rd)

	return nil
}

// Work returns the proof of work represented by the header's target.
func (bh *BlockHeader) Work() *big.Int {
	return util.CalculateWork(bh.Bits)
}
