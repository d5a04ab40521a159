package model

import (
	"bytes"
	"io"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/mvs-org/mvsd/errors"
	"github.com/mvs-org/mvsd/util"
)

type Block struct {
	Header       BlockHeader
	Transactions []*Tx
}

func NewBlockFromBytes(b []byte) (*Block, error) {
	r := bytes.NewReader(b)

	block := &Block{}
	if err := block.Decode(r); err != nil {
		return nil, err
	}

	if r.Len() != 0 {
		return nil, errors.NewDecodeError("%d trailing bytes after block", r.Len())
	}

	return block, nil
}

func (b *Block) Hash() chainhash.Hash {
	return b.Header.Hash()
}

func (b *Block) Height() uint32 {
	return b.Header.Number
}

func (b *Block) Bytes() []byte {
	buf := make([]byte, 0, b.SerializedSize())
	buf = b.Header.appendTo(buf)
	buf = appendVarInt(buf, len(b.Transactions))

	for _, tx := range b.Transactions {
		buf = tx.appendTo(buf)
	}

	return buf
}

func (b *Block) SerializedSize() int {
	size := BlockHeaderSize + varIntSize(len(b.Transactions))
	for _, tx := range b.Transactions {
		size += tx.SerializedSize()
	}

	return size
}

// Decode reads a block. On failure the block is reset.
func (b *Block) Decode(r io.Reader) error {
	if err := b.decode(r); err != nil {
		*b = Block{}
		return err
	}

	return nil
}

func (b *Block) decode(r io.Reader) error {
	if err := b.Header.Decode(r); err != nil {
		return err
	}

	count, err := readVarInt(r)
	if err != nil {
		return errors.NewDecodeError("failed to read transaction count", err)
	}

	// the smallest transaction is 10 bytes
	if count > MaxVarBytes/10 {
		return errors.NewDecodeError("transaction count %d too large", count)
	}

	b.Transactions = make([]*Tx, 0, min(count, 4096))
	for i := uint64(0); i < count; i++ {
		tx := &Tx{}
		if err = tx.Decode(r); err != nil {
			return errors.NewDecodeError("failed to read transaction %d", i, err)
		}

		b.Transactions = append(b.Transactions, tx)
	}

	return nil
}

func (b *Block) TxHashes() []chainhash.Hash {
	hashes := make([]chainhash.Hash, len(b.Transactions))
	for i, tx := range b.Transactions {
		hashes[i] = tx.Hash()
	}

	return hashes
}

// CalculateMerkleRoot recomputes the merkle root over the transactions.
func (b *Block) CalculateMerkleRoot() chainhash.Hash {
	return util.MerkleRoot(b.TxHashes())
}

func (b *Block) LegacySigOps() int {
	total := 0
	for _, tx := range b.Transactions {
		total += tx.LegacySigOps()
	}

	return total
}
