package ledger

import (
	"encoding/binary"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/mvs-org/mvsd/errors"
	"github.com/mvs-org/mvsd/model"
	bolt "go.etcd.io/bbolt"
)

// GetTopHeight returns the height of the highest stored block.
func (l *Ledger) GetTopHeight() (uint32, error) {
	return readRetry(l, l.topHeight)
}

func (l *Ledger) topHeight() (uint32, error) {
	if err := l.checkStarted(); err != nil {
		return 0, err
	}

	var (
		height uint32
		found  bool
	)

	err := l.table(blockIndex).view(func(b *bolt.Bucket) error {
		if k, _ := b.Cursor().Last(); k != nil {
			height = binary.BigEndian.Uint32(k)
			found = true
		}

		return nil
	})
	if err != nil {
		return 0, errors.NewStorageError("failed to read top height", err)
	}

	if !found {
		return 0, errors.NewBlockNotFoundError("ledger holds no blocks")
	}

	return height, nil
}

func (l *Ledger) GetBlockHash(height uint32) (chainhash.Hash, error) {
	return readRetry(l, func() (chainhash.Hash, error) {
		return l.blockHashAt(height)
	})
}

func (l *Ledger) blockHashAt(height uint32) (chainhash.Hash, error) {
	if err := l.checkStarted(); err != nil {
		return chainhash.Hash{}, err
	}

	value, err := l.table(blockIndex).get(heightKey(height))
	if err != nil {
		return chainhash.Hash{}, err
	}

	if value == nil {
		return chainhash.Hash{}, errors.NewBlockNotFoundError("no block at height %d", height)
	}

	var hash chainhash.Hash
	copy(hash[:], value)

	return hash, nil
}

func (l *Ledger) blockRow(hash chainhash.Hash) (*blockRow, error) {
	if err := l.checkStarted(); err != nil {
		return nil, err
	}

	value, err := l.table(blockTable).get(hash[:])
	if err != nil {
		return nil, err
	}

	if value == nil {
		return nil, errors.NewBlockNotFoundError("block %s not found", hash)
	}

	return decodeBlockRow(value)
}

func (l *Ledger) blockRowAt(height uint32) (*blockRow, error) {
	hash, err := l.blockHashAt(height)
	if err != nil {
		return nil, err
	}

	return l.blockRow(hash)
}

// GetBlockHeight returns the height of a stored block.
func (l *Ledger) GetBlockHeight(hash chainhash.Hash) (uint32, error) {
	return readRetry(l, func() (uint32, error) {
		row, err := l.blockRow(hash)
		if err != nil {
			return 0, err
		}

		return row.Height, nil
	})
}

func (l *Ledger) GetBlockHeader(height uint32) (*model.BlockHeader, error) {
	return readRetry(l, func() (*model.BlockHeader, error) {
		row, err := l.blockRowAt(height)
		if err != nil {
			return nil, err
		}

		return &row.Header, nil
	})
}

// GetBlockHeaderByHash returns a stored header with its height.
func (l *Ledger) GetBlockHeaderByHash(hash chainhash.Hash) (*model.BlockHeader, uint32, error) {
	return readRetry2(l, func() (*model.BlockHeader, uint32, error) {
		row, err := l.blockRow(hash)
		if err != nil {
			return nil, 0, err
		}

		return &row.Header, row.Height, nil
	})
}

func (l *Ledger) GetBlockByHeight(height uint32) (*model.Block, error) {
	return readRetry(l, func() (*model.Block, error) {
		row, err := l.blockRowAt(height)
		if err != nil {
			return nil, err
		}

		return l.blockFromRow(row)
	})
}

func (l *Ledger) GetBlockByHash(hash chainhash.Hash) (*model.Block, uint32, error) {
	return readRetry2(l, func() (*model.Block, uint32, error) {
		row, err := l.blockRow(hash)
		if err != nil {
			return nil, 0, err
		}

		block, err := l.blockFromRow(row)

		return block, row.Height, err
	})
}

// BlockExists reports whether a block with hash is stored.
func (l *Ledger) BlockExists(hash chainhash.Hash) (bool, error) {
	_, err := l.GetBlockHeight(hash)
	if errors.Is(err, errors.ErrBlockNotFound) {
		return false, nil
	}

	return err == nil, err
}

func (l *Ledger) blockFromRow(row *blockRow) (*model.Block, error) {
	block := &model.Block{
		Header:       row.Header,
		Transactions: make([]*model.Tx, 0, len(row.TxHashes)),
	}

	for _, hash := range row.TxHashes {
		tx, err := l.txRow(hash)
		if err != nil {
			return nil, errors.NewStorageCorruptError("block %s misses transaction %s", row.Header.Hash(), hash, err)
		}

		block.Transactions = append(block.Transactions, tx.Tx)
	}

	return block, nil
}
