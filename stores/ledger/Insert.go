package ledger

import (
	"encoding/binary"

	"github.com/mvs-org/mvsd/errors"
	"github.com/mvs-org/mvsd/model"
	bolt "go.etcd.io/bbolt"
)

// Insert stores a block at any free height. It is used by initial sync,
// which may receive blocks out of order; Gaps reports the heights still
// missing.
func (l *Ledger) Insert(block *model.Block, height uint32) error {
	l.lock.BeginWrite()
	defer l.lock.EndWrite()

	if _, err := l.blockHashAt(height); err == nil {
		return errors.NewBlockExistsError("a block is already stored at height %d", height)
	} else if !errors.Is(err, errors.ErrBlockNotFound) {
		return err
	}

	if err := l.write(block, height); err != nil {
		return err
	}

	return l.synchronize(false)
}

// Gaps returns the heights below the top that hold no block.
func (l *Ledger) Gaps() ([]uint32, error) {
	return readRetry(l, func() ([]uint32, error) {
		if err := l.checkStarted(); err != nil {
			return nil, err
		}

		var (
			gaps []uint32
			next uint32
		)

		err := l.table(blockIndex).view(func(b *bolt.Bucket) error {
			return b.ForEach(func(k, _ []byte) error {
				height := binary.BigEndian.Uint32(k)

				for ; next < height; next++ {
					gaps = append(gaps, next)
				}

				next = height + 1

				return nil
			})
		})
		if err != nil {
			return nil, errors.NewStorageError("failed to scan block index", err)
		}

		return gaps, nil
	})
}
