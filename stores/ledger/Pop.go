package ledger

import (
	"time"

	"github.com/mvs-org/mvsd/model"
	bolt "go.etcd.io/bbolt"
)

// Pop removes the top block and returns it. It is the exact inverse of
// Push: outputs then inputs then transactions are unindexed, walking the
// block backwards, and the block itself is removed last.
func (l *Ledger) Pop() (*model.Block, error) {
	start := time.Now()

	l.lock.BeginWrite()
	defer l.lock.EndWrite()

	height, err := l.topHeight()
	if err != nil {
		return nil, err
	}

	row, err := l.blockRowAt(height)
	if err != nil {
		return nil, err
	}

	block, err := l.blockFromRow(row)
	if err != nil {
		return nil, err
	}

	hash := block.Hash()

	if !l.params.IsBIP30Exception(hash, height) {
		if err = l.unwrite(block, height); err != nil {
			return nil, err
		}
	}

	if err = l.table(blockIndex).update(func(b *bolt.Bucket) error {
		return b.Delete(heightKey(height))
	}); err != nil {
		return nil, err
	}

	if err = l.table(blockTable).update(func(b *bolt.Bucket) error {
		return b.Delete(hash[:])
	}); err != nil {
		return nil, err
	}

	if err = l.synchronize(false); err != nil {
		return nil, err
	}

	prometheusLedgerPop.Observe(time.Since(start).Seconds())

	if height > 0 {
		prometheusLedgerHeight.Set(float64(height - 1))
	}

	return block, nil
}

func (l *Ledger) unwrite(block *model.Block, height uint32) error {
	// resolve every row before the transactions they depend on are removed
	outputs := l.outputRows(block, height)
	spends := l.spendRows(block, height)

	var registrations []model.Registration
	for _, tx := range block.Transactions {
		registrations = append(registrations, tx.Registrations(height)...)
	}

	if err := l.removeRegistrations(registrations); err != nil {
		return err
	}

	if err := l.table(historyRows).update(func(b *bolt.Bucket) error {
		for i := len(outputs) - 1; i >= 0; i-- {
			if err := b.Delete(outputs[i].history.key(outputs[i].addressHash)); err != nil {
				return err
			}
		}

		for i := len(spends) - 1; i >= 0; i-- {
			if spends[i].history == nil {
				continue
			}

			if err := b.Delete(spends[i].history.key(spends[i].addressHash)); err != nil {
				return err
			}
		}

		return nil
	}); err != nil {
		return err
	}

	if err := l.table(spendTable).update(func(b *bolt.Bucket) error {
		for i := len(spends) - 1; i >= 0; i-- {
			if err := b.Delete(spends[i].previous.Bytes()); err != nil {
				return err
			}
		}

		return nil
	}); err != nil {
		return err
	}

	return l.table(transactionTable).update(func(b *bolt.Bucket) error {
		for i := len(block.Transactions) - 1; i >= 0; i-- {
			hash := block.Transactions[i].Hash()

			if err := b.Delete(hash[:]); err != nil {
				return err
			}
		}

		return nil
	})
}
