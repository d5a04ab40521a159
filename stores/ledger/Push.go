package ledger

import (
	"time"

	"github.com/mvs-org/mvsd/errors"
	"github.com/mvs-org/mvsd/model"
	bolt "go.etcd.io/bbolt"
)

// Push appends block at height, which must be one above the current top,
// or zero for an empty store.
func (l *Ledger) Push(block *model.Block, height uint32) error {
	start := time.Now()

	l.lock.BeginWrite()
	defer l.lock.EndWrite()

	top, err := l.topHeight()

	switch {
	case errors.Is(err, errors.ErrBlockNotFound):
		if height != 0 {
			return errors.NewStorageError("cannot push block at height %d into an empty ledger", height)
		}
	case err != nil:
		return err
	case height != top+1:
		return errors.NewStorageError("cannot push block at height %d on top of %d", height, top)
	}

	if err = l.write(block, height); err != nil {
		return err
	}

	if err = l.synchronize(false); err != nil {
		return err
	}

	prometheusLedgerPush.Observe(time.Since(start).Seconds())
	prometheusLedgerHeight.Set(float64(height))

	return nil
}

// write indexes the block's transactions, then its inputs, then its
// outputs, then the block itself.
func (l *Ledger) write(block *model.Block, height uint32) error {
	hash := block.Hash()

	if l.params.IsBIP30Exception(hash, height) {
		l.logger.Warnf("[Ledger] block %s at height %d duplicates earlier transactions, skipping transaction index", hash, height)
	} else {
		if err := l.writeTransactions(block, height); err != nil {
			return err
		}

		if err := l.writeInputs(block, height); err != nil {
			return err
		}

		if err := l.writeOutputs(block, height); err != nil {
			return err
		}
	}

	row := newBlockRow(block, height)

	if err := l.table(blockTable).update(func(b *bolt.Bucket) error {
		return b.Put(hash[:], row.Bytes())
	}); err != nil {
		return err
	}

	return l.table(blockIndex).update(func(b *bolt.Bucket) error {
		return b.Put(heightKey(height), hash[:])
	})
}

func (l *Ledger) writeTransactions(block *model.Block, height uint32) error {
	return l.table(transactionTable).update(func(b *bolt.Bucket) error {
		for i, tx := range block.Transactions {
			hash := tx.Hash()
			row := &txRow{Height: height, Index: uint32(i), Tx: tx}

			if err := b.Put(hash[:], row.Bytes()); err != nil {
				return err
			}
		}

		return nil
	})
}

func (l *Ledger) writeInputs(block *model.Block, height uint32) error {
	spends := l.spendRows(block, height)

	if err := l.table(spendTable).update(func(b *bolt.Bucket) error {
		for _, s := range spends {
			if err := b.Put(s.previous.Bytes(), s.spend.Bytes()); err != nil {
				return err
			}
		}

		return nil
	}); err != nil {
		return err
	}

	return l.table(historyRows).update(func(b *bolt.Bucket) error {
		for _, s := range spends {
			if s.history == nil {
				continue
			}

			if err := b.Put(s.history.key(s.addressHash), s.history.value()); err != nil {
				return err
			}
		}

		return nil
	})
}

func (l *Ledger) writeOutputs(block *model.Block, height uint32) error {
	outputs := l.outputRows(block, height)

	if err := l.table(historyRows).update(func(b *bolt.Bucket) error {
		for _, o := range outputs {
			if err := b.Put(o.history.key(o.addressHash), o.history.value()); err != nil {
				return err
			}
		}

		return nil
	}); err != nil {
		return err
	}

	var registrations []model.Registration
	for _, tx := range block.Transactions {
		registrations = append(registrations, tx.Registrations(height)...)
	}

	return l.storeRegistrations(registrations)
}
