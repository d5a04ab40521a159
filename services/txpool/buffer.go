package txpool

import (
	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/dolthub/swiss"
	"github.com/mvs-org/mvsd/model"
)

type poolEntry struct {
	tx      *model.Tx
	hash    chainhash.Hash
	handler ConfirmHandler
}

// txBuffer is a fixed capacity ring of pool entries, oldest first, with
// hash and spent outpoint indexes. It is not safe for concurrent use; the
// pool only touches it from its worker.
type txBuffer struct {
	ring  []*poolEntry
	head  int
	count int

	byHash *swiss.Map[chainhash.Hash, *poolEntry]
	spends *swiss.Map[model.Point, model.InputPoint]
}

func newTxBuffer(capacity int) *txBuffer {
	if capacity < 1 {
		capacity = 1
	}

	return &txBuffer{
		ring:   make([]*poolEntry, capacity),
		byHash: swiss.NewMap[chainhash.Hash, *poolEntry](uint32(capacity)),
		spends: swiss.NewMap[model.Point, model.InputPoint](uint32(capacity * 2)),
	}
}

func (b *txBuffer) Exists(hash chainhash.Hash) bool {
	_, found := b.byHash.Get(hash)
	return found
}

func (b *txBuffer) Fetch(hash chainhash.Hash) (*model.Tx, bool) {
	entry, found := b.byHash.Get(hash)
	if !found {
		return nil, false
	}

	return entry.tx, true
}

func (b *txBuffer) IsSpentInPool(point model.Point) bool {
	_, found := b.spends.Get(point)
	return found
}

// findSpent returns the pool input spending point.
func (b *txBuffer) findSpent(point model.Point) (model.InputPoint, bool) {
	return b.spends.Get(point)
}

func (b *txBuffer) Transactions() []*model.Tx {
	txs := make([]*model.Tx, 0, b.count)

	b.each(func(entry *poolEntry) bool {
		txs = append(txs, entry.tx)
		return true
	})

	return txs
}

func (b *txBuffer) size() int {
	return b.count
}

func (b *txBuffer) full() bool {
	return b.count == len(b.ring)
}

func (b *txBuffer) index(offset int) int {
	return (b.head + offset) % len(b.ring)
}

// each calls fn for every entry, oldest first, until fn returns false.
func (b *txBuffer) each(fn func(entry *poolEntry) bool) {
	for i := 0; i < b.count; i++ {
		if !fn(b.ring[b.index(i)]) {
			return
		}
	}
}

// add appends entry, overwriting the oldest entry when the ring is full.
// The overwritten entry is returned.
func (b *txBuffer) add(entry *poolEntry) (evicted *poolEntry) {
	if b.full() {
		evicted = b.ring[b.head]
		b.unindex(evicted)

		b.ring[b.head] = nil
		b.head = b.index(1)
		b.count--
	}

	b.ring[b.index(b.count)] = entry
	b.count++

	b.byHash.Put(entry.hash, entry)

	for i, in := range entry.tx.Inputs {
		b.spends.Put(in.PreviousOutput, model.InputPoint{Hash: entry.hash, Index: uint32(i)})
	}

	return evicted
}

// remove drops the entry with hash.
func (b *txBuffer) remove(hash chainhash.Hash) (*poolEntry, bool) {
	entry, found := b.byHash.Get(hash)
	if !found {
		return nil, false
	}

	b.unindex(entry)

	for i := 0; i < b.count; i++ {
		if b.ring[b.index(i)] != entry {
			continue
		}

		for j := i; j < b.count-1; j++ {
			b.ring[b.index(j)] = b.ring[b.index(j+1)]
		}

		b.ring[b.index(b.count-1)] = nil
		b.count--

		break
	}

	return entry, true
}

func (b *txBuffer) unindex(entry *poolEntry) {
	b.byHash.Delete(entry.hash)

	for _, in := range entry.tx.Inputs {
		if spender, found := b.spends.Get(in.PreviousOutput); found && spender.Hash == entry.hash {
			b.spends.Delete(in.PreviousOutput)
		}
	}
}

// removeWithDescendants drops the entry with hash and every entry that
// spends an output of a dropped entry, parents first.
func (b *txBuffer) removeWithDescendants(hash chainhash.Hash) []*poolEntry {
	var removed []*poolEntry

	pending := []chainhash.Hash{hash}

	for len(pending) > 0 {
		entry, found := b.remove(pending[0])
		pending = pending[1:]

		if !found {
			continue
		}

		removed = append(removed, entry)

		for i := range entry.tx.Outputs {
			if spender, spent := b.spends.Get(model.Point{Hash: entry.hash, Index: uint32(i)}); spent {
				pending = append(pending, spender.Hash)
			}
		}
	}

	return removed
}

// removeConfirmed drops the entries confirmed by blocks. With conflicts
// set it also drops the entries spending outputs those blocks spent,
// together with their descendants.
func (b *txBuffer) removeConfirmed(blocks []*model.Block, conflicts bool) (confirmed []*poolEntry, conflicting []*poolEntry) {
	for _, block := range blocks {
		for _, tx := range block.Transactions {
			if entry, found := b.remove(tx.Hash()); found {
				confirmed = append(confirmed, entry)
			}
		}
	}

	if !conflicts {
		return confirmed, nil
	}

	for _, block := range blocks {
		for _, tx := range block.Transactions {
			if tx.IsCoinbase() {
				continue
			}

			for _, in := range tx.Inputs {
				if spender, found := b.spends.Get(in.PreviousOutput); found {
					conflicting = append(conflicting, b.removeWithDescendants(spender.Hash)...)
				}
			}
		}
	}

	return confirmed, conflicting
}

// clear empties the buffer and returns what it held, oldest first.
func (b *txBuffer) clear() []*poolEntry {
	entries := make([]*poolEntry, 0, b.count)

	b.each(func(entry *poolEntry) bool {
		entries = append(entries, entry)
		return true
	})

	clear(b.ring)
	b.head = 0
	b.count = 0
	b.byHash.Clear()
	b.spends.Clear()

	return entries
}
