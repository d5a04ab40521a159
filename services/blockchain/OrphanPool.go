package blockchain

import (
	"sync"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
)

// OrphanPool holds blocks that are not part of the chain, in arrival order.
// When full the oldest block is evicted.
type OrphanPool struct {
	mu       sync.RWMutex
	capacity int
	blocks   []*BlockDetail
	byHash   map[chainhash.Hash]*BlockDetail
}

func NewOrphanPool(capacity int) *OrphanPool {
	initPrometheusMetrics()

	if capacity < 1 {
		capacity = 1
	}

	return &OrphanPool{
		capacity: capacity,
		blocks:   make([]*BlockDetail, 0, capacity),
		byHash:   make(map[chainhash.Hash]*BlockDetail, capacity),
	}
}

// Add inserts detail, returning false when a block with the same hash is
// already held.
func (p *OrphanPool) Add(detail *BlockDetail) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, found := p.byHash[detail.Hash()]; found {
		return false
	}

	if len(p.blocks) >= p.capacity {
		oldest := p.blocks[0]
		p.blocks = p.blocks[1:]
		delete(p.byHash, oldest.Hash())

		prometheusOrphanPoolEvicted.Inc()
	}

	p.blocks = append(p.blocks, detail)
	p.byHash[detail.Hash()] = detail

	prometheusOrphanPoolSize.Set(float64(len(p.blocks)))

	return true
}

// Remove drops the block with hash, reporting whether it was held.
func (p *OrphanPool) Remove(hash chainhash.Hash) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.remove(hash)
}

func (p *OrphanPool) remove(hash chainhash.Hash) bool {
	if _, found := p.byHash[hash]; !found {
		return false
	}

	delete(p.byHash, hash)

	for i, detail := range p.blocks {
		if detail.Hash() == hash {
			p.blocks = append(p.blocks[:i], p.blocks[i+1:]...)
			break
		}
	}

	prometheusOrphanPoolSize.Set(float64(len(p.blocks)))

	return true
}

// RemoveDescendants drops every held block built on top of hash and returns
// them, nearest first.
func (p *OrphanPool) RemoveDescendants(hash chainhash.Hash) []*BlockDetail {
	p.mu.Lock()
	defer p.mu.Unlock()

	var removed []*BlockDetail

	parents := []chainhash.Hash{hash}

	for len(parents) > 0 {
		parent := parents[0]
		parents = parents[1:]

		for _, child := range p.children(parent) {
			p.remove(child.Hash())
			removed = append(removed, child)
			parents = append(parents, child.Hash())
		}
	}

	return removed
}

func (p *OrphanPool) children(parent chainhash.Hash) []*BlockDetail {
	var children []*BlockDetail

	for _, detail := range p.blocks {
		if detail.Block().Header.PreviousBlockHash == parent {
			children = append(children, detail)
		}
	}

	return children
}

func (p *OrphanPool) Exists(hash chainhash.Hash) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	_, found := p.byHash[hash]

	return found
}

func (p *OrphanPool) Get(hash chainhash.Hash) (*BlockDetail, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	detail, found := p.byHash[hash]

	return detail, found
}

// Trace returns the branch ending at detail, oldest first, following
// parents through the pool for as long as they are held.
func (p *OrphanPool) Trace(detail *BlockDetail) []*BlockDetail {
	p.mu.RLock()
	defer p.mu.RUnlock()

	branch := []*BlockDetail{detail}

	for {
		parent, found := p.byHash[branch[0].Block().Header.PreviousBlockHash]
		if !found {
			break
		}

		branch = append([]*BlockDetail{parent}, branch...)
	}

	return branch
}

// Tips returns the held blocks descending from detail that have no
// children, or detail itself when nothing builds on it.
func (p *OrphanPool) Tips(detail *BlockDetail) []*BlockDetail {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var tips []*BlockDetail

	pending := []*BlockDetail{detail}

	for len(pending) > 0 {
		current := pending[0]
		pending = pending[1:]

		children := p.children(current.Hash())
		if len(children) == 0 {
			tips = append(tips, current)
			continue
		}

		pending = append(pending, children...)
	}

	return tips
}

// Filter drops every held block for which inChain reports true.
func (p *OrphanPool) Filter(inChain func(hash chainhash.Hash) bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, detail := range append([]*BlockDetail(nil), p.blocks...) {
		if inChain(detail.Hash()) {
			p.remove(detail.Hash())
		}
	}
}

func (p *OrphanPool) Size() int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return len(p.blocks)
}
