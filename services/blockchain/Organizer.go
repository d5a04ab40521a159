package blockchain

import (
	"context"
	"math/big"
	"sort"
	"time"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/jellydator/ttlcache/v3"
	"github.com/mvs-org/mvsd/errors"
	"github.com/mvs-org/mvsd/model"
	"github.com/mvs-org/mvsd/settings"
	"github.com/mvs-org/mvsd/stores/chainview"
	"github.com/mvs-org/mvsd/ulogger"
)

const rejectedCacheCapacity = 10_000

// Store is the part of the ledger the organizer reads and writes.
type Store interface {
	chainview.Store
	GetTopHeight() (uint32, error)
	GetBlockHeight(hash chainhash.Hash) (uint32, error)
	BlockExists(hash chainhash.Hash) (bool, error)
	Push(block *model.Block, height uint32) error
	Pop() (*model.Block, error)
}

// BlockValidator validates a block against the chain state below it.
type BlockValidator interface {
	Validate(ctx context.Context, block *model.Block, view chainview.View) error
}

// Organizer places incoming blocks: it holds blocks that do not extend the
// chain in the orphan pool and reorganizes onto a branch once it carries
// more work than the blocks it would replace. Calls must be serialized.
type Organizer struct {
	logger    ulogger.Logger
	settings  *settings.Settings
	store     Store
	validator BlockValidator
	orphans   *OrphanPool
	rejected  *ttlcache.Cache[chainhash.Hash, error]
	notify    ReorganizeHandler
	started   bool
}

func NewOrganizer(logger ulogger.Logger, tSettings *settings.Settings, store Store, validator BlockValidator, notify ReorganizeHandler) *Organizer {
	initPrometheusMetrics()

	return &Organizer{
		logger:    logger,
		settings:  tSettings,
		store:     store,
		validator: validator,
		orphans:   NewOrphanPool(tSettings.BlockChain.OrphanPoolCapacity),
		rejected: ttlcache.New[chainhash.Hash, error](
			ttlcache.WithTTL[chainhash.Hash, error](tSettings.BlockChain.RejectedCacheTTL),
			ttlcache.WithCapacity[chainhash.Hash, error](rejectedCacheCapacity),
		),
		notify: notify,
	}
}

// Start runs the expiry of the rejected block cache.
func (o *Organizer) Start() {
	if o.started {
		return
	}

	o.started = true

	go o.rejected.Start()
}

func (o *Organizer) Stop() {
	if !o.started {
		return
	}

	o.started = false

	o.rejected.Stop()
}

// Orphans exposes the pool of blocks outside the chain.
func (o *Organizer) Orphans() *OrphanPool {
	return o.orphans
}

// Process organizes block and returns the height it was committed at. A
// block whose parent is unknown is held and reported with ErrOrphanBlock.
// A valid block on a branch with too little work is held and reported with
// ErrInsufficientWork.
func (o *Organizer) Process(ctx context.Context, block *model.Block) (height uint32, err error) {
	start := time.Now()
	hash := block.Hash()

	defer func() {
		prometheusBlockchainProcessBlock.Observe(float64(time.Since(start).Microseconds()) / 1_000_000)

		result := "OK"
		if err != nil {
			result = errors.CodeOf(err).String()
		}

		prometheusBlockchainBlocksProcessed.WithLabelValues(result).Inc()
	}()

	if item := o.rejected.Get(hash); item != nil {
		return 0, errors.NewBlockRejectedError("[Organizer][%s] block was rejected", hash, item.Value())
	}

	exists, err := o.store.BlockExists(hash)
	if err != nil {
		return 0, err
	}

	if exists || o.orphans.Exists(hash) {
		return 0, errors.NewBlockExistsError("[Organizer][%s] block already known", hash)
	}

	detail := NewBlockDetail(block)
	if err = detail.transition(ctx, EventPool); err != nil {
		return 0, err
	}

	o.orphans.Add(detail)

	return o.organize(ctx, detail)
}

// organize evaluates the branches running through detail, heaviest first,
// and commits the first one that beats the chain.
func (o *Organizer) organize(ctx context.Context, detail *BlockDetail) (uint32, error) {
	hash := detail.Hash()

	root := o.orphans.Trace(detail)[0].Block().Header.PreviousBlockHash

	forkHeight, err := o.store.GetBlockHeight(root)
	if errors.Is(err, errors.ErrBlockNotFound) {
		o.logger.Debugf("[Organizer][%s] held as orphan, parent %s unknown", hash, root)
		return 0, errors.NewOrphanBlockError("[Organizer][%s] parent %s unknown", hash, root)
	}

	if err != nil {
		return 0, err
	}

	branches := make([][]*BlockDetail, 0)
	for _, tip := range o.orphans.Tips(detail) {
		branches = append(branches, o.orphans.Trace(tip))
	}

	sort.SliceStable(branches, func(i, j int) bool {
		return branchWork(branches[i]).Cmp(branchWork(branches[j])) > 0
	})

	lastErr := errors.NewInsufficientWorkError("[Organizer][%s] branch does not carry more work than the chain", hash)

	for _, branch := range branches {
		if !o.held(branch) {
			continue
		}

		committed, err := o.reorganize(ctx, forkHeight, branch)
		if err != nil {
			if errors.Is(err, errors.ErrStorage) || errors.Is(err, errors.ErrContextCanceled) {
				return 0, err
			}

			lastErr = err

			continue
		}

		for i, d := range committed {
			if d.Hash() == hash {
				return forkHeight + 1 + uint32(i), nil
			}
		}

		if detail.Is(StateRejected) {
			return 0, detail.Error()
		}

		return 0, lastErr
	}

	if detail.Is(StateRejected) {
		return 0, detail.Error()
	}

	return 0, lastErr
}

// held reports whether every block of branch is still in the orphan pool.
func (o *Organizer) held(branch []*BlockDetail) bool {
	for _, d := range branch {
		if !o.orphans.Exists(d.Hash()) {
			return false
		}
	}

	return true
}

// reorganize validates branch and, if its valid part carries more work
// than the chain above forkHeight, replaces the chain with it.
func (o *Organizer) reorganize(ctx context.Context, forkHeight uint32, branch []*BlockDetail) ([]*BlockDetail, error) {
	top, err := o.store.GetTopHeight()
	if err != nil {
		return nil, err
	}

	chainWork, err := o.chainWork(forkHeight, top)
	if err != nil {
		return nil, err
	}

	if branchWork(branch).Cmp(chainWork) <= 0 {
		return nil, errors.NewInsufficientWorkError("[Organizer] branch from %d does not carry more work than the chain", forkHeight)
	}

	if depth := int(top - forkHeight); o.settings.BlockChain.MaxReorgDepth > 0 && depth > o.settings.BlockChain.MaxReorgDepth {
		return nil, errors.NewBlockInvalidError("[Organizer] reorganization of %d blocks exceeds %d", depth, o.settings.BlockChain.MaxReorgDepth)
	}

	valid, validateErr := o.validateBranch(ctx, forkHeight, branch)
	if validateErr != nil {
		if errors.Is(validateErr, errors.ErrContextCanceled) || len(valid) == 0 || branchWork(valid).Cmp(chainWork) <= 0 {
			return nil, validateErr
		}

		o.logger.Warnf("[Organizer] continuing with %d valid blocks of a branch of %d: %v", len(valid), len(branch), validateErr)
	}

	replaced, err := o.replaceChain(forkHeight, top, valid)
	if err != nil {
		return nil, err
	}

	newBlocks := make([]*model.Block, len(valid))

	for i, d := range valid {
		if err = d.transition(ctx, EventCommit); err != nil {
			o.logger.Errorf("[Organizer] %v", err)
		}

		o.orphans.Remove(d.Hash())
		newBlocks[i] = d.Block()
	}

	for _, block := range replaced {
		o.orphans.Add(newReplacedDetail(block))
	}

	o.orphans.Filter(func(hash chainhash.Hash) bool {
		exists, err := o.store.BlockExists(hash)
		return err == nil && exists
	})

	if len(replaced) > 0 {
		prometheusBlockchainReorgs.Inc()
		prometheusBlockchainReorgDepth.Observe(float64(len(replaced)))
		o.logger.Infof("[Organizer] reorganized at %d, %d blocks replaced by %d", forkHeight, len(replaced), len(valid))
	}

	if o.notify != nil {
		o.notify(nil, forkHeight, newBlocks, replaced)
	}

	return valid, nil
}

// validateBranch validates the blocks of branch in order, each against the
// chain at forkHeight with its predecessors in the branch layered on top.
// It returns the valid prefix and the failure that ended it.
func (o *Organizer) validateBranch(ctx context.Context, forkHeight uint32, branch []*BlockDetail) ([]*BlockDetail, error) {
	blocks := make([]*model.Block, 0, len(branch))

	for i, d := range branch {
		if !d.Is(StateConnected) {
			view := chainview.Overlay(o.store, forkHeight, blocks)

			if err := o.validator.Validate(ctx, d.Block(), view); err != nil {
				if errors.Is(err, errors.ErrContextCanceled) {
					return branch[:i], err
				}

				o.rejectBranch(ctx, d, err)

				return branch[:i], err
			}

			if err := d.transition(ctx, EventConnect); err != nil {
				return branch[:i], err
			}
		}

		blocks = append(blocks, d.Block())
	}

	return branch, nil
}

// rejectBranch rejects d and every held block built on it.
func (o *Organizer) rejectBranch(ctx context.Context, d *BlockDetail, cause error) {
	o.logger.Warnf("[Organizer][%s] rejected: %v", d.Hash(), cause)

	o.orphans.Remove(d.Hash())
	o.markRejected(ctx, d, cause)

	for _, descendant := range o.orphans.RemoveDescendants(d.Hash()) {
		o.markRejected(ctx, descendant, errors.NewBlockInvalidError("ancestor %s rejected", d.Hash(), cause))
	}
}

func (o *Organizer) markRejected(ctx context.Context, d *BlockDetail, cause error) {
	if err := d.reject(ctx, cause); err != nil {
		o.logger.Errorf("[Organizer] %v", err)
	}

	o.rejected.Set(d.Hash(), cause, ttlcache.DefaultTTL)
}

// replaceChain pops the blocks above forkHeight and pushes branch in their
// place. On a store failure the chain is restored to its previous blocks.
func (o *Organizer) replaceChain(forkHeight uint32, top uint32, branch []*BlockDetail) ([]*model.Block, error) {
	replaced := make([]*model.Block, 0, top-forkHeight)

	for height := top; height > forkHeight; height-- {
		block, err := o.store.Pop()
		if err != nil {
			o.restore(forkHeight, 0, replaced)
			return nil, errors.NewStorageError("[Organizer] failed to pop block at %d", height, err)
		}

		replaced = append([]*model.Block{block}, replaced...)
	}

	for i, d := range branch {
		if err := o.store.Push(d.Block(), forkHeight+1+uint32(i)); err != nil {
			o.restore(forkHeight, i, replaced)
			return nil, errors.NewStorageError("[Organizer][%s] failed to push block at %d", d.Hash(), forkHeight+1+uint32(i), err)
		}
	}

	return replaced, nil
}

// restore pops pushed blocks and pushes back the replaced ones above
// forkHeight, leaving the chain as it was before the reorganization.
func (o *Organizer) restore(forkHeight uint32, pushed int, replaced []*model.Block) {
	for i := 0; i < pushed; i++ {
		if _, err := o.store.Pop(); err != nil {
			o.logger.Errorf("[Organizer] failed to unwind a pushed block: %v", err)
			return
		}
	}

	top, err := o.store.GetTopHeight()
	if err != nil {
		o.logger.Errorf("[Organizer] failed to read the top height while restoring: %v", err)
		return
	}

	for _, block := range replaced {
		height := block.Header.Number
		if height <= top {
			continue
		}

		if err = o.store.Push(block, height); err != nil {
			o.logger.Errorf("[Organizer][%s] failed to restore block at %d: %v", block.Hash(), height, err)
			return
		}
	}

	o.logger.Warnf("[Organizer] restored the chain above %d", forkHeight)
}

func (o *Organizer) chainWork(forkHeight uint32, top uint32) (*big.Int, error) {
	work := new(big.Int)

	for height := forkHeight + 1; height <= top; height++ {
		header, err := o.store.GetBlockHeader(height)
		if err != nil {
			return nil, err
		}

		work.Add(work, header.Work())
	}

	return work, nil
}

func branchWork(branch []*BlockDetail) *big.Int {
	work := new(big.Int)

	for _, d := range branch {
		work.Add(work, d.Block().Header.Work())
	}

	return work
}
