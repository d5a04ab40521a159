// Package txpool holds validated transactions waiting for a block.
//
// The pool is a bounded ring buffer. Every read and mutation runs on a
// single ordered worker, so validation, admission and removal on behalf of
// new blocks happen in the order they were requested.
package txpool

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/mvs-org/mvsd/errors"
	"github.com/mvs-org/mvsd/model"
	"github.com/mvs-org/mvsd/services/blockchain"
	"github.com/mvs-org/mvsd/services/validator"
	"github.com/mvs-org/mvsd/settings"
	"github.com/mvs-org/mvsd/ulogger"
	"github.com/mvs-org/mvsd/util"
	"github.com/mvs-org/mvsd/util/health"
	"go.uber.org/atomic"
)

// ConfirmHandler is called once when a transaction leaves the pool: with a
// nil error when a block confirmed it, otherwise with the reason it was
// dropped.
type ConfirmHandler func(err error, tx *model.Tx)

// Chain is the part of the block chain the pool depends on.
type Chain interface {
	validator.ChainState
	SubscribeReorganize(handler blockchain.ReorganizeHandler)
}

type TxPool struct {
	logger    ulogger.Logger
	settings  *settings.Settings
	chain     Chain
	validator *validator.Validator
	buffer    *txBuffer
	worker    *util.OrderedWorker

	ctx     context.Context
	cancel  context.CancelFunc
	running atomic.Bool
}

func New(logger ulogger.Logger, tSettings *settings.Settings, chain Chain) *TxPool {
	initPrometheusMetrics()

	buffer := newTxBuffer(tSettings.TxPool.Capacity)

	return &TxPool{
		logger:    logger,
		settings:  tSettings,
		chain:     chain,
		validator: validator.New(logger, tSettings, chain, buffer),
		buffer:    buffer,
		worker:    util.NewOrderedWorker(),
	}
}

// Start runs the worker and subscribes to chain reorganizations. The worker
// outlives ctx so that Stop can still notify pooled transactions. A stopped
// pool cannot be restarted.
func (p *TxPool) Start(ctx context.Context) error {
	if p.running.Swap(true) {
		return nil
	}

	p.ctx, p.cancel = context.WithCancel(context.WithoutCancel(ctx))
	p.worker.Start(p.ctx)

	p.chain.SubscribeReorganize(p.handleReorganize)

	p.logger.Infof("[TxPool] started with capacity %d", len(p.buffer.ring))

	return nil
}

// Stop drops every pooled transaction with ErrServiceStopped once queued
// work has run.
func (p *TxPool) Stop() {
	if !p.running.Swap(false) {
		return
	}

	p.worker.Submit(func() {
		p.finish(p.buffer.clear(), errors.NewServiceStoppedError("[TxPool] stopped"))
	})

	p.worker.Stop()
	p.cancel()

	p.logger.Infof("[TxPool] stopped")
}

// Health reports liveness unconditionally. Readiness requires a running
// worker that answers within ctx.
func (p *TxPool) Health(ctx context.Context, checkLiveness bool) (int, string, error) {
	if checkLiveness {
		return http.StatusOK, "OK", nil
	}

	checks := []health.Check{
		{Name: "TxPool", Check: p.checkWorker},
	}

	return health.CheckAll(ctx, checkLiveness, checks)
}

func (p *TxPool) checkWorker(ctx context.Context, _ bool) (int, string, error) {
	var size int

	if err := p.do(ctx, func() {
		size = p.buffer.size()
	}); err != nil {
		return http.StatusServiceUnavailable, "worker unavailable", err
	}

	return http.StatusOK, fmt.Sprintf("%d of %d pooled", size, len(p.buffer.ring)), nil
}

// do runs job on the worker and waits for it.
func (p *TxPool) do(ctx context.Context, job func()) error {
	if !p.running.Load() {
		return errors.NewServiceStoppedError("[TxPool] not running")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stop := context.AfterFunc(p.ctx, cancel)
	defer stop()

	if err := p.worker.Do(ctx, job); err != nil {
		return errors.NewContextCanceledError("[TxPool] request abandoned", err)
	}

	return nil
}

// query runs a read on the worker. A pool that cannot serve it answers as
// if empty.
func (p *TxPool) query(name string, job func()) {
	if err := p.do(context.Background(), job); err != nil {
		p.logger.Debugf("[TxPool] %s query not served: %v", name, err)
	}
}

// Store validates tx against the chain and the pool and admits it. It
// returns the indexes of the inputs spending pooled transactions.
func (p *TxPool) Store(ctx context.Context, tx *model.Tx, handler ConfirmHandler) (unconfirmed []uint32, err error) {
	start := time.Now()

	defer func() {
		prometheusTxPoolStore.Observe(float64(time.Since(start).Microseconds()) / 1_000_000)
	}()

	if doErr := p.do(ctx, func() {
		if unconfirmed, err = p.validator.Validate(ctx, tx); err != nil {
			return
		}

		if err = p.buffer.checkSymbolRepeat(tx); err != nil {
			return
		}

		p.add(tx, handler)
	}); doErr != nil {
		return nil, doErr
	}

	if err != nil {
		return nil, err
	}

	return unconfirmed, nil
}

// Add admits tx without validating it.
func (p *TxPool) Add(ctx context.Context, tx *model.Tx, handler ConfirmHandler) error {
	return p.do(ctx, func() {
		p.add(tx, handler)
	})
}

func (p *TxPool) add(tx *model.Tx, handler ConfirmHandler) {
	hash := tx.Hash()

	evicted := p.buffer.add(&poolEntry{tx: tx, hash: hash, handler: handler})

	if evicted != nil {
		if p.settings.TxPool.MaintainConsistency {
			p.finish([]*poolEntry{evicted}, errors.NewPoolFilledError("[TxPool][%s] evicted for %s", evicted.hash, hash))
		} else {
			prometheusTxPoolRemoved.WithLabelValues(errors.ERR_POOL_FILLED.String()).Inc()
		}
	}

	prometheusTxPoolSize.Set(float64(p.buffer.size()))
	p.logger.Debugf("[TxPool][%s] added, %d pooled", hash, p.buffer.size())
}

// Remove drops the transactions confirmed by newBlocks. When the pool
// maintains consistency it also drops the transactions that now double
// spend, and everything built on them.
func (p *TxPool) Remove(ctx context.Context, newBlocks []*model.Block) error {
	return p.do(ctx, func() {
		confirmed, conflicting := p.buffer.removeConfirmed(newBlocks, p.settings.TxPool.MaintainConsistency)

		p.finish(confirmed, nil)

		if len(conflicting) > 0 {
			p.finish(conflicting, errors.NewPoolDoubleSpendError("[TxPool] spends an output confirmed by another transaction"))
		}
	})
}

// Clear drops every pooled transaction with code.
func (p *TxPool) Clear(ctx context.Context, code error) error {
	return p.do(ctx, func() {
		entries := p.buffer.clear()
		p.finish(entries, code)

		if len(entries) > 0 {
			p.logger.Infof("[TxPool] cleared %d transactions: %v", len(entries), code)
		}
	})
}

// Delete drops the transaction with hash and its descendants. Block
// validation uses it to evict transactions that cannot be confirmed.
func (p *TxPool) Delete(hash chainhash.Hash) {
	err := p.do(context.Background(), func() {
		p.finish(p.buffer.removeWithDescendants(hash), errors.NewInternalDuplicateError("[TxPool][%s] evicted by block validation", hash))
	})
	if err != nil {
		p.logger.Warnf("[TxPool][%s] failed to evict: %v", hash, err)
	}
}

// finish reports entries that left the pool to their handlers.
func (p *TxPool) finish(entries []*poolEntry, code error) {
	reason := "confirmed"
	if code != nil {
		reason = errors.CodeOf(code).String()
	}

	for _, entry := range entries {
		prometheusTxPoolRemoved.WithLabelValues(reason).Inc()

		if entry.handler != nil {
			entry.handler(code, entry.tx)
		}
	}

	prometheusTxPoolSize.Set(float64(p.buffer.size()))
}

func (p *TxPool) Fetch(hash chainhash.Hash) (tx *model.Tx, found bool) {
	p.query("fetch", func() {
		tx, found = p.buffer.Fetch(hash)
	})

	return tx, found
}

func (p *TxPool) Exists(hash chainhash.Hash) (found bool) {
	p.query("exists", func() {
		found = p.buffer.Exists(hash)
	})

	return found
}

func (p *TxPool) IsSpentInPool(point model.Point) (spent bool) {
	p.query("spent", func() {
		spent = p.buffer.IsSpentInPool(point)
	})

	return spent
}

// FindSpent returns the pooled input spending point.
func (p *TxPool) FindSpent(point model.Point) (input model.InputPoint, found bool) {
	p.query("find spent", func() {
		input, found = p.buffer.findSpent(point)
	})

	return input, found
}

// CheckSymbolRepeat reports whether tx claims a name already claimed in
// the pool, or claims one name twice.
func (p *TxPool) CheckSymbolRepeat(tx *model.Tx) (err error) {
	if doErr := p.do(context.Background(), func() {
		err = p.buffer.checkSymbolRepeat(tx)
	}); doErr != nil {
		return doErr
	}

	return err
}

func (p *TxPool) Size() (size int) {
	p.query("size", func() {
		size = p.buffer.size()
	})

	return size
}

// handleReorganize keeps the pool in step with the chain. When blocks were
// replaced the pool is emptied rather than revalidated.
func (p *TxPool) handleReorganize(err error, forkHeight uint32, newBlocks []*model.Block, replacedBlocks []*model.Block) bool {
	if err != nil {
		return !errors.Is(err, errors.ErrServiceStopped)
	}

	if !p.running.Load() {
		return false
	}

	ctx := context.Background()

	if len(replacedBlocks) > 0 {
		code := errors.NewBlockchainReorganizedError("[TxPool] %d blocks replaced above %d", len(replacedBlocks), forkHeight)

		if err = p.Clear(ctx, code); err != nil {
			p.logger.Errorf("[TxPool] failed to clear after reorganization: %v", err)
		}
	}

	if err = p.Remove(ctx, newBlocks); err != nil {
		p.logger.Errorf("[TxPool] failed to remove confirmed transactions: %v", err)
	}

	return true
}
