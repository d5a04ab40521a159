// Package blockchain maintains the best chain.
//
// BlockChain is the entry point for blocks and standalone transactions. Block
// stores are serialized by an exclusive lock and handed to the Organizer,
// which keeps blocks outside the chain in an OrphanPool, tracks each block's
// lifecycle with a state machine and reorganizes onto heavier branches.
// Subscribers are told synchronously about every change of the chain.
package blockchain

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/mvs-org/mvsd/errors"
	"github.com/mvs-org/mvsd/model"
	"github.com/mvs-org/mvsd/services/blockvalidation"
	"github.com/mvs-org/mvsd/services/validator"
	"github.com/mvs-org/mvsd/settings"
	"github.com/mvs-org/mvsd/stores/chainview"
	"github.com/mvs-org/mvsd/stores/ledger"
	"github.com/mvs-org/mvsd/ulogger"
	"github.com/mvs-org/mvsd/util/health"
	"go.uber.org/atomic"
)

// BlockChain is the chain facade used by the pool and the network layer.
type BlockChain struct {
	logger      ulogger.Logger
	settings    *settings.Settings
	store       *ledger.Ledger
	blocks      *blockvalidation.BlockValidator
	txs         *validator.Validator
	organizer   *Organizer
	subscribers *subscribers

	// mu serializes block stores
	mu      sync.Mutex
	stopped atomic.Bool
}

func New(logger ulogger.Logger, tSettings *settings.Settings, store *ledger.Ledger) *BlockChain {
	b := &BlockChain{
		logger:      logger,
		settings:    tSettings,
		store:       store,
		blocks:      blockvalidation.New(logger, tSettings, nil),
		subscribers: &subscribers{logger: logger},
	}

	b.txs = validator.New(logger, tSettings, b, nil)
	b.organizer = NewOrganizer(logger, tSettings, store, b.blocks, b.subscribers.notify)

	return b
}

// Start opens the store, creating it with the network's genesis block when
// the data directory is empty.
func (b *BlockChain) Start(ctx context.Context) error {
	if !b.store.Exists() {
		genesis := b.settings.ChainCfgParams.GenesisBlock

		if err := b.store.Create(genesis); err != nil {
			return errors.NewServiceError("[BlockChain] failed to create the store", err)
		}
	} else if err := b.store.Start(); err != nil {
		return errors.NewServiceError("[BlockChain] failed to start the store", err)
	}

	b.organizer.Start()
	b.stopped.Store(false)

	height, err := b.store.GetTopHeight()
	if err != nil {
		return err
	}

	b.logger.Infof("[BlockChain] started at height %d", height)

	return nil
}

// Stop tells subscribers the service stopped and closes the store.
func (b *BlockChain) Stop() error {
	if b.stopped.Swap(true) {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.organizer.Stop()
	b.subscribers.notify(errors.NewServiceStoppedError("[BlockChain] stopped"), 0, nil, nil)

	return b.store.Close()
}

// Health reports liveness unconditionally. Readiness requires a running
// service whose store answers for its top block.
func (b *BlockChain) Health(ctx context.Context, checkLiveness bool) (int, string, error) {
	if checkLiveness {
		return http.StatusOK, "OK", nil
	}

	checks := []health.Check{
		{Name: "BlockChain", Check: b.checkRunning},
		{Name: "Ledger", Check: b.checkStore},
	}

	return health.CheckAll(ctx, checkLiveness, checks)
}

func (b *BlockChain) checkRunning(context.Context, bool) (int, string, error) {
	if b.stopped.Load() {
		return http.StatusServiceUnavailable, "stopped", errors.ErrServiceStopped
	}

	return http.StatusOK, fmt.Sprintf("%d orphans", b.organizer.Orphans().Size()), nil
}

func (b *BlockChain) checkStore(context.Context, bool) (int, string, error) {
	height, err := b.store.GetTopHeight()
	if err != nil {
		return http.StatusServiceUnavailable, "top block unavailable", err
	}

	return http.StatusOK, fmt.Sprintf("top height %d", height), nil
}

// SetTxEvicter lets block validation evict pool transactions that can no
// longer confirm.
func (b *BlockChain) SetTxEvicter(evicter blockvalidation.TxEvicter) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.blocks.SetEvicter(evicter)
}

// Store organizes block and returns the height it was committed at.
func (b *BlockChain) Store(ctx context.Context, block *model.Block) (uint32, error) {
	if b.stopped.Load() {
		return 0, errors.NewServiceStoppedError("[BlockChain] cannot store block %s", block.Hash())
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	return b.organizer.Process(ctx, block)
}

// SubscribeReorganize registers handler for chain changes.
func (b *BlockChain) SubscribeReorganize(handler ReorganizeHandler) {
	b.subscribers.subscribe(handler)
}

// ValidateTransaction checks tx against the committed chain alone.
func (b *BlockChain) ValidateTransaction(ctx context.Context, tx *model.Tx) error {
	if b.stopped.Load() {
		return errors.NewServiceStoppedError("[BlockChain] cannot validate transaction %s", tx.Hash())
	}

	_, err := b.txs.Validate(ctx, tx)

	return err
}

// View returns the committed chain as of its current top.
func (b *BlockChain) View() (chainview.View, error) {
	height, err := b.store.GetTopHeight()
	if err != nil {
		return nil, err
	}

	return chainview.Durable(b.store, height), nil
}

func (b *BlockChain) Orphans() *OrphanPool {
	return b.organizer.Orphans()
}

func (b *BlockChain) GetTopHeight() (uint32, error) {
	return b.store.GetTopHeight()
}

func (b *BlockChain) GetBlockByHeight(height uint32) (*model.Block, error) {
	return b.store.GetBlockByHeight(height)
}

func (b *BlockChain) GetBlockByHash(hash chainhash.Hash) (*model.Block, uint32, error) {
	return b.store.GetBlockByHash(hash)
}

func (b *BlockChain) GetTransaction(hash chainhash.Hash) (*model.Tx, uint32, uint32, error) {
	return b.store.GetTransaction(hash)
}

func (b *BlockChain) GetSpend(point model.Point) (*ledger.Spend, error) {
	return b.store.GetSpend(point)
}

func (b *BlockChain) GetHistory(addressHash chainhash.Hash, limit int, fromHeight uint32) ([]*ledger.HistoryRow, error) {
	return b.store.GetHistory(addressHash, limit, fromHeight)
}

func (b *BlockChain) GetToken(symbol string) (*model.TokenRecord, error) {
	return b.store.GetToken(symbol)
}

func (b *BlockChain) GetCert(symbol string, certType uint32) (*model.CertRecord, error) {
	return b.store.GetCert(symbol, certType)
}

func (b *BlockChain) GetUID(symbol string) (*model.UIDRecord, error) {
	return b.store.GetUID(symbol)
}

func (b *BlockChain) GetCandidate(symbol string) (*model.CandidateRecord, error) {
	return b.store.GetCandidate(symbol)
}
