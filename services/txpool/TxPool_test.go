package txpool

import (
	"bytes"
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/mvs-org/mvsd/errors"
	"github.com/mvs-org/mvsd/model"
	"github.com/mvs-org/mvsd/services/blockchain"
	"github.com/mvs-org/mvsd/settings"
	"github.com/mvs-org/mvsd/stores/chainview"
	"github.com/mvs-org/mvsd/stores/ledger"
	"github.com/mvs-org/mvsd/ulogger"
	"github.com/mvs-org/mvsd/util/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// confirmations records what each handler was told.
type confirmations struct {
	mu      sync.Mutex
	results map[chainhash.Hash]error
	calls   int
}

func newConfirmations() *confirmations {
	return &confirmations{results: make(map[chainhash.Hash]error)}
}

func (c *confirmations) handler(err error, tx *model.Tx) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.results[tx.Hash()] = err
	c.calls++
}

func (c *confirmations) result(tx *model.Tx) (error, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	err, found := c.results[tx.Hash()]

	return err, found
}

func (c *confirmations) assertCode(t *testing.T, tx *model.Tx, target error) {
	t.Helper()

	err, found := c.result(tx)
	require.True(t, found, "handler of %s was not called", tx.Hash())

	if target == nil {
		assert.NoError(t, err)
		return
	}

	assert.True(t, errors.Is(err, target), "want %v, got %v", target, err)
}

// fakeChain has no committed state.
type fakeChain struct {
	handler blockchain.ReorganizeHandler
}

func (f *fakeChain) View() (chainview.View, error) {
	return nil, errors.NewServiceError("no chain")
}

func (f *fakeChain) SubscribeReorganize(handler blockchain.ReorganizeHandler) {
	f.handler = handler
}

func newFakePool(t *testing.T, configure ...func(*settings.Settings)) (*TxPool, *fakeChain) {
	t.Helper()

	tSettings := test.CreateBaseTestSettings(t.TempDir())
	for _, c := range configure {
		c(tSettings)
	}

	chain := &fakeChain{}
	pool := New(ulogger.TestLogger{}, tSettings, chain)

	require.NoError(t, pool.Start(context.Background()))
	t.Cleanup(pool.Stop)

	return pool, chain
}

func TestTxPoolCapacity(t *testing.T) {
	ctx := context.Background()
	c := newConfirmations()

	pool, _ := newFakePool(t, func(s *settings.Settings) {
		s.TxPool.Capacity = 2
		s.TxPool.MaintainConsistency = true
	})

	txs := []*model.Tx{spending(outpoint(1, 0)), spending(outpoint(2, 0)), spending(outpoint(3, 0))}
	for _, tx := range txs {
		require.NoError(t, pool.Add(ctx, tx, c.handler))
	}

	assert.Equal(t, 2, pool.Size())
	assert.False(t, pool.Exists(txs[0].Hash()))
	c.assertCode(t, txs[0], errors.ErrPoolFilled)

	_, called := c.result(txs[1])
	assert.False(t, called)
}

func TestTxPoolCapacityWithoutConsistency(t *testing.T) {
	ctx := context.Background()
	c := newConfirmations()

	pool, _ := newFakePool(t, func(s *settings.Settings) {
		s.TxPool.Capacity = 1
		s.TxPool.MaintainConsistency = false
	})

	first := spending(outpoint(1, 0))
	require.NoError(t, pool.Add(ctx, first, c.handler))
	require.NoError(t, pool.Add(ctx, spending(outpoint(2, 0)), c.handler))

	assert.False(t, pool.Exists(first.Hash()))
	assert.Equal(t, 0, c.calls)
}

func TestTxPoolDelete(t *testing.T) {
	ctx := context.Background()
	c := newConfirmations()
	pool, _ := newFakePool(t)

	parent := spending(outpoint(1, 0))
	child := spending(model.Point{Hash: parent.Hash(), Index: 1})
	other := spending(outpoint(2, 0))

	for _, tx := range []*model.Tx{parent, child, other} {
		require.NoError(t, pool.Add(ctx, tx, c.handler))
	}

	spender, found := pool.FindSpent(model.Point{Hash: parent.Hash(), Index: 1})
	require.True(t, found)
	assert.Equal(t, child.Hash(), spender.Hash)

	pool.Delete(parent.Hash())

	c.assertCode(t, parent, errors.ErrInternalDuplicate)
	c.assertCode(t, child, errors.ErrInternalDuplicate)
	assert.Equal(t, 1, pool.Size())
	assert.True(t, pool.IsSpentInPool(outpoint(2, 0)))
	assert.False(t, pool.IsSpentInPool(outpoint(1, 0)))

	fetched, found := pool.Fetch(other.Hash())
	require.True(t, found)
	assert.Same(t, other, fetched)
}

func TestTxPoolReorganizeHandler(t *testing.T) {
	ctx := context.Background()
	c := newConfirmations()
	pool, chain := newFakePool(t)
	require.NotNil(t, chain.handler)

	confirmed := spending(outpoint(1, 0))
	kept := spending(outpoint(2, 0))

	require.NoError(t, pool.Add(ctx, confirmed, c.handler))
	require.NoError(t, pool.Add(ctx, kept, c.handler))

	genesis := test.Genesis(test.NewKey(1), 1000)
	block := test.NextBlock(genesis, test.Coinbase(1), confirmed)

	assert.True(t, chain.handler(nil, 0, []*model.Block{block}, nil))
	c.assertCode(t, confirmed, nil)
	assert.True(t, pool.Exists(kept.Hash()))

	assert.True(t, chain.handler(nil, 0, []*model.Block{block}, []*model.Block{genesis}))
	c.assertCode(t, kept, errors.ErrBlockchainReorganized)
	assert.Equal(t, 0, pool.Size())

	assert.False(t, chain.handler(errors.NewServiceStoppedError("stopped"), 0, nil, nil))
}

func TestTxPoolStop(t *testing.T) {
	ctx := context.Background()
	c := newConfirmations()
	pool, chain := newFakePool(t)

	tx := spending(outpoint(1, 0))
	require.NoError(t, pool.Add(ctx, tx, c.handler))

	pool.Stop()
	c.assertCode(t, tx, errors.ErrServiceStopped)

	err := pool.Add(ctx, spending(outpoint(2, 0)), c.handler)
	assert.True(t, errors.Is(err, errors.ErrServiceStopped))
	assert.False(t, pool.Exists(tx.Hash()))

	assert.False(t, chain.handler(nil, 0, nil, nil))
}

func TestTxPoolStopAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c := newConfirmations()

	pool := New(ulogger.TestLogger{}, test.CreateBaseTestSettings(t.TempDir()), &fakeChain{})
	require.NoError(t, pool.Start(ctx))

	tx := spending(outpoint(1, 0))
	require.NoError(t, pool.Add(ctx, tx, c.handler))

	cancel()
	pool.Stop()

	c.assertCode(t, tx, errors.ErrServiceStopped)
}

func TestTxPoolHealth(t *testing.T) {
	ctx := context.Background()

	pool := New(ulogger.TestLogger{}, test.CreateBaseTestSettings(t.TempDir()), &fakeChain{})

	status, _, err := pool.Health(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)

	status, _, err = pool.Health(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, status)

	require.NoError(t, pool.Start(ctx))

	status, body, err := pool.Health(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "0 of 16 pooled")

	pool.Stop()

	status, _, err = pool.Health(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, status)
}

func TestTxPoolWithChain(t *testing.T) {
	ctx := context.Background()
	alice := test.NewKey(1)
	bob := test.NewKey(2)

	tSettings := test.CreateBaseTestSettings(t.TempDir())
	params := tSettings.ChainCfgParams
	subsidy := params.Subsidy(1)

	chain := blockchain.New(ulogger.TestLogger{}, tSettings, ledger.New(ulogger.TestLogger{}, tSettings))
	require.NoError(t, chain.Start(ctx))

	blocks := test.Chain(params.GenesisBlock, alice, subsidy, 3)
	for _, block := range blocks {
		_, err := chain.Store(ctx, block)
		require.NoError(t, err)
	}

	pool := New(ulogger.TestLogger{}, tSettings, chain)
	require.NoError(t, pool.Start(ctx))
	chain.SetTxEvicter(pool)

	t.Cleanup(func() {
		pool.Stop()
		_ = chain.Stop()
	})

	c := newConfirmations()
	coinbase := blocks[0].Transactions[0]

	parent := test.Spend(coinbase, 0, alice, test.Currency(subsidy-10000, bob.PayScript()))
	unconfirmed, err := pool.Store(ctx, parent, c.handler)
	require.NoError(t, err)
	assert.Empty(t, unconfirmed)

	child := test.Spend(parent, 0, bob, test.Currency(subsidy-20000, alice.PayScript()))
	unconfirmed, err = pool.Store(ctx, child, c.handler)
	require.NoError(t, err)
	assert.Equal(t, []uint32{0}, unconfirmed)

	double := test.Spend(coinbase, 0, alice, test.Currency(subsidy-20000, alice.PayScript()))
	_, err = pool.Store(ctx, double, c.handler)
	assert.True(t, errors.Is(err, errors.ErrPoolDoubleSpend), "got %v", err)

	_, err = pool.Store(ctx, parent, c.handler)
	assert.True(t, errors.Is(err, errors.ErrTxDuplicate), "got %v", err)

	assert.Equal(t, 2, pool.Size())

	// a block confirming the parent leaves the child pooled
	mined := test.NextBlock(blocks[2], test.Coinbase(4, test.Currency(subsidy+10000, alice.PayScript())), parent)
	height, err := chain.Store(ctx, mined)
	require.NoError(t, err)
	assert.Equal(t, uint32(4), height)

	c.assertCode(t, parent, nil)
	assert.Equal(t, 1, pool.Size())
	assert.True(t, pool.Exists(child.Hash()))

	// replacing the block empties the pool
	heavier := test.NextBlockWithBits(blocks[2], 0x1f7fffff, test.Coinbase(4, test.Currency(subsidy, bob.PayScript())))
	height, err = chain.Store(ctx, heavier)
	require.NoError(t, err)
	assert.Equal(t, uint32(4), height)

	c.assertCode(t, child, errors.ErrBlockchainReorganized)
	assert.Equal(t, 0, pool.Size())

	// the coinbase is unspent again on the new chain
	_, err = pool.Store(ctx, double, c.handler)
	require.NoError(t, err)
}

func TestTxPoolQueriesWhenStopped(t *testing.T) {
	var buf bytes.Buffer

	logger := ulogger.NewZeroLogger("txpool", ulogger.WithWriter(&buf), ulogger.WithLevel("DEBUG"), ulogger.WithPrettyLogs(false))
	pool := New(logger, test.CreateBaseTestSettings(t.TempDir()), &fakeChain{})

	tx := spending(outpoint(1, 0))

	assert.False(t, pool.Exists(tx.Hash()))
	assert.Zero(t, pool.Size())

	_, found := pool.Fetch(tx.Hash())
	assert.False(t, found)

	assert.Contains(t, buf.String(), "exists query not served")
	assert.Contains(t, buf.String(), "size query not served")
	assert.Contains(t, buf.String(), "fetch query not served")
}
