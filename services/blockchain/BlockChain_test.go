package blockchain

import (
	"context"
	"net/http"
	"testing"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/mvs-org/mvsd/errors"
	"github.com/mvs-org/mvsd/model"
	"github.com/mvs-org/mvsd/stores/ledger"
	"github.com/mvs-org/mvsd/ulogger"
	"github.com/mvs-org/mvsd/util/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBlockChain(t *testing.T) *BlockChain {
	t.Helper()

	tSettings := test.CreateBaseTestSettings(t.TempDir())
	logger := ulogger.NewVerboseTestLogger(t)

	b := New(logger, tSettings, ledger.New(logger, tSettings))
	require.NoError(t, b.Start(context.Background()))

	t.Cleanup(func() {
		_ = b.Stop()
	})

	return b
}

func TestBlockChain(t *testing.T) {
	ctx := context.Background()
	alice := test.NewKey(1)

	b := newTestBlockChain(t)
	genesis := b.settings.ChainCfgParams.GenesisBlock

	block, err := b.GetBlockByHeight(0)
	require.NoError(t, err)
	assert.Equal(t, genesis.Hash(), block.Hash())

	var forks []uint32

	b.SubscribeReorganize(func(err error, forkHeight uint32, newBlocks []*model.Block, replaced []*model.Block) bool {
		if err == nil {
			forks = append(forks, forkHeight)
		}

		return true
	})

	blocks := test.Chain(genesis, alice, b.settings.ChainCfgParams.Subsidy(1), 3)

	for i, block := range blocks {
		height, err := b.Store(ctx, block)
		require.NoError(t, err)
		assert.Equal(t, uint32(i+1), height)
	}

	assert.Equal(t, []uint32{0, 1, 2}, forks)

	top, err := b.GetTopHeight()
	require.NoError(t, err)
	assert.Equal(t, uint32(3), top)

	_, height, err := b.GetBlockByHash(blocks[1].Hash())
	require.NoError(t, err)
	assert.Equal(t, uint32(2), height)

	coinbase := blocks[0].Transactions[0]

	_, height, index, err := b.GetTransaction(coinbase.Hash())
	require.NoError(t, err)
	assert.Equal(t, uint32(1), height)
	assert.Equal(t, uint32(0), index)

	t.Run("validate transaction", func(t *testing.T) {
		spend := test.Spend(coinbase, 0, alice, test.Currency(coinbase.Outputs[0].Value-10000, test.NewKey(2).PayScript()))
		require.NoError(t, b.ValidateTransaction(ctx, spend))

		unknown := test.Spend(coinbase, 0, alice, test.Currency(1000, alice.PayScript()))
		unknown.Inputs[0].PreviousOutput = model.Point{Hash: chainhash.Hash{1}, Index: 0}

		err := b.ValidateTransaction(ctx, unknown)
		assert.True(t, errors.Is(err, errors.ErrInputNotFound), "got %v", err)
	})

	t.Run("orphans are held", func(t *testing.T) {
		orphan := test.Chain(blocks[2], alice, b.settings.ChainCfgParams.Subsidy(4), 2)[1]

		_, err := b.Store(ctx, orphan)
		assert.True(t, errors.Is(err, errors.ErrOrphanBlock))
		assert.True(t, b.Orphans().Exists(orphan.Hash()))
	})
}

func TestBlockChainStop(t *testing.T) {
	b := newTestBlockChain(t)

	var stopped error

	b.SubscribeReorganize(func(err error, _ uint32, _ []*model.Block, _ []*model.Block) bool {
		stopped = err
		return true
	})

	require.NoError(t, b.Stop())
	assert.True(t, errors.Is(stopped, errors.ErrServiceStopped))

	genesis := b.settings.ChainCfgParams.GenesisBlock
	next := test.Chain(genesis, test.NewKey(1), b.settings.ChainCfgParams.Subsidy(1), 1)[0]

	_, err := b.Store(context.Background(), next)
	assert.True(t, errors.Is(err, errors.ErrServiceStopped))

	require.NoError(t, b.Stop())
}

func TestBlockChainRestart(t *testing.T) {
	tSettings := test.CreateBaseTestSettings(t.TempDir())
	genesis := tSettings.ChainCfgParams.GenesisBlock
	next := test.Chain(genesis, test.NewKey(1), tSettings.ChainCfgParams.Subsidy(1), 1)[0]

	b := New(ulogger.TestLogger{}, tSettings, ledger.New(ulogger.TestLogger{}, tSettings))
	require.NoError(t, b.Start(context.Background()))

	_, err := b.Store(context.Background(), next)
	require.NoError(t, err)
	require.NoError(t, b.Stop())

	b = New(ulogger.TestLogger{}, tSettings, ledger.New(ulogger.TestLogger{}, tSettings))
	require.NoError(t, b.Start(context.Background()))

	defer func() {
		_ = b.Stop()
	}()

	top, err := b.GetTopHeight()
	require.NoError(t, err)
	assert.Equal(t, uint32(1), top)
}

func TestSubscribers(t *testing.T) {
	s := &subscribers{logger: ulogger.TestLogger{}}

	var calls []string

	s.subscribe(func(error, uint32, []*model.Block, []*model.Block) bool {
		calls = append(calls, "once")
		return false
	})
	s.subscribe(func(error, uint32, []*model.Block, []*model.Block) bool {
		calls = append(calls, "panics")
		panic("handler failure")
	})
	s.subscribe(func(error, uint32, []*model.Block, []*model.Block) bool {
		calls = append(calls, "always")
		return true
	})

	assert.True(t, s.notify(nil, 0, nil, nil))
	assert.Equal(t, []string{"once", "panics", "always"}, calls)
	assert.Equal(t, 1, s.size())

	s.notify(nil, 0, nil, nil)
	assert.Equal(t, []string{"once", "panics", "always", "always"}, calls)
}

func TestBlockChainHealth(t *testing.T) {
	ctx := context.Background()
	b := newTestBlockChain(t)

	status, _, err := b.Health(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)

	status, body, err := b.Health(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "top height 0")

	require.NoError(t, b.Stop())

	status, _, err = b.Health(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, status)
}
