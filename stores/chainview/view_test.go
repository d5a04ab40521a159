package chainview

import (
	"testing"

	"github.com/mvs-org/mvsd/errors"
	"github.com/mvs-org/mvsd/model"
	"github.com/mvs-org/mvsd/stores/ledger"
	"github.com/mvs-org/mvsd/ulogger"
	"github.com/mvs-org/mvsd/util/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSubsidy = 300000000

type fixture struct {
	store   *ledger.Ledger
	genesis *model.Block
	alice   *test.Key
	bob     *test.Key
	issue   *model.Tx
	block1  *model.Block
}

// newFixture creates a ledger holding genesis and builds, without pushing,
// a block registering uid "alice" and issuing token ABC.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	alice := test.NewKey(1)
	bob := test.NewKey(2)
	genesis := test.Genesis(alice, testSubsidy)

	store := ledger.New(ulogger.TestLogger{}, test.CreateBaseTestSettings(t.TempDir()))
	require.NoError(t, store.Create(genesis))

	t.Cleanup(func() {
		_ = store.Close()
	})

	address := alice.RegtestAddress()

	issue := test.Spend(genesis.Transactions[0], 0, alice,
		test.Asset(0, alice.PayScript(), &model.UIDDetail{Status: model.StatusRegister, Symbol: "alice", Address: address}),
		test.Asset(0, alice.PayScript(), &model.TokenDetail{
			Status:                  model.TokenStatusIssue,
			Symbol:                  "ABC",
			MaximumSupply:           1000,
			SecondaryIssueThreshold: model.FreelyThreshold,
			Issuer:                  "alice",
			Address:                 address,
		}),
		test.Currency(testSubsidy-10000, alice.PayScript()),
	)

	block1 := test.NextBlock(genesis, test.Coinbase(1, test.Currency(testSubsidy, alice.PayScript())), issue)

	return &fixture{store: store, genesis: genesis, alice: alice, bob: bob, issue: issue, block1: block1}
}

// transferBlock moves uid alice to bob and issues 500 more ABC on top of prev.
func (f *fixture) transferBlock(prev *model.Block) *model.Block {
	transfer := test.SpendVersion(model.TxVersionFirst,
		[]*model.Tx{f.issue, f.issue},
		[]uint32{0, 2},
		[]*test.Key{f.alice, f.alice},
		test.Asset(0, f.bob.PayScript(), &model.UIDDetail{Status: model.StatusTransfer, Symbol: "alice", Address: f.bob.RegtestAddress()}),
		test.Asset(0, f.alice.PayScript(), &model.TokenDetail{
			Status:                  model.TokenStatusSecondaryIssue,
			Symbol:                  "ABC",
			MaximumSupply:           500,
			SecondaryIssueThreshold: model.FreelyThreshold,
			Issuer:                  "alice",
			Address:                 f.alice.RegtestAddress(),
		}),
		test.Currency(testSubsidy-20000, f.bob.PayScript()),
	)

	height := prev.Header.Number + 1

	return test.NextBlock(prev, test.Coinbase(height, test.Currency(testSubsidy, f.bob.PayScript())), transfer)
}

func TestDurableIgnoresRowsAboveHeight(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Push(f.block1, 1))

	genesisOut := model.Point{Hash: f.genesis.Transactions[0].Hash(), Index: 0}

	t.Run("at fork", func(t *testing.T) {
		view := Durable(f.store, 0)
		assert.Equal(t, uint32(0), view.Height())

		_, _, err := view.GetTransaction(f.issue.Hash())
		assert.True(t, errors.Is(err, errors.ErrTxNotFound))

		spent, err := view.IsSpent(genesisOut, nil)
		require.NoError(t, err)
		assert.False(t, spent)

		ok, err := view.TokenExists("ABC")
		require.NoError(t, err)
		assert.False(t, ok)

		_, err = view.GetHeader(1)
		assert.True(t, errors.Is(err, errors.ErrBlockNotFound))
	})

	t.Run("at top", func(t *testing.T) {
		view := Durable(f.store, 1)

		_, height, err := view.GetTransaction(f.issue.Hash())
		require.NoError(t, err)
		assert.Equal(t, uint32(1), height)

		out, height, coinbase, err := view.GetOutput(genesisOut)
		require.NoError(t, err)
		assert.Equal(t, uint64(testSubsidy), out.Value)
		assert.Equal(t, uint32(0), height)
		assert.True(t, coinbase)

		spent, err := view.IsSpent(genesisOut, nil)
		require.NoError(t, err)
		assert.True(t, spent)

		self := model.InputPoint{Hash: f.issue.Hash(), Index: 0}
		spent, err = view.IsSpent(genesisOut, &self)
		require.NoError(t, err)
		assert.False(t, spent)

		ok, err := view.UIDExists("alice")
		require.NoError(t, err)
		assert.True(t, ok)

		record, err := view.GetUIDByAddress(f.alice.RegtestAddress())
		require.NoError(t, err)
		assert.Equal(t, "alice", record.Detail.Symbol)
	})
}

func TestOverlayResolvesBranch(t *testing.T) {
	f := newFixture(t)
	block2 := f.transferBlock(f.block1)

	view := Overlay(f.store, 0, []*model.Block{f.block1, block2})
	assert.Equal(t, uint32(2), view.Height())

	header, err := view.GetHeader(2)
	require.NoError(t, err)
	assert.Equal(t, block2.Header.Hash(), header.Hash())

	header, err = view.GetHeader(0)
	require.NoError(t, err)
	assert.Equal(t, f.genesis.Header.Hash(), header.Hash())

	_, err = view.GetHeader(3)
	assert.True(t, errors.Is(err, errors.ErrBlockNotFound))

	_, height, err := view.GetTransaction(f.issue.Hash())
	require.NoError(t, err)
	assert.Equal(t, uint32(1), height)

	_, _, _, err = view.GetOutput(model.Point{Hash: f.issue.Hash(), Index: 9})
	assert.True(t, errors.Is(err, errors.ErrInputNotFound))

	genesisOut := model.Point{Hash: f.genesis.Transactions[0].Hash(), Index: 0}
	self := model.InputPoint{Hash: f.issue.Hash(), Index: 0}

	spent, err := view.IsSpent(genesisOut, &self)
	require.NoError(t, err)
	assert.False(t, spent)

	spent, err = view.IsSpent(genesisOut, nil)
	require.NoError(t, err)
	assert.True(t, spent)

	token, err := view.GetToken("ABC")
	require.NoError(t, err)
	assert.Equal(t, uint64(1500), token.Detail.MaximumSupply)
	assert.Equal(t, uint32(2), token.Height)

	_, err = view.GetUIDByAddress(f.alice.RegtestAddress())
	assert.True(t, errors.Is(err, errors.ErrUIDNotExists))

	record, err := view.GetUIDByAddress(f.bob.RegtestAddress())
	require.NoError(t, err)
	assert.Equal(t, "alice", record.Detail.Symbol)

	ok, err := view.CandidateExists("NODE1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOverlayOnCommittedFork(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Push(f.block1, 1))

	block2 := f.transferBlock(f.block1)
	require.NoError(t, f.store.Push(block2, 2))

	// a competing branch from height 1 that leaves alice untouched
	alt := test.Chain(f.block1, f.bob, testSubsidy, 2)
	view := Overlay(f.store, 1, alt)

	record, err := view.GetUIDByAddress(f.alice.RegtestAddress())
	require.NoError(t, err)
	assert.Equal(t, "alice", record.Detail.Symbol)

	token, err := view.GetToken("ABC")
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), token.Detail.MaximumSupply)

	transferOut := model.Point{Hash: f.issue.Hash(), Index: 0}
	spent, err := view.IsSpent(transferOut, nil)
	require.NoError(t, err)
	assert.False(t, spent)

	_, _, err = view.GetTransaction(block2.Transactions[1].Hash())
	assert.True(t, errors.Is(err, errors.ErrTxNotFound))

	header, err := view.GetHeader(2)
	require.NoError(t, err)
	assert.Equal(t, alt[0].Header.Hash(), header.Hash())
}

func TestPendingLayersTransactions(t *testing.T) {
	f := newFixture(t)

	base := Durable(f.store, 0)
	pending := NewPending(base)

	ok, err := pending.UIDExists("alice")
	require.NoError(t, err)
	assert.False(t, ok)

	pending.Add(f.issue)
	assert.Equal(t, uint32(0), pending.Height())

	out, height, coinbase, err := pending.GetOutput(model.Point{Hash: f.issue.Hash(), Index: 2})
	require.NoError(t, err)
	assert.Equal(t, uint64(testSubsidy-10000), out.Value)
	assert.Equal(t, uint32(1), height)
	assert.False(t, coinbase)

	ok, err = pending.UIDExists("alice")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = pending.TokenExists("ABC")
	require.NoError(t, err)
	assert.True(t, ok)

	spent, err := pending.IsSpent(model.Point{Hash: f.genesis.Transactions[0].Hash(), Index: 0}, nil)
	require.NoError(t, err)
	assert.True(t, spent)

	// the base is untouched
	ok, err = base.UIDExists("alice")
	require.NoError(t, err)
	assert.False(t, ok)
}
