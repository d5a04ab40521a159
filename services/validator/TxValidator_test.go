package validator

import (
	"testing"

	"github.com/mvs-org/mvsd/errors"
	"github.com/mvs-org/mvsd/model"
	"github.com/mvs-org/mvsd/script"
	"github.com/mvs-org/mvsd/settings"
	"github.com/mvs-org/mvsd/stores/chainview"
	"github.com/mvs-org/mvsd/stores/ledger"
	"github.com/mvs-org/mvsd/ulogger"
	"github.com/mvs-org/mvsd/util/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSubsidy = 300000000

// testChain is a ledger holding genesis plus two empty blocks, so the
// genesis coinbase is mature for the next block.
type testChain struct {
	t        *testing.T
	settings *settings.Settings
	store    *ledger.Ledger
	genesis  *model.Block
	tip      *model.Block
	alice    *test.Key
	bob      *test.Key
}

func newTestChain(t *testing.T) *testChain {
	t.Helper()

	alice := test.NewKey(1)
	tSettings := test.CreateBaseTestSettings(t.TempDir())
	genesis := test.Genesis(alice, testSubsidy)

	store := ledger.New(ulogger.TestLogger{}, tSettings)
	require.NoError(t, store.Create(genesis))

	t.Cleanup(func() {
		_ = store.Close()
	})

	c := &testChain{
		t:        t,
		settings: tSettings,
		store:    store,
		genesis:  genesis,
		tip:      genesis,
		alice:    alice,
		bob:      test.NewKey(2),
	}

	for _, block := range test.Chain(genesis, alice, testSubsidy, 2) {
		require.NoError(t, store.Push(block, block.Header.Number))
		c.tip = block
	}

	return c
}

// push confirms txs in a new block whose coinbase pays alice.
func (c *testChain) push(txs ...*model.Tx) *model.Block {
	c.t.Helper()

	height := c.tip.Header.Number + 1
	coinbase := test.Coinbase(height, test.Currency(testSubsidy, c.alice.PayScript()))

	block := test.NextBlock(c.tip, append([]*model.Tx{coinbase}, txs...)...)
	require.NoError(c.t, c.store.Push(block, height))

	c.tip = block

	return block
}

func (c *testChain) View() (chainview.View, error) {
	height, err := c.store.GetTopHeight()
	if err != nil {
		return nil, err
	}

	return chainview.Durable(c.store, height), nil
}

func (c *testChain) view() chainview.View {
	view, err := c.View()
	require.NoError(c.t, err)

	return view
}

func (c *testChain) genesisCoinbase() *model.Tx {
	return c.genesis.Transactions[0]
}

func (c *testChain) coinbaseAt(height uint32) *model.Tx {
	c.t.Helper()

	block, err := c.store.GetBlockByHeight(height)
	require.NoError(c.t, err)

	return block.Transactions[0]
}

func (c *testChain) validator() *TxValidator {
	return NewTxValidator(ulogger.TestLogger{}, c.settings)
}

func unsignedTx(version uint32, points []model.Point, outputs ...*model.Output) *model.Tx {
	tx := &model.Tx{Version: version, Outputs: outputs}

	for _, point := range points {
		tx.Inputs = append(tx.Inputs, &model.Input{PreviousOutput: point, Sequence: model.MaxInputSequence})
	}

	return tx
}

func TestCheckTransactionBasicSelfDoubleSpend(t *testing.T) {
	tv := NewTxValidator(ulogger.TestLogger{}, test.CreateBaseTestSettings(t.TempDir()))
	alice := test.NewKey(1)
	point := model.Point{Hash: test.Genesis(alice, testSubsidy).Transactions[0].Hash(), Index: 0}

	tx := unsignedTx(model.TxVersionFirst, []model.Point{point, point}, test.Currency(1000, alice.PayScript()))

	// a nil view panics if the check reaches the store
	err := tv.CheckTransactionBasic(tx, 3, nil)
	assert.True(t, errors.Is(err, errors.ErrTxDoubleSpend))
}

func TestCheckTransactionBasic(t *testing.T) {
	tSettings := test.CreateBaseTestSettings(t.TempDir())
	tv := NewTxValidator(ulogger.TestLogger{}, tSettings)
	alice := test.NewKey(1)
	maxMoney := tSettings.ChainCfgParams.MaxMoney

	prev := model.Point{Hash: test.Genesis(alice, testSubsidy).Transactions[0].Hash(), Index: 0}
	other := model.Point{Hash: prev.Hash, Index: 1}
	pay := test.Currency(1000, alice.PayScript())

	tokenIssue := func(symbol string) *model.Output {
		return test.Asset(0, alice.PayScript(), &model.TokenDetail{
			Status:                  model.TokenStatusIssue,
			Symbol:                  symbol,
			MaximumSupply:           1000,
			SecondaryIssueThreshold: model.FreelyThreshold,
			Issuer:                  "alice",
			Address:                 alice.RegtestAddress(),
		})
	}

	shortCoinbase := test.Coinbase(3, pay)
	shortCoinbase.Inputs[0].Script = script.Script{}

	tests := []struct {
		name string
		tx   *model.Tx
		err  error
	}{
		{"valid spend", unsignedTx(model.TxVersionFirst, []model.Point{prev}, pay), nil},
		{"valid coinbase", test.Coinbase(3, pay), nil},
		{"version above max", unsignedTx(model.TxVersionMax, []model.Point{prev}, pay), errors.ErrTxVersion},
		{"testnet version", unsignedTx(model.TxVersionTestnet, []model.Point{prev}, pay), nil},
		{"no outputs", unsignedTx(model.TxVersionFirst, []model.Point{prev}), errors.ErrEmptyTransaction},
		{"no inputs", unsignedTx(model.TxVersionFirst, nil, pay), errors.ErrEmptyTransaction},
		{
			"outputs above max money",
			unsignedTx(model.TxVersionFirst, []model.Point{prev}, test.Currency(maxMoney, alice.PayScript()), test.Currency(1, alice.PayScript())),
			errors.ErrOutputValueOverflow,
		},
		{
			"non standard output script",
			unsignedTx(model.TxVersionCheckOutputScript, []model.Point{prev}, test.Currency(1, script.Script{{Code: script.OpNOP}})),
			errors.ErrScriptNotStandard,
		},
		{
			"invalid attachment",
			unsignedTx(model.TxVersionFirst, []model.Point{prev}, test.Asset(0, alice.PayScript(), &model.UIDDetail{Status: model.StatusRegister, Symbol: "alice"})),
			errors.ErrAttachmentInvalid,
		},
		{"upper case token symbol", unsignedTx(model.TxVersionCheckNovaFeature, []model.Point{prev}, tokenIssue("ABC")), nil},
		{"lower case token symbol", unsignedTx(model.TxVersionCheckNovaFeature, []model.Point{prev}, tokenIssue("abc")), errors.ErrSymbolInvalid},
		{"lower case token symbol before nova", unsignedTx(model.TxVersionFirst, []model.Point{prev}, tokenIssue("abc")), nil},
		{"coinbase script too short", shortCoinbase, errors.ErrInvalidCoinbaseScriptSize},
		{"null previous output", unsignedTx(model.TxVersionFirst, []model.Point{other, model.NullPoint}, pay), errors.ErrPreviousOutputNull},
	}

	t.Run("testnet version without testnet rules", func(t *testing.T) {
		mainSettings := test.CreateBaseTestSettings(t.TempDir())
		mainSettings.Validator.UseTestnetRules = false

		tx := unsignedTx(model.TxVersionTestnet, []model.Point{prev}, pay)

		err := NewTxValidator(ulogger.TestLogger{}, mainSettings).CheckTransactionBasic(tx, 3, nil)
		assert.True(t, errors.Is(err, errors.ErrTxVersion))
	})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tv.CheckTransactionBasic(tt.tx, 3, nil)
			if tt.err == nil {
				require.NoError(t, err)
				return
			}

			assert.True(t, errors.Is(err, tt.err), "got %v", err)
		})
	}
}

func TestCheckTransactionBasicInputLockHeight(t *testing.T) {
	c := newTestChain(t)
	tv := c.validator()

	deposit := test.Spend(c.genesisCoinbase(), 0, c.alice,
		test.Currency(testSubsidy-10000, script.ToPayKeyHashWithLockHeight(c.alice.Hash(), 2)),
	)
	c.push(deposit)

	unlock := test.Spend(deposit, 0, c.alice, test.Currency(testSubsidy-20000, c.alice.PayScript()))

	// confirmed at 3, so two blocks must pass
	err := tv.CheckTransactionBasic(unlock, 4, c.view())
	assert.True(t, errors.Is(err, errors.ErrInputLockHeight))

	require.NoError(t, tv.CheckTransactionBasic(unlock, 5, c.view()))
}

func TestConnectInput(t *testing.T) {
	c := newTestChain(t)
	tv := c.validator()
	view := c.view()

	t.Run("mature coinbase", func(t *testing.T) {
		tx := test.Spend(c.genesisCoinbase(), 0, c.alice, test.Currency(testSubsidy-10000, c.bob.PayScript()))

		connected, err := tv.ConnectInput(tx, 0, 3, view)
		require.NoError(t, err)
		assert.Equal(t, uint32(0), connected.Height)
		assert.True(t, connected.Coinbase)
		assert.Equal(t, uint64(testSubsidy), connected.Output.Value)
	})

	t.Run("immature coinbase", func(t *testing.T) {
		tx := test.Spend(c.tip.Transactions[0], 0, c.alice, test.Currency(testSubsidy-10000, c.bob.PayScript()))

		_, err := tv.ConnectInput(tx, 0, 3, view)
		assert.True(t, errors.Is(err, errors.ErrCoinbaseMaturity))
	})

	t.Run("unknown parent", func(t *testing.T) {
		orphan := test.Spend(c.genesisCoinbase(), 0, c.alice, test.Currency(1000, c.alice.PayScript()))
		tx := test.Spend(orphan, 0, c.alice, test.Currency(500, c.alice.PayScript()))

		_, err := tv.ConnectInput(tx, 0, 3, view)
		assert.True(t, errors.Is(err, errors.ErrInputNotFound))
	})

	t.Run("wrong key", func(t *testing.T) {
		tx := test.Spend(c.genesisCoinbase(), 0, c.bob, test.Currency(testSubsidy-10000, c.bob.PayScript()))

		_, err := tv.ConnectInput(tx, 0, 3, view)
		assert.True(t, errors.Is(err, errors.ErrValidateInputsFailed))
	})

	t.Run("spent in chain", func(t *testing.T) {
		c := newTestChain(t)
		c.push(test.Spend(c.genesisCoinbase(), 0, c.alice, test.Currency(testSubsidy-10000, c.alice.PayScript())))

		tx := test.Spend(c.genesisCoinbase(), 0, c.alice, test.Currency(testSubsidy-20000, c.bob.PayScript()))

		_, err := c.validator().ConnectInput(tx, 0, 4, c.view())
		assert.True(t, errors.Is(err, errors.ErrTxDoubleSpend))
	})
}

func TestCheckTransaction(t *testing.T) {
	c := newTestChain(t)
	tv := c.validator()

	tx := test.Spend(c.genesisCoinbase(), 0, c.alice,
		test.Currency(1000, c.bob.PayScript()),
		test.Currency(testSubsidy-51000, c.alice.PayScript()),
	)

	connected, err := tv.CheckTransaction(tx, 3, c.view())
	require.NoError(t, err)
	assert.Equal(t, uint64(testSubsidy), connected.InputValue)
	assert.Equal(t, uint64(50000), connected.Fee)
	require.Len(t, connected.Inputs, 1)

	connected, err = tv.CheckTransaction(test.Coinbase(3, test.Currency(testSubsidy, c.alice.PayScript())), 3, c.view())
	require.NoError(t, err)
	assert.Empty(t, connected.Inputs)
}

func TestTallyFees(t *testing.T) {
	tSettings := test.CreateBaseTestSettings(t.TempDir())
	tv := NewTxValidator(ulogger.TestLogger{}, tSettings)
	alice := test.NewKey(1)
	minFee := tSettings.ChainCfgParams.MinTxFee
	maxMoney := tSettings.ChainCfgParams.MaxMoney

	spend := unsignedTx(model.TxVersionFirst, []model.Point{{Index: 0}}, test.Currency(100000, alice.PayScript()))

	tests := []struct {
		name       string
		tx         *model.Tx
		inputValue uint64
		totalFees  uint64
		want       uint64
		err        error
	}{
		{"coinbase exempt", test.Coinbase(3, test.Currency(testSubsidy, alice.PayScript())), 0, 7, 7, nil},
		{"minimum fee", spend, 100000 + minFee, 5, 5 + minFee, nil},
		{"fee below minimum", spend, 100000 + minFee - 1, 0, 0, errors.ErrFeesOutOfRange},
		{"outputs above inputs", spend, 99999, 0, 0, errors.ErrValidateInputsFailed},
		{"total above max money", spend, 100000 + minFee, maxMoney, 0, errors.ErrFeesOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fees, err := tv.TallyFees(tt.tx, tt.inputValue, tt.totalFees)
			if tt.err != nil {
				assert.True(t, errors.Is(err, tt.err), "got %v", err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, fees)
		})
	}
}
