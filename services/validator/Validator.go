package validator

import (
	"context"
	"time"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/mvs-org/mvsd/errors"
	"github.com/mvs-org/mvsd/model"
	"github.com/mvs-org/mvsd/settings"
	"github.com/mvs-org/mvsd/stores/chainview"
	"github.com/mvs-org/mvsd/ulogger"
)

// Pool is the view of the transaction pool the pool mode pipeline needs.
// Implementations must be safe for concurrent use.
type Pool interface {
	Exists(hash chainhash.Hash) bool
	IsSpentInPool(point model.Point) bool
	// Transactions returns the pooled transactions, oldest first.
	Transactions() []*model.Tx
}

// ChainState provides a consistent view of the committed chain.
type ChainState interface {
	View() (chainview.View, error)
}

// Validator runs the staged pool mode pipeline for standalone transactions.
type Validator struct {
	logger ulogger.Logger
	tx     *TxValidator
	chain  ChainState
	pool   Pool
}

// New returns a Validator checking against chain and pool. A nil pool is
// treated as empty.
func New(logger ulogger.Logger, tSettings *settings.Settings, chain ChainState, pool Pool) *Validator {
	if pool == nil {
		pool = emptyPool{}
	}

	return &Validator{
		logger: logger,
		tx:     NewTxValidator(logger, tSettings),
		chain:  chain,
		pool:   pool,
	}
}

// Validate checks tx for admission to the pool as if it were confirmed in
// the next block. Inputs are connected strictly in order and the first
// failure ends validation. On success it returns the indexes of the inputs
// whose previous transaction is still unconfirmed in the pool.
func (v *Validator) Validate(ctx context.Context, tx *model.Tx) (unconfirmed []uint32, err error) {
	start := time.Now()
	hash := tx.Hash()

	defer func() {
		prometheusTransactionValidate.Observe(float64(time.Since(start).Microseconds()) / 1_000_000)

		if err != nil {
			prometheusTransactionsRejected.WithLabelValues(errors.CodeOf(err).String()).Inc()
			v.logger.Debugf("[Validator][%s] rejected: %v", hash, err)

			return
		}

		prometheusTransactionsValidated.Inc()
		prometheusTransactionSize.Observe(float64(tx.SerializedSize()))
	}()

	base, err := v.chain.View()
	if err != nil {
		return nil, err
	}

	view := newPoolView(base, v.pool)
	height := view.Height() + 1

	if err = v.tx.CheckTransactionBasic(tx, height, view); err != nil {
		return nil, err
	}

	if tx.IsCoinbase() {
		return nil, errors.NewTxInvalidError("coinbase transaction %s outside a block", hash)
	}

	if v.pool.Exists(hash) {
		return nil, errors.NewTxDuplicateError("transaction %s is already in the pool", hash)
	}

	if _, _, err = base.GetTransaction(hash); err == nil {
		return nil, errors.NewTxDuplicateError("transaction %s is already confirmed", hash)
	} else if !errors.Is(err, errors.ErrTxNotFound) {
		return nil, err
	}

	for i, in := range tx.Inputs {
		if v.pool.IsSpentInPool(in.PreviousOutput) {
			return nil, errors.NewPoolDoubleSpendError("input %d spends %s which a pool transaction spends", i, in.PreviousOutput)
		}
	}

	inputs := make([]*ConnectedInput, 0, len(tx.Inputs))

	var (
		connected  *ConnectedInput
		inputValue uint64
	)

	for i, in := range tx.Inputs {
		if err = ctx.Err(); err != nil {
			return nil, errors.NewContextCanceledError("validation of %s stopped at input %d", hash, i, err)
		}

		connected, err = v.tx.ConnectInput(tx, i, height, view)
		if err != nil {
			var vErr *errors.Error
			if errors.As(err, &vErr) {
				vErr.SetData("input", i)
			}

			return nil, err
		}

		if connected.Output.Value > v.tx.params.MaxMoney-inputValue {
			return nil, errors.NewSpendOverflowError("inputs spend more than %d", v.tx.params.MaxMoney)
		}

		inputValue += connected.Output.Value
		inputs = append(inputs, connected)

		if view.fromPool(in.PreviousOutput.Hash) {
			unconfirmed = append(unconfirmed, uint32(i))
		}
	}

	if _, err = v.tx.TallyFees(tx, inputValue, 0); err != nil {
		return nil, err
	}

	if err = v.tx.CheckPayloads(tx, height, view, inputs); err != nil {
		return nil, err
	}

	return unconfirmed, nil
}

// poolView layers every pooled transaction over the committed chain, so
// pooled outputs and registrations appear confirmed at the next height.
type poolView struct {
	chainview.View
	top    uint32
	pooled map[chainhash.Hash]struct{}
}

func newPoolView(base chainview.View, pool Pool) *poolView {
	pending := chainview.NewPending(base)

	for _, tx := range pool.Transactions() {
		pending.Add(tx)
	}

	return &poolView{
		View:   pending,
		top:    base.Height(),
		pooled: make(map[chainhash.Hash]struct{}),
	}
}

func (p *poolView) GetTransaction(hash chainhash.Hash) (*model.Tx, uint32, error) {
	tx, height, err := p.View.GetTransaction(hash)
	if err == nil && height > p.top {
		p.pooled[hash] = struct{}{}
	}

	return tx, height, err
}

func (p *poolView) GetOutput(point model.Point) (*model.Output, uint32, bool, error) {
	out, height, coinbase, err := p.View.GetOutput(point)
	if err == nil && height > p.top {
		p.pooled[point.Hash] = struct{}{}
	}

	return out, height, coinbase, err
}

func (p *poolView) fromPool(hash chainhash.Hash) bool {
	_, ok := p.pooled[hash]
	return ok
}

type emptyPool struct{}

func (emptyPool) Exists(chainhash.Hash) bool     { return false }
func (emptyPool) IsSpentInPool(model.Point) bool { return false }
func (emptyPool) Transactions() []*model.Tx      { return nil }
