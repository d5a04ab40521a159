// Package blockvalidation implements the block consensus rules.
//
// A block is checked in three stages, each against a chainview.View whose
// tip is the parent of the block:
//
//   - CheckBlock runs the context free checks: structure, size, timestamps,
//     per transaction basic checks, duplicate symbols and the merkle root.
//   - AcceptBlock runs the checks that depend on the height: finality,
//     checkpoints, block version and the height encoded in the coinbase.
//   - ConnectBlock connects every input, enforces the sigop and subsidy
//     limits and correlates coinage reward coinbases with deposits.
//
// The organizer validates candidate branches through an overlay view so the
// same code serves blocks extending the committed chain and blocks of a fork.
package blockvalidation

import (
	"context"
	"time"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/mvs-org/mvsd/chaincfg"
	"github.com/mvs-org/mvsd/errors"
	"github.com/mvs-org/mvsd/model"
	"github.com/mvs-org/mvsd/services/validator"
	"github.com/mvs-org/mvsd/settings"
	"github.com/mvs-org/mvsd/stores/chainview"
	"github.com/mvs-org/mvsd/ulogger"
	"github.com/prometheus/client_golang/prometheus"
)

// TxEvicter removes a transaction from the pool when a block shows it can
// never confirm.
type TxEvicter interface {
	Delete(hash chainhash.Hash)
}

// BlockValidator validates blocks against a chain view.
type BlockValidator struct {
	logger   ulogger.Logger
	settings *settings.Settings
	params   *chaincfg.Params
	tx       *validator.TxValidator
	evicter  TxEvicter

	// now is the wall clock used for the future timestamp window
	now func() time.Time
}

// New returns a BlockValidator. A nil evicter disables pool eviction.
func New(logger ulogger.Logger, tSettings *settings.Settings, evicter TxEvicter) *BlockValidator {
	initPrometheusMetrics()

	return &BlockValidator{
		logger:   logger,
		settings: tSettings,
		params:   tSettings.ChainCfgParams,
		tx:       validator.NewTxValidator(logger, tSettings),
		evicter:  evicter,
		now:      time.Now,
	}
}

// SetEvicter replaces the pool evicter. It must be called before the
// validator is used concurrently.
func (bv *BlockValidator) SetEvicter(evicter TxEvicter) {
	bv.evicter = evicter
}

// Validate runs CheckBlock, AcceptBlock and ConnectBlock in order.
func (bv *BlockValidator) Validate(ctx context.Context, block *model.Block, view chainview.View) (err error) {
	hash := block.Hash()

	defer func() {
		if err != nil {
			prometheusBlockValidationRejected.WithLabelValues(errors.CodeOf(err).String()).Inc()
			bv.logger.Warnf("[BlockValidator][%s] block at height %d rejected: %v", hash, view.Height()+1, err)
		}
	}()

	if err = bv.CheckBlock(ctx, block, view); err != nil {
		return err
	}

	if err = bv.AcceptBlock(ctx, block, view); err != nil {
		return err
	}

	return bv.ConnectBlock(ctx, block, view)
}

func (bv *BlockValidator) evict(hash chainhash.Hash) {
	if bv.evicter == nil {
		return
	}

	bv.logger.Infof("[BlockValidator] evicting %s from the pool", hash)
	bv.evicter.Delete(hash)
}

func observe(histogram prometheus.Observer, start time.Time) {
	histogram.Observe(float64(time.Since(start).Microseconds()) / 1_000_000)
}
