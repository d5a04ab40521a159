package blockvalidation

import (
	"context"
	"time"

	"github.com/mvs-org/mvsd/errors"
	"github.com/mvs-org/mvsd/model"
	"github.com/mvs-org/mvsd/stores/chainview"
)

// ConnectBlock connects the inputs of every transaction. Transactions may
// spend outputs of earlier transactions in the same block.
func (bv *BlockValidator) ConnectBlock(ctx context.Context, block *model.Block, view chainview.View) error {
	defer observe(prometheusBlockValidationConnectBlock, time.Now())

	hash := block.Hash()
	height := view.Height() + 1

	if bv.params.EnforceBIP30 && !bv.params.IsBIP30Exception(hash, height) {
		if err := bv.checkDuplicateTransactions(block, view); err != nil {
			return err
		}
	}

	var (
		fees   uint64
		sigOps int
	)

	pending := chainview.NewPending(view)

	for i, tx := range block.Transactions {
		if err := ctx.Err(); err != nil {
			return errors.NewContextCanceledError("[ConnectBlock][%s] stopped at transaction %d", hash, i, err)
		}

		sigOps += tx.LegacySigOps()

		if !tx.IsCoinbase() {
			connected, err := bv.tx.CheckTransaction(tx, height, pending)
			if err != nil {
				return errors.NewTxRejectedErr(tx.Hash(), i, err)
			}

			sigOps += connected.SigOps

			if connected.Fee > bv.params.MaxMoney-fees {
				return errors.NewFeesOutOfRangeError("[ConnectBlock][%s] total fees exceed %d", hash, bv.params.MaxMoney)
			}

			fees += connected.Fee
		}

		if sigOps > bv.params.MaxBlockSigOps {
			return errors.NewBlockSigopLimitError("[ConnectBlock][%s] %d sigops exceed %d at transaction %d", hash, sigOps, bv.params.MaxBlockSigOps, i)
		}

		pending.Add(tx)
	}

	if err := bv.checkCoinageRewards(block); err != nil {
		return err
	}

	subsidy := bv.params.Subsidy(height)

	value, ok := block.Transactions[0].TotalOutputValue()
	if !ok || value > subsidy+fees {
		return errors.NewCoinbaseTooLargeError("[ConnectBlock][%s] coinbase pays %d, subsidy %d plus fees %d", hash, value, subsidy, fees)
	}

	return nil
}

// checkDuplicateTransactions rejects a transaction whose hash is already
// confirmed with an output left unspent.
func (bv *BlockValidator) checkDuplicateTransactions(block *model.Block, view chainview.View) error {
	for i, tx := range block.Transactions {
		txHash := tx.Hash()

		confirmed, _, err := view.GetTransaction(txHash)
		if errors.Is(err, errors.ErrTxNotFound) {
			continue
		}

		if err != nil {
			return err
		}

		for index := range confirmed.Outputs {
			spent, err := view.IsSpent(model.Point{Hash: txHash, Index: uint32(index)}, nil)
			if err != nil {
				return err
			}

			if !spent {
				return errors.NewTxRejectedErr(txHash, i,
					errors.NewDuplicateOrSpentError("[ConnectBlock][%s] transaction duplicates one with unspent output %d", block.Hash(), index))
			}
		}
	}

	return nil
}
