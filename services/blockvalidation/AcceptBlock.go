package blockvalidation

import (
	"context"
	"time"

	"github.com/mvs-org/mvsd/errors"
	"github.com/mvs-org/mvsd/model"
	"github.com/mvs-org/mvsd/script"
	"github.com/mvs-org/mvsd/stores/chainview"
	"github.com/mvs-org/mvsd/util"
)

// AcceptBlock runs the checks that depend on the height of the block.
func (bv *BlockValidator) AcceptBlock(ctx context.Context, block *model.Block, view chainview.View) error {
	defer observe(prometheusBlockValidationAcceptBlock, time.Now())

	hash := block.Hash()
	height := view.Height() + 1

	if block.Header.Number != height {
		return errors.NewBlockInvalidError("[AcceptBlock][%s] header number %d does not match height %d", hash, block.Header.Number, height)
	}

	for i, tx := range block.Transactions {
		if !tx.IsFinal(height, block.Header.Timestamp) {
			return errors.NewTxRejectedErr(tx.Hash(), i,
				errors.NewNonFinalTransactionError("[AcceptBlock][%s] transaction is not final at height %d", hash, height))
		}
	}

	if err := checkMedianTime(block, height, view); err != nil {
		return err
	}

	if checkpoint, ok := bv.params.Checkpoint(height); ok && !checkpoint.IsEqual(&hash) {
		return errors.NewCheckpointsFailedError("[AcceptBlock][%s] checkpoint at height %d is %s", hash, height, checkpoint)
	}

	if !bv.params.IsBlockVersionActive(block.Header.Version, height) {
		return errors.NewOldVersionBlockError("[AcceptBlock][%s] version %d is not valid at height %d", hash, block.Header.Version, height)
	}

	if height >= bv.params.BIP34Height && !coinbaseEncodesHeight(block.Transactions[0], height) {
		return errors.NewCoinbaseHeightMismatchError("[AcceptBlock][%s] coinbase does not start with height %d", hash, height)
	}

	return nil
}

// checkMedianTime requires the timestamp to be after the median of the
// previous util.MedianTimeBlocks timestamps.
func checkMedianTime(block *model.Block, height uint32, view chainview.View) error {
	if height <= 1 {
		return nil
	}

	timestamps := make([]uint32, 0, util.MedianTimeBlocks)

	for h := int64(height) - 1; h >= 0 && len(timestamps) < util.MedianTimeBlocks; h-- {
		header, err := view.GetHeader(uint32(h))
		if err != nil {
			return errors.NewBlockInvalidError("[AcceptBlock][%s] header at %d", block.Hash(), h, err)
		}

		timestamps = append(timestamps, header.Timestamp)
	}

	median, err := util.CalcPastMedianTime(timestamps)
	if err != nil {
		return err
	}

	if block.Header.Timestamp <= median {
		return errors.NewTimestampTooEarlyError("[AcceptBlock][%s] timestamp %d is not after median time %d", block.Hash(), block.Header.Timestamp, median)
	}

	return nil
}

// coinbaseEncodesHeight reports whether the coinbase script opens with a
// push of height.
func coinbaseEncodesHeight(coinbase *model.Tx, height uint32) bool {
	actual := coinbase.Inputs[0].Script
	if len(actual) == 0 {
		return false
	}

	expected := script.NewDataOperation(script.NumberBytes(int64(height)))

	return actual[0].Equal(expected)
}
