package blockvalidation

import (
	"github.com/mvs-org/mvsd/errors"
	"github.com/mvs-org/mvsd/model"
	"github.com/mvs-org/mvsd/script"
)

// deposit is a currency output locked for one of the reward lock heights.
type deposit struct {
	output     *model.Output
	lockHeight uint64
}

func (bv *BlockValidator) deposits(block *model.Block) []deposit {
	var found []deposit

	for _, tx := range block.Transactions {
		if tx.IsCoinbase() {
			continue
		}

		for _, out := range tx.Outputs {
			if !out.IsCurrency() {
				continue
			}

			lockHeight, ok := script.LockHeightFromPayKeyHashWithLockHeight(out.Script)
			if !ok || lockHeight < 0 || !bv.params.IsValidLockHeight(uint64(lockHeight)) {
				continue
			}

			found = append(found, deposit{output: out, lockHeight: uint64(lockHeight)})
		}
	}

	return found
}

// checkCoinageRewards pairs the coinbases following the first with the
// deposits of the block, in order. Each reward coinbase pays the coinage
// reward of its deposit back to the deposit script.
func (bv *BlockValidator) checkCoinageRewards(block *model.Block) error {
	hash := block.Hash()
	rewards := block.Transactions[1 : 1+rewardCount(block)]
	deposits := bv.deposits(block)

	if len(rewards) != len(deposits) {
		return errors.NewCoinageRewardMismatchError("[ConnectBlock][%s] %d reward coinbases for %d deposits", hash, len(rewards), len(deposits))
	}

	for i, d := range deposits {
		if err := bv.checkReward(rewards[i], d); err != nil {
			return errors.NewTxRejectedErr(rewards[i].Hash(), i+1, err)
		}
	}

	return nil
}

func (bv *BlockValidator) checkReward(reward *model.Tx, d deposit) error {
	award := reward.Outputs[0]

	awardHeight, err := award.AwardHeight()
	if err != nil {
		return errors.NewCoinageRewardMismatchError("reward coinbase does not pay an award", err)
	}

	if awardHeight != d.lockHeight {
		return errors.NewCoinageRewardMismatchError("award for lock height %d, deposit locked for %d", awardHeight, d.lockHeight)
	}

	if want := bv.params.CoinageReward(d.output.Value, d.lockHeight); award.Value != want {
		return errors.NewCoinageRewardMismatchError("award of %d, deposit of %d earns %d", award.Value, d.output.Value, want)
	}

	if !award.Script.Equal(d.output.Script) {
		return errors.NewCoinageRewardMismatchError("award pays %s, deposit locked to %s", award.Script, d.output.Script)
	}

	return nil
}
