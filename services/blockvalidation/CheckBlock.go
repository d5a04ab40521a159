package blockvalidation

import (
	"bytes"
	"context"
	"slices"
	"time"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/mvs-org/mvsd/errors"
	"github.com/mvs-org/mvsd/model"
	"github.com/mvs-org/mvsd/stores/chainview"
)

// CheckBlock runs the checks that need no chain state beyond the parent
// header and the heights of previous outputs.
func (bv *BlockValidator) CheckBlock(ctx context.Context, block *model.Block, view chainview.View) error {
	defer observe(prometheusBlockValidationCheckBlock, time.Now())

	hash := block.Hash()
	height := view.Height() + 1

	if len(block.Transactions) == 0 {
		return errors.NewEmptyBlockError("[CheckBlock][%s] block has no transactions", hash)
	}

	if size := block.SerializedSize(); size > bv.params.MaxBlockSize {
		return errors.NewBlockSizeLimitError("[CheckBlock][%s] block size %d exceeds %d", hash, size, bv.params.MaxBlockSize)
	}

	if err := checkCoinbases(block); err != nil {
		return errors.NewBlockInvalidError("[CheckBlock][%s] invalid coinbase placement", hash, err)
	}

	if err := bv.checkTimestamp(block, height, view); err != nil {
		return err
	}

	for i, tx := range block.Transactions {
		if err := ctx.Err(); err != nil {
			return errors.NewContextCanceledError("[CheckBlock][%s] stopped at transaction %d", hash, i, err)
		}

		if err := bv.tx.CheckTransactionBasic(tx, height, view); err != nil {
			return errors.NewTxRejectedErr(tx.Hash(), i, err)
		}
	}

	if err := bv.checkSymbolCollisions(block); err != nil {
		return err
	}

	if hasDuplicateTransactions(block) {
		return errors.NewInternalDuplicateError("[CheckBlock][%s] block holds a transaction twice", hash)
	}

	if sigOps := block.LegacySigOps(); sigOps > bv.params.MaxBlockSigOps {
		return errors.NewBlockLegacySigopLimitError("[CheckBlock][%s] %d sigops exceed %d", hash, sigOps, bv.params.MaxBlockSigOps)
	}

	if merkleRoot := block.CalculateMerkleRoot(); !merkleRoot.IsEqual(&block.Header.MerkleRoot) {
		return errors.NewMerkleMismatchError("[CheckBlock][%s] merkle root %s, header has %s", hash, merkleRoot, block.Header.MerkleRoot)
	}

	return nil
}

// checkCoinbases requires the block to open with a coinbase. Further
// coinbases are coinage rewards and may only follow it directly.
func checkCoinbases(block *model.Block) error {
	if !block.Transactions[0].IsCoinbase() {
		return errors.NewFirstNotCoinbaseError("first transaction is not a coinbase")
	}

	leading := rewardCount(block) + 1

	for i, tx := range block.Transactions[leading:] {
		if tx.IsCoinbase() {
			return errors.NewExtraCoinbasesError("coinbase at index %d", leading+i)
		}
	}

	return nil
}

// rewardCount returns the number of coinbases directly following the first.
func rewardCount(block *model.Block) int {
	count := 0

	for _, tx := range block.Transactions[1:] {
		if !tx.IsCoinbase() {
			break
		}

		count++
	}

	return count
}

func (bv *BlockValidator) checkTimestamp(block *model.Block, height uint32, view chainview.View) error {
	if height <= 1 {
		return nil
	}

	hash := block.Hash()
	timestamp := time.Unix(int64(block.Header.Timestamp), 0)

	if limit := bv.now().Add(bv.params.MaxFutureBlockTime); timestamp.After(limit) {
		return errors.NewFuturisticTimestampError("[CheckBlock][%s] timestamp %s is after %s", hash, timestamp.UTC(), limit.UTC())
	}

	parent, err := view.GetHeader(height - 1)
	if err != nil {
		return errors.NewBlockInvalidError("[CheckBlock][%s] parent header at %d", hash, height-1, err)
	}

	if block.Header.Timestamp < parent.Timestamp {
		return errors.NewTimestampTooEarlyError("[CheckBlock][%s] timestamp %d is before parent timestamp %d", hash, block.Header.Timestamp, parent.Timestamp)
	}

	return nil
}

type symbolKind uint8

const (
	symbolToken symbolKind = iota
	symbolCert
	symbolUID
	symbolCandidate
)

type symbolKey struct {
	kind symbolKind
	key  chainhash.Hash
}

// registration returns the registry key an output claims, if it claims one.
func registration(out *model.Output) (symbolKey, bool) {
	switch data := out.Attachment.Data.(type) {
	case *model.TokenDetail:
		if data.Status == model.TokenStatusIssue {
			return symbolKey{kind: symbolToken, key: model.SymbolHash(data.Symbol)}, true
		}
	case *model.TokenCert:
		if data.Status == model.CertStatusIssue || data.Status == model.CertStatusAutoIssue {
			return symbolKey{kind: symbolCert, key: model.CertKey(data.Symbol, data.CertType)}, true
		}
	case *model.UIDDetail:
		if data.Status == model.StatusRegister {
			return symbolKey{kind: symbolUID, key: model.SymbolHash(data.Symbol)}, true
		}
	case *model.CandidateInfo:
		if data.Status == model.StatusRegister {
			return symbolKey{kind: symbolCandidate, key: model.SymbolHash(data.Symbol)}, true
		}
	}

	return symbolKey{}, false
}

// checkSymbolCollisions rejects a block registering the same symbol twice.
// The transaction making the second claim is evicted from the pool.
func (bv *BlockValidator) checkSymbolCollisions(block *model.Block) error {
	claimed := make(map[symbolKey]struct{})

	for i, tx := range block.Transactions {
		for _, out := range tx.Outputs {
			key, ok := registration(out)
			if !ok {
				continue
			}

			if _, found := claimed[key]; found {
				txHash := tx.Hash()
				bv.evict(txHash)

				return errors.NewTxRejectedErr(txHash, i,
					errors.NewInternalDuplicateError("[CheckBlock][%s] %s symbol registered twice", block.Hash(), out.Kind()))
			}

			claimed[key] = struct{}{}
		}
	}

	return nil
}

func hasDuplicateTransactions(block *model.Block) bool {
	hashes := block.TxHashes()

	slices.SortFunc(hashes, func(a, b chainhash.Hash) int {
		return bytes.Compare(a[:], b[:])
	})

	return len(slices.Compact(hashes)) != len(block.Transactions)
}
