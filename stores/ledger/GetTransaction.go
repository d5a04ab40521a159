package ledger

import (
	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/mvs-org/mvsd/errors"
	"github.com/mvs-org/mvsd/model"
)

// GetTransaction returns a confirmed transaction with the height and
// position of its block.
func (l *Ledger) GetTransaction(hash chainhash.Hash) (*model.Tx, uint32, uint32, error) {
	row, err := readRetry(l, func() (*txRow, error) {
		return l.txRow(hash)
	})
	if err != nil {
		return nil, 0, 0, err
	}

	return row.Tx, row.Height, row.Index, nil
}

func (l *Ledger) txRow(hash chainhash.Hash) (*txRow, error) {
	if err := l.checkStarted(); err != nil {
		return nil, err
	}

	value, err := l.table(transactionTable).get(hash[:])
	if err != nil {
		return nil, err
	}

	if value == nil {
		return nil, errors.NewTxNotFoundError("transaction %s not found", hash)
	}

	return decodeTxRow(value)
}

// GetOutput returns a confirmed output with the height of its block and
// whether its transaction is a coinbase.
func (l *Ledger) GetOutput(point model.Point) (*model.Output, uint32, bool, error) {
	tx, height, _, err := l.GetTransaction(point.Hash)
	if err != nil {
		return nil, 0, false, err
	}

	if int(point.Index) >= len(tx.Outputs) {
		return nil, 0, false, errors.NewTxNotFoundError("transaction %s has no output %d", point.Hash, point.Index)
	}

	return tx.Outputs[point.Index], height, tx.IsCoinbase(), nil
}
