package errors

import (
	"encoding/json"
	"fmt"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
)

// TxRejectedErrData identifies the transaction that caused a block to be rejected.
type TxRejectedErrData struct {
	TxHash chainhash.Hash
	Index  int
}

func (e *TxRejectedErrData) Error() string {
	return fmt.Sprintf("tx %s at index %d rejected", e.TxHash, e.Index)
}

func (e *TxRejectedErrData) EncodeErrorData() []byte {
	data, err := json.Marshal(e)
	if err != nil {
		return []byte{}
	}

	return data
}

func (e *TxRejectedErrData) GetData(key string) interface{} {
	switch key {
	case "tx_hash":
		return e.TxHash
	case "index":
		return e.Index
	default:
		return nil
	}
}

func (e *TxRejectedErrData) SetData(string, interface{}) {}

// NewTxRejectedErr wraps the cause of a block rejection with the offending
// transaction. The returned error keeps the code of the cause.
func NewTxRejectedErr(txHash chainhash.Hash, index int, cause error) error {
	data := &TxRejectedErrData{
		TxHash: txHash,
		Index:  index,
	}

	code := ERR_BLOCK_INVALID

	var tErr *Error
	if As(cause, &tErr) {
		code = tErr.Code()
	}

	return NewWithData(code, data, data.Error(), cause)
}

// RejectedTx returns the transaction hash recorded by NewTxRejectedErr, if any.
func RejectedTx(err error) (chainhash.Hash, bool) {
	var data *TxRejectedErrData
	if AsData(err, &data) {
		return data.TxHash, true
	}

	return chainhash.Hash{}, false
}
