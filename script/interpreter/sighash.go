package interpreter

import (
	"encoding/binary"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/mvs-org/mvsd/model"
	"github.com/mvs-org/mvsd/script"
)

// SigHashType selects which parts of the transaction a signature commits to.
type SigHashType uint32

const (
	SigHashAll          SigHashType = 0x1
	SigHashNone         SigHashType = 0x2
	SigHashSingle       SigHashType = 0x3
	SigHashAnyOneCanPay SigHashType = 0x80

	sigHashMask = 0x1f
)

// oneHash is signed when SIGHASH_SINGLE has no matching output.
var oneHash = chainhash.Hash{0x01}

// SignatureHash computes the legacy signature hash of input inputIndex over
// the transaction serialization, attachments included.
func SignatureHash(tx *model.Tx, inputIndex int, prevScript script.Script, hashType SigHashType) chainhash.Hash {
	if inputIndex < 0 || inputIndex >= len(tx.Inputs) {
		return oneHash
	}

	if hashType&sigHashMask == SigHashSingle && inputIndex >= len(tx.Outputs) {
		return oneHash
	}

	subscript := prevScript.WithoutCodeSeparators()

	txCopy := &model.Tx{
		Version:  tx.Version,
		Inputs:   make([]*model.Input, len(tx.Inputs)),
		Outputs:  make([]*model.Output, len(tx.Outputs)),
		LockTime: tx.LockTime,
	}

	for i, in := range tx.Inputs {
		inCopy := &model.Input{
			PreviousOutput: in.PreviousOutput,
			Script:         script.Script{},
			Sequence:       in.Sequence,
		}

		if i == inputIndex {
			inCopy.Script = subscript
		}

		txCopy.Inputs[i] = inCopy
	}

	copy(txCopy.Outputs, tx.Outputs)

	switch hashType & sigHashMask {
	case SigHashNone:
		txCopy.Outputs = txCopy.Outputs[:0]
		clearOtherSequences(txCopy, inputIndex)
	case SigHashSingle:
		txCopy.Outputs = txCopy.Outputs[:inputIndex+1]

		for i := 0; i < inputIndex; i++ {
			txCopy.Outputs[i] = &model.Output{
				Value:      ^uint64(0),
				Script:     script.Script{},
				Attachment: model.NewAttachment(&model.Currency{}),
			}
		}

		clearOtherSequences(txCopy, inputIndex)
	}

	if hashType&SigHashAnyOneCanPay != 0 {
		txCopy.Inputs = txCopy.Inputs[inputIndex : inputIndex+1]
	}

	buf := txCopy.Bytes()
	buf = binary.LittleEndian.AppendUint32(buf, uint32(hashType))

	return chainhash.DoubleHashH(buf)
}

func clearOtherSequences(tx *model.Tx, inputIndex int) {
	for i, in := range tx.Inputs {
		if i != inputIndex {
			in.Sequence = 0
		}
	}
}
