package model

import (
	"bytes"
	"io"
	"math"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/mvs-org/mvsd/errors"
	"github.com/mvs-org/mvsd/script"
	"github.com/mvs-org/mvsd/util"
)

// Transaction versions. A version names the first feature set it may use.
const (
	TxVersionFirst             uint32 = 1
	TxVersionCheckOutputScript uint32 = 2
	// TxVersionTestnet is only accepted when testnet rules are enabled.
	TxVersionTestnet          uint32 = 3
	TxVersionCheckNovaFeature uint32 = 4
	TxVersionMax              uint32 = 5
)

type Tx struct {
	Version  uint32
	Inputs   []*Input
	Outputs  []*Output
	LockTime uint32
}

func NewTxFromBytes(b []byte) (*Tx, error) {
	r := bytes.NewReader(b)

	tx := &Tx{}
	if err := tx.Decode(r); err != nil {
		return nil, err
	}

	if r.Len() != 0 {
		return nil, errors.NewDecodeError("%d trailing bytes after transaction", r.Len())
	}

	return tx, nil
}

func (tx *Tx) Hash() chainhash.Hash {
	return chainhash.DoubleHashH(tx.Bytes())
}

func (tx *Tx) Bytes() []byte {
	buf := make([]byte, 0, tx.SerializedSize())
	return tx.appendTo(buf)
}

func (tx *Tx) appendTo(buf []byte) []byte {
	buf = appendUint32(buf, tx.Version)

	buf = appendVarInt(buf, len(tx.Inputs))
	for _, in := range tx.Inputs {
		buf = in.appendTo(buf)
	}

	buf = appendVarInt(buf, len(tx.Outputs))
	for _, out := range tx.Outputs {
		buf = out.appendTo(buf)
	}

	return appendUint32(buf, tx.LockTime)
}

func (tx *Tx) SerializedSize() int {
	size := 4 + varIntSize(len(tx.Inputs)) + varIntSize(len(tx.Outputs)) + 4

	for _, in := range tx.Inputs {
		size += in.SerializedSize()
	}

	for _, out := range tx.Outputs {
		size += out.SerializedSize()
	}

	return size
}

// Decode reads a transaction. On failure the transaction is reset.
func (tx *Tx) Decode(r io.Reader) error {
	if err := tx.decode(r); err != nil {
		*tx = Tx{}
		return err
	}

	return nil
}

func (tx *Tx) decode(r io.Reader) error {
	var err error

	if tx.Version, err = readUint32(r); err != nil {
		return errors.NewDecodeError("failed to read tx version", err)
	}

	count, err := readVarInt(r)
	if err != nil {
		return errors.NewDecodeError("failed to read input count", err)
	}

	// each input is at least 41 bytes
	if count > MaxVarBytes/41 {
		return errors.NewDecodeError("input count %d too large", count)
	}

	tx.Inputs = make([]*Input, 0, min(count, 1024))
	for i := uint64(0); i < count; i++ {
		in := &Input{}
		if err = in.Decode(r); err != nil {
			return errors.NewDecodeError("failed to read input %d", i, err)
		}

		tx.Inputs = append(tx.Inputs, in)
	}

	if count, err = readVarInt(r); err != nil {
		return errors.NewDecodeError("failed to read output count", err)
	}

	if count > MaxVarBytes/17 {
		return errors.NewDecodeError("output count %d too large", count)
	}

	tx.Outputs = make([]*Output, 0, min(count, 1024))
	for i := uint64(0); i < count; i++ {
		out := &Output{}
		if err = out.Decode(r); err != nil {
			return errors.NewDecodeError("failed to read output %d", i, err)
		}

		tx.Outputs = append(tx.Outputs, out)
	}

	if tx.LockTime, err = readUint32(r); err != nil {
		return errors.NewDecodeError("failed to read lock time", err)
	}

	return nil
}

// IsCoinbase reports whether the transaction has exactly one input spending the null point.
func (tx *Tx) IsCoinbase() bool {
	return len(tx.Inputs) == 1 && tx.Inputs[0].PreviousOutput.IsNull()
}

// TotalOutputValue sums the output values, reporting false on overflow.
func (tx *Tx) TotalOutputValue() (uint64, bool) {
	var total uint64

	for _, out := range tx.Outputs {
		if out.Value > math.MaxUint64-total {
			return 0, false
		}

		total += out.Value
	}

	return total, true
}

func (tx *Tx) IsFinal(height uint32, blockTime uint32) bool {
	sequences := make([]uint32, len(tx.Inputs))
	for i, in := range tx.Inputs {
		sequences[i] = in.Sequence
	}

	return util.IsFinal(tx.LockTime, sequences, height, blockTime)
}

// LegacySigOps counts signature operations in every input and output script.
func (tx *Tx) LegacySigOps() int {
	total := 0

	for _, in := range tx.Inputs {
		total += script.SigOps(in.Script, false)
	}

	for _, out := range tx.Outputs {
		total += script.SigOps(out.Script, false)
	}

	return total
}

// HasDuplicateInputs reports whether two inputs spend the same point.
func (tx *Tx) HasDuplicateInputs() bool {
	seen := make(map[PointKey]struct{}, len(tx.Inputs))

	for _, in := range tx.Inputs {
		key := in.PreviousOutput.Key()
		if _, found := seen[key]; found {
			return true
		}

		seen[key] = struct{}{}
	}

	return false
}

// Clone returns a deep copy through the wire encoding.
func (tx *Tx) Clone() *Tx {
	clone, err := NewTxFromBytes(tx.Bytes())
	if err != nil {
		panic(err)
	}

	return clone
}
