// Package interpreter executes scripts to verify that an input may spend
// the output it references.
package interpreter

import (
	"github.com/mvs-org/mvsd/errors"
	"github.com/mvs-org/mvsd/model"
	"github.com/mvs-org/mvsd/script"
)

// Flags select the consensus rules in force.
type Flags uint32

const (
	// VerifyBIP16 evaluates pay-to-script-hash redeem scripts.
	VerifyBIP16 Flags = 1 << iota
	// VerifyBIP65 enables OP_CHECKLOCKTIMEVERIFY.
	VerifyBIP65
	// VerifyBIP66 requires strict DER signatures.
	VerifyBIP66
	// VerifyAttenuation enables OP_CHECKATTENUATIONVERIFY.
	VerifyAttenuation

	VerifyNone Flags = 0
	VerifyAll        = VerifyBIP16 | VerifyBIP65 | VerifyBIP66 | VerifyAttenuation
)

const (
	MaxOpsPerScript = 201
	MaxStackSize    = 1000
)

type Engine struct {
	tx         *model.Tx
	inputIndex int
	flags      Flags

	dstack    stack
	astack    stack
	condStack []bool

	current     script.Script
	lastCodeSep int
	numOps      int
}

// VerifyScript runs the unlocking script of input inputIndex against
// prevScript, the locking script of the output it spends.
func VerifyScript(tx *model.Tx, inputIndex int, prevScript script.Script, flags Flags) error {
	if inputIndex < 0 || inputIndex >= len(tx.Inputs) {
		return errors.NewInvalidArgumentError("input index %d out of range", inputIndex)
	}

	e := &Engine{tx: tx, inputIndex: inputIndex, flags: flags}

	return e.verify(tx.Inputs[inputIndex].Script, prevScript)
}

func (e *Engine) hasFlag(flag Flags) bool {
	return e.flags&flag == flag
}

func (e *Engine) verify(signScript script.Script, prevScript script.Script) error {
	if signScript.IsRawData() || prevScript.IsRawData() {
		return errors.NewScriptVerifyError("script does not parse")
	}

	isP2SH := e.hasFlag(VerifyBIP16) && script.IsPayScriptHash(prevScript)

	if isP2SH && !signScript.IsPushOnly() {
		return errors.NewScriptVerifyError("pay-to-script-hash unlocking script is not push only")
	}

	if err := e.execute(signScript); err != nil {
		return err
	}

	saved := make([][]byte, len(e.dstack.items))
	copy(saved, e.dstack.items)

	if err := e.execute(prevScript); err != nil {
		return err
	}

	if err := e.checkResult(); err != nil {
		return err
	}

	if !isP2SH {
		return nil
	}

	if len(saved) == 0 {
		return errors.NewScriptVerifyError("missing redeem script")
	}

	redeem, err := script.ParseScript(saved[len(saved)-1])
	if err != nil {
		return errors.NewScriptVerifyError("redeem script does not parse", err)
	}

	e.dstack.items = saved[:len(saved)-1]
	e.astack.items = nil

	if err = e.execute(redeem); err != nil {
		return err
	}

	return e.checkResult()
}

func (e *Engine) checkResult() error {
	ok, err := e.dstack.PopBool()
	if err != nil {
		return errors.NewScriptVerifyError("empty stack after execution", err)
	}

	if !ok {
		return errors.NewScriptVerifyError("script evaluated to false")
	}

	return nil
}

func (e *Engine) isExecuting() bool {
	for _, cond := range e.condStack {
		if !cond {
			return false
		}
	}

	return true
}

func (e *Engine) execute(s script.Script) error {
	if s.SerializedSize() > script.MaxScriptSize {
		return errors.NewScriptVerifyError("script size %d exceeds %d", s.SerializedSize(), script.MaxScriptSize)
	}

	e.current = s
	e.lastCodeSep = 0
	e.numOps = 0
	e.condStack = e.condStack[:0]
	e.astack.items = nil

	for pc, op := range s {
		if len(op.Data) > script.MaxPushDataSize {
			return errors.NewScriptVerifyError("push of %d bytes exceeds %d", len(op.Data), script.MaxPushDataSize)
		}

		if op.Code > script.Opcode(0x60) && op.Code <= script.Opcode(0xff) {
			e.numOps++
			if e.numOps > MaxOpsPerScript {
				return errors.NewScriptVerifyError("too many operations")
			}
		}

		if op.Code.IsDisabled() {
			return errors.NewScriptVerifyError("disabled opcode %s", op.Code)
		}

		if err := e.step(pc, op); err != nil {
			return err
		}

		if e.dstack.Depth()+e.astack.Depth() > MaxStackSize {
			return errors.NewScriptVerifyError("stack size exceeds %d", MaxStackSize)
		}
	}

	if len(e.condStack) != 0 {
		return errors.NewScriptVerifyError("unbalanced conditional")
	}

	return nil
}
