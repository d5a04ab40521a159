package interpreter

import (
	"bytes"
	"crypto/sha1" //nolint:gosec // OP_SHA1 is consensus
	"crypto/sha256"

	"github.com/libsv/go-bk/crypto"
	"github.com/mvs-org/mvsd/errors"
	"github.com/mvs-org/mvsd/model"
	"github.com/mvs-org/mvsd/script"
	"github.com/mvs-org/mvsd/util"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // OP_RIPEMD160 is consensus
)

func (e *Engine) step(pc int, op script.Operation) error {
	executing := e.isExecuting()

	// conditionals are tracked even in branches that are not executed
	switch op.Code {
	case script.OpIF, script.OpNOTIF:
		cond := false

		if executing {
			v, err := e.dstack.PopBool()
			if err != nil {
				return err
			}

			cond = v
			if op.Code == script.OpNOTIF {
				cond = !cond
			}
		}

		e.condStack = append(e.condStack, cond)

		return nil
	case script.OpELSE:
		if len(e.condStack) == 0 {
			return errors.NewScriptVerifyError("else without if")
		}

		e.condStack[len(e.condStack)-1] = !e.condStack[len(e.condStack)-1]

		return nil
	case script.OpENDIF:
		if len(e.condStack) == 0 {
			return errors.NewScriptVerifyError("endif without if")
		}

		e.condStack = e.condStack[:len(e.condStack)-1]

		return nil
	case script.OpVERIF, script.OpVERNOTIF:
		return errors.NewScriptVerifyError("reserved opcode %s", op.Code)
	}

	if !executing {
		return nil
	}

	switch {
	case op.Code.IsPushCode():
		e.dstack.Push(op.Data)
		return nil
	case op.Code == script.OpNEGATIVE1:
		e.dstack.PushInt(-1)
		return nil
	case op.Code.IsPositive():
		e.dstack.PushInt(int64(op.Code.PositiveValue()))
		return nil
	}

	switch op.Code {
	case script.OpNOP, script.OpNOP1, script.OpNOP4, script.OpNOP4 + 1, script.OpNOP4 + 2,
		script.OpNOP4 + 3, script.OpNOP4 + 4, script.OpNOP4 + 5, script.OpNOP10:
		return nil
	case script.OpCHECKLOCKTIMEVERIFY:
		if !e.hasFlag(VerifyBIP65) {
			return nil
		}

		return e.checkLockTimeVerify()
	case script.OpCHECKATTENUATIONVERIFY:
		if !e.hasFlag(VerifyAttenuation) {
			return nil
		}

		return e.checkAttenuationVerify()
	case script.OpVERIFY:
		return e.verifyTop()
	case script.OpRETURN:
		return errors.NewScriptVerifyError("op_return executed")
	case script.OpCODESEPARATOR:
		e.lastCodeSep = pc + 1
		return nil
	case script.OpCHECKSIG, script.OpCHECKSIGVERIFY:
		ok, err := e.checkSig()
		if err != nil {
			return err
		}

		e.dstack.PushBool(ok)

		if op.Code == script.OpCHECKSIGVERIFY {
			return e.verifyTop()
		}

		return nil
	case script.OpCHECKMULTISIG, script.OpCHECKMULTISIGVERIFY:
		ok, err := e.checkMultiSig()
		if err != nil {
			return err
		}

		e.dstack.PushBool(ok)

		if op.Code == script.OpCHECKMULTISIGVERIFY {
			return e.verifyTop()
		}

		return nil
	}

	if handled, err := e.stackOp(op.Code); handled {
		return err
	}

	if handled, err := e.arithmeticOp(op.Code); handled {
		return err
	}

	if handled, err := e.hashOp(op.Code); handled {
		return err
	}

	return errors.NewScriptVerifyError("invalid opcode %s", op.Code)
}

func (e *Engine) verifyTop() error {
	ok, err := e.dstack.PopBool()
	if err != nil {
		return err
	}

	if !ok {
		return errors.NewScriptVerifyError("verify failed")
	}

	return nil
}

func (e *Engine) stackOp(code script.Opcode) (bool, error) {
	s := &e.dstack

	switch code {
	case script.OpTOALTSTACK:
		v, err := s.Pop()
		if err == nil {
			e.astack.Push(v)
		}

		return true, err
	case script.OpFROMALTSTACK:
		v, err := e.astack.Pop()
		if err == nil {
			s.Push(v)
		}

		return true, err
	case script.Op2DROP:
		if _, err := s.Pop(); err != nil {
			return true, err
		}

		_, err := s.Pop()

		return true, err
	case script.Op2DUP:
		return true, s.dup(2)
	case script.Op3DUP:
		return true, s.dup(3)
	case script.Op2OVER:
		if s.Depth() < 4 {
			return true, errors.NewScriptVerifyError("stack underflow")
		}

		a, _ := s.Peek(3)
		b, _ := s.Peek(2)
		s.Push(a)
		s.Push(b)

		return true, nil
	case script.Op2ROT:
		if s.Depth() < 6 {
			return true, errors.NewScriptVerifyError("stack underflow")
		}

		a, _ := s.remove(5)
		b, _ := s.remove(4)
		s.Push(a)
		s.Push(b)

		return true, nil
	case script.Op2SWAP:
		if s.Depth() < 4 {
			return true, errors.NewScriptVerifyError("stack underflow")
		}

		a, _ := s.remove(3)
		b, _ := s.remove(2)
		s.Push(a)
		s.Push(b)

		return true, nil
	case script.OpIFDUP:
		v, err := s.Peek(0)
		if err == nil && asBool(v) {
			s.Push(v)
		}

		return true, err
	case script.OpDEPTH:
		s.PushInt(int64(s.Depth()))
		return true, nil
	case script.OpDROP:
		_, err := s.Pop()
		return true, err
	case script.OpDUP:
		return true, s.dup(1)
	case script.OpNIP:
		_, err := s.remove(1)
		return true, err
	case script.OpOVER:
		v, err := s.Peek(1)
		if err == nil {
			s.Push(v)
		}

		return true, err
	case script.OpPICK, script.OpROLL:
		n, err := s.PopInt()
		if err != nil {
			return true, err
		}

		if n < 0 || n >= int64(s.Depth()) {
			return true, errors.NewScriptVerifyError("pick index %d out of range", n)
		}

		var v []byte
		if code == script.OpPICK {
			v, err = s.Peek(int(n))
		} else {
			v, err = s.remove(int(n))
		}

		if err == nil {
			s.Push(v)
		}

		return true, err
	case script.OpROT:
		v, err := s.remove(2)
		if err == nil {
			s.Push(v)
		}

		return true, err
	case script.OpSWAP:
		v, err := s.remove(1)
		if err == nil {
			s.Push(v)
		}

		return true, err
	case script.OpTUCK:
		if s.Depth() < 2 {
			return true, errors.NewScriptVerifyError("stack underflow")
		}

		top, _ := s.Pop()
		second, _ := s.Pop()
		s.Push(top)
		s.Push(second)
		s.Push(top)

		return true, nil
	case script.OpSIZE:
		v, err := s.Peek(0)
		if err == nil {
			s.PushInt(int64(len(v)))
		}

		return true, err
	case script.OpEQUAL, script.OpEQUALVERIFY:
		a, err := s.Pop()
		if err != nil {
			return true, err
		}

		b, err := s.Pop()
		if err != nil {
			return true, err
		}

		s.PushBool(bytes.Equal(a, b))

		if code == script.OpEQUALVERIFY {
			return true, e.verifyTop()
		}

		return true, nil
	}

	return false, nil
}

func (e *Engine) arithmeticOp(code script.Opcode) (bool, error) {
	s := &e.dstack

	switch code {
	case script.Op1ADD, script.Op1SUB, script.OpNEGATE, script.OpABS, script.OpNOT, script.Op0NOTEQUAL:
		n, err := s.PopInt()
		if err != nil {
			return true, err
		}

		switch code {
		case script.Op1ADD:
			n++
		case script.Op1SUB:
			n--
		case script.OpNEGATE:
			n = -n
		case script.OpABS:
			if n < 0 {
				n = -n
			}
		case script.OpNOT:
			n = boolInt(n == 0)
		case script.Op0NOTEQUAL:
			n = boolInt(n != 0)
		}

		s.PushInt(n)

		return true, nil
	case script.OpADD, script.OpSUB, script.OpBOOLAND, script.OpBOOLOR, script.OpNUMEQUAL,
		script.OpNUMEQUALVERIFY, script.OpNUMNOTEQUAL, script.OpLESSTHAN, script.OpGREATERTHAN,
		script.OpLESSTHANOREQUAL, script.OpGREATERTHANOREQUAL, script.OpMIN, script.OpMAX:
		b, err := s.PopInt()
		if err != nil {
			return true, err
		}

		a, err := s.PopInt()
		if err != nil {
			return true, err
		}

		var n int64

		switch code {
		case script.OpADD:
			n = a + b
		case script.OpSUB:
			n = a - b
		case script.OpBOOLAND:
			n = boolInt(a != 0 && b != 0)
		case script.OpBOOLOR:
			n = boolInt(a != 0 || b != 0)
		case script.OpNUMEQUAL, script.OpNUMEQUALVERIFY:
			n = boolInt(a == b)
		case script.OpNUMNOTEQUAL:
			n = boolInt(a != b)
		case script.OpLESSTHAN:
			n = boolInt(a < b)
		case script.OpGREATERTHAN:
			n = boolInt(a > b)
		case script.OpLESSTHANOREQUAL:
			n = boolInt(a <= b)
		case script.OpGREATERTHANOREQUAL:
			n = boolInt(a >= b)
		case script.OpMIN:
			n = min(a, b)
		case script.OpMAX:
			n = max(a, b)
		}

		s.PushInt(n)

		if code == script.OpNUMEQUALVERIFY {
			return true, e.verifyTop()
		}

		return true, nil
	case script.OpWITHIN:
		upper, err := s.PopInt()
		if err != nil {
			return true, err
		}

		lower, err := s.PopInt()
		if err != nil {
			return true, err
		}

		x, err := s.PopInt()
		if err != nil {
			return true, err
		}

		s.PushBool(lower <= x && x < upper)

		return true, nil
	}

	return false, nil
}

func boolInt(v bool) int64 {
	if v {
		return 1
	}

	return 0
}

func (e *Engine) hashOp(code script.Opcode) (bool, error) {
	switch code {
	case script.OpRIPEMD160, script.OpSHA1, script.OpSHA256, script.OpHASH160, script.OpHASH256:
	default:
		return false, nil
	}

	v, err := e.dstack.Pop()
	if err != nil {
		return true, err
	}

	switch code {
	case script.OpRIPEMD160:
		h := ripemd160.New()
		h.Write(v)
		e.dstack.Push(h.Sum(nil))
	case script.OpSHA1:
		sum := sha1.Sum(v) //nolint:gosec
		e.dstack.Push(sum[:])
	case script.OpSHA256:
		sum := sha256.Sum256(v)
		e.dstack.Push(sum[:])
	case script.OpHASH160:
		e.dstack.Push(crypto.Hash160(v))
	case script.OpHASH256:
		e.dstack.Push(crypto.Sha256d(v))
	}

	return true, nil
}

func (e *Engine) checkLockTimeVerify() error {
	top, err := e.dstack.Peek(0)
	if err != nil {
		return err
	}

	lockTime, err := script.ParseNumber(top, 5)
	if err != nil {
		return errors.NewScriptVerifyError("invalid lock time", err)
	}

	if lockTime < 0 {
		return errors.NewScriptVerifyError("negative lock time")
	}

	txLockTime := int64(e.tx.LockTime)

	if (txLockTime < util.LockTimeThreshold) != (lockTime < util.LockTimeThreshold) {
		return errors.NewScriptVerifyError("lock time type mismatch")
	}

	if lockTime > txLockTime {
		return errors.NewScriptVerifyError("lock time %d not reached by %d", lockTime, txLockTime)
	}

	if e.tx.Inputs[e.inputIndex].IsFinal() {
		return errors.NewScriptVerifyError("input is final")
	}

	return nil
}

// checkAttenuationVerify consumes the input point and model pushes and
// requires the model to parse. The quantity rules are enforced when the
// spending transaction is validated.
func (e *Engine) checkAttenuationVerify() error {
	point, err := e.dstack.Pop()
	if err != nil {
		return err
	}

	param, err := e.dstack.Pop()
	if err != nil {
		return err
	}

	if len(point) != model.PointSize {
		return errors.NewScriptVerifyError("attenuation input point of %d bytes", len(point))
	}

	if _, err = model.ParseAttenuationModel(param); err != nil {
		return errors.NewScriptVerifyError("invalid attenuation model", err)
	}

	return nil
}
