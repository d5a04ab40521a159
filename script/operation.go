package script

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"io"
	"math"

	"github.com/mvs-org/mvsd/errors"
)

// MaxPushDataSize bounds a single push when a script is executed.
const MaxPushDataSize = 520

type Operation struct {
	Code Opcode
	Data []byte
}

// NewDataOperation returns the minimal push operation for data. Empty data
// pushes OP_0.
func NewDataOperation(data []byte) Operation {
	switch size := len(data); {
	case size == 0:
		return Operation{Code: OpZERO}
	case size <= 75:
		return Operation{Code: OpSPECIAL, Data: data}
	case size <= math.MaxUint8:
		return Operation{Code: OpPUSHDATA1, Data: data}
	case size <= math.MaxUint16:
		return Operation{Code: OpPUSHDATA2, Data: data}
	default:
		return Operation{Code: OpPUSHDATA4, Data: data}
	}
}

// NewNumberOperation pushes n as a script number, using OP_0, OP_1NEGATE
// and OP_1..OP_16 for the small values.
func NewNumberOperation(n int64) Operation {
	switch {
	case n == 0:
		return Operation{Code: OpZERO}
	case n == -1:
		return Operation{Code: OpNEGATIVE1}
	case n >= 1 && n <= 16:
		return Operation{Code: OpcodeFromPositive(int(n))}
	default:
		return NewDataOperation(NumberBytes(n))
	}
}

// Decode reads one operation. On failure the operation is reset to OP_0
// with no data.
func (op *Operation) Decode(r io.Reader) error {
	if err := op.decode(r); err != nil {
		op.Code = OpZERO
		op.Data = nil

		return err
	}

	return nil
}

func (op *Operation) decode(r io.Reader) error {
	var b [4]byte

	if _, err := io.ReadFull(r, b[:1]); err != nil {
		return errors.NewDecodeError("failed to read opcode", err)
	}

	raw := b[0]

	var size uint32

	switch {
	case raw >= 1 && raw <= 75:
		op.Code = OpSPECIAL
		size = uint32(raw)
	case Opcode(raw) == OpPUSHDATA1:
		op.Code = OpPUSHDATA1

		if _, err := io.ReadFull(r, b[:1]); err != nil {
			return errors.NewDecodeError("failed to read pushdata1 length", err)
		}

		size = uint32(b[0])
	case Opcode(raw) == OpPUSHDATA2:
		op.Code = OpPUSHDATA2

		if _, err := io.ReadFull(r, b[:2]); err != nil {
			return errors.NewDecodeError("failed to read pushdata2 length", err)
		}

		size = uint32(binary.LittleEndian.Uint16(b[:2]))
	case Opcode(raw) == OpPUSHDATA4:
		op.Code = OpPUSHDATA4

		if _, err := io.ReadFull(r, b[:4]); err != nil {
			return errors.NewDecodeError("failed to read pushdata4 length", err)
		}

		size = binary.LittleEndian.Uint32(b[:4])
	default:
		op.Code = Opcode(raw)
		op.Data = nil

		return nil
	}

	// the declared length is untrusted, read incrementally
	var buf bytes.Buffer
	if n, err := io.CopyN(&buf, r, int64(size)); err != nil || n != int64(size) {
		return errors.NewDecodeError("push of %d bytes truncated", size)
	}

	op.Data = buf.Bytes()
	if op.Data == nil {
		op.Data = []byte{}
	}

	return nil
}

// Bytes serializes the operation. OpRAWDATA writes only its data.
func (op Operation) Bytes() []byte {
	buf := make([]byte, 0, op.SerializedSize())

	switch op.Code {
	case OpRAWDATA:
		return append(buf, op.Data...)
	case OpSPECIAL:
		buf = append(buf, byte(len(op.Data)))
	case OpPUSHDATA1:
		buf = append(buf, byte(OpPUSHDATA1), byte(len(op.Data)))
	case OpPUSHDATA2:
		buf = append(buf, byte(OpPUSHDATA2))
		buf = binary.LittleEndian.AppendUint16(buf, uint16(len(op.Data)))
	case OpPUSHDATA4:
		buf = append(buf, byte(OpPUSHDATA4))
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(op.Data)))
	default:
		return append(buf, byte(op.Code))
	}

	return append(buf, op.Data...)
}

func (op Operation) SerializedSize() int {
	switch op.Code {
	case OpRAWDATA:
		return len(op.Data)
	case OpSPECIAL:
		return 1 + len(op.Data)
	case OpPUSHDATA1:
		return 2 + len(op.Data)
	case OpPUSHDATA2:
		return 3 + len(op.Data)
	case OpPUSHDATA4:
		return 5 + len(op.Data)
	default:
		return 1
	}
}

// IsPush reports whether executing the operation only pushes onto the stack.
func (op Operation) IsPush() bool {
	return op.Code.IsPushCode() || op.Code == OpNEGATIVE1 || op.Code.IsPositive()
}

// IsMinimalPush reports whether the push uses the shortest possible encoding.
func (op Operation) IsMinimalPush() bool {
	size := len(op.Data)

	switch op.Code {
	case OpZERO:
		return true
	case OpSPECIAL:
		if size == 1 && (op.Data[0] >= 1 && op.Data[0] <= 16 || op.Data[0] == 0x81) {
			return false
		}

		return true
	case OpPUSHDATA1:
		return size > 75
	case OpPUSHDATA2:
		return size > math.MaxUint8
	case OpPUSHDATA4:
		return size > math.MaxUint16
	default:
		return true
	}
}

func (op Operation) Equal(other Operation) bool {
	return op.Code == other.Code && bytes.Equal(op.Data, other.Data)
}

func (op Operation) String() string {
	switch op.Code {
	case OpSPECIAL, OpPUSHDATA1, OpPUSHDATA2, OpPUSHDATA4, OpRAWDATA:
		return "[" + hex.EncodeToString(op.Data) + "]"
	default:
		return op.Code.String()
	}
}
