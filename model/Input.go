package model

import (
	"io"

	"github.com/mvs-org/mvsd/errors"
	"github.com/mvs-org/mvsd/script"
)

// MaxInputSequence marks an input as final regardless of lock time.
const MaxInputSequence = 0xffffffff

type Input struct {
	PreviousOutput Point
	Script         script.Script
	Sequence       uint32
}

func (in *Input) IsFinal() bool {
	return in.Sequence == MaxInputSequence
}

func (in *Input) Bytes() []byte {
	buf := make([]byte, 0, in.SerializedSize())
	return in.appendTo(buf)
}

func (in *Input) appendTo(buf []byte) []byte {
	buf = append(buf, in.PreviousOutput.Bytes()...)
	buf = appendVarBytes(buf, in.Script.Bytes())

	return appendUint32(buf, in.Sequence)
}

func (in *Input) SerializedSize() int {
	return PointSize + varBytesSize(in.Script.SerializedSize()) + 4
}

func (in *Input) Decode(r io.Reader) error {
	if err := in.decode(r); err != nil {
		*in = Input{}
		return err
	}

	return nil
}

func (in *Input) decode(r io.Reader) error {
	if err := in.PreviousOutput.Decode(r); err != nil {
		return err
	}

	b, err := readVarBytes(r)
	if err != nil {
		return errors.NewDecodeError("failed to read input script", err)
	}

	in.Script = script.NewScriptFromBytes(b)

	if in.Sequence, err = readUint32(r); err != nil {
		return errors.NewDecodeError("failed to read input sequence", err)
	}

	return nil
}
