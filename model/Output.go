package model

import (
	"io"

	"github.com/mvs-org/mvsd/errors"
	"github.com/mvs-org/mvsd/script"
)

type Output struct {
	Value      uint64
	Script     script.Script
	Attachment Attachment
}

func (o *Output) Bytes() []byte {
	buf := make([]byte, 0, o.SerializedSize())
	return o.appendTo(buf)
}

func (o *Output) appendTo(buf []byte) []byte {
	buf = appendUint64(buf, o.Value)
	buf = appendVarBytes(buf, o.Script.Bytes())

	return o.Attachment.appendTo(buf)
}

func (o *Output) SerializedSize() int {
	return 8 + varBytesSize(o.Script.SerializedSize()) + o.Attachment.SerializedSize()
}

func (o *Output) Decode(r io.Reader) error {
	if err := o.decode(r); err != nil {
		*o = Output{}
		return err
	}

	return nil
}

func (o *Output) decode(r io.Reader) error {
	var err error

	if o.Value, err = readUint64(r); err != nil {
		return errors.NewDecodeError("failed to read output value", err)
	}

	b, err := readVarBytes(r)
	if err != nil {
		return errors.NewDecodeError("failed to read output script", err)
	}

	o.Script = script.NewScriptFromBytes(b)

	return o.Attachment.Decode(r)
}
