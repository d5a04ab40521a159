package script

import (
	"bytes"
	"strings"

	"github.com/mvs-org/mvsd/errors"
)

// MaxScriptSize bounds scripts that are executed.
const MaxScriptSize = 10000

// Script is a decoded operation sequence. A script whose bytes do not parse
// is held as a single OpRAWDATA operation.
type Script []Operation

// ParseScript strictly decodes every operation in b.
func ParseScript(b []byte) (Script, error) {
	r := bytes.NewReader(b)
	s := make(Script, 0, 8)

	for r.Len() > 0 {
		var op Operation
		if err := op.Decode(r); err != nil {
			return nil, errors.NewDecodeError("failed to parse script of %d bytes", len(b), err)
		}

		s = append(s, op)
	}

	return s, nil
}

// NewScriptFromBytes decodes b, falling back to a raw data script when b
// does not parse. The result always serializes back to b.
func NewScriptFromBytes(b []byte) Script {
	if len(b) == 0 {
		return Script{}
	}

	s, err := ParseScript(b)
	if err != nil {
		data := make([]byte, len(b))
		copy(data, b)

		return Script{{Code: OpRAWDATA, Data: data}}
	}

	return s
}

func (s Script) Bytes() []byte {
	buf := make([]byte, 0, s.SerializedSize())
	for _, op := range s {
		buf = append(buf, op.Bytes()...)
	}

	return buf
}

func (s Script) SerializedSize() int {
	size := 0
	for _, op := range s {
		size += op.SerializedSize()
	}

	return size
}

// IsRawData reports whether the script failed to parse when decoded.
func (s Script) IsRawData() bool {
	return len(s) == 1 && s[0].Code == OpRAWDATA
}

// IsPushOnly reports whether every operation is a push.
func (s Script) IsPushOnly() bool {
	for _, op := range s {
		if !op.IsPush() {
			return false
		}
	}

	return true
}

func (s Script) Equal(other Script) bool {
	return bytes.Equal(s.Bytes(), other.Bytes())
}

func (s Script) String() string {
	parts := make([]string, len(s))
	for i, op := range s {
		parts[i] = op.String()
	}

	return strings.Join(parts, " ")
}

// WithoutCodeSeparators returns a copy with every OP_CODESEPARATOR removed.
func (s Script) WithoutCodeSeparators() Script {
	out := make(Script, 0, len(s))

	for _, op := range s {
		if op.Code != OpCODESEPARATOR {
			out = append(out, op)
		}
	}

	return out
}

// WithoutPush returns a copy with every push of exactly data removed.
func (s Script) WithoutPush(data []byte) Script {
	out := make(Script, 0, len(s))

	for _, op := range s {
		if op.Code.IsPushCode() && len(op.Data) > 0 && bytes.Equal(op.Data, data) {
			continue
		}

		out = append(out, op)
	}

	return out
}
