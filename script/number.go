package script

import (
	"github.com/mvs-org/mvsd/errors"
)

// DefaultNumberLength is the maximum operand size for arithmetic opcodes.
const DefaultNumberLength = 4

// NumberBytes returns the minimal little-endian sign-magnitude encoding of n.
func NumberBytes(n int64) []byte {
	if n == 0 {
		return nil
	}

	negative := n < 0

	abs := uint64(n)
	if negative {
		abs = uint64(-n)
	}

	var result []byte
	for abs > 0 {
		result = append(result, byte(abs&0xff))
		abs >>= 8
	}

	// the sign lives in the high bit of the last byte
	if result[len(result)-1]&0x80 != 0 {
		extra := byte(0x00)
		if negative {
			extra = 0x80
		}

		result = append(result, extra)
	} else if negative {
		result[len(result)-1] |= 0x80
	}

	return result
}

// ParseNumber decodes a script number no longer than maxLength bytes.
// Non-minimal encodings are accepted.
func ParseNumber(data []byte, maxLength int) (int64, error) {
	if len(data) > maxLength {
		return 0, errors.NewInvalidArgumentError("script number of %d bytes exceeds %d", len(data), maxLength)
	}

	if len(data) == 0 {
		return 0, nil
	}

	var result int64
	for i, b := range data {
		result |= int64(b) << uint(8*i)
	}

	last := data[len(data)-1]
	if last&0x80 != 0 {
		result &= ^(int64(0x80) << uint(8*(len(data)-1)))
		return -result, nil
	}

	return result, nil
}
