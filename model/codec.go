package model

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/bsv-blockchain/go-bt/v2"
	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/mvs-org/mvsd/errors"
)

// MaxVarBytes bounds any single length-prefixed field read from the wire.
const MaxVarBytes = 32 * 1024 * 1024

func readUint8(r io.Reader) (uint8, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}

	return b[0], nil
}

func readUint16(r io.Reader) (uint16, error) {
	var b [2]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint16(b[:]), nil
}

func readUint32(r io.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(b[:]), nil
}

func readUint64(r io.Reader) (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint64(b[:]), nil
}

func readHash(r io.Reader) (chainhash.Hash, error) {
	var h chainhash.Hash
	if _, err := io.ReadFull(r, h[:]); err != nil {
		return chainhash.Hash{}, err
	}

	return h, nil
}

func readVarInt(r io.Reader) (uint64, error) {
	var vi bt.VarInt
	if _, err := vi.ReadFrom(r); err != nil {
		return 0, err
	}

	return uint64(vi), nil
}

func readVarBytes(r io.Reader) ([]byte, error) {
	size, err := readVarInt(r)
	if err != nil {
		return nil, err
	}

	if size > MaxVarBytes {
		return nil, errors.NewDecodeError("field of %d bytes exceeds limit", size)
	}

	// the declared length is untrusted, read incrementally
	var buf bytes.Buffer
	if n, err := io.CopyN(&buf, r, int64(size)); err != nil || n != int64(size) {
		return nil, errors.NewDecodeError("field of %d bytes truncated", size)
	}

	return buf.Bytes(), nil
}

func readString(r io.Reader) (string, error) {
	b, err := readVarBytes(r)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

func appendUint16(buf []byte, v uint16) []byte {
	return binary.LittleEndian.AppendUint16(buf, v)
}

func appendUint32(buf []byte, v uint32) []byte {
	return binary.LittleEndian.AppendUint32(buf, v)
}

func appendUint64(buf []byte, v uint64) []byte {
	return binary.LittleEndian.AppendUint64(buf, v)
}

func appendVarBytes(buf []byte, b []byte) []byte {
	buf = append(buf, bt.VarInt(uint64(len(b))).Bytes()...)
	return append(buf, b...)
}

func appendString(buf []byte, s string) []byte {
	buf = append(buf, bt.VarInt(uint64(len(s))).Bytes()...)
	return append(buf, s...)
}

func varBytesSize(n int) int {
	return bt.VarInt(uint64(n)).Length() + n
}

func appendVarInt(buf []byte, n int) []byte {
	return append(buf, bt.VarInt(uint64(n)).Bytes()...)
}

func varIntSize(n int) int {
	return bt.VarInt(uint64(n)).Length()
}
