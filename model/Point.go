package model

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/mvs-org/mvsd/errors"
)

// PointSize is the encoded size of a Point.
const PointSize = chainhash.HashSize + 4

// Point references an output by transaction hash and index.
type Point struct {
	Hash  chainhash.Hash
	Index uint32
}

// InputPoint references an input by spending transaction hash and index.
type InputPoint = Point

// PointKey is the fixed-size encoding of a Point, usable as a map key.
type PointKey [PointSize]byte

// NullPoint is the previous output of a coinbase input.
var NullPoint = Point{Index: math.MaxUint32}

func NewPointFromBytes(b []byte) (Point, error) {
	if len(b) != PointSize {
		return Point{}, errors.NewDecodeError("point should be %d bytes long, got %d", PointSize, len(b))
	}

	var p Point
	copy(p.Hash[:], b[:chainhash.HashSize])
	p.Index = binary.LittleEndian.Uint32(b[chainhash.HashSize:])

	return p, nil
}

func (p Point) IsNull() bool {
	return p.Index == math.MaxUint32 && p.Hash == chainhash.Hash{}
}

func (p Point) Bytes() []byte {
	key := p.Key()
	return key[:]
}

func (p Point) Key() PointKey {
	var key PointKey

	copy(key[:], p.Hash[:])
	binary.LittleEndian.PutUint32(key[chainhash.HashSize:], p.Index)

	return key
}

func (p Point) String() string {
	return fmt.Sprintf("%s:%d", p.Hash.String(), p.Index)
}

func (p *Point) Decode(r io.Reader) error {
	hash, err := readHash(r)
	if err != nil {
		*p = Point{}
		return errors.NewDecodeError("failed to read point hash", err)
	}

	index, err := readUint32(r)
	if err != nil {
		*p = Point{}
		return errors.NewDecodeError("failed to read point index", err)
	}

	p.Hash = hash
	p.Index = index

	return nil
}

func (k PointKey) Point() Point {
	p, _ := NewPointFromBytes(k[:])
	return p
}
