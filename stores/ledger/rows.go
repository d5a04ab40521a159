package ledger

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/bsv-blockchain/go-bt/v2"
	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/mvs-org/mvsd/errors"
	"github.com/mvs-org/mvsd/model"
)

// Keys that must scan in height order are big-endian; values are little-endian.

func heightKey(height uint32) []byte {
	key := make([]byte, 4)
	binary.BigEndian.PutUint32(key, height)

	return key
}

// blockRow is header | varint tx count | tx hashes, prefixed with the height.
type blockRow struct {
	Height   uint32
	Header   model.BlockHeader
	TxHashes []chainhash.Hash
}

func newBlockRow(block *model.Block, height uint32) *blockRow {
	return &blockRow{Height: height, Header: block.Header, TxHashes: block.TxHashes()}
}

func (r *blockRow) Bytes() []byte {
	count := bt.VarInt(len(r.TxHashes))

	buf := make([]byte, 0, 4+model.BlockHeaderSize+count.Length()+len(r.TxHashes)*chainhash.HashSize)
	buf = binary.LittleEndian.AppendUint32(buf, r.Height)
	buf = append(buf, r.Header.Bytes()...)
	buf = append(buf, count.Bytes()...)

	for _, hash := range r.TxHashes {
		buf = append(buf, hash[:]...)
	}

	return buf
}

func decodeBlockRow(b []byte) (*blockRow, error) {
	if len(b) < 4+model.BlockHeaderSize {
		return nil, errors.NewStorageCorruptError("block row too short: %d bytes", len(b))
	}

	r := &blockRow{Height: binary.LittleEndian.Uint32(b)}

	header, err := model.NewBlockHeaderFromBytes(b[4 : 4+model.BlockHeaderSize])
	if err != nil {
		return nil, errors.NewStorageCorruptError("invalid block header row", err)
	}

	r.Header = *header

	reader := bytes.NewReader(b[4+model.BlockHeaderSize:])

	var count bt.VarInt
	if _, err = count.ReadFrom(reader); err != nil {
		return nil, errors.NewStorageCorruptError("invalid block row tx count", err)
	}

	if uint64(reader.Len()) != uint64(count)*chainhash.HashSize {
		return nil, errors.NewStorageCorruptError("block row holds %d bytes for %d hashes", reader.Len(), count)
	}

	r.TxHashes = make([]chainhash.Hash, count)
	for i := range r.TxHashes {
		_, _ = io.ReadFull(reader, r.TxHashes[i][:])
	}

	return r, nil
}

type txRow struct {
	Height uint32
	Index  uint32
	Tx     *model.Tx
}

func (r *txRow) Bytes() []byte {
	buf := make([]byte, 0, 8+r.Tx.SerializedSize())
	buf = binary.LittleEndian.AppendUint32(buf, r.Height)
	buf = binary.LittleEndian.AppendUint32(buf, r.Index)

	return append(buf, r.Tx.Bytes()...)
}

func decodeTxRow(b []byte) (*txRow, error) {
	if len(b) < 8 {
		return nil, errors.NewStorageCorruptError("transaction row too short: %d bytes", len(b))
	}

	tx, err := model.NewTxFromBytes(b[8:])
	if err != nil {
		return nil, errors.NewStorageCorruptError("invalid transaction row", err)
	}

	return &txRow{
		Height: binary.LittleEndian.Uint32(b),
		Index:  binary.LittleEndian.Uint32(b[4:]),
		Tx:     tx,
	}, nil
}

// Spend records the input that spent an output point.
type Spend struct {
	Point  model.InputPoint
	Height uint32
}

func (s *Spend) Bytes() []byte {
	return binary.LittleEndian.AppendUint32(s.Point.Bytes(), s.Height)
}

func decodeSpend(b []byte) (*Spend, error) {
	if len(b) != model.PointSize+4 {
		return nil, errors.NewStorageCorruptError("spend row should be %d bytes, got %d", model.PointSize+4, len(b))
	}

	point, err := model.NewPointFromBytes(b[:model.PointSize])
	if err != nil {
		return nil, errors.NewStorageCorruptError("invalid spend row", err)
	}

	return &Spend{Point: point, Height: binary.LittleEndian.Uint32(b[model.PointSize:])}, nil
}

type HistoryKind uint8

const (
	HistoryOutput HistoryKind = 0
	HistorySpend  HistoryKind = 1
)

// HistoryRow is one credit or debit of an address. For spends Point is the
// input point and PreviousOutput the output it consumed.
type HistoryRow struct {
	Kind           HistoryKind
	Point          model.Point
	Height         uint32
	Value          uint64
	PreviousOutput model.Point
}

const historyKeySize = chainhash.HashSize + 4 + 1 + model.PointSize

func (h *HistoryRow) key(addressHash chainhash.Hash) []byte {
	key := make([]byte, 0, historyKeySize)
	key = append(key, addressHash[:]...)
	key = binary.BigEndian.AppendUint32(key, h.Height)
	key = append(key, byte(h.Kind))

	return append(key, h.Point.Bytes()...)
}

func (h *HistoryRow) value() []byte {
	var buf []byte
	if h.Kind == HistorySpend {
		buf = h.PreviousOutput.Bytes()
	}

	return binary.LittleEndian.AppendUint64(buf, h.Value)
}

func decodeHistoryRow(key, value []byte) (*HistoryRow, error) {
	if len(key) != historyKeySize || len(value) < 8 {
		return nil, errors.NewStorageCorruptError("invalid history row")
	}

	h := &HistoryRow{
		Height: binary.BigEndian.Uint32(key[chainhash.HashSize:]),
		Kind:   HistoryKind(key[chainhash.HashSize+4]),
	}

	var err error
	if h.Point, err = model.NewPointFromBytes(key[chainhash.HashSize+5:]); err != nil {
		return nil, errors.NewStorageCorruptError("invalid history row point", err)
	}

	if h.Kind == HistorySpend {
		if len(value) != model.PointSize+8 {
			return nil, errors.NewStorageCorruptError("invalid history spend row")
		}

		if h.PreviousOutput, err = model.NewPointFromBytes(value[:model.PointSize]); err != nil {
			return nil, errors.NewStorageCorruptError("invalid history row previous output", err)
		}

		value = value[model.PointSize:]
	}

	h.Value = binary.LittleEndian.Uint64(value)

	return h, nil
}

// registryEntry is one record in a symbol's append-only registry list.
type registryEntry struct {
	Height  uint32
	Point   model.Point
	Address string
	Record  []byte
}

func encodeRegistryEntries(entries []registryEntry) []byte {
	var buf []byte

	buf = append(buf, bt.VarInt(len(entries)).Bytes()...)

	for _, e := range entries {
		buf = binary.LittleEndian.AppendUint32(buf, e.Height)
		buf = append(buf, e.Point.Bytes()...)
		buf = append(buf, bt.VarInt(len(e.Address)).Bytes()...)
		buf = append(buf, e.Address...)
		buf = append(buf, bt.VarInt(len(e.Record)).Bytes()...)
		buf = append(buf, e.Record...)
	}

	return buf
}

func decodeRegistryEntries(b []byte) ([]registryEntry, error) {
	if b == nil {
		return nil, nil
	}

	r := bytes.NewReader(b)

	var count bt.VarInt
	if _, err := count.ReadFrom(r); err != nil {
		return nil, errors.NewStorageCorruptError("invalid registry entry count", err)
	}

	if uint64(count) > uint64(len(b)) {
		return nil, errors.NewStorageCorruptError("registry entry count %d exceeds row size", count)
	}

	entries := make([]registryEntry, count)

	for i := range entries {
		var head [4 + model.PointSize]byte
		if _, err := io.ReadFull(r, head[:]); err != nil {
			return nil, errors.NewStorageCorruptError("truncated registry entry", err)
		}

		entries[i].Height = binary.LittleEndian.Uint32(head[:4])
		entries[i].Point, _ = model.NewPointFromBytes(head[4:])

		address, err := readVarBytes(r)
		if err != nil {
			return nil, err
		}

		entries[i].Address = string(address)

		if entries[i].Record, err = readVarBytes(r); err != nil {
			return nil, err
		}
	}

	if r.Len() != 0 {
		return nil, errors.NewStorageCorruptError("%d trailing bytes after registry entries", r.Len())
	}

	return entries, nil
}

func readVarBytes(r *bytes.Reader) ([]byte, error) {
	var size bt.VarInt
	if _, err := size.ReadFrom(r); err != nil {
		return nil, errors.NewStorageCorruptError("invalid registry field length", err)
	}

	if uint64(size) > uint64(r.Len()) {
		return nil, errors.NewStorageCorruptError("registry field length %d exceeds remaining %d bytes", size, r.Len())
	}

	b := make([]byte, size)
	_, _ = io.ReadFull(r, b)

	return b, nil
}

// addressRowKey is address hash | registry key. A row exists while any
// record of the key names the address.
func addressRowKey(address string, key chainhash.Hash) []byte {
	addressHash := model.AddressHash(address)

	return append(append(make([]byte, 0, 2*chainhash.HashSize), addressHash[:]...), key[:]...)
}
