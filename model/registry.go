package model

import (
	"bytes"
	"io"
	"math"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/mvs-org/mvsd/errors"
)

// TokenRecord is the registry state of a token. Detail.MaximumSupply is the
// total supply including every secondary issue.
type TokenRecord struct {
	Detail TokenDetail
	Point  Point
	Height uint32
}

type CertRecord struct {
	Cert   TokenCert
	Point  Point
	Height uint32
}

type UIDRecord struct {
	Detail UIDDetail
	Point  Point
	Height uint32
}

type CandidateRecord struct {
	Info   CandidateInfo
	Point  Point
	Height uint32
}

func appendRecordTail(buf []byte, point Point, height uint32) []byte {
	buf = append(buf, point.Bytes()...)
	return appendUint32(buf, height)
}

func decodeRecordTail(r io.Reader) (Point, uint32, error) {
	var p Point
	if err := p.Decode(r); err != nil {
		return Point{}, 0, err
	}

	height, err := readUint32(r)
	if err != nil {
		return Point{}, 0, errors.NewDecodeError("failed to read record height", err)
	}

	return p, height, nil
}

func (t *TokenRecord) Bytes() []byte {
	buf := make([]byte, 0, t.Detail.serializedSize()+PointSize+4)
	return appendRecordTail(t.Detail.appendTo(buf), t.Point, t.Height)
}

func NewTokenRecordFromBytes(b []byte) (*TokenRecord, error) {
	r := bytes.NewReader(b)

	data, err := decodeToken(r)
	if err != nil {
		return nil, err
	}

	detail, ok := data.(*TokenDetail)
	if !ok {
		return nil, errors.NewStorageCorruptError("token record holds a transfer")
	}

	t := &TokenRecord{Detail: *detail}
	if t.Point, t.Height, err = decodeRecordTail(r); err != nil {
		return nil, err
	}

	return t, nil
}

// Accumulate applies a secondary issue record on top of prior and returns
// the new registry state.
func (t *TokenRecord) Accumulate(prior *TokenRecord) (*TokenRecord, error) {
	if prior.Detail.MaximumSupply > math.MaxUint64-t.Detail.MaximumSupply {
		return nil, errors.NewTokenAmountOverflowError("secondary issue of %s overflows total supply", t.Detail.Symbol)
	}

	merged := *prior
	merged.Detail.Status = TokenStatusSecondaryIssue
	merged.Detail.MaximumSupply += t.Detail.MaximumSupply
	merged.Detail.SecondaryIssueThreshold = t.Detail.SecondaryIssueThreshold
	merged.Point = t.Point
	merged.Height = t.Height

	return &merged, nil
}

func (c *CertRecord) Bytes() []byte {
	buf := make([]byte, 0, c.Cert.serializedSize()+PointSize+4)
	return appendRecordTail(c.Cert.appendTo(buf), c.Point, c.Height)
}

func NewCertRecordFromBytes(b []byte) (*CertRecord, error) {
	r := bytes.NewReader(b)

	c := &CertRecord{}
	if err := c.Cert.decode(r); err != nil {
		return nil, err
	}

	var err error
	if c.Point, c.Height, err = decodeRecordTail(r); err != nil {
		return nil, err
	}

	return c, nil
}

func (u *UIDRecord) Bytes() []byte {
	buf := make([]byte, 0, u.Detail.serializedSize()+PointSize+4)
	return appendRecordTail(u.Detail.appendTo(buf), u.Point, u.Height)
}

func NewUIDRecordFromBytes(b []byte) (*UIDRecord, error) {
	r := bytes.NewReader(b)

	u := &UIDRecord{}
	if err := u.Detail.decode(r); err != nil {
		return nil, err
	}

	var err error
	if u.Point, u.Height, err = decodeRecordTail(r); err != nil {
		return nil, err
	}

	return u, nil
}

func (c *CandidateRecord) Bytes() []byte {
	buf := make([]byte, 0, c.Info.serializedSize()+PointSize+4)
	return appendRecordTail(c.Info.appendTo(buf), c.Point, c.Height)
}

func NewCandidateRecordFromBytes(b []byte) (*CandidateRecord, error) {
	r := bytes.NewReader(b)

	c := &CandidateRecord{}
	if err := c.Info.decode(r); err != nil {
		return nil, err
	}

	var err error
	if c.Point, c.Height, err = decodeRecordTail(r); err != nil {
		return nil, err
	}

	return c, nil
}

// Registration is one registry record created by an output. Exactly one of
// the record fields is set.
type Registration struct {
	// Key is the symbol hash, or the cert key for certificates.
	Key     chainhash.Hash
	Symbol  string
	Address string

	Token     *TokenRecord
	Cert      *CertRecord
	UID       *UIDRecord
	Candidate *CandidateRecord
}

// IsSecondaryIssue reports whether the token record must be accumulated
// onto the prior registry state.
func (r *Registration) IsSecondaryIssue() bool {
	return r.Token != nil && r.Token.Detail.Status == TokenStatusSecondaryIssue
}

// Registrations returns the registry records created by the transaction's
// outputs when confirmed at height, in output order.
func (tx *Tx) Registrations(height uint32) []Registration {
	hash := tx.Hash()

	var registrations []Registration

	for i, out := range tx.Outputs {
		point := Point{Hash: hash, Index: uint32(i)}

		switch data := out.Attachment.Data.(type) {
		case *TokenDetail:
			registrations = append(registrations, Registration{
				Key:     SymbolHash(data.Symbol),
				Symbol:  data.Symbol,
				Address: data.Address,
				Token:   &TokenRecord{Detail: *data, Point: point, Height: height},
			})
		case *TokenCert:
			registrations = append(registrations, Registration{
				Key:     CertKey(data.Symbol, data.CertType),
				Symbol:  data.Symbol,
				Address: data.Address,
				Cert:    &CertRecord{Cert: *data, Point: point, Height: height},
			})
		case *UIDDetail:
			registrations = append(registrations, Registration{
				Key:     SymbolHash(data.Symbol),
				Symbol:  data.Symbol,
				Address: data.Address,
				UID:     &UIDRecord{Detail: *data, Point: point, Height: height},
			})
		case *CandidateInfo:
			registrations = append(registrations, Registration{
				Key:       SymbolHash(data.Symbol),
				Symbol:    data.Symbol,
				Address:   data.Address,
				Candidate: &CandidateRecord{Info: *data, Point: point, Height: height},
			})
		}
	}

	return registrations
}
