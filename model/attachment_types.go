package model

import (
	"io"

	"github.com/mvs-org/mvsd/errors"
)

// Token payload statuses.
const (
	TokenStatusIssue          uint32 = 1
	TokenStatusTransfer       uint32 = 2
	TokenStatusSecondaryIssue uint32 = 3
)

// Secondary issue thresholds: 0 forbids secondary issue, 1..100 is the
// percentage of the total supply the issuer must hold, and FreelyThreshold
// allows it unconditionally.
const (
	ForbiddenThreshold uint8 = 0
	MaxThreshold       uint8 = 100
	FreelyThreshold    uint8 = 127

	MaxDecimalNumber = 19
	MaxDescription   = 64 * 1024
)

// Certificate types and their bitmask.
const (
	CertTypeIssue  uint32 = 1
	CertTypeDomain uint32 = 2
	CertTypeNaming uint32 = 3
)

// Certificate statuses.
const (
	CertStatusIssue     uint8 = 1
	CertStatusTransfer  uint8 = 2
	CertStatusAutoIssue uint8 = 3
)

// Uid and candidate statuses.
const (
	StatusRegister uint32 = 1
	StatusTransfer uint32 = 2
)

// CertMask returns the bit for certType in a required certificate mask.
func CertMask(certType uint32) uint32 {
	return 1 << certType
}

type Currency struct{}

func (*Currency) Type() AttachmentType       { return AttachmentCurrency }
func (*Currency) IsValid() bool              { return true }
func (*Currency) appendTo(buf []byte) []byte { return buf }
func (*Currency) serializedSize() int        { return 0 }

// CurrencyAward marks a coinbase output rewarding a lock-height deposit.
type CurrencyAward struct {
	Height uint64
}

func (*CurrencyAward) Type() AttachmentType { return AttachmentCurrencyAward }
func (*CurrencyAward) IsValid() bool        { return true }

func (c *CurrencyAward) appendTo(buf []byte) []byte {
	return appendUint64(buf, c.Height)
}

func (*CurrencyAward) serializedSize() int { return 8 }

// TokenDetail is the payload of a token issue or secondary issue. For a
// secondary issue MaximumSupply is the quantity added.
type TokenDetail struct {
	Status                  uint32
	Symbol                  string
	MaximumSupply           uint64
	DecimalNumber           uint8
	SecondaryIssueThreshold uint8
	Reserved                uint16
	Issuer                  string
	Address                 string
	Description             string
}

func (*TokenDetail) Type() AttachmentType { return AttachmentToken }

func (d *TokenDetail) IsValid() bool {
	if d.Status != TokenStatusIssue && d.Status != TokenStatusSecondaryIssue {
		return false
	}

	return d.Symbol != "" &&
		d.MaximumSupply > 0 &&
		d.DecimalNumber <= MaxDecimalNumber &&
		IsValidThreshold(d.SecondaryIssueThreshold) &&
		d.Issuer != "" &&
		d.Address != "" &&
		len(d.Description) <= MaxDescription
}

// IsValidThreshold reports whether t is a recognised secondary issue threshold.
func IsValidThreshold(t uint8) bool {
	return t <= MaxThreshold || t == FreelyThreshold
}

func (d *TokenDetail) appendTo(buf []byte) []byte {
	buf = appendUint32(buf, d.Status)
	buf = appendString(buf, d.Symbol)
	buf = appendUint64(buf, d.MaximumSupply)
	buf = append(buf, d.DecimalNumber, d.SecondaryIssueThreshold)
	buf = appendUint16(buf, d.Reserved)
	buf = appendString(buf, d.Issuer)
	buf = appendString(buf, d.Address)

	return appendString(buf, d.Description)
}

func (d *TokenDetail) serializedSize() int {
	return 4 + varBytesSize(len(d.Symbol)) + 8 + 1 + 1 + 2 +
		varBytesSize(len(d.Issuer)) + varBytesSize(len(d.Address)) + varBytesSize(len(d.Description))
}

func (d *TokenDetail) decodeBody(r io.Reader) error {
	var err error

	if d.Symbol, err = readString(r); err != nil {
		return errors.NewDecodeError("failed to read token symbol", err)
	}

	if d.MaximumSupply, err = readUint64(r); err != nil {
		return errors.NewDecodeError("failed to read token supply", err)
	}

	if d.DecimalNumber, err = readUint8(r); err != nil {
		return errors.NewDecodeError("failed to read token decimals", err)
	}

	if d.SecondaryIssueThreshold, err = readUint8(r); err != nil {
		return errors.NewDecodeError("failed to read token threshold", err)
	}

	if d.Reserved, err = readUint16(r); err != nil {
		return errors.NewDecodeError("failed to read token reserved", err)
	}

	if d.Issuer, err = readString(r); err != nil {
		return errors.NewDecodeError("failed to read token issuer", err)
	}

	if d.Address, err = readString(r); err != nil {
		return errors.NewDecodeError("failed to read token address", err)
	}

	if d.Description, err = readString(r); err != nil {
		return errors.NewDecodeError("failed to read token description", err)
	}

	return nil
}

type TokenTransfer struct {
	Symbol   string
	Quantity uint64
}

func (*TokenTransfer) Type() AttachmentType { return AttachmentToken }

func (t *TokenTransfer) IsValid() bool {
	return t.Symbol != "" && t.Quantity > 0
}

func (t *TokenTransfer) appendTo(buf []byte) []byte {
	buf = appendUint32(buf, TokenStatusTransfer)
	buf = appendString(buf, t.Symbol)

	return appendUint64(buf, t.Quantity)
}

func (t *TokenTransfer) serializedSize() int {
	return 4 + varBytesSize(len(t.Symbol)) + 8
}

func decodeToken(r io.Reader) (AttachmentData, error) {
	status, err := readUint32(r)
	if err != nil {
		return nil, errors.NewDecodeError("failed to read token status", err)
	}

	if status == TokenStatusTransfer {
		t := &TokenTransfer{}

		if t.Symbol, err = readString(r); err != nil {
			return nil, errors.NewDecodeError("failed to read transfer symbol", err)
		}

		if t.Quantity, err = readUint64(r); err != nil {
			return nil, errors.NewDecodeError("failed to read transfer quantity", err)
		}

		return t, nil
	}

	d := &TokenDetail{Status: status}

	return d, d.decodeBody(r)
}

type TokenCert struct {
	Symbol   string
	Owner    string
	Address  string
	CertType uint32
	Status   uint8
}

func (*TokenCert) Type() AttachmentType { return AttachmentCert }

func (c *TokenCert) IsValid() bool {
	return c.Symbol != "" && c.Owner != "" && c.Address != "" &&
		c.CertType >= CertTypeIssue && c.CertType <= CertTypeNaming &&
		c.Status >= CertStatusIssue && c.Status <= CertStatusAutoIssue
}

func (c *TokenCert) appendTo(buf []byte) []byte {
	buf = appendString(buf, c.Symbol)
	buf = appendString(buf, c.Owner)
	buf = appendString(buf, c.Address)
	buf = appendUint32(buf, c.CertType)

	return append(buf, c.Status)
}

func (c *TokenCert) serializedSize() int {
	return varBytesSize(len(c.Symbol)) + varBytesSize(len(c.Owner)) + varBytesSize(len(c.Address)) + 4 + 1
}

func (c *TokenCert) decode(r io.Reader) error {
	var err error

	if c.Symbol, err = readString(r); err != nil {
		return errors.NewDecodeError("failed to read cert symbol", err)
	}

	if c.Owner, err = readString(r); err != nil {
		return errors.NewDecodeError("failed to read cert owner", err)
	}

	if c.Address, err = readString(r); err != nil {
		return errors.NewDecodeError("failed to read cert address", err)
	}

	if c.CertType, err = readUint32(r); err != nil {
		return errors.NewDecodeError("failed to read cert type", err)
	}

	if c.Status, err = readUint8(r); err != nil {
		return errors.NewDecodeError("failed to read cert status", err)
	}

	return nil
}

type Message struct {
	Content string
}

func (*Message) Type() AttachmentType { return AttachmentMessage }
func (*Message) IsValid() bool        { return true }

func (m *Message) appendTo(buf []byte) []byte {
	return appendString(buf, m.Content)
}

func (m *Message) serializedSize() int {
	return varBytesSize(len(m.Content))
}

// UIDDetail registers or transfers a uid to an address.
type UIDDetail struct {
	Status  uint32
	Symbol  string
	Address string
}

func (*UIDDetail) Type() AttachmentType { return AttachmentUID }

func (u *UIDDetail) IsValid() bool {
	return (u.Status == StatusRegister || u.Status == StatusTransfer) && u.Symbol != "" && u.Address != ""
}

func (u *UIDDetail) appendTo(buf []byte) []byte {
	buf = appendUint32(buf, u.Status)
	buf = appendString(buf, u.Symbol)

	return appendString(buf, u.Address)
}

func (u *UIDDetail) serializedSize() int {
	return 4 + varBytesSize(len(u.Symbol)) + varBytesSize(len(u.Address))
}

func (u *UIDDetail) decode(r io.Reader) error {
	var err error

	if u.Status, err = readUint32(r); err != nil {
		return errors.NewDecodeError("failed to read uid status", err)
	}

	if u.Symbol, err = readString(r); err != nil {
		return errors.NewDecodeError("failed to read uid symbol", err)
	}

	if u.Address, err = readString(r); err != nil {
		return errors.NewDecodeError("failed to read uid address", err)
	}

	return nil
}

// CandidateInfo registers or transfers a vote candidate.
type CandidateInfo struct {
	Status  uint32
	Symbol  string
	Address string
	Content string
}

func (*CandidateInfo) Type() AttachmentType { return AttachmentCandidate }

func (c *CandidateInfo) IsValid() bool {
	return (c.Status == StatusRegister || c.Status == StatusTransfer) && c.Symbol != "" && c.Address != ""
}

func (c *CandidateInfo) appendTo(buf []byte) []byte {
	buf = appendUint32(buf, c.Status)
	buf = appendString(buf, c.Symbol)
	buf = appendString(buf, c.Address)

	return appendString(buf, c.Content)
}

func (c *CandidateInfo) serializedSize() int {
	return 4 + varBytesSize(len(c.Symbol)) + varBytesSize(len(c.Address)) + varBytesSize(len(c.Content))
}

func (c *CandidateInfo) decode(r io.Reader) error {
	var err error

	if c.Status, err = readUint32(r); err != nil {
		return errors.NewDecodeError("failed to read candidate status", err)
	}

	if c.Symbol, err = readString(r); err != nil {
		return errors.NewDecodeError("failed to read candidate symbol", err)
	}

	if c.Address, err = readString(r); err != nil {
		return errors.NewDecodeError("failed to read candidate address", err)
	}

	if c.Content, err = readString(r); err != nil {
		return errors.NewDecodeError("failed to read candidate content", err)
	}

	return nil
}
