package model

import (
	"io"

	"github.com/mvs-org/mvsd/errors"
)

// Attachment versions. The uid version carries to and from uid bindings
// ahead of the payload.
const (
	AttachmentVersion    uint32 = 1
	AttachmentVersionUID uint32 = 207
)

type AttachmentType uint32

const (
	AttachmentCurrency      AttachmentType = 0
	AttachmentCurrencyAward AttachmentType = 1
	AttachmentToken         AttachmentType = 2
	AttachmentMessage       AttachmentType = 3
	AttachmentCert          AttachmentType = 4
	AttachmentUID           AttachmentType = 6
	AttachmentCandidate     AttachmentType = 7
)

// AttachmentData is implemented only by the payload types of this package.
type AttachmentData interface {
	Type() AttachmentType
	IsValid() bool

	appendTo(buf []byte) []byte
	serializedSize() int
}

// Attachment is the typed payload carried by every output. A nil Data is
// a plain currency payload.
type Attachment struct {
	Version uint32
	ToUID   string
	FromUID string
	Data    AttachmentData
}

// NewAttachment returns a version 1 attachment around data.
func NewAttachment(data AttachmentData) Attachment {
	return Attachment{Version: AttachmentVersion, Data: data}
}

func (a *Attachment) Type() AttachmentType {
	if a.Data == nil {
		return AttachmentCurrency
	}

	return a.Data.Type()
}

func (a *Attachment) payload() AttachmentData {
	if a.Data == nil {
		return &Currency{}
	}

	return a.Data
}

// IsValid checks the version and the internal consistency of the payload.
func (a *Attachment) IsValid() bool {
	switch a.Version {
	case AttachmentVersion:
		if a.ToUID != "" || a.FromUID != "" {
			return false
		}
	case AttachmentVersionUID:
	default:
		return false
	}

	return a.payload().IsValid()
}

func (a *Attachment) appendTo(buf []byte) []byte {
	data := a.payload()

	buf = appendUint32(buf, a.Version)
	buf = appendUint32(buf, uint32(data.Type()))

	if a.Version == AttachmentVersionUID {
		buf = appendString(buf, a.ToUID)
		buf = appendString(buf, a.FromUID)
	}

	return data.appendTo(buf)
}

func (a *Attachment) SerializedSize() int {
	size := 8
	if a.Version == AttachmentVersionUID {
		size += varBytesSize(len(a.ToUID)) + varBytesSize(len(a.FromUID))
	}

	return size + a.payload().serializedSize()
}

func (a *Attachment) Bytes() []byte {
	return a.appendTo(make([]byte, 0, a.SerializedSize()))
}

// Decode reads an attachment. On failure the attachment is reset.
func (a *Attachment) Decode(r io.Reader) error {
	if err := a.decode(r); err != nil {
		*a = Attachment{}
		return err
	}

	return nil
}

func (a *Attachment) decode(r io.Reader) error {
	var err error

	if a.Version, err = readUint32(r); err != nil {
		return errors.NewDecodeError("failed to read attachment version", err)
	}

	kind, err := readUint32(r)
	if err != nil {
		return errors.NewDecodeError("failed to read attachment type", err)
	}

	a.ToUID, a.FromUID = "", ""

	if a.Version == AttachmentVersionUID {
		if a.ToUID, err = readString(r); err != nil {
			return errors.NewDecodeError("failed to read attachment to uid", err)
		}

		if a.FromUID, err = readString(r); err != nil {
			return errors.NewDecodeError("failed to read attachment from uid", err)
		}
	}

	a.Data, err = decodeAttachmentData(AttachmentType(kind), r)

	return err
}

func decodeAttachmentData(kind AttachmentType, r io.Reader) (AttachmentData, error) {
	switch kind {
	case AttachmentCurrency:
		return &Currency{}, nil
	case AttachmentCurrencyAward:
		height, err := readUint64(r)
		if err != nil {
			return nil, errors.NewDecodeError("failed to read award height", err)
		}

		return &CurrencyAward{Height: height}, nil
	case AttachmentToken:
		return decodeToken(r)
	case AttachmentMessage:
		content, err := readString(r)
		if err != nil {
			return nil, errors.NewDecodeError("failed to read message", err)
		}

		return &Message{Content: content}, nil
	case AttachmentCert:
		cert := &TokenCert{}
		return cert, cert.decode(r)
	case AttachmentUID:
		uid := &UIDDetail{}
		return uid, uid.decode(r)
	case AttachmentCandidate:
		candidate := &CandidateInfo{}
		return candidate, candidate.decode(r)
	default:
		return nil, errors.NewDecodeError("unknown attachment type %d", kind)
	}
}
