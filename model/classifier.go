package model

import (
	"github.com/mvs-org/mvsd/errors"
	"github.com/mvs-org/mvsd/script"
)

// Kind is the classification of an output's attachment.
type Kind int

const (
	KindInvalid Kind = iota
	KindCurrency
	KindCurrencyAward
	KindTokenIssue
	KindTokenSecondaryIssue
	KindTokenTransfer
	KindTokenCert
	KindUIDRegister
	KindUIDTransfer
	KindCandidateRegister
	KindCandidateTransfer
	KindMessage
)

var kindNames = [...]string{
	"invalid",
	"currency",
	"currency_award",
	"token_issue",
	"token_secondary_issue",
	"token_transfer",
	"token_cert",
	"uid_register",
	"uid_transfer",
	"candidate_register",
	"candidate_transfer",
	"message",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return "unknown"
}

// Kind classifies the attachment by its type and status discriminants.
func (o *Output) Kind() Kind {
	switch data := o.Attachment.payload().(type) {
	case *Currency:
		return KindCurrency
	case *CurrencyAward:
		return KindCurrencyAward
	case *TokenDetail:
		switch data.Status {
		case TokenStatusIssue:
			return KindTokenIssue
		case TokenStatusSecondaryIssue:
			return KindTokenSecondaryIssue
		}
	case *TokenTransfer:
		return KindTokenTransfer
	case *TokenCert:
		return KindTokenCert
	case *UIDDetail:
		switch data.Status {
		case StatusRegister:
			return KindUIDRegister
		case StatusTransfer:
			return KindUIDTransfer
		}
	case *CandidateInfo:
		switch data.Status {
		case StatusRegister:
			return KindCandidateRegister
		case StatusTransfer:
			return KindCandidateTransfer
		}
	case *Message:
		return KindMessage
	}

	return KindInvalid
}

func (o *Output) IsCurrency() bool            { return o.Kind() == KindCurrency }
func (o *Output) IsCurrencyAward() bool       { return o.Kind() == KindCurrencyAward }
func (o *Output) IsTokenIssue() bool          { return o.Kind() == KindTokenIssue }
func (o *Output) IsTokenSecondaryIssue() bool { return o.Kind() == KindTokenSecondaryIssue }
func (o *Output) IsTokenTransfer() bool       { return o.Kind() == KindTokenTransfer }
func (o *Output) IsTokenCert() bool           { return o.Kind() == KindTokenCert }
func (o *Output) IsUIDRegister() bool         { return o.Kind() == KindUIDRegister }
func (o *Output) IsUIDTransfer() bool         { return o.Kind() == KindUIDTransfer }
func (o *Output) IsCandidateRegister() bool   { return o.Kind() == KindCandidateRegister }
func (o *Output) IsCandidateTransfer() bool   { return o.Kind() == KindCandidateTransfer }
func (o *Output) IsMessage() bool             { return o.Kind() == KindMessage }

// IsToken reports whether the output carries any token payload.
func (o *Output) IsToken() bool {
	switch o.Kind() {
	case KindTokenIssue, KindTokenSecondaryIssue, KindTokenTransfer:
		return true
	default:
		return false
	}
}

func (o *Output) IsUID() bool {
	return o.IsUIDRegister() || o.IsUIDTransfer()
}

func (o *Output) IsCandidate() bool {
	return o.IsCandidateRegister() || o.IsCandidateTransfer()
}

func (o *Output) certWithStatus(status uint8) bool {
	cert, ok := o.Attachment.Data.(*TokenCert)
	return ok && cert.Status == status
}

func (o *Output) certWithType(certType uint32) bool {
	cert, ok := o.Attachment.Data.(*TokenCert)
	return ok && cert.CertType == certType
}

func (o *Output) IsCertIssue() bool     { return o.certWithStatus(CertStatusIssue) }
func (o *Output) IsCertTransfer() bool  { return o.certWithStatus(CertStatusTransfer) }
func (o *Output) IsCertAutoIssue() bool { return o.certWithStatus(CertStatusAutoIssue) }
func (o *Output) IsCertDomain() bool    { return o.certWithType(CertTypeDomain) }
func (o *Output) IsCertNaming() bool    { return o.certWithType(CertTypeNaming) }

// IsVoteOutput reports whether the output is a lock-height transfer of the vote token.
func (o *Output) IsVoteOutput(voteSymbol string) bool {
	transfer, ok := o.Attachment.Data.(*TokenTransfer)

	return ok && transfer.Symbol == voteSymbol && script.IsPayKeyHashWithLockHeight(o.Script)
}

func wrongVariant(o *Output, want string) error {
	return errors.NewWrongVariantError("%s requested from %s output", want, o.Kind())
}

// TokenSymbol returns the symbol of any token payload.
func (o *Output) TokenSymbol() (string, error) {
	switch data := o.Attachment.Data.(type) {
	case *TokenDetail:
		return data.Symbol, nil
	case *TokenTransfer:
		return data.Symbol, nil
	default:
		return "", wrongVariant(o, "token symbol")
	}
}

// TokenAmount returns the quantity moved by a transfer or created by an issue.
func (o *Output) TokenAmount() (uint64, error) {
	switch data := o.Attachment.Data.(type) {
	case *TokenDetail:
		return data.MaximumSupply, nil
	case *TokenTransfer:
		return data.Quantity, nil
	default:
		return 0, wrongVariant(o, "token amount")
	}
}

func (o *Output) TokenDetail() (*TokenDetail, error) {
	if data, ok := o.Attachment.Data.(*TokenDetail); ok {
		return data, nil
	}

	return nil, wrongVariant(o, "token detail")
}

func (o *Output) TokenTransfer() (*TokenTransfer, error) {
	if data, ok := o.Attachment.Data.(*TokenTransfer); ok {
		return data, nil
	}

	return nil, wrongVariant(o, "token transfer")
}

func (o *Output) Cert() (*TokenCert, error) {
	if data, ok := o.Attachment.Data.(*TokenCert); ok {
		return data, nil
	}

	return nil, wrongVariant(o, "certificate")
}

func (o *Output) UID() (*UIDDetail, error) {
	if data, ok := o.Attachment.Data.(*UIDDetail); ok {
		return data, nil
	}

	return nil, wrongVariant(o, "uid")
}

func (o *Output) UIDSymbol() (string, error) {
	uid, err := o.UID()
	if err != nil {
		return "", err
	}

	return uid.Symbol, nil
}

func (o *Output) UIDAddress() (string, error) {
	uid, err := o.UID()
	if err != nil {
		return "", err
	}

	return uid.Address, nil
}

func (o *Output) Candidate() (*CandidateInfo, error) {
	if data, ok := o.Attachment.Data.(*CandidateInfo); ok {
		return data, nil
	}

	return nil, wrongVariant(o, "candidate")
}

func (o *Output) CandidateSymbol() (string, error) {
	candidate, err := o.Candidate()
	if err != nil {
		return "", err
	}

	return candidate.Symbol, nil
}

func (o *Output) Message() (string, error) {
	if data, ok := o.Attachment.Data.(*Message); ok {
		return data.Content, nil
	}

	return "", wrongVariant(o, "message")
}

func (o *Output) AwardHeight() (uint64, error) {
	if data, ok := o.Attachment.Data.(*CurrencyAward); ok {
		return data.Height, nil
	}

	return 0, wrongVariant(o, "award height")
}

// PayloadAddress returns the address declared by token detail, cert, uid
// and candidate payloads.
func (o *Output) PayloadAddress() (string, bool) {
	switch data := o.Attachment.Data.(type) {
	case *TokenDetail:
		return data.Address, true
	case *TokenCert:
		return data.Address, true
	case *UIDDetail:
		return data.Address, true
	case *CandidateInfo:
		return data.Address, true
	default:
		return "", false
	}
}

// CheckAddressBinding reports whether the address declared by a token or
// uid payload matches the address the output script pays to.
func (o *Output) CheckAddressBinding(versions AddressVersions) bool {
	switch o.Attachment.Data.(type) {
	case *TokenDetail, *UIDDetail:
	default:
		return true
	}

	declared, _ := o.PayloadAddress()

	address, ok := AddressFromScript(o.Script, versions)
	if !ok {
		return false
	}

	return address.String() == declared
}
