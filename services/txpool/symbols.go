package txpool

import (
	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/mvs-org/mvsd/errors"
	"github.com/mvs-org/mvsd/model"
)

type claimKind uint8

const (
	claimToken claimKind = iota
	claimCert
	claimCandidate
	claimUID
	claimUIDAddress
)

func (k claimKind) String() string {
	switch k {
	case claimToken:
		return "token"
	case claimCert:
		return "cert"
	case claimCandidate:
		return "candidate"
	case claimUID:
		return "uid"
	default:
		return "uid address"
	}
}

type symbolClaim struct {
	kind claimKind
	key  chainhash.Hash
}

// claimsOf returns the names an output reserves while its transaction is
// unconfirmed. Every uid output reserves both its symbol and its address.
func claimsOf(out *model.Output) []symbolClaim {
	switch data := out.Attachment.Data.(type) {
	case *model.TokenDetail:
		if data.Status == model.TokenStatusIssue {
			return []symbolClaim{{kind: claimToken, key: model.SymbolHash(data.Symbol)}}
		}
	case *model.TokenCert:
		return []symbolClaim{{kind: claimCert, key: model.CertKey(data.Symbol, data.CertType)}}
	case *model.CandidateInfo:
		return []symbolClaim{{kind: claimCandidate, key: model.SymbolHash(data.Symbol)}}
	case *model.UIDDetail:
		return []symbolClaim{
			{kind: claimUID, key: model.SymbolHash(data.Symbol)},
			{kind: claimUIDAddress, key: model.AddressHash(data.Address)},
		}
	}

	return nil
}

// checkSymbolRepeat rejects tx when one of its claims collides with
// another of its own outputs or with any transaction already pooled.
func (b *txBuffer) checkSymbolRepeat(tx *model.Tx) error {
	claims := make(map[symbolClaim]int)

	for i, out := range tx.Outputs {
		for _, claim := range claimsOf(out) {
			if first, found := claims[claim]; found {
				return errors.NewPoolSymbolRepeatError("outputs %d and %d claim the same %s", first, i, claim.kind)
			}

			claims[claim] = i
		}
	}

	if len(claims) == 0 {
		return nil
	}

	var err error

	b.each(func(entry *poolEntry) bool {
		for _, out := range entry.tx.Outputs {
			for _, claim := range claimsOf(out) {
				if i, found := claims[claim]; found {
					err = errors.NewPoolSymbolRepeatError("output %d claims a %s already claimed by pool transaction %s", i, claim.kind, entry.hash)
					return false
				}
			}
		}

		return true
	})

	return err
}
