package validator

import (
	"bytes"
	"math"
	"math/bits"

	"github.com/mvs-org/mvsd/errors"
	"github.com/mvs-org/mvsd/model"
	"github.com/mvs-org/mvsd/script"
)

// checkTokenIssue enforces a first issue: one issue output, a fresh symbol,
// and autoissue certificates consistent with the token.
func (tv *TxValidator) checkTokenIssue(c *txContext) error {
	indexes := c.outputsWhere((*model.Output).IsTokenIssue)
	if len(indexes) == 0 {
		return nil
	}

	if len(indexes) > 1 {
		return errors.NewTokenIssueError("transaction carries %d token issues", len(indexes))
	}

	out := c.tx.Outputs[indexes[0]]

	detail, err := out.TokenDetail()
	if err != nil {
		return err
	}

	if !out.CheckAddressBinding(c.versions) {
		return errors.NewTokenAddressNotMatchError("token %s output does not pay %s", detail.Symbol, detail.Address)
	}

	exists, err := c.view.TokenExists(detail.Symbol)
	if err != nil {
		return err
	}

	if exists {
		return errors.NewTokenExistsError("token %s is already issued", detail.Symbol)
	}

	present, err := autoIssuedCerts(c, detail)
	if err != nil {
		return err
	}

	if c.tx.Version < model.TxVersionCheckNovaFeature {
		return nil
	}

	return tv.checkIssueCertificates(c, detail, present)
}

// autoIssuedCerts checks the autoissue certificates against the token and
// returns the mask of their types.
func autoIssuedCerts(c *txContext, detail *model.TokenDetail) (uint32, error) {
	var present uint32

	for _, out := range c.tx.Outputs {
		if !out.IsCertAutoIssue() {
			continue
		}

		cert, err := out.Cert()
		if err != nil {
			return 0, err
		}

		var symbol string

		switch cert.CertType {
		case model.CertTypeIssue:
			symbol = detail.Symbol
		case model.CertTypeDomain:
			symbol = model.TokenDomain(detail.Symbol)
		default:
			return 0, errors.NewCertIssueError("certificate type %d cannot be auto issued", cert.CertType)
		}

		if cert.Symbol != symbol {
			return 0, errors.NewSymbolNotMatchError("certificate %s issued with token %s", cert.Symbol, detail.Symbol)
		}

		if cert.Owner != detail.Issuer || cert.Address != detail.Address {
			return 0, errors.NewCertIssueError("certificate %s not issued to %s at %s", cert.Symbol, detail.Issuer, detail.Address)
		}

		mask := model.CertMask(cert.CertType)
		if present&mask != 0 {
			return 0, errors.NewCertIssueError("duplicate certificate %s of type %d", cert.Symbol, cert.CertType)
		}

		present |= mask
	}

	return present, nil
}

// checkIssueCertificates requires the issue certificate and, for an
// unclaimed domain, the domain certificate issued to a uid bound to the
// token address. Issuing under a domain owned by someone else spends a
// naming certificate held by the issuer.
func (tv *TxValidator) checkIssueCertificates(c *txContext, detail *model.TokenDetail, present uint32) error {
	required := model.CertMask(model.CertTypeIssue)
	domain := model.TokenDomain(detail.Symbol)

	domainCert, err := c.view.GetCert(domain, model.CertTypeDomain)

	switch {
	case errors.Is(err, errors.ErrCertNotExists):
		required |= model.CertMask(model.CertTypeDomain)

		issuer, err := c.view.GetUID(detail.Issuer)
		if err != nil {
			return err
		}

		if issuer.Detail.Address != detail.Address {
			return errors.NewUIDAddressNotMatchError("issuer %s is bound to %s, not %s", detail.Issuer, issuer.Detail.Address, detail.Address)
		}
	case err != nil:
		return err
	case domainCert.Cert.Owner != detail.Issuer:
		naming, err := c.view.GetCert(detail.Symbol, model.CertTypeNaming)
		if err != nil {
			return err
		}

		if naming.Cert.Owner != detail.Issuer || !c.spends(naming.Point) {
			return errors.NewCertNotOwnedError("token %s under domain %s needs the naming certificate", detail.Symbol, domain)
		}
	}

	if present&required != required {
		return errors.NewCertIssueError("token %s needs certificates %b, has %b", detail.Symbol, required, present)
	}

	return nil
}

// checkSecondaryIssue enforces issuing more of an existing token. The issuer
// must hold the threshold share of the current supply among the inputs.
func (tv *TxValidator) checkSecondaryIssue(c *txContext) error {
	indexes := c.outputsWhere((*model.Output).IsTokenSecondaryIssue)
	if len(indexes) == 0 {
		return nil
	}

	if len(indexes) > 1 {
		return errors.NewTokenSecondaryIssueError("transaction carries %d secondary issues", len(indexes))
	}

	out := c.tx.Outputs[indexes[0]]

	detail, err := out.TokenDetail()
	if err != nil {
		return err
	}

	if !out.CheckAddressBinding(c.versions) {
		return errors.NewTokenAddressNotMatchError("token %s output does not pay %s", detail.Symbol, detail.Address)
	}

	record, err := c.view.GetToken(detail.Symbol)
	if err != nil {
		return err
	}

	if record.Detail.Issuer != detail.Issuer {
		return errors.NewTokenSecondaryIssueError("token %s is issued by %s, not %s", detail.Symbol, record.Detail.Issuer, detail.Issuer)
	}

	if !c.hasInputFrom(detail.Address) {
		return errors.NewTokenSecondaryIssueError("token %s secondary issue has no input from %s", detail.Symbol, detail.Address)
	}

	threshold := record.Detail.SecondaryIssueThreshold

	switch threshold {
	case model.ForbiddenThreshold:
		return errors.NewTokenSecondaryIssueError("token %s forbids secondary issue", detail.Symbol)
	case model.FreelyThreshold:
	default:
		held, err := heldQuantity(c, detail.Symbol, detail.Address)
		if err != nil {
			return err
		}

		if !meetsThreshold(held, record.Detail.MaximumSupply, threshold) {
			return errors.NewTokenSecondaryIssueShareError("issuer holds %d of %d %s, %d%% required", held, record.Detail.MaximumSupply, detail.Symbol, threshold)
		}
	}

	if record.Detail.MaximumSupply > math.MaxUint64-detail.MaximumSupply {
		return errors.NewTokenAmountOverflowError("secondary issue of %s overflows the supply", detail.Symbol)
	}

	if cert, err := c.view.GetCert(detail.Symbol, model.CertTypeIssue); err == nil && cert.Cert.Owner != detail.Issuer {
		return errors.NewCertNotOwnedError("issue certificate of %s is owned by %s", detail.Symbol, cert.Cert.Owner)
	} else if err != nil && !errors.Is(err, errors.ErrCertNotExists) {
		return err
	}

	return nil
}

// heldQuantity sums the symbol held by inputs spending outputs paid to address.
func heldQuantity(c *txContext, symbol string, address string) (uint64, error) {
	var held uint64

	for i, in := range c.inputs {
		if s, err := in.Output.TokenSymbol(); err != nil || s != symbol {
			continue
		}

		if from, ok := c.inputAddress(i); !ok || from != address {
			continue
		}

		amount, err := in.Output.TokenAmount()
		if err != nil {
			return 0, err
		}

		if amount > math.MaxUint64-held {
			return 0, errors.NewTokenAmountOverflowError("held %s overflows", symbol)
		}

		held += amount
	}

	return held, nil
}

// meetsThreshold reports held/supply >= threshold/100 without overflow.
func meetsThreshold(held uint64, supply uint64, threshold uint8) bool {
	heldHi, heldLo := bits.Mul64(held, 100)
	needHi, needLo := bits.Mul64(supply, uint64(threshold))

	return heldHi > needHi || (heldHi == needHi && heldLo >= needLo)
}

// holding is the single asset of one kind carried by a transaction's inputs.
type holding struct {
	symbol string
	set    bool
}

func (h *holding) add(symbol string) bool {
	if h.set && h.symbol != symbol {
		return false
	}

	h.symbol, h.set = symbol, true

	return true
}

// certHolding identifies a certificate by symbol and type.
func certHolding(data *model.TokenCert) string {
	key := model.CertKey(data.Symbol, data.CertType)

	return string(key[:])
}

// checkTransferSymbols requires the inputs to hold at most one symbol per
// asset kind and every transfer output to carry that symbol forward. Token
// quantities are conserved; vote outputs of another token are exempt.
func (tv *TxValidator) checkTransferSymbols(c *txContext) error {
	var (
		token, cert, uid, candidate holding
		tokenIn                     uint64
	)

	for i, in := range c.inputs {
		out := in.Output

		switch data := out.Attachment.Data.(type) {
		case *model.TokenDetail, *model.TokenTransfer:
			symbol, _ := out.TokenSymbol()
			if !token.add(symbol) {
				return errors.NewSymbolNotMatchError("input %d holds %s, other inputs hold %s", i, symbol, token.symbol)
			}

			amount, _ := out.TokenAmount()
			if amount > math.MaxUint64-tokenIn {
				return errors.NewTokenAmountOverflowError("input %s quantity overflows", symbol)
			}

			tokenIn += amount
		case *model.TokenCert:
			if !cert.add(certHolding(data)) {
				return errors.NewSymbolNotMatchError("input %d holds certificate %s, other inputs hold another", i, data.Symbol)
			}
		case *model.UIDDetail:
			if !uid.add(data.Symbol) {
				return errors.NewSymbolNotMatchError("input %d holds uid %s, other inputs hold %s", i, data.Symbol, uid.symbol)
			}
		case *model.CandidateInfo:
			if !candidate.add(data.Symbol) {
				return errors.NewSymbolNotMatchError("input %d holds candidate %s, other inputs hold %s", i, data.Symbol, candidate.symbol)
			}
		}
	}

	var tokenOut uint64

	for i, out := range c.tx.Outputs {
		switch data := out.Attachment.Data.(type) {
		case *model.TokenTransfer:
			if !token.set || data.Symbol != token.symbol {
				if out.IsVoteOutput(tv.params.VoteTokenSymbol) {
					continue
				}

				return errors.NewSymbolNotMatchError("output %d transfers %s, inputs hold %q", i, data.Symbol, token.symbol)
			}

			if data.Quantity > math.MaxUint64-tokenOut {
				return errors.NewTokenAmountOverflowError("output %s quantity overflows", data.Symbol)
			}

			tokenOut += data.Quantity
		case *model.TokenCert:
			if data.Status == model.CertStatusTransfer && certHolding(data) != cert.symbol {
				return errors.NewSymbolNotMatchError("output %d transfers certificate %s not held by the inputs", i, data.Symbol)
			}
		case *model.UIDDetail:
			if data.Status == model.StatusTransfer && data.Symbol != uid.symbol {
				return errors.NewSymbolNotMatchError("output %d transfers uid %s, inputs hold %q", i, data.Symbol, uid.symbol)
			}
		case *model.CandidateInfo:
			if data.Status == model.StatusTransfer && data.Symbol != candidate.symbol {
				return errors.NewSymbolNotMatchError("output %d transfers candidate %s, inputs hold %q", i, data.Symbol, candidate.symbol)
			}
		}
	}

	if tokenIn != tokenOut {
		return errors.NewTokenAmountNotMatchError("inputs hold %d %s, outputs transfer %d", tokenIn, token.symbol, tokenOut)
	}

	return nil
}

// checkAttenuationSpends checks outputs that lock tokens under an
// attenuation model and inputs that spend such outputs. A fresh lock must
// be valid for the quantity it locks; spending a locked output must re-lock
// what is still locked under the advanced model.
func (tv *TxValidator) checkAttenuationSpends(c *txContext) error {
	relocks := make(map[model.Point]int)
	null := model.NullPoint.Bytes()

	for i, out := range c.tx.Outputs {
		param, ok := script.AttenuationModelParam(out.Script)
		if !ok {
			continue
		}

		if c.height < tv.params.AttenuationHeight {
			return errors.NewAttenuationModelParamError("attenuation is not active at height %d", c.height)
		}

		amount, err := out.TokenAmount()
		if err != nil {
			return errors.NewAttenuationModelParamError("output %d locks no token", i, err)
		}

		m, err := model.ParseAttenuationModel(param)
		if err != nil {
			return err
		}

		pointBytes, _ := script.AttenuationInputPoint(out.Script)
		if bytes.Equal(pointBytes, null) {
			if err = m.Validate(amount); err != nil {
				return err
			}

			continue
		}

		point, err := model.NewPointFromBytes(pointBytes)
		if err != nil {
			return errors.NewAttenuationModelParamError("output %d input point", i, err)
		}

		if _, dup := relocks[point]; dup {
			return errors.NewAttenuationModelParamError("output %d re-locks %s twice", i, point)
		}

		relocks[point] = i
	}

	for i, in := range c.inputs {
		param, ok := script.AttenuationModelParam(in.Output.Script)
		if !ok {
			continue
		}

		m, err := model.ParseAttenuationModel(param)
		if err != nil {
			return err
		}

		index, relocked := relocks[in.Point]
		delete(relocks, in.Point)

		next, locked := m.Advance(uint64(c.height - in.Height))
		if !locked {
			if relocked {
				return errors.NewAttenuationModelParamError("output %d re-locks the fully unlocked input %d", index, i)
			}

			continue
		}

		if !relocked {
			return errors.NewAttenuationQuantityLockedError("input %d spends %d locked tokens", i, next.LockedNow())
		}

		out := c.tx.Outputs[index]
		outParam, _ := script.AttenuationModelParam(out.Script)

		if !bytes.Equal(outParam, next.Encode()) {
			return errors.NewAttenuationModelParamError("output %d does not continue the model of input %d", index, i)
		}

		inSymbol, _ := in.Output.TokenSymbol()
		outSymbol, _ := out.TokenSymbol()
		amount, _ := out.TokenAmount()

		if inSymbol != outSymbol || amount < next.LockedNow() {
			return errors.NewAttenuationQuantityLockedError("output %d re-locks %d %s, %d %s still locked", index, amount, outSymbol, next.LockedNow(), inSymbol)
		}
	}

	for point, index := range relocks {
		return errors.NewAttenuationModelParamError("output %d re-locks %s which is not spent", index, point)
	}

	return nil
}
