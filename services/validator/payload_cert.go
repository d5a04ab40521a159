package validator

import (
	"github.com/mvs-org/mvsd/errors"
	"github.com/mvs-org/mvsd/model"
)

type certOutput struct {
	index int
	cert  *model.TokenCert
}

// checkCerts enforces certificate issue and transfer. A transaction issues
// or transfers at most one certificate, never both; autoissue certificates
// only accompany a token issue and are checked with it.
func (tv *TxValidator) checkCerts(c *txContext) error {
	indexes := c.outputsWhere((*model.Output).IsTokenCert)
	if len(indexes) == 0 {
		return nil
	}

	var issues, transfers, autos []certOutput

	for _, i := range indexes {
		out := c.tx.Outputs[i]

		cert, err := out.Cert()
		if err != nil {
			return err
		}

		if address, ok := c.outputAddress(out); !ok || address != cert.Address {
			return errors.NewCertIssueError("certificate %s output does not pay %s", cert.Symbol, cert.Address)
		}

		switch cert.Status {
		case model.CertStatusIssue:
			issues = append(issues, certOutput{index: i, cert: cert})
		case model.CertStatusTransfer:
			transfers = append(transfers, certOutput{index: i, cert: cert})
		case model.CertStatusAutoIssue:
			autos = append(autos, certOutput{index: i, cert: cert})
		}
	}

	if len(autos) > 0 && len(c.outputsWhere((*model.Output).IsTokenIssue)) == 0 {
		return errors.NewCertIssueError("autoissue certificate without a token issue")
	}

	if len(issues)+len(transfers) > 1 {
		return errors.NewCertIssueError("transaction issues %d and transfers %d certificates", len(issues), len(transfers))
	}

	for _, issue := range issues {
		if err := tv.checkCertIssue(c, issue.cert); err != nil {
			return err
		}
	}

	for _, transfer := range transfers {
		if err := tv.checkCertTransfer(c, transfer.cert); err != nil {
			return err
		}
	}

	return nil
}

// checkCertIssue covers explicitly issued domain and naming certificates.
// A naming certificate is issued by the owner of its domain certificate.
func (tv *TxValidator) checkCertIssue(c *txContext, cert *model.TokenCert) error {
	domain := model.TokenDomain(cert.Symbol)

	switch cert.CertType {
	case model.CertTypeDomain:
		if domain != cert.Symbol {
			return errors.NewCertIssueError("domain certificate %s is not a domain", cert.Symbol)
		}
	case model.CertTypeNaming:
		if domain == cert.Symbol {
			return errors.NewCertIssueError("naming certificate %s has no domain", cert.Symbol)
		}
	default:
		return errors.NewCertIssueError("certificate type %d cannot be issued directly", cert.CertType)
	}

	exists, err := c.view.CertExists(cert.Symbol, cert.CertType)
	if err != nil {
		return err
	}

	if exists {
		return errors.NewCertExistsError("certificate %s of type %d exists", cert.Symbol, cert.CertType)
	}

	if err = checkOwnerBinding(c, cert); err != nil {
		return err
	}

	if cert.CertType == model.CertTypeDomain {
		if !c.hasInputFrom(cert.Address) {
			return errors.NewCertNotOwnedError("domain certificate %s issued without an input from %s", cert.Symbol, cert.Address)
		}

		return nil
	}

	tokenExists, err := c.view.TokenExists(cert.Symbol)
	if err != nil {
		return err
	}

	if tokenExists {
		return errors.NewTokenExistsError("naming certificate %s names an issued token", cert.Symbol)
	}

	domainCert, err := c.view.GetCert(domain, model.CertTypeDomain)
	if err != nil {
		return err
	}

	domainOwner, err := c.view.GetUID(domainCert.Cert.Owner)
	if err != nil {
		return err
	}

	if domainOwner.Detail.Address != domainCert.Cert.Address || !c.hasInputFrom(domainOwner.Detail.Address) {
		return errors.NewCertNotOwnedError("naming certificate %s not issued by the owner of domain %s", cert.Symbol, domain)
	}

	return nil
}

func (tv *TxValidator) checkCertTransfer(c *txContext, cert *model.TokenCert) error {
	record, err := c.view.GetCert(cert.Symbol, cert.CertType)
	if err != nil {
		return err
	}

	if !c.spends(record.Point) {
		return errors.NewCertTransferError("certificate %s transfer does not spend %s", cert.Symbol, record.Point)
	}

	return checkOwnerBinding(c, cert)
}

// checkOwnerBinding requires the certificate owner to be a uid bound to the
// certificate address.
func checkOwnerBinding(c *txContext, cert *model.TokenCert) error {
	owner, err := c.view.GetUID(cert.Owner)
	if err != nil {
		return err
	}

	if owner.Detail.Address != cert.Address {
		return errors.NewUIDAddressNotMatchError("certificate owner %s is bound to %s, not %s", cert.Owner, owner.Detail.Address, cert.Address)
	}

	return nil
}
