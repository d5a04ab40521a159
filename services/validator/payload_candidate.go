package validator

import (
	"github.com/mvs-org/mvsd/errors"
	"github.com/mvs-org/mvsd/model"
)

// checkCandidates enforces candidate registration and transfer. Register
// and transfer never share a transaction.
func (tv *TxValidator) checkCandidates(c *txContext) error {
	indexes := c.outputsWhere((*model.Output).IsCandidate)
	if len(indexes) == 0 {
		return nil
	}

	if len(indexes) > 1 {
		return errors.NewCandidateRegisterError("transaction carries %d candidate outputs", len(indexes))
	}

	out := c.tx.Outputs[indexes[0]]

	candidate, err := out.Candidate()
	if err != nil {
		return err
	}

	if address, ok := c.outputAddress(out); !ok || address != candidate.Address {
		return errors.NewCandidateRegisterError("candidate %s output does not pay %s", candidate.Symbol, candidate.Address)
	}

	if out.IsCandidateRegister() {
		exists, err := c.view.CandidateExists(candidate.Symbol)
		if err != nil {
			return err
		}

		if exists {
			return errors.NewCandidateExistsError("candidate %s is already registered", candidate.Symbol)
		}

		return nil
	}

	record, err := c.view.GetCandidate(candidate.Symbol)
	if err != nil {
		return err
	}

	if !c.spends(record.Point) {
		return errors.NewCandidateTransferError("candidate %s transfer does not spend %s", candidate.Symbol, record.Point)
	}

	return nil
}
