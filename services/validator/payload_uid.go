package validator

import (
	"github.com/mvs-org/mvsd/errors"
	"github.com/mvs-org/mvsd/model"
)

// checkUIDs enforces identity registration and transfer. A transaction
// carries at most one uid output, paying the address it names.
func (tv *TxValidator) checkUIDs(c *txContext) error {
	indexes := c.outputsWhere((*model.Output).IsUID)
	if len(indexes) == 0 {
		return nil
	}

	if len(indexes) > 1 {
		return errors.NewUIDRegisterError("transaction carries %d uid outputs", len(indexes))
	}

	out := c.tx.Outputs[indexes[0]]

	uid, err := out.UID()
	if err != nil {
		return err
	}

	if !out.CheckAddressBinding(c.versions) {
		return errors.NewUIDAddressNotMatchError("uid %s output does not pay %s", uid.Symbol, uid.Address)
	}

	if out.IsUIDRegister() {
		return tv.checkUIDRegister(c, uid)
	}

	return tv.checkUIDTransfer(c, uid)
}

func (tv *TxValidator) checkUIDRegister(c *txContext, uid *model.UIDDetail) error {
	exists, err := c.view.UIDExists(uid.Symbol)
	if err != nil {
		return err
	}

	if exists {
		return errors.NewUIDExistsError("uid %s is already registered", uid.Symbol)
	}

	if err = checkAddressUnbound(c, uid.Address, uid.Symbol); err != nil {
		return err
	}

	if !c.hasInputFrom(uid.Address) {
		return errors.NewUIDRegisterError("uid %s registered without an input from %s", uid.Symbol, uid.Address)
	}

	return nil
}

// checkUIDTransfer requires two inputs: the current uid output and one
// from the receiving address.
func (tv *TxValidator) checkUIDTransfer(c *txContext, uid *model.UIDDetail) error {
	if len(c.tx.Inputs) != 2 {
		return errors.NewUIDTransferError("uid %s transfer has %d inputs", uid.Symbol, len(c.tx.Inputs))
	}

	record, err := c.view.GetUID(uid.Symbol)
	if err != nil {
		return err
	}

	if !c.spends(record.Point) {
		return errors.NewUIDTransferError("uid %s transfer does not spend %s", uid.Symbol, record.Point)
	}

	if !c.hasInputFrom(uid.Address) {
		return errors.NewUIDTransferError("uid %s transfer has no input from %s", uid.Symbol, uid.Address)
	}

	return checkAddressUnbound(c, uid.Address, uid.Symbol)
}

// checkAddressUnbound fails when address is bound to a uid other than symbol.
func checkAddressUnbound(c *txContext, address string, symbol string) error {
	bound, err := c.view.GetUIDByAddress(address)
	if err != nil {
		if errors.Is(err, errors.ErrUIDNotExists) {
			return nil
		}

		return err
	}

	if bound.Detail.Symbol != symbol {
		return errors.NewUIDAddressRegisteredError("address %s is bound to uid %s", address, bound.Detail.Symbol)
	}

	return nil
}

// checkUIDBindings resolves the to and from identities carried by
// attachments to the addresses the transaction actually uses.
func (tv *TxValidator) checkUIDBindings(c *txContext) error {
	for i, out := range c.tx.Outputs {
		if to := out.Attachment.ToUID; to != "" {
			record, err := c.view.GetUID(to)
			if err != nil {
				return err
			}

			if address, ok := c.outputAddress(out); !ok || address != record.Detail.Address {
				return errors.NewUIDAddressNotMatchError("output %d does not pay uid %s at %s", i, to, record.Detail.Address)
			}
		}

		if from := out.Attachment.FromUID; from != "" {
			record, err := c.view.GetUID(from)
			if err != nil {
				return err
			}

			if !c.hasInputFrom(record.Detail.Address) {
				return errors.NewUIDAddressNotMatchError("output %d names uid %s but no input comes from %s", i, from, record.Detail.Address)
			}
		}
	}

	return nil
}
