package validator

import (
	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/mvs-org/mvsd/model"
	"github.com/mvs-org/mvsd/stores/chainview"
)

// txContext carries what the payload checks need about one transaction.
type txContext struct {
	tx     *model.Tx
	hash   chainhash.Hash
	height uint32
	view   chainview.View
	inputs []*ConnectedInput

	versions model.AddressVersions
}

// CheckPayloads enforces the asset invariants of tx. inputs are the
// connected previous outputs in input order.
func (tv *TxValidator) CheckPayloads(tx *model.Tx, height uint32, view chainview.View, inputs []*ConnectedInput) error {
	c := &txContext{
		tx:       tx,
		hash:     tx.Hash(),
		height:   height,
		view:     view,
		inputs:   inputs,
		versions: tv.params.Addresses,
	}

	checks := []func(*txContext) error{
		tv.checkUIDs,
		tv.checkUIDBindings,
		tv.checkTokenIssue,
		tv.checkSecondaryIssue,
		tv.checkCerts,
		tv.checkCandidates,
		tv.checkTransferSymbols,
		tv.checkAttenuationSpends,
	}

	for _, check := range checks {
		if err := check(c); err != nil {
			return err
		}
	}

	return nil
}

// outputsWhere returns the indexes of the outputs matching predicate.
func (c *txContext) outputsWhere(predicate func(*model.Output) bool) []int {
	var indexes []int

	for i, out := range c.tx.Outputs {
		if predicate(out) {
			indexes = append(indexes, i)
		}
	}

	return indexes
}

// spends reports whether one of the inputs spends point.
func (c *txContext) spends(point model.Point) bool {
	for _, in := range c.tx.Inputs {
		if in.PreviousOutput == point {
			return true
		}
	}

	return false
}

func (c *txContext) outputAddress(out *model.Output) (string, bool) {
	address, ok := model.AddressFromScript(out.Script, c.versions)
	if !ok {
		return "", false
	}

	return address.String(), true
}

// inputAddress is the address paid by the output spent by input i.
func (c *txContext) inputAddress(i int) (string, bool) {
	if i >= len(c.inputs) || c.inputs[i] == nil {
		return "", false
	}

	return c.outputAddress(c.inputs[i].Output)
}

// hasInputFrom reports whether an input spends an output paying address.
func (c *txContext) hasInputFrom(address string) bool {
	for i := range c.inputs {
		if from, ok := c.inputAddress(i); ok && from == address {
			return true
		}
	}

	return false
}
