package chainview

import (
	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/mvs-org/mvsd/errors"
	"github.com/mvs-org/mvsd/model"
)

// durable answers from the ledger as it was at height, ignoring every row
// written above it.
type durable struct {
	store  Store
	height uint32
}

// Durable returns a view of store as of height.
func Durable(store Store, height uint32) View {
	return &durable{store: store, height: height}
}

func (d *durable) Height() uint32 {
	return d.height
}

func (d *durable) GetHeader(height uint32) (*model.BlockHeader, error) {
	if height > d.height {
		return nil, errors.NewBlockNotFoundError("no block at height %d", height)
	}

	return d.store.GetBlockHeader(height)
}

func (d *durable) GetTransaction(hash chainhash.Hash) (*model.Tx, uint32, error) {
	tx, height, _, err := d.store.GetTransaction(hash)
	if err != nil {
		return nil, 0, err
	}

	if height > d.height {
		return nil, 0, errors.NewTxNotFoundError("transaction %s confirmed above height %d", hash, d.height)
	}

	return tx, height, nil
}

func (d *durable) GetOutput(point model.Point) (*model.Output, uint32, bool, error) {
	tx, height, err := d.GetTransaction(point.Hash)
	if err != nil {
		return nil, 0, false, err
	}

	return outputOf(tx, point, height)
}

func outputOf(tx *model.Tx, point model.Point, height uint32) (*model.Output, uint32, bool, error) {
	if int(point.Index) >= len(tx.Outputs) {
		return nil, 0, false, errors.NewInputNotFoundError("transaction %s has no output %d", point.Hash, point.Index)
	}

	return tx.Outputs[point.Index], height, tx.IsCoinbase(), nil
}

func (d *durable) IsSpent(point model.Point, exclude *model.InputPoint) (bool, error) {
	spend, err := d.store.GetSpend(point)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return false, nil
		}

		return false, err
	}

	if spend.Height > d.height {
		return false, nil
	}

	return exclude == nil || spend.Point != *exclude, nil
}

func (d *durable) TokenExists(symbol string) (bool, error) {
	return exists(d.GetToken(symbol))
}

func (d *durable) GetToken(symbol string) (*model.TokenRecord, error) {
	return d.store.GetTokenAt(symbol, d.height)
}

func (d *durable) CertExists(symbol string, certType uint32) (bool, error) {
	return exists(d.GetCert(symbol, certType))
}

func (d *durable) GetCert(symbol string, certType uint32) (*model.CertRecord, error) {
	return d.store.GetCertAt(symbol, certType, d.height)
}

func (d *durable) UIDExists(symbol string) (bool, error) {
	return exists(d.GetUID(symbol))
}

func (d *durable) GetUID(symbol string) (*model.UIDRecord, error) {
	return d.store.GetUIDAt(symbol, d.height)
}

func (d *durable) GetUIDByAddress(address string) (*model.UIDRecord, error) {
	return d.store.GetUIDByAddressAt(address, d.height)
}

func (d *durable) CandidateExists(symbol string) (bool, error) {
	return exists(d.GetCandidate(symbol))
}

func (d *durable) GetCandidate(symbol string) (*model.CandidateRecord, error) {
	return d.store.GetCandidateAt(symbol, d.height)
}

// exists maps a registry lookup to a presence check; only not-exists
// errors mean absent.
func exists[T any](_ T, err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, errors.ErrTokenNotExists),
		errors.Is(err, errors.ErrCertNotExists),
		errors.Is(err, errors.ErrUIDNotExists),
		errors.Is(err, errors.ErrCandidateNotExists):
		return false, nil
	default:
		return false, err
	}
}
