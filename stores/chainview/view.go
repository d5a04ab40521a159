// Package chainview resolves chain queries either against the durable ledger
// or against a candidate branch layered on top of a fork point, so
// validators issue one logical query whichever chain they are checking.
package chainview

import (
	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/mvs-org/mvsd/model"
	"github.com/mvs-org/mvsd/stores/ledger"
)

// View is the chain state a transaction or block is validated against.
type View interface {
	// Height is the height of the last block visible through the view.
	Height() uint32
	GetHeader(height uint32) (*model.BlockHeader, error)

	// GetTransaction returns a confirmed transaction with its block height.
	GetTransaction(hash chainhash.Hash) (*model.Tx, uint32, error)
	// GetOutput returns a confirmed output, its block height and whether it
	// was created by a coinbase.
	GetOutput(point model.Point) (*model.Output, uint32, bool, error)
	// IsSpent reports whether any input other than exclude spends point.
	IsSpent(point model.Point, exclude *model.InputPoint) (bool, error)

	TokenExists(symbol string) (bool, error)
	GetToken(symbol string) (*model.TokenRecord, error)
	CertExists(symbol string, certType uint32) (bool, error)
	GetCert(symbol string, certType uint32) (*model.CertRecord, error)
	UIDExists(symbol string) (bool, error)
	GetUID(symbol string) (*model.UIDRecord, error)
	GetUIDByAddress(address string) (*model.UIDRecord, error)
	CandidateExists(symbol string) (bool, error)
	GetCandidate(symbol string) (*model.CandidateRecord, error)
}

// Store is the part of the ledger a view reads.
type Store interface {
	GetTransaction(hash chainhash.Hash) (*model.Tx, uint32, uint32, error)
	GetSpend(point model.Point) (*ledger.Spend, error)
	GetBlockHeader(height uint32) (*model.BlockHeader, error)
	GetTokenAt(symbol string, maxHeight uint32) (*model.TokenRecord, error)
	GetCertAt(symbol string, certType uint32, maxHeight uint32) (*model.CertRecord, error)
	GetUIDAt(symbol string, maxHeight uint32) (*model.UIDRecord, error)
	GetUIDByAddressAt(address string, maxHeight uint32) (*model.UIDRecord, error)
	GetCandidateAt(symbol string, maxHeight uint32) (*model.CandidateRecord, error)
}
