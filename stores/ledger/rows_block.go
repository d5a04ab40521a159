package ledger

import (
	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/mvs-org/mvsd/model"
	"github.com/mvs-org/mvsd/script"
)

type spendEntry struct {
	previous    model.Point
	spend       Spend
	addressHash chainhash.Hash
	history     *HistoryRow
}

type outputEntry struct {
	addressHash chainhash.Hash
	history     *HistoryRow
}

func (l *Ledger) addressHashOf(s script.Script) (chainhash.Hash, bool) {
	address, ok := model.AddressFromScript(s, l.params.Addresses)
	if !ok {
		return chainhash.Hash{}, false
	}

	return model.AddressHash(address.String()), true
}

// spendRows lists the spend and debit rows of the block's inputs. Previous
// outputs are resolved through the transaction table, so the block's own
// transactions must already be indexed. Inputs whose previous output is
// unknown, as during out of order inserts, get no history row.
func (l *Ledger) spendRows(block *model.Block, height uint32) []spendEntry {
	var entries []spendEntry

	for _, tx := range block.Transactions {
		if tx.IsCoinbase() {
			continue
		}

		hash := tx.Hash()

		for i, in := range tx.Inputs {
			point := model.InputPoint{Hash: hash, Index: uint32(i)}
			entry := spendEntry{previous: in.PreviousOutput, spend: Spend{Point: point, Height: height}}

			if prev, err := l.txRow(in.PreviousOutput.Hash); err == nil && int(in.PreviousOutput.Index) < len(prev.Tx.Outputs) {
				out := prev.Tx.Outputs[in.PreviousOutput.Index]

				if addressHash, ok := l.addressHashOf(out.Script); ok {
					entry.addressHash = addressHash
					entry.history = &HistoryRow{
						Kind:           HistorySpend,
						Point:          point,
						Height:         height,
						Value:          out.Value,
						PreviousOutput: in.PreviousOutput,
					}
				}
			}

			entries = append(entries, entry)
		}
	}

	return entries
}

// outputRows lists the credit rows of the block's outputs.
func (l *Ledger) outputRows(block *model.Block, height uint32) []outputEntry {
	var entries []outputEntry

	for _, tx := range block.Transactions {
		hash := tx.Hash()

		for i, out := range tx.Outputs {
			addressHash, ok := l.addressHashOf(out.Script)
			if !ok {
				continue
			}

			entries = append(entries, outputEntry{
				addressHash: addressHash,
				history: &HistoryRow{
					Kind:   HistoryOutput,
					Point:  model.Point{Hash: hash, Index: uint32(i)},
					Height: height,
					Value:  out.Value,
				},
			})
		}
	}

	return entries
}
