package ledger

import (
	"github.com/mvs-org/mvsd/errors"
	"github.com/mvs-org/mvsd/model"
)

func (l *Ledger) GetCandidate(symbol string) (*model.CandidateRecord, error) {
	return l.GetCandidateAt(symbol, latest)
}

// GetCandidateAt returns the candidate state as of maxHeight.
func (l *Ledger) GetCandidateAt(symbol string, maxHeight uint32) (*model.CandidateRecord, error) {
	entry, ok, err := l.registryEntryAt(candidateRegistry, model.SymbolHash(symbol), maxHeight)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, errors.NewCandidateNotExistsError("candidate %s not found", symbol)
	}

	return model.NewCandidateRecordFromBytes(entry.Record)
}

func (l *Ledger) GetAddressCandidates(address string) ([]*model.CandidateRecord, error) {
	entries, err := l.addressEntries(candidateRegistry, address, latest)
	if err != nil {
		return nil, err
	}

	records := make([]*model.CandidateRecord, 0, len(entries))

	for _, entry := range entries {
		record, err := model.NewCandidateRecordFromBytes(entry.Record)
		if err != nil {
			return nil, err
		}

		records = append(records, record)
	}

	return records, nil
}
