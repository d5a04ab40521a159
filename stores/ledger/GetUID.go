package ledger

import (
	"github.com/mvs-org/mvsd/errors"
	"github.com/mvs-org/mvsd/model"
)

func (l *Ledger) GetUID(symbol string) (*model.UIDRecord, error) {
	return l.GetUIDAt(symbol, latest)
}

// GetUIDAt returns the identity state as of maxHeight.
func (l *Ledger) GetUIDAt(symbol string, maxHeight uint32) (*model.UIDRecord, error) {
	entry, ok, err := l.registryEntryAt(uidRegistry, model.SymbolHash(symbol), maxHeight)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, errors.NewUIDNotExistsError("uid %s not found", symbol)
	}

	return model.NewUIDRecordFromBytes(entry.Record)
}

func (l *Ledger) GetUIDByAddress(address string) (*model.UIDRecord, error) {
	return l.GetUIDByAddressAt(address, latest)
}

// GetUIDByAddressAt returns the identity bound to address as of maxHeight.
func (l *Ledger) GetUIDByAddressAt(address string, maxHeight uint32) (*model.UIDRecord, error) {
	entries, err := l.addressEntries(uidRegistry, address, maxHeight)
	if err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		return nil, errors.NewUIDNotExistsError("no uid bound to %s", address)
	}

	return model.NewUIDRecordFromBytes(entries[len(entries)-1].Record)
}

// GetAddressUIDs returns the identities currently bound to address.
func (l *Ledger) GetAddressUIDs(address string) ([]*model.UIDRecord, error) {
	entries, err := l.addressEntries(uidRegistry, address, latest)
	if err != nil {
		return nil, err
	}

	records := make([]*model.UIDRecord, 0, len(entries))

	for _, entry := range entries {
		record, err := model.NewUIDRecordFromBytes(entry.Record)
		if err != nil {
			return nil, err
		}

		records = append(records, record)
	}

	return records, nil
}
