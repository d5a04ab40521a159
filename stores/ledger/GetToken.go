package ledger

import (
	"github.com/mvs-org/mvsd/errors"
	"github.com/mvs-org/mvsd/model"
)

func (l *Ledger) GetToken(symbol string) (*model.TokenRecord, error) {
	return l.GetTokenAt(symbol, latest)
}

// GetTokenAt returns the token state as of maxHeight.
func (l *Ledger) GetTokenAt(symbol string, maxHeight uint32) (*model.TokenRecord, error) {
	entry, ok, err := l.registryEntryAt(tokenRegistry, model.SymbolHash(symbol), maxHeight)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, errors.NewTokenNotExistsError("token %s not found", symbol)
	}

	return model.NewTokenRecordFromBytes(entry.Record)
}

// GetTokenRecords returns every state of the token, oldest first.
func (l *Ledger) GetTokenRecords(symbol string) ([]*model.TokenRecord, error) {
	entries, err := readRetry(l, func() ([]registryEntry, error) {
		return l.registryEntries(tokenRegistry, model.SymbolHash(symbol))
	})
	if err != nil {
		return nil, err
	}

	records := make([]*model.TokenRecord, 0, len(entries))

	for _, entry := range entries {
		record, err := model.NewTokenRecordFromBytes(entry.Record)
		if err != nil {
			return nil, err
		}

		records = append(records, record)
	}

	return records, nil
}

// GetAddressTokens returns the tokens whose current issue address is address.
func (l *Ledger) GetAddressTokens(address string) ([]*model.TokenRecord, error) {
	entries, err := l.addressEntries(tokenRegistry, address, latest)
	if err != nil {
		return nil, err
	}

	records := make([]*model.TokenRecord, 0, len(entries))

	for _, entry := range entries {
		record, err := model.NewTokenRecordFromBytes(entry.Record)
		if err != nil {
			return nil, err
		}

		records = append(records, record)
	}

	return records, nil
}
