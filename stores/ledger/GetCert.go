package ledger

import (
	"github.com/mvs-org/mvsd/errors"
	"github.com/mvs-org/mvsd/model"
)

func (l *Ledger) GetCert(symbol string, certType uint32) (*model.CertRecord, error) {
	return l.GetCertAt(symbol, certType, latest)
}

// GetCertAt returns the certificate state as of maxHeight.
func (l *Ledger) GetCertAt(symbol string, certType uint32, maxHeight uint32) (*model.CertRecord, error) {
	entry, ok, err := l.registryEntryAt(certRegistry, model.CertKey(symbol, certType), maxHeight)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, errors.NewCertNotExistsError("certificate %s of type %d not found", symbol, certType)
	}

	return model.NewCertRecordFromBytes(entry.Record)
}

// GetAddressCerts returns the certificates currently held by address.
func (l *Ledger) GetAddressCerts(address string) ([]*model.CertRecord, error) {
	entries, err := l.addressEntries(certRegistry, address, latest)
	if err != nil {
		return nil, err
	}

	records := make([]*model.CertRecord, 0, len(entries))

	for _, entry := range entries {
		record, err := model.NewCertRecordFromBytes(entry.Record)
		if err != nil {
			return nil, err
		}

		records = append(records, record)
	}

	return records, nil
}
