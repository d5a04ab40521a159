package ledger

import (
	"math"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/mvs-org/mvsd/errors"
	"github.com/mvs-org/mvsd/model"
	bolt "go.etcd.io/bbolt"
)

// registryKind pairs a registry table, keyed by symbol hash and holding the
// append-only record list, with its address rows table.
type registryKind struct {
	name  string
	table string
	rows  string
}

var (
	tokenRegistry     = registryKind{name: "token", table: tokenTable, rows: tokenRows}
	certRegistry      = registryKind{name: "cert", table: certTable, rows: certRows}
	uidRegistry       = registryKind{name: "uid", table: uidTable, rows: uidRows}
	candidateRegistry = registryKind{name: "candidate", table: candidateTable, rows: candidateRows}

	registryKinds = []registryKind{tokenRegistry, certRegistry, uidRegistry, candidateRegistry}
)

func registryKindOf(r *model.Registration) registryKind {
	switch {
	case r.Token != nil:
		return tokenRegistry
	case r.Cert != nil:
		return certRegistry
	case r.UID != nil:
		return uidRegistry
	default:
		return candidateRegistry
	}
}

func registrationPoint(r *model.Registration) (model.Point, uint32) {
	switch {
	case r.Token != nil:
		return r.Token.Point, r.Token.Height
	case r.Cert != nil:
		return r.Cert.Point, r.Cert.Height
	case r.UID != nil:
		return r.UID.Point, r.UID.Height
	default:
		return r.Candidate.Point, r.Candidate.Height
	}
}

// registrationRecord encodes the record a registration appends. A token
// secondary issue accumulates onto the prior state.
func registrationRecord(r *model.Registration, prior []registryEntry) ([]byte, error) {
	switch {
	case r.Token != nil:
		if !r.IsSecondaryIssue() {
			return r.Token.Bytes(), nil
		}

		if len(prior) == 0 {
			return nil, errors.NewStorageError("secondary issue of unknown token %s", r.Symbol)
		}

		last, err := model.NewTokenRecordFromBytes(prior[len(prior)-1].Record)
		if err != nil {
			return nil, err
		}

		merged, err := r.Token.Accumulate(last)
		if err != nil {
			return nil, err
		}

		return merged.Bytes(), nil
	case r.Cert != nil:
		return r.Cert.Bytes(), nil
	case r.UID != nil:
		return r.UID.Bytes(), nil
	default:
		return r.Candidate.Bytes(), nil
	}
}

func groupRegistrations(registrations []model.Registration) map[registryKind][]*model.Registration {
	groups := make(map[registryKind][]*model.Registration)

	for i := range registrations {
		r := &registrations[i]
		kind := registryKindOf(r)
		groups[kind] = append(groups[kind], r)
	}

	return groups
}

// storeRegistrations appends one record per registration, in order.
func (l *Ledger) storeRegistrations(registrations []model.Registration) error {
	groups := groupRegistrations(registrations)

	for _, kind := range registryKinds {
		group := groups[kind]
		if len(group) == 0 {
			continue
		}

		var rowKeys [][]byte

		err := l.table(kind.table).update(func(b *bolt.Bucket) error {
			for _, r := range group {
				entries, err := decodeRegistryEntries(b.Get(r.Key[:]))
				if err != nil {
					return err
				}

				record, err := registrationRecord(r, entries)
				if err != nil {
					return err
				}

				point, height := registrationPoint(r)
				entries = append(entries, registryEntry{Height: height, Point: point, Address: r.Address, Record: record})

				if err = b.Put(r.Key[:], encodeRegistryEntries(entries)); err != nil {
					return err
				}

				rowKeys = append(rowKeys, addressRowKey(r.Address, r.Key))
			}

			return nil
		})
		if err != nil {
			return err
		}

		if err = l.table(kind.rows).update(func(b *bolt.Bucket) error {
			for _, key := range rowKeys {
				if err := b.Put(key, []byte{}); err != nil {
					return err
				}
			}

			return nil
		}); err != nil {
			return err
		}
	}

	return nil
}

// removeRegistrations undoes storeRegistrations for the same registrations.
// Each removes the record created at its point, which restores the prior
// record as current; a key left without records is deleted.
func (l *Ledger) removeRegistrations(registrations []model.Registration) error {
	groups := groupRegistrations(registrations)

	for i := len(registryKinds) - 1; i >= 0; i-- {
		kind := registryKinds[i]

		group := groups[kind]
		if len(group) == 0 {
			continue
		}

		var staleRows [][]byte

		err := l.table(kind.table).update(func(b *bolt.Bucket) error {
			for j := len(group) - 1; j >= 0; j-- {
				r := group[j]

				entries, err := decodeRegistryEntries(b.Get(r.Key[:]))
				if err != nil {
					return err
				}

				point, _ := registrationPoint(r)

				index := -1

				for k := len(entries) - 1; k >= 0; k-- {
					if entries[k].Point == point {
						index = k
						break
					}
				}

				if index < 0 {
					return errors.NewStorageCorruptError("%s %s has no record at %s", kind.name, r.Symbol, point)
				}

				removed := entries[index]
				entries = append(entries[:index], entries[index+1:]...)

				if len(entries) == 0 {
					err = b.Delete(r.Key[:])
				} else {
					err = b.Put(r.Key[:], encodeRegistryEntries(entries))
				}

				if err != nil {
					return err
				}

				if !entriesName(entries, removed.Address) {
					staleRows = append(staleRows, addressRowKey(removed.Address, r.Key))
				}
			}

			return nil
		})
		if err != nil {
			return err
		}

		if err = l.table(kind.rows).update(func(b *bolt.Bucket) error {
			for _, key := range staleRows {
				if err := b.Delete(key); err != nil {
					return err
				}
			}

			return nil
		}); err != nil {
			return err
		}
	}

	return nil
}

func entriesName(entries []registryEntry, address string) bool {
	for _, e := range entries {
		if e.Address == address {
			return true
		}
	}

	return false
}

// currentEntry returns the last record created at or below maxHeight.
func currentEntry(entries []registryEntry, maxHeight uint32) (registryEntry, bool) {
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Height <= maxHeight {
			return entries[i], true
		}
	}

	return registryEntry{}, false
}

func (l *Ledger) registryEntries(kind registryKind, key chainhash.Hash) ([]registryEntry, error) {
	if err := l.checkStarted(); err != nil {
		return nil, err
	}

	value, err := l.table(kind.table).get(key[:])
	if err != nil {
		return nil, err
	}

	return decodeRegistryEntries(value)
}

// registryEntryAt returns the record of key current at maxHeight.
func (l *Ledger) registryEntryAt(kind registryKind, key chainhash.Hash, maxHeight uint32) (registryEntry, bool, error) {
	return readRetry2(l, func() (registryEntry, bool, error) {
		entries, err := l.registryEntries(kind, key)
		if err != nil {
			return registryEntry{}, false, err
		}

		entry, ok := currentEntry(entries, maxHeight)

		return entry, ok, nil
	})
}

// addressEntries returns the records current at maxHeight that name address.
func (l *Ledger) addressEntries(kind registryKind, address string, maxHeight uint32) ([]registryEntry, error) {
	return readRetry(l, func() ([]registryEntry, error) {
		if err := l.checkStarted(); err != nil {
			return nil, err
		}

		addressHash := model.AddressHash(address)

		var keys []chainhash.Hash

		if err := l.table(kind.rows).scan(addressHash[:], func(key, _ []byte) bool {
			var k chainhash.Hash
			copy(k[:], key[chainhash.HashSize:])
			keys = append(keys, k)

			return true
		}); err != nil {
			return nil, err
		}

		var result []registryEntry

		for _, key := range keys {
			entries, err := l.registryEntries(kind, key)
			if err != nil {
				return nil, err
			}

			if entry, ok := currentEntry(entries, maxHeight); ok && entry.Address == address {
				result = append(result, entry)
			}
		}

		return result, nil
	})
}

const latest = math.MaxUint32
