package ledger

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/mvs-org/mvsd/errors"
	bolt "go.etcd.io/bbolt"
)

const metadataFileName = "metadata"

// LedgerVersion is the store format written by this code.
const LedgerVersion = "2"

// migration upgrades a started store from one format version to the next.
type migration struct {
	from string
	to   string
	run  func(l *Ledger) error
}

var migrations = []migration{
	{from: "1", to: "2", run: rebuildAddressRows},
}

func readVersion(dir string) (string, error) {
	b, err := os.ReadFile(filepath.Join(dir, metadataFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewStorageError("no ledger in %s", dir)
		}

		return "", errors.NewStorageError("failed to read ledger metadata", err)
	}

	return strings.TrimSpace(string(b)), nil
}

// writeVersion replaces the metadata file atomically.
func writeVersion(dir string, version string) error {
	path := filepath.Join(dir, metadataFileName)
	tmp := path + ".tmp"

	if err := os.WriteFile(tmp, []byte(version+"\n"), 0o600); err != nil {
		return errors.NewStorageError("failed to write ledger metadata", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		return errors.NewStorageError("failed to replace ledger metadata", err)
	}

	return nil
}

// checkVersion accepts the current version and any version with a
// migration path to it.
func checkVersion(version string) error {
	for version != LedgerVersion {
		next, ok := nextMigration(version)
		if !ok {
			return errors.NewStorageVersionError("ledger version %q cannot be upgraded to %q", version, LedgerVersion)
		}

		version = next.to
	}

	return nil
}

func nextMigration(version string) (migration, bool) {
	for _, m := range migrations {
		if m.from == version {
			return m, true
		}
	}

	return migration{}, false
}

func (l *Ledger) migrate(version string) error {
	for version != LedgerVersion {
		m, _ := nextMigration(version)

		l.logger.Infof("[Ledger] migrating store from version %s to %s", m.from, m.to)

		l.lock.BeginWrite()
		err := m.run(l)

		if err == nil {
			err = l.synchronize(true)
		}
		l.lock.EndWrite()

		if err != nil {
			return errors.NewStorageError("migration from version %s failed", m.from, err)
		}

		if err = writeVersion(l.dir, m.to); err != nil {
			return err
		}

		version = m.to
	}

	return nil
}

// rebuildAddressRows derives the address rows of every registry from the
// registry lists. Version 1 stores kept no address rows.
func rebuildAddressRows(l *Ledger) error {
	for _, kind := range registryKinds {
		rows := make(map[string]struct{})

		err := l.table(kind.table).view(func(b *bolt.Bucket) error {
			return b.ForEach(func(k, v []byte) error {
				entries, err := decodeRegistryEntries(v)
				if err != nil {
					return err
				}

				var key chainhash.Hash
				copy(key[:], k)

				for _, e := range entries {
					rows[string(addressRowKey(e.Address, key))] = struct{}{}
				}

				return nil
			})
		})
		if err != nil {
			return err
		}

		if err = l.table(kind.rows).update(func(b *bolt.Bucket) error {
			for key := range rows {
				if err := b.Put([]byte(key), []byte{}); err != nil {
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
