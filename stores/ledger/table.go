package ledger

import (
	"os"
	"path/filepath"
	"time"

	"github.com/mvs-org/mvsd/errors"
	bolt "go.etcd.io/bbolt"
)

// Table file names under the store directory.
const (
	blockTable       = "block_table"
	blockIndex       = "block_index"
	transactionTable = "transaction_table"
	spendTable       = "spend_table"
	historyRows      = "history_rows"
	tokenTable       = "token_table"
	tokenRows        = "token_rows"
	certTable        = "cert_table"
	certRows         = "cert_rows"
	uidTable         = "uid_table"
	uidRows          = "uid_rows"
	candidateTable   = "candidate_table"
	candidateRows    = "candidate_rows"
)

var tableNames = []string{
	blockTable,
	blockIndex,
	transactionTable,
	spendTable,
	historyRows,
	tokenTable,
	tokenRows,
	certTable,
	certRows,
	uidTable,
	uidRows,
	candidateTable,
	candidateRows,
}

var bucketRows = []byte("rows")

// table is one memory-mapped bbolt file holding a single bucket.
type table struct {
	name  string
	path  string
	db    *bolt.DB
	dirty bool
}

func openTable(dir string, name string, mmapSize int) (*table, error) {
	path := filepath.Join(dir, name)

	db, err := bolt.Open(path, 0o600, &bolt.Options{
		Timeout:         time.Second,
		InitialMmapSize: mmapSize,
		// synchronize fsyncs every touched table once per push or pop
		NoSync:       true,
		FreelistType: bolt.FreelistMapType,
	})
	if err != nil {
		return nil, errors.NewStorageError("failed to open table %s", name, err)
	}

	if err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketRows)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, errors.NewStorageError("failed to create bucket in table %s", name, err)
	}

	return &table{name: name, path: path, db: db}, nil
}

func (t *table) view(fn func(b *bolt.Bucket) error) error {
	return t.db.View(func(tx *bolt.Tx) error {
		return fn(tx.Bucket(bucketRows))
	})
}

func (t *table) update(fn func(b *bolt.Bucket) error) error {
	t.dirty = true

	if err := t.db.Update(func(tx *bolt.Tx) error {
		return fn(tx.Bucket(bucketRows))
	}); err != nil {
		return errors.NewStorageError("failed to update table %s", t.name, err)
	}

	return nil
}

// get returns a copy of the value stored at key, or nil.
func (t *table) get(key []byte) ([]byte, error) {
	var value []byte

	err := t.view(func(b *bolt.Bucket) error {
		if v := b.Get(key); v != nil {
			value = append([]byte(nil), v...)
		}

		return nil
	})
	if err != nil {
		return nil, errors.NewStorageError("failed to read table %s", t.name, err)
	}

	return value, nil
}

// scan calls fn with copies of every row whose key starts with prefix, in
// key order, until fn returns false.
func (t *table) scan(prefix []byte, fn func(key, value []byte) bool) error {
	return t.scanFrom(prefix, prefix, fn)
}

// scanFrom is scan starting at the first key not below start.
func (t *table) scanFrom(prefix []byte, start []byte, fn func(key, value []byte) bool) error {
	err := t.view(func(b *bolt.Bucket) error {
		c := b.Cursor()

		for k, v := c.Seek(start); k != nil && hasPrefix(k, prefix); k, v = c.Next() {
			if !fn(append([]byte(nil), k...), append([]byte(nil), v...)) {
				return nil
			}
		}

		return nil
	})
	if err != nil {
		return errors.NewStorageError("failed to scan table %s", t.name, err)
	}

	return nil
}

func (t *table) sync() error {
	if !t.dirty {
		return nil
	}

	if err := t.db.Sync(); err != nil {
		return errors.NewStorageError("failed to sync table %s", t.name, err)
	}

	t.dirty = false

	return nil
}

func (t *table) close() error {
	if t == nil || t.db == nil {
		return nil
	}

	return t.db.Close()
}

func hasPrefix(key, prefix []byte) bool {
	return len(key) >= len(prefix) && string(key[:len(prefix)]) == string(prefix)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
