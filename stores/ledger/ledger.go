// Package ledger is the persistent block store. Every index lives in its own
// memory-mapped bbolt file under the store directory; writers hold a write
// epoch for the whole of a push or pop and readers retry when an epoch
// overlapped their read.
package ledger

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/mvs-org/mvsd/chaincfg"
	"github.com/mvs-org/mvsd/errors"
	"github.com/mvs-org/mvsd/model"
	"github.com/mvs-org/mvsd/settings"
	"github.com/mvs-org/mvsd/ulogger"
	"golang.org/x/sync/errgroup"
)

const lockFileName = "exclusive_lock"

type Ledger struct {
	logger   ulogger.Logger
	settings *settings.Settings
	params   *chaincfg.Params
	dir      string
	lock     seqlock
	fileLock *flock.Flock

	mu      sync.Mutex
	started bool

	// closing is held shared by every read attempt and exclusively while
	// the tables are closed
	closing sync.RWMutex
	tables  map[string]*table
}

func New(logger ulogger.Logger, tSettings *settings.Settings) *Ledger {
	initPrometheusMetrics()

	return &Ledger{
		logger:   logger,
		settings: tSettings,
		params:   tSettings.ChainCfgParams,
		dir:      tSettings.Ledger.Dir,
	}
}

// Exists reports whether a store has been created in the directory.
func (l *Ledger) Exists() bool {
	return fileExists(filepath.Join(l.dir, metadataFileName))
}

// Create initialises an empty store with genesis at height 0 and leaves it
// started. It fails if a store already exists in the directory.
func (l *Ledger) Create(genesis *model.Block) error {
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return errors.NewStorageError("failed to create ledger directory %s", l.dir, err)
	}

	if fileExists(filepath.Join(l.dir, metadataFileName)) {
		return errors.NewStorageError("ledger already exists in %s", l.dir)
	}

	if err := l.acquireLock(); err != nil {
		return err
	}

	if err := l.openTables(); err != nil {
		l.releaseLock()
		return err
	}

	if err := writeVersion(l.dir, LedgerVersion); err != nil {
		l.closeTables()
		l.releaseLock()

		return err
	}

	l.setStarted(true)

	if err := l.Push(genesis, 0); err != nil {
		_ = l.Close()
		return err
	}

	l.logger.Infof("[Ledger] created in %s with genesis %s", l.dir, genesis.Hash())

	return nil
}

// Start opens an existing store, migrating its format when required.
func (l *Ledger) Start() error {
	if err := l.acquireLock(); err != nil {
		return err
	}

	version, err := readVersion(l.dir)
	if err != nil {
		l.releaseLock()
		return err
	}

	if err = checkVersion(version); err != nil {
		l.releaseLock()
		return err
	}

	if err = l.openTables(); err != nil {
		l.releaseLock()
		return err
	}

	if err = l.migrate(version); err != nil {
		l.closeTables()
		l.releaseLock()

		return err
	}

	l.setStarted(true)

	top, err := l.GetTopHeight()
	if err != nil {
		l.logger.Warnf("[Ledger] started in %s without blocks: %v", l.dir, err)
		return nil
	}

	prometheusLedgerHeight.Set(float64(top))
	l.logger.Infof("[Ledger] started in %s at height %d", l.dir, top)

	return nil
}

// Stop flushes every table to disk.
func (l *Ledger) Stop() error {
	l.lock.BeginWrite()
	defer l.lock.EndWrite()

	return l.synchronize(true)
}

// Close stops the store, closes every table and releases the exclusive lock.
func (l *Ledger) Close() error {
	if !l.isStarted() {
		return nil
	}

	err := l.Stop()

	l.lock.BeginWrite()
	l.closing.Lock()
	l.closeTables()
	l.setStarted(false)
	l.closing.Unlock()
	l.lock.EndWrite()

	l.releaseLock()

	return err
}

func (l *Ledger) acquireLock() error {
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return errors.NewStorageError("failed to create ledger directory %s", l.dir, err)
	}

	fileLock := flock.New(filepath.Join(l.dir, lockFileName))

	var (
		locked bool
		err    error
	)

	if l.settings.Ledger.LockTimeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), l.settings.Ledger.LockTimeout)
		defer cancel()

		locked, err = fileLock.TryLockContext(ctx, 100*time.Millisecond)
	} else {
		locked, err = fileLock.TryLock()
	}

	if err != nil || !locked {
		return errors.NewStorageLockedError("failed to lock %s", fileLock.Path(), err)
	}

	l.fileLock = fileLock

	return nil
}

func (l *Ledger) releaseLock() {
	if l.fileLock == nil {
		return
	}

	if err := l.fileLock.Unlock(); err != nil {
		l.logger.Errorf("[Ledger] failed to release %s: %v", l.fileLock.Path(), err)
	}

	l.fileLock = nil
}

// openTables opens every table as a set. If any table fails, the ones
// already opened are closed again.
func (l *Ledger) openTables() error {
	mmapSize := l.settings.Ledger.InitialMmapMB * 1024 * 1024

	opened := make([]*table, len(tableNames))

	g := errgroup.Group{}

	for i, name := range tableNames {
		g.Go(func() error {
			t, err := openTable(l.dir, name, mmapSize)
			if err != nil {
				return err
			}

			opened[i] = t

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for _, t := range opened {
			_ = t.close()
		}

		return err
	}

	l.tables = make(map[string]*table, len(opened))
	for _, t := range opened {
		l.tables[t.name] = t
	}

	return nil
}

func (l *Ledger) closeTables() {
	for _, t := range l.tables {
		if err := t.close(); err != nil {
			l.logger.Errorf("[Ledger] failed to close table %s: %v", t.name, err)
		}
	}

	l.tables = nil
}

// synchronize fsyncs every table touched since the last call. It must be
// called inside a write epoch.
func (l *Ledger) synchronize(force bool) error {
	if l.settings.Ledger.NoSync && !force {
		for _, t := range l.tables {
			t.dirty = false
		}

		return nil
	}

	var errs []error

	for _, name := range tableNames {
		if t, ok := l.tables[name]; ok {
			errs = append(errs, t.sync())
		}
	}

	return errors.Join(errs...)
}

func (l *Ledger) table(name string) *table {
	return l.tables[name]
}

func (l *Ledger) setStarted(started bool) {
	l.mu.Lock()
	l.started = started
	l.mu.Unlock()
}

func (l *Ledger) isStarted() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.started
}

func (l *Ledger) checkStarted() error {
	if !l.isStarted() {
		return errors.NewServiceStoppedError("ledger is not started")
	}

	return nil
}

// BeginRead and IsReadValid expose the store sequence so callers can group
// several queries into one consistent read.
func (l *Ledger) BeginRead() Handle {
	return l.lock.BeginRead()
}

func (l *Ledger) IsReadValid(handle Handle) bool {
	return l.lock.IsReadValid(handle)
}
