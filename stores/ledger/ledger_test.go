package ledger

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mvs-org/mvsd/errors"
	"github.com/mvs-org/mvsd/model"
	"github.com/mvs-org/mvsd/settings"
	"github.com/mvs-org/mvsd/ulogger"
	"github.com/mvs-org/mvsd/util/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"
	"golang.org/x/sync/errgroup"
)

const testSubsidy = 300000000

func newTestLedger(t *testing.T) (*Ledger, *settings.Settings, *model.Block) {
	t.Helper()

	tSettings := test.CreateBaseTestSettings(t.TempDir())
	genesis := test.Genesis(test.NewKey(1), testSubsidy)

	l := New(ulogger.TestLogger{}, tSettings)
	require.NoError(t, l.Create(genesis))

	t.Cleanup(func() {
		_ = l.Close()
	})

	return l, tSettings, genesis
}

func TestCreateAndStart(t *testing.T) {
	l, tSettings, genesis := newTestLedger(t)

	top, err := l.GetTopHeight()
	require.NoError(t, err)
	assert.Equal(t, uint32(0), top)

	for _, name := range tableNames {
		assert.FileExists(t, filepath.Join(tSettings.Ledger.Dir, name))
	}

	require.NoError(t, l.Close())

	_, err = l.GetTopHeight()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrServiceStopped))

	reopened := New(ulogger.TestLogger{}, tSettings)
	require.NoError(t, reopened.Start())

	defer func() {
		_ = reopened.Close()
	}()

	block, height, err := reopened.GetBlockByHash(genesis.Hash())
	require.NoError(t, err)
	assert.Equal(t, uint32(0), height)
	assert.Equal(t, genesis.Bytes(), block.Bytes())
}

func TestCloseDuringReads(t *testing.T) {
	l, _, _ := newTestLedger(t)

	done := make(chan struct{})
	g := errgroup.Group{}

	for range 8 {
		g.Go(func() error {
			for {
				select {
				case <-done:
					return nil
				default:
				}

				if _, err := l.GetTopHeight(); err != nil && !errors.Is(err, errors.ErrServiceStopped) {
					return err
				}
			}
		})
	}

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, l.Close())
	close(done)

	require.NoError(t, g.Wait())

	_, err := l.GetTopHeight()
	assert.True(t, errors.Is(err, errors.ErrServiceStopped))
}

func TestCreateTwice(t *testing.T) {
	l, tSettings, genesis := newTestLedger(t)
	require.NoError(t, l.Close())

	err := New(ulogger.TestLogger{}, tSettings).Create(genesis)
	require.Error(t, err)
}

func TestStartWithoutStore(t *testing.T) {
	tSettings := test.CreateBaseTestSettings(t.TempDir())

	l := New(ulogger.TestLogger{}, tSettings)
	require.Error(t, l.Start())

	// a failed start releases the lock
	err := New(ulogger.TestLogger{}, tSettings).Start()
	require.Error(t, err)
	assert.False(t, errors.Is(err, errors.ErrStorageLocked))
}

func TestExclusiveLock(t *testing.T) {
	_, tSettings, _ := newTestLedger(t)

	err := New(ulogger.TestLogger{}, tSettings).Start()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrStorageLocked))
}

func TestVersionGate(t *testing.T) {
	l, tSettings, _ := newTestLedger(t)
	require.NoError(t, l.Close())

	require.NoError(t, os.WriteFile(filepath.Join(tSettings.Ledger.Dir, metadataFileName), []byte("99\n"), 0o600))

	err := New(ulogger.TestLogger{}, tSettings).Start()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrStorageVersion))
}

func TestMigrationRebuildsAddressRows(t *testing.T) {
	l, tSettings, genesis := newTestLedger(t)

	key := test.NewKey(1)
	address := key.RegtestAddress()

	register := test.Spend(genesis.Transactions[0], 0, key,
		test.Asset(0, key.PayScript(), &model.UIDDetail{Status: model.StatusRegister, Symbol: "alice", Address: address}),
		test.Currency(testSubsidy-10000, key.PayScript()),
	)

	block := test.NextBlock(genesis, test.Coinbase(1, test.Currency(testSubsidy, key.PayScript())), register)
	require.NoError(t, l.Push(block, 1))

	// drop the rows and pretend the store predates them
	l.lock.BeginWrite()
	require.NoError(t, l.table(uidRows).update(func(b *bolt.Bucket) error {
		return b.Delete(addressRowKey(address, model.SymbolHash("alice")))
	}))
	l.lock.EndWrite()

	_, err := l.GetUIDByAddress(address)
	require.Error(t, err)
	require.NoError(t, l.Close())

	require.NoError(t, writeVersion(tSettings.Ledger.Dir, "1"))

	migrated := New(ulogger.TestLogger{}, tSettings)
	require.NoError(t, migrated.Start())

	defer func() {
		_ = migrated.Close()
	}()

	uid, err := migrated.GetUIDByAddress(address)
	require.NoError(t, err)
	assert.Equal(t, "alice", uid.Detail.Symbol)

	version, err := readVersion(tSettings.Ledger.Dir)
	require.NoError(t, err)
	assert.Equal(t, LedgerVersion, version)
}
