package blockchain

import (
	"context"
	"testing"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/mvs-org/mvsd/errors"
	"github.com/mvs-org/mvsd/model"
	"github.com/mvs-org/mvsd/services/blockvalidation"
	"github.com/mvs-org/mvsd/settings"
	"github.com/mvs-org/mvsd/stores/ledger"
	"github.com/mvs-org/mvsd/ulogger"
	"github.com/mvs-org/mvsd/util/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSubsidy = 300000000

	// one block with these bits outweighs hundreds at the regtest limit
	heavyBits   = 0x1f7fffff
	heavierBits = 0x1e7fffff
)

type reorganization struct {
	forkHeight uint32
	newBlocks  []chainhash.Hash
	replaced   []chainhash.Hash
}

// failingStore fails pushes of one block.
type failingStore struct {
	*ledger.Ledger
	failHash chainhash.Hash
}

func (s *failingStore) Push(block *model.Block, height uint32) error {
	if block.Hash() == s.failHash {
		return errors.NewStorageError("push of %s failed", s.failHash)
	}

	return s.Ledger.Push(block, height)
}

type organizerTest struct {
	t         *testing.T
	settings  *settings.Settings
	store     *ledger.Ledger
	organizer *Organizer
	genesis   *model.Block
	alice     *test.Key
	bob       *test.Key
	reorgs    []reorganization
}

func newOrganizerTest(t *testing.T, configure ...func(*settings.Settings)) *organizerTest {
	t.Helper()

	alice := test.NewKey(1)
	tSettings := test.CreateBaseTestSettings(t.TempDir())

	for _, c := range configure {
		c(tSettings)
	}

	genesis := test.Genesis(alice, testSubsidy)

	store := ledger.New(ulogger.TestLogger{}, tSettings)
	require.NoError(t, store.Create(genesis))

	o := &organizerTest{
		t:        t,
		settings: tSettings,
		store:    store,
		genesis:  genesis,
		alice:    alice,
		bob:      test.NewKey(2),
	}

	o.organizer = o.newOrganizer(store)

	t.Cleanup(func() {
		o.organizer.Stop()
		_ = store.Close()
	})

	return o
}

func (o *organizerTest) newOrganizer(store Store) *Organizer {
	validator := blockvalidation.New(ulogger.TestLogger{}, o.settings, nil)

	organizer := NewOrganizer(ulogger.TestLogger{}, o.settings, store, validator,
		func(err error, forkHeight uint32, newBlocks []*model.Block, replacedBlocks []*model.Block) bool {
			o.reorgs = append(o.reorgs, reorganization{
				forkHeight: forkHeight,
				newBlocks:  blockHashes(newBlocks...),
				replaced:   blockHashes(replacedBlocks...),
			})

			return true
		})
	organizer.Start()

	return organizer
}

// block builds a child of prev whose coinbase pays key the subsidy.
func (o *organizerTest) block(prev *model.Block, bits uint32, key *test.Key) *model.Block {
	height := prev.Header.Number + 1
	coinbase := test.Coinbase(height, test.Currency(o.settings.ChainCfgParams.Subsidy(height), key.PayScript()))

	return test.NextBlockWithBits(prev, bits, coinbase)
}

func (o *organizerTest) process(block *model.Block) (uint32, error) {
	return o.organizer.Process(context.Background(), block)
}

func (o *organizerTest) assertChain(blocks ...*model.Block) {
	o.t.Helper()

	top, err := o.store.GetTopHeight()
	require.NoError(o.t, err)
	require.Equal(o.t, uint32(len(blocks)), top)

	for i, block := range blocks {
		hash, err := o.store.GetBlockHash(uint32(i + 1))
		require.NoError(o.t, err)
		assert.Equal(o.t, block.Hash(), hash, "height %d", i+1)
	}
}

func TestOrganizerExtendsChain(t *testing.T) {
	o := newOrganizerTest(t)
	bits := o.genesis.Header.Bits

	a1 := o.block(o.genesis, bits, o.alice)
	a2 := o.block(a1, bits, o.alice)

	height, err := o.process(a1)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), height)

	height, err = o.process(a2)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), height)

	o.assertChain(a1, a2)
	assert.Equal(t, 0, o.organizer.Orphans().Size())

	require.Len(t, o.reorgs, 2)
	assert.Equal(t, reorganization{forkHeight: 1, newBlocks: blockHashes(a2), replaced: []chainhash.Hash{}}, o.reorgs[1])

	_, err = o.process(a2)
	assert.True(t, errors.Is(err, errors.ErrBlockExists))
}

func TestOrganizerOrphanConnectsWhenParentArrives(t *testing.T) {
	o := newOrganizerTest(t)
	bits := o.genesis.Header.Bits

	a1 := o.block(o.genesis, bits, o.alice)
	a2 := o.block(a1, bits, o.alice)
	a3 := o.block(a2, bits, o.alice)

	_, err := o.process(a3)
	assert.True(t, errors.Is(err, errors.ErrOrphanBlock))

	_, err = o.process(a2)
	assert.True(t, errors.Is(err, errors.ErrOrphanBlock))

	_, err = o.process(a3)
	assert.True(t, errors.Is(err, errors.ErrBlockExists))

	height, err := o.process(a1)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), height)

	o.assertChain(a1, a2, a3)
	assert.Equal(t, 0, o.organizer.Orphans().Size())

	require.Len(t, o.reorgs, 1)
	assert.Equal(t, blockHashes(a1, a2, a3), o.reorgs[0].newBlocks)
}

func TestOrganizerReorganizes(t *testing.T) {
	o := newOrganizerTest(t)
	bits := o.genesis.Header.Bits

	a1 := o.block(o.genesis, bits, o.alice)
	a2 := o.block(a1, bits, o.alice)

	for _, block := range []*model.Block{a1, a2} {
		_, err := o.process(block)
		require.NoError(t, err)
	}

	light := o.block(a1, bits, o.bob)
	_, err := o.process(light)
	assert.True(t, errors.Is(err, errors.ErrInsufficientWork))
	assert.True(t, o.organizer.Orphans().Exists(light.Hash()))

	b1 := o.block(o.genesis, heavyBits, o.bob)

	height, err := o.process(b1)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), height)

	o.assertChain(b1)
	assert.Equal(t, reorganization{forkHeight: 0, newBlocks: blockHashes(b1), replaced: blockHashes(a1, a2)}, o.reorgs[len(o.reorgs)-1])

	replaced, found := o.organizer.Orphans().Get(a2.Hash())
	require.True(t, found)
	assert.True(t, replaced.Is(StateReplaced))

	// the replaced branch wins again once it is extended past the fork
	a3 := o.block(a2, heavierBits, o.alice)

	height, err = o.process(a3)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), height)

	o.assertChain(a1, a2, a3)
	assert.Equal(t, reorganization{forkHeight: 0, newBlocks: blockHashes(a1, a2, a3), replaced: blockHashes(b1)}, o.reorgs[len(o.reorgs)-1])

	assert.True(t, o.organizer.Orphans().Exists(b1.Hash()))
	assert.False(t, o.organizer.Orphans().Exists(a1.Hash()))
}

func TestOrganizerRejectsInvalidBranch(t *testing.T) {
	o := newOrganizerTest(t)
	bits := o.genesis.Header.Bits

	greedy := test.NextBlock(o.genesis, test.Coinbase(1, test.Currency(testSubsidy+1, o.alice.PayScript())))
	child := o.block(greedy, bits, o.alice)

	_, err := o.process(child)
	assert.True(t, errors.Is(err, errors.ErrOrphanBlock))

	_, err = o.process(greedy)
	assert.True(t, errors.Is(err, errors.ErrCoinbaseTooLarge))

	o.assertChain()
	assert.Equal(t, 0, o.organizer.Orphans().Size())
	assert.Empty(t, o.reorgs)

	_, err = o.process(greedy)
	assert.True(t, errors.Is(err, errors.ErrBlockRejected))

	_, err = o.process(child)
	assert.True(t, errors.Is(err, errors.ErrBlockRejected))

	// a valid sibling still extends the chain
	a1 := o.block(o.genesis, bits, o.alice)

	height, err := o.process(a1)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), height)
}

func TestOrganizerCommitsValidPrefix(t *testing.T) {
	o := newOrganizerTest(t)
	bits := o.genesis.Header.Bits

	a1 := o.block(o.genesis, bits, o.alice)
	_, err := o.process(a1)
	require.NoError(t, err)

	b1 := o.block(o.genesis, heavyBits, o.bob)
	b2 := test.NextBlock(b1, test.Coinbase(2, test.Currency(testSubsidy+1, o.bob.PayScript())))

	_, err = o.process(b2)
	assert.True(t, errors.Is(err, errors.ErrOrphanBlock))

	height, err := o.process(b1)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), height)

	o.assertChain(b1)

	_, err = o.process(b2)
	assert.True(t, errors.Is(err, errors.ErrBlockRejected))
}

func TestOrganizerRestoresChainOnStoreFailure(t *testing.T) {
	o := newOrganizerTest(t)
	bits := o.genesis.Header.Bits

	a1 := o.block(o.genesis, bits, o.alice)
	a2 := o.block(a1, bits, o.alice)

	for _, block := range []*model.Block{a1, a2} {
		_, err := o.process(block)
		require.NoError(t, err)
	}

	b1 := o.block(o.genesis, bits, o.bob)
	b2 := o.block(b1, heavyBits, o.bob)

	o.organizer.Stop()
	o.organizer = o.newOrganizer(&failingStore{Ledger: o.store, failHash: b2.Hash()})

	_, err := o.process(b2)
	assert.True(t, errors.Is(err, errors.ErrOrphanBlock))

	// b1 is pushed before b2 fails
	_, err = o.process(b1)
	assert.True(t, errors.Is(err, errors.ErrStorage))

	o.assertChain(a1, a2)
	assert.Len(t, o.reorgs, 2)
}

func TestOrganizerStoreFailureRestoresReplacedBlocks(t *testing.T) {
	o := newOrganizerTest(t)
	bits := o.genesis.Header.Bits

	a1 := o.block(o.genesis, bits, o.alice)
	a2 := o.block(a1, bits, o.alice)

	for _, block := range []*model.Block{a1, a2} {
		_, err := o.process(block)
		require.NoError(t, err)
	}

	b1 := o.block(o.genesis, heavyBits, o.bob)

	o.organizer.Stop()
	o.organizer = o.newOrganizer(&failingStore{Ledger: o.store, failHash: b1.Hash()})

	_, err := o.process(b1)
	assert.True(t, errors.Is(err, errors.ErrStorage))

	o.assertChain(a1, a2)
}

func TestOrganizerMaxReorgDepth(t *testing.T) {
	o := newOrganizerTest(t, func(s *settings.Settings) {
		s.BlockChain.MaxReorgDepth = 1
	})
	bits := o.genesis.Header.Bits

	a1 := o.block(o.genesis, bits, o.alice)
	a2 := o.block(a1, bits, o.alice)

	for _, block := range []*model.Block{a1, a2} {
		_, err := o.process(block)
		require.NoError(t, err)
	}

	_, err := o.process(o.block(o.genesis, heavyBits, o.bob))
	assert.True(t, errors.Is(err, errors.ErrBlockInvalid))
	o.assertChain(a1, a2)

	height, err := o.process(o.block(a1, heavyBits, o.bob))
	require.NoError(t, err)
	assert.Equal(t, uint32(2), height)
}
