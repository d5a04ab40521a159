package blockchain

import (
	"context"
	"testing"

	"github.com/mvs-org/mvsd/errors"
	"github.com/mvs-org/mvsd/util/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockDetailLifecycle(t *testing.T) {
	ctx := context.Background()
	genesis := test.Genesis(test.NewKey(1), testSubsidy)

	t.Run("committed then replaced then reconnected", func(t *testing.T) {
		d := NewBlockDetail(genesis)
		assert.Equal(t, StateUnprocessed, d.State())
		assert.Equal(t, genesis.Hash(), d.Hash())

		for _, event := range []string{EventPool, EventConnect, EventCommit, EventReplace, EventConnect} {
			require.NoError(t, d.transition(ctx, event), event)
		}

		assert.True(t, d.Is(StateConnected))
	})

	t.Run("validated blocks cannot be rejected", func(t *testing.T) {
		d := NewBlockDetail(genesis)
		require.NoError(t, d.transition(ctx, EventPool))
		require.NoError(t, d.transition(ctx, EventConnect))
		require.NoError(t, d.transition(ctx, EventCommit))

		err := d.reject(ctx, errors.NewBlockInvalidError("bad"))
		assert.True(t, errors.Is(err, errors.ErrProcessing))
		assert.True(t, d.Is(StateValidated))
	})

	t.Run("orphans cannot be committed", func(t *testing.T) {
		d := NewBlockDetail(genesis)
		require.NoError(t, d.transition(ctx, EventPool))

		assert.Error(t, d.transition(ctx, EventCommit))
		assert.True(t, d.Is(StateOrphan))
	})

	t.Run("rejection keeps the cause", func(t *testing.T) {
		d := newReplacedDetail(genesis)
		cause := errors.NewMerkleMismatchError("root")

		require.NoError(t, d.reject(ctx, cause))
		assert.True(t, d.Is(StateRejected))
		assert.Equal(t, cause, d.Error())
	})
}
