package ledger

import (
	"sync"
	"testing"
	"time"

	"github.com/mvs-org/mvsd/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeqlockReadValidity(t *testing.T) {
	var s seqlock

	handle := s.BeginRead()
	assert.True(t, s.IsReadValid(handle))

	s.BeginWrite()

	inside := s.BeginRead()
	assert.False(t, s.IsReadValid(inside), "a read starting inside a write epoch is never valid")
	assert.False(t, s.IsReadValid(handle))

	s.EndWrite()

	assert.False(t, s.IsReadValid(handle), "a read overlapping a write epoch is invalid")
	assert.False(t, s.IsReadValid(inside))
	assert.True(t, s.IsReadValid(s.BeginRead()))
}

func TestReadRetry(t *testing.T) {
	l, _, _ := newTestLedger(t)

	attempts := 0

	l.lock.BeginWrite()

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()

		time.Sleep(20 * time.Millisecond)
		l.lock.EndWrite()
	}()

	value, err := readRetry(l, func() (int, error) {
		attempts++
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, value)
	assert.Greater(t, attempts, 1)

	wg.Wait()
}

func TestConcurrentReadsDuringPush(t *testing.T) {
	l, _, genesis := newTestLedger(t)
	chain := newAssetChain(genesis)

	done := make(chan struct{})

	var wg sync.WaitGroup

	for i := 0; i < 4; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for {
				select {
				case <-done:
					return
				default:
				}

				// both reads belong to one epoch, so a concurrent pop cannot split them
				top, block, err := readRetry2(l, func() (uint32, *model.Block, error) {
					top, err := l.topHeight()
					if err != nil {
						return 0, nil, err
					}

					row, err := l.blockRowAt(top)
					if err != nil {
						return 0, nil, err
					}

					block, err := l.blockFromRow(row)

					return top, block, err
				})
				if !assert.NoError(t, err) {
					return
				}

				assert.Equal(t, top, block.Height())
			}
		}()
	}

	require.NoError(t, l.Push(chain.block1, 1))
	require.NoError(t, l.Push(chain.block2, 2))
	_, err := l.Pop()
	require.NoError(t, err)

	close(done)
	wg.Wait()
}
