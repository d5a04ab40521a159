package ledger

import (
	"sync"
	"time"

	"go.uber.org/atomic"
)

// Handle is a reader's snapshot of the write sequence.
type Handle uint64

// seqlock versions the store. The sequence is odd while a write epoch is
// open; a read is valid when the sequence was even at BeginRead and is
// unchanged afterwards. Writers serialize on mu.
type seqlock struct {
	sequence atomic.Uint64
	mu       sync.Mutex
}

func (s *seqlock) BeginRead() Handle {
	return Handle(s.sequence.Load())
}

func (s *seqlock) IsReadValid(handle Handle) bool {
	return handle%2 == 0 && Handle(s.sequence.Load()) == handle
}

func (s *seqlock) BeginWrite() {
	s.mu.Lock()
	s.sequence.Inc()
}

func (s *seqlock) EndWrite() {
	s.sequence.Inc()
	s.mu.Unlock()
}

// readRetry runs fn until it completes without an overlapping write epoch,
// sleeping between attempts. Close waits for a running attempt, so fn sees
// either open tables or a stopped ledger.
func readRetry[T any](l *Ledger, fn func() (T, error)) (T, error) {
	for {
		handle := l.lock.BeginRead()

		l.closing.RLock()
		value, err := fn()
		l.closing.RUnlock()

		if l.lock.IsReadValid(handle) {
			return value, err
		}

		prometheusLedgerReadRetries.Inc()

		time.Sleep(l.settings.Ledger.ReadRetrySleep)
	}
}

func readRetry2[T any, U any](l *Ledger, fn func() (T, U, error)) (T, U, error) {
	type pair struct {
		t T
		u U
	}

	p, err := readRetry(l, func() (pair, error) {
		t, u, err := fn()
		return pair{t, u}, err
	})

	return p.t, p.u, err
}
