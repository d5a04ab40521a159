package blockchain

import (
	"sync"

	"github.com/mvs-org/mvsd/model"
	"github.com/mvs-org/mvsd/ulogger"
)

// ReorganizeHandler is notified after the chain changed. newBlocks were
// pushed above forkHeight in place of replacedBlocks, both oldest first.
// Returning false unsubscribes the handler.
type ReorganizeHandler func(err error, forkHeight uint32, newBlocks []*model.Block, replacedBlocks []*model.Block) bool

type subscribers struct {
	logger   ulogger.Logger
	mu       sync.Mutex
	handlers []ReorganizeHandler
}

func (s *subscribers) subscribe(handler ReorganizeHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.handlers = append(s.handlers, handler)
}

// notify calls every handler in subscription order. A handler that panics
// is dropped.
func (s *subscribers) notify(err error, forkHeight uint32, newBlocks []*model.Block, replacedBlocks []*model.Block) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.handlers[:0]

	for _, handler := range s.handlers {
		if s.call(handler, err, forkHeight, newBlocks, replacedBlocks) {
			kept = append(kept, handler)
		}
	}

	for i := len(kept); i < len(s.handlers); i++ {
		s.handlers[i] = nil
	}

	s.handlers = kept

	return true
}

func (s *subscribers) call(handler ReorganizeHandler, err error, forkHeight uint32, newBlocks []*model.Block, replacedBlocks []*model.Block) (keep bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Errorf("[BlockChain] reorganize handler panicked, unsubscribing: %v", r)
			keep = false
		}
	}()

	return handler(err, forkHeight, newBlocks, replacedBlocks)
}

func (s *subscribers) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.handlers)
}
