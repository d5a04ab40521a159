package blockchain

import (
	"context"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/looplab/fsm"
	"github.com/mvs-org/mvsd/errors"
	"github.com/mvs-org/mvsd/model"
)

// Block states.
const (
	// StateUnprocessed is a block that has not been seen by the organizer.
	StateUnprocessed = "unprocessed"
	// StateOrphan is a block waiting in the orphan pool.
	StateOrphan = "orphan"
	// StateConnected is a block validated on top of its ancestors but not
	// yet part of the chain. Its ancestors are fixed by hash, so it stays
	// valid until the chain adopts or drops its branch.
	StateConnected = "connected"
	// StateValidated is a block committed to the chain.
	StateValidated = "validated"
	// StateRejected is a block that failed validation.
	StateRejected = "rejected"
	// StateReplaced is a block popped from the chain by a reorganization.
	StateReplaced = "replaced"
)

// Block events.
const (
	EventPool    = "pool"
	EventConnect = "connect"
	EventCommit  = "commit"
	EventReject  = "reject"
	EventReplace = "replace"
)

// BlockDetail tracks a block through the organizer.
type BlockDetail struct {
	block *model.Block
	hash  chainhash.Hash
	state *fsm.FSM

	// err is the reason a rejected block failed validation
	err error
}

// NewBlockDetail returns a detail for a block the organizer has not seen.
func NewBlockDetail(block *model.Block) *BlockDetail {
	return &BlockDetail{
		block: block,
		hash:  block.Hash(),
		state: newBlockStateMachine(StateUnprocessed),
	}
}

// newReplacedDetail returns a detail for a block popped from the chain.
func newReplacedDetail(block *model.Block) *BlockDetail {
	return &BlockDetail{
		block: block,
		hash:  block.Hash(),
		state: newBlockStateMachine(StateReplaced),
	}
}

// newBlockStateMachine creates the block lifecycle:
//
//	unprocessed -> orphan -> connected -> validated -> replaced -> connected
//
// Any block outside the chain may be rejected.
func newBlockStateMachine(initial string) *fsm.FSM {
	return fsm.NewFSM(
		initial,
		fsm.Events{
			{
				Name: EventPool,
				Src:  []string{StateUnprocessed},
				Dst:  StateOrphan,
			},
			{
				Name: EventConnect,
				Src:  []string{StateOrphan, StateReplaced},
				Dst:  StateConnected,
			},
			{
				Name: EventCommit,
				Src:  []string{StateConnected},
				Dst:  StateValidated,
			},
			{
				Name: EventReject,
				Src:  []string{StateUnprocessed, StateOrphan, StateConnected, StateReplaced},
				Dst:  StateRejected,
			},
			{
				Name: EventReplace,
				Src:  []string{StateValidated},
				Dst:  StateReplaced,
			},
		},
		fsm.Callbacks{},
	)
}

func (d *BlockDetail) Block() *model.Block {
	return d.block
}

func (d *BlockDetail) Hash() chainhash.Hash {
	return d.hash
}

func (d *BlockDetail) State() string {
	return d.state.Current()
}

func (d *BlockDetail) Is(state string) bool {
	return d.state.Is(state)
}

// Error returns the validation failure of a rejected block.
func (d *BlockDetail) Error() error {
	return d.err
}

func (d *BlockDetail) transition(ctx context.Context, event string) error {
	if err := d.state.Event(ctx, event); err != nil {
		return errors.NewProcessingError("block %s cannot %s from %s", d.hash, event, d.state.Current(), err)
	}

	return nil
}

func (d *BlockDetail) reject(ctx context.Context, cause error) error {
	d.err = cause
	return d.transition(ctx, EventReject)
}
