package chainview

import (
	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/mvs-org/mvsd/errors"
	"github.com/mvs-org/mvsd/model"
)

type branchTx struct {
	tx     *model.Tx
	height uint32
}

// overlay layers blocks and transactions over a base view. Heights up to
// forkHeight resolve in the base, the layered blocks sit at forkHeight+1
// onwards.
type overlay struct {
	base       View
	forkHeight uint32
	headers    []*model.BlockHeader

	txs        map[chainhash.Hash]branchTx
	spends     map[model.Point][]model.InputPoint
	tokens     map[chainhash.Hash][]model.Registration
	certs      map[chainhash.Hash][]model.Registration
	uids       map[chainhash.Hash][]model.Registration
	candidates map[chainhash.Hash][]model.Registration
}

// Overlay returns a view of store as of forkHeight with branch applied on top.
func Overlay(store Store, forkHeight uint32, branch []*model.Block) View {
	o := newOverlay(&durable{store: store, height: forkHeight})

	for _, block := range branch {
		o.addBlock(block)
	}

	return o
}

func newOverlay(base View) *overlay {
	return &overlay{
		base:       base,
		forkHeight: base.Height(),
		txs:        make(map[chainhash.Hash]branchTx),
		spends:     make(map[model.Point][]model.InputPoint),
		tokens:     make(map[chainhash.Hash][]model.Registration),
		certs:      make(map[chainhash.Hash][]model.Registration),
		uids:       make(map[chainhash.Hash][]model.Registration),
		candidates: make(map[chainhash.Hash][]model.Registration),
	}
}

func (o *overlay) addBlock(block *model.Block) {
	o.headers = append(o.headers, &block.Header)
	height := o.Height()

	for _, tx := range block.Transactions {
		o.addTx(tx, height)
	}
}

func (o *overlay) addTx(tx *model.Tx, height uint32) {
	hash := tx.Hash()
	o.txs[hash] = branchTx{tx: tx, height: height}

	if !tx.IsCoinbase() {
		for i, in := range tx.Inputs {
			o.spends[in.PreviousOutput] = append(o.spends[in.PreviousOutput], model.InputPoint{Hash: hash, Index: uint32(i)})
		}
	}

	for _, reg := range tx.Registrations(height) {
		switch {
		case reg.Token != nil:
			o.tokens[reg.Key] = append(o.tokens[reg.Key], reg)
		case reg.Cert != nil:
			o.certs[reg.Key] = append(o.certs[reg.Key], reg)
		case reg.UID != nil:
			o.uids[reg.Key] = append(o.uids[reg.Key], reg)
		case reg.Candidate != nil:
			o.candidates[reg.Key] = append(o.candidates[reg.Key], reg)
		}
	}
}

func (o *overlay) Height() uint32 {
	return o.forkHeight + uint32(len(o.headers))
}

func (o *overlay) GetHeader(height uint32) (*model.BlockHeader, error) {
	if height <= o.forkHeight {
		return o.base.GetHeader(height)
	}

	offset := height - o.forkHeight - 1
	if offset >= uint32(len(o.headers)) {
		return nil, errors.NewBlockNotFoundError("no block at height %d", height)
	}

	return o.headers[offset], nil
}

func (o *overlay) GetTransaction(hash chainhash.Hash) (*model.Tx, uint32, error) {
	if btx, ok := o.txs[hash]; ok {
		return btx.tx, btx.height, nil
	}

	return o.base.GetTransaction(hash)
}

func (o *overlay) GetOutput(point model.Point) (*model.Output, uint32, bool, error) {
	tx, height, err := o.GetTransaction(point.Hash)
	if err != nil {
		return nil, 0, false, err
	}

	return outputOf(tx, point, height)
}

func (o *overlay) IsSpent(point model.Point, exclude *model.InputPoint) (bool, error) {
	for _, spender := range o.spends[point] {
		if exclude == nil || spender != *exclude {
			return true, nil
		}
	}

	return o.base.IsSpent(point, exclude)
}

func (o *overlay) TokenExists(symbol string) (bool, error) {
	return exists(o.GetToken(symbol))
}

// GetToken replays branch secondary issues on top of the record at the fork.
func (o *overlay) GetToken(symbol string) (*model.TokenRecord, error) {
	regs := o.tokens[model.SymbolHash(symbol)]
	if len(regs) == 0 {
		return o.base.GetToken(symbol)
	}

	current, err := o.base.GetToken(symbol)
	if err != nil && !errors.Is(err, errors.ErrTokenNotExists) {
		return nil, err
	}

	for _, reg := range regs {
		if reg.IsSecondaryIssue() && current != nil {
			if current, err = reg.Token.Accumulate(current); err != nil {
				return nil, err
			}

			continue
		}

		current = reg.Token
	}

	return current, nil
}

func (o *overlay) CertExists(symbol string, certType uint32) (bool, error) {
	return exists(o.GetCert(symbol, certType))
}

func (o *overlay) GetCert(symbol string, certType uint32) (*model.CertRecord, error) {
	if regs := o.certs[model.CertKey(symbol, certType)]; len(regs) > 0 {
		return regs[len(regs)-1].Cert, nil
	}

	return o.base.GetCert(symbol, certType)
}

func (o *overlay) UIDExists(symbol string) (bool, error) {
	return exists(o.GetUID(symbol))
}

func (o *overlay) GetUID(symbol string) (*model.UIDRecord, error) {
	if regs := o.uids[model.SymbolHash(symbol)]; len(regs) > 0 {
		return regs[len(regs)-1].UID, nil
	}

	return o.base.GetUID(symbol)
}

// GetUIDByAddress prefers a layered binding; a base binding only counts when
// the layer has not moved that uid elsewhere.
func (o *overlay) GetUIDByAddress(address string) (*model.UIDRecord, error) {
	var found *model.UIDRecord

	for _, regs := range o.uids {
		latest := regs[len(regs)-1].UID
		if latest.Detail.Address != address {
			continue
		}

		if found == nil || latest.Height > found.Height ||
			(latest.Height == found.Height && latest.Detail.Symbol > found.Detail.Symbol) {
			found = latest
		}
	}

	if found != nil {
		return found, nil
	}

	record, err := o.base.GetUIDByAddress(address)
	if err != nil {
		return nil, err
	}

	if regs := o.uids[model.SymbolHash(record.Detail.Symbol)]; len(regs) > 0 {
		return nil, errors.NewUIDNotExistsError("no uid bound to %s", address)
	}

	return record, nil
}

func (o *overlay) CandidateExists(symbol string) (bool, error) {
	return exists(o.GetCandidate(symbol))
}

func (o *overlay) GetCandidate(symbol string) (*model.CandidateRecord, error) {
	if regs := o.candidates[model.SymbolHash(symbol)]; len(regs) > 0 {
		return regs[len(regs)-1].Candidate, nil
	}

	return o.base.GetCandidate(symbol)
}

// Pending layers the transactions of a block under validation over a view.
// Added transactions confirm at one above the view height, which is left
// unchanged since the block itself is not part of the view.
type Pending struct {
	*overlay
}

func NewPending(base View) *Pending {
	return &Pending{overlay: newOverlay(base)}
}

// Add makes tx visible to later lookups.
func (p *Pending) Add(tx *model.Tx) {
	p.addTx(tx, p.Height()+1)
}
