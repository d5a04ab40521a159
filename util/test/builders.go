package test

import (
	"bytes"

	"github.com/libsv/go-bk/bec"
	"github.com/libsv/go-bk/crypto"
	"github.com/mvs-org/mvsd/chaincfg"
	"github.com/mvs-org/mvsd/model"
	"github.com/mvs-org/mvsd/script"
	"github.com/mvs-org/mvsd/script/interpreter"
)

// BlockInterval is the timestamp spacing of built blocks.
const BlockInterval = 600

// GenesisTimestamp is the timestamp of blocks built by Genesis.
const GenesisTimestamp = 1500000000

// Key is a deterministic test key pair.
type Key struct {
	Private *bec.PrivateKey
	Public  []byte
}

func NewKey(seed byte) *Key {
	priv, pub := bec.PrivKeyFromBytes(bec.S256(), bytes.Repeat([]byte{seed}, 32))

	return &Key{Private: priv, Public: pub.SerialiseCompressed()}
}

func (k *Key) Hash() []byte {
	return crypto.Hash160(k.Public)
}

func (k *Key) PayScript() script.Script {
	return script.ToPayKeyHash(k.Hash())
}

func (k *Key) Address(versions model.AddressVersions) string {
	address, err := model.NewPaymentAddress(versions.PayKeyHash, k.Hash())
	if err != nil {
		panic(err)
	}

	return address.String()
}

// RegtestAddress is the key's address with regtest version bytes.
func (k *Key) RegtestAddress() string {
	return k.Address(chaincfg.RegressionNetParams.Addresses)
}

// LockHeightScript pays key with the output locked for lockHeight blocks.
func LockHeightScript(key *Key, lockHeight uint64) script.Script {
	return script.ToPayKeyHashWithLockHeight(key.Hash(), lockHeight)
}

func Currency(value uint64, payTo script.Script) *model.Output {
	return &model.Output{Value: value, Script: payTo, Attachment: model.NewAttachment(&model.Currency{})}
}

func Asset(value uint64, payTo script.Script, data model.AttachmentData) *model.Output {
	return &model.Output{Value: value, Script: payTo, Attachment: model.NewAttachment(data)}
}

// CoinbaseScript encodes height as the first push, followed by an extra nonce.
func CoinbaseScript(height uint32, extraNonce uint32) script.Script {
	return script.Script{
		script.NewDataOperation(script.NumberBytes(int64(height))),
		script.NewDataOperation(script.NumberBytes(int64(extraNonce) + 1)),
	}
}

func Coinbase(height uint32, outputs ...*model.Output) *model.Tx {
	return &model.Tx{
		Version: model.TxVersionFirst,
		Inputs: []*model.Input{{
			PreviousOutput: model.NullPoint,
			Script:         CoinbaseScript(height, 0),
			Sequence:       model.MaxInputSequence,
		}},
		Outputs: outputs,
	}
}

// Genesis builds a height zero block paying value to key.
func Genesis(key *Key, value uint64) *model.Block {
	return chaincfg.NewGenesisBlock(GenesisTimestamp, chaincfg.RegressionNetParams.PowLimitBits, key.PayScript(), value)
}

// NextBlock builds the child of prev holding txs, stamped BlockInterval later.
func NextBlock(prev *model.Block, txs ...*model.Tx) *model.Block {
	return NextBlockWithBits(prev, prev.Header.Bits, txs...)
}

// NextBlockWithBits builds a child of prev with a chosen difficulty, which
// lets fork tests make one branch heavier than another.
func NextBlockWithBits(prev *model.Block, bits uint32, txs ...*model.Tx) *model.Block {
	block := &model.Block{
		Header: model.BlockHeader{
			Version:           model.BlockVersionPoW,
			PreviousBlockHash: prev.Hash(),
			Timestamp:         prev.Header.Timestamp + BlockInterval,
			Bits:              bits,
			Number:            prev.Header.Number + 1,
		},
		Transactions: txs,
	}
	block.Header.MerkleRoot = block.CalculateMerkleRoot()

	return block
}

// Seal recomputes the merkle root after the transactions were changed.
func Seal(block *model.Block) *model.Block {
	block.Header.MerkleRoot = block.CalculateMerkleRoot()
	return block
}

// Spend builds a version 1 transaction spending output index of prev with key.
func Spend(prev *model.Tx, index uint32, key *Key, outputs ...*model.Output) *model.Tx {
	return SpendVersion(model.TxVersionFirst, []*model.Tx{prev}, []uint32{index}, []*Key{key}, outputs...)
}

// SpendVersion builds and signs a transaction spending prevs[i]:indexes[i]
// with keys[i]. Previous outputs must be pay-key-hash shaped.
func SpendVersion(version uint32, prevs []*model.Tx, indexes []uint32, keys []*Key, outputs ...*model.Output) *model.Tx {
	tx := &model.Tx{Version: version, Outputs: outputs}

	for i, prev := range prevs {
		tx.Inputs = append(tx.Inputs, &model.Input{
			PreviousOutput: model.Point{Hash: prev.Hash(), Index: indexes[i]},
			Sequence:       model.MaxInputSequence,
		})
	}

	for i, prev := range prevs {
		SignInput(tx, i, prev.Outputs[indexes[i]].Script, keys[i])
	}

	return tx
}

// SignInput signs input i against prevScript, which must be pay-key-hash
// or pay-key-hash-with-lock-height shaped.
func SignInput(tx *model.Tx, i int, prevScript script.Script, key *Key) {
	sig, err := interpreter.Sign(tx, i, prevScript, interpreter.SigHashAll, key.Private)
	if err != nil {
		panic(err)
	}

	if lockHeight, ok := script.LockHeightFromPayKeyHashWithLockHeight(prevScript); ok {
		tx.Inputs[i].Script = script.ToSignKeyHashWithLockHeight(sig, key.Public, uint64(lockHeight))
		return
	}

	tx.Inputs[i].Script = script.ToSignKeyHash(sig, key.Public)
}

// Chain builds count empty blocks on top of prev, each with a coinbase paying key.
func Chain(prev *model.Block, key *Key, subsidy uint64, count int) []*model.Block {
	blocks := make([]*model.Block, 0, count)

	for i := 0; i < count; i++ {
		height := prev.Header.Number + 1
		prev = NextBlock(prev, Coinbase(height, Currency(subsidy, key.PayScript())))
		blocks = append(blocks, prev)
	}

	return blocks
}
