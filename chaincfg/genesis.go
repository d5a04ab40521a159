package chaincfg

import (
	"github.com/mvs-org/mvsd/model"
	"github.com/mvs-org/mvsd/script"
)

const genesisTimestamp = 1486796400

var genesisMessage = []byte("mvsd genesis: ledger core with typed asset payloads")

// NewGenesisBlock builds a height zero block whose coinbase pays value to payScript.
func NewGenesisBlock(timestamp uint32, bits uint32, payScript script.Script, value uint64) *model.Block {
	coinbase := &model.Tx{
		Version: model.TxVersionFirst,
		Inputs: []*model.Input{{
			PreviousOutput: model.NullPoint,
			Script: script.Script{
				script.NewDataOperation(script.NumberBytes(0x1d00ffff)),
				script.NewDataOperation(genesisMessage),
			},
			Sequence: model.MaxInputSequence,
		}},
		Outputs: []*model.Output{{
			Value:      value,
			Script:     payScript,
			Attachment: model.NewAttachment(&model.Currency{}),
		}},
	}

	block := &model.Block{
		Header: model.BlockHeader{
			Version:   model.BlockVersionPoW,
			Timestamp: timestamp,
			Bits:      bits,
			Number:    0,
		},
		Transactions: []*model.Tx{coinbase},
	}
	block.Header.MerkleRoot = block.CalculateMerkleRoot()

	return block
}

// the genesis reward is paid to the blackhole script and cannot be spent
func genesisBlock(params *Params) *model.Block {
	blackhole := script.ToPayKeyHash(make([]byte, script.ShortHashSize))

	return NewGenesisBlock(genesisTimestamp, params.PowLimitBits, blackhole, params.InitialSubsidy)
}
