package chaincfg

import (
	"math"
	"math/bits"
	"time"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/mvs-org/mvsd/errors"
	"github.com/mvs-org/mvsd/model"
	"github.com/mvs-org/mvsd/script/interpreter"
)

// CoinageRateDenominator scales the coinage reward rates.
const CoinageRateDenominator = 10000000

// Checkpoint identifies a known good point in the block chain.
type Checkpoint struct {
	Height uint32
	Hash   *chainhash.Hash
}

// BIP30Exception is a historical block whose transactions are not indexed
// because they duplicate an earlier coinbase.
type BIP30Exception struct {
	Height uint32
	Hash   *chainhash.Hash
}

// Params defines a network by its parameters.
type Params struct {
	// Name defines a human-readable identifier for the network.
	Name string

	// GenesisBlock defines the first block of the chain.
	GenesisBlock *model.Block

	// GenesisHash is the hash of the genesis block.
	GenesisHash *chainhash.Hash

	// PowLimitBits is the compact target of the easiest allowed block.
	PowLimitBits uint32

	// Addresses holds the base58check version bytes.
	Addresses model.AddressVersions

	// CoinbaseMaturity is the number of confirmations before a coinbase
	// output may be spent.
	CoinbaseMaturity uint32

	// InitialSubsidy is reduced by SubsidyReductionPercent every
	// SubsidyReductionInterval blocks.
	InitialSubsidy           uint64
	SubsidyReductionInterval uint32
	SubsidyReductionPercent  uint64

	MaxMoney       uint64
	MaxBlockSize   int
	MaxBlockSigOps int
	MaxTxSize      int
	MinTxFee       uint64

	// MaxFutureBlockTime is how far ahead of the local clock a block
	// timestamp may be.
	MaxFutureBlockTime time.Duration

	// Activation heights.
	BIP16Height       uint32
	BIP34Height       uint32
	BIP65Height       uint32
	BIP66Height       uint32
	AttenuationHeight uint32
	NovaHeight        uint32
	PoSHeight         uint32
	DPoSHeight        uint32

	// EnforceBIP30 rejects transactions duplicating an unspent one.
	EnforceBIP30    bool
	BIP30Exceptions []BIP30Exception

	Checkpoints []Checkpoint

	// CoinageLockHeights and CoinageRates define the deposit reward curve:
	// a deposit locked for at least CoinageLockHeights[i] blocks earns
	// CoinageRates[i] / CoinageRateDenominator of its value.
	CoinageLockHeights []uint64
	CoinageRates       []uint64

	// VoteTokenSymbol is the token whose lock-height transfers are votes.
	VoteTokenSymbol string
}

// Subsidy returns the block reward at height.
func (p *Params) Subsidy(height uint32) uint64 {
	subsidy := p.InitialSubsidy
	if p.SubsidyReductionInterval == 0 {
		return subsidy
	}

	for i := height / p.SubsidyReductionInterval; i > 0 && subsidy > 0; i-- {
		subsidy = subsidy * p.SubsidyReductionPercent / 100
	}

	return subsidy
}

// CoinageReward returns the reward owed for depositing value for
// lockHeight blocks. Lock heights below the first bucket earn nothing.
func (p *Params) CoinageReward(value uint64, lockHeight uint64) uint64 {
	rate := uint64(0)

	for i, bucket := range p.CoinageLockHeights {
		if lockHeight >= bucket {
			rate = p.CoinageRates[i]
		}
	}

	if rate == 0 {
		return 0
	}

	hi, lo := bits.Mul64(value, rate)
	if hi >= CoinageRateDenominator {
		return math.MaxUint64
	}

	reward, _ := bits.Div64(hi, lo, CoinageRateDenominator)

	return reward
}

// IsValidLockHeight reports whether lockHeight is exactly one of the
// deposit buckets.
func (p *Params) IsValidLockHeight(lockHeight uint64) bool {
	for _, bucket := range p.CoinageLockHeights {
		if lockHeight == bucket {
			return true
		}
	}

	return false
}

// ScriptFlags returns the script verification rules in force at height.
func (p *Params) ScriptFlags(height uint32) interpreter.Flags {
	flags := interpreter.VerifyNone

	if height >= p.BIP16Height {
		flags |= interpreter.VerifyBIP16
	}

	if height >= p.BIP65Height {
		flags |= interpreter.VerifyBIP65
	}

	if height >= p.BIP66Height {
		flags |= interpreter.VerifyBIP66
	}

	if height >= p.AttenuationHeight {
		flags |= interpreter.VerifyAttenuation
	}

	return flags
}

// IsTxVersionActive reports whether a transaction version may be used at height.
func (p *Params) IsTxVersionActive(version uint32, height uint32) bool {
	switch {
	case version == model.TxVersionCheckNovaFeature:
		return height >= p.NovaHeight
	case version == model.TxVersionCheckOutputScript:
		return height >= p.AttenuationHeight
	default:
		return version >= model.TxVersionFirst && version < model.TxVersionMax
	}
}

// IsBlockVersionActive reports whether a block version may be used at height.
func (p *Params) IsBlockVersionActive(version uint32, height uint32) bool {
	switch version {
	case model.BlockVersionPoW:
		return true
	case model.BlockVersionPoS:
		return height >= p.PoSHeight
	case model.BlockVersionDPoS:
		return height >= p.DPoSHeight
	default:
		return false
	}
}

// IsBIP30Exception reports whether the block at height with hash is one of
// the historical duplicate coinbase blocks.
func (p *Params) IsBIP30Exception(hash chainhash.Hash, height uint32) bool {
	for _, exception := range p.BIP30Exceptions {
		if exception.Height == height && exception.Hash.IsEqual(&hash) {
			return true
		}
	}

	return false
}

// Checkpoint returns the checkpointed hash at height, if any.
func (p *Params) Checkpoint(height uint32) (*chainhash.Hash, bool) {
	for _, checkpoint := range p.Checkpoints {
		if checkpoint.Height == height {
			return checkpoint.Hash, true
		}
	}

	return nil, false
}

var bip30Exceptions = []BIP30Exception{
	{Height: 91842, Hash: newHashFromStr("00000000000a4d0a398161ffc163c503763b1f4360639393e0e4c8e300e0caec")},
	{Height: 91880, Hash: newHashFromStr("00000000000743f190a18c5577a3c2d2a1f610ae9601ac046a38084ccb7cd721")},
}

var (
	coinageLockHeights = []uint64{25200, 108000, 331200, 655200, 1314000}
	coinageRates       = []uint64{9589, 66667, 320000, 800000, 2000000}
)

// MainNetParams defines the network parameters for the main network.
var MainNetParams = Params{
	Name:         "mainnet",
	PowLimitBits: 0x1d00ffff,
	Addresses:    model.AddressVersions{PayKeyHash: 0x32, PayScriptHash: 0x05},

	CoinbaseMaturity:         1000,
	InitialSubsidy:           300000000,
	SubsidyReductionInterval: 500000,
	SubsidyReductionPercent:  95,

	MaxMoney:           10000000000000000,
	MaxBlockSize:       1000000,
	MaxBlockSigOps:     1000000 / 50,
	MaxTxSize:          1000000,
	MinTxFee:           10000,
	MaxFutureBlockTime: 2 * time.Hour,

	BIP16Height:       0,
	BIP34Height:       1000000,
	BIP65Height:       1000000,
	BIP66Height:       1000000,
	AttenuationHeight: 1270000,
	NovaHeight:        1270000,
	PoSHeight:         1924000,
	DPoSHeight:        2500000,

	EnforceBIP30:    true,
	BIP30Exceptions: bip30Exceptions,

	CoinageLockHeights: coinageLockHeights,
	CoinageRates:       coinageRates,
	VoteTokenSymbol:    "DNA",
}

// TestNetParams defines the network parameters for the test network.
var TestNetParams = Params{
	Name:         "testnet",
	PowLimitBits: 0x1e0fffff,
	Addresses:    model.AddressVersions{PayKeyHash: 0x7f, PayScriptHash: 0xc4},

	CoinbaseMaturity:         1000,
	InitialSubsidy:           300000000,
	SubsidyReductionInterval: 500000,
	SubsidyReductionPercent:  95,

	MaxMoney:           10000000000000000,
	MaxBlockSize:       1000000,
	MaxBlockSigOps:     1000000 / 50,
	MaxTxSize:          1000000,
	MinTxFee:           10000,
	MaxFutureBlockTime: 2 * time.Hour,

	BIP34Height:       900000,
	BIP65Height:       900000,
	BIP66Height:       900000,
	AttenuationHeight: 1000000,
	NovaHeight:        1000000,
	PoSHeight:         1300000,
	DPoSHeight:        1800000,

	EnforceBIP30: true,

	CoinageLockHeights: coinageLockHeights,
	CoinageRates:       coinageRates,
	VoteTokenSymbol:    "DNA",
}

// RegressionNetParams defines the network parameters for the regression
// test network. Every rule is active from the first block.
var RegressionNetParams = Params{
	Name:         "regtest",
	PowLimitBits: 0x207fffff,
	Addresses:    model.AddressVersions{PayKeyHash: 0x7f, PayScriptHash: 0xc4},

	CoinbaseMaturity:         10,
	InitialSubsidy:           300000000,
	SubsidyReductionInterval: 150,
	SubsidyReductionPercent:  95,

	MaxMoney:           10000000000000000,
	MaxBlockSize:       1000000,
	MaxBlockSigOps:     1000000 / 50,
	MaxTxSize:          1000000,
	MinTxFee:           10000,
	MaxFutureBlockTime: 2 * time.Hour,

	EnforceBIP30: true,

	CoinageLockHeights: coinageLockHeights,
	CoinageRates:       coinageRates,
	VoteTokenSymbol:    "DNA",
}

var registeredNets = map[string]*Params{}

// Register makes the parameters of a network available to GetChainParams.
func Register(params *Params) error {
	if _, exists := registeredNets[params.Name]; exists {
		return errors.NewConfigurationError("network %s already registered", params.Name)
	}

	registeredNets[params.Name] = params

	return nil
}

func mustRegister(params *Params) {
	if err := Register(params); err != nil {
		panic("failed to register network: " + err.Error())
	}
}

// newHashFromStr converts a hard-coded big-endian hex string into a hash.
// It panics on error since the input is known good.
func newHashFromStr(hexStr string) *chainhash.Hash {
	hash, err := chainhash.NewHashFromStr(hexStr)
	if err != nil {
		panic(err)
	}

	return hash
}

func GetChainParams(network string) (*Params, error) {
	params, ok := registeredNets[network]
	if !ok {
		return nil, errors.NewConfigurationError("unknown network %s", network)
	}

	return params, nil
}

func init() {
	for _, params := range []*Params{&MainNetParams, &TestNetParams, &RegressionNetParams} {
		params.GenesisBlock = genesisBlock(params)

		hash := params.GenesisBlock.Hash()
		params.GenesisHash = &hash

		mustRegister(params)
	}
}
