/*
Package validator implements MVS transaction validation.

TxValidator enforces the consensus rules every transaction must satisfy: the
structural checks that need no chain state, the connection of each input to
the output it spends, the asset payload invariants, and fee accounting. The
same rules serve two modes. In block mode a transaction is checked while its
block is connected and previous outputs may resolve into the branch being
evaluated. In pool mode Validator runs the staged pipeline for a standalone
transaction against the committed chain and the transaction pool.
*/
package validator

import (
	"github.com/mvs-org/mvsd/chaincfg"
	"github.com/mvs-org/mvsd/errors"
	"github.com/mvs-org/mvsd/model"
	"github.com/mvs-org/mvsd/script"
	"github.com/mvs-org/mvsd/script/interpreter"
	"github.com/mvs-org/mvsd/settings"
	"github.com/mvs-org/mvsd/stores/chainview"
	"github.com/mvs-org/mvsd/ulogger"
)

const (
	minCoinbaseScriptSize = 2
	maxCoinbaseScriptSize = 200
)

// TxValidator implements the transaction consensus rules.
type TxValidator struct {
	logger   ulogger.Logger
	settings *settings.Settings
	params   *chaincfg.Params
}

// ConnectedInput is the previous output an input was connected to.
type ConnectedInput struct {
	Point    model.Point
	Output   *model.Output
	Height   uint32
	Coinbase bool
	// SigOps counts the redeem script signature operations of a
	// pay-to-script-hash spend.
	SigOps int
}

// Connected is the outcome of validating a transaction in block mode.
type Connected struct {
	Inputs     []*ConnectedInput
	InputValue uint64
	Fee        uint64
	SigOps     int
}

func NewTxValidator(logger ulogger.Logger, tSettings *settings.Settings) *TxValidator {
	initPrometheusMetrics()

	return &TxValidator{
		logger:   logger,
		settings: tSettings,
		params:   tSettings.ChainCfgParams,
	}
}

// CheckTransactionBasic performs the checks that need at most the height of
// the previous transactions:
//  1. version is known and active at height
//  2. neither inputs nor outputs are empty
//  3. serialized size is within the limit
//  4. no previous output is spent twice by the transaction
//  5. output values, scripts, payloads and symbols are valid
//  6. coinbase script size, null previous outputs and input lock heights
func (tv *TxValidator) CheckTransactionBasic(tx *model.Tx, height uint32, view chainview.View) error {
	if err := tv.checkVersion(tx, height); err != nil {
		return err
	}

	if len(tx.Inputs) == 0 || len(tx.Outputs) == 0 {
		return errors.NewEmptyTransactionError("transaction has no inputs or outputs")
	}

	if size := tx.SerializedSize(); size > tv.params.MaxTxSize {
		return errors.NewTxSizeLimitError("transaction size %d exceeds %d", size, tv.params.MaxTxSize)
	}

	if tx.HasDuplicateInputs() {
		return errors.NewTxDoubleSpendError("transaction spends the same output twice")
	}

	if err := tv.checkOutputs(tx); err != nil {
		return err
	}

	return tv.checkInputs(tx, height, view)
}

func (tv *TxValidator) checkVersion(tx *model.Tx, height uint32) error {
	if tx.Version >= model.TxVersionMax || !tv.params.IsTxVersionActive(tx.Version, height) {
		return errors.NewTxVersionError("transaction version %d is not active at height %d", tx.Version, height)
	}

	if tx.Version == model.TxVersionTestnet && !tv.settings.Validator.UseTestnetRules {
		return errors.NewTxVersionError("transaction version %d requires testnet rules", tx.Version)
	}

	return nil
}

func (tv *TxValidator) checkOutputs(tx *model.Tx) error {
	var total uint64

	coinbase := tx.IsCoinbase()

	for i, out := range tx.Outputs {
		if tx.Version >= model.TxVersionCheckOutputScript && !tv.settings.Validator.AcceptNonStandard &&
			script.Classify(out.Script) == script.NonStandard {
			return errors.NewScriptNotStandardError("output %d script is not standard", i)
		}

		if out.Value > tv.params.MaxMoney || total > tv.params.MaxMoney-out.Value {
			return errors.NewOutputValueOverflowError("output %d takes the total above %d", i, tv.params.MaxMoney)
		}

		total += out.Value

		if !out.Attachment.IsValid() {
			return errors.NewAttachmentInvalidError("output %d carries an invalid %s attachment", i, out.Kind())
		}

		if err := checkSymbol(out, tx.Version); err != nil {
			return errors.NewSymbolInvalidError("output %d", i, err)
		}

		if !coinbase && script.IsPayKeyHashWithLockHeight(out.Script) {
			if lockHeight, ok := script.LockHeightFromPayKeyHashWithLockHeight(out.Script); !ok || lockHeight < 0 {
				return errors.NewOutputLockHeightError("output %d has an invalid lock height", i)
			}
		}
	}

	return nil
}

func checkSymbol(out *model.Output, txVersion uint32) error {
	var (
		kind   model.SymbolKind
		symbol string
	)

	switch data := out.Attachment.Data.(type) {
	case *model.TokenDetail:
		kind, symbol = model.SymbolToken, data.Symbol
	case *model.TokenTransfer:
		kind, symbol = model.SymbolToken, data.Symbol
	case *model.TokenCert:
		kind, symbol = model.SymbolCert, data.Symbol
	case *model.UIDDetail:
		kind, symbol = model.SymbolUID, data.Symbol
	case *model.CandidateInfo:
		kind, symbol = model.SymbolCandidate, data.Symbol
	default:
		return nil
	}

	if !model.IsValidSymbol(kind, symbol, txVersion) {
		return errors.NewSymbolInvalidError("symbol %q is not valid", symbol)
	}

	return nil
}

func (tv *TxValidator) checkInputs(tx *model.Tx, height uint32, view chainview.View) error {
	if tx.IsCoinbase() {
		size := tx.Inputs[0].Script.SerializedSize()
		if size < minCoinbaseScriptSize || size > maxCoinbaseScriptSize {
			return errors.NewInvalidCoinbaseScriptSizeError("coinbase script of %d bytes", size)
		}

		return nil
	}

	for i, in := range tx.Inputs {
		if in.PreviousOutput.IsNull() {
			return errors.NewPreviousOutputNullError("input %d spends a null output", i)
		}

		lockHeight, ok := script.LockHeightFromSignKeyHashWithLockHeight(in.Script)
		if !ok {
			continue
		}

		// an unknown parent is reported when the input is connected
		_, prevHeight, err := view.GetTransaction(in.PreviousOutput.Hash)
		if err != nil {
			if errors.Is(err, errors.ErrTxNotFound) {
				continue
			}

			return err
		}

		if err = checkInputLockHeight(lockHeight, prevHeight, height); err != nil {
			return errors.NewInputLockHeightError("input %d", i, err)
		}
	}

	return nil
}

func checkInputLockHeight(lockHeight int64, prevHeight uint32, height uint32) error {
	if lockHeight < 0 || height < prevHeight || uint64(lockHeight) > uint64(height-prevHeight) {
		return errors.NewInputLockHeightError("lock height %d not reached, output confirmed at %d, spent at %d", lockHeight, prevHeight, height)
	}

	return nil
}

// ConnectInput resolves the output spent by input index and checks the
// spend: value range, coinbase maturity, script and double spend. An input
// whose parent is unknown fails with ErrInputNotFound.
func (tv *TxValidator) ConnectInput(tx *model.Tx, index int, height uint32, view chainview.View) (*ConnectedInput, error) {
	in := tx.Inputs[index]

	out, prevHeight, coinbase, err := view.GetOutput(in.PreviousOutput)
	if err != nil {
		if errors.Is(err, errors.ErrTxNotFound) {
			return nil, errors.NewInputNotFoundError("input %d spends unknown output %s", index, in.PreviousOutput, err)
		}

		return nil, err
	}

	connected := &ConnectedInput{
		Point:    in.PreviousOutput,
		Output:   out,
		Height:   prevHeight,
		Coinbase: coinbase,
	}

	if script.IsPayScriptHash(out.Script) {
		connected.SigOps = script.P2SHSigOps(in.Script)
	}

	if out.Value > tv.params.MaxMoney {
		return nil, errors.NewSpendOverflowError("input %d spends %d", index, out.Value)
	}

	if coinbase && (height < prevHeight || height-prevHeight < tv.params.CoinbaseMaturity) {
		return nil, errors.NewCoinbaseMaturityError("input %d spends a coinbase output from height %d at height %d", index, prevHeight, height)
	}

	if err = interpreter.VerifyScript(tx, index, out.Script, tv.params.ScriptFlags(height)); err != nil {
		return nil, errors.NewValidateInputsFailedError("input %d failed script verification", index, err)
	}

	self := model.InputPoint{Hash: tx.Hash(), Index: uint32(index)}

	spent, err := view.IsSpent(in.PreviousOutput, &self)
	if err != nil {
		return nil, err
	}

	if spent {
		return nil, errors.NewTxDoubleSpendError("input %d spends %s which is already spent", index, in.PreviousOutput)
	}

	return connected, nil
}

// CheckTransaction validates tx as part of a block confirmed at height. The
// coinbase is only checked structurally; its value is checked by the block.
func (tv *TxValidator) CheckTransaction(tx *model.Tx, height uint32, view chainview.View) (*Connected, error) {
	if err := tv.CheckTransactionBasic(tx, height, view); err != nil {
		return nil, err
	}

	if tx.IsCoinbase() {
		return &Connected{}, nil
	}

	result := &Connected{Inputs: make([]*ConnectedInput, 0, len(tx.Inputs))}

	for i := range tx.Inputs {
		connected, err := tv.ConnectInput(tx, i, height, view)
		if err != nil {
			return nil, err
		}

		if connected.Output.Value > tv.params.MaxMoney-result.InputValue {
			return nil, errors.NewSpendOverflowError("inputs spend more than %d", tv.params.MaxMoney)
		}

		result.InputValue += connected.Output.Value
		result.SigOps += connected.SigOps
		result.Inputs = append(result.Inputs, connected)
	}

	if err := tv.CheckPayloads(tx, height, view, result.Inputs); err != nil {
		return nil, err
	}

	fee, err := tv.TallyFees(tx, result.InputValue, 0)
	if err != nil {
		return nil, err
	}

	result.Fee = fee

	return result, nil
}

// TallyFees adds the fee paid by tx to totalFees. A coinbase spending
// nothing pays no fee.
func (tv *TxValidator) TallyFees(tx *model.Tx, inputValue uint64, totalFees uint64) (uint64, error) {
	if tx.IsCoinbase() && inputValue == 0 {
		return totalFees, nil
	}

	outputValue, ok := tx.TotalOutputValue()
	if !ok {
		return 0, errors.NewOutputValueOverflowError("transaction outputs overflow")
	}

	if inputValue < outputValue {
		return 0, errors.NewValidateInputsFailedError("inputs %d are less than outputs %d", inputValue, outputValue)
	}

	fee := inputValue - outputValue
	if fee < tv.params.MinTxFee {
		return 0, errors.NewFeesOutOfRangeError("fee %d is below the minimum %d", fee, tv.params.MinTxFee)
	}

	if fee > tv.params.MaxMoney || totalFees > tv.params.MaxMoney-fee {
		return 0, errors.NewFeesOutOfRangeError("total fees exceed %d", tv.params.MaxMoney)
	}

	return totalFees + fee, nil
}
