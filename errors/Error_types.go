package errors

var (
	ErrUnknown                   = New(ERR_UNKNOWN, "unknown error")
	ErrInvalidArgument           = New(ERR_INVALID_ARGUMENT, "invalid argument")
	ErrThresholdExceeded         = New(ERR_THRESHOLD_EXCEEDED, "threshold exceeded")
	ErrNotFound                  = New(ERR_NOT_FOUND, "not found")
	ErrProcessing                = New(ERR_PROCESSING, "error processing")
	ErrConfiguration             = New(ERR_CONFIGURATION, "configuration error")
	ErrContextCanceled           = New(ERR_CONTEXT_CANCELED, "context canceled")
	ErrError                     = New(ERR_ERROR, "generic error")
	ErrWrongVariant              = New(ERR_WRONG_VARIANT, "attachment accessor called on the wrong variant")
	ErrDecode                    = New(ERR_DECODE, "decode failed")
	ErrServiceStopped            = New(ERR_SERVICE_STOPPED, "service stopped")
	ErrService                   = New(ERR_SERVICE_ERROR, "service error")
	ErrStorage                   = New(ERR_STORAGE_ERROR, "storage error")
	ErrStorageLocked             = New(ERR_STORAGE_LOCKED, "store is locked by another process")
	ErrStorageVersion            = New(ERR_STORAGE_VERSION, "unsupported store version")
	ErrStorageCorrupt            = New(ERR_STORAGE_CORRUPT, "store is corrupt")
	ErrBlockNotFound             = New(ERR_BLOCK_NOT_FOUND, "block not found")
	ErrBlockExists               = New(ERR_BLOCK_EXISTS, "block exists")
	ErrBlockInvalid              = New(ERR_BLOCK_INVALID, "block invalid")
	ErrEmptyBlock                = New(ERR_EMPTY_BLOCK, "block has no transactions")
	ErrBlockSizeLimit            = New(ERR_BLOCK_SIZE_LIMIT, "block size limit exceeded")
	ErrFirstNotCoinbase          = New(ERR_FIRST_NOT_COINBASE, "first transaction is not a coinbase")
	ErrExtraCoinbases            = New(ERR_EXTRA_COINBASES, "more than one coinbase")
	ErrFuturisticTimestamp       = New(ERR_FUTURISTIC_TIMESTAMP, "block timestamp too far in the future")
	ErrTimestampTooEarly         = New(ERR_TIMESTAMP_TOO_EARLY, "block timestamp earlier than its parent")
	ErrInternalDuplicate         = New(ERR_INTERNAL_DUPLICATE, "duplicate transaction or symbol in block")
	ErrBlockLegacySigopLimit     = New(ERR_BLOCK_LEGACY_SIGOP_LIMIT, "block legacy sigop limit exceeded")
	ErrMerkleMismatch            = New(ERR_MERKLE_MISMATCH, "merkle root mismatch")
	ErrNonFinalTransaction       = New(ERR_NON_FINAL_TRANSACTION, "non-final transaction")
	ErrCheckpointsFailed         = New(ERR_CHECKPOINTS_FAILED, "checkpoint mismatch")
	ErrOldVersionBlock           = New(ERR_OLD_VERSION_BLOCK, "block version too old")
	ErrCoinbaseHeightMismatch    = New(ERR_COINBASE_HEIGHT_MISMATCH, "coinbase does not encode the block height")
	ErrDuplicateOrSpent          = New(ERR_DUPLICATE_OR_SPENT, "transaction hash duplicates an unspent transaction")
	ErrBlockSigopLimit           = New(ERR_BLOCK_SIGOP_LIMIT, "block sigop limit exceeded")
	ErrCoinbaseTooLarge          = New(ERR_COINBASE_TOO_LARGE, "coinbase value too large")
	ErrCoinageRewardMismatch     = New(ERR_COINAGE_REWARD_MISMATCH, "coinage reward coinbase mismatch")
	ErrOrphanBlock               = New(ERR_ORPHAN_BLOCK, "block parent unknown")
	ErrBlockRejected             = New(ERR_BLOCK_REJECTED, "block previously rejected")
	ErrInsufficientWork          = New(ERR_INSUFFICIENT_WORK, "branch does not exceed chain work")
	ErrTxNotFound                = New(ERR_TX_NOT_FOUND, "tx not found")
	ErrTxInvalid                 = New(ERR_TX_INVALID, "tx invalid")
	ErrTxVersion                 = New(ERR_TX_VERSION, "tx version not allowed")
	ErrEmptyTransaction          = New(ERR_EMPTY_TRANSACTION, "tx has no inputs or outputs")
	ErrTxSizeLimit               = New(ERR_TX_SIZE_LIMIT, "tx size limit exceeded")
	ErrTxDoubleSpend             = New(ERR_TX_DOUBLE_SPEND, "tx double spend")
	ErrOutputValueOverflow       = New(ERR_OUTPUT_VALUE_OVERFLOW, "output value overflow")
	ErrInvalidCoinbaseScriptSize = New(ERR_INVALID_COINBASE_SCRIPT_SIZE, "coinbase script size out of range")
	ErrPreviousOutputNull        = New(ERR_PREVIOUS_OUTPUT_NULL, "previous output is null")
	ErrInputLockHeight           = New(ERR_INPUT_LOCK_HEIGHT, "input lock height not reached")
	ErrOutputLockHeight          = New(ERR_OUTPUT_LOCK_HEIGHT, "invalid output lock height")
	ErrScriptNotStandard         = New(ERR_SCRIPT_NOT_STANDARD, "output script not standard")
	ErrInputNotFound             = New(ERR_INPUT_NOT_FOUND, "previous output not found")
	ErrCoinbaseMaturity          = New(ERR_COINBASE_MATURITY, "coinbase not mature")
	ErrValidateInputsFailed      = New(ERR_VALIDATE_INPUTS_FAILED, "input validation failed")
	ErrSpendOverflow             = New(ERR_SPEND_OVERFLOW, "spend exceeds input value")
	ErrFeesOutOfRange            = New(ERR_FEES_OUT_OF_RANGE, "fees out of range")
	ErrTxDuplicate               = New(ERR_TX_DUPLICATE, "tx already exists")
	ErrAttachmentInvalid         = New(ERR_ATTACHMENT_INVALID, "attachment invalid")
	ErrAttenuationModelParam     = New(ERR_ATTENUATION_MODEL_PARAM, "attenuation model parameter invalid")
	ErrAttenuationQuantityLocked = New(ERR_ATTENUATION_QUANTITY_LOCKED, "attenuated quantity still locked")
	ErrSymbolInvalid             = New(ERR_SYMBOL_INVALID, "symbol invalid")
	ErrSymbolNotMatch            = New(ERR_SYMBOL_NOT_MATCH, "symbol does not match inputs")
	ErrTxSigopLimit              = New(ERR_TX_SIGOP_LIMIT, "tx sigop limit exceeded")
	ErrScriptVerify              = New(ERR_SCRIPT_VERIFY, "script verification failed")
	ErrTokenAmountOverflow       = New(ERR_TOKEN_AMOUNT_OVERFLOW, "token amount overflow")
	ErrTokenAmountNotMatch       = New(ERR_TOKEN_AMOUNT_NOT_MATCH, "token amount does not match inputs")
	ErrTokenExists               = New(ERR_TOKEN_EXISTS, "token exists")
	ErrTokenNotExists            = New(ERR_TOKEN_NOT_EXISTS, "token does not exist")
	ErrTokenIssue                = New(ERR_TOKEN_ISSUE, "token issue invalid")
	ErrTokenSecondaryIssue       = New(ERR_TOKEN_SECONDARY_ISSUE, "token secondary issue invalid")
	ErrTokenSecondaryIssueShare  = New(ERR_TOKEN_SECONDARY_ISSUE_SHARE, "issuer share below secondary issue threshold")
	ErrTokenAddressNotMatch      = New(ERR_TOKEN_ADDRESS_NOT_MATCH, "token address does not match")
	ErrCertExists                = New(ERR_CERT_EXISTS, "certificate exists")
	ErrCertNotExists             = New(ERR_CERT_NOT_EXISTS, "certificate does not exist")
	ErrCertIssue                 = New(ERR_CERT_ISSUE, "certificate issue invalid")
	ErrCertTransfer              = New(ERR_CERT_TRANSFER, "certificate transfer invalid")
	ErrCertNotOwned              = New(ERR_CERT_NOT_OWNED, "certificate not owned")
	ErrUIDExists                 = New(ERR_UID_EXISTS, "uid exists")
	ErrUIDNotExists              = New(ERR_UID_NOT_EXISTS, "uid does not exist")
	ErrUIDAddressRegistered      = New(ERR_UID_ADDRESS_REGISTERED, "address already bound to a uid")
	ErrUIDRegister               = New(ERR_UID_REGISTER, "uid register invalid")
	ErrUIDTransfer               = New(ERR_UID_TRANSFER, "uid transfer invalid")
	ErrUIDAddressNotMatch        = New(ERR_UID_ADDRESS_NOT_MATCH, "uid address does not match")
	ErrCandidateExists           = New(ERR_CANDIDATE_EXISTS, "candidate exists")
	ErrCandidateNotExists        = New(ERR_CANDIDATE_NOT_EXISTS, "candidate does not exist")
	ErrCandidateRegister         = New(ERR_CANDIDATE_REGISTER, "candidate register invalid")
	ErrCandidateTransfer         = New(ERR_CANDIDATE_TRANSFER, "candidate transfer invalid")
	ErrPoolFilled                = New(ERR_POOL_FILLED, "evicted from full pool")
	ErrPoolDoubleSpend           = New(ERR_POOL_DOUBLE_SPEND, "pool tx conflicts with a confirmed spend")
	ErrBlockchainReorganized     = New(ERR_BLOCKCHAIN_REORGANIZED, "blockchain reorganized")
	ErrPoolSymbolRepeat          = New(ERR_POOL_SYMBOL_REPEAT, "symbol already used by a pool tx")
)

// errors initialization functions

func NewUnknownError(message string, params ...interface{}) error {
	return New(ERR_UNKNOWN, message, params...)
}
func NewInvalidArgumentError(message string, params ...interface{}) error {
	return New(ERR_INVALID_ARGUMENT, message, params...)
}
func NewThresholdExceededError(message string, params ...interface{}) error {
	return New(ERR_THRESHOLD_EXCEEDED, message, params...)
}
func NewNotFoundError(message string, params ...interface{}) error {
	return New(ERR_NOT_FOUND, message, params...)
}
func NewProcessingError(message string, params ...interface{}) error {
	return New(ERR_PROCESSING, message, params...)
}
func NewConfigurationError(message string, params ...interface{}) error {
	return New(ERR_CONFIGURATION, message, params...)
}
func NewContextCanceledError(message string, params ...interface{}) error {
	return New(ERR_CONTEXT_CANCELED, message, params...)
}
func NewError(message string, params ...interface{}) error {
	return New(ERR_ERROR, message, params...)
}
func NewWrongVariantError(message string, params ...interface{}) error {
	return New(ERR_WRONG_VARIANT, message, params...)
}
func NewDecodeError(message string, params ...interface{}) error {
	return New(ERR_DECODE, message, params...)
}
func NewServiceStoppedError(message string, params ...interface{}) error {
	return New(ERR_SERVICE_STOPPED, message, params...)
}
func NewServiceError(message string, params ...interface{}) error {
	return New(ERR_SERVICE_ERROR, message, params...)
}
func NewStorageError(message string, params ...interface{}) error {
	return New(ERR_STORAGE_ERROR, message, params...)
}
func NewStorageLockedError(message string, params ...interface{}) error {
	return New(ERR_STORAGE_LOCKED, message, params...)
}
func NewStorageVersionError(message string, params ...interface{}) error {
	return New(ERR_STORAGE_VERSION, message, params...)
}
func NewStorageCorruptError(message string, params ...interface{}) error {
	return New(ERR_STORAGE_CORRUPT, message, params...)
}
func NewBlockNotFoundError(message string, params ...interface{}) error {
	return New(ERR_BLOCK_NOT_FOUND, message, params...)
}
func NewBlockExistsError(message string, params ...interface{}) error {
	return New(ERR_BLOCK_EXISTS, message, params...)
}
func NewBlockInvalidError(message string, params ...interface{}) error {
	return New(ERR_BLOCK_INVALID, message, params...)
}
func NewEmptyBlockError(message string, params ...interface{}) error {
	return New(ERR_EMPTY_BLOCK, message, params...)
}
func NewBlockSizeLimitError(message string, params ...interface{}) error {
	return New(ERR_BLOCK_SIZE_LIMIT, message, params...)
}
func NewFirstNotCoinbaseError(message string, params ...interface{}) error {
	return New(ERR_FIRST_NOT_COINBASE, message, params...)
}
func NewExtraCoinbasesError(message string, params ...interface{}) error {
	return New(ERR_EXTRA_COINBASES, message, params...)
}
func NewFuturisticTimestampError(message string, params ...interface{}) error {
	return New(ERR_FUTURISTIC_TIMESTAMP, message, params...)
}
func NewTimestampTooEarlyError(message string, params ...interface{}) error {
	return New(ERR_TIMESTAMP_TOO_EARLY, message, params...)
}
func NewInternalDuplicateError(message string, params ...interface{}) error {
	return New(ERR_INTERNAL_DUPLICATE, message, params...)
}
func NewBlockLegacySigopLimitError(message string, params ...interface{}) error {
	return New(ERR_BLOCK_LEGACY_SIGOP_LIMIT, message, params...)
}
func NewMerkleMismatchError(message string, params ...interface{}) error {
	return New(ERR_MERKLE_MISMATCH, message, params...)
}
func NewNonFinalTransactionError(message string, params ...interface{}) error {
	return New(ERR_NON_FINAL_TRANSACTION, message, params...)
}
func NewCheckpointsFailedError(message string, params ...interface{}) error {
	return New(ERR_CHECKPOINTS_FAILED, message, params...)
}
func NewOldVersionBlockError(message string, params ...interface{}) error {
	return New(ERR_OLD_VERSION_BLOCK, message, params...)
}
func NewCoinbaseHeightMismatchError(message string, params ...interface{}) error {
	return New(ERR_COINBASE_HEIGHT_MISMATCH, message, params...)
}
func NewDuplicateOrSpentError(message string, params ...interface{}) error {
	return New(ERR_DUPLICATE_OR_SPENT, message, params...)
}
func NewBlockSigopLimitError(message string, params ...interface{}) error {
	return New(ERR_BLOCK_SIGOP_LIMIT, message, params...)
}
func NewCoinbaseTooLargeError(message string, params ...interface{}) error {
	return New(ERR_COINBASE_TOO_LARGE, message, params...)
}
func NewCoinageRewardMismatchError(message string, params ...interface{}) error {
	return New(ERR_COINAGE_REWARD_MISMATCH, message, params...)
}
func NewOrphanBlockError(message string, params ...interface{}) error {
	return New(ERR_ORPHAN_BLOCK, message, params...)
}
func NewBlockRejectedError(message string, params ...interface{}) error {
	return New(ERR_BLOCK_REJECTED, message, params...)
}
func NewInsufficientWorkError(message string, params ...interface{}) error {
	return New(ERR_INSUFFICIENT_WORK, message, params...)
}
func NewTxNotFoundError(message string, params ...interface{}) error {
	return New(ERR_TX_NOT_FOUND, message, params...)
}
func NewTxInvalidError(message string, params ...interface{}) error {
	return New(ERR_TX_INVALID, message, params...)
}
func NewTxVersionError(message string, params ...interface{}) error {
	return New(ERR_TX_VERSION, message, params...)
}
func NewEmptyTransactionError(message string, params ...interface{}) error {
	return New(ERR_EMPTY_TRANSACTION, message, params...)
}
func NewTxSizeLimitError(message string, params ...interface{}) error {
	return New(ERR_TX_SIZE_LIMIT, message, params...)
}
func NewTxDoubleSpendError(message string, params ...interface{}) error {
	return New(ERR_TX_DOUBLE_SPEND, message, params...)
}
func NewOutputValueOverflowError(message string, params ...interface{}) error {
	return New(ERR_OUTPUT_VALUE_OVERFLOW, message, params...)
}
func NewInvalidCoinbaseScriptSizeError(message string, params ...interface{}) error {
	return New(ERR_INVALID_COINBASE_SCRIPT_SIZE, message, params...)
}
func NewPreviousOutputNullError(message string, params ...interface{}) error {
	return New(ERR_PREVIOUS_OUTPUT_NULL, message, params...)
}
func NewInputLockHeightError(message string, params ...interface{}) error {
	return New(ERR_INPUT_LOCK_HEIGHT, message, params...)
}
func NewOutputLockHeightError(message string, params ...interface{}) error {
	return New(ERR_OUTPUT_LOCK_HEIGHT, message, params...)
}
func NewScriptNotStandardError(message string, params ...interface{}) error {
	return New(ERR_SCRIPT_NOT_STANDARD, message, params...)
}
func NewInputNotFoundError(message string, params ...interface{}) error {
	return New(ERR_INPUT_NOT_FOUND, message, params...)
}
func NewCoinbaseMaturityError(message string, params ...interface{}) error {
	return New(ERR_COINBASE_MATURITY, message, params...)
}
func NewValidateInputsFailedError(message string, params ...interface{}) error {
	return New(ERR_VALIDATE_INPUTS_FAILED, message, params...)
}
func NewSpendOverflowError(message string, params ...interface{}) error {
	return New(ERR_SPEND_OVERFLOW, message, params...)
}
func NewFeesOutOfRangeError(message string, params ...interface{}) error {
	return New(ERR_FEES_OUT_OF_RANGE, message, params...)
}
func NewTxDuplicateError(message string, params ...interface{}) error {
	return New(ERR_TX_DUPLICATE, message, params...)
}
func NewAttachmentInvalidError(message string, params ...interface{}) error {
	return New(ERR_ATTACHMENT_INVALID, message, params...)
}
func NewAttenuationModelParamError(message string, params ...interface{}) error {
	return New(ERR_ATTENUATION_MODEL_PARAM, message, params...)
}
func NewAttenuationQuantityLockedError(message string, params ...interface{}) error {
	return New(ERR_ATTENUATION_QUANTITY_LOCKED, message, params...)
}
func NewSymbolInvalidError(message string, params ...interface{}) error {
	return New(ERR_SYMBOL_INVALID, message, params...)
}
func NewSymbolNotMatchError(message string, params ...interface{}) error {
	return New(ERR_SYMBOL_NOT_MATCH, message, params...)
}
func NewTxSigopLimitError(message string, params ...interface{}) error {
	return New(ERR_TX_SIGOP_LIMIT, message, params...)
}
func NewScriptVerifyError(message string, params ...interface{}) error {
	return New(ERR_SCRIPT_VERIFY, message, params...)
}
func NewTokenAmountOverflowError(message string, params ...interface{}) error {
	return New(ERR_TOKEN_AMOUNT_OVERFLOW, message, params...)
}
func NewTokenAmountNotMatchError(message string, params ...interface{}) error {
	return New(ERR_TOKEN_AMOUNT_NOT_MATCH, message, params...)
}
func NewTokenExistsError(message string, params ...interface{}) error {
	return New(ERR_TOKEN_EXISTS, message, params...)
}
func NewTokenNotExistsError(message string, params ...interface{}) error {
	return New(ERR_TOKEN_NOT_EXISTS, message, params...)
}
func NewTokenIssueError(message string, params ...interface{}) error {
	return New(ERR_TOKEN_ISSUE, message, params...)
}
func NewTokenSecondaryIssueError(message string, params ...interface{}) error {
	return New(ERR_TOKEN_SECONDARY_ISSUE, message, params...)
}
func NewTokenSecondaryIssueShareError(message string, params ...interface{}) error {
	return New(ERR_TOKEN_SECONDARY_ISSUE_SHARE, message, params...)
}
func NewTokenAddressNotMatchError(message string, params ...interface{}) error {
	return New(ERR_TOKEN_ADDRESS_NOT_MATCH, message, params...)
}
func NewCertExistsError(message string, params ...interface{}) error {
	return New(ERR_CERT_EXISTS, message, params...)
}
func NewCertNotExistsError(message string, params ...interface{}) error {
	return New(ERR_CERT_NOT_EXISTS, message, params...)
}
func NewCertIssueError(message string, params ...interface{}) error {
	return New(ERR_CERT_ISSUE, message, params...)
}
func NewCertTransferError(message string, params ...interface{}) error {
	return New(ERR_CERT_TRANSFER, message, params...)
}
func NewCertNotOwnedError(message string, params ...interface{}) error {
	return New(ERR_CERT_NOT_OWNED, message, params...)
}
func NewUIDExistsError(message string, params ...interface{}) error {
	return New(ERR_UID_EXISTS, message, params...)
}
func NewUIDNotExistsError(message string, params ...interface{}) error {
	return New(ERR_UID_NOT_EXISTS, message, params...)
}
func NewUIDAddressRegisteredError(message string, params ...interface{}) error {
	return New(ERR_UID_ADDRESS_REGISTERED, message, params...)
}
func NewUIDRegisterError(message string, params ...interface{}) error {
	return New(ERR_UID_REGISTER, message, params...)
}
func NewUIDTransferError(message string, params ...interface{}) error {
	return New(ERR_UID_TRANSFER, message, params...)
}
func NewUIDAddressNotMatchError(message string, params ...interface{}) error {
	return New(ERR_UID_ADDRESS_NOT_MATCH, message, params...)
}
func NewCandidateExistsError(message string, params ...interface{}) error {
	return New(ERR_CANDIDATE_EXISTS, message, params...)
}
func NewCandidateNotExistsError(message string, params ...interface{}) error {
	return New(ERR_CANDIDATE_NOT_EXISTS, message, params...)
}
func NewCandidateRegisterError(message string, params ...interface{}) error {
	return New(ERR_CANDIDATE_REGISTER, message, params...)
}
func NewCandidateTransferError(message string, params ...interface{}) error {
	return New(ERR_CANDIDATE_TRANSFER, message, params...)
}
func NewPoolFilledError(message string, params ...interface{}) error {
	return New(ERR_POOL_FILLED, message, params...)
}
func NewPoolDoubleSpendError(message string, params ...interface{}) error {
	return New(ERR_POOL_DOUBLE_SPEND, message, params...)
}
func NewBlockchainReorganizedError(message string, params ...interface{}) error {
	return New(ERR_BLOCKCHAIN_REORGANIZED, message, params...)
}
func NewPoolSymbolRepeatError(message string, params ...interface{}) error {
	return New(ERR_POOL_SYMBOL_REPEAT, message, params...)
}
