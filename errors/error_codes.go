package errors

import "strconv"

// ERR is the numeric code carried by every *Error. Codes are stable and are
// what callers outside the core translate into protocol behaviour.
type ERR int32

const (
	ERR_UNKNOWN            ERR = 0
	ERR_INVALID_ARGUMENT   ERR = 1
	ERR_THRESHOLD_EXCEEDED ERR = 2
	ERR_NOT_FOUND          ERR = 3
	ERR_PROCESSING         ERR = 4
	ERR_CONFIGURATION      ERR = 5
	ERR_CONTEXT_CANCELED   ERR = 6
	ERR_ERROR              ERR = 9
	ERR_WRONG_VARIANT      ERR = 10
	ERR_DECODE             ERR = 11
	ERR_SERVICE_STOPPED    ERR = 12
	ERR_SERVICE_ERROR      ERR = 13

	// store
	ERR_STORAGE_ERROR   ERR = 20
	ERR_STORAGE_LOCKED  ERR = 21
	ERR_STORAGE_VERSION ERR = 22
	ERR_STORAGE_CORRUPT ERR = 23

	// block
	ERR_BLOCK_NOT_FOUND          ERR = 30
	ERR_BLOCK_EXISTS             ERR = 31
	ERR_BLOCK_INVALID            ERR = 32
	ERR_EMPTY_BLOCK              ERR = 33
	ERR_BLOCK_SIZE_LIMIT         ERR = 34
	ERR_FIRST_NOT_COINBASE       ERR = 35
	ERR_EXTRA_COINBASES          ERR = 36
	ERR_FUTURISTIC_TIMESTAMP     ERR = 37
	ERR_TIMESTAMP_TOO_EARLY      ERR = 38
	ERR_INTERNAL_DUPLICATE       ERR = 39
	ERR_BLOCK_LEGACY_SIGOP_LIMIT ERR = 40
	ERR_MERKLE_MISMATCH          ERR = 41
	ERR_NON_FINAL_TRANSACTION    ERR = 42
	ERR_CHECKPOINTS_FAILED       ERR = 43
	ERR_OLD_VERSION_BLOCK        ERR = 44
	ERR_COINBASE_HEIGHT_MISMATCH ERR = 45
	ERR_DUPLICATE_OR_SPENT       ERR = 46
	ERR_BLOCK_SIGOP_LIMIT        ERR = 47
	ERR_COINBASE_TOO_LARGE       ERR = 48
	ERR_COINAGE_REWARD_MISMATCH  ERR = 49
	ERR_ORPHAN_BLOCK             ERR = 50
	ERR_BLOCK_REJECTED           ERR = 51
	ERR_INSUFFICIENT_WORK        ERR = 52

	// transaction
	ERR_TX_NOT_FOUND                 ERR = 60
	ERR_TX_INVALID                   ERR = 61
	ERR_TX_VERSION                   ERR = 62
	ERR_EMPTY_TRANSACTION            ERR = 63
	ERR_TX_SIZE_LIMIT                ERR = 64
	ERR_TX_DOUBLE_SPEND              ERR = 65
	ERR_OUTPUT_VALUE_OVERFLOW        ERR = 66
	ERR_INVALID_COINBASE_SCRIPT_SIZE ERR = 67
	ERR_PREVIOUS_OUTPUT_NULL         ERR = 68
	ERR_INPUT_LOCK_HEIGHT            ERR = 69
	ERR_OUTPUT_LOCK_HEIGHT           ERR = 70
	ERR_SCRIPT_NOT_STANDARD          ERR = 71
	ERR_INPUT_NOT_FOUND              ERR = 72
	ERR_COINBASE_MATURITY            ERR = 73
	ERR_VALIDATE_INPUTS_FAILED       ERR = 74
	ERR_SPEND_OVERFLOW               ERR = 75
	ERR_FEES_OUT_OF_RANGE            ERR = 76
	ERR_TX_DUPLICATE                 ERR = 77
	ERR_ATTACHMENT_INVALID           ERR = 78
	ERR_ATTENUATION_MODEL_PARAM      ERR = 79
	ERR_ATTENUATION_QUANTITY_LOCKED  ERR = 80
	ERR_SYMBOL_INVALID               ERR = 81
	ERR_SYMBOL_NOT_MATCH             ERR = 82
	ERR_TX_SIGOP_LIMIT               ERR = 83
	ERR_SCRIPT_VERIFY                ERR = 84
	ERR_TOKEN_AMOUNT_OVERFLOW        ERR = 85
	ERR_TOKEN_AMOUNT_NOT_MATCH       ERR = 86

	// registries
	ERR_TOKEN_EXISTS                ERR = 100
	ERR_TOKEN_NOT_EXISTS            ERR = 101
	ERR_TOKEN_ISSUE                 ERR = 102
	ERR_TOKEN_SECONDARY_ISSUE       ERR = 103
	ERR_TOKEN_SECONDARY_ISSUE_SHARE ERR = 104
	ERR_TOKEN_ADDRESS_NOT_MATCH     ERR = 105
	ERR_CERT_EXISTS                 ERR = 110
	ERR_CERT_NOT_EXISTS             ERR = 111
	ERR_CERT_ISSUE                  ERR = 112
	ERR_CERT_TRANSFER               ERR = 113
	ERR_CERT_NOT_OWNED              ERR = 114
	ERR_UID_EXISTS                  ERR = 120
	ERR_UID_NOT_EXISTS              ERR = 121
	ERR_UID_ADDRESS_REGISTERED      ERR = 122
	ERR_UID_REGISTER                ERR = 123
	ERR_UID_TRANSFER                ERR = 124
	ERR_UID_ADDRESS_NOT_MATCH       ERR = 125
	ERR_CANDIDATE_EXISTS            ERR = 130
	ERR_CANDIDATE_NOT_EXISTS        ERR = 131
	ERR_CANDIDATE_REGISTER          ERR = 132
	ERR_CANDIDATE_TRANSFER          ERR = 133

	// pool
	ERR_POOL_FILLED            ERR = 150
	ERR_POOL_DOUBLE_SPEND      ERR = 151
	ERR_BLOCKCHAIN_REORGANIZED ERR = 152
	ERR_POOL_SYMBOL_REPEAT     ERR = 153
)

var ERR_name = map[int32]string{
	0:   "UNKNOWN",
	1:   "INVALID_ARGUMENT",
	2:   "THRESHOLD_EXCEEDED",
	3:   "NOT_FOUND",
	4:   "PROCESSING",
	5:   "CONFIGURATION",
	6:   "CONTEXT_CANCELED",
	9:   "ERROR",
	10:  "WRONG_VARIANT",
	11:  "DECODE",
	12:  "SERVICE_STOPPED",
	13:  "SERVICE_ERROR",
	20:  "STORAGE_ERROR",
	21:  "STORAGE_LOCKED",
	22:  "STORAGE_VERSION",
	23:  "STORAGE_CORRUPT",
	30:  "BLOCK_NOT_FOUND",
	31:  "BLOCK_EXISTS",
	32:  "BLOCK_INVALID",
	33:  "EMPTY_BLOCK",
	34:  "BLOCK_SIZE_LIMIT",
	35:  "FIRST_NOT_COINBASE",
	36:  "EXTRA_COINBASES",
	37:  "FUTURISTIC_TIMESTAMP",
	38:  "TIMESTAMP_TOO_EARLY",
	39:  "INTERNAL_DUPLICATE",
	40:  "BLOCK_LEGACY_SIGOP_LIMIT",
	41:  "MERKLE_MISMATCH",
	42:  "NON_FINAL_TRANSACTION",
	43:  "CHECKPOINTS_FAILED",
	44:  "OLD_VERSION_BLOCK",
	45:  "COINBASE_HEIGHT_MISMATCH",
	46:  "DUPLICATE_OR_SPENT",
	47:  "BLOCK_SIGOP_LIMIT",
	48:  "COINBASE_TOO_LARGE",
	49:  "COINAGE_REWARD_MISMATCH",
	50:  "ORPHAN_BLOCK",
	51:  "BLOCK_REJECTED",
	52:  "INSUFFICIENT_WORK",
	60:  "TX_NOT_FOUND",
	61:  "TX_INVALID",
	62:  "TX_VERSION",
	63:  "EMPTY_TRANSACTION",
	64:  "TX_SIZE_LIMIT",
	65:  "TX_DOUBLE_SPEND",
	66:  "OUTPUT_VALUE_OVERFLOW",
	67:  "INVALID_COINBASE_SCRIPT_SIZE",
	68:  "PREVIOUS_OUTPUT_NULL",
	69:  "INPUT_LOCK_HEIGHT",
	70:  "OUTPUT_LOCK_HEIGHT",
	71:  "SCRIPT_NOT_STANDARD",
	72:  "INPUT_NOT_FOUND",
	73:  "COINBASE_MATURITY",
	74:  "VALIDATE_INPUTS_FAILED",
	75:  "SPEND_OVERFLOW",
	76:  "FEES_OUT_OF_RANGE",
	77:  "TX_DUPLICATE",
	78:  "ATTACHMENT_INVALID",
	79:  "ATTENUATION_MODEL_PARAM",
	80:  "ATTENUATION_QUANTITY_LOCKED",
	81:  "SYMBOL_INVALID",
	82:  "SYMBOL_NOT_MATCH",
	83:  "TX_SIGOP_LIMIT",
	84:  "SCRIPT_VERIFY",
	85:  "TOKEN_AMOUNT_OVERFLOW",
	86:  "TOKEN_AMOUNT_NOT_MATCH",
	100: "TOKEN_EXISTS",
	101: "TOKEN_NOT_EXISTS",
	102: "TOKEN_ISSUE",
	103: "TOKEN_SECONDARY_ISSUE",
	104: "TOKEN_SECONDARY_ISSUE_SHARE",
	105: "TOKEN_ADDRESS_NOT_MATCH",
	110: "CERT_EXISTS",
	111: "CERT_NOT_EXISTS",
	112: "CERT_ISSUE",
	113: "CERT_TRANSFER",
	114: "CERT_NOT_OWNED",
	120: "UID_EXISTS",
	121: "UID_NOT_EXISTS",
	122: "UID_ADDRESS_REGISTERED",
	123: "UID_REGISTER",
	124: "UID_TRANSFER",
	125: "UID_ADDRESS_NOT_MATCH",
	130: "CANDIDATE_EXISTS",
	131: "CANDIDATE_NOT_EXISTS",
	132: "CANDIDATE_REGISTER",
	133: "CANDIDATE_TRANSFER",
	150: "POOL_FILLED",
	151: "POOL_DOUBLE_SPEND",
	152: "BLOCKCHAIN_REORGANIZED",
	153: "POOL_SYMBOL_REPEAT",
}

func (x ERR) String() string {
	if name, ok := ERR_name[int32(x)]; ok {
		return name
	}

	return "ERR(" + strconv.Itoa(int(x)) + ")"
}
