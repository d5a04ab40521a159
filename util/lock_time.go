package util

// LockTimeThreshold separates block height lock times from unix timestamp lock times.
const LockTimeThreshold = 500000000

// IsFinal reports whether a transaction with the given lock time and input
// sequences may be included in a block at height with the given timestamp.
func IsFinal(lockTime uint32, sequences []uint32, blockHeight uint32, blockTime uint32) bool {
	if lockTime == 0 {
		return true
	}

	limit := blockHeight
	if lockTime >= LockTimeThreshold {
		limit = blockTime
	}

	if lockTime < limit {
		return true
	}

	for _, sequence := range sequences {
		if sequence != 0xffffffff {
			return false
		}
	}

	return true
}
