package script

// MaxPubKeysPerMultisig is charged for a multisig whose key count is not
// statically known.
const MaxPubKeysPerMultisig = 20

// SigOps counts signature operations. When accurate is set a multisig
// preceded by OP_n counts n instead of the maximum.
func SigOps(s Script, accurate bool) int {
	total := 0
	previous := OpZERO

	for _, op := range s {
		switch op.Code {
		case OpCHECKSIG, OpCHECKSIGVERIFY:
			total++
		case OpCHECKMULTISIG, OpCHECKMULTISIGVERIFY:
			if accurate && previous.IsPositive() {
				total += previous.PositiveValue()
			} else {
				total += MaxPubKeysPerMultisig
			}
		}

		previous = op.Code
	}

	return total
}

// P2SHSigOps counts the signature operations of the redeem script carried
// as the last push of a pay-to-script-hash unlocking script.
func P2SHSigOps(signScript Script) int {
	if len(signScript) == 0 || !signScript.IsPushOnly() {
		return 0
	}

	redeem := NewScriptFromBytes(signScript[len(signScript)-1].Data)

	return SigOps(redeem, true)
}
