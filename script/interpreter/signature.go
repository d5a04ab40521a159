package interpreter

import (
	"github.com/libsv/go-bk/bec"
	"github.com/mvs-org/mvsd/errors"
	"github.com/mvs-org/mvsd/model"
	"github.com/mvs-org/mvsd/script"
)

// subscript is the executing script after the last code separator with
// every push of the given signatures removed.
func (e *Engine) subscript(signatures ...[]byte) script.Script {
	s := e.current[e.lastCodeSep:]
	for _, sig := range signatures {
		s = s.WithoutPush(sig)
	}

	return s
}

func (e *Engine) verifySignature(sig []byte, pubKey []byte, subscript script.Script) bool {
	if len(sig) == 0 {
		return false
	}

	hashType := SigHashType(sig[len(sig)-1])
	der := sig[:len(sig)-1]

	var (
		signature *bec.Signature
		err       error
	)

	if e.hasFlag(VerifyBIP66) {
		signature, err = bec.ParseDERSignature(der, bec.S256())
	} else {
		signature, err = bec.ParseSignature(der, bec.S256())
	}

	if err != nil {
		return false
	}

	key, err := bec.ParsePubKey(pubKey, bec.S256())
	if err != nil {
		return false
	}

	hash := SignatureHash(e.tx, e.inputIndex, subscript, hashType)

	return signature.Verify(hash[:], key)
}

func (e *Engine) checkSig() (bool, error) {
	pubKey, err := e.dstack.Pop()
	if err != nil {
		return false, err
	}

	sig, err := e.dstack.Pop()
	if err != nil {
		return false, err
	}

	return e.verifySignature(sig, pubKey, e.subscript(sig)), nil
}

func (e *Engine) checkMultiSig() (bool, error) {
	keyCount, err := e.dstack.PopInt()
	if err != nil {
		return false, err
	}

	if keyCount < 0 || keyCount > script.MaxPubKeysPerMultisig {
		return false, errors.NewScriptVerifyError("multisig key count %d out of range", keyCount)
	}

	e.numOps += int(keyCount)
	if e.numOps > MaxOpsPerScript {
		return false, errors.NewScriptVerifyError("too many operations")
	}

	keys := make([][]byte, keyCount)
	for i := range keys {
		if keys[i], err = e.dstack.Pop(); err != nil {
			return false, err
		}
	}

	sigCount, err := e.dstack.PopInt()
	if err != nil {
		return false, err
	}

	if sigCount < 0 || sigCount > keyCount {
		return false, errors.NewScriptVerifyError("multisig signature count %d out of range", sigCount)
	}

	sigs := make([][]byte, sigCount)
	for i := range sigs {
		if sigs[i], err = e.dstack.Pop(); err != nil {
			return false, err
		}
	}

	// consume the dummy element below the signatures
	if _, err = e.dstack.Pop(); err != nil {
		return false, err
	}

	subscript := e.subscript(sigs...)

	// signatures must appear in the same order as their keys
	k := 0
	for _, sig := range sigs {
		for k < len(keys) && !e.verifySignature(sig, keys[k], subscript) {
			k++
		}

		if k == len(keys) {
			return false, nil
		}

		k++
	}

	return true, nil
}

// Sign produces an unlocking signature, DER encoded with the hash type
// appended, for input inputIndex spending prevScript.
func Sign(tx *model.Tx, inputIndex int, prevScript script.Script, hashType SigHashType, key *bec.PrivateKey) ([]byte, error) {
	hash := SignatureHash(tx, inputIndex, prevScript, hashType)

	signature, err := key.Sign(hash[:])
	if err != nil {
		return nil, errors.NewProcessingError("failed to sign input %d", inputIndex, err)
	}

	return append(signature.Serialise(), byte(hashType)), nil
}
