package txscript

import (
	"bytes"
	"fmt"

	"github.com/kaspanet/chaingen/domain/consensus/model/externalapi"
	"github.com/kaspanet/chaingen/domain/consensus/utils/consensushashing"
	"github.com/kaspanet/chaingen/util"
	"github.com/kaspanet/chaingen/util/keys"
)

// VerifyInput checks that the signature script of input idx of tx satisfies
// scriptPublicKey, the script of the output it spends. Only the standard
// script classes are understood: the signature script must hold exactly the
// pushes the class expects, and every signature must validate against the
// signature hash of the input under the hash type it carries.
func VerifyInput(tx *externalapi.DomainTransaction, idx int, scriptPublicKey []byte) error {
	if idx < 0 || idx >= len(tx.Inputs) {
		str := fmt.Sprintf("transaction input index %d is out of range, "+
			"the transaction has %d inputs", idx, len(tx.Inputs))
		return scriptError(ErrInternal, str)
	}

	signatureScript := tx.Inputs[idx].SignatureScript
	if len(signatureScript) > MaxScriptSize {
		str := fmt.Sprintf("signature script size %d is larger than max "+
			"allowed size %d", len(signatureScript), MaxScriptSize)
		return scriptError(ErrScriptTooBig, str)
	}

	scriptPops, err := parseScript(scriptPublicKey)
	if err != nil {
		return err
	}
	sigPops, err := parseScript(signatureScript)
	if err != nil {
		return err
	}
	if !isPushOnly(sigPops) {
		return scriptError(ErrSignatureScriptMismatch,
			"signature script is not push only")
	}
	for _, pop := range sigPops {
		if len(pop.data) > MaxScriptElementSize {
			str := fmt.Sprintf("element size %d exceeds max allowed size %d",
				len(pop.data), MaxScriptElementSize)
			return scriptError(ErrElementTooBig, str)
		}
	}

	class := typeOfScript(scriptPops)
	log.Tracef("Verifying input %d of transaction spending a %s script", idx, class)

	switch class {
	case PubKeyTy:
		if len(sigPops) != 1 {
			return mismatch(class, 1, len(sigPops))
		}
		return verifySignature(tx, idx, scriptPublicKey, sigPops[0].data, scriptPops[0].data)

	case PubKeyHashTy:
		if len(sigPops) != 2 {
			return mismatch(class, 2, len(sigPops))
		}
		pubKey := sigPops[1].data
		if !bytes.Equal(util.Hash160(pubKey), scriptPops[2].data) {
			return scriptError(ErrPubKeyMismatch,
				"public key does not hash to the pay-to-pubkey-hash script")
		}
		return verifySignature(tx, idx, scriptPublicKey, sigPops[0].data, pubKey)

	case MultiSigTy:
		nRequired := asSmallInt(scriptPops[0].opcode)
		if len(sigPops) != nRequired+1 {
			return mismatch(class, nRequired+1, len(sigPops))
		}
		if sigPops[0].opcode.value != Op0 {
			return scriptError(ErrSignatureScriptMismatch,
				"multisig signature script must start with OP_0")
		}
		return verifyMultiSig(tx, idx, scriptPublicKey, sigPops[1:], multiSigPubKeys(scriptPops))
	}

	str := fmt.Sprintf("can't verify %s script", class)
	return scriptError(ErrNonStandardScript, str)
}

func mismatch(class ScriptClass, expected, actual int) error {
	str := fmt.Sprintf("%s signature script has %d pushes, expected %d",
		class, actual, expected)
	return scriptError(ErrSignatureScriptMismatch, str)
}

// verifyMultiSig matches signatures against public keys in order. A public
// key that fails to verify the current signature is skipped for good.
func verifyMultiSig(tx *externalapi.DomainTransaction, idx int, scriptPublicKey []byte,
	sigPops []parsedOpcode, pubKeys [][]byte) error {

	keyIndex := 0
	for sigIndex, sigPop := range sigPops {
		for {
			if len(pubKeys)-keyIndex < len(sigPops)-sigIndex {
				str := fmt.Sprintf("multisig signature %d matches none of "+
					"the remaining public keys", sigIndex)
				return scriptError(ErrEvalFalse, str)
			}
			err := verifySignature(tx, idx, scriptPublicKey, sigPop.data, pubKeys[keyIndex])
			keyIndex++
			if err == nil {
				break
			}
			if IsErrorCode(err, ErrInvalidSigHashType) {
				return err
			}
		}
	}
	return nil
}

// verifySignature checks a signature carrying its trailing hash type byte.
func verifySignature(tx *externalapi.DomainTransaction, idx int, scriptPublicKey []byte,
	signature []byte, pubKey []byte) error {

	if len(signature) < 1 {
		return scriptError(ErrEvalFalse, "empty signature")
	}
	hashType := consensushashing.SigHashType(signature[len(signature)-1])
	if !consensushashing.IsStandardSigHashType(hashType) {
		str := fmt.Sprintf("invalid hash type 0x%x", uint32(hashType))
		return scriptError(ErrInvalidSigHashType, str)
	}

	hash, err := consensushashing.CalculateSignatureHash(tx, idx, scriptPublicKey, hashType)
	if err != nil {
		return err
	}
	err = keys.Verify(pubKey, signature[:len(signature)-1], hash)
	if err != nil {
		return scriptError(ErrEvalFalse, err.Error())
	}
	return nil
}
