package consensushashing

import (
	"github.com/kaspanet/chaingen/domain/consensus/model/externalapi"
	"github.com/kaspanet/chaingen/domain/consensus/utils/hashes"
	"github.com/kaspanet/chaingen/domain/consensus/utils/serialization"
	"github.com/pkg/errors"
)

// SigHashType represents hash type bits at the end of a signature.
type SigHashType uint32

// Hash type bits from the end of a signature.
const (
	SigHashAll          SigHashType = 0x1
	SigHashNone         SigHashType = 0x2
	SigHashSingle       SigHashType = 0x3
	SigHashAnyOneCanPay SigHashType = 0x80

	// SigHashMask defines the number of bits of the hash type which is used
	// to identify which outputs are signed.
	SigHashMask = 0x1f
)

// IsStandardSigHashType returns whether hashType is one of the defined
// hash types, optionally combined with SigHashAnyOneCanPay.
func IsStandardSigHashType(hashType SigHashType) bool {
	switch hashType &^ SigHashAnyOneCanPay {
	case SigHashAll, SigHashNone, SigHashSingle:
		return true
	default:
		return false
	}
}

// CalculateSignatureHash returns the digest an input spending
// prevScriptPublicKey signs: the transaction with every other input's
// signature script blanked and input idx's signature script replaced by
// prevScriptPublicKey, serialized, followed by hashType as a 4-byte
// little-endian value, double hashed.
func CalculateSignatureHash(tx *externalapi.DomainTransaction, idx int, prevScriptPublicKey []byte,
	hashType SigHashType) (*externalapi.DomainHash, error) {

	if idx < 0 || idx >= len(tx.Inputs) {
		return nil, errors.Errorf("input index %d is out of range of %d inputs", idx, len(tx.Inputs))
	}

	// The SigHashSingle signature type signs only the corresponding input
	// and output (the output with the same index number as the input).
	//
	// Since transactions can have more inputs than outputs, this means it
	// is improper to use SigHashSingle on input indices that don't have a
	// corresponding output.
	if hashType&SigHashMask == SigHashSingle && idx >= len(tx.Outputs) {
		return nil, errors.New("sigHashSingle index out of bounds")
	}

	txCopy := shallowCopyTx(tx)
	for i := range txCopy.Inputs {
		if i == idx {
			txCopy.Inputs[idx].SignatureScript = prevScriptPublicKey
		} else {
			txCopy.Inputs[i].SignatureScript = nil
		}
	}

	switch hashType & SigHashMask {
	case SigHashNone:
		txCopy.Outputs = txCopy.Outputs[0:0] // Empty slice.
		for i := range txCopy.Inputs {
			if i != idx {
				txCopy.Inputs[i].Sequence = 0
			}
		}

	case SigHashSingle:
		// Resize output array to up to and including requested index.
		txCopy.Outputs = txCopy.Outputs[:idx+1]

		// All but current output get blanked: value -1, empty script.
		for i := 0; i < idx; i++ {
			txCopy.Outputs[i].Value = ^uint64(0)
			txCopy.Outputs[i].ScriptPublicKey = nil
		}

		// Sequence on all other inputs is 0, too.
		for i := range txCopy.Inputs {
			if i != idx {
				txCopy.Inputs[i].Sequence = 0
			}
		}

	default:
		// Undefined hash types are treated like SigHashAll for purposes of
		// hash generation.
		fallthrough
	case SigHashAll:
		// Nothing special here.
	}
	if hashType&SigHashAnyOneCanPay != 0 {
		txCopy.Inputs = txCopy.Inputs[idx : idx+1]
	}

	writer := hashes.NewDoubleHashWriter()
	err := serialization.WriteTransaction(writer, &txCopy)
	if err != nil {
		return nil, err
	}
	err = serialization.WriteElement(writer, uint32(hashType))
	if err != nil {
		return nil, err
	}
	return writer.Finalize(), nil
}

// shallowCopyTx creates a shallow copy of the transaction for use when
// calculating the signature hash. Inputs and outputs are copied by value into
// contiguous backing arrays so their fields can be overwritten without
// touching tx. Scripts are shared and must not be mutated in place.
func shallowCopyTx(tx *externalapi.DomainTransaction) externalapi.DomainTransaction {
	txCopy := externalapi.DomainTransaction{
		Version:  tx.Version,
		Inputs:   make([]*externalapi.DomainTransactionInput, len(tx.Inputs)),
		Outputs:  make([]*externalapi.DomainTransactionOutput, len(tx.Outputs)),
		LockTime: tx.LockTime,
	}
	txIns := make([]externalapi.DomainTransactionInput, len(tx.Inputs))
	for i, oldTxIn := range tx.Inputs {
		txIns[i] = *oldTxIn
		txCopy.Inputs[i] = &txIns[i]
	}
	txOuts := make([]externalapi.DomainTransactionOutput, len(tx.Outputs))
	for i, oldTxOut := range tx.Outputs {
		txOuts[i] = *oldTxOut
		txCopy.Outputs[i] = &txOuts[i]
	}
	return txCopy
}
