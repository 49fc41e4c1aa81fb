package chaingen

import (
	"github.com/kaspanet/chaingen/domain/consensus/model/externalapi"
	"github.com/kaspanet/chaingen/domain/consensus/ruleerrors"
	"github.com/kaspanet/chaingen/domain/consensus/utils/consensushashing"
	"github.com/kaspanet/chaingen/domain/consensus/utils/serialization"
	"github.com/kaspanet/chaingen/domain/consensus/utils/txscript"
	"github.com/pkg/errors"
)

// DefaultTransactionVersion is the version of transactions that don't set
// one.
const DefaultTransactionVersion = 1

// TransactionBuilder declares a transaction out of input and output
// builders, and signs its spending inputs when built.
type TransactionBuilder struct {
	version  uint32
	lockTime uint32
	hashType consensushashing.SigHashType

	inputs  []*InputBuilder
	outputs []*OutputBuilder
}

// NewTransactionBuilder returns a TransactionBuilder with no inputs or
// outputs, signing with SigHashAll.
func NewTransactionBuilder() *TransactionBuilder {
	return &TransactionBuilder{
		version:  DefaultTransactionVersion,
		hashType: consensushashing.SigHashAll,
	}
}

// SetVersion sets the transaction version.
func (tb *TransactionBuilder) SetVersion(version uint32) *TransactionBuilder {
	tb.version = version
	return tb
}

// SetLockTime sets the transaction lock time.
func (tb *TransactionBuilder) SetLockTime(lockTime uint32) *TransactionBuilder {
	tb.lockTime = lockTime
	return tb
}

// SetSigHashType sets the signature hash type every spending input is
// signed with.
func (tb *TransactionBuilder) SetSigHashType(hashType consensushashing.SigHashType) *TransactionBuilder {
	tb.hashType = hashType
	return tb
}

// AddInput appends an input.
func (tb *TransactionBuilder) AddInput(input *InputBuilder) *TransactionBuilder {
	tb.inputs = append(tb.inputs, input)
	return tb
}

// AddOutput appends an output.
func (tb *TransactionBuilder) AddOutput(output *OutputBuilder) *TransactionBuilder {
	tb.outputs = append(tb.outputs, output)
	return tb
}

// Build finalizes the outputs and inputs in declaration order, then signs
// every spending input and verifies the signature it produced. The returned
// transaction is the one decoded back from its own serialization.
func (tb *TransactionBuilder) Build() (*externalapi.DomainTransaction, error) {
	transaction := &externalapi.DomainTransaction{
		Version:  tb.version,
		Inputs:   make([]*externalapi.DomainTransactionInput, 0, len(tb.inputs)),
		Outputs:  make([]*externalapi.DomainTransactionOutput, 0, len(tb.outputs)),
		LockTime: tb.lockTime,
	}

	for i, outputBuilder := range tb.outputs {
		output, err := outputBuilder.Build()
		if err != nil {
			return nil, errors.Wrapf(err, "output %d", i)
		}
		transaction.Outputs = append(transaction.Outputs, output)
	}

	for i, inputBuilder := range tb.inputs {
		input, err := inputBuilder.Build()
		if err != nil {
			return nil, errors.Wrapf(err, "input %d", i)
		}
		if !inputBuilder.IsCoinbase() && len(inputBuilder.signingKeys) == 0 {
			return nil, errors.Wrapf(ruleerrors.ErrMissingKey, "input %d", i)
		}
		transaction.Inputs = append(transaction.Inputs, input)
	}

	for i, inputBuilder := range tb.inputs {
		if inputBuilder.IsCoinbase() {
			continue
		}
		err := tb.signInput(transaction, i, inputBuilder)
		if err != nil {
			return nil, err
		}
	}

	decoded, err := transactionRoundTrip(transaction)
	if err != nil {
		return nil, err
	}
	log.Debugf("Built transaction %s with %d inputs and %d outputs",
		consensushashing.TransactionID(decoded), len(decoded.Inputs), len(decoded.Outputs))
	return decoded, nil
}

// signInput fills the signature script of input i and checks it against the
// script of the output it spends. Signatures of other inputs don't cover
// signature scripts, so signing a later input never invalidates this one.
func (tb *TransactionBuilder) signInput(transaction *externalapi.DomainTransaction, i int,
	inputBuilder *InputBuilder) error {

	previousScript := inputBuilder.previousOutput().ScriptPublicKey
	signatureScript, err := txscript.SignTxOutput(transaction, i, previousScript, tb.hashType,
		inputBuilder.signingKeys...)
	if err != nil {
		return err
	}
	transaction.Inputs[i].SignatureScript = signatureScript

	err = txscript.VerifyInput(transaction, i, previousScript)
	if err != nil {
		log.Errorf("Signature of input %d failed verification: %s", i, err)
		return ruleerrors.NewErrSignatureVerification(i, err)
	}
	log.Tracef("Signed input %d spending %s", i, transaction.Inputs[i].PreviousOutpoint)
	return nil
}

func transactionRoundTrip(transaction *externalapi.DomainTransaction) (*externalapi.DomainTransaction, error) {
	serialized, err := serialization.SerializeTransaction(transaction)
	if err != nil {
		return nil, err
	}
	decoded, err := serialization.DeserializeTransaction(serialized)
	if err != nil {
		return nil, errors.Wrapf(ruleerrors.ErrRoundTrip, "transaction doesn't decode: %s", err)
	}
	if !decoded.Equal(transaction) {
		return nil, errors.Wrapf(ruleerrors.ErrRoundTrip, "transaction %x decodes differently", serialized)
	}
	return decoded, nil
}
