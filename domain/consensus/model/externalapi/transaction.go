package externalapi

import (
	"bytes"
	"fmt"
	"math"
)

// MaxPrevOutIndex is the previous output index of a coinbase input.
const MaxPrevOutIndex uint32 = math.MaxUint32

// MaxTxInSequenceNum is the default sequence number of an input.
const MaxTxInSequenceNum uint32 = math.MaxUint32

// DomainTransaction represents a UTXO transaction
type DomainTransaction struct {
	Version  uint32
	Inputs   []*DomainTransactionInput
	Outputs  []*DomainTransactionOutput
	LockTime uint32
}

// If this doesn't compile, it means the type definition has been changed, so it's
// an indication to update Equal and Clone accordingly.
var _ = DomainTransaction{0, []*DomainTransactionInput{}, []*DomainTransactionOutput{}, 0}

// Clone returns a deep copy of the transaction
func (tx *DomainTransaction) Clone() *DomainTransaction {
	inputsClone := make([]*DomainTransactionInput, len(tx.Inputs))
	for i, input := range tx.Inputs {
		inputsClone[i] = input.Clone()
	}

	outputsClone := make([]*DomainTransactionOutput, len(tx.Outputs))
	for i, output := range tx.Outputs {
		outputsClone[i] = output.Clone()
	}

	return &DomainTransaction{
		Version:  tx.Version,
		Inputs:   inputsClone,
		Outputs:  outputsClone,
		LockTime: tx.LockTime,
	}
}

// Equal returns whether tx equals to other
func (tx *DomainTransaction) Equal(other *DomainTransaction) bool {
	if tx == nil || other == nil {
		return tx == other
	}

	if tx.Version != other.Version || tx.LockTime != other.LockTime {
		return false
	}

	if len(tx.Inputs) != len(other.Inputs) || len(tx.Outputs) != len(other.Outputs) {
		return false
	}

	for i, input := range tx.Inputs {
		if !input.Equal(other.Inputs[i]) {
			return false
		}
	}

	for i, output := range tx.Outputs {
		if !output.Equal(other.Outputs[i]) {
			return false
		}
	}

	return true
}

// IsCoinbase returns whether tx has the single null-outpoint input that
// marks a coinbase transaction.
func (tx *DomainTransaction) IsCoinbase() bool {
	return len(tx.Inputs) == 1 && tx.Inputs[0].PreviousOutpoint.IsNull()
}

// DomainTransactionInput represents a transaction input
type DomainTransactionInput struct {
	PreviousOutpoint DomainOutpoint
	SignatureScript  []byte
	Sequence         uint32
}

// If this doesn't compile, it means the type definition has been changed, so it's
// an indication to update Equal and Clone accordingly.
var _ = &DomainTransactionInput{DomainOutpoint{}, []byte{}, 0}

// Clone returns a deep copy of the input
func (input *DomainTransactionInput) Clone() *DomainTransactionInput {
	var signatureScriptClone []byte
	if input.SignatureScript != nil {
		signatureScriptClone = make([]byte, len(input.SignatureScript))
		copy(signatureScriptClone, input.SignatureScript)
	}

	return &DomainTransactionInput{
		PreviousOutpoint: input.PreviousOutpoint,
		SignatureScript:  signatureScriptClone,
		Sequence:         input.Sequence,
	}
}

// Equal returns whether input equals to other. A nil and an empty signature
// script are considered equal, since they serialize the same way.
func (input *DomainTransactionInput) Equal(other *DomainTransactionInput) bool {
	if input == nil || other == nil {
		return input == other
	}

	return input.PreviousOutpoint == other.PreviousOutpoint &&
		bytes.Equal(input.SignatureScript, other.SignatureScript) &&
		input.Sequence == other.Sequence
}

// DomainOutpoint represents a reference to an output of a previous transaction
type DomainOutpoint struct {
	TransactionID DomainHash
	Index         uint32
}

// NewDomainOutpoint instantiates a new DomainOutpoint with the given id and index
func NewDomainOutpoint(id *DomainHash, index uint32) *DomainOutpoint {
	return &DomainOutpoint{
		TransactionID: *id,
		Index:         index,
	}
}

// IsNull returns whether the outpoint is the coinbase null outpoint: a zero
// transaction ID and the maximal index.
func (op DomainOutpoint) IsNull() bool {
	return op.Index == MaxPrevOutIndex && op.TransactionID.IsZero()
}

// String stringifies an outpoint.
func (op DomainOutpoint) String() string {
	return fmt.Sprintf("%s:%d", op.TransactionID, op.Index)
}

// DomainTransactionOutput represents a transaction output
type DomainTransactionOutput struct {
	Value           uint64
	ScriptPublicKey []byte
}

// If this doesn't compile, it means the type definition has been changed, so it's
// an indication to update Equal and Clone accordingly.
var _ = &DomainTransactionOutput{0, []byte{}}

// Clone returns a deep copy of the output
func (output *DomainTransactionOutput) Clone() *DomainTransactionOutput {
	scriptClone := make([]byte, len(output.ScriptPublicKey))
	copy(scriptClone, output.ScriptPublicKey)
	return &DomainTransactionOutput{
		Value:           output.Value,
		ScriptPublicKey: scriptClone,
	}
}

// Equal returns whether output equals to other
func (output *DomainTransactionOutput) Equal(other *DomainTransactionOutput) bool {
	if output == nil || other == nil {
		return output == other
	}

	return output.Value == other.Value && bytes.Equal(output.ScriptPublicKey, other.ScriptPublicKey)
}
