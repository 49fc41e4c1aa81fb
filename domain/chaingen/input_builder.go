package chaingen

import (
	"crypto/rand"
	"io"

	"github.com/kaspanet/chaingen/domain/consensus/model/externalapi"
	"github.com/kaspanet/chaingen/domain/consensus/ruleerrors"
	"github.com/kaspanet/chaingen/domain/consensus/utils/consensushashing"
	"github.com/kaspanet/chaingen/domain/consensus/utils/serialization"
	"github.com/kaspanet/chaingen/util/keys"
	"github.com/pkg/errors"
)

// CoinbasePayloadSize is the size of the payload generated for a coinbase
// input that was given none.
const CoinbasePayloadSize = 32

type inputMode int

const (
	inputModeUnset inputMode = iota
	inputModeCoinbase
	inputModeSpend
)

// InputBuilder declares a transaction input, either a coinbase input or one
// spending an output of a previous transaction. The last of Coinbase and
// PreviousOutput called selects the mode.
type InputBuilder struct {
	mode inputMode

	payload []byte
	random  io.Reader

	previousTransaction *externalapi.DomainTransaction
	previousIndex       uint32
	signingKeys         []keys.SigningKey

	sequence uint32
}

// NewInputBuilder returns an InputBuilder with no mode selected.
func NewInputBuilder() *InputBuilder {
	return &InputBuilder{
		random:   rand.Reader,
		sequence: externalapi.MaxTxInSequenceNum,
	}
}

// Coinbase makes the input a coinbase input with payload as its signature
// script. A nil payload is replaced by CoinbasePayloadSize random bytes on
// every Build.
func (ib *InputBuilder) Coinbase(payload []byte) *InputBuilder {
	ib.mode = inputModeCoinbase
	if payload != nil {
		payload = append([]byte{}, payload...)
	}
	ib.payload = payload
	return ib
}

// PreviousOutput makes the input spend output index of transaction. The
// transaction is borrowed and must not change until the owning transaction
// is built.
func (ib *InputBuilder) PreviousOutput(transaction *externalapi.DomainTransaction, index uint32) *InputBuilder {
	ib.mode = inputModeSpend
	ib.previousTransaction = transaction
	ib.previousIndex = index
	return ib
}

// SetSigningKey sets the key signing the input, replacing any key set
// before.
func (ib *InputBuilder) SetSigningKey(key keys.SigningKey) *InputBuilder {
	ib.signingKeys = []keys.SigningKey{key}
	return ib
}

// AddSigningKey adds a key to sign the input with. Inputs spending multisig
// outputs need one key per required signature.
func (ib *InputBuilder) AddSigningKey(key keys.SigningKey) *InputBuilder {
	ib.signingKeys = append(ib.signingKeys, key)
	return ib
}

// SetSequence sets the sequence number of the input.
func (ib *InputBuilder) SetSequence(sequence uint32) *InputBuilder {
	ib.sequence = sequence
	return ib
}

// SetRandomSource sets the source of generated coinbase payloads.
func (ib *InputBuilder) SetRandomSource(random io.Reader) *InputBuilder {
	ib.random = random
	return ib
}

// IsCoinbase returns whether the input is a coinbase input.
func (ib *InputBuilder) IsCoinbase() bool {
	return ib.mode == inputModeCoinbase
}

// Build returns the input. The signature script of a spending input is left
// empty for the TransactionBuilder to fill.
func (ib *InputBuilder) Build() (*externalapi.DomainTransactionInput, error) {
	switch ib.mode {
	case inputModeCoinbase:
		return ib.buildCoinbase()
	case inputModeSpend:
		return ib.buildSpend()
	}
	return nil, errors.Wrap(ruleerrors.ErrMissingPreviousOutput, "input is neither a coinbase nor a spend")
}

func (ib *InputBuilder) buildCoinbase() (*externalapi.DomainTransactionInput, error) {
	payload := ib.payload
	if payload == nil {
		payload = make([]byte, CoinbasePayloadSize)
		_, err := io.ReadFull(ib.random, payload)
		if err != nil {
			return nil, errors.Wrap(err, "failed to generate a coinbase payload")
		}
	} else {
		if len(payload) > serialization.MaxScriptSize {
			return nil, errors.Wrapf(ruleerrors.ErrScriptTooLarge, "coinbase payload is %d bytes, max %d",
				len(payload), serialization.MaxScriptSize)
		}
		payload = append([]byte{}, payload...)
	}

	return &externalapi.DomainTransactionInput{
		PreviousOutpoint: externalapi.DomainOutpoint{
			TransactionID: externalapi.DomainHash{},
			Index:         externalapi.MaxPrevOutIndex,
		},
		SignatureScript: payload,
		Sequence:        ib.sequence,
	}, nil
}

func (ib *InputBuilder) buildSpend() (*externalapi.DomainTransactionInput, error) {
	if ib.previousTransaction == nil {
		return nil, errors.Wrap(ruleerrors.ErrMissingPreviousOutput, "no previous transaction")
	}
	if int(ib.previousIndex) >= len(ib.previousTransaction.Outputs) {
		return nil, errors.Wrapf(ruleerrors.ErrMissingPreviousOutput,
			"output %d requested from a transaction with %d outputs",
			ib.previousIndex, len(ib.previousTransaction.Outputs))
	}

	return &externalapi.DomainTransactionInput{
		PreviousOutpoint: *externalapi.NewDomainOutpoint(
			consensushashing.TransactionID(ib.previousTransaction), ib.previousIndex),
		SignatureScript: []byte{},
		Sequence:        ib.sequence,
	}, nil
}

// previousOutput returns the output a spending input spends. It must only be
// called after a successful Build.
func (ib *InputBuilder) previousOutput() *externalapi.DomainTransactionOutput {
	return ib.previousTransaction.Outputs[ib.previousIndex]
}
