// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"fmt"
	"testing"

	"github.com/kaspanet/chaingen/domain/consensus/model/externalapi"
	"github.com/kaspanet/chaingen/domain/consensus/utils/consensushashing"
	"github.com/kaspanet/chaingen/domain/consensus/utils/testutils"
	"github.com/kaspanet/chaingen/util"
	"github.com/kaspanet/chaingen/util/keys"
	"github.com/pkg/errors"
)

var hashTypes = []consensushashing.SigHashType{
	consensushashing.SigHashAll,
	consensushashing.SigHashNone,
	consensushashing.SigHashSingle,
	consensushashing.SigHashAll | consensushashing.SigHashAnyOneCanPay,
	consensushashing.SigHashNone | consensushashing.SigHashAnyOneCanPay,
	consensushashing.SigHashSingle | consensushashing.SigHashAnyOneCanPay,
}

func newSpendingTx() *externalapi.DomainTransaction {
	previousTxID := externalapi.DomainHash{0x01, 0x02, 0x03}
	tx := &externalapi.DomainTransaction{Version: 1}
	for i := uint32(0); i < 3; i++ {
		tx.Inputs = append(tx.Inputs, &externalapi.DomainTransactionInput{
			PreviousOutpoint: *externalapi.NewDomainOutpoint(&previousTxID, i),
			Sequence:         externalapi.MaxTxInSequenceNum,
		})
		tx.Outputs = append(tx.Outputs, &externalapi.DomainTransactionOutput{
			Value:           uint64(i + 1),
			ScriptPublicKey: []byte{OpReturn},
		})
	}
	return tx
}

func mustGenerateKey(t *testing.T, seed int64, schnorr bool) keys.SigningKey {
	key, err := keys.Generate(testutils.DeterministicReader(seed), schnorr)
	if err != nil {
		t.Fatalf("failed to generate key from seed %d: %v", seed, err)
	}
	return key
}

func signAndCheck(msg string, tx *externalapi.DomainTransaction, idx int, scriptPublicKey []byte,
	hashType consensushashing.SigHashType, signingKeys ...keys.SigningKey) error {

	sigScript, err := SignTxOutput(tx, idx, scriptPublicKey, hashType, signingKeys...)
	if err != nil {
		return errors.Errorf("failed to sign output %s: %v", msg, err)
	}

	tx.Inputs[idx].SignatureScript = sigScript
	err = VerifyInput(tx, idx, scriptPublicKey)
	if err != nil {
		return errors.Errorf("invalid script signature for %s: %v", msg, err)
	}
	return nil
}

func TestSignTxOutput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		schnorr      bool
		scriptForKey func(key keys.SigningKey) ([]byte, error)
	}{
		{
			name:    "pay to pubkey hash ECDSA",
			schnorr: false,
			scriptForKey: func(key keys.SigningKey) ([]byte, error) {
				address, err := util.NewAddressPubKeyHashFromPublicKey(key.PublicKey(),
					util.TestNetPubKeyHashAddrID)
				if err != nil {
					return nil, err
				}
				return PayToAddrScript(address)
			},
		},
		{
			name:    "pay to pubkey hash Schnorr",
			schnorr: true,
			scriptForKey: func(key keys.SigningKey) ([]byte, error) {
				return PayToPubKeyHashScript(util.Hash160(key.PublicKey()))
			},
		},
		{
			name:    "pay to pubkey ECDSA",
			schnorr: false,
			scriptForKey: func(key keys.SigningKey) ([]byte, error) {
				return PayToPubKeyScript(key.PublicKey())
			},
		},
		{
			name:    "pay to pubkey Schnorr",
			schnorr: true,
			scriptForKey: func(key keys.SigningKey) ([]byte, error) {
				return PayToPubKeyScript(key.PublicKey())
			},
		},
		{
			name:    "1-of-1 multisig",
			schnorr: false,
			scriptForKey: func(key keys.SigningKey) ([]byte, error) {
				return MultiSigScript([][]byte{key.PublicKey()}, 1)
			},
		},
	}

	seed := int64(0)
	for _, test := range tests {
		tx := newSpendingTx()
		for _, hashType := range hashTypes {
			for i := range tx.Inputs {
				msg := fmt.Sprintf("%s %d:%d", test.name, hashType, i)
				seed++
				key := mustGenerateKey(t, seed, test.schnorr)

				scriptPublicKey, err := test.scriptForKey(key)
				if err != nil {
					t.Fatalf("failed to make scriptPublicKey for %s: %v", msg, err)
				}

				if err := signAndCheck(msg, tx, i, scriptPublicKey, hashType, key); err != nil {
					t.Error(err)
					break
				}
			}
		}
	}
}

func TestSignTxOutputMultiSig(t *testing.T) {
	t.Parallel()

	signingKeys := []keys.SigningKey{
		mustGenerateKey(t, 101, false),
		mustGenerateKey(t, 102, true),
		mustGenerateKey(t, 103, false),
	}
	pubKeys := make([][]byte, len(signingKeys))
	for i, key := range signingKeys {
		pubKeys[i] = key.PublicKey()
	}
	scriptPublicKey, err := MultiSigScript(pubKeys, 2)
	if err != nil {
		t.Fatalf("MultiSigScript: %v", err)
	}

	tests := []struct {
		name    string
		keys    []keys.SigningKey
		signErr error
	}{
		{
			name: "first and second keys",
			keys: []keys.SigningKey{signingKeys[0], signingKeys[1]},
		},
		{
			name: "first and third keys given out of order",
			keys: []keys.SigningKey{signingKeys[2], signingKeys[0]},
		},
		{
			name: "all keys",
			keys: signingKeys,
		},
		{
			name:    "a single key",
			keys:    []keys.SigningKey{signingKeys[1]},
			signErr: scriptError(ErrNoMatchingKey, ""),
		},
		{
			name:    "unrelated keys",
			keys:    []keys.SigningKey{mustGenerateKey(t, 104, false), mustGenerateKey(t, 105, true)},
			signErr: scriptError(ErrNoMatchingKey, ""),
		},
	}

	for _, test := range tests {
		tx := newSpendingTx()
		sigScript, err := SignTxOutput(tx, 0, scriptPublicKey, consensushashing.SigHashAll, test.keys...)
		if e := checkScriptError(err, test.signErr); e != nil {
			t.Errorf("%s: %v", test.name, e)
			continue
		}
		if test.signErr != nil {
			continue
		}

		tx.Inputs[0].SignatureScript = sigScript
		if err := VerifyInput(tx, 0, scriptPublicKey); err != nil {
			t.Errorf("%s: VerifyInput: %v", test.name, err)
		}
	}
}

// TestMultiSigSignatureOrder ensures multisig signatures have to appear in the
// same order as the public keys they were made with.
func TestMultiSigSignatureOrder(t *testing.T) {
	t.Parallel()

	key1 := mustGenerateKey(t, 201, false)
	key2 := mustGenerateKey(t, 202, false)
	scriptPublicKey, err := MultiSigScript([][]byte{key1.PublicKey(), key2.PublicKey()}, 2)
	if err != nil {
		t.Fatalf("MultiSigScript: %v", err)
	}

	tx := newSpendingTx()
	sig1, err := RawTxInSignature(tx, 0, scriptPublicKey, consensushashing.SigHashAll, key1)
	if err != nil {
		t.Fatalf("RawTxInSignature: %v", err)
	}
	sig2, err := RawTxInSignature(tx, 0, scriptPublicKey, consensushashing.SigHashAll, key2)
	if err != nil {
		t.Fatalf("RawTxInSignature: %v", err)
	}

	tx.Inputs[0].SignatureScript, err = NewScriptBuilder().AddOp(OpFalse).AddData(sig1).AddData(sig2).Script()
	if err != nil {
		t.Fatalf("Script: %v", err)
	}
	if err := VerifyInput(tx, 0, scriptPublicKey); err != nil {
		t.Fatalf("VerifyInput: unexpected error for ordered signatures: %v", err)
	}

	tx.Inputs[0].SignatureScript, err = NewScriptBuilder().AddOp(OpFalse).AddData(sig2).AddData(sig1).Script()
	if err != nil {
		t.Fatalf("Script: %v", err)
	}
	err = VerifyInput(tx, 0, scriptPublicKey)
	if e := checkScriptError(err, scriptError(ErrEvalFalse, "")); e != nil {
		t.Errorf("VerifyInput: %v", e)
	}

	tx.Inputs[0].SignatureScript, err = NewScriptBuilder().AddData(sig1).AddData(sig2).Script()
	if err != nil {
		t.Fatalf("Script: %v", err)
	}
	err = VerifyInput(tx, 0, scriptPublicKey)
	if e := checkScriptError(err, scriptError(ErrSignatureScriptMismatch, "")); e != nil {
		t.Errorf("VerifyInput: %v", e)
	}
}

// TestTamperedSignature ensures that flipping any byte of an embedded
// signature makes verification fail.
func TestTamperedSignature(t *testing.T) {
	t.Parallel()

	for _, schnorr := range []bool{false, true} {
		key := mustGenerateKey(t, 301, schnorr)
		scriptPublicKey, err := PayToPubKeyHashScript(util.Hash160(key.PublicKey()))
		if err != nil {
			t.Fatalf("PayToPubKeyHashScript: %v", err)
		}

		tx := newSpendingTx()
		sigScript, err := SignTxOutput(tx, 1, scriptPublicKey, consensushashing.SigHashAll, key)
		if err != nil {
			t.Fatalf("SignTxOutput: %v", err)
		}
		tx.Inputs[1].SignatureScript = sigScript
		if err := VerifyInput(tx, 1, scriptPublicKey); err != nil {
			t.Fatalf("VerifyInput: %v", err)
		}

		// The signature push is the first opcode: one length byte
		// followed by the signature and its hash type.
		signatureLength := int(sigScript[0])
		for i := 1; i <= signatureLength; i++ {
			tampered := make([]byte, len(sigScript))
			copy(tampered, sigScript)
			tampered[i] ^= 0xff
			tx.Inputs[1].SignatureScript = tampered
			if err := VerifyInput(tx, 1, scriptPublicKey); err == nil {
				t.Errorf("VerifyInput (schnorr: %t): unexpected success with "+
					"signature byte %d flipped", schnorr, i-1)
			}
		}

		// A valid signature for a different input must not verify either.
		tx.Inputs[1].SignatureScript = nil
		tx.Inputs[0].SignatureScript = sigScript
		if err := VerifyInput(tx, 0, scriptPublicKey); err == nil {
			t.Errorf("VerifyInput (schnorr: %t): unexpected success for a "+
				"signature made for another input", schnorr)
		}
	}
}

func TestSignTxOutputErrors(t *testing.T) {
	t.Parallel()

	key := mustGenerateKey(t, 401, false)
	otherKey := mustGenerateKey(t, 402, false)

	p2pkh, err := PayToPubKeyHashScript(util.Hash160(key.PublicKey()))
	if err != nil {
		t.Fatalf("PayToPubKeyHashScript: %v", err)
	}
	p2pk, err := PayToPubKeyScript(key.PublicKey())
	if err != nil {
		t.Fatalf("PayToPubKeyScript: %v", err)
	}
	nullData, err := NullDataScript([]byte("chaingen"))
	if err != nil {
		t.Fatalf("NullDataScript: %v", err)
	}

	tests := []struct {
		name            string
		scriptPublicKey []byte
		hashType        consensushashing.SigHashType
		key             keys.SigningKey
		err             error
	}{
		{
			name:            "pay to pubkey hash with another key",
			scriptPublicKey: p2pkh,
			hashType:        consensushashing.SigHashAll,
			key:             otherKey,
			err:             scriptError(ErrNoMatchingKey, ""),
		},
		{
			name:            "pay to pubkey with another key",
			scriptPublicKey: p2pk,
			hashType:        consensushashing.SigHashAll,
			key:             otherKey,
			err:             scriptError(ErrNoMatchingKey, ""),
		},
		{
			name:            "nulldata",
			scriptPublicKey: nullData,
			hashType:        consensushashing.SigHashAll,
			key:             key,
			err:             scriptError(ErrNonStandardScript, ""),
		},
		{
			name:            "invalid hash type",
			scriptPublicKey: p2pkh,
			hashType:        consensushashing.SigHashType(0x04),
			key:             key,
			err:             scriptError(ErrInvalidSigHashType, ""),
		},
	}

	for _, test := range tests {
		tx := newSpendingTx()
		_, err := SignTxOutput(tx, 0, test.scriptPublicKey, test.hashType, test.key)
		if e := checkScriptError(err, test.err); e != nil {
			t.Errorf("%s: %v", test.name, e)
		}
	}
}

func TestVerifyInputErrors(t *testing.T) {
	t.Parallel()

	key := mustGenerateKey(t, 501, false)
	otherKey := mustGenerateKey(t, 502, false)
	p2pkh, err := PayToPubKeyHashScript(util.Hash160(key.PublicKey()))
	if err != nil {
		t.Fatalf("PayToPubKeyHashScript: %v", err)
	}

	tx := newSpendingTx()
	signature, err := RawTxInSignature(tx, 0, p2pkh, consensushashing.SigHashAll, key)
	if err != nil {
		t.Fatalf("RawTxInSignature: %v", err)
	}
	otherSignature, err := RawTxInSignature(tx, 0, p2pkh, consensushashing.SigHashAll, otherKey)
	if err != nil {
		t.Fatalf("RawTxInSignature: %v", err)
	}
	badHashType := append([]byte(nil), signature...)
	badHashType[len(badHashType)-1] = 0x04

	tests := []struct {
		name      string
		sigScript []byte
		err       error
	}{
		{
			name:      "empty signature script",
			sigScript: nil,
			err:       scriptError(ErrSignatureScriptMismatch, ""),
		},
		{
			name:      "signature without public key",
			sigScript: mustBuild(NewScriptBuilder().AddData(signature)),
			err:       scriptError(ErrSignatureScriptMismatch, ""),
		},
		{
			name:      "not push only",
			sigScript: mustBuild(NewScriptBuilder().AddData(signature).AddOp(OpDup)),
			err:       scriptError(ErrSignatureScriptMismatch, ""),
		},
		{
			name:      "another key's public key",
			sigScript: mustBuild(NewScriptBuilder().AddData(otherSignature).AddData(otherKey.PublicKey())),
			err:       scriptError(ErrPubKeyMismatch, ""),
		},
		{
			name:      "another key's signature",
			sigScript: mustBuild(NewScriptBuilder().AddData(otherSignature).AddData(key.PublicKey())),
			err:       scriptError(ErrEvalFalse, ""),
		},
		{
			name:      "unknown hash type",
			sigScript: mustBuild(NewScriptBuilder().AddData(badHashType).AddData(key.PublicKey())),
			err:       scriptError(ErrInvalidSigHashType, ""),
		},
		{
			name:      "malformed push",
			sigScript: []byte{OpData20, 0x01},
			err:       scriptError(ErrMalformedPush, ""),
		},
	}

	for _, test := range tests {
		tx.Inputs[0].SignatureScript = test.sigScript
		err := VerifyInput(tx, 0, p2pkh)
		if e := checkScriptError(err, test.err); e != nil {
			t.Errorf("%s: %v", test.name, e)
		}
	}

	tx.Inputs[0].SignatureScript = mustBuild(NewScriptBuilder().AddData(signature).AddData(key.PublicKey()))
	if err := VerifyInput(tx, 0, p2pkh); err != nil {
		t.Errorf("VerifyInput: unexpected error for a valid signature script: %v", err)
	}
	err = VerifyInput(tx, 3, p2pkh)
	if e := checkScriptError(err, scriptError(ErrInternal, "")); e != nil {
		t.Errorf("VerifyInput with an out of range index: %v", e)
	}
}

func mustBuild(builder *ScriptBuilder) []byte {
	script, err := builder.Script()
	if err != nil {
		panic(err)
	}
	return script
}
