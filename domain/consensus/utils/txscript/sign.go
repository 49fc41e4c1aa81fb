// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"fmt"

	"github.com/kaspanet/chaingen/domain/consensus/model/externalapi"
	"github.com/kaspanet/chaingen/domain/consensus/utils/consensushashing"
	"github.com/kaspanet/chaingen/util"
	"github.com/kaspanet/chaingen/util/keys"
)

// RawTxInSignature returns the serialized signature for the input idx of
// the given transaction, with hashType appended to it.
func RawTxInSignature(tx *externalapi.DomainTransaction, idx int, script []byte,
	hashType consensushashing.SigHashType, key keys.SigningKey) ([]byte, error) {

	if !consensushashing.IsStandardSigHashType(hashType) {
		str := fmt.Sprintf("invalid hash type 0x%x", uint32(hashType))
		return nil, scriptError(ErrInvalidSigHashType, str)
	}

	hash, err := consensushashing.CalculateSignatureHash(tx, idx, script, hashType)
	if err != nil {
		return nil, err
	}
	signature, err := key.Sign(hash)
	if err != nil {
		return nil, err
	}

	return append(signature, byte(hashType)), nil
}

// SignatureScript creates an input signature script for tx to spend the
// pay-to-pubkey-hash output idx refers to. tx must include all transaction
// inputs and outputs, however txin scripts are allowed to be filled or empty.
// The returned script is calculated to be used as the idx'th txin sigscript
// for tx. script is the ScriptPublicKey of the previous output being used as
// the idx'th input.
func SignatureScript(tx *externalapi.DomainTransaction, idx int, script []byte,
	hashType consensushashing.SigHashType, key keys.SigningKey) ([]byte, error) {

	sig, err := RawTxInSignature(tx, idx, script, hashType, key)
	if err != nil {
		return nil, err
	}

	return NewScriptBuilder().AddData(sig).AddData(key.PublicKey()).Script()
}

func p2pkSignatureScript(tx *externalapi.DomainTransaction, idx int, script []byte,
	hashType consensushashing.SigHashType, key keys.SigningKey) ([]byte, error) {

	sig, err := RawTxInSignature(tx, idx, script, hashType, key)
	if err != nil {
		return nil, err
	}

	return NewScriptBuilder().AddData(sig).Script()
}

// signMultiSig signs as many of the outputs in the provided multisig script as
// possible. It returns the generated script and an error unless the required
// number of signatures was reached.
func signMultiSig(tx *externalapi.DomainTransaction, idx int, script []byte,
	hashType consensushashing.SigHashType, pubKeys [][]byte, nRequired int,
	signingKeys []keys.SigningKey) ([]byte, error) {

	// We start with a single OP_FALSE to work around the (now standard)
	// bug in the reference implementation that causes a spurious pop at
	// the end of OP_CHECKMULTISIG.
	builder := NewScriptBuilder().AddOp(OpFalse)
	signed := 0
	for _, pubKey := range pubKeys {
		key, ok := findKey(signingKeys, pubKey)
		if !ok {
			continue
		}
		sig, err := RawTxInSignature(tx, idx, script, hashType, key)
		if err != nil {
			return nil, err
		}

		builder.AddData(sig)
		signed++
		if signed == nRequired {
			break
		}
	}

	if signed < nRequired {
		str := fmt.Sprintf("multisig script requires %d signatures, "+
			"only %d of the given keys match", nRequired, signed)
		return nil, scriptError(ErrNoMatchingKey, str)
	}

	return builder.Script()
}

func findKey(signingKeys []keys.SigningKey, pubKey []byte) (keys.SigningKey, bool) {
	for _, key := range signingKeys {
		if bytes.Equal(key.PublicKey(), pubKey) {
			return key, true
		}
	}
	return nil, false
}

func findKeyByHash(signingKeys []keys.SigningKey, pubKeyHash []byte) (keys.SigningKey, bool) {
	for _, key := range signingKeys {
		if bytes.Equal(util.Hash160(key.PublicKey()), pubKeyHash) {
			return key, true
		}
	}
	return nil, false
}

// SignTxOutput signs output idx of the given tx to resolve the script given in
// scriptPublicKey with a signature type of hashType. The signature script is
// built according to the class of scriptPublicKey, using the keys among
// signingKeys that the script pays to. The returned script is meant to be
// set as the SignatureScript of input idx.
func SignTxOutput(tx *externalapi.DomainTransaction, idx int, scriptPublicKey []byte,
	hashType consensushashing.SigHashType, signingKeys ...keys.SigningKey) ([]byte, error) {

	pops, err := parseScript(scriptPublicKey)
	if err != nil {
		return nil, err
	}

	class := typeOfScript(pops)
	log.Tracef("Signing input %d of transaction spending a %s script", idx, class)

	switch class {
	case PubKeyTy:
		key, ok := findKey(signingKeys, pops[0].data)
		if !ok {
			return nil, scriptError(ErrNoMatchingKey,
				"no signing key matches the pay-to-pubkey script")
		}
		return p2pkSignatureScript(tx, idx, scriptPublicKey, hashType, key)

	case PubKeyHashTy:
		key, ok := findKeyByHash(signingKeys, pops[2].data)
		if !ok {
			return nil, scriptError(ErrNoMatchingKey,
				"no signing key hashes to the pay-to-pubkey-hash script")
		}
		return SignatureScript(tx, idx, scriptPublicKey, hashType, key)

	case MultiSigTy:
		nRequired := asSmallInt(pops[0].opcode)
		return signMultiSig(tx, idx, scriptPublicKey, hashType,
			multiSigPubKeys(pops), nRequired, signingKeys)
	}

	str := fmt.Sprintf("can't sign %s script", class)
	return nil, scriptError(ErrNonStandardScript, str)
}
