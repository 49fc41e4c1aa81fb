// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"fmt"

	"github.com/kaspanet/chaingen/util"
	"github.com/pkg/errors"
)

const (
	// MaxDataCarrierSize is the maximum number of bytes allowed in pushed
	// data to be considered a nulldata transaction
	MaxDataCarrierSize = 80

	// MaxPubKeysPerMultiSig is the maximum number of public keys a
	// standard multisig script may carry.
	MaxPubKeysPerMultiSig = 16
)

// ScriptClass is an enumeration for the list of standard types of script.
type ScriptClass byte

// Classes of script payment known about in the blockchain.
const (
	NonStandardTy ScriptClass = iota // None of the recognized forms.
	PubKeyTy                         // Pay pubkey.
	PubKeyHashTy                     // Pay pubkey hash.
	MultiSigTy                       // Multi signature.
	NullDataTy                       // Empty data-only (provably prunable).
)

// scriptClassToName houses the human-readable strings which describe each
// script class.
var scriptClassToName = []string{
	NonStandardTy: "nonstandard",
	PubKeyTy:      "pubkey",
	PubKeyHashTy:  "pubkeyhash",
	MultiSigTy:    "multisig",
	NullDataTy:    "nulldata",
}

// String implements the Stringer interface by returning the name of
// the enum script class. If the enum is invalid then "Invalid" will be
// returned.
func (t ScriptClass) String() string {
	if int(t) >= len(scriptClassToName) {
		return "Invalid"
	}
	return scriptClassToName[t]
}

// isPubkey returns true if the script passed is a pay-to-pubkey transaction,
// false otherwise. Both compressed ECDSA and x-only Schnorr keys qualify.
func isPubkey(pops []parsedOpcode) bool {
	return len(pops) == 2 &&
		(len(pops[0].data) == 33 || len(pops[0].data) == 32) &&
		pops[1].opcode.value == OpCheckSig
}

// isPubkeyHash returns true if the script passed is a pay-to-pubkey-hash
// transaction, false otherwise.
func isPubkeyHash(pops []parsedOpcode) bool {
	return len(pops) == 5 &&
		pops[0].opcode.value == OpDup &&
		pops[1].opcode.value == OpHash160 &&
		pops[2].opcode.value == OpData20 &&
		pops[3].opcode.value == OpEqualVerify &&
		pops[4].opcode.value == OpCheckSig
}

// isMultiSig returns true if the passed script is a multisig transaction, false
// otherwise.
func isMultiSig(pops []parsedOpcode) bool {
	// The absolute minimum is 1 pubkey:
	// OP_0/OP_1-16 <pubkey> OP_1 OP_CHECKMULTISIG
	l := len(pops)
	if l < 4 {
		return false
	}
	if !isSmallInt(pops[0].opcode) {
		return false
	}
	if !isSmallInt(pops[l-2].opcode) {
		return false
	}
	if pops[l-1].opcode.value != OpCheckMultiSig {
		return false
	}

	// Verify the number of pubkeys specified matches the actual number
	// of pubkeys provided.
	if l-2-1 != asSmallInt(pops[l-2].opcode) {
		return false
	}

	for _, pop := range pops[1 : l-2] {
		// Valid pubkeys are either 32 or 33 bytes.
		if len(pop.data) != 33 && len(pop.data) != 32 {
			return false
		}
	}
	return true
}

// isNullData returns true if the passed script is a null data transaction,
// false otherwise.
func isNullData(pops []parsedOpcode) bool {
	// A nulldata transaction is either a single OP_RETURN or an
	// OP_RETURN SMALLDATA (where SMALLDATA is a data push up to
	// MaxDataCarrierSize bytes).
	l := len(pops)
	if l == 1 && pops[0].opcode.value == OpReturn {
		return true
	}

	return l == 2 &&
		pops[0].opcode.value == OpReturn &&
		(isSmallInt(pops[1].opcode) || pops[1].opcode.value <=
			OpPushData4) &&
		len(pops[1].data) <= MaxDataCarrierSize
}

// typeOfScript returns the type of the script being inspected from the known
// standard types.
func typeOfScript(pops []parsedOpcode) ScriptClass {
	if isPubkey(pops) {
		return PubKeyTy
	} else if isPubkeyHash(pops) {
		return PubKeyHashTy
	} else if isMultiSig(pops) {
		return MultiSigTy
	} else if isNullData(pops) {
		return NullDataTy
	}
	return NonStandardTy
}

// GetScriptClass returns the class of the script passed.
//
// NonStandardTy will be returned when the script does not parse.
func GetScriptClass(script []byte) ScriptClass {
	pops, err := parseScript(script)
	if err != nil {
		return NonStandardTy
	}
	return typeOfScript(pops)
}

// PayToPubKeyScript creates a new script to pay a transaction output to a
// public key. It is expected that the input is a valid serialized public key.
func PayToPubKeyScript(serializedPubKey []byte) ([]byte, error) {
	if len(serializedPubKey) != 33 && len(serializedPubKey) != 32 {
		str := fmt.Sprintf("public key of %d bytes is neither a compressed "+
			"ECDSA nor a Schnorr key", len(serializedPubKey))
		return nil, scriptError(ErrUnsupportedAddress, str)
	}
	return NewScriptBuilder().AddData(serializedPubKey).
		AddOp(OpCheckSig).Script()
}

// payToPubKeyHashScript creates a new script to pay a transaction
// output to a 20-byte pubkey hash. It is expected that the input is a valid
// hash.
func payToPubKeyHashScript(pubKeyHash []byte) ([]byte, error) {
	return NewScriptBuilder().AddOp(OpDup).AddOp(OpHash160).
		AddData(pubKeyHash).AddOp(OpEqualVerify).AddOp(OpCheckSig).
		Script()
}

// PayToPubKeyHashScript creates a new script paying to a raw 20-byte public
// key hash.
func PayToPubKeyHashScript(pubKeyHash []byte) ([]byte, error) {
	if len(pubKeyHash) != 20 {
		str := fmt.Sprintf("public key hash of %d bytes, expected 20",
			len(pubKeyHash))
		return nil, scriptError(ErrUnsupportedAddress, str)
	}
	return payToPubKeyHashScript(pubKeyHash)
}

// PayToAddrScript creates a new script to pay a transaction output to a the
// specified address.
func PayToAddrScript(addr util.Address) ([]byte, error) {
	const nilAddrErrStr = "unable to generate payment script for nil address"

	switch addr := addr.(type) {
	case *util.AddressPubKeyHash:
		if addr == nil {
			return nil, scriptError(ErrUnsupportedAddress,
				nilAddrErrStr)
		}
		return payToPubKeyHashScript(addr.ScriptAddress())
	}

	str := fmt.Sprintf("unable to generate payment script for unsupported "+
		"address type %T", addr)
	return nil, scriptError(ErrUnsupportedAddress, str)
}

// NullDataScript creates a provably-prunable script containing OP_RETURN
// followed by the passed data. An Error with the error code ErrTooMuchNullData
// will be returned if the length of the passed data exceeds MaxDataCarrierSize.
func NullDataScript(data []byte) ([]byte, error) {
	if len(data) > MaxDataCarrierSize {
		str := fmt.Sprintf("data size %d is larger than max "+
			"allowed size %d", len(data), MaxDataCarrierSize)
		return nil, scriptError(ErrTooMuchNullData, str)
	}

	return NewScriptBuilder().AddOp(OpReturn).AddData(data).Script()
}

// MultiSigScript returns a valid script for a multisignature redemption where
// nrequired of the keys in pubkeys are required to have signed the transaction
// for success. An Error with the error code ErrTooManyRequiredSigs will be
// returned if nrequired is larger than the number of keys provided.
func MultiSigScript(pubKeys [][]byte, nrequired int) ([]byte, error) {
	if len(pubKeys) == 0 || len(pubKeys) > MaxPubKeysPerMultiSig {
		str := fmt.Sprintf("unable to generate multisig script with "+
			"%d public keys, allowed range is 1-%d", len(pubKeys),
			MaxPubKeysPerMultiSig)
		return nil, scriptError(ErrTooManyPubKeys, str)
	}
	if nrequired < 1 || len(pubKeys) < nrequired {
		str := fmt.Sprintf("unable to generate multisig script with "+
			"%d required signatures when there are only %d public "+
			"keys available", nrequired, len(pubKeys))
		return nil, scriptError(ErrTooManyRequiredSigs, str)
	}

	builder := NewScriptBuilder().AddInt64(int64(nrequired))
	for i, key := range pubKeys {
		if len(key) != 33 && len(key) != 32 {
			str := fmt.Sprintf("public key %d has invalid size %d", i, len(key))
			return nil, scriptError(ErrUnsupportedAddress, str)
		}
		builder.AddData(key)
	}
	builder.AddInt64(int64(len(pubKeys)))
	builder.AddOp(OpCheckMultiSig)

	return builder.Script()
}

// CalcMultiSigStats returns the number of public keys and signatures from
// a multi-signature transaction script. The passed script MUST already be
// known to be a multi-signature script.
func CalcMultiSigStats(script []byte) (int, int, error) {
	pops, err := parseScript(script)
	if err != nil {
		return 0, 0, err
	}

	// A multi-signature script is of the pattern:
	//  NUM_SIGS PUBKEY PUBKEY PUBKEY... NUM_PUBKEYS OP_CHECKMULTISIG
	// Therefore the number of signatures is the oldest item on the stack
	// and the number of pubkeys is the 2nd to last. Also, the absolute
	// minimum for a multi-signature script is 1 pubkey, so at least 4
	// items must be on the stack per:
	//  OP_1 PUBKEY OP_1 OP_CHECKMULTISIG
	if !isMultiSig(pops) {
		str := fmt.Sprintf("script %x is not a multisig script", script)
		return 0, 0, scriptError(ErrNotMultisigScript, str)
	}

	numPubKeys := asSmallInt(pops[len(pops)-2].opcode)
	numSigs := asSmallInt(pops[0].opcode)
	return numPubKeys, numSigs, nil
}

// multiSigPubKeys returns the public keys of a script already known to be a
// multi-signature script, in script order.
func multiSigPubKeys(pops []parsedOpcode) [][]byte {
	pubKeys := make([][]byte, 0, len(pops)-3)
	for _, pop := range pops[1 : len(pops)-2] {
		pubKeys = append(pubKeys, pop.data)
	}
	return pubKeys
}

// ExtractPubKeyHash returns the 20-byte hash a pay-to-pubkey-hash script
// pays to.
func ExtractPubKeyHash(script []byte) ([]byte, error) {
	pops, err := parseScript(script)
	if err != nil {
		return nil, err
	}
	if !isPubkeyHash(pops) {
		return nil, errors.Errorf("script %x is not a pay-to-pubkey-hash script", script)
	}
	return pops[2].data, nil
}

// ExtractScriptPubKeyAddress returns the address a pay-to-pubkey-hash script
// pays to, encoded with the given network ID.
func ExtractScriptPubKeyAddress(script []byte, netID byte) (util.Address, error) {
	pubKeyHash, err := ExtractPubKeyHash(script)
	if err != nil {
		return nil, err
	}
	addr, err := util.NewAddressPubKeyHash(pubKeyHash, netID)
	if err != nil {
		return nil, err
	}
	return addr, nil
}
