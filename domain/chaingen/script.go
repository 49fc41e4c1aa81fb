package chaingen

import (
	"fmt"

	"github.com/kaspanet/chaingen/domain/consensus/ruleerrors"
	"github.com/kaspanet/chaingen/domain/consensus/utils/txscript"
	"github.com/kaspanet/chaingen/util"
	"github.com/kaspanet/chaingen/util/keys"
	"github.com/pkg/errors"
)

// ScriptKind selects the template a guard script is generated from.
type ScriptKind int

// The supported script kinds.
const (
	// PayToPubKey takes one public key, given as []byte or keys.SigningKey.
	PayToPubKey ScriptKind = iota

	// PayToAddress takes one util.Address, an encoded address string, a
	// 20-byte public key hash or a keys.SigningKey.
	PayToAddress

	// MultiSig takes the number of required signatures as an int followed
	// by the public keys, each given as []byte or keys.SigningKey, or all
	// of them as one [][]byte.
	MultiSig

	// NullData takes one []byte of data.
	NullData
)

var scriptKindStrings = map[ScriptKind]string{
	PayToPubKey:  "PayToPubKey",
	PayToAddress: "PayToAddress",
	MultiSig:     "MultiSig",
	NullData:     "NullData",
}

func (kind ScriptKind) String() string {
	if kindString, ok := scriptKindStrings[kind]; ok {
		return kindString
	}
	return fmt.Sprintf("Unknown ScriptKind (%d)", int(kind))
}

type scriptGenerator func(recipient []interface{}) ([]byte, error)

var scriptGenerators = map[ScriptKind]scriptGenerator{
	PayToPubKey:  payToPubKey,
	PayToAddress: payToAddress,
	MultiSig:     multiSig,
	NullData:     nullData,
}

// BuildScript generates the guard script of the given kind paying to
// recipient. See the ScriptKind constants for the recipient each kind takes.
func BuildScript(kind ScriptKind, recipient ...interface{}) ([]byte, error) {
	generate, ok := scriptGenerators[kind]
	if !ok {
		return nil, errors.Wrapf(ruleerrors.ErrUnsupportedScriptKind, "no template for %s", kind)
	}

	script, err := generate(recipient)
	if err != nil {
		return nil, err
	}
	log.Tracef("Built %s script %x", kind, script)
	return script, nil
}

func invalidRecipient(kind ScriptKind, format string, args ...interface{}) error {
	return errors.Wrapf(ruleerrors.ErrInvalidRecipient, "%s: %s", kind, fmt.Sprintf(format, args...))
}

func publicKeyOf(recipient interface{}) ([]byte, bool) {
	switch recipient := recipient.(type) {
	case []byte:
		return recipient, true
	case keys.SigningKey:
		return recipient.PublicKey(), true
	}
	return nil, false
}

func payToPubKey(recipient []interface{}) ([]byte, error) {
	if len(recipient) != 1 {
		return nil, invalidRecipient(PayToPubKey, "expected one public key, got %d values", len(recipient))
	}
	publicKey, ok := publicKeyOf(recipient[0])
	if !ok {
		return nil, invalidRecipient(PayToPubKey, "unexpected public key type %T", recipient[0])
	}

	script, err := txscript.PayToPubKeyScript(publicKey)
	if err != nil {
		return nil, invalidRecipient(PayToPubKey, "%s", err)
	}
	return script, nil
}

func payToAddress(recipient []interface{}) ([]byte, error) {
	if len(recipient) != 1 {
		return nil, invalidRecipient(PayToAddress, "expected one address, got %d values", len(recipient))
	}

	var script []byte
	var err error
	switch recipient := recipient[0].(type) {
	case util.Address:
		script, err = txscript.PayToAddrScript(recipient)
	case string:
		var address util.Address
		address, err = util.DecodeAddress(recipient)
		if err == nil {
			script, err = txscript.PayToAddrScript(address)
		}
	case []byte:
		script, err = txscript.PayToPubKeyHashScript(recipient)
	case keys.SigningKey:
		script, err = txscript.PayToPubKeyHashScript(util.Hash160(recipient.PublicKey()))
	default:
		return nil, invalidRecipient(PayToAddress, "unexpected address type %T", recipient)
	}
	if err != nil {
		return nil, invalidRecipient(PayToAddress, "%s", err)
	}
	return script, nil
}

func multiSig(recipient []interface{}) ([]byte, error) {
	if len(recipient) < 2 {
		return nil, invalidRecipient(MultiSig, "expected a threshold and public keys, got %d values",
			len(recipient))
	}
	threshold, ok := recipient[0].(int)
	if !ok {
		return nil, invalidRecipient(MultiSig, "unexpected threshold type %T", recipient[0])
	}

	var publicKeys [][]byte
	if allKeys, ok := recipient[1].([][]byte); ok && len(recipient) == 2 {
		publicKeys = allKeys
	} else {
		publicKeys = make([][]byte, 0, len(recipient)-1)
		for i, value := range recipient[1:] {
			publicKey, ok := publicKeyOf(value)
			if !ok {
				return nil, invalidRecipient(MultiSig, "unexpected type %T of public key %d", value, i)
			}
			publicKeys = append(publicKeys, publicKey)
		}
	}

	script, err := txscript.MultiSigScript(publicKeys, threshold)
	if err != nil {
		return nil, invalidRecipient(MultiSig, "%s", err)
	}
	return script, nil
}

func nullData(recipient []interface{}) ([]byte, error) {
	if len(recipient) != 1 {
		return nil, invalidRecipient(NullData, "expected one data value, got %d values", len(recipient))
	}
	data, ok := recipient[0].([]byte)
	if !ok {
		return nil, invalidRecipient(NullData, "unexpected data type %T", recipient[0])
	}

	script, err := txscript.NullDataScript(data)
	if err != nil {
		return nil, invalidRecipient(NullData, "%s", err)
	}
	return script, nil
}
