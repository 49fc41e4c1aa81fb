package keys

import (
	"fmt"

	"github.com/kaspanet/chaingen/util/bip32"
	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip39"
)

// NewMnemonic returns a fresh 24-word mnemonic.
func NewMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(256)
	if err != nil {
		return "", errors.WithStack(err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", errors.WithStack(err)
	}
	return mnemonic, nil
}

// FromMnemonic derives the key at hardened index m/index' of the mnemonic's
// BIP32 master key. The mnemonic has no passphrase.
func FromMnemonic(mnemonic string, index uint32, schnorr bool) (SigningKey, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, errors.New("invalid mnemonic")
	}
	return FromSeed(bip39.NewSeed(mnemonic, ""), index, schnorr)
}

// FromSeed derives the key at hardened index m/index' of the BIP32 master
// key of seed.
func FromSeed(seed []byte, index uint32, schnorr bool) (SigningKey, error) {
	extendedKey, err := bip32.NewMasterWithPath(seed, bip32.BitcoinTestnetPrivate, fmt.Sprintf("m/%d'", index))
	if err != nil {
		return nil, err
	}
	privateKey, err := extendedKey.PrivateKey()
	if err != nil {
		return nil, err
	}
	serialized := privateKey.Serialize()
	if schnorr {
		return NewSchnorrKey(serialized[:])
	}
	return NewECDSAKey(serialized[:])
}
