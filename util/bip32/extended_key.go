package bip32

import (
	"encoding/binary"
	"fmt"

	"github.com/btcsuite/btcutil/base58"
	"github.com/kaspanet/go-secp256k1"
	"github.com/pkg/errors"
)

const (
	versionSerializationLen     = 4
	depthSerializationLen       = 1
	fingerprintSerializationLen = 4
	childNumberSerializationLen = 4
	chainCodeSerializationLen   = 32
	keySerializationLen         = 33
	checkSumLen                 = 4
)

const extendedKeySerializationLen = versionSerializationLen +
	depthSerializationLen +
	fingerprintSerializationLen +
	childNumberSerializationLen +
	chainCodeSerializationLen +
	keySerializationLen +
	checkSumLen

// ExtendedKey is a BIP32 extended key. Exactly one of privateKey and
// publicKey is set at construction; a private key's public key is filled
// in lazily.
type ExtendedKey struct {
	privateKey        *secp256k1.ECDSAPrivateKey
	publicKey         *secp256k1.ECDSAPublicKey
	Version           [4]byte
	Depth             uint8
	ParentFingerprint [4]byte
	ChildNumber       uint32
	ChainCode         [32]byte
}

// IsPrivate returns whether the key carries a private key.
func (extKey *ExtendedKey) IsPrivate() bool {
	return extKey.privateKey != nil
}

// PrivateKey returns the private key, or an error for public extended keys.
func (extKey *ExtendedKey) PrivateKey() (*secp256k1.ECDSAPrivateKey, error) {
	if !extKey.IsPrivate() {
		return nil, errors.New("extended key is public")
	}
	return extKey.privateKey, nil
}

// PublicKey returns the public key.
func (extKey *ExtendedKey) PublicKey() (*secp256k1.ECDSAPublicKey, error) {
	if extKey.publicKey != nil {
		return extKey.publicKey, nil
	}

	publicKey, err := extKey.privateKey.ECDSAPublicKey()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	extKey.publicKey = publicKey
	return publicKey, nil
}

// Public returns the public version of the key. Public keys are returned
// as is.
func (extKey *ExtendedKey) Public() (*ExtendedKey, error) {
	if !extKey.IsPrivate() {
		return extKey, nil
	}

	publicKey, err := extKey.PublicKey()
	if err != nil {
		return nil, err
	}

	version, err := toPublicVersion(extKey.Version)
	if err != nil {
		return nil, err
	}

	return &ExtendedKey{
		publicKey:         publicKey,
		Version:           version,
		Depth:             extKey.Depth,
		ParentFingerprint: extKey.ParentFingerprint,
		ChildNumber:       extKey.ChildNumber,
		ChainCode:         extKey.ChainCode,
	}, nil
}

// DeriveFromPath derives the descendant of the key at pathString. A path
// starting with M returns a public key.
func (extKey *ExtendedKey) DeriveFromPath(pathString string) (*ExtendedKey, error) {
	path, err := parsePath(pathString)
	if err != nil {
		return nil, err
	}

	return extKey.path(path)
}

func (extKey *ExtendedKey) path(path *path) (*ExtendedKey, error) {
	if path.isPrivate && !extKey.IsPrivate() {
		return nil, errors.New("cannot derive a private path from a public key")
	}

	descendantKey := extKey
	for _, index := range path.indexes {
		var err error
		descendantKey, err = descendantKey.Child(index)
		if err != nil {
			return nil, err
		}
	}

	if !path.isPrivate {
		return descendantKey.Public()
	}

	return descendantKey, nil
}

// String returns the base58check serialization of the key.
func (extKey *ExtendedKey) String() string {
	serialized, err := extKey.serialize()
	if err != nil {
		return fmt.Sprintf("<invalid extended key: %s>", err)
	}
	return base58.Encode(serialized)
}

func (extKey *ExtendedKey) serialize() ([]byte, error) {
	serialized := make([]byte, 0, extendedKeySerializationLen)
	serialized = append(serialized, extKey.Version[:]...)
	serialized = append(serialized, extKey.Depth)
	serialized = append(serialized, extKey.ParentFingerprint[:]...)
	serialized = append(serialized, serializeUint32(extKey.ChildNumber)...)
	serialized = append(serialized, extKey.ChainCode[:]...)

	if extKey.IsPrivate() {
		serialized = append(serialized, 0x00)
		serialized = append(serialized, extKey.privateKey.Serialize()[:]...)
	} else {
		publicKey, err := extKey.PublicKey()
		if err != nil {
			return nil, err
		}
		serializedPublicKey, err := publicKey.Serialize()
		if err != nil {
			return nil, errors.WithStack(err)
		}
		serialized = append(serialized, serializedPublicKey[:]...)
	}

	return append(serialized, calcChecksum(serialized)...), nil
}

// DeserializeExtendedKey parses a base58check serialized extended key,
// private or public.
func DeserializeExtendedKey(extKeyString string) (*ExtendedKey, error) {
	serialized := base58.Decode(extKeyString)
	if len(serialized) != extendedKeySerializationLen {
		return nil, errors.Errorf("extended key has length %d instead of %d",
			len(serialized), extendedKeySerializationLen)
	}

	err := validateChecksum(serialized)
	if err != nil {
		return nil, err
	}

	extKey := &ExtendedKey{}
	offset := 0
	copy(extKey.Version[:], serialized[offset:offset+versionSerializationLen])
	offset += versionSerializationLen
	extKey.Depth = serialized[offset]
	offset += depthSerializationLen
	copy(extKey.ParentFingerprint[:], serialized[offset:offset+fingerprintSerializationLen])
	offset += fingerprintSerializationLen
	extKey.ChildNumber = binary.BigEndian.Uint32(serialized[offset : offset+childNumberSerializationLen])
	offset += childNumberSerializationLen
	copy(extKey.ChainCode[:], serialized[offset:offset+chainCodeSerializationLen])
	offset += chainCodeSerializationLen
	key := serialized[offset : offset+keySerializationLen]

	isPrivate, err := isPrivateVersion(extKey.Version)
	if err != nil {
		return nil, err
	}

	if isPrivate {
		if key[0] != 0x00 {
			return nil, errors.Errorf("private key must be prefixed by 0x00, got %x", key[0])
		}
		extKey.privateKey, err = secp256k1.DeserializeECDSAPrivateKeyFromSlice(key[1:])
		if err != nil {
			return nil, errors.Wrap(err, "invalid private key")
		}
	} else {
		extKey.publicKey, err = secp256k1.DeserializeECDSAPubKey(key)
		if err != nil {
			return nil, errors.Wrap(err, "invalid public key")
		}
	}

	return extKey, nil
}
