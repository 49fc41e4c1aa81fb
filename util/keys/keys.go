package keys

import (
	"io"

	"github.com/kaspanet/chaingen/domain/consensus/model/externalapi"
	"github.com/kaspanet/go-secp256k1"
	"github.com/pkg/errors"
)

// PrivateKeySize is the size of a serialized private key.
const PrivateKeySize = 32

// Serialized public key sizes. They tell the two signature schemes apart.
const (
	ECDSAPublicKeySize   = 33
	SchnorrPublicKeySize = 32
)

// maxGenerateAttempts bounds the number of 32-byte candidates drawn when
// generating a key. A uniformly random candidate is invalid with negligible
// probability, so exhausting it means the random source is broken.
const maxGenerateAttempts = 64

// SigningKey is a secp256k1 private key able to sign 32-byte hashes.
// Implementations are read-only after construction and may be shared.
type SigningKey interface {
	// PublicKey returns the serialized public key.
	PublicKey() []byte

	// Sign returns the serialized signature of hash.
	Sign(hash *externalapi.DomainHash) ([]byte, error)

	// PrivateKey returns a copy of the serialized private key.
	PrivateKey() []byte
}

// ECDSAKey is a SigningKey producing ECDSA signatures. Its public key is
// serialized compressed.
type ECDSAKey struct {
	privateKey *secp256k1.ECDSAPrivateKey
	serialized []byte
	publicKey  []byte
}

// NewECDSAKey parses a serialized private key.
func NewECDSAKey(privateKey []byte) (*ECDSAKey, error) {
	key, err := secp256k1.DeserializeECDSAPrivateKeyFromSlice(privateKey)
	if err != nil {
		return nil, errors.Wrap(err, "invalid ECDSA private key")
	}
	publicKey, err := key.ECDSAPublicKey()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	serializedPublicKey, err := publicKey.Serialize()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &ECDSAKey{
		privateKey: key,
		serialized: append([]byte(nil), privateKey...),
		publicKey:  append([]byte(nil), serializedPublicKey[:]...),
	}, nil
}

// PublicKey implements SigningKey.
func (k *ECDSAKey) PublicKey() []byte {
	return k.publicKey
}

// Sign implements SigningKey.
func (k *ECDSAKey) Sign(hash *externalapi.DomainHash) ([]byte, error) {
	secpHash := secp256k1.Hash(*hash)
	signature, err := k.privateKey.ECDSASign(&secpHash)
	if err != nil {
		return nil, errors.Errorf("cannot sign hash: %s", err)
	}
	return signature.Serialize()[:], nil
}

// PrivateKey implements SigningKey.
func (k *ECDSAKey) PrivateKey() []byte {
	return append([]byte(nil), k.serialized...)
}

// SchnorrKey is a SigningKey producing Schnorr signatures. Its public key is
// the 32-byte x coordinate.
type SchnorrKey struct {
	keyPair    *secp256k1.SchnorrKeyPair
	serialized []byte
	publicKey  []byte
}

// NewSchnorrKey parses a serialized private key.
func NewSchnorrKey(privateKey []byte) (*SchnorrKey, error) {
	keyPair, err := secp256k1.DeserializeSchnorrPrivateKeyFromSlice(privateKey)
	if err != nil {
		return nil, errors.Wrap(err, "invalid Schnorr private key")
	}
	publicKey, err := keyPair.SchnorrPublicKey()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	serializedPublicKey, err := publicKey.Serialize()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &SchnorrKey{
		keyPair:    keyPair,
		serialized: append([]byte(nil), privateKey...),
		publicKey:  append([]byte(nil), serializedPublicKey[:]...),
	}, nil
}

// PublicKey implements SigningKey.
func (k *SchnorrKey) PublicKey() []byte {
	return k.publicKey
}

// Sign implements SigningKey.
func (k *SchnorrKey) Sign(hash *externalapi.DomainHash) ([]byte, error) {
	secpHash := secp256k1.Hash(*hash)
	signature, err := k.keyPair.SchnorrSign(&secpHash)
	if err != nil {
		return nil, errors.Errorf("cannot sign hash: %s", err)
	}
	return signature.Serialize()[:], nil
}

// PrivateKey implements SigningKey.
func (k *SchnorrKey) PrivateKey() []byte {
	return append([]byte(nil), k.serialized...)
}

// GenerateECDSAKey draws a private key from random.
func GenerateECDSAKey(random io.Reader) (*ECDSAKey, error) {
	var key *ECDSAKey
	err := generate(random, func(candidate []byte) (err error) {
		key, err = NewECDSAKey(candidate)
		return err
	})
	return key, err
}

// GenerateSchnorrKey draws a private key from random.
func GenerateSchnorrKey(random io.Reader) (*SchnorrKey, error) {
	var key *SchnorrKey
	err := generate(random, func(candidate []byte) (err error) {
		key, err = NewSchnorrKey(candidate)
		return err
	})
	return key, err
}

// Generate draws a private key of either scheme from random.
func Generate(random io.Reader, schnorr bool) (SigningKey, error) {
	if schnorr {
		return GenerateSchnorrKey(random)
	}
	return GenerateECDSAKey(random)
}

func generate(random io.Reader, parse func(candidate []byte) error) error {
	candidate := make([]byte, PrivateKeySize)
	for i := 0; i < maxGenerateAttempts; i++ {
		_, err := io.ReadFull(random, candidate)
		if err != nil {
			return errors.Wrap(err, "failed reading random bytes for a private key")
		}
		if parse(candidate) == nil {
			return nil
		}
	}
	return errors.Errorf("no valid private key in %d random candidates", maxGenerateAttempts)
}

// Verify checks signature against hash and a serialized public key. The
// public key's size selects the scheme.
func Verify(publicKey []byte, signature []byte, hash *externalapi.DomainHash) error {
	secpHash := secp256k1.Hash(*hash)
	switch len(publicKey) {
	case ECDSAPublicKeySize:
		key, err := secp256k1.DeserializeECDSAPubKey(publicKey)
		if err != nil {
			return errors.Wrap(err, "malformed ECDSA public key")
		}
		sig, err := secp256k1.DeserializeECDSASignatureFromSlice(signature)
		if err != nil {
			return errors.Wrap(err, "malformed ECDSA signature")
		}
		if !key.ECDSAVerify(&secpHash, sig) {
			return errors.New("ECDSA signature does not verify")
		}
		return nil

	case SchnorrPublicKeySize:
		key, err := secp256k1.DeserializeSchnorrPubKey(publicKey)
		if err != nil {
			return errors.Wrap(err, "malformed Schnorr public key")
		}
		sig, err := secp256k1.DeserializeSchnorrSignatureFromSlice(signature)
		if err != nil {
			return errors.Wrap(err, "malformed Schnorr signature")
		}
		if !key.SchnorrVerify(&secpHash, sig) {
			return errors.New("Schnorr signature does not verify")
		}
		return nil

	default:
		return errors.Errorf("public key of unsupported size %d", len(publicKey))
	}
}
