package externalapi

import (
	"encoding/hex"

	"github.com/pkg/errors"
)

// DomainHashSize of array used to store hashes.
const DomainHashSize = 32

// DomainHash is the domain representation of a double-SHA256 digest. The
// bytes are kept in the order the hash function produced them.
type DomainHash [DomainHashSize]byte

// NewDomainHashFromByteSlice creates a DomainHash from a slice of exactly
// DomainHashSize bytes, in digest order.
func NewDomainHashFromByteSlice(hashBytes []byte) (*DomainHash, error) {
	if len(hashBytes) != DomainHashSize {
		return nil, errors.Errorf("invalid hash size. Want: %d, got: %d",
			DomainHashSize, len(hashBytes))
	}
	var domainHash DomainHash
	copy(domainHash[:], hashBytes)
	return &domainHash, nil
}

// NewDomainHashFromString parses the display form of a hash (see String).
func NewDomainHashFromString(hashString string) (*DomainHash, error) {
	expectedLength := DomainHashSize * 2
	if len(hashString) != expectedLength {
		return nil, errors.Errorf("hash string length is %d, while it should be be %d",
			len(hashString), expectedLength)
	}

	hashBytes, err := hex.DecodeString(hashString)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	for i, j := 0, len(hashBytes)-1; i < j; i, j = i+1, j-1 {
		hashBytes[i], hashBytes[j] = hashBytes[j], hashBytes[i]
	}
	return NewDomainHashFromByteSlice(hashBytes)
}

// String returns the hash in display form: the hex encoding of the digest
// bytes in reverse order.
func (hash DomainHash) String() string {
	reversed := hash
	for i, j := 0, DomainHashSize-1; i < j; i, j = i+1, j-1 {
		reversed[i], reversed[j] = reversed[j], reversed[i]
	}
	return hex.EncodeToString(reversed[:])
}

// ByteSlice returns a copy of the hash bytes in digest order.
func (hash *DomainHash) ByteSlice() []byte {
	clone := *hash
	return clone[:]
}

// IsZero returns whether every byte of the hash is zero.
func (hash *DomainHash) IsZero() bool {
	return *hash == DomainHash{}
}

// Equal returns whether hash equals to other
func (hash *DomainHash) Equal(other *DomainHash) bool {
	if hash == nil || other == nil {
		return hash == other
	}
	return *hash == *other
}
