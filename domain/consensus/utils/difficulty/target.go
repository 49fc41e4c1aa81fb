package difficulty

import (
	"encoding/hex"
	"math/big"

	"github.com/kaspanet/chaingen/domain/consensus/ruleerrors"
	"github.com/pkg/errors"
)

// TargetSize is the size in bytes of a big-endian target.
const TargetSize = 32

var maxTargetExclusive = new(big.Int).Lsh(big.NewInt(1), 8*TargetSize)

// Target is a resolved difficulty target: a block qualifies when its hash,
// read as an unsigned number, is strictly below it.
type Target struct {
	value *big.Int
}

// TargetFromBig returns a Target for the given number. It must be positive
// and fit in 256 bits.
func TargetFromBig(value *big.Int) (Target, error) {
	if value == nil || value.Sign() <= 0 {
		return Target{}, errors.Wrapf(ruleerrors.ErrInvalidTarget, "target must be positive, got %v", value)
	}
	if value.Cmp(maxTargetExclusive) >= 0 {
		return Target{}, errors.Wrapf(ruleerrors.ErrInvalidTarget, "target %x does not fit in %d bytes",
			value, TargetSize)
	}
	return Target{value: new(big.Int).Set(value)}, nil
}

// TargetFromBytes returns a Target for a 32-byte big-endian value.
func TargetFromBytes(targetBytes []byte) (Target, error) {
	if len(targetBytes) != TargetSize {
		return Target{}, errors.Wrapf(ruleerrors.ErrInvalidTarget, "target must be %d bytes, got %d",
			TargetSize, len(targetBytes))
	}
	return TargetFromBig(new(big.Int).SetBytes(targetBytes))
}

// TargetFromHex returns a Target for a hex encoded 32-byte big-endian value.
func TargetFromHex(targetHex string) (Target, error) {
	targetBytes, err := hex.DecodeString(targetHex)
	if err != nil {
		return Target{}, errors.Wrapf(ruleerrors.ErrInvalidTarget, "malformed target %q: %s", targetHex, err)
	}
	return TargetFromBytes(targetBytes)
}

// TargetFromCompact returns the Target encoded by compact bits.
func TargetFromCompact(bits uint32) (Target, error) {
	return TargetFromBig(CompactToBig(bits))
}

// Big returns a copy of the target as a big.Int.
func (t Target) Big() *big.Int {
	if t.value == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(t.value)
}

// Bits returns the compact encoding of the target. The encoding keeps only
// the 23 most significant bits of precision.
func (t Target) Bits() uint32 {
	return BigToCompact(t.Big())
}

// IsZero returns whether t is the zero Target, which is never a valid target.
func (t Target) IsZero() bool {
	return t.value == nil || t.value.Sign() == 0
}

// IsMetBy returns whether a number is strictly below the target.
func (t Target) IsMetBy(n *big.Int) bool {
	return t.value != nil && n.Cmp(t.value) < 0
}

func (t Target) String() string {
	return hex.EncodeToString(t.Big().FillBytes(make([]byte, TargetSize)))
}
