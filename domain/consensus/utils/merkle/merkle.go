package merkle

import (
	"github.com/kaspanet/chaingen/domain/consensus/model/externalapi"
	"github.com/kaspanet/chaingen/domain/consensus/utils/consensushashing"
	"github.com/kaspanet/chaingen/domain/consensus/utils/hashes"
	"github.com/pkg/errors"
)

// ErrNoHashes is returned when a merkle root is requested for an empty list.
var ErrNoHashes = errors.New("cannot calculate the merkle root of an empty list")

// hashMerkleBranches takes two hashes, treated as the left and right tree
// nodes, and returns the double hash of their concatenation.
func hashMerkleBranches(left, right *externalapi.DomainHash) *externalapi.DomainHash {
	writer := hashes.NewDoubleHashWriter()
	writer.InfallibleWrite(left[:])
	writer.InfallibleWrite(right[:])
	return writer.Finalize()
}

// CalculateHashMerkleRoot returns the merkle root of the IDs of the given
// transactions, in order.
func CalculateHashMerkleRoot(transactions []*externalapi.DomainTransaction) (*externalapi.DomainHash, error) {
	return CalculateMerkleRoot(consensushashing.TransactionIDs(transactions))
}

// CalculateMerkleRoot reduces a level of hashes pairwise until a single hash
// remains. A level with an odd count pairs its last hash with itself. A
// single hash is its own root.
func CalculateMerkleRoot(leaves []*externalapi.DomainHash) (*externalapi.DomainHash, error) {
	if len(leaves) == 0 {
		return nil, errors.WithStack(ErrNoHashes)
	}

	level := make([]*externalapi.DomainHash, len(leaves))
	copy(level, leaves)
	for len(level) > 1 {
		if len(level)%2 != 0 {
			level = append(level, level[len(level)-1])
		}
		next := make([]*externalapi.DomainHash, len(level)/2)
		for i := range next {
			next[i] = hashMerkleBranches(level[2*i], level[2*i+1])
		}
		level = next
	}
	return level[0], nil
}
