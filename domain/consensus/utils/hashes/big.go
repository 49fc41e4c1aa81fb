package hashes

import (
	"math/big"

	"github.com/kaspanet/chaingen/domain/consensus/model/externalapi"
)

// ToBig converts a hash into a big.Int that can be used to perform math
// comparisons. The digest bytes are read as a little-endian number, so the
// display form of the hash reads as the number in big-endian.
func ToBig(hash *externalapi.DomainHash) *big.Int {
	buf := hash.ByteSlice()
	blen := len(buf)
	for i := 0; i < blen/2; i++ {
		buf[i], buf[blen-1-i] = buf[blen-1-i], buf[i]
	}

	return new(big.Int).SetBytes(buf)
}

// Less returns true iff hash a is numerically less than hash b
func Less(a, b *externalapi.DomainHash) bool {
	return ToBig(a).Cmp(ToBig(b)) < 0
}
