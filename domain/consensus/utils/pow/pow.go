package pow

import (
	"github.com/kaspanet/chaingen/domain/consensus/model/externalapi"
	"github.com/kaspanet/chaingen/domain/consensus/utils/consensushashing"
	"github.com/kaspanet/chaingen/domain/consensus/utils/difficulty"
	"github.com/kaspanet/chaingen/domain/consensus/utils/hashes"
)

// CheckProofOfWork returns whether the header's hash, read as an unsigned
// number, is strictly below target.
func CheckProofOfWork(header *externalapi.DomainBlockHeader, target difficulty.Target) bool {
	return target.IsMetBy(hashes.ToBig(consensushashing.HeaderHash(header)))
}
