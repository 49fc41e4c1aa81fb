package consensushashing

import (
	"github.com/kaspanet/chaingen/domain/consensus/model/externalapi"
	"github.com/kaspanet/chaingen/domain/consensus/utils/hashes"
	"github.com/kaspanet/chaingen/domain/consensus/utils/serialization"
)

// BlockHash returns the given block's hash
func BlockHash(block *externalapi.DomainBlock) *externalapi.DomainHash {
	return HeaderHash(block.Header)
}

// HeaderHash returns the double hash of the fixed-size header encoding. The
// transaction list does not take part in it other than via the merkle root.
func HeaderHash(header *externalapi.DomainBlockHeader) *externalapi.DomainHash {
	return hashes.DoubleHash(serialization.SerializeHeader(header))
}
