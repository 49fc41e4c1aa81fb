package consensushashing

import (
	"github.com/kaspanet/chaingen/domain/consensus/model/externalapi"
	"github.com/kaspanet/chaingen/domain/consensus/utils/hashes"
	"github.com/kaspanet/chaingen/domain/consensus/utils/serialization"
	"github.com/pkg/errors"
)

// TransactionID returns the double hash of the transaction's wire encoding.
// It is both the identifier spending inputs refer to and the merkle leaf.
func TransactionID(tx *externalapi.DomainTransaction) *externalapi.DomainHash {
	writer := hashes.NewDoubleHashWriter()
	err := serialization.WriteTransaction(writer, tx)
	if err != nil {
		// It seems like this could only happen if the writer returned an error.
		// and this writer should never return an error (no allocations or possible failures)
		panic(errors.Wrap(err, "TransactionID() failed. this should never fail for structurally-valid transactions"))
	}
	return writer.Finalize()
}

// TransactionIDs returns the IDs of the given transactions, in order.
func TransactionIDs(txs []*externalapi.DomainTransaction) []*externalapi.DomainHash {
	ids := make([]*externalapi.DomainHash, len(txs))
	for i, tx := range txs {
		ids[i] = TransactionID(tx)
	}
	return ids
}
