package consensushashing_test

import (
	"testing"

	"github.com/kaspanet/chaingen/domain/consensus/model/externalapi"
	"github.com/kaspanet/chaingen/domain/consensus/utils/consensushashing"
	"github.com/kaspanet/chaingen/domain/consensus/utils/testutils"
)

func TestTransactionID(t *testing.T) {
	tx := testutils.GenesisCoinbaseTx()
	id := consensushashing.TransactionID(tx)
	if id.String() != testutils.GenesisCoinbaseTxID {
		t.Fatalf("TransactionID: expected %s but got %s", testutils.GenesisCoinbaseTxID, id)
	}

	// Changing any field changes the ID
	modified := tx.Clone()
	modified.LockTime = 1
	if consensushashing.TransactionID(modified).Equal(id) {
		t.Fatalf("TransactionID: lock time change did not change the ID")
	}

	ids := consensushashing.TransactionIDs([]*externalapi.DomainTransaction{tx, modified})
	if len(ids) != 2 || !ids[0].Equal(id) || ids[1].Equal(id) {
		t.Fatalf("TransactionIDs: unexpected result %v", ids)
	}
}

func TestBlockHash(t *testing.T) {
	block := testutils.GenesisBlock()
	hash := consensushashing.BlockHash(block)
	if hash.String() != testutils.GenesisBlockHash {
		t.Fatalf("BlockHash: expected %s but got %s", testutils.GenesisBlockHash, hash)
	}

	// Transactions only take part through the merkle root
	block.Transactions = nil
	if !consensushashing.BlockHash(block).Equal(hash) {
		t.Fatalf("BlockHash: hash depends on the transaction list")
	}

	block.Header.Nonce++
	if consensushashing.HeaderHash(block.Header).Equal(hash) {
		t.Fatalf("HeaderHash: nonce change did not change the hash")
	}
}
