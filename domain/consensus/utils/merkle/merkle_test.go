package merkle

import (
	"testing"

	"github.com/kaspanet/chaingen/domain/consensus/model/externalapi"
	"github.com/kaspanet/chaingen/domain/consensus/utils/consensushashing"
	"github.com/kaspanet/chaingen/domain/consensus/utils/testutils"
	"github.com/pkg/errors"
)

func hashesFromStrings(t *testing.T, strs ...string) []*externalapi.DomainHash {
	result := make([]*externalapi.DomainHash, len(strs))
	for i, str := range strs {
		hash, err := externalapi.NewDomainHashFromString(str)
		if err != nil {
			t.Fatalf("NewDomainHashFromString(%s): %+v", str, err)
		}
		result[i] = hash
	}
	return result
}

// TestMerkleBlock100000 checks the root of the four transactions of block
// 100000 of the bitcoin main network.
func TestMerkleBlock100000(t *testing.T) {
	leaves := hashesFromStrings(t,
		"8c14f0db3df150123e6f3dbbf30f8b955a8249b62ac1d1ff16284aefa3d06d87",
		"fff2525b8931402dd09222c50775608f75787bd2b87e56995a7bdd30f79702c4",
		"6359f0868171b1d194cbee1af2f16ea598ae8fad666d9b012c8ed2b79a236ec4",
		"e9a66845e05d5abc0ad04ec80f774a7e585c6e8db975962d069a522137b80c1d",
	)
	want := "f3e94742aca4b5ef85488dc37c06c3282295ffec960994b2c0d5ac2a25a95766"

	root, err := CalculateMerkleRoot(leaves)
	if err != nil {
		t.Fatalf("CalculateMerkleRoot: %+v", err)
	}
	if root.String() != want {
		t.Errorf("CalculateMerkleRoot: merkle root mismatch - got %s, want %s", root, want)
	}

	again, err := CalculateMerkleRoot(leaves)
	if err != nil {
		t.Fatalf("CalculateMerkleRoot: %+v", err)
	}
	if !again.Equal(root) {
		t.Errorf("CalculateMerkleRoot is not deterministic")
	}
}

func filledHash(b byte) *externalapi.DomainHash {
	hash := &externalapi.DomainHash{}
	for i := range hash {
		hash[i] = b
	}
	return hash
}

func TestMerkleOddLevel(t *testing.T) {
	leaves := []*externalapi.DomainHash{filledHash(1), filledHash(2), filledHash(3)}

	want := "acbd47d5022a6c5e954ad677df8ec221c893f871889826df53f0f1ad3f023e22"
	root, err := CalculateMerkleRoot(leaves)
	if err != nil {
		t.Fatalf("CalculateMerkleRoot: %+v", err)
	}
	if root.String() != want {
		t.Errorf("CalculateMerkleRoot: merkle root mismatch - got %s, want %s", root, want)
	}
	if len(leaves) != 3 {
		t.Errorf("CalculateMerkleRoot modified its input")
	}
}

func TestMerkleSingleTransaction(t *testing.T) {
	tx := testutils.GenesisCoinbaseTx()
	root, err := CalculateHashMerkleRoot([]*externalapi.DomainTransaction{tx})
	if err != nil {
		t.Fatalf("CalculateHashMerkleRoot: %+v", err)
	}
	if !root.Equal(consensushashing.TransactionID(tx)) {
		t.Errorf("single transaction merkle root %s is not the transaction's ID", root)
	}
	if root.String() != testutils.GenesisCoinbaseTxID {
		t.Errorf("unexpected genesis merkle root %s", root)
	}
}

func TestMerkleEmpty(t *testing.T) {
	_, err := CalculateHashMerkleRoot(nil)
	if !errors.Is(err, ErrNoHashes) {
		t.Fatalf("CalculateHashMerkleRoot: expected ErrNoHashes but got %v", err)
	}
}
