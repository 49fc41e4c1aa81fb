package externalapi

import (
	"testing"
)

func initTestTransaction() *DomainTransaction {
	return &DomainTransaction{
		Version: 1,
		Inputs: []*DomainTransactionInput{{
			PreviousOutpoint: DomainOutpoint{TransactionID: DomainHash{0x01}, Index: 2},
			SignatureScript:  []byte{1, 2, 3},
			Sequence:         MaxTxInSequenceNum,
		}},
		Outputs: []*DomainTransactionOutput{{
			Value:           100,
			ScriptPublicKey: []byte{0x76, 0xa9},
		}},
		LockTime: 5,
	}
}

func TestDomainTransaction_Equal(t *testing.T) {
	tests := []struct {
		name           string
		mutate         func(tx *DomainTransaction)
		expectedResult bool
	}{
		{"unchanged", func(tx *DomainTransaction) {}, true},
		{"version", func(tx *DomainTransaction) { tx.Version = 2 }, false},
		{"lock time", func(tx *DomainTransaction) { tx.LockTime = 6 }, false},
		{"outpoint index", func(tx *DomainTransaction) { tx.Inputs[0].PreviousOutpoint.Index = 3 }, false},
		{"outpoint id", func(tx *DomainTransaction) { tx.Inputs[0].PreviousOutpoint.TransactionID[31] = 1 }, false},
		{"signature script", func(tx *DomainTransaction) { tx.Inputs[0].SignatureScript[0] = 9 }, false},
		{"sequence", func(tx *DomainTransaction) { tx.Inputs[0].Sequence = 0 }, false},
		{"value", func(tx *DomainTransaction) { tx.Outputs[0].Value = 101 }, false},
		{"script", func(tx *DomainTransaction) { tx.Outputs[0].ScriptPublicKey = nil }, false},
		{"extra output", func(tx *DomainTransaction) {
			tx.Outputs = append(tx.Outputs, &DomainTransactionOutput{Value: 1})
		}, false},
	}

	for _, test := range tests {
		base := initTestTransaction()
		other := initTestTransaction()
		test.mutate(other)
		if result := base.Equal(other); result != test.expectedResult {
			t.Errorf("%s: Equal returned %t, want %t", test.name, result, test.expectedResult)
		}
	}

	var nilTx *DomainTransaction
	if !nilTx.Equal(nil) {
		t.Errorf("nil transactions should be equal")
	}
	if nilTx.Equal(initTestTransaction()) {
		t.Errorf("nil transaction should not equal a non-nil one")
	}
}

func TestDomainTransaction_Clone(t *testing.T) {
	tx := initTestTransaction()
	clone := tx.Clone()
	if !tx.Equal(clone) {
		t.Fatalf("Clone is not equal to the original")
	}
	clone.Inputs[0].SignatureScript[0] = 0xff
	clone.Outputs[0].ScriptPublicKey[0] = 0xff
	if tx.Inputs[0].SignatureScript[0] == 0xff || tx.Outputs[0].ScriptPublicKey[0] == 0xff {
		t.Fatalf("mutating the clone changed the original")
	}
}

func TestDomainBlock_EqualAndClone(t *testing.T) {
	block := &DomainBlock{
		Header: &DomainBlockHeader{
			Version:           1,
			PreviousBlockHash: DomainHash{1},
			MerkleRoot:        DomainHash{2},
			Timestamp:         1231006505,
			Bits:              0x1d00ffff,
			Nonce:             2083236893,
		},
		Transactions: []*DomainTransaction{initTestTransaction()},
	}
	clone := block.Clone()
	if !block.Equal(clone) {
		t.Fatalf("Clone is not equal to the original")
	}
	clone.Header.Nonce++
	if block.Equal(clone) {
		t.Fatalf("blocks with different nonces should not be equal")
	}
	if block.Header.Nonce != 2083236893 {
		t.Fatalf("mutating the cloned header changed the original")
	}
}

func TestDomainHashString(t *testing.T) {
	const genesisHash = "000000000019d6689c085ae165831e934ff763ae46a2a6c172b3f1b60a8ce26f"
	hash, err := NewDomainHashFromString(genesisHash)
	if err != nil {
		t.Fatalf("NewDomainHashFromString: %s", err)
	}
	if hash[0] != 0x6f || hash[31] != 0x00 {
		t.Errorf("hash bytes are not in digest order: %x", hash[:])
	}
	if hash.String() != genesisHash {
		t.Errorf("String: got %s, want %s", hash, genesisHash)
	}

	if _, err := NewDomainHashFromString("00"); err == nil {
		t.Errorf("expected an error for a short hash string")
	}
	if _, err := NewDomainHashFromByteSlice(make([]byte, 31)); err == nil {
		t.Errorf("expected an error for a short hash slice")
	}
}

func TestOutpointIsNull(t *testing.T) {
	if !(DomainOutpoint{Index: MaxPrevOutIndex}).IsNull() {
		t.Errorf("zero hash with max index should be null")
	}
	if (DomainOutpoint{Index: 0}).IsNull() {
		t.Errorf("index 0 should not be null")
	}
	if (DomainOutpoint{TransactionID: DomainHash{1}, Index: MaxPrevOutIndex}).IsNull() {
		t.Errorf("non-zero hash should not be null")
	}
}
