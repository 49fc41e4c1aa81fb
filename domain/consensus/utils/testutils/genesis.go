package testutils

import (
	"encoding/hex"

	"github.com/kaspanet/chaingen/domain/consensus/model/externalapi"
)

// GenesisCoinbaseTxHex is the wire encoding of the coinbase transaction of
// the bitcoin main network genesis block.
const GenesisCoinbaseTxHex = "01000000010000000000000000000000000000000000000000000000000000000000000000ffffffff" +
	"4d04ffff001d0104455468652054696d65732030332f4a616e2f32303039204368616e63656c6c6f72206f" +
	"6e206272696e6b206f66207365636f6e64206261696c6f757420666f722062616e6b73ffffffff0100f205" +
	"2a01000000434104678afdb0fe5548271967f1a67130b7105cd6a828e03909a67962e0ea1f61deb649f6bc" +
	"3f4cef38c4f35504e51ec112de5c384df7ba0b8d578a4c702b6bf11d5fac00000000"

// GenesisCoinbaseTxID is the display form of the genesis coinbase hash,
// which is also the genesis merkle root.
const GenesisCoinbaseTxID = "4a5e1e4baab89f3a32518a88c31bc87f618f76673e2cc77ab2127b7afdeda33b"

// GenesisBlockHash is the display form of the genesis block hash.
const GenesisBlockHash = "000000000019d6689c085ae165831e934ff763ae46a2a6c172b3f1b60a8ce26f"

// GenesisBits is the compact target of the genesis block.
const GenesisBits = 0x1d00ffff

func mustDecodeHex(s string) []byte {
	decoded, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return decoded
}

func mustHashFromString(s string) externalapi.DomainHash {
	hash, err := externalapi.NewDomainHashFromString(s)
	if err != nil {
		panic(err)
	}
	return *hash
}

// GenesisCoinbaseTx returns a fresh copy of the genesis coinbase transaction.
func GenesisCoinbaseTx() *externalapi.DomainTransaction {
	return &externalapi.DomainTransaction{
		Version: 1,
		Inputs: []*externalapi.DomainTransactionInput{{
			PreviousOutpoint: externalapi.DomainOutpoint{Index: externalapi.MaxPrevOutIndex},
			SignatureScript: mustDecodeHex("04ffff001d0104455468652054696d65732030332f4a616e2f32303039204368616e" +
				"63656c6c6f72206f6e206272696e6b206f66207365636f6e64206261696c6f757420666f722062616e6b73"),
			Sequence: externalapi.MaxTxInSequenceNum,
		}},
		Outputs: []*externalapi.DomainTransactionOutput{{
			Value: 5_000_000_000,
			ScriptPublicKey: mustDecodeHex("4104678afdb0fe5548271967f1a67130b7105cd6a828e03909a67962e0ea1f61deb6" +
				"49f6bc3f4cef38c4f35504e51ec112de5c384df7ba0b8d578a4c702b6bf11d5fac"),
		}},
		LockTime: 0,
	}
}

// GenesisBlock returns a fresh copy of the bitcoin main network genesis block.
func GenesisBlock() *externalapi.DomainBlock {
	return &externalapi.DomainBlock{
		Header: &externalapi.DomainBlockHeader{
			Version:    1,
			MerkleRoot: mustHashFromString(GenesisCoinbaseTxID),
			Timestamp:  1231006505,
			Bits:       GenesisBits,
			Nonce:      2083236893,
		},
		Transactions: []*externalapi.DomainTransaction{GenesisCoinbaseTx()},
	}
}
