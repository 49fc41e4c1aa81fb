package serialization

import (
	"bytes"
	"io"

	"github.com/kaspanet/chaingen/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

// HeaderSize is the size of a serialized block header:
// version 4, previous hash 32, merkle root 32, timestamp 4, bits 4, nonce 4.
const HeaderSize = 80

const maxTransactionsPerBlock = 1_000_000

// SerializeHeader returns the fixed-size wire encoding of header.
func SerializeHeader(header *externalapi.DomainBlockHeader) []byte {
	buf := bytes.NewBuffer(make([]byte, 0, HeaderSize))
	err := WriteHeader(buf, header)
	if err != nil {
		// bytes.Buffer writes never fail and every header field has an encoding.
		panic(errors.Wrap(err, "this should never happen. Header serialization into a buffer failed"))
	}
	return buf.Bytes()
}

// WriteHeader writes the wire encoding of header to w.
func WriteHeader(w io.Writer, header *externalapi.DomainBlockHeader) error {
	return WriteElements(w, header.Version, &header.PreviousBlockHash, &header.MerkleRoot,
		header.Timestamp, header.Bits, header.Nonce)
}

// ReadHeader reads a wire-encoded block header from r.
func ReadHeader(r io.Reader) (*externalapi.DomainBlockHeader, error) {
	header := &externalapi.DomainBlockHeader{}
	err := ReadElements(r, &header.Version, &header.PreviousBlockHash, &header.MerkleRoot,
		&header.Timestamp, &header.Bits, &header.Nonce)
	if err != nil {
		return nil, err
	}
	return header, nil
}

// SerializeBlock returns the wire encoding of block: its header followed by
// the transaction count and the transactions.
func SerializeBlock(block *externalapi.DomainBlock) ([]byte, error) {
	buf := &bytes.Buffer{}
	err := WriteHeader(buf, block.Header)
	if err != nil {
		return nil, err
	}
	err = WriteVarInt(buf, uint64(len(block.Transactions)))
	if err != nil {
		return nil, err
	}
	for _, tx := range block.Transactions {
		err = WriteTransaction(buf, tx)
		if err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// DeserializeBlock decodes a block from its wire encoding. Trailing bytes
// are an error.
func DeserializeBlock(serialized []byte) (*externalapi.DomainBlock, error) {
	r := bytes.NewReader(serialized)
	header, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}

	txCount, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	if txCount > maxTransactionsPerBlock {
		return nil, errors.Wrapf(errMalformed, "too many transactions to fit into a block "+
			"[count %d, max %d]", txCount, maxTransactionsPerBlock)
	}

	block := &externalapi.DomainBlock{
		Header:       header,
		Transactions: make([]*externalapi.DomainTransaction, txCount),
	}
	for i := range block.Transactions {
		block.Transactions[i], err = ReadTransaction(r)
		if err != nil {
			return nil, err
		}
	}
	if r.Len() != 0 {
		return nil, errors.Wrapf(errMalformed, "%d trailing bytes after block", r.Len())
	}
	return block, nil
}
