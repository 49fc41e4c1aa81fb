package bip32

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha512"
	"hash"

	"github.com/kaspanet/chaingen/domain/consensus/utils/hashes"
	"github.com/kaspanet/chaingen/util"
	"github.com/pkg/errors"
)

func newHMACWriter(key []byte) hmacWriter {
	return hmacWriter{
		Hash: hmac.New(sha512.New, key),
	}
}

type hmacWriter struct {
	hash.Hash
}

func (hw hmacWriter) InfallibleWrite(p []byte) {
	_, err := hw.Write(p)
	if err != nil {
		panic(errors.Wrap(err, "writing to hmac should never fail"))
	}
}

func hash160(data []byte) []byte {
	return util.Hash160(data)
}

func calcChecksum(data []byte) []byte {
	checksum := hashes.DoubleHash(data)
	return checksum[:checkSumLen]
}

func validateChecksum(data []byte) error {
	checksum := data[len(data)-checkSumLen:]
	expectedChecksum := calcChecksum(data[:len(data)-checkSumLen])
	if !bytes.Equal(expectedChecksum, checksum) {
		return errors.Errorf("expected checksum %x but got %x", expectedChecksum, checksum)
	}

	return nil
}
