package hashes

import (
	"crypto/sha256"
	"hash"

	"github.com/kaspanet/chaingen/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

// HashWriter is used to incrementally hash data without concatenating all of the data to a single buffer
// it exposes an io.Writer api and a Finalize function to get the resulting hash.
// The hash function is SHA-256 applied twice.
type HashWriter struct {
	hash.Hash
}

// NewDoubleHashWriter returns a writer computing SHA-256(SHA-256(data)),
// used for block hashes, transaction hashes, merkle nodes and signature hashes.
func NewDoubleHashWriter() HashWriter {
	return HashWriter{sha256.New()}
}

// InfallibleWrite is just like write but doesn't return anything
func (h HashWriter) InfallibleWrite(p []byte) {
	// This write can never return an error, this is part of the hash.Hash interface contract.
	_, err := h.Write(p)
	if err != nil {
		panic(errors.Wrap(err, "this should never happen. hash.Hash interface promises to not return errors."))
	}
}

// Finalize returns the double hash of everything written so far
func (h HashWriter) Finalize() *externalapi.DomainHash {
	firstPass := h.Sum(nil)
	result := externalapi.DomainHash(sha256.Sum256(firstPass))
	return &result
}

// DoubleHash returns SHA-256(SHA-256(data)).
func DoubleHash(data []byte) *externalapi.DomainHash {
	writer := NewDoubleHashWriter()
	writer.InfallibleWrite(data)
	return writer.Finalize()
}
