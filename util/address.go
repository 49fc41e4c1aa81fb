// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"github.com/btcsuite/btcutil/base58"
	"github.com/pkg/errors"
	"golang.org/x/crypto/ripemd160"
)

// Address version bytes for pay-to-pubkey-hash addresses.
const (
	MainNetPubKeyHashAddrID byte = 0x00
	TestNetPubKeyHashAddrID byte = 0x6f
)

var (
	// ErrChecksumMismatch describes an error where decoding failed due
	// to a bad checksum.
	ErrChecksumMismatch = errors.New("checksum mismatch")

	// ErrUnknownAddressType describes an error where an address can not
	// decoded as a specific address type due to the string encoding
	// beginning with an identifier byte unknown to any standard or
	// registered network.
	ErrUnknownAddressType = errors.New("unknown address type")
)

// Address is an interface type for any type of destination a transaction
// output may spend to.
type Address interface {
	// String returns the string encoding of the transaction output
	// destination.
	//
	// Please note that String differs subtly from EncodeAddress: String
	// will return the value as a string without any conversion, while
	// EncodeAddress may convert destination types (for example,
	// converting pubkeys to P2PKH addresses) before encoding as a
	// payment address string.
	String() string

	// EncodeAddress returns the string encoding of the payment address
	// associated with the Address value.
	EncodeAddress() string

	// ScriptAddress returns the raw bytes of the address to be used
	// when inserting the address into a txout's script.
	ScriptAddress() []byte

	// NetID returns the version byte the address is encoded with.
	NetID() byte
}

// DecodeAddress decodes the base58check encoding of an address. Only
// pay-to-pubkey-hash addresses of the known networks are accepted.
func DecodeAddress(addr string) (Address, error) {
	decoded, netID, err := base58.CheckDecode(addr)
	if err != nil {
		if errors.Is(err, base58.ErrChecksum) {
			return nil, errors.WithStack(ErrChecksumMismatch)
		}
		return nil, errors.Errorf("decoded address is of unknown format: %s", err)
	}

	switch netID {
	case MainNetPubKeyHashAddrID, TestNetPubKeyHashAddrID:
		return NewAddressPubKeyHash(decoded, netID)
	default:
		return nil, errors.Wrapf(ErrUnknownAddressType, "version byte %#02x", netID)
	}
}

// AddressPubKeyHash is an Address for a pay-to-pubkey-hash (P2PKH)
// transaction.
type AddressPubKeyHash struct {
	netID byte
	hash  [ripemd160.Size]byte
}

// NewAddressPubKeyHash returns a new AddressPubKeyHash. pkHash must be 20
// bytes.
func NewAddressPubKeyHash(pkHash []byte, netID byte) (*AddressPubKeyHash, error) {
	if len(pkHash) != ripemd160.Size {
		return nil, errors.Errorf("pkHash must be %d bytes", ripemd160.Size)
	}

	addr := &AddressPubKeyHash{netID: netID}
	copy(addr.hash[:], pkHash)
	return addr, nil
}

// NewAddressPubKeyHashFromPublicKey returns the address paying to the
// hash160 of a serialized public key.
func NewAddressPubKeyHashFromPublicKey(publicKey []byte, netID byte) (*AddressPubKeyHash, error) {
	return NewAddressPubKeyHash(Hash160(publicKey), netID)
}

// EncodeAddress returns the string encoding of a pay-to-pubkey-hash
// address. Part of the Address interface.
func (a *AddressPubKeyHash) EncodeAddress() string {
	return base58.CheckEncode(a.hash[:], a.netID)
}

// ScriptAddress returns the bytes to be included in a txout script to pay
// to a pubkey hash. Part of the Address interface.
func (a *AddressPubKeyHash) ScriptAddress() []byte {
	return a.hash[:]
}

// NetID returns the version byte of the address. Part of the Address
// interface.
func (a *AddressPubKeyHash) NetID() byte {
	return a.netID
}

// String returns a human-readable string for the pay-to-pubkey-hash address.
// This is equivalent to calling EncodeAddress, but is provided so the type can
// be used as a fmt.Stringer.
func (a *AddressPubKeyHash) String() string {
	return a.EncodeAddress()
}

// Hash160 returns the underlying array of the pubkey hash. This can be useful
// when an array is more appropriate than a slice (for example, when used as map
// keys).
func (a *AddressPubKeyHash) Hash160() *[ripemd160.Size]byte {
	return &a.hash
}
