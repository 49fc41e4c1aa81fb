// Package binaryserializer reads and writes the fixed-width little-endian
// integers of the wire format.
package binaryserializer

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

func read(r io.Reader, buf []byte) error {
	_, err := io.ReadFull(r, buf)
	return errors.WithStack(err)
}

func write(w io.Writer, buf []byte) error {
	_, err := w.Write(buf)
	return errors.WithStack(err)
}

// Uint8 reads a single byte from r.
func Uint8(r io.Reader) (uint8, error) {
	var buf [1]byte
	if err := read(r, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// Uint16 reads a little-endian uint16 from r.
func Uint16(r io.Reader) (uint16, error) {
	var buf [2]byte
	if err := read(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(buf[:]), nil
}

// Uint32 reads a little-endian uint32 from r.
func Uint32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if err := read(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// Uint64 reads a little-endian uint64 from r.
func Uint64(r io.Reader) (uint64, error) {
	var buf [8]byte
	if err := read(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// PutUint8 writes a single byte to w.
func PutUint8(w io.Writer, val uint8) error {
	return write(w, []byte{val})
}

// PutUint16 writes val to w as a little-endian uint16.
func PutUint16(w io.Writer, val uint16) error {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], val)
	return write(w, buf[:])
}

// PutUint32 writes val to w as a little-endian uint32.
func PutUint32(w io.Writer, val uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], val)
	return write(w, buf[:])
}

// PutUint64 writes val to w as a little-endian uint64.
func PutUint64(w io.Writer, val uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], val)
	return write(w, buf[:])
}
