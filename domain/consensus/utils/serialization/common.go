package serialization

import (
	"io"
	"math"

	"github.com/kaspanet/chaingen/domain/consensus/model/externalapi"
	"github.com/kaspanet/chaingen/util/binaryserializer"
	"github.com/pkg/errors"
)

// errNoEncodingForType signifies that there's no encoding for the given type.
var errNoEncodingForType = errors.New("there's no encoding for this type")

var errMalformed = errors.New("errMalformed")

// MaxScriptSize bounds the length of a script read from the wire, so a
// corrupt length prefix can't trigger a huge allocation.
const MaxScriptSize = 10_000

// WriteElement writes the little endian representation of element to w.
func WriteElement(w io.Writer, element interface{}) error {
	switch e := element.(type) {
	case uint8:
		return binaryserializer.PutUint8(w, e)

	case uint32:
		return binaryserializer.PutUint32(w, e)

	case int32:
		return binaryserializer.PutUint32(w, uint32(e))

	case uint64:
		return binaryserializer.PutUint64(w, e)

	case externalapi.DomainHash:
		_, err := w.Write(e[:])
		return errors.WithStack(err)

	case *externalapi.DomainHash:
		_, err := w.Write(e[:])
		return errors.WithStack(err)
	}

	return errors.Wrapf(errNoEncodingForType, "couldn't find a way to write type %T", element)
}

// WriteElements writes multiple items to w. It is equivalent to multiple
// calls to WriteElement.
func WriteElements(w io.Writer, elements ...interface{}) error {
	for _, element := range elements {
		err := WriteElement(w, element)
		if err != nil {
			return err
		}
	}
	return nil
}

// ReadElement reads the next sequence of bytes from r using little endian
// depending on the concrete type of element pointed to.
func ReadElement(r io.Reader, element interface{}) error {
	switch e := element.(type) {
	case *uint8:
		rv, err := binaryserializer.Uint8(r)
		if err != nil {
			return err
		}
		*e = rv
		return nil

	case *uint32:
		rv, err := binaryserializer.Uint32(r)
		if err != nil {
			return err
		}
		*e = rv
		return nil

	case *int32:
		rv, err := binaryserializer.Uint32(r)
		if err != nil {
			return err
		}
		*e = int32(rv)
		return nil

	case *uint64:
		rv, err := binaryserializer.Uint64(r)
		if err != nil {
			return err
		}
		*e = rv
		return nil

	case *externalapi.DomainHash:
		_, err := io.ReadFull(r, e[:])
		return errors.WithStack(err)
	}

	return errors.Wrapf(errNoEncodingForType, "couldn't find a way to read type %T", element)
}

// ReadElements reads multiple items from r. It is equivalent to multiple
// calls to ReadElement.
func ReadElements(r io.Reader, elements ...interface{}) error {
	for _, element := range elements {
		err := ReadElement(r, element)
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteVarInt serializes val to w using the CompactSize encoding: one byte
// below 0xfd, otherwise a 0xfd/0xfe/0xff marker followed by 2, 4 or 8 bytes.
func WriteVarInt(w io.Writer, val uint64) error {
	switch {
	case val < 0xfd:
		return binaryserializer.PutUint8(w, uint8(val))

	case val <= math.MaxUint16:
		err := binaryserializer.PutUint8(w, 0xfd)
		if err != nil {
			return err
		}
		return binaryserializer.PutUint16(w, uint16(val))

	case val <= math.MaxUint32:
		err := binaryserializer.PutUint8(w, 0xfe)
		if err != nil {
			return err
		}
		return binaryserializer.PutUint32(w, uint32(val))

	default:
		err := binaryserializer.PutUint8(w, 0xff)
		if err != nil {
			return err
		}
		return binaryserializer.PutUint64(w, val)
	}
}

// ReadVarInt reads a CompactSize encoded integer from r. Encodings that could
// have used fewer bytes are rejected as malformed.
func ReadVarInt(r io.Reader) (uint64, error) {
	discriminant, err := binaryserializer.Uint8(r)
	if err != nil {
		return 0, err
	}

	var rv, min uint64
	switch discriminant {
	case 0xff:
		rv, err = binaryserializer.Uint64(r)
		min = 0x100000000

	case 0xfe:
		var sv uint32
		sv, err = binaryserializer.Uint32(r)
		rv, min = uint64(sv), 0x10000

	case 0xfd:
		var sv uint16
		sv, err = binaryserializer.Uint16(r)
		rv, min = uint64(sv), 0xfd

	default:
		return uint64(discriminant), nil
	}
	if err != nil {
		return 0, err
	}
	if rv < min {
		return 0, errors.Wrapf(errMalformed, "non-canonical varint %x - discriminant %x must "+
			"encode a value greater than %x", rv, discriminant, min)
	}
	return rv, nil
}

// WriteVarBytes writes a CompactSize length prefix followed by bytes.
func WriteVarBytes(w io.Writer, bytes []byte) error {
	err := WriteVarInt(w, uint64(len(bytes)))
	if err != nil {
		return err
	}
	_, err = w.Write(bytes)
	return errors.WithStack(err)
}

// ReadVarBytes reads a length-prefixed byte slice of at most maxAllowed
// bytes. fieldName is only used in error messages.
func ReadVarBytes(r io.Reader, maxAllowed uint64, fieldName string) ([]byte, error) {
	count, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	if count > maxAllowed {
		return nil, errors.Wrapf(errMalformed, "%s is larger than the max allowed size "+
			"[count %d, max %d]", fieldName, count, maxAllowed)
	}

	bytes := make([]byte, count)
	_, err = io.ReadFull(r, bytes)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return bytes, nil
}

// IsMalformedError returns whether the error indicates a malformed data source
func IsMalformedError(err error) bool {
	return errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) || errors.Is(err, errMalformed)
}
