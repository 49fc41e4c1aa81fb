// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorCode identifies a kind of script error.
type ErrorCode int

// These constants are used to identify a specific Error.
const (
	// ErrInternal is returned if internal consistency checks fail. In
	// practice this error should never be seen as it would mean there is an
	// error in the engine logic.
	ErrInternal ErrorCode = iota

	// ErrUnsupportedAddress is returned when a concrete type that
	// implements a util.Address is not a supported type.
	ErrUnsupportedAddress

	// ErrTooManyRequiredSigs is returned from MultiSigScript when the
	// specified number of required signatures is larger than the number of
	// provided public keys.
	ErrTooManyRequiredSigs

	// ErrTooManyPubKeys is returned from MultiSigScript when more public
	// keys are given than a standard multisig script can hold.
	ErrTooManyPubKeys

	// ErrNotMultisigScript is returned from CalcMultiSigStats when the
	// provided script is not a multisig script.
	ErrNotMultisigScript

	// ErrTooMuchNullData is returned from NullDataScript when the length of
	// the provided data exceeds MaxDataCarrierSize.
	ErrTooMuchNullData

	// ErrMalformedPush is returned when a data push opcode tries to push
	// more bytes than are left in the script.
	ErrMalformedPush

	// ErrScriptTooBig is returned if a script is larger than MaxScriptSize.
	ErrScriptTooBig

	// ErrElementTooBig is returned if the size of an element to be pushed
	// to the stack is over MaxScriptElementSize.
	ErrElementTooBig

	// ErrNonStandardScript is returned when a script being signed or
	// verified is not one of the standard templates.
	ErrNonStandardScript

	// ErrSignatureScriptMismatch is returned when a signature script does
	// not have the shape the spent script's class requires.
	ErrSignatureScriptMismatch

	// ErrPubKeyMismatch is returned when the public key in a signature
	// script doesn't hash to the public key hash of the spent script.
	ErrPubKeyMismatch

	// ErrInvalidSigHashType is returned when a signature's hash type byte
	// is not one of the supported hash types.
	ErrInvalidSigHashType

	// ErrEvalFalse is returned when a signature check fails.
	ErrEvalFalse

	// ErrNoMatchingKey is returned when signing with a key that the spent
	// script doesn't pay to.
	ErrNoMatchingKey

	// numErrorCodes is the maximum error code number used in tests. This
	// entry MUST be the last entry in the enum.
	numErrorCodes
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrInternal:                "ErrInternal",
	ErrUnsupportedAddress:      "ErrUnsupportedAddress",
	ErrTooManyRequiredSigs:     "ErrTooManyRequiredSigs",
	ErrTooManyPubKeys:          "ErrTooManyPubKeys",
	ErrNotMultisigScript:       "ErrNotMultisigScript",
	ErrTooMuchNullData:         "ErrTooMuchNullData",
	ErrMalformedPush:           "ErrMalformedPush",
	ErrScriptTooBig:            "ErrScriptTooBig",
	ErrElementTooBig:           "ErrElementTooBig",
	ErrNonStandardScript:       "ErrNonStandardScript",
	ErrSignatureScriptMismatch: "ErrSignatureScriptMismatch",
	ErrPubKeyMismatch:          "ErrPubKeyMismatch",
	ErrInvalidSigHashType:      "ErrInvalidSigHashType",
	ErrEvalFalse:               "ErrEvalFalse",
	ErrNoMatchingKey:           "ErrNoMatchingKey",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// Error identifies a script-related error. It is used to indicate three
// classes of errors:
// 1) Script execution failures due to violating one of the many requirements
//    imposed by the script engine or evaluating to false
// 2) Improper API usage by callers
// 3) Internal consistency check failures
//
// The caller can use type assertions on the returned errors to access the
// ErrorCode field to ascertain the specific reason for the error. As an
// additional convenience, the caller may make use of the IsErrorCode function
// to check for a specific error code.
type Error struct {
	ErrorCode   ErrorCode
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	return e.Description
}

// scriptError creates an Error given a set of arguments.
func scriptError(c ErrorCode, desc string) Error {
	return Error{ErrorCode: c, Description: desc}
}

// IsErrorCode returns whether or not the provided error is a script error with
// the provided error code.
func IsErrorCode(err error, c ErrorCode) bool {
	var serr Error
	return errors.As(err, &serr) && serr.ErrorCode == c
}
