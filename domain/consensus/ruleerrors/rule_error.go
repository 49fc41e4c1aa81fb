package ruleerrors

import (
	"fmt"

	"github.com/pkg/errors"
)

// These constants are used to identify a specific RuleError.
var (
	// ErrMissingValue indicates an output was built without ever having its
	// value set.
	ErrMissingValue = newRuleError("ErrMissingValue")

	// ErrMissingScript indicates an output was built without a guard script.
	ErrMissingScript = newRuleError("ErrMissingScript")

	// ErrMissingKey indicates a spending input reached signing without a
	// signing key.
	ErrMissingKey = newRuleError("ErrMissingKey")

	// ErrMissingPreviousOutput indicates an input was configured neither as
	// a coinbase nor as a spend, or that it spends an output the previous
	// transaction doesn't have.
	ErrMissingPreviousOutput = newRuleError("ErrMissingPreviousOutput")

	// ErrUnsupportedScriptKind indicates a script kind with no registered
	// template.
	ErrUnsupportedScriptKind = newRuleError("ErrUnsupportedScriptKind")

	// ErrInvalidRecipient indicates the recipient data given for a script
	// kind has the wrong shape.
	ErrInvalidRecipient = newRuleError("ErrInvalidRecipient")

	// ErrScriptTooLarge indicates a guard script or coinbase payload longer
	// than a decoder accepts.
	ErrScriptTooLarge = newRuleError("ErrScriptTooLarge")

	// ErrEmptyBlock indicates a block was built with no transactions, which
	// leaves its merkle root undefined.
	ErrEmptyBlock = newRuleError("ErrEmptyBlock")

	// ErrMissingPreviousBlockHash indicates a block was built without a
	// previous block hash.
	ErrMissingPreviousBlockHash = newRuleError("ErrMissingPreviousBlockHash")

	// ErrInvalidTarget indicates a difficulty target that is not positive or
	// doesn't fit in 256 bits.
	ErrInvalidTarget = newRuleError("ErrInvalidTarget")

	// ErrSignatureVerification indicates a freshly produced signature failed
	// to verify against the output it spends.
	ErrSignatureVerification = newRuleError("ErrSignatureVerification")

	// ErrRoundTrip indicates a built record did not survive a wire
	// encode/decode round trip unchanged.
	ErrRoundTrip = newRuleError("ErrRoundTrip")
)

// RuleError identifies a rule violation. The caller can use type assertions
// to determine if a failure was specifically due to a rule violation, or
// errors.Is against one of the sentinels above.
type RuleError struct {
	message string
	inner   error
}

// Error satisfies the error interface and prints human-readable errors.
func (e RuleError) Error() string {
	if e.inner != nil {
		return e.message + ": " + e.inner.Error()
	}
	return e.message
}

// Unwrap satisfies the errors.Unwrap interface
func (e RuleError) Unwrap() error {
	return e.inner
}

// Cause satisfies the github.com/pkg/errors.Cause interface
func (e RuleError) Cause() error {
	return e.inner
}

// Is matches a RuleError carrying details against its bare sentinel.
func (e RuleError) Is(target error) bool {
	targetRuleError, ok := target.(RuleError)
	return ok && targetRuleError.inner == nil && targetRuleError.message == e.message
}

func newRuleError(message string) RuleError {
	return RuleError{message: message, inner: nil}
}

// ErrInvalidSignature details which input failed signature verification
// and why.
type ErrInvalidSignature struct {
	InputIndex int
	Reason     error
}

func (e ErrInvalidSignature) Error() string {
	return fmt.Sprintf("input %d: %s", e.InputIndex, e.Reason)
}

// Unwrap satisfies the errors.Unwrap interface
func (e ErrInvalidSignature) Unwrap() error {
	return e.Reason
}

// NewErrSignatureVerification creates a new ErrInvalidSignature error
// wrapped in an ErrSignatureVerification RuleError
func NewErrSignatureVerification(inputIndex int, reason error) error {
	return errors.WithStack(RuleError{
		message: ErrSignatureVerification.message,
		inner:   ErrInvalidSignature{InputIndex: inputIndex, Reason: reason},
	})
}
