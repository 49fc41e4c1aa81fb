package chaingen

import (
	"github.com/kaspanet/chaingen/domain/consensus/model/externalapi"
	"github.com/kaspanet/chaingen/domain/consensus/ruleerrors"
	"github.com/kaspanet/chaingen/domain/consensus/utils/serialization"
	"github.com/pkg/errors"
)

// OutputBuilder declares a transaction output: a value and the guard script
// that locks it.
type OutputBuilder struct {
	value    uint64
	valueSet bool

	script    []byte
	scriptSet bool
	scriptErr error
}

// NewOutputBuilder returns an OutputBuilder with neither a value nor a script.
func NewOutputBuilder() *OutputBuilder {
	return &OutputBuilder{}
}

// SetValue sets the value of the output. Zero is a valid value.
func (ob *OutputBuilder) SetValue(value uint64) *OutputBuilder {
	ob.value = value
	ob.valueSet = true
	return ob
}

// SetScript attaches a ready-made guard script.
func (ob *OutputBuilder) SetScript(script []byte) *OutputBuilder {
	ob.script = append([]byte(nil), script...)
	ob.scriptSet = true
	ob.scriptErr = nil
	return ob
}

// Script generates the guard script with BuildScript and attaches it. A
// generation error is reported by Build.
func (ob *OutputBuilder) Script(kind ScriptKind, recipient ...interface{}) *OutputBuilder {
	ob.script, ob.scriptErr = BuildScript(kind, recipient...)
	ob.scriptSet = true
	return ob
}

// Build returns the output. Every call returns a new copy.
func (ob *OutputBuilder) Build() (*externalapi.DomainTransactionOutput, error) {
	if !ob.valueSet {
		return nil, errors.WithStack(ruleerrors.ErrMissingValue)
	}
	if !ob.scriptSet {
		return nil, errors.WithStack(ruleerrors.ErrMissingScript)
	}
	if ob.scriptErr != nil {
		return nil, ob.scriptErr
	}
	if len(ob.script) > serialization.MaxScriptSize {
		return nil, errors.Wrapf(ruleerrors.ErrScriptTooLarge, "script is %d bytes, max %d",
			len(ob.script), serialization.MaxScriptSize)
	}

	return &externalapi.DomainTransactionOutput{
		Value:           ob.value,
		ScriptPublicKey: append([]byte(nil), ob.script...),
	}, nil
}
