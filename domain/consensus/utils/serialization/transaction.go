package serialization

import (
	"bytes"
	"io"

	"github.com/kaspanet/chaingen/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

// maxTxInOutCount bounds the input and output counts read from the wire.
const maxTxInOutCount = 100_000

// SerializeTransaction returns the wire encoding of tx.
func SerializeTransaction(tx *externalapi.DomainTransaction) ([]byte, error) {
	buf := &bytes.Buffer{}
	err := WriteTransaction(buf, tx)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DeserializeTransaction decodes a transaction from its wire encoding.
// Trailing bytes are an error.
func DeserializeTransaction(serialized []byte) (*externalapi.DomainTransaction, error) {
	r := bytes.NewReader(serialized)
	tx, err := ReadTransaction(r)
	if err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, errors.Wrapf(errMalformed, "%d trailing bytes after transaction", r.Len())
	}
	return tx, nil
}

// WriteTransaction writes the wire encoding of tx to w:
// version, inputs, outputs, lock time.
func WriteTransaction(w io.Writer, tx *externalapi.DomainTransaction) error {
	err := WriteElement(w, tx.Version)
	if err != nil {
		return err
	}

	err = WriteVarInt(w, uint64(len(tx.Inputs)))
	if err != nil {
		return err
	}
	for _, input := range tx.Inputs {
		err = writeTransactionInput(w, input)
		if err != nil {
			return err
		}
	}

	err = WriteVarInt(w, uint64(len(tx.Outputs)))
	if err != nil {
		return err
	}
	for _, output := range tx.Outputs {
		err = writeTransactionOutput(w, output)
		if err != nil {
			return err
		}
	}

	return WriteElement(w, tx.LockTime)
}

func writeTransactionInput(w io.Writer, input *externalapi.DomainTransactionInput) error {
	err := WriteElements(w, &input.PreviousOutpoint.TransactionID, input.PreviousOutpoint.Index)
	if err != nil {
		return err
	}
	err = WriteVarBytes(w, input.SignatureScript)
	if err != nil {
		return err
	}
	return WriteElement(w, input.Sequence)
}

func writeTransactionOutput(w io.Writer, output *externalapi.DomainTransactionOutput) error {
	err := WriteElement(w, output.Value)
	if err != nil {
		return err
	}
	return WriteVarBytes(w, output.ScriptPublicKey)
}

// ReadTransaction reads a wire-encoded transaction from r.
func ReadTransaction(r io.Reader) (*externalapi.DomainTransaction, error) {
	tx := &externalapi.DomainTransaction{}
	err := ReadElement(r, &tx.Version)
	if err != nil {
		return nil, err
	}

	inputCount, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	if inputCount > maxTxInOutCount {
		return nil, errors.Wrapf(errMalformed, "too many inputs to fit into max "+
			"message size [count %d, max %d]", inputCount, maxTxInOutCount)
	}
	tx.Inputs = make([]*externalapi.DomainTransactionInput, inputCount)
	for i := range tx.Inputs {
		tx.Inputs[i], err = readTransactionInput(r)
		if err != nil {
			return nil, err
		}
	}

	outputCount, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	if outputCount > maxTxInOutCount {
		return nil, errors.Wrapf(errMalformed, "too many outputs to fit into max "+
			"message size [count %d, max %d]", outputCount, maxTxInOutCount)
	}
	tx.Outputs = make([]*externalapi.DomainTransactionOutput, outputCount)
	for i := range tx.Outputs {
		tx.Outputs[i], err = readTransactionOutput(r)
		if err != nil {
			return nil, err
		}
	}

	err = ReadElement(r, &tx.LockTime)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

func readTransactionInput(r io.Reader) (*externalapi.DomainTransactionInput, error) {
	input := &externalapi.DomainTransactionInput{}
	err := ReadElements(r, &input.PreviousOutpoint.TransactionID, &input.PreviousOutpoint.Index)
	if err != nil {
		return nil, err
	}
	input.SignatureScript, err = ReadVarBytes(r, MaxScriptSize, "transaction input signature script")
	if err != nil {
		return nil, err
	}
	err = ReadElement(r, &input.Sequence)
	if err != nil {
		return nil, err
	}
	return input, nil
}

func readTransactionOutput(r io.Reader) (*externalapi.DomainTransactionOutput, error) {
	output := &externalapi.DomainTransactionOutput{}
	err := ReadElement(r, &output.Value)
	if err != nil {
		return nil, err
	}
	output.ScriptPublicKey, err = ReadVarBytes(r, MaxScriptSize, "transaction output public key script")
	if err != nil {
		return nil, err
	}
	return output, nil
}
