package transaction

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// Smallest possible encodings, used to bound counts read from untrusted data.
const (
	minInputSize  = 32 + 4 + 1 + 4 // prevout + empty script + sequence
	minOutputSize = 8 + 1          // amount + empty script
)

// noSubstitution marks a serialization that keeps every input script as is.
const noSubstitution = -1

// Serialize writes the transaction in the legacy broadcast layout.
//
// Format:
//   - version (4 bytes, little-endian)
//   - num_inputs (CompactSize)
//   - for each input:
//   - prevout_txid (32 bytes)
//   - prevout_index (4 bytes, little-endian)
//   - script (CompactSize length + bytes)
//   - sequence (4 bytes, little-endian)
//   - num_outputs (CompactSize)
//   - for each output:
//   - amount (8 bytes, little-endian)
//   - script (CompactSize length + bytes)
//   - lock_time (4 bytes, little-endian)
func (tx *Transaction) Serialize(w io.Writer) error {
	return tx.serialize(w, noSubstitution, nil)
}

// SerializeWithInputScript writes the broadcast layout with the script of
// input index replaced by script.
//
// The transaction itself is left untouched, which makes this safe to call
// concurrently with other readers.
func (tx *Transaction) SerializeWithInputScript(w io.Writer, index uint32, script []byte) error {
	if int(index) >= len(tx.Inputs) {
		return fmt.Errorf("input index %d out of bounds (have %d inputs)", index, len(tx.Inputs))
	}
	return tx.serialize(w, int(index), script)
}

// Bytes returns the serialized transaction.
func (tx *Transaction) Bytes() []byte {
	var buf bytes.Buffer
	// Writes to a bytes.Buffer cannot fail.
	_ = tx.Serialize(&buf)
	return buf.Bytes()
}

// TxID returns the double-SHA256 of the serialized transaction, in internal
// byte order (chainhash.Hash.String reverses it for display).
func (tx *Transaction) TxID() chainhash.Hash {
	return chainhash.DoubleHashH(tx.Bytes())
}

func (tx *Transaction) serialize(w io.Writer, substitute int, script []byte) error {
	var scratch [8]byte

	binary.LittleEndian.PutUint32(scratch[:4], tx.Version)
	if _, err := w.Write(scratch[:4]); err != nil {
		return fmt.Errorf("writing version: %w", err)
	}

	if err := wire.WriteVarInt(w, 0, uint64(len(tx.Inputs))); err != nil {
		return fmt.Errorf("writing input count: %w", err)
	}
	for i := range tx.Inputs {
		in := &tx.Inputs[i]
		inScript := in.Script
		if i == substitute {
			inScript = script
		}
		if err := writeInput(w, in, inScript, &scratch); err != nil {
			return fmt.Errorf("writing input %d: %w", i, err)
		}
	}

	if err := wire.WriteVarInt(w, 0, uint64(len(tx.Outputs))); err != nil {
		return fmt.Errorf("writing output count: %w", err)
	}
	for i := range tx.Outputs {
		if err := writeOutput(w, &tx.Outputs[i], &scratch); err != nil {
			return fmt.Errorf("writing output %d: %w", i, err)
		}
	}

	binary.LittleEndian.PutUint32(scratch[:4], tx.LockTime)
	if _, err := w.Write(scratch[:4]); err != nil {
		return fmt.Errorf("writing lock time: %w", err)
	}
	return nil
}

func writeInput(w io.Writer, in *Input, script []byte, scratch *[8]byte) error {
	if _, err := w.Write(in.PrevoutTxID[:]); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(scratch[:4], in.PrevoutIndex)
	if _, err := w.Write(scratch[:4]); err != nil {
		return err
	}
	if err := wire.WriteVarBytes(w, 0, script); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(scratch[:4], in.Sequence)
	_, err := w.Write(scratch[:4])
	return err
}

func writeOutput(w io.Writer, out *Output, scratch *[8]byte) error {
	binary.LittleEndian.PutUint64(scratch[:], out.Amount)
	if _, err := w.Write(scratch[:]); err != nil {
		return err
	}
	return wire.WriteVarBytes(w, 0, out.Script)
}

// Parse decodes a transaction serialized with Serialize.
//
// Returns a *ParseError if the data is not exactly one well-formed
// transaction.
func Parse(data []byte) (*Transaction, error) {
	r := bytes.NewReader(data)
	offset := func() int64 { return int64(len(data) - r.Len()) }
	fail := func(msg string, err error) error {
		return &ParseError{Offset: offset(), Message: msg, Cause: err}
	}

	tx := &Transaction{}
	if err := binary.Read(r, binary.LittleEndian, &tx.Version); err != nil {
		return nil, fail("reading version", err)
	}

	numInputs, err := wire.ReadVarInt(r, 0)
	if err != nil {
		return nil, fail("reading input count", err)
	}
	if numInputs > uint64(r.Len()/minInputSize) {
		return nil, fail(fmt.Sprintf("input count %d exceeds remaining data", numInputs), nil)
	}
	tx.Inputs = make([]Input, numInputs)
	for i := range tx.Inputs {
		if err := parseInput(r, &tx.Inputs[i]); err != nil {
			return nil, fail(fmt.Sprintf("parsing input %d", i), err)
		}
	}

	numOutputs, err := wire.ReadVarInt(r, 0)
	if err != nil {
		return nil, fail("reading output count", err)
	}
	if numOutputs > uint64(r.Len()/minOutputSize) {
		return nil, fail(fmt.Sprintf("output count %d exceeds remaining data", numOutputs), nil)
	}
	tx.Outputs = make([]Output, numOutputs)
	for i := range tx.Outputs {
		if err := parseOutput(r, &tx.Outputs[i]); err != nil {
			return nil, fail(fmt.Sprintf("parsing output %d", i), err)
		}
	}

	if err := binary.Read(r, binary.LittleEndian, &tx.LockTime); err != nil {
		return nil, fail("reading lock time", err)
	}
	if r.Len() != 0 {
		return nil, fail(fmt.Sprintf("%d trailing bytes", r.Len()), nil)
	}

	return tx, nil
}

func parseInput(r *bytes.Reader, in *Input) error {
	if _, err := io.ReadFull(r, in.PrevoutTxID[:]); err != nil {
		return fmt.Errorf("reading prevout txid: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &in.PrevoutIndex); err != nil {
		return fmt.Errorf("reading prevout index: %w", err)
	}
	script, err := readScript(r)
	if err != nil {
		return fmt.Errorf("reading script: %w", err)
	}
	in.Script = script
	if err := binary.Read(r, binary.LittleEndian, &in.Sequence); err != nil {
		return fmt.Errorf("reading sequence: %w", err)
	}
	return nil
}

func parseOutput(r *bytes.Reader, out *Output) error {
	if err := binary.Read(r, binary.LittleEndian, &out.Amount); err != nil {
		return fmt.Errorf("reading amount: %w", err)
	}
	script, err := readScript(r)
	if err != nil {
		return fmt.Errorf("reading script: %w", err)
	}
	out.Script = script
	return nil
}

// readScript reads a CompactSize-prefixed script. Empty scripts decode as
// nil so that a parsed unsigned transaction compares equal to a built one.
func readScript(r *bytes.Reader) ([]byte, error) {
	n, err := wire.ReadVarInt(r, 0)
	if err != nil {
		return nil, err
	}
	if n > uint64(r.Len()) {
		return nil, fmt.Errorf("script length %d exceeds remaining %d bytes", n, r.Len())
	}
	if n == 0 {
		return nil, nil
	}
	script := make([]byte, n)
	if _, err := io.ReadFull(r, script); err != nil {
		return nil, err
	}
	return script, nil
}
