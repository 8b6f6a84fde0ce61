// Package transaction implements the Bitcoin-style transaction model used for
// per-input signing.
//
// Only the parts of a transaction that a SIGHASH_ALL signature commits to are
// modeled: version, inputs, outputs and lock time. Witness data is not
// supported; the serialization produced here is the legacy broadcast layout.
//
// References:
//   - https://en.bitcoin.it/wiki/Protocol_documentation#tx
//   - btcd wire.MsgTx (github.com/btcsuite/btcd/wire)
package transaction

// Transaction represents an unsigned or partially signed transaction.
//
// While inputs are being signed every input Script is expected to be empty:
// the signature digest substitutes the spending condition of exactly one
// input and commits to blank scripts for all others.
type Transaction struct {
	Version  uint32   // Transaction version (1 or 2 for standard transactions)
	Inputs   []Input  // Coins being spent
	Outputs  []Output // Coins being created
	LockTime uint32   // nLockTime (0 = unlocked)
}

// Input represents a previous output being spent.
type Input struct {
	PrevoutTxID  [32]byte // Previous transaction ID, in internal byte order
	PrevoutIndex uint32   // Output index in the previous transaction
	Script       []byte   // Unlocking script (scriptSig); empty while signing
	Sequence     uint32   // Sequence number (0xffffffff = final)
}

// Output represents a coin being created.
type Output struct {
	Amount uint64 // Value in satoshis
	Script []byte // Locking script (scriptPubKey)
}

// Transaction defaults
const (
	DefaultVersion uint32 = 1
	SequenceFinal  uint32 = 0xFFFFFFFF
)

// New creates an empty transaction with the default version.
func New() *Transaction {
	return &Transaction{Version: DefaultVersion}
}

// AddInput appends an input spending prevoutTxID:prevoutIndex with an empty
// script and a final sequence number.
func (tx *Transaction) AddInput(prevoutTxID [32]byte, prevoutIndex uint32) *Transaction {
	tx.Inputs = append(tx.Inputs, Input{
		PrevoutTxID:  prevoutTxID,
		PrevoutIndex: prevoutIndex,
		Sequence:     SequenceFinal,
	})
	return tx
}

// AddOutput appends an output paying amount to script.
func (tx *Transaction) AddOutput(amount uint64, script []byte) *Transaction {
	tx.Outputs = append(tx.Outputs, Output{Amount: amount, Script: script})
	return tx
}

// Clone returns a deep copy of the transaction.
func (tx *Transaction) Clone() *Transaction {
	out := &Transaction{
		Version:  tx.Version,
		LockTime: tx.LockTime,
		Inputs:   make([]Input, len(tx.Inputs)),
		Outputs:  make([]Output, len(tx.Outputs)),
	}
	for i, in := range tx.Inputs {
		in.Script = cloneBytes(in.Script)
		out.Inputs[i] = in
	}
	for i, o := range tx.Outputs {
		o.Script = cloneBytes(o.Script)
		out.Outputs[i] = o
	}
	return out
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte{}, b...)
}
