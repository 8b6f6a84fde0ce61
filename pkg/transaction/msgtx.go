package transaction

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// FromMsgTx converts a btcd transaction. Witness data is dropped.
func FromMsgTx(msg *wire.MsgTx) *Transaction {
	tx := &Transaction{
		Version:  uint32(msg.Version),
		LockTime: msg.LockTime,
		Inputs:   make([]Input, len(msg.TxIn)),
		Outputs:  make([]Output, len(msg.TxOut)),
	}
	for i, in := range msg.TxIn {
		tx.Inputs[i] = Input{
			PrevoutTxID:  in.PreviousOutPoint.Hash,
			PrevoutIndex: in.PreviousOutPoint.Index,
			Script:       cloneBytes(in.SignatureScript),
			Sequence:     in.Sequence,
		}
	}
	for i, out := range msg.TxOut {
		tx.Outputs[i] = Output{
			Amount: uint64(out.Value),
			Script: cloneBytes(out.PkScript),
		}
	}
	return tx
}

// MsgTx converts the transaction to a btcd transaction that serializes to
// the same bytes.
func (tx *Transaction) MsgTx() *wire.MsgTx {
	msg := wire.NewMsgTx(int32(tx.Version))
	msg.LockTime = tx.LockTime
	for _, in := range tx.Inputs {
		prevout := wire.NewOutPoint((*chainhash.Hash)(&in.PrevoutTxID), in.PrevoutIndex)
		txIn := wire.NewTxIn(prevout, cloneBytes(in.Script), nil)
		txIn.Sequence = in.Sequence
		msg.AddTxIn(txIn)
	}
	for _, out := range tx.Outputs {
		msg.AddTxOut(wire.NewTxOut(int64(out.Amount), cloneBytes(out.Script)))
	}
	return msg
}
