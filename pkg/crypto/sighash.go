package crypto

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/suffix-labs/txsig/pkg/transaction"
)

// SighashAll is the only supported hash type: the signature commits to every
// input and output, with the signed input's script replaced by the subscript.
const SighashAll uint32 = 0x01

// ComputeInputDigest computes the SIGHASH_ALL digest for one input.
//
// The digest is
//
//	SHA256(SHA256(serialize(tx with inputs[inputIndex].Script = subscript) || LE32(SIGHASH_ALL)))
//
// Every input script of tx must be empty: the digest commits to blank
// scripts for all inputs other than the one being signed. tx is only read,
// so digests for different inputs of the same transaction may be computed
// concurrently.
func ComputeInputDigest(
	tx *transaction.Transaction,
	inputIndex uint32,
	subscript []byte,
) (chainhash.Hash, error) {
	if int(inputIndex) >= len(tx.Inputs) {
		return chainhash.Hash{}, &SighashError{
			InputIndex: inputIndex,
			Code:       ErrInputIndexOutOfRange,
			Message:    fmt.Sprintf("transaction has %d inputs", len(tx.Inputs)),
		}
	}

	for i := range tx.Inputs {
		if len(tx.Inputs[i].Script) != 0 {
			return chainhash.Hash{}, &SighashError{
				InputIndex: inputIndex,
				Code:       ErrInputsNotBlank,
				Message:    fmt.Sprintf("input %d has a %d-byte script", i, len(tx.Inputs[i].Script)),
			}
		}
	}

	var buf bytes.Buffer
	if err := tx.SerializeWithInputScript(&buf, inputIndex, subscript); err != nil {
		return chainhash.Hash{}, err
	}

	var hashType [4]byte
	binary.LittleEndian.PutUint32(hashType[:], SighashAll)
	buf.Write(hashType[:])

	return chainhash.DoubleHashH(buf.Bytes()), nil
}
