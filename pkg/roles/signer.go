// Package roles implements the parties that act on a transaction input:
// the Signer, which produces a canonical signature over one input, and the
// Verifier, which checks the 2-of-2 spending condition of a P2SH input.
//
// Both roles only read the transaction they are given. Several Signers may
// sign different inputs of the same transaction concurrently.
package roles

import (
	"fmt"

	"github.com/suffix-labs/txsig/pkg/crypto"
	"github.com/suffix-labs/txsig/pkg/transaction"
)

// Signer signs inputs of a transaction whose input scripts are all blank.
type Signer struct {
	tx *transaction.Transaction
}

// NewSigner creates a new Signer.
func NewSigner(tx *transaction.Transaction) *Signer {
	return &Signer{tx: tx}
}

// SignInput signs input inputIndex of the transaction.
//
// The SIGHASH_ALL digest is computed with the input's script replaced by
// subscript (for a P2SH spend, the spent output's script) and signed with
// key. The returned signature always has even S.
//
// Returns an error if:
//   - Input index is out of bounds, or an input script is not blank
//     (*crypto.SighashError)
//   - The signing primitive fails (*crypto.SignatureError); the caller may
//     retry
func (s *Signer) SignInput(
	inputIndex uint32,
	subscript []byte,
	key *crypto.PrivateKey,
) (crypto.Signature, error) {
	digest, err := crypto.ComputeInputDigest(s.tx, inputIndex, subscript)
	if err != nil {
		return crypto.Signature{}, fmt.Errorf("failed to compute sighash: %w", err)
	}

	sig, err := key.SignHash(digest)
	if err != nil {
		return crypto.Signature{}, fmt.Errorf("failed to sign input %d: %w", inputIndex, err)
	}

	log.Debugf("Signed input %d with key %x", inputIndex, key.PublicKey().Bytes())

	return sig, nil
}

// Transaction returns the transaction being signed.
func (s *Signer) Transaction() *transaction.Transaction {
	return s.tx
}
