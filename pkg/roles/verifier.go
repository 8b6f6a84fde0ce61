package roles

import (
	"fmt"

	"github.com/suffix-labs/txsig/pkg/crypto"
	"github.com/suffix-labs/txsig/pkg/script"
	"github.com/suffix-labs/txsig/pkg/transaction"
)

// Verifier checks signatures over inputs of a transaction.
type Verifier struct {
	tx *transaction.Transaction
}

// NewVerifier creates a new Verifier.
func NewVerifier(tx *transaction.Transaction) *Verifier {
	return &Verifier{tx: tx}
}

// VerifyTwoOfTwo reports whether sig1 and sig2 jointly satisfy the 2-of-2
// condition of input inputIndex, which spends the P2SH output spent.
//
// The digest commits to spent.Script as the input's subscript. sig1 must
// verify under key1 and sig2 under key2; keys are matched to signatures by
// position, so swapped signatures fail. A non-canonical or malformed
// signature or key yields false, not an error.
//
// Returns an error if:
//   - spent is not a P2SH output (*crypto.VerificationFailure)
//   - The digest cannot be computed (*crypto.SighashError)
func (v *Verifier) VerifyTwoOfTwo(
	inputIndex uint32,
	spent transaction.Output,
	key1, key2 []byte,
	sig1, sig2 crypto.Signature,
) (bool, error) {
	if !script.IsP2SH(spent.Script) {
		return false, &crypto.VerificationFailure{
			InputIndex: inputIndex,
			Code:       crypto.ErrNotP2SH,
			Message:    fmt.Sprintf("spent output script %x is not pay-to-script-hash", spent.Script),
		}
	}

	digest, err := crypto.ComputeInputDigest(v.tx, inputIndex, spent.Script)
	if err != nil {
		return false, fmt.Errorf("failed to compute sighash: %w", err)
	}

	if !crypto.VerifyHash(digest, sig1, key1) {
		log.Debugf("Input %d: first signature does not verify", inputIndex)
		return false, nil
	}
	if !crypto.VerifyHash(digest, sig2, key2) {
		log.Debugf("Input %d: second signature does not verify", inputIndex)
		return false, nil
	}

	return true, nil
}
