// Package api provides the high-level public API for signing and verifying
// transaction inputs.
//
// This is the main entry point for applications using the txsig library.
// Every function works on raw bytes: serialized transactions, scripts,
// SEC1 public keys and marshaled wire signatures. The functions are:
//
//  1. GetSighash - Computes the SIGHASH_ALL digest for an input
//  2. SignInput - Signs an input with a WIF key and returns a wire signature
//  3. VerifyTwoOfTwo - Checks two wire signatures against a 2-of-2 P2SH output
//  4. DecodeSignature - Unmarshals a wire signature
//  5. TwoOfTwoScripts - Builds the redeem and output scripts of a 2-of-2
//  6. PublicKeyFromWIF - Derives the compressed public key of a WIF key
package api

import (
	"fmt"

	"github.com/suffix-labs/txsig/pkg/crypto"
	"github.com/suffix-labs/txsig/pkg/roles"
	"github.com/suffix-labs/txsig/pkg/script"
	"github.com/suffix-labs/txsig/pkg/sigproto"
	"github.com/suffix-labs/txsig/pkg/transaction"
)

// ============================================================================
// API Function 1: GetSighash
// ============================================================================

// GetSighash computes the SIGHASH_ALL signature hash for an input.
//
// This is the 32-byte hash that should be signed with the private key.
//
// Parameters:
//   - rawTx: Serialized transaction with all input scripts empty
//   - inputIndex: Index of the input to sign (0-based)
//   - subscript: Script substituted for the input's script
//
// Returns:
//   - 32-byte signature hash
//   - Error if the transaction is malformed or the digest cannot be computed
func GetSighash(rawTx []byte, inputIndex uint32, subscript []byte) ([32]byte, error) {
	tx, err := transaction.Parse(rawTx)
	if err != nil {
		return [32]byte{}, fmt.Errorf("invalid transaction: %w", err)
	}

	sighash, err := crypto.ComputeInputDigest(tx, inputIndex, subscript)
	if err != nil {
		return [32]byte{}, fmt.Errorf("failed to compute sighash: %w", err)
	}

	return sighash, nil
}

// ============================================================================
// API Function 2: SignInput
// ============================================================================

// SignInput signs an input of a transaction.
//
// This function:
//  1. Parses the transaction and the WIF-encoded key
//  2. Signs the input using the Signer role
//  3. Encodes the canonical signature as a wire signature
//
// Parameters:
//   - rawTx: Serialized transaction with all input scripts empty
//   - inputIndex: Index of the input to sign (0-based)
//   - subscript: Script substituted for the input's script
//   - wif: WIF-encoded private key
//
// Returns:
//   - Marshaled wire signature
//   - Error if parsing or signing fails
func SignInput(rawTx []byte, inputIndex uint32, subscript []byte, wif string) ([]byte, error) {
	tx, err := transaction.Parse(rawTx)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction: %w", err)
	}

	key, err := crypto.ParsePrivateKeyWIF(wif)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	sig, err := roles.NewSigner(tx).SignInput(inputIndex, subscript, key)
	if err != nil {
		return nil, err
	}

	pb, err := sigproto.Encode(sig)
	if err != nil {
		return nil, fmt.Errorf("failed to encode signature: %w", err)
	}

	return pb.Marshal(), nil
}

// ============================================================================
// API Function 3: VerifyTwoOfTwo
// ============================================================================

// VerifyTwoOfTwo checks two wire signatures against the 2-of-2 condition
// of an input spending a P2SH output.
//
// sig1 must verify under key1 and sig2 under key2. A signature that
// decodes to a non-canonical value fails verification; it is not an error.
//
// Parameters:
//   - rawTx: Serialized transaction with all input scripts empty
//   - inputIndex: Index of the input being verified (0-based)
//   - spentScript: Script of the output the input spends
//   - key1, key2: SEC1-encoded public keys
//   - sig1, sig2: Marshaled wire signatures
//
// Returns:
//   - true if both signatures verify
//   - Error if an argument is malformed or the output is not P2SH
func VerifyTwoOfTwo(
	rawTx []byte,
	inputIndex uint32,
	spentScript []byte,
	key1, key2 []byte,
	sig1, sig2 []byte,
) (bool, error) {
	tx, err := transaction.Parse(rawTx)
	if err != nil {
		return false, fmt.Errorf("invalid transaction: %w", err)
	}

	// Non-canonical signatures are passed through: the verifier checks the
	// spending condition first and then rejects odd S.
	first, _, err := DecodeSignature(sig1)
	if err != nil {
		return false, fmt.Errorf("invalid first signature: %w", err)
	}
	second, _, err := DecodeSignature(sig2)
	if err != nil {
		return false, fmt.Errorf("invalid second signature: %w", err)
	}

	spent := transaction.Output{Script: spentScript}
	return roles.NewVerifier(tx).VerifyTwoOfTwo(inputIndex, spent, key1, key2, first, second)
}

// ============================================================================
// API Function 4: DecodeSignature
// ============================================================================

// DecodeSignature unmarshals a wire signature.
//
// Returns:
//   - The signature
//   - Whether the signature is canonical (even S)
//   - Error if data is not a well-formed wire signature
func DecodeSignature(data []byte) (crypto.Signature, bool, error) {
	pb, err := sigproto.Unmarshal(data)
	if err != nil {
		return crypto.Signature{}, false, err
	}

	sig, ok := sigproto.Decode(pb)
	return sig, ok, nil
}

// ============================================================================
// API Function 5: TwoOfTwoScripts
// ============================================================================

// TwoOfTwoScripts builds the redeem script requiring signatures under both
// key1 and key2, and the P2SH output script locking funds to it.
func TwoOfTwoScripts(key1, key2 []byte) (redeemScript, outputScript []byte, err error) {
	for i, k := range [][]byte{key1, key2} {
		if _, err := crypto.ParsePublicKey(k); err != nil {
			return nil, nil, fmt.Errorf("invalid public key %d: %w", i+1, err)
		}
	}

	return script.TwoOfTwoP2SH(key1, key2)
}

// ============================================================================
// API Function 6: PublicKeyFromWIF
// ============================================================================

// PublicKeyFromWIF returns the compressed public key of a WIF-encoded
// private key.
func PublicKeyFromWIF(wif string) ([]byte, error) {
	key, err := crypto.ParsePrivateKeyWIF(wif)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	return key.PublicKey().Bytes(), nil
}
