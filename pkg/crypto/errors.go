package crypto

import "fmt"

// Error types for signing and verification.
//
// Precondition violations (bad input index, inputs not blank, non-canonical
// signature handed to the encoder, non-P2SH output handed to a 2-of-2 check)
// indicate a bug in the caller and must abort the operation. Failures caused
// by untrusted data during verification are never errors: they collapse to a
// false result.

// SighashError is returned when the signature digest for an input cannot be
// computed.
type SighashError struct {
	InputIndex uint32 // Index of the input that caused the error
	Code       string // Error code (e.g., ErrInputIndexOutOfRange)
	Message    string // Human-readable error message
}

func (e *SighashError) Error() string {
	return fmt.Sprintf("sighash error [%s] at input %d: %s", e.Code, e.InputIndex, e.Message)
}

// SignatureError is returned when a signature cannot be produced or encoded.
//
// ErrSigningFailed is transient from the caller's point of view: the signing
// primitive rejected its input and the operation may be retried with a
// different key or digest.
type SignatureError struct {
	Code    string // Error code (e.g., ErrSigningFailed)
	Message string // Human-readable error message
	Cause   error  // Underlying error (if any)
}

func (e *SignatureError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("signature error [%s]: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("signature error [%s]: %s", e.Code, e.Message)
}

func (e *SignatureError) Unwrap() error {
	return e.Cause
}

// VerificationFailure is returned when a verification is requested for a
// spending condition it does not apply to.
type VerificationFailure struct {
	InputIndex uint32 // Index of the input being verified
	Code       string // Error code (e.g., ErrNotP2SH)
	Message    string // Human-readable error message
}

func (e *VerificationFailure) Error() string {
	return fmt.Sprintf("verification failed [%s] at input %d: %s", e.Code, e.InputIndex, e.Message)
}

// Error codes
const (
	ErrInputIndexOutOfRange = "INPUT_INDEX_OUT_OF_RANGE" // Input index >= number of inputs
	ErrInputsNotBlank       = "INPUTS_NOT_BLANK"         // An input script is set while computing a digest
	ErrSigningFailed        = "SIGNING_FAILED"           // The ECDSA primitive produced no usable signature
	ErrNonCanonical         = "NON_CANONICAL_SIGNATURE"  // Signature S has odd parity
	ErrNotP2SH              = "NOT_P2SH"                 // Spent output is not pay-to-script-hash
)
