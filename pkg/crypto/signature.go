package crypto

import (
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// SignatureSize is the size of a packed signature: R then S, 32 bytes each.
const SignatureSize = 64

// Signature is an ECDSA signature with R and S stored as fixed-width 32-byte
// big-endian unsigned integers.
//
// Signatures produced by SignHash, and signatures accepted by VerifyHash, are
// canonical: the low bit of S is 0.
type Signature struct {
	R [32]byte
	S [32]byte
}

// IsCanonical reports whether S has even parity.
func (sig Signature) IsCanonical() bool {
	return sig.S[31]&1 == 0
}

// Bytes returns R || S.
func (sig Signature) Bytes() [SignatureSize]byte {
	var b [SignatureSize]byte
	copy(b[:32], sig.R[:])
	copy(b[32:], sig.S[:])
	return b
}

// SignatureFromBytes unpacks R || S. Canonicity is not checked.
func SignatureFromBytes(b []byte) (Signature, error) {
	if len(b) != SignatureSize {
		return Signature{}, fmt.Errorf("signature must be %d bytes, got %d", SignatureSize, len(b))
	}
	var sig Signature
	copy(sig.R[:], b[:32])
	copy(sig.S[:], b[32:])
	return sig, nil
}

// Canonicalize replaces an odd s with N - s, where N is the curve order.
//
// (r, s) and (r, N-s) verify identically, and because N is odd exactly one of
// them has an even s. It returns s for chaining.
func Canonicalize(s *secp256k1.ModNScalar) *secp256k1.ModNScalar {
	b := s.Bytes()
	if b[31]&1 == 1 {
		s.Negate()
	}
	return s
}

// SignHash signs a 32-byte digest and returns the canonical (even S)
// signature.
//
// Nonces are derived per RFC 6979, so signing the same digest with the same
// key always yields the same signature.
func (pk *PrivateKey) SignHash(digest [32]byte) (Signature, error) {
	if pk.key.Key.IsZero() {
		return Signature{}, &SignatureError{Code: ErrSigningFailed, Message: "private key is zero"}
	}

	// The compact format carries a recovery byte followed by R and S as
	// fixed-width big-endian values.
	compact := ecdsa.SignCompact(pk.key, digest[:], true)
	if len(compact) != 1+SignatureSize {
		return Signature{}, &SignatureError{
			Code:    ErrSigningFailed,
			Message: fmt.Sprintf("unexpected compact signature length %d", len(compact)),
		}
	}

	var r, s secp256k1.ModNScalar
	if overflow := r.SetByteSlice(compact[1:33]); overflow || r.IsZero() {
		return Signature{}, &SignatureError{Code: ErrSigningFailed, Message: "degenerate r"}
	}
	if overflow := s.SetByteSlice(compact[33:]); overflow || s.IsZero() {
		return Signature{}, &SignatureError{Code: ErrSigningFailed, Message: "degenerate s"}
	}

	Canonicalize(&s)

	return Signature{R: r.Bytes(), S: s.Bytes()}, nil
}

// VerifyHash reports whether sig is a valid canonical signature of digest
// under the public key encoded in pubKey.
//
// All failures, including malformed keys, out-of-range R or S and odd S,
// return false.
func VerifyHash(digest [32]byte, sig Signature, pubKey []byte) bool {
	if !sig.IsCanonical() {
		log.Debugf("Rejecting signature with odd S")
		return false
	}

	key, err := secp256k1.ParsePubKey(pubKey)
	if err != nil {
		log.Debugf("Rejecting malformed public key: %v", err)
		return false
	}

	var r, s secp256k1.ModNScalar
	if overflow := r.SetBytes(&sig.R); overflow != 0 {
		log.Debugf("Rejecting signature with R >= curve order")
		return false
	}
	if overflow := s.SetBytes(&sig.S); overflow != 0 {
		log.Debugf("Rejecting signature with S >= curve order")
		return false
	}

	if !ecdsa.NewSignature(&r, &s).Verify(digest[:], key) {
		log.Debugf("Signature does not verify for key %x", key.SerializeCompressed())
		return false
	}
	return true
}

// VerifyHash reports whether sig is a valid canonical signature of digest
// under this key.
func (pub *PublicKey) VerifyHash(digest [32]byte, sig Signature) bool {
	return VerifyHash(digest, sig, pub.key.SerializeCompressed())
}
