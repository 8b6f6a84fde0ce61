// Package sigproto converts signatures to and from their fixed-width wire
// representation: eight 8-byte fields, R1..R4 carrying R and S1..S4
// carrying S.
//
// On the wire the message is
//
//	message Signature {
//	  required fixed64 r1 = 1;
//	  required fixed64 r2 = 2;
//	  required fixed64 r3 = 3;
//	  required fixed64 r4 = 4;
//	  required fixed64 s1 = 5;
//	  required fixed64 s2 = 6;
//	  required fixed64 s3 = 7;
//	  required fixed64 s4 = 8;
//	}
//
// Each field holds 8 consecutive bytes of R or S, in order, without any
// byte swapping. Its fixed64 value is the little-endian reading of those
// bytes.
package sigproto

import (
	"encoding/binary"

	"github.com/suffix-labs/txsig/pkg/crypto"
)

// FieldCount is the number of fields in a wire signature.
const FieldCount = 8

// FieldSize is the number of signature bytes carried by one field.
const FieldSize = 8

// Field is one 8-byte chunk of R or S.
type Field [FieldSize]byte

// Uint64 returns the fixed64 value carried by the field.
func (f Field) Uint64() uint64 {
	return binary.LittleEndian.Uint64(f[:])
}

// FieldFromUint64 is the inverse of Field.Uint64.
func FieldFromUint64(v uint64) Field {
	var f Field
	binary.LittleEndian.PutUint64(f[:], v)
	return f
}

// Signature is the wire representation of a crypto.Signature.
type Signature struct {
	R1, R2, R3, R4 Field
	S1, S2, S3, S4 Field
}

// fields returns the fields in wire order.
func (pb *Signature) fields() [FieldCount]*Field {
	return [FieldCount]*Field{
		&pb.R1, &pb.R2, &pb.R3, &pb.R4,
		&pb.S1, &pb.S2, &pb.S3, &pb.S4,
	}
}

// Encode splits a canonical signature into wire fields.
//
// Returns a *crypto.SignatureError with code crypto.ErrNonCanonical if S is
// odd. Only canonical signatures are ever put on the wire.
func Encode(sig crypto.Signature) (*Signature, error) {
	if !sig.IsCanonical() {
		return nil, &crypto.SignatureError{
			Code:    crypto.ErrNonCanonical,
			Message: "refusing to encode signature with odd S",
		}
	}

	raw := sig.Bytes()
	pb := &Signature{}
	for i, f := range pb.fields() {
		copy(f[:], raw[i*FieldSize:(i+1)*FieldSize])
	}
	return pb, nil
}

// Decode reassembles a signature from wire fields.
//
// Decode accepts any field contents. The boolean reports whether the
// resulting signature is canonical; a non-canonical signature is still
// returned so the caller can decide what to do with it. A nil message
// decodes to the zero signature and false.
func Decode(pb *Signature) (crypto.Signature, bool) {
	if pb == nil {
		return crypto.Signature{}, false
	}

	var raw [crypto.SignatureSize]byte
	for i, f := range pb.fields() {
		copy(raw[i*FieldSize:], f[:])
	}

	var sig crypto.Signature
	copy(sig.R[:], raw[:32])
	copy(sig.S[:], raw[32:])
	return sig, sig.IsCanonical()
}
