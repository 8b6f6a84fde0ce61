package sigproto

import (
	"bytes"
	"encoding/hex"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suffix-labs/txsig/pkg/crypto"
	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// sequentialSignature returns a signature whose bytes are 0x00..0x3f with
// the last byte adjusted to the requested parity of S.
func sequentialSignature(evenS bool) crypto.Signature {
	var sig crypto.Signature
	for i := range sig.R {
		sig.R[i] = byte(i)
		sig.S[i] = byte(32 + i)
	}
	if evenS {
		sig.S[31] &^= 1
	} else {
		sig.S[31] |= 1
	}
	return sig
}

func TestFieldUint64(t *testing.T) {
	f := Field{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	assert.Equal(t, uint64(0x0807060504030201), f.Uint64())
	assert.Equal(t, f, FieldFromUint64(f.Uint64()))
	assert.Equal(t, Field{}, FieldFromUint64(0))
}

func TestEncodeLayout(t *testing.T) {
	sig := sequentialSignature(true)

	pb, err := Encode(sig)
	require.NoError(t, err)

	assert.Equal(t, Field{0, 1, 2, 3, 4, 5, 6, 7}, pb.R1)
	assert.Equal(t, Field{8, 9, 10, 11, 12, 13, 14, 15}, pb.R2)
	assert.Equal(t, Field{16, 17, 18, 19, 20, 21, 22, 23}, pb.R3)
	assert.Equal(t, Field{24, 25, 26, 27, 28, 29, 30, 31}, pb.R4)
	assert.Equal(t, Field{32, 33, 34, 35, 36, 37, 38, 39}, pb.S1)
	assert.Equal(t, Field{56, 57, 58, 59, 60, 61, 62, 62}, pb.S4)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	sig := sequentialSignature(true)

	pb, err := Encode(sig)
	require.NoError(t, err)

	got, ok := Decode(pb)
	assert.True(t, ok)
	assert.Equal(t, sig, got)
}

func TestEncodeRejectsOddS(t *testing.T) {
	pb, err := Encode(sequentialSignature(false))
	assert.Nil(t, pb)

	var serr *crypto.SignatureError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, crypto.ErrNonCanonical, serr.Code)
}

func TestDecodeTotal(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	canonical := 0
	for i := 0; i < 256; i++ {
		pb := &Signature{}
		for _, f := range pb.fields() {
			*f = FieldFromUint64(rng.Uint64())
		}

		sig, ok := Decode(pb)
		assert.Equal(t, sig.S[31]&1 == 0, ok)
		if ok {
			canonical++
			again, err := Encode(sig)
			require.NoError(t, err)
			assert.Equal(t, pb, again)
		}
	}
	assert.Greater(t, canonical, 0)
	assert.Less(t, canonical, 256)

	sig, ok := Decode(nil)
	assert.False(t, ok)
	assert.Equal(t, crypto.Signature{}, sig)
}

func TestMarshalLayout(t *testing.T) {
	pb, err := Encode(sequentialSignature(true))
	require.NoError(t, err)

	b := pb.Marshal()
	require.Len(t, b, MarshaledSize)

	// Field 1, wire type fixed64, followed by the raw bytes of R1.
	assert.Equal(t, "090001020304050607", hex.EncodeToString(b[:9]))
	// Field 8 tag is (8 << 3) | 1.
	assert.Equal(t, byte(0x41), b[63])
	assert.Equal(t, pb.S4[:], b[64:])
}

func TestUnmarshalRoundTrip(t *testing.T) {
	pb, err := Encode(sequentialSignature(true))
	require.NoError(t, err)

	got, err := Unmarshal(pb.Marshal())
	require.NoError(t, err)
	assert.Equal(t, pb, got)
}

func TestUnmarshalFieldOrderAndUnknownFields(t *testing.T) {
	pb, err := Encode(sequentialSignature(true))
	require.NoError(t, err)

	// Reverse field order, with an unknown varint and bytes field mixed in.
	var b []byte
	b = protowire.AppendTag(b, 99, protowire.VarintType)
	b = protowire.AppendVarint(b, 12345)
	fields := pb.fields()
	for i := FieldCount - 1; i >= 0; i-- {
		b = protowire.AppendTag(b, protowire.Number(i+1), protowire.Fixed64Type)
		b = protowire.AppendFixed64(b, fields[i].Uint64())
		if i == 4 {
			b = protowire.AppendTag(b, 100, protowire.BytesType)
			b = protowire.AppendBytes(b, []byte("ignored"))
		}
	}

	got, err := Unmarshal(b)
	require.NoError(t, err)
	assert.Equal(t, pb, got)
}

func TestUnmarshalLastFieldWins(t *testing.T) {
	pb, err := Encode(sequentialSignature(true))
	require.NoError(t, err)

	b := pb.Marshal()
	b = protowire.AppendTag(b, 1, protowire.Fixed64Type)
	b = protowire.AppendFixed64(b, 42)

	got, err := Unmarshal(b)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), got.R1.Uint64())
	assert.Equal(t, pb.R2, got.R2)
}

func TestUnmarshalErrors(t *testing.T) {
	pb, err := Encode(sequentialSignature(true))
	require.NoError(t, err)
	full := pb.Marshal()

	var wrongType []byte
	wrongType = protowire.AppendTag(wrongType, 1, protowire.VarintType)
	wrongType = protowire.AppendVarint(wrongType, 7)
	wrongType = append(wrongType, full[9:]...)

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"missing s4", full[:MarshaledSize-9]},
		{"truncated value", full[:MarshaledSize-1]},
		{"truncated tag", append(bytes.Clone(full), 0x80)},
		{"field zero", append(bytes.Clone(full), 0x01)},
		{"wrong wire type for r1", wrongType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Unmarshal(tt.data)
			assert.Nil(t, got)
			var werr *WireError
			assert.ErrorAs(t, err, &werr)
		})
	}
}

func TestSignedRoundTrip(t *testing.T) {
	key, err := crypto.PrivateKeyFromBytes(bytes.Repeat([]byte{0x24}, 32))
	require.NoError(t, err)

	var digest [32]byte
	copy(digest[:], "wire codec round trip digest....")

	sig, err := key.SignHash(digest)
	require.NoError(t, err)

	pb, err := Encode(sig)
	require.NoError(t, err)
	decodedPB, err := Unmarshal(pb.Marshal())
	require.NoError(t, err)

	got, ok := Decode(decodedPB)
	require.True(t, ok)
	assert.True(t, crypto.VerifyHash(digest, got, key.PublicKey().Bytes()))
}

func TestSignatureDescriptor(t *testing.T) {
	assert.Equal(t, protoreflect.FullName("txsig.Signature"), signatureDesc.FullName())

	fds := signatureDesc.Fields()
	require.Equal(t, FieldCount, fds.Len())
	for i := 0; i < fds.Len(); i++ {
		fd := fds.Get(i)
		assert.Equal(t, protoreflect.FieldNumber(i+1), fd.Number())
		assert.Equal(t, fieldNames[i], string(fd.Name()))
		assert.Equal(t, protoreflect.Fixed64Kind, fd.Kind())
		assert.Equal(t, protoreflect.Required, fd.Cardinality())
	}
}

func TestToProtoMatchesMarshal(t *testing.T) {
	pb, err := Encode(sequentialSignature(true))
	require.NoError(t, err)

	m := pb.ToProto()
	fd := m.ProtoReflect().Descriptor().Fields().ByName("s4")
	require.NotNil(t, fd)
	assert.Equal(t, pb.S4.Uint64(), m.ProtoReflect().Get(fd).Uint())

	b, err := proto.MarshalOptions{Deterministic: true}.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, pb.Marshal(), b)
}
