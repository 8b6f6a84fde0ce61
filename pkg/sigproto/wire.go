package sigproto

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/dynamicpb"
)

// MarshaledSize is the length of a marshaled Signature: a one-byte tag and
// eight value bytes per field.
const MarshaledSize = FieldCount * (1 + FieldSize)

var fieldNames = [FieldCount]string{"r1", "r2", "r3", "r4", "s1", "s2", "s3", "s4"}

// signatureDesc describes the txsig.Signature protobuf message.
var signatureDesc = buildSignatureDesc()

func buildSignatureDesc() protoreflect.MessageDescriptor {
	fields := make([]*descriptorpb.FieldDescriptorProto, 0, FieldCount)
	for i, name := range fieldNames {
		fields = append(fields, &descriptorpb.FieldDescriptorProto{
			Name:     proto.String(name),
			JsonName: proto.String(name),
			Number:   proto.Int32(int32(i + 1)),
			Label:    descriptorpb.FieldDescriptorProto_LABEL_REQUIRED.Enum(),
			Type:     descriptorpb.FieldDescriptorProto_TYPE_FIXED64.Enum(),
		})
	}

	file, err := protodesc.NewFile(&descriptorpb.FileDescriptorProto{
		Name:    proto.String("txsig/signature.proto"),
		Package: proto.String("txsig"),
		Syntax:  proto.String("proto2"),
		MessageType: []*descriptorpb.DescriptorProto{{
			Name:  proto.String("Signature"),
			Field: fields,
		}},
	}, nil)
	if err != nil {
		panic(fmt.Sprintf("sigproto: invalid signature descriptor: %v", err))
	}
	return file.Messages().ByName("Signature")
}

// WireError is returned when a wire signature cannot be unmarshaled.
type WireError struct {
	Message string // Human-readable error message
	Cause   error  // Underlying error (if any)
}

func (e *WireError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("wire signature error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("wire signature error: %s", e.Message)
}

func (e *WireError) Unwrap() error {
	return e.Cause
}

// ToProto returns the signature as a txsig.Signature protobuf message.
func (pb *Signature) ToProto() proto.Message {
	m := dynamicpb.NewMessage(signatureDesc)
	fds := signatureDesc.Fields()
	for i, f := range pb.fields() {
		fd := fds.ByNumber(protowire.Number(i + 1))
		m.Set(fd, protoreflect.ValueOfUint64(f.Uint64()))
	}
	return m
}

// Marshal returns the protobuf encoding of the signature. Fields are
// written in field-number order.
func (pb *Signature) Marshal() []byte {
	b, err := proto.MarshalOptions{Deterministic: true}.Marshal(pb.ToProto())
	if err != nil {
		// Every required field is always set.
		panic(fmt.Sprintf("sigproto: marshal: %v", err))
	}
	return b
}

// Unmarshal parses the protobuf encoding of a signature.
//
// Fields may appear in any order and the last occurrence of a field wins.
// Unknown fields, including known field numbers with an unexpected wire
// type, are skipped. Every one of the eight fields must be present.
func Unmarshal(b []byte) (*Signature, error) {
	m := dynamicpb.NewMessage(signatureDesc)
	if err := proto.Unmarshal(b, m); err != nil {
		return nil, &WireError{Message: "malformed signature message", Cause: err}
	}

	pb := &Signature{}
	fds := signatureDesc.Fields()
	for i, f := range pb.fields() {
		fd := fds.ByNumber(protowire.Number(i + 1))
		if !m.Has(fd) {
			return nil, &WireError{Message: "missing required field " + fieldNames[i]}
		}
		*f = FieldFromUint64(m.Get(fd).Uint())
	}

	return pb, nil
}
