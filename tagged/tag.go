// Package tagged implements the self-describing TLV layer of the v6
// format: tags packing a field index and a type code, length-prefixed
// subblocks, and the typed reads built on top of a bytestream.Reader.
package tagged

import (
	"github.com/ctw00272/rmlines/bytestream"
	"github.com/ctw00272/rmlines/rmerr"
)

// Type is the 4-bit type code carried in the low bits of a tag.
type Type uint8

const (
	TypeByte1   Type = 0x1
	TypeByte4   Type = 0x4
	TypeByte8   Type = 0x8
	TypeLength4 Type = 0xC
	TypeID      Type = 0xF
)

func (t Type) String() string {
	switch t {
	case TypeByte1:
		return "Byte1"
	case TypeByte4:
		return "Byte4"
	case TypeByte8:
		return "Byte8"
	case TypeLength4:
		return "Length4"
	case TypeID:
		return "ID"
	default:
		return "Unknown"
	}
}

// Tag is a decoded (index, type) pair.
type Tag struct {
	Index int
	Type  Type
}

// DecodeTag reads a varuint and splits it into a field index (the high
// bits) and a type code (the low 4 bits).
func DecodeTag(r *bytestream.Reader) (Tag, error) {
	x, err := r.ReadVarUint()
	if err != nil {
		return Tag{}, err
	}

	index := int(x >> 4)
	typeCode := Type(x & 0xF)

	switch typeCode {
	case TypeByte1, TypeByte4, TypeByte8, TypeLength4, TypeID:
	default:
		return Tag{}, rmerr.Invalid("unknown tag type code 0x%X", uint8(typeCode))
	}

	return Tag{Index: index, Type: typeCode}, nil
}

// Expect reads a tag and validates it matches (index, typeCode) exactly.
func Expect(r *bytestream.Reader, index int, typeCode Type) error {
	tag, err := DecodeTag(r)
	if err != nil {
		return err
	}
	if tag.Index != index || tag.Type != typeCode {
		return rmerr.Invalid("expected tag (index=%d, type=%s), got (index=%d, type=%s)", index, typeCode, tag.Index, tag.Type)
	}
	return nil
}
