package tagged

import (
	"github.com/ctw00272/rmlines/bytestream"
	"github.com/ctw00272/rmlines/crdt"
)

// Reader wraps a bytestream.Reader with the typed tagged reads the v6
// format is built from. It holds no state of its own beyond the
// underlying cursor.
type Reader struct {
	Bytes *bytestream.Reader
}

// New wraps a bytestream.Reader for tagged reads.
func New(br *bytestream.Reader) *Reader {
	return &Reader{Bytes: br}
}

// ReadID expects an ID tag at index and reads the CrdtId it precedes:
// a u8 followed by a varuint.
func (r *Reader) ReadID(index int) (crdt.ID, error) {
	if err := Expect(r.Bytes, index, TypeID); err != nil {
		return crdt.ID{}, err
	}
	return r.readCrdtID()
}

func (r *Reader) readCrdtID() (crdt.ID, error) {
	part1, err := r.Bytes.ReadU8()
	if err != nil {
		return crdt.ID{}, err
	}
	part2, err := r.Bytes.ReadVarUint()
	if err != nil {
		return crdt.ID{}, err
	}
	return crdt.ID{Part1: part1, Part2: part2}, nil
}

// ReadBool expects a Byte1 tag at index and reads a bool (non-zero ⇒ true).
func (r *Reader) ReadBool(index int) (bool, error) {
	if err := Expect(r.Bytes, index, TypeByte1); err != nil {
		return false, err
	}
	return r.Bytes.ReadBool()
}

// ReadU8 expects a Byte1 tag at index and reads a u8.
func (r *Reader) ReadU8(index int) (uint8, error) {
	if err := Expect(r.Bytes, index, TypeByte1); err != nil {
		return 0, err
	}
	return r.Bytes.ReadU8()
}

// ReadU32 expects a Byte4 tag at index and reads a u32.
func (r *Reader) ReadU32(index int) (uint32, error) {
	if err := Expect(r.Bytes, index, TypeByte4); err != nil {
		return 0, err
	}
	return r.Bytes.ReadU32()
}

// ReadF32 expects a Byte4 tag at index and reads a f32.
func (r *Reader) ReadF32(index int) (float32, error) {
	if err := Expect(r.Bytes, index, TypeByte4); err != nil {
		return 0, err
	}
	return r.Bytes.ReadF32()
}

// ReadF64 expects a Byte8 tag at index and reads a f64.
func (r *Reader) ReadF64(index int) (float64, error) {
	if err := Expect(r.Bytes, index, TypeByte8); err != nil {
		return 0, err
	}
	return r.Bytes.ReadF64()
}

// ReadSubblock expects a Length4 tag at index and opens the subblock.
func (r *Reader) ReadSubblock(index int) (SubBlock, error) {
	return ReadSubblock(r.Bytes, index)
}

// HasSubblock peeks for a Length4 tag at index without advancing.
func (r *Reader) HasSubblock(index int) bool {
	return HasSubblock(r.Bytes, index)
}

// HasTag peeks for a tag matching (index, typeCode) without advancing.
func (r *Reader) HasTag(index int, typeCode Type) bool {
	return HasTag(r.Bytes, index, typeCode)
}

// ReadString expects a subblock at index, then reads a varuint length,
// a bool is_ascii flag (unvalidated opaque metadata per spec), and
// exactly that many UTF-8 bytes, validating the subblock size on exit.
func (r *Reader) ReadString(index int) (string, error) {
	sub, err := r.ReadSubblock(index)
	if err != nil {
		return "", err
	}

	length, err := r.Bytes.ReadVarUint()
	if err != nil {
		return "", err
	}
	if _, err := r.Bytes.ReadBool(); err != nil { // is_ascii: opaque, unvalidated
		return "", err
	}
	s, err := r.Bytes.ReadString(int(length))
	if err != nil {
		return "", err
	}
	if err := sub.ValidateSize(r.Bytes); err != nil {
		return "", err
	}
	return s, nil
}

// ReadLwwBool reads a last-writer-wins bool register at index.
func (r *Reader) ReadLwwBool(index int) (crdt.Lww[bool], error) {
	return readLww(r, index, (*Reader).ReadBool)
}

// ReadLwwU8 reads a last-writer-wins byte register at index.
func (r *Reader) ReadLwwU8(index int) (crdt.Lww[uint8], error) {
	return readLww(r, index, (*Reader).ReadU8)
}

// ReadLwwFloat reads a last-writer-wins f32 register at index.
func (r *Reader) ReadLwwFloat(index int) (crdt.Lww[float32], error) {
	return readLww(r, index, (*Reader).ReadF32)
}

// ReadLwwID reads a last-writer-wins CrdtId register at index.
func (r *Reader) ReadLwwID(index int) (crdt.Lww[crdt.ID], error) {
	return readLww(r, index, (*Reader).ReadID)
}

// ReadLwwString reads a last-writer-wins string register at index.
func (r *Reader) ReadLwwString(index int) (crdt.Lww[string], error) {
	return readLww(r, index, (*Reader).ReadString)
}

// readLww is the shared LWW combinator: open a subblock at index, read
// the id=1 timestamp, then index=2 value of the caller-chosen type.
func readLww[T any](r *Reader, index int, readValue func(*Reader, int) (T, error)) (crdt.Lww[T], error) {
	sub, err := r.ReadSubblock(index)
	if err != nil {
		return crdt.Lww[T]{}, err
	}

	timestamp, err := r.ReadID(1)
	if err != nil {
		return crdt.Lww[T]{}, err
	}

	value, err := readValue(r, 2)
	if err != nil {
		return crdt.Lww[T]{}, err
	}

	if err := sub.ValidateSize(r.Bytes); err != nil {
		return crdt.Lww[T]{}, err
	}

	return crdt.Lww[T]{Timestamp: timestamp, Value: value}, nil
}
