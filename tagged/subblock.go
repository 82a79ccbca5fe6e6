package tagged

import (
	"github.com/ctw00272/rmlines/bytestream"
	"github.com/ctw00272/rmlines/rmerr"
)

// SubBlock represents a length-prefixed region nested inside a block.
// It is opened by ReadSubblock and must be closed by ValidateSize once
// the caller has consumed its declared payload.
type SubBlock struct {
	start  int64
	length uint32
}

// ReadSubblock expects a Length4 tag at index, reads the u32 size that
// follows, and returns a SubBlock capturing the reader's position right
// after that size field.
func ReadSubblock(r *bytestream.Reader, index int) (SubBlock, error) {
	if err := Expect(r, index, TypeLength4); err != nil {
		return SubBlock{}, err
	}
	length, err := r.ReadU32()
	if err != nil {
		return SubBlock{}, err
	}
	return SubBlock{start: r.Position(), length: length}, nil
}

// Length returns the subblock's declared byte length.
func (s SubBlock) Length() uint32 {
	return s.length
}

// End returns the absolute offset one past the subblock's declared end.
func (s SubBlock) End() int64 {
	return s.start + int64(s.length)
}

// ValidateSize requires the reader's current position to equal the
// subblock's declared end exactly; anything else is a structural
// violation (over- or under-read).
func (s SubBlock) ValidateSize(r *bytestream.Reader) error {
	want := s.End()
	got := r.Position()
	if got != want {
		return rmerr.Invalid("subblock size mismatch: declared end %d, read ended at %d", want, got)
	}
	return nil
}

// HasSubblock peeks at the next tag without advancing the cursor and
// reports whether it is a Length4 tag at index.
func HasSubblock(r *bytestream.Reader, index int) bool {
	return HasTag(r, index, TypeLength4)
}

// HasTag peeks at the next tag without advancing the cursor and reports
// whether it matches (index, typeCode). Restores the cursor on both the
// success and failure paths.
func HasTag(r *bytestream.Reader, index int, typeCode Type) bool {
	pos := r.Position()
	tag, err := DecodeTag(r)
	r.Seek(pos)
	if err != nil {
		return false
	}
	return tag.Index == index && tag.Type == typeCode
}
