// Package bytestream provides little-endian primitive reads over an
// in-memory byte slice: the cursor-owning foundation every higher layer
// of the reMarkable tagged-block reader is built on.
package bytestream

import (
	"encoding/binary"
	"math"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/ctw00272/rmlines/rmerr"
)

// Reader reads little-endian primitives from a fixed byte slice. It owns
// its cursor exclusively; there is no shared mutable state and no
// buffering beyond the slice itself.
type Reader struct {
	data []byte
	pos  int64
}

// New wraps data for little-endian primitive reads starting at position 0.
func New(data []byte) *Reader {
	return &Reader{data: data}
}

// Position returns the current cursor offset.
func (r *Reader) Position() int64 {
	return r.pos
}

// Seek moves the cursor to an absolute offset. It does not validate the
// offset against the buffer length; an out-of-range seek simply causes
// the next read to fail.
func (r *Reader) Seek(pos int64) {
	r.pos = pos
}

// Len returns the number of bytes in the underlying buffer.
func (r *Reader) Len() int64 {
	return int64(len(r.data))
}

// EOF reports whether any more bytes can be read, without consuming one.
// It is implemented as a save-read-restore of the cursor, per spec.
func (r *Reader) EOF() bool {
	pos := r.pos
	_, err := r.ReadBytes(1)
	r.pos = pos
	return err != nil
}

// ReadBytes reads exactly n bytes, advancing the cursor.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, rmerr.Invalid("negative read length %d", n)
	}
	end := r.pos + int64(n)
	if end > int64(len(r.data)) {
		return nil, rmerr.IO("unexpected end of input: wanted %d bytes at position %d, have %d", n, r.pos, int64(len(r.data))-r.pos)
	}
	b := r.data[r.pos:end]
	r.pos = end
	return b, nil
}

// ReadU8 reads a single byte.
func (r *Reader) ReadU8() (uint8, error) {
	b, err := r.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadBool reads a byte and reports whether it is non-zero.
func (r *Reader) ReadBool() (bool, error) {
	b, err := r.ReadU8()
	if err != nil {
		return false, err
	}
	return b != 0, nil
}

// ReadU16 reads a little-endian uint16.
func (r *Reader) ReadU16() (uint16, error) {
	b, err := r.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadU32 reads a little-endian uint32.
func (r *Reader) ReadU32() (uint32, error) {
	b, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadF32 reads a little-endian IEEE-754 float32.
func (r *Reader) ReadF32() (float32, error) {
	b, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b)), nil
}

// ReadF64 reads a little-endian IEEE-754 float64.
func (r *Reader) ReadF64() (float64, error) {
	b, err := r.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
}

// maxVarUintBytes bounds read_varuint to 5 bytes / 32 bits per spec.
const maxVarUintBytes = 5

// ReadVarUint reads a base-128 variable-length unsigned integer: 7-bit
// groups, little-endian, MSB as the continuation bit, capped at 5 bytes.
func (r *Reader) ReadVarUint() (uint32, error) {
	var result uint32
	var shift uint

	for i := 0; ; i++ {
		if i >= maxVarUintBytes {
			return 0, rmerr.Invalid("varuint exceeds maximum length of %d bytes", maxVarUintBytes)
		}
		b, err := r.ReadU8()
		if err != nil {
			return 0, err
		}
		result |= uint32(b&0x7F) << shift
		shift += 7
		if b&0x80 == 0 {
			break
		}
	}

	return result, nil
}

// ReadString reads n bytes and validates them as UTF-8.
func (r *Reader) ReadString(n int) (string, error) {
	b, err := r.ReadBytes(n)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", rmerr.Invalid("string is not valid UTF-8")
	}
	return string(b), nil
}

// ReadUUID reads a varuint length (which must equal 16), 16 raw bytes,
// and produces the canonical 8-4-4-4-12 hex form by reversing the first,
// second, and third field groups (4, 2, 2 bytes) of the wire encoding —
// reMarkable's mixed-endian variant-2 UUID layout.
func (r *Reader) ReadUUID() (string, error) {
	length, err := r.ReadVarUint()
	if err != nil {
		return "", err
	}
	if length != 16 {
		return "", rmerr.Invalid("expected UUID length 16, got %d", length)
	}

	raw, err := r.ReadBytes(16)
	if err != nil {
		return "", err
	}

	var mixed [16]byte
	copy(mixed[:], raw)
	reverse(mixed[0:4])
	reverse(mixed[4:6])
	reverse(mixed[6:8])

	id, err := uuid.FromBytes(mixed[:])
	if err != nil {
		return "", rmerr.Invalid("failed to build uuid from bytes: %v", err)
	}
	return id.String(), nil
}

func reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}
