package bytestream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadPrimitives(t *testing.T) {
	data := []byte{
		0x01,                   // u8
		0x01,                   // bool (true)
		0x34, 0x12,             // u16 little-endian 0x1234
		0x78, 0x56, 0x34, 0x12, // u32 little-endian 0x12345678
	}
	r := New(data)

	u8, err := r.ReadU8()
	require.NoError(t, err)
	assert.Equal(t, uint8(1), u8)

	b, err := r.ReadBool()
	require.NoError(t, err)
	assert.True(t, b)

	u16, err := r.ReadU16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), u16)

	u32, err := r.ReadU32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x12345678), u32)

	assert.True(t, r.EOF())
}

func TestReadVarUint(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want uint32
	}{
		{"single byte", []byte{0x05}, 5},
		{"two bytes", []byte{0xAC, 0x02}, 300},
		{"max shift", []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x0F}, 0xFFFFFFFF},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := New(tc.data)
			got, err := r.ReadVarUint()
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestReadVarUintTooLong(t *testing.T) {
	data := []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x01}
	r := New(data)
	_, err := r.ReadVarUint()
	require.Error(t, err)
}

func TestReadStringRejectsInvalidUTF8(t *testing.T) {
	r := New([]byte{0xFF, 0xFE})
	_, err := r.ReadString(2)
	require.Error(t, err)
}

func TestReadUUIDMixedEndian(t *testing.T) {
	raw := []byte{
		0x9f, 0xa5, 0x5b, 0x49, 0x43, 0xc9, 0x5c, 0x2b,
		0xb4, 0x55, 0x36, 0x82, 0xf6, 0x94, 0x89, 0x06,
	}
	data := append([]byte{16}, raw...) // varuint length prefix
	r := New(data)
	id, err := r.ReadUUID()
	require.NoError(t, err)
	assert.Equal(t, "495ba59f-c943-2b5c-b455-3682f6948906", id)
}

func TestReadUUIDRejectsWrongLength(t *testing.T) {
	data := append([]byte{15}, make([]byte, 15)...)
	r := New(data)
	_, err := r.ReadUUID()
	require.Error(t, err)
}

func TestPositionSeekLen(t *testing.T) {
	r := New([]byte{1, 2, 3, 4})
	assert.Equal(t, int64(4), r.Len())
	_, _ = r.ReadU8()
	assert.Equal(t, int64(1), r.Position())
	r.Seek(0)
	assert.Equal(t, int64(0), r.Position())
}

func TestEOFDoesNotConsume(t *testing.T) {
	r := New([]byte{1})
	assert.False(t, r.EOF())
	u8, err := r.ReadU8()
	require.NoError(t, err)
	assert.Equal(t, uint8(1), u8)
	assert.True(t, r.EOF())
}
