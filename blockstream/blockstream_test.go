package blockstream

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/ctw00272/rmlines/bytestream"
	"github.com/ctw00272/rmlines/rmerr"
	"github.com/ctw00272/rmlines/tagged"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tagByte(index int, typeCode tagged.Type) byte {
	return byte(index<<4) | byte(typeCode)
}

func u32le(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

// blockHeader builds the 8-byte header every block starts with: a u32
// payload size, one reserved byte, min/current version, and block type.
func blockHeader(size uint32, minVersion, currentVersion, blockType byte) []byte {
	h := append([]byte{}, u32le(size)...)
	h = append(h, 0x00, minVersion, currentVersion, blockType)
	return h
}

func newReader(data []byte) *tagged.Reader {
	return tagged.New(bytestream.New(data))
}

func TestReadMigrationInfoBlock(t *testing.T) {
	var payload []byte
	payload = append(payload, tagByte(1, tagged.TypeID), 0x01, 0x01) // id(1)=(1,1)
	payload = append(payload, tagByte(2, tagged.TypeByte1), 0x01)    // is_device=true

	data := append(blockHeader(uint32(len(payload)), 0, 0, TypeMigrationInfo), payload...)
	tr := newReader(data)

	block, err := Read(tr)
	require.NoError(t, err)
	mi, ok := block.(MigrationInfoBlock)
	require.True(t, ok)
	assert.True(t, mi.IsDevice)
	assert.Equal(t, uint8(1), mi.MigrationID.Part1)
	assert.Equal(t, uint32(1), mi.MigrationID.Part2)
}

func TestReadAuthorsIDsBlock(t *testing.T) {
	rawUUID := []byte{
		0x9f, 0xa5, 0x5b, 0x49, 0x43, 0xc9, 0x5c, 0x2b,
		0xb4, 0x55, 0x36, 0x82, 0xf6, 0x94, 0x89, 0x06,
	}
	var inner []byte
	inner = append(inner, 0x10)        // varuint uuid length = 16
	inner = append(inner, rawUUID...)
	inner = append(inner, 0x01, 0x00) // author id = 1, u16 LE

	var payload []byte
	payload = append(payload, 0x01) // count = 1
	payload = append(payload, tagByte(0, tagged.TypeLength4))
	payload = append(payload, u32le(uint32(len(inner)))...)
	payload = append(payload, inner...)

	data := append(blockHeader(uint32(len(payload)), 0, 0, TypeAuthorsIDs), payload...)
	tr := newReader(data)

	block, err := Read(tr)
	require.NoError(t, err)
	authors, ok := block.(AuthorsIDsBlock)
	require.True(t, ok)
	assert.Equal(t, "495ba59f-c943-2b5c-b455-3682f6948906", authors.Authors[1])
}

func TestReadPageInfoBlockWithoutExtra(t *testing.T) {
	var payload []byte
	payload = append(payload, tagByte(1, tagged.TypeByte4)) // loads
	payload = append(payload, u32le(1)...)
	payload = append(payload, tagByte(2, tagged.TypeByte4)) // merges
	payload = append(payload, u32le(0)...)
	payload = append(payload, tagByte(3, tagged.TypeByte4)) // text_chars
	payload = append(payload, u32le(3)...)
	payload = append(payload, tagByte(4, tagged.TypeByte4)) // text_lines
	payload = append(payload, u32le(1)...)

	data := append(blockHeader(uint32(len(payload)), 0, 0, TypePageInfo), payload...)
	tr := newReader(data)

	block, err := Read(tr)
	require.NoError(t, err)
	pi, ok := block.(PageInfoBlock)
	require.True(t, ok)
	assert.Equal(t, uint32(1), pi.LoadsCount)
	assert.Equal(t, uint32(3), pi.TextCharsCount)
	assert.Nil(t, pi.Extra)
}

func TestReadSceneTreeBlock(t *testing.T) {
	var payload []byte
	payload = append(payload, tagByte(1, tagged.TypeID), 0x00, 0x0B) // tree_id=(0,11)
	payload = append(payload, tagByte(2, tagged.TypeID), 0x00, 0x00) // node_id=(0,0)
	payload = append(payload, tagByte(3, tagged.TypeByte1), 0x01)    // is_update=true

	var parentSub []byte
	parentSub = append(parentSub, tagByte(1, tagged.TypeID), 0x00, 0x01) // parent_id=(0,1)
	payload = append(payload, tagByte(4, tagged.TypeLength4))
	payload = append(payload, u32le(uint32(len(parentSub)))...)
	payload = append(payload, parentSub...)

	data := append(blockHeader(uint32(len(payload)), 0, 0, TypeSceneTree), payload...)
	tr := newReader(data)

	block, err := Read(tr)
	require.NoError(t, err)
	st, ok := block.(SceneTreeBlock)
	require.True(t, ok)
	assert.Equal(t, uint32(11), st.TreeID.Part2)
	assert.True(t, st.IsUpdate)
	assert.Equal(t, uint32(1), st.ParentID.Part2)
}

func TestBlockSizeMismatchIsInvalidInput(t *testing.T) {
	var payload []byte
	payload = append(payload, tagByte(1, tagged.TypeID), 0x00, 0x0B)
	payload = append(payload, tagByte(2, tagged.TypeID), 0x00, 0x00)
	payload = append(payload, tagByte(3, tagged.TypeByte1), 0x01)

	var parentSub []byte
	parentSub = append(parentSub, tagByte(1, tagged.TypeID), 0x00, 0x01)
	payload = append(payload, tagByte(4, tagged.TypeLength4))
	payload = append(payload, u32le(uint32(len(parentSub)))...)
	payload = append(payload, parentSub...)

	// Declare a size one byte too long (S3): readSceneTree has no
	// optional trailing field, so the extra byte is never consumed.
	data := append(blockHeader(uint32(len(payload))+1, 0, 0, TypeSceneTree), payload...)
	data = append(data, 0xFF)
	tr := newReader(data)

	_, err := Read(tr)
	require.Error(t, err)
	assert.True(t, rmerr.Is(err, rmerr.KindInvalidInput))
}

func TestReadLineRejectsNonMultiplePointSize(t *testing.T) {
	var payload []byte
	payload = append(payload, tagByte(1, tagged.TypeByte4))
	payload = append(payload, u32le(0)...) // tool
	payload = append(payload, tagByte(2, tagged.TypeByte4))
	payload = append(payload, u32le(0)...) // color
	payload = append(payload, tagByte(3, tagged.TypeByte8))
	payload = append(payload, make([]byte, 8)...) // thickness_scale
	payload = append(payload, tagByte(4, tagged.TypeByte4))
	payload = append(payload, make([]byte, 4)...) // starting_length

	// Points subblock (v2 point size is 14): declare a length not a multiple of 14.
	payload = append(payload, tagByte(5, tagged.TypeLength4))
	payload = append(payload, u32le(5)...)
	payload = append(payload, make([]byte, 5)...)

	tr := newReader(payload)
	_, err := readLine(tr, 2)
	require.Error(t, err)
	assert.True(t, rmerr.Is(err, rmerr.KindInvalidInput))
}

func TestReadPointV2(t *testing.T) {
	var data []byte
	data = append(data, floatBytes(1.5)...)
	data = append(data, floatBytes(2.5)...)
	data = append(data, u16le(100)...) // speed
	data = append(data, u16le(50)...)  // width
	data = append(data, 200, 10)       // direction, pressure

	r := bytestream.New(data)
	tr := tagged.New(r)
	p, err := readPoint(tr, 2)
	require.NoError(t, err)
	assert.Equal(t, float32(1.5), p.X)
	assert.Equal(t, float32(2.5), p.Y)
	assert.Equal(t, float32(100), p.Speed)
	assert.Equal(t, float32(50), p.Width)
	assert.Equal(t, float32(200), p.Direction)
	assert.Equal(t, float32(10), p.Pressure)
}

func floatBytes(f float32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, math.Float32bits(f))
	return b
}

func u16le(v uint16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)
	return b
}
