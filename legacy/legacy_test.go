package legacy

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/ctw00272/rmlines/bytestream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func u32le(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func f32le(f float32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, math.Float32bits(f))
	return b
}

func TestReadLegacyOnePageOneLayerOneLine(t *testing.T) {
	var points []byte
	for i := 0; i < 3; i++ {
		points = append(points, f32le(1)...)
		points = append(points, f32le(2)...)
		points = append(points, f32le(3)...)
		points = append(points, f32le(4)...)
		points = append(points, f32le(5)...)
		points = append(points, f32le(6)...)
	}

	var line []byte
	line = append(line, u32le(0)...) // tool=Brush
	line = append(line, u32le(1)...) // color=Grey (legacy-accepted)
	line = append(line, u32le(0)...) // unknown, discarded
	line = append(line, f32le(2.5)...)
	line = append(line, u32le(0)...) // v>=5 unknown, discarded
	line = append(line, u32le(3)...) // 3 points
	line = append(line, points...)

	var layer []byte
	layer = append(layer, u32le(1)...) // 1 line
	layer = append(layer, line...)

	var page []byte
	page = append(page, u32le(1)...) // 1 layer
	page = append(page, layer...)

	r := bytestream.New(page)
	pages, err := Read(r, 5)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	require.Len(t, pages[0].Layers, 1)
	require.Len(t, pages[0].Layers[0].Lines, 1)
	assert.Len(t, pages[0].Layers[0].Lines[0].Points, 3)
	assert.Equal(t, float32(2.5), pages[0].Layers[0].Lines[0].BrushSize)
}

func TestReadLegacyRejectsDisallowedColor(t *testing.T) {
	var line []byte
	line = append(line, u32le(0)...) // tool
	line = append(line, u32le(3)...) // color=Yellow, not legacy-accepted
	line = append(line, u32le(0)...)
	line = append(line, f32le(1)...)
	line = append(line, u32le(0)...)
	line = append(line, u32le(0)...) // 0 points

	var layer []byte
	layer = append(layer, u32le(1)...)
	layer = append(layer, line...)

	var page []byte
	page = append(page, u32le(1)...)
	page = append(page, layer...)

	r := bytestream.New(page)
	_, err := Read(r, 5)
	require.Error(t, err)
}
