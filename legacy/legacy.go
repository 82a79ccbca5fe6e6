// Package legacy reads the flat page/layer/line/point body used by
// format versions 3 through 5, before the tagged-block stream was
// introduced in version 6.
package legacy

import (
	"github.com/ctw00272/rmlines/bytestream"
	"github.com/ctw00272/rmlines/model"
	"github.com/ctw00272/rmlines/rmerr"
)

// Page is a top-level page: an ordered list of layers.
type Page struct {
	Layers []Layer
}

// Layer is a grouping of lines within a page.
type Layer struct {
	Lines []Line
}

// Line is a single stroke: its tool, color, brush size, and points.
type Line struct {
	Tool      model.Tool
	Color     model.PenColor
	BrushSize float32
	Points    []Point
}

// Point is a legacy sample: six f32 fields, always in the v1/native
// six-field shape regardless of version — legacy files predate the
// v6 point-encoding split.
type Point struct {
	X, Y, Speed, Direction, Width, Pressure float32
}

// legacyColors restricts PenColor to the subset the original v3/v5
// readers accepted (§6): Black, Grey, White, Blue, Red.
var legacyColors = map[uint32]bool{0: true, 1: true, 2: true, 6: true, 7: true}

// Read parses a v3/v5 body: versions 3 and 4 and 5 each carry exactly
// one implied page (the page count is only present for versions below
// 3, which this reader does not accept as a top-level dispatch target).
func Read(r *bytestream.Reader, version uint32) ([]Page, error) {
	page, err := readPage(r, version)
	if err != nil {
		return nil, err
	}
	return []Page{page}, nil
}

func readPage(r *bytestream.Reader, version uint32) (Page, error) {
	numLayers, err := r.ReadU32()
	if err != nil {
		return Page{}, err
	}
	layers := make([]Layer, numLayers)
	for i := range layers {
		layer, err := readLayer(r, version)
		if err != nil {
			return Page{}, err
		}
		layers[i] = layer
	}
	return Page{Layers: layers}, nil
}

func readLayer(r *bytestream.Reader, version uint32) (Layer, error) {
	numLines, err := r.ReadU32()
	if err != nil {
		return Layer{}, err
	}
	lines := make([]Line, numLines)
	for i := range lines {
		line, err := readLine(r, version)
		if err != nil {
			return Layer{}, err
		}
		lines[i] = line
	}
	return Layer{Lines: lines}, nil
}

func readLine(r *bytestream.Reader, version uint32) (Line, error) {
	toolWire, err := r.ReadU32()
	if err != nil {
		return Line{}, err
	}
	tool, err := model.ToolFromWire(toolWire)
	if err != nil {
		return Line{}, err
	}

	colorWire, err := r.ReadU32()
	if err != nil {
		return Line{}, err
	}
	if !legacyColors[colorWire] {
		return Line{}, rmerr.Invalid("legacy line color %d is not one of the accepted legacy colors", colorWire)
	}
	color := model.PenColor(colorWire)

	if _, err := r.ReadU32(); err != nil { // unknown value, discarded
		return Line{}, err
	}

	brushSize, err := r.ReadF32()
	if err != nil {
		return Line{}, err
	}

	if version >= 5 {
		if _, err := r.ReadU32(); err != nil { // unknown value, discarded (§9(c))
			return Line{}, err
		}
	}

	numPoints, err := r.ReadU32()
	if err != nil {
		return Line{}, err
	}
	points := make([]Point, numPoints)
	for i := range points {
		p, err := readPoint(r)
		if err != nil {
			return Line{}, err
		}
		points[i] = p
	}

	return Line{Tool: tool, Color: color, BrushSize: brushSize, Points: points}, nil
}

func readPoint(r *bytestream.Reader) (Point, error) {
	x, err := r.ReadF32()
	if err != nil {
		return Point{}, err
	}
	y, err := r.ReadF32()
	if err != nil {
		return Point{}, err
	}
	speed, err := r.ReadF32()
	if err != nil {
		return Point{}, err
	}
	direction, err := r.ReadF32()
	if err != nil {
		return Point{}, err
	}
	width, err := r.ReadF32()
	if err != nil {
		return Point{}, err
	}
	pressure, err := r.ReadF32()
	if err != nil {
		return Point{}, err
	}
	return Point{X: x, Y: y, Speed: speed, Direction: direction, Width: width, Pressure: pressure}, nil
}
