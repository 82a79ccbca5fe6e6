// Package model holds the closed enumerations and payload value types
// carried by scene items and blocks: pen colors, tools, paragraph
// styles, stroke points, lines, glyph ranges, and text.
package model

import (
	"fmt"

	"github.com/ctw00272/rmlines/crdt"
	"github.com/ctw00272/rmlines/rmerr"
)

// PenColor is a closed enumeration of the colors a stroke can be drawn in.
type PenColor uint32

const (
	ColorBlack PenColor = iota
	ColorGrey
	ColorWhite
	ColorYellow
	ColorGreen
	ColorPink
	ColorBlue
	ColorRed
	ColorGreyOverlap
)

func (c PenColor) String() string {
	switch c {
	case ColorBlack:
		return "Black"
	case ColorGrey:
		return "Grey"
	case ColorWhite:
		return "White"
	case ColorYellow:
		return "Yellow"
	case ColorGreen:
		return "Green"
	case ColorPink:
		return "Pink"
	case ColorBlue:
		return "Blue"
	case ColorRed:
		return "Red"
	case ColorGreyOverlap:
		return "GreyOverlap"
	default:
		return fmt.Sprintf("PenColor(%d)", uint32(c))
	}
}

// Tool is a closed enumeration of the drawing/erasing tools a line can
// be attributed to. Several wire values alias the same semantic tool
// across format generations (e.g. two generations of Fineliner).
type Tool uint32

const (
	ToolBrush Tool = iota
	ToolPencil
	ToolBallPoint
	ToolMarker
	ToolFineLiner
	ToolHighlighter
	ToolEraser
	ToolMechanicalPencil
	ToolEraseArea
	ToolEraseAll
	ToolSelectionBrush
	ToolCalligraphy
)

// toolWireValues maps every known wire encoding to its semantic Tool.
var toolWireValues = map[uint32]Tool{
	0x00: ToolBrush, 0x0c: ToolBrush,
	0x01: ToolPencil, 0x0e: ToolPencil,
	0x02: ToolBallPoint, 0x0f: ToolBallPoint,
	0x03: ToolMarker, 0x10: ToolMarker,
	0x04: ToolFineLiner, 0x11: ToolFineLiner,
	0x05: ToolHighlighter, 0x12: ToolHighlighter,
	0x06: ToolEraser,
	0x07: ToolMechanicalPencil, 0x0d: ToolMechanicalPencil,
	0x08: ToolEraseArea,
	0x09: ToolEraseAll,
	0x0a: ToolSelectionBrush, 0x0b: ToolSelectionBrush,
	0x15: ToolCalligraphy,
}

// ToolFromWire maps a raw wire value to a Tool.
func ToolFromWire(v uint32) (Tool, error) {
	t, ok := toolWireValues[v]
	if !ok {
		return 0, rmerr.Invalid("unknown tool wire value 0x%x", v)
	}
	return t, nil
}

// IsHighlighter reports whether t is either highlighter generation.
func (t Tool) IsHighlighter() bool {
	return t == ToolHighlighter
}

// ParagraphStyle is a closed enumeration of text paragraph styles.
type ParagraphStyle uint32

const (
	StyleBasic ParagraphStyle = iota
	StylePlain
	StyleHeading
	StyleBold
	StyleBullet
	StyleBullet2
)

// ParagraphStyleFromWire maps the wire byte 0..=5 to a ParagraphStyle.
func ParagraphStyleFromWire(v uint8) (ParagraphStyle, error) {
	if v > uint8(StyleBullet2) {
		return 0, rmerr.Invalid("unknown paragraph style wire value %d", v)
	}
	return ParagraphStyle(v), nil
}

// Point is a single sample along a stroke.
type Point struct {
	X         float32
	Y         float32
	Speed     float32
	Direction float32
	Width     float32
	Pressure  float32
}

// Line is a drawn stroke: a tool/color pair, thickness parameters, and
// its sampled points.
type Line struct {
	Tool           Tool
	Color          PenColor
	ThicknessScale float64
	StartingLength float32
	Points         []Point
	Timestamp      crdt.ID
}

// Rectangle is an axis-aligned box, used by GlyphRange to record the
// on-page rectangles a highlighted text run covers.
type Rectangle struct {
	X, Y, W, H float64
}

// GlyphRange represents a run of highlighted text anchored to a PDF.
type GlyphRange struct {
	Start      uint32
	Length     uint32
	Text       string
	Color      PenColor
	Rectangles []Rectangle
}

// TextItem is one element of a Text's CRDT sequence: either a literal
// run of text or a formatting directive.
type TextItem interface {
	isTextItem()
}

// TextRun is a TextItem holding literal text.
type TextRun struct {
	Text string
}

func (TextRun) isTextItem() {}

// FormatCode is a TextItem holding a formatting directive.
type FormatCode struct {
	Code uint32
}

func (FormatCode) isTextItem() {}

// Text is the editable text CRDT: an ordered sequence of text items, a
// style map keyed by CrdtId, and the text box's position and width.
type Text struct {
	Items  *crdt.Sequence[TextItem]
	Styles map[crdt.ID]crdt.Lww[ParagraphStyle]
	X      float64
	Y      float64
	Width  float32
}
