package blockstream

import (
	"github.com/ctw00272/rmlines/model"
	"github.com/ctw00272/rmlines/tagged"
)

// readGlyphRange parses a GlyphRange payload: u32(2)=start, u32(3)=length,
// u32(4)=color, string(5)=text, subblock(6) of (x,y,w,h: f64) rectangles.
func readGlyphRange(tr *tagged.Reader) (model.GlyphRange, error) {
	start, err := tr.ReadU32(2)
	if err != nil {
		return model.GlyphRange{}, err
	}
	length, err := tr.ReadU32(3)
	if err != nil {
		return model.GlyphRange{}, err
	}
	colorWire, err := tr.ReadU32(4)
	if err != nil {
		return model.GlyphRange{}, err
	}
	text, err := tr.ReadString(5)
	if err != nil {
		return model.GlyphRange{}, err
	}

	sub, err := tr.ReadSubblock(6)
	if err != nil {
		return model.GlyphRange{}, err
	}
	count, err := tr.Bytes.ReadVarUint()
	if err != nil {
		return model.GlyphRange{}, err
	}
	rects := make([]model.Rectangle, count)
	for i := range rects {
		x, err := tr.Bytes.ReadF64()
		if err != nil {
			return model.GlyphRange{}, err
		}
		y, err := tr.Bytes.ReadF64()
		if err != nil {
			return model.GlyphRange{}, err
		}
		w, err := tr.Bytes.ReadF64()
		if err != nil {
			return model.GlyphRange{}, err
		}
		h, err := tr.Bytes.ReadF64()
		if err != nil {
			return model.GlyphRange{}, err
		}
		rects[i] = model.Rectangle{X: x, Y: y, W: w, H: h}
	}
	if err := sub.ValidateSize(tr.Bytes); err != nil {
		return model.GlyphRange{}, err
	}

	return model.GlyphRange{
		Start:      start,
		Length:     length,
		Text:       text,
		Color:      model.PenColor(colorWire),
		Rectangles: rects,
	}, nil
}
