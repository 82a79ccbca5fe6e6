package blockstream

import (
	"math"

	"github.com/ctw00272/rmlines/model"
	"github.com/ctw00272/rmlines/rmerr"
	"github.com/ctw00272/rmlines/tagged"
)

// Point wire sizes per format version (§4.5).
const (
	pointSizeV1 = 24
	pointSizeV2 = 14
)

// readLine parses a Line scene item payload: u32(1)=tool, u32(2)=color,
// f64(3)=thickness_scale, f32(4)=starting_length, subblock(5) of points
// sized by the containing block's current_version, then id(6)=timestamp.
func readLine(tr *tagged.Reader, version uint8) (*model.Line, error) {
	toolWire, err := tr.ReadU32(1)
	if err != nil {
		return nil, err
	}
	tool, err := model.ToolFromWire(toolWire)
	if err != nil {
		return nil, err
	}

	colorWire, err := tr.ReadU32(2)
	if err != nil {
		return nil, err
	}

	thicknessScale, err := tr.ReadF64(3)
	if err != nil {
		return nil, err
	}

	startingLength, err := tr.ReadF32(4)
	if err != nil {
		return nil, err
	}

	sub, err := tr.ReadSubblock(5)
	if err != nil {
		return nil, err
	}

	pointSize := pointSizeV2
	if version == 1 {
		pointSize = pointSizeV1
	}
	if sub.Length()%uint32(pointSize) != 0 {
		return nil, rmerr.Invalid("line points subblock length %d is not a multiple of point size %d", sub.Length(), pointSize)
	}
	numPoints := int(sub.Length()) / pointSize

	points := make([]model.Point, numPoints)
	for i := 0; i < numPoints; i++ {
		p, err := readPoint(tr, version)
		if err != nil {
			return nil, err
		}
		points[i] = p
	}
	if err := sub.ValidateSize(tr.Bytes); err != nil {
		return nil, err
	}

	timestamp, err := tr.ReadID(6)
	if err != nil {
		return nil, err
	}

	return &model.Line{
		Tool:           tool,
		Color:          model.PenColor(colorWire),
		ThicknessScale: thicknessScale,
		StartingLength: startingLength,
		Points:         points,
		Timestamp:      timestamp,
	}, nil
}

// readPoint decodes a single Point. v1 uses six f32 fields with scaling
// applied to widen them to the v2 representation; v2 stores them
// natively in their final units.
func readPoint(tr *tagged.Reader, version uint8) (model.Point, error) {
	x, err := tr.Bytes.ReadF32()
	if err != nil {
		return model.Point{}, err
	}
	y, err := tr.Bytes.ReadF32()
	if err != nil {
		return model.Point{}, err
	}

	if version == 1 {
		speed, err := tr.Bytes.ReadF32()
		if err != nil {
			return model.Point{}, err
		}
		direction, err := tr.Bytes.ReadF32()
		if err != nil {
			return model.Point{}, err
		}
		width, err := tr.Bytes.ReadF32()
		if err != nil {
			return model.Point{}, err
		}
		pressure, err := tr.Bytes.ReadF32()
		if err != nil {
			return model.Point{}, err
		}
		return model.Point{
			X:         x,
			Y:         y,
			Speed:     speed * 4,
			Direction: float32(255) * direction / (2 * math.Pi),
			Width:     width * 4,
			Pressure:  pressure * 255,
		}, nil
	}

	speed, err := tr.Bytes.ReadU16()
	if err != nil {
		return model.Point{}, err
	}
	width, err := tr.Bytes.ReadU16()
	if err != nil {
		return model.Point{}, err
	}
	direction, err := tr.Bytes.ReadU8()
	if err != nil {
		return model.Point{}, err
	}
	pressure, err := tr.Bytes.ReadU8()
	if err != nil {
		return model.Point{}, err
	}

	return model.Point{
		X:         x,
		Y:         y,
		Speed:     float32(speed),
		Direction: float32(direction),
		Width:     float32(width),
		Pressure:  float32(pressure),
	}, nil
}
