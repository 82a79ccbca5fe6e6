package blockstream

import (
	"github.com/ctw00272/rmlines/crdt"
	"github.com/ctw00272/rmlines/model"
	"github.com/ctw00272/rmlines/tagged"
)

// readText parses a Text payload (§4.6): a nested pair of subblocks for
// the CRDT text-item sequence and the paragraph style map, followed by
// the text box's position and width.
func readText(tr *tagged.Reader) (*model.Text, error) {
	outer, err := tr.ReadSubblock(2)
	if err != nil {
		return nil, err
	}

	items, err := readTextItems(tr)
	if err != nil {
		return nil, err
	}

	styles, err := readTextStyles(tr)
	if err != nil {
		return nil, err
	}

	if err := outer.ValidateSize(tr.Bytes); err != nil {
		return nil, err
	}

	posSub, err := tr.ReadSubblock(3)
	if err != nil {
		return nil, err
	}
	x, err := tr.Bytes.ReadF64()
	if err != nil {
		return nil, err
	}
	y, err := tr.Bytes.ReadF64()
	if err != nil {
		return nil, err
	}
	if err := posSub.ValidateSize(tr.Bytes); err != nil {
		return nil, err
	}

	width, err := tr.ReadF32(4)
	if err != nil {
		return nil, err
	}

	return &model.Text{Items: items, Styles: styles, X: x, Y: y, Width: width}, nil
}

// readTextItems parses SB(1){ SB(1){ varuint N; N × SB(0){...} } }.
func readTextItems(tr *tagged.Reader) (*crdt.Sequence[model.TextItem], error) {
	wrap, err := tr.ReadSubblock(1)
	if err != nil {
		return nil, err
	}
	inner, err := tr.ReadSubblock(1)
	if err != nil {
		return nil, err
	}

	count, err := tr.Bytes.ReadVarUint()
	if err != nil {
		return nil, err
	}

	items := crdt.NewSequence[model.TextItem]()
	for i := uint32(0); i < count; i++ {
		item, err := readTextSequenceItem(tr)
		if err != nil {
			return nil, err
		}
		items.Add(item)
	}

	if err := inner.ValidateSize(tr.Bytes); err != nil {
		return nil, err
	}
	if err := wrap.ValidateSize(tr.Bytes); err != nil {
		return nil, err
	}

	return items, nil
}

// readTextSequenceItem parses one SB(0){...} text-item entry: CRDT
// sequence position followed by either a formatted run or a plain run.
func readTextSequenceItem(tr *tagged.Reader) (crdt.SequenceItem[model.TextItem], error) {
	sub, err := tr.ReadSubblock(0)
	if err != nil {
		return crdt.SequenceItem[model.TextItem]{}, err
	}

	itemID, err := tr.ReadID(2)
	if err != nil {
		return crdt.SequenceItem[model.TextItem]{}, err
	}
	leftID, err := tr.ReadID(3)
	if err != nil {
		return crdt.SequenceItem[model.TextItem]{}, err
	}
	rightID, err := tr.ReadID(4)
	if err != nil {
		return crdt.SequenceItem[model.TextItem]{}, err
	}
	deletedLength, err := tr.ReadU32(5)
	if err != nil {
		return crdt.SequenceItem[model.TextItem]{}, err
	}

	var value model.TextItem = model.TextRun{Text: ""}
	if tr.HasSubblock(6) {
		inner, err := tr.ReadSubblock(6)
		if err != nil {
			return crdt.SequenceItem[model.TextItem]{}, err
		}
		length, err := tr.Bytes.ReadVarUint()
		if err != nil {
			return crdt.SequenceItem[model.TextItem]{}, err
		}
		if _, err := tr.Bytes.ReadBool(); err != nil { // is_ascii: opaque, unvalidated
			return crdt.SequenceItem[model.TextItem]{}, err
		}
		text, err := tr.Bytes.ReadString(int(length))
		if err != nil {
			return crdt.SequenceItem[model.TextItem]{}, err
		}

		if tr.HasTag(2, tagged.TypeByte4) {
			fmtCode, err := tr.ReadU32(2)
			if err != nil {
				return crdt.SequenceItem[model.TextItem]{}, err
			}
			value = model.FormatCode{Code: fmtCode}
		} else {
			value = model.TextRun{Text: text}
		}

		if err := inner.ValidateSize(tr.Bytes); err != nil {
			return crdt.SequenceItem[model.TextItem]{}, err
		}
	}

	if err := sub.ValidateSize(tr.Bytes); err != nil {
		return crdt.SequenceItem[model.TextItem]{}, err
	}

	return crdt.SequenceItem[model.TextItem]{
		ItemID:        itemID,
		LeftID:        leftID,
		RightID:       rightID,
		DeletedLength: deletedLength,
		Value:         value,
	}, nil
}

// readTextStyles parses SB(2){ SB(1){ varuint M; M × { CrdtId; id(1)=timestamp; SB(2){ u8 _c; u8 style } } } }.
func readTextStyles(tr *tagged.Reader) (map[crdt.ID]crdt.Lww[model.ParagraphStyle], error) {
	wrap, err := tr.ReadSubblock(2)
	if err != nil {
		return nil, err
	}
	inner, err := tr.ReadSubblock(1)
	if err != nil {
		return nil, err
	}

	count, err := tr.Bytes.ReadVarUint()
	if err != nil {
		return nil, err
	}

	styles := make(map[crdt.ID]crdt.Lww[model.ParagraphStyle], count)
	for i := uint32(0); i < count; i++ {
		charID, style, err := readTextFormat(tr)
		if err != nil {
			return nil, err
		}
		styles[charID] = style
	}

	if err := inner.ValidateSize(tr.Bytes); err != nil {
		return nil, err
	}
	if err := wrap.ValidateSize(tr.Bytes); err != nil {
		return nil, err
	}

	return styles, nil
}

func readTextFormat(tr *tagged.Reader) (crdt.ID, crdt.Lww[model.ParagraphStyle], error) {
	part1, err := tr.Bytes.ReadU8()
	if err != nil {
		return crdt.ID{}, crdt.Lww[model.ParagraphStyle]{}, err
	}
	part2, err := tr.Bytes.ReadVarUint()
	if err != nil {
		return crdt.ID{}, crdt.Lww[model.ParagraphStyle]{}, err
	}
	charID := crdt.ID{Part1: part1, Part2: part2}

	timestamp, err := tr.ReadID(1)
	if err != nil {
		return crdt.ID{}, crdt.Lww[model.ParagraphStyle]{}, err
	}

	sub, err := tr.ReadSubblock(2)
	if err != nil {
		return crdt.ID{}, crdt.Lww[model.ParagraphStyle]{}, err
	}
	if _, err := tr.Bytes.ReadU8(); err != nil { // undocumented stray byte, discarded per spec §9(d)
		return crdt.ID{}, crdt.Lww[model.ParagraphStyle]{}, err
	}
	styleWire, err := tr.Bytes.ReadU8()
	if err != nil {
		return crdt.ID{}, crdt.Lww[model.ParagraphStyle]{}, err
	}
	style, err := model.ParagraphStyleFromWire(styleWire)
	if err != nil {
		return crdt.ID{}, crdt.Lww[model.ParagraphStyle]{}, err
	}
	if err := sub.ValidateSize(tr.Bytes); err != nil {
		return crdt.ID{}, crdt.Lww[model.ParagraphStyle]{}, err
	}

	return charID, crdt.Lww[model.ParagraphStyle]{Timestamp: timestamp, Value: style}, nil
}
