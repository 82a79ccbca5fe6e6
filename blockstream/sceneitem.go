package blockstream

import (
	"github.com/ctw00272/rmlines/crdt"
	"github.com/ctw00272/rmlines/model"
	"github.com/ctw00272/rmlines/tagged"
)

// readSceneItem implements the shared SceneItemBlock<T> framing (§4.4):
// id(1)=parent_id; id(2)=item_id; id(3)=left_id; id(4)=right_id;
// u32(5)=deleted_length. If a subblock is present at index 6, its first
// byte is a scene-item-type discriminator that must match wantType,
// followed by the payload parsed with readValue.
func readSceneItem[T any](tr *tagged.Reader, wantType uint8, readValue func(*tagged.Reader) (T, error)) (SceneItemBlock[T], error) {
	parentID, err := tr.ReadID(1)
	if err != nil {
		return SceneItemBlock[T]{}, err
	}
	itemID, err := tr.ReadID(2)
	if err != nil {
		return SceneItemBlock[T]{}, err
	}
	leftID, err := tr.ReadID(3)
	if err != nil {
		return SceneItemBlock[T]{}, err
	}
	rightID, err := tr.ReadID(4)
	if err != nil {
		return SceneItemBlock[T]{}, err
	}
	deletedLength, err := tr.ReadU32(5)
	if err != nil {
		return SceneItemBlock[T]{}, err
	}

	var value *T
	if tr.HasSubblock(6) {
		sub, err := tr.ReadSubblock(6)
		if err != nil {
			return SceneItemBlock[T]{}, err
		}
		gotType, err := tr.Bytes.ReadU8()
		if err != nil {
			return SceneItemBlock[T]{}, err
		}
		if gotType != wantType {
			return SceneItemBlock[T]{}, unexpectedSceneItemType(gotType, wantType)
		}
		v, err := readValue(tr)
		if err != nil {
			return SceneItemBlock[T]{}, err
		}
		if err := sub.ValidateSize(tr.Bytes); err != nil {
			return SceneItemBlock[T]{}, err
		}
		value = &v
	}

	return SceneItemBlock[T]{
		ParentID: parentID,
		Item: crdt.SequenceItem[*T]{
			ItemID:        itemID,
			LeftID:        leftID,
			RightID:       rightID,
			DeletedLength: deletedLength,
			Value:         value,
		},
	}, nil
}

func readSceneGlyphItem(tr *tagged.Reader) (Block, error) {
	b, err := readSceneItem[model.GlyphRange](tr, sceneItemGlyph, readGlyphRange)
	if err != nil {
		return nil, err
	}
	return SceneGlyphItemBlock{b}, nil
}

// readSceneGroupItem's payload is a bare id(2): the CrdtId of the child
// group this item references (§4.3, SceneGroupItem row).
func readSceneGroupItem(tr *tagged.Reader) (Block, error) {
	b, err := readSceneItem[crdt.ID](tr, sceneItemGroup, func(tr *tagged.Reader) (crdt.ID, error) {
		return tr.ReadID(2)
	})
	if err != nil {
		return nil, err
	}
	return SceneGroupItemBlock{b}, nil
}

func readSceneLineItem(tr *tagged.Reader, version uint8) (Block, error) {
	b, err := readSceneItem[model.Line](tr, sceneItemLine, func(tr *tagged.Reader) (model.Line, error) {
		line, err := readLine(tr, version)
		if err != nil {
			return model.Line{}, err
		}
		return *line, nil
	})
	if err != nil {
		return nil, err
	}
	return SceneLineItemBlock{b}, nil
}

func readSceneTextItem(tr *tagged.Reader) (Block, error) {
	b, err := readSceneItem[model.Text](tr, sceneItemText, func(tr *tagged.Reader) (model.Text, error) {
		text, err := readText(tr)
		if err != nil {
			return model.Text{}, err
		}
		return *text, nil
	})
	if err != nil {
		return nil, err
	}
	return SceneTextItemBlock{b}, nil
}

func readRootText(tr *tagged.Reader) (Block, error) {
	blockID, err := tr.ReadID(1)
	if err != nil {
		return nil, err
	}
	text, err := readText(tr)
	if err != nil {
		return nil, err
	}
	return RootTextBlock{BlockID: blockID, Text: text}, nil
}
