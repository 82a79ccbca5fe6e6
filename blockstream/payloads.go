package blockstream

import (
	"github.com/ctw00272/rmlines/rmerr"
	"github.com/ctw00272/rmlines/tagged"
)

// readMigrationInfo: id(1)=migration_id; u8(2)=is_device; tolerates one
// trailing byte if the declared block size has not yet been consumed.
func readMigrationInfo(tr *tagged.Reader, info Info) (Block, error) {
	migrationID, err := tr.ReadID(1)
	if err != nil {
		return nil, err
	}
	isDevice, err := tr.ReadU8(2)
	if err != nil {
		return nil, err
	}

	if hasBytesRemaining(tr, info) {
		if _, err := tr.Bytes.ReadU8(); err != nil {
			return nil, err
		}
	}

	return MigrationInfoBlock{MigrationID: migrationID, IsDevice: isDevice != 0}, nil
}

// readAuthorsIDs: varuint count N, then N subblocks each holding a
// varuint-length UUID and a u16 author id.
func readAuthorsIDs(tr *tagged.Reader) (Block, error) {
	count, err := tr.Bytes.ReadVarUint()
	if err != nil {
		return nil, err
	}

	authors := make(map[uint16]string, count)
	for i := uint32(0); i < count; i++ {
		sub, err := tr.ReadSubblock(0)
		if err != nil {
			return nil, err
		}
		uuid, err := tr.Bytes.ReadUUID()
		if err != nil {
			return nil, err
		}
		authorID, err := tr.Bytes.ReadU16()
		if err != nil {
			return nil, err
		}
		if err := sub.ValidateSize(tr.Bytes); err != nil {
			return nil, err
		}
		authors[authorID] = uuid
	}

	return AuthorsIDsBlock{Authors: authors}, nil
}

// readPageInfo: u32(1..4)=loads/merges/text_chars/text_lines; optional u32(5).
func readPageInfo(tr *tagged.Reader, info Info) (Block, error) {
	loads, err := tr.ReadU32(1)
	if err != nil {
		return nil, err
	}
	merges, err := tr.ReadU32(2)
	if err != nil {
		return nil, err
	}
	textChars, err := tr.ReadU32(3)
	if err != nil {
		return nil, err
	}
	textLines, err := tr.ReadU32(4)
	if err != nil {
		return nil, err
	}

	var extra *uint32
	if hasBytesRemaining(tr, info) {
		v, err := tr.ReadU32(5)
		if err != nil {
			return nil, err
		}
		extra = &v
	}

	return PageInfoBlock{
		LoadsCount:     loads,
		MergesCount:    merges,
		TextCharsCount: textChars,
		TextLinesCount: textLines,
		Extra:          extra,
	}, nil
}

// readSceneTree: id(1)=tree_id; id(2)=node_id; bool(3)=is_update;
// subblock(4) containing id(1)=parent_id.
func readSceneTree(tr *tagged.Reader) (Block, error) {
	treeID, err := tr.ReadID(1)
	if err != nil {
		return nil, err
	}
	nodeID, err := tr.ReadID(2)
	if err != nil {
		return nil, err
	}
	isUpdate, err := tr.ReadBool(3)
	if err != nil {
		return nil, err
	}

	sub, err := tr.ReadSubblock(4)
	if err != nil {
		return nil, err
	}
	parentID, err := tr.ReadID(1)
	if err != nil {
		return nil, err
	}
	if err := sub.ValidateSize(tr.Bytes); err != nil {
		return nil, err
	}

	return SceneTreeBlock{TreeID: treeID, NodeID: nodeID, IsUpdate: isUpdate, ParentID: parentID}, nil
}

// readTreeNode: id(1)=node_id; lww_string(2)=label; lww_bool(3)=visible;
// if bytes remain: lww_id(7), lww_u8(8), lww_f32(9), lww_f32(10).
func readTreeNode(tr *tagged.Reader, info Info) (Block, error) {
	nodeID, err := tr.ReadID(1)
	if err != nil {
		return nil, err
	}
	label, err := tr.ReadLwwString(2)
	if err != nil {
		return nil, err
	}
	visible, err := tr.ReadLwwBool(3)
	if err != nil {
		return nil, err
	}

	group := TreeNodeGroup{NodeID: nodeID, Label: label, Visible: visible}

	if hasBytesRemaining(tr, info) {
		anchorID, err := tr.ReadLwwID(7)
		if err != nil {
			return nil, err
		}
		anchorType, err := tr.ReadLwwU8(8)
		if err != nil {
			return nil, err
		}
		anchorThreshold, err := tr.ReadLwwFloat(9)
		if err != nil {
			return nil, err
		}
		anchorOriginX, err := tr.ReadLwwFloat(10)
		if err != nil {
			return nil, err
		}
		group.AnchorID = &anchorID
		group.AnchorType = &anchorType
		group.AnchorThreshold = &anchorThreshold
		group.AnchorOriginX = &anchorOriginX
	}

	return TreeNodeBlock{Group: group}, nil
}

func unexpectedSceneItemType(got, want uint8) error {
	return rmerr.Invalid("scene item type mismatch: got %d, expected %d", got, want)
}
