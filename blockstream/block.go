// Package blockstream frames and dispatches the top-level blocks of a
// v6 tagged-block stream: size/version header, per-type payload parser,
// and byte-exact size accounting.
package blockstream

import (
	"github.com/ctw00272/rmlines/crdt"
	"github.com/ctw00272/rmlines/model"
	"github.com/ctw00272/rmlines/rmerr"
	"github.com/ctw00272/rmlines/tagged"
)

// Block type codes, per the v6 wire format.
const (
	TypeMigrationInfo  = 0x00
	TypeSceneTree      = 0x01
	TypeTreeNode       = 0x02
	TypeSceneGlyphItem = 0x03
	TypeSceneGroupItem = 0x04
	TypeSceneLineItem  = 0x05
	TypeSceneTextItem  = 0x06
	TypeRootText       = 0x07
	TypeAuthorsIDs     = 0x09
	TypePageInfo       = 0x0A
)

// Scene-item type discriminators read from inside a scene item's subblock.
const (
	sceneItemGlyph = 1
	sceneItemGroup = 2
	sceneItemLine  = 3
	sceneItemText  = 5
)

// Info is the decoded block header: size and version fields, captured
// before dispatching to the payload parser.
type Info struct {
	Size           uint32
	MinVersion     uint8
	CurrentVersion uint8
	BlockType      uint8
	// PayloadEnd is the absolute offset one past the block's declared
	// payload, used by payload parsers that need to know whether an
	// optional trailing field is present.
	PayloadEnd int64
}

// Block is the closed tagged union of every block type the v6 stream
// can carry.
type Block interface {
	isBlock()
}

type MigrationInfoBlock struct {
	MigrationID crdt.ID
	IsDevice    bool
}

func (MigrationInfoBlock) isBlock() {}

type AuthorsIDsBlock struct {
	// Authors maps an author id to the canonical UUID string identifying them.
	Authors map[uint16]string
}

func (AuthorsIDsBlock) isBlock() {}

type PageInfoBlock struct {
	LoadsCount     uint32
	MergesCount    uint32
	TextCharsCount uint32
	TextLinesCount uint32
	// Extra holds the optional trailing u32(5) field when present; its
	// semantics are undocumented upstream.
	Extra *uint32
}

func (PageInfoBlock) isBlock() {}

type SceneTreeBlock struct {
	TreeID   crdt.ID
	NodeID   crdt.ID
	IsUpdate bool
	ParentID crdt.ID
}

func (SceneTreeBlock) isBlock() {}

// TreeNodeGroup carries a TreeNodeBlock's group fields, merged into the
// scene tree's node map by the assembler.
type TreeNodeGroup struct {
	NodeID          crdt.ID
	Label           crdt.Lww[string]
	Visible         crdt.Lww[bool]
	AnchorID        *crdt.Lww[crdt.ID]
	AnchorType      *crdt.Lww[uint8]
	AnchorThreshold *crdt.Lww[float32]
	AnchorOriginX   *crdt.Lww[float32]
}

type TreeNodeBlock struct {
	Group TreeNodeGroup
}

func (TreeNodeBlock) isBlock() {}

// SceneItemBlock is the shared framing for every scene-item block:
// which parent it belongs under, plus the CRDT sequence position and
// optional payload value.
type SceneItemBlock[T any] struct {
	ParentID crdt.ID
	Item     crdt.SequenceItem[*T]
}

type SceneGlyphItemBlock struct{ SceneItemBlock[model.GlyphRange] }

func (SceneGlyphItemBlock) isBlock() {}

// SceneGroupItemBlock's payload is a CrdtId referencing another group's
// NodeID, per spec §4.3.
type SceneGroupItemBlock struct{ SceneItemBlock[crdt.ID] }

func (SceneGroupItemBlock) isBlock() {}

type SceneLineItemBlock struct{ SceneItemBlock[model.Line] }

func (SceneLineItemBlock) isBlock() {}

type SceneTextItemBlock struct{ SceneItemBlock[model.Text] }

func (SceneTextItemBlock) isBlock() {}

type RootTextBlock struct {
	BlockID crdt.ID
	Text    *model.Text
}

func (RootTextBlock) isBlock() {}

// Read frames one top-level block and dispatches to its payload parser,
// enforcing that the payload consumes exactly the declared size.
func Read(tr *tagged.Reader) (Block, error) {
	start := tr.Bytes.Position()

	size, err := tr.Bytes.ReadU32()
	if err != nil {
		return nil, err
	}
	if _, err := tr.Bytes.ReadU8(); err != nil { // reserved, discarded
		return nil, err
	}
	minVersion, err := tr.Bytes.ReadU8()
	if err != nil {
		return nil, err
	}
	currentVersion, err := tr.Bytes.ReadU8()
	if err != nil {
		return nil, err
	}
	blockType, err := tr.Bytes.ReadU8()
	if err != nil {
		return nil, err
	}

	if currentVersion < minVersion {
		return nil, rmerr.Invalid("block type 0x%02X: current_version %d < min_version %d", blockType, currentVersion, minVersion)
	}

	payloadStart := tr.Bytes.Position()
	info := Info{
		Size:           size,
		MinVersion:     minVersion,
		CurrentVersion: currentVersion,
		BlockType:      blockType,
		PayloadEnd:     payloadStart + int64(size),
	}

	block, err := dispatch(tr, info)
	if err != nil {
		return nil, err
	}

	want := payloadStart + int64(size)
	got := tr.Bytes.Position()
	if got != want {
		return nil, rmerr.Invalid("block type 0x%02X at offset %d did not consume declared size: expected to end at %d, ended at %d", blockType, start, want, got)
	}

	return block, nil
}

func dispatch(tr *tagged.Reader, info Info) (Block, error) {
	switch info.BlockType {
	case TypeMigrationInfo:
		return readMigrationInfo(tr, info)
	case TypeSceneTree:
		return readSceneTree(tr)
	case TypeTreeNode:
		return readTreeNode(tr, info)
	case TypeSceneGlyphItem:
		return readSceneGlyphItem(tr)
	case TypeSceneGroupItem:
		return readSceneGroupItem(tr)
	case TypeSceneLineItem:
		return readSceneLineItem(tr, info.CurrentVersion)
	case TypeSceneTextItem:
		return readSceneTextItem(tr)
	case TypeRootText:
		return readRootText(tr)
	case TypeAuthorsIDs:
		return readAuthorsIDs(tr)
	case TypePageInfo:
		return readPageInfo(tr, info)
	default:
		return nil, rmerr.Invalid("unknown block type 0x%02X", info.BlockType)
	}
}

func hasBytesRemaining(tr *tagged.Reader, info Info) bool {
	return tr.Bytes.Position() < info.PayloadEnd
}
