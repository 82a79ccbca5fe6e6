// Package scene reconstructs the rooted grouping structure — the scene
// tree — over drawing strokes, glyphs, and text from a flat, unordered
// list of decoded blocks.
package scene

import (
	"github.com/ctw00272/rmlines/crdt"
	"github.com/ctw00272/rmlines/model"
)

// RootID is the synthetic root group every tree is assembled under.
var RootID = crdt.ID{Part1: 0, Part2: 1}

// Two anchor_id values with reserved meaning: top-of-page and
// bottom-of-page anchors.
var (
	AnchorTopOfPage    = crdt.ID{Part1: 0, Part2: 0xfffffffe}
	AnchorBottomOfPage = crdt.ID{Part1: 0, Part2: 0xffffffff}
)

// Item is the closed tagged union of what a scene tree's children can
// be: a nested Group, a Line, a Text block, or a GlyphRange.
type Item interface {
	isItem()
}

// GroupItem wraps a Group as a scene tree child. It points at the same
// Group held in the tree's node map (not a copy); a child group holds
// no pointer back to its parent.
type GroupItem struct {
	Group *Group
}

func (GroupItem) isItem() {}

// LineItem wraps a Line as a scene tree child.
type LineItem struct {
	Line *model.Line
}

func (LineItem) isItem() {}

// TextItem wraps a Text block as a scene tree child.
type TextItem struct {
	Text *model.Text
}

func (TextItem) isItem() {}

// GlyphItem wraps a GlyphRange as a scene tree child.
type GlyphItem struct {
	GlyphRange *model.GlyphRange
}

func (GlyphItem) isItem() {}

// Group is a grouping node — used to represent layers — holding an
// ordered sequence of child scene items plus LWW label/visibility and
// an optional anchor quadruple.
type Group struct {
	NodeID   crdt.ID
	Children *crdt.Sequence[Item]
	Label    crdt.Lww[string]
	Visible  crdt.Lww[bool]

	AnchorID        *crdt.Lww[crdt.ID]
	AnchorType      *crdt.Lww[uint8]
	AnchorThreshold *crdt.Lww[float32]
	AnchorOriginX   *crdt.Lww[float32]
}

// NewGroup returns a Group with the spec's documented defaults: an
// empty child sequence, an empty label, and visible=true.
func NewGroup(id crdt.ID) *Group {
	return &Group{
		NodeID:   id,
		Children: crdt.NewSequence[Item](),
		Label:    crdt.Lww[string]{Value: ""},
		Visible:  crdt.Lww[bool]{Value: true},
	}
}

// Tree is the assembled result: the rooted group hierarchy plus the
// document's optional root text block.
type Tree struct {
	Root     *Group
	RootText *model.Text
	Nodes    map[crdt.ID]*Group
}
