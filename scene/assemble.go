package scene

import (
	"github.com/ctw00272/rmlines/blockstream"
	"github.com/ctw00272/rmlines/crdt"
	"github.com/ctw00272/rmlines/rmerr"
)

// Assemble reduces a flat, unordered block list into a rooted tree of
// groups with typed children — a single forward pass over the blocks,
// since a TreeNode block for a given id may precede or follow its
// SceneTree block, and scene-item blocks only need their parent to
// already have been created by one of those two.
func Assemble(blocks []blockstream.Block) (*Tree, error) {
	tree := &Tree{
		Root:  NewGroup(RootID),
		Nodes: map[crdt.ID]*Group{RootID: NewGroup(RootID)},
	}
	tree.Nodes[RootID] = tree.Root

	for _, b := range blocks {
		if err := applyBlock(tree, b); err != nil {
			return nil, err
		}
	}

	return tree, nil
}

func applyBlock(tree *Tree, b blockstream.Block) error {
	switch block := b.(type) {
	case blockstream.SceneTreeBlock:
		ensureGroup(tree, block.TreeID)
		return nil

	case blockstream.TreeNodeBlock:
		applyTreeNode(tree, block.Group)
		return nil

	case blockstream.SceneGroupItemBlock:
		return applyGroupItem(tree, block)

	case blockstream.SceneLineItemBlock:
		return applyLineItem(tree, block)

	case blockstream.SceneGlyphItemBlock:
		return applyGlyphItem(tree, block)

	case blockstream.SceneTextItemBlock:
		return applyTextItem(tree, block)

	case blockstream.RootTextBlock:
		tree.RootText = block.Text
		return nil

	default:
		// MigrationInfo, AuthorsIDs, PageInfo: retained by the caller in
		// the block list, but they do not affect the tree.
		return nil
	}
}

func ensureGroup(tree *Tree, id crdt.ID) *Group {
	if g, ok := tree.Nodes[id]; ok {
		return g
	}
	g := NewGroup(id)
	tree.Nodes[id] = g
	return g
}

func applyTreeNode(tree *Tree, g blockstream.TreeNodeGroup) {
	node, ok := tree.Nodes[g.NodeID]
	if !ok {
		node = NewGroup(g.NodeID)
		tree.Nodes[g.NodeID] = node
	}
	node.Label = g.Label
	node.Visible = g.Visible
	node.AnchorID = g.AnchorID
	node.AnchorType = g.AnchorType
	node.AnchorThreshold = g.AnchorThreshold
	node.AnchorOriginX = g.AnchorOriginX
}

func requireParent(tree *Tree, parentID crdt.ID) (*Group, error) {
	parent, ok := tree.Nodes[parentID]
	if !ok {
		return nil, rmerr.Invalid("scene tree references unknown parent %s", parentID)
	}
	return parent, nil
}

func applyGroupItem(tree *Tree, block blockstream.SceneGroupItemBlock) error {
	if block.Item.Value == nil {
		return nil
	}
	parent, err := requireParent(tree, block.ParentID)
	if err != nil {
		return err
	}

	childID := *block.Item.Value
	child, ok := tree.Nodes[childID]
	if !ok {
		return rmerr.Invalid("scene group item references unknown child group %s", childID)
	}

	parent.Children.Add(crdt.SequenceItem[Item]{
		ItemID:        block.Item.ItemID,
		LeftID:        block.Item.LeftID,
		RightID:       block.Item.RightID,
		DeletedLength: block.Item.DeletedLength,
		Value:         GroupItem{Group: child},
	})
	return nil
}

func applyLineItem(tree *Tree, block blockstream.SceneLineItemBlock) error {
	if block.Item.Value == nil {
		return nil
	}
	parent, err := requireParent(tree, block.ParentID)
	if err != nil {
		return err
	}
	line := *block.Item.Value
	parent.Children.Add(crdt.SequenceItem[Item]{
		ItemID:        block.Item.ItemID,
		LeftID:        block.Item.LeftID,
		RightID:       block.Item.RightID,
		DeletedLength: block.Item.DeletedLength,
		Value:         LineItem{Line: &line},
	})
	return nil
}

func applyGlyphItem(tree *Tree, block blockstream.SceneGlyphItemBlock) error {
	if block.Item.Value == nil {
		return nil
	}
	parent, err := requireParent(tree, block.ParentID)
	if err != nil {
		return err
	}
	glyph := *block.Item.Value
	parent.Children.Add(crdt.SequenceItem[Item]{
		ItemID:        block.Item.ItemID,
		LeftID:        block.Item.LeftID,
		RightID:       block.Item.RightID,
		DeletedLength: block.Item.DeletedLength,
		Value:         GlyphItem{GlyphRange: &glyph},
	})
	return nil
}

func applyTextItem(tree *Tree, block blockstream.SceneTextItemBlock) error {
	if block.Item.Value == nil {
		return nil
	}
	parent, err := requireParent(tree, block.ParentID)
	if err != nil {
		return err
	}
	text := *block.Item.Value
	parent.Children.Add(crdt.SequenceItem[Item]{
		ItemID:        block.Item.ItemID,
		LeftID:        block.Item.LeftID,
		RightID:       block.Item.RightID,
		DeletedLength: block.Item.DeletedLength,
		Value:         TextItem{Text: &text},
	})
	return nil
}
