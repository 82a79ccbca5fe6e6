package scene

import (
	"testing"

	"github.com/ctw00272/rmlines/blockstream"
	"github.com/ctw00272/rmlines/crdt"
	"github.com/ctw00272/rmlines/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sceneItem[T any](parent crdt.ID, itemID crdt.ID, value *T) blockstream.SceneItemBlock[T] {
	return blockstream.SceneItemBlock[T]{
		ParentID: parent,
		Item:     crdt.SequenceItem[*T]{ItemID: itemID, Value: value},
	}
}

func TestAssembleRootAlwaysPresent(t *testing.T) {
	tree, err := Assemble(nil)
	require.NoError(t, err)
	assert.Equal(t, RootID, tree.Root.NodeID)
	assert.NotNil(t, tree.Nodes[RootID])
}

func TestAssembleLayerUnderRoot(t *testing.T) {
	layerID := crdt.ID{Part1: 0, Part2: 11}
	blocks := []blockstream.Block{
		blockstream.SceneTreeBlock{TreeID: layerID, NodeID: crdt.ID{}, IsUpdate: true, ParentID: RootID},
		blockstream.TreeNodeBlock{Group: blockstream.TreeNodeGroup{
			NodeID: layerID,
			Label:  crdt.Lww[string]{Value: "Layer 1"},
		}},
		blockstream.SceneGroupItemBlock{SceneItemBlock: sceneItem(RootID, crdt.ID{Part2: 13}, &layerID)},
	}

	tree, err := Assemble(blocks)
	require.NoError(t, err)

	require.Equal(t, 1, tree.Root.Children.Len())
	child := tree.Root.Children.Items[0].Value.(GroupItem)
	assert.Equal(t, layerID, child.Group.NodeID)
	assert.Equal(t, "Layer 1", child.Group.Label.Value)
}

func TestAssembleLineUnderUnknownParentFails(t *testing.T) {
	line := model.Line{}
	blocks := []blockstream.Block{
		blockstream.SceneLineItemBlock{SceneItemBlock: sceneItem(crdt.ID{Part2: 99}, crdt.ID{Part2: 1}, &line)},
	}
	_, err := Assemble(blocks)
	require.Error(t, err)
}

func TestAssembleGroupItemReferencingUnknownChildFails(t *testing.T) {
	missing := crdt.ID{Part2: 42}
	blocks := []blockstream.Block{
		blockstream.SceneGroupItemBlock{SceneItemBlock: sceneItem(RootID, crdt.ID{Part2: 1}, &missing)},
	}
	_, err := Assemble(blocks)
	require.Error(t, err)
}

func TestAssembleRootText(t *testing.T) {
	text := &model.Text{X: -468, Y: 234, Width: 936}
	blocks := []blockstream.Block{
		blockstream.RootTextBlock{BlockID: crdt.ID{}, Text: text},
	}
	tree, err := Assemble(blocks)
	require.NoError(t, err)
	require.NotNil(t, tree.RootText)
	assert.Equal(t, float64(-468), tree.RootText.X)
}

func TestAssembleLineWithNilValueIsSkipped(t *testing.T) {
	blocks := []blockstream.Block{
		blockstream.SceneLineItemBlock{SceneItemBlock: sceneItem[model.Line](RootID, crdt.ID{Part2: 1}, nil)},
	}
	tree, err := Assemble(blocks)
	require.NoError(t, err)
	assert.Equal(t, 0, tree.Root.Children.Len())
}
