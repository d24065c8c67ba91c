package merge

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty-debug/ctydebug"

	"github.com/vk/diconfig/internal/node"
)

func diff(t *testing.T, want, got node.Node) string {
	t.Helper()
	return cmp.Diff(want, got, ctydebug.CmpOptions)
}

func TestMergeOverwriteMarkerWins(t *testing.T) {
	base := node.NewMapping(
		node.Entry{Key: "k", Value: node.NewMapping(
			node.Entry{Key: "a", Value: node.Int(1)},
			node.Entry{Key: "b", Value: node.Int(2)},
		)},
	)
	override := node.NewMapping(
		node.Entry{Key: "k", Value: &node.Mapping{
			Entries:   []node.Entry{{Key: "c", Value: node.Int(3)}},
			Overwrite: true,
		}},
	)

	result := Merge(base, override)

	want := node.NewMapping(
		node.Entry{Key: "k", Value: node.NewMapping(
			node.Entry{Key: "c", Value: node.Int(3)},
		)},
	)
	assert.Empty(t, diff(t, node.Node(want), result))
}

func TestMergeOverwriteClearsMarker(t *testing.T) {
	override := &node.Mapping{
		Entries:   []node.Entry{{Key: "x", Value: node.Int(1)}},
		Overwrite: true,
	}
	result := Merge(node.NewMapping(), override)

	m, ok := result.(*node.Mapping)
	require.True(t, ok)
	assert.False(t, m.Overwrite, "the marker must never appear in normalized output")
}

func TestMergeSequencesAppend(t *testing.T) {
	base := &node.Sequence{Items: []node.Node{node.Int(1), node.Int(2)}}
	override := &node.Sequence{Items: []node.Node{node.Int(3), node.Int(4)}}

	result := Merge(base, override)

	want := &node.Sequence{Items: []node.Node{node.Int(1), node.Int(2), node.Int(3), node.Int(4)}}
	assert.Empty(t, diff(t, node.Node(want), result))
}

func TestMergeSequenceOverwriteReplaces(t *testing.T) {
	base := &node.Sequence{Items: []node.Node{node.Int(1), node.Int(2)}}
	override := &node.Sequence{Items: []node.Node{node.Int(3)}, Overwrite: true}

	result := Merge(base, override)

	seq, ok := result.(*node.Sequence)
	require.True(t, ok)
	assert.False(t, seq.Overwrite)
	assert.Empty(t, diff(t, node.Node(&node.Sequence{Items: []node.Node{node.Int(3)}}), result))
}

func TestMergeMappingsUnionKeepsOrder(t *testing.T) {
	base := node.NewMapping(
		node.Entry{Key: "a", Value: node.Int(1)},
		node.Entry{Key: "b", Value: node.Int(2)},
	)
	override := node.NewMapping(
		node.Entry{Key: "c", Value: node.Int(30)},
		node.Entry{Key: "b", Value: node.Int(20)},
	)

	result := Merge(base, override)

	m, ok := result.(*node.Mapping)
	require.True(t, ok)
	// Base keys keep their positions, new override keys append after.
	assert.Equal(t, []string{"a", "b", "c"}, m.Keys())
	v, _ := m.Get("b")
	assert.True(t, node.Equal(node.Int(20), v))
}

func TestMergeCollidingKeysRecurse(t *testing.T) {
	base := node.NewMapping(
		node.Entry{Key: "svc", Value: node.NewMapping(
			node.Entry{Key: "factory", Value: node.String("Foo")},
		)},
	)
	override := node.NewMapping(
		node.Entry{Key: "svc", Value: node.NewMapping(
			node.Entry{Key: "inject", Value: node.Bool(true)},
		)},
	)

	result := Merge(base, override)

	m := result.(*node.Mapping)
	svc, ok := m.Get("svc")
	require.True(t, ok)
	inner := svc.(*node.Mapping)
	assert.Equal(t, []string{"factory", "inject"}, inner.Keys())
}

func TestMergePositionalKeysReindex(t *testing.T) {
	base := node.NewMapping(
		node.Entry{Key: "0", Value: node.String("a")},
	)
	override := node.NewMapping(
		node.Entry{Key: "0", Value: node.String("b")},
	)

	result := Merge(base, override)

	m := result.(*node.Mapping)
	assert.Equal(t, []string{"0", "1"}, m.Keys())
}

func TestMergeNullOverrideKeepsCollectionBase(t *testing.T) {
	base := &node.Sequence{Items: []node.Node{node.Int(1)}}
	result := Merge(base, node.Null())
	assert.Empty(t, diff(t, node.Node(base), result))
}

func TestMergeScalarOverrideWins(t *testing.T) {
	result := Merge(node.String("old"), node.String("new"))
	assert.True(t, node.Equal(node.String("new"), result))

	result = Merge(node.NewMapping(node.Entry{Key: "a", Value: node.Int(1)}), node.String("flat"))
	assert.True(t, node.Equal(node.String("flat"), result))
}
