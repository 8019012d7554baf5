package tree

import (
	randv2 "math/rand"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

type checkData struct {
	color RBColor
	key   uint64
}

func rbtreeInorder(tree RBTree[uint64]) []checkData {
	res := make([]checkData, 0, tree.Len())
	inorder[uint64](tree.Root(), func(idx int64, node Node[uint64]) bool {
		res = append(res, checkData{node.(RBNode[uint64]).Color(), node.Key()})
		return true
	})
	return res
}

func TestNilNode(t *testing.T) {
	var nilNode RBNode[uint64] = nil
	require.True(t, nilNode == nil)

	var nilNode2 *rbNode[uint64] = nil
	nilNode = nilNode2
	require.True(t, nilNode != nil)
	require.Nil(t, nilNode)
	require.Equal(t, Black, nilNode.Color())
	require.True(t, nilNode.Left() == nil)
	require.True(t, nilNode.Parent() == nil)
	require.Panics(t, func() {
		nilNode2.Direction()
	})
}

func TestRbtreeInsertAndRemove_Succ(t *testing.T) {
	stats := &recordStats{}
	tree := NewRBTree[uint64](WithStats(stats))

	tree.Insert(52)
	require.Equal(t, []checkData{{Black, 52}}, rbtreeInorder(tree))

	tree.Insert(47)
	require.Equal(t, []checkData{{Red, 47}, {Black, 52}}, rbtreeInorder(tree))

	tree.Insert(3)
	require.Equal(t, []checkData{{Red, 3}, {Black, 47}, {Red, 52}}, rbtreeInorder(tree))
	require.Equal(t, uint64(47), tree.Root().Key())

	tree.Insert(35)
	require.Equal(t, []checkData{{Black, 3}, {Red, 35}, {Black, 47}, {Black, 52}}, rbtreeInorder(tree))

	tree.Insert(24)
	require.Equal(t, []checkData{{Red, 3}, {Black, 24}, {Red, 35}, {Black, 47}, {Black, 52}}, rbtreeInorder(tree))
	require.Equal(t, []string{"im5", "im3", "im4", "im5"}, stats.fixups)
	require.Equal(t, []string{"Right", "Right", "Left"}, stats.rotations)
	require.Equal(t, 2, tree.BlackHeight())
	require.NoError(t, Validate[uint64](tree))

	// The red succ 35 is relocated into 24's place.
	tree.Delete(24)
	require.Equal(t, []checkData{{Red, 3}, {Black, 35}, {Black, 47}, {Black, 52}}, rbtreeInorder(tree))
	require.NoError(t, Validate[uint64](tree))

	tree.Delete(47)
	require.Equal(t, []checkData{{Black, 3}, {Black, 35}, {Black, 52}}, rbtreeInorder(tree))
	require.Equal(t, uint64(35), tree.Root().Key())
	require.Equal(t, "rm4", stats.fixups[len(stats.fixups)-1])
	require.NoError(t, Validate[uint64](tree))

	tree.Delete(52)
	require.Equal(t, []checkData{{Red, 3}, {Black, 35}}, rbtreeInorder(tree))
	require.Equal(t, "rm2", stats.fixups[len(stats.fixups)-1])
	require.NoError(t, Validate[uint64](tree))

	tree.Delete(3)
	require.Equal(t, []checkData{{Black, 35}}, rbtreeInorder(tree))

	tree.Delete(35)
	require.Empty(t, rbtreeInorder(tree))
	require.Nil(t, tree.Root())
	require.Equal(t, 0, tree.BlackHeight())
	require.Equal(t, 5, stats.deletes)
}

func TestRbtree_Scenario(t *testing.T) {
	tree := NewRBTree[uint64]()
	for _, key := range []uint64{20, 15, 25, 10, 5} {
		tree.Insert(key)
	}
	root := tree.Root().(RBNode[uint64])
	require.Equal(t, uint64(20), root.Key())
	require.Equal(t, Black, root.Color())
	require.Nil(t, root.Parent())
	require.Equal(t, []checkData{{Red, 5}, {Black, 10}, {Red, 15}, {Black, 20}, {Black, 25}}, rbtreeInorder(tree))

	tree.Delete(15)
	require.Nil(t, tree.Search(15))
	require.Equal(t, []checkData{{Red, 5}, {Black, 10}, {Black, 20}, {Black, 25}}, rbtreeInorder(tree))
	require.NoError(t, RootColorViolationValidate[uint64](tree))
	require.NoError(t, RedViolationValidate[uint64](tree))
	require.NoError(t, BlackViolationValidate[uint64](tree))
	require.NoError(t, ParentLinkViolationValidate[uint64](tree))
	require.Equal(t, 2, tree.BlackHeight())
}

func TestRbtree_RemoveRedSibling(t *testing.T) {
	stats := &recordStats{}
	tree := NewRBTree[uint64](WithStats(stats))
	for _, key := range []uint64{10, 5, 20, 15, 25, 30} {
		tree.Insert(key)
	}
	require.Equal(t, []checkData{{Black, 5}, {Black, 10}, {Black, 15}, {Red, 20}, {Black, 25}, {Red, 30}}, rbtreeInorder(tree))

	stats.fixups = stats.fixups[:0]
	tree.Delete(5)
	require.Equal(t, []string{"rm1", "rm2"}, stats.fixups)
	require.Equal(t, uint64(20), tree.Root().Key())
	require.Equal(t, []checkData{{Black, 10}, {Red, 15}, {Black, 20}, {Black, 25}, {Red, 30}}, rbtreeInorder(tree))
	require.NoError(t, Validate[uint64](tree))
}

func TestRbtree_RemoveNearNephew(t *testing.T) {
	stats := &recordStats{}
	tree := NewRBTree[uint64](WithStats(stats))
	for _, key := range []uint64{10, 5, 20, 15} {
		tree.Insert(key)
	}

	stats.fixups = stats.fixups[:0]
	tree.Delete(5)
	require.Equal(t, []string{"rm3", "rm4"}, stats.fixups)
	require.Equal(t, uint64(15), tree.Root().Key())
	require.Equal(t, []checkData{{Black, 10}, {Black, 15}, {Black, 20}}, rbtreeInorder(tree))
	require.NoError(t, Validate[uint64](tree))
}

func TestRbtree_DuplicateInsert(t *testing.T) {
	stats := &recordStats{}
	tree := NewRBTree[uint64](WithStats(stats))
	for _, key := range []uint64{52, 47, 3, 35, 24} {
		tree.Insert(key)
	}
	expected := rbtreeInorder(tree)
	fixups := len(stats.fixups)
	for _, key := range []uint64{52, 47, 3, 35, 24} {
		tree.Insert(key)
	}
	require.Equal(t, expected, rbtreeInorder(tree))
	require.Len(t, stats.fixups, fixups)
	require.Equal(t, int64(5), tree.Len())
}

func TestRbtreeRandomInsertAndRemove_SequentialNumber_Release(t *testing.T) {
	insertTotal := uint64(100_000)
	tree := NewRBTree[uint64]()

	rand := uint64(randv2.Uint32() % 1_000)
	for i := uint64(0); i < insertTotal; i++ {
		tree.Insert(i)
		if i%10_000 == rand {
			require.NoError(t, RedViolationValidate[uint64](tree))
			require.NoError(t, BlackViolationValidate[uint64](tree))
		}
	}
	inorder[uint64](tree.Root(), func(idx int64, node Node[uint64]) bool {
		require.Equal(t, uint64(idx), node.Key())
		return true
	})
	// n >= 2^bh - 1
	require.LessOrEqual(t, tree.BlackHeight(), 17)
	tree.Release()
	require.Equal(t, int64(0), tree.Len())
	require.Nil(t, tree.Root())
}

func TestRbtreeRandomInsertAndRemove_ReverseSequentialNumber(t *testing.T) {
	total := int64(10000)
	insertTotal := int64(float64(total) * 0.8)
	removeTotal := int64(float64(total) * 0.2)

	tree := NewRBTree[int64]()
	for i := insertTotal - 1; i >= 0; i-- {
		tree.Insert(i)
	}
	require.Equal(t, insertTotal, tree.Len())
	require.NoError(t, Validate[int64](tree))

	for i := insertTotal - 1; i >= insertTotal-removeTotal; i-- {
		tree.Delete(i)
		require.Nil(t, tree.Search(i))
	}
	require.Equal(t, insertTotal-removeTotal, tree.Len())
	require.NoError(t, Validate[int64](tree))
}

func TestRbtreeRandomInsertAndRemove_RandomMonotonicNumber(t *testing.T) {
	type testcase struct {
		name           string
		total          int
		violationCheck bool
	}
	testcases := []testcase{
		{
			name:  "random 100000",
			total: 100_000,
		},
		{
			name:           "violation check 2000",
			total:          2_000,
			violationCheck: true,
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			tree := NewRBTree[int]()
			keys := lo.Shuffle(lo.Range(tc.total))
			for _, key := range keys {
				tree.Insert(key)
				if tc.violationCheck {
					require.NoError(tt, Validate[int](tree))
				}
			}
			for _, key := range lo.Samples(keys, tc.total/2) {
				tree.Delete(key)
				if tc.violationCheck {
					require.NoError(tt, Validate[int](tree))
				}
			}
			require.Equal(tt, int64(tc.total-tc.total/2), tree.Len())
			require.NoError(tt, Validate[int](tree))
		})
	}
}

func TestRbtree_SentinelUntouched(t *testing.T) {
	tree := NewRBTree[int]().(*rbTree[int])
	for _, key := range lo.Shuffle(lo.Range(64)) {
		tree.Insert(key)
	}
	for _, key := range lo.Shuffle(lo.Range(64)) {
		tree.Delete(key)
		require.Nil(t, tree.sentinel.parent)
		require.Equal(t, Black, tree.sentinel.color)
		require.False(t, tree.sentinel.hasKey)
	}
	require.Nil(t, tree.Root())
}
