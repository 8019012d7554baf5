package tree

import (
	"github.com/benz9527/xtree/lib/infra"
)

type bstNode[K infra.OrderedKey] struct {
	left  *bstNode[K]
	right *bstNode[K]
	key   K
}

func (node *bstNode[K]) Key() K {
	return node.key
}

func (node *bstNode[K]) Left() Node[K] {
	if node == nil || node.left == nil {
		return nil
	}
	return node.left
}

func (node *bstNode[K]) Right() Node[K] {
	if node == nil || node.right == nil {
		return nil
	}
	return node.right
}

func (node *bstNode[K]) minimum() *bstNode[K] {
	aux := node
	for ; aux != nil && aux.left != nil; aux = aux.left {
	}
	return aux
}

func (node *bstNode[K]) height() int {
	if node == nil {
		return 0
	}
	return 1 + max(node.left.height(), node.right.height())
}

// bsTree keeps the ordering only. Every recursive mutation returns the new
// root of the subtree it was given and the caller relinks it.
type bsTree[K infra.OrderedKey] struct {
	treeBase[K]
	root *bstNode[K]
}

func (tree *bsTree[K]) Root() Node[K] {
	if tree.root == nil {
		return nil
	}
	return tree.root
}

func (tree *bsTree[K]) Height() int {
	return tree.root.height()
}

func (tree *bsTree[K]) Insert(key K) {
	var ok bool
	if tree.root, ok = tree.insert(tree.root, key); ok {
		tree.inserted(key)
	}
}

func (tree *bsTree[K]) insert(node *bstNode[K], key K) (*bstNode[K], bool) {
	if node == nil {
		return &bstNode[K]{key: key}, true
	}

	var ok bool
	if res := tree.compare(key, node.key); /* less */ res < 0 {
		node.left, ok = tree.insert(node.left, key)
	} else /* greater */ if res > 0 {
		node.right, ok = tree.insert(node.right, key)
	}
	return node, ok
}

func (tree *bsTree[K]) Search(key K) Node[K] {
	for aux := tree.root; aux != nil; {
		res := tree.compare(key, aux.key)
		if res == 0 {
			return aux
		} else if res < 0 {
			aux = aux.left
		} else {
			aux = aux.right
		}
	}
	return nil
}

func (tree *bsTree[K]) Delete(key K) {
	var ok bool
	if tree.root, ok = tree.remove(tree.root, key); ok {
		tree.deleted(key)
	}
}

/*
d1: Node X has at most one child C, splice C (maybe nil) into X's slot.

	  |                |
	  X                C
	 /     ======>
	C

d2: Node X has two children. Copy the key of its succ S (the leftmost node
of the right subtree) into X, then remove S's key from the right subtree.
S has no left child, so the removal ends in d1.

	  |                 |
	  X                 S
	 / \    ======>    / \
	L   R             L   R
	   /                 /
	  S                 Sr
	   \
	    Sr
*/
func (tree *bsTree[K]) remove(node *bstNode[K], key K) (*bstNode[K], bool) {
	if node == nil {
		return nil, false
	}

	var ok bool
	if res := tree.compare(key, node.key); res < 0 {
		node.left, ok = tree.remove(node.left, key)
		return node, ok
	} else if res > 0 {
		node.right, ok = tree.remove(node.right, key)
		return node, ok
	}

	if /* d1 */ node.left == nil {
		return node.right, true
	} else if node.right == nil {
		return node.left, true
	}

	/* d2 */
	succ := node.right.minimum()
	node.key = succ.key
	node.right, _ = tree.remove(node.right, succ.key)
	return node, true
}

func (tree *bsTree[K]) Release() {
	tree.root = nil
	tree.count = 0
}

func NewBST[K infra.OrderedKey](opts ...TreeOpt) BST[K] {
	return &bsTree[K]{
		treeBase: newTreeBase[K](kindBST, opts),
	}
}
