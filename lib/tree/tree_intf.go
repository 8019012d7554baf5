package tree

import "github.com/benz9527/xtree/lib/infra"

// go install golang.org/x/tools/cmd/stringer@latest

//go:generate stringer -type=RBColor
type RBColor uint8

const (
	Black RBColor = iota
	Red
)

//go:generate stringer -type=RBDirection
type RBDirection int8

const (
	Left RBDirection = -1 + iota
	Root
	Right
)

const (
	kindBST    = "bst"
	kindAVL    = "avl"
	kindRBTree = "rbtree"
)

// Node is the read only view of a tree node returned by Search.
// Absent children are returned as untyped nil.
type Node[K infra.OrderedKey] interface {
	Key() K
	Left() Node[K]
	Right() Node[K]
}

type AVLNode[K infra.OrderedKey] interface {
	Node[K]
	// Height of the subtree rooted at this node, a leaf is 1.
	Height() int
	// Balance is the left subtree height minus the right subtree height.
	Balance() int
}

type RBNode[K infra.OrderedKey] interface {
	Node[K]
	Color() RBColor
	// Parent is nil for the root.
	Parent() RBNode[K]
}

// Tree is the contract shared by the unbalanced, AVL and red-black trees.
// Keys are unique, insert of a present key and delete of an absent key are
// no-ops. A tree is not thread safe, callers serialize the access to one
// tree instance.
type Tree[K infra.OrderedKey] interface {
	Insert(key K)
	// Search returns nil if the key is absent.
	Search(key K) Node[K]
	Delete(key K)
	Len() int64
	// Root returns nil if the tree is empty.
	Root() Node[K]
	// Release drops all nodes.
	Release()
}

type BST[K infra.OrderedKey] interface {
	Tree[K]
	// Height walks the whole tree, O(n).
	Height() int
}

type AVLTree[K infra.OrderedKey] interface {
	Tree[K]
	Height() int
}

type RBTree[K infra.OrderedKey] interface {
	Tree[K]
	// BlackHeight counts the black nodes from the root down to a NIL leaf,
	// the NIL leaf excluded.
	BlackHeight() int
}
