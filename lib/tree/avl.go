package tree

import (
	"github.com/benz9527/xtree/lib/infra"
)

type avlNode[K infra.OrderedKey] struct {
	left   *avlNode[K]
	right  *avlNode[K]
	key    K
	height int
}

func (node *avlNode[K]) Key() K {
	return node.key
}

func (node *avlNode[K]) Left() Node[K] {
	if node == nil || node.left == nil {
		return nil
	}
	return node.left
}

func (node *avlNode[K]) Right() Node[K] {
	if node == nil || node.right == nil {
		return nil
	}
	return node.right
}

// Height of a nil node is 0.
func (node *avlNode[K]) Height() int {
	if node == nil {
		return 0
	}
	return node.height
}

func (node *avlNode[K]) Balance() int {
	if node == nil {
		return 0
	}
	return node.left.Height() - node.right.Height()
}

func (node *avlNode[K]) fixHeight() {
	node.height = 1 + max(node.left.Height(), node.right.Height())
}

func (node *avlNode[K]) minimum() *avlNode[K] {
	aux := node
	for ; aux != nil && aux.left != nil; aux = aux.left {
	}
	return aux
}

// avlTree has no parent links. Every recursive mutation returns the new
// subtree root, so each ancestor on the path fixes its own height and
// balance after the recursive call returns.
type avlTree[K infra.OrderedKey] struct {
	treeBase[K]
	root *avlNode[K]
}

func (tree *avlTree[K]) Root() Node[K] {
	if tree.root == nil {
		return nil
	}
	return tree.root
}

func (tree *avlTree[K]) Height() int {
	return tree.root.Height()
}

/*
		 |                         |
		 X                         Y
		/ \     leftRotate(X)     / \
	   L   Y    ============>    X   Yr
		  / \                   / \
		Yl   Yr                L   Yl
*/
func (tree *avlTree[K]) leftRotate(x *avlNode[K]) *avlNode[K] {
	if x == nil || x.right == nil {
		// impossible run to here
		panic( /* debug assertion */ "[avl] left rotate node x is nil or x.right is nil")
	}

	y := x.right
	x.right, y.left = y.left, x
	x.fixHeight()
	y.fixHeight()
	tree.traceRotate(Left, x.key)
	return y
}

/*
		 |                         |
		 Y                         X
		/ \    rightRotate(Y)     / \
	   X   R   ============>    Xl   Y
	  / \                           / \
	Xl   Xr                       Xr   R
*/
func (tree *avlTree[K]) rightRotate(y *avlNode[K]) *avlNode[K] {
	if y == nil || y.left == nil {
		// impossible run to here
		panic( /* debug assertion */ "[avl] right rotate node y is nil or y.left is nil")
	}

	x := y.left
	y.left, x.right = x.right, y
	y.fixHeight()
	x.fixHeight()
	tree.traceRotate(Right, y.key)
	return x
}

/*
b1 (LL): X is left heavy (balance > 1) and its left child L is not right
heavy (balance >= 0). Right rotate X.

b2 (LR): X is left heavy and L is right heavy (balance < 0). Left rotate L
first, then enter b1.

b3 (RR): X is right heavy (balance < -1) and its right child R is not left
heavy (balance <= 0). Left rotate X.

b4 (RL): X is right heavy and R is left heavy (balance > 0). Right rotate R
first, then enter b3.

After an insert the child balance is never 0 here. After a delete it may be
0, and that must be the single rotation (b1 or b3).
*/
func (tree *avlTree[K]) rebalance(x *avlNode[K]) *avlNode[K] {
	x.fixHeight()
	switch balance := x.Balance(); {
	case balance > 1:
		if /* b2 */ x.left.Balance() < 0 {
			tree.traceFixup("b2", x.key)
			x.left = tree.leftRotate(x.left)
		} else /* b1 */ {
			tree.traceFixup("b1", x.key)
		}
		return tree.rightRotate(x)
	case balance < -1:
		if /* b4 */ x.right.Balance() > 0 {
			tree.traceFixup("b4", x.key)
			x.right = tree.rightRotate(x.right)
		} else /* b3 */ {
			tree.traceFixup("b3", x.key)
		}
		return tree.leftRotate(x)
	default:
	}
	return x
}

func (tree *avlTree[K]) Insert(key K) {
	var ok bool
	if tree.root, ok = tree.insert(tree.root, key); ok {
		tree.inserted(key)
	}
}

// A duplicated key unwinds without touching any height, so it never
// rebalances.
func (tree *avlTree[K]) insert(node *avlNode[K], key K) (*avlNode[K], bool) {
	if node == nil {
		return &avlNode[K]{key: key, height: 1}, true
	}

	var ok bool
	if res := tree.compare(key, node.key); res < 0 {
		node.left, ok = tree.insert(node.left, key)
	} else if res > 0 {
		node.right, ok = tree.insert(node.right, key)
	}
	if !ok {
		return node, false
	}
	return tree.rebalance(node), true
}

func (tree *avlTree[K]) Search(key K) Node[K] {
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

func (tree *avlTree[K]) Delete(key K) {
	var ok bool
	if tree.root, ok = tree.remove(tree.root, key); ok {
		tree.deleted(key)
	}
}

// remove splices like the unbalanced tree (succ key copy for two children),
// then every ancestor on the way back rebalances.
func (tree *avlTree[K]) remove(node *avlNode[K], key K) (*avlNode[K], bool) {
	if node == nil {
		return nil, false
	}

	var ok bool
	if res := tree.compare(key, node.key); res < 0 {
		node.left, ok = tree.remove(node.left, key)
	} else if res > 0 {
		node.right, ok = tree.remove(node.right, key)
	} else {
		if node.left == nil {
			return node.right, true
		} else if node.right == nil {
			return node.left, true
		}
		succ := node.right.minimum()
		node.key = succ.key
		node.right, ok = tree.remove(node.right, succ.key)
	}
	if !ok {
		return node, false
	}
	return tree.rebalance(node), true
}

func (tree *avlTree[K]) Release() {
	tree.root = nil
	tree.count = 0
}

func NewAVLTree[K infra.OrderedKey](opts ...TreeOpt) AVLTree[K] {
	return &avlTree[K]{
		treeBase: newTreeBase[K](kindAVL, opts),
	}
}
