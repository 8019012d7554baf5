package tree

import (
	"github.com/benz9527/xtree/lib/infra"
)

type rbNode[K infra.OrderedKey] struct {
	parent *rbNode[K]
	left   *rbNode[K]
	right  *rbNode[K]
	key    K
	color  RBColor
	hasKey bool // false only for the NIL sentinel
}

func (node *rbNode[K]) Key() K {
	return node.key
}

func (node *rbNode[K]) Color() RBColor {
	if node.isNilLeaf() {
		return Black
	}
	return node.color
}

func (node *rbNode[K]) Left() Node[K] {
	if node.isNilLeaf() || node.left.isNilLeaf() {
		return nil
	}
	return node.left
}

func (node *rbNode[K]) Right() Node[K] {
	if node.isNilLeaf() || node.right.isNilLeaf() {
		return nil
	}
	return node.right
}

func (node *rbNode[K]) Parent() RBNode[K] {
	if node.isNilLeaf() || node.parent.isNilLeaf() {
		return nil
	}
	return node.parent
}

func (node *rbNode[K]) isNilLeaf() bool {
	return node == nil || !node.hasKey
}

func (node *rbNode[K]) isRed() bool {
	return !node.isNilLeaf() && node.color == Red
}

func (node *rbNode[K]) isBlack() bool {
	return !node.isRed()
}

// Direction of a real node under its parent. The root's parent is NIL.
func (node *rbNode[K]) Direction() RBDirection {
	if node.isNilLeaf() {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] nil leaf node without direction")
	}

	if node.parent.isNilLeaf() {
		return Root
	}
	if node == node.parent.left {
		return Left
	}
	return Right
}

func (node *rbNode[K]) child(dir RBDirection) *rbNode[K] {
	if dir == Left {
		return node.left
	}
	return node.right
}

func (node *rbNode[K]) minimum() *rbNode[K] {
	aux := node
	for ; !aux.isNilLeaf() && !aux.left.isNilLeaf(); aux = aux.left {
	}
	return aux
}

func opposite(dir RBDirection) RBDirection {
	return -dir
}

// rbTree owns one NIL sentinel. It is always black and stands for every
// absent child and for the root's parent. Only the removal may re-point
// NIL's parent (transplant a NIL child), and it is reset before Delete
// returns. The sentinel is per tree instead of global, so trees in different
// goroutines never share a written node.
type rbTree[K infra.OrderedKey] struct {
	treeBase[K]
	root     *rbNode[K]
	sentinel *rbNode[K]
}

func (tree *rbTree[K]) Root() Node[K] {
	if tree.root.isNilLeaf() {
		return nil
	}
	return tree.root
}

func (tree *rbTree[K]) BlackHeight() int {
	height := 0
	for aux := tree.root; !aux.isNilLeaf(); aux = aux.left {
		if aux.isBlack() {
			height++
		}
	}
	return height
}

func (tree *rbTree[K]) newNode(key K, parent *rbNode[K]) *rbNode[K] {
	return &rbNode[K]{
		parent: parent,
		left:   tree.sentinel,
		right:  tree.sentinel,
		key:    key,
		color:  Red,
		hasKey: true,
	}
}

// References:
// Introduction to Algorithms (CLRS), chapter 13.
// rbtree properties:
// https://en.wikipedia.org/wiki/Red%E2%80%93black_tree#Properties
// p1. Every node is either red or black.
// p2. All NIL nodes are considered black.
// p3. A red node does not have a red child. (red-violation)
// p4. Every path from a given node to any of its descendant
//   NIL nodes goes through the same number of black nodes. (black-violation)
// p5. The root is black.

/*
		 |                         |
		 X                         S
		/ \     leftRotate(X)     / \
	   L   S    ============>    X   Sd
		  / \                   / \
		Sc   Sd                L   Sc
*/
func (tree *rbTree[K]) leftRotate(x *rbNode[K]) {
	if x.isNilLeaf() || x.right.isNilLeaf() {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] left rotate node x is nil or x.right is nil")
	}

	y := x.right
	dir := x.Direction()
	x.right = y.left
	if !y.left.isNilLeaf() {
		y.left.parent = x
	}
	y.parent = x.parent
	switch dir {
	case Root:
		tree.root = y
	case Left:
		x.parent.left = y
	case Right:
		x.parent.right = y
	default:
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] unknown node direction to left-rotate")
	}
	y.left, x.parent = x, y
	tree.traceRotate(Left, x.key)
}

/*
			 |                         |
			 X                         S
			/ \    rightRotate(X)     / \
	       S   R   ============>    Sd   X
		  / \                           / \
		Sd   Sc                       Sc   R
*/
func (tree *rbTree[K]) rightRotate(x *rbNode[K]) {
	if x.isNilLeaf() || x.left.isNilLeaf() {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] right rotate node x is nil or x.left is nil")
	}

	y := x.left
	dir := x.Direction()
	x.left = y.right
	if !y.right.isNilLeaf() {
		y.right.parent = x
	}
	y.parent = x.parent
	switch dir {
	case Root:
		tree.root = y
	case Left:
		x.parent.left = y
	case Right:
		x.parent.right = y
	default:
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] unknown node direction to right-rotate")
	}
	y.right, x.parent = x, y
	tree.traceRotate(Right, x.key)
}

// rotate moves x down towards dir.
func (tree *rbTree[K]) rotate(x *rbNode[K], dir RBDirection) {
	switch dir {
	case Left:
		tree.leftRotate(x)
	case Right:
		tree.rightRotate(x)
	default:
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] rotate without direction")
	}
}

// i1: Empty rbtree, the new node becomes the root and is painted black by
// the rebalance.
func (tree *rbTree[K]) Insert(key K) {
	var x, y *rbNode[K] = tree.root, tree.sentinel
	for !x.isNilLeaf() {
		y = x
		res := tree.compare(key, x.key)
		if /* equal */ res == 0 {
			return
		} else /* less */ if res < 0 {
			x = x.left
		} else /* greater */ {
			x = x.right
		}
	}

	z := tree.newNode(key, y)
	if /* i1 */ y.isNilLeaf() {
		tree.root = z
	} else if tree.compare(key, y.key) < 0 {
		y.left = z
	} else {
		y.right = z
	}

	tree.inserted(key)
	tree.insertRebalance(z)
}

/*
New node X is red by default.

<X> is a RED node.
[X] is a BLACK node (or NIL).

The loop runs while X's parent P is red (red-violation). P is not the root
(the root is black), so the grandpa G exists and is black.

im3: The uncle U is red.
Repaint P and U into black, G into red.
G may be red-violation now, continue with G.

	    [G]             <G>
	    / \             / \
	  <P> <U>  ====>  [P] [U]
	  /               /
	<X>             <X>

im4: The uncle U is black and X is the inner grandchild (opposite direction
to P). Rotate P to the opposite direction, then X is P and enter im5.

	  [G]                 [G]
	  / \    rotate(P)    / \
	<P> [U]  ========>  <X> [U]
	  \                 /
	  <X>             <P>

im5: The uncle U is black and X is the outer grandchild (same direction as
P). Repaint P into black, G into red and rotate G to U's side. Terminates.

	    [G]                 <P>               [P]
	    / \    rotate(G)    / \    repaint    / \
	  <P> [U]  ========>  <X> [G]  ======>  <X> <G>
	  /                         \                 \
	<X>                         [U]               [U]

At most one im4-im5 rotation pair runs per insert.
*/
func (tree *rbTree[K]) insertRebalance(x *rbNode[K]) {
	for x.parent.isRed() {
		p := x.parent
		g := p.parent
		dir := p.Direction()
		if /* im3 */ u := g.child(opposite(dir)); u.isRed() {
			tree.traceFixup("im3", x.key)
			p.color = Black
			u.color = Black
			g.color = Red
			x = g
			continue
		}

		if /* im4 */ x.Direction() != dir {
			tree.traceFixup("im4", x.key)
			x = p
			tree.rotate(x, dir)
			p = x.parent
		}

		/* im5 */
		tree.traceFixup("im5", x.key)
		p.color = Black
		g.color = Red
		tree.rotate(g, opposite(dir))
	}
	tree.root.color = Black
}

func (tree *rbTree[K]) Search(key K) Node[K] {
	if z := tree.search(key); z != nil {
		return z
	}
	return nil
}

func (tree *rbTree[K]) search(key K) *rbNode[K] {
	for aux := tree.root; !aux.isNilLeaf(); {
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

// transplant replaces the subtree u by the subtree v in u's parent. v may
// be NIL, its parent is updated anyway so the removal rebalance can walk up
// from a NIL child.
func (tree *rbTree[K]) transplant(u, v *rbNode[K]) {
	switch u.Direction() {
	case Root:
		tree.root = v
	case Left:
		u.parent.left = v
	case Right:
		u.parent.right = v
	default:
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] unknown node direction to transplant")
	}
	v.parent = u.parent
}

func (tree *rbTree[K]) Delete(key K) {
	z := tree.search(key)
	if z == nil {
		return
	}
	tree.removeNode(z)
	tree.deleted(key)
}

/*
r1: Node Z has at most one child. Z is removed, its child X (maybe NIL)
takes Z's place.

r2: Node Z has two children. Its succ Y (the leftmost node of the right
subtree) has no left child. Y is removed from its own place (its right child
X takes it), then Y is relocated into Z's place and takes Z's color. The
node object holding the key is moved, not the key.

	  |                    |
	  Z                    Y
	 / \                  / \
	L   R    ======>     L   R
	   /                    /
	  Y                    X
	   \
	    X

If the removed color (Z's in r1, Y's in r2) is black, a black node is gone
from every path through X. X carries an extra black and the removal
rebalance fixes it.
*/
func (tree *rbTree[K]) removeNode(z *rbNode[K]) {
	var x *rbNode[K]
	removedColor := z.color
	if /* r1 */ z.left.isNilLeaf() {
		x = z.right
		tree.transplant(z, z.right)
	} else if /* r1 */ z.right.isNilLeaf() {
		x = z.left
		tree.transplant(z, z.left)
	} else /* r2 */ {
		y := z.right.minimum()
		removedColor = y.color
		x = y.right
		if y.parent == z {
			x.parent = y
		} else {
			tree.transplant(y, y.right)
			y.right = z.right
			y.right.parent = y
		}
		tree.transplant(z, y)
		y.left = z.left
		y.left.parent = y
		y.color = z.color
	}

	if removedColor == Black {
		tree.removeRebalance(x)
	}

	// Unlink node
	z.parent, z.left, z.right = nil, nil, nil
	tree.sentinel.parent = nil
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).
{X} is either a RED node or a BLACK node.

The loop runs while X is black and not the root. X has an extra black, so
its sibling S is a real node. Sc is S's child on X's side (near), Sd is the
other one (far).

rm1: S is red, so P, Sc and Sd are black.
Repaint S into black, P into red, rotate P to X's side.
The new sibling is the black Sc, enter rm2-rm4.

	  [P]                   <S>               [S]
	  / \    l-rotate(P)    / \    repaint    / \
	[X] <S>  ==========>  [P] [Sd]  ======>  <P> [Sd]
	    / \               / \               / \
	 [Sc] [Sd]          [X] [Sc]          [X] [Sc]

rm2: S, Sc and Sd are black.
Repaint S into red, the extra black moves up to P. A red P stops the loop
and is painted black at the end.

	  {P}             {P}
	  / \             / \
	[X] [S]  ====>  [X] <S>
	    / \             / \
	 [Sc] [Sd]       [Sc] [Sd]

rm3: S is black, Sc is red and Sd is black.
Repaint Sc into black, S into red, rotate S away from X.
The new sibling Sc has a red far child, enter rm4.

	  {P}                   {P}                {P}
	  / \    r-rotate(S)    / \    repaint     / \
	[X] [S]  ==========>  [X] <Sc>  ======>  [X] [Sc]
	    / \                     \                  \
	  <Sc> [Sd]                 [S]                <S>
	                              \                  \
	                              [Sd]               [Sd]

rm4: S is black and Sd is red.
S takes P's color, P and Sd are painted black, rotate P to X's side.
The extra black is absorbed, terminates.

	  {P}                   [S]                {S}
	  / \    l-rotate(P)    / \     repaint    / \
	[X] [S]  ==========>  {P} <Sd>  ======>  [P] [Sd]
	    / \               / \                / \
	 [Sc] <Sd>          [X] [Sc]           [X] [Sc]
*/
func (tree *rbTree[K]) removeRebalance(x *rbNode[K]) {
	for x != tree.root && x.isBlack() {
		p := x.parent
		dir := Left
		if x != p.left {
			dir = Right
		}

		s := p.child(opposite(dir))
		if /* rm1 */ s.isRed() {
			tree.traceFixup("rm1", p.key)
			s.color = Black
			p.color = Red
			tree.rotate(p, dir)
			s = p.child(opposite(dir))
		}

		sc, sd := s.child(dir), s.child(opposite(dir))
		if /* rm2 */ sc.isBlack() && sd.isBlack() {
			tree.traceFixup("rm2", p.key)
			s.color = Red
			x = p
			continue
		}

		if /* rm3 */ sd.isBlack() {
			tree.traceFixup("rm3", p.key)
			sc.color = Black
			s.color = Red
			tree.rotate(s, opposite(dir))
			s = p.child(opposite(dir))
		}

		/* rm4 */
		tree.traceFixup("rm4", p.key)
		s.color = p.color
		p.color = Black
		s.child(opposite(dir)).color = Black
		tree.rotate(p, dir)
		x = tree.root
	}
	x.color = Black
}

func (tree *rbTree[K]) Release() {
	tree.root = tree.sentinel
	tree.sentinel.parent = nil
	tree.count = 0
}

func NewRBTree[K infra.OrderedKey](opts ...TreeOpt) RBTree[K] {
	sentinel := &rbNode[K]{color: Black}
	return &rbTree[K]{
		treeBase: newTreeBase[K](kindRBTree, opts),
		root:     sentinel,
		sentinel: sentinel,
	}
}
