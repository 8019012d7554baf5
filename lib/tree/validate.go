package tree

import (
	"errors"

	"go.uber.org/multierr"

	"github.com/benz9527/xtree/lib/infra"
)

var (
	ErrUnknownNode         = errors.New("unknown node type")
	ErrOrderViolation      = errors.New("order violation")
	ErrLenViolation        = errors.New("len violation")
	ErrHeightViolation     = errors.New("avl height violation")
	ErrBalanceViolation    = errors.New("avl balance violation")
	ErrRootColorViolation  = errors.New("rbtree root color violation")
	ErrRedViolation        = errors.New("rbtree red violation")
	ErrBlackViolation      = errors.New("rbtree black violation")
	ErrParentLinkViolation = errors.New("rbtree parent link violation")
)

// Inorder traversal to implement the DFS. The tree must not be modified by
// the action.
func inorder[K infra.OrderedKey](root Node[K], action func(idx int64, node Node[K]) bool) {
	stack := make([]Node[K], 0, 32)
	defer func() {
		clear(stack)
	}()

	for aux := root; aux != nil; aux = aux.Left() {
		stack = append(stack, aux)
	}

	idx := int64(0)
	for size := len(stack); size > 0; size = len(stack) {
		aux := stack[size-1]
		stack = stack[:size-1]
		if !action(idx, aux) {
			return
		}
		idx++
		for aux = aux.Right(); aux != nil; aux = aux.Left() {
			stack = append(stack, aux)
		}
	}
}

type comparer[K infra.OrderedKey] interface {
	compare(i, j K) int64
}

func comparatorOf[K infra.OrderedKey](tree Tree[K]) infra.OrderedKeyComparator[K] {
	if c, ok := tree.(comparer[K]); ok {
		return c.compare
	}
	return infra.AscCompare[K]
}

// OrderViolationValidate checks that the inorder keys are strictly
// increasing by the tree's own order.
func OrderViolationValidate[K infra.OrderedKey](tree Tree[K]) (err error) {
	cmp := comparatorOf[K](tree)
	var prev Node[K]
	inorder[K](tree.Root(), func(idx int64, node Node[K]) bool {
		if prev != nil && cmp(prev.Key(), node.Key()) >= 0 {
			err = infra.WrapErrorStack(ErrOrderViolation, "key %v at %d is not after key %v", node.Key(), idx, prev.Key())
			return false
		}
		prev = node
		return true
	})
	return err
}

func LenViolationValidate[K infra.OrderedKey](tree Tree[K]) error {
	count := int64(0)
	inorder[K](tree.Root(), func(int64, Node[K]) bool {
		count++
		return true
	})
	if count != tree.Len() {
		return infra.WrapErrorStack(ErrLenViolation, "len %d, nodes %d", tree.Len(), count)
	}
	return nil
}

// avlWalk returns the real height of the subtree and calls check on every
// node with the real heights of its children, in post order.
func avlWalk[K infra.OrderedKey](node Node[K], check func(n AVLNode[K], lh, rh int) error) (int, error) {
	if node == nil {
		return 0, nil
	}
	n, ok := node.(AVLNode[K])
	if !ok {
		return 0, infra.WrapErrorStack(ErrUnknownNode, "key %v is not an avl node", node.Key())
	}
	lh, err := avlWalk[K](n.Left(), check)
	if err != nil {
		return 0, err
	}
	rh, err := avlWalk[K](n.Right(), check)
	if err != nil {
		return 0, err
	}
	if err = check(n, lh, rh); err != nil {
		return 0, err
	}
	return 1 + max(lh, rh), nil
}

// AVLHeightViolationValidate checks height = 1 + max(child heights).
func AVLHeightViolationValidate[K infra.OrderedKey](tree Tree[K]) error {
	_, err := avlWalk[K](tree.Root(), func(n AVLNode[K], lh, rh int) error {
		if n.Height() != 1+max(lh, rh) {
			return infra.WrapErrorStack(ErrHeightViolation, "key %v height %d, expected %d", n.Key(), n.Height(), 1+max(lh, rh))
		}
		return nil
	})
	return err
}

// AVLBalanceViolationValidate checks every balance is in {-1, 0, 1}.
func AVLBalanceViolationValidate[K infra.OrderedKey](tree Tree[K]) error {
	_, err := avlWalk[K](tree.Root(), func(n AVLNode[K], lh, rh int) error {
		if balance := lh - rh; balance < -1 || balance > 1 {
			return infra.WrapErrorStack(ErrBalanceViolation, "key %v balance %d", n.Key(), balance)
		}
		return nil
	})
	return err
}

func asRBNode[K infra.OrderedKey](node Node[K]) (RBNode[K], error) {
	n, ok := node.(RBNode[K])
	if !ok {
		return nil, infra.WrapErrorStack(ErrUnknownNode, "key %v is not a rbtree node", node.Key())
	}
	return n, nil
}

func isRedNode[K infra.OrderedKey](node Node[K]) bool {
	if node == nil {
		return false
	}
	n, ok := node.(RBNode[K])
	return ok && n.Color() == Red
}

func RootColorViolationValidate[K infra.OrderedKey](tree Tree[K]) error {
	root := tree.Root()
	if root == nil {
		return nil
	}
	n, err := asRBNode[K](root)
	if err != nil {
		return err
	}
	if n.Color() != Black {
		return infra.WrapErrorStack(ErrRootColorViolation, "root %v is red", n.Key())
	}
	return nil
}

// RedViolationValidate checks no red node has a red child.
func RedViolationValidate[K infra.OrderedKey](tree Tree[K]) (err error) {
	inorder[K](tree.Root(), func(_ int64, node Node[K]) bool {
		if _, err = asRBNode[K](node); err != nil {
			return false
		}
		if isRedNode[K](node) && (isRedNode[K](node.Left()) || isRedNode[K](node.Right())) {
			err = infra.WrapErrorStack(ErrRedViolation, "red node %v has a red child", node.Key())
			return false
		}
		return true
	})
	return err
}

// BFS traversal to load every node owning at least one NIL leaf.
func bfsLeaves[K infra.OrderedKey](root Node[K]) []Node[K] {
	if root == nil {
		return nil
	}

	leaves := make([]Node[K], 0, 16)
	queue := make([]Node[K], 0, 16)
	defer func() {
		clear(queue)
	}()
	queue = append(queue, root)

	for len(queue) > 0 {
		aux := queue[0]
		queue = queue[1:]
		l, r := aux.Left(), aux.Right()
		if /* nil leaves, keep one */ l == nil || r == nil {
			leaves = append(leaves, aux)
		}
		if l != nil {
			queue = append(queue, l)
		}
		if r != nil {
			queue = append(queue, r)
		}
	}
	return leaves
}

func blackDepthToRoot[K infra.OrderedKey](node RBNode[K]) int {
	depth := 0
	for aux := node; aux != nil; aux = aux.Parent() {
		if aux.Color() == Black {
			depth++
		}
	}
	return depth
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).

	        [13]
			/  \
		 <8>    [15]
		 / \    /  \
	  [6] [11] [14] [17]
	  /              /
	<1>            [16]

2-3-4 tree like:

	       <8> --- [13] --- <15>
		  /  \             /    \
		 /    \           /      \
	  <1>-[6][11]      [14] <16>-[17]

Each NIL leaf to root node black depth are equal. The depth is counted
through the parent links, so ParentLinkViolationValidate should pass first.
*/
func BlackViolationValidate[K infra.OrderedKey](tree Tree[K]) error {
	leaves := bfsLeaves[K](tree.Root())
	if leaves == nil {
		return nil
	}

	expected := -1
	for _, leaf := range leaves {
		n, err := asRBNode[K](leaf)
		if err != nil {
			return err
		}
		depth := blackDepthToRoot[K](n)
		if expected < 0 {
			expected = depth
		} else if depth != expected {
			return infra.WrapErrorStack(ErrBlackViolation, "NIL under key %v black depth %d, expected %d", n.Key(), depth, expected)
		}
	}
	return nil
}

// ParentLinkViolationValidate checks the back reference of every node
// points to its structural parent, and the root has none.
func ParentLinkViolationValidate[K infra.OrderedKey](tree Tree[K]) (err error) {
	root := tree.Root()
	if root == nil {
		return nil
	}
	n, err := asRBNode[K](root)
	if err != nil {
		return err
	}
	if n.Parent() != nil {
		return infra.WrapErrorStack(ErrParentLinkViolation, "root %v has parent %v", n.Key(), n.Parent().Key())
	}

	inorder[K](root, func(_ int64, node Node[K]) bool {
		for _, child := range []Node[K]{node.Left(), node.Right()} {
			if child == nil {
				continue
			}
			c, _err := asRBNode[K](child)
			if _err != nil {
				err = _err
				return false
			}
			if p := c.Parent(); p == nil || Node[K](p) != node {
				err = infra.WrapErrorStack(ErrParentLinkViolation, "key %v is not linked to parent %v", c.Key(), node.Key())
				return false
			}
		}
		return true
	})
	return err
}

// Validate runs every validator that applies to the tree kind and combines
// the violations. errors.Is matches each sentinel through the result.
func Validate[K infra.OrderedKey](tree Tree[K]) error {
	err := multierr.Combine(
		OrderViolationValidate[K](tree),
		LenViolationValidate[K](tree),
	)
	switch tree.(type) {
	case *avlTree[K]:
		err = multierr.Append(err, multierr.Combine(
			AVLHeightViolationValidate[K](tree),
			AVLBalanceViolationValidate[K](tree),
		))
	case *rbTree[K]:
		linkErr := ParentLinkViolationValidate[K](tree)
		err = multierr.Append(err, multierr.Combine(
			linkErr,
			RootColorViolationValidate[K](tree),
			RedViolationValidate[K](tree),
		))
		if linkErr == nil {
			err = multierr.Append(err, BlackViolationValidate[K](tree))
		}
	default:
	}
	return err
}
