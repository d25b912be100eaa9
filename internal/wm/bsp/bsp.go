// Package bsp implements the binary space partition tiling layout of
// spec §3 "BSP tree" and operations §4.4, dependency-order item 8 in
// §2. Grounded on original_source/src/layout/bsp.c, function by
// function; node field names and the two-pass insert/remove algorithm
// are kept deliberately close to the original so the tree-surgery is
// easy to audit against it.
package bsp

import (
	"github.com/wltile/wltile/internal/geom"
	"github.com/wltile/wltile/internal/wm/container"
	"github.com/wltile/wltile/internal/wm/output"
	"github.com/wltile/wltile/internal/wm/tag"
	"github.com/wltile/wltile/internal/wmerr"
)

// SplitType is the axis an internal node divides its area along.
type SplitType int

const (
	Horizontal SplitType = iota
	Vertical
)

// Position names which side of a split a node occupies, or that it is
// the tree root.
type Position int

const (
	Left Position = iota
	Right
	Root
)

// Node is one BSP tree node: either an internal split or a leaf holding
// exactly one container (spec §3 "BSP tree"). Internal nodes carry their
// own area in local layout coordinates; leaves inherit theirs from their
// parent during a recompute.
type Node struct {
	Leaf      bool
	Container *container.Container

	Parent, Left, Right *Node

	Enabled   bool
	Split     SplitType
	LeftWfact float64

	X, Y, Width, Height int
}

func nodeGetSibling(parent, me *Node) *Node {
	if parent.Left == me {
		return parent.Right
	}
	return parent.Left
}

func destroyNode(node *Node) {
	if node == nil {
		return
	}
	destroyNode(node.Left)
	destroyNode(node.Right)
	if node.Container != nil {
		node.Container.BSPNode = nil
	}
}

func nodeReparent(parent, node *Node, pos Position) {
	if node.Parent != nil {
		switch {
		case node.Parent.Left == node:
			node.Parent.Left = nil
		case node.Parent.Right == node:
			node.Parent.Right = nil
		}
	}
	if parent != nil {
		switch pos {
		case Left:
			parent.Left = node
		case Right:
			parent.Right = node
		}
	}
	node.Parent = parent
}

// GetRoot walks parent links to the tree root.
func GetRoot(node *Node) *Node {
	if node.Parent == nil {
		return node
	}
	return GetRoot(node.Parent)
}

func newInternal(parent *Node, box geom.Box, split SplitType, pos Position) *Node {
	n := &Node{Enabled: true, Split: split, LeftWfact: 0.5}
	nodeReparent(parent, n, pos)
	n.X, n.Y, n.Width, n.Height = box.X, box.Y, box.Width, box.Height
	return n
}

func newLeaf(parent *Node, c *container.Container, pos Position) *Node {
	n := &Node{Leaf: true, Container: c, Enabled: true}
	nodeReparent(parent, n, pos)
	return n
}

// leafConfigure applies gapped geometry to a leaf's container (unless it
// is floating or the workspace isn't in BSP mode) and records the node's
// area. Mirrors bsp_node_leaf_configure, including its quirk of reading
// the container's output's *currently active* tag info rather than the
// specific workspace being recomputed — the original relies on a tree
// only ever being recomputed while its workspace is the active one.
func leafConfigure(node *Node, x, y, w, h int) {
	c := node.Container
	o, ok := c.Output.(*output.Output)
	if !ok || o == nil {
		return
	}
	info := o.CurrentTagInfo()
	if !c.State.Has(container.StateFloating) && info.LayoutMode == tag.BSP {
		c.SetBoxGap(geom.Box{X: x, Y: y, Width: w, Height: h}, info.UselessGaps)
	}
	node.X, node.Y, node.Width, node.Height = x, y, w, h
}

// updateNode recomputes position/size for both children of parent from
// its split type and left_wfact, recursing into internal children and
// calling leafConfigure on leaves. Mirrors bsp_update_node exactly,
// including the "collapse onto the enabled child" rule when one side is
// disabled (e.g. fullscreened out of the tiling flow).
func updateNode(parent *Node) {
	left, right := parent.Left, parent.Right

	left.X, left.Y = parent.X, parent.Y

	switch parent.Split {
	case Horizontal:
		left.Width = int(float64(parent.Width) * parent.LeftWfact)
		left.Height = parent.Height
		right.Width = parent.Width - left.Width
		right.Height = parent.Height
		right.X = left.X + left.Width
		right.Y = left.Y
	case Vertical:
		left.Width = parent.Width
		left.Height = int(float64(parent.Height) * parent.LeftWfact)
		right.Width = parent.Width
		right.Height = parent.Height - left.Height
		right.X = left.X
		right.Y = left.Y + left.Height
	}

	if !right.Enabled {
		left.Width = parent.Width
		left.Height = parent.Height
	}

	if left.Enabled {
		if left.Leaf {
			leafConfigure(left, parent.X, parent.Y, left.Width, left.Height)
		} else {
			left.X, left.Y = parent.X, parent.Y
			updateNode(left)
		}
	} else {
		right.X, right.Y = parent.X, parent.Y
		right.Width, right.Height = parent.Width, parent.Height
	}

	if right.Enabled {
		if right.Leaf {
			leafConfigure(right, right.X, right.Y, right.Width, right.Height)
		} else {
			updateNode(right)
		}
	}
}

func entryRaw(o *output.Output, workspace int) *tag.BSPRootEntry {
	return &o.State.TagInfo[workspace].BSP
}

// EntryGet returns the workspace's root entry, or nil if it has never
// had a container tiled into it.
func EntryGet(o *output.Output, workspace int) *tag.BSPRootEntry {
	e := entryRaw(o, workspace)
	if e.Root == nil {
		return nil
	}
	return e
}

// EntryInit installs root as workspace's tree root.
func EntryInit(o *output.Output, workspace int, root *Node) *tag.BSPRootEntry {
	e := entryRaw(o, workspace)
	e.Root = root
	return e
}

// EntryFini tears down workspace's entire tree, freeing every node.
func EntryFini(o *output.Output, workspace int) {
	e := EntryGet(o, workspace)
	if e == nil {
		return
	}
	if e.Root != nil {
		destroyNode(e.Root.(*Node))
	}
	e.Root = nil
	e.LastFocused = nil
}

// UpdateRoot recomputes the whole tree for workspace in O(n), or is a
// no-op if the workspace has no tree yet or isn't in BSP mode (spec
// §4.4, "update"). A single-leaf tree is configured directly against
// the output's usable area.
func UpdateRoot(o *output.Output, workspace int) {
	e := entryRaw(o, workspace)
	info := &o.State.TagInfo[workspace]
	if e.Root == nil || info.LayoutMode != tag.BSP {
		return
	}
	root := e.Root.(*Node)
	usable := o.UsableArea()

	if root.Leaf {
		leafConfigure(root, usable.X, usable.Y, usable.Width, usable.Height)
		return
	}

	root.Width, root.Height = usable.Width, usable.Height
	root.X, root.Y = usable.X, usable.Y
	updateNode(root)
}

func enableRecursive(node *Node) *Node {
	node.Enabled = true
	if node.Parent == nil {
		return node
	}
	return enableRecursive(node.Parent)
}

// EnableNode re-enables node and every ancestor up to the root, then
// recomputes as little of the tree as that implies (spec §4.4, used
// when a container stops being maximized/fullscreen and rejoins
// tiling).
func EnableNode(node *Node) {
	root := enableRecursive(node)
	if !root.Leaf {
		updateNode(root)
		return
	}
	if o, ok := root.Container.Output.(*output.Output); ok && o != nil {
		UpdateRoot(o, root.Container.Workspace)
	}
}

func disableRecursive(node *Node) *Node {
	node.Enabled = false
	parent := node.Parent
	if parent == nil {
		return node
	}
	if !parent.Left.Enabled && !parent.Right.Enabled {
		return disableRecursive(parent)
	}
	return node
}

// DisableNode disables node and, transitively, any ancestor whose both
// children have become disabled, then recomputes the surviving part of
// the tree (spec §4.4, used when a container is maximized/fullscreened
// out of the tiling flow).
func DisableNode(node *Node) {
	last := disableRecursive(node)
	if !last.Leaf {
		if last.Parent != nil {
			updateNode(last.Parent)
		}
		return
	}
	if o, ok := last.Container.Output.(*output.Output); ok && o != nil {
		UpdateRoot(o, last.Container.Workspace)
	}
}

// LastFocusedUpdate records container as the workspace's most recently
// focused tiled container, the insertion point used the next time a
// sibling-less InsertContainer needs somewhere to attach (spec §4.4).
func LastFocusedUpdate(c *container.Container) {
	o, ok := c.Output.(*output.Output)
	if !ok {
		return
	}
	e := EntryGet(o, c.Workspace)
	if e == nil {
		return
	}
	e.LastFocused = c
}

func findClosestLeafSibling(me *Node) *Node {
	parent := me.Parent
	if parent.Right == me {
		return leafGet(parent.Left, false)
	}
	return leafGet(parent.Right, true)
}

func leafGet(node *Node, toLeft bool) *Node {
	if node.Leaf {
		return node
	}
	if toLeft {
		return leafGet(node.Left, true)
	}
	return leafGet(node.Right, false)
}

func insertContainer(e *tag.BSPRootEntry, sibling, newC *container.Container, pos Position, o *output.Output) {
	siblingNode := sibling.BSPNode.(*Node)
	oldGeom := geom.Box{X: siblingNode.X, Y: siblingNode.Y, Width: siblingNode.Width, Height: siblingNode.Height}
	split := Horizontal
	if oldGeom.Width < oldGeom.Height {
		split = Vertical
	}

	grandparent := siblingNode.Parent
	var parentNode *Node
	switch {
	case grandparent == nil:
		parentNode = newInternal(nil, oldGeom, split, Root)
	case grandparent.Left == siblingNode:
		parentNode = newInternal(grandparent, oldGeom, split, Left)
	case grandparent.Right == siblingNode:
		parentNode = newInternal(grandparent, oldGeom, split, Right)
	default:
		wmerr.Report(wmerr.New(wmerr.Precondition, "insertContainer: sibling not linked from its parent"))
		return
	}

	if e.Root.(*Node) == siblingNode {
		usable := o.UsableArea()
		parentNode.X, parentNode.Y, parentNode.Width, parentNode.Height = usable.X, usable.Y, usable.Width, usable.Height
		parentNode.LeftWfact = 0.5
		e.Root = parentNode
	}

	if pos == Right {
		newC.BSPNode = newLeaf(parentNode, newC, Right)
		nodeReparent(parentNode, siblingNode, Left)
	} else {
		newC.BSPNode = newLeaf(parentNode, newC, Left)
		nodeReparent(parentNode, siblingNode, Right)
	}
	siblingNode.Parent = parentNode

	EnableNode(newC.BSPNode.(*Node))
}

func insertContainerEntry(newC *container.Container, workspace int, pos Position) {
	o, ok := newC.Output.(*output.Output)
	if !ok || o == nil {
		wmerr.Report(wmerr.New(wmerr.Precondition, "InsertContainer: container has no *output.Output"))
		return
	}
	if newC.BSPNode != nil {
		wmerr.Report(wmerr.New(wmerr.Precondition, "InsertContainer: container already has a bsp node"))
		return
	}
	newC.SetState(container.StateFloating, false)
	newC.Workspace = workspace

	e := entryRaw(o, workspace)
	if e.Root == nil {
		leaf := newLeaf(nil, newC, Root)
		newC.BSPNode = leaf
		e.Root = leaf
		UpdateRoot(o, workspace)
		e.LastFocused = newC
		return
	}

	sibling, _ := e.LastFocused.(*container.Container)
	if sibling == nil {
		wmerr.Report(wmerr.New(wmerr.Precondition, "InsertContainer: workspace has a tree but no last_focused container"))
		return
	}
	insertContainer(e, sibling, newC, pos, o)
	e.LastFocused = newC
}

// InsertContainer tiles new into workspace's tree to the right of the
// most recently focused container (spec §4.4 "insert").
func InsertContainer(newC *container.Container, workspace int) {
	insertContainerEntry(newC, workspace, Right)
}

// InsertContainerPos is InsertContainer with an explicit side, used by
// the interactive drag-and-drop insert path (spec §4.4 "insert at
// position").
func InsertContainerPos(newC *container.Container, workspace int, pos Position) {
	insertContainerEntry(newC, workspace, pos)
}

// RemoveContainer detaches container from its tree, collapsing its
// former sibling up into the vacated parent slot, and optionally
// recomputes the surviving subtree (spec §4.4 "remove").
func RemoveContainer(c *container.Container, update bool) {
	o, ok := c.Output.(*output.Output)
	if !ok || o == nil {
		return
	}
	workspace := c.Workspace
	e := entryRaw(o, workspace)
	contNode, ok := c.BSPNode.(*Node)
	if !ok || contNode == nil {
		wmerr.Report(wmerr.New(wmerr.Transient, "RemoveContainer: container has no bsp node"))
		return
	}

	if e.Root != nil && contNode == e.Root.(*Node) {
		EntryFini(o, workspace)
		return
	}

	parentNode := contNode.Parent
	siblingNode := nodeGetSibling(parentNode, contNode)

	if lf, ok := e.LastFocused.(*container.Container); ok && lf == c {
		e.LastFocused = findClosestLeafSibling(contNode).Container
	}

	var grandparent *Node
	if e.Root != nil && parentNode == e.Root.(*Node) {
		e.Root = siblingNode
		nodeReparent(nil, siblingNode, Root)
	} else {
		grandparent = parentNode.Parent
		switch {
		case grandparent.Left == parentNode:
			nodeReparent(grandparent, siblingNode, Left)
		case grandparent.Right == parentNode:
			nodeReparent(grandparent, siblingNode, Right)
		default:
			wmerr.Report(wmerr.New(wmerr.Precondition, "RemoveContainer: parent not linked from grandparent"))
		}
	}

	nodeReparent(nil, contNode, Root)
	destroyNode(parentNode)
	destroyNode(contNode)
	c.BSPNode = nil

	if update {
		if grandparent != nil {
			updateNode(grandparent)
		} else {
			UpdateRoot(o, workspace)
		}
	}
}

// UpdateNode recomputes parent's two children's geometry in place,
// without touching the rest of the tree. Exported for the cursor
// package's interactive resize-fence drag (spec §4.6 ResizeBSP), which
// adjusts a single fence's left_wfact per frame and needs the matching
// partial recompute bsp_update_node performs, rather than a whole-tree
// UpdateRoot pass.
func UpdateNode(parent *Node) {
	updateNode(parent)
}

// ToggleSplit flips node's (or node's parent, if node is a leaf) split
// axis and recomputes it (spec §4.4 "toggle-split").
func ToggleSplit(node *Node) {
	if node == nil {
		return
	}
	if node.Leaf {
		node = node.Parent
	}
	if node == nil {
		return
	}
	if node.Split == Horizontal {
		node.Split = Vertical
	} else {
		node.Split = Horizontal
	}
	updateNode(node)
}

// ShouldInsertAtPosition decides which side of region a drop point
// belongs on (spec §4.4 "should-insert position"), delegating the pure
// geometry to geom.ShouldInsertAt.
func ShouldInsertAtPosition(region geom.Box, x, y int) Position {
	if geom.ShouldInsertAt(region, x, y) == geom.Right {
		return Right
	}
	return Left
}

func findFence(node *Node, split SplitType, pos Position) *Node {
	parent := node.Parent
	for parent != nil {
		if parent.Split == split {
			switch pos {
			case Right:
				if parent.Right == node {
					return parent
				}
			case Left:
				if parent.Left == node {
					return parent
				}
			}
		}
		node = parent
		parent = parent.Parent
	}
	return nil
}

// FindResizeFence walks up from reference looking for the nearest
// ancestor split that a resize against edges would actually move (spec
// §4.4 "find-resize-fence").
func FindResizeFence(reference *Node, edges geom.Edge) (vertical, horizontal *Node) {
	if reference.Parent == nil {
		return nil, nil
	}
	if edges.Has(geom.EdgeTop) {
		vertical = findFence(reference, Vertical, Right)
	} else if edges.Has(geom.EdgeBottom) {
		vertical = findFence(reference, Vertical, Left)
	}
	if edges.Has(geom.EdgeLeft) {
		horizontal = findFence(reference, Horizontal, Right)
	} else if edges.Has(geom.EdgeRight) {
		horizontal = findFence(reference, Horizontal, Left)
	}
	return vertical, horizontal
}
