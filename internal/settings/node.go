// Package settings holds the in-memory settings tree and the model that keeps
// it synchronized with a flat domain.Store and exposes it to a UI binding layer.
//
// Nodes live in an arena (Tree) and are addressed by generation-checked ids,
// so a Node value never dangles: once its slot is freed every copy of it
// reports IsNil.
package settings

import (
	"strings"

	"github.com/appscaffold/appscaffold/internal/domain"
	"github.com/spf13/cast"
)

// Columns exposed by every node
const (
	ColumnGroup = iota
	ColumnKey
	ColumnValue

	columnCount
)

// NodeID addresses a slot in a Tree. The generation changes every time the
// slot is reused, which invalidates ids handed out earlier.
type NodeID struct {
	slot int
	gen  uint32
}

type nodeData struct {
	group     string
	key       string
	value     interface{}
	parent    NodeID
	children  []NodeID
	gen       uint32
	alive     bool
	synthetic bool
}

// Tree is the arena owning every node. A node owns its children: clearing or
// removing a node frees its whole subtree.
type Tree struct {
	slots []nodeData
	free  []int
}

// NewTree creates an empty arena
func NewTree() *Tree {
	return &Tree{}
}

// NewNode allocates a detached node
func (t *Tree) NewNode(group, key string, value interface{}) Node {
	return t.alloc(nodeData{group: group, key: key, value: value})
}

// NewRoot allocates a synthetic root. FullGroup never includes it.
func (t *Tree) NewRoot() Node {
	return t.alloc(nodeData{synthetic: true})
}

// Len returns the number of live nodes
func (t *Tree) Len() int {
	return len(t.slots) - len(t.free)
}

func (t *Tree) alloc(data nodeData) Node {
	data.alive = true

	if n := len(t.free); n > 0 {
		slot := t.free[n-1]
		t.free = t.free[:n-1]
		data.gen = t.slots[slot].gen + 1
		t.slots[slot] = data
		return Node{tree: t, id: NodeID{slot: slot, gen: data.gen}}
	}

	data.gen = 1
	t.slots = append(t.slots, data)
	return Node{tree: t, id: NodeID{slot: len(t.slots) - 1, gen: 1}}
}

func (t *Tree) get(id NodeID) *nodeData {
	if t == nil || id.slot < 0 || id.slot >= len(t.slots) {
		return nil
	}
	data := &t.slots[id.slot]
	if !data.alive || data.gen != id.gen {
		return nil
	}
	return data
}

func (t *Tree) node(id NodeID) Node {
	if t.get(id) == nil {
		return Node{}
	}
	return Node{tree: t, id: id}
}

// release frees the subtree rooted at id, including id itself
func (t *Tree) release(id NodeID) {
	stack := []NodeID{id}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		data := t.get(current)
		if data == nil {
			continue
		}
		stack = append(stack, data.children...)
		*data = nodeData{gen: data.gen}
		t.free = append(t.free, current.slot)
	}
}

// Node is a lightweight reference to a node in a Tree. The zero Node is nil.
type Node struct {
	tree *Tree
	id   NodeID
}

func (n Node) data() *nodeData {
	return n.tree.get(n.id)
}

// IsNil reports whether n references no live node
func (n Node) IsNil() bool {
	return n.data() == nil
}

// ID returns the arena id of the node
func (n Node) ID() NodeID {
	return n.id
}

// Group returns the node's own group segment
func (n Node) Group() string {
	if d := n.data(); d != nil {
		return d.group
	}
	return ""
}

// Key returns the leaf key name
func (n Node) Key() string {
	if d := n.data(); d != nil {
		return d.key
	}
	return ""
}

// Value returns the leaf payload
func (n Node) Value() interface{} {
	if d := n.data(); d != nil {
		return d.value
	}
	return nil
}

// SetValue replaces the leaf payload
func (n Node) SetValue(value interface{}) {
	if d := n.data(); d != nil {
		d.value = value
	}
}

// IsSynthetic reports whether n is a tree root that is not part of any path
func (n Node) IsSynthetic() bool {
	if d := n.data(); d != nil {
		return d.synthetic
	}
	return false
}

// AppendChild attaches child as the last child of n and takes ownership of
// it. A child that already has a parent is moved. Attaching n to itself or to
// one of its descendants is refused.
func (n Node) AppendChild(child Node) bool {
	d, c := n.data(), child.data()
	if d == nil || c == nil || n.tree != child.tree || n.id == child.id {
		return false
	}
	for ancestor := n.Parent(); !ancestor.IsNil(); ancestor = ancestor.Parent() {
		if ancestor.id == child.id {
			return false
		}
	}

	if old := n.tree.get(c.parent); old != nil {
		old.children = removeID(old.children, child.id)
	}
	c.parent = n.id
	d.children = append(d.children, child.id)
	return true
}

// Child returns the child at row, or a nil Node when row is out of range
func (n Node) Child(row int) Node {
	d := n.data()
	if d == nil || row < 0 || row >= len(d.children) {
		return Node{}
	}
	return n.tree.node(d.children[row])
}

// Children returns the children in insertion order
func (n Node) Children() []Node {
	d := n.data()
	if d == nil {
		return nil
	}
	children := make([]Node, 0, len(d.children))
	for _, id := range d.children {
		children = append(children, Node{tree: n.tree, id: id})
	}
	return children
}

// ChildCount returns the number of children
func (n Node) ChildCount() int {
	if d := n.data(); d != nil {
		return len(d.children)
	}
	return 0
}

// ColumnCount is fixed: group, key, value
func (n Node) ColumnCount() int {
	return columnCount
}

// Data returns the field shown in column, or nil for an unknown column
func (n Node) Data(column int) interface{} {
	d := n.data()
	if d == nil {
		return nil
	}
	switch column {
	case ColumnGroup:
		return d.group
	case ColumnKey:
		return d.key
	case ColumnValue:
		return d.value
	}
	return nil
}

// SetData writes the field shown in column
func (n Node) SetData(column int, value interface{}) {
	d := n.data()
	if d == nil {
		return
	}
	switch column {
	case ColumnGroup:
		d.group = cast.ToString(value)
	case ColumnKey:
		d.key = cast.ToString(value)
	case ColumnValue:
		d.value = value
	}
}

// Row returns the index of n within its parent, 0 without a parent
func (n Node) Row() int {
	d := n.data()
	if d == nil {
		return 0
	}
	parent := n.tree.get(d.parent)
	if parent == nil {
		return 0
	}
	for i, id := range parent.children {
		if id == n.id {
			return i
		}
	}
	return 0
}

// Parent returns the parent node, nil for a detached node
func (n Node) Parent() Node {
	d := n.data()
	if d == nil {
		return Node{}
	}
	return n.tree.node(d.parent)
}

// HasParent reports whether n is attached
func (n Node) HasParent() bool {
	return !n.Parent().IsNil()
}

// HasChildren reports whether n has at least one child
func (n Node) HasChildren() bool {
	return n.ChildCount() > 0
}

// FindByGroup searches n and its descendants depth first, pre-order, and
// returns the first node whose group is name.
func (n Node) FindByGroup(name string) Node {
	return n.find(func(d *nodeData) bool { return d.group == name })
}

// FindByKey searches like FindByGroup, matching the key instead
func (n Node) FindByKey(name string) Node {
	return n.find(func(d *nodeData) bool { return d.key == name })
}

func (n Node) find(match func(*nodeData) bool) Node {
	if n.IsNil() {
		return Node{}
	}

	stack := []NodeID{n.id}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		d := n.tree.get(id)
		if d == nil {
			continue
		}
		if match(d) {
			return Node{tree: n.tree, id: id}
		}
		for i := len(d.children) - 1; i >= 0; i-- {
			stack = append(stack, d.children[i])
		}
	}
	return Node{}
}

// ChildByGroup returns the direct child group node called name
func (n Node) ChildByGroup(name string) Node {
	for _, child := range n.Children() {
		if child.Key() == "" && child.Group() == name {
			return child
		}
	}
	return Node{}
}

// ChildByKey returns the direct child leaf called name
func (n Node) ChildByKey(name string) Node {
	for _, child := range n.Children() {
		if child.Key() == name {
			return child
		}
	}
	return Node{}
}

// FullGroup joins the group names of every ancestor of n, outermost first,
// with '/'. The node itself and a synthetic root are not part of the result.
func (n Node) FullGroup() string {
	var groups []string
	for ancestor := n.Parent(); !ancestor.IsNil(); ancestor = ancestor.Parent() {
		if ancestor.IsSynthetic() {
			break
		}
		groups = append(groups, ancestor.Group())
	}

	for i, j := 0, len(groups)-1; i < j; i, j = i+1, j-1 {
		groups[i], groups[j] = groups[j], groups[i]
	}
	return strings.Join(groups, domain.Separator)
}

// Clear frees every descendant of n. The node's own fields are kept.
func (n Node) Clear() {
	d := n.data()
	if d == nil {
		return
	}
	children := d.children
	d.children = nil
	for _, id := range children {
		n.tree.release(id)
	}
}

// Remove detaches n from its parent and frees it with its subtree
func (n Node) Remove() {
	d := n.data()
	if d == nil {
		return
	}
	if parent := n.tree.get(d.parent); parent != nil {
		parent.children = removeID(parent.children, n.id)
	}
	n.tree.release(n.id)
}

func removeID(ids []NodeID, id NodeID) []NodeID {
	for i, candidate := range ids {
		if candidate == id {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}
	return ids
}
