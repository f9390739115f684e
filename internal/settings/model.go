package settings

import (
	"fmt"
	"strings"

	"github.com/appscaffold/appscaffold/internal/domain"
	"github.com/appscaffold/appscaffold/internal/logging"
	"github.com/appscaffold/appscaffold/internal/store"
)

// Role selects which aspect of a node Data and SetData operate on
type Role int

const (
	RoleDisplay Role = iota
	RoleEdit
	RoleGroup
	RoleKey
	RoleValue
)

// ItemFlags describe how a UI may interact with an item
type ItemFlags uint8

const (
	ItemIsSelectable ItemFlags = 1 << iota
	ItemIsEditable
	ItemIsEnabled

	ItemNoFlags ItemFlags = 0
)

// Has reports whether all bits of flag are set
func (f ItemFlags) Has(flag ItemFlags) bool {
	return f&flag == flag
}

// Handle addresses a node through the model: row and column relative to the
// parent, plus the node's arena id. Handles to freed nodes are invalid.
type Handle struct {
	row    int
	column int
	node   NodeID
	model  *Model
}

// InvalidHandle returns the handle that addresses the root
func InvalidHandle() Handle {
	return Handle{row: -1, column: -1}
}

// Row returns the row of the handle, -1 when invalid
func (h Handle) Row() int {
	if !h.IsValid() {
		return -1
	}
	return h.row
}

// Column returns the column of the handle, -1 when invalid
func (h Handle) Column() int {
	if !h.IsValid() {
		return -1
	}
	return h.column
}

// IsValid reports whether h addresses a live node
func (h Handle) IsValid() bool {
	return h.model != nil && h.row >= 0 && h.column >= 0 && h.model.tree.get(h.node) != nil
}

// Node returns the addressed node, nil when h is invalid
func (h Handle) Node() Node {
	if !h.IsValid() {
		return Node{}
	}
	return h.model.tree.node(h.node)
}

// Observer receives the structural and data notifications of a Model.
// Notifications are delivered synchronously on the mutating goroutine.
type Observer interface {
	RowsAboutToBeInserted(parent Handle, first, last int)
	RowsInserted(parent Handle, first, last int)
	ModelAboutToBeReset()
	ModelReset()
	DataChanged(topLeft, bottomRight Handle, roles []Role)
}

// ObserverFuncs adapts optional callbacks to Observer
type ObserverFuncs struct {
	OnRowsAboutToBeInserted func(parent Handle, first, last int)
	OnRowsInserted          func(parent Handle, first, last int)
	OnModelAboutToBeReset   func()
	OnModelReset            func()
	OnDataChanged           func(topLeft, bottomRight Handle, roles []Role)
}

func (o ObserverFuncs) RowsAboutToBeInserted(parent Handle, first, last int) {
	if o.OnRowsAboutToBeInserted != nil {
		o.OnRowsAboutToBeInserted(parent, first, last)
	}
}

func (o ObserverFuncs) RowsInserted(parent Handle, first, last int) {
	if o.OnRowsInserted != nil {
		o.OnRowsInserted(parent, first, last)
	}
}

func (o ObserverFuncs) ModelAboutToBeReset() {
	if o.OnModelAboutToBeReset != nil {
		o.OnModelAboutToBeReset()
	}
}

func (o ObserverFuncs) ModelReset() {
	if o.OnModelReset != nil {
		o.OnModelReset()
	}
}

func (o ObserverFuncs) DataChanged(topLeft, bottomRight Handle, roles []Role) {
	if o.OnDataChanged != nil {
		o.OnDataChanged(topLeft, bottomRight, roles)
	}
}

// Model exposes a settings tree through row/column handles and keeps it in
// step with a flat store. With sync enabled every mutation is written to the
// store immediately; otherwise leaves are flushed on SaveToFile.
//
// A Model is not safe for concurrent use.
type Model struct {
	store     domain.Store
	tree      *Tree
	root      Node
	sync      bool
	logger    domain.Logger
	observers []Observer
	resetting bool
}

// Option configures a Model
type Option func(*Model)

// WithSync sets the initial sync mode
func WithSync(enabled bool) Option {
	return func(m *Model) {
		m.sync = enabled
	}
}

// WithLogger sets the model logger
func WithLogger(logger domain.Logger) Option {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewModel builds a model over s and populates the tree from the keys the
// store already holds. A nil store is replaced by an empty in-memory one.
func NewModel(s domain.Store, opts ...Option) *Model {
	if s == nil {
		s = store.New()
	}

	tree := NewTree()
	m := &Model{
		store:  s,
		tree:   tree,
		root:   tree.NewRoot(),
		sync:   true,
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.loadFromStore()
	return m
}

// Store returns the backing store
func (m *Model) Store() domain.Store {
	return m.store
}

// Root returns the synthetic root whose children are the top-level groups
func (m *Model) Root() Node {
	return m.root
}

// AddObserver registers o for change notifications
func (m *Model) AddObserver(o Observer) {
	if o != nil {
		m.observers = append(m.observers, o)
	}
}

// SyncEnabled reports whether mutations are written through to the store
func (m *Model) SyncEnabled() bool {
	return m.sync
}

// SetSyncEnabled switches write-through on or off
func (m *Model) SetSyncEnabled(enabled bool) {
	m.sync = enabled
}

// Index returns the handle of the child at row and column under parent. An
// invalid parent addresses the root.
func (m *Model) Index(row, column int, parent Handle) Handle {
	parentNode := m.nodeOf(parent)
	if row < 0 || column < 0 || column >= columnCount || row >= parentNode.ChildCount() {
		return InvalidHandle()
	}
	child := parentNode.Child(row)
	if child.IsNil() {
		return InvalidHandle()
	}
	return Handle{row: row, column: column, node: child.id, model: m}
}

// Parent returns the handle of the node's parent in column 0. Top-level
// groups and invalid handles yield the invalid handle.
func (m *Model) Parent(child Handle) Handle {
	if !child.IsValid() || child.model != m {
		return InvalidHandle()
	}
	parent := child.Node().Parent()
	if parent.IsNil() || parent.id == m.root.id {
		return InvalidHandle()
	}
	return m.HandleOf(parent, ColumnGroup)
}

// HandleOf returns a handle addressing node in column. The root and nodes of
// other trees yield the invalid handle.
func (m *Model) HandleOf(node Node, column int) Handle {
	if node.IsNil() || node.tree != m.tree || node.id == m.root.id || column < 0 || column >= columnCount {
		return InvalidHandle()
	}
	return Handle{row: node.Row(), column: column, node: node.id, model: m}
}

// RowCount returns the number of children under parent
func (m *Model) RowCount(parent Handle) int {
	return m.nodeOf(parent).ChildCount()
}

// ColumnCount is 3 for every parent
func (m *Model) ColumnCount(parent Handle) int {
	return columnCount
}

// Data returns the value addressed by h for role, nil when either is unusable
func (m *Model) Data(h Handle, role Role) interface{} {
	if !h.IsValid() || h.model != m {
		return nil
	}
	node := h.Node()

	switch role {
	case RoleDisplay, RoleEdit:
		return node.Data(h.column)
	case RoleGroup:
		return node.Group()
	case RoleKey:
		return node.Key()
	case RoleValue:
		return node.Value()
	}
	return nil
}

// SetData edits the column addressed by h. Only RoleEdit is accepted. With
// sync enabled the leaf's value is written to the store under its full path.
func (m *Model) SetData(h Handle, value interface{}, role Role) bool {
	if !h.IsValid() || h.model != m || role != RoleEdit {
		return false
	}
	node := h.Node()
	node.SetData(h.column, value)

	if m.sync {
		if group, key, ok := storePath(node); ok {
			m.store.SetIn(group, key, node.Value())
		}
	}

	m.emitDataChanged(h, h, []Role{role})
	return true
}

// Flags returns the interaction flags of h
func (m *Model) Flags(h Handle) ItemFlags {
	if !h.IsValid() {
		return ItemNoFlags
	}
	return ItemIsEditable | ItemIsEnabled | ItemIsSelectable
}

// RoleNames maps the custom roles to the names a view binds against
func (m *Model) RoleNames() map[Role]string {
	return map[Role]string{
		RoleGroup: "group",
		RoleKey:   "key",
		RoleValue: "value",
	}
}

// Value reads key under group straight from the store. An empty group means
// the default group.
func (m *Model) Value(key, group string, defaultValue interface{}) interface{} {
	if group == "" {
		group = domain.DefaultGroup
	}
	return m.store.GetIn(group, key, defaultValue)
}

// SetValue creates or updates the leaf for key under group, creating missing
// group nodes along the way. Segments of key before its last '/' become
// nested groups. Group nodes are matched among direct children only, so the
// same name may appear in unrelated branches.
func (m *Model) SetValue(key string, value interface{}, group string) {
	if group == "" {
		group = domain.DefaultGroup
	}
	parts := splitPath(key)
	if len(parts) == 0 {
		m.logger.Warn("Ignoring setting with empty key", "group", group)
		return
	}

	groupNode := m.root.ChildByGroup(group)
	if groupNode.IsNil() {
		groupNode = m.createNode(group, "", "", m.root)
	}
	for _, name := range parts[:len(parts)-1] {
		sub := groupNode.ChildByGroup(name)
		if sub.IsNil() {
			sub = m.createNode(name, "", "", groupNode)
		}
		groupNode = sub
	}

	m.createOrUpdateKeyNode(parts[len(parts)-1], value, groupNode)

	if m.sync {
		m.store.SetIn(group, strings.Join(parts, domain.Separator), value)
	}
}

// LoadFromFile replaces the tree with the contents of path, using the format
// implied by its extension
func (m *Model) LoadFromFile(path string) error {
	return m.LoadFromFileAs(path, domain.FormatFromPath(path))
}

// LoadFromFileAs replaces the tree with the contents of path in format. When
// the file cannot be read the store keeps its data and the tree is rebuilt
// from it. Observers see a single reset spanning the whole reload.
func (m *Model) LoadFromFileAs(path string, format domain.Format) error {
	for _, o := range m.observers {
		o.ModelAboutToBeReset()
	}

	m.resetting = true
	m.root.Clear()
	err := m.store.LoadFromFile(path, format)
	m.loadFromStore()
	m.resetting = false

	for _, o := range m.observers {
		o.ModelReset()
	}

	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	m.logger.Info("Settings loaded", "path", path, "format", format.String(), "nodes", m.tree.Len()-1)
	return nil
}

// SaveToFile writes the store to path in the format implied by its extension
func (m *Model) SaveToFile(path string) error {
	return m.SaveToFileAs(path, domain.FormatFromPath(path))
}

// SaveToFileAs writes the store to path in format. With sync disabled every
// leaf is flushed into the store first.
func (m *Model) SaveToFileAs(path string, format domain.Format) error {
	if !m.sync {
		for _, leaf := range m.LeafNodes() {
			if group, key, ok := storePath(leaf); ok {
				m.store.SetIn(group, key, leaf.Value())
			}
		}
	}

	if err := m.store.SaveToFile(path, format); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	m.logger.Info("Settings saved", "path", path, "format", format.String())
	return nil
}

// Reset discards every node below the root. Handles issued before are
// invalid afterwards.
func (m *Model) Reset() {
	for _, o := range m.observers {
		o.ModelAboutToBeReset()
	}
	m.root.Clear()
	for _, o := range m.observers {
		o.ModelReset()
	}
}

// LeafNodes returns every key node in pre-order
func (m *Model) LeafNodes() []Node {
	var leaves []Node
	stack := m.root.Children()
	for i, j := 0, len(stack)-1; i < j; i, j = i+1, j-1 {
		stack[i], stack[j] = stack[j], stack[i]
	}

	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if node.Key() != "" && !node.HasChildren() {
			leaves = append(leaves, node)
		}
		children := node.Children()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return leaves
}

// FindGroup searches the whole tree for a group node called name
func (m *Model) FindGroup(name string) Node {
	for _, child := range m.root.Children() {
		if found := child.FindByGroup(name); !found.IsNil() {
			return found
		}
	}
	return Node{}
}

// FindKey searches the whole tree for a leaf called name
func (m *Model) FindKey(name string) Node {
	for _, child := range m.root.Children() {
		if found := child.FindByKey(name); !found.IsNil() {
			return found
		}
	}
	return Node{}
}

func (m *Model) nodeOf(h Handle) Node {
	if !h.IsValid() || h.model != m {
		return m.root
	}
	return h.Node()
}

func (m *Model) loadFromStore() {
	for _, fullKey := range m.store.AllKeys() {
		group, key, found := strings.Cut(fullKey, domain.Separator)
		if !found {
			m.logger.Debug("Skipping ungrouped setting", "key", fullKey)
			continue
		}
		m.SetValue(key, m.store.Get(fullKey, nil), group)
	}
}

func (m *Model) createNode(group, key string, value interface{}, parent Node) Node {
	if parent.IsNil() {
		return Node{}
	}

	node := m.tree.NewNode(group, key, value)
	if m.resetting {
		parent.AppendChild(node)
		return node
	}

	parentHandle := m.HandleOf(parent, ColumnGroup)
	row := parent.ChildCount()
	for _, o := range m.observers {
		o.RowsAboutToBeInserted(parentHandle, row, row)
	}

	parent.AppendChild(node)

	for _, o := range m.observers {
		o.RowsInserted(parentHandle, row, row)
	}
	return node
}

func (m *Model) createOrUpdateKeyNode(key string, value interface{}, parent Node) {
	node := parent.ChildByKey(key)
	if node.IsNil() {
		m.createNode("", key, value, parent)
		return
	}
	m.SetData(m.HandleOf(node, ColumnValue), value, RoleEdit)
}

func (m *Model) emitDataChanged(topLeft, bottomRight Handle, roles []Role) {
	if m.resetting {
		return
	}
	for _, o := range m.observers {
		o.DataChanged(topLeft, bottomRight, roles)
	}
}

// storePath splits the location of a leaf into its top-level group and the
// remaining key path, keeping every intermediate group
func storePath(leaf Node) (string, string, bool) {
	if leaf.Key() == "" {
		return "", "", false
	}
	fullGroup := leaf.FullGroup()
	if fullGroup == "" {
		return "", "", false
	}
	group, sub, _ := strings.Cut(fullGroup, domain.Separator)
	if sub == "" {
		return group, leaf.Key(), true
	}
	return group, sub + domain.Separator + leaf.Key(), true
}

func splitPath(key string) []string {
	var parts []string
	for _, part := range strings.Split(key, domain.Separator) {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}
