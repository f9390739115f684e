package tui

import (
	"fmt"
	"strings"

	"github.com/appscaffold/appscaffold/internal/domain"
	"github.com/appscaffold/appscaffold/internal/i18n"
	"github.com/appscaffold/appscaffold/internal/logging"
	"github.com/appscaffold/appscaffold/internal/settings"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cast"
)

// FileChangedMsg reports that the settings file was modified by someone else
type FileChangedMsg struct {
	Path string
}

// Persister saves and reloads the file behind a SettingsView
type Persister interface {
	Path() string
	Save() error
	Reload() error
}

type messageType int

const (
	messageTypeNone messageType = iota
	messageTypeSuccess
	messageTypeError
	messageTypeInfo
)

type viewStyles struct {
	header   lipgloss.Style
	selected lipgloss.Style
	group    lipgloss.Style
	key      lipgloss.Style
	value    lipgloss.Style
	editor   lipgloss.Style
	err      lipgloss.Style
	success  lipgloss.Style
	info     lipgloss.Style
	muted    lipgloss.Style
}

func newViewStyles(theme domain.Theme) viewStyles {
	return viewStyles{
		header:   StyleFor(theme, "header"),
		selected: StyleFor(theme, "row_selected"),
		group:    StyleFor(theme, "group"),
		key:      StyleFor(theme, "key"),
		value:    StyleFor(theme, "value"),
		editor:   StyleFor(theme, "editor"),
		err:      StyleFor(theme, "error"),
		success:  StyleFor(theme, "success"),
		info:     StyleFor(theme, "info"),
		muted:    StyleFor(theme, "muted"),
	}
}

type row struct {
	node  settings.Node
	depth int
}

// SettingsView renders a settings.Model as a collapsible tree and edits leaf
// values in place. It observes the model and rebuilds its rows whenever the
// tree changes.
type SettingsView struct {
	model      *settings.Model
	persister  Persister
	translator *i18n.Translator
	logger     domain.Logger
	styles     viewStyles
	keyMap     KeyMap
	editor     textinput.Model

	rows      []row
	collapsed map[string]bool
	cursor    int
	offset    int
	dirty     bool

	editing   settings.Handle
	isEditing bool

	width       int
	height      int
	showHelp    bool
	focused     bool
	quitting    bool
	message     string
	messageType messageType
}

var (
	_ domain.TUIComponent = (*SettingsView)(nil)
	_ settings.Observer   = (*SettingsView)(nil)
)

// ViewOption configures a SettingsView
type ViewOption func(*SettingsView)

// WithTheme sets the view theme
func WithTheme(theme domain.Theme) ViewOption {
	return func(v *SettingsView) {
		v.SetTheme(theme)
	}
}

// WithKeyMap replaces the default key bindings
func WithKeyMap(keyMap KeyMap) ViewOption {
	return func(v *SettingsView) {
		v.keyMap = keyMap
	}
}

// WithShowHelp sets whether the help line is shown initially
func WithShowHelp(show bool) ViewOption {
	return func(v *SettingsView) {
		v.showHelp = show
	}
}

// WithLogger sets the view logger
func WithLogger(logger domain.Logger) ViewOption {
	return func(v *SettingsView) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// NewSettingsView creates a view over model. persister may be nil, in which
// case saving and reloading report that no file is configured.
func NewSettingsView(model *settings.Model, persister Persister, translator *i18n.Translator, opts ...ViewOption) *SettingsView {
	editor := textinput.New()
	editor.Prompt = "> "
	editor.CharLimit = 1024

	if translator == nil {
		translator = i18n.New()
	}

	v := &SettingsView{
		model:      model,
		persister:  persister,
		translator: translator,
		logger:     logging.Nop(),
		styles:     newViewStyles(NewDefaultTheme()),
		keyMap:     DefaultKeyMap(),
		editor:     editor,
		collapsed:  make(map[string]bool),
		dirty:      true,
		showHelp:   true,
		focused:    true,
	}
	for _, opt := range opts {
		opt(v)
	}

	model.AddObserver(v)
	v.refresh()
	return v
}

// Init implements tea.Model
func (v *SettingsView) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (v *SettingsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetSize(msg.Width, msg.Height)

	case FileChangedMsg:
		v.logger.Info("Settings file changed on disk", "path", msg.Path)
		if v.reload() {
			v.setMessage(v.translator.Sprintf(i18n.MsgChangedOnDisk, msg.Path), messageTypeInfo)
		}

	case tea.KeyMsg:
		if !v.focused {
			break
		}
		if v.isEditing {
			cmd = v.updateEditor(msg)
		} else {
			cmd = v.updateBrowser(msg)
		}
	}

	v.refresh()
	return v, cmd
}

func (v *SettingsView) updateBrowser(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, v.keyMap.Quit):
		v.quitting = true
		return tea.Quit
	case key.Matches(msg, v.keyMap.Up):
		v.moveCursor(-1)
	case key.Matches(msg, v.keyMap.Down):
		v.moveCursor(1)
	case key.Matches(msg, v.keyMap.Expand):
		if node, ok := v.selected(); ok && node.HasChildren() {
			v.setCollapsed(node, false)
		}
	case key.Matches(msg, v.keyMap.Collapse):
		v.collapseOrAscend()
	case key.Matches(msg, v.keyMap.Edit):
		node, ok := v.selected()
		if !ok {
			break
		}
		if node.HasChildren() {
			v.setCollapsed(node, !v.collapsed[nodePath(node)])
			break
		}
		return v.startEditing(node)
	case key.Matches(msg, v.keyMap.Save):
		v.save()
	case key.Matches(msg, v.keyMap.Reload):
		v.reload()
	case key.Matches(msg, v.keyMap.Help):
		v.showHelp = !v.showHelp
	}
	return nil
}

func (v *SettingsView) updateEditor(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, v.keyMap.Cancel):
		v.cancelEditing()
		return nil
	case key.Matches(msg, v.keyMap.Edit):
		v.commitEdit()
		return nil
	}

	var cmd tea.Cmd
	v.editor, cmd = v.editor.Update(msg)
	return cmd
}

func (v *SettingsView) selected() (settings.Node, bool) {
	if v.cursor < 0 || v.cursor >= len(v.rows) {
		return settings.Node{}, false
	}
	node := v.rows[v.cursor].node
	return node, !node.IsNil()
}

func (v *SettingsView) moveCursor(delta int) {
	v.cursor += delta
	v.clampCursor()
}

func (v *SettingsView) setCollapsed(node settings.Node, collapsed bool) {
	if collapsed {
		v.collapsed[nodePath(node)] = true
	} else {
		delete(v.collapsed, nodePath(node))
	}
	v.dirty = true
}

func (v *SettingsView) collapseOrAscend() {
	node, ok := v.selected()
	if !ok {
		return
	}
	if node.HasChildren() && !v.collapsed[nodePath(node)] {
		v.setCollapsed(node, true)
		return
	}

	parent := node.Parent()
	for i := v.cursor - 1; i >= 0; i-- {
		if v.rows[i].node == parent {
			v.cursor = i
			return
		}
	}
}

func (v *SettingsView) startEditing(node settings.Node) tea.Cmd {
	handle := v.model.HandleOf(node, settings.ColumnValue)
	if !v.model.Flags(handle).Has(settings.ItemIsEditable) {
		return nil
	}

	v.editing = handle
	v.isEditing = true
	v.editor.SetValue(formatValue(node.Value()))
	v.editor.CursorEnd()
	v.setMessage(v.translator.Sprintf(i18n.MsgEditing, nodePath(node)), messageTypeInfo)
	return v.editor.Focus()
}

func (v *SettingsView) cancelEditing() {
	v.editor.Blur()
	v.editor.SetValue("")
	v.editing = settings.InvalidHandle()
	v.isEditing = false
}

func (v *SettingsView) commitEdit() {
	node := v.editing.Node()
	if node.IsNil() {
		v.cancelEditing()
		return
	}

	value, err := parseValue(v.editor.Value(), node.Value())
	if err != nil {
		v.setMessage(v.translator.Sprintf(i18n.MsgInvalidValue, err), messageTypeError)
		return
	}

	if !v.model.SetData(v.editing, value, settings.RoleEdit) {
		v.setMessage(v.translator.Sprintf(i18n.MsgInvalidValue, v.editor.Value()), messageTypeError)
		return
	}

	v.logger.Debug("Setting edited", "path", nodePath(node), "value", value)
	v.setMessage(v.translator.Sprintf(i18n.MsgValueUpdated, nodePath(node), formatValue(value)), messageTypeSuccess)
	v.cancelEditing()
}

func (v *SettingsView) save() {
	if v.persister == nil {
		v.setMessage(v.translator.T(i18n.MsgNoFile), messageTypeError)
		return
	}
	if err := v.persister.Save(); err != nil {
		v.logger.Error("Failed to save settings", "error", err)
		v.setMessage(v.translator.Sprintf(i18n.MsgSaveFailed, err), messageTypeError)
		return
	}
	v.setMessage(v.translator.Sprintf(i18n.MsgSaved, v.persister.Path()), messageTypeSuccess)
}

func (v *SettingsView) reload() bool {
	if v.persister == nil {
		v.setMessage(v.translator.T(i18n.MsgNoFile), messageTypeError)
		return false
	}
	if v.isEditing {
		v.cancelEditing()
	}
	if err := v.persister.Reload(); err != nil {
		v.logger.Warn("Failed to reload settings", "error", err)
		v.setMessage(v.translator.Sprintf(i18n.MsgReloadFailed, err), messageTypeError)
		return false
	}
	v.setMessage(v.translator.Sprintf(i18n.MsgReloaded, v.persister.Path()), messageTypeSuccess)
	return true
}

func (v *SettingsView) setMessage(message string, msgType messageType) {
	v.message = message
	v.messageType = msgType
}

// refresh rebuilds the visible rows after the tree or the collapse state changed
func (v *SettingsView) refresh() {
	if v.isEditing && !v.editing.IsValid() {
		v.cancelEditing()
	}
	if v.dirty {
		v.rows = v.rows[:0]
		v.appendRows(v.model.Root(), 0)
		v.dirty = false
	}
	v.clampCursor()
}

func (v *SettingsView) appendRows(parent settings.Node, depth int) {
	for _, child := range parent.Children() {
		v.rows = append(v.rows, row{node: child, depth: depth})
		if child.HasChildren() && !v.collapsed[nodePath(child)] {
			v.appendRows(child, depth+1)
		}
	}
}

func (v *SettingsView) clampCursor() {
	if v.cursor >= len(v.rows) {
		v.cursor = len(v.rows) - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}

	body := v.bodyHeight()
	if body <= 0 {
		v.offset = 0
		return
	}
	if v.cursor < v.offset {
		v.offset = v.cursor
	}
	if v.cursor >= v.offset+body {
		v.offset = v.cursor - body + 1
	}
}

// bodyHeight is the number of tree rows that fit on screen, 0 for unlimited
func (v *SettingsView) bodyHeight() int {
	if v.height == 0 {
		return 0
	}
	reserved := 4
	if v.showHelp {
		reserved += 2
	}
	if v.isEditing {
		reserved += 4
	}
	if body := v.height - reserved; body > 1 {
		return body
	}
	return 1
}

// View implements tea.Model
func (v *SettingsView) View() string {
	if v.quitting {
		return ""
	}

	var content strings.Builder

	content.WriteString(v.styles.header.Render(v.translator.T(i18n.MsgTitle)))
	if v.persister != nil {
		content.WriteString(" " + v.styles.muted.Render(v.persister.Path()))
	}
	content.WriteString("\n\n")

	if len(v.rows) == 0 {
		content.WriteString(v.styles.muted.Render(v.translator.T(i18n.MsgEmpty)) + "\n")
	}

	end := len(v.rows)
	if body := v.bodyHeight(); body > 0 && v.offset+body < end {
		end = v.offset + body
	}
	for i := v.offset; i < end; i++ {
		content.WriteString(v.renderRow(v.rows[i], i == v.cursor) + "\n")
	}

	if v.isEditing {
		content.WriteString("\n" + v.styles.editor.Render(v.editor.View()) + "\n")
	}

	if v.message != "" {
		var style lipgloss.Style
		switch v.messageType {
		case messageTypeSuccess:
			style = v.styles.success
		case messageTypeError:
			style = v.styles.err
		default:
			style = v.styles.info
		}
		content.WriteString("\n" + style.Render(v.message) + "\n")
	}

	if v.showHelp {
		content.WriteString("\n" + v.renderHelp())
	}

	return content.String()
}

func (v *SettingsView) renderRow(r row, selected bool) string {
	indent := strings.Repeat("  ", r.depth)
	node := r.node

	if node.Key() == "" {
		marker := "▾ "
		if v.collapsed[nodePath(node)] {
			marker = "▸ "
		}
		if !node.HasChildren() {
			marker = "  "
		}
		if selected {
			return indent + v.styles.selected.Render(marker+node.Group())
		}
		return indent + marker + v.styles.group.Render(node.Group())
	}

	value := formatValue(node.Value())
	if selected {
		return indent + v.styles.selected.Render("  "+node.Key()+" = "+value)
	}
	return indent + "  " + v.styles.key.Render(node.Key()) + " = " + v.styles.value.Render(value)
}

func (v *SettingsView) renderHelp() string {
	bindings := v.keyMap.browseHelp()
	if v.isEditing {
		bindings = v.keyMap.editHelp()
	}

	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		parts = append(parts, help.Key+" "+v.translator.T(help.Desc))
	}
	return v.styles.muted.Render(strings.Join(parts, " • "))
}

// SetSize implements domain.TUIComponent
func (v *SettingsView) SetSize(width, height int) {
	v.width = width
	v.height = height
	if width > 8 {
		v.editor.Width = width - 8
	}
	v.clampCursor()
}

// SetTheme implements domain.TUIComponent
func (v *SettingsView) SetTheme(theme domain.Theme) {
	if theme != nil {
		v.styles = newViewStyles(theme)
	}
}

// Focus implements domain.TUIComponent
func (v *SettingsView) Focus() {
	v.focused = true
}

// Blur implements domain.TUIComponent
func (v *SettingsView) Blur() {
	v.focused = false
}

// Cursor returns the node under the cursor
func (v *SettingsView) Cursor() settings.Node {
	node, _ := v.selected()
	return node
}

// RowsAboutToBeInserted implements settings.Observer
func (v *SettingsView) RowsAboutToBeInserted(parent settings.Handle, first, last int) {}

// RowsInserted implements settings.Observer
func (v *SettingsView) RowsInserted(parent settings.Handle, first, last int) {
	v.dirty = true
}

// ModelAboutToBeReset implements settings.Observer
func (v *SettingsView) ModelAboutToBeReset() {
	if v.isEditing {
		v.cancelEditing()
	}
}

// ModelReset implements settings.Observer
func (v *SettingsView) ModelReset() {
	v.dirty = true
}

// DataChanged implements settings.Observer
func (v *SettingsView) DataChanged(topLeft, bottomRight settings.Handle, roles []settings.Role) {}

// nodePath identifies a node by its full group and own name
func nodePath(node settings.Node) string {
	name := node.Key()
	if name == "" {
		name = node.Group()
	}
	if group := node.FullGroup(); group != "" {
		return group + domain.Separator + name
	}
	return name
}

func formatValue(value interface{}) string {
	if value == nil {
		return ""
	}
	if s, err := cast.ToStringE(value); err == nil {
		return s
	}
	if list, err := cast.ToStringSliceE(value); err == nil {
		return strings.Join(list, ", ")
	}
	return fmt.Sprintf("%v", value)
}

// parseValue converts edited text to the type of the current value
func parseValue(text string, current interface{}) (interface{}, error) {
	trimmed := strings.TrimSpace(text)

	switch current.(type) {
	case bool:
		return cast.ToBoolE(trimmed)
	case int:
		return cast.ToIntE(trimmed)
	case int64:
		return cast.ToInt64E(trimmed)
	case float64:
		return cast.ToFloat64E(trimmed)
	case []string, []interface{}:
		if trimmed == "" {
			return []string{}, nil
		}
		parts := strings.Split(trimmed, ",")
		for i, part := range parts {
			parts[i] = strings.TrimSpace(part)
		}
		return parts, nil
	}
	return text, nil
}
