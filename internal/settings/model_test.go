package settings

import (
	"path/filepath"
	"testing"

	"github.com/appscaffold/appscaffold/internal/domain"
	"github.com/appscaffold/appscaffold/internal/store"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockObserver records model notifications
type MockObserver struct {
	mock.Mock
}

func (m *MockObserver) RowsAboutToBeInserted(parent Handle, first, last int) {
	m.Called(parent, first, last)
}

func (m *MockObserver) RowsInserted(parent Handle, first, last int) {
	m.Called(parent, first, last)
}

func (m *MockObserver) ModelAboutToBeReset() {
	m.Called()
}

func (m *MockObserver) ModelReset() {
	m.Called()
}

func (m *MockObserver) DataChanged(topLeft, bottomRight Handle, roles []Role) {
	m.Called(topLeft, bottomRight, roles)
}

func newTestModel(t *testing.T, opts ...Option) (*Model, *store.Store, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	s := store.New(store.WithFs(fs))
	return NewModel(s, opts...), s, fs
}

func groupHandle(t *testing.T, m *Model, name string) Handle {
	t.Helper()
	for row := 0; row < m.RowCount(InvalidHandle()); row++ {
		h := m.Index(row, 0, InvalidHandle())
		if m.Data(h, RoleDisplay) == name {
			return h
		}
	}
	t.Fatalf("group %q not found", name)
	return InvalidHandle()
}

func TestModelIndex(t *testing.T) {
	m, _, _ := newTestModel(t)

	h := m.Index(0, 0, InvalidHandle())
	assert.False(t, h.IsValid())
	assert.Equal(t, -1, h.Row())
	assert.Equal(t, -1, h.Column())

	m.SetValue("new key", "new value", "")
	h = m.Index(0, 0, InvalidHandle())
	assert.True(t, h.IsValid())
	assert.Equal(t, 0, h.Row())
	assert.Equal(t, 0, h.Column())

	h = m.Index(0, 3, InvalidHandle())
	assert.False(t, h.IsValid())
	assert.Equal(t, -1, h.Row())
	assert.Equal(t, -1, h.Column())

	h = m.Index(2, 0, InvalidHandle())
	assert.False(t, h.IsValid())

	assert.False(t, m.Index(-1, 0, InvalidHandle()).IsValid())
}

func TestModelParent(t *testing.T) {
	m, _, _ := newTestModel(t)

	assert.False(t, m.Parent(Handle{}).IsValid())
	assert.False(t, m.Parent(InvalidHandle()).IsValid())

	m.SetValue("new key", "new value", "")
	top := m.Index(0, 0, InvalidHandle())
	require.True(t, top.IsValid())
	parent := m.Parent(top)
	assert.False(t, parent.IsValid())
	assert.Equal(t, -1, parent.Row())
	assert.Equal(t, -1, parent.Column())

	m.SetValue("new key 2", "new value 2", "test_group")
	group := groupHandle(t, m, "test_group")
	assert.Equal(t, InvalidHandle(), m.Parent(group))
}

func TestModelParentOfIndexRoundTrips(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.SetValue("a/b/c", 1, "G")
	m.SetValue("a/d", 2, "G")
	m.SetValue("x", 3, "H")

	var walk func(parent Handle)
	walk = func(parent Handle) {
		for row := 0; row < m.RowCount(parent); row++ {
			for column := 0; column < m.ColumnCount(parent); column++ {
				child := m.Index(row, column, parent)
				require.True(t, child.IsValid())
				assert.Equal(t, parent, m.Parent(child))
			}
			walk(m.Index(row, 0, parent))
		}
	}
	walk(InvalidHandle())
}

func TestModelRowCount(t *testing.T) {
	m, _, _ := newTestModel(t)
	assert.Equal(t, 0, m.RowCount(InvalidHandle()))

	m.SetValue("new key", "new value", "")
	assert.Equal(t, 1, m.RowCount(InvalidHandle()))

	parent := m.Index(0, 1, InvalidHandle())
	assert.True(t, parent.IsValid())
	assert.Equal(t, 1, m.RowCount(parent))

	m.SetValue("new key 2", "new value 2", "")
	assert.Equal(t, 1, m.RowCount(InvalidHandle()))
	assert.Equal(t, 2, m.RowCount(m.Index(0, 1, InvalidHandle())))
}

func TestModelColumnCount(t *testing.T) {
	m, _, _ := newTestModel(t)
	assert.Equal(t, 3, m.ColumnCount(InvalidHandle()))

	m.SetValue("new key", "new value", "")
	assert.Equal(t, 3, m.ColumnCount(m.Index(0, 1, InvalidHandle())))
}

func TestModelData(t *testing.T) {
	m, _, _ := newTestModel(t)
	assert.Nil(t, m.Data(InvalidHandle(), RoleDisplay))

	m.SetValue("new key", "new value", "")
	group := m.Index(0, 0, InvalidHandle())
	key := m.Index(0, 0, group)

	assert.Nil(t, m.Data(key, Role(-1)))
	assert.Equal(t, "new value", m.Data(key, RoleValue))
	assert.Equal(t, "new key", m.Data(key, RoleKey))
	assert.Equal(t, "", m.Data(key, RoleGroup))
	assert.Equal(t, "General", m.Data(group, RoleDisplay))
	assert.Equal(t, "new value", m.Data(m.Index(0, ColumnValue, group), RoleEdit))
}

func TestModelSetData(t *testing.T) {
	m, _, _ := newTestModel(t)
	assert.False(t, m.SetData(InvalidHandle(), "new value", RoleEdit))

	m.SetValue("new key", "new value", "")
	group := m.Index(0, 0, InvalidHandle())
	key := m.Index(0, ColumnValue, group)

	assert.False(t, m.SetData(key, "new value 2", Role(-1)))
	assert.False(t, m.SetData(key, "new value 2", RoleDisplay))
	assert.Equal(t, "new value", m.Value("new key", "", nil))

	assert.True(t, m.SetData(key, "new value 2", RoleEdit))
	assert.Equal(t, "new value 2", m.Value("new key", "", nil))
	assert.Equal(t, "new value 2", m.Data(key, RoleValue))
}

func TestModelSetDataKeepsNestedPath(t *testing.T) {
	m, s, _ := newTestModel(t)
	m.SetValue("group3/key1", "value00", "TestGroup_2")

	group := groupHandle(t, m, "TestGroup_2")
	sub := m.Index(0, 0, group)
	leaf := m.Index(0, ColumnValue, sub)
	require.Equal(t, "key1", m.Data(leaf, RoleKey))

	require.True(t, m.SetData(leaf, "changed", RoleEdit))
	assert.Equal(t, "changed", s.Get("TestGroup_2/group3/key1", nil))
	assert.False(t, s.Contains("TestGroup_2/key1"))
	assert.Equal(t, []string{"TestGroup_2/group3/key1"}, s.AllKeys())
}

func TestModelSetDataWithoutSync(t *testing.T) {
	m, s, _ := newTestModel(t, WithSync(false))
	m.SetValue("k", "v", "G")
	assert.False(t, s.Contains("G/k"))

	leaf := m.Index(0, ColumnValue, groupHandle(t, m, "G"))
	require.True(t, m.SetData(leaf, "edited", RoleEdit))
	assert.False(t, s.Contains("G/k"))
	assert.Equal(t, "edited", m.Data(leaf, RoleValue))
}

func TestModelFlags(t *testing.T) {
	m, _, _ := newTestModel(t)
	assert.Equal(t, ItemNoFlags, m.Flags(InvalidHandle()))

	m.SetValue("new key", "new value", "")
	flags := m.Flags(m.Index(0, 0, InvalidHandle()))
	assert.Equal(t, ItemIsEditable|ItemIsEnabled|ItemIsSelectable, flags)
	assert.True(t, flags.Has(ItemIsEditable))
}

func TestModelRoleNames(t *testing.T) {
	m, _, _ := newTestModel(t)
	assert.Equal(t, map[Role]string{
		RoleGroup: "group",
		RoleKey:   "key",
		RoleValue: "value",
	}, m.RoleNames())
}

func TestModelValue(t *testing.T) {
	m, _, _ := newTestModel(t)

	m.SetValue("key1", "default value", "")
	assert.Equal(t, "default value", m.Value("key1", "", nil))
	assert.Equal(t, "default value", m.Value("key1", domain.DefaultGroup, nil))

	assert.Nil(t, m.Value("key2", "", nil))
	assert.Equal(t, "test default value", m.Value("key2", "General", "test default value"))
}

func TestModelSetValue(t *testing.T) {
	m, _, _ := newTestModel(t)

	m.SetValue("new key", "new value", "")
	assert.Equal(t, "new value", m.Value("new key", "", nil))

	m.SetValue("new key", "updated value", "")
	assert.Equal(t, "updated value", m.Value("new key", "", nil))

	group := m.Index(0, 0, InvalidHandle())
	assert.Equal(t, 1, m.RowCount(group))
	assert.Equal(t, "updated value", m.Data(m.Index(0, ColumnValue, group), RoleValue))
}

func TestModelSetValueEmptyKey(t *testing.T) {
	m, s, _ := newTestModel(t)

	m.SetValue("", "value", "G")
	m.SetValue("//", "value", "G")
	assert.Equal(t, 0, m.RowCount(InvalidHandle()))
	assert.Equal(t, 0, s.Len())
}

func TestModelSetValueReusesDirectChildGroups(t *testing.T) {
	m, _, _ := newTestModel(t)

	m.SetValue("group3/key1", "value00", "TestGroup_2")
	m.SetValue("group2/group3/key2", "value01", "TestGroup_2")
	m.SetValue("group3/key1", "value02", "TestGroup_3")
	m.SetValue("group3/other", "value03", "TestGroup_2")

	tg2 := groupHandle(t, m, "TestGroup_2")
	assert.Equal(t, 2, m.RowCount(tg2))

	group3 := m.Index(0, 0, tg2)
	assert.Equal(t, "group3", m.Data(group3, RoleGroup))
	assert.Equal(t, 2, m.RowCount(group3))

	group2 := m.Index(1, 0, tg2)
	nested := m.Index(0, 0, group2)
	assert.Equal(t, "group3", m.Data(nested, RoleGroup))
	assert.Equal(t, "key2", m.Data(m.Index(0, 0, nested), RoleKey))

	tg3 := groupHandle(t, m, "TestGroup_3")
	assert.Equal(t, 1, m.RowCount(tg3))
}

func TestModelSetValueNotifiesObservers(t *testing.T) {
	m, _, _ := newTestModel(t)
	observer := &MockObserver{}
	m.AddObserver(observer)

	observer.On("RowsAboutToBeInserted", InvalidHandle(), 0, 0).Once()
	observer.On("RowsInserted", InvalidHandle(), 0, 0).Once()
	observer.On("RowsAboutToBeInserted", mock.AnythingOfType("settings.Handle"), 0, 0).Once()
	observer.On("RowsInserted", mock.AnythingOfType("settings.Handle"), 0, 0).Once()
	m.SetValue("k", "v", "G")
	observer.AssertExpectations(t)

	observer.On("DataChanged", mock.Anything, mock.Anything, []Role{RoleEdit}).Once()
	m.SetValue("k", "v2", "G")
	observer.AssertExpectations(t)
	observer.AssertNumberOfCalls(t, "RowsInserted", 2)
}

func TestModelConstructionReplaysStore(t *testing.T) {
	s := store.New(store.WithFs(afero.NewMemMapFs()))
	s.Set("General/language", "de")
	s.Set("TestGroup_2/group3/key1", "value00")
	s.Set("orphan", "ignored")

	m := NewModel(s)
	assert.Equal(t, 2, m.RowCount(InvalidHandle()))
	assert.Equal(t, "de", m.FindKey("language").Value())
	assert.Equal(t, "value00", m.FindKey("key1").Value())
	assert.True(t, m.FindKey("orphan").IsNil())
	assert.Equal(t, 3, s.Len())
}

func TestModelNilStore(t *testing.T) {
	m := NewModel(nil)
	require.NotNil(t, m.Store())

	m.SetValue("k", "v", "G")
	assert.Equal(t, "v", m.Value("k", "G", nil))
}

func TestModelLoadFromFile(t *testing.T) {
	m, _, fs := newTestModel(t)
	content := "[%General]\n" +
		"key1=value1\n" +
		"key2=value2\n" +
		"[TestGroup]\n" +
		"key3=value3\n" +
		"key4=value4\n" +
		"[TestGroup_2]\n" +
		"group3/key1=value00\n" +
		"group2/group3/key2=value01\n" +
		"[TestGroup_3]\n" +
		"group3/key1=value02\n"
	require.NoError(t, afero.WriteFile(fs, "/app/settings.ini", []byte(content), 0o644))

	require.NoError(t, m.LoadFromFile("/app/settings.ini"))

	assert.Equal(t, "value1", m.Value("key1", "General", nil))
	assert.Equal(t, "value2", m.Value("key2", "General", nil))
	assert.Equal(t, "value3", m.Value("key3", "TestGroup", nil))
	assert.Equal(t, "value4", m.Value("key4", "TestGroup", nil))
	assert.Equal(t, "value00", m.Value("group3/key1", "TestGroup_2", nil))
	assert.Equal(t, "value01", m.Value("group2/group3/key2", "TestGroup_2", nil))
	assert.Equal(t, "value02", m.Value("group3/key1", "TestGroup_3", nil))
	assert.Equal(t, 4, m.RowCount(InvalidHandle()))
}

func TestModelLoadFromFileResetsTree(t *testing.T) {
	m, _, fs := newTestModel(t)
	m.SetValue("stale", "x", "Old")
	stale := m.Index(0, 0, InvalidHandle())
	require.True(t, stale.IsValid())

	require.NoError(t, afero.WriteFile(fs, "/app/settings.ini", []byte("[New]\nk=v\n"), 0o644))

	observer := &MockObserver{}
	observer.On("ModelAboutToBeReset").Once()
	observer.On("ModelReset").Once()
	m.AddObserver(observer)

	require.NoError(t, m.LoadFromFile("/app/settings.ini"))
	observer.AssertExpectations(t)
	observer.AssertNotCalled(t, "RowsInserted", mock.Anything, mock.Anything, mock.Anything)

	assert.False(t, stale.IsValid())
	assert.Nil(t, m.Data(stale, RoleDisplay))
	assert.False(t, m.SetData(stale, "x", RoleEdit))
	assert.Equal(t, 1, m.RowCount(InvalidHandle()))
	assert.Equal(t, "New", m.Data(m.Index(0, 0, InvalidHandle()), RoleDisplay))
}

func TestModelLoadFromCorruptFileKeepsStore(t *testing.T) {
	m, _, fs := newTestModel(t)
	m.SetValue("k", "v", "G")
	require.NoError(t, afero.WriteFile(fs, "/app/settings.json", []byte("{broken"), 0o644))

	err := m.LoadFromFile("/app/settings.json")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDecode)
	assert.Equal(t, "v", m.Value("k", "G", nil))
	assert.Equal(t, "v", m.FindKey("k").Value())
}

func TestModelSaveToFile(t *testing.T) {
	m, _, fs := newTestModel(t)
	m.SetValue("key1", "value1", "")
	m.SetValue("key2", "value2", "")
	m.SetValue("key3", "value3", "TestGroup")
	m.SetValue("key4", "value4", "TestGroup")
	m.SetValue("group3/key1", "value00", "TestGroup_2")
	m.SetValue("group2/group3/key2", "value01", "TestGroup_2")
	m.SetValue("group3/key1", "value02", "TestGroup_3")

	require.NoError(t, m.SaveToFile("/app/settings.ini"))

	reloaded := NewModel(store.New(store.WithFs(fs)))
	require.NoError(t, reloaded.LoadFromFile("/app/settings.ini"))

	assert.Equal(t, "value1", reloaded.Value("key1", "General", nil))
	assert.Equal(t, "value2", reloaded.Value("key2", "General", nil))
	assert.Equal(t, "value3", reloaded.Value("key3", "TestGroup", nil))
	assert.Equal(t, "value4", reloaded.Value("key4", "TestGroup", nil))
	assert.Equal(t, "value00", reloaded.Value("group3/key1", "TestGroup_2", nil))
	assert.Equal(t, "value01", reloaded.Value("group2/group3/key2", "TestGroup_2", nil))
	assert.Equal(t, "value02", reloaded.Value("group3/key1", "TestGroup_3", nil))
}

func TestModelSaveToFileFlushesLeavesWithoutSync(t *testing.T) {
	m, s, fs := newTestModel(t, WithSync(false))
	m.SetValue("group3/key1", "value00", "TestGroup_2")
	m.SetValue("key1", "value1", "")
	assert.Equal(t, 0, s.Len())

	require.NoError(t, m.SaveToFileAs("/app/settings.yaml", domain.FormatYAML))
	assert.Equal(t, "value00", s.Get("TestGroup_2/group3/key1", nil))
	assert.Equal(t, "value1", s.Get("General/key1", nil))

	reloaded := store.New(store.WithFs(fs))
	require.NoError(t, reloaded.LoadFromFile("/app/settings.yaml", domain.FormatYAML))
	assert.Equal(t, "value00", reloaded.Get("TestGroup_2/group3/key1", nil))
}

func TestModelSyncToggle(t *testing.T) {
	m, s, _ := newTestModel(t)
	assert.True(t, m.SyncEnabled())

	m.SetSyncEnabled(false)
	m.SetValue("k", "v", "G")
	assert.False(t, s.Contains("G/k"))

	m.SetSyncEnabled(true)
	m.SetValue("k", "v2", "G")
	assert.Equal(t, "v2", s.Get("G/k", nil))
}

func TestModelSaveToFileOnDisk(t *testing.T) {
	m := NewModel(store.New())
	m.SetValue("language", "de", "")
	path := filepath.Join(t.TempDir(), "settings.toml")

	require.NoError(t, m.SaveToFile(path))

	reloaded := NewModel(store.New())
	require.NoError(t, reloaded.LoadFromFile(path))
	assert.Equal(t, "de", reloaded.Value("language", "", nil))
}

func TestModelLeafNodes(t *testing.T) {
	m, _, _ := newTestModel(t)
	assert.Empty(t, m.LeafNodes())

	m.SetValue("a/b", 1, "G")
	m.SetValue("c", 2, "G")
	m.SetValue("d", 3, "H")

	var keys []string
	for _, leaf := range m.LeafNodes() {
		keys = append(keys, leaf.Key())
	}
	assert.Equal(t, []string{"b", "c", "d"}, keys)
}

func TestModelFind(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.SetValue("inner/leaf", 1, "Outer")

	assert.Equal(t, "inner", m.FindGroup("inner").Group())
	assert.Equal(t, 1, m.FindKey("leaf").Value())
	assert.True(t, m.FindGroup("missing").IsNil())

	h := m.HandleOf(m.FindKey("leaf"), ColumnValue)
	assert.True(t, h.IsValid())
	assert.Equal(t, 1, m.Data(h, RoleEdit))
	assert.False(t, m.HandleOf(m.Root(), 0).IsValid())
}

func TestModelReset(t *testing.T) {
	m, s, _ := newTestModel(t)
	m.SetValue("k", "v", "G")
	h := m.Index(0, 0, InvalidHandle())

	m.Reset()
	assert.Equal(t, 0, m.RowCount(InvalidHandle()))
	assert.False(t, h.IsValid())
	assert.True(t, s.Contains("G/k"))

	m.SetValue("k", "v", "G")
	assert.False(t, h.IsValid())
	assert.True(t, m.Index(0, 0, InvalidHandle()).IsValid())
}

func TestObserverFuncs(t *testing.T) {
	m, _, _ := newTestModel(t)
	var inserted, changed int
	m.AddObserver(ObserverFuncs{
		OnRowsInserted: func(Handle, int, int) { inserted++ },
		OnDataChanged:  func(Handle, Handle, []Role) { changed++ },
	})

	m.SetValue("k", "v", "G")
	m.SetValue("k", "w", "G")
	m.Reset()

	assert.Equal(t, 2, inserted)
	assert.Equal(t, 1, changed)
}
