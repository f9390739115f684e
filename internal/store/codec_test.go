package store

import (
	"testing"

	"github.com/appscaffold/appscaffold/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entryMap(entries []domain.Entry) map[string]interface{} {
	m := make(map[string]interface{}, len(entries))
	for _, e := range entries {
		m[e.Key] = e.Value
	}
	return m
}

func TestINICodecDecodeSections(t *testing.T) {
	data := []byte("top=1\n" +
		"[General]\nkey1=value1\n" +
		"[%General]\nkey3=value3\n" +
		"[TestGroup_2]\ngroup3/key1=value00\ngroup2/group3/key2=value01\n" +
		"[Quoted]\npath=\"C:\\\\dir ; not a comment\"\n")

	entries, err := INICodec{}.Decode(data)
	require.NoError(t, err)

	m := entryMap(entries)
	assert.Equal(t, "1", m["top"])
	assert.Equal(t, "value1", m["key1"])
	assert.Equal(t, "value3", m["General/key3"])
	assert.Equal(t, "value00", m["TestGroup_2/group3/key1"])
	assert.Equal(t, "value01", m["TestGroup_2/group2/group3/key2"])
	assert.Contains(t, m["Quoted/path"], "not a comment")
}

func TestINICodecEncodeValues(t *testing.T) {
	data, err := INICodec{}.Encode([]domain.Entry{
		{Key: "flag", Value: true},
		{Key: "Numbers/count", Value: 3},
		{Key: "Numbers/ratio", Value: 0.5},
		{Key: "Lists/items", Value: []string{"a", "b"}},
		{Key: "Empty/nothing", Value: nil},
	})
	require.NoError(t, err)

	entries, err := INICodec{}.Decode(data)
	require.NoError(t, err)
	m := entryMap(entries)
	assert.Equal(t, "true", m["flag"])
	assert.Equal(t, "3", m["Numbers/count"])
	assert.Equal(t, "0.5", m["Numbers/ratio"])
	assert.Equal(t, "a, b", m["Lists/items"])
	assert.Equal(t, "", m["Empty/nothing"])
}

func TestNestedCodecsKeepTypes(t *testing.T) {
	entries := []domain.Entry{
		{Key: "name", Value: "app"},
		{Key: "Window/width", Value: 800},
		{Key: "Window/maximized", Value: false},
		{Key: "Window/Position/x", Value: 10},
	}

	t.Run("yaml", func(t *testing.T) {
		data, err := YAMLCodec{}.Encode(entries)
		require.NoError(t, err)
		decoded, err := YAMLCodec{}.Decode(data)
		require.NoError(t, err)

		assert.Equal(t, []string{"name", "Window/width", "Window/maximized", "Window/Position/x"}, keysOf(decoded))
		m := entryMap(decoded)
		assert.Equal(t, 800, m["Window/width"])
		assert.Equal(t, false, m["Window/maximized"])
	})

	t.Run("json", func(t *testing.T) {
		data, err := JSONCodec{}.Encode(entries)
		require.NoError(t, err)
		decoded, err := JSONCodec{}.Decode(data)
		require.NoError(t, err)

		assert.Equal(t, []string{"name", "Window/width", "Window/maximized", "Window/Position/x"}, keysOf(decoded))
		m := entryMap(decoded)
		assert.Equal(t, float64(800), m["Window/width"])
		assert.Equal(t, false, m["Window/maximized"])
	})

	t.Run("toml", func(t *testing.T) {
		data, err := TOMLCodec{}.Encode(entries)
		require.NoError(t, err)
		decoded, err := TOMLCodec{}.Decode(data)
		require.NoError(t, err)

		m := entryMap(decoded)
		assert.Len(t, m, 4)
		assert.Equal(t, "app", m["name"])
		assert.Equal(t, int64(800), m["Window/width"])
		assert.Equal(t, false, m["Window/maximized"])
	})
}

func TestNestedCodecsKeyThatIsAlsoGroup(t *testing.T) {
	entries := []domain.Entry{
		{Key: "Group/key", Value: "leaf"},
		{Key: "Group/key/sub", Value: "nested"},
	}

	codecs := map[string]domain.Codec{"json": JSONCodec{}, "yaml": YAMLCodec{}, "toml": TOMLCodec{}}
	for name, codec := range codecs {
		t.Run(name, func(t *testing.T) {
			data, err := codec.Encode(entries)
			require.NoError(t, err)
			decoded, err := codec.Decode(data)
			require.NoError(t, err)

			m := entryMap(decoded)
			assert.Equal(t, "leaf", m["Group/key"])
			assert.Equal(t, "nested", m["Group/key/sub"])
		})
	}
}

func TestJSONCodecSpecialKeys(t *testing.T) {
	entries := []domain.Entry{
		{Key: "Recent/1", Value: "first"},
		{Key: "Paths/a.b*c?", Value: "dotted"},
		{Key: "Paths/:colon", Value: "colon"},
	}

	data, err := JSONCodec{}.Encode(entries)
	require.NoError(t, err)
	decoded, err := JSONCodec{}.Decode(data)
	require.NoError(t, err)

	m := entryMap(decoded)
	assert.Equal(t, "first", m["Recent/1"])
	assert.Equal(t, "dotted", m["Paths/a.b*c?"])
	assert.Equal(t, "colon", m["Paths/:colon"])
}

func TestCodecDecodeErrors(t *testing.T) {
	_, err := JSONCodec{}.Decode([]byte(`[1, 2]`))
	assert.Error(t, err)

	_, err = JSONCodec{}.Decode([]byte(`{"a":`))
	assert.Error(t, err)

	_, err = YAMLCodec{}.Decode([]byte("- a\n- b\n"))
	assert.Error(t, err)

	_, err = TOMLCodec{}.Decode([]byte("a = = b"))
	assert.Error(t, err)
}

func keysOf(entries []domain.Entry) []string {
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	return keys
}
