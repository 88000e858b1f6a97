package locationtable

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GeoRank-App/internal/domain/model"
	"GeoRank-App/internal/domain/service"
)

func TestDefault(t *testing.T) {
	table, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "United States", table.DefaultName)
	assert.Equal(t, "United States", table.Entries[0].Name)
	assert.Equal(t, 2840, table.Entries[0].Code)

	for _, e := range table.Entries {
		_, ok := e.Point()
		assert.True(t, ok, "座標がありません: %s", e.Name)
	}
}

func TestDefaultTableResolution(t *testing.T) {
	table, err := Default()
	require.NoError(t, err)
	resolver := service.NewLocationResolver(table)

	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{"完全一致", "San Francisco", 1014221},
		{"大文字小文字を無視", "new york", 1023191},
		{"入力がエントリを含む", "San Francisco Bay", 1014221},
		{"エントリが入力を含む", "Chicag", 1016367},
		{"未知の地名は既定値", "Unknown Town", 2840},
		{"空文字は既定値", "", 2840},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, resolver.Resolve(tt.input))
		})
	}

	t.Run("最寄りの地名", func(t *testing.T) {
		name, ok := resolver.NearestName(model.GeoPoint{Lat: 37.78, Lng: -122.41})
		require.True(t, ok)
		assert.Equal(t, "San Francisco", name)

		name, ok = resolver.NearestName(model.GeoPoint{Lat: 37.30, Lng: -121.90})
		require.True(t, ok)
		assert.Equal(t, "San Jose", name)
	})
}

func TestLoad(t *testing.T) {
	t.Run("パスが空なら組み込みテーブル", func(t *testing.T) {
		table, err := Load("")
		require.NoError(t, err)
		assert.NotEmpty(t, table.Entries)
	})

	t.Run("ファイルから読み込み", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "locations.yaml")
		doc := "default: Japan\nlocations:\n  - name: Japan\n    code: 2392\n  - name: Tokyo\n    code: 1009309\n    lat: 35.6762\n    lng: 139.6503\n"
		require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

		table, err := Load(path)
		require.NoError(t, err)
		require.Len(t, table.Entries, 2)
		assert.Equal(t, "Japan", table.DefaultName)

		_, ok := table.Entries[0].Point()
		assert.False(t, ok)

		resolver := service.NewLocationResolver(table)
		assert.Equal(t, 2392, resolver.Resolve("Osaka"))
		assert.Equal(t, 1009309, resolver.Resolve("tokyo"))
	})

	t.Run("存在しないファイルはエラー", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"空のテーブル", "locations: []\n"},
		{"既定の地名がない", "default: Mars\nlocations:\n  - name: Japan\n    code: 2392\n"},
		{"コードが不正", "locations:\n  - name: United States\n    code: 0\n"},
		{"地名が重複", "locations:\n  - name: United States\n    code: 2840\n  - name: United States\n    code: 2841\n"},
		{"YAMLが不正", "locations: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}
