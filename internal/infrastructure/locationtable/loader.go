package locationtable

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"GeoRank-App/internal/domain/model"
)

//go:embed default.yaml
var defaultTable []byte

// Default は組み込みのロケーションテーブルを返す
func Default() (model.LocationTable, error) {
	return Parse(defaultTable)
}

// Load はYAMLファイルからロケーションテーブルを読み込む。パスが空なら組み込みテーブルを返す
func Load(path string) (model.LocationTable, error) {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return model.LocationTable{}, fmt.Errorf("ロケーションテーブルの読み込みに失敗: %w", err)
	}
	return Parse(data)
}

// Parse はYAMLドキュメントをロケーションテーブルに変換する
func Parse(data []byte) (model.LocationTable, error) {
	var table model.LocationTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return model.LocationTable{}, fmt.Errorf("ロケーションテーブルの解析に失敗: %w", err)
	}
	if len(table.Entries) == 0 {
		return model.LocationTable{}, fmt.Errorf("ロケーションテーブルが空です")
	}
	if table.DefaultName == "" {
		table.DefaultName = model.DefaultLocationName
	}

	seen := make(map[string]bool, len(table.Entries))
	for i, e := range table.Entries {
		if e.Name == "" || e.Code <= 0 {
			return model.LocationTable{}, fmt.Errorf("不正なエントリ (index: %d, name: %q, code: %d)", i, e.Name, e.Code)
		}
		if seen[e.Name] {
			return model.LocationTable{}, fmt.Errorf("地名が重複しています: %s", e.Name)
		}
		seen[e.Name] = true
	}
	if !seen[table.DefaultName] {
		return model.LocationTable{}, fmt.Errorf("既定の地名がテーブルにありません: %s", table.DefaultName)
	}

	return table, nil
}
