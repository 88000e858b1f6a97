package model

// LocationEntry 地名とランキングプロバイダの内部ロケーションコードの対応
type LocationEntry struct {
	Name string   `yaml:"name" json:"name"`
	Code int      `yaml:"code" json:"code"`
	Lat  *float64 `yaml:"lat,omitempty" json:"lat,omitempty"`
	Lng  *float64 `yaml:"lng,omitempty" json:"lng,omitempty"`
}

// Point 座標を持つ場合はGeoPointを返す
func (e LocationEntry) Point() (GeoPoint, bool) {
	if e.Lat == nil || e.Lng == nil {
		return GeoPoint{}, false
	}
	return GeoPoint{Lat: *e.Lat, Lng: *e.Lng}, true
}

// LocationTable 地名→コードの静的テーブル
// 部分一致は先頭から順に評価されるため、エントリの順序に意味がある
type LocationTable struct {
	Entries     []LocationEntry `yaml:"locations" json:"locations"`
	DefaultName string          `yaml:"default" json:"default"`
}
