package model

// GeoPoint WGS-84の緯度経度（10進度）を表す値型
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// GridConfig ジオグリッド生成の入力設定
type GridConfig struct {
	CenterLat float64 `json:"center_lat" validate:"min=-90,max=90"`
	CenterLng float64 `json:"center_lng" validate:"min=-180,max=180"`
	RadiusKm  float64 `json:"radius_km" validate:"gt=0,max=50"`
	GridSize  int     `json:"grid_size" validate:"min=1,max=15"`
}

// Center 設定の中心座標をGeoPointとして返す
func (c GridConfig) Center() GeoPoint {
	return GeoPoint{Lat: c.CenterLat, Lng: c.CenterLng}
}

// GeoGrid 中心の周囲に生成されたサンプル座標の集合
// Pointsは半径内の点のみを含み、生成時のi→j順序を保持する
type GeoGrid struct {
	Center   GeoPoint   `json:"center"`
	RadiusKm float64    `json:"radius_km"`
	Points   []GeoPoint `json:"points"`
}

// GridResult グリッド上の1点における順位
// Rankは1以上、またはRankNotFound(-1)のいずれか
type GridResult struct {
	Point      GeoPoint   `json:"point"`
	Rank       int        `json:"rank"`
	DistanceKm float64    `json:"distance_km"`
	Source     RankSource `json:"source"`
}

// Found 順位が見つかっているかどうか
func (r GridResult) Found() bool {
	return r.Rank >= 1
}
