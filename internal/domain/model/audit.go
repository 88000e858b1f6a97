package model

import "time"

// SeedMeasurement グリッド補間の起点となる中心順位の計測結果
type SeedMeasurement struct {
	Rank         int          `json:"rank"`
	Strategy     SeedStrategy `json:"strategy"`
	LocationName string       `json:"location_name,omitempty"`
	ErrorKind    ErrorKind    `json:"error_kind,omitempty"`
	Attempts     int          `json:"attempts"`
}

// GeoGridAudit 1回のジオグリッド監査の結果
type GeoGridAudit struct {
	ID           string          `json:"id"`
	Keyword      string          `json:"keyword"`
	BusinessName string          `json:"business_name"`
	Config       GridConfig      `json:"config"`
	Mode         AuditMode       `json:"mode"`
	Seed         SeedMeasurement `json:"seed"`
	Results      []GridResult    `json:"results"`
	Approximate  bool            `json:"approximate"` // 推定値を含む場合true
	CreatedAt    time.Time       `json:"created_at"`
}

// FoundCount 順位が見つかった点の数を返す
func (a *GeoGridAudit) FoundCount() int {
	count := 0
	for _, r := range a.Results {
		if r.Found() {
			count++
		}
	}
	return count
}

// AverageRank 見つかった点の平均順位を返す（1件もなければ0）
func (a *GeoGridAudit) AverageRank() float64 {
	sum, count := 0, 0
	for _, r := range a.Results {
		if r.Found() {
			sum += r.Rank
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return float64(sum) / float64(count)
}

// AuditRequest 監査APIのリクエスト
type AuditRequest struct {
	CenterLat    *float64  `json:"center_lat" validate:"required,min=-90,max=90"`
	CenterLng    *float64  `json:"center_lng" validate:"required,min=-180,max=180"`
	RadiusKm     float64   `json:"radius_km" validate:"gt=0,max=50"`
	GridSize     int       `json:"grid_size" validate:"min=1,max=15"`
	Keyword      string    `json:"keyword" validate:"required"`
	BusinessName string    `json:"business_name" validate:"required"`
	LocationName string    `json:"location_name"` // フォールバック時の地名（省略可）
	Mode         AuditMode `json:"mode"`          // 省略時はsimulated
}

// ToGridConfig リクエストをGridConfigに変換
func (r *AuditRequest) ToGridConfig() GridConfig {
	cfg := GridConfig{RadiusKm: r.RadiusKm, GridSize: r.GridSize}
	if r.CenterLat != nil {
		cfg.CenterLat = *r.CenterLat
	}
	if r.CenterLng != nil {
		cfg.CenterLng = *r.CenterLng
	}
	return cfg
}

// AuditSummary 監査結果の要約
type AuditSummary struct {
	ID           string    `json:"id"`
	Keyword      string    `json:"keyword"`
	BusinessName string    `json:"business_name"`
	Mode         AuditMode `json:"mode"`
	PointCount   int       `json:"point_count"`
	FoundCount   int       `json:"found_count"`
	AverageRank  float64   `json:"average_rank"`
	CreatedAt    time.Time `json:"created_at"`
}

// Summary 監査結果から要約を作成
func (a *GeoGridAudit) Summary() AuditSummary {
	return AuditSummary{
		ID:           a.ID,
		Keyword:      a.Keyword,
		BusinessName: a.BusinessName,
		Mode:         a.Mode,
		PointCount:   len(a.Results),
		FoundCount:   a.FoundCount(),
		AverageRank:  a.AverageRank(),
		CreatedAt:    a.CreatedAt,
	}
}
