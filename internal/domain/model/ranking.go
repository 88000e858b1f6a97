package model

import "time"

// RankedResult プロバイダの順位リストの1件
type RankedResult struct {
	Position    int      `json:"position"` // 1始まり
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Description string   `json:"description,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
}

// RankQuery 1回の順位検索のパラメータ
// Coordinateが指定されている場合は座標指定で検索し、LocationNameは使わない
type RankQuery struct {
	Keyword      string    `json:"keyword"`
	LocationName string    `json:"location_name"`
	BusinessName string    `json:"business_name"`
	Coordinate   *GeoPoint `json:"coordinate,omitempty"`
}

// TaskStatus 非同期タスクの状態
type TaskStatus string

const (
	TaskStatusPending TaskStatus = "pending"
	TaskStatusReady   TaskStatus = "ready"
	TaskStatusFailed  TaskStatus = "failed"
)

// RankTask プロバイダに投入した1件の非同期クエリ
type RankTask struct {
	ID        string     `json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	Status    TaskStatus `json:"status"`
}
