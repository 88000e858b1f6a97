package service

import (
	"math"
	"strings"

	"GeoRank-App/internal/domain/helper"
	"GeoRank-App/internal/domain/model"
)

// LocationResolver は地名をランキングプロバイダのロケーションコードに変換する
// 大まかな近似であり、部分一致による誤検出を許容する
type LocationResolver struct {
	entries     []model.LocationEntry
	defaultCode int
	defaultName string
}

// NewLocationResolver はテーブルのコピーを保持するLocationResolverを作成する
func NewLocationResolver(table model.LocationTable) *LocationResolver {
	entries := make([]model.LocationEntry, len(table.Entries))
	copy(entries, table.Entries)

	defaultName := table.DefaultName
	if defaultName == "" {
		defaultName = model.DefaultLocationName
	}

	r := &LocationResolver{entries: entries, defaultName: defaultName}
	for _, e := range entries {
		if e.Name == defaultName {
			r.defaultCode = e.Code
			break
		}
	}
	return r
}

// Resolve は地名に対応するコードを返す
// 完全一致 → 大文字小文字を無視した完全一致 → 双方向の部分一致 → 既定値 の順に評価する
func (r *LocationResolver) Resolve(name string) int {
	for _, e := range r.entries {
		if e.Name == name {
			return e.Code
		}
	}

	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "" {
		return r.defaultCode
	}

	for _, e := range r.entries {
		if strings.ToLower(e.Name) == lower {
			return e.Code
		}
	}

	for _, e := range r.entries {
		entry := strings.ToLower(e.Name)
		if strings.Contains(entry, lower) || strings.Contains(lower, entry) {
			return e.Code
		}
	}

	return r.defaultCode
}

// DefaultCode は既定ロケーションのコードを返す
func (r *LocationResolver) DefaultCode() int {
	return r.defaultCode
}

// DefaultName は既定ロケーションの地名を返す
func (r *LocationResolver) DefaultName() string {
	return r.defaultName
}

// NearestName は座標を持つエントリのうち指定地点に最も近い地名を返す
func (r *LocationResolver) NearestName(p model.GeoPoint) (string, bool) {
	best := ""
	bestDistance := math.Inf(1)

	for _, e := range r.entries {
		point, ok := e.Point()
		if !ok {
			continue
		}
		if d := helper.HaversineDistance(p, point); d < bestDistance {
			bestDistance = d
			best = e.Name
		}
	}

	return best, best != ""
}
