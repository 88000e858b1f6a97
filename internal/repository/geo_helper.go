package repository

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"

	"GeoRank-App/internal/domain/model"
)

// GeoPointToOrb model.GeoPoint を orb.Point ([lng, lat]) に変換
func GeoPointToOrb(p model.GeoPoint) orb.Point {
	return orb.Point{p.Lng, p.Lat}
}

// OrbToGeoPoint orb.Point を model.GeoPoint に変換
func OrbToGeoPoint(p orb.Point) model.GeoPoint {
	return model.GeoPoint{Lat: p.Lat(), Lng: p.Lon()}
}

// CenterWKT 中心座標をWKTのPOINT文字列に変換
func CenterWKT(p model.GeoPoint) string {
	return wkt.MarshalString(GeoPointToOrb(p))
}

// ParseCenterWKT WKTのPOINT文字列を座標に変換
func ParseCenterWKT(s string) (model.GeoPoint, error) {
	point, err := wkt.UnmarshalPoint(s)
	if err != nil {
		return model.GeoPoint{}, err
	}
	return OrbToGeoPoint(point), nil
}

// ResultsBound 全結果点を囲む境界ボックス
func ResultsBound(results []model.GridResult) orb.Bound {
	points := make(orb.MultiPoint, 0, len(results))
	for _, r := range results {
		points = append(points, GeoPointToOrb(r.Point))
	}
	return points.Bound()
}

// AuditToFeatureCollection 監査結果を点ごとのFeatureを持つGeoJSONに変換
// rankが-1の点も含め、sourceで推定値かどうかを区別できるようにする
func AuditToFeatureCollection(audit *model.GeoGridAudit) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	if audit == nil {
		return fc
	}

	for i, r := range audit.Results {
		f := geojson.NewFeature(GeoPointToOrb(r.Point))
		f.ID = i
		f.Properties["rank"] = r.Rank
		f.Properties["found"] = r.Found()
		f.Properties["source"] = string(r.Source)
		f.Properties["distance_km"] = r.DistanceKm
		fc.Append(f)
	}

	if len(audit.Results) > 0 {
		fc.BBox = geojson.NewBBox(ResultsBound(audit.Results))
	}

	fc.ExtraMembers = geojson.Properties{
		"audit_id":      audit.ID,
		"keyword":       audit.Keyword,
		"business_name": audit.BusinessName,
		"mode":          string(audit.Mode),
		"approximate":   audit.Approximate,
		"seed_rank":     audit.Seed.Rank,
	}

	return fc
}
