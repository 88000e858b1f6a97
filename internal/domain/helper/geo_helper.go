package helper

import (
	"math"

	"GeoRank-App/internal/domain/model"
)

const degToRad = math.Pi / 180.0

// HaversineDistance は2点間の大円距離（km）を返す
func HaversineDistance(a, b model.GeoPoint) float64 {
	lat1 := a.Lat * degToRad
	lat2 := b.Lat * degToRad
	dLat := (b.Lat - a.Lat) * degToRad
	dLng := (b.Lng - a.Lng) * degToRad

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	if h > 1 {
		h = 1
	}
	return 2 * model.EarthRadiusKm * math.Asin(math.Sqrt(h))
}

// DestinationPoint は始点から方位角bearing（ラジアン）に距離distanceKmだけ進んだ点を返す
func DestinationPoint(origin model.GeoPoint, distanceKm, bearing float64) model.GeoPoint {
	if distanceKm == 0 {
		return origin
	}

	angular := distanceKm / model.EarthRadiusKm
	lat1 := origin.Lat * degToRad
	lng1 := origin.Lng * degToRad

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(angular) +
		math.Cos(lat1)*math.Sin(angular)*math.Cos(bearing))
	lng2 := lng1 + math.Atan2(
		math.Sin(bearing)*math.Sin(angular)*math.Cos(lat1),
		math.Cos(angular)-math.Sin(lat1)*math.Sin(lat2),
	)

	return model.GeoPoint{
		Lat: lat2 / degToRad,
		Lng: NormalizeLongitude(lng2 / degToRad),
	}
}

// NormalizeLongitude は経度を[-180, 180)の範囲に正規化する
func NormalizeLongitude(lng float64) float64 {
	lng = math.Mod(lng+180, 360)
	if lng < 0 {
		lng += 360
	}
	return lng - 180
}

// IsValidCoordinate は緯度経度が有効な範囲かどうかをチェックする
func IsValidCoordinate(p model.GeoPoint) bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}
