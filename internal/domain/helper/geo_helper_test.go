package helper

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"GeoRank-App/internal/domain/model"
)

func TestHaversineDistance(t *testing.T) {
	sf := model.GeoPoint{Lat: 37.7749, Lng: -122.4194}
	la := model.GeoPoint{Lat: 34.0522, Lng: -118.2437}

	t.Run("同一点の距離は0", func(t *testing.T) {
		assert.Equal(t, 0.0, HaversineDistance(sf, sf))
	})

	t.Run("サンフランシスコ-ロサンゼルス間は約559km", func(t *testing.T) {
		assert.InDelta(t, 559.0, HaversineDistance(sf, la), 2.0)
	})

	t.Run("対称性", func(t *testing.T) {
		assert.InDelta(t, HaversineDistance(sf, la), HaversineDistance(la, sf), 1e-9)
	})
}

func TestDestinationPoint(t *testing.T) {
	origin := model.GeoPoint{Lat: 35.004573, Lng: 135.768799}

	t.Run("距離0なら始点を返す", func(t *testing.T) {
		assert.Equal(t, origin, DestinationPoint(origin, 0, 1.2))
	})

	t.Run("移動距離はハバーサイン距離と一致する", func(t *testing.T) {
		for _, bearing := range []float64{0, math.Pi / 4, math.Pi / 2, math.Pi, -math.Pi / 3} {
			dest := DestinationPoint(origin, 3.5, bearing)
			assert.InDelta(t, 3.5, HaversineDistance(origin, dest), 1e-6)
		}
	})

	t.Run("方位角0は北へ進む", func(t *testing.T) {
		dest := DestinationPoint(origin, 10, 0)
		assert.Greater(t, dest.Lat, origin.Lat)
		assert.InDelta(t, origin.Lng, dest.Lng, 1e-9)
	})

	t.Run("日付変更線をまたぐ場合も経度を正規化する", func(t *testing.T) {
		dest := DestinationPoint(model.GeoPoint{Lat: 0, Lng: 179.99}, 50, math.Pi/2)
		assert.True(t, IsValidCoordinate(dest))
		assert.Less(t, dest.Lng, 0.0)
	})
}

func TestNormalizeLongitude(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"範囲内", 135.5, 135.5},
		{"180を超える", 190, -170},
		{"-180未満", -190, 170},
		{"ちょうど180", 180, -180},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, NormalizeLongitude(tt.in), 1e-9)
		})
	}
}

func TestIsValidCoordinate(t *testing.T) {
	assert.True(t, IsValidCoordinate(model.GeoPoint{Lat: 90, Lng: -180}))
	assert.False(t, IsValidCoordinate(model.GeoPoint{Lat: 91, Lng: 0}))
	assert.False(t, IsValidCoordinate(model.GeoPoint{Lat: 0, Lng: math.NaN()}))
}
