package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GeoRank-App/internal/domain/helper"
	"GeoRank-App/internal/domain/model"
)

var sanFrancisco = model.GeoPoint{Lat: 37.7749, Lng: -122.4194}

func TestGridGenerator_Generate(t *testing.T) {
	generator := NewGridGenerator()

	t.Run("サイズ1は中心のみ", func(t *testing.T) {
		grid := generator.Generate(sanFrancisco, 2, 1)
		require.Len(t, grid.Points, 1)
		assert.Equal(t, sanFrancisco, grid.Points[0])
		assert.Equal(t, sanFrancisco, grid.Center)
	})

	t.Run("サイズ3は内接円の5点", func(t *testing.T) {
		grid := generator.Generate(sanFrancisco, 2, 3)
		require.Len(t, grid.Points, 5)

		// i=1, j=1 が中心（iterate順で3番目）
		assert.InDelta(t, sanFrancisco.Lat, grid.Points[2].Lat, 1e-9)
		assert.InDelta(t, sanFrancisco.Lng, grid.Points[2].Lng, 1e-9)
	})

	t.Run("全点が半径内に収まる", func(t *testing.T) {
		for _, size := range []int{2, 3, 4, 5, 7, 10, 15} {
			grid := generator.Generate(sanFrancisco, 5, size)
			for _, p := range grid.Points {
				assert.LessOrEqual(t, helper.HaversineDistance(sanFrancisco, p), 5+1e-6)
			}
		}
	})

	t.Run("サイズを増やすと点数は減らない", func(t *testing.T) {
		prev := 0
		for size := 1; size <= 15; size++ {
			count := len(generator.Generate(sanFrancisco, 3, size).Points)
			assert.GreaterOrEqual(t, count, 1)
			assert.LessOrEqual(t, count, size*size)
			if size >= 3 && size%2 == 1 {
				assert.Greater(t, count, prev)
				prev = count
			}
		}
	})

	t.Run("軸上の端点は半径ちょうどの距離", func(t *testing.T) {
		grid := generator.Generate(sanFrancisco, 2, 3)
		// 先頭はi=0, j=1 → x=-1, y=0
		assert.InDelta(t, 2.0, helper.HaversineDistance(sanFrancisco, grid.Points[0]), 1e-6)
	})
}

func TestGridGenerator_GenerateGrid(t *testing.T) {
	generator := NewGridGenerator()

	t.Run("正常な設定", func(t *testing.T) {
		grid, err := generator.GenerateGrid(model.GridConfig{
			CenterLat: 37.7749, CenterLng: -122.4194, RadiusKm: 2, GridSize: 3,
		})
		require.NoError(t, err)
		assert.Len(t, grid.Points, 5)
		assert.Equal(t, 2.0, grid.RadiusKm)
	})

	tests := []struct {
		name   string
		config model.GridConfig
	}{
		{"グリッドサイズ0", model.GridConfig{CenterLat: 1, CenterLng: 1, RadiusKm: 2, GridSize: 0}},
		{"半径0", model.GridConfig{CenterLat: 1, CenterLng: 1, RadiusKm: 0, GridSize: 3}},
		{"緯度範囲外", model.GridConfig{CenterLat: 95, CenterLng: 1, RadiusKm: 2, GridSize: 3}},
		{"経度範囲外", model.GridConfig{CenterLat: 1, CenterLng: -200, RadiusKm: 2, GridSize: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := generator.GenerateGrid(tt.config)
			require.Error(t, err)
			assert.True(t, errors.Is(err, model.ErrInvalidGridConfig))
		})
	}
}
