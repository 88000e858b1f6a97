package service

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"

	"GeoRank-App/internal/domain/helper"
	"GeoRank-App/internal/domain/model"
)

// GridGenerator は中心座標の周囲にN×Nのサンプル座標を生成する
type GridGenerator struct {
	validate *validator.Validate
}

// NewGridGenerator は新しいGridGeneratorインスタンスを作成
func NewGridGenerator() *GridGenerator {
	return &GridGenerator{validate: validator.New()}
}

// Generate は中心から半径radiusKm以内のgridSize×gridSizeの座標を生成する
// 正方形に内接する円の外側の点は除外されるため、返る点数はgridSize²以下になる
func (g *GridGenerator) Generate(center model.GeoPoint, radiusKm float64, gridSize int) model.GeoGrid {
	grid := model.GeoGrid{Center: center, RadiusKm: radiusKm}

	if gridSize <= 1 {
		grid.Points = []model.GeoPoint{center}
		return grid
	}

	grid.Points = make([]model.GeoPoint, 0, gridSize*gridSize)
	step := float64(gridSize - 1)

	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			// 正規化座標 [-1, 1]
			x := 2*(float64(i)/step) - 1
			y := 2*(float64(j)/step) - 1

			distanceKm := radiusKm * math.Sqrt(x*x+y*y)
			if distanceKm > radiusKm {
				continue
			}

			bearing := math.Atan2(y, x)
			grid.Points = append(grid.Points, helper.DestinationPoint(center, distanceKm, bearing))
		}
	}

	return grid
}

// GenerateGrid は設定を検証してからグリッドを生成する
func (g *GridGenerator) GenerateGrid(config model.GridConfig) (model.GeoGrid, error) {
	if err := g.validate.Struct(config); err != nil {
		return model.GeoGrid{}, fmt.Errorf("%w: %v", model.ErrInvalidGridConfig, err)
	}
	return g.Generate(config.Center(), config.RadiusKm, config.GridSize), nil
}
