package service

import (
	"math"
	"math/rand"
	"sync"

	"GeoRank-App/internal/domain/helper"
	"GeoRank-App/internal/domain/model"
)

const (
	// maxDistanceVariation グリッド端での順位の最大劣化幅
	maxDistanceVariation = 10
	// centerToleranceKm この距離未満の点は中心とみなし、実測値をそのまま使う
	centerToleranceKm = 1e-6
)

// GridSimulator は中心1点の実測順位から、距離減衰とランダムな揺らぎで全グリッドの順位を推定する
// 結果は計測ではなく近似値であり、Sourceにestimatedが付く
type GridSimulator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewGridSimulator は乱数源を注入してGridSimulatorを作成する
func NewGridSimulator(rnd *rand.Rand) *GridSimulator {
	return &GridSimulator{rnd: rnd}
}

// NewSeededGridSimulator はシード値からGridSimulatorを作成する
func NewSeededGridSimulator(seed int64) *GridSimulator {
	return NewGridSimulator(rand.New(rand.NewSource(seed)))
}

// Simulate はグリッドの全点に順位を割り当てる
// centerRankが1未満（シード取得失敗または不正値）の場合は全点を-1とし、データを捏造しない
func (s *GridSimulator) Simulate(grid model.GeoGrid, centerRank int, radiusKm float64) []model.GridResult {
	results := make([]model.GridResult, 0, len(grid.Points))

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range grid.Points {
		d := helper.HaversineDistance(grid.Center, p)
		result := model.GridResult{Point: p, DistanceKm: d}

		switch {
		case centerRank < 1:
			result.Rank = model.RankNotFound
			result.Source = model.RankSourceNone
		case d < centerToleranceKm:
			result.Rank = centerRank
			result.Source = model.RankSourceMeasured
		default:
			result.Rank = s.estimate(centerRank, d, radiusKm)
			result.Source = model.RankSourceEstimated
		}

		results = append(results, result)
	}

	return results
}

func (s *GridSimulator) estimate(centerRank int, distanceKm, radiusKm float64) int {
	normalized := 1.0
	if radiusKm > 0 {
		normalized = math.Min(distanceKm/radiusKm, 1.0)
	}

	variation := int(math.Floor(normalized * maxDistanceVariation))
	randomFactor := s.rnd.Intn(3) - 1 // -1, 0, 1

	rank := centerRank + variation + randomFactor
	if rank < 1 {
		rank = 1
	}
	return rank
}
