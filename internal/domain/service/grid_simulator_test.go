package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GeoRank-App/internal/domain/model"
)

func TestGridSimulator_Simulate(t *testing.T) {
	grid := NewGridGenerator().Generate(sanFrancisco, 2, 5)

	t.Run("シード失敗時は全点-1", func(t *testing.T) {
		results := NewSeededGridSimulator(1).Simulate(grid, -1, 2)
		require.Len(t, results, len(grid.Points))
		for _, r := range results {
			assert.Equal(t, model.RankNotFound, r.Rank)
			assert.Equal(t, model.RankSourceNone, r.Source)
		}
	})

	t.Run("中心点は実測値そのもの", func(t *testing.T) {
		for seed := int64(0); seed < 20; seed++ {
			results := NewSeededGridSimulator(seed).Simulate(grid, 4, 2)
			center := findCenterResult(t, results)
			assert.Equal(t, 4, center.Rank)
			assert.Equal(t, model.RankSourceMeasured, center.Source)
		}
	})

	t.Run("順位は常に1以上かつ上限内", func(t *testing.T) {
		for seed := int64(0); seed < 50; seed++ {
			for _, r := range NewSeededGridSimulator(seed).Simulate(grid, 1, 2) {
				assert.GreaterOrEqual(t, r.Rank, 1)
				assert.LessOrEqual(t, r.Rank, 1+maxDistanceVariation+1)
			}
		}
	})

	t.Run("中心順位0は順位0を生まない", func(t *testing.T) {
		small := NewGridGenerator().Generate(sanFrancisco, 2, 3)
		for _, r := range NewSeededGridSimulator(1).Simulate(small, 0, 2) {
			assert.NotEqual(t, 0, r.Rank)
			assert.Equal(t, model.RankNotFound, r.Rank)
			assert.Equal(t, model.RankSourceNone, r.Source)
		}
	})

	t.Run("同じシードなら同じ結果", func(t *testing.T) {
		a := NewSeededGridSimulator(42).Simulate(grid, 6, 2)
		b := NewSeededGridSimulator(42).Simulate(grid, 6, 2)
		assert.Equal(t, a, b)
	})

	t.Run("推定値にはestimatedが付く", func(t *testing.T) {
		for _, r := range NewSeededGridSimulator(3).Simulate(grid, 6, 2) {
			if r.DistanceKm > 0.01 {
				assert.Equal(t, model.RankSourceEstimated, r.Source)
			}
		}
	})
}

func TestGridSimulator_DistanceDecay(t *testing.T) {
	grid := NewGridGenerator().Generate(sanFrancisco, 2, 7)
	simulator := NewSeededGridSimulator(7)

	const trials = 200
	const centerRank = 5

	sums := make([]float64, len(grid.Points))
	for i := 0; i < trials; i++ {
		for j, r := range simulator.Simulate(grid, centerRank, 2) {
			sums[j] += float64(r.Rank)
		}
	}

	results := simulator.Simulate(grid, centerRank, 2)
	for j, r := range results {
		avg := sums[j] / trials
		// 揺らぎ±1を考慮しても平均は中心順位を大きく下回らない
		assert.GreaterOrEqual(t, avg, float64(centerRank)-0.5)
		if r.DistanceKm >= 1.9 {
			// 端の点は中心よりはっきり悪い
			assert.Greater(t, avg, float64(centerRank)+5)
		}
	}
}

func findCenterResult(t *testing.T, results []model.GridResult) model.GridResult {
	t.Helper()
	for _, r := range results {
		if r.DistanceKm < 1e-6 {
			return r
		}
	}
	t.Fatal("中心点が見つかりません")
	return model.GridResult{}
}
