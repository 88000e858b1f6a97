package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"GeoRank-App/internal/domain/helper"
	"GeoRank-App/internal/domain/model"
	"GeoRank-App/internal/domain/repository"
)

// DefaultProbeConcurrency は実測モードの既定同時実行数
const DefaultProbeConcurrency = 4

// MeasuredGridProber はグリッドの各点をプロバイダに実際に問い合わせる
// 同時実行数を制限し、1点の失敗は-1として扱う
type MeasuredGridProber struct {
	provider    repository.RankProvider
	concurrency int
}

// NewMeasuredGridProber は新しいMeasuredGridProberを作成
func NewMeasuredGridProber(provider repository.RankProvider, concurrency int) *MeasuredGridProber {
	if concurrency < 1 {
		concurrency = DefaultProbeConcurrency
	}
	return &MeasuredGridProber{provider: provider, concurrency: concurrency}
}

// Probe は全点の順位を計測する。中心点はseedの計測結果をそのまま使う
// 返すエラーはコンテキストのキャンセルのみ
func (p *MeasuredGridProber) Probe(ctx context.Context, grid model.GeoGrid, keyword, businessName string, seed model.SeedMeasurement) ([]model.GridResult, error) {
	results := make([]model.GridResult, len(grid.Points))

	log.Info().Int("points", len(grid.Points)).Int("concurrency", p.concurrency).Msg("🚀 グリッド実測開始")
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, point := range grid.Points {
		d := helper.HaversineDistance(grid.Center, point)
		results[i] = model.GridResult{Point: point, DistanceKm: d}

		if d < centerToleranceKm {
			results[i].Rank = seed.Rank
			results[i].Source = model.RankSourceMeasured
			if seed.Rank < 0 {
				results[i].Source = model.RankSourceNone
			}
			continue
		}

		g.Go(func() error {
			rank, err := p.provider.QueryRank(gctx, model.RankQuery{
				Keyword:      keyword,
				BusinessName: businessName,
				Coordinate:   &point,
			})
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				log.Warn().Err(err).Float64("lat", point.Lat).Float64("lng", point.Lng).Msg("⚠️  グリッド点の計測失敗")
				results[i].Rank = model.RankNotFound
				results[i].Source = model.RankSourceNone
				return nil
			}

			results[i].Rank = rank
			results[i].Source = model.RankSourceMeasured
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Info().Dur("elapsed", time.Since(start)).Msg("✅ グリッド実測完了")
	return results, nil
}
