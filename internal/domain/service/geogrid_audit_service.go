package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"GeoRank-App/internal/domain/model"
	"GeoRank-App/internal/domain/repository"
)

// AuditOptions は監査ごとの任意指定
type AuditOptions struct {
	// LocationName はフォールバック時に使う地名。空なら中心に最も近い地名、それもなければ既定値
	LocationName string
	Mode         model.AuditMode
}

// GeoGridAuditService はジオグリッド監査のオーケストレーションを行う
type GeoGridAuditService interface {
	GenerateGrid(config model.GridConfig) (model.GeoGrid, error)
	RunGeoGridAudit(ctx context.Context, config model.GridConfig, keyword, businessName string) (*model.GeoGridAudit, error)
	RunAudit(ctx context.Context, config model.GridConfig, keyword, businessName string, opts AuditOptions) (*model.GeoGridAudit, error)
}

type geoGridAuditService struct {
	provider  repository.RankProvider
	generator *GridGenerator
	resolver  *LocationResolver
	simulator *GridSimulator
	prober    *MeasuredGridProber
	now       func() time.Time
}

// NewGeoGridAuditService は依存を注入してGeoGridAuditServiceを作成
func NewGeoGridAuditService(provider repository.RankProvider, resolver *LocationResolver, simulator *GridSimulator, probeConcurrency int) GeoGridAuditService {
	return &geoGridAuditService{
		provider:  provider,
		generator: NewGridGenerator(),
		resolver:  resolver,
		simulator: simulator,
		prober:    NewMeasuredGridProber(provider, probeConcurrency),
		now:       time.Now,
	}
}

func (s *geoGridAuditService) GenerateGrid(config model.GridConfig) (model.GeoGrid, error) {
	return s.generator.GenerateGrid(config)
}

// RunGeoGridAudit はsimulatedモードで監査を実行する
func (s *geoGridAuditService) RunGeoGridAudit(ctx context.Context, config model.GridConfig, keyword, businessName string) (*model.GeoGridAudit, error) {
	return s.RunAudit(ctx, config, keyword, businessName, AuditOptions{})
}

// RunAudit は中心1点の計測(失敗時は地名でフォールバック)を起点に、グリッド全体の順位を求める
// 設定が正しければ、返すエラーはコンテキストのキャンセルのみ
func (s *geoGridAuditService) RunAudit(ctx context.Context, config model.GridConfig, keyword, businessName string, opts AuditOptions) (*model.GeoGridAudit, error) {
	keyword = strings.TrimSpace(keyword)
	businessName = strings.TrimSpace(businessName)
	if keyword == "" || businessName == "" {
		return nil, fmt.Errorf("%w: キーワードとビジネス名は必須です", model.ErrInvalidAuditRequest)
	}

	mode := opts.Mode
	if mode == "" {
		mode = model.AuditModeSimulated
	}
	if !model.IsValidAuditMode(mode) {
		return nil, fmt.Errorf("%w: 対応していないモードです: %s", model.ErrInvalidAuditRequest, mode)
	}

	grid, err := s.generator.GenerateGrid(config)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("keyword", keyword).
		Str("business", businessName).
		Str("mode", string(mode)).
		Int("points", len(grid.Points)).
		Msg("🗺️  ジオグリッド監査開始")
	start := time.Now()

	seed, err := s.measureSeed(ctx, grid.Center, keyword, businessName, opts.LocationName)
	if err != nil {
		return nil, err
	}

	var results []model.GridResult
	switch mode {
	case model.AuditModeMeasured:
		results, err = s.prober.Probe(ctx, grid, keyword, businessName, seed)
		if err != nil {
			return nil, err
		}
	default:
		results = s.simulator.Simulate(grid, seed.Rank, config.RadiusKm)
	}

	audit := &model.GeoGridAudit{
		ID:           uuid.NewString(),
		Keyword:      keyword,
		BusinessName: businessName,
		Config:       config,
		Mode:         mode,
		Seed:         seed,
		Results:      results,
		CreatedAt:    s.now(),
	}
	for _, r := range results {
		if r.Source == model.RankSourceEstimated {
			audit.Approximate = true
			break
		}
	}

	log.Info().
		Str("audit_id", audit.ID).
		Int("seed_rank", seed.Rank).
		Str("strategy", string(seed.Strategy)).
		Int("found", audit.FoundCount()).
		Dur("elapsed", time.Since(start)).
		Msg("✅ ジオグリッド監査完了")

	return audit, nil
}

// measureSeed は中心の順位を計測する
// 1. 中心座標を指定して問い合わせ 2. エラーまたは圏外なら地名で1回だけ再試行
// 両方失敗した場合はRank -1と最後の失敗理由を記録し、エラーにはしない
func (s *geoGridAuditService) measureSeed(ctx context.Context, center model.GeoPoint, keyword, businessName, locationName string) (model.SeedMeasurement, error) {
	rank, err := s.provider.QueryRank(ctx, model.RankQuery{
		Keyword:      keyword,
		BusinessName: businessName,
		Coordinate:   &center,
	})
	if ctx.Err() != nil {
		return model.SeedMeasurement{}, ctx.Err()
	}
	if err == nil && rank >= 1 {
		return model.SeedMeasurement{Rank: rank, Strategy: model.SeedStrategyCoordinate, Attempts: 1}, nil
	}

	name := s.fallbackLocationName(center, locationName)
	log.Warn().
		Err(err).
		Int("rank", rank).
		Str("location_name", name).
		Msg("🔁 座標指定で順位が取れないため地名でフォールバック")

	rank, err = s.provider.QueryRank(ctx, model.RankQuery{
		Keyword:      keyword,
		LocationName: name,
		BusinessName: businessName,
	})
	if ctx.Err() != nil {
		return model.SeedMeasurement{}, ctx.Err()
	}
	if err == nil && rank >= 1 {
		return model.SeedMeasurement{Rank: rank, Strategy: model.SeedStrategyLocationName, LocationName: name, Attempts: 2}, nil
	}

	kind := model.ErrorKindOf(err)
	if err == nil {
		kind = model.ErrorKindBusinessNotFound
	}
	log.Warn().Err(err).Str("error_kind", string(kind)).Msg("❌ シード計測に失敗、全点を圏外として扱います")

	return model.SeedMeasurement{
		Rank:         model.RankNotFound,
		Strategy:     model.SeedStrategyNone,
		LocationName: name,
		ErrorKind:    kind,
		Attempts:     2,
	}, nil
}

func (s *geoGridAuditService) fallbackLocationName(center model.GeoPoint, requested string) string {
	if name := strings.TrimSpace(requested); name != "" {
		return name
	}
	if s.resolver == nil {
		return model.DefaultLocationName
	}
	if name, ok := s.resolver.NearestName(center); ok {
		return name
	}
	return s.resolver.DefaultName()
}
