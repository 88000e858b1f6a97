package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"GeoRank-App/internal/domain/model"
	"GeoRank-App/internal/domain/repository"
	"GeoRank-App/internal/domain/service"
)

const (
	defaultListLimit = 20
	// persistTimeout は監査完了後の保存に与える時間。監査のタイムアウトとは独立している
	persistTimeout = 10 * time.Second
)

type GeoGridAuditUseCase interface {
	// GenerateGrid は設定を検証してグリッド座標のみを返す
	GenerateGrid(config model.GridConfig) (model.GeoGrid, error)

	// CreateAudit は監査を実行し、結果を保存して返す
	CreateAudit(ctx context.Context, req *model.AuditRequest) (*model.GeoGridAudit, error)

	// GetAudit はキャッシュ、永続ストアの順に監査結果を探す
	GetAudit(ctx context.Context, id string) (*model.GeoGridAudit, error)

	// ListAudits は新しい順に監査結果の要約を返す
	ListAudits(ctx context.Context, limit int) ([]model.AuditSummary, error)
}

// geoGridAuditUseCaseImpl はGeoGridAuditUseCaseの実装
type geoGridAuditUseCaseImpl struct {
	auditService service.GeoGridAuditService
	auditRepo    repository.GeoGridAuditRepository
	snapshotRepo repository.AuditSnapshotRepository // nilならキャッシュしない
	timeout      time.Duration
}

// NewGeoGridAuditUseCase は新しいGeoGridAuditUseCaseインスタンスを作成
func NewGeoGridAuditUseCase(
	auditService service.GeoGridAuditService,
	auditRepo repository.GeoGridAuditRepository,
	snapshotRepo repository.AuditSnapshotRepository,
	timeout time.Duration,
) GeoGridAuditUseCase {
	return &geoGridAuditUseCaseImpl{
		auditService: auditService,
		auditRepo:    auditRepo,
		snapshotRepo: snapshotRepo,
		timeout:      timeout,
	}
}

func (u *geoGridAuditUseCaseImpl) GenerateGrid(config model.GridConfig) (model.GeoGrid, error) {
	return u.auditService.GenerateGrid(config)
}

func (u *geoGridAuditUseCaseImpl) CreateAudit(ctx context.Context, req *model.AuditRequest) (*model.GeoGridAudit, error) {
	runCtx := ctx
	if u.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, u.timeout)
		defer cancel()
	}

	audit, err := u.auditService.RunAudit(runCtx, req.ToGridConfig(), req.Keyword, req.BusinessName, service.AuditOptions{
		LocationName: req.LocationName,
		Mode:         req.Mode,
	})
	if err != nil {
		return nil, fmt.Errorf("監査の実行に失敗: %w", err)
	}

	// 計算済みの結果は監査の残り時間に関係なく保存する
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()

	if err := u.auditRepo.Save(ctx, audit); err != nil {
		return nil, fmt.Errorf("監査結果の保存に失敗: %w", err)
	}

	// キャッシュの失敗は監査結果に影響しない
	if u.snapshotRepo != nil {
		if err := u.snapshotRepo.Save(ctx, audit); err != nil {
			log.Warn().Err(err).Str("audit_id", audit.ID).Msg("⚠️  スナップショットの保存に失敗")
		}
	}

	return audit, nil
}

func (u *geoGridAuditUseCaseImpl) GetAudit(ctx context.Context, id string) (*model.GeoGridAudit, error) {
	if u.snapshotRepo != nil {
		audit, err := u.snapshotRepo.Get(ctx, id)
		if err == nil {
			return audit, nil
		}
		if !errors.Is(err, model.ErrAuditNotFound) {
			log.Warn().Err(err).Str("audit_id", id).Msg("⚠️  スナップショットの取得に失敗")
		}
	}

	return u.auditRepo.FindByID(ctx, id)
}

func (u *geoGridAuditUseCaseImpl) ListAudits(ctx context.Context, limit int) ([]model.AuditSummary, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	return u.auditRepo.ListRecent(ctx, limit)
}
