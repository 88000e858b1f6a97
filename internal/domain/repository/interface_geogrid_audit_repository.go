package repository

import (
	"context"

	"GeoRank-App/internal/domain/model"
)

// GeoGridAuditRepository は監査結果の永続化を担う
type GeoGridAuditRepository interface {
	Save(ctx context.Context, audit *model.GeoGridAudit) error
	// FindByID は見つからない場合 model.ErrAuditNotFound を返す
	FindByID(ctx context.Context, id string) (*model.GeoGridAudit, error)
	ListRecent(ctx context.Context, limit int) ([]model.AuditSummary, error)
}

// AuditSnapshotRepository は直近の監査結果の短期キャッシュ
type AuditSnapshotRepository interface {
	Save(ctx context.Context, audit *model.GeoGridAudit) error
	// Get は見つからない、または期限切れの場合 model.ErrAuditNotFound を返す
	Get(ctx context.Context, id string) (*model.GeoGridAudit, error)
}
