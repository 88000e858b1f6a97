package repository

import (
	"context"
	"fmt"
	"sync"

	"GeoRank-App/internal/domain/model"
	"GeoRank-App/internal/domain/repository"
)

// MemoryGeoGridAuditRepository はプロセス内に監査結果を保持する
type MemoryGeoGridAuditRepository struct {
	mu     sync.RWMutex
	audits map[string]model.GeoGridAudit
}

var _ repository.GeoGridAuditRepository = (*MemoryGeoGridAuditRepository)(nil)

func NewMemoryGeoGridAuditRepository() *MemoryGeoGridAuditRepository {
	return &MemoryGeoGridAuditRepository{audits: make(map[string]model.GeoGridAudit)}
}

func (r *MemoryGeoGridAuditRepository) Save(ctx context.Context, audit *model.GeoGridAudit) error {
	stored := *audit
	stored.Results = append([]model.GridResult(nil), audit.Results...)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.audits[audit.ID] = stored
	return nil
}

func (r *MemoryGeoGridAuditRepository) FindByID(ctx context.Context, id string) (*model.GeoGridAudit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	audit, ok := r.audits[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrAuditNotFound, id)
	}
	audit.Results = append([]model.GridResult(nil), audit.Results...)
	return &audit, nil
}

func (r *MemoryGeoGridAuditRepository) ListRecent(ctx context.Context, limit int) ([]model.AuditSummary, error) {
	r.mu.RLock()
	summaries := make([]model.AuditSummary, 0, len(r.audits))
	for _, audit := range r.audits {
		summaries = append(summaries, audit.Summary())
	}
	r.mu.RUnlock()

	return newestFirst(summaries, limit), nil
}
