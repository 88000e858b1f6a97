package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
	"go.etcd.io/bbolt"

	"GeoRank-App/internal/domain/model"
	"GeoRank-App/internal/domain/repository"
)

const boltAuditBucket = "geogridAudits"

// BoltGeoGridAuditRepository はローカルファイル(bbolt)に監査結果を保存する
// DBサーバーのないCLI実行や単体運用向け
type BoltGeoGridAuditRepository struct {
	db *bbolt.DB
	mu sync.Mutex
}

var _ repository.GeoGridAuditRepository = (*BoltGeoGridAuditRepository)(nil)

// NewBoltGeoGridAuditRepository はバケットを用意してリポジトリを作成する
func NewBoltGeoGridAuditRepository(db *bbolt.DB) (*BoltGeoGridAuditRepository, error) {
	err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(boltAuditBucket))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("バケットの作成に失敗: %w", err)
	}
	return &BoltGeoGridAuditRepository{db: db}, nil
}

func (r *BoltGeoGridAuditRepository) Save(ctx context.Context, audit *model.GeoGridAudit) error {
	data, err := msgpack.Marshal(audit)
	if err != nil {
		return fmt.Errorf("監査結果のシリアライズに失敗: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltAuditBucket)).Put([]byte(audit.ID), data)
	})
}

func (r *BoltGeoGridAuditRepository) FindByID(ctx context.Context, id string) (*model.GeoGridAudit, error) {
	var audit *model.GeoGridAudit
	err := r.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(boltAuditBucket)).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("%w: %s", model.ErrAuditNotFound, id)
		}
		audit = &model.GeoGridAudit{}
		if err := msgpack.Unmarshal(data, audit); err != nil {
			return fmt.Errorf("監査結果のデシリアライズに失敗: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return audit, nil
}

func (r *BoltGeoGridAuditRepository) ListRecent(ctx context.Context, limit int) ([]model.AuditSummary, error) {
	var summaries []model.AuditSummary
	err := r.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltAuditBucket)).ForEach(func(_, data []byte) error {
			var audit model.GeoGridAudit
			if err := msgpack.Unmarshal(data, &audit); err != nil {
				return fmt.Errorf("監査結果のデシリアライズに失敗: %w", err)
			}
			summaries = append(summaries, audit.Summary())
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return newestFirst(summaries, limit), nil
}

// newestFirst は作成日時の新しい順に並べ、limit件に切り詰める
func newestFirst(summaries []model.AuditSummary, limit int) []model.AuditSummary {
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	if limit > 0 && len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries
}
