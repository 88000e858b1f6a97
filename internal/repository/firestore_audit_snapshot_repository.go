package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"GeoRank-App/internal/domain/model"
	"GeoRank-App/internal/domain/repository"
)

const auditSnapshotCollection = "geogridAuditSnapshots"

// firestoreAuditSnapshot Firestoreに保存するドキュメント
// expireAtにTTLポリシーを設定すると期限切れのドキュメントが自動削除される
type firestoreAuditSnapshot struct {
	Keyword      string    `firestore:"keyword"`
	BusinessName string    `firestore:"business_name"`
	Mode         string    `firestore:"mode"`
	SeedRank     int       `firestore:"seed_rank"`
	Payload      string    `firestore:"payload"`
	CreatedAt    time.Time `firestore:"created_at"`
	ExpireAt     time.Time `firestore:"expireAt"`
}

func toFirestoreAuditSnapshot(audit *model.GeoGridAudit, expireAt time.Time) (*firestoreAuditSnapshot, error) {
	payload, err := json.Marshal(audit)
	if err != nil {
		return nil, fmt.Errorf("監査結果のシリアライズに失敗: %w", err)
	}
	return &firestoreAuditSnapshot{
		Keyword:      audit.Keyword,
		BusinessName: audit.BusinessName,
		Mode:         string(audit.Mode),
		SeedRank:     audit.Seed.Rank,
		Payload:      string(payload),
		CreatedAt:    audit.CreatedAt,
		ExpireAt:     expireAt,
	}, nil
}

func (s *firestoreAuditSnapshot) toAudit() (*model.GeoGridAudit, error) {
	var audit model.GeoGridAudit
	if err := json.Unmarshal([]byte(s.Payload), &audit); err != nil {
		return nil, fmt.Errorf("データの変換に失敗しました: %w", err)
	}
	return &audit, nil
}

// FirestoreAuditSnapshotRepository Firestoreを使用した監査結果の短期キャッシュ
type FirestoreAuditSnapshotRepository struct {
	client *firestore.Client
	ttl    time.Duration
	now    func() time.Time
}

// NewFirestoreAuditSnapshotRepository 新しいFirestoreAuditSnapshotRepositoryインスタンスを作成
func NewFirestoreAuditSnapshotRepository(client *firestore.Client, ttl time.Duration) *FirestoreAuditSnapshotRepository {
	return &FirestoreAuditSnapshotRepository{
		client: client,
		ttl:    ttl,
		now:    time.Now,
	}
}

var _ repository.AuditSnapshotRepository = (*FirestoreAuditSnapshotRepository)(nil)

// Save は監査結果をTTL付きで保存する
func (r *FirestoreAuditSnapshotRepository) Save(ctx context.Context, audit *model.GeoGridAudit) error {
	doc, err := toFirestoreAuditSnapshot(audit, r.now().Add(r.ttl))
	if err != nil {
		return err
	}

	if _, err := r.client.Collection(auditSnapshotCollection).Doc(audit.ID).Set(ctx, doc); err != nil {
		log.Error().Err(err).Str("audit_id", audit.ID).Msg("❌ 監査スナップショットの保存失敗")
		return fmt.Errorf("監査スナップショットの保存に失敗しました: %w", err)
	}

	log.Debug().Str("audit_id", audit.ID).Dur("ttl", r.ttl).Msg("✅ 監査スナップショット保存")
	return nil
}

// Get はスナップショットを取得する。TTLによる削除は遅延するため期限もここで確認する
func (r *FirestoreAuditSnapshotRepository) Get(ctx context.Context, id string) (*model.GeoGridAudit, error) {
	snap, err := r.client.Collection(auditSnapshotCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("%w: %s", model.ErrAuditNotFound, id)
		}
		return nil, fmt.Errorf("監査スナップショットの取得に失敗しました: %w", err)
	}

	var doc firestoreAuditSnapshot
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("データの変換に失敗しました: %w", err)
	}
	if !doc.ExpireAt.IsZero() && r.now().After(doc.ExpireAt) {
		return nil, fmt.Errorf("%w: 有効期限切れ %s", model.ErrAuditNotFound, id)
	}

	return doc.toAudit()
}
