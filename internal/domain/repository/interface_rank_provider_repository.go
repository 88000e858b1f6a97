package repository

import (
	"context"

	"GeoRank-App/internal/domain/model"
)

// RankProvider はキーワードと地点からビジネスの順位を1件計測する
// 見つからない場合は-1を返し、エラーにはしない
type RankProvider interface {
	QueryRank(ctx context.Context, query model.RankQuery) (int, error)
}
