package ranking

import (
	"context"
	"time"
)

// Clock は待機処理を差し替えるための時計
// テストでは実時間を待たずに状態遷移を検証できる
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

// NewRealClock は実時間の時計を返す
func NewRealClock() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}

// Sleep はdだけ待機する。コンテキストがキャンセルされた場合はその時点で戻る
func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
