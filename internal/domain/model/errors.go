package model

import (
	"context"
	"errors"
)

var (
	// ErrTaskCreationFailed プロバイダがタスク投入を拒否した、またはレスポンスが不正
	ErrTaskCreationFailed = errors.New("ランキングタスクの作成に失敗しました")
	// ErrNoResults タスクは完了したが結果が空
	ErrNoResults = errors.New("ランキングタスクの結果がありません")
	// ErrInvalidGridConfig グリッド設定が不正
	ErrInvalidGridConfig = errors.New("グリッド設定が不正です")
	// ErrInvalidAuditRequest キーワードやビジネス名が不足している
	ErrInvalidAuditRequest = errors.New("監査リクエストが不正です")
	// ErrAuditNotFound 監査結果が見つからない
	ErrAuditNotFound = errors.New("監査結果が見つかりません")
)

// ErrorKind 監査結果に記録するエラー種別
type ErrorKind string

const (
	ErrorKindNone               ErrorKind = ""
	ErrorKindTaskCreationFailed ErrorKind = "task_creation_failed"
	ErrorKindNoResults          ErrorKind = "no_results"
	ErrorKindBusinessNotFound   ErrorKind = "business_not_found"
	ErrorKindCanceled           ErrorKind = "canceled"
	ErrorKindUnknown            ErrorKind = "unknown"
)

// ErrorKindOf エラーを種別に分類する
func ErrorKindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ErrorKindNone
	case errors.Is(err, ErrTaskCreationFailed):
		return ErrorKindTaskCreationFailed
	case errors.Is(err, ErrNoResults):
		return ErrorKindNoResults
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrorKindCanceled
	default:
		return ErrorKindUnknown
	}
}
