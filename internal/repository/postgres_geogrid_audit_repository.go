package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"GeoRank-App/internal/domain/model"
	"GeoRank-App/internal/domain/repository"
	"GeoRank-App/internal/infrastructure/database"
)

const createGeoGridAuditsTable = `CREATE TABLE IF NOT EXISTS geogrid_audits (
	id            TEXT PRIMARY KEY,
	keyword       TEXT NOT NULL,
	business_name TEXT NOT NULL,
	mode          TEXT NOT NULL,
	center        TEXT NOT NULL,
	config        JSONB NOT NULL,
	seed          JSONB NOT NULL,
	results       JSONB NOT NULL,
	approximate   BOOLEAN NOT NULL DEFAULT FALSE,
	found_count   INTEGER NOT NULL DEFAULT 0,
	average_rank  DOUBLE PRECISION NOT NULL DEFAULT 0,
	created_at    TIMESTAMPTZ NOT NULL
)`

type PostgresGeoGridAuditRepository struct {
	client *database.PostgreSQLClient
}

func NewPostgresGeoGridAuditRepository(client *database.PostgreSQLClient) *PostgresGeoGridAuditRepository {
	return &PostgresGeoGridAuditRepository{
		client: client,
	}
}

var _ repository.GeoGridAuditRepository = (*PostgresGeoGridAuditRepository)(nil)

// EnsureSchema テーブルがなければ作成する
func (r *PostgresGeoGridAuditRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.client.DB.ExecContext(ctx, createGeoGridAuditsTable); err != nil {
		return fmt.Errorf("geogrid_auditsテーブルの作成に失敗: %w", err)
	}
	return nil
}

// auditRow JSONB列を受け取るための構造体
type auditRow struct {
	ID           string
	Keyword      string
	BusinessName string
	Mode         string
	Config       string
	Seed         string
	Results      string
	Approximate  bool
	CreatedAt    time.Time
}

// ToAudit auditRowをmodel.GeoGridAuditに変換
func (ar *auditRow) ToAudit() (*model.GeoGridAudit, error) {
	audit := &model.GeoGridAudit{
		ID:           ar.ID,
		Keyword:      ar.Keyword,
		BusinessName: ar.BusinessName,
		Mode:         model.AuditMode(ar.Mode),
		Approximate:  ar.Approximate,
		CreatedAt:    ar.CreatedAt,
	}

	if err := json.Unmarshal([]byte(ar.Config), &audit.Config); err != nil {
		return nil, fmt.Errorf("config JSONBパースエラー: %w", err)
	}
	if err := json.Unmarshal([]byte(ar.Seed), &audit.Seed); err != nil {
		return nil, fmt.Errorf("seed JSONBパースエラー: %w", err)
	}
	if err := json.Unmarshal([]byte(ar.Results), &audit.Results); err != nil {
		return nil, fmt.Errorf("results JSONBパースエラー: %w", err)
	}

	return audit, nil
}

func (r *PostgresGeoGridAuditRepository) Save(ctx context.Context, audit *model.GeoGridAudit) error {
	config, err := json.Marshal(audit.Config)
	if err != nil {
		return fmt.Errorf("configのJSONマーシャル失敗: %w", err)
	}
	seed, err := json.Marshal(audit.Seed)
	if err != nil {
		return fmt.Errorf("seedのJSONマーシャル失敗: %w", err)
	}
	results, err := json.Marshal(audit.Results)
	if err != nil {
		return fmt.Errorf("resultsのJSONマーシャル失敗: %w", err)
	}

	query := `INSERT INTO geogrid_audits
		(id, keyword, business_name, mode, center, config, seed, results, approximate, found_count, average_rank, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			seed = EXCLUDED.seed,
			results = EXCLUDED.results,
			approximate = EXCLUDED.approximate,
			found_count = EXCLUDED.found_count,
			average_rank = EXCLUDED.average_rank`

	_, err = r.client.DB.ExecContext(ctx, query,
		audit.ID,
		audit.Keyword,
		audit.BusinessName,
		string(audit.Mode),
		CenterWKT(audit.Config.Center()),
		string(config),
		string(seed),
		string(results),
		audit.Approximate,
		audit.FoundCount(),
		audit.AverageRank(),
		audit.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("監査結果の保存失敗: %w", err)
	}
	return nil
}

func (r *PostgresGeoGridAuditRepository) FindByID(ctx context.Context, id string) (*model.GeoGridAudit, error) {
	query := `SELECT id, keyword, business_name, mode, config, seed, results, approximate, created_at
		FROM geogrid_audits WHERE id = $1`

	var row auditRow
	err := r.client.DB.QueryRowContext(ctx, query, id).Scan(
		&row.ID, &row.Keyword, &row.BusinessName, &row.Mode,
		&row.Config, &row.Seed, &row.Results, &row.Approximate, &row.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", model.ErrAuditNotFound, id)
		}
		return nil, fmt.Errorf("監査結果の取得失敗: %w", err)
	}

	return row.ToAudit()
}

func (r *PostgresGeoGridAuditRepository) ListRecent(ctx context.Context, limit int) ([]model.AuditSummary, error) {
	query := `SELECT id, keyword, business_name, mode, jsonb_array_length(results), found_count, average_rank, created_at
		FROM geogrid_audits ORDER BY created_at DESC LIMIT $1`

	rows, err := r.client.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("監査一覧の取得失敗: %w", err)
	}
	defer rows.Close()

	var summaries []model.AuditSummary
	for rows.Next() {
		var s model.AuditSummary
		var mode string
		if err := rows.Scan(&s.ID, &s.Keyword, &s.BusinessName, &mode, &s.PointCount, &s.FoundCount, &s.AverageRank, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("監査一覧の読み取り失敗: %w", err)
		}
		s.Mode = model.AuditMode(mode)
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("監査一覧の読み取り失敗: %w", err)
	}

	return summaries, nil
}
