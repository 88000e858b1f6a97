package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GeoRank-App/internal/domain/model"
	"GeoRank-App/internal/infrastructure/database"
)

func newMockRepository(t *testing.T) (*PostgresGeoGridAuditRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewPostgresGeoGridAuditRepository(database.NewPostgreSQLClientFromDB(db)), mock
}

func TestPostgresGeoGridAuditRepository_Save(t *testing.T) {
	repo, mock := newMockRepository(t)
	audit := sampleAudit()
	audit.CreatedAt = time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

	mock.ExpectExec(`INSERT INTO geogrid_audits`).
		WithArgs(
			"audit-1", "coffee shop", "Starbucks", "simulated",
			"POINT(-122.4194 37.7749)",
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			true, 2, 9.0, audit.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Save(context.Background(), audit))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGeoGridAuditRepository_FindByID(t *testing.T) {
	t.Run("JSONB列から監査結果を復元", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		audit := sampleAudit()

		config, _ := json.Marshal(audit.Config)
		seed, _ := json.Marshal(audit.Seed)
		results, _ := json.Marshal(audit.Results)
		createdAt := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

		rows := sqlmock.NewRows([]string{"id", "keyword", "business_name", "mode", "config", "seed", "results", "approximate", "created_at"}).
			AddRow("audit-1", "coffee shop", "Starbucks", "simulated", string(config), string(seed), string(results), true, createdAt)
		mock.ExpectQuery(`SELECT (.+) FROM geogrid_audits WHERE id = \$1`).WithArgs("audit-1").WillReturnRows(rows)

		got, err := repo.FindByID(context.Background(), "audit-1")
		require.NoError(t, err)
		assert.Equal(t, audit.Config, got.Config)
		assert.Equal(t, audit.Seed, got.Seed)
		assert.Equal(t, audit.Results, got.Results)
		assert.Equal(t, model.AuditModeSimulated, got.Mode)
		assert.Equal(t, createdAt, got.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("存在しないIDはErrAuditNotFound", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery(`SELECT (.+) FROM geogrid_audits`).WithArgs("missing").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.FindByID(context.Background(), "missing")
		assert.True(t, errors.Is(err, model.ErrAuditNotFound))
	})

	t.Run("壊れたJSONBはエラー", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		rows := sqlmock.NewRows([]string{"id", "keyword", "business_name", "mode", "config", "seed", "results", "approximate", "created_at"}).
			AddRow("audit-1", "coffee", "Starbucks", "simulated", "{", "{}", "[]", false, time.Now())
		mock.ExpectQuery(`SELECT (.+) FROM geogrid_audits`).WillReturnRows(rows)

		_, err := repo.FindByID(context.Background(), "audit-1")
		assert.Error(t, err)
		assert.False(t, errors.Is(err, model.ErrAuditNotFound))
	})
}

func TestPostgresGeoGridAuditRepository_ListRecent(t *testing.T) {
	repo, mock := newMockRepository(t)
	createdAt := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "keyword", "business_name", "mode", "points", "found_count", "average_rank", "created_at"}).
		AddRow("b", "coffee", "Starbucks", "measured", 5, 4, 6.5, createdAt).
		AddRow("a", "coffee", "Starbucks", "simulated", 9, 9, 10.0, createdAt.Add(-time.Hour))
	mock.ExpectQuery(`ORDER BY created_at DESC LIMIT \$1`).WithArgs(2).WillReturnRows(rows)

	summaries, err := repo.ListRecent(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "b", summaries[0].ID)
	assert.Equal(t, model.AuditModeMeasured, summaries[0].Mode)
	assert.Equal(t, 5, summaries[0].PointCount)
	assert.Equal(t, 6.5, summaries[0].AverageRank)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGeoGridAuditRepository_EnsureSchema(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS geogrid_audits`).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
