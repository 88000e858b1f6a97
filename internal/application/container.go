package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.etcd.io/bbolt"

	"GeoRank-App/internal/config"
	"GeoRank-App/internal/domain/repository"
	"GeoRank-App/internal/domain/service"
	"GeoRank-App/internal/infrastructure/database"
	"GeoRank-App/internal/infrastructure/firestore"
	"GeoRank-App/internal/infrastructure/locationtable"
	"GeoRank-App/internal/infrastructure/ranking"
	repoImpl "GeoRank-App/internal/repository"
	"GeoRank-App/internal/usecase"
)

// Container はサーバーとCLIが共有する依存関係
type Container struct {
	Config       config.Config
	RankClient   *ranking.TaskClient
	AuditService service.GeoGridAuditService
	AuditUseCase usecase.GeoGridAuditUseCase

	closers []func() error
}

// NewContainer は設定に従って依存関係を組み立てる
// 保存先は DATABASE_URL → AUDIT_DB_PATH → メモリ の順に選ぶ
func NewContainer(ctx context.Context, cfg config.Config) (*Container, error) {
	c := &Container{Config: cfg}

	table, err := locationtable.Load(cfg.Locations.TablePath)
	if err != nil {
		return nil, err
	}
	resolver := service.NewLocationResolver(table)
	matcher := service.NewResultMatcher(cfg.Audit.MinWordLength)
	c.RankClient = ranking.NewTaskClient(cfg.Provider, resolver, matcher)

	seed := cfg.Audit.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	c.AuditService = service.NewGeoGridAuditService(c.RankClient, resolver, service.NewSeededGridSimulator(seed), cfg.Audit.ProbeConcurrency)

	auditRepo, err := c.openAuditRepository(ctx)
	if err != nil {
		c.Close()
		return nil, err
	}

	snapshotRepo, err := c.openSnapshotRepository(ctx)
	if err != nil {
		c.Close()
		return nil, err
	}

	c.AuditUseCase = usecase.NewGeoGridAuditUseCase(c.AuditService, auditRepo, snapshotRepo, cfg.Audit.Timeout)

	log.Info().
		Int("locations", len(table.Entries)).
		Int64("seed", seed).
		Bool("credentials", cfg.HasProviderCredentials()).
		Msg("🧩 依存関係の初期化完了")

	return c, nil
}

func (c *Container) openAuditRepository(ctx context.Context) (repository.GeoGridAuditRepository, error) {
	storage := c.Config.Storage

	switch {
	case storage.DatabaseURL != "":
		client, err := database.NewPostgreSQLClient(ctx, storage.DatabaseURL)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, client.Close)

		repo := repoImpl.NewPostgresGeoGridAuditRepository(client)
		if err := repo.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		log.Info().Msg("🐘 PostgreSQLに監査結果を保存します")
		return repo, nil

	case storage.BoltPath != "":
		db, err := bbolt.Open(storage.BoltPath, 0o600, &bbolt.Options{Timeout: time.Second})
		if err != nil {
			return nil, fmt.Errorf("監査DBファイルを開けません: %w", err)
		}
		c.closers = append(c.closers, db.Close)

		repo, err := repoImpl.NewBoltGeoGridAuditRepository(db)
		if err != nil {
			return nil, err
		}
		log.Info().Str("path", storage.BoltPath).Msg("📁 ローカルファイルに監査結果を保存します")
		return repo, nil

	default:
		log.Warn().Msg("⚠️  永続ストアが未設定のためメモリに保存します")
		return repoImpl.NewMemoryGeoGridAuditRepository(), nil
	}
}

func (c *Container) openSnapshotRepository(ctx context.Context) (repository.AuditSnapshotRepository, error) {
	storage := c.Config.Storage
	if storage.FirestoreProjectID == "" {
		return nil, nil
	}

	client, err := firestore.NewFirestoreClient(ctx, storage.FirestoreProjectID, storage.FirestoreKeyFile)
	if err != nil {
		return nil, err
	}
	c.closers = append(c.closers, client.Close)

	return repoImpl.NewFirestoreAuditSnapshotRepository(client.GetClient(), storage.SnapshotTTL), nil
}

// Close は開いた接続を逆順に閉じる
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
