package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"

	"GeoRank-App/internal/application"
	"GeoRank-App/internal/config"
	"GeoRank-App/internal/handler"
	"GeoRank-App/internal/logger"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}

// run はサーバーを起動し、ctxが終了するまで待つ。後片付けを終えてから終了コードを返す
func run(ctx context.Context, args []string) int {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return 0
		}
		return 1
	}
	opts.Logger.Setup()

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("設定の読み込みに失敗")
		return 1
	}
	gin.SetMode(cfg.Server.GinMode)

	container, err := application.NewContainer(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("依存関係の初期化に失敗")
		return 1
	}
	defer container.Close()

	if !cfg.HasProviderCredentials() {
		log.Warn().Msg("⚠️  RANKING_API_LOGIN / RANKING_API_PASSWORD が未設定です")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler.NewRouter(handler.NewGeoGridHandler(container.AuditUseCase), cfg.Server.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("🚀 GeoRank-App server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	code := 0
	select {
	case err := <-serveErr:
		if err != nil {
			log.Error().Err(err).Msg("Server failed")
			return 1
		}
	case <-ctx.Done():
	}
	log.Info().Msg("🛑 シャットダウン中...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("シャットダウンに失敗")
		code = 1
	}
	return code
}
