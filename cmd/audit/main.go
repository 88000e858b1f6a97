package main

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"

	"GeoRank-App/internal/application"
	"GeoRank-App/internal/config"
	"GeoRank-App/internal/domain/model"
	"GeoRank-App/internal/logger"
	repoImpl "GeoRank-App/internal/repository"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	Lat          float64 `long:"lat"      required:"true"                          description:"Center latitude"`
	Lng          float64 `long:"lng"      required:"true"                          description:"Center longitude"`
	RadiusKm     float64 `short:"r" long:"radius"   default:"2"                    description:"Grid radius in km"`
	GridSize     int     `short:"n" long:"size"     default:"5"                    description:"Grid size (N x N)"`
	Keyword      string  `short:"k" long:"keyword"  required:"true"                description:"Search keyword"`
	Business     string  `short:"b" long:"business" required:"true"                description:"Business name to find"`
	LocationName string  `short:"l" long:"location"                                description:"Fallback location name"`
	Mode         string  `short:"m" long:"mode"     default:"simulated" choice:"simulated" choice:"measured" description:"Audit mode"`
	Output       string  `short:"o" long:"output"   default:"json" choice:"json" choice:"geojson" choice:"summary" description:"Output format"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout)
	stop()
	os.Exit(code)
}

// run は監査を1回実行して結果をstdoutへ書き出し、後片付けを終えてから終了コードを返す
func run(ctx context.Context, args []string, stdout io.Writer) int {
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
	if !cfg.HasProviderCredentials() {
		log.Error().Msg("RANKING_API_LOGIN / RANKING_API_PASSWORD を設定してください")
		return 1
	}

	container, err := application.NewContainer(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("依存関係の初期化に失敗")
		return 1
	}
	defer container.Close()

	lat, lng := opts.Lat, opts.Lng
	audit, err := container.AuditUseCase.CreateAudit(ctx, &model.AuditRequest{
		CenterLat:    &lat,
		CenterLng:    &lng,
		RadiusKm:     opts.RadiusKm,
		GridSize:     opts.GridSize,
		Keyword:      opts.Keyword,
		BusinessName: opts.Business,
		LocationName: opts.LocationName,
		Mode:         model.AuditMode(opts.Mode),
	})
	if err != nil {
		log.Error().Err(err).Msg("監査に失敗")
		return 1
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")

	var out interface{} = audit
	switch opts.Output {
	case "geojson":
		out = repoImpl.AuditToFeatureCollection(audit)
	case "summary":
		out = audit.Summary()
	}
	if err := enc.Encode(out); err != nil {
		log.Error().Err(err).Msg("出力に失敗")
		return 1
	}
	return 0
}
