package main

import (
	"context"
	"errors"
	"image"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/youruser/cardapp/internal/api"
	"github.com/youruser/cardapp/internal/avatar"
	"github.com/youruser/cardapp/internal/card"
	"github.com/youruser/cardapp/internal/config"
	imagepkg "github.com/youruser/cardapp/internal/image"
	"github.com/youruser/cardapp/internal/logging"
	"github.com/youruser/cardapp/internal/storage"
	"go.uber.org/zap"
)

func main() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	logger, err := logging.New(cfg.Prod)
	if err != nil {
		log.Fatalf("Error building logger: %v", err)
	}
	defer logger.Sync()

	if cfg.Prod {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	resolver := newResolver(ctx, cfg, logger)
	fallback := avatar.Fallback{Base: cfg.FallbackAvatarBase, Background: cfg.FallbackAvatarBackground}
	renderer := newRenderer(ctx, cfg, logger)

	h := &api.Handler{
		Resolver:  resolver,
		Assembler: card.NewAssembler(resolver, fallback),
		Renderer:  renderer,
		Archive:   newArchive(ctx, cfg, logger),
		Log:       logger,
	}

	r := gin.New()
	api.RegisterRoutes(r, h, cfg.CORSOrigins)

	logger.Info("starting server", zap.String("addr", "http://localhost:"+cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newResolver(ctx context.Context, cfg config.Config, logger *zap.Logger) *avatar.Resolver {
	if !cfg.DirectoryConfigured() {
		logger.Warn("directory credentials missing, avatar lookups will use fallbacks")
		return avatar.NewResolver(nil, avatar.Options{}, logger)
	}
	opts := avatar.Options{
		GuildID:  cfg.DiscordGuildID,
		Limit:    cfg.LookupLimit,
		Timeout:  cfg.LookupTimeout,
		Strict:   cfg.AvatarStrictMatch,
		CacheTTL: cfg.AvatarCacheTTL,
	}
	if cfg.RedisURL != "" {
		cache, err := avatar.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn("avatar cache disabled", zap.Error(err))
		} else {
			opts.Cache = cache
		}
	}
	dir := avatar.NewDiscordClient(cfg.DiscordAPIBase, cfg.DiscordBotToken, &http.Client{Timeout: cfg.LookupTimeout})
	return avatar.NewResolver(dir, opts, logger)
}

func newRenderer(ctx context.Context, cfg config.Config, logger *zap.Logger) *imagepkg.Renderer {
	fetcher := imagepkg.NewHTTPFetcher(10 * time.Second)

	// background is best-effort; the renderer paints a solid backdrop without it
	var bg image.Image
	if cfg.CardBackground != "" {
		img, err := imagepkg.LoadImage(ctx, fetcher, cfg.CardBackground)
		if err != nil {
			logger.Warn("failed to load card background", zap.String("src", cfg.CardBackground), zap.Error(err))
		} else {
			bg = img
		}
	}

	var qr image.Image
	if cfg.CardQRText != "" {
		img, err := imagepkg.GenerateQRImage(cfg.CardQRText, 256)
		if err != nil {
			logger.Warn("failed to build QR badge", zap.Error(err))
		} else {
			qr = img
		}
	}

	theme := imagepkg.DefaultTheme()
	theme.Heading = cfg.CardHeading
	theme.Subtitle = cfg.CardSubtitle
	theme.Footer = cfg.CardFooter

	return &imagepkg.Renderer{
		Background: bg,
		QR:         qr,
		Theme:      theme,
		Scale:      cfg.CardPixelRatio,
		Quality:    cfg.JPEGQuality,
		Prefix:     cfg.CardBrandPrefix,
		Fetcher:    fetcher,
		Log:        logger,
	}
}

func newArchive(ctx context.Context, cfg config.Config, logger *zap.Logger) storage.Archive {
	switch {
	case cfg.MinioConfigured():
		a, err := storage.NewMinioArchive(ctx, cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioRegion, cfg.MinioUseSSL)
		if err != nil {
			logger.Warn("card archive disabled", zap.Error(err))
			return nil
		}
		return a
	case cfg.ArchiveDir != "":
		a, err := storage.NewDirArchive(cfg.ArchiveDir)
		if err != nil {
			logger.Warn("card archive disabled", zap.Error(err))
			return nil
		}
		return a
	}
	return nil
}
