package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the process configuration, read from the environment.
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`
	Prod bool   `env:"PROD"`

	DiscordBotToken   string        `env:"DISCORD_BOT_TOKEN"`
	DiscordGuildID    string        `env:"DISCORD_GUILD_ID"`
	DiscordAPIBase    string        `env:"DISCORD_API_BASE" envDefault:"https://discord.com/api/v10"`
	LookupTimeout     time.Duration `env:"LOOKUP_TIMEOUT" envDefault:"5s"`
	LookupLimit       int           `env:"LOOKUP_LIMIT" envDefault:"5"`
	AvatarStrictMatch bool          `env:"AVATAR_STRICT_MATCH"`

	FallbackAvatarBase       string `env:"FALLBACK_AVATAR_BASE" envDefault:"https://api.dicebear.com/7.x/identicon/png"`
	FallbackAvatarBackground string `env:"FALLBACK_AVATAR_BACKGROUND" envDefault:"ffd5dc"`

	RedisURL       string        `env:"REDIS_URL"`
	AvatarCacheTTL time.Duration `env:"AVATAR_CACHE_TTL" envDefault:"10m"`

	CardBackground  string `env:"CARD_BACKGROUND"`
	CardBrandPrefix string `env:"CARD_BRAND_PREFIX" envDefault:"valentine"`
	CardPixelRatio  int    `env:"CARD_PIXEL_RATIO" envDefault:"2"`
	JPEGQuality     int    `env:"JPEG_QUALITY" envDefault:"92"`
	CardHeading     string `env:"CARD_HEADING" envDefault:"Happy Valentine's Day"`
	CardSubtitle    string `env:"CARD_SUBTITLE" envDefault:"a little note from the community"`
	CardFooter      string `env:"CARD_FOOTER" envDefault:"made with love"`
	CardQRText      string `env:"CARD_QR_TEXT"`

	ArchiveDir     string `env:"ARCHIVE_DIR"`
	MinioEndpoint  string `env:"MINIO_ENDPOINT"`
	MinioAccessKey string `env:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `env:"MINIO_SECRET_KEY"`
	MinioBucket    string `env:"MINIO_BUCKET" envDefault:"cards"`
	MinioRegion    string `env:"MINIO_REGION" envDefault:"us-east-1"`
	MinioUseSSL    bool   `env:"MINIO_USE_SSL"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the renderer and resolver cannot work with.
func (c Config) Validate() error {
	if c.CardPixelRatio < 1 || c.CardPixelRatio > 3 {
		return fmt.Errorf("CARD_PIXEL_RATIO must be between 1 and 3, got %d", c.CardPixelRatio)
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("JPEG_QUALITY must be between 1 and 100, got %d", c.JPEGQuality)
	}
	if c.LookupLimit < 1 || c.LookupLimit > 1000 {
		return fmt.Errorf("LOOKUP_LIMIT must be between 1 and 1000, got %d", c.LookupLimit)
	}
	if c.LookupTimeout <= 0 {
		return fmt.Errorf("LOOKUP_TIMEOUT must be positive")
	}
	return nil
}

// DirectoryConfigured reports whether both directory credentials are present.
func (c Config) DirectoryConfigured() bool {
	return c.DiscordBotToken != "" && c.DiscordGuildID != ""
}

// MinioConfigured reports whether the object archive can be used.
func (c Config) MinioConfigured() bool {
	return c.MinioEndpoint != "" && c.MinioAccessKey != "" && c.MinioSecretKey != ""
}
