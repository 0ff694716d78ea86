// Package config loads the bot configuration from a YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPrefix is used when no prefix is configured.
const DefaultPrefix = ";"

// DiscordConfig stores Discord specific configurations.
type DiscordConfig struct {
	BotToken      string             `yaml:"bot_token" env:"DISCORD_TOKEN"`
	ApplicationID *discord.Snowflake `yaml:"application_id"`
	// GuildIDs limits slash command publication to these guilds. Empty means global.
	GuildIDs []string `yaml:"guild_ids" env:"DISCORD_GUILD_IDS" envSeparator:","`
	Prefix   string   `yaml:"prefix" env:"PREFIX"`
}

// LavalinkConfig stores the playback node connection settings.
type LavalinkConfig struct {
	Host       string `yaml:"host" env:"LAVALINK_HOST"`
	Port       int    `yaml:"port" env:"LAVALINK_PORT"`
	Password   string `yaml:"password" env:"LAVALINK_PASSWORD"`
	Secure     bool   `yaml:"secure" env:"LAVALINK_SECURE"`
	ClientName string `yaml:"client_name" env:"LAVALINK_CLIENT_NAME"`
	// ReconnectDelay is the initial websocket reconnect backoff.
	ReconnectDelay time.Duration `yaml:"reconnect_delay" env:"LAVALINK_RECONNECT_DELAY"`
}

// DispatchConfig bounds command execution.
type DispatchConfig struct {
	MaxConcurrent    int     `yaml:"max_concurrent" env:"DISPATCH_MAX_CONCURRENT"`
	RatePerSecond    float64 `yaml:"rate_per_second" env:"DISPATCH_RATE_PER_SECOND"`
	RateBurst        int     `yaml:"rate_burst" env:"DISPATCH_RATE_BURST"`
	LimiterCacheSize int     `yaml:"limiter_cache_size" env:"DISPATCH_LIMITER_CACHE_SIZE"`
}

// MusicConfig stores playback related settings.
type MusicConfig struct {
	LyricsCacheSize  int           `yaml:"lyrics_cache_size" env:"MUSIC_LYRICS_CACHE_SIZE"`
	VoiceJoinTimeout time.Duration `yaml:"voice_join_timeout" env:"MUSIC_VOICE_JOIN_TIMEOUT"`
}

// MetricsConfig stores the Prometheus exporter settings.
type MetricsConfig struct {
	// Address to serve /metrics on, e.g. ":9100". Empty disables the exporter.
	Address string `yaml:"address" env:"METRICS_ADDRESS"`
}

// Config stores the application configuration.
type Config struct {
	Discord             DiscordConfig  `yaml:"discord"`
	Lavalink            LavalinkConfig `yaml:"lavalink"`
	Dispatch            DispatchConfig `yaml:"dispatch"`
	Music               MusicConfig    `yaml:"music"`
	Metrics             MetricsConfig  `yaml:"metrics"`
	LogLevel            string         `yaml:"log_level" env:"LOG_LEVEL"`
	LatencyPollInterval time.Duration  `yaml:"latency_poll_interval" env:"LATENCY_POLL_INTERVAL"`
}

// Default returns a Config populated with default values.
func Default() Config {
	return Config{
		Discord: DiscordConfig{
			Prefix: DefaultPrefix,
		},
		Lavalink: LavalinkConfig{
			Port:           2333,
			ClientName:     "chimera",
			ReconnectDelay: 2 * time.Second,
		},
		Dispatch: DispatchConfig{
			MaxConcurrent:    64,
			RatePerSecond:    2,
			RateBurst:        5,
			LimiterCacheSize: 1024,
		},
		Music: MusicConfig{
			LyricsCacheSize:  256,
			VoiceJoinTimeout: 10 * time.Second,
		},
		LogLevel:            "info",
		LatencyPollInterval: 15 * time.Second,
	}
}

// LoadConfig loads the configuration from the given file path.
// A missing file is not an error; values then come from defaults, an optional
// .env file and the process environment, in increasing order of precedence.
func LoadConfig(filePath string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filePath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", filePath, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config file %s: %w", filePath, err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if cfg.Discord.Prefix == "" {
		cfg.Discord.Prefix = DefaultPrefix
	}

	return &cfg, nil
}

// Validate reports settings the bot cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.Discord.BotToken == "" {
		errs = append(errs, errors.New("discord bot token is not set"))
	}
	if c.Lavalink.Host == "" {
		errs = append(errs, errors.New("lavalink host is not set"))
	}
	if c.Lavalink.Password == "" {
		errs = append(errs, errors.New("lavalink password is not set"))
	}
	if c.Lavalink.Port <= 0 || c.Lavalink.Port > 65535 {
		errs = append(errs, fmt.Errorf("lavalink port %d is out of range", c.Lavalink.Port))
	}

	return errors.Join(errs...)
}
