package config

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/AlekSi/pointer"
	"github.com/joho/godotenv"
)

const DefaultConversationTimeout = 45 * time.Second

type Config struct {
	BotToken string
	BotDebug bool

	// ChannelID is the moderation chat. Nil means submissions cannot be relayed.
	ChannelID *int64

	DatabaseURL string
	DBUser      string
	DBPassword  string
	DBName      string
	DBHost      string
	DBPort      string

	MetricsAddr         string
	ConversationTimeout time.Duration
	LogLevel            slog.Level
}

func Load() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Printf("config.Load: no .env file found - using env variables")
	}

	return FromEnv(os.Getenv)
}

// FromEnv builds the config from a lookup function so tests don't touch the process env.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		BotToken:            getenv("BOT_TOKEN"),
		DatabaseURL:         getenv("DATABASE_URL"),
		DBUser:              getenv("DB_USER"),
		DBPassword:          getenv("DB_PASSWORD"),
		DBName:              getenv("DB_NAME"),
		DBHost:              getenv("DB_HOST"),
		DBPort:              getenv("DB_PORT"),
		MetricsAddr:         getenv("METRICS_ADDR"),
		ConversationTimeout: DefaultConversationTimeout,
		LogLevel:            slog.LevelInfo,
	}

	if cfg.BotToken == "" {
		return nil, fmt.Errorf("config.Load: BOT_TOKEN is required")
	}

	if raw := getenv("CHANNEL_ID"); raw != "" {
		channelID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("config.Load: invalid CHANNEL_ID %q: %w", raw, err)
		}
		cfg.ChannelID = pointer.ToInt64(channelID)
	}

	if cfg.DatabaseURL == "" && (cfg.DBUser == "" || cfg.DBPassword == "" || cfg.DBName == "") {
		return nil, fmt.Errorf("config.Load: DATABASE_URL or DB_USER, DB_PASSWORD, DB_NAME are required")
	}

	if cfg.DBHost == "" {
		cfg.DBHost = "localhost"
	}

	if cfg.DBPort == "" {
		cfg.DBPort = "5432"
	}

	if raw := getenv("CONVERSATION_TIMEOUT"); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil || timeout <= 0 {
			return nil, fmt.Errorf("config.Load: invalid CONVERSATION_TIMEOUT %q", raw)
		}
		cfg.ConversationTimeout = timeout
	}

	if raw := getenv("LOG_LEVEL"); raw != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(raw)); err != nil {
			return nil, fmt.Errorf("config.Load: invalid LOG_LEVEL %q: %w", raw, err)
		}
	}

	if raw := getenv("BOT_DEBUG"); raw != "" {
		debug, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("config.Load: invalid BOT_DEBUG %q: %w", raw, err)
		}
		cfg.BotDebug = debug
	}

	return cfg, nil
}

// DSN returns DatabaseURL when set, otherwise a key/value DSN for lib/pq.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
}
