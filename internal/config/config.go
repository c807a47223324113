package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"decrypto/internal/domain"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	Game    GameConfig
	Client  ClientConfig
	Logging LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port      string
	Host      string
	Env       string // "development" or "production"
	PublicURL string // base for invite links; derived from the request when empty
}

// GameConfig holds game-related configuration
type GameConfig struct {
	RoomCodeLength       int
	MaxPlayers           int
	MinTeamSize          int
	WordsPerTeam         int
	InterceptLimit       int
	MistakeLimit         int
	FirstRoundIntercepts bool
	MessageLogSize       int
	EmptyRoomTTL         time.Duration
}

// ClientConfig holds per-connection limits
type ClientConfig struct {
	MessageRate  float64 // messages per second
	MessageBurst int
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // "json" or "text"
}

// Load loads configuration from environment variables with defaults. A .env
// file in the working directory, if present, is read first; variables
// already set in the environment win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	defaults := domain.DefaultGameSettings()

	return &Config{
		Server: ServerConfig{
			Port:      getEnv("PORT", "8080"),
			Host:      getEnv("HOST", "0.0.0.0"),
			Env:       getEnv("ENV", "development"),
			PublicURL: strings.TrimSuffix(getEnv("PUBLIC_URL", ""), "/"),
		},
		Game: GameConfig{
			RoomCodeLength:       getEnvInt("ROOM_CODE_LENGTH", 6),
			MaxPlayers:           getEnvInt("MAX_PLAYERS", defaults.MaxPlayers),
			MinTeamSize:          getEnvInt("MIN_TEAM_SIZE", defaults.MinTeamSize),
			WordsPerTeam:         getEnvInt("WORDS_PER_TEAM", defaults.WordsPerTeam),
			InterceptLimit:       getEnvInt("INTERCEPT_LIMIT", defaults.InterceptLimit),
			MistakeLimit:         getEnvInt("MISTAKE_LIMIT", defaults.MistakeLimit),
			FirstRoundIntercepts: getEnvBool("FIRST_ROUND_INTERCEPTS", defaults.FirstRoundIntercepts),
			MessageLogSize:       getEnvInt("MESSAGE_LOG_SIZE", defaults.LogSize),
			EmptyRoomTTL:         time.Duration(getEnvInt("EMPTY_ROOM_TTL_MINUTES", 30)) * time.Minute,
		},
		Client: ClientConfig{
			MessageRate:  getEnvFloat("MESSAGE_RATE", 5),
			MessageBurst: getEnvInt("MESSAGE_BURST", 10),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}, nil
}

// Settings returns the per-room game settings
func (g GameConfig) Settings() domain.GameSettings {
	settings := domain.DefaultGameSettings()
	settings.MaxPlayers = g.MaxPlayers
	settings.MinTeamSize = g.MinTeamSize
	settings.WordsPerTeam = g.WordsPerTeam
	settings.InterceptLimit = g.InterceptLimit
	settings.MistakeLimit = g.MistakeLimit
	settings.FirstRoundIntercepts = g.FirstRoundIntercepts
	settings.LogSize = g.MessageLogSize
	return settings.Normalize()
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// GetAddr returns the server address in host:port format
func (c *Config) GetAddr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// getEnv returns an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns an environment variable as an integer or a default value
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat returns an environment variable as a float or a default value
func getEnvFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvBool returns an environment variable as a bool or a default value
func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
