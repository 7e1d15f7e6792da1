// internal/config/config.go
package config

import (
	"os"
	"strconv"
)

// Config holds every runtime setting, read from environment variables
// with sensible defaults. A .env file is honored via godotenv autoload
// in main.
type Config struct {
	PlayerName string
	BankPath   string

	TotalSeconds  int
	PointsCorrect int
	PenaltyWrong  int
	Shuffle       bool

	FilterCycle      string
	FilterModule     string
	FilterDifficulty string

	AudioEnabled  bool
	AudioCacheDir string
	AudioLang     string

	// StoreBackend selects the KV store: "file" or "redis".
	StoreBackend string
	StorePath    string
	RedisAddr    string
	RedisDB      int

	// ScoreBackend selects the ledger: "store" (through the KV store)
	// or "postgres".
	ScoreBackend string
	PostgresURL  string

	ExportDir string
}

// Load reads configuration from the environment.
func Load() *Config {
	return &Config{
		PlayerName: getEnv("PLAYER_NAME", ""),
		BankPath:   getEnv("BANK_PATH", "bank.json"),

		TotalSeconds:  getEnvInt("TOTAL_SECONDS", 180),
		PointsCorrect: getEnvInt("POINTS_CORRECT", 10),
		PenaltyWrong:  getEnvInt("PENALTY_WRONG", 0),
		Shuffle:       getEnvBool("SHUFFLE", true),

		FilterCycle:      getEnv("FILTER_CYCLE", ""),
		FilterModule:     getEnv("FILTER_MODULE", ""),
		FilterDifficulty: getEnv("FILTER_DIFFICULTY", ""),

		AudioEnabled:  getEnvBool("AUDIO_ENABLED", false),
		AudioCacheDir: getEnv("AUDIO_CACHE_DIR", ".rosco/audio"),
		AudioLang:     getEnv("AUDIO_LANG", "es"),

		StoreBackend: getEnv("STORE_BACKEND", "file"),
		StorePath:    getEnv("STORE_PATH", ".rosco/store.json"),
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:      getEnvInt("REDIS_DB", 0),

		ScoreBackend: getEnv("SCORE_BACKEND", "store"),
		PostgresURL:  getEnv("POSTGRES_URL", ""),

		ExportDir: getEnv("EXPORT_DIR", "."),
	}
}

// getEnv is a helper to read an environment variable or return a default value.
func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// getEnvInt is a helper to parse an environment variable as integer, else a default value.
func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func getEnvBool(key string, def bool) bool {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return def
	}
	return v
}
