package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath     string // SQLite database file, or ":memory:"
	ListenAddr string
	LogDir     string
	LogLevel   int
}

// Load reads configuration from the environment, with an optional .env file.
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded .env file")
	}

	return &Config{
		DBPath:     getEnv("DASHBUILDER_DB", defaultDBPath()),
		ListenAddr: getEnv("DASHBUILDER_ADDR", ":8080"),
		LogDir:     getEnv("DASHBUILDER_LOG_DIR", "log"),
		LogLevel:   getEnvInt("DASHBUILDER_LOG_LEVEL", 3),
	}
}

// defaultDBPath is the documented default: a per-user application directory.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "dashboards.db"
	}
	return filepath.Join(home, ".dashbuilder", "dashboards.db")
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
