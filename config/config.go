package config

import (
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config 从环境变量读取
type Config struct {
	// Store backend: "xlsx" (default) or "postgres"
	StoreBackend string

	// xlsx backend
	DataDir     string
	FixtureFile string
	LedgerFile  string

	// Redis lock (optional; empty addr = in-process mutex)
	RedisAddr string
	RedisPwd  string

	WebOrigin string
	StaticDir string
	Port      string
}

func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment")
	}
}

func Load() Config {
	get := func(k, def string) string {
		v := os.Getenv(k)
		if v == "" {
			return def
		}
		return v
	}
	dataDir := get("DATA_DIR", "data")
	return Config{
		StoreBackend: get("STORE_BACKEND", "xlsx"),
		DataDir:      dataDir,
		FixtureFile:  get("FIXTURE_FILE", filepath.Join(dataDir, "Test Fixture Location_final.xlsx")),
		LedgerFile:   get("LEDGER_FILE", filepath.Join(dataDir, "borrowed_test_fixtures.xlsx")),
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		RedisPwd:     os.Getenv("REDIS_PASSWORD"),
		WebOrigin:    get("WEB_ORIGIN", "http://127.0.0.1:3001"),
		StaticDir:    get("STATIC_DIR", "static"),
		Port:         get("PORT", "3001"),
	}
}
