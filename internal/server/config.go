package server

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	RunsDir string
	Workers int
}

// LoadConfig reads server settings from the environment, with a .env file
// loaded first if one exists.
func LoadConfig() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port:    "8080",
		RunsDir: "runs",
		Workers: 2,
	}

	if port := os.Getenv("PORT"); port != "" {
		cfg.Port = port
	}
	if dir := os.Getenv("GLITCHR_RUNS_DIR"); dir != "" {
		cfg.RunsDir = dir
	}
	if workers := os.Getenv("GLITCHR_WORKERS"); workers != "" {
		if n, err := strconv.Atoi(workers); err == nil && n > 0 {
			cfg.Workers = n
		}
	}

	return cfg
}
