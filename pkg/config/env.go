// Package config handles environment loading.
package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv loads variables from .env.local when APP_ENV is "local".
// Deployed environments rely on the process environment only.
func LoadEnv() {
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "local"
		os.Setenv("APP_ENV", appEnv)
	}

	if appEnv == "local" {
		if err := godotenv.Load(".env.local"); err != nil {
			log.Printf("no .env.local loaded: %v, relying on system environment", err)
		}
	}
}
