// Package config loads maowbotd's process configuration from the
// environment (and an optional .env file), the way the teacher's
// shared/config package does for every ToxicToastGo service.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadEnvFile loads a .env file if present. Absence is not an error.
func LoadEnvFile() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Info: no .env file found (this is optional)")
	} else {
		log.Printf("Loaded .env file")
	}
}

func GetEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func GetEnvAsInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("Warning: invalid integer for %s: %s, using default %d", key, v, defaultValue)
	}
	return defaultValue
}

func GetEnvAsBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("Warning: invalid bool for %s: %s, using default %t", key, v, defaultValue)
	}
	return defaultValue
}

func GetEnvAsDuration(key string, defaultValue string) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("Warning: invalid duration for %s: %s, using default %s", key, v, defaultValue)
	}
	d, _ := time.ParseDuration(defaultValue)
	return d
}

func GetEnvAsSlice(key string, defaultValue string) []string {
	v := GetEnv(key, defaultValue)
	if v == "" {
		return []string{}
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
