// Package config loads pifindex's runtime configuration from environment
// variables, with an optional settings-table override layered on top once
// the database is reachable.
package config

import (
	"database/sql"
	"log"
	"os"
	"strconv"
)

// Config holds every environment-tunable knob pifserve needs at startup.
type Config struct {
	Port          int
	DatabaseURL   string
	RedisAddr     string
	APIKey        string
	CorpusDir     string
	FFmpegPath    string
	FFprobePath   string
	FrameSamples  int
	MaxIngestJobs int
	DefaultRadius int
}

// Load reads Config from the environment, falling back to development
// defaults for anything unset.
func Load() *Config {
	return &Config{
		Port:          envInt("PORT", 8080),
		DatabaseURL:   env("DATABASE_URL", "postgres://pifindex:pifindex@db:5432/pifindex?sslmode=disable"),
		RedisAddr:     env("REDIS_ADDR", "redis:6379"),
		APIKey:        env("API_KEY", ""),
		CorpusDir:     env("CORPUS_DIR", "/data/corpus"),
		FFmpegPath:    env("FFMPEG_PATH", "ffmpeg"),
		FFprobePath:   env("FFPROBE_PATH", "ffprobe"),
		FrameSamples:  envInt("FRAME_SAMPLES", 10),
		MaxIngestJobs: envInt("MAX_INGEST_JOBS", 4),
		DefaultRadius: envInt("DEFAULT_RADIUS", 31),
	}
}

// MergeFromDB overlays the max_ingest_jobs, default_radius and corpus_dir
// rows of the settings table onto c. It reads the table once per call;
// later changes to the table are not picked up until it is called again.
func (c *Config) MergeFromDB(db *sql.DB) {
	rows, err := db.Query("SELECT key, value FROM settings")
	if err != nil {
		log.Printf("config: skipping DB merge: %v", err)
		return
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			continue
		}
		switch key {
		case "max_ingest_jobs":
			if v, err := strconv.Atoi(value); err == nil {
				c.MaxIngestJobs = v
			}
		case "default_radius":
			if v, err := strconv.Atoi(value); err == nil {
				c.DefaultRadius = v
			}
		case "corpus_dir":
			c.CorpusDir = value
		}
	}
}

// AuthEnabled reports whether incoming API requests require a bearer key.
func (c *Config) AuthEnabled() bool {
	return c.APIKey != ""
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
