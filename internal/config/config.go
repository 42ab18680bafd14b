package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dgallion1/mapcase/internal/profile"
)

type Config struct {
	Port string

	// Auth
	MapcaseAPIKey string

	// Output
	OutputDir     string
	TemplatePath  string
	TemplateSheet string
	CaseType      string

	// Conversion defaults, overridable per request
	RootLabel     string
	DefaultPreset string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		MapcaseAPIKey: os.Getenv("MAPCASE_API_KEY"),

		OutputDir:     envOr("OUTPUT_DIR", "./output"),
		TemplatePath:  os.Getenv("TEMPLATE_PATH"),
		TemplateSheet: envOr("TEMPLATE_SHEET", profile.DefaultTemplateSheet),
		CaseType:      envOr("CASE_TYPE", profile.DefaultCaseType),

		RootLabel:     os.Getenv("ROOT_LABEL"),
		DefaultPreset: envOr("DEFAULT_PRESET", profile.PresetFull),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 20971520), // 20MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 20971520
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.MapcaseAPIKey == "" {
		return fmt.Errorf("MAPCASE_API_KEY is required")
	}
	if _, err := profile.PresetTags(c.DefaultPreset); err != nil {
		return fmt.Errorf("DEFAULT_PRESET: %w", err)
	}
	if c.TemplatePath != "" {
		info, err := os.Stat(c.TemplatePath)
		if err != nil || !info.Mode().IsRegular() {
			return fmt.Errorf("TEMPLATE_PATH %s is not a readable file", c.TemplatePath)
		}
	}
	return nil
}

// Profile returns the conversion profile the service starts every request
// from.
func (c Config) Profile() (*profile.Profile, error) {
	p := &profile.Profile{
		Preset:        c.DefaultPreset,
		Root:          c.RootLabel,
		Template:      c.TemplatePath,
		TemplateSheet: c.TemplateSheet,
		CaseType:      c.CaseType,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
