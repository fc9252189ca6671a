// Package config loads service settings from environment variables and the
// YAML site registry.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/reefwatch/coral-alert-etl/internal/domain"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	InputDir       string
	ClimatologyDir string
	OutputDir      string
	SitesFile      string

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	SiteWorkers int
	GapPolicy   domain.GapPolicy

	// Alert publication is enabled when brokers are configured.
	KafkaBrokers    []string
	KafkaAlertTopic string
	AlertsEnabled   bool
}

// Load reads configuration from the environment, applying defaults where
// unset. A .env file in the working directory is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	siteWorkers, err := parsePositiveInt("SITE_WORKERS", 3)
	if err != nil {
		return nil, err
	}

	gapPolicy, err := domain.ParseGapPolicy(os.Getenv("GAP_POLICY"))
	if err != nil {
		return nil, fmt.Errorf("invalid GAP_POLICY: %w", err)
	}

	brokers := parseBrokers(os.Getenv("KAFKA_BROKERS"))

	cfg := &Config{
		InputDir:       envOrDefault("INPUT_DIR", "data/xyz"),
		ClimatologyDir: envOrDefault("CLIMATOLOGY_DIR", "data/climatology"),
		OutputDir:      envOrDefault("OUTPUT_DIR", "reports"),
		SitesFile:      envOrDefault("SITES_FILE", "sites.yaml"),

		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		SiteWorkers: siteWorkers,
		GapPolicy:   gapPolicy,

		KafkaBrokers:    brokers,
		KafkaAlertTopic: envOrDefault("KAFKA_ALERT_TOPIC", "bleaching-alert-summaries"),
		AlertsEnabled:   len(brokers) > 0,
	}

	if cfg.InputDir == "" {
		return nil, errors.New("INPUT_DIR is required")
	}
	if cfg.OutputDir == "" {
		return nil, errors.New("OUTPUT_DIR is required")
	}
	if cfg.SitesFile == "" {
		return nil, errors.New("SITES_FILE is required")
	}
	if cfg.AlertsEnabled && cfg.KafkaAlertTopic == "" {
		return nil, errors.New("KAFKA_BROKERS is set but KAFKA_ALERT_TOPIC is empty")
	}

	return cfg, nil
}

// Site is one entry of the YAML site registry.
type Site struct {
	Code string `yaml:"code"`
	Name string `yaml:"name"`
}

type siteRegistry struct {
	Sites []Site `yaml:"sites"`
}

// LoadSites reads the site registry: the fixed configured set of reef
// monitoring polygons, code plus report display name.
func LoadSites(path string) ([]Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read site registry: %w", err)
	}

	var registry siteRegistry
	if err := yaml.Unmarshal(data, &registry); err != nil {
		return nil, fmt.Errorf("parse site registry %s: %w", path, err)
	}
	if len(registry.Sites) == 0 {
		return nil, fmt.Errorf("site registry %s defines no sites", path)
	}

	seen := make(map[string]bool, len(registry.Sites))
	for i, site := range registry.Sites {
		if site.Code == "" {
			return nil, fmt.Errorf("site registry %s: entry %d has no code", path, i)
		}
		if site.Name == "" {
			return nil, fmt.Errorf("site registry %s: site %s has no name", path, site.Code)
		}
		upper := strings.ToUpper(site.Code)
		if seen[upper] {
			return nil, fmt.Errorf("site registry %s: duplicate site code %s", path, site.Code)
		}
		seen[upper] = true
	}

	return registry.Sites, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	raw := envOrDefault(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return d, nil
}

func parsePositiveInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return n, nil
}

func parseBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
