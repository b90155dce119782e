package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Defaults and bounds for the polling configuration. The minimum scan
// interval is enforced here, at configuration time; the poller itself runs
// whatever interval it is given.
const (
	DefaultBaseURL      = "https://www.weerplaza.nl/"
	DefaultScanInterval = 300 * time.Second
	MinScanInterval     = 60 * time.Second
	DefaultTimeout      = 20 * time.Second
)

// Location is one configured scrape target.
type Location struct {
	Name string // display name, unique
	Path string // opaque weerplaza location path, e.g. "nederland/amsterdam"
}

// Config holds all service settings, populated from environment variables.
type Config struct {
	BaseURL       string
	Locations     []Location
	ScanInterval  time.Duration
	ScrapeTimeout time.Duration

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Optional Kafka tick publication.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	scanInterval, err := parseDuration("SCAN_INTERVAL", DefaultScanInterval)
	if err != nil {
		return nil, err
	}
	if scanInterval < MinScanInterval {
		return nil, fmt.Errorf("SCAN_INTERVAL must be at least %s", MinScanInterval)
	}

	scrapeTimeout, err := parseDuration("SCRAPE_TIMEOUT", DefaultTimeout)
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	locations, err := parseLocations(os.Getenv("LOCATIONS"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		BaseURL:       envOrDefault("WEERPLAZA_BASE_URL", DefaultBaseURL),
		Locations:     locations,
		ScanInterval:  scanInterval,
		ScrapeTimeout: scrapeTimeout,

		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		KafkaEnabled: os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers: splitAndTrim(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "weerplaza-ticks"),
	}

	if cfg.BaseURL == "" {
		return nil, errors.New("WEERPLAZA_BASE_URL is required")
	}
	if len(cfg.Locations) == 0 {
		return nil, errors.New("LOCATIONS is required: comma-separated name=path pairs")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}

	return cfg, nil
}

// parseLocations parses the LOCATIONS value: comma-separated entries, each
// either "name=path" or a bare path whose display name defaults to the last
// path segment. Names must be unique.
func parseLocations(raw string) ([]Location, error) {
	seen := make(map[string]struct{})
	var locations []Location

	for _, part := range splitAndTrim(raw) {
		name, path, found := strings.Cut(part, "=")
		if !found {
			path = part
			name = lastSegment(part)
		}
		name = strings.TrimSpace(name)
		path = strings.Trim(strings.TrimSpace(path), "/")
		if name == "" || path == "" {
			return nil, fmt.Errorf("LOCATIONS entry %q is invalid", part)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("LOCATIONS contains duplicate name %q", name)
		}
		seen[name] = struct{}{}
		locations = append(locations, Location{Name: name, Path: path})
	}
	return locations, nil
}

func lastSegment(path string) string {
	path = strings.Trim(path, "/")
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return d, nil
}

func splitAndTrim(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
