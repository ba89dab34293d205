package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all service settings. Values come from, in order of
// precedence: the process environment (including a .env file), the optional
// YAML document named by CONFIG_FILE, and built-in defaults.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Upstream APIs.
	UserAgent       string
	IPAPIBaseURL    string
	IdentMeURL      string
	MetnoBaseURL    string
	UpstreamTimeout time.Duration
	MetnoRateLimit  float64 // requests per second
	MetnoRateBurst  int

	// Response cache shared by the location resolver and forecast fetcher.
	CacheTTL           time.Duration
	CacheSize          int
	CachePurgeSchedule string

	// Optional report sink.
	KafkaEnabled     bool
	KafkaBrokers     []string
	KafkaReportTopic    string
	KafkaPublishTimeout time.Duration
}

// Load reads configuration, applying defaults where unset.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	src, err := newSource(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := src.shutdownTimeout()
	if err != nil {
		return nil, err
	}
	upstreamTimeout, err := src.duration("UPSTREAM_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	cacheTTL, err := src.duration("CACHE_TTL", "10m")
	if err != nil {
		return nil, err
	}
	cacheSize, err := src.positiveInt("CACHE_SIZE", "1000")
	if err != nil {
		return nil, err
	}
	burst, err := src.positiveInt("METNO_RATE_BURST", "5")
	if err != nil {
		return nil, err
	}
	rateLimit, err := strconv.ParseFloat(src.get("METNO_RATE_LIMIT", "10"), 64)
	if err != nil || rateLimit <= 0 {
		return nil, errors.New("invalid METNO_RATE_LIMIT: must be a positive number")
	}

	publishTimeout, err := src.duration("KAFKA_PUBLISH_TIMEOUT", "2s")
	if err != nil {
		return nil, err
	}

	brokers := sharedcfg.ParseBrokers(src.get("KAFKA_BROKERS", ""))
	kafkaEnabled := len(brokers) > 0
	if v := src.get("KAFKA_ENABLED", ""); v != "" {
		kafkaEnabled, err = strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid KAFKA_ENABLED %q: %w", v, err)
		}
	}

	cfg := &Config{
		HTTPAddr:        src.get("HTTP_ADDR", ":8080"),
		LogLevel:        strings.ToLower(src.get("LOG_LEVEL", "info")),
		LogFormat:       strings.ToLower(src.get("LOG_FORMAT", "json")),
		ShutdownTimeout: shutdownTimeout,

		UserAgent:       src.get("USER_AGENT", "weather-insight/1.0 github.com/couchcryptid/weather-insight"),
		IPAPIBaseURL:    strings.TrimRight(src.get("IPAPI_BASE_URL", "http://ip-api.com/json"), "/"),
		IdentMeURL:      src.get("IDENTME_URL", "https://ident.me/"),
		MetnoBaseURL:    src.get("METNO_BASE_URL", "https://api.met.no/weatherapi/locationforecast/2.0/complete"),
		UpstreamTimeout: upstreamTimeout,
		MetnoRateLimit:  rateLimit,
		MetnoRateBurst:  burst,

		CacheTTL:           cacheTTL,
		CacheSize:          cacheSize,
		CachePurgeSchedule: src.get("CACHE_PURGE_SCHEDULE", "@every 1m"),

		KafkaEnabled:        kafkaEnabled,
		KafkaBrokers:        brokers,
		KafkaReportTopic:    src.get("KAFKA_REPORT_TOPIC", "weather-reports"),
		KafkaPublishTimeout: publishTimeout,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid LOG_LEVEL %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q", c.LogFormat)
	}
	if c.UserAgent == "" {
		return errors.New("USER_AGENT is required")
	}
	if c.MetnoBaseURL == "" {
		return errors.New("METNO_BASE_URL is required")
	}
	if c.IPAPIBaseURL == "" {
		return errors.New("IPAPI_BASE_URL is required")
	}
	if c.KafkaEnabled && len(c.KafkaBrokers) == 0 {
		return errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if c.KafkaEnabled && c.KafkaReportTopic == "" {
		return errors.New("KAFKA_REPORT_TOPIC is required when Kafka is enabled")
	}
	return nil
}

// source resolves a variable from the environment first, then the config file.
type source struct {
	file map[string]string
}

func newSource(path string) (source, error) {
	src := source{file: map[string]string{}}
	if path == "" {
		return src, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return src, fmt.Errorf("read CONFIG_FILE %s: %w", path, err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return src, fmt.Errorf("parse CONFIG_FILE %s: %w", path, err)
	}
	for k, v := range raw {
		if v == nil {
			continue
		}
		if list, ok := v.([]any); ok {
			parts := make([]string, len(list))
			for i, item := range list {
				parts[i] = fmt.Sprint(item)
			}
			src.file[k] = strings.Join(parts, ",")
			continue
		}
		src.file[k] = fmt.Sprint(v)
	}
	return src, nil
}

func (s source) get(name, fallback string) string {
	if v := s.file[name]; v != "" {
		fallback = v
	}
	return sharedcfg.EnvOrDefault(name, fallback)
}

// shutdownTimeout defers to the environment parser unless only the config
// file sets the value.
func (s source) shutdownTimeout() (time.Duration, error) {
	if os.Getenv("SHUTDOWN_TIMEOUT") == "" && s.file["SHUTDOWN_TIMEOUT"] != "" {
		return s.duration("SHUTDOWN_TIMEOUT", "10s")
	}
	return sharedcfg.ParseShutdownTimeout()
}

func (s source) duration(name, fallback string) (time.Duration, error) {
	raw := s.get(name, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive duration", name, raw)
	}
	return d, nil
}

func (s source) positiveInt(name, fallback string) (int, error) {
	raw := s.get(name, fallback)
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive integer", name, raw)
	}
	return n, nil
}
