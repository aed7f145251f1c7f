// Package config loads and validates the web server configuration.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/utkarsh5026/webpool/internal/algorithms"
	"github.com/utkarsh5026/webpool/internal/logger"
	"github.com/utkarsh5026/webpool/pool"
)

// DefaultPort is the port the server listens on when none is configured.
const DefaultPort = 7878

// Config is the full server configuration.
type Config struct {
	Host    string `yaml:"host" json:"host"`
	Port    int    `yaml:"port" json:"port"`
	Workers int    `yaml:"workers" json:"workers"`

	Queue     QueueConfig     `yaml:"queue" json:"queue"`
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	Root     string `yaml:"root" json:"root"`
	Index    string `yaml:"index" json:"index"`
	NotFound string `yaml:"not_found" json:"not_found"`

	ReadTimeout     Duration `yaml:"read_timeout" json:"read_timeout"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout" json:"shutdown_timeout"`

	// AcceptBackoff is "exponential" or "jittered". AcceptJitter is the
	// ±fraction applied by the jittered strategy.
	AcceptBackoff string  `yaml:"accept_backoff" json:"accept_backoff"`
	AcceptJitter  float64 `yaml:"accept_jitter" json:"accept_jitter"`

	LogLevel    string `yaml:"log_level" json:"log_level"`
	MetricsAddr string `yaml:"metrics_addr" json:"metrics_addr"`
	CPUAffinity bool   `yaml:"cpu_affinity" json:"cpu_affinity"`
}

// QueueConfig selects the pool's job queue.
type QueueConfig struct {
	Strategy string `yaml:"strategy" json:"strategy"`
	Capacity int    `yaml:"capacity" json:"capacity"`
	Policy   string `yaml:"policy" json:"policy"`
}

// RateLimitConfig throttles job dispatch. Zero values disable it.
type RateLimitConfig struct {
	PerSecond float64 `yaml:"per_second" json:"per_second"`
	Burst     int     `yaml:"burst" json:"burst"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Host:    "127.0.0.1",
		Port:    DefaultPort,
		Workers: 4,
		Queue: QueueConfig{
			Strategy: "unbounded",
			Policy:   "block",
		},
		Root:            ".",
		Index:           "hello.html",
		NotFound:        "404.html",
		ReadTimeout:     Duration(5 * time.Second),
		ShutdownTimeout: Duration(10 * time.Second),
		AcceptBackoff:   "exponential",
		LogLevel:        "info",
	}
}

// LoadFile reads a YAML or JSON file on top of Default.
// Fields missing from the file keep their default values.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config format: %s", ext)
	}

	return cfg, nil
}

// Validate checks the configuration and returns every problem found.
func (c Config) Validate() error {
	var errs []error

	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port must be between 0 and 65535, got %d", c.Port))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", c.Workers))
	}

	strategy, err := pool.ParseQueueStrategy(c.Queue.Strategy)
	if err != nil {
		errs = append(errs, fmt.Errorf("queue.strategy: %w", err))
	} else if strategy.Bounded() && c.Queue.Capacity < 1 {
		errs = append(errs, fmt.Errorf("queue.capacity must be at least 1 for the %s strategy", strategy))
	}
	if _, err := pool.ParseBackpressure(c.Queue.Policy); err != nil {
		errs = append(errs, fmt.Errorf("queue.policy: %w", err))
	}

	if c.RateLimit.PerSecond < 0 || c.RateLimit.Burst < 0 {
		errs = append(errs, errors.New("rate_limit values must be non-negative"))
	}
	if c.RateLimit.PerSecond > 0 && c.RateLimit.Burst == 0 {
		errs = append(errs, errors.New("rate_limit.burst must be set when rate_limit.per_second is"))
	}

	if c.Root == "" {
		errs = append(errs, errors.New("root must not be empty"))
	}
	if c.Index == "" || c.NotFound == "" {
		errs = append(errs, errors.New("index and not_found must not be empty"))
	}
	if c.ReadTimeout < 0 || c.ShutdownTimeout < 0 {
		errs = append(errs, errors.New("timeouts must be non-negative"))
	}
	if _, err := algorithms.ParseBackoff(c.AcceptBackoff); err != nil {
		errs = append(errs, fmt.Errorf("accept_backoff: %w", err))
	}
	if c.AcceptJitter < 0 || c.AcceptJitter > 1 {
		errs = append(errs, fmt.Errorf("accept_jitter must be between 0 and 1, got %v", c.AcceptJitter))
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}

	return errors.Join(errs...)
}

// Addr returns host:port.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// PoolOptions converts the queue and dispatch settings into pool options.
// Call Validate first; unparseable names fall back to defaults.
func (c Config) PoolOptions() []pool.Option {
	strategy, _ := pool.ParseQueueStrategy(c.Queue.Strategy)
	policy, _ := pool.ParseBackpressure(c.Queue.Policy)

	opts := []pool.Option{
		pool.WithQueueStrategy(strategy),
		pool.WithQueueCapacity(c.Queue.Capacity),
		pool.WithBackpressure(policy),
		pool.WithRateLimit(c.RateLimit.PerSecond, c.RateLimit.Burst),
	}
	if c.CPUAffinity {
		opts = append(opts, pool.WithCPUAffinity())
	}
	return opts
}

// Backoff returns the accept-loop backoff type, defaulting to exponential.
func (c Config) Backoff() algorithms.BackoffType {
	t, _ := algorithms.ParseBackoff(c.AcceptBackoff)
	return t
}

// Level returns the parsed log level, defaulting to INFO.
func (c Config) Level() logger.Level {
	level, _ := logger.ParseLevel(c.LogLevel)
	return level
}
