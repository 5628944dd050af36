// Configuration: a single YAML document covering logging, the scheduler's
// dispatcher clock, and per-queue defaults. The queue constructors take
// their priority, concurrency and reuse strategy as explicit arguments and
// do not read QueueDefaultsConfig; the attempts ceiling applied to every
// wrapper is QUEUE_DEFAULTS_MAX_ATTEMPTS_DEFAULT.

package taskforge_internal

import (
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	QUEUE_DEFAULTS_MAX_ATTEMPTS_DEFAULT    = math.MaxInt32
	QUEUE_DEFAULTS_MAX_PRIORITY_DEFAULT    = 100
	QUEUE_DEFAULTS_MAX_PRIORITY_BOUND      = 100
	QUEUE_DEFAULTS_MAX_CONCURRENCY_DEFAULT = 1

	SCHEDULER_HORIZON_DEFAULT_SEC = 10
	SCHEDULER_HORIZON_MIN_SEC     = 1
	SCHEDULER_HORIZON_MAX_SEC     = 3600
	SCHEDULER_BEFOREHAND_SEC      = 5
	SCHEDULER_NUM_WORKERS_DEFAULT = -1 // loaded from config; WorkScheduler does not read NumWorkers
)

// ReuseStrategy selects the argument source of an access queue or conveyor;
// the constructors take it as an explicit argument.
type ReuseStrategy int

const (
	ReuseSingleReusable ReuseStrategy = iota
	ReuseSingleTransient
	ReuseMultipleStatic
)

func (s ReuseStrategy) String() string {
	switch s {
	case ReuseSingleReusable:
		return "single-reusable"
	case ReuseSingleTransient:
		return "single-transient"
	case ReuseMultipleStatic:
		return "multiple-static"
	default:
		return "unknown"
	}
}

type QueueDefaultsConfig struct {
	MaxAttempts    int           `yaml:"max_attempts"`
	MaxPriority    int           `yaml:"max_priority"`
	MaxConcurrency int           `yaml:"max_concurrency"`
	ReuseStrategy  ReuseStrategy `yaml:"-"`
}

func DefaultQueueDefaultsConfig() *QueueDefaultsConfig {
	return &QueueDefaultsConfig{
		MaxAttempts:    QUEUE_DEFAULTS_MAX_ATTEMPTS_DEFAULT,
		MaxPriority:    QUEUE_DEFAULTS_MAX_PRIORITY_DEFAULT,
		MaxConcurrency: QUEUE_DEFAULTS_MAX_CONCURRENCY_DEFAULT,
		ReuseStrategy:  ReuseSingleReusable,
	}
}

type SchedulerConfig struct {
	Horizon    time.Duration `yaml:"-"`
	Beforehand time.Duration `yaml:"-"`
	NumWorkers int           `yaml:"num_workers"`
}

func DefaultSchedulerConfig() *SchedulerConfig {
	return &SchedulerConfig{
		Horizon:    SCHEDULER_HORIZON_DEFAULT_SEC * time.Second,
		Beforehand: SCHEDULER_BEFOREHAND_SEC * time.Second,
		NumWorkers: SCHEDULER_NUM_WORKERS_DEFAULT,
	}
}

// ClampHorizon enforces the [1s, 1h] bound.
func ClampHorizon(d time.Duration) time.Duration {
	if d < SCHEDULER_HORIZON_MIN_SEC*time.Second {
		return SCHEDULER_HORIZON_MIN_SEC * time.Second
	}
	if d > SCHEDULER_HORIZON_MAX_SEC*time.Second {
		return SCHEDULER_HORIZON_MAX_SEC * time.Second
	}
	return d
}

// ClampPriority enforces the [0,maxPriority] bound.
func ClampPriority(p, maxPriority int) int {
	if p < 0 {
		return 0
	}
	if p > maxPriority {
		return maxPriority
	}
	return p
}

// ClampAttempts enforces the [1,maxAttempts] bound.
func ClampAttempts(attempts, maxAttempts int) int {
	if attempts < 1 {
		attempts = 1
	}
	if attempts > maxAttempts {
		attempts = maxAttempts
	}
	return attempts
}

type Config struct {
	LoggerConfig        *LoggerConfig        `yaml:"logger"`
	SchedulerConfig     *SchedulerConfig     `yaml:"scheduler"`
	QueueDefaultsConfig *QueueDefaultsConfig `yaml:"queue_defaults"`
}

func DefaultConfig() *Config {
	return &Config{
		LoggerConfig:        DefaultLoggerConfig(),
		SchedulerConfig:     DefaultSchedulerConfig(),
		QueueDefaultsConfig: DefaultQueueDefaultsConfig(),
	}
}

// LoadConfig reads and unmarshals a YAML document at path, starting from
// DefaultConfig() so a partial document only overrides what it specifies.
func LoadConfig(path string) (*Config, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("taskforge: read config %s: %w", path, err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(buf, cfg); err != nil {
		return nil, fmt.Errorf("taskforge: parse config %s: %w", path, err)
	}
	return cfg, nil
}
