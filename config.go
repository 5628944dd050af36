package taskforge

import (
	"github.com/sirupsen/logrus"

	taskforge_internal "github.com/taskforge/taskforge/internal"
)

type (
	Config              = taskforge_internal.Config
	LoggerConfig        = taskforge_internal.LoggerConfig
	SchedulerConfig     = taskforge_internal.SchedulerConfig
	QueueDefaultsConfig = taskforge_internal.QueueDefaultsConfig
)

// DefaultConfig returns a Config populated with every section's defaults.
func DefaultConfig() *Config {
	return taskforge_internal.DefaultConfig()
}

// LoadConfig reads a YAML document at path, starting from DefaultConfig()
// so a partial document only overrides what it specifies.
func LoadConfig(path string) (*Config, error) {
	return taskforge_internal.LoadConfig(path)
}

// DefaultLoggerConfig and SetLogger expose the logging half of Config for
// hosts that configure logging independently of a YAML file.
func DefaultLoggerConfig() *LoggerConfig {
	return taskforge_internal.DefaultLoggerConfig()
}

func SetLogger(cfg *LoggerConfig) error {
	return taskforge_internal.SetLogger(cfg)
}

// NewCompLogger returns a component-scoped logger entry, the same one every
// internal subsystem uses, for hosts that want consistent log formatting
// around their own unit bodies.
func NewCompLogger(compName string) *logrus.Entry {
	return taskforge_internal.NewCompLogger(compName)
}
