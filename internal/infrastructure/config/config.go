package config

import (
	"fmt"
	"ifupdown-agent/internal/domain/constants"
	"ifupdown-agent/internal/domain/errors"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Polling strategy names accepted in AgentConfig.PollStrategy
const (
	PollStrategyFixed    = "fixed"
	PollStrategyBackoff  = "backoff"
	PollStrategyAdaptive = "adaptive"
)

// Config is a struct that holds application configuration
type Config struct {
	Database DatabaseConfig
	Agent    AgentConfig
	Health   HealthConfig
}

// DatabaseConfig is a struct that holds database configuration
type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Database     string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

// AgentConfig is a struct that holds agent configuration
type AgentConfig struct {
	PollInterval    time.Duration
	PollStrategy    string
	MaxRetries      int
	RetryDelay      time.Duration
	CommandTimeout  time.Duration
	InterfacesPath  string
	BackupDirectory string
	MaxBackups      int
	DryRun          bool
	ReloadEnabled   bool
	NodeName        string
}

// HealthConfig is a struct that holds health check configuration
type HealthConfig struct {
	Port string
}

// ConfigLoader is an interface for loading configuration
type ConfigLoader interface {
	Load() (*Config, error)
}

// EnvironmentConfigLoader is an implementation that loads configuration from environment variables
type EnvironmentConfigLoader struct{}

// NewEnvironmentConfigLoader creates a new EnvironmentConfigLoader
func NewEnvironmentConfigLoader() ConfigLoader {
	return &EnvironmentConfigLoader{}
}

// Load loads configuration from environment variables
func (l *EnvironmentConfigLoader) Load() (*Config, error) {
	config := buildFromEnv()

	// Validate configuration
	if err := validate(config); err != nil {
		return nil, err
	}

	return config, nil
}

// buildFromEnv assembles a Config from environment variables and defaults
func buildFromEnv() *Config {
	return &Config{
		Database: DatabaseConfig{
			Host:         getEnvOrDefault("DB_HOST", constants.DefaultDBHost),
			Port:         getEnvOrDefault("DB_PORT", constants.DefaultDBPort),
			User:         getEnvOrDefault("DB_USER", "root"),
			Password:     getEnvOrDefault("DB_PASSWORD", ""),
			Database:     getEnvOrDefault("DB_NAME", constants.DefaultDBName),
			MaxOpenConns: getEnvIntOrDefault("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns: getEnvIntOrDefault("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:  getEnvDurationOrDefault("DB_MAX_LIFETIME", 5*time.Minute),
		},
		Agent: AgentConfig{
			PollInterval:    getEnvDurationOrDefault("POLL_INTERVAL", 30*time.Second),
			PollStrategy:    getEnvOrDefault("POLL_STRATEGY", PollStrategyBackoff),
			MaxRetries:      getEnvIntOrDefault("MAX_RETRIES", 3),
			RetryDelay:      getEnvDurationOrDefault("RETRY_DELAY", 2*time.Second),
			CommandTimeout:  getEnvDurationOrDefault("COMMAND_TIMEOUT", 30*time.Second),
			InterfacesPath:  getEnvOrDefault("INTERFACES_FILE", constants.DefaultInterfacesFilePath),
			BackupDirectory: getEnvOrDefault("BACKUP_DIR", constants.DefaultBackupDir),
			MaxBackups:      getEnvIntOrDefault("MAX_BACKUPS", constants.DefaultMaxBackups),
			DryRun:          getEnvBoolOrDefault("DRY_RUN", false),
			ReloadEnabled:   getEnvBoolOrDefault("RELOAD_ENABLED", false),
			NodeName:        getEnvOrDefault("NODE_NAME", ""),
		},
		Health: HealthConfig{
			Port: getEnvOrDefault("HEALTH_PORT", constants.DefaultHealthPort),
		},
	}
}

// FileConfigLoader is an implementation that loads configuration from a YAML file.
// Environment variables provide the base values and the file overrides them.
type FileConfigLoader struct {
	path string
}

// NewFileConfigLoader creates a new FileConfigLoader
func NewFileConfigLoader(path string) ConfigLoader {
	return &FileConfigLoader{path: path}
}

// fileConfig mirrors Config with optional fields for YAML unmarshalling.
// Durations are strings so that "30s" style values can be used in the file.
type fileConfig struct {
	Database struct {
		Host         *string `yaml:"host"`
		Port         *string `yaml:"port"`
		User         *string `yaml:"user"`
		Password     *string `yaml:"password"`
		Name         *string `yaml:"name"`
		MaxOpenConns *int    `yaml:"max_open_conns"`
		MaxIdleConns *int    `yaml:"max_idle_conns"`
		MaxLifetime  *string `yaml:"max_lifetime"`
	} `yaml:"database"`
	Agent struct {
		PollInterval   *string `yaml:"poll_interval"`
		PollStrategy   *string `yaml:"poll_strategy"`
		MaxRetries     *int    `yaml:"max_retries"`
		RetryDelay     *string `yaml:"retry_delay"`
		CommandTimeout *string `yaml:"command_timeout"`
		InterfacesFile *string `yaml:"interfaces_file"`
		BackupDir      *string `yaml:"backup_dir"`
		MaxBackups     *int    `yaml:"max_backups"`
		DryRun         *bool   `yaml:"dry_run"`
		ReloadEnabled  *bool   `yaml:"reload_enabled"`
		NodeName       *string `yaml:"node_name"`
	} `yaml:"agent"`
	Health struct {
		Port *string `yaml:"port"`
	} `yaml:"health"`
}

// Load loads configuration from the YAML file over environment defaults
func (l *FileConfigLoader) Load() (*Config, error) {
	config := buildFromEnv()

	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, errors.NewSystemError(fmt.Sprintf("failed to read config file: %s", l.path), err)
	}

	var overlay fileConfig
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, errors.NewValidationError(fmt.Sprintf("failed to parse config file: %s", l.path), err)
	}

	if err := applyOverlay(config, &overlay); err != nil {
		return nil, err
	}

	if err := validate(config); err != nil {
		return nil, err
	}

	return config, nil
}

// applyOverlay copies the fields present in the YAML file into the config
func applyOverlay(config *Config, overlay *fileConfig) error {
	setString(&config.Database.Host, overlay.Database.Host)
	setString(&config.Database.Port, overlay.Database.Port)
	setString(&config.Database.User, overlay.Database.User)
	setString(&config.Database.Password, overlay.Database.Password)
	setString(&config.Database.Database, overlay.Database.Name)
	setInt(&config.Database.MaxOpenConns, overlay.Database.MaxOpenConns)
	setInt(&config.Database.MaxIdleConns, overlay.Database.MaxIdleConns)
	if err := setDuration(&config.Database.MaxLifetime, overlay.Database.MaxLifetime, "database.max_lifetime"); err != nil {
		return err
	}

	if err := setDuration(&config.Agent.PollInterval, overlay.Agent.PollInterval, "agent.poll_interval"); err != nil {
		return err
	}
	setString(&config.Agent.PollStrategy, overlay.Agent.PollStrategy)
	setInt(&config.Agent.MaxRetries, overlay.Agent.MaxRetries)
	if err := setDuration(&config.Agent.RetryDelay, overlay.Agent.RetryDelay, "agent.retry_delay"); err != nil {
		return err
	}
	if err := setDuration(&config.Agent.CommandTimeout, overlay.Agent.CommandTimeout, "agent.command_timeout"); err != nil {
		return err
	}
	setString(&config.Agent.InterfacesPath, overlay.Agent.InterfacesFile)
	setString(&config.Agent.BackupDirectory, overlay.Agent.BackupDir)
	setInt(&config.Agent.MaxBackups, overlay.Agent.MaxBackups)
	setBool(&config.Agent.DryRun, overlay.Agent.DryRun)
	setBool(&config.Agent.ReloadEnabled, overlay.Agent.ReloadEnabled)
	setString(&config.Agent.NodeName, overlay.Agent.NodeName)

	setString(&config.Health.Port, overlay.Health.Port)

	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

func setDuration(dst *time.Duration, src *string, field string) error {
	if src == nil {
		return nil
	}
	duration, err := time.ParseDuration(*src)
	if err != nil {
		return errors.NewValidationError(fmt.Sprintf("invalid duration for %s: %s", field, *src), err)
	}
	*dst = duration
	return nil
}

// validate validates the configuration
func validate(config *Config) error {
	// Validate database configuration
	if config.Database.Host == "" {
		return errors.NewValidationError("database host not configured", nil)
	}
	if config.Database.Port == "" {
		return errors.NewValidationError("database port not configured", nil)
	}
	if config.Database.User == "" {
		return errors.NewValidationError("database user not configured", nil)
	}
	if config.Database.Database == "" {
		return errors.NewValidationError("database name not configured", nil)
	}

	// Validate agent configuration
	if config.Agent.PollInterval <= 0 {
		return errors.NewValidationError("invalid polling interval", nil)
	}
	if config.Agent.MaxRetries < 0 {
		return errors.NewValidationError("invalid max retry count", nil)
	}
	switch config.Agent.PollStrategy {
	case PollStrategyFixed, PollStrategyBackoff, PollStrategyAdaptive:
	default:
		return errors.NewValidationError(fmt.Sprintf("unknown polling strategy: %s", config.Agent.PollStrategy), nil)
	}
	if config.Agent.InterfacesPath == "" {
		return errors.NewValidationError("interfaces file path not configured", nil)
	}
	if config.Agent.MaxBackups < 1 {
		return errors.NewValidationError("invalid max backup count", nil)
	}

	// Validate health check configuration
	if config.Health.Port == "" {
		return errors.NewValidationError("health check port not configured", nil)
	}

	return nil
}

// Environment variable helper functions

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
