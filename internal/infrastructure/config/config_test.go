package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvironmentConfigLoader_Load(t *testing.T) {
	// 환경 변수 백업
	originalEnvs := map[string]string{
		"DB_HOST":       os.Getenv("DB_HOST"),
		"DB_PORT":       os.Getenv("DB_PORT"),
		"DB_USER":       os.Getenv("DB_USER"),
		"DB_PASSWORD":   os.Getenv("DB_PASSWORD"),
		"DB_NAME":       os.Getenv("DB_NAME"),
		"POLL_INTERVAL": os.Getenv("POLL_INTERVAL"),
		"POLL_STRATEGY": os.Getenv("POLL_STRATEGY"),
		"HEALTH_PORT":   os.Getenv("HEALTH_PORT"),
		"BACKUP_DIR":    os.Getenv("BACKUP_DIR"),
		"DRY_RUN":       os.Getenv("DRY_RUN"),
	}

	// 테스트 후 환경 변수 복원
	defer func() {
		for key, value := range originalEnvs {
			if value == "" {
				os.Unsetenv(key)
			} else {
				os.Setenv(key, value)
			}
		}
	}()

	tests := []struct {
		name      string
		envVars   map[string]string
		wantError bool
		validate  func(*testing.T, *Config)
	}{
		{
			name: "기본 설정값 사용",
			envVars: map[string]string{
				"DB_HOST": "",
				"DB_PORT": "",
			},
			wantError: false,
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "localhost", cfg.Database.Host)
				assert.Equal(t, "3306", cfg.Database.Port)
				assert.Equal(t, "root", cfg.Database.User)
				assert.Equal(t, "", cfg.Database.Password)
				assert.Equal(t, "ifupdown", cfg.Database.Database)
				assert.Equal(t, 30*time.Second, cfg.Agent.PollInterval)
				assert.Equal(t, PollStrategyBackoff, cfg.Agent.PollStrategy)
				assert.Equal(t, "/etc/network/interfaces", cfg.Agent.InterfacesPath)
				assert.Equal(t, 5, cfg.Agent.MaxBackups)
				assert.False(t, cfg.Agent.DryRun)
				assert.Equal(t, "8080", cfg.Health.Port)
			},
		},
		{
			name: "환경 변수로 설정 오버라이드",
			envVars: map[string]string{
				"DB_HOST":       "custom-host",
				"DB_PORT":       "5432",
				"DB_USER":       "custom-user",
				"DB_PASSWORD":   "custom-pass",
				"DB_NAME":       "custom-db",
				"POLL_INTERVAL": "60s",
				"POLL_STRATEGY": "adaptive",
				"HEALTH_PORT":   "9090",
				"BACKUP_DIR":    "/custom/backup",
				"DRY_RUN":       "true",
			},
			wantError: false,
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "custom-host", cfg.Database.Host)
				assert.Equal(t, "5432", cfg.Database.Port)
				assert.Equal(t, "custom-user", cfg.Database.User)
				assert.Equal(t, "custom-pass", cfg.Database.Password)
				assert.Equal(t, "custom-db", cfg.Database.Database)
				assert.Equal(t, 60*time.Second, cfg.Agent.PollInterval)
				assert.Equal(t, PollStrategyAdaptive, cfg.Agent.PollStrategy)
				assert.Equal(t, "9090", cfg.Health.Port)
				assert.Equal(t, "/custom/backup", cfg.Agent.BackupDirectory)
				assert.True(t, cfg.Agent.DryRun)
			},
		},
		{
			name: "유효하지 않은 duration 형식",
			envVars: map[string]string{
				"POLL_INTERVAL": "invalid-duration",
				"POLL_STRATEGY": "",
			},
			wantError: false,
			validate: func(t *testing.T, cfg *Config) {
				// 잘못된 형식일 때는 기본값 사용
				assert.Equal(t, 30*time.Second, cfg.Agent.PollInterval)
			},
		},
		{
			name: "알 수 없는 폴링 전략으로 유효성 검증 실패",
			envVars: map[string]string{
				"POLL_INTERVAL": "",
				"POLL_STRATEGY": "random",
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// 환경 변수 설정
			for key, value := range tt.envVars {
				if value == "" {
					os.Unsetenv(key)
				} else {
					os.Setenv(key, value)
				}
			}

			loader := NewEnvironmentConfigLoader()
			config, err := loader.Load()

			if tt.wantError {
				assert.Error(t, err)
				assert.Nil(t, config)
			} else {
				assert.NoError(t, err)
				require.NotNil(t, config)
				tt.validate(t, config)
			}
		})
	}
}

func TestFileConfigLoader_Load(t *testing.T) {
	writeConfig := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		return path
	}

	t.Run("YAML 파일 값이 기본값을 오버라이드", func(t *testing.T) {
		path := writeConfig(t, `
database:
  host: db.example.com
  port: "3307"
  name: netconfig
agent:
  poll_interval: 45s
  poll_strategy: fixed
  interfaces_file: /tmp/interfaces
  dry_run: true
health:
  port: "9000"
`)

		loader := NewFileConfigLoader(path)
		config, err := loader.Load()

		require.NoError(t, err)
		assert.Equal(t, "db.example.com", config.Database.Host)
		assert.Equal(t, "3307", config.Database.Port)
		assert.Equal(t, "netconfig", config.Database.Database)
		assert.Equal(t, 45*time.Second, config.Agent.PollInterval)
		assert.Equal(t, PollStrategyFixed, config.Agent.PollStrategy)
		assert.Equal(t, "/tmp/interfaces", config.Agent.InterfacesPath)
		assert.True(t, config.Agent.DryRun)
		assert.Equal(t, "9000", config.Health.Port)
		// 파일에 없는 값은 기본값 유지
		assert.Equal(t, "root", config.Database.User)
		assert.Equal(t, 5, config.Agent.MaxBackups)
	})

	t.Run("파일에 없는 섹션은 기본값 유지", func(t *testing.T) {
		path := writeConfig(t, `
agent:
  max_backups: 10
`)

		loader := NewFileConfigLoader(path)
		config, err := loader.Load()

		require.NoError(t, err)
		assert.Equal(t, 10, config.Agent.MaxBackups)
		assert.Equal(t, "localhost", config.Database.Host)
		assert.Equal(t, 30*time.Second, config.Agent.PollInterval)
	})

	t.Run("잘못된 duration 값은 에러", func(t *testing.T) {
		path := writeConfig(t, `
agent:
  poll_interval: not-a-duration
`)

		loader := NewFileConfigLoader(path)
		config, err := loader.Load()

		assert.Error(t, err)
		assert.Nil(t, config)
	})

	t.Run("잘못된 YAML 형식은 에러", func(t *testing.T) {
		path := writeConfig(t, "agent: [broken")

		loader := NewFileConfigLoader(path)
		config, err := loader.Load()

		assert.Error(t, err)
		assert.Nil(t, config)
	})

	t.Run("존재하지 않는 파일은 에러", func(t *testing.T) {
		loader := NewFileConfigLoader("/nonexistent/config.yaml")
		config, err := loader.Load()

		assert.Error(t, err)
		assert.Nil(t, config)
	})
}

func TestValidate(t *testing.T) {
	validConfig := func() *Config {
		return &Config{
			Database: DatabaseConfig{
				Host:     "localhost",
				Port:     "3306",
				User:     "user",
				Password: "pass",
				Database: "db",
			},
			Agent: AgentConfig{
				PollInterval:   30 * time.Second,
				PollStrategy:   PollStrategyBackoff,
				MaxRetries:     3,
				InterfacesPath: "/etc/network/interfaces",
				MaxBackups:     5,
			},
			Health: HealthConfig{
				Port: "8080",
			},
		}
	}

	tests := []struct {
		name      string
		mutate    func(*Config)
		wantError bool
	}{
		{
			name:      "유효한 설정",
			mutate:    func(c *Config) {},
			wantError: false,
		},
		{
			name:      "빈 DB 호스트",
			mutate:    func(c *Config) { c.Database.Host = "" },
			wantError: true,
		},
		{
			name:      "빈 DB 포트",
			mutate:    func(c *Config) { c.Database.Port = "" },
			wantError: true,
		},
		{
			name:      "잘못된 폴링 간격",
			mutate:    func(c *Config) { c.Agent.PollInterval = -1 * time.Second },
			wantError: true,
		},
		{
			name:      "알 수 없는 폴링 전략",
			mutate:    func(c *Config) { c.Agent.PollStrategy = "random" },
			wantError: true,
		},
		{
			name:      "빈 인터페이스 파일 경로",
			mutate:    func(c *Config) { c.Agent.InterfacesPath = "" },
			wantError: true,
		},
		{
			name:      "잘못된 백업 보관 개수",
			mutate:    func(c *Config) { c.Agent.MaxBackups = 0 },
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validConfig()
			tt.mutate(config)

			err := validate(config)

			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGetEnvHelpers(t *testing.T) {
	t.Run("getEnvOrDefault", func(t *testing.T) {
		// 존재하지 않는 환경 변수
		result := getEnvOrDefault("NON_EXISTENT_VAR", "default")
		assert.Equal(t, "default", result)

		// 존재하는 환경 변수
		os.Setenv("TEST_VAR", "test_value")
		defer os.Unsetenv("TEST_VAR")

		result = getEnvOrDefault("TEST_VAR", "default")
		assert.Equal(t, "test_value", result)
	})

	t.Run("getEnvIntOrDefault", func(t *testing.T) {
		// 존재하지 않는 환경 변수
		result := getEnvIntOrDefault("NON_EXISTENT_INT", 42)
		assert.Equal(t, 42, result)

		// 유효한 정수
		os.Setenv("TEST_INT", "123")
		defer os.Unsetenv("TEST_INT")

		result = getEnvIntOrDefault("TEST_INT", 42)
		assert.Equal(t, 123, result)

		// 잘못된 정수 형식
		os.Setenv("TEST_BAD_INT", "not_a_number")
		defer os.Unsetenv("TEST_BAD_INT")

		result = getEnvIntOrDefault("TEST_BAD_INT", 42)
		assert.Equal(t, 42, result)
	})

	t.Run("getEnvDurationOrDefault", func(t *testing.T) {
		// 존재하지 않는 환경 변수
		result := getEnvDurationOrDefault("NON_EXISTENT_DURATION", 30*time.Second)
		assert.Equal(t, 30*time.Second, result)

		// 유효한 duration
		os.Setenv("TEST_DURATION", "1m30s")
		defer os.Unsetenv("TEST_DURATION")

		result = getEnvDurationOrDefault("TEST_DURATION", 30*time.Second)
		assert.Equal(t, 90*time.Second, result)

		// 잘못된 duration 형식
		os.Setenv("TEST_BAD_DURATION", "invalid")
		defer os.Unsetenv("TEST_BAD_DURATION")

		result = getEnvDurationOrDefault("TEST_BAD_DURATION", 30*time.Second)
		assert.Equal(t, 30*time.Second, result)
	})

	t.Run("getEnvBoolOrDefault", func(t *testing.T) {
		// 존재하지 않는 환경 변수
		result := getEnvBoolOrDefault("NON_EXISTENT_BOOL", false)
		assert.False(t, result)

		// 유효한 불리언
		os.Setenv("TEST_BOOL", "true")
		defer os.Unsetenv("TEST_BOOL")

		result = getEnvBoolOrDefault("TEST_BOOL", false)
		assert.True(t, result)

		// 잘못된 불리언 형식
		os.Setenv("TEST_BAD_BOOL", "yes-please")
		defer os.Unsetenv("TEST_BAD_BOOL")

		result = getEnvBoolOrDefault("TEST_BAD_BOOL", true)
		assert.True(t, result)
	})
}
