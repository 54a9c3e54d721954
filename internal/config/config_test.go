package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-sheet/internal/config"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
)

type ConfigTestSuite struct {
	suite.Suite
	dir string
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (s *ConfigTestSuite) SetupTest() {
	s.dir = s.T().TempDir()
	// start every test from a clean environment
	for _, key := range []string{"DB_PATH", "REDIS_ADDR", "USER_ID", "HTTP_ADDR", "LOG_LEVEL", "SYNC_TIMEOUT"} {
		s.unset(config.EnvPrefix + "_" + key)
	}
}

// unset removes a variable for the duration of the test
func (s *ConfigTestSuite) unset(key string) {
	s.T().Setenv(key, "")
	s.Require().NoError(os.Unsetenv(key))
}

func (s *ConfigTestSuite) write(name, content string) string {
	path := filepath.Join(s.dir, name)
	s.Require().NoError(os.WriteFile(path, []byte(content), 0o600))
	return path
}

func (s *ConfigTestSuite) TestDefaults() {
	cfg, err := config.Load(nil)
	s.Require().NoError(err)

	s.Equal("rpg-sheet.db", cfg.DBPath)
	s.Equal(":8080", cfg.HTTPAddr)
	s.Equal("info", cfg.LogLevel)
	s.Equal(10*time.Second, cfg.SyncTimeout)
	s.Empty(cfg.UserID)
	s.False(cfg.RemoteEnabled())
	s.Equal(slog.LevelInfo, cfg.SlogLevel())
}

func (s *ConfigTestSuite) TestEnvironmentOverrides() {
	s.T().Setenv("RPGSHEET_REDIS_ADDR", " localhost:6379 ")
	s.T().Setenv("RPGSHEET_USER_ID", "user-7")
	s.T().Setenv("RPGSHEET_SYNC_TIMEOUT", "250ms")
	s.T().Setenv("RPGSHEET_LOG_LEVEL", "DEBUG")

	cfg, err := config.Load(&config.LoadInput{})
	s.Require().NoError(err)

	s.Equal("localhost:6379", cfg.RedisAddr)
	s.True(cfg.RemoteEnabled())
	s.Equal("user-7", cfg.UserID)
	s.Equal(250*time.Millisecond, cfg.SyncTimeout)
	s.Equal(slog.LevelDebug, cfg.SlogLevel())
}

func (s *ConfigTestSuite) TestConfigFile() {
	path := s.write("sheet.yaml", "db_path: /tmp/party.db\nhttp_addr: 127.0.0.1:9000\nsync_timeout: 3s\n")

	cfg, err := config.Load(&config.LoadInput{ConfigFile: path})
	s.Require().NoError(err)

	s.Equal("/tmp/party.db", cfg.DBPath)
	s.Equal("127.0.0.1:9000", cfg.HTTPAddr)
	s.Equal(3*time.Second, cfg.SyncTimeout)
}

func (s *ConfigTestSuite) TestEnvironmentBeatsConfigFile() {
	path := s.write("sheet.yaml", "db_path: /tmp/from-file.db\n")
	s.T().Setenv("RPGSHEET_DB_PATH", "/tmp/from-env.db")

	cfg, err := config.Load(&config.LoadInput{ConfigFile: path})
	s.Require().NoError(err)
	s.Equal("/tmp/from-env.db", cfg.DBPath)
}

func (s *ConfigTestSuite) TestExplicitValuesWin() {
	s.T().Setenv("RPGSHEET_DB_PATH", "/tmp/from-env.db")

	v := config.NewViper()
	v.Set(config.KeyDBPath, "/tmp/from-flag.db")

	cfg, err := config.Load(&config.LoadInput{Viper: v})
	s.Require().NoError(err)
	s.Equal("/tmp/from-flag.db", cfg.DBPath)
}

func (s *ConfigTestSuite) TestMissingConfigFile() {
	_, err := config.Load(&config.LoadInput{ConfigFile: filepath.Join(s.dir, "absent.yaml")})
	s.True(errors.IsInvalidArgument(err))
}

func (s *ConfigTestSuite) TestValidation() {
	testCases := []struct {
		name  string
		key   string
		value string
	}{
		{name: "unknown log level", key: "RPGSHEET_LOG_LEVEL", value: "loud"},
		{name: "zero sync timeout", key: "RPGSHEET_SYNC_TIMEOUT", value: "0s"},
		{name: "blank db path", key: "RPGSHEET_DB_PATH", value: "  "},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.T().Setenv(tc.key, tc.value)
			_, err := config.Load(nil)
			s.True(errors.IsInvalidArgument(err), "got %v", err)
		})
	}
}

func (s *ConfigTestSuite) TestNilConfigIsInvalid() {
	var cfg *config.Config
	s.True(errors.IsInvalidArgument(cfg.Validate()))
}

func (s *ConfigTestSuite) TestLoadDotEnv() {
	path := s.write(".env", "RPGSHEET_USER_ID=from-dotenv\nRPGSHEET_HTTP_ADDR=:9999\n")
	s.T().Setenv("RPGSHEET_HTTP_ADDR", ":7000")

	s.Require().NoError(config.LoadDotEnv(path))

	cfg, err := config.Load(nil)
	s.Require().NoError(err)
	s.Equal("from-dotenv", cfg.UserID)
	s.Equal(":7000", cfg.HTTPAddr, "existing variables are kept")
}

func (s *ConfigTestSuite) TestLoadDotEnvMissingFile() {
	s.NoError(config.LoadDotEnv(filepath.Join(s.dir, "nope.env")))
}
