package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Store:  StoreConfig{DataPath: "/tmp/ichigo"},
		Media: MediaConfig{
			Backend:        MediaBackendLocal,
			LocalPath:      "/tmp/ichigo/media",
			MaxUploadBytes: 5 * 1024 * 1024,
		},
	}
}

func TestValidate_OK(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidate_Environment(t *testing.T) {
	cfg := validConfig()
	cfg.App.Environment = "sandbox"
	assert.Error(t, cfg.Validate())
}

func TestValidate_LogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Logger.Level = "loud"
	assert.Error(t, cfg.Validate())
}

func TestValidate_MongoSkipsDataPath(t *testing.T) {
	cfg := validConfig()
	cfg.Store.DataPath = ""
	cfg.Store.MongoURI = "mongodb://localhost:27017"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_S3Backend(t *testing.T) {
	cfg := validConfig()
	cfg.Media.Backend = MediaBackendS3
	assert.Error(t, cfg.Validate(), "bucket and region are required")

	cfg.Media.S3Bucket = "ichigo-media"
	cfg.Media.S3Region = "ap-northeast-1"
	assert.NoError(t, cfg.Validate())
}

func TestGetConfigValue_Precedence(t *testing.T) {
	t.Setenv("ICHIGO_TEST_KEY", "from-env")

	assert.Equal(t, "from-flag", getConfigValue("from-flag", "ICHIGO_TEST_KEY", "fallback"))
	assert.Equal(t, "from-env", getConfigValue("", "ICHIGO_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", getConfigValue("", "ICHIGO_TEST_MISSING", "fallback"))
}

func TestExpandPath(t *testing.T) {
	got, err := expandPath("", "/default/path")
	require.NoError(t, err)
	assert.Equal(t, "/default/path", got)

	got, err = expandPath("relative/dir", "")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
}

func TestSplitAndTrim(t *testing.T) {
	assert.Equal(t, []string{"http://localhost:3000", "https://ichigo.example"},
		splitAndTrim(" http://localhost:3000 , https://ichigo.example ,"))
	assert.Empty(t, splitAndTrim(""))
}
