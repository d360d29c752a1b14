package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kiterrors "github.com/conneroisu/buttonkit/internal/errors"
	"github.com/conneroisu/buttonkit/internal/logging"
	"github.com/conneroisu/buttonkit/pkg/theme"
)

func TestLoad_Defaults(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultHost, cfg.Server.Host)
	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.Equal(t, DefaultStoriesPath, cfg.Stories.Path)
	assert.True(t, cfg.Stories.Watch)
	assert.Equal(t, DefaultDebounce, cfg.Stories.Debounce)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, theme.Default(), cfg.Theme)
	assert.Equal(t, "localhost:6006", cfg.Addr())
}

func TestLoadFrom(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(v *viper.Viper)
		check   func(t *testing.T, cfg *Config)
		wantErr bool
	}{
		{
			name: "custom server and stories",
			setup: func(v *viper.Viper) {
				v.Set("server.port", 3000)
				v.Set("server.host", "0.0.0.0")
				v.Set("server.allowed_origins", []string{"localhost:3000"})
				v.Set("stories.path", "design/stories.yml")
				v.Set("stories.debounce", "50ms")
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "0.0.0.0:3000", cfg.Addr())
				assert.Equal(t, []string{"localhost:3000"}, cfg.Server.AllowedOrigins)
				assert.Equal(t, "design/stories.yml", cfg.Stories.Path)
				assert.Equal(t, 50*time.Millisecond, cfg.Stories.Debounce)
			},
		},
		{
			name: "theme overrides merge with defaults",
			setup: func(v *viper.Viper) {
				v.Set("theme.color.primary", "#000000")
				v.Set("theme.typography.size_s1", 11)
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "#000000", cfg.Theme.Color.Primary)
				assert.Equal(t, theme.Default().Color.Secondary, cfg.Theme.Color.Secondary)
				assert.Equal(t, 11, cfg.Theme.Type.SizeS1)
			},
		},
		{
			name:    "port out of range",
			setup:   func(v *viper.Viper) { v.Set("server.port", 70000) },
			wantErr: true,
		},
		{
			name:    "port is not a number",
			setup:   func(v *viper.Viper) { v.Set("server.port", "invalid_port") },
			wantErr: true,
		},
		{
			name:    "dangerous host",
			setup:   func(v *viper.Viper) { v.Set("server.host", "localhost;rm") },
			wantErr: true,
		},
		{
			name:    "stories path traversal",
			setup:   func(v *viper.Viper) { v.Set("stories.path", "../../etc/stories.yml") },
			wantErr: true,
		},
		{
			name:    "unknown log level",
			setup:   func(v *viper.Viper) { v.Set("log.level", "chatty") },
			wantErr: true,
		},
		{
			name:    "invalid theme colour",
			setup:   func(v *viper.Viper) { v.Set("theme.color.primary", "pink") },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			tt.setup(v)

			cfg, err := LoadFrom(v)
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, cfg)
				assert.Equal(t, kiterrors.ErrCodeConfigInvalid, kiterrors.CodeOf(err))
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoadFrom_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".buttonkit.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 7007
stories:
  path: ui/stories.yml
  watch: false
log:
  level: debug
  format: json
`), 0o600))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := LoadFrom(v)
	require.NoError(t, err)
	assert.Equal(t, 7007, cfg.Server.Port)
	assert.Equal(t, "ui/stories.yml", cfg.Stories.Path)
	assert.False(t, cfg.Stories.Watch)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFrom_Env(t *testing.T) {
	t.Setenv("BUTTONKIT_SERVER_PORT", "9090")
	t.Setenv("BUTTONKIT_SERVER_ALLOWED_ORIGINS", "a.example:1,b.example:2")

	v := viper.New()
	BindEnv(v)

	cfg, err := LoadFrom(v)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"a.example:1", "b.example:2"}, cfg.Server.AllowedOrigins)
}

func TestConfig_Logger(t *testing.T) {
	cfg := &Config{Log: LogConfig{Level: "warn", Format: "json"}}
	logger, err := cfg.Logger()
	require.NoError(t, err)
	var _ logging.Logger = logger

	cfg.Log.Level = "nope"
	_, err = cfg.Logger()
	assert.Error(t, err)
}
