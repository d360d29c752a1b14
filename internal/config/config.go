// Package config provides configuration management for buttonkit using
// Viper for loading from files, environment variables and command-line
// flags.
//
// Values are read from .buttonkit.yml (or the file named by --config or
// BUTTONKIT_CONFIG_FILE), overridden by BUTTONKIT_<SECTION>_<KEY>
// environment variables and finally by bound flags.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	kiterrors "github.com/conneroisu/buttonkit/internal/errors"
	"github.com/conneroisu/buttonkit/internal/logging"
	"github.com/conneroisu/buttonkit/pkg/theme"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "BUTTONKIT"

type Config struct {
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Stories StoriesConfig `mapstructure:"stories" yaml:"stories"`
	Theme   theme.Theme   `mapstructure:"theme" yaml:"theme"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

type ServerConfig struct {
	Port           int      `mapstructure:"port" yaml:"port" validate:"min=0,max=65535"`
	Host           string   `mapstructure:"host" yaml:"host" validate:"required"`
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
}

type StoriesConfig struct {
	Path     string        `mapstructure:"path" yaml:"path" validate:"required"`
	Watch    bool          `mapstructure:"watch" yaml:"watch"`
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce" validate:"min=0"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
	Format string `mapstructure:"format" yaml:"format" validate:"omitempty,oneof=text json"`
}

// Defaults applied when a value is not set anywhere.
const (
	DefaultHost        = "localhost"
	DefaultPort        = 6006
	DefaultStoriesPath = "stories.yml"
	DefaultDebounce    = 300 * time.Millisecond
)

// SetDefaults registers the default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.host", DefaultHost)
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.allowed_origins", []string{})
	v.SetDefault("stories.path", DefaultStoriesPath)
	v.SetDefault("stories.watch", true)
	v.SetDefault("stories.debounce", DefaultDebounce)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	setThemeDefaults(v, theme.Default())
}

// setThemeDefaults registers every token so BUTTONKIT_THEME_* overrides
// are seen by Unmarshal.
func setThemeDefaults(v *viper.Viper, t theme.Theme) {
	v.SetDefault("theme.color.primary", t.Color.Primary)
	v.SetDefault("theme.color.secondary", t.Color.Secondary)
	v.SetDefault("theme.color.tertiary", t.Color.Tertiary)
	v.SetDefault("theme.color.lightest", t.Color.Lightest)
	v.SetDefault("theme.color.medium", t.Color.Medium)
	v.SetDefault("theme.color.mediumdark", t.Color.MediumDark)
	v.SetDefault("theme.color.darker", t.Color.Darker)
	v.SetDefault("theme.color.darkest", t.Color.Darkest)
	v.SetDefault("theme.typography.font_family", t.Type.FontFamily)
	v.SetDefault("theme.typography.weight_bold", t.Type.WeightBold)
	v.SetDefault("theme.typography.weight_extrabold", t.Type.WeightExtraBold)
	v.SetDefault("theme.typography.size_s1", t.Type.SizeS1)
	v.SetDefault("theme.typography.size_s2", t.Type.SizeS2)
	v.SetDefault("theme.easing.rubber", t.Easing.Rubber)
}

var envKeyReplacer = strings.NewReplacer(".", "_", "-", "_")

// BindEnv enables BUTTONKIT_<SECTION>_<KEY> overrides on v.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()
}

// Load reads the configuration from the global viper instance.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads the configuration from v.
func LoadFrom(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, kiterrors.NewConfigError(kiterrors.ErrCodeConfigInvalid, "decoding configuration").
			WithCause(err)
	}

	config.Theme = config.Theme.Merge(theme.Default())

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Addr returns host:port for the preview server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Logger builds the logger described by the log section.
func (c *Config) Logger() (*logging.KitLogger, error) {
	level, err := logging.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, kiterrors.NewConfigError(kiterrors.ErrCodeConfigInvalid, err.Error())
	}
	return logging.NewLogger(&logging.LoggerConfig{
		Level:  level,
		Format: c.Log.Format,
	}), nil
}

func validateConfig(config *Config) error {
	v := validator.New()
	if err := v.Struct(config); err != nil {
		return convertValidationError(err)
	}

	if err := validateHost(config.Server.Host); err != nil {
		return kiterrors.NewConfigError(kiterrors.ErrCodeConfigInvalid,
			fmt.Sprintf("server.host: %v", err))
	}

	if err := validatePath(config.Stories.Path); err != nil {
		return kiterrors.NewConfigError(kiterrors.ErrCodeConfigInvalid,
			fmt.Sprintf("stories.path: %v", err))
	}

	// Fail early on colours the stylesheet could not use.
	if _, err := theme.Stylesheet(config.Theme); err != nil {
		return kiterrors.NewConfigError(kiterrors.ErrCodeConfigInvalid, "theme").WithCause(err)
	}

	return nil
}

// convertValidationError normalizes validator errors into config errors.
func convertValidationError(err error) error {
	if ves, ok := err.(validator.ValidationErrors); ok && len(ves) > 0 {
		fe := ves[0]
		field := yamlishFieldName(fe)
		return kiterrors.NewConfigError(kiterrors.ErrCodeConfigInvalid,
			fmt.Sprintf("%s failed validation for tag '%s'", field, fe.Tag())).
			WithContext("field", field).
			WithCause(err)
	}
	return kiterrors.NewConfigError(kiterrors.ErrCodeConfigInvalid, err.Error()).WithCause(err)
}

func yamlishFieldName(fe validator.FieldError) string {
	parts := strings.Split(fe.StructNamespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, part := range parts {
		parts[i] = strings.ToLower(part)
	}
	return strings.Join(parts, ".")
}

var dangerousChars = []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'", "\\"}

func validateHost(host string) error {
	for _, char := range dangerousChars {
		if strings.Contains(host, char) {
			return fmt.Errorf("host contains dangerous character: %s", char)
		}
	}
	return nil
}

// validatePath validates a file path for security
func validatePath(path string) error {
	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path contains traversal: %s", path)
	}

	for _, char := range dangerousChars[:len(dangerousChars)-1] {
		if strings.Contains(cleanPath, char) {
			return fmt.Errorf("path contains dangerous character: %s", char)
		}
	}

	return nil
}
