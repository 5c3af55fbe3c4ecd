package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

var configLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	configLogger = l
}

// SupportedVersion is the only configuration layout understood by this build.
const SupportedVersion = "1"

const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
	BackendBolt   = "bolt"
	BackendS3     = "s3"
)

// Config represents the complete configuration structure
type Config struct {
	Version  string         `yaml:"version" default:"1"`
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	AutoSave AutoSaveConfig `yaml:"autosave"`
	Client   ClientConfig   `yaml:"client"`
	Render   RenderConfig   `yaml:"render"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" default:"info"`
	Format string `yaml:"format" default:"console"`
}

type ServerConfig struct {
	Host            string        `yaml:"host" default:"0.0.0.0"`
	Port            string        `yaml:"port" default:"3000"`
	AllowedOrigins  []string      `yaml:"allowed_origins" default:"*"`
	Compress        bool          `yaml:"compress" default:"true"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
}

func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

type StorageConfig struct {
	Backend    string   `yaml:"backend" default:"sqlite"`
	SQLitePath string   `yaml:"sqlite_path" default:"./database.db"`
	BoltPath   string   `yaml:"bolt_path" default:"./blogs.bolt"`
	S3         S3Config `yaml:"s3"`
}

type S3Config struct {
	Bucket          string `yaml:"bucket" default:""`
	Prefix          string `yaml:"prefix" default:"blogs/"`
	Endpoint        string `yaml:"endpoint" default:""`
	Region          string `yaml:"region" default:"auto"`
	AccessKeyID     string `yaml:"access_key_id" default:""`
	SecretAccessKey string `yaml:"secret_access_key" default:""`
}

// AutoSaveConfig holds the timings of the editor's background saves.
type AutoSaveConfig struct {
	Debounce     time.Duration `yaml:"debounce" default:"5s"`
	Interval     time.Duration `yaml:"interval" default:"30s"`
	SavedDisplay time.Duration `yaml:"saved_display" default:"3s"`
}

type ClientConfig struct {
	BaseURL string        `yaml:"base_url" default:"http://localhost:3000"`
	Timeout time.Duration `yaml:"timeout" default:"10s"`
}

type RenderConfig struct {
	SyntaxTheme string `yaml:"syntax_theme" default:"gruvbox"`
}

var AppConfig *Config

// Default returns a configuration with every default applied.
func Default() *Config {
	config := &Config{}
	applyDefaults(config)
	return config
}

// LoadConfig loads path into AppConfig.
func LoadConfig(path string) error {
	config, err := Load(path)
	if err != nil {
		return err
	}

	AppConfig = config
	return nil
}

// Load reads the YAML file at path on top of the defaults, then applies
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		configLogger.Info().Str("path", path).Msg("Config file not found, using defaults")
	} else if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyEnv(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func applyEnv(config *Config) {
	overrides := []struct {
		env    string
		target *string
	}{
		{"PORT", &config.Server.Port},
		{"DATABASE_PATH", &config.Storage.SQLitePath},
		{"STORAGE_BACKEND", &config.Storage.Backend},
		{"LOG_LEVEL", &config.Logging.Level},
		{"S3_BUCKET", &config.Storage.S3.Bucket},
		{"S3_ENDPOINT", &config.Storage.S3.Endpoint},
		{"S3_ACCESS_KEY_ID", &config.Storage.S3.AccessKeyID},
		{"S3_SECRET_ACCESS_KEY", &config.Storage.S3.SecretAccessKey},
		{"DRAFTBOARD_URL", &config.Client.BaseURL},
	}

	for _, o := range overrides {
		if v, ok := os.LookupEnv(o.env); ok && v != "" {
			configLogger.Debug().Str("env", o.env).Msg("Config value overridden from environment")
			*o.target = v
		}
	}
}

func (c *Config) Validate() error {
	if c.Version != SupportedVersion {
		return fmt.Errorf("unsupported configuration version %q (expected %q)", c.Version, SupportedVersion)
	}

	switch c.Storage.Backend {
	case BackendSQLite, BackendMemory, BackendBolt:
	case BackendS3:
		if c.Storage.S3.Bucket == "" {
			return fmt.Errorf("storage.s3.bucket is required for the s3 backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}

	durations := map[string]time.Duration{
		"autosave.debounce":      c.AutoSave.Debounce,
		"autosave.interval":      c.AutoSave.Interval,
		"autosave.saved_display": c.AutoSave.SavedDisplay,
	}
	for name, d := range durations {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, d)
		}
	}

	return nil
}

func ApplyDefaults(config interface{}) {
	applyDefaults(config)
}

var durationType = reflect.TypeOf(time.Duration(0))

func applyDefaults(config interface{}) {
	v := reflect.ValueOf(config)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return
	}

	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.IsValid() || !field.CanSet() {
			continue
		}

		// Recursively apply defaults to nested structs
		if field.Kind() == reflect.Struct {
			applyDefaults(field.Addr().Interface())
			continue
		}

		defaultValue := fieldType.Tag.Get("default")
		if defaultValue == "" {
			continue
		}

		if field.Type() == durationType {
			if val, err := time.ParseDuration(defaultValue); err == nil {
				field.SetInt(int64(val))
			}
			continue
		}

		switch field.Kind() {
		case reflect.String:
			field.SetString(defaultValue)
		case reflect.Bool:
			if val, err := strconv.ParseBool(defaultValue); err == nil {
				field.SetBool(val)
			}
		case reflect.Int:
			if val, err := strconv.ParseInt(defaultValue, 10, 64); err == nil {
				field.SetInt(val)
			}
		case reflect.Float64:
			if val, err := strconv.ParseFloat(defaultValue, 64); err == nil {
				field.SetFloat(val)
			}
		case reflect.Slice:
			if field.Len() == 0 && field.Type().Elem().Kind() == reflect.String {
				parts := strings.Split(defaultValue, ",")
				slice := reflect.MakeSlice(field.Type(), len(parts), len(parts))
				for j, part := range parts {
					slice.Index(j).SetString(strings.TrimSpace(part))
				}
				field.Set(slice)
			}
		default:
			configLogger.Warn().
				Str("field_name", fieldType.Name).
				Str("field_type", field.Kind().String()).
				Msg("Unsupported field type for default value")
		}
	}
}
