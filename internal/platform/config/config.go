// Package config loads server settings from an optional .env file, an
// optional config.yaml and the environment, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store backends.
const (
	BackendFirestore = "firestore"
	BackendBadger    = "badger"
)

// Config holds all server configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Store    StoreConfig    `mapstructure:"store"`
	Firebase FirebaseConfig `mapstructure:"firebase"`
	Notify   NotifyConfig   `mapstructure:"notify"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`

	// CORSOrigins is a comma-separated list of browser origins allowed to
	// call the API. Empty allows any origin.
	CORSOrigins string `mapstructure:"cors_origins"`
}

type StoreConfig struct {
	Backend string `mapstructure:"backend"`
	// BadgerPath is the data directory; empty runs Badger in memory.
	BadgerPath string `mapstructure:"badger_path"`
}

type FirebaseConfig struct {
	ProjectID   string `mapstructure:"project_id"`
	Credentials string `mapstructure:"credentials"`
}

type NotifyConfig struct {
	OnRequest bool `mapstructure:"on_request"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration. Environment variables override file values.
// Prefix: DONATE_RED_
func Load() (*Config, error) {
	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.cors_origins", "")
	v.SetDefault("store.backend", BackendFirestore)
	v.SetDefault("store.badger_path", "")
	v.SetDefault("firebase.project_id", "")
	v.SetDefault("firebase.credentials", "")
	v.SetDefault("notify.on_request", false)
	v.SetDefault("log.level", "info")

	v.SetEnvPrefix("DONATE_RED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Plain names used by Cloud Run and the Firebase tooling.
	_ = v.BindEnv("server.port", "DONATE_RED_SERVER_PORT", "PORT")
	_ = v.BindEnv("server.cors_origins", "DONATE_RED_SERVER_CORS_ORIGINS", "CORS_ORIGINS")
	_ = v.BindEnv("store.backend", "DONATE_RED_STORE_BACKEND", "STORE_BACKEND")
	_ = v.BindEnv("store.badger_path", "DONATE_RED_STORE_BADGER_PATH", "BADGER_PATH")
	_ = v.BindEnv("firebase.project_id", "DONATE_RED_FIREBASE_PROJECT_ID", "FIREBASE_PROJECT_ID", "GOOGLE_CLOUD_PROJECT")
	_ = v.BindEnv("firebase.credentials", "DONATE_RED_FIREBASE_CREDENTIALS", "GOOGLE_APPLICATION_CREDENTIALS")
	_ = v.BindEnv("notify.on_request", "DONATE_RED_NOTIFY_ON_REQUEST", "NOTIFY_ON_REQUEST")
	_ = v.BindEnv("log.level", "DONATE_RED_LOG_LEVEL", "LOG_LEVEL")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Store.Backend = strings.ToLower(strings.TrimSpace(cfg.Store.Backend))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendFirestore:
		if c.Firebase.ProjectID == "" {
			return errors.New("config: firestore backend requires FIREBASE_PROJECT_ID")
		}
	case BackendBadger:
	default:
		return fmt.Errorf("config: unknown store backend %q", c.Store.Backend)
	}
	if c.Server.Port == "" {
		return errors.New("config: port must not be empty")
	}
	return nil
}

// Addr returns the listen address for http.Server.
func (s ServerConfig) Addr() string {
	return ":" + s.Port
}

// Origins splits CORSOrigins, dropping blanks.
func (s ServerConfig) Origins() []string {
	var out []string
	for o := range strings.SplitSeq(s.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
