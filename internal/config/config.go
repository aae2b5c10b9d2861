package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// AppConfig holds runtime startup configuration loaded from YAML and the environment.
type AppConfig struct {
	Port           int                   `yaml:"port"`
	Env            string                `yaml:"env"` // "development" | "production"
	DSN            string                `yaml:"-"`
	RedisURL       string                `yaml:"-"`
	Database       DatabaseRuntimeConfig `yaml:"database"`
	Redis          RedisRuntimeConfig    `yaml:"redis"`
	AllowedOrigins []string              `yaml:"allowed_origins"`
	Log            LogConfig             `yaml:"log"`
	Mail           MailConfig            `yaml:"mail"`
	Campaign       CampaignConfig        `yaml:"campaign"`
}

type DatabaseRuntimeConfig struct {
	DSN      string            `yaml:"dsn"`
	Host     string            `yaml:"host"`
	Port     int               `yaml:"port"`
	User     string            `yaml:"user"`
	Password string            `yaml:"password"`
	Name     string            `yaml:"name"`
	Charset  string            `yaml:"charset"`
	Loc      string            `yaml:"loc"`
	Params   map[string]string `yaml:"params"`
}

type RedisRuntimeConfig struct {
	Enable   bool   `yaml:"enable"`
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TLS      bool   `yaml:"tls"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// MailConfig selects and configures the email delivery provider.
type MailConfig struct {
	Provider string         `yaml:"provider"`
	Autosend AutosendConfig `yaml:"autosend"`
	Resend   ResendConfig   `yaml:"resend"`
	SMTP     SMTPConfig     `yaml:"smtp"`
}

type AutosendConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

type ResendConfig struct {
	APIKey     string `yaml:"api_key"`
	AudienceID string `yaml:"audience_id"`
	// CategoryAudiences maps a subscriber category to the audience its
	// subscribers join.
	CategoryAudiences map[string]string `yaml:"category_audiences"`
}

type SMTPConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	User string `yaml:"user"`
	Pass string `yaml:"pass"`
}

// CampaignConfig holds bulk-send policy.
type CampaignConfig struct {
	// StrictCategory rejects send requests whose category is outside the
	// subscriber category enumeration. Off by default: free-form categories
	// are sent without an unsubscribe group.
	StrictCategory bool `yaml:"strict_category"`
}

type rawAppConfig struct {
	Port           int               `yaml:"port"`
	Env            string            `yaml:"env"`
	DSN            string            `yaml:"dsn"`
	RedisURL       string            `yaml:"redis_url"`
	Database       rawDatabaseConfig `yaml:"database"`
	Redis          rawRedisConfig    `yaml:"redis"`
	AllowedOrigins []string          `yaml:"allowed_origins"`
	Log            LogConfig         `yaml:"log"`
	Mail           MailConfig        `yaml:"mail"`
	Campaign       rawCampaignConfig `yaml:"campaign"`
}

type rawDatabaseConfig struct {
	DSN      string            `yaml:"dsn"`
	Host     string            `yaml:"host"`
	Port     int               `yaml:"port"`
	User     string            `yaml:"user"`
	Password string            `yaml:"password"`
	Name     string            `yaml:"name"`
	Charset  string            `yaml:"charset"`
	Loc      string            `yaml:"loc"`
	Params   map[string]string `yaml:"params"`
}

type rawRedisConfig struct {
	Enable   *bool  `yaml:"enable"`
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       *int   `yaml:"db"`
	TLS      *bool  `yaml:"tls"`
}

type rawCampaignConfig struct {
	StrictCategory *bool `yaml:"strict_category"`
}

// Load reads the YAML file at configPath, then applies .env and process
// environment overrides. A missing file is only tolerated at the default path.
func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		path = DefaultConfigPath
	}

	cfg := defaultAppConfig()
	raw := rawAppConfig{}

	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		decoder := yaml.NewDecoder(bytes.NewReader(content))
		decoder.KnownFields(true)
		if err := decoder.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse config file %q: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && path == DefaultConfigPath:
	default:
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	applyRawAppConfig(&cfg, raw)

	_ = godotenv.Load()
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d in %q, expected 1-65535", cfg.Port, path)
	}
	if cfg.Database.Port < 1 || cfg.Database.Port > 65535 {
		return nil, fmt.Errorf("invalid database.port %d in %q, expected 1-65535", cfg.Database.Port, path)
	}
	if cfg.Redis.Port < 1 || cfg.Redis.Port > 65535 {
		return nil, fmt.Errorf("invalid redis.port %d in %q, expected 1-65535", cfg.Redis.Port, path)
	}
	if cfg.Redis.DB < 0 {
		return nil, fmt.Errorf("invalid redis.db %d in %q, expected >= 0", cfg.Redis.DB, path)
	}
	switch cfg.Mail.Provider {
	case ProviderAutosend, ProviderResend, ProviderSMTP:
	default:
		return nil, fmt.Errorf("invalid mail.provider %q in %q, expected autosend, resend or smtp", cfg.Mail.Provider, path)
	}

	return &cfg, nil
}

// IsDev reports whether the service runs in development mode.
func (c *AppConfig) IsDev() bool { return c.Env == "development" || c.Env == "dev" }

// Addr returns the HTTP listen address.
func (c *AppConfig) Addr() string { return fmt.Sprintf(":%d", c.Port) }

func defaultAppConfig() AppConfig {
	cfg := AppConfig{
		Port: defaultPort,
		Env:  defaultEnv,
		Database: DatabaseRuntimeConfig{
			Host:     defaultDBHost,
			Port:     defaultDBPort,
			User:     defaultDBUser,
			Password: defaultDBPassword,
			Name:     defaultDBName,
			Charset:  defaultDBCharset,
			Loc:      defaultDBLoc,
		},
		Redis: RedisRuntimeConfig{
			Host: defaultRedisHost,
			Port: defaultRedisPort,
			DB:   defaultRedisDB,
		},
		Log: LogConfig{Level: defaultLogLevel},
		Mail: MailConfig{
			Provider: defaultMailProvider,
			Autosend: AutosendConfig{BaseURL: defaultAutosendBaseURL},
			SMTP:     SMTPConfig{Port: defaultSMTPPort},
		},
	}
	cfg.DSN = cfg.Database.DSNValue()
	cfg.RedisURL = cfg.Redis.URLValue()
	return cfg
}

func applyRawAppConfig(cfg *AppConfig, raw rawAppConfig) {
	if raw.Port != 0 {
		cfg.Port = raw.Port
	}
	if v := strings.TrimSpace(raw.Env); v != "" {
		cfg.Env = v
	}
	cfg.Database = applyRawDatabaseConfig(cfg.Database, raw)
	cfg.Redis = applyRawRedisConfig(cfg.Redis, raw)
	if raw.AllowedOrigins != nil {
		cfg.AllowedOrigins = normalizeOrigins(raw.AllowedOrigins)
	}
	if v := strings.TrimSpace(raw.Log.Level); v != "" {
		cfg.Log.Level = v
	}
	cfg.Mail = applyRawMailConfig(cfg.Mail, raw.Mail)
	if raw.Campaign.StrictCategory != nil {
		cfg.Campaign.StrictCategory = *raw.Campaign.StrictCategory
	}

	cfg.Env = normalizeEnv(cfg.Env)
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	cfg.DSN = cfg.Database.DSNValue()
	cfg.RedisURL = cfg.Redis.URLValue()
}

func applyRawDatabaseConfig(current DatabaseRuntimeConfig, raw rawAppConfig) DatabaseRuntimeConfig {
	cfg := current
	if v := strings.TrimSpace(raw.Database.DSN); v != "" {
		cfg.DSN = v
	}
	if v := strings.TrimSpace(raw.DSN); v != "" {
		cfg.DSN = v
	}
	if v := strings.TrimSpace(raw.Database.Host); v != "" {
		cfg.Host = v
	}
	if raw.Database.Port != 0 {
		cfg.Port = raw.Database.Port
	}
	if v := strings.TrimSpace(raw.Database.User); v != "" {
		cfg.User = v
	}
	if v := strings.TrimSpace(raw.Database.Password); v != "" {
		cfg.Password = v
	}
	if v := strings.TrimSpace(raw.Database.Name); v != "" {
		cfg.Name = v
	}
	if v := strings.TrimSpace(raw.Database.Charset); v != "" {
		cfg.Charset = v
	}
	if v := strings.TrimSpace(raw.Database.Loc); v != "" {
		cfg.Loc = v
	}
	if raw.Database.Params != nil {
		cfg.Params = copyStringMap(raw.Database.Params)
	}
	return normalizeDatabaseConfig(cfg)
}

func applyRawRedisConfig(current RedisRuntimeConfig, raw rawAppConfig) RedisRuntimeConfig {
	cfg := current
	if raw.Redis.Enable != nil {
		cfg.Enable = *raw.Redis.Enable
	}
	if v := strings.TrimSpace(raw.Redis.URL); v != "" {
		cfg.URL = v
	}
	if v := strings.TrimSpace(raw.RedisURL); v != "" {
		cfg.URL = v
	}
	if v := strings.TrimSpace(raw.Redis.Host); v != "" {
		cfg.Host = v
	}
	if raw.Redis.Port != 0 {
		cfg.Port = raw.Redis.Port
	}
	if v := strings.TrimSpace(raw.Redis.Password); v != "" {
		cfg.Password = v
	}
	if raw.Redis.DB != nil {
		cfg.DB = *raw.Redis.DB
	}
	if raw.Redis.TLS != nil {
		cfg.TLS = *raw.Redis.TLS
	}
	return normalizeRedisConfig(cfg)
}

func applyRawMailConfig(current MailConfig, raw MailConfig) MailConfig {
	cfg := current
	if v := strings.TrimSpace(raw.Provider); v != "" {
		cfg.Provider = v
	}
	if v := strings.TrimSpace(raw.Autosend.APIKey); v != "" {
		cfg.Autosend.APIKey = v
	}
	if v := strings.TrimSpace(raw.Autosend.BaseURL); v != "" {
		cfg.Autosend.BaseURL = v
	}
	if v := strings.TrimSpace(raw.Resend.APIKey); v != "" {
		cfg.Resend.APIKey = v
	}
	if v := strings.TrimSpace(raw.Resend.AudienceID); v != "" {
		cfg.Resend.AudienceID = v
	}
	if len(raw.Resend.CategoryAudiences) > 0 {
		cfg.Resend.CategoryAudiences = copyStringMap(raw.Resend.CategoryAudiences)
	}
	if v := strings.TrimSpace(raw.SMTP.Host); v != "" {
		cfg.SMTP.Host = v
	}
	if raw.SMTP.Port != 0 {
		cfg.SMTP.Port = raw.SMTP.Port
	}
	if v := strings.TrimSpace(raw.SMTP.User); v != "" {
		cfg.SMTP.User = v
	}
	if raw.SMTP.Pass != "" {
		cfg.SMTP.Pass = raw.SMTP.Pass
	}
	return normalizeMailConfig(cfg)
}

// applyEnv overrides file values with process environment variables.
// The provider API key is read as-is; an empty key is not an error here.
func applyEnv(cfg *AppConfig) error {
	if v := strings.TrimSpace(os.Getenv(EnvAutosendAPIKey)); v != "" {
		cfg.Mail.Autosend.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAutosendBaseURL)); v != "" {
		cfg.Mail.Autosend.BaseURL = strings.TrimRight(v, "/")
	}
	if v := strings.TrimSpace(os.Getenv(EnvResendAPIKey)); v != "" {
		cfg.Mail.Resend.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvResendAudienceID)); v != "" {
		cfg.Mail.Resend.AudienceID = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvDatabaseDSN)); v != "" {
		cfg.Database.DSN = v
		cfg.DSN = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvRedisURL)); v != "" {
		cfg.Redis.URL = normalizeRedisRawURL(v)
		cfg.Redis.Enable = true
		cfg.RedisURL = cfg.Redis.URL
	}
	if v := strings.TrimSpace(os.Getenv(EnvPort)); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvPort, v, err)
		}
		cfg.Port = port
	}
	if v := strings.TrimSpace(os.Getenv(EnvEnv)); v != "" {
		cfg.Env = normalizeEnv(v)
	}
	return nil
}
