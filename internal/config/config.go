package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Port    int    `yaml:"port"`
	GinMode string `yaml:"gin_mode"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	Secret    string `yaml:"secret"`
	Issuer    string `yaml:"issuer"`
	AccessTTL string `yaml:"access_ttl"`
}

type LockoutConfig struct {
	MaxAttempts  int    `yaml:"max_attempts"`
	LockDuration string `yaml:"lock_duration"`
}

type ResetConfig struct {
	TokenTTL    string `yaml:"token_ttl"`
	FrontendURL string `yaml:"frontend_url"`
}

type MailConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

type SessionConfig struct {
	TTL string `yaml:"ttl"`
}

type ConfigFile struct {
	App      AppConfig      `yaml:"app"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	Lockout  LockoutConfig  `yaml:"lockout"`
	Reset    ResetConfig    `yaml:"reset"`
	Mail     MailConfig     `yaml:"mail"`
	Session  SessionConfig  `yaml:"session"`
}

type Config struct {
	Port          string
	GinMode       string
	DSN           string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	JWTSecret     string
	JWTIssuer     string
	AccessTTL     time.Duration
	MaxAttempts   int
	LockDuration  time.Duration
	ResetTokenTTL time.Duration
	FrontendURL   string
	SessionTTL    time.Duration
	MailHost      string
	MailPort      int
	MailUsername  string
	MailPassword  string
	MailFrom      string
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func Load() (*Config, error) {
	return LoadFrom(env("CONFIG_PATH", "config/config.yml"))
}

func LoadFrom(path string) (*Config, error) {
	configFile, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	accTTL, err := parseDuration(configFile.JWT.AccessTTL, 15*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT access TTL: %w", err)
	}

	lockDur, err := parseDuration(configFile.Lockout.LockDuration, 15*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid lock duration: %w", err)
	}

	resetTTL, err := parseDuration(configFile.Reset.TokenTTL, 30*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid reset token TTL: %w", err)
	}

	sessTTL, err := parseDuration(configFile.Session.TTL, 7*24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("invalid session TTL: %w", err)
	}

	maxAttempts := configFile.Lockout.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 5
	}

	frontendURL := configFile.Reset.FrontendURL
	if frontendURL == "" {
		frontendURL = "http://localhost:3001"
	}

	return &Config{
		Port:          fmt.Sprintf("%d", configFile.App.Port),
		GinMode:       configFile.App.GinMode,
		DSN:           env("DATABASE_DSN", configFile.Database.DSN),
		RedisAddr:     configFile.Redis.Addr,
		RedisPassword: configFile.Redis.Password,
		RedisDB:       configFile.Redis.DB,
		JWTSecret:     env("JWT_SECRET", configFile.JWT.Secret),
		JWTIssuer:     configFile.JWT.Issuer,
		AccessTTL:     accTTL,
		MaxAttempts:   maxAttempts,
		LockDuration:  lockDur,
		ResetTokenTTL: resetTTL,
		FrontendURL:   frontendURL,
		SessionTTL:    sessTTL,
		MailHost:      configFile.Mail.Host,
		MailPort:      configFile.Mail.Port,
		MailUsername:  configFile.Mail.Username,
		MailPassword:  env("MAIL_PASSWORD", configFile.Mail.Password),
		MailFrom:      configFile.Mail.From,
	}, nil
}

func parseDuration(s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	return time.ParseDuration(s)
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}
