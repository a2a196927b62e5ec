package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type BotConfig struct {
	Token     string `yaml:"token"`
	Username  string `yaml:"username"`
	ChannelID int64  `yaml:"channel_id"` // private sports channel users get invited to
}

type OctoConfig struct {
	ShopID     int64  `yaml:"shop_id"`
	SecretKey  string `yaml:"secret_key"`
	TestAmount int64  `yaml:"test_amount"` // overrides plan price when set (test traffic)
	ReturnURL  string `yaml:"return_url"`
	NotifyURL  string `yaml:"notify_url"`
	Language   string `yaml:"language"`
	TestMode   bool   `yaml:"test_mode"` // forces test flag on every prepare request
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type AdminConfig struct {
	Password      string        `yaml:"password"`
	SessionSecret string        `yaml:"session_secret"`
	SessionTTL    time.Duration `yaml:"session_ttl"`
}

type SchedulerConfig struct {
	ExpiryInterval time.Duration `yaml:"expiry_interval"`
}

type Config struct {
	Log       LogConfig       `yaml:"log"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Bot       BotConfig       `yaml:"bot"`
	Octo      OctoConfig      `yaml:"octo"`
	Server    ServerConfig    `yaml:"server"`
	Admin     AdminConfig     `yaml:"admin"`
	Scheduler SchedulerConfig `yaml:"scheduler"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// defaults
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Octo.Language == "" {
		cfg.Octo.Language = "uz"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Admin.SessionTTL <= 0 {
		cfg.Admin.SessionTTL = 30 * time.Minute
	}
	if cfg.Scheduler.ExpiryInterval <= 0 {
		cfg.Scheduler.ExpiryInterval = time.Hour
	}

	// Minimal validation
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Octo.ShopID == 0 || cfg.Octo.SecretKey == "" {
		return nil, errors.New("octo.shop_id and octo.secret_key are required")
	}
	if cfg.Bot.Token == "" {
		return nil, errors.New("bot.token is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}
