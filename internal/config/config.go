package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	APIPort  int    `mapstructure:"apiPort"`
	BaseURL  string `mapstructure:"baseURL"`
	Database struct {
		Type            string `mapstructure:"type"` // "postgres" or "sqlite"
		Path            string `mapstructure:"path"` // sqlite file path
		Host            string `mapstructure:"host"`
		Port            string `mapstructure:"port"`
		Name            string `mapstructure:"name"`
		User            string `mapstructure:"user"`
		Password        string `mapstructure:"password"`
		SSLMode         string `mapstructure:"sslMode"`
		MaxConns        int    `mapstructure:"maxConns"`
		MaxIdle         int    `mapstructure:"maxIdle"`
		ConnMaxLifetime string `mapstructure:"connMaxLifetime"`
	} `mapstructure:"database"`
	Auth struct {
		JWTSecret    string `mapstructure:"jwtSecret"`
		TokenTTLHrs  int    `mapstructure:"tokenTTLHours"`
		ResetTTLMins int    `mapstructure:"resetTTLMinutes"`
	} `mapstructure:"auth"`
	Queue struct {
		URL        string `mapstructure:"url"`
		Stream     string `mapstructure:"stream"`
		Durable    string `mapstructure:"durable"`
		MaxDeliver int    `mapstructure:"maxDeliver"`
	} `mapstructure:"queue"`
	Mail struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
		From     string `mapstructure:"from"`
		FromName string `mapstructure:"fromName"`
	} `mapstructure:"mail"`
	Storage struct {
		Endpoint        string `mapstructure:"endpoint"`
		Region          string `mapstructure:"region"`
		Bucket          string `mapstructure:"bucket"`
		AccessKeyID     string `mapstructure:"accessKeyID"`
		SecretAccessKey string `mapstructure:"secretAccessKey"`
	} `mapstructure:"storage"`
}

// LoadConfig loads the configuration from file and environment variables.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("MEETAPP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// A missing file is fine (environment-only deployments); an
			// unreadable one is not.
			log.Printf("Warning: could not read config file %s: %v. Using defaults and environment variables.", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.APIPort == 0 {
		cfg.APIPort = 3333
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:3333"
	}
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "meetapp.db"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Auth.TokenTTLHrs == 0 {
		cfg.Auth.TokenTTLHrs = 24 * 7
	}
	if cfg.Auth.ResetTTLMins == 0 {
		cfg.Auth.ResetTTLMins = 60
	}
	if cfg.Queue.URL == "" {
		cfg.Queue.URL = "nats://localhost:4222"
	}
	if cfg.Queue.Stream == "" {
		cfg.Queue.Stream = "MEETAPP_JOBS"
	}
	if cfg.Queue.Durable == "" {
		cfg.Queue.Durable = "meetapp-worker"
	}
	if cfg.Queue.MaxDeliver == 0 {
		cfg.Queue.MaxDeliver = 5
	}
	if cfg.Mail.Port == 0 {
		cfg.Mail.Port = 587
	}
	if cfg.Mail.From == "" {
		cfg.Mail.From = "noreply@meetapp.io"
	}
	if cfg.Mail.FromName == "" {
		cfg.Mail.FromName = "Meetapp"
	}
}
