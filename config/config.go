package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultConfigYAML is the built-in configuration every deployment starts from.
//
//go:embed default.yaml
var DefaultConfigYAML []byte

// Config is the application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Email     EmailConfig     `mapstructure:"email"`
	AMQP      AMQPConfig      `mapstructure:"amqp"`
	Budget    BudgetConfig    `mapstructure:"budget"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Log       LogConfig       `mapstructure:"log"`
	App       AppConfig       `mapstructure:"app"`
}

// ServerConfig HTTP server settings.
type ServerConfig struct {
	Port    string `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
	BaseURL string `mapstructure:"base_url"`
}

// DatabaseConfig selects the gorm dialector and its connection settings.
// Driver is one of mysql, postgres or sqlite; Path is only used by sqlite.
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	Charset  string `mapstructure:"charset"`
	SSLMode  string `mapstructure:"sslmode"`
	Path     string `mapstructure:"path"`
	LogMode  bool   `mapstructure:"log_mode"`
}

// JWTConfig token verification settings.
type JWTConfig struct {
	Secret      string        `mapstructure:"secret"`
	ExpireHours int           `mapstructure:"expire_hours"`
	ExpireTime  time.Duration `mapstructure:"-"`
}

// EmailConfig SMTP settings for budget alert mail.
type EmailConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// AMQPConfig broker settings for budget alert events.
type AMQPConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	URL        string `mapstructure:"url"`
	Exchange   string `mapstructure:"exchange"`
	RoutingKey string `mapstructure:"routing_key"`
}

// BudgetConfig tunes the aggregation engine.
type BudgetConfig struct {
	DefaultAlertThreshold int    `mapstructure:"default_alert_threshold"`
	TrendMonths           int    `mapstructure:"trend_months"`
	HistoryLimit          int    `mapstructure:"history_limit"`
	Concurrency           int    `mapstructure:"concurrency"`
	DefaultCurrency       string `mapstructure:"default_currency"`
}

// SchedulerConfig controls the monthly auto-renew job.
type SchedulerConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	AutoRenewSpec string `mapstructure:"auto_renew_spec"`
}

// LogConfig selects slog level and handler format (text or json).
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// AppConfig application-wide settings.
type AppConfig struct {
	Timezone string `mapstructure:"timezone"`
}

var (
	// GlobalConfig is the loaded configuration.
	GlobalConfig *Config
)

// LoadConfig loads configuration.
// Precedence: environment > external file > embedded defaults.
// configPath is optional.
func LoadConfig(configPath string) (*Config, error) {
	// .env is optional; real environment variables win over it
	if err := godotenv.Load(); err == nil {
		log.Println("loaded .env")
	}

	v := viper.New()
	v.SetConfigType("yaml")

	if err := v.ReadConfig(bytes.NewReader(DefaultConfigYAML)); err != nil {
		return nil, fmt.Errorf("read embedded config: %w", err)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.MergeInConfig(); err != nil {
			log.Printf("warning: cannot read config file %s: %v", configPath, err)
		} else {
			log.Printf("merged config file: %s", configPath)
		}
	} else {
		externalViper := viper.New()
		externalViper.SetConfigName("config")
		externalViper.SetConfigType("yaml")
		externalViper.AddConfigPath(".")
		externalViper.AddConfigPath("./config")
		externalViper.AddConfigPath("/etc/familyledger")
		externalViper.AddConfigPath("$HOME/.familyledger")

		if err := externalViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(externalViper.AllSettings()); err != nil {
				log.Printf("warning: merge external config: %v", err)
			} else {
				log.Printf("merged config file: %s", externalViper.ConfigFileUsed())
			}
		}
	}

	v.SetEnvPrefix("FAMILYLEDGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.applyDefaults()

	GlobalConfig = &cfg

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.JWT.ExpireHours <= 0 {
		c.JWT.ExpireHours = 24
	}
	c.JWT.ExpireTime = time.Duration(c.JWT.ExpireHours) * time.Hour

	if c.Budget.DefaultAlertThreshold <= 0 || c.Budget.DefaultAlertThreshold > 100 {
		c.Budget.DefaultAlertThreshold = 80
	}
	if c.Budget.TrendMonths <= 0 {
		c.Budget.TrendMonths = 6
	}
	if c.Budget.HistoryLimit <= 0 {
		c.Budget.HistoryLimit = 10
	}
	if c.Budget.Concurrency <= 0 {
		c.Budget.Concurrency = 4
	}
	if c.Budget.DefaultCurrency == "" {
		c.Budget.DefaultCurrency = "CNY"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "mysql"
	}
}

// Location resolves app.timezone; an empty or unknown zone falls back to time.Local.
func (c *Config) Location() *time.Location {
	if c.App.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		log.Printf("warning: unknown timezone %q, using Local", c.App.Timezone)
		return time.Local
	}
	return loc
}

// MustLoadConfig is LoadConfig that panics on error.
func MustLoadConfig(configPath string) *Config {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		panic(fmt.Sprintf("load config: %v", err))
	}
	return cfg
}

// PrintConfig logs the active configuration without secrets.
func PrintConfig() {
	if GlobalConfig == nil {
		return
	}
	log.Printf("current config:")
	log.Printf("  server: %s (mode: %s)", GlobalConfig.Server.Port, GlobalConfig.Server.Mode)
	if GlobalConfig.Database.Driver == "sqlite" {
		log.Printf("  database: sqlite %s", GlobalConfig.Database.Path)
	} else {
		log.Printf("  database: %s %s@%s:%s/%s",
			GlobalConfig.Database.Driver,
			GlobalConfig.Database.Username,
			GlobalConfig.Database.Host,
			GlobalConfig.Database.Port,
			GlobalConfig.Database.DBName)
	}
	log.Printf("  email alerts: %v, amqp alerts: %v", GlobalConfig.Email.Enabled, GlobalConfig.AMQP.Enabled)
	log.Printf("  auto-renew scheduler: %v (%s)", GlobalConfig.Scheduler.Enabled, GlobalConfig.Scheduler.AutoRenewSpec)
}
