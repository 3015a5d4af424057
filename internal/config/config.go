// Package config предоставялет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env             string `yaml:"env" env-default:"local"`
	Storage         `yaml:"storage"`
	HTTPServer      `yaml:"http_server"`
	JWTToken        `yaml:"jwttoken"`
	RedisConnection `yaml:"redis_connection"`
	RabbitMQ        `yaml:"rabbitmq"`
	Admin           `yaml:"admin"`
	Subscription    `yaml:"subscription"`
	Scheduler       `yaml:"scheduler"`
	SMTP            `yaml:"smtp"`
}

// Storage структура для настройки файлового хранилища
type Storage struct {
	DataDir     string `yaml:"data_dir" env-default:"./data"`
	SeedCatalog *bool  `yaml:"seed_catalog"`
}

// CatalogSeedEnabled сообщает, заполнять ли пустой каталог при старте.
// Если seed_catalog не задан, каталог заполняется.
func (s Storage) CatalogSeedEnabled() bool {
	return s.SeedCatalog == nil || *s.SeedCatalog
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
	AuthRPS     float64       `yaml:"auth_rps" env-default:"5"`
	AuthBurst   int           `yaml:"auth_burst" env-default:"10"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env-required:"true"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"168h"`
}

// RedisConnection структура для настройки подключения к redis.
// Пустой адрес отключает кэш каталога.
type RedisConnection struct {
	RedisAddress     string        `yaml:"addressredis"`
	RedisPassword    string        `yaml:"password"`
	RedisUser        string        `yaml:"user"`
	RedisDB          int           `yaml:"db"`
	RedisMaxRetries  int           `yaml:"max_retries"`
	RedisDialTimeout time.Duration `yaml:"dial_timeout"`
	RedisTimeout     time.Duration `yaml:"timeoutredis"`
	CatalogTTL       time.Duration `yaml:"catalog_ttl" env-default:"5m"`
}

// RabbitMQ структура для подключения к брокеру уведомлений.
// Пустой URL отключает публикацию.
type RabbitMQ struct {
	RabbitMQURL    string        `yaml:"url"`
	Exchange       string        `yaml:"exchange" env-default:"notifications"`
	ConnectRetries int           `yaml:"connect_retries" env-default:"5"`
	RetryDelay     time.Duration `yaml:"retry_delay" env-default:"2s"`
}

// Admin учётная запись администратора, создаваемая при старте
type Admin struct {
	AdminName     string `yaml:"name" env-default:"Admin User"`
	AdminEmail    string `yaml:"email" env-default:"admin@studytoolshub.com"`
	AdminPassword string `yaml:"password" env-default:"admin123"`
}

// Subscription параметры пробного периода и платной подписки
type Subscription struct {
	TrialPeriod  time.Duration `yaml:"trial_period" env-default:"720h"`
	PeriodMonths int           `yaml:"period_months" env-default:"1"`
}

// Scheduler параметры фоновой проверки просроченных подписок
type Scheduler struct {
	SchedulerInterval time.Duration `yaml:"interval" env-default:"1h"`
}

// SMTP параметры почтового сервера для рассылки уведомлений
type SMTP struct {
	SMTPHost string `yaml:"host"`
	SMTPPort string `yaml:"port" env-default:"587"`
	SMTPUser string `yaml:"user"`
	SMTPPass string `yaml:"password" env:"SMTP_PASSWORD"`
}

// Load читает конфиг из файла path.
func Load(path string) (*Config, error) {
	const op = "config.Load"

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// MustLoad функция для загрузки конфига по пути из CONFIG_PATH, завершает процесс при ошибке
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"Storage:\n"+
			"  DataDir: %s\n"+
			"  SeedCatalog: %t\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"JWTToken:\n"+
			"  JWTSecretKey: %s\n"+
			"  TokenTTL: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"RabbitMQ:\n"+
			"  URL: %s\n"+
			"  Exchange: %s\n"+
			"Admin:\n"+
			"  Email: %s\n"+
			"Subscription:\n"+
			"  TrialPeriod: %s\n"+
			"  PeriodMonths: %d\n"+
			"Scheduler:\n"+
			"  Interval: %s\n"+
			"SMTP:\n"+
			"  Host: %s\n"+
			"  User: %s\n"+
			"  Password: %s\n",
		c.Env,
		c.DataDir,
		c.CatalogSeedEnabled(),
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		mask(c.JWTSecretKey),
		c.TokenTTL,
		c.RedisAddress,
		c.RedisDB,
		mask(c.RabbitMQURL),
		c.Exchange,
		c.AdminEmail,
		c.TrialPeriod,
		c.PeriodMonths,
		c.SchedulerInterval,
		c.SMTPHost,
		c.SMTPUser,
		mask(c.SMTPPass),
	)
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "***"
}
