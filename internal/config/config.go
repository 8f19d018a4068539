// Package config предоставляет структуры и функцию для парсинга и загрузки конфига
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
	Env                     string        `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string        `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING"`
	MigrationsPath          string        `yaml:"migrations_path" env-default:"./migrations"`
	UploadDir               string        `yaml:"upload_dir" env-default:"./uploads"`
	RabbitURL               string        `yaml:"rabbit_url" env:"RABBIT_URL"`
	RabbitMaxRetries        int           `yaml:"rabbit_max_retries" env-default:"5"`
	RabbitRetryDelay        time.Duration `yaml:"rabbit_retry_delay" env-default:"3s"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	Session                 `yaml:"session"`
	SMTP                    `yaml:"smtp"`
	PhonePe                 `yaml:"phonepe"`
	Razorpay                `yaml:"razorpay"`
	Summarizer              `yaml:"summarizer"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:"0.0.0.0:8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"5s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env-default:"localhost:6379"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db" env-default:"0"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"24h"`
}

// Session структура для настройки хранения сессий
type Session struct {
	SessionTTL time.Duration `yaml:"session_ttl" env-default:"24h"`
}

// SMTP структура для настройки почтового транспорта
type SMTP struct {
	SMTPHost string `yaml:"smtp_host"`
	SMTPPort string `yaml:"smtp_port" env-default:"587"`
	SMTPUser string `yaml:"smtp_user"`
	SMTPPass string `yaml:"smtp_pass" env:"SMTP_PASS"`
}

// PhonePe структура для настройки шлюза PhonePe
type PhonePe struct {
	PhonePeMerchantID  string `yaml:"merchant_id" env:"PHONEPE_MERCHANT_ID"`
	PhonePeSaltKey     string `yaml:"salt_key" env:"PHONEPE_SALT_KEY"`
	PhonePeBaseURL     string `yaml:"base_url" env-default:"https://api-preprod.phonepe.com/apis/pg-sandbox"`
	PhonePeCallbackURL string `yaml:"callback_url"`
}

// Razorpay структура для настройки шлюза Razorpay
type Razorpay struct {
	RazorpayKeyID         string `yaml:"key_id" env:"RAZORPAY_KEY_ID"`
	RazorpayKeySecret     string `yaml:"key_secret" env:"RAZORPAY_KEY_SECRET"`
	RazorpayBaseURL       string `yaml:"base_url" env-default:"https://api.razorpay.com"`
	RazorpayWebhookSecret string `yaml:"webhook_secret" env:"RAZORPAY_WEBHOOK_SECRET"`
}

// Summarizer структура для настройки вызова ИИ-сервиса суммаризации заметок
type Summarizer struct {
	SummarizerAPIURL string `yaml:"api_url"`
	SummarizerAPIKey string `yaml:"api_key" env:"SUMMARIZER_API_KEY"`
	SummarizerModel  string `yaml:"model" env-default:"gemini-2.0-flash"`
}

// MustLoad функция для загрузки конфига, путь берётся из переменной CONFIG_PATH
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"StorageConnectionString: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"JWTToken:\n"+
			"  TokenTTL: %s\n"+
			"Session:\n"+
			"  SessionTTL: %s\n",
		c.Env,
		c.StorageConnectionString,
		c.AddressRedis,
		c.DB,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.TokenTTL,
		c.SessionTTL,
	)
}
