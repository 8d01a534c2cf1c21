package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string     `yaml:"env" env-default:"local"`
	HTTPServer HTTPServer `yaml:"http_server"`
	Postgres   Postgres   `yaml:"postgres"`
	JWT        JWT        `yaml:"jwt"`
	Minio      Minio      `yaml:"minio"`
	ES         ES         `yaml:"elasticsearch"`
	Redis      Redis      `yaml:"redis"`
	Upload     Upload     `yaml:"upload"`
	RateLimit  RateLimit  `yaml:"rate_limit"`
	CORS       CORS       `yaml:"cors"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env-default:"localhost:8000"`
	Timeout     time.Duration `yaml:"timeout" env-default:"5s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

type Postgres struct {
	Host     string `yaml:"host" env-default:"localhost"`
	Port     string `yaml:"port" env-default:"5432"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname" env-default:"mlplatform"`
}

type JWT struct {
	SecretKey  string        `yaml:"secret_key" env:"JWT_SECRET_KEY"`
	Issuer     string        `yaml:"issuer" env-default:"ml-deployment-platform"`
	AccessTTL  time.Duration `yaml:"access_token_ttl" env-default:"30m"`
	RefreshTTL time.Duration `yaml:"refresh_token_ttl" env-default:"168h"`
}

type Minio struct {
	Endpoint       string        `yaml:"endpoint" env-default:"minio:9000"`
	AccessKey      string        `yaml:"access_key"`
	SecretKey      string        `yaml:"secret_key"`
	UseSSL         bool          `yaml:"use_ssl"`
	ArtifactBucket string        `yaml:"artifact_bucket" env-default:"model-artifacts"`
	PresignTTL     time.Duration `yaml:"presign_ttl" env-default:"1h"`
}

type ES struct {
	Hosts    []string `yaml:"hosts"`
	Index    string   `yaml:"index" env-default:"models"`
	Password string   `yaml:"password"`
}

type Redis struct {
	Addr     string        `yaml:"addr" env-default:"localhost:6379"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	StatsTTL time.Duration `yaml:"stats_ttl" env-default:"30s"`
}

type Upload struct {
	MaxSize int64 `yaml:"max_size" env-default:"104857600"`
}

type RateLimit struct {
	PerMinute int `yaml:"per_minute" env-default:"60"`
}

type CORS struct {
	Origins []string `yaml:"origins" env-default:"http://localhost:5173,http://localhost:3000"`
}

func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("Config file not exist: %s", configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("Can not read config file %s", err)
	}

	return &cfg
}
