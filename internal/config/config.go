package config

import (
	"flag"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StorageLocal  = "local"
	StorageS3     = "s3"
	StorageGitHub = "github"
)

const (
	ListingStore    = "store" // прямой листинг объектов, без отдельного документа
	ListingFile     = "file"
	ListingPostgres = "postgres"
	ListingRedis    = "redis"
	ListingGitHub   = "github"
)

type Config struct {
	Env      string        `yaml:"env" env-default:"local"`
	HTTP     HTTPConfig    `yaml:"http"`
	Storage  StorageConfig `yaml:"storage"`
	Listing  ListingConfig `yaml:"listing"`
	Admin    AdminConfig   `yaml:"admin"`
	Deploy   DeployConfig  `yaml:"deploy"`
	CacheTTL time.Duration `yaml:"cache_ttl" env-default:"1m"`
}

type HTTPConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port" env-default:"8080"`
}

// StorageConfig выбирает бэкенд хранения бинарных файлов.
type StorageConfig struct {
	Backend     string        `yaml:"backend" env-default:"local"`
	MaxSize     int64         `yaml:"max_size" env-default:"26214400"` // 25MB
	BaseURL     string        `yaml:"base_url"`
	Local       LocalConfig   `yaml:"local"`
	S3          S3Config      `yaml:"s3"`
	GitHub      GitHubConfig  `yaml:"github"`
	CallTimeout time.Duration `yaml:"call_timeout" env-default:"30s"`
}

type LocalConfig struct {
	BaseDir string `yaml:"base_dir" env-default:"./uploads"`
}

// S3Config описывает S3-совместимое хранилище (Cloudflare R2).
type S3Config struct {
	AccountID string `yaml:"account_id" env:"R2_ACCOUNT_ID"`
	AccessKey string `yaml:"access_key" env:"R2_ACCESS_KEY_ID"`
	SecretKey string `yaml:"secret_key" env:"R2_SECRET_ACCESS_KEY"`
	Bucket    string `yaml:"bucket" env:"R2_BUCKET_NAME"`
	Endpoint  string `yaml:"endpoint"` // если пусто, выводится из account_id
}

type GitHubConfig struct {
	Token  string `yaml:"token" env:"GITHUB_TOKEN"`
	Owner  string `yaml:"owner" env:"GITHUB_OWNER"`
	Repo   string `yaml:"repo" env:"GITHUB_REPO"`
	Branch string `yaml:"branch" env:"GITHUB_BRANCH" env-default:"main"`
}

// ListingConfig выбирает хранилище авторитетного листинга галереи.
type ListingConfig struct {
	Backend    string      `yaml:"backend" env-default:"file"`
	Dir        string      `yaml:"dir" env-default:"./listings"`
	DSN        string      `yaml:"dsn" env:"LISTING_DSN"`
	Redis      RedisConfig `yaml:"redis"`
	MaxRetries int         `yaml:"max_retries" env-default:"4"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type AdminConfig struct {
	// bcrypt-хэш пароля админки; пустое значение закрывает мутации полностью
	PasswordHash string `yaml:"password_hash" env:"ADMIN_PASSWORD_HASH"`
}

type DeployConfig struct {
	HookURL string        `yaml:"hook_url" env:"CLOUDFLARE_DEPLOY_HOOK"`
	Timeout time.Duration `yaml:"timeout" env-default:"15s"`
}

func MustLoad() *Config {
	path := fetchConfigPath()
	if path == "" {
		panic("config path is empty")
	}

	return MustLoadPath(path)
}

func MustLoadPath(configPath string) *Config {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("cannot read config: " + err.Error())
	}

	return &cfg
}

func fetchConfigPath() string {
	var res string

	// --config="path/to/config.yaml"
	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
