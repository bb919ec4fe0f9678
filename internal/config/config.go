package config

import (
	"flag"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env     string        `yaml:"env" env:"ARTCLUB_ENV" env-default:"local"`
	API     APIConfig     `yaml:"api"`
	HTTP    HTTPConfig    `yaml:"http"`
	Session SessionConfig `yaml:"session"`
	Redis   RedisConf     `yaml:"redis"`
	CLI     CLIConfig     `yaml:"cli"`
}

// APIConfig описывает удалённый REST API клуба
type APIConfig struct {
	BaseURL   string        `yaml:"base_url" env:"ARTCLUB_API_URL" env-default:"http://127.0.0.1:8000/api/"`
	Timeout   time.Duration `yaml:"timeout" env-default:"10s"`
	MaxPages  int           `yaml:"max_pages" env-default:"100"`
	RateLimit float64       `yaml:"rate_limit" env-default:"0"`
	Burst     int           `yaml:"burst" env-default:"1"`
}

type HTTPConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port" env:"ARTCLUB_HTTP_PORT" env-default:"8080"`
}

type SessionConfig struct {
	Name    string        `yaml:"name" env-default:"session"`
	Secret  string        `yaml:"secret" env:"ARTCLUB_SESSION_SECRET" env-required:"true"`
	TTL     time.Duration `yaml:"ttl" env-default:"168h"`
	IdleTTL time.Duration `yaml:"idle_ttl" env-default:"30m"`
}

type RedisConf struct {
	RedisAddr     string `yaml:"redis_addr" env:"ARTCLUB_REDIS_ADDR"`
	RedisPassword string `yaml:"redispassword"`
	RedisDB       int    `yaml:"redis_db"`
}

type CLIConfig struct {
	SessionDir string `yaml:"session_dir" env:"ARTCLUB_SESSION_DIR" env-default:".artclub"`
}

func MustLoad() *Config {
	path := fetchConfigPath()
	if path == "" {
		panic("config path is empty")
	}

	return MustLoadPath(path)
}

func MustLoadPath(configPath string) *Config {
	cfg, err := LoadPath(configPath)
	if err != nil {
		panic(err.Error())
	}

	return cfg
}

// LoadPath читает конфиг без паники, используется CLI
func LoadPath(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, &PathError{Path: configPath}
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, &ReadError{Err: err}
	}

	return &cfg, nil
}

// ClientConfig часть настроек, нужная artclubctl
type ClientConfig struct {
	Env string    `yaml:"env" env:"ARTCLUB_ENV" env-default:"local"`
	API APIConfig `yaml:"api"`
	CLI CLIConfig `yaml:"cli"`
}

// LoadClient читает YAML, если путь задан, иначе только переменные окружения
func LoadClient(configPath string) (*ClientConfig, error) {
	var cfg ClientConfig

	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, &ReadError{Err: err}
		}
		return &cfg, nil
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, &PathError{Path: configPath}
	}
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, &ReadError{Err: err}
	}

	return &cfg, nil
}

type PathError struct {
	Path string
}

func (e *PathError) Error() string {
	return "config file does not exist: " + e.Path
}

type ReadError struct {
	Err error
}

func (e *ReadError) Error() string {
	return "cannot read config: " + e.Err.Error()
}

func (e *ReadError) Unwrap() error {
	return e.Err
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
