package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const defaultConfigPath = "./config/local.yaml"

type Config struct {
	Env        string `yaml:"env" env:"ENV" env-default:"prod"`
	HTTPServer `yaml:"http_server"`
	DBUser     string `yaml:"db_user" env:"DB_USER" env-required:"true"`
	DBPassword string `yaml:"db_password" env:"DB_PASSWORD"`
	DBHost     string `yaml:"db_host" env:"DB_HOST" env-default:"localhost"`
	DBPort     int    `yaml:"db_port" env:"DB_PORT" env-default:"3306"`
	DBName     string `yaml:"db_name" env:"DB_NAME" env-required:"true"`
	ParseTime  bool   `yaml:"parse_time" env-default:"true"`

	CORSOrigins []string `yaml:"cors_origins" env:"CORS_ORIGINS" env-default:"http://localhost:4200"`

	// basic auth for the query assistant
	AdminLogin string `yaml:"admin_login" env:"ADMIN_LOGIN"`
	AdminPass  string `yaml:"admin_pass" env:"ADMIN_PASS"`

	Dashboard Dashboard `yaml:"dashboard"`
	Assistant Assistant `yaml:"assistant"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:5000"`
	Timeout     time.Duration `yaml:"timeout" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

type Dashboard struct {
	DefaultYear    int           `yaml:"default_year" env:"DASHBOARD_DEFAULT_YEAR" env-default:"2024"`
	RequestTimeout time.Duration `yaml:"request_timeout" env-default:"5s"`
}

type Assistant struct {
	APIKey      string        `yaml:"api_key" env:"GEMINI_API_KEY"`
	Model       string        `yaml:"model" env:"ASSISTANT_MODEL" env-default:"gemini-2.0-flash"`
	Guard       string        `yaml:"guard" env:"ASSISTANT_GUARD" env-default:"keyword"`
	MaxRows     int           `yaml:"max_rows" env-default:"200"`
	PreviewRows int           `yaml:"preview_rows" env-default:"5"`
	Timeout     time.Duration `yaml:"timeout" env-default:"30s"`
}

// DSN builds the go-sql-driver/mysql connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=%v",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
		c.ParseTime,
	)
}

func MustConfig() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}

	return cfg
}

// Load reads .env (if present), then the YAML file from CONFIG_PATH, then env overrides.
func Load() (*Config, error) {
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	var cfg Config

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config file %s does not exist and env is incomplete: %w", configPath, err)
		}
		return &cfg, nil
	}

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
