package config

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type MongoConfig struct {
	Host       string `yaml:"host"`
	DBName     string `yaml:"dbname"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	AuthSource string `yaml:"authSource"`
}

type CellarTrackerConfig struct {
	BaseURL  string `yaml:"baseUrl"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type Config struct {
	Mongo         MongoConfig         `yaml:"mongo"`
	CellarTracker CellarTrackerConfig `yaml:"cellartracker"`
	Server        ServerConfig        `yaml:"server"`
}

const defaultCellarTrackerURL = "https://www.cellartracker.com/xlquery.asp"

// LoadConfig reads the yaml config file and layers environment variables on
// top. Secrets (CellarTracker credentials) are normally delivered through the
// environment rather than the file; a .env file is honored when present.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	overlayEnv(&cfg)

	if cfg.CellarTracker.BaseURL == "" {
		cfg.CellarTracker.BaseURL = defaultCellarTrackerURL
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	return &cfg, nil
}

func overlayEnv(cfg *Config) {
	if v, ok := os.LookupEnv("CELLARTRACKER_USER"); ok {
		cfg.CellarTracker.User = v
	}
	if v, ok := os.LookupEnv("CELLARTRACKER_PASSWORD"); ok {
		cfg.CellarTracker.Password = v
	}
	if v, ok := os.LookupEnv("CELLARTRACKER_URL"); ok {
		cfg.CellarTracker.BaseURL = v
	}
	if v, ok := os.LookupEnv("MONGO_HOST"); ok {
		cfg.Mongo.Host = v
	}
	if v, ok := os.LookupEnv("MONGO_PASSWORD"); ok {
		cfg.Mongo.Password = v
	}
}
