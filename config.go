package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config defines the structure of the configuration file.
type Config struct {
	GitCommit          string        `yaml:"git_commit" envconfig:"LCAP_GIT_COMMIT"`
	GitTag             string        `yaml:"git_tag" envconfig:"LCAP_GIT_TAG"`
	BuildTime          string        `yaml:"build_time" envconfig:"LCAP_BUILD_TIME"`
	IsProduction       bool          `yaml:"is_production" envconfig:"LCAP_IS_PRODUCTION"`
	LogLevel           zapcore.Level `yaml:"log_level" envconfig:"LCAP_LOG_LEVEL"`
	LogFolder          string        `yaml:"log_folder" envconfig:"LCAP_LOG_FOLDER"`
	LogMaxSize         int           `yaml:"log_max_size" envconfig:"LCAP_LOG_MAX_SIZE"`
	OpsEndpointsEnable bool          `yaml:"ops_endpoints_enable" envconfig:"LCAP_OPS_ENDPOINTS_ENABLE"`
	ProfilerEnable     bool          `yaml:"profiler_enable" envconfig:"LCAP_PROFILER_ENABLE"`
	Server             ServerConfig  `yaml:"server"`
	Redis              RedisConfig   `yaml:"redis"`
	BoltDB             BoltDBConfig  `yaml:"boltdb"`
	Catalog            CatalogConfig `yaml:"catalog"`
	Session            SessionConfig `yaml:"session"`
	Users              UsersConfig   `yaml:"users"`
}

type ServerConfig struct {
	Host            string        `yaml:"host" envconfig:"LCAP_SERVER_HOST"`
	Port            string        `yaml:"port" envconfig:"LCAP_SERVER_PORT"`
	CertsFile       string        `yaml:"certs_file" envconfig:"LCAP_SERVER_CERTS_FILE"`
	KeyFile         string        `yaml:"key_file" envconfig:"LCAP_SERVER_KEY_FILE"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"LCAP_SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"LCAP_SERVER_WRITE_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"LCAP_SERVER_REQUEST_TIMEOUT"` // Time to wait for a request to finish
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"LCAP_SERVER_SHUTDOWN_TIMEOUT"`
}

type RedisConfig struct {
	Host          string        `yaml:"host" envconfig:"LCAP_REDIS_HOST"`
	Port          string        `yaml:"port" envconfig:"LCAP_REDIS_PORT"`
	DialTimeout   time.Duration `yaml:"dial_timeout" envconfig:"LCAP_REDIS_DIAL_TIMEOUT"`
	ReadTimeout   time.Duration `yaml:"read_timeout" envconfig:"LCAP_REDIS_READ_TIMEOUT"`
	WriteTimeout  time.Duration `yaml:"write_timeout" envconfig:"LCAP_REDIS_WRITE_TIMEOUT"`
	PoolSize      int           `yaml:"pool_size" envconfig:"LCAP_REDIS_POOL_SIZE"`
	PoolTimeout   time.Duration `yaml:"pool_timeout" envconfig:"LCAP_REDIS_POOL_TIMEOUT"`
	Username      string        `yaml:"username" envconfig:"LCAP_REDIS_USERNAME"`
	Password      string        `yaml:"password" envconfig:"LCAP_REDIS_PASSWORD"`
	DatabaseIndex int           `yaml:"db_index" envconfig:"LCAP_REDIS_DATABASE_INDEX"`
}

type BoltDBConfig struct {
	FilePath string        `yaml:"filepath" envconfig:"LCAP_BOLTDB_FILE_PATH"`
	Timeout  time.Duration `yaml:"timeout" envconfig:"LCAP_BOLTDB_TIMEOUT"`
}

// CatalogConfig groups the fixed page sizes used by the listing endpoints.
type CatalogConfig struct {
	BooksPageSize    int `yaml:"books_page_size" envconfig:"LCAP_CATALOG_BOOKS_PAGE_SIZE"`
	AuthorsPageSize  int `yaml:"authors_page_size" envconfig:"LCAP_CATALOG_AUTHORS_PAGE_SIZE"`
	BorrowedPageSize int `yaml:"borrowed_page_size" envconfig:"LCAP_CATALOG_BORROWED_PAGE_SIZE"`
}

type SessionConfig struct {
	TTL        time.Duration `yaml:"ttl" envconfig:"LCAP_SESSION_TTL"`
	CookieName string        `yaml:"cookie_name" envconfig:"LCAP_SESSION_COOKIE_NAME"`
}

// UsersConfig holds the two demo accounts seeded at first startup.
type UsersConfig struct {
	Reader    SeedUserConfig `yaml:"reader"`
	Librarian SeedUserConfig `yaml:"librarian"`
}

type SeedUserConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	FullName string `yaml:"full_name"`
}

// LoadConfigFile provides an instance of config structure for the all application.
func LoadConfigFile(configFile string) (*Config, error) {
	file, err := os.Open(configFile)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	cfg := &Config{}
	yd := yaml.NewDecoder(file)
	err = yd.Decode(cfg)

	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigEnvs reads the environments variables and provides an instance of the App config.
func LoadConfigEnvs(prefix string, config *Config) error {
	return envconfig.Process(prefix, config)
}

// InitConfig setup defaults values for non provided parameters
// and configures build tags values to be used if provided.
func InitConfig(config *Config, gitCommit, gitTag, buildTime string) error {
	if len(gitCommit) != 0 {
		config.GitCommit = gitCommit
	}

	if len(gitTag) != 0 {
		config.GitTag = gitTag
	}

	if len(buildTime) != 0 {
		config.BuildTime = buildTime
	}

	if len(config.Server.Host) == 0 || len(config.Server.Port) == 0 {
		return errors.New("make sure to set valid server address and port in configuration file")
	}

	if len(config.Redis.Host) == 0 || len(config.Redis.Port) == 0 {
		return errors.New("make sure to set valid redis address and port in configuration file")
	}

	if config.Catalog.BooksPageSize <= 0 {
		config.Catalog.BooksPageSize = 2
	}

	if config.Catalog.AuthorsPageSize <= 0 {
		config.Catalog.AuthorsPageSize = 10
	}

	if config.Catalog.BorrowedPageSize <= 0 {
		config.Catalog.BorrowedPageSize = 10
	}

	if config.Session.TTL <= 0 {
		config.Session.TTL = 24 * time.Hour
	}

	if len(config.Session.CookieName) == 0 {
		config.Session.CookieName = "lcap_sid"
	}

	return nil
}

// LoadAndInitConfigs loads in order the configs from various predefined sources
// then build the App configuration data.
func LoadAndInitConfigs(gitCommit, gitTag, buildTime string) (*Config, error) {
	// Setup the yaml configuration from file.
	config, err := LoadConfigFile("./config.yml")
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from file: %s", err)
	}

	// Set the environment configuration.
	err = godotenv.Load("./config.env")
	if err != nil {
		return config, fmt.Errorf("failed to set environment configurations: %s", err)
	}

	// Use environment variables with prefix `LCAP`.
	err = LoadConfigEnvs("LCAP", config)
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from environment: %s", err)
	}

	err = InitConfig(config, gitCommit, gitTag, buildTime)
	if err != nil {
		return config, fmt.Errorf("failed to initialize configurations: %s", err)
	}
	return config, nil
}
