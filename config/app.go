package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// AppConfig holds global application configuration
var AppConfig *Config
var once sync.Once

type Config struct {
	AppName string `mapstructure:"app_name"`
	Port    string `mapstructure:"port"`
	Env     string `mapstructure:"app_env"`
	Debug   bool   `mapstructure:"debug"`

	DBDriver    string `mapstructure:"db_driver"`
	SQLitePath  string `mapstructure:"sqlite_path"`
	PostgresDSN string `mapstructure:"postgres_dsn"`
	MySQL       MySQL  `mapstructure:",squash"`

	RedisAddr string `mapstructure:"redis_addr"`
	RedisPass string `mapstructure:"redis_pass"`

	ElasticsearchHost string `mapstructure:"elasticsearch_host"`
	IndexPrefix       string `mapstructure:"elasticsearch_index_prefix"`

	AuthType string `mapstructure:"auth_type"`
	APIKey   string `mapstructure:"api_key"`
	APIUser  string `mapstructure:"api_user"`
	APIPass  string `mapstructure:"api_pass"`

	RefreshSchedule     string        `mapstructure:"catalog_refresh_schedule"`
	LoadMoreDelayMS     int           `mapstructure:"load_more_delay_ms"`
	VendorCacheTTL      time.Duration `mapstructure:"vendor_cache_ttl"`
	RecommendationLimit int           `mapstructure:"recommendation_limit"`
	KeywordsFile        string        `mapstructure:"keywords_file"`

	Archive Archive `mapstructure:",squash"`
}

// MySQL holds the split connection settings used when MYSQL_DSN is empty.
type MySQL struct {
	DSN  string `mapstructure:"mysql_dsn"`
	User string `mapstructure:"mysql_user"`
	Pass string `mapstructure:"mysql_pass"`
	Host string `mapstructure:"mysql_host"`
	Port string `mapstructure:"mysql_port"`
	DB   string `mapstructure:"mysql_db"`
}

// Archive is the S3-compatible snapshot store. Empty Endpoint disables it.
type Archive struct {
	Endpoint  string `mapstructure:"archive_endpoint"`
	AccessKey string `mapstructure:"archive_access_key"`
	SecretKey string `mapstructure:"archive_secret_key"`
	Bucket    string `mapstructure:"archive_bucket"`
	UseSSL    bool   `mapstructure:"archive_use_ssl"`
}

var defaults = map[string]interface{}{
	"app_name":                   "giftshop",
	"port":                       "8080",
	"app_env":                    "development",
	"debug":                      false,
	"db_driver":                  "mysql",
	"sqlite_path":                "giftshop.db",
	"postgres_dsn":               "",
	"mysql_dsn":                  "",
	"mysql_user":                 "",
	"mysql_pass":                 "",
	"mysql_host":                 "127.0.0.1",
	"mysql_port":                 "3306",
	"mysql_db":                   "",
	"redis_addr":                 "",
	"redis_pass":                 "",
	"elasticsearch_host":         "",
	"elasticsearch_index_prefix": "giftshop",
	"auth_type":                  "basic",
	"api_key":                    "",
	"api_user":                   "",
	"api_pass":                   "",
	"catalog_refresh_schedule":   "@every 15m",
	"load_more_delay_ms":         300,
	"vendor_cache_ttl":           "10m",
	"recommendation_limit":       12,
	"keywords_file":              "",
	"archive_endpoint":           "",
	"archive_access_key":         "",
	"archive_secret_key":         "",
	"archive_bucket":             "giftshop-snapshots",
	"archive_use_ssl":            false,
}

// NewViper returns a viper instance with every key defaulted and bound to
// its upper-case environment variable. configFile is optional.
func NewViper(configFile string) (*viper.Viper, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}
	return v, nil
}

// Load decodes v into a Config.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	if cfg.LoadMoreDelayMS < 0 {
		cfg.LoadMoreDelayMS = 0
	}
	return &cfg, nil
}

// LoadAppConfig initializes the global AppConfig from the environment and
// GIFTSHOP_CONFIG when set.
func LoadAppConfig() {
	once.Do(func() {
		v, err := NewViper(GetEnv("GIFTSHOP_CONFIG", ""))
		if err != nil {
			v, _ = NewViper("")
		}
		cfg, err := Load(v)
		if err != nil {
			cfg = &Config{}
		}
		AppConfig = cfg
	})
}

// LoadMoreDelay is the pagination pacing delay.
func (c *Config) LoadMoreDelay() time.Duration {
	return time.Duration(c.LoadMoreDelayMS) * time.Millisecond
}
