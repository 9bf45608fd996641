package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvProduction  = "production"
	DefaultDevAPI  = "http://localhost:8080"
	DefaultTimeout = 30 * time.Second
)

type Config struct {
	App struct {
		Env  string `mapstructure:"env"`
		Port string `mapstructure:"port"`
	} `mapstructure:"app"`
	API struct {
		URL     string        `mapstructure:"url"`
		Timeout time.Duration `mapstructure:"timeout"`
		Retries uint64        `mapstructure:"retries"`
	} `mapstructure:"api"`
	Session struct {
		Store  string `mapstructure:"store"`
		File   string `mapstructure:"file"`
		Secret string `mapstructure:"secret"`
	} `mapstructure:"session"`
	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		Prefix   string `mapstructure:"prefix"`
	} `mapstructure:"redis"`
	Kafka struct {
		Brokers []string `mapstructure:"brokers"`
		GroupID string   `mapstructure:"group_id"`
	} `mapstructure:"kafka"`
	Media struct {
		MaxBytes    int64  `mapstructure:"max_bytes"`
		DownloadDir string `mapstructure:"download_dir"`
	} `mapstructure:"media"`
}

func (c Config) IsProduction() bool {
	return c.App.Env == EnvProduction
}

// LoadConfig reads config.yaml from the given paths (or "."), then .env, then the environment.
func LoadConfig(paths ...string) (cfg Config, err error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	v := viper.New()

	envFiles := make([]string, 0, len(paths))
	for _, p := range paths {
		v.AddConfigPath(p)
		envFiles = append(envFiles, strings.TrimSuffix(p, "/")+"/.env")
	}
	if err = godotenv.Load(envFiles...); err != nil {
		log.Println("warning: .env file not found, use environment only.")
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if err = v.ReadInConfig(); err != nil {
		log.Printf("note: config.yaml not found, read environment only. Error: %v", err)
	}

	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "3000")
	v.SetDefault("api.timeout", DefaultTimeout)
	v.SetDefault("api.retries", 2)
	v.SetDefault("session.store", "file")
	v.SetDefault("session.file", "~/.meleva/session.json")
	v.SetDefault("redis.prefix", "meleva:session:")
	v.SetDefault("kafka.group_id", "media-probe-group")
	v.SetDefault("media.max_bytes", 50<<20)
	v.SetDefault("media.download_dir", ".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.BindEnv("app.env", "APP_ENV")
	v.BindEnv("app.port", "APP_PORT")
	v.BindEnv("api.url", "API_URL")
	v.BindEnv("api.timeout", "API_TIMEOUT")
	v.BindEnv("api.retries", "API_RETRIES")
	v.BindEnv("session.store", "SESSION_STORE")
	v.BindEnv("session.file", "SESSION_FILE")
	v.BindEnv("session.secret", "SESSION_SECRET")
	v.BindEnv("redis.addr", "REDIS_ADDR")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("redis.prefix", "REDIS_PREFIX")
	v.BindEnv("kafka.brokers", "KAFKA_BROKERS")
	v.BindEnv("kafka.group_id", "KAFKA_GROUP_ID")
	v.BindEnv("media.max_bytes", "MEDIA_MAX_BYTES")
	v.BindEnv("media.download_dir", "DOWNLOAD_DIR")

	if err = v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}

	// KAFKA_BROKERS arrives as a single comma-separated string from the environment.
	if len(cfg.Kafka.Brokers) == 1 && strings.Contains(cfg.Kafka.Brokers[0], ",") {
		cfg.Kafka.Brokers = strings.Split(cfg.Kafka.Brokers[0], ",")
	}

	cfg.API.URL = ResolveAPIBaseURL(cfg.API.URL, cfg.App.Env)
	return cfg, nil
}

// ResolveAPIBaseURL applies the origin rules: a missing value falls back to the
// local backend outside production and stays empty in production (every
// backend call then fails with a configuration error), and plain http origins
// are upgraded to https in production to avoid mixed content.
func ResolveAPIBaseURL(raw, env string) string {
	u := strings.TrimRight(strings.TrimSpace(raw), "/")

	if u == "" {
		if env == EnvProduction {
			log.Println("error: API_URL is not set, backend calls will fail.")
			return ""
		}
		log.Printf("warning: API_URL is not set, using %s for development.", DefaultDevAPI)
		return DefaultDevAPI
	}

	if env == EnvProduction && strings.HasPrefix(u, "http://") {
		u = "https://" + strings.TrimPrefix(u, "http://")
	}
	return u
}
