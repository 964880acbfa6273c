package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	DB          DBConfig
	Server      ServerConfig
	LLM         LLMConfig
	Redis       RedisConfig
	Auth        AuthConfig
	Logger      LoggerConfig
	Leaderboard LeaderboardConfig
	Game        GameConfig
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type DBConfig struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	BodyLimit    int
}

// LLMConfig selects the completion provider shared by the patient generator,
// responder and evaluator.
type LLMConfig struct {
	Provider    string
	ServerURL   string
	Model       string
	APIKey      string
	Temperature float64
	Timeout     time.Duration
}

type AuthConfig struct {
	JWT JWTConfig
}

type JWTConfig struct {
	SecretKey       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

type LoggerConfig struct {
	Level string
	Env   string
}

type LeaderboardConfig struct {
	CacheTTL     time.Duration
	DefaultLimit int
	MaxLimit     int
}

// GameConfig holds chat lifecycle tunables.
type GameConfig struct {
	FinalizeLeaseTTL time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db.driver", "oracle")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 1521)
	v.SetDefault("db.name", "FREEPDB1")

	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 90)
	v.SetDefault("server.body_limit", 1024*1024)

	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.timeout", 60)

	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.jwt.access_token_ttl", "15m")
	v.SetDefault("auth.jwt.refresh_token_ttl", "168h")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.env", "development")

	v.SetDefault("leaderboard.cache_ttl", "5m")
	v.SetDefault("leaderboard.default_limit", 10)
	v.SetDefault("leaderboard.max_limit", 100)

	v.SetDefault("game.finalize_lease_ttl", "2m")
}

// LoadConfig reads config.yaml from the given directories (or the working
// directory and ./config when none are given) and applies environment
// overrides such as DB_HOST or AUTH_JWT_SECRET_KEY.
func LoadConfig(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if len(paths) == 0 {
		if os.Getenv("ENV") == "test" {
			paths = []string{"../../config", "../.."}
		} else {
			paths = []string{".", "./config"}
		}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := v.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	cfg := &Config{
		DB: DBConfig{
			Driver:   v.GetString("db.driver"),
			Host:     v.GetString("db.host"),
			Port:     v.GetInt("db.port"),
			User:     v.GetString("db.user"),
			Password: v.GetString("db.password"),
			DBName:   v.GetString("db.name"),
		},
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  seconds(v, "server.read_timeout"),
			WriteTimeout: seconds(v, "server.write_timeout"),
			BodyLimit:    v.GetInt("server.body_limit"),
		},
		LLM: LLMConfig{
			Provider:    strings.ToLower(v.GetString("llm.provider")),
			ServerURL:   v.GetString("llm.server_url"),
			Model:       v.GetString("llm.model"),
			APIKey:      v.GetString("llm.api_key"),
			Temperature: v.GetFloat64("llm.temperature"),
			Timeout:     seconds(v, "llm.timeout"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Auth: AuthConfig{
			JWT: JWTConfig{
				SecretKey:       v.GetString("auth.jwt.secret_key"),
				AccessTokenTTL:  v.GetDuration("auth.jwt.access_token_ttl"),
				RefreshTokenTTL: v.GetDuration("auth.jwt.refresh_token_ttl"),
			},
		},
		Logger: LoggerConfig{
			Level: v.GetString("logger.level"),
			Env:   v.GetString("logger.env"),
		},
		Leaderboard: LeaderboardConfig{
			CacheTTL:     v.GetDuration("leaderboard.cache_ttl"),
			DefaultLimit: v.GetInt("leaderboard.default_limit"),
			MaxLimit:     v.GetInt("leaderboard.max_limit"),
		},
		Game: GameConfig{
			FinalizeLeaseTTL: v.GetDuration("game.finalize_lease_ttl"),
		},
	}

	// OPENAI_API_KEY is honoured as a fallback so existing environments keep working.
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// seconds reads a value that may be a bare number of seconds or a duration string.
func seconds(v *viper.Viper, key string) time.Duration {
	raw := v.GetString(key)
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return time.Duration(v.GetInt(key)) * time.Second
}

func (c *Config) Validate() error {
	switch c.DB.Driver {
	case "oracle", "godror":
	default:
		return fmt.Errorf("unsupported db.driver %q", c.DB.Driver)
	}
	switch c.LLM.Provider {
	case "openai", "ollama":
	default:
		return fmt.Errorf("unsupported llm.provider %q", c.LLM.Provider)
	}
	if c.Leaderboard.DefaultLimit <= 0 || c.Leaderboard.MaxLimit < c.Leaderboard.DefaultLimit {
		return fmt.Errorf("invalid leaderboard limits: default=%d max=%d",
			c.Leaderboard.DefaultLimit, c.Leaderboard.MaxLimit)
	}
	return nil
}

// GetDSN returns the connection string for the configured driver.
func (c *Config) GetDSN() string {
	if c.DB.Driver == "godror" {
		// godror takes an ODPI-C style connect string
		return fmt.Sprintf(`user="%s" password="%s" connectString="%s:%d/%s"`,
			c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.DBName)
	}
	return fmt.Sprintf("oracle://%s:%s@%s:%d/%s",
		c.DB.User,
		c.DB.Password,
		c.DB.Host,
		c.DB.Port,
		c.DB.DBName,
	)
}
