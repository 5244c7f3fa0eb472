// Package config loads application settings from defaults, an optional
// config file, .env and QUIZARD_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/abhisek/quizard/internal/llm"
	"github.com/abhisek/quizard/internal/store"
)

const EnvPrefix = "QUIZARD"

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	DB       DBConfig       `mapstructure:"db"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Quiz     QuizConfig     `mapstructure:"quiz"`
	Redis    RedisConfig    `mapstructure:"redis"`
	RabbitMQ RabbitMQConfig `mapstructure:"rabbitmq"`
	Log      LogConfig      `mapstructure:"log"`
	LLM      llm.Config     `mapstructure:"llm"`
}

type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORSOrigin      string        `mapstructure:"cors_origin"`
}

type DBConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type AuthConfig struct {
	// JWTSecret enables JWT bearer tokens when non-empty.
	JWTSecret  string        `mapstructure:"jwt_secret"`
	CookieName string        `mapstructure:"cookie_name"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
}

type QuizConfig struct {
	WeakThreshold   float64 `mapstructure:"weak_threshold"`
	WeakMinAttempts int     `mapstructure:"weak_min_attempts"`
}

// RedisConfig enables the leaderboard cache when Addr is set.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Key      string `mapstructure:"key"`
}

// RabbitMQConfig enables completion events when URL is set.
type RabbitMQConfig struct {
	URL      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"`
}

type LogConfig struct {
	Format string `mapstructure:"format"` // "json" or "text"
	Level  string `mapstructure:"level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":4000")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.cors_origin", "http://localhost:3000")

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "")

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.cookie_name", "better-auth.session_token")
	v.SetDefault("auth.token_ttl", 7*24*time.Hour)

	v.SetDefault("quiz.weak_threshold", 60.0)
	v.SetDefault("quiz.weak_min_attempts", 3)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key", "quizard:leaderboard:score")

	v.SetDefault("rabbitmq.url", "")
	v.SetDefault("rabbitmq.exchange", "quizard.events")

	v.SetDefault("log.format", "json")
	v.SetDefault("log.level", "info")

	// Every llm key needs a default so AutomaticEnv can see it.
	d := llm.DefaultConfig()
	v.SetDefault("llm.provider", d.Provider)
	v.SetDefault("llm.timeout", d.Timeout)
	v.SetDefault("llm.retry.max_attempts", d.Retry.MaxAttempts)
	v.SetDefault("llm.retry.initial_wait", d.Retry.InitialWait)
	v.SetDefault("llm.retry.max_wait", d.Retry.MaxWait)
	v.SetDefault("llm.retry.multiplier", d.Retry.Multiplier)
	for name, model := range map[string]string{
		"anthropic":  d.Anthropic.Model,
		"openai":     d.OpenAI.Model,
		"gemini":     d.Gemini.Model,
		"openrouter": d.OpenRouter.Model,
	} {
		v.SetDefault("llm."+name+".api_key", "")
		v.SetDefault("llm."+name+".model", model)
		v.SetDefault("llm."+name+".base_url", "")
	}
}

// NewViper returns a viper instance with defaults and environment binding.
// A .env file in the working directory is loaded first when present. An
// explicit configFile must exist; otherwise quizard.yaml is looked up in
// the working directory and ignored when missing.
func NewViper(configFile string) (*viper.Viper, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", configFile, err)
		}
		return v, nil
	}

	v.SetConfigName("quizard")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}
	return v, nil
}

// Load decodes v into a Config, resolves the database location and the LLM
// provider, and validates the result.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if cfg.DB.Driver == "sqlite" && cfg.DB.DSN == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			return nil, err
		}
		cfg.DB.DSN = p
	}
	cfg.LLM = cfg.LLM.Resolve()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.DB.Driver {
	case "sqlite", "postgres", "mysql":
	default:
		return fmt.Errorf("db.driver must be sqlite, postgres or mysql, got %q", c.DB.Driver)
	}
	if c.DB.DSN == "" {
		return fmt.Errorf("db.dsn is required for %s", c.DB.Driver)
	}
	if c.Server.Address == "" {
		return errors.New("server.address is required")
	}
	if c.Quiz.WeakThreshold <= 0 || c.Quiz.WeakThreshold > 100 {
		return fmt.Errorf("quiz.weak_threshold must be in (0, 100], got %v", c.Quiz.WeakThreshold)
	}
	if c.Quiz.WeakMinAttempts < 1 {
		return fmt.Errorf("quiz.weak_min_attempts must be at least 1, got %d", c.Quiz.WeakMinAttempts)
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("auth.token_ttl must be positive")
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text, got %q", c.Log.Format)
	}
	return c.LLM.Validate()
}
