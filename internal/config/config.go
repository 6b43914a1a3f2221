package config

import "time"

// Config is the API server configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Suggest  SuggestConfig  `yaml:"suggest"`
	Planner  PlannerConfig  `yaml:"planner"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"localhost"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"3000"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings. DB_URL is the same
// variable the migrate and create-user tools read.
type DatabaseConfig struct {
	URL             string        `yaml:"url"                env:"DB_URL"                      env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"0"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"4m"`
	SimpleProtocol  bool          `yaml:"simple_protocol"    env:"DATABASE_SIMPLE_PROTOCOL"    env-default:"true"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// SuggestConfig selects the AI provider behind POST /foods/suggest.
type SuggestConfig struct {
	Provider      string        `yaml:"provider"        env:"SUGGEST_PROVIDER"  env-default:"openai"`
	OpenAIKey     string        `yaml:"openai_api_key"  env:"OPENAI_API_KEY"`
	OpenAIBaseURL string        `yaml:"openai_base_url" env:"OPENAI_BASE_URL"   env-default:"https://api.openai.com"`
	OpenAIModel   string        `yaml:"openai_model"    env:"OPENAI_MODEL"      env-default:"gpt-4o-mini"`
	GeminiKey     string        `yaml:"gemini_api_key"  env:"GEMINI_API_KEY"`
	GeminiModel   string        `yaml:"gemini_model"    env:"GEMINI_MODEL"      env-default:"gemini-1.5-flash"`
	Timeout       time.Duration `yaml:"timeout"         env:"SUGGEST_TIMEOUT"   env-default:"15s"`
}

// PlannerConfig holds meal plan generation settings.
type PlannerConfig struct {
	// CatalogPath overrides the embedded meal catalog with a YAML file.
	CatalogPath string `yaml:"catalog_path" env:"PLANNER_CATALOG_PATH"`
	DefaultDays int    `yaml:"default_days" env:"PLANNER_DEFAULT_DAYS" env-default:"1"`
}

// ClientConfig is read by the nutrition CLI.
type ClientConfig struct {
	BaseURL   string        `yaml:"base_url"   env:"NUTRITION_API_URL"    env-default:"http://localhost:3000"`
	Token     string        `yaml:"token"      env:"NUTRITION_TOKEN"`
	Timeout   time.Duration `yaml:"timeout"    env:"NUTRITION_TIMEOUT"    env-default:"10s"`
	CachePath string        `yaml:"cache_path" env:"NUTRITION_CACHE_PATH" env-default:"nutrition-cache.db"`
}
