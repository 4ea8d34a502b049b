package model

// Config is the complete service configuration
type Config struct {
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	LLM      LLMConfig      `yaml:"llm" mapstructure:"llm"`
	Humanize HumanizeConfig `yaml:"humanize" mapstructure:"humanize"`
	Detect   DetectConfig   `yaml:"detect" mapstructure:"detect"`
	Cache    CacheConfig    `yaml:"cache" mapstructure:"cache"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Port                int      `yaml:"port" mapstructure:"port"`
	ReadTimeoutSeconds  int      `yaml:"read_timeout_seconds" mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds int      `yaml:"write_timeout_seconds" mapstructure:"write_timeout_seconds"`
	CORSOrigins         []string `yaml:"cors_origins" mapstructure:"cors_origins"`
	RequestsPerSecond   float64  `yaml:"requests_per_second" mapstructure:"requests_per_second"` // Per client IP, 0 disables
	Burst               int      `yaml:"burst" mapstructure:"burst"`
	Mode                string   `yaml:"mode" mapstructure:"mode"` // gin mode: debug, release, test
}

// LLMConfig configures the completion provider
type LLMConfig struct {
	Provider          string  `yaml:"provider" mapstructure:"provider"` // openai, anthropic, ollama
	Model             string  `yaml:"model" mapstructure:"model"`
	APIKey            string  `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL           string  `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout           int     `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens         int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"` // Outbound throttle, 0 disables
	HTTPProxy         string  `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy        string  `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy           string  `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// HumanizeConfig configures the humanize pipeline
type HumanizeConfig struct {
	MaxWords int `yaml:"max_words" mapstructure:"max_words"`
}

// DetectConfig configures the detect pipeline
type DetectConfig struct {
	MaxWords          int `yaml:"max_words" mapstructure:"max_words"`
	MinSentenceLength int `yaml:"min_sentence_length" mapstructure:"min_sentence_length"`
	Concurrency       int `yaml:"concurrency" mapstructure:"concurrency"`
	SentenceTimeout   int `yaml:"sentence_timeout_seconds" mapstructure:"sentence_timeout_seconds"`
}

// CacheConfig configures the optional judgment cache
type CacheConfig struct {
	Enabled    bool   `yaml:"enabled" mapstructure:"enabled"`
	TTLMinutes int    `yaml:"ttl_minutes" mapstructure:"ttl_minutes"`
	DiskDir    string `yaml:"disk_dir,omitempty" mapstructure:"disk_dir"` // Empty keeps the cache in memory only
}

// LogConfig configures the zap logger
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json, console
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:                3000,
			ReadTimeoutSeconds:  30,
			WriteTimeoutSeconds: 120,
			CORSOrigins:         []string{"*"},
			RequestsPerSecond:   5,
			Burst:               10,
			Mode:                "release",
		},
		LLM: LLMConfig{
			Provider:  "openai",
			Model:     "gpt-4o-mini",
			Timeout:   30,
			MaxTokens: 1000,
		},
		Humanize: HumanizeConfig{
			MaxWords: 200,
		},
		Detect: DetectConfig{
			MaxWords:          800,
			MinSentenceLength: 10,
			Concurrency:       4,
			SentenceTimeout:   20,
		},
		Cache: CacheConfig{
			Enabled:    false, // Requests stay stateless unless opted in
			TTLMinutes: 60,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
