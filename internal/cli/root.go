package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/himanshumishra9911/ai-text-humanizer-api/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is set at build time with -ldflags "-X .../internal/cli.Version=..."
var Version = "dev"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "humanizer",
	Short: "Humanizer - rewrite AI text casually and score text for AI authorship",
	Long: `Humanizer rewrites text so it reads as casually human-written and
scores text sentence by sentence for the likelihood that an AI model wrote it.

Both pipelines delegate the language work to an LLM provider (OpenAI,
Anthropic or a local Ollama model). Detection scores are approximate
heuristics, not proof of authorship.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "humanizer %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.humanizer/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	rootCmd.PersistentFlags().String("provider", "", "LLM provider (openai, anthropic, ollama)")
	rootCmd.PersistentFlags().String("model", "", "LLM model name")
	rootCmd.PersistentFlags().String("log-format", "", "log format (json, console)")

	_ = viper.BindPFlag("llm.provider", rootCmd.PersistentFlags().Lookup("provider"))
	_ = viper.BindPFlag("llm.model", rootCmd.PersistentFlags().Lookup("model"))
	_ = viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
		} else {
			viper.AddConfigPath(filepath.Join(home, ".humanizer"))
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	configureViper(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// configureViper registers defaults and environment bindings. Every key
// needs a default so AutomaticEnv can see it.
func configureViper(v *viper.Viper) {
	d := model.DefaultConfig()

	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.read_timeout_seconds", d.Server.ReadTimeoutSeconds)
	v.SetDefault("server.write_timeout_seconds", d.Server.WriteTimeoutSeconds)
	v.SetDefault("server.cors_origins", d.Server.CORSOrigins)
	v.SetDefault("server.requests_per_second", d.Server.RequestsPerSecond)
	v.SetDefault("server.burst", d.Server.Burst)
	v.SetDefault("server.mode", d.Server.Mode)

	v.SetDefault("llm.provider", d.LLM.Provider)
	v.SetDefault("llm.model", d.LLM.Model)
	v.SetDefault("llm.api_key", d.LLM.APIKey)
	v.SetDefault("llm.base_url", d.LLM.BaseURL)
	v.SetDefault("llm.timeout", d.LLM.Timeout)
	v.SetDefault("llm.max_tokens", d.LLM.MaxTokens)
	v.SetDefault("llm.requests_per_second", d.LLM.RequestsPerSecond)
	v.SetDefault("llm.http_proxy", d.LLM.HTTPProxy)
	v.SetDefault("llm.https_proxy", d.LLM.HTTPSProxy)
	v.SetDefault("llm.no_proxy", d.LLM.NoProxy)

	v.SetDefault("humanize.max_words", d.Humanize.MaxWords)

	v.SetDefault("detect.max_words", d.Detect.MaxWords)
	v.SetDefault("detect.min_sentence_length", d.Detect.MinSentenceLength)
	v.SetDefault("detect.concurrency", d.Detect.Concurrency)
	v.SetDefault("detect.sentence_timeout_seconds", d.Detect.SentenceTimeout)

	v.SetDefault("cache.enabled", d.Cache.Enabled)
	v.SetDefault("cache.ttl_minutes", d.Cache.TTLMinutes)
	v.SetDefault("cache.disk_dir", d.Cache.DiskDir)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)

	// HUMANIZER_SERVER_PORT, HUMANIZER_LLM_PROVIDER, ...
	v.SetEnvPrefix("HUMANIZER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Conventional names used by hosting platforms and provider SDKs
	_ = v.BindEnv("server.port", "HUMANIZER_SERVER_PORT", "PORT")
	_ = v.BindEnv("llm.http_proxy", "HUMANIZER_LLM_HTTP_PROXY", "HTTP_PROXY")
	_ = v.BindEnv("llm.https_proxy", "HUMANIZER_LLM_HTTPS_PROXY", "HTTPS_PROXY")
	_ = v.BindEnv("llm.no_proxy", "HUMANIZER_LLM_NO_PROXY", "NO_PROXY")
}

// loadConfig resolves the effective configuration
func loadConfig(v *viper.Viper) (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	// Provider-specific environment fallbacks
	switch strings.ToLower(cfg.LLM.Provider) {
	case "openai", "":
		if cfg.LLM.APIKey == "" {
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	case "anthropic", "claude":
		if cfg.LLM.APIKey == "" {
			cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		clearDefaultModel(cfg)
	case "ollama":
		if cfg.LLM.BaseURL == "" {
			cfg.LLM.BaseURL = os.Getenv("OLLAMA_BASE_URL")
		}
		clearDefaultModel(cfg)
	}

	if verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

// clearDefaultModel drops the OpenAI default model name, which means nothing
// to other providers
func clearDefaultModel(cfg *model.Config) {
	if cfg.LLM.Model == model.DefaultConfig().LLM.Model {
		cfg.LLM.Model = ""
	}
}
