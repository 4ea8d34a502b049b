package cli

import (
	"context"
	"time"

	"github.com/himanshumishra9911/ai-text-humanizer-api/internal/cache"
	"github.com/himanshumishra9911/ai-text-humanizer-api/internal/detect"
	"github.com/himanshumishra9911/ai-text-humanizer-api/internal/humanize"
	"github.com/himanshumishra9911/ai-text-humanizer-api/internal/llm"
	"github.com/himanshumishra9911/ai-text-humanizer-api/internal/logging"
	"github.com/himanshumishra9911/ai-text-humanizer-api/internal/model"
	"github.com/himanshumishra9911/ai-text-humanizer-api/internal/score"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// app holds the wired services shared by every command
type app struct {
	cfg       *model.Config
	log       *zap.Logger
	provider  llm.Provider
	humanizer *humanize.Humanizer
	detector  *detect.Detector
}

// newApp loads configuration and wires the pipelines. noise may be nil for
// a randomly seeded generator.
func newApp(noise *humanize.Noise) (*app, error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return nil, err
	}
	return buildApp(cfg, noise)
}

func buildApp(cfg *model.Config, noise *humanize.Noise) (*app, error) {
	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	llmCfg := llm.ConfigFromModel(cfg.LLM)
	llmCfg.Logger = log.Named("llm")
	provider, err := llm.NewProvider(llmCfg)
	if err != nil {
		return nil, err
	}

	var classifier detect.Classifier = detect.NewLLMClassifier(provider)
	if store := cache.New(cfg.Cache); store != nil {
		ttl := time.Duration(cfg.Cache.TTLMinutes) * time.Minute
		classifier = detect.NewCachedClassifier(classifier, store, cfg.LLM.Provider+"/"+cfg.LLM.Model, ttl, log.Named("cache"))
	}

	if noise == nil {
		noise = humanize.NewNoise(nil)
	}

	return &app{
		cfg:      cfg,
		log:      log,
		provider: provider,
		humanizer: humanize.New(
			humanize.NewRewriter(provider, cfg.LLM.MaxTokens),
			noise,
			cfg.Humanize.MaxWords,
			log.Named("humanize"),
		),
		detector: detect.New(
			classifier,
			score.NewAggregator(score.DefaultPolicy()),
			detect.OptionsFromModel(cfg.Detect, log.Named("detect")),
		),
	}, nil
}

// checkProvider logs whether the provider answers; it never fails startup
func (a *app) checkProvider(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if a.provider.IsAvailable(ctx) {
		a.log.Info("LLM provider reachable", zap.String("provider", a.provider.Name()))
		return
	}
	a.log.Warn("LLM provider not reachable, requests will fail or fall back",
		zap.String("provider", a.provider.Name()))
}

func (a *app) close() {
	_ = a.log.Sync()
}
