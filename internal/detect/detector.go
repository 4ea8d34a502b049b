// Package detect scores text for the likelihood that an AI model wrote it.
package detect

import (
	"context"
	"errors"
	"time"

	"github.com/himanshumishra9911/ai-text-humanizer-api/internal/extract"
	"github.com/himanshumishra9911/ai-text-humanizer-api/internal/model"
	"github.com/himanshumishra9911/ai-text-humanizer-api/internal/score"
	"github.com/himanshumishra9911/ai-text-humanizer-api/internal/validate"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Options configures a Detector
type Options struct {
	MaxWords          int
	MinSentenceLength int
	Concurrency       int           // Classifications in flight per request
	SentenceTimeout   time.Duration // Per classification call
	Logger            *zap.Logger
}

// DefaultOptions returns sensible defaults
func DefaultOptions() Options {
	return Options{
		MaxWords:          800,
		MinSentenceLength: extract.DefaultMinSentenceLength,
		Concurrency:       4,
		SentenceTimeout:   20 * time.Second,
	}
}

// OptionsFromModel converts model.DetectConfig to Options
func OptionsFromModel(cfg model.DetectConfig, log *zap.Logger) Options {
	return Options{
		MaxWords:          cfg.MaxWords,
		MinSentenceLength: cfg.MinSentenceLength,
		Concurrency:       cfg.Concurrency,
		SentenceTimeout:   time.Duration(cfg.SentenceTimeout) * time.Second,
		Logger:            log,
	}
}

// Detector runs the detect pipeline
type Detector struct {
	classifier Classifier
	aggregator *score.Aggregator
	opts       Options
	log        *zap.Logger
}

// New creates a Detector. Zero option fields take their defaults.
func New(classifier Classifier, aggregator *score.Aggregator, opts Options) *Detector {
	def := DefaultOptions()
	if opts.MaxWords <= 0 {
		opts.MaxWords = def.MaxWords
	}
	if opts.MinSentenceLength <= 0 {
		opts.MinSentenceLength = def.MinSentenceLength
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = def.Concurrency
	}
	if opts.SentenceTimeout <= 0 {
		opts.SentenceTimeout = def.SentenceTimeout
	}
	if aggregator == nil {
		aggregator = score.NewAggregator(score.DefaultPolicy())
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Detector{
		classifier: classifier,
		aggregator: aggregator,
		opts:       opts,
		log:        log,
	}
}

// MaxWords returns the configured word limit
func (d *Detector) MaxWords() int {
	return d.opts.MaxWords
}

// Detect validates the request, classifies each sentence and aggregates
// the judgments. A failed classification degrades to the fallback judgment;
// only validation errors and cancellation of ctx fail the call.
func (d *Detector) Detect(ctx context.Context, req model.DetectRequest) (*model.DetectResult, error) {
	input, err := validate.Text(req.Text, d.opts.MaxWords)
	if err != nil {
		return nil, err
	}

	sentences := extract.SplitSentences(input.Text, d.opts.MinSentenceLength)

	var (
		overall   model.Overall
		judgments []model.SentenceJudgment
		breakdown score.Breakdown
	)

	if req.TrustedHuman {
		d.log.Info("trusted_human flag set, skipping classification",
			zap.Int("sentences", len(sentences)))
		overall, judgments, breakdown = d.aggregator.Trusted(sentences)
	} else {
		judgments, err = d.classifyAll(ctx, sentences)
		if err != nil {
			return nil, err
		}
		overall, breakdown = d.aggregator.Aggregate(judgments)
	}

	d.log.Debug("aggregated detection",
		zap.Int("total", breakdown.Total),
		zap.Int("ai_heavy", breakdown.AIHeavy),
		zap.Int("mixed", breakdown.Mixed),
		zap.Int("human", breakdown.Human),
		zap.String("branch", string(breakdown.Branch)),
		zap.String("formula", breakdown.Formula),
		zap.Int("ai_probability", overall.AIProbability))

	return &model.DetectResult{
		WordsUsed: input.Words,
		WordsLeft: d.opts.MaxWords - input.Words,
		Overall:   overall,
		Sentences: judgments,
	}, nil
}

// classifyAll fans out one classification per sentence with bounded
// concurrency. Results land in their sentence's slot so order is kept.
func (d *Detector) classifyAll(ctx context.Context, sentences []string) ([]model.SentenceJudgment, error) {
	judgments := make([]model.SentenceJudgment, len(sentences))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.opts.Concurrency)

	for i, sentence := range sentences {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			callCtx, cancel := context.WithTimeout(gctx, d.opts.SentenceTimeout)
			defer cancel()

			j, err := d.classifier.Classify(callCtx, sentence)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				d.log.Warn("sentence classification failed, using fallback",
					zap.Int("index", i),
					zap.Bool("timeout", errors.Is(err, context.DeadlineExceeded)),
					zap.Error(err))
				judgments[i] = d.aggregator.Fallback(sentence)
				return nil
			}

			judgments[i] = d.aggregator.Sentence(sentence, j)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return judgments, nil
}
