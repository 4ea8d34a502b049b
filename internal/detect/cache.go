package detect

import (
	"context"
	"encoding/json"
	"time"

	"github.com/himanshumishra9911/ai-text-humanizer-api/internal/cache"
	"github.com/himanshumishra9911/ai-text-humanizer-api/internal/score"
	"go.uber.org/zap"
)

// CachedClassifier remembers judgments per model and sentence. Failed
// classifications are never stored, so a fallback is retried next time.
type CachedClassifier struct {
	inner Classifier
	store cache.Cache
	model string
	ttl   time.Duration
	log   *zap.Logger
}

// NewCachedClassifier wraps inner. modelName partitions the key space so
// switching models does not serve stale judgments.
func NewCachedClassifier(inner Classifier, store cache.Cache, modelName string, ttl time.Duration, log *zap.Logger) *CachedClassifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &CachedClassifier{inner: inner, store: store, model: modelName, ttl: ttl, log: log}
}

// Classify returns a cached judgment or classifies and stores the result
func (c *CachedClassifier) Classify(ctx context.Context, sentence string) (score.Judgment, error) {
	key := cache.Key(c.model, sentence)

	if data, ok := c.store.Get(key); ok {
		var j score.Judgment
		if err := json.Unmarshal(data, &j); err == nil {
			return j, nil
		}
		_ = c.store.Delete(key)
	}

	j, err := c.inner.Classify(ctx, sentence)
	if err != nil {
		return j, err
	}

	if data, err := json.Marshal(j); err == nil {
		if err := c.store.Set(key, data, c.ttl); err != nil {
			c.log.Warn("judgment cache write failed", zap.Error(err))
		}
	}
	return j, nil
}
