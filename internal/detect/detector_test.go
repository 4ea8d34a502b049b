package detect

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/himanshumishra9911/ai-text-humanizer-api/internal/model"
	"github.com/himanshumishra9911/ai-text-humanizer-api/internal/score"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubClassifier returns scripted judgments keyed by sentence
type stubClassifier struct {
	scores   map[string]int
	fallback int
	fail     map[string]bool
	delay    time.Duration

	calls       atomic.Int32
	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func (s *stubClassifier) Classify(ctx context.Context, sentence string) (score.Judgment, error) {
	s.calls.Add(1)
	n := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		cur := s.maxInFlight.Load()
		if n <= cur || s.maxInFlight.CompareAndSwap(cur, n) {
			break
		}
	}

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return score.Judgment{}, ctx.Err()
		}
	}
	if s.fail[sentence] {
		return score.Judgment{}, &model.UpstreamError{Op: "classify", Err: errors.New("boom")}
	}
	ai, ok := s.scores[sentence]
	if !ok {
		ai = s.fallback
	}
	return score.Judgment{AI: ai, Human: 100 - ai, Reason: "stub"}, nil
}

func newDetector(c Classifier, opts Options) *Detector {
	return New(c, score.NewAggregator(score.DefaultPolicy()), opts)
}

func TestDetect_TwoAISentences(t *testing.T) {
	c := &stubClassifier{fallback: 80}
	d := newDetector(c, Options{})

	res, err := d.Detect(context.Background(), model.DetectRequest{Text: "The system works well. It is efficient."})
	require.NoError(t, err)

	assert.Equal(t, 95, res.Overall.AIProbability)
	assert.Equal(t, 5, res.Overall.HumanProbability)
	assert.Equal(t, model.VerdictLikelyAI, res.Overall.Verdict)
	assert.Equal(t, 7, res.WordsUsed)
	assert.Equal(t, 793, res.WordsLeft)

	require.Len(t, res.Sentences, 2)
	assert.Equal(t, "The system works well.", res.Sentences[0].Sentence)
	assert.Equal(t, "It is efficient.", res.Sentences[1].Sentence)
	assert.Equal(t, model.HighlightHigh, res.Sentences[0].Highlight)
}

func TestDetect_PreservesOrder(t *testing.T) {
	sentences := []string{
		"First sentence is here.",
		"Second sentence is here.",
		"Third sentence is here.",
		"Fourth sentence is here.",
		"Fifth sentence is here.",
		"Sixth sentence is here.",
	}
	scores := map[string]int{}
	for i, s := range sentences {
		scores[s] = i * 15
	}
	c := &stubClassifier{scores: scores, delay: 5 * time.Millisecond}
	d := newDetector(c, Options{Concurrency: 3})

	res, err := d.Detect(context.Background(), model.DetectRequest{Text: strings.Join(sentences, " ")})
	require.NoError(t, err)

	require.Len(t, res.Sentences, len(sentences))
	for i, j := range res.Sentences {
		assert.Equal(t, sentences[i], j.Sentence)
		assert.Equal(t, i*15, j.AI)
	}
	assert.LessOrEqual(t, c.maxInFlight.Load(), int32(3))
}

func TestDetect_FailureUsesFallback(t *testing.T) {
	c := &stubClassifier{
		fallback: 10,
		fail:     map[string]bool{"This one will fail.": true},
	}
	d := newDetector(c, Options{})

	res, err := d.Detect(context.Background(), model.DetectRequest{Text: "This one will fail. This one is fine."})
	require.NoError(t, err)

	require.Len(t, res.Sentences, 2)
	assert.Equal(t, 70, res.Sentences[0].AI)
	assert.Equal(t, 30, res.Sentences[0].Human)
	assert.Equal(t, "Neutral structured sentence", res.Sentences[0].Reason)
	assert.Equal(t, 10, res.Sentences[1].AI)
	// one heavy, one human: blend = round((80 + 20) / 2)
	assert.Equal(t, 50, res.Overall.AIProbability)
}

func TestDetect_TimeoutUsesFallback(t *testing.T) {
	c := &stubClassifier{fallback: 0, delay: time.Second}
	d := newDetector(c, Options{SentenceTimeout: 10 * time.Millisecond})

	res, err := d.Detect(context.Background(), model.DetectRequest{Text: "A slow sentence to judge."})
	require.NoError(t, err)
	require.Len(t, res.Sentences, 1)
	assert.Equal(t, 70, res.Sentences[0].AI)
}

func TestDetect_Cancelled(t *testing.T) {
	c := &stubClassifier{delay: time.Second}
	d := newDetector(c, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := d.Detect(ctx, model.DetectRequest{Text: "One long sentence here. Another long sentence."})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDetect_Trusted(t *testing.T) {
	c := &stubClassifier{fallback: 99}
	d := newDetector(c, Options{})

	res, err := d.Detect(context.Background(), model.DetectRequest{
		Text:         "Clearly machine written text. Another polished sentence.",
		TrustedHuman: true,
	})
	require.NoError(t, err)

	assert.Equal(t, int32(0), c.calls.Load(), "trusted requests must not call the classifier")
	assert.Equal(t, model.VerdictVerifiedHuman, res.Overall.Verdict)
	assert.Equal(t, 2, res.Overall.AIProbability)
	assert.Equal(t, 98, res.Overall.HumanProbability)
	for _, j := range res.Sentences {
		assert.Equal(t, 5, j.AI)
		assert.Equal(t, model.HighlightLow, j.Highlight)
	}
}

func TestDetect_Validation(t *testing.T) {
	d := newDetector(&stubClassifier{}, Options{MaxWords: 3})

	_, err := d.Detect(context.Background(), model.DetectRequest{Text: "   "})
	ve, ok := model.IsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "text required", ve.Message)

	_, err = d.Detect(context.Background(), model.DetectRequest{Text: "one two three four"})
	ve, ok = model.IsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "word limit exceeded", ve.Message)
	assert.Equal(t, 3, ve.Limit)

	res, err := d.Detect(context.Background(), model.DetectRequest{Text: "one two three"})
	require.NoError(t, err)
	assert.Equal(t, 0, res.WordsLeft)
}

func TestDetect_NoSentences(t *testing.T) {
	c := &stubClassifier{}
	d := newDetector(c, Options{})

	res, err := d.Detect(context.Background(), model.DetectRequest{Text: "Short."})
	require.NoError(t, err)

	assert.Empty(t, res.Sentences)
	assert.NotNil(t, res.Sentences)
	assert.Equal(t, 0, res.Overall.AIProbability)
	assert.Equal(t, model.VerdictLikelyHuman, res.Overall.Verdict)
	assert.Equal(t, int32(0), c.calls.Load())
}

func TestDetect_ConcurrentRequests(t *testing.T) {
	c := &stubClassifier{fallback: 20}
	d := newDetector(c, Options{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := d.Detect(context.Background(), model.DetectRequest{Text: "I honestly loved it. Best trip ever, no joke."})
			assert.NoError(t, err)
			if res != nil {
				assert.Equal(t, 0, res.Overall.AIProbability)
			}
		}()
	}
	wg.Wait()
}
