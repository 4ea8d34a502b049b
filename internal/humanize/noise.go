package humanize

import (
	"math/rand/v2"
	"strings"
	"sync"
)

// Rand is the random source used by Noise. *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

// segmentSep splits rewritten text into perturbable segments
const segmentSep = ". "

// minSegments is the least structure Noise needs before it touches the text
const minSegments = 3

// DefaultFillers are the openers Noise may prepend. The empty entry means
// no opener.
var DefaultFillers = []string{"", "Honestly, ", "Well, ", "To be fair, ", "I mean, "}

// DefaultEndings are the closers Noise may append. The empty entry means
// no closer.
var DefaultEndings = []string{"", " Just saying.", " Anyway, that's the gist.", " Hope that helps."}

// Noise perturbs rewritten text to vary its structure. The output is not
// reproducible unless Rand is seeded or scripted. Apply is safe for
// concurrent use; Rand is only touched under mu.
type Noise struct {
	Rand    Rand
	Fillers []string
	Endings []string

	mu sync.Mutex
}

// NewNoise returns a Noise with the default phrases. A nil r uses an
// unseeded source.
func NewNoise(r Rand) *Noise {
	if r == nil {
		r = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Noise{Rand: r, Fillers: DefaultFillers, Endings: DefaultEndings}
}

// NewSeededNoise returns a Noise whose output is fixed by seed
func NewSeededNoise(seed uint64) *Noise {
	return NewNoise(rand.New(rand.NewPCG(seed, seed)))
}

// Apply perturbs text. Text with fewer than three ". " segments is
// returned unchanged. Random draws happen in a fixed order: filler,
// segment, ending.
func (n *Noise) Apply(text string) string {
	segments := strings.Split(text, segmentSep)
	if len(segments) < minSegments {
		return text
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if filler := pick(n.Rand, n.Fillers); filler != "" {
		segments[0] = filler + segments[0]
	}

	i := n.Rand.IntN(len(segments))
	segments[i] = strings.Replace(segments[i], ",", "", 1)

	out := strings.Join(segments, segmentSep)
	return out + pick(n.Rand, n.Endings)
}

func pick(r Rand, choices []string) string {
	if len(choices) == 0 {
		return ""
	}
	return choices[r.IntN(len(choices))]
}
