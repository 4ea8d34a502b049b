package humanize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedRand returns queued values and records each n it was asked for
type scriptedRand struct {
	values []int
	asked  []int
}

func (r *scriptedRand) IntN(n int) int {
	r.asked = append(r.asked, n)
	if len(r.values) == 0 {
		return 0
	}
	v := r.values[0]
	r.values = r.values[1:]
	return v % n
}

func TestNoise_ShortInputUnchanged(t *testing.T) {
	r := &scriptedRand{values: []int{1, 0, 1}}
	n := NewNoise(r)

	for _, in := range []string{"", "One sentence only.", "First part. Second part, with comma."} {
		assert.Equal(t, in, n.Apply(in))
	}
	assert.Empty(t, r.asked, "no draws for short input")
}

func TestNoise_ExactOutput(t *testing.T) {
	r := &scriptedRand{values: []int{1, 1, 2}}
	n := NewNoise(r)

	in := "So, it works. Yes, it does. And, that is all"
	got := n.Apply(in)

	assert.Equal(t, "Honestly, So, it works. Yes it does. And, that is all Anyway, that's the gist.", got)
	assert.Equal(t, []int{5, 3, 4}, r.asked, "draw order is filler, segment, ending")
}

func TestNoise_EmptyChoices(t *testing.T) {
	r := &scriptedRand{values: []int{0, 2, 0}}
	n := NewNoise(r)

	in := "One. Two. Three without comma"
	assert.Equal(t, in, n.Apply(in))
}

func TestNoise_KeepsSegmentsInOrder(t *testing.T) {
	in := "The plan is simple, really. We start early, then we rest. After that, we review. Done, finally"
	segments := strings.Split(in, ". ")

	for seed := uint64(0); seed < 50; seed++ {
		out := NewSeededNoise(seed).Apply(in)

		pos := 0
		for _, seg := range segments {
			// Only the first comma of one segment may be removed
			candidates := []string{seg, strings.Replace(seg, ",", "", 1)}
			found := -1
			for _, c := range candidates {
				if idx := strings.Index(out[pos:], c); idx >= 0 {
					found = pos + idx + len(c)
					break
				}
			}
			require.GreaterOrEqual(t, found, 0, "seed %d lost segment %q in %q", seed, seg, out)
			pos = found
		}

		assert.LessOrEqual(t, strings.Count(in, ",")-strings.Count(out, ","), 1)
	}
}

func TestNoise_SeededIsReproducible(t *testing.T) {
	in := "Alpha, one. Beta, two. Gamma, three. Delta, four"
	assert.Equal(t, NewSeededNoise(42).Apply(in), NewSeededNoise(42).Apply(in))
}

func TestNoise_EmptyPhraseLists(t *testing.T) {
	r := &scriptedRand{values: []int{0}}
	n := &Noise{Rand: r}

	assert.Equal(t, "a. b. c", n.Apply("a. b. c"))
	assert.Equal(t, []int{3}, r.asked, "only the segment draw happens")
}
