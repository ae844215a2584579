package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

// bruteScore is the pairwise definition of the MaxMatches score.
func bruteScore(candidates []string, i int) int {
	w := candidates[i]
	matched := map[byte]bool{}
	for j, v := range candidates {
		if j == i {
			continue
		}
		for p := 0; p < len(w); p++ {
			if w[p] == v[p] {
				matched[w[p]] = true
			}
		}
	}
	return len(matched)
}

func bruteNext(candidates []string) string {
	best, bestScore := "", -1
	for i, w := range candidates {
		if s := bruteScore(candidates, i); s > bestScore {
			best, bestScore = w, s
		}
	}
	return best
}

func TestMaxMatches_Examples(t *testing.T) {
	tests := []struct {
		name       string
		candidates []string
		want       string
	}{
		{"distinct letters beat pair count", []string{"crane", "slate", "point"}, "crane"},
		{"no matches keeps first", []string{"abcde", "fghij"}, "abcde"},
		{"repeated letters count once", []string{"aaaaa", "abbbb", "bbbbb"}, "abbbb"},
		{"tie goes to first maximum", []string{"crane", "crate", "grade", "trace"}, "crane"},
		{"single candidate", []string{"eerie"}, "eerie"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MaxMatches{}.Next(tt.candidates)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, bruteNext(tt.candidates), got)
		})
	}
}

func TestMaxMatches_AgreesWithPairwiseDefinition(t *testing.T) {
	d, err := words.Default()
	require.NoError(t, err)
	all := d.Words()

	for _, step := range []int{1, 3, 7, 29} {
		var sample []string
		for i := 0; i < len(all); i += step {
			sample = append(sample, all[i])
		}
		got, err := MaxMatches{}.Next(sample)
		require.NoError(t, err)
		assert.Equal(t, bruteNext(sample), got, "step %d", step)
	}
}

func TestMaxMatches_Deterministic(t *testing.T) {
	c := []string{"point", "crane", "slate", "crate"}
	first, err := MaxMatches{}.Next(c)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := MaxMatches{}.Next(c)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestPolicies_EmptyCandidates(t *testing.T) {
	for _, p := range []Policy{MaxMatches{}, First{}} {
		_, err := p.Next(nil)
		require.ErrorIs(t, err, ErrNoCandidates)
	}
}

func TestFirst(t *testing.T) {
	got, err := First{}.Next([]string{"slate", "crane"})
	require.NoError(t, err)
	assert.Equal(t, "slate", got)
}

func TestOpening(t *testing.T) {
	p := Opening{Word: "slate", Size: 3, Then: First{}}

	got, err := p.Next([]string{"crane", "point", "eerie"})
	require.NoError(t, err)
	assert.Equal(t, "slate", got)

	got, err = p.Next([]string{"crane", "point"})
	require.NoError(t, err)
	assert.Equal(t, "crane", got)
}

func TestFunc(t *testing.T) {
	p := Func(func(c []string) (string, error) { return c[len(c)-1], nil })
	got, err := p.Next([]string{"crane", "point"})
	require.NoError(t, err)
	assert.Equal(t, "point", got)
}

func TestLookup(t *testing.T) {
	p, err := Lookup("maxmatch")
	require.NoError(t, err)
	assert.IsType(t, MaxMatches{}, p)

	p, err = Lookup(" First ")
	require.NoError(t, err)
	assert.IsType(t, First{}, p)

	_, err = Lookup("dqn")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"dqn"`)
	assert.Contains(t, err.Error(), "first, maxmatch")
	assert.Equal(t, []string{"first", "maxmatch"}, Names())
}
