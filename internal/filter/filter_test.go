package filter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle/apps/go-solver/internal/game"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

func defaultDict(t *testing.T) *words.Dictionary {
	t.Helper()
	d, err := words.Default()
	require.NoError(t, err)
	return d
}

func mustFeedback(t *testing.T, pattern string) game.Feedback {
	t.Helper()
	fb, err := game.ParseFeedback(pattern)
	require.NoError(t, err)
	return fb
}

// assertExactly checks that the filter kept precisely the dictionary words
// satisfying want, and nothing else.
func assertExactly(t *testing.T, d *words.Dictionary, f *Filter, want func(w string) bool) {
	t.Helper()
	kept := make(map[string]bool, f.Len())
	for _, w := range f.Candidates() {
		kept[w] = true
	}
	matched := 0
	for _, w := range d.Words() {
		if want(w) {
			matched++
			assert.True(t, kept[w], "expected %q to be kept", w)
		} else {
			assert.False(t, kept[w], "expected %q to be removed", w)
		}
	}
	assert.Equal(t, matched, f.Len())
	assert.Positive(t, matched, "fixture should keep at least one word")
}

func TestNarrow_OneGreen(t *testing.T) {
	d := defaultDict(t)
	f := New(d)
	require.NoError(t, f.Narrow("eeeee", mustFeedback(t, "gbbbb")))

	assertExactly(t, d, f, func(w string) bool {
		return w[0] == 'e' && strings.Count(w, "e") == 1
	})
}

func TestNarrow_TwoYellow(t *testing.T) {
	d := defaultDict(t)
	f := New(d)
	require.NoError(t, f.Narrow("eezzz", mustFeedback(t, "yybbb")))

	assertExactly(t, d, f, func(w string) bool {
		return w[0] != 'e' && w[1] != 'e' &&
			strings.Count(w, "e") >= 2 && strings.Count(w, "z") == 0
	})
	assert.True(t, f.Contains("crepe"))
	assert.False(t, f.Contains("eerie"))
}

func TestNarrow_OneGreenOneYellow(t *testing.T) {
	d := defaultDict(t)
	f := New(d)
	require.NoError(t, f.Narrow("eeezz", mustFeedback(t, "gybbb")))

	assertExactly(t, d, f, func(w string) bool {
		return w[0] == 'e' && w[1] != 'e' && w[2] != 'e' &&
			strings.Count(w, "e") == 2 && strings.Count(w, "z") == 0
	})
}

func TestNarrow_AllGrey(t *testing.T) {
	d := defaultDict(t)
	f := New(d)
	require.NoError(t, f.Narrow("eeeee", mustFeedback(t, "bbbbb")))

	assertExactly(t, d, f, func(w string) bool {
		return !strings.Contains(w, "e")
	})
}

func TestNarrow_EerieDuplicateLetters(t *testing.T) {
	d := defaultDict(t)
	fb, err := game.Score("eerie", "eeeee")
	require.NoError(t, err)
	require.Equal(t, game.Feedback{game.Green, game.Green, game.Grey, game.Grey, game.Green}, fb)

	f := New(d)
	require.NoError(t, f.Narrow("eeeee", fb))
	assertExactly(t, d, f, func(w string) bool {
		return w[0] == 'e' && w[1] == 'e' && w[4] == 'e' && strings.Count(w, "e") == 3
	})
	assert.True(t, f.Contains("eerie"))
}

func TestNarrow_YellowAndGreyOnSameLetterIsExact(t *testing.T) {
	d, err := words.New([]string{"speed", "spelt", "seeee", "eases"})
	require.NoError(t, err)
	f := New(d, WithMaxRounds(0))

	// "eerie" against "speed": e(0) yellow, e(1) yellow, r grey, i grey, e(4) grey.
	fb, err := game.Score("speed", "eerie")
	require.NoError(t, err)
	require.Equal(t, "yybbb", fb.String())

	require.NoError(t, f.Narrow("eerie", fb))
	// Exactly two e's, none at positions 0, 1 or 4.
	assert.Equal(t, []string{"speed"}, f.Candidates())
}

func TestNarrow_IdempotentUnderConsistentFeedback(t *testing.T) {
	d := defaultDict(t)
	f := New(d, WithMaxRounds(0))
	require.NoError(t, f.Narrow("eeeee", mustFeedback(t, "bbbbb")))
	before := f.Candidates()

	// Every remaining candidate lacks 'e', so this pair is consistent with all.
	require.NoError(t, f.Narrow("eeeee", mustFeedback(t, "bbbbb")))
	assert.ElementsMatch(t, before, f.Candidates())
}

func TestNarrow_MonotonicAndSound(t *testing.T) {
	d := defaultDict(t)
	guesses := []string{"crane", "point", "lusty", "debug", "whack"}

	for i := 0; i < d.Len(); i += 13 {
		answer := d.At(i)
		f := New(d, WithMaxRounds(0))
		prev := f.Len()
		for _, g := range guesses {
			fb, err := game.Score(answer, g)
			require.NoError(t, err)
			require.NoError(t, f.Narrow(g, fb))

			assert.LessOrEqual(t, f.Len(), prev, "answer %s guess %s", answer, g)
			assert.True(t, f.Contains(answer), "answer %s dropped after %s/%s", answer, g, fb)
			prev = f.Len()
			if f.Outcome().Terminal() {
				break
			}
		}
	}
}

func TestNarrow_InconsistentFeedbackEmptiesSet(t *testing.T) {
	d := defaultDict(t)
	f := New(d, WithMaxRounds(0))
	require.NoError(t, f.Narrow("eeeee", mustFeedback(t, "bbbbb")))
	// Claims an 'e' after all 'e's were ruled out.
	require.NoError(t, f.Narrow("eeeee", mustFeedback(t, "gbbbb")))
	assert.Zero(t, f.Len())
	assert.Empty(t, f.Candidates())
}

func TestNarrow_ContractViolations(t *testing.T) {
	d := defaultDict(t)
	f := New(d)

	err := f.Narrow("cranes", mustFeedback(t, "bbbbb"))
	require.ErrorIs(t, err, game.ErrContract)
	assert.Contains(t, err.Error(), `"cranes"`)

	err = f.Narrow("crane", mustFeedback(t, "bbbb"))
	require.ErrorIs(t, err, game.ErrContract)
	assert.Contains(t, err.Error(), "expected 5")

	err = f.Narrow("CRANE", mustFeedback(t, "bbbbb"))
	require.ErrorIs(t, err, game.ErrContract)

	err = f.Narrow("crane", game.Feedback{game.Grey, game.Grey, game.Grey, game.Grey, game.Validity(7)})
	require.ErrorIs(t, err, game.ErrContract)

	// None of the rejected calls touched the candidate set.
	assert.Equal(t, d.Len(), f.Len())
	assert.Zero(t, f.Rounds())
}

func TestNarrow_TerminalAfterWin(t *testing.T) {
	d := defaultDict(t)
	f := New(d)
	require.NoError(t, f.Narrow("crane", mustFeedback(t, "ggggg")))
	assert.Equal(t, game.Won, f.Outcome())
	assert.Equal(t, []string{"crane"}, f.Candidates())

	err := f.Narrow("crane", mustFeedback(t, "ggggg"))
	require.ErrorIs(t, err, game.ErrContract)
	assert.Contains(t, err.Error(), "game already won")
}

func TestNarrow_TerminalAfterBudget(t *testing.T) {
	d := defaultDict(t)
	f := New(d)
	for i := 0; i < game.MaxGuesses; i++ {
		require.Equal(t, game.Running, f.Outcome())
		require.NoError(t, f.Narrow("zzzzz", mustFeedback(t, "bbbbb")))
	}
	assert.Equal(t, game.Lost, f.Outcome())

	err := f.Narrow("zzzzz", mustFeedback(t, "bbbbb"))
	require.ErrorIs(t, err, game.ErrContract)
	assert.Contains(t, err.Error(), "game already lost")
}

func TestReset(t *testing.T) {
	d := defaultDict(t)
	f := New(d)
	require.NoError(t, f.Narrow("crane", mustFeedback(t, "ggggg")))
	require.Equal(t, 1, f.Len())

	f.Reset()
	assert.Equal(t, d.Len(), f.Len())
	assert.Equal(t, game.Running, f.Outcome())
	assert.Zero(t, f.Rounds())
	assert.Equal(t, d.Words(), f.Candidates())

	require.NoError(t, f.Narrow("eeeee", mustFeedback(t, "bbbbb")))
}

func TestFilters_AreIndependent(t *testing.T) {
	d := defaultDict(t)
	a := New(d)
	b := New(d)
	require.NoError(t, a.Narrow("eeeee", mustFeedback(t, "bbbbb")))

	assert.Equal(t, d.Len(), b.Len())
	assert.Equal(t, d.Len(), len(d.Words()))
}

func TestWithLetter_RebuiltAfterNarrow(t *testing.T) {
	d, err := words.New([]string{"crane", "slate", "point", "eerie"})
	require.NoError(t, err)
	f := New(d)

	assert.Equal(t, []string{"crane", "slate", "eerie"}, f.WithLetter('e'))
	assert.Equal(t, []string{"point"}, f.WithLetter('o'))
	assert.Nil(t, f.WithLetter('Z'))

	require.NoError(t, f.Narrow("zzzzz", mustFeedback(t, "bbbbb")))
	require.NoError(t, f.Narrow("eeeee", mustFeedback(t, "bbbbb")))
	assert.Empty(t, f.WithLetter('e'))
	assert.Equal(t, []string{"point"}, f.WithLetter('p'))
	assert.Equal(t, map[byte]int{'p': 1, 'o': 1, 'i': 1, 'n': 1, 't': 1}, f.LetterCounts())
}

func TestConsistent(t *testing.T) {
	assert.True(t, Consistent("crepe", "eerie", mustFeedback(t, "ybybg")))
	assert.False(t, Consistent("eerie", "eerie", mustFeedback(t, "ybybg")))
	assert.False(t, Consistent("crepe", "eerie", mustFeedback(t, "ybyb")))
	assert.False(t, Consistent("crepe", "eeri", mustFeedback(t, "ybyb")))
}
