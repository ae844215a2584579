package daily

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

func TestDateKey_UsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	local := time.Date(2022, 11, 11, 5, 0, 0, 0, loc)
	assert.Equal(t, "2022-11-10", DateKey(local))
}

func TestParseDateKey(t *testing.T) {
	got, err := ParseDateKey("2022-11-10")
	require.NoError(t, err)
	assert.Equal(t, "2022-11-10", DateKey(got))

	_, err = ParseDateKey("10/11/2022")
	require.Error(t, err)
}

func TestWordIndex_DeterministicAndBounded(t *testing.T) {
	day := time.Date(2022, 11, 10, 12, 0, 0, 0, time.UTC)
	sameDay := time.Date(2022, 11, 10, 23, 59, 0, 0, time.UTC)

	a := WordIndex(day, "salt", 779)
	assert.Equal(t, a, WordIndex(sameDay, "salt", 779))
	assert.GreaterOrEqual(t, a, 0)
	assert.Less(t, a, 779)
	assert.Zero(t, WordIndex(day, "salt", 0))

	// Different days or salts should not all collapse onto one index.
	seen := map[int]bool{}
	for i := 0; i < 30; i++ {
		seen[WordIndex(day.AddDate(0, 0, i), "salt", 779)] = true
	}
	assert.Greater(t, len(seen), 10)
}

func TestAnswer(t *testing.T) {
	d, err := words.New([]string{"crane", "slate", "point"})
	require.NoError(t, err)
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	got := Answer(d, "salt", day)
	assert.True(t, d.Contains(got))
	assert.Equal(t, got, Answer(d, "salt", day))
	assert.Equal(t, d.At(WordIndex(day, "salt", 3)), got)
}
