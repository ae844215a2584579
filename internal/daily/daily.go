// Package daily derives a deterministic answer of the day from a salt and
// the UTC date, so every player and solver sees the same word on a given day.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

const dateLayout = "2006-01-02"

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// ParseDateKey parses a YYYY-MM-DD key as midnight UTC.
func ParseDateKey(key string) (time.Time, error) {
	t, err := time.Parse(dateLayout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("daily: invalid date %q: %w", key, err)
	}
	return t, nil
}

// WordIndex returns HMAC-SHA256(salt, YYYY-MM-DD) mod n.
func WordIndex(date time.Time, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// First 8 bytes as a big-endian uint64 spread well enough over n.
	v := binary.BigEndian.Uint64(sum[:8])
	return int(v % uint64(n))
}

// Answer returns the dictionary word for date.
func Answer(d *words.Dictionary, salt string, date time.Time) string {
	return d.At(WordIndex(date, salt, d.Len()))
}
