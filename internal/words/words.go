// internal/words/words.go
//
// Provides dictionary management for the oracle and the candidate filter.
//
// Responsibilities:
//   - Load a word list from a file or fall back to the embedded default.
//   - Validate that every word is lowercase a–z and of one uniform length.
//   - Keep a set for quick lookups next to the ordered list.
//   - Supply utility functions like Random, Contains and Fingerprint.
//
// File format:
//   - One word per line, or comma-separated words, or a mix of both.
//   - Blank lines and lines starting with '#' are ignored.
//   - Words are trimmed and lowercased; duplicates keep the first occurrence.
//
// A Dictionary is immutable once built and safe to share between goroutines.

package words

import (
	"bufio"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"
	"sync"

	"golang.org/x/crypto/blake2b"

	"github.com/robalobadob/wordle/apps/go-solver/assets"
	"github.com/robalobadob/wordle/apps/go-solver/internal/game"
)

// ErrEmpty is returned when a word list holds no words.
var ErrEmpty = errors.New("words: word list is empty")

// Dictionary is an ordered, deduplicated list of equal-length words.
type Dictionary struct {
	words  []string
	set    map[string]struct{}
	length int
}

// New builds a Dictionary from list, preserving order.
func New(list []string) (*Dictionary, error) {
	d := &Dictionary{set: make(map[string]struct{}, len(list))}
	for i, raw := range list {
		w := strings.ToLower(strings.TrimSpace(raw))
		if err := d.add(w); err != nil {
			return nil, fmt.Errorf("words: entry %d: %w", i, err)
		}
	}
	if len(d.words) == 0 {
		return nil, ErrEmpty
	}
	return d, nil
}

// add validates w and appends it unless already present.
func (d *Dictionary) add(w string) error {
	if w == "" || !game.IsAlpha(w) {
		return fmt.Errorf("%q is not a lowercase alphabetic word", w)
	}
	if d.length == 0 {
		d.length = len(w)
	} else if len(w) != d.length {
		return fmt.Errorf("%q has length %d, expected %d", w, len(w), d.length)
	}
	if _, dup := d.set[w]; dup {
		return nil
	}
	d.set[w] = struct{}{}
	d.words = append(d.words, w)
	return nil
}

// Parse reads a newline- or comma-delimited word list.
func Parse(r io.Reader) (*Dictionary, error) {
	d := &Dictionary{set: make(map[string]struct{}, 4096)}
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		for _, field := range strings.Split(s, ",") {
			w := strings.ToLower(strings.TrimSpace(field))
			if w == "" {
				continue
			}
			if err := d.add(w); err != nil {
				return nil, fmt.Errorf("words: line %d: %w", line, err)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("words: read: %w", err)
	}
	if len(d.words) == 0 {
		return nil, ErrEmpty
	}
	return d, nil
}

// Load reads a word list file from path.
func Load(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("words: open %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

var (
	defaultOnce sync.Once
	defaultDict *Dictionary
	defaultErr  error
)

// Default returns the embedded dictionary, parsed once.
func Default() (*Dictionary, error) {
	defaultOnce.Do(func() {
		f, err := assets.OpenWords()
		if err != nil {
			defaultErr = fmt.Errorf("words: open embedded list: %w", err)
			return
		}
		defer f.Close()
		defaultDict, defaultErr = Parse(f)
	})
	return defaultDict, defaultErr
}

// LoadOrDefault loads path, or the embedded list when path is empty.
func LoadOrDefault(path string) (*Dictionary, error) {
	if path == "" {
		return Default()
	}
	return Load(path)
}

// Words returns a copy of the ordered word list.
func (d *Dictionary) Words() []string { return append([]string(nil), d.words...) }

// Len reports the number of words.
func (d *Dictionary) Len() int { return len(d.words) }

// WordLength reports the uniform word length.
func (d *Dictionary) WordLength() int { return d.length }

// At returns the i-th word.
func (d *Dictionary) At(i int) string { return d.words[i] }

// Contains reports whether w is in the dictionary (case-insensitive).
func (d *Dictionary) Contains(w string) bool {
	_, ok := d.set[strings.ToLower(w)]
	return ok
}

// Random returns a cryptographically random word.
func (d *Dictionary) Random() string {
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(len(d.words))))
	if err != nil {
		return d.words[0]
	}
	return d.words[nBig.Int64()]
}

// Fingerprint is a BLAKE2b-256 digest of the ordered list. Two parties with
// the same fingerprint filter and score against the same words.
func (d *Dictionary) Fingerprint() string {
	h, _ := blake2b.New256(nil)
	for _, w := range d.words {
		_, _ = io.WriteString(h, w)
		_, _ = h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}
