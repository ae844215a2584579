package filter

// letterIndex maps a letter to the candidates containing it. It is derived
// from the candidate set and rebuilt on demand after each narrow.
type letterIndex struct {
	byLetter [26][]string
}

func buildIndex(candidates []string) *letterIndex {
	idx := &letterIndex{}
	for _, w := range candidates {
		var seen [26]bool
		for i := 0; i < len(w); i++ {
			l := w[i] - 'a'
			if l >= 26 || seen[l] {
				continue
			}
			seen[l] = true
			idx.byLetter[l] = append(idx.byLetter[l], w)
		}
	}
	return idx
}

// WithLetter returns the candidates containing letter c, in candidate order.
// The result must not be modified.
func (f *Filter) WithLetter(c byte) []string {
	if c < 'a' || c > 'z' {
		return nil
	}
	if f.index == nil {
		f.index = buildIndex(f.candidates)
	}
	return f.index.byLetter[c-'a']
}

// LetterCounts reports, for each letter, how many candidates contain it.
func (f *Filter) LetterCounts() map[byte]int {
	out := make(map[byte]int)
	for c := byte('a'); c <= 'z'; c++ {
		if n := len(f.WithLetter(c)); n > 0 {
			out[c] = n
		}
	}
	return out
}
