package game

import (
	"errors"
	"fmt"
)

var (
	// ErrContract marks caller bugs: wrong lengths, guessing after the game
	// ended, malformed feedback. These are never retried.
	ErrContract = errors.New("contract violation")

	// ErrNotAllowed is returned when a guess is well formed but outside the
	// word list an oracle accepts.
	ErrNotAllowed = errors.New("not in word list")
)

// ContractError describes a contract violation and the operation it hit.
type ContractError struct {
	Op  string
	Msg string
}

func (e *ContractError) Error() string {
	if e == nil {
		return ""
	}
	if e.Op == "" {
		return fmt.Sprintf("%s: %s", ErrContract, e.Msg)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, ErrContract, e.Msg)
}

func (e *ContractError) Unwrap() error { return ErrContract }

// Contractf builds a *ContractError for op.
func Contractf(op, format string, args ...any) error {
	return &ContractError{Op: op, Msg: fmt.Sprintf(format, args...)}
}

// CheckWord verifies that w has length n and is lowercase a–z.
func CheckWord(op, w string, n int) error {
	if len(w) != n {
		return Contractf(op, "word %q has length %d, expected %d", w, len(w), n)
	}
	if !IsAlpha(w) {
		return Contractf(op, "word %q must contain only lowercase letters a-z", w)
	}
	return nil
}

// IsAlpha reports whether s consists only of lowercase a–z.
func IsAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}
