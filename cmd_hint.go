package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/robalobadob/wordle/apps/go-solver/internal/filter"
	"github.com/robalobadob/wordle/apps/go-solver/internal/game"
	"github.com/robalobadob/wordle/apps/go-solver/internal/policy"
)

// =============================================================================
// HINT COMMAND
// =============================================================================

// listThreshold is the candidate count at or below which hint lists them all.
const listThreshold = 10

const hintHelp = `Enter each guess with its feedback, e.g. "crane gybbb":
	g  green, right letter in the right place
	y  yellow, letter is elsewhere in the word
	b  grey, letter is not in the word (also - x .)
Commands: list, letters, reset, help, quit.`

func newHintCmd(a *app) *cobra.Command {
	var policyName string
	cmd := &cobra.Command{
		Use:   "hint",
		Short: "Suggest guesses for a game played elsewhere",
		Long:  "Reads \"guess feedback\" lines from stdin, narrows the candidates and suggests the next guess.\n\n" + hintHelp,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("policy") {
				a.cfg.Policy = policyName
				if err := a.cfg.Validate(); err != nil {
					return err
				}
			}
			p, err := a.buildPolicy()
			if err != nil {
				return err
			}
			in := cmd.InOrStdin()
			f, isFile := in.(*os.File)
			h := &hinter{
				filter: filter.New(a.dict, filter.WithMaxRounds(a.cfg.MaxGuesses)),
				policy: p,
				out:    newPrinter(cmd.OutOrStdout()),
				prompt: isFile && isTerminal(f),
			}
			return h.run(cmd.Context(), in)
		},
	}
	cmd.Flags().StringVar(&policyName, "policy", "", "guess policy (overrides POLICY)")
	return cmd
}

// hinter is the interactive assistant loop.
type hinter struct {
	filter *filter.Filter
	policy policy.Policy
	out    printer
	prompt bool
}

// run reads lines from in until quit, end of input, or a finished game.
func (h *hinter) run(ctx context.Context, in io.Reader) error {
	if err := h.suggest(); err != nil {
		return err
	}
	sc := bufio.NewScanner(in)
	for {
		if h.prompt {
			h.out.printf("> ")
		}
		if !sc.Scan() {
			return sc.Err()
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(sc.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "quit", "exit", "q":
			return nil
		case "help", "?":
			h.out.println(hintHelp)
			continue
		case "list":
			h.out.println(strings.Join(h.filter.Candidates(), " "))
			continue
		case "letters":
			h.out.println(h.letters())
			continue
		case "reset":
			h.filter.Reset()
			if err := h.suggest(); err != nil {
				return err
			}
			continue
		}

		guess, fb, err := parseHintLine(line)
		ruledOut := false
		if err == nil {
			ruledOut = !h.filter.Contains(guess)
			err = h.filter.Narrow(guess, fb)
		}
		if err != nil {
			h.out.println(h.out.style(styles.Error, "error: "+err.Error()))
			h.out.println(`type "help" for the input format`)
			continue
		}
		if ruledOut {
			h.out.println(h.out.style(styles.Muted, fmt.Sprintf("note: %s was already ruled out", guess)))
		}

		switch h.filter.Outcome() {
		case game.Won:
			h.out.println(h.out.style(styles.Success, fmt.Sprintf("solved: %s (%d guesses)", guess, h.filter.Rounds())))
			return nil
		case game.Lost:
			h.out.printf("out of guesses with %d candidates left: %s\n", h.filter.Len(), strings.Join(h.filter.Candidates(), " "))
			return nil
		}
		if err := h.suggest(); err != nil {
			return err
		}
	}
}

// suggest prints the candidate count and the policy's next guess.
func (h *hinter) suggest() error {
	candidates := h.filter.Candidates()
	if len(candidates) == 0 {
		h.out.println(h.out.style(styles.Error, `no candidates left; check the feedback or type "reset"`))
		return nil
	}
	next, err := h.policy.Next(candidates)
	if err != nil {
		return fmt.Errorf("pick guess: %w", err)
	}
	if len(candidates) <= listThreshold {
		h.out.printf("%d candidates: %s\n", len(candidates), strings.Join(candidates, " "))
	} else {
		h.out.printf("%d candidates\n", len(candidates))
	}
	h.out.printf("try %s\n", h.out.style(styles.Title, next))
	return nil
}

// letters renders how many candidates contain each letter, most common
// first, e.g. "e:31 r:20 a:12".
func (h *hinter) letters() string {
	counts := h.filter.LetterCounts()
	keys := make([]byte, 0, len(counts))
	for c := range counts {
		keys = append(keys, c)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	parts := make([]string, len(keys))
	for i, c := range keys {
		parts[i] = fmt.Sprintf("%c:%d", c, counts[c])
	}
	return strings.Join(parts, " ")
}

// parseHintLine splits "crane gybbb" into a guess and its feedback.
func parseHintLine(line string) (string, game.Feedback, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return "", nil, fmt.Errorf("want \"guess feedback\", got %q", line)
	}
	fb, err := game.ParseFeedback(fields[1])
	if err != nil {
		return "", nil, err
	}
	return strings.ToLower(fields[0]), fb, nil
}
