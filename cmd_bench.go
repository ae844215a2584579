package main

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
	"github.com/robalobadob/wordle/apps/go-solver/internal/store"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

// =============================================================================
// BENCH COMMAND
// =============================================================================

type benchFlags struct {
	policy      string
	opening     string
	workers     int
	limit       int
	db          string
	store       string
	answersFile string
	json        bool
}

func newBenchCmd(a *app) *cobra.Command {
	var f benchFlags
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Play every answer and report win rate and guess distribution",
		Example: `  wordle bench
  wordle bench --policy first --limit 100
  wordle bench --db runs.db --workers 4`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("policy") {
				a.cfg.Policy = f.policy
			}
			if flags.Changed("opening") {
				a.cfg.Opening = f.opening
			}
			if flags.Changed("workers") {
				a.cfg.Workers = f.workers
			}
			if flags.Changed("db") {
				a.cfg.DBPath = f.db
			}
			if flags.Changed("store") {
				a.cfg.Store = f.store
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			return a.bench(cmd, f)
		},
	}
	cmd.Flags().StringVar(&f.policy, "policy", "", "guess policy (overrides POLICY)")
	cmd.Flags().StringVar(&f.opening, "opening", "", "fixed first guess (overrides OPENING)")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "parallel games, 0 for GOMAXPROCS (overrides WORKERS)")
	cmd.Flags().IntVar(&f.limit, "limit", 0, "play only the first N answers")
	cmd.Flags().StringVar(&f.db, "db", "", "record every game in this run store file or directory (overrides DB_PATH)")
	cmd.Flags().StringVar(&f.store, "store", "", "run store for --db: sqlite or badger (overrides STORE)")
	cmd.Flags().StringVar(&f.answersFile, "answers", "", "answer list (default: the whole dictionary)")
	cmd.Flags().BoolVar(&f.json, "json", false, "print the summary as JSON")
	return cmd
}

func (a *app) bench(cmd *cobra.Command, f benchFlags) error {
	p, err := a.buildPolicy()
	if err != nil {
		return err
	}

	answers := a.dict.Words()
	if f.answersFile != "" {
		list, err := words.Load(f.answersFile)
		if err != nil {
			return fmt.Errorf("load answers: %w", err)
		}
		answers = list.Words()
	}
	if f.limit > 0 && f.limit < len(answers) {
		answers = answers[:f.limit]
	}

	cfg := solver.BenchConfig{
		Dict:       a.dict,
		Answers:    answers,
		Policy:     p,
		PolicyName: a.cfg.Policy,
		MaxGuesses: a.cfg.MaxGuesses,
		Workers:    a.cfg.Workers,
		Logger:     log.Logger,
	}
	if a.cfg.DBPath != "" {
		runs, err := store.Open(a.cfg.Store, a.cfg.DBPath)
		if err != nil {
			return err
		}
		defer runs.Close()
		ctx := cmd.Context()
		cfg.OnResult = func(gr solver.GameResult) error {
			_, err := runs.Save(ctx, recordOf(gr.Answer, "local", a.cfg.Policy, gr.Result, gr.Err))
			return err
		}
	}

	log.Info().Int("answers", len(answers)).Str("policy", a.cfg.Policy).Msg("bench started")
	_, sum, err := solver.Bench(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	if f.json {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(sum)
	}
	out := newPrinter(cmd.OutOrStdout())
	out.printf("%s", out.summary(a.cfg.Policy, sum))
	return nil
}
