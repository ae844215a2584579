package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordle/apps/go-solver/internal/daily"
	"github.com/robalobadob/wordle/apps/go-solver/internal/filter"
	"github.com/robalobadob/wordle/apps/go-solver/internal/game"
	"github.com/robalobadob/wordle/apps/go-solver/internal/oracle"
	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
	"github.com/robalobadob/wordle/apps/go-solver/internal/store"
)

// =============================================================================
// PLAY COMMAND
// =============================================================================

type playFlags struct {
	oracle     string
	policy     string
	answer     string
	url        string
	opening    string
	maxGuesses int
	db         string
	store      string
	date       string
	daily      bool
}

func newPlayCmd(a *app) *cobra.Command {
	var f playFlags
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Let the solver play one game",
		Long: `Let the solver play one game against an oracle.

  local   fixed --answer, or a random dictionary word
  daily   the answer of the day (DAILY_SALT)
  remote  a game hosted by "wordle serve" at --url (--daily for its answer of the day)`,
		Example: `  wordle play --answer crane
  wordle play --oracle daily --date 2025-03-01
  wordle play --oracle remote --url http://localhost:5175
  wordle play --oracle remote --url http://localhost:5175 --daily`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := f.apply(cmd, a); err != nil {
				return err
			}
			if f.daily && !strings.EqualFold(strings.TrimSpace(a.cfg.Oracle), "remote") {
				return errors.New("--daily applies to the remote oracle; use --oracle daily to play locally")
			}
			var date time.Time
			if f.date != "" {
				d, err := daily.ParseDateKey(f.date)
				if err != nil {
					return err
				}
				date = d
			}
			return a.play(cmd.Context(), newPrinter(cmd.OutOrStdout()), strings.ToLower(strings.TrimSpace(f.answer)), date, f.daily)
		},
	}
	cmd.Flags().StringVar(&f.oracle, "oracle", "", "oracle: local, daily or remote (overrides ORACLE)")
	cmd.Flags().StringVar(&f.policy, "policy", "", "guess policy (overrides POLICY)")
	cmd.Flags().StringVar(&f.answer, "answer", "", "fixed answer for the local or remote oracle")
	cmd.Flags().StringVar(&f.url, "url", "", "oracle server URL (overrides REMOTE_URL)")
	cmd.Flags().StringVar(&f.opening, "opening", "", "fixed first guess (overrides OPENING)")
	cmd.Flags().IntVar(&f.maxGuesses, "max-guesses", 0, "guess budget (overrides MAX_GUESSES)")
	cmd.Flags().StringVar(&f.db, "db", "", "record the run in this run store file or directory (overrides DB_PATH)")
	cmd.Flags().StringVar(&f.store, "store", "", "run store for --db: sqlite or badger (overrides STORE)")
	cmd.Flags().BoolVar(&f.daily, "daily", false, "remote oracle: play the server's answer of the day")
	cmd.Flags().StringVar(&f.date, "date", "", "day for the daily oracle, YYYY-MM-DD (default today, UTC)")
	return cmd
}

// apply folds the flags that were set into the app config.
func (f playFlags) apply(cmd *cobra.Command, a *app) error {
	flags := cmd.Flags()
	if flags.Changed("oracle") {
		a.cfg.Oracle = f.oracle
	}
	if flags.Changed("policy") {
		a.cfg.Policy = f.policy
	}
	if flags.Changed("url") {
		a.cfg.RemoteURL = f.url
	}
	if flags.Changed("opening") {
		a.cfg.Opening = f.opening
	}
	if flags.Changed("max-guesses") {
		a.cfg.MaxGuesses = f.maxGuesses
	}
	if flags.Changed("db") {
		a.cfg.DBPath = f.db
	}
	if flags.Changed("store") {
		a.cfg.Store = f.store
	}
	return a.cfg.Validate()
}

func (a *app) play(ctx context.Context, out printer, answer string, date time.Time, dailyAnswer bool) error {
	p, err := a.buildPolicy()
	if err != nil {
		return err
	}
	if answer != "" {
		if err := game.CheckWord("play", answer, a.dict.WordLength()); err != nil {
			return err
		}
	}
	o, err := oracle.Open(ctx, oracle.Options{
		Name:       a.cfg.Oracle,
		Answer:     answer,
		Salt:       a.cfg.DailySalt,
		Date:       date,
		URL:        a.cfg.RemoteURL,
		Daily:      dailyAnswer,
		Dict:       a.dict,
		MaxGuesses: a.cfg.MaxGuesses,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := oracle.Close(o); err != nil {
			log.Warn().Err(err).Msg("close oracle")
		}
	}()

	budget := a.cfg.MaxGuesses
	if r, ok := o.(*oracle.Remote); ok {
		budget = r.MaxGuesses()
		log.Info().Str("gameId", r.GameID()).Str("date", r.Date()).Int("maxGuesses", budget).Msg("remote game started")
	}

	n := 0
	s := solver.NewSession(o, p, filter.New(a.dict, filter.WithMaxRounds(budget)),
		solver.WithLogger(log.Logger),
		solver.WithLabel(a.cfg.Policy),
		solver.WithTurnHook(func(r solver.Round) {
			n++
			out.println(out.round(n, r))
		}),
	)
	res, runErr := s.Run(ctx)

	known := ""
	if l, ok := o.(*oracle.Local); ok {
		known = l.Answer()
	}
	switch {
	case runErr != nil && errors.Is(runErr, solver.ErrExhausted):
		out.println(out.style(styles.Error, "no dictionary word fits the feedback"))
	case runErr != nil:
	case res.Outcome == game.Won:
		out.println(out.style(styles.Success, fmt.Sprintf("solved in %d/%d", res.Guesses(), budget)))
	default:
		msg := fmt.Sprintf("lost after %d guesses", res.Guesses())
		if known != "" {
			msg += "; the answer was " + strings.ToUpper(known)
		}
		out.println(out.style(styles.Error, msg))
	}

	if err := a.recordRun(ctx, known, res, runErr); err != nil {
		log.Warn().Err(err).Msg("record run")
	}
	return runErr
}

// recordRun stores a finished game when a run database is configured.
func (a *app) recordRun(ctx context.Context, answer string, res solver.Result, runErr error) error {
	if a.cfg.DBPath == "" {
		return nil
	}
	runs, err := store.Open(a.cfg.Store, a.cfg.DBPath)
	if err != nil {
		return err
	}
	defer runs.Close()

	id, err := runs.Save(ctx, recordOf(answer, a.cfg.Oracle, a.cfg.Policy, res, runErr))
	if err != nil {
		return err
	}
	log.Debug().Str("id", id).Str("db", a.cfg.DBPath).Msg("run recorded")
	return nil
}

// recordOf converts a solver result into a run record. When the answer is
// unknown (remote oracle) a win still reveals it.
func recordOf(answer, oracleName, policyName string, res solver.Result, runErr error) store.Record {
	r := store.Record{
		Answer:     answer,
		Oracle:     strings.ToLower(strings.TrimSpace(oracleName)),
		Policy:     strings.ToLower(strings.TrimSpace(policyName)),
		Outcome:    res.Outcome,
		Guesses:    make([]string, 0, len(res.Rounds)),
		Feedback:   make([]string, 0, len(res.Rounds)),
		StartedAt:  res.StartedAt,
		FinishedAt: res.FinishedAt,
	}
	for _, round := range res.Rounds {
		r.Guesses = append(r.Guesses, round.Guess)
		r.Feedback = append(r.Feedback, round.Feedback.String())
	}
	if r.Answer == "" && res.Outcome == game.Won && len(r.Guesses) > 0 {
		r.Answer = r.Guesses[len(r.Guesses)-1]
	}
	if runErr != nil {
		r.Error = runErr.Error()
	}
	return r
}
