// main.go
//
// wordle: play, assist and evaluate Wordle with a candidate-filtering solver,
// or host the HTTP oracle.
//
// Commands:
//   - play   one game against a local, daily or remote oracle
//   - hint   interactive assistant for a game played elsewhere
//   - bench  batch evaluation over the answer list
//   - serve  HTTP oracle + hint server
//
// Startup (every command): .env → config (defaults < YAML < env < flags) →
// logging → dictionary.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordle/apps/go-solver/internal/config"
	"github.com/robalobadob/wordle/apps/go-solver/internal/game"
	"github.com/robalobadob/wordle/apps/go-solver/internal/policy"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// app carries what every command needs once startup has run.
type app struct {
	configPath string
	logLevel   string
	wordsFile  string

	cfg  config.Config
	dict *words.Dictionary
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "wordle",
		Short:         "Wordle oracle and candidate-filtering solver",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (overrides LOG_LEVEL)")
	root.PersistentFlags().StringVar(&a.wordsFile, "words", "", "dictionary file (overrides WORDS_FILE)")

	root.AddCommand(
		newPlayCmd(a),
		newHintCmd(a),
		newBenchCmd(a),
		newServeCmd(a),
	)
	return root
}

// setup loads configuration, configures logging and loads the dictionary.
func (a *app) setup(cmd *cobra.Command) error {
	if err := config.LoadDotenv(); err != nil {
		return err
	}
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.wordsFile != "" {
		cfg.WordsFile = a.wordsFile
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	setupLogging(cmd.ErrOrStderr(), cfg.LogLevel)

	d, err := words.LoadOrDefault(cfg.WordsFile)
	if err != nil {
		return fmt.Errorf("load dictionary: %w", err)
	}
	a.dict = d
	log.Debug().Int("words", d.Len()).Int("length", d.WordLength()).Str("fingerprint", d.Fingerprint()[:12]).Msg("dictionary loaded")
	return nil
}

// setupLogging points the global logger at w: human-readable on a terminal,
// JSON lines otherwise.
func setupLogging(w io.Writer, level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	if isTerminal(w) {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
		return
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}

// buildPolicy resolves the configured policy, wrapped in a fixed opening
// guess when one is set.
func (a *app) buildPolicy() (policy.Policy, error) {
	p, err := policy.Lookup(a.cfg.Policy)
	if err != nil {
		return nil, err
	}
	if a.cfg.Opening == "" {
		return p, nil
	}
	if err := game.CheckWord("opening", a.cfg.Opening, a.dict.WordLength()); err != nil {
		return nil, err
	}
	if !a.dict.Contains(a.cfg.Opening) {
		return nil, fmt.Errorf("opening %q: %w", a.cfg.Opening, game.ErrNotAllowed)
	}
	return policy.Opening{Word: a.cfg.Opening, Size: a.dict.Len(), Then: p}, nil
}
