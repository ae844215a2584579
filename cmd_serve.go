package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordle/apps/go-solver/internal/httpserver"
	"github.com/robalobadob/wordle/apps/go-solver/internal/store"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

// =============================================================================
// SERVE COMMAND
// =============================================================================

func newServeCmd(a *app) *cobra.Command {
	var (
		port  string
		watch bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP oracle and hint server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				a.cfg.Port = port
				if err := a.cfg.Validate(); err != nil {
					return err
				}
			}
			return a.serve(cmd.Context(), watch)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides PORT)")
	cmd.Flags().BoolVar(&watch, "watch", false, "reload --words when the file changes")
	return cmd
}

func (a *app) serve(ctx context.Context, watch bool) error {
	p, err := a.buildPolicy()
	if err != nil {
		return err
	}

	runs, err := store.Open(a.cfg.Store, a.cfg.DBPath)
	if err != nil {
		return err
	}
	defer runs.Close()

	srv := httpserver.New(httpserver.Options{
		Dict:         a.dict,
		Runs:         runs,
		Policy:       p,
		MaxGuesses:   a.cfg.MaxGuesses,
		DailySalt:    a.cfg.DailySalt,
		JWTSecret:    a.cfg.JWTSecret,
		ClientOrigin: a.cfg.ClientOrigin,
	})

	if watch {
		if a.cfg.WordsFile == "" {
			return errors.New("--watch needs a word list file (--words or WORDS_FILE)")
		}
		w, err := words.NewWatcher(a.cfg.WordsFile)
		if err != nil {
			return err
		}
		defer w.Close()
		go w.Run(ctx, func(d *words.Dictionary) {
			if d.WordLength() != a.dict.WordLength() {
				log.Warn().Int("wordLength", d.WordLength()).Msg("reloaded word list changes the word length; ignored")
				return
			}
			srv.SetDictionary(d)
		}, func(err error) {
			log.Warn().Err(err).Msg("reload word list")
		})
		log.Info().Str("file", a.cfg.WordsFile).Msg("watching word list")
	}

	errc := make(chan error, 1)
	log.Info().Str("port", a.cfg.Port).Int("words", a.dict.Len()).Msg("starting wordle oracle")
	go func() { errc <- srv.Start(":" + a.cfg.Port) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
