// internal/config/config.go
//
// Runtime configuration for the CLI and the oracle server.
//
// Priority: environment > YAML file > defaults. A .env file, when present, is
// folded into the environment first (existing variables win).
//
// Keys (env / yaml):
//   - LOG_LEVEL     / log_level      zerolog level (default info)
//   - WORDS_FILE    / words_file     dictionary path (default: embedded list)
//   - MAX_GUESSES   / max_guesses    guess budget (default 6)
//   - ORACLE        / oracle         local | daily | remote (default local)
//   - POLICY        / policy         maxmatch | first (default maxmatch)
//   - OPENING       / opening        fixed first guess (optional)
//   - REMOTE_URL    / remote_url     oracle server for ORACLE=remote
//   - DAILY_SALT    / daily_salt     HMAC salt for the answer of the day
//   - PORT          / port           server port (default 5175)
//   - JWT_SECRET    / jwt_secret     session token signing key
//   - CLIENT_ORIGIN / client_origin  CORS origin
//   - DB_PATH       / db_path        run store file or directory (empty keeps runs in memory)
//   - STORE         / store          sqlite | badger | memory (default: sqlite when DB_PATH is set)
//   - WORKERS       / workers        bench parallelism (0 = GOMAXPROCS)

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/robalobadob/wordle/apps/go-solver/internal/game"
	"github.com/robalobadob/wordle/apps/go-solver/internal/oracle"
	"github.com/robalobadob/wordle/apps/go-solver/internal/policy"
	"github.com/robalobadob/wordle/apps/go-solver/internal/store"
)

// Config holds every tunable of the program.
type Config struct {
	LogLevel     string `yaml:"log_level" validate:"oneof=trace debug info warn error fatal panic disabled"`
	WordsFile    string `yaml:"words_file"`
	MaxGuesses   int    `yaml:"max_guesses" validate:"min=1,max=100"`
	Oracle       string `yaml:"oracle" validate:"oracle"`
	Policy       string `yaml:"policy" validate:"policy"`
	Opening      string `yaml:"opening" validate:"omitempty,lowercase,alpha"`
	RemoteURL    string `yaml:"remote_url" validate:"omitempty,url"`
	DailySalt    string `yaml:"daily_salt"`
	Port         string `yaml:"port" validate:"required,numeric"`
	JWTSecret    string `yaml:"jwt_secret" validate:"required"`
	ClientOrigin string `yaml:"client_origin"`
	DBPath       string `yaml:"db_path"`
	Store        string `yaml:"store" validate:"omitempty,store"`
	Workers      int    `yaml:"workers" validate:"min=0"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel:     "info",
		MaxGuesses:   game.MaxGuesses,
		Oracle:       "local",
		Policy:       "maxmatch",
		DailySalt:    "local_dev_salt",
		Port:         "5175",
		JWTSecret:    "dev_secret_change_me",
		ClientOrigin: "http://localhost:5173",
	}
}

// LoadDotenv folds .env files into the process environment. Missing files
// are ignored; with no arguments ./.env is tried.
func LoadDotenv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("config: load %s: %w", f, err)
		}
	}
	return nil
}

// Load builds the configuration from defaults, the optional YAML file at
// path, and the environment, then validates it.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("config: %w", err)
		}
	}
	if err := loadEnv(&cfg); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func loadEnv(cfg *Config) error {
	str := map[string]*string{
		"LOG_LEVEL":     &cfg.LogLevel,
		"WORDS_FILE":    &cfg.WordsFile,
		"ORACLE":        &cfg.Oracle,
		"POLICY":        &cfg.Policy,
		"OPENING":       &cfg.Opening,
		"REMOTE_URL":    &cfg.RemoteURL,
		"DAILY_SALT":    &cfg.DailySalt,
		"PORT":          &cfg.Port,
		"JWT_SECRET":    &cfg.JWTSecret,
		"CLIENT_ORIGIN": &cfg.ClientOrigin,
		"DB_PATH":       &cfg.DBPath,
		"STORE":         &cfg.Store,
	}
	for k, dst := range str {
		if v := os.Getenv(k); v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"MAX_GUESSES": &cfg.MaxGuesses,
		"WORKERS":     &cfg.Workers,
	}
	for k, dst := range ints {
		v := os.Getenv(k)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s=%q is not an integer", k, v)
		}
		*dst = n
	}
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("oracle", oneOfNames(oracle.Names))
	_ = v.RegisterValidation("policy", oneOfNames(policy.Names))
	_ = v.RegisterValidation("store", oneOfNames(store.Kinds))
	return v
}

func oneOfNames(names func() []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		s := strings.ToLower(strings.TrimSpace(fl.Field().String()))
		for _, n := range names() {
			if s == n {
				return true
			}
		}
		return false
	}
}

// Validate checks every field and reports the first problem in user-facing
// terms.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return describe(verrs[0])
		}
		return fmt.Errorf("config: %w", err)
	}
	if strings.EqualFold(strings.TrimSpace(c.Oracle), "remote") && c.RemoteURL == "" {
		return errors.New("config: oracle \"remote\" needs REMOTE_URL")
	}
	return nil
}

func describe(fe validator.FieldError) error {
	switch fe.Tag() {
	case "oracle":
		return fmt.Errorf("config: unknown oracle %q (valid: %s)", fe.Value(), strings.Join(oracle.Names(), ", "))
	case "policy":
		return fmt.Errorf("config: unknown policy %q (valid: %s)", fe.Value(), strings.Join(policy.Names(), ", "))
	case "store":
		return fmt.Errorf("config: unknown store %q (valid: %s)", fe.Value(), strings.Join(store.Kinds(), ", "))
	case "oneof":
		return fmt.Errorf("config: %s must be one of [%s], got %q", fe.Field(), fe.Param(), fe.Value())
	default:
		return fmt.Errorf("config: %s fails %q (got %v)", fe.Field(), fe.ActualTag(), fe.Value())
	}
}
