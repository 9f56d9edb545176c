// internal/config/config.go
//
// Process configuration.
// Responsibilities:
//   - Load .env (and an optional .env.secret sidecar) into the environment.
//   - Read typed settings from the environment with defaults.
//   - Overlay an optional YAML file on top of the environment.
//
// Notes:
//   - Command-line flags are applied by the CLI after Load, so the order of
//     precedence is flags > YAML file > environment > defaults.

package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the resolved process configuration.
type Config struct {
	Strategy      string        `yaml:"strategy"`
	StartWord     string        `yaml:"start_word"`
	Verbose       bool          `yaml:"verbose"`
	LogLevel      string        `yaml:"log_level"`
	WordsFile     string        `yaml:"words_file"`
	DBPath        string        `yaml:"db_path"`
	Port          int           `yaml:"port"`
	JWTSecret     string        `yaml:"jwt_secret"`
	GameURL       string        `yaml:"game_url"`
	MinDelay      time.Duration `yaml:"min_delay"`
	RetryDelay    time.Duration `yaml:"retry_delay"`
	DailySalt     string        `yaml:"daily_salt"`
	ClientOrigin  string        `yaml:"client_origin"`
	SecureCookies bool          `yaml:"secure_cookies"`
	SolveRPS      float64       `yaml:"solve_rps"`
}

// LoadEnv reads the env file named by WORDLEBOT_ENV (default .env) and its
// .secret sidecar. Missing files are ignored; variables already set in the
// environment win.
func LoadEnv() {
	envFile := os.Getenv("WORDLEBOT_ENV")
	if envFile == "" {
		envFile = ".env"
	}
	_ = godotenv.Load(envFile)
	_ = godotenv.Load(envFile + ".secret")
}

// FromEnv reads the configuration from the environment.
func FromEnv() *Config {
	return &Config{
		Strategy:      getEnv("SCOUTING_STRATEGY", "v2"),
		StartWord:     getEnv("START_WORD", "SOARE"),
		Verbose:       getBool("VERBOSE", false),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		WordsFile:     os.Getenv("WORDS_FILE"),
		DBPath:        os.Getenv("DB_PATH"),
		Port:          getInt("PORT", 5175),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		GameURL:       getEnv("GAME_URL", "http://localhost:5175"),
		MinDelay:      getDuration("MIN_DELAY", 2*time.Second),
		RetryDelay:    getDuration("RETRY_DELAY", 2*time.Second),
		DailySalt:     os.Getenv("DAILY_SALT"),
		ClientOrigin:  getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		SecureCookies: getBool("SECURE_COOKIES", false),
		SolveRPS:      getFloat("SOLVE_RPS", 1),
	}
}

// Load reads the environment and, when path is not empty, overlays the
// YAML file at path. Keys absent from the file keep their env values.
func Load(path string) (*Config, error) {
	cfg := FromEnv()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string { return ":" + strconv.Itoa(c.Port) }

func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getBool(k string, def bool) bool {
	b, err := strconv.ParseBool(os.Getenv(k))
	if err != nil {
		return def
	}
	return b
}

func getInt(k string, def int) int {
	n, err := strconv.Atoi(os.Getenv(k))
	if err != nil {
		return def
	}
	return n
}

func getFloat(k string, def float64) float64 {
	f, err := strconv.ParseFloat(os.Getenv(k), 64)
	if err != nil {
		return def
	}
	return f
}

// getDuration accepts Go durations ("1500ms") or plain seconds ("2").
func getDuration(k string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.ParseFloat(v, 64); err == nil {
		return time.Duration(secs * float64(time.Second))
	}
	return def
}
