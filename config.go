package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"q.log/tabsimplex/gauss"
	"q.log/tabsimplex/tableau"
)

// Config holds the solver settings. Env var overrides use prefix TABSIMPLEX_.
type Config struct {
	Fractional    bool
	Method        string
	Rule          string
	MaxIterations int `mapstructure:"max_iterations"`
	Precision     int
	Trace         bool
	Verify        bool
	ShowModel     bool `mapstructure:"show_model"`
	Log           LogConfig
}

type LogConfig struct {
	Level  string
	Format string
}

// flag name -> config key
var flagKeys = map[string]string{
	"fractional":     "fractional",
	"rule":           "rule",
	"max-iterations": "max_iterations",
	"precision":      "precision",
	"trace":          "trace",
	"verify":         "verify",
	"show-model":     "show_model",
	"log-level":      "log.level",
	"log-format":     "log.format",
}

func addConfigFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.String("config", "", "config file (default simplex.yaml in . or $HOME/.config/tabsimplex)")
	f.Bool("fractional", false, "compute with exact fractions instead of floats")
	f.String("rule", "dantzig", "pivot rule: dantzig or bland")
	f.Int("max-iterations", 0, "stop after this many steps, 0 for no limit")
	f.Int("precision", gauss.DefaultPrecision, "decimals kept by Gauss elimination in float mode")
	f.Bool("trace", false, "print every tableau")
	f.Bool("verify", false, "cross-check the optimum with gonum's simplex")
	f.Bool("show-model", false, "print the problem matrices before solving")
	f.String("log-level", "warn", "log level: debug, info, warn or error")
	f.String("log-format", "text", "log format: text or json")
}

// loadConfig reads defaults, the config file, the environment and the flags
// of cmd, in increasing order of priority.
func loadConfig(cmd *cobra.Command) (Config, error) {
	v := viper.New()

	v.SetDefault("fractional", false)
	v.SetDefault("method", "artificial")
	v.SetDefault("rule", "dantzig")
	v.SetDefault("max_iterations", 0)
	v.SetDefault("precision", gauss.DefaultPrecision)
	v.SetDefault("trace", false)
	v.SetDefault("verify", false)
	v.SetDefault("show_model", false)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")

	v.SetConfigType("yaml")
	cfgPath, _ := cmd.Flags().GetString("config")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.SetConfigName("simplex")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "tabsimplex"))
		}
	}

	v.SetEnvPrefix("TABSIMPLEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for name, key := range flagKeys {
		if fl := cmd.Flags().Lookup(name); fl != nil {
			if err := v.BindPFlag(key, fl); err != nil {
				return Config{}, errors.Wrapf(err, "bind flag %s", name)
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgPath != "" || !errors.As(err, &notFound) {
			return Config{}, errors.Wrap(err, "read config")
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "unmarshal config")
	}
	return c, c.validate()
}

func (c Config) validate() error {
	if c.Method != "simplex" && c.Method != "artificial" {
		return errors.Errorf("unknown method %q", c.Method)
	}
	if _, err := tableau.ParseRule(c.Rule); err != nil {
		return err
	}
	if c.MaxIterations < 0 {
		return errors.Errorf("max_iterations must not be negative, got %d", c.MaxIterations)
	}
	if c.Precision < 0 {
		return errors.Errorf("precision must not be negative, got %d", c.Precision)
	}
	if _, err := c.Log.level(); err != nil {
		return err
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

func (c LogConfig) level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Level)); err != nil {
		return l, errors.Wrapf(err, "log level %q", c.Level)
	}
	return l, nil
}

// newLogger builds the handler the config asks for.
func newLogger(c LogConfig, w io.Writer) *slog.Logger {
	level, err := c.level()
	if err != nil {
		level = slog.LevelWarn
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
