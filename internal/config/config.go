// Package config loads CLI settings from flags, PHONETICS_* environment
// variables and an optional phonetics.yaml file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/cwbudde/algo-phonetics/analysis"
	"github.com/cwbudde/algo-phonetics/analysis/esps"
	"github.com/cwbudde/algo-phonetics/analysis/native"
	"github.com/cwbudde/algo-phonetics/ecog"
	"github.com/cwbudde/algo-phonetics/measure/fricative"
	"github.com/cwbudde/algo-phonetics/measure/vot"
)

// EnvPrefix prefixes environment overrides, e.g. PHONETICS_VOT_RATE.
const EnvPrefix = "PHONETICS"

// ErrInvalid is returned for settings that fail validation.
var ErrInvalid = errors.New("config: invalid setting")

// Config is the resolved configuration.
type Config struct {
	Backend   string    `mapstructure:"backend"`
	Output    string    `mapstructure:"output"`
	Log       Log       `mapstructure:"log"`
	VOT       VOT       `mapstructure:"vot"`
	Fricative Fricative `mapstructure:"fricative"`
	ECoG      ECoG      `mapstructure:"ecog"`
	ESPS      ESPS      `mapstructure:"esps"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type VOT struct {
	Rate float64 `mapstructure:"rate"`
	Step float64 `mapstructure:"step"`
}

type Fricative struct {
	Window float64 `mapstructure:"window"`
	Plot   bool    `mapstructure:"plot"`
}

type ECoG struct {
	Decimate int `mapstructure:"decimate"`
	Workers  int `mapstructure:"workers"`
}

type ESPS struct {
	BinDir string `mapstructure:"bin_dir"`
}

// New returns a viper instance with defaults, environment binding and the
// standard search path for phonetics.yaml.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("backend", "native")
	v.SetDefault("output", "text")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
	v.SetDefault("vot.rate", float64(vot.DefaultRate))
	v.SetDefault("vot.step", vot.DefaultStep)
	v.SetDefault("fricative.window", fricative.DefaultWindow)
	v.SetDefault("fricative.plot", false)
	v.SetDefault("ecog.decimate", ecog.DefaultDecimate)
	v.SetDefault("ecog.workers", 8)
	v.SetDefault("esps.bin_dir", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("phonetics")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "phonetics"))
	}
	return v
}

// Load reads file, or phonetics.yaml from the search path when file is
// empty, and decodes the merged settings. A missing search-path file is
// not an error.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks enumerated and numeric settings.
func (c *Config) Validate() error {
	switch c.Backend {
	case "native", "esps":
	default:
		return fmt.Errorf("%w: backend %q (want native or esps)", ErrInvalid, c.Backend)
	}
	switch c.Output {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("%w: output %q (want text, json or yaml)", ErrInvalid, c.Output)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log.format %q", ErrInvalid, c.Log.Format)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %v", ErrInvalid, err)
	}
	if c.VOT.Rate <= 0 || c.VOT.Step <= 0 {
		return fmt.Errorf("%w: vot.rate and vot.step must be > 0", ErrInvalid)
	}
	if c.Fricative.Window <= 0 {
		return fmt.Errorf("%w: fricative.window must be > 0", ErrInvalid)
	}
	if c.ECoG.Decimate < 1 || c.ECoG.Workers < 1 {
		return fmt.Errorf("%w: ecog.decimate and ecog.workers must be >= 1", ErrInvalid)
	}
	return nil
}

// Logger builds a logger writing to w with the configured level and format.
func (c *Config) Logger(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	if lvl, err := logrus.ParseLevel(c.Log.Level); err == nil {
		l.SetLevel(lvl)
	}
	if c.Log.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}
	return l
}

// NewBackend returns the configured analysis backend.
func (c *Config) NewBackend(log logrus.FieldLogger) analysis.Backend {
	if c.Backend == "esps" {
		return esps.New(esps.WithBinDir(c.ESPS.BinDir), esps.WithLogger(log))
	}
	return native.New(native.WithLogger(log))
}
