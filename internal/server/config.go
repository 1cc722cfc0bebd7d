package server

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/ironsheep/plot-digitizer/internal/detection"
)

// Environment variables read by LoadConfig.
const (
	EnvLogLevel  = "PLOT_DIGITIZER_LOG_LEVEL"
	EnvRadius    = "PLOT_DIGITIZER_RADIUS"
	EnvCutoff    = "PLOT_DIGITIZER_CUTOFF"
	EnvPeakRatio = "PLOT_DIGITIZER_PEAK_RATIO"
)

// Config holds server-wide settings.
type Config struct {
	LogLevel string

	// Defaults fill in detection parameters a tool call leaves out.
	Defaults detection.Params
}

// DefaultConfig returns info logging and the detector's default parameters.
func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Defaults: detection.DefaultParams(),
	}
}

// LoadConfig builds a Config from the process environment, falling back to
// the variables in envFile when it is non-empty. A missing envFile is not an
// error; the process environment always wins over the file.
func LoadConfig(envFile string) (Config, error) {
	fileEnv := map[string]string{}
	if envFile != "" {
		m, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			fileEnv = m
		case !os.IsNotExist(errors.Cause(err)):
			return Config{}, errors.Wrapf(err, "read %s", envFile)
		}
	}
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileEnv[key]
		return v, ok
	}

	cfg := DefaultConfig()
	if v, ok := lookup(EnvLogLevel); ok {
		cfg.LogLevel = v
	}
	if v, ok := lookup(EnvRadius); ok {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Config{}, errors.Wrapf(err, "%s", EnvRadius)
		}
		cfg.Defaults.Radius = r
	}
	if v, ok := lookup(EnvCutoff); ok {
		c, err := strconv.ParseUint(v, 10, 8)
		if err != nil {
			return Config{}, errors.Wrapf(err, "%s", EnvCutoff)
		}
		cfg.Defaults.Cutoff = uint8(c)
	}
	if v, ok := lookup(EnvPeakRatio); ok {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Config{}, errors.Wrapf(err, "%s", EnvPeakRatio)
		}
		cfg.Defaults.PeakRatio = p
	}

	if err := cfg.Defaults.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
