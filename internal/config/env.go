package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

// getEnvString returns EIGSCAN_<key>, or defaultVal when unset.
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		return val
	}
	return defaultVal
}

// getEnvInt64 returns EIGSCAN_<key> parsed as int64, or defaultVal when unset
// or invalid.
func getEnvInt64(key string, defaultVal int64) int64 {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := strconv.ParseInt(val, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// getEnvUint64 returns EIGSCAN_<key> parsed as uint64, or defaultVal.
func getEnvUint64(key string, defaultVal uint64) uint64 {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := strconv.ParseUint(val, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// getEnvInt returns EIGSCAN_<key> parsed as int, or defaultVal.
func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// getEnvFloat returns EIGSCAN_<key> parsed as float64, or defaultVal.
func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// getEnvBool returns EIGSCAN_<key> as a bool. "true", "1" and "yes" are true,
// "false", "0" and "no" are false; anything else keeps defaultVal.
func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		switch strings.ToLower(val) {
		case "true", "1", "yes":
			return true
		case "false", "0", "no":
			return false
		}
	}
	return defaultVal
}

// getEnvDuration returns EIGSCAN_<key> parsed with time.ParseDuration.
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// isFlagSet reports whether any of names was given on the command line.
func isFlagSet(fs *flag.FlagSet, names ...string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		for _, name := range names {
			if f.Name == name {
				found = true
			}
		}
	})
	return found
}

// applyEnvOverrides fills every flag that was not set explicitly from its
// environment variable. Priority: flags, then environment, then defaults.
//
// Supported variables (all prefixed with EIGSCAN_):
//   - MATRIX, FILE, ENGINE, PORT, OUTPUT, LOG_LEVEL (string)
//   - LO, HI (int64), MAX_DIM, RATE_BURST (int), MAX_RANGE (uint64)
//   - RATE_LIMIT (float), TIMEOUT (duration)
//   - DET, VALUES, CANONICAL, JSON, QUIET, VERBOSE, INTERACTIVE, NO_COLOR,
//     SERVER (bool: true/false, 1/0, yes/no)
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet) {
	applyNumericOverrides(config, fs)
	applyStringOverrides(config, fs)
	applyBooleanOverrides(config, fs)
}

func applyNumericOverrides(config *AppConfig, fs *flag.FlagSet) {
	if !isFlagSet(fs, "lo") {
		config.Lo = getEnvInt64("LO", config.Lo)
	}
	if !isFlagSet(fs, "hi") {
		config.Hi = getEnvInt64("HI", config.Hi)
	}
	if !isFlagSet(fs, "max-dim") {
		config.MaxDim = getEnvInt("MAX_DIM", config.MaxDim)
	}
	if !isFlagSet(fs, "timeout") {
		config.Timeout = getEnvDuration("TIMEOUT", config.Timeout)
	}
	if !isFlagSet(fs, "rate-limit") {
		config.RateLimit = getEnvFloat("RATE_LIMIT", config.RateLimit)
	}
	if !isFlagSet(fs, "rate-burst") {
		config.RateBurst = getEnvInt("RATE_BURST", config.RateBurst)
	}
	if !isFlagSet(fs, "max-range") {
		config.MaxRangeWidth = getEnvUint64("MAX_RANGE", config.MaxRangeWidth)
	}
}

func applyStringOverrides(config *AppConfig, fs *flag.FlagSet) {
	if !isFlagSet(fs, "matrix", "m") {
		config.Matrix = getEnvString("MATRIX", config.Matrix)
	}
	if !isFlagSet(fs, "file", "f") {
		config.File = getEnvString("FILE", config.File)
	}
	if !isFlagSet(fs, "engine") {
		config.Engine = getEnvString("ENGINE", config.Engine)
	}
	if !isFlagSet(fs, "port") {
		config.Port = getEnvString("PORT", config.Port)
	}
	if !isFlagSet(fs, "output", "o") {
		config.OutputFile = getEnvString("OUTPUT", config.OutputFile)
	}
	if !isFlagSet(fs, "log-level") {
		config.LogLevel = getEnvString("LOG_LEVEL", config.LogLevel)
	}
}

func applyBooleanOverrides(config *AppConfig, fs *flag.FlagSet) {
	bools := []struct {
		key   string
		flags []string
		dst   *bool
	}{
		{"DET", []string{"det"}, &config.DetOnly},
		{"VALUES", []string{"values"}, &config.ValuesOnly},
		{"CANONICAL", []string{"canonical"}, &config.Canonical},
		{"JSON", []string{"json"}, &config.JSONOutput},
		{"QUIET", []string{"quiet", "q"}, &config.Quiet},
		{"VERBOSE", []string{"v"}, &config.Verbose},
		{"INTERACTIVE", []string{"interactive"}, &config.Interactive},
		{"NO_COLOR", []string{"no-color"}, &config.NoColor},
		{"SERVER", []string{"server"}, &config.ServerMode},
	}
	for _, b := range bools {
		if !isFlagSet(fs, b.flags...) {
			*b.dst = getEnvBool(b.key, *b.dst)
		}
	}
}
