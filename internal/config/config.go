// Package config holds run settings: built-in defaults, optionally
// overridden by a YAML file, then by command-line flags.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"fqdnsan/internal/logging"
	"fqdnsan/internal/rules"
	"fqdnsan/internal/runutil"
	"fqdnsan/internal/writers"
)

type Config struct {
	ChunkSize      int      `yaml:"chunk_size"`
	WorkerCount    int      `yaml:"worker_count"` // 0 = NumCPU-1
	WriteBatchSize int      `yaml:"write_batch_size"`
	PrefixList     []string `yaml:"prefix_list"`
	CacheSize      int      `yaml:"cache_size"`
	MaxLineBytes   int      `yaml:"max_line_bytes"`
	IDNA           bool     `yaml:"idna"`
	PSLFile        string   `yaml:"psl_file"`
	OutputFormat   string   `yaml:"output_format"`
	MetricsFile    string   `yaml:"metrics_file"`

	Log LogConfig `yaml:"log"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		ChunkSize:      runutil.DefaultChunkSize,
		WorkerCount:    0,
		WriteBatchSize: runutil.DefaultWriteBatch,
		PrefixList:     append([]string(nil), rules.DefaultPrefixes...),
		CacheSize:      runutil.DefaultLRUCapacity,
		MaxLineBytes:   runutil.DefaultMaxLineBytes,
		OutputFormat:   writers.DefaultFormat,
		Log: LogConfig{
			Level:      "info",
			Format:     logging.FormatConsole,
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Load reads path over Default(). Unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse config %q: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks ranges and enumerations.
func (c Config) Validate() error {
	switch {
	case c.ChunkSize <= 0:
		return errors.New("chunk_size must be > 0")
	case c.WorkerCount < 0:
		return errors.New("worker_count must be ≥ 0")
	case c.WriteBatchSize <= 0:
		return errors.New("write_batch_size must be > 0")
	case c.CacheSize <= 0:
		return errors.New("cache_size must be > 0")
	case c.MaxLineBytes <= 0:
		return errors.New("max_line_bytes must be > 0")
	}
	for _, p := range c.PrefixList {
		if p == "" {
			return errors.New("prefix_list entries must not be empty")
		}
	}
	if _, err := writers.LookupFormat(c.OutputFormat); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case logging.FormatConsole, logging.FormatJSON:
	default:
		return fmt.Errorf("invalid log format %q", c.Log.Format)
	}
	return nil
}

// Workers resolves WorkerCount against the machine.
func (c Config) Workers() int { return runutil.ComputeWorkers(c.WorkerCount, runtime.NumCPU()) }

// LoggingOptions maps the log section onto logging.Options.
func (c Config) LoggingOptions(quiet bool) logging.Options {
	return logging.Options{
		Level:      c.Log.Level,
		Format:     c.Log.Format,
		File:       c.Log.File,
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
		MaxAgeDays: c.Log.MaxAgeDays,
		Quiet:      quiet,
	}
}
