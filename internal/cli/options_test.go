// internal/cli/options_test.go
package cli

import (
	"errors"
	"flag"
	"io"
	"testing"

	"fqdnsan/internal/config"
)

func newFS() *flag.FlagSet {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func mustParse(t *testing.T, args ...string) Options {
	t.Helper()
	opts, err := ParseArgs(newFS(), args)
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	return opts
}

func TestDefaultsWhenNoArgs(t *testing.T) {
	o := mustParse(t)
	if o.Input != DefaultInput || o.Output != DefaultOutput {
		t.Errorf("want defaults, got %q %q", o.Input, o.Output)
	}
}

func TestPositionalsInterleavedWithFlags(t *testing.T) {
	o := mustParse(t, "raw.txt", "--workers", "3", "clean.txt", "-q")
	if o.Input != "raw.txt" || o.Output != "clean.txt" || o.Workers != 3 || !o.Quiet {
		t.Errorf("bad parse %+v", o)
	}
}

func TestFlaggedPaths(t *testing.T) {
	o := mustParse(t, "-i", "a.txt", "--output=b.txt")
	if o.Input != "a.txt" || o.Output != "b.txt" {
		t.Errorf("bad parse %+v", o)
	}
}

func TestErrors(t *testing.T) {
	cases := [][]string{
		{"a", "b", "c"},
		{"--input", "x", "y"},
		{"--workers", "-1"},
		{"--chunk-size", "0"},
		{"--write-batch", "-2"},
		{"--no-such-flag"},
	}
	for _, args := range cases {
		if _, err := ParseArgs(newFS(), args); err == nil {
			t.Errorf("expected error for %v", args)
		}
	}
}

func TestHelp(t *testing.T) {
	_, err := ParseArgs(newFS(), []string{"-h"})
	if !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("want flag.ErrHelp, got %v", err)
	}
}

func TestApplyOnlyOverridesGivenFlags(t *testing.T) {
	cfg := config.Default()
	cfg.ChunkSize = 123 // e.g. from a config file
	o := mustParse(t, "--workers", "2", "--prefix", "||", "--prefix", "0.0.0.0", "--idna")
	if err := o.Apply(&cfg); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if cfg.ChunkSize != 123 {
		t.Errorf("chunk size overridden without flag: %d", cfg.ChunkSize)
	}
	if cfg.WorkerCount != 2 || !cfg.IDNA {
		t.Errorf("flags not applied: %+v", cfg)
	}
	if len(cfg.PrefixList) != 2 || cfg.PrefixList[0] != "||" {
		t.Errorf("prefixes: %v", cfg.PrefixList)
	}
	if !o.WasSet("workers") || o.WasSet("chunk-size") {
		t.Errorf("WasSet mismatch")
	}
}

func TestShortAliasCountsAsSet(t *testing.T) {
	cfg := config.Default()
	o := mustParse(t, "-t", "5")
	if err := o.Apply(&cfg); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if cfg.WorkerCount != 5 {
		t.Errorf("want 5 workers, got %d", cfg.WorkerCount)
	}
}

func TestApplyValidates(t *testing.T) {
	cfg := config.Default()
	o := mustParse(t, "--log-level", "shouty")
	if err := o.Apply(&cfg); err == nil {
		t.Fatal("expected validation error")
	}
}
