// internal/cli/options.go
package cli

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"fqdnsan/internal/cliutil"
	"fqdnsan/internal/config"
	"fqdnsan/internal/version"
	"fqdnsan/internal/writers"
)

const (
	DefaultInput  = "input.txt"
	DefaultOutput = "output.txt"
)

// Options holds all CLI flags and arguments. Setting values are applied
// over a config.Config by Apply, and only when the flag was given.
type Options struct {
	Input      string
	Output     string
	ConfigFile string

	ChunkSize    int
	Workers      int
	WriteBatch   int
	Prefixes     []string
	CacheSize    int
	MaxLineBytes int
	IDNA         bool
	PSLFile      string
	Format       string

	LogLevel    string
	LogFormat   string
	LogFile     string
	MetricsFile string

	Quiet   bool
	Version bool

	set map[string]bool
}

// NewFlagSet returns a FlagSet with ContinueOnError and custom usage.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(),
			`%s: normalize, validate and deduplicate domain blocklists

Version: %s

Usage of %s: [flags] [input [output]]
  input defaults to %s, output to %s; "-" means stdin/stdout.

`, name, version.Version, name, DefaultInput, DefaultOutput)
		fs.PrintDefaults()
	}
	return fs
}

// ParseArgs registers and parses all flags, returns an Options struct.
// Flags and the two positionals may be interleaved.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var opt Options
	var help bool
	var prefixes stringSlice

	// Files
	fs.StringVar(&opt.Input, "input", "", "input list (or '-') ["+DefaultInput+"]")
	fs.StringVar(&opt.Input, "i", "", "alias of --input")
	fs.StringVar(&opt.Output, "output", "", "output file (or '-') ["+DefaultOutput+"]")
	fs.StringVar(&opt.Output, "o", "", "alias of --output")
	fs.StringVar(&opt.ConfigFile, "config", "", "YAML config file")

	// Normalization
	fs.Var(&prefixes, "prefix", "strip this prefix (repeatable; replaces the default list)")
	fs.BoolVar(&opt.IDNA, "idna", false, "convert non-ASCII names to punycode before validation [false]")
	fs.StringVar(&opt.PSLFile, "psl-file", "", "public suffix list snapshot (default: embedded list)")

	// Performance
	fs.IntVar(&opt.ChunkSize, "chunk-size", 0, "lines per work chunk [50000]")
	fs.IntVar(&opt.Workers, "workers", 0, "worker goroutines (0 = CPUs-1) [0]")
	fs.IntVar(&opt.Workers, "t", 0, "alias of --workers")
	fs.IntVar(&opt.WriteBatch, "write-batch", 0, "lines per output write batch [10000]")
	fs.IntVar(&opt.CacheSize, "cache-size", 0, "validation cache entries per worker [10000]")
	fs.IntVar(&opt.MaxLineBytes, "max-line-bytes", 0, "drop input lines longer than this [1048576]")

	// Output / logging
	fs.StringVar(&opt.Format, "format", "", "output format: "+strings.Join(writers.Formats(), " | ")+" [plain]")
	fs.StringVar(&opt.LogLevel, "log-level", "", "debug | info | warn | error [info]")
	fs.StringVar(&opt.LogFormat, "log-format", "", "console | json [console]")
	fs.StringVar(&opt.LogFile, "log-file", "", "also write JSON logs to this rotated file")
	fs.StringVar(&opt.MetricsFile, "metrics-file", "", "write run metrics (Prometheus text format) here")

	fs.BoolVar(&opt.Quiet, "quiet", false, "only log errors to stderr [false]")
	fs.BoolVar(&opt.Quiet, "q", false, "alias of --quiet")
	fs.BoolVar(&opt.Version, "v", false, "print version and exit (shorthand) [false]")
	fs.BoolVar(&opt.Version, "version", false, "print version and exit [false]")
	fs.BoolVar(&help, "h", false, "show this help message (shorthand) [false]")

	flagArgs, posArgs := cliutil.SplitFlagsAndPositionals(fs, argv)
	if err := fs.Parse(flagArgs); err != nil {
		return opt, err
	}
	if help {
		return opt, flag.ErrHelp
	}
	if opt.Version {
		return opt, nil
	}

	opt.set = map[string]bool{}
	fs.Visit(func(f *flag.Flag) { opt.set[canonical(f.Name)] = true })
	opt.Prefixes = prefixes

	if len(posArgs) > 2 {
		return opt, fmt.Errorf("too many arguments: %q", posArgs[2:])
	}
	if len(posArgs) > 0 {
		if opt.set["input"] {
			return opt, errors.New("input given both as --input and as an argument")
		}
		opt.Input = posArgs[0]
	}
	if len(posArgs) > 1 {
		if opt.set["output"] {
			return opt, errors.New("output given both as --output and as an argument")
		}
		opt.Output = posArgs[1]
	}
	if opt.Input == "" {
		opt.Input = DefaultInput
	}
	if opt.Output == "" {
		opt.Output = DefaultOutput
	}

	// Validation
	if opt.Workers < 0 {
		return opt, errors.New("--workers must be ≥ 0")
	}
	for _, n := range []struct {
		name string
		v    int
	}{
		{"chunk-size", opt.ChunkSize}, {"write-batch", opt.WriteBatch},
		{"cache-size", opt.CacheSize}, {"max-line-bytes", opt.MaxLineBytes},
	} {
		if opt.set[n.name] && n.v <= 0 {
			return opt, fmt.Errorf("--%s must be > 0", n.name)
		}
	}
	return opt, nil
}

// WasSet reports whether the named flag (long form) was given.
func (o Options) WasSet(name string) bool { return o.set[name] }

// Apply overlays explicitly given flags onto cfg and validates the result.
func (o Options) Apply(cfg *config.Config) error {
	if o.set["chunk-size"] {
		cfg.ChunkSize = o.ChunkSize
	}
	if o.set["workers"] {
		cfg.WorkerCount = o.Workers
	}
	if o.set["write-batch"] {
		cfg.WriteBatchSize = o.WriteBatch
	}
	if o.set["prefix"] {
		cfg.PrefixList = append([]string(nil), o.Prefixes...)
	}
	if o.set["cache-size"] {
		cfg.CacheSize = o.CacheSize
	}
	if o.set["max-line-bytes"] {
		cfg.MaxLineBytes = o.MaxLineBytes
	}
	if o.set["idna"] {
		cfg.IDNA = o.IDNA
	}
	if o.set["psl-file"] {
		cfg.PSLFile = o.PSLFile
	}
	if o.set["format"] {
		cfg.OutputFormat = o.Format
	}
	if o.set["log-level"] {
		cfg.Log.Level = o.LogLevel
	}
	if o.set["log-format"] {
		cfg.Log.Format = o.LogFormat
	}
	if o.set["log-file"] {
		cfg.Log.File = o.LogFile
	}
	if o.set["metrics-file"] {
		cfg.MetricsFile = o.MetricsFile
	}
	return cfg.Validate()
}

func canonical(name string) string {
	switch name {
	case "i":
		return "input"
	case "o":
		return "output"
	case "t":
		return "workers"
	case "q":
		return "quiet"
	}
	return name
}

// stringSlice allows repeatable string flags.
type stringSlice []string

func (s *stringSlice) String() string     { return strings.Join(*s, ",") }
func (s *stringSlice) Set(v string) error { *s = append(*s, v); return nil }
