// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"fqdnsan/internal/chunker"
	"fqdnsan/internal/cli"
	"fqdnsan/internal/config"
	"fqdnsan/internal/fqdn"
	"fqdnsan/internal/logging"
	"fqdnsan/internal/metrics"
	"fqdnsan/internal/pipeline"
	"fqdnsan/internal/rules"
	"fqdnsan/internal/version"
	"fqdnsan/internal/writers"
)

// Exit codes.
const (
	ExitOK       = 0
	ExitUsage    = 2
	ExitIO       = 3
	ExitCanceled = 130
)

// RunContext parses argv, runs one sanitize pass and returns the process
// exit code. Cancelling parent aborts the run without writing output.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := cli.NewFlagSet("fqdnsan")
	fs.SetOutput(io.Discard)

	opts, err := cli.ParseArgs(fs, argv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(outw)
			fs.Usage()
			return flushCode(outw, stderr, ExitOK)
		}
		_, _ = fmt.Fprintln(stderr, err)
		fs.SetOutput(stderr)
		fs.Usage()
		return ExitUsage
	}
	if opts.Version {
		_, _ = fmt.Fprintf(outw, "fqdnsan version %s\n", version.Version)
		return flushCode(outw, stderr, ExitOK)
	}

	cfg := config.Default()
	if opts.ConfigFile != "" {
		if cfg, err = config.Load(opts.ConfigFile); err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return ExitUsage
		}
	}
	if err := opts.Apply(&cfg); err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return ExitUsage
	}

	log, closeLog, err := logging.New(cfg.LoggingOptions(opts.Quiet), stderr)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return ExitUsage
	}
	defer func() { _ = closeLog() }()

	if code := run(parent, opts, cfg, outw, log); code != ExitOK {
		return code
	}
	return flushCode(outw, stderr, ExitOK)
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func run(ctx context.Context, opts cli.Options, cfg config.Config, stdout io.Writer, log *zap.Logger) int {
	start := time.Now()

	split := fqdn.NewPSLSplitter(nil)
	if cfg.PSLFile != "" {
		s, err := fqdn.LoadPSL(cfg.PSLFile)
		if err != nil {
			log.Error("cannot load public suffix list", zap.Error(err))
			return ExitIO
		}
		split = s
	}
	rp := rules.FromOptions(rules.Options{Prefixes: cfg.PrefixList, IDNA: cfg.IDNA})
	m := metrics.New()
	workers := cfg.Workers()

	log.Info("sanitizing",
		zap.String("input", opts.Input), zap.String("output", opts.Output),
		zap.Int("workers", workers), zap.Int("chunk_size", cfg.ChunkSize),
		zap.Strings("prefixes", cfg.PrefixList), zap.Bool("idna", cfg.IDNA))

	set, st, err := pipeline.Run(ctx, pipeline.Config{
		Workers:      workers,
		ChunkSize:    cfg.ChunkSize,
		MaxLineBytes: cfg.MaxLineBytes,
	}, opts.Input, pipeline.NewLineProcessors(rp, split, cfg.CacheSize), log, m)
	if err != nil {
		var oe *chunker.OpenError
		switch {
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			log.Warn("canceled; no output written", zap.Int64("lines_read", st.Lines))
			return ExitCanceled
		case errors.As(err, &oe):
			log.Error("cannot read input", zap.String("path", oe.Path), zap.Error(oe.Err))
			return ExitIO
		default:
			log.Error("input failed", zap.Error(err))
			return ExitIO
		}
	}
	if ctx.Err() != nil {
		log.Warn("canceled; no output written")
		return ExitCanceled
	}

	n, err := writers.WriteSorted(set, opts.Output, stdout, writers.Options{
		BatchSize: cfg.WriteBatchSize,
		Format:    cfg.OutputFormat,
		Log:       log,
	})
	if writers.IsBrokenPipe(err) {
		return ExitOK
	}
	if err != nil {
		log.Error("cannot write output", zap.Error(err))
		return ExitIO
	}

	elapsed := time.Since(start)
	m.Finish(n, elapsed)
	if cfg.MetricsFile != "" {
		if err := m.WriteTextfile(cfg.MetricsFile); err != nil {
			log.Warn("metrics not written", zap.Error(err))
		}
	}
	log.Info("done",
		zap.Int64("lines", st.Lines), zap.Int64("accepted", st.Accepted),
		zap.Int64("rejected", st.Rejected), zap.Int64("decode_failures", st.DecodeFailures),
		zap.Int64("oversized", st.Oversized), zap.Int64("faults", st.Faults),
		zap.Int64("chunks", st.Chunks), zap.Int("unique", n),
		zap.Duration("elapsed", elapsed))
	return ExitOK
}

func flushCode(outw *bufio.Writer, stderr io.Writer, code int) int {
	if err := outw.Flush(); writers.IsBrokenPipe(err) {
		return ExitOK
	} else if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return ExitIO
	}
	return code
}
