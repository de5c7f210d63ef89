// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"fqdnsan/internal/chunker"
	"fqdnsan/internal/metrics"
	"fqdnsan/internal/runutil"
)

// Config controls the pool.
type Config struct {
	Workers      int // number of worker goroutines (>=1)
	ChunkSize    int // lines per chunk
	MaxLineBytes int // longer lines are dropped by the reader
}

// ChunkFault describes a recovered panic while processing a line.
// Faults are logged and counted; they never abort the run.
type ChunkFault struct {
	Seq   int
	Line  int
	Value any
}

func (f ChunkFault) Error() string {
	return fmt.Sprintf("chunk %d line %d: %v", f.Seq, f.Line, f.Value)
}

type chunkResult struct {
	seq      int
	domains  []string
	lines    int64
	accepted int64
	rejected int64
	faults   []ChunkFault
}

// Run reads path in chunks, processes them with cfg.Workers workers and
// returns the merged set. newProc is called once per worker.
//
// An input that cannot be opened is returned as *chunker.OpenError before
// any work starts. A read failure mid-file or ctx cancellation returns a
// nil set: partial results are never handed back.
func Run(
	ctx context.Context,
	cfg Config,
	path string,
	newProc func() Processor,
	log *zap.Logger,
	m *metrics.Metrics,
) (DomainSet, Stats, error) {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	if m == nil {
		m = metrics.New()
	}
	start := time.Now()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)

	depth := runutil.QueueDepth(cfg.Workers)
	jobs, readerDone, err := chunker.StreamChan(gctx, path, chunker.Options{
		ChunkSize:    cfg.ChunkSize,
		MaxLineBytes: cfg.MaxLineBytes,
	}, depth)
	if err != nil {
		return nil, Stats{}, err
	}
	results := make(chan chunkResult, depth)

	// Workers
	for w := 0; w < cfg.Workers; w++ {
		proc := newProc()
		g.Go(func() error {
			defer func() {
				if cr, ok := proc.(CacheReporter); ok {
					m.ObserveCache(cr.CacheStats())
				}
			}()
			for {
				select {
				case <-gctx.Done():
					return gctx.Err()
				case c, ok := <-jobs:
					if !ok {
						return nil
					}
					r := processChunk(proc, c)
					select {
					case results <- r:
					case <-gctx.Done():
						return gctx.Err()
					}
				}
			}
		})
	}

	// Collector: the only writer of set.
	var (
		st   Stats
		set  = make(DomainSet, 1<<12)
		done = make(chan struct{})
	)
	go func() {
		defer close(done)
		for r := range results {
			for _, d := range r.domains {
				set.Add(d)
			}
			st.Chunks++
			st.Lines += r.lines
			st.Accepted += r.accepted
			st.Rejected += r.rejected
			st.Faults += int64(len(r.faults))

			m.Chunks.Inc()
			m.Lines.Add(float64(r.lines))
			m.Accepted.Add(float64(r.accepted))
			m.Rejected.Add(float64(r.rejected))
			m.ChunkFaults.Add(float64(len(r.faults)))
			for i, f := range r.faults {
				if i == 0 {
					log.Warn("recovered fault while processing chunk",
						zap.Int("chunk", f.Seq), zap.Int("line", f.Line),
						zap.Int("faults_in_chunk", len(r.faults)), zap.Error(f))
				} else {
					log.Debug("recovered fault", zap.Error(f))
				}
			}
			log.Debug("merged chunk",
				zap.Int("chunk", r.seq), zap.Int64("lines", r.lines),
				zap.Int("found", len(r.domains)), zap.Int("unique_total", len(set)))
		}
	}()

	werr := g.Wait()
	close(results)
	<-done

	rst, rerr := readerDone()
	st.DecodeFailures = rst.DecodeFailures
	st.Oversized = rst.Oversized
	m.DecodeFailures.Add(float64(rst.Dropped()))

	if err := ctx.Err(); err != nil {
		return nil, st, err
	}
	if rerr != nil {
		return nil, st, rerr
	}
	if werr != nil {
		return nil, st, werr
	}

	st.Unique = len(set)
	m.Finish(st.Unique, time.Since(start))
	if d := rst.Dropped(); d > 0 {
		log.Info("dropped undecodable input lines",
			zap.Int64("invalid_utf8", rst.DecodeFailures), zap.Int64("oversized", rst.Oversized))
	}
	return set, st, nil
}

func processChunk(p Processor, c chunker.Chunk) chunkResult {
	r := chunkResult{seq: c.Seq, lines: int64(len(c.Lines))}
	seen := make(map[string]struct{}, len(c.Lines)/4)
	for i, line := range c.Lines {
		d, ok, fault := processLine(p, line)
		if fault != nil {
			r.faults = append(r.faults, ChunkFault{Seq: c.Seq, Line: i, Value: fault})
			continue
		}
		if !ok {
			r.rejected++
			continue
		}
		r.accepted++
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		r.domains = append(r.domains, d)
	}
	return r
}

func processLine(p Processor, line string) (d string, ok bool, fault any) {
	defer func() {
		if v := recover(); v != nil {
			d, ok, fault = "", false, v
		}
	}()
	d, ok = p.Process(line)
	return d, ok, nil
}
