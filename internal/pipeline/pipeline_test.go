package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/goleak"

	"fqdnsan/internal/chunker"
	"fqdnsan/internal/fqdn"
	"fqdnsan/internal/metrics"
	"fqdnsan/internal/rules"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const scenario = `# comment
127.0.0.1 example.com
EXAMPLE.COM.
||ads.example.net
bad_*.com
-bad.com
good-domain.co.uk
`

func writeInput(t *testing.T, body string) string {
	t.Helper()
	fn := filepath.Join(t.TempDir(), "input.txt")
	if err := os.WriteFile(fn, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return fn
}

func defaultProcs() func() Processor {
	return NewLineProcessors(rules.Default(nil), fqdn.NewPSLSplitter(nil), 16)
}

func sorted(s DomainSet) []string {
	out := make([]string, 0, len(s))
	for d := range s {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

func TestRun_Scenario(t *testing.T) {
	fn := writeInput(t, scenario)
	m := metrics.New()
	set, st, err := Run(context.Background(), Config{Workers: 2, ChunkSize: 3}, fn, defaultProcs(), nil, m)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []string{"ads.example.net", "example.com", "good-domain.co.uk"}
	if diff := cmp.Diff(want, sorted(set)); diff != "" {
		t.Fatalf("set mismatch (-want +got):\n%s", diff)
	}
	if st.Lines != 7 || st.Accepted != 4 || st.Rejected != 3 || st.Unique != 3 || st.Chunks != 3 {
		t.Fatalf("unexpected stats: %+v", st)
	}
	if got := testutil.ToFloat64(m.UniqueDomains); got != 3 {
		t.Fatalf("unique gauge = %v", got)
	}
	if got := testutil.ToFloat64(m.CacheLookups.WithLabelValues("miss")); got == 0 {
		t.Fatalf("expected cache lookups to be recorded")
	}
}

func TestRun_ParallelismInvariance(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 500; i++ {
		fmt.Fprintf(&b, "0.0.0.0 host%d.example.com\n", i%137)
		fmt.Fprintf(&b, "||Ads%d.Example.NET.\n", i%41)
		b.WriteString("# noise\n*.wild.com\n-x.com\n")
	}
	fn := writeInput(t, b.String())
	lines := strings.Count(b.String(), "\n")

	ref, _, err := Run(context.Background(), Config{Workers: 1, ChunkSize: lines}, fn, defaultProcs(), nil, nil)
	if err != nil {
		t.Fatalf("reference run: %v", err)
	}
	if len(ref) != 137+41 {
		t.Fatalf("reference has %d domains, want %d", len(ref), 137+41)
	}
	for _, cs := range []int{1, 100, lines} {
		for _, w := range []int{1, 4} {
			got, _, err := Run(context.Background(), Config{Workers: w, ChunkSize: cs}, fn, defaultProcs(), nil, nil)
			if err != nil {
				t.Fatalf("chunk=%d workers=%d: %v", cs, w, err)
			}
			if diff := cmp.Diff(sorted(ref), sorted(got)); diff != "" {
				t.Fatalf("chunk=%d workers=%d differs (-ref +got):\n%s", cs, w, diff)
			}
		}
	}
}

type panicky struct{ inner Processor }

func (p panicky) Process(line string) (string, bool) {
	if strings.Contains(line, "boom") {
		panic("validator exploded")
	}
	return p.inner.Process(line)
}

func TestRun_FaultsAreContained(t *testing.T) {
	fn := writeInput(t, "a.example.com\nboom.com\nb.example.com\n")
	base := defaultProcs()
	m := metrics.New()
	set, st, err := Run(context.Background(), Config{Workers: 1, ChunkSize: 10}, fn,
		func() Processor { return panicky{inner: base()} }, nil, m)
	if err != nil {
		t.Fatalf("fault must not abort the run: %v", err)
	}
	if !set.Has("a.example.com") || !set.Has("b.example.com") || len(set) != 2 {
		t.Fatalf("other lines of the chunk must still merge: %v", sorted(set))
	}
	if st.Faults != 1 || testutil.ToFloat64(m.ChunkFaults) != 1 {
		t.Fatalf("fault not counted: %+v", st)
	}
}

func TestRun_MissingInputIsOpenError(t *testing.T) {
	called := false
	_, _, err := Run(context.Background(), Config{Workers: 2}, filepath.Join(t.TempDir(), "missing.txt"),
		func() Processor { called = true; return nil }, nil, nil)
	var oe *chunker.OpenError
	if !errors.As(err, &oe) {
		t.Fatalf("want *chunker.OpenError, got %v", err)
	}
	if called {
		t.Fatal("workers must not start when the input cannot be opened")
	}
}

func TestRun_EmptyInput(t *testing.T) {
	fn := writeInput(t, "")
	set, st, err := Run(context.Background(), Config{Workers: 3}, fn, defaultProcs(), nil, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(set) != 0 || st.Unique != 0 || st.Chunks != 0 {
		t.Fatalf("want empty result, got %v %+v", sorted(set), st)
	}
}

func TestRun_DecodeFailuresCounted(t *testing.T) {
	fn := writeInput(t, "ok.com\n\xc3\x28.com\nfine.org\n")
	set, st, err := Run(context.Background(), Config{Workers: 1}, fn, defaultProcs(), nil, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if st.DecodeFailures != 1 || len(set) != 2 {
		t.Fatalf("got %v %+v", sorted(set), st)
	}
}

type blocking struct{ release <-chan struct{} }

func (b blocking) Process(line string) (string, bool) {
	<-b.release
	return line, true
}

func TestRun_CanceledPublishesNothing(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 1000; i++ {
		fmt.Fprintf(&b, "h%d.example.com\n", i)
	}
	fn := writeInput(t, b.String())

	ctx, cancel := context.WithCancel(context.Background())
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	newProc := func() Processor {
		select {
		case started <- struct{}{}:
		default:
		}
		return blocking{release: release}
	}
	go func() {
		<-started
		cancel()
		close(release)
	}()
	set, _, err := Run(ctx, Config{Workers: 2, ChunkSize: 10}, fn, newProc, nil, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
	if set != nil {
		t.Fatalf("partial set must not be returned")
	}
}
