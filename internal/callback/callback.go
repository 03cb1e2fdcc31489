// Package callback implements the anytime emission path of spec.md
// §4.5: on every improving incumbent from the search engine, extract
// a full solution and atomically replace the result file on disk, but
// no more often than every emitInterval, so a fast stream of
// improvements doesn't thrash the filesystem.
package callback

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"pumpsched/internal/input"
	"pumpsched/internal/model"
	"pumpsched/internal/schedule"
	"pumpsched/internal/search"
	"pumpsched/internal/solution"
	"pumpsched/pkg/fsutil"
	"pumpsched/pkg/metrics"
)

// MinInterval is the default minimum wall-clock spacing between two
// anytime emissions (spec.md §4.5), used when no configured interval
// is supplied to New.
const MinInterval = 5 * time.Second

// Emitter adapts search.Options.OnImprovement to the throttled,
// atomic-write anytime contract.
type Emitter struct {
	mu       sync.Mutex
	last     time.Time
	minGap   time.Duration
	path     string
	m        *model.Model
	doc      *input.Document
	log      *slog.Logger
	skipped  int
	forceNow bool // true before the first emission, so it is never skipped
}

// New builds an Emitter that writes to path using m and doc to run the
// extractor, throttling emissions to no more than once per minGap
// (SPEC_FULL.md §10.3's output.emit_interval_seconds). minGap <= 0
// falls back to MinInterval.
func New(path string, m *model.Model, doc *input.Document, log *slog.Logger, minGap time.Duration) *Emitter {
	if minGap <= 0 {
		minGap = MinInterval
	}
	return &Emitter{path: path, m: m, doc: doc, log: log, minGap: minGap, forceNow: true}
}

// OnImprovement is passed directly as search.Options.OnImprovement.
func (e *Emitter) OnImprovement(inc search.Incumbent) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := time.Now()
	if !e.forceNow && now.Sub(e.last) < e.minGap {
		e.skipped++
		metrics.CallbackSkipped.Inc()
		return
	}
	e.forceNow = false
	e.last = now

	doc := solution.Extract(e.m, e.doc, inc.On, schedule.StatusIntermediate)
	if err := e.write(doc); err != nil {
		// Anytime-callback I/O errors are logged, not fatal (spec.md §7):
		// the search keeps running and may succeed on the next emission.
		e.log.Warn("anytime emission failed", "error", err, "path", e.path)
		return
	}
	metrics.CallbackEmissions.Inc()
}

// Final writes the terminal document (status "optimal" or "feasible")
// unconditionally, bypassing the throttle.
func (e *Emitter) Final(doc schedule.Document) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.write(doc)
}

func (e *Emitter) write(doc schedule.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(e.path, data, 0o644)
}

// Skipped reports how many improvements were throttled away, for
// logging at the end of a run.
func (e *Emitter) Skipped() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.skipped
}
