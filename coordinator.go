package tdb

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"

	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Mode selects how buildAll fans out multiple sibling builds.
type Mode int

const (
	// Parallel launches all sub-builds concurrently and awaits all.
	Parallel Mode = iota
	// Serial builds names strictly one at a time, in order.
	Serial
)

// Config carries a Coordinator's configuration.
type Config struct {
	// Rules is the static rule set, in declaration order.
	Rules []NamedRule
	// GeneratedRules is an optional hook for dynamically produced rules;
	// see Registry.
	GeneratedRules GeneratedRulesFunc
	// Logger receives build progress and diagnostics. Defaults to
	// NullLogger.
	Logger Logger
	// GlobalPrereqs is appended to every target's explicit prereq list.
	GlobalPrereqs []string
	// DefaultTargets is used by Run when no target names are given on the
	// command line.
	DefaultTargets []string
	// Mode is the default concurrency mode. A Coordinator configured as
	// Serial cannot be downgraded to Parallel by a command-line override.
	Mode Mode
	// ScriptName labels the program in --help output.
	ScriptName string
	// Oracle is an optional pluggable alternate mtime source.
	Oracle MtimeFunc
	// Stdout and Stderr receive CLI output (usage text, target listings,
	// error rendering). Both default to the process's own streams.
	Stdout io.Writer
	Stderr io.Writer
}

type cachedResult struct {
	result Result
	err    error
}

// Coordinator is the memoized public entrypoint for building targets. For
// any target name it produces at most one in-flight build future, shared
// by every caller that requests that name while it is building or after
// it has settled.
type Coordinator struct {
	registry       *Registry
	oracle         *Oracle
	logger         Logger
	globalPrereqs  []string
	defaultTargets []string
	mode           Mode
	scriptName     string
	stdout         io.Writer
	stderr         io.Writer

	group singleflight.Group

	resultsMu sync.RWMutex
	results   map[string]cachedResult

	join *joinTracker
}

// New constructs a Coordinator from cfg.
func New(cfg Config) *Coordinator {
	logger := cfg.Logger
	if logger == nil {
		logger = NullLogger{}
	}
	stdout := cfg.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := cfg.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	return &Coordinator{
		registry:       NewRegistry(cfg.Rules, cfg.GeneratedRules),
		oracle:         &Oracle{Alt: cfg.Oracle},
		logger:         logger,
		globalPrereqs:  cfg.GlobalPrereqs,
		defaultTargets: cfg.DefaultTargets,
		mode:           cfg.Mode,
		scriptName:     cfg.ScriptName,
		stdout:         stdout,
		stderr:         stderr,
		results:        make(map[string]cachedResult),
		join:           newJoinTracker(),
	}
}

type modeKey struct{}

func withMode(ctx context.Context, m Mode) context.Context {
	return context.WithValue(ctx, modeKey{}, m)
}

func (c *Coordinator) modeFor(ctx context.Context) Mode {
	if m, ok := ctx.Value(modeKey{}).(Mode); ok {
		return m
	}
	return c.mode
}

// Build returns the build future for name: at most one build callable
// invocation per Coordinator lifetime, shared by every caller.
func (c *Coordinator) Build(ctx context.Context, name string, trace Trace) (Result, error) {
	return c.build(ctx, NewName(name), trace)
}

// BuildAll aggregates multiple build requests, deduping the input list
// preserving first-occurrence order, and returns the elementwise max of
// their mtimes (seed NegInf).
func (c *Coordinator) BuildAll(ctx context.Context, names []string, trace Trace) (Result, error) {
	interned := make([]Name, len(names))
	for i, n := range names {
		interned[i] = NewName(n)
	}
	return c.buildAllInternal(ctx, interned, trace, c.modeFor(ctx))
}

func (c *Coordinator) build(ctx context.Context, name Name, trace Trace) (Result, error) {
	key := name.String()

	c.resultsMu.RLock()
	if cached, ok := c.results[key]; ok {
		c.resultsMu.RUnlock()
		return cached.result, cached.err
	}
	c.resultsMu.RUnlock()

	// The cycle check has to happen here, before the singleflight dedup
	// gate: a re-entrant call for a key already in flight would otherwise
	// block on group.Do waiting for the very build that is waiting on it,
	// deadlocking instead of detecting the cycle.
	for _, ancestor := range trace {
		if ancestor == key {
			cycleTrace := append(trace.clone(), key)
			return Result{}, traced(zerr.With(zerr.Wrap(ErrCycle, "target depends on itself"), "target", key), cycleTrace)
		}
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		c.resultsMu.RLock()
		if cached, ok := c.results[key]; ok {
			c.resultsMu.RUnlock()
			return cached.result, cached.err
		}
		c.resultsMu.RUnlock()

		c.join.start()
		res, buildErr := c.buildOne(ctx, name, trace)
		c.join.finish(buildErr)

		c.resultsMu.Lock()
		c.results[key] = cachedResult{result: res, err: buildErr}
		c.resultsMu.Unlock()

		return res, buildErr
	})
	if err != nil {
		return Result{}, err
	}
	return v.(Result), nil
}

func (c *Coordinator) buildOne(ctx context.Context, name Name, trace Trace) (Result, error) {
	rule, ok, err := c.registry.Lookup(ctx, name.String())
	if err != nil {
		return Result{}, traced(err, append(trace.clone(), name.String()))
	}
	if !ok {
		m, err := c.oracle.Mtime(name.String(), NotFoundError, PosInf)
		if err != nil {
			return Result{}, traced(err, append(trace.clone(), name.String()))
		}
		return Result{Mtime: m}, nil
	}
	return c.resolveTarget(ctx, name, rule, trace)
}

// buildAllInternal is the shared fan-out used by both the public BuildAll
// and the Resolver's recursive prereq builds.
func (c *Coordinator) buildAllInternal(ctx context.Context, names []Name, trace Trace, mode Mode) (Result, error) {
	names = dedup(names)
	if len(names) == 0 {
		return Result{Mtime: NegInf}, nil
	}

	if mode == Serial {
		max := NegInf
		for _, n := range names {
			r, err := c.build(ctx, n, trace)
			if err != nil {
				return Result{}, err
			}
			if r.Mtime > max {
				max = r.Mtime
			}
		}
		return Result{Mtime: max}, nil
	}

	results := make([]Result, len(names))
	var g errgroup.Group
	var errsMu sync.Mutex
	var errs error
	for i, n := range names {
		i, n := i, n
		g.Go(func() error {
			r, err := c.build(ctx, n, trace)
			if err != nil {
				errsMu.Lock()
				errs = errors.Join(errs, err)
				errsMu.Unlock()
				return err
			}
			results[i] = r
			return nil
		})
	}
	_ = g.Wait()
	if errs != nil {
		return Result{}, errs
	}

	max := NegInf
	for _, r := range results {
		if r.Mtime > max {
			max = r.Mtime
		}
	}
	return Result{Mtime: max}, nil
}

// Join returns once every outstanding build future has settled. If new
// builds are spawned while Join is waiting (a rule dynamically requesting
// another target), it re-awaits until no new work appears.
func (c *Coordinator) Join() error {
	return c.join.Join()
}

// joinTracker implements the settle-tracker described in §4.7: it
// tracks outstanding build dispatches and lets Join poll until two
// consecutive idle observations see the same generation.
type joinTracker struct {
	mu         sync.Mutex
	cond       *sync.Cond
	active     int
	generation int64
	errs       error
}

func newJoinTracker() *joinTracker {
	t := &joinTracker{}
	t.cond = sync.NewCond(&t.mu)
	return t
}

func (t *joinTracker) start() {
	t.mu.Lock()
	t.active++
	t.generation++
	t.mu.Unlock()
}

func (t *joinTracker) finish(err error) {
	t.mu.Lock()
	t.active--
	if err != nil {
		t.errs = errors.Join(t.errs, err)
	}
	if t.active == 0 {
		t.cond.Broadcast()
	}
	t.mu.Unlock()
}

func (t *joinTracker) waitIdle() {
	t.mu.Lock()
	for t.active != 0 {
		t.cond.Wait()
	}
	t.mu.Unlock()
}

func (t *joinTracker) snapshot() (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.generation, t.errs
}

func (t *joinTracker) Join() error {
	prevGen := int64(-1)
	for {
		t.waitIdle()
		gen, errs := t.snapshot()
		if gen == prevGen {
			return errs
		}
		prevGen = gen
	}
}
