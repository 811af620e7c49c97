package routedef

import (
	"context"
	stderrors "errors"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/vango-dev/routedefs/internal/errors"
	"github.com/vango-dev/routedefs/pkg/manifest"
	"github.com/vango-dev/routedefs/pkg/normalize"
	"github.com/vango-dev/routedefs/pkg/routekind"
	"github.com/vango-dev/routedefs/pkg/telemetry"
)

// Capabilities is everything that distinguishes one route kind from another.
type Capabilities struct {
	// Kind tags every definition the provider produces.
	Kind routekind.Kind

	// ManifestKey is the manifest the provider reads.
	ManifestKey string

	// Predicate selects the manifest entries of this kind.
	Predicate Predicate

	// Normalizer maps artifact references to filenames.
	Normalizer normalize.Normalizer

	// NewBuilder returns a fresh builder for one resolution pass.
	NewBuilder func() *Builder
}

// Option configures a Provider.
type Option func(*Provider)

// WithLogger sets the logger. If nil, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Provider) {
		p.logger = logger
	}
}

// WithMetrics records resolutions on m.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(p *Provider) {
		p.metrics = m
	}
}

// WithTracer sets the tracer. Defaults to telemetry.Tracer().
func WithTracer(tracer trace.Tracer) Option {
	return func(p *Provider) {
		p.tracer = tracer
	}
}

// Provider resolves the route definitions of one kind from a manifest.
//
// The resolved set is cached together with the manifest version it came
// from. Resolve polls the loader's version and only reloads when it changed;
// concurrent callers that need the same version share one load.
// A load that was overtaken by Invalidate or by a later load never
// replaces the cache.
// A Provider is safe for concurrent use.
type Provider struct {
	caps    Capabilities
	loader  manifest.Loader
	logger  *slog.Logger
	metrics *telemetry.Metrics
	tracer  trace.Tracer

	flights singleflight.Group

	mu     sync.Mutex
	cached *Set
	// gen advances on every Invalidate.
	gen uint64
	// seq numbers loads in start order; storedSeq is the load behind cached.
	seq       uint64
	storedSeq uint64
}

// NewProvider creates a provider for caps reading through loader.
func NewProvider(caps Capabilities, loader manifest.Loader, opts ...Option) *Provider {
	p := &Provider{
		caps:   caps,
		loader: loader,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	if p.tracer == nil {
		p.tracer = telemetry.Tracer()
	}
	if p.caps.Predicate == nil {
		p.caps.Predicate = func(string) bool { return true }
	}
	if p.caps.NewBuilder == nil {
		kind := caps.Kind
		p.caps.NewBuilder = func() *Builder { return NewBuilder(kind, nil) }
	}
	p.logger = p.logger.With("kind", caps.Kind.String(), "manifest", caps.ManifestKey)
	return p
}

// Kind returns the kind of route this provider serves.
func (p *Provider) Kind() routekind.Kind {
	return p.caps.Kind
}

// ManifestKey returns the manifest this provider reads.
func (p *Provider) ManifestKey() string {
	return p.caps.ManifestKey
}

// Cached returns the current set without resolving.
func (p *Provider) Cached() (*Set, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cached, p.cached != nil
}

// cachedAt returns the cached set if it was built from version.
func (p *Provider) cachedAt(version manifest.Version) (*Set, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cached != nil && p.cached.Version() == version {
		return p.cached, true
	}
	return nil, false
}

// Invalidate discards the cached set. The next Resolve reloads the manifest
// even if its version did not change.
func (p *Provider) Invalidate() {
	p.mu.Lock()
	had := p.cached != nil
	p.cached = nil
	p.gen++
	p.mu.Unlock()

	if had {
		p.metrics.ObserveInvalidation(p.caps.Kind.String(), "event")
		p.logger.Debug("route definitions invalidated")
	}
}

// Resolve returns the definitions for the current manifest version.
//
// Loader and builder errors are returned unchanged and no set is returned
// with them. If ctx is cancelled while a load is in flight the caller gets
// ctx.Err(); the load itself finishes and fills the cache for later callers.
func (p *Provider) Resolve(ctx context.Context) (*Set, error) {
	ctx, span := telemetry.StartSpan(ctx, p.tracer, "routedef.Resolve",
		telemetry.KeyKind.String(p.caps.Kind.String()),
		telemetry.KeyManifest.String(p.caps.ManifestKey),
	)
	start := time.Now()

	set, outcome, err := p.resolve(ctx)

	p.metrics.ObserveResolve(p.caps.Kind.String(), outcome, time.Since(start))
	span.SetAttributes(telemetry.KeyOutcome.String(string(outcome)))
	if set != nil {
		span.SetAttributes(
			telemetry.KeyVersion.String(string(set.Version())),
			telemetry.KeyDefinitions.Int(set.Len()),
		)
	}
	telemetry.EndSpan(span, err)

	return set, err
}

func (p *Provider) resolve(ctx context.Context) (*Set, telemetry.Outcome, error) {
	version, err := p.loader.Version(ctx, p.caps.ManifestKey)
	if err != nil {
		return nil, p.failure(ctx, err), err
	}

	p.mu.Lock()
	gen := p.gen
	if p.cached != nil {
		if p.cached.Version() == version {
			set := p.cached
			p.mu.Unlock()
			return set, telemetry.OutcomeHit, nil
		}
		p.cached = nil
		p.mu.Unlock()
		p.metrics.ObserveInvalidation(p.caps.Kind.String(), "version")
		p.logger.Debug("manifest version changed", "version", string(version))
	} else {
		p.mu.Unlock()
	}

	// The load must outlive a cancelled caller so it can still fill the cache.
	loadCtx := context.WithoutCancel(ctx)
	// Callers arriving after Invalidate must not join a flight started before it.
	key := string(version) + "@" + strconv.FormatUint(gen, 10)
	ch := p.flights.DoChan(key, func() (any, error) {
		if set, ok := p.cachedAt(version); ok {
			return set, nil
		}
		return p.load(loadCtx, gen)
	})

	select {
	case <-ctx.Done():
		return nil, telemetry.OutcomeCancelled, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, telemetry.OutcomeError, res.Err
		}
		outcome := telemetry.OutcomeLoad
		if res.Shared {
			outcome = telemetry.OutcomeCoalesced
		}
		return res.Val.(*Set), outcome, nil
	}
}

// failure classifies err and drops the cache unless the caller just gave up.
func (p *Provider) failure(ctx context.Context, err error) telemetry.Outcome {
	if ctx.Err() != nil && (stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded)) {
		return telemetry.OutcomeCancelled
	}
	p.dropOnError(err, 0)
	return telemetry.OutcomeError
}

// dropOnError clears the cache unless a load newer than seq already filled
// it. A zero seq always clears.
func (p *Provider) dropOnError(err error, seq uint64) {
	p.mu.Lock()
	had := false
	if seq == 0 || seq >= p.storedSeq {
		had = p.cached != nil
		p.cached = nil
	}
	p.mu.Unlock()

	if had {
		p.metrics.ObserveInvalidation(p.caps.Kind.String(), "error")
	}
	p.logger.Warn("route definition resolution failed", "error", err)
}

// load fetches the manifest and runs one build cycle. The result is cached
// only if no Invalidate happened since gen was read and no later load has
// been stored.
func (p *Provider) load(ctx context.Context, gen uint64) (*Set, error) {
	p.mu.Lock()
	p.seq++
	seq := p.seq
	p.mu.Unlock()

	ctx, span := telemetry.StartSpan(ctx, p.tracer, "routedef.Load",
		telemetry.KeyKind.String(p.caps.Kind.String()),
		telemetry.KeyManifest.String(p.caps.ManifestKey),
	)
	start := time.Now()

	set, err := p.loadAndBuild(ctx)

	p.metrics.ObserveLoad(p.caps.Kind.String(), err, time.Since(start))
	if err != nil {
		p.dropOnError(err, seq)
		telemetry.EndSpan(span, err)
		return nil, err
	}

	if p.store(set, gen, seq) {
		p.metrics.SetDefinitions(p.caps.Kind.String(), set.Len())
		p.logger.Debug("route definitions resolved",
			"version", string(set.Version()),
			"definitions", set.Len(),
			"duration", time.Since(start),
		)
	} else {
		p.logger.Debug("discarding superseded route definitions",
			"version", string(set.Version()),
		)
	}
	span.SetAttributes(attribute.Int(string(telemetry.KeyDefinitions), set.Len()))
	telemetry.EndSpan(span, nil)

	return set, nil
}

func (p *Provider) store(set *Set, gen, seq uint64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen || seq < p.storedSeq {
		return false
	}
	p.cached = set
	p.storedSeq = seq
	return true
}

func (p *Provider) loadAndBuild(ctx context.Context) (*Set, error) {
	m, err := p.loader.Load(ctx, p.caps.ManifestKey)
	if err != nil {
		return nil, err
	}
	set, err := p.Transform(m)
	if err != nil {
		return nil, err
	}
	return set, nil
}

// Transform filters, normalizes and builds the definitions of m without
// touching the cache. It uses a fresh builder on every call.
func (p *Provider) Transform(m *manifest.Manifest) (*Set, error) {
	builder := p.caps.NewBuilder()

	for _, entry := range m.Entries() {
		if !p.caps.Predicate(entry.Page) {
			continue
		}

		filename, err := p.caps.Normalizer.Normalize(entry.Artifact)
		if err != nil {
			return nil, p.annotate(err, entry.Page)
		}
		if err := builder.Add(entry.Page, filename); err != nil {
			return nil, p.annotate(err, entry.Page)
		}
	}

	set, err := builder.Build()
	if err != nil {
		return nil, err
	}
	return set.withVersion(m.Version()), nil
}

// annotate records the manifest entry on coded errors that lack a source.
// The error is copied so shared sentinels are never modified.
func (p *Provider) annotate(err error, page string) error {
	re, ok := err.(*errors.RouteError)
	if !ok || re.Source != nil {
		return err
	}
	annotated := *re
	return annotated.WithSource(p.caps.ManifestKey, page)
}
