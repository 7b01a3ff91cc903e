package weather

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/agromitra/agromitra/internal/config"
	"github.com/agromitra/agromitra/pkg/telemetry"
)

const maxTierTimeout = 10 * time.Second

// MetricsRecorder receives per-source call outcomes for the metrics
// endpoint.
type MetricsRecorder interface {
	RecordSourceCall(ctx context.Context, source string, success bool)
	RecordSimulatedServe(ctx context.Context)
}

// tierResult is the explicit outcome of one tier attempt: either a
// complete snapshot or the reason the tier failed. The chain pattern-
// matches on it instead of unwinding through error handling.
type tierResult struct {
	snapshot *Snapshot
	err      error
}

func (r tierResult) ok() bool {
	return r.err == nil && r.snapshot != nil
}

type tier struct {
	name    string
	attempt func(ctx context.Context, locationText string) (*Snapshot, error)
}

// Fetcher orchestrates the source failover chain: primary API, then
// secondary API, then deterministic simulation. Tiers run strictly
// sequentially; the first structurally valid result wins with no
// quality comparison across tiers. Fetch never fails from the caller's
// perspective except on cancellation, because the simulation tier is
// unconditional. The fetcher holds no session or cache, so concurrent
// calls are fully independent.
type Fetcher struct {
	cfg      config.SourcesConfig
	resolver *Resolver
	client   *http.Client
	timeout  time.Duration
	logger   *zap.Logger
	tele     *telemetry.Telemetry
	metrics  MetricsRecorder
	breakers map[string]*gobreaker.CircuitBreaker
	now      func() time.Time
}

func NewFetcher(cfg config.SourcesConfig, logger *zap.Logger, tele *telemetry.Telemetry) *Fetcher {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 || timeout > maxTierTimeout {
		timeout = maxTierTimeout
	}

	breakers := make(map[string]*gobreaker.CircuitBreaker, 2)
	for _, name := range []string{PrimarySourceName, SecondarySourceName} {
		name := name
		breakers[name] = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        name,
			MaxRequests: 1,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn("Source breaker state changed",
					zap.String("source", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()))
			},
		})
	}

	return &Fetcher{
		cfg:      cfg,
		resolver: NewResolver(cfg, logger),
		client:   &http.Client{Timeout: timeout},
		timeout:  timeout,
		logger:   logger,
		tele:     tele,
		breakers: breakers,
		now:      time.Now,
	}
}

// SetMetricsRecorder wires the metrics sink. Optional.
func (f *Fetcher) SetMetricsRecorder(m MetricsRecorder) {
	f.metrics = m
}

// Fetch returns a complete snapshot for the given place name. The only
// errors it reports are malformed input and cancellation; every
// upstream failure is absorbed by advancing through the chain, and the
// terminal simulation tier cannot fail.
func (f *Fetcher) Fetch(ctx context.Context, locationText string) (Snapshot, error) {
	locationText = strings.TrimSpace(locationText)
	if locationText == "" {
		return Snapshot{}, &ValidationError{Field: "location", Reason: "must not be empty"}
	}

	tracer := f.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "fetcher.Fetch")
	defer span.End()
	span.SetAttributes(attribute.String("location", locationText))

	for _, t := range f.liveTiers() {
		if err := ctx.Err(); err != nil {
			return Snapshot{}, err
		}

		res := f.attemptTier(ctx, t, locationText)
		if res.ok() {
			span.SetAttributes(attribute.String("source", res.snapshot.SourceName))
			return *res.snapshot, nil
		}

		// Cancellation aborts the chain rather than falling through:
		// a half-attempted fetch must never degrade into simulation.
		if ctx.Err() != nil {
			return Snapshot{}, ctx.Err()
		}

		if errors.Is(res.err, ErrNotConfigured) {
			f.logger.Debug("Source tier skipped", zap.String("tier", t.name))
			continue
		}
		f.logger.Warn("Source tier failed, falling through",
			zap.String("tier", t.name),
			zap.Error(res.err))
	}

	span.SetAttributes(attribute.String("source", SimulationSourceName))
	f.logger.Info("Serving simulated forecast", zap.String("location", locationText))
	if f.metrics != nil {
		f.metrics.RecordSimulatedServe(ctx)
	}
	return Simulate(locationText, f.now()), nil
}

func (f *Fetcher) liveTiers() []tier {
	return []tier{
		{name: PrimarySourceName, attempt: f.tryPrimary},
		{name: SecondarySourceName, attempt: f.trySecondary},
	}
}

func (f *Fetcher) attemptTier(ctx context.Context, t tier, locationText string) tierResult {
	tctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	tracer := f.tele.GetTracer()
	tctx, span := tracer.Start(tctx, "fetcher.tier."+t.name)
	defer span.End()

	snap, err := t.attempt(tctx, locationText)
	if err != nil {
		span.SetAttributes(attribute.Bool("success", false))
		if f.metrics != nil && !errors.Is(err, ErrNotConfigured) {
			f.metrics.RecordSourceCall(ctx, t.name, false)
		}
		return tierResult{err: err}
	}

	span.SetAttributes(attribute.Bool("success", true))
	if f.metrics != nil {
		f.metrics.RecordSourceCall(ctx, t.name, true)
	}
	return tierResult{snapshot: snap}
}

// tryPrimary geocodes the place through the primary source, pulls its
// sub-daily forecast and aggregates it into daily summaries. A zero-
// match geocode is treated like any other upstream failure here: a
// named place should still get some forecast from a later tier.
func (f *Fetcher) tryPrimary(ctx context.Context, locationText string) (*Snapshot, error) {
	if f.cfg.Primary.APIKey == "" {
		return nil, ErrNotConfigured
	}

	out, err := f.breakers[PrimarySourceName].Execute(func() (interface{}, error) {
		loc, err := f.resolver.ResolveByName(ctx, locationText)
		if err != nil {
			return nil, err
		}

		samples, current, zone, err := f.fetchPrimaryForecast(ctx, loc)
		if err != nil {
			return nil, err
		}

		daily := AggregateDaily(samples, zone)
		if len(daily) == 0 {
			return nil, errors.New("no aggregatable samples")
		}

		return &Snapshot{
			Location:         loc,
			Current:          current,
			Forecast:         daily,
			IsSimulated:      false,
			SourceName:       PrimarySourceName,
			ReliabilityScore: PrimaryReliability,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return out.(*Snapshot), nil
}

func (f *Fetcher) trySecondary(ctx context.Context, locationText string) (*Snapshot, error) {
	if f.cfg.Secondary.APIKey == "" {
		return nil, ErrNotConfigured
	}

	out, err := f.breakers[SecondarySourceName].Execute(func() (interface{}, error) {
		return f.fetchSecondary(ctx, locationText)
	})
	if err != nil {
		return nil, err
	}
	return out.(*Snapshot), nil
}
