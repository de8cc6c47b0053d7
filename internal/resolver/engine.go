// internal/resolver/engine.go
package resolver

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	cmap "github.com/orcaman/concurrent-map/v2"

	"nutrition-engine/internal/aggregate"
	"nutrition-engine/internal/cache"
	"nutrition-engine/internal/logging"
	"nutrition-engine/internal/models"
	"nutrition-engine/internal/validate"
)

// ResultStore is the cache surface the engine consumes. The cache sits
// beside the resolver, not inside it: the engine decides when to consult
// and when to write, and every hit is gated before use.
type ResultStore interface {
	Get(identity string) (*models.CacheEntry, bool)
	Put(identity string, profile *models.Profile, tier models.Tier) error
}

// Result is the outcome of one resolution request. Found=false is a
// first-class "data unavailable" answer, never a zero-filled profile.
type Result struct {
	Profile   *models.Profile `json:"profile,omitempty"`
	Tier      models.Tier     `json:"tier,omitempty"`
	Found     bool            `json:"found"`
	FromCache bool            `json:"from_cache"`
}

type inflightCall struct {
	done   chan struct{}
	result *Result
	err    error
}

// Engine orchestrates the full resolution pipeline: cache consult, tiered
// whole-name resolution, decomposition of unrecognized composites,
// per-component resolution, aggregation, validation, and the cache write.
type Engine struct {
	resolver   *TieredResolver
	decomposer *Decomposer
	serving    *ServingEstimator
	gate       validate.Gate
	store      ResultStore

	// One resolution per identity at a time; concurrent callers for the
	// same identity share the first caller's result instead of spawning
	// duplicate provider work.
	inflight cmap.ConcurrentMap[string, *inflightCall]
}

func NewEngine(resolver *TieredResolver, decomposer *Decomposer, serving *ServingEstimator, gate validate.Gate, store ResultStore) *Engine {
	return &Engine{
		resolver:   resolver,
		decomposer: decomposer,
		serving:    serving,
		gate:       gate,
		store:      store,
		inflight:   cmap.New[*inflightCall](),
	}
}

// Resolve produces the best-available nutrient profile for a food or meal
// spec. The only error it returns is a precondition violation; provider
// trouble and total exhaustion surface as Found=false.
func (e *Engine) Resolve(ctx context.Context, spec models.FoodSpec) (*Result, error) {
	if !spec.IsComposite() && spec.Grams <= 0 {
		return nil, ErrInvalidAmount
	}

	identity := cache.Identity(spec.Name, spec.HeadlineScore)
	log := logging.WithResolution(uuid.NewString(), spec.Name)

	if e.store != nil {
		if entry, ok := e.store.Get(identity); ok {
			isComposite := spec.IsComposite() || entry.Tier == models.TierAggregated
			if e.gate.IsValid(entry.Profile) && e.gate.IsReasonable(entry.Profile, isComposite) {
				log.Debug("cache hit", "identity", identity, "tier", entry.Tier)
				return &Result{Profile: entry.Profile, Tier: entry.Tier, Found: true, FromCache: true}, nil
			}
			// Invalid or implausible cached data is re-resolved and
			// overwritten; this is how stale entries self-heal.
			log.Info("cache entry failed validation, re-resolving", "identity", identity)
		}
	}

	for {
		call := &inflightCall{done: make(chan struct{})}
		if e.inflight.SetIfAbsent(identity, call) {
			call.result, call.err = e.resolveSpec(ctx, spec, identity, log)
			e.inflight.Remove(identity)
			close(call.done)
			return call.result, call.err
		}

		existing, ok := e.inflight.Get(identity)
		if !ok {
			// The winner finished between our two map operations; retry.
			continue
		}
		select {
		case <-existing.done:
			return existing.result, existing.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (e *Engine) resolveSpec(ctx context.Context, spec models.FoodSpec, identity string, log *slog.Logger) (*Result, error) {
	if spec.IsComposite() {
		components := make([]models.FoodComponent, 0, len(spec.Components))
		for _, name := range spec.Components {
			estimate := e.serving.Estimate(ctx, name, true)
			components = append(components, models.FoodComponent{
				Name:           name,
				EstimatedGrams: estimate.Grams,
			})
		}
		return e.resolveComposite(ctx, spec, identity, components, log)
	}

	profile, tier, err := e.resolver.Resolve(ctx, spec.Name, spec.Grams)
	if err != nil {
		return nil, err
	}

	if profile != nil && e.gate.IsReasonable(profile, false) {
		e.put(identity, profile, tier, log)
		return &Result{Profile: profile, Tier: tier, Found: true}, nil
	}
	if profile != nil {
		// A whole-name hit with implausible numbers is treated like a
		// miss: the food is probably a composite the provider mismatched.
		log.Warn("whole-item profile implausible, attempting decomposition")
	}

	components := e.decomposer.Decompose(ctx, spec.Name, spec.Summary)
	if len(components) == 0 {
		// Decomposition failed; the whole-name lookup above already was
		// the single-item fallback, so this is a terminal "not found".
		return &Result{Found: false}, nil
	}

	return e.resolveComposite(ctx, spec, identity, components, log)
}

func (e *Engine) resolveComposite(ctx context.Context, spec models.FoodSpec, identity string, components []models.FoodComponent, log *slog.Logger) (*Result, error) {
	profiles := e.resolveComponents(ctx, components, log)

	merged, found := aggregate.Merge(spec.Name, profiles)
	if !found {
		log.Info("no component resolved", "components", len(components))
		return &Result{Found: false}, nil
	}

	if !e.gate.IsValid(merged) || !e.gate.IsReasonable(merged, true) {
		log.Warn("aggregated profile failed validation", "components", len(components))
		return &Result{Found: false}, nil
	}

	e.put(identity, merged, models.TierAggregated, log)
	return &Result{Profile: merged, Tier: models.TierAggregated, Found: true}, nil
}

// resolveComponents resolves each component independently. One component's
// failure never aborts its siblings; the aggregator merges whatever
// succeeded. The aggregation law makes the concurrent ordering irrelevant.
func (e *Engine) resolveComponents(ctx context.Context, components []models.FoodComponent, log *slog.Logger) []*models.Profile {
	profiles := make([]*models.Profile, len(components))

	var wg sync.WaitGroup
	for i, component := range components {
		wg.Add(1)
		go func(i int, component models.FoodComponent) {
			defer wg.Done()
			profile, _, err := e.resolver.Resolve(ctx, component.Name, component.EstimatedGrams)
			if err != nil {
				log.Warn("component resolution failed", "component", component.Name, "error", err)
				return
			}
			profiles[i] = profile
		}(i, component)
	}
	wg.Wait()

	kept := profiles[:0]
	for _, p := range profiles {
		if p != nil {
			kept = append(kept, p)
		}
	}
	return kept
}

func (e *Engine) put(identity string, profile *models.Profile, tier models.Tier, log *slog.Logger) {
	if e.store == nil {
		return
	}
	if err := e.store.Put(identity, profile, tier); err != nil {
		log.Warn("cache write failed", "identity", identity, "error", err)
	}
}
