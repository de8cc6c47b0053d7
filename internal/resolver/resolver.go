// internal/resolver/resolver.go
package resolver

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"nutrition-engine/internal/models"
	"nutrition-engine/internal/providers"
	"nutrition-engine/internal/units"
	"nutrition-engine/internal/validate"
)

// ErrInvalidAmount is the only error Resolve raises: a precondition
// violation by the caller. Everything a provider does wrong is a
// fall-through, and total exhaustion is an explicit "not found", not an
// error.
var ErrInvalidAmount = errors.New("requested amount must be positive")

const (
	DefaultShortTimeout = 8 * time.Second
	DefaultLongTimeout  = 90 * time.Second
)

// TieredResolver tries data providers in priority order for one food at one
// amount: structured reference source, then the commercial API, then the
// generative estimator. Each tier is asked for the exact requested amount;
// any scaling is the provider's job.
type TieredResolver struct {
	structured providers.StructuredSource
	commercial providers.CommercialAPI
	generative providers.GenerativeEstimator

	gate         validate.Gate
	shortTimeout time.Duration
	longTimeout  time.Duration
}

func NewTieredResolver(
	structured providers.StructuredSource,
	commercial providers.CommercialAPI,
	generative providers.GenerativeEstimator,
	gate validate.Gate,
) *TieredResolver {
	return &TieredResolver{
		structured:   structured,
		commercial:   commercial,
		generative:   generative,
		gate:         gate,
		shortTimeout: DefaultShortTimeout,
		longTimeout:  DefaultLongTimeout,
	}
}

// WithTimeouts overrides the per-tier timeouts.
func (r *TieredResolver) WithTimeouts(short, long time.Duration) *TieredResolver {
	r.shortTimeout = short
	r.longTimeout = long
	return r
}

// Resolve returns the best-available profile for one food, or (nil,
// TierNone, nil) when every tier is exhausted without a usable match.
//
// A tier's answer is accepted only if it passes the structural validity
// gate. Transport errors, malformed payloads, and clean "unknown food"
// responses are indistinguishable to the next tier: all three fall through.
func (r *TieredResolver) Resolve(ctx context.Context, name string, grams float64) (*models.Profile, models.Tier, error) {
	if grams <= 0 {
		return nil, models.TierNone, ErrInvalidAmount
	}

	log := slog.With("food", name, "grams", grams)

	tiers := []struct {
		tier    models.Tier
		timeout time.Duration
		lookup  func(context.Context) (*models.Profile, error)
	}{
		{models.TierStructured, r.shortTimeout, func(ctx context.Context) (*models.Profile, error) {
			if r.structured == nil {
				return nil, nil
			}
			return r.structured.Lookup(ctx, name, grams)
		}},
		{models.TierCommercial, r.shortTimeout, func(ctx context.Context) (*models.Profile, error) {
			if r.commercial == nil {
				return nil, nil
			}
			return r.commercial.Lookup(ctx, name, grams)
		}},
		{models.TierGenerative, r.longTimeout, func(ctx context.Context) (*models.Profile, error) {
			if r.generative == nil {
				return nil, nil
			}
			return r.generative.EstimateProfile(ctx, name, grams)
		}},
	}

	for _, t := range tiers {
		tierCtx, cancel := context.WithTimeout(ctx, t.timeout)
		profile, err := t.lookup(tierCtx)
		cancel()

		if err != nil {
			// Non-fatal by design: a dead provider and an ignorant provider
			// both mean "ask the next tier".
			log.Warn("tier failed, falling through",
				"tier", t.tier,
				"transport", providers.IsTransport(err),
				"error", err)
			continue
		}
		if profile == nil {
			log.Debug("tier has no data", "tier", t.tier)
			continue
		}

		units.Normalize(profile)
		if !r.gate.IsValid(profile) {
			// Structurally empty answers count as "no data" too.
			log.Debug("tier returned unusable profile", "tier", t.tier)
			continue
		}

		log.Info("resolved", "tier", t.tier, "known_fields", len(profile.Nutrients))
		return profile, t.tier, nil
	}

	log.Info("all tiers exhausted")
	return nil, models.TierNone, nil
}
