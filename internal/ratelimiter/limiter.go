package ratelimiter

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/umbraco/Umbraco.AI-sub015/internal/domain"
)

// EntityLimiters holds one token bucket limiter per entity type so a burst of
// prompt saves cannot starve webhook delivery for other entity types.
// Burst is set equal to the rate so no extra burst capacity is allowed
// beyond the configured per-second maximum.
type EntityLimiters struct {
	limiters map[domain.EntityType]*rate.Limiter
	fallback *rate.Limiter
}

// New creates an EntityLimiters with ratePerSec tokens per second per entity type.
// A non-positive rate disables limiting.
func New(ratePerSec int) *EntityLimiters {
	if ratePerSec <= 0 {
		inf := rate.NewLimiter(rate.Inf, 0)
		return &EntityLimiters{limiters: map[domain.EntityType]*rate.Limiter{}, fallback: inf}
	}
	r := rate.Limit(ratePerSec)
	burst := ratePerSec

	return &EntityLimiters{
		limiters: map[domain.EntityType]*rate.Limiter{
			domain.EntityPrompt:     rate.NewLimiter(r, burst),
			domain.EntityConnection: rate.NewLimiter(r, burst),
			domain.EntityProfile:    rate.NewLimiter(r, burst),
			domain.EntityAgent:      rate.NewLimiter(r, burst),
		},
		fallback: rate.NewLimiter(r, burst),
	}
}

// Wait blocks until the entity type's limiter grants a token.
// Returns a non-nil error only if ctx is cancelled while waiting.
func (el *EntityLimiters) Wait(ctx context.Context, e domain.EntityType) error {
	if l, ok := el.limiters[e]; ok {
		return l.Wait(ctx)
	}
	return el.fallback.Wait(ctx)
}
