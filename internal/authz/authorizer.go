// Package authz implements the fail-closed IP allow-list authorizer that
// gates every inbound webhook request.
//
// The caller's identity is whatever the configured forwarding header claims
// it to be. That attribution is only trustworthy when the front-facing edge
// overwrites the header rather than appending to it; deploying without such
// an edge leaves the allow-list spoofable.
package authz

import (
	"context"
	"log/slog"

	"github.com/avelex/tradehook/internal/domain"
)

// principalID names the authorizer in emitted decisions.
const principalID = "ip-allowlist"

// AllowListSource supplies the reference allow-list. Implementations must
// fetch fresh on every call; the authorizer never caches between checks.
type AllowListSource interface {
	AllowList(ctx context.Context) ([]string, error)
}

// Authorizer decides whether a claimed source IP may invoke a resource.
type Authorizer struct {
	source AllowListSource
	logger *slog.Logger
}

// New creates an Authorizer backed by the given allow-list source.
func New(source AllowListSource, logger *slog.Logger) *Authorizer {
	return &Authorizer{
		source: source,
		logger: logger.With(slog.String("component", "authz")),
	}
}

// Authorize returns a decision scoped to exactly the requested resource.
// It is fail-closed: a missing IP or any error fetching the allow-list
// yields Deny, never Allow.
func (a *Authorizer) Authorize(ctx context.Context, clientIP, resource string) domain.AuthDecision {
	deny := domain.AuthDecision{
		Principal: principalID,
		Effect:    domain.EffectDeny,
		Resource:  resource,
	}

	if clientIP == "" {
		a.logger.WarnContext(ctx, "denied: no source ip claimed",
			slog.String("resource", resource),
		)
		return deny
	}

	allowed, err := a.source.AllowList(ctx)
	if err != nil {
		a.logger.ErrorContext(ctx, "denied: allow-list fetch failed",
			slog.String("resource", resource),
			slog.String("error", err.Error()),
		)
		return deny
	}

	for _, ip := range allowed {
		if ip == clientIP {
			a.logger.InfoContext(ctx, "authorized",
				slog.String("client_ip", clientIP),
				slog.String("resource", resource),
			)
			return domain.AuthDecision{
				Principal: principalID,
				Effect:    domain.EffectAllow,
				Resource:  resource,
			}
		}
	}

	a.logger.WarnContext(ctx, "denied: ip not in allow-list",
		slog.String("client_ip", clientIP),
		slog.String("resource", resource),
	)
	return deny
}
