package auth

import (
	"context"

	"github.com/yigit/registrar/internal/app/models"
)

// Guard resolves the principal and evaluates the gate in one step. Services call it
// before touching any directory record.
type Guard struct {
	resolver *Resolver
	gate     *Gate
}

// NewGuard creates a new Guard
func NewGuard(resolver *Resolver, gate *Gate) *Guard {
	return &Guard{resolver: resolver, gate: gate}
}

// Check returns the fresh claim for username when its role may perform op
func (g *Guard) Check(ctx context.Context, username string, op Operation) (models.RoleClaim, error) {
	claim, err := g.resolver.Resolve(ctx, username)
	if err != nil {
		return models.RoleClaim{}, err
	}
	if err := g.gate.Authorize(claim, op); err != nil {
		return claim, err
	}
	return claim, nil
}

// Resolve exposes the resolver for callers that only need the claim
func (g *Guard) Resolve(ctx context.Context, username string) (models.RoleClaim, error) {
	return g.resolver.Resolve(ctx, username)
}
