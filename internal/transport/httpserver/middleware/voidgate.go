package middleware

import (
	"context"

	ledgerdomain "institute-app-go/internal/domain/ledger"
)

// VoidGate lets only actors holding one of roles void transactions. The actor
// comes from the request context populated by ActorAuth.
func VoidGate(roles ...string) ledgerdomain.VoidGate {
	return func(ctx context.Context, _ ledgerdomain.VoidRequest) error {
		actor, ok := ActorFromContext(ctx)
		if !ok || !actor.HasRole(roles...) {
			return ledgerdomain.ErrVoidForbidden
		}
		return nil
	}
}
