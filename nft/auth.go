package nft

import (
	"context"
	"fmt"
)

type authorizedPrincipalKey struct{}

// WithAuthorizedPrincipal marks the invocation carried by ctx as authorized
// by principal. The transport calls it only after verifying the caller.
func WithAuthorizedPrincipal(ctx context.Context, principal string) context.Context {
	return context.WithValue(ctx, authorizedPrincipalKey{}, principal)
}

func AuthorizedPrincipal(ctx context.Context) (string, bool) {
	p, ok := ctx.Value(authorizedPrincipalKey{}).(string)
	return p, ok && p != ""
}

type ContextAuthorizer struct{}

func (ContextAuthorizer) RequireAuth(ctx context.Context, principal string) error {
	p, ok := AuthorizedPrincipal(ctx)
	if !ok {
		return fmt.Errorf("%w: no authorized principal", ErrUnauthorized)
	}
	if p != principal {
		return fmt.Errorf("%w: authorized %s, claimed %s", ErrUnauthorized, p, principal)
	}
	return nil
}
