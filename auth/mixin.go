package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/fox-one/mixin-sdk-go"
	"github.com/gofrs/uuid"
	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/nft"
)

// MixinVerifier treats principals as Mixin user ids and accepts a bearer
// access token that resolves to the same user.
type MixinVerifier struct {
	userMe func(ctx context.Context, accessToken string) (string, error)
}

func NewMixinVerifier() *MixinVerifier {
	return &MixinVerifier{userMe: mixinUserMe}
}

func mixinUserMe(ctx context.Context, accessToken string) (string, error) {
	user, err := mixin.UserMe(ctx, accessToken)
	if err != nil {
		return "", err
	}
	return user.UserID, nil
}

func (mv *MixinVerifier) ValidatePrincipal(principal string) error {
	id, err := uuid.FromString(principal)
	if err != nil || id == uuid.Nil || id.String() != principal {
		return fmt.Errorf("%w: %q is not a mixin user id", ErrInvalidPrincipal, principal)
	}
	return nil
}

func (mv *MixinVerifier) Verify(ctx context.Context, inv *Invocation) error {
	if err := mv.ValidatePrincipal(inv.Principal); err != nil {
		return fmt.Errorf("%w: %v", nft.ErrUnauthorized, err)
	}
	token := strings.TrimPrefix(inv.Header.Get("Authorization"), "Bearer ")
	if token == "" || token == inv.Header.Get("Authorization") {
		return fmt.Errorf("%w: missing bearer token", nft.ErrUnauthorized)
	}
	userId, err := mv.userMe(ctx, token)
	if err != nil {
		return fmt.Errorf("%w: %v", nft.ErrUnauthorized, err)
	}
	if userId != inv.Principal {
		return fmt.Errorf("%w: token belongs to %s", nft.ErrUnauthorized, userId)
	}
	return nil
}
