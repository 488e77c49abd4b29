package auth

import (
	"context"
	"errors"
	"net/http"
	"time"
)

var (
	ErrInvalidPrincipal = errors.New("invalid principal")
	ErrNonceUsed        = errors.New("nonce already used")
)

const NonceMaxLength = 64

// Invocation is what a caller presents when asking to act as Principal.
type Invocation struct {
	Principal string
	Timestamp time.Time
	Nonce     string
	Payload   []byte
	Header    http.Header
}

// NonceStore remembers consumed nonces per principal for at least ttl.
type NonceStore interface {
	ConsumeNonce(principal, nonce string, ttl time.Duration) error
}

type Verifier interface {
	ValidatePrincipal(principal string) error
	Verify(ctx context.Context, inv *Invocation) error
}

func New(scheme string, maxClockSkew time.Duration, nonces NonceStore) (Verifier, error) {
	switch scheme {
	case "stellar", "":
		return NewStellarVerifier(maxClockSkew, nonces), nil
	case "mixin":
		return NewMixinVerifier(), nil
	}
	return nil, errors.New("unknown auth scheme " + scheme)
}
