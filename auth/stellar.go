package auth

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/nft"
	"github.com/stellar/go/keypair"
	"github.com/stellar/go/strkey"
)

const HeaderSignature = "X-Signature"

// StellarVerifier accepts an invocation when the payload carries an ed25519
// signature by the account key behind the principal address, and the signed
// nonce has not been seen for that principal.
type StellarVerifier struct {
	maxClockSkew time.Duration
	nonces       NonceStore
	now          func() time.Time
}

func NewStellarVerifier(maxClockSkew time.Duration, nonces NonceStore) *StellarVerifier {
	if nonces == nil {
		panic("stellar verifier requires a nonce store")
	}
	return &StellarVerifier{
		maxClockSkew: maxClockSkew,
		nonces:       nonces,
		now:          time.Now,
	}
}

func (sv *StellarVerifier) ValidatePrincipal(principal string) error {
	if !strkey.IsValidEd25519PublicKey(principal) {
		return fmt.Errorf("%w: %q is not a stellar account address", ErrInvalidPrincipal, principal)
	}
	return nil
}

func (sv *StellarVerifier) Verify(ctx context.Context, inv *Invocation) error {
	if err := sv.ValidatePrincipal(inv.Principal); err != nil {
		return fmt.Errorf("%w: %v", nft.ErrUnauthorized, err)
	}
	if sv.maxClockSkew > 0 {
		skew := sv.now().Sub(inv.Timestamp)
		if skew < 0 {
			skew = -skew
		}
		if skew > sv.maxClockSkew {
			return fmt.Errorf("%w: timestamp %s outside %s window", nft.ErrUnauthorized, inv.Timestamp.UTC().Format(time.RFC3339), sv.maxClockSkew)
		}
	}

	if inv.Nonce == "" || len(inv.Nonce) > NonceMaxLength {
		return fmt.Errorf("%w: nonce must be 1 to %d bytes", nft.ErrUnauthorized, NonceMaxLength)
	}

	encoded := inv.Header.Get(HeaderSignature)
	if encoded == "" {
		return fmt.Errorf("%w: missing %s header", nft.ErrUnauthorized, HeaderSignature)
	}
	sig, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return fmt.Errorf("%w: malformed signature", nft.ErrUnauthorized)
	}
	kp, err := keypair.ParseAddress(inv.Principal)
	if err != nil {
		return fmt.Errorf("%w: %v", nft.ErrUnauthorized, err)
	}
	if err := kp.Verify(inv.Payload, sig); err != nil {
		return fmt.Errorf("%w: signature mismatch for %s", nft.ErrUnauthorized, inv.Principal)
	}

	// a timestamp may sit up to one skew in the future or the past
	err = sv.nonces.ConsumeNonce(inv.Principal, inv.Nonce, 2*sv.maxClockSkew)
	if err != nil {
		return fmt.Errorf("%w: nonce %q: %v", nft.ErrUnauthorized, inv.Nonce, err)
	}
	return nil
}
