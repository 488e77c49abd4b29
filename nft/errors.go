package nft

import "errors"

var (
	ErrUnauthorized      = errors.New("invocation not authorized by principal")
	ErrNonexistentRecord = errors.New("NFT with this ID does not exist")
	ErrCounterExhausted  = errors.New("token counter exhausted")
	ErrCorruptRecord     = errors.New("corrupt token record")
	ErrInvalidSymbol     = errors.New("invalid symbol")
)
