package nft

import "context"

// Txn is one atomic unit of work against the key/value store. Get reports
// whether the key was present; a missing key is never an error.
type Txn interface {
	Get(key Key) ([]byte, bool, error)
	Set(key Key, val []byte) error
}

// Store commits every Set made inside Update together, or none of them.
type Store interface {
	View(fn func(txn Txn) error) error
	Update(fn func(txn Txn) error) error
}

type Authorizer interface {
	RequireAuth(ctx context.Context, principal string) error
}

type Token struct {
	Id    uint32 `json:"id"`
	Owner string `json:"owner"`
	Title string `json:"title"`
	Media string `json:"media"`
}
