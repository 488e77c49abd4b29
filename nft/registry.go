package nft

import (
	"context"
	"fmt"
	"math"
	"sync"
)

// Registry mints tokens with sequential ids and serves their immutable
// owner, title and media fields. Ids start at 1, the counter doubles as the
// latest id.
type Registry struct {
	sync.Mutex
	store Store
	auth  Authorizer
}

func NewRegistry(store Store, auth Authorizer) *Registry {
	if store == nil || auth == nil {
		panic("registry requires a store and an authorizer")
	}
	return &Registry{
		store: store,
		auth:  auth,
	}
}

func (r *Registry) Create(ctx context.Context, owner, title, media string) (uint32, error) {
	err := r.auth.RequireAuth(ctx, owner)
	if err != nil {
		return 0, err
	}

	r.Lock()
	defer r.Unlock()

	var id uint32
	err = r.store.Update(func(txn Txn) error {
		total, err := readTotal(txn)
		if err != nil {
			return err
		}
		if total == math.MaxUint32 {
			return ErrCounterExhausted
		}
		next := total + 1

		err = txn.Set(OwnerKey(next), []byte(owner))
		if err != nil {
			return err
		}
		err = txn.Set(TitleKey(next), []byte(title))
		if err != nil {
			return err
		}
		err = txn.Set(MediaKey(next), []byte(media))
		if err != nil {
			return err
		}
		err = txn.Set(CounterKey(), encodeCounter(next))
		if err != nil {
			return err
		}
		id = next
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *Registry) Total(ctx context.Context) (uint32, error) {
	var total uint32
	err := r.store.View(func(txn Txn) error {
		t, err := readTotal(txn)
		total = t
		return err
	})
	return total, err
}

func (r *Registry) OwnerOf(ctx context.Context, id uint32) (string, error) {
	return r.readField(OwnerKey(id))
}

func (r *Registry) TitleOf(ctx context.Context, id uint32) (string, error) {
	return r.readField(TitleKey(id))
}

func (r *Registry) MediaRefOf(ctx context.Context, id uint32) (string, error) {
	return r.readField(MediaKey(id))
}

// Token reads all three fields of id in one snapshot.
func (r *Registry) Token(ctx context.Context, id uint32) (*Token, error) {
	var tkn *Token
	err := r.store.View(func(txn Txn) error {
		err := checkTokenExists(txn, id)
		if err != nil {
			return err
		}
		tkn, err = readToken(txn, id)
		return err
	})
	return tkn, err
}

// List returns up to limit tokens after offset in id order.
func (r *Registry) List(ctx context.Context, offset, limit uint32) ([]*Token, error) {
	var tokens []*Token
	err := r.store.View(func(txn Txn) error {
		total, err := readTotal(txn)
		if err != nil {
			return err
		}
		end := uint64(offset) + uint64(limit)
		if end > uint64(total) {
			end = uint64(total)
		}
		for id := uint64(offset) + 1; id <= end; id++ {
			tkn, err := readToken(txn, uint32(id))
			if err != nil {
				return err
			}
			tokens = append(tokens, tkn)
		}
		return nil
	})
	return tokens, err
}

func (r *Registry) readField(key Key) (string, error) {
	var val []byte
	err := r.store.View(func(txn Txn) error {
		err := checkTokenExists(txn, key.Id)
		if err != nil {
			return err
		}
		val, err = readRequired(txn, key)
		return err
	})
	if err != nil {
		return "", err
	}
	return string(val), nil
}

func readTotal(txn Txn) (uint32, error) {
	val, found, err := txn.Get(CounterKey())
	if err != nil || !found {
		return 0, err
	}
	return decodeCounter(val)
}

func checkTokenExists(txn Txn, id uint32) error {
	total, err := readTotal(txn)
	if err != nil {
		return err
	}
	if id == 0 || id > total {
		return fmt.Errorf("%w: %d", ErrNonexistentRecord, id)
	}
	return nil
}

func readToken(txn Txn, id uint32) (*Token, error) {
	owner, err := readRequired(txn, OwnerKey(id))
	if err != nil {
		return nil, err
	}
	title, err := readRequired(txn, TitleKey(id))
	if err != nil {
		return nil, err
	}
	media, err := readRequired(txn, MediaKey(id))
	if err != nil {
		return nil, err
	}
	return &Token{
		Id:    id,
		Owner: string(owner),
		Title: string(title),
		Media: string(media),
	}, nil
}

// readRequired never defaults: a field missing below the counter means the
// store was written by something other than Create.
func readRequired(txn Txn, key Key) ([]byte, error) {
	val, found, err := txn.Get(key)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %s missing", ErrCorruptRecord, key)
	}
	return val, nil
}
