package store

import (
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/auth"
)

const prefixAuthNonce = "AUTH:NONCE:"

// ConsumeNonce records nonce for principal and fails with auth.ErrNonceUsed
// if it was recorded before. A positive ttl lets badger expire the record.
func (bs *BadgerStore) ConsumeNonce(principal, nonce string, ttl time.Duration) error {
	key := []byte(prefixAuthNonce + principal + ":" + nonce)
	return bs.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == nil {
			return auth.ErrNonceUsed
		} else if err != badger.ErrKeyNotFound {
			return err
		}
		e := badger.NewEntry(key, []byte{1})
		if ttl > 0 {
			e = e.WithTTL(ttl)
		}
		return txn.SetEntry(e)
	})
}
