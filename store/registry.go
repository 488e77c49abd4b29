package store

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/nft"
)

const (
	propertySchemaVersion = "NFT:SCHEMA:VERSION"
	schemaVersion         = "1"
)

type badgerTxn struct {
	txn *badger.Txn
}

func (bt *badgerTxn) Get(key nft.Key) ([]byte, bool, error) {
	item, err := bt.txn.Get(key.Bytes())
	if err == badger.ErrKeyNotFound {
		return nil, false, nil
	} else if err != nil {
		return nil, false, err
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (bt *badgerTxn) Set(key nft.Key, val []byte) error {
	return bt.txn.Set(key.Bytes(), val)
}

func (bs *BadgerStore) View(fn func(txn nft.Txn) error) error {
	return bs.db.View(func(txn *badger.Txn) error {
		return fn(&badgerTxn{txn: txn})
	})
}

// Update commits all writes of fn at once. A concurrent transaction that
// committed a key fn read returns badger.ErrConflict and nothing is written.
func (bs *BadgerStore) Update(fn func(txn nft.Txn) error) error {
	return bs.db.Update(func(txn *badger.Txn) error {
		return fn(&badgerTxn{txn: txn})
	})
}

// CheckSchema stamps a fresh database with the key layout version and
// refuses to open one written with another layout.
func (bs *BadgerStore) CheckSchema() error {
	val, err := bs.ReadProperty([]byte(propertySchemaVersion))
	if err != nil {
		return err
	}
	if val == nil {
		return bs.WriteProperty([]byte(propertySchemaVersion), []byte(schemaVersion))
	}
	if string(val) != schemaVersion {
		return fmt.Errorf("unsupported schema version %s", val)
	}
	return nil
}
