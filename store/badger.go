package store

import (
	"context"
	"time"

	"github.com/MixinNetwork/mixin/logger"
	"github.com/dgraph-io/badger/v4"
)

type BadgerStore struct {
	db *badger.DB
}

// OpenBadger opens the database under path, or an in-memory one when path
// is empty. Value log GC runs every gc until ctx is done.
func OpenBadger(ctx context.Context, path string, gc time.Duration) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts = opts.WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	if gc > 0 && path != "" {
		go runValueLogGC(ctx, db, gc)
	}

	return &BadgerStore{
		db: db,
	}, nil
}

func runValueLogGC(ctx context.Context, db *badger.DB, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		lsm, vlog := db.Size()
		logger.Printf("Badger LSM %d VLOG %d\n", lsm, vlog)
		if lsm > 1024*1024*8 || vlog > 1024*1024*32 {
			err := db.RunValueLogGC(0.5)
			logger.Printf("Badger RunValueLogGC %v\n", err)
		}
	}
}

func (bs *BadgerStore) Close() error {
	return bs.db.Close()
}

func (bs *BadgerStore) Badger() *badger.DB {
	return bs.db
}

func (bs *BadgerStore) WriteProperty(key, val []byte) error {
	return bs.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, val)
	})
}

func (bs *BadgerStore) ReadProperty(key []byte) ([]byte, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	item, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}
