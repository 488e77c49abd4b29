package nft

import (
	"errors"
	"sync"
)

// memoryStore buffers writes per Update and applies them only when fn
// succeeds. views and updates count every call, committed or not.
type memoryStore struct {
	sync.Mutex
	kv       map[string][]byte
	failSet  error
	views    int
	updates  int
	failKind KeyKind
}

func newMemoryStore() *memoryStore {
	return &memoryStore{kv: make(map[string][]byte)}
}

type memoryTxn struct {
	ms      *memoryStore
	pending map[string][]byte
	write   bool
}

func (txn *memoryTxn) Get(key Key) ([]byte, bool, error) {
	k := string(key.Bytes())
	if v, ok := txn.pending[k]; ok {
		return v, true, nil
	}
	v, ok := txn.ms.kv[k]
	return v, ok, nil
}

func (txn *memoryTxn) Set(key Key, val []byte) error {
	if !txn.write {
		return errors.New("read only transaction")
	}
	if txn.ms.failSet != nil && key.Kind == txn.ms.failKind {
		return txn.ms.failSet
	}
	txn.pending[string(key.Bytes())] = append([]byte{}, val...)
	return nil
}

func (ms *memoryStore) View(fn func(txn Txn) error) error {
	ms.Lock()
	defer ms.Unlock()
	ms.views++
	return fn(&memoryTxn{ms: ms})
}

func (ms *memoryStore) Update(fn func(txn Txn) error) error {
	ms.Lock()
	defer ms.Unlock()
	ms.updates++
	txn := &memoryTxn{ms: ms, pending: make(map[string][]byte), write: true}
	err := fn(txn)
	if err != nil {
		return err
	}
	for k, v := range txn.pending {
		ms.kv[k] = v
	}
	return nil
}

func (ms *memoryStore) size() int {
	ms.Lock()
	defer ms.Unlock()
	return len(ms.kv)
}
