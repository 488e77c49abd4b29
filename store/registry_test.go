package store

import (
	"context"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/nft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type BadgerStoreSuite struct {
	suite.Suite
	store *BadgerStore
}

func TestBadgerStoreSuite(t *testing.T) {
	suite.Run(t, new(BadgerStoreSuite))
}

func (s *BadgerStoreSuite) SetupTest() {
	bs, err := OpenBadger(context.Background(), "", 0)
	s.Require().NoError(err)
	s.store = bs
}

func (s *BadgerStoreSuite) TearDownTest() {
	s.NoError(s.store.Close())
}

func (s *BadgerStoreSuite) TestGetMissingKey() {
	err := s.store.View(func(txn nft.Txn) error {
		val, found, err := txn.Get(nft.CounterKey())
		s.NoError(err)
		s.False(found)
		s.Nil(val)
		return nil
	})
	s.NoError(err)
}

func (s *BadgerStoreSuite) TestUpdateCommitsAllOrNothing() {
	s.Run("error discards every write", func() {
		err := s.store.Update(func(txn nft.Txn) error {
			s.NoError(txn.Set(nft.OwnerKey(1), []byte("owner")))
			return nft.ErrUnauthorized
		})
		s.ErrorIs(err, nft.ErrUnauthorized)

		err = s.store.View(func(txn nft.Txn) error {
			_, found, err := txn.Get(nft.OwnerKey(1))
			s.False(found)
			return err
		})
		s.NoError(err)
	})

	s.Run("success persists every write", func() {
		err := s.store.Update(func(txn nft.Txn) error {
			s.NoError(txn.Set(nft.OwnerKey(1), []byte("owner")))
			s.NoError(txn.Set(nft.TitleKey(1), []byte("title")))
			val, found, err := txn.Get(nft.OwnerKey(1))
			s.True(found)
			s.Equal([]byte("owner"), val)
			return err
		})
		s.NoError(err)

		err = s.store.View(func(txn nft.Txn) error {
			val, found, err := txn.Get(nft.TitleKey(1))
			s.True(found)
			s.Equal([]byte("title"), val)
			return err
		})
		s.NoError(err)
	})
}

func (s *BadgerStoreSuite) TestViewIsReadOnly() {
	err := s.store.View(func(txn nft.Txn) error {
		return txn.Set(nft.CounterKey(), []byte{0, 0, 0, 1})
	})
	s.ErrorIs(err, badger.ErrReadOnlyTxn)
}

func (s *BadgerStoreSuite) TestConflictingUpdates() {
	first := s.store.Badger().NewTransaction(true)
	defer first.Discard()
	_, err := first.Get(nft.CounterKey().Bytes())
	s.ErrorIs(err, badger.ErrKeyNotFound)

	err = s.store.Update(func(txn nft.Txn) error {
		return txn.Set(nft.CounterKey(), []byte{0, 0, 0, 1})
	})
	s.NoError(err)

	s.NoError(first.Set(nft.CounterKey().Bytes(), []byte{0, 0, 0, 1}))
	s.ErrorIs(first.Commit(), badger.ErrConflict)
}

func (s *BadgerStoreSuite) TestRegistryScenario() {
	reg := nft.NewRegistry(s.store, nft.ContextAuthorizer{})
	p1, p2 := "GAJZ3E6UQXRYBBBQJ2XHUVKSUS6CSAMY3XDWWYAHXDAJR5XG5KUAHLTM", "GBRPYHIL2CI3FNQ4BXLFMNDLFJUNPU2HY3ZMFSHONUCEOASW7QC7OX2H"
	ctx := context.Background()

	id, err := reg.Create(nft.WithAuthorizedPrincipal(ctx, p1), p1, "Art1", "http://x/1.png")
	s.NoError(err)
	s.Equal(uint32(1), id)
	id, err = reg.Create(nft.WithAuthorizedPrincipal(ctx, p2), p2, "Art2", "http://x/2.png")
	s.NoError(err)
	s.Equal(uint32(2), id)

	total, err := reg.Total(ctx)
	s.NoError(err)
	s.Equal(uint32(2), total)
	owner, err := reg.OwnerOf(ctx, 1)
	s.NoError(err)
	s.Equal(p1, owner)
	owner, err = reg.OwnerOf(ctx, 2)
	s.NoError(err)
	s.Equal(p2, owner)
	_, err = reg.OwnerOf(ctx, 3)
	s.ErrorIs(err, nft.ErrNonexistentRecord)
}

func TestBadgerStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	p := "GAJZ3E6UQXRYBBBQJ2XHUVKSUS6CSAMY3XDWWYAHXDAJR5XG5KUAHLTM"

	bs, err := OpenBadger(ctx, dir, 0)
	require.NoError(t, err)
	require.NoError(t, bs.CheckSchema())
	reg := nft.NewRegistry(bs, nft.ContextAuthorizer{})
	for i := 0; i < 3; i++ {
		_, err = reg.Create(nft.WithAuthorizedPrincipal(ctx, p), p, "ART", "IMG")
		require.NoError(t, err)
	}
	require.NoError(t, bs.Close())

	bs, err = OpenBadger(ctx, dir, 0)
	require.NoError(t, err)
	defer bs.Close()
	require.NoError(t, bs.CheckSchema())

	reg = nft.NewRegistry(bs, nft.ContextAuthorizer{})
	total, err := reg.Total(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), total)

	id, err := reg.Create(nft.WithAuthorizedPrincipal(ctx, p), p, "ART", "IMG")
	require.NoError(t, err)
	assert.Equal(t, uint32(4), id)
}

func TestCheckSchemaRejectsUnknownVersion(t *testing.T) {
	bs, err := OpenBadger(context.Background(), "", 0)
	require.NoError(t, err)
	defer bs.Close()

	require.NoError(t, bs.WriteProperty([]byte(propertySchemaVersion), []byte("9")))
	assert.ErrorContains(t, bs.CheckSchema(), "unsupported schema version 9")
}

func TestProperties(t *testing.T) {
	bs, err := OpenBadger(context.Background(), "", 0)
	require.NoError(t, err)
	defer bs.Close()

	val, err := bs.ReadProperty([]byte("missing"))
	require.NoError(t, err)
	assert.Nil(t, val)

	require.NoError(t, bs.WriteProperty([]byte("k"), []byte("v")))
	val, err = bs.ReadProperty([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), val)
}
