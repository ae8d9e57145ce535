package store_test

import (
	"context"
	"testing"

	dbm "github.com/cosmos/cosmos-db"
	"github.com/stretchr/testify/require"

	"github.com/cascade-dex/cascade/pkg/store"
)

func TestTx_StagesWritesUntilCommit(t *testing.T) {
	db := dbm.NewMemDB()
	require.NoError(t, db.Set([]byte("existing"), []byte("old")))

	tx := store.NewTx(db)
	require.NoError(t, tx.Set([]byte("fresh"), []byte("v1")))
	require.NoError(t, tx.Set([]byte("existing"), []byte("new")))
	require.NoError(t, tx.Delete([]byte("missing")))
	require.Equal(t, 3, tx.Size())

	// Reads through the Tx see staged state.
	v, err := tx.Get([]byte("fresh"))
	require.NoError(t, err)
	require.Equal(t, []byte("v1"), v)
	v, err = tx.Get([]byte("existing"))
	require.NoError(t, err)
	require.Equal(t, []byte("new"), v)

	// The database does not, until commit.
	v, err = db.Get([]byte("fresh"))
	require.NoError(t, err)
	require.Nil(t, v)
	v, err = db.Get([]byte("existing"))
	require.NoError(t, err)
	require.Equal(t, []byte("old"), v)

	require.NoError(t, tx.Commit())
	v, err = db.Get([]byte("fresh"))
	require.NoError(t, err)
	require.Equal(t, []byte("v1"), v)
	v, err = db.Get([]byte("existing"))
	require.NoError(t, err)
	require.Equal(t, []byte("new"), v)
}

func TestTx_DeleteShadowsBackingValue(t *testing.T) {
	db := dbm.NewMemDB()
	require.NoError(t, db.Set([]byte("k"), []byte("v")))

	tx := store.NewTx(db)
	require.NoError(t, tx.Delete([]byte("k")))

	v, err := tx.Get([]byte("k"))
	require.NoError(t, err)
	require.Nil(t, v)
	has, err := tx.Has([]byte("k"))
	require.NoError(t, err)
	require.False(t, has)

	require.NoError(t, tx.Commit())
	has, err = db.Has([]byte("k"))
	require.NoError(t, err)
	require.False(t, has)
}

func TestTx_DiscardDropsEverything(t *testing.T) {
	db := dbm.NewMemDB()
	tx := store.NewTx(db)
	require.NoError(t, tx.Set([]byte("k"), []byte("v")))

	tx.Discard()
	require.Zero(t, tx.Size())
	require.NoError(t, tx.Commit())

	v, err := db.Get([]byte("k"))
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestTx_CommitIsIdempotent(t *testing.T) {
	db := dbm.NewMemDB()
	tx := store.NewTx(db)
	require.NoError(t, tx.Set([]byte("k"), []byte("v")))
	require.NoError(t, tx.Commit())
	require.NoError(t, tx.Commit())
}

func TestTx_RejectsEmptyKeyAndNilValue(t *testing.T) {
	tx := store.NewTx(dbm.NewMemDB())
	require.Error(t, tx.Set(nil, []byte("v")))
	require.Error(t, tx.Set([]byte("k"), nil))
	require.Error(t, tx.Delete(nil))
}

func TestResolve_PrefersContextTx(t *testing.T) {
	db := dbm.NewMemDB()
	ctx := context.Background()

	require.Same(t, db, store.Resolve(ctx, db))

	tx := store.NewTx(db)
	ctx = store.WithTx(ctx, tx)
	require.Same(t, tx, store.Resolve(ctx, db))

	got, ok := store.TxFrom(ctx)
	require.True(t, ok)
	require.Same(t, tx, got)
}

func TestPrefixEnd(t *testing.T) {
	require.Equal(t, []byte{0x02}, store.PrefixEnd([]byte{0x01}))
	require.Equal(t, []byte{0x01, 0x03}, store.PrefixEnd([]byte{0x01, 0x02}))
	require.Equal(t, []byte{0x02}, store.PrefixEnd([]byte{0x01, 0xff}))
	require.Nil(t, store.PrefixEnd([]byte{0xff, 0xff}))
	require.Nil(t, store.PrefixEnd(nil))
}

func TestIteratePrefix(t *testing.T) {
	db := dbm.NewMemDB()
	require.NoError(t, db.Set([]byte{0x01, 'b'}, []byte("2")))
	require.NoError(t, db.Set([]byte{0x01, 'a'}, []byte("1")))
	require.NoError(t, db.Set([]byte{0x02, 'z'}, []byte("other")))

	it, err := store.IteratePrefix(db, []byte{0x01})
	require.NoError(t, err)
	defer it.Close()

	var keys []string
	for ; it.Valid(); it.Next() {
		keys = append(keys, string(it.Key()[1:]))
	}
	require.NoError(t, it.Error())
	require.Equal(t, []string{"a", "b"}, keys)
}
