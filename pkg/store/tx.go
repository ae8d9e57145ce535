// Package store provides a staged-write overlay over the engine's backing
// key-value database. Mutating operations accumulate every write in a Tx and
// flush them as a single batch on commit, so a failure at any point in an
// operation leaves the database untouched.
package store

import (
	"context"
	"fmt"

	dbm "github.com/cosmos/cosmos-db"
)

// KV is the read/write surface shared by the backing database and a Tx.
// dbm.DB satisfies it directly.
type KV interface {
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	Set(key, value []byte) error
	Delete(key []byte) error
}

type stagedWrite struct {
	value   []byte
	deleted bool
}

// Tx stages writes on top of a backing database. Reads see staged writes
// first and fall through to the database. A Tx that is never committed
// leaves no trace. Tx is not safe for concurrent use; the engine serializes
// mutating operations before opening one. Range scans are not supported on
// a Tx; iterate the database directly for committed state.
type Tx struct {
	db        dbm.DB
	writes    map[string]stagedWrite
	order     []string
	committed bool
}

// NewTx opens a staged transaction over db.
func NewTx(db dbm.DB) *Tx {
	return &Tx{
		db:     db,
		writes: make(map[string]stagedWrite),
	}
}

// Get returns the value for key, preferring staged writes. A missing key
// yields a nil value and no error.
func (tx *Tx) Get(key []byte) ([]byte, error) {
	if w, ok := tx.writes[string(key)]; ok {
		if w.deleted {
			return nil, nil
		}
		out := make([]byte, len(w.value))
		copy(out, w.value)
		return out, nil
	}
	return tx.db.Get(key)
}

// Has reports whether key exists, taking staged writes into account.
func (tx *Tx) Has(key []byte) (bool, error) {
	if w, ok := tx.writes[string(key)]; ok {
		return !w.deleted, nil
	}
	return tx.db.Has(key)
}

// Set stages a write of value under key.
func (tx *Tx) Set(key, value []byte) error {
	if len(key) == 0 {
		return fmt.Errorf("store: empty key")
	}
	if value == nil {
		return fmt.Errorf("store: nil value for key %X", key)
	}
	k := string(key)
	if _, ok := tx.writes[k]; !ok {
		tx.order = append(tx.order, k)
	}
	v := make([]byte, len(value))
	copy(v, value)
	tx.writes[k] = stagedWrite{value: v}
	return nil
}

// Delete stages a deletion of key.
func (tx *Tx) Delete(key []byte) error {
	if len(key) == 0 {
		return fmt.Errorf("store: empty key")
	}
	k := string(key)
	if _, ok := tx.writes[k]; !ok {
		tx.order = append(tx.order, k)
	}
	tx.writes[k] = stagedWrite{deleted: true}
	return nil
}

// Size returns the number of staged writes.
func (tx *Tx) Size() int {
	return len(tx.writes)
}

// Commit flushes all staged writes to the database in one batch, in the
// order they were first staged. Commit is a no-op on the second call.
func (tx *Tx) Commit() error {
	if tx.committed {
		return nil
	}
	batch := tx.db.NewBatch()
	defer batch.Close()
	for _, k := range tx.order {
		w := tx.writes[k]
		if w.deleted {
			if err := batch.Delete([]byte(k)); err != nil {
				return fmt.Errorf("store: stage delete: %w", err)
			}
			continue
		}
		if err := batch.Set([]byte(k), w.value); err != nil {
			return fmt.Errorf("store: stage set: %w", err)
		}
	}
	if err := batch.Write(); err != nil {
		return fmt.Errorf("store: commit batch: %w", err)
	}
	tx.committed = true
	return nil
}

// Discard drops all staged writes without touching the database.
func (tx *Tx) Discard() {
	tx.writes = make(map[string]stagedWrite)
	tx.order = nil
}

type txCtxKey struct{}

// WithTx attaches tx to ctx so nested store access during an operation
// shares one staged transaction.
func WithTx(ctx context.Context, tx *Tx) context.Context {
	return context.WithValue(ctx, txCtxKey{}, tx)
}

// TxFrom extracts the staged transaction from ctx, if any.
func TxFrom(ctx context.Context) (*Tx, bool) {
	tx, ok := ctx.Value(txCtxKey{}).(*Tx)
	return tx, ok
}

// Resolve returns the staged transaction carried by ctx, or db itself when
// no transaction is open.
func Resolve(ctx context.Context, db dbm.DB) KV {
	if tx, ok := TxFrom(ctx); ok {
		return tx
	}
	return db
}

// PrefixEnd returns the smallest key strictly greater than every key with
// the given prefix, or nil when no such key exists.
func PrefixEnd(prefix []byte) []byte {
	if len(prefix) == 0 {
		return nil
	}
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}

// IteratePrefix iterates committed keys under prefix in ascending order.
func IteratePrefix(db dbm.DB, prefix []byte) (dbm.Iterator, error) {
	return db.Iterator(prefix, PrefixEnd(prefix))
}
