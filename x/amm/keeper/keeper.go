package keeper

import (
	"context"
	"time"

	"cosmossdk.io/log"
	dbm "github.com/cosmos/cosmos-db"

	"github.com/cascade-dex/cascade/pkg/events"
	"github.com/cascade-dex/cascade/pkg/store"
	"github.com/cascade-dex/cascade/x/amm/types"
)

// Keeper mediates all access to engine state: pool reserves, the global
// liquidity share ledger, and the guard that serializes mutating
// operations. Mutations are staged on a transaction and committed in one
// batch, so a failed operation leaves no observable effect.
type Keeper struct {
	db      dbm.DB
	bank    types.BankKeeper
	bus     *events.Bus
	logger  log.Logger
	metrics *Metrics
	guard   *guard
	now     func() time.Time
}

// Option adjusts keeper construction.
type Option func(*Keeper)

// WithTimeSource overrides the ambient clock. Deadlines are evaluated
// against it.
func WithTimeSource(now func() time.Time) Option {
	return func(k *Keeper) { k.now = now }
}

// NewKeeper wires the engine against its backing database, the token
// transfer capability and the notification bus. bus may be nil when no
// consumer exists, as in most tests.
func NewKeeper(db dbm.DB, bank types.BankKeeper, bus *events.Bus, logger log.Logger, opts ...Option) *Keeper {
	k := &Keeper{
		db:      db,
		bank:    bank,
		bus:     bus,
		logger:  logger.With("module", "x/"+types.ModuleName),
		metrics: GetMetrics(),
		guard:   newGuard(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// Logger returns the module logger.
func (k Keeper) Logger() log.Logger {
	return k.logger
}

// Now returns the engine's current time in UTC.
func (k Keeper) Now() time.Time {
	return k.now().UTC()
}

func (k Keeper) kv(ctx context.Context) store.KV {
	return store.Resolve(ctx, k.db)
}

// emit publishes a notification. Callers emit only after their transaction
// has committed.
func (k Keeper) emit(evt events.Event) {
	if k.bus == nil {
		return
	}
	evt.EmittedAt = k.Now()
	k.bus.Publish(evt)
}
