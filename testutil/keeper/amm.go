package keeper

import (
	"context"
	"sync"
	"testing"
	"time"

	"cosmossdk.io/math"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/stretchr/testify/require"

	"github.com/cascade-dex/cascade/pkg/events"
	"github.com/cascade-dex/cascade/pkg/logger"
	ammkeeper "github.com/cascade-dex/cascade/x/amm/keeper"
	ammtypes "github.com/cascade-dex/cascade/x/amm/types"
	bankkeeper "github.com/cascade-dex/cascade/x/bank/keeper"
)

// Clock is a manually advanced time source for deadline tests.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock starts a clock at a fixed instant.
func NewClock() *Clock {
	return &Clock{now: time.Unix(1_700_000_000, 0).UTC()}
}

// Now returns the clock's current time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Fixture bundles an engine keeper with its bank, bus and clock over a
// fresh in-memory database.
type Fixture struct {
	DB     dbm.DB
	Keeper *ammkeeper.Keeper
	Bank   bankkeeper.Keeper
	Bus    *events.Bus
	Clock  *Clock
	Ctx    context.Context
}

// AmmKeeper creates a test engine with an in-memory store, a funded-on-
// demand bank and a controllable clock.
func AmmKeeper(t testing.TB) *Fixture {
	t.Helper()

	db := dbm.NewMemDB()
	clock := NewClock()
	bank := bankkeeper.NewKeeper(db, logger.NewNop(), ammtypes.ModuleAccount)
	bus := events.NewBus()
	t.Cleanup(bus.Close)

	k := ammkeeper.NewKeeper(db, bank, bus, logger.NewNop(),
		ammkeeper.WithTimeSource(clock.Now))

	return &Fixture{
		DB:     db,
		Keeper: k,
		Bank:   bank,
		Bus:    bus,
		Clock:  clock,
		Ctx:    context.Background(),
	}
}

// Deadline returns a deadline one hour ahead of the fixture clock.
func (f *Fixture) Deadline() int64 {
	return f.Clock.Now().Add(time.Hour).Unix()
}

// Fund mints amount of token to addr.
func (f *Fixture) Fund(t testing.TB, addr, token string, amount math.Int) {
	t.Helper()
	require.NoError(t, f.Bank.Mint(f.Ctx, addr, token, amount))
}

// CreateTestPool funds creator and seeds a pool with the given amounts,
// returning the shares minted.
func CreateTestPool(t testing.TB, f *Fixture, creator, tokenA, tokenB string, amountA, amountB math.Int) math.Int {
	t.Helper()
	f.Fund(t, creator, tokenA, amountA)
	f.Fund(t, creator, tokenB, amountB)

	msg := ammtypes.NewMsgAddLiquidity(creator, tokenA, tokenB,
		amountA, amountB, amountA, amountB, creator, f.Deadline())
	_, _, minted, err := f.Keeper.AddLiquidity(f.Ctx, msg)
	require.NoError(t, err)
	return minted
}
