package types

import (
	"context"

	"cosmossdk.io/math"
)

// BankKeeper is the token transfer capability the engine depends on.
// SendToModule pulls caller funds into the module custody account and
// SendFromModule pushes custody funds out. Either can fail on insufficient
// balance; any failure aborts the enclosing engine operation with no
// observable effect.
type BankKeeper interface {
	SendToModule(ctx context.Context, fromAddr, token string, amount math.Int) error
	SendFromModule(ctx context.Context, toAddr, token string, amount math.Int) error
	Balance(ctx context.Context, addr, token string) (math.Int, error)
	ModuleAddress() string
}
