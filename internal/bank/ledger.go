package bank

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	sdkmath "cosmossdk.io/math"

	"github.com/farmlabs/farming-engine/internal/farming"
)

var ErrInsufficientBalance = errors.New("insufficient balance")

type Balance struct {
	Asset   string
	Account string
	Amount  sdkmath.Uint
}

type balanceKey struct {
	asset   string
	account string
}

// Ledger is an in-memory multi-asset balance sheet. Transfer batches are
// validated in full before any balance changes.
type Ledger struct {
	mu       sync.RWMutex
	balances map[balanceKey]sdkmath.Uint
}

var _ farming.Bank = (*Ledger)(nil)

func NewLedger() *Ledger {
	return &Ledger{balances: make(map[balanceKey]sdkmath.Uint)}
}

func (l *Ledger) BalanceOf(asset, account string) sdkmath.Uint {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.balanceOf(balanceKey{asset, account})
}

// Mint credits new units to an account, used to fund reward supply.
func (l *Ledger) Mint(asset, account string, amount sdkmath.Uint) error {
	if asset == "" || account == "" {
		return fmt.Errorf("asset and account are required")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	key := balanceKey{asset, account}
	l.balances[key] = l.balanceOf(key).Add(amount)
	return nil
}

func (l *Ledger) Transfer(ctx context.Context, transfers ...farming.Transfer) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	staged := make(map[balanceKey]sdkmath.Uint)
	get := func(key balanceKey) sdkmath.Uint {
		if v, ok := staged[key]; ok {
			return v
		}
		return l.balanceOf(key)
	}

	for _, t := range transfers {
		if t.Asset == "" || t.From == "" || t.To == "" {
			return fmt.Errorf("transfer of %s requires asset, sender and recipient", t.Amount)
		}
		from := balanceKey{t.Asset, t.From}
		to := balanceKey{t.Asset, t.To}

		available := get(from)
		if t.Amount.GT(available) {
			return fmt.Errorf("%w: %s holds %s %s, needs %s", ErrInsufficientBalance, t.From, available, t.Asset, t.Amount)
		}
		staged[from] = available.Sub(t.Amount)
		staged[to] = get(to).Add(t.Amount)
	}

	for key, amount := range staged {
		l.balances[key] = amount
	}
	return nil
}

// Balances returns every non-zero balance ordered by asset then account.
func (l *Ledger) Balances() []Balance {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Balance, 0, len(l.balances))
	for key, amount := range l.balances {
		if amount.IsZero() {
			continue
		}
		out = append(out, Balance{Asset: key.asset, Account: key.account, Amount: amount})
	}
	slices.SortFunc(out, func(a, b Balance) int {
		if c := strings.Compare(a.Asset, b.Asset); c != 0 {
			return c
		}
		return strings.Compare(a.Account, b.Account)
	})
	return out
}

// Restore replaces all balances.
func (l *Ledger) Restore(balances []Balance) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.balances = make(map[balanceKey]sdkmath.Uint, len(balances))
	for _, b := range balances {
		l.balances[balanceKey{b.Asset, b.Account}] = b.Amount
	}
}

func (l *Ledger) balanceOf(key balanceKey) sdkmath.Uint {
	if v, ok := l.balances[key]; ok {
		return v
	}
	return sdkmath.ZeroUint()
}
