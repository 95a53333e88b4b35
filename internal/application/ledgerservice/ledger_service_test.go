package ledgerservice

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/starbookhq/starbook/internal/domain"
	"github.com/starbookhq/starbook/internal/infrastructure/database/databasetest"
	"github.com/starbookhq/starbook/pkg/config"
)

type fakeNotifier struct {
	mu     sync.Mutex
	pushed []domain.Event
}

func (n *fakeNotifier) Push(userID string, event domain.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pushed = append(n.pushed, event)
}

func (n *fakeNotifier) BroadcastAll(event domain.Event) {}

func usd(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestService(store *databasetest.MemStore) (ILedgerService, *fakeNotifier) {
	notifier := &fakeNotifier{}
	svc := NewLedgerService(
		databasetest.NewTxManager(store),
		notifier,
		config.CoordinatorConfig{MaxTxRetries: 3},
		zerolog.Nop(),
	)
	return svc, notifier
}

func TestGetBalance(t *testing.T) {
	store := databasetest.NewMemStore()
	userID := store.SeedUser(usd("42.50"))
	svc, _ := newTestService(store)

	balance, err := svc.GetBalance(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !balance.Amount.Equal(usd("42.50")) {
		t.Fatalf("balance %s, want 42.50", balance.Amount)
	}

	if _, err := svc.GetBalance(context.Background(), "no-such-user"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("got error %v, want ErrNotFound", err)
	}
}

func TestAdminAdjustBalanceMayGoNegative(t *testing.T) {
	store := databasetest.NewMemStore()
	userID := store.SeedUser(usd("10"))
	svc, notifier := newTestService(store)

	balance, err := svc.AdminAdjustBalance(context.Background(), userID, usd("-30"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !balance.Amount.Equal(usd("-20")) {
		t.Fatalf("balance %s, want -20 (admin adjustments have no floor)", balance.Amount)
	}
	if got := store.Balance(userID); !got.Equal(usd("-20")) {
		t.Fatalf("stored balance %s, want -20", got)
	}

	entries := store.LedgerEntries(userID)
	if len(entries) != 1 {
		t.Fatalf("got %d ledger entries, want 1", len(entries))
	}
	if entries[0].Reason != domain.LedgerReasonAdminAdjust {
		t.Fatalf("ledger reason %q, want %q", entries[0].Reason, domain.LedgerReasonAdminAdjust)
	}
	if !entries[0].Delta.Equal(usd("-30")) || !entries[0].BalanceAfter.Equal(usd("-20")) {
		t.Fatalf("ledger entry delta=%s after=%s, want -30/-20", entries[0].Delta, entries[0].BalanceAfter)
	}

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if len(notifier.pushed) != 1 || notifier.pushed[0].Type != domain.EventBalanceUpdate {
		t.Fatalf("got pushes %v, want one balance_update", notifier.pushed)
	}
}

func TestAdminAdjustBalanceRoundsToCents(t *testing.T) {
	store := databasetest.NewMemStore()
	userID := store.SeedUser(usd("0"))
	svc, _ := newTestService(store)

	balance, err := svc.AdminAdjustBalance(context.Background(), userID, usd("10.009"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !balance.Amount.Equal(usd("10.01")) {
		t.Fatalf("balance %s, want 10.01", balance.Amount)
	}
}

func TestAdminAdjustBalanceUnknownUser(t *testing.T) {
	store := databasetest.NewMemStore()
	svc, notifier := newTestService(store)

	_, err := svc.AdminAdjustBalance(context.Background(), "no-such-user", usd("5"))
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("got error %v, want ErrNotFound", err)
	}

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if len(notifier.pushed) != 0 {
		t.Fatal("failed adjustment pushed an event")
	}
}

func TestListEntriesNewestFirstWithLimit(t *testing.T) {
	store := databasetest.NewMemStore()
	userID := store.SeedUser(usd("0"))
	svc, _ := newTestService(store)
	ctx := context.Background()

	for _, delta := range []string{"1", "2", "3"} {
		if _, err := svc.AdminAdjustBalance(ctx, userID, usd(delta)); err != nil {
			t.Fatalf("adjusting by %s: %v", delta, err)
		}
	}

	entries, err := svc.ListEntries(ctx, userID, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if !entries[0].Delta.Equal(usd("3")) || !entries[1].Delta.Equal(usd("2")) {
		t.Fatalf("entries out of order: first delta %s, second %s", entries[0].Delta, entries[1].Delta)
	}
}
