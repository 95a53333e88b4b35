package bookingservice

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

type pushedEvent struct {
	userID string
	event  domain.Event
}

type fakeNotifier struct {
	mu     sync.Mutex
	pushed []pushedEvent
}

func (n *fakeNotifier) Push(userID string, event domain.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pushed = append(n.pushed, pushedEvent{userID: userID, event: event})
}

func (n *fakeNotifier) BroadcastAll(event domain.Event) {}

func (n *fakeNotifier) pushCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.pushed)
}

func newTestService(store *databasetest.MemStore) (IBookingService, *fakeNotifier) {
	notifier := &fakeNotifier{}
	svc := NewBookingService(
		databasetest.NewTxManager(store),
		notifier,
		config.CoordinatorConfig{MaxTxRetries: 3},
		zerolog.Nop(),
	)
	return svc, notifier
}

func usd(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCreateBookingDebitsSnapshotPrice(t *testing.T) {
	store := databasetest.NewMemStore()
	userID := store.SeedUser(usd("100"))
	offeringID := store.SeedOffering(usd("40"))
	svc, notifier := newTestService(store)

	booking, err := svc.CreateBooking(context.Background(), userID, offeringID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.Status != domain.BookingStatusPending {
		t.Fatalf("booking status %q, want pending", booking.Status)
	}
	if !booking.Price.Equal(usd("40")) {
		t.Fatalf("booking price %s, want 40", booking.Price)
	}
	if got := store.Balance(userID); !got.Equal(usd("60")) {
		t.Fatalf("balance %s, want 60", got)
	}

	entries := store.LedgerEntries(userID)
	if len(entries) != 1 {
		t.Fatalf("got %d ledger entries, want 1", len(entries))
	}
	if entries[0].Reason != domain.LedgerReasonBookingDebit {
		t.Fatalf("ledger reason %q, want %q", entries[0].Reason, domain.LedgerReasonBookingDebit)
	}
	if !entries[0].Delta.Equal(usd("-40")) || !entries[0].BalanceAfter.Equal(usd("60")) {
		t.Fatalf("ledger entry delta=%s after=%s, want -40/60", entries[0].Delta, entries[0].BalanceAfter)
	}
	if entries[0].ReferenceID != booking.ID {
		t.Fatalf("ledger reference %q, want booking id %q", entries[0].ReferenceID, booking.ID)
	}

	if len(store.Notifications(userID)) != 1 {
		t.Fatal("expected one durable notification row")
	}
	if notifier.pushCount() != 1 {
		t.Fatalf("got %d pushes, want 1", notifier.pushCount())
	}
}

func TestCreateBookingInsufficientBalance(t *testing.T) {
	store := databasetest.NewMemStore()
	userID := store.SeedUser(usd("30"))
	offeringID := store.SeedOffering(usd("40"))
	svc, notifier := newTestService(store)

	_, err := svc.CreateBooking(context.Background(), userID, offeringID)
	if !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("got error %v, want ErrInsufficientBalance", err)
	}

	if got := store.Balance(userID); !got.Equal(usd("30")) {
		t.Fatalf("balance %s after rejected booking, want 30", got)
	}
	if len(store.LedgerEntries(userID)) != 0 {
		t.Fatal("rejected booking wrote ledger entries")
	}
	if notifier.pushCount() != 0 {
		t.Fatal("rejected booking pushed an event")
	}
}

func TestCreateBookingInactiveOffering(t *testing.T) {
	store := databasetest.NewMemStore()
	userID := store.SeedUser(usd("100"))
	svc, _ := newTestService(store)

	offering := &domain.Offering{
		CelebrityID: "celeb-1",
		Title:       "retired shoutout",
		Price:       usd("40"),
		Active:      false,
	}
	txm := databasetest.NewTxManager(store)
	if err := txm.Store().Offerings().Create(context.Background(), offering); err != nil {
		t.Fatalf("seeding offering: %v", err)
	}

	_, err := svc.CreateBooking(context.Background(), userID, offering.ID)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("got error %v, want ErrNotFound", err)
	}
	if got := store.Balance(userID); !got.Equal(usd("100")) {
		t.Fatalf("balance %s, want 100", got)
	}
}

func TestCreateBookingConcurrentSpend(t *testing.T) {
	store := databasetest.NewMemStore()
	userID := store.SeedUser(usd("100"))
	offeringID := store.SeedOffering(usd("80"))
	svc, _ := newTestService(store)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CreateBooking(context.Background(), userID, offeringID)
		}(i)
	}
	wg.Wait()

	var succeeded, rejected int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, domain.ErrInsufficientBalance):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 || rejected != 1 {
		t.Fatalf("got %d successes and %d rejections, want exactly one of each", succeeded, rejected)
	}
	if got := store.Balance(userID); !got.Equal(usd("20")) {
		t.Fatalf("balance %s after concurrent bookings, want 20", got)
	}
}

func TestCancelPendingRefundsSnapshotPriceOnce(t *testing.T) {
	store := databasetest.NewMemStore()
	userID := store.SeedUser(usd("100"))
	offeringID := store.SeedOffering(usd("40"))
	svc, notifier := newTestService(store)
	ctx := context.Background()

	booking, err := svc.CreateBooking(ctx, userID, offeringID)
	if err != nil {
		t.Fatalf("creating booking: %v", err)
	}

	// Reprice the offering after booking. The refund must use the
	// snapshot, not the new price.
	txm := databasetest.NewTxManager(store)
	if _, err := txm.Store().Offerings().UpdatePrice(ctx, offeringID, usd("90")); err != nil {
		t.Fatalf("repricing offering: %v", err)
	}

	cancelled, err := svc.UpdateBookingStatus(ctx, booking.ID, domain.BookingStatusCancelled)
	if err != nil {
		t.Fatalf("cancelling booking: %v", err)
	}
	if cancelled.Status != domain.BookingStatusCancelled {
		t.Fatalf("status %q, want cancelled", cancelled.Status)
	}
	if got := store.Balance(userID); !got.Equal(usd("100")) {
		t.Fatalf("balance %s after refund, want 100", got)
	}

	pushesAfterCancel := notifier.pushCount()

	// A duplicate cancel is a no-op: no second refund, no second push.
	again, err := svc.UpdateBookingStatus(ctx, booking.ID, domain.BookingStatusCancelled)
	if err != nil {
		t.Fatalf("duplicate cancel: %v", err)
	}
	if again.Status != domain.BookingStatusCancelled {
		t.Fatalf("status %q after duplicate cancel, want cancelled", again.Status)
	}
	if got := store.Balance(userID); !got.Equal(usd("100")) {
		t.Fatalf("balance %s after duplicate cancel, want 100", got)
	}
	if notifier.pushCount() != pushesAfterCancel {
		t.Fatal("duplicate cancel pushed an event")
	}

	entries := store.LedgerEntries(userID)
	var refunds int
	for _, e := range entries {
		if e.Reason == domain.LedgerReasonBookingRefund {
			refunds++
			if !e.Delta.Equal(usd("40")) {
				t.Fatalf("refund delta %s, want snapshot price 40", e.Delta)
			}
		}
	}
	if refunds != 1 {
		t.Fatalf("got %d refund entries, want 1", refunds)
	}
}

func TestCancelConfirmedDoesNotRefund(t *testing.T) {
	store := databasetest.NewMemStore()
	userID := store.SeedUser(usd("100"))
	offeringID := store.SeedOffering(usd("40"))
	svc, _ := newTestService(store)
	ctx := context.Background()

	booking, err := svc.CreateBooking(ctx, userID, offeringID)
	if err != nil {
		t.Fatalf("creating booking: %v", err)
	}
	if _, err := svc.UpdateBookingStatus(ctx, booking.ID, domain.BookingStatusConfirmed); err != nil {
		t.Fatalf("confirming booking: %v", err)
	}

	cancelled, err := svc.UpdateBookingStatus(ctx, booking.ID, domain.BookingStatusCancelled)
	if err != nil {
		t.Fatalf("cancelling confirmed booking: %v", err)
	}
	if cancelled.Status != domain.BookingStatusCancelled {
		t.Fatalf("status %q, want cancelled", cancelled.Status)
	}
	if got := store.Balance(userID); !got.Equal(usd("60")) {
		t.Fatalf("balance %s, want 60 (no refund past pending)", got)
	}
}

func TestDisallowedTransitionIsNoOp(t *testing.T) {
	store := databasetest.NewMemStore()
	userID := store.SeedUser(usd("100"))
	offeringID := store.SeedOffering(usd("40"))
	svc, notifier := newTestService(store)
	ctx := context.Background()

	booking, err := svc.CreateBooking(ctx, userID, offeringID)
	if err != nil {
		t.Fatalf("creating booking: %v", err)
	}
	pushesBefore := notifier.pushCount()

	// pending -> completed skips confirmation and is not allowed.
	current, err := svc.UpdateBookingStatus(ctx, booking.ID, domain.BookingStatusCompleted)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if current.Status != domain.BookingStatusPending {
		t.Fatalf("status %q, want pending (unchanged)", current.Status)
	}
	if notifier.pushCount() != pushesBefore {
		t.Fatal("no-op transition pushed an event")
	}
}

func TestGetBooking(t *testing.T) {
	store := databasetest.NewMemStore()
	userID := store.SeedUser(usd("100"))
	offeringID := store.SeedOffering(usd("40"))
	svc, _ := newTestService(store)
	ctx := context.Background()

	booking, err := svc.CreateBooking(ctx, userID, offeringID)
	if err != nil {
		t.Fatalf("creating booking: %v", err)
	}

	got, err := svc.GetBooking(ctx, booking.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != booking.ID || got.UserID != userID {
		t.Fatalf("got booking %s for %s, want %s for %s", got.ID, got.UserID, booking.ID, userID)
	}

	if _, err := svc.GetBooking(ctx, "no-such-booking"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("got error %v, want ErrNotFound", err)
	}
}

func TestUpdateBookingStatusUnknownBooking(t *testing.T) {
	store := databasetest.NewMemStore()
	store.SeedUser(usd("100"))
	svc, _ := newTestService(store)

	_, err := svc.UpdateBookingStatus(context.Background(), "no-such-booking", domain.BookingStatusConfirmed)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("got error %v, want ErrNotFound", err)
	}
}
