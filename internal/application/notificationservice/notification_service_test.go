package notificationservice

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/starbookhq/starbook/internal/domain"
	"github.com/starbookhq/starbook/internal/infrastructure/database/databasetest"
)

func TestMarkReadIsScopedToOwner(t *testing.T) {
	store := databasetest.NewMemStore()
	txm := databasetest.NewTxManager(store)
	svc := NewNotificationService(txm, zerolog.Nop())
	ctx := context.Background()

	notification := &domain.Notification{UserID: "user-1", Kind: "booking_update", Body: "created"}
	if err := txm.Store().Notifications().Create(ctx, notification); err != nil {
		t.Fatalf("seeding notification: %v", err)
	}

	// Another user cannot mark someone else's notification.
	if _, err := svc.MarkRead(ctx, notification.ID, "user-2"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("got error %v, want ErrNotFound", err)
	}

	read, err := svc.MarkRead(ctx, notification.ID, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !read.Read {
		t.Fatal("notification not marked read")
	}

	// Marking again keeps it read.
	again, err := svc.MarkRead(ctx, notification.ID, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !again.Read {
		t.Fatal("read flag moved backwards")
	}
}

func TestListNotificationsFiltersByUser(t *testing.T) {
	store := databasetest.NewMemStore()
	txm := databasetest.NewTxManager(store)
	svc := NewNotificationService(txm, zerolog.Nop())
	ctx := context.Background()

	for _, userID := range []string{"user-1", "user-1", "user-2"} {
		n := &domain.Notification{UserID: userID, Kind: "deposit_update", Body: "pending"}
		if err := txm.Store().Notifications().Create(ctx, n); err != nil {
			t.Fatalf("seeding notification: %v", err)
		}
	}

	list, err := svc.ListNotifications(ctx, "user-1", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d notifications, want 2", len(list))
	}
	for _, n := range list {
		if n.UserID != "user-1" {
			t.Fatalf("listing leaked notification for %q", n.UserID)
		}
	}
}
