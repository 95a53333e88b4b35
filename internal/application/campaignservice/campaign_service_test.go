package campaignservice

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/starbookhq/starbook/internal/domain"
	"github.com/starbookhq/starbook/internal/infrastructure/database/databasetest"
)

type fakeNotifier struct {
	mu     sync.Mutex
	pushed int
}

func (n *fakeNotifier) Push(userID string, event domain.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pushed++
}

func (n *fakeNotifier) BroadcastAll(event domain.Event) {}

func (n *fakeNotifier) pushCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.pushed
}

func TestCreateCampaignStartsAsDraft(t *testing.T) {
	store := databasetest.NewMemStore()
	notifier := &fakeNotifier{}
	svc := NewCampaignService(databasetest.NewTxManager(store), notifier, zerolog.Nop())

	campaign, err := svc.CreateCampaign(context.Background(), "user-1", "Summer push", "promo blitz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if campaign.Status != domain.CampaignStatusDraft {
		t.Fatalf("status %q, want draft", campaign.Status)
	}
	if notifier.pushCount() != 1 {
		t.Fatalf("got %d pushes, want 1", notifier.pushCount())
	}

	if _, err := svc.CreateCampaign(context.Background(), "user-1", "", ""); err == nil {
		t.Fatal("expected error for empty title")
	}
}

func TestCampaignStatusTransitions(t *testing.T) {
	store := databasetest.NewMemStore()
	notifier := &fakeNotifier{}
	svc := NewCampaignService(databasetest.NewTxManager(store), notifier, zerolog.Nop())
	ctx := context.Background()

	campaign, err := svc.CreateCampaign(ctx, "user-1", "Summer push", "")
	if err != nil {
		t.Fatalf("creating campaign: %v", err)
	}

	active, err := svc.SetCampaignStatus(ctx, campaign.ID, domain.CampaignStatusActive)
	if err != nil {
		t.Fatalf("activating campaign: %v", err)
	}
	if active.Status != domain.CampaignStatusActive {
		t.Fatalf("status %q, want active", active.Status)
	}

	closed, err := svc.SetCampaignStatus(ctx, campaign.ID, domain.CampaignStatusClosed)
	if err != nil {
		t.Fatalf("closing campaign: %v", err)
	}
	if closed.Status != domain.CampaignStatusClosed {
		t.Fatalf("status %q, want closed", closed.Status)
	}

	pushesBefore := notifier.pushCount()

	// closed is terminal: reopening is a no-op returning the current
	// record without a push.
	still, err := svc.SetCampaignStatus(ctx, campaign.ID, domain.CampaignStatusActive)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if still.Status != domain.CampaignStatusClosed {
		t.Fatalf("status %q after reopen attempt, want closed", still.Status)
	}
	if notifier.pushCount() != pushesBefore {
		t.Fatal("no-op transition pushed an event")
	}
}

func TestSetCampaignStatusUnknownCampaign(t *testing.T) {
	store := databasetest.NewMemStore()
	svc := NewCampaignService(databasetest.NewTxManager(store), &fakeNotifier{}, zerolog.Nop())

	_, err := svc.SetCampaignStatus(context.Background(), "no-such-campaign", domain.CampaignStatusActive)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("got error %v, want ErrNotFound", err)
	}
}
