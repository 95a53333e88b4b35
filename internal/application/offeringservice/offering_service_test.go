package offeringservice

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/starbookhq/starbook/internal/domain"
	"github.com/starbookhq/starbook/internal/infrastructure/database/databasetest"
)

func usd(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCreateOffering(t *testing.T) {
	store := databasetest.NewMemStore()
	svc := NewOfferingService(databasetest.NewTxManager(store), zerolog.Nop())

	offering, err := svc.CreateOffering(context.Background(), "celeb-1", "Video shoutout", usd("49.999"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !offering.Active {
		t.Fatal("new offering not active")
	}
	if !offering.Price.Equal(usd("50")) {
		t.Fatalf("price %s, want 50 (rounded to cents)", offering.Price)
	}

	if _, err := svc.CreateOffering(context.Background(), "celeb-1", "", usd("10")); err == nil {
		t.Fatal("expected error for empty title")
	}
	if _, err := svc.CreateOffering(context.Background(), "celeb-1", "Freebie", usd("0")); err == nil {
		t.Fatal("expected error for non-positive price")
	}
}

func TestSetOfferingPrice(t *testing.T) {
	store := databasetest.NewMemStore()
	svc := NewOfferingService(databasetest.NewTxManager(store), zerolog.Nop())
	ctx := context.Background()

	offering, err := svc.CreateOffering(ctx, "celeb-1", "Video shoutout", usd("50"))
	if err != nil {
		t.Fatalf("creating offering: %v", err)
	}

	repriced, err := svc.SetOfferingPrice(ctx, offering.ID, usd("75"))
	if err != nil {
		t.Fatalf("repricing offering: %v", err)
	}
	if !repriced.Price.Equal(usd("75")) {
		t.Fatalf("price %s, want 75", repriced.Price)
	}

	if _, err := svc.SetOfferingPrice(ctx, offering.ID, usd("-1")); err == nil {
		t.Fatal("expected error for negative price")
	}
	if _, err := svc.SetOfferingPrice(ctx, "no-such-offering", usd("10")); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("got error %v, want ErrNotFound", err)
	}
}
