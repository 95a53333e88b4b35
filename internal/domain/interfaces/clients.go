package interfaces

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/starbookhq/starbook/internal/domain"
)

// PriceClient looks up the live USD price of a crypto asset. Callers handle
// failure with a static fallback rate, it is never fatal.
type PriceClient interface {
	GetAssetPriceUsd(ctx context.Context, asset string) (decimal.Decimal, error)
}

// EventNotifier delivers best-effort real-time events. Push targets the
// single channel registered for a user and is a no-op when none is
// connected; BroadcastAll fans out to every connected client.
type EventNotifier interface {
	Push(userID string, event domain.Event)
	BroadcastAll(event domain.Event)
}
