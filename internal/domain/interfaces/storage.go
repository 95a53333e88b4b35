package interfaces

import (
	"context"

	"github.com/starbookhq/starbook/internal/repositories/bookingrepo"
	"github.com/starbookhq/starbook/internal/repositories/campaignrepo"
	"github.com/starbookhq/starbook/internal/repositories/depositrepo"
	"github.com/starbookhq/starbook/internal/repositories/ledgerrepo"
	"github.com/starbookhq/starbook/internal/repositories/messagerepo"
	"github.com/starbookhq/starbook/internal/repositories/notificationrepo"
	"github.com/starbookhq/starbook/internal/repositories/offeringrepo"
	"github.com/starbookhq/starbook/internal/repositories/userrepo"
)

// Store bundles the repositories over one query scope: either the shared
// connection pool or a single transaction.
type Store interface {
	Ledger() ledgerrepo.ILedgerRepository
	Bookings() bookingrepo.IBookingRepository
	Offerings() offeringrepo.IOfferingRepository
	Deposits() depositrepo.IDepositRepository
	Notifications() notificationrepo.INotificationRepository
	Campaigns() campaignrepo.ICampaignRepository
	Messages() messagerepo.IMessageRepository
	Users() userrepo.IUserRepository
}

// TxManager runs fn against a transaction-scoped Store. Everything fn does
// commits or rolls back as one unit. Serialization and deadlock failures are
// reported as domain.ErrTxConflict so coordinators can retry.
type TxManager interface {
	Store() Store
	WithTx(ctx context.Context, fn func(ctx context.Context, s Store) error) error
}
