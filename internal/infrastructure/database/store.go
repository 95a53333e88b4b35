package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/starbookhq/starbook/internal/domain"
	"github.com/starbookhq/starbook/internal/domain/interfaces"
	"github.com/starbookhq/starbook/internal/repositories/bookingrepo"
	"github.com/starbookhq/starbook/internal/repositories/campaignrepo"
	"github.com/starbookhq/starbook/internal/repositories/depositrepo"
	"github.com/starbookhq/starbook/internal/repositories/ledgerrepo"
	"github.com/starbookhq/starbook/internal/repositories/messagerepo"
	"github.com/starbookhq/starbook/internal/repositories/notificationrepo"
	"github.com/starbookhq/starbook/internal/repositories/offeringrepo"
	"github.com/starbookhq/starbook/internal/repositories/userrepo"
	"github.com/starbookhq/starbook/pkg/db"
)

// store wires every repository over one query scope (pool or transaction).
type store struct {
	ledger        ledgerrepo.ILedgerRepository
	bookings      bookingrepo.IBookingRepository
	offerings     offeringrepo.IOfferingRepository
	deposits      depositrepo.IDepositRepository
	notifications notificationrepo.INotificationRepository
	campaigns     campaignrepo.ICampaignRepository
	messages      messagerepo.IMessageRepository
	users         userrepo.IUserRepository
}

func newStore(q db.DBTX) *store {
	return &store{
		ledger:        ledgerrepo.New(q),
		bookings:      bookingrepo.New(q),
		offerings:     offeringrepo.New(q),
		deposits:      depositrepo.New(q),
		notifications: notificationrepo.New(q),
		campaigns:     campaignrepo.New(q),
		messages:      messagerepo.New(q),
		users:         userrepo.New(q),
	}
}

func (s *store) Ledger() ledgerrepo.ILedgerRepository                { return s.ledger }
func (s *store) Bookings() bookingrepo.IBookingRepository            { return s.bookings }
func (s *store) Offerings() offeringrepo.IOfferingRepository         { return s.offerings }
func (s *store) Deposits() depositrepo.IDepositRepository            { return s.deposits }
func (s *store) Notifications() notificationrepo.INotificationRepository {
	return s.notifications
}
func (s *store) Campaigns() campaignrepo.ICampaignRepository { return s.campaigns }
func (s *store) Messages() messagerepo.IMessageRepository    { return s.messages }
func (s *store) Users() userrepo.IUserRepository             { return s.users }

// TxManager runs coordinator transactions on the pgx pool.
type TxManager struct {
	dm        *DBManager
	poolStore *store
}

func NewTxManager(dm *DBManager) interfaces.TxManager {
	return &TxManager{
		dm:        dm,
		poolStore: newStore(dm.Pool),
	}
}

// Store returns the pool-scoped store for reads outside a transaction.
func (m *TxManager) Store() interfaces.Store {
	return m.poolStore
}

// WithTx runs fn inside a RepeatableRead transaction. All-or-nothing: fn's
// error rolls everything back. Serialization and deadlock failures come back
// as domain.ErrTxConflict.
func (m *TxManager) WithTx(ctx context.Context, fn func(ctx context.Context, s interfaces.Store) error) error {
	tx, err := m.dm.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return fmt.Errorf("tx begin failed: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(ctx, newStore(tx)); err != nil {
		return mapConflict(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return mapConflict(fmt.Errorf("tx commit failed: %w", err))
	}
	return nil
}

// Postgres codes for serialization failure and deadlock.
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

func mapConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == codeSerializationFailure || pgErr.Code == codeDeadlockDetected {
			return domain.ErrTxConflict
		}
	}
	return err
}
