// Package databasetest provides an in-memory Store and TxManager for
// exercising coordinators without Postgres. Transactions serialize on one
// mutex and roll back by snapshot, mirroring the row-lock serialization the
// real store gets from FOR UPDATE.
package databasetest

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

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
)

type MemStore struct {
	mu sync.Mutex

	users         map[string]domain.User
	offerings     map[string]domain.Offering
	bookings      map[string]domain.Booking
	deposits      map[string]domain.Deposit
	campaigns     map[string]domain.Campaign
	notifications []domain.Notification
	entries       []domain.LedgerEntry
	messages      []domain.Message
}

func NewMemStore() *MemStore {
	return &MemStore{
		users:     make(map[string]domain.User),
		offerings: make(map[string]domain.Offering),
		bookings:  make(map[string]domain.Booking),
		deposits:  make(map[string]domain.Deposit),
		campaigns: make(map[string]domain.Campaign),
	}
}

// SeedUser registers a user with an opening balance and returns its ID.
func (s *MemStore) SeedUser(balance decimal.Decimal) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New().String()
	s.users[id] = domain.User{
		ID:       uuid.MustParse(id),
		Username: "user-" + id[:8],
		Email:    id[:8] + "@example.com",
		Role:     domain.RoleUser,
		Balance:  balance,
	}
	return id
}

// SeedOffering registers an active offering and returns its ID.
func (s *MemStore) SeedOffering(price decimal.Decimal) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New().String()
	s.offerings[id] = domain.Offering{
		ID:          id,
		CelebrityID: uuid.New().String(),
		Title:       "offering-" + id[:8],
		Price:       price,
		Active:      true,
	}
	return id
}

func (s *MemStore) Balance(userID string) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[userID].Balance
}

func (s *MemStore) LedgerEntries(userID string) []domain.LedgerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.LedgerEntry
	for _, e := range s.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out
}

func (s *MemStore) Notifications(userID string) []domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Notification
	for _, n := range s.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

type snapshot struct {
	users         map[string]domain.User
	offerings     map[string]domain.Offering
	bookings      map[string]domain.Booking
	deposits      map[string]domain.Deposit
	campaigns     map[string]domain.Campaign
	notifications []domain.Notification
	entries       []domain.LedgerEntry
	messages      []domain.Message
}

func (s *MemStore) snapshot() snapshot {
	return snapshot{
		users:         copyMap(s.users),
		offerings:     copyMap(s.offerings),
		bookings:      copyMap(s.bookings),
		deposits:      copyMap(s.deposits),
		campaigns:     copyMap(s.campaigns),
		notifications: append([]domain.Notification(nil), s.notifications...),
		entries:       append([]domain.LedgerEntry(nil), s.entries...),
		messages:      append([]domain.Message(nil), s.messages...),
	}
}

func (s *MemStore) restore(snap snapshot) {
	s.users = snap.users
	s.offerings = snap.offerings
	s.bookings = snap.bookings
	s.deposits = snap.deposits
	s.campaigns = snap.campaigns
	s.notifications = snap.notifications
	s.entries = snap.entries
	s.messages = snap.messages
}

func copyMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// view implements interfaces.Store directly over MemStore state. Callers
// must hold the mutex (TxManager does).
type view struct {
	s *MemStore
}

func (v view) Ledger() ledgerrepo.ILedgerRepository                { return memLedger(v) }
func (v view) Bookings() bookingrepo.IBookingRepository            { return memBookings(v) }
func (v view) Offerings() offeringrepo.IOfferingRepository         { return memOfferings(v) }
func (v view) Deposits() depositrepo.IDepositRepository            { return memDeposits(v) }
func (v view) Notifications() notificationrepo.INotificationRepository {
	return memNotifications(v)
}
func (v view) Campaigns() campaignrepo.ICampaignRepository { return memCampaigns(v) }
func (v view) Messages() messagerepo.IMessageRepository    { return memMessages(v) }
func (v view) Users() userrepo.IUserRepository             { return memUsers(v) }

type memLedger view

func (r memLedger) GetBalance(_ context.Context, userID string) (decimal.Decimal, error) {
	u, ok := r.s.users[userID]
	if !ok {
		return decimal.Zero, domain.ErrNotFound
	}
	return u.Balance, nil
}

func (r memLedger) GetBalanceForUpdate(ctx context.Context, userID string) (decimal.Decimal, error) {
	return r.GetBalance(ctx, userID)
}

func (r memLedger) AdjustBalance(_ context.Context, userID string, delta decimal.Decimal) (decimal.Decimal, error) {
	u, ok := r.s.users[userID]
	if !ok {
		return decimal.Zero, domain.ErrNotFound
	}
	u.Balance = u.Balance.Add(delta)
	r.s.users[userID] = u
	return u.Balance, nil
}

func (r memLedger) LogChange(_ context.Context, entry *domain.LedgerEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	r.s.entries = append(r.s.entries, *entry)
	return nil
}

func (r memLedger) ListEntries(_ context.Context, userID string, limit int) ([]*domain.LedgerEntry, error) {
	var out []*domain.LedgerEntry
	for i := len(r.s.entries) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		if r.s.entries[i].UserID == userID {
			e := r.s.entries[i]
			out = append(out, &e)
		}
	}
	return out, nil
}

type memBookings view

func (r memBookings) Create(_ context.Context, booking *domain.Booking) error {
	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	booking.CreatedAt = now
	booking.UpdatedAt = now
	r.s.bookings[booking.ID] = *booking
	return nil
}

func (r memBookings) GetByID(_ context.Context, id string) (*domain.Booking, error) {
	b, ok := r.s.bookings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &b, nil
}

func (r memBookings) GetForUpdate(ctx context.Context, id string) (*domain.Booking, error) {
	return r.GetByID(ctx, id)
}

func (r memBookings) UpdateStatus(_ context.Context, id string, status domain.BookingStatus) (*domain.Booking, error) {
	b, ok := r.s.bookings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	b.Status = status
	b.UpdatedAt = time.Now().UTC()
	r.s.bookings[id] = b
	return &b, nil
}

func (r memBookings) ListByUser(_ context.Context, userID string, limit int) ([]*domain.Booking, error) {
	var out []*domain.Booking
	for _, b := range r.s.bookings {
		if b.UserID == userID {
			b := b
			out = append(out, &b)
		}
	}
	return out, nil
}

type memOfferings view

func (r memOfferings) GetByID(_ context.Context, id string) (*domain.Offering, error) {
	o, ok := r.s.offerings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &o, nil
}

func (r memOfferings) Create(_ context.Context, offering *domain.Offering) error {
	if offering.ID == "" {
		offering.ID = uuid.New().String()
	}
	r.s.offerings[offering.ID] = *offering
	return nil
}

func (r memOfferings) UpdatePrice(_ context.Context, id string, price decimal.Decimal) (*domain.Offering, error) {
	o, ok := r.s.offerings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	o.Price = price
	o.UpdatedAt = time.Now().UTC()
	r.s.offerings[id] = o
	return &o, nil
}

type memDeposits view

func (r memDeposits) Create(_ context.Context, deposit *domain.Deposit) error {
	if deposit.ID == "" {
		deposit.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	deposit.CreatedAt = now
	deposit.UpdatedAt = now
	r.s.deposits[deposit.ID] = *deposit
	return nil
}

func (r memDeposits) GetByID(_ context.Context, id string) (*domain.Deposit, error) {
	d, ok := r.s.deposits[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &d, nil
}

func (r memDeposits) GetForUpdate(ctx context.Context, id string) (*domain.Deposit, error) {
	return r.GetByID(ctx, id)
}

func (r memDeposits) UpdateStatus(_ context.Context, id string, status domain.DepositStatus, proofRef string) (*domain.Deposit, error) {
	d, ok := r.s.deposits[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	d.Status = status
	d.ProofRef = proofRef
	d.UpdatedAt = time.Now().UTC()
	r.s.deposits[id] = d
	return &d, nil
}

func (r memDeposits) ListByUser(_ context.Context, userID string, limit int) ([]*domain.Deposit, error) {
	var out []*domain.Deposit
	for _, d := range r.s.deposits {
		if d.UserID == userID {
			d := d
			out = append(out, &d)
		}
	}
	return out, nil
}

type memNotifications view

func (r memNotifications) Create(_ context.Context, notification *domain.Notification) error {
	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now().UTC()
	}
	r.s.notifications = append(r.s.notifications, *notification)
	return nil
}

func (r memNotifications) ListByUser(_ context.Context, userID string, limit int) ([]*domain.Notification, error) {
	var out []*domain.Notification
	for i := len(r.s.notifications) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		if r.s.notifications[i].UserID == userID {
			n := r.s.notifications[i]
			out = append(out, &n)
		}
	}
	return out, nil
}

func (r memNotifications) MarkRead(_ context.Context, id, userID string) (*domain.Notification, error) {
	for i := range r.s.notifications {
		if r.s.notifications[i].ID == id && r.s.notifications[i].UserID == userID {
			r.s.notifications[i].Read = true
			n := r.s.notifications[i]
			return &n, nil
		}
	}
	return nil, domain.ErrNotFound
}

type memCampaigns view

func (r memCampaigns) Create(_ context.Context, campaign *domain.Campaign) error {
	if campaign.ID == "" {
		campaign.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	campaign.CreatedAt = now
	campaign.UpdatedAt = now
	r.s.campaigns[campaign.ID] = *campaign
	return nil
}

func (r memCampaigns) GetByID(_ context.Context, id string) (*domain.Campaign, error) {
	c, ok := r.s.campaigns[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (r memCampaigns) GetForUpdate(ctx context.Context, id string) (*domain.Campaign, error) {
	return r.GetByID(ctx, id)
}

func (r memCampaigns) UpdateStatus(_ context.Context, id string, status domain.CampaignStatus) (*domain.Campaign, error) {
	c, ok := r.s.campaigns[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c.Status = status
	c.UpdatedAt = time.Now().UTC()
	r.s.campaigns[id] = c
	return &c, nil
}

type memMessages view

func (r memMessages) Create(_ context.Context, message *domain.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}
	r.s.messages = append(r.s.messages, *message)
	return nil
}

func (r memMessages) ListBetween(_ context.Context, userA, userB string, limit int) ([]*domain.Message, error) {
	var out []*domain.Message
	for i := len(r.s.messages) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		m := r.s.messages[i]
		if (m.SenderID == userA && m.RecipientID == userB) || (m.SenderID == userB && m.RecipientID == userA) {
			out = append(out, &m)
		}
	}
	return out, nil
}

type memUsers view

func (r memUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (r memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.s.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

// lockedView wraps view with per-call locking for use outside WithTx.
type lockedView struct {
	s *MemStore
}

func (l lockedView) Ledger() ledgerrepo.ILedgerRepository        { return lockedLedger{l.s} }
func (l lockedView) Bookings() bookingrepo.IBookingRepository    { return lockedBookings{l.s} }
func (l lockedView) Offerings() offeringrepo.IOfferingRepository { return lockedOfferings{l.s} }
func (l lockedView) Deposits() depositrepo.IDepositRepository    { return lockedDeposits{l.s} }
func (l lockedView) Notifications() notificationrepo.INotificationRepository {
	return lockedNotifications{l.s}
}
func (l lockedView) Campaigns() campaignrepo.ICampaignRepository { return lockedCampaigns{l.s} }
func (l lockedView) Messages() messagerepo.IMessageRepository    { return lockedMessages{l.s} }
func (l lockedView) Users() userrepo.IUserRepository             { return lockedUsers{l.s} }

type lockedLedger struct{ s *MemStore }

func (r lockedLedger) GetBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return memLedger{r.s}.GetBalance(ctx, userID)
}

func (r lockedLedger) GetBalanceForUpdate(ctx context.Context, userID string) (decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return memLedger{r.s}.GetBalanceForUpdate(ctx, userID)
}

func (r lockedLedger) AdjustBalance(ctx context.Context, userID string, delta decimal.Decimal) (decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return memLedger{r.s}.AdjustBalance(ctx, userID, delta)
}

func (r lockedLedger) LogChange(ctx context.Context, entry *domain.LedgerEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return memLedger{r.s}.LogChange(ctx, entry)
}

func (r lockedLedger) ListEntries(ctx context.Context, userID string, limit int) ([]*domain.LedgerEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return memLedger{r.s}.ListEntries(ctx, userID, limit)
}

type lockedBookings struct{ s *MemStore }

func (r lockedBookings) Create(ctx context.Context, booking *domain.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return memBookings{r.s}.Create(ctx, booking)
}

func (r lockedBookings) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return memBookings{r.s}.GetByID(ctx, id)
}

func (r lockedBookings) GetForUpdate(ctx context.Context, id string) (*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return memBookings{r.s}.GetForUpdate(ctx, id)
}

func (r lockedBookings) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return memBookings{r.s}.UpdateStatus(ctx, id, status)
}

func (r lockedBookings) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return memBookings{r.s}.ListByUser(ctx, userID, limit)
}

type lockedOfferings struct{ s *MemStore }

func (r lockedOfferings) GetByID(ctx context.Context, id string) (*domain.Offering, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return memOfferings{r.s}.GetByID(ctx, id)
}

func (r lockedOfferings) Create(ctx context.Context, offering *domain.Offering) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return memOfferings{r.s}.Create(ctx, offering)
}

func (r lockedOfferings) UpdatePrice(ctx context.Context, id string, price decimal.Decimal) (*domain.Offering, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return memOfferings{r.s}.UpdatePrice(ctx, id, price)
}

type lockedDeposits struct{ s *MemStore }

func (r lockedDeposits) Create(ctx context.Context, deposit *domain.Deposit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return memDeposits{r.s}.Create(ctx, deposit)
}

func (r lockedDeposits) GetByID(ctx context.Context, id string) (*domain.Deposit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return memDeposits{r.s}.GetByID(ctx, id)
}

func (r lockedDeposits) GetForUpdate(ctx context.Context, id string) (*domain.Deposit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return memDeposits{r.s}.GetForUpdate(ctx, id)
}

func (r lockedDeposits) UpdateStatus(ctx context.Context, id string, status domain.DepositStatus, proofRef string) (*domain.Deposit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return memDeposits{r.s}.UpdateStatus(ctx, id, status, proofRef)
}

func (r lockedDeposits) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.Deposit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return memDeposits{r.s}.ListByUser(ctx, userID, limit)
}

type lockedNotifications struct{ s *MemStore }

func (r lockedNotifications) Create(ctx context.Context, notification *domain.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return memNotifications{r.s}.Create(ctx, notification)
}

func (r lockedNotifications) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return memNotifications{r.s}.ListByUser(ctx, userID, limit)
}

func (r lockedNotifications) MarkRead(ctx context.Context, id, userID string) (*domain.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return memNotifications{r.s}.MarkRead(ctx, id, userID)
}

type lockedCampaigns struct{ s *MemStore }

func (r lockedCampaigns) Create(ctx context.Context, campaign *domain.Campaign) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return memCampaigns{r.s}.Create(ctx, campaign)
}

func (r lockedCampaigns) GetByID(ctx context.Context, id string) (*domain.Campaign, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return memCampaigns{r.s}.GetByID(ctx, id)
}

func (r lockedCampaigns) GetForUpdate(ctx context.Context, id string) (*domain.Campaign, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return memCampaigns{r.s}.GetForUpdate(ctx, id)
}

func (r lockedCampaigns) UpdateStatus(ctx context.Context, id string, status domain.CampaignStatus) (*domain.Campaign, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return memCampaigns{r.s}.UpdateStatus(ctx, id, status)
}

type lockedMessages struct{ s *MemStore }

func (r lockedMessages) Create(ctx context.Context, message *domain.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return memMessages{r.s}.Create(ctx, message)
}

func (r lockedMessages) ListBetween(ctx context.Context, userA, userB string, limit int) ([]*domain.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return memMessages{r.s}.ListBetween(ctx, userA, userB, limit)
}

type lockedUsers struct{ s *MemStore }

func (r lockedUsers) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return memUsers{r.s}.GetByID(ctx, id)
}

func (r lockedUsers) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return memUsers{r.s}.GetByEmail(ctx, email)
}

// TxManager serializes transactions on the store mutex and restores a
// snapshot when fn fails, giving the same all-or-nothing behavior as the
// Postgres transaction runner.
type TxManager struct {
	S *MemStore
}

func NewTxManager(s *MemStore) *TxManager {
	return &TxManager{S: s}
}

func (m *TxManager) Store() interfaces.Store {
	return lockedView{s: m.S}
}

func (m *TxManager) WithTx(ctx context.Context, fn func(ctx context.Context, s interfaces.Store) error) error {
	m.S.mu.Lock()
	defer m.S.mu.Unlock()

	snap := m.S.snapshot()
	if err := fn(ctx, view{s: m.S}); err != nil {
		m.S.restore(snap)
		return err
	}
	return nil
}
