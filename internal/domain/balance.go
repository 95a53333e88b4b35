package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Balance is the authoritative USD balance for one user. It is mutated only
// through the ledger repository's atomic adjust inside a coordinator
// transaction, never by a blind overwrite.
type Balance struct {
	UserID    string          `json:"user_id"`
	Amount    decimal.Decimal `json:"amount"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// LedgerEntry records one signed balance change. The sum of a user's entries
// always equals the stored balance.
type LedgerEntry struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	Delta        decimal.Decimal `json:"delta"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	Reason       string          `json:"reason"`
	ReferenceID  string          `json:"reference_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

const (
	LedgerReasonBookingDebit  = "booking_debit"
	LedgerReasonBookingRefund = "booking_refund"
	LedgerReasonDepositCredit = "deposit_credit"
	LedgerReasonAdminAdjust   = "admin_adjust"
)
