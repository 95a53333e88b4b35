package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type DepositStatus string

const (
	DepositStatusPending  DepositStatus = "pending"
	DepositStatusApproved DepositStatus = "approved"
	DepositStatusRejected DepositStatus = "rejected"
)

// Deposit is a crypto-funded USD top-up request. The USD-per-unit rate is
// fetched once at creation and frozen into the record: the user is asked to
// send a fixed crypto amount, so approval must never re-price.
type Deposit struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	AmountUSD      decimal.Decimal `json:"amount_usd"`
	Asset          string          `json:"asset"`
	RateUSD        decimal.Decimal `json:"rate_usd"`
	ExpectedAmount decimal.Decimal `json:"expected_amount"`
	Status         DepositStatus   `json:"status"`
	ProofRef       string          `json:"proof_ref,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (s DepositStatus) Terminal() bool {
	return s == DepositStatusApproved || s == DepositStatusRejected
}
