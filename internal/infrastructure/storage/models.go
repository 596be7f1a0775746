package storage

import "time"

// ReconciliationStatus tracks whether an expense has been tied to a bank
// statement line. The only transitions are UNRECONCILED -> RECONCILED
// (batch confirm or manual link) and back (batch undo).
type ReconciliationStatus string

const (
	StatusUnreconciled ReconciliationStatus = "UNRECONCILED"
	StatusReconciled   ReconciliationStatus = "RECONCILED"
)

// Expense is a ledger expense row. AmountCents is in minor units.
// BatchID is empty unless the expense is reconciled into a batch.
type Expense struct {
	ID          string               `json:"id"`
	OwnerID     string               `json:"owner_id"`
	Date        time.Time            `json:"date"`
	AmountCents int64                `json:"amount_cents"`
	Merchant    string               `json:"merchant"`
	Category    string               `json:"category"`
	Status      ReconciliationStatus `json:"reconciliation_status"`
	BatchID     string               `json:"batch_id,omitempty"`
}

// MerchantMapping is a learned rewrite rule from a raw bank descriptor
// pattern to the ledger's canonical merchant name. Created on the first
// confirmed mismatch, incremented on repeats, never auto-deleted.
type MerchantMapping struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"owner_id"`
	BankName   string    `json:"bank_name"`
	MappedName string    `json:"mapped_name"`
	UsageCount int       `json:"usage_count"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Batch is a persisted, undoable group of confirmed pairings from one
// reconciliation session.
type Batch struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"owner_id"`
	Name         string    `json:"name"`
	FileName     string    `json:"file_name"`
	CreatedAt    time.Time `json:"created_at"`
	ExpenseCount int       `json:"expense_count"`
}

// ManualLink records an out-of-band pairing of a bank statement line to
// a ledger expense, made by the user from the unauthorized bucket.
type ManualLink struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	ExpenseID   string    `json:"expense_id"`
	Date        time.Time `json:"date"`
	AmountCents int64     `json:"amount_cents"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
