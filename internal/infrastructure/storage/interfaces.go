package storage

import "time"

// Repository defines the complete storage interface. This interface
// allows swapping implementations (SQLite, PostgreSQL, etc.) and makes
// testing with mocks straightforward.
type Repository interface {
	LedgerRepository
	MappingRepository
	BatchRepository
	Close() error
}

// LedgerRepository handles ledger expense operations. The engine only
// reads a bounded window of expenses and mutates nothing but the
// reconciliation status, and that only through BatchRepository.
type LedgerRepository interface {
	// SaveExpense inserts or replaces an expense row.
	SaveExpense(expense *Expense) error

	// GetExpense retrieves one expense by ID. Returns ErrExpenseNotFound
	// if absent.
	GetExpense(id string) (*Expense, error)

	// ListExpenses returns an owner's expenses dated on or after since,
	// newest first.
	ListExpenses(ownerID string, since time.Time) ([]*Expense, error)

	// SearchUnreconciled returns up to limit unreconciled expenses
	// matching the query. A numeric query matches the amount in major
	// units; anything else matches merchant or category as a substring.
	// An empty query returns the most recent unreconciled expenses.
	SearchUnreconciled(ownerID, query string, limit int) ([]*Expense, error)
}

// MappingRepository handles learned merchant mappings.
type MappingRepository interface {
	// GetMappings returns an owner's mappings as pattern -> canonical
	// name, most-used patterns first.
	GetMappings(ownerID string) (map[string]string, error)

	// ListMappings returns an owner's mappings with usage counts.
	ListMappings(ownerID string) ([]*MerchantMapping, error)

	// UpsertMapping creates a mapping with usage count 1, or increments
	// the count if the pattern already exists for this owner.
	UpsertMapping(ownerID, bankName, mappedName string) error
}

// BatchRepository handles the reconciliation batch lifecycle. Confirm
// and delete are transactional: either the batch row and every linked
// expense update land together, or none do.
type BatchRepository interface {
	// ConfirmBatch atomically creates a batch and marks every listed
	// expense RECONCILED with a link to it. Returns the new batch ID.
	ConfirmBatch(ownerID, name, fileName string, expenseIDs []string) (string, error)

	// DeleteBatch atomically reverts every linked expense to
	// UNRECONCILED, clears its batch link, then removes the batch row.
	DeleteBatch(ownerID, batchID string) error

	// GetBatch retrieves a batch and its linked expenses.
	GetBatch(ownerID, batchID string) (*Batch, []*Expense, error)

	// ListBatches returns an owner's batches with expense counts,
	// newest first.
	ListBatches(ownerID string) ([]*Batch, error)

	// SaveManualLink atomically records a manual link and marks the
	// target expense RECONCILED.
	SaveManualLink(link *ManualLink) error
}
