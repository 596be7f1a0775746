package storage

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var errMockFailure = errors.New("mock repository failure")

// MockRepository is an in-memory implementation of Repository for
// testing. All operations are safe for concurrent use.
type MockRepository struct {
	mu       sync.RWMutex
	expenses map[string]*Expense
	mappings map[string]*MerchantMapping // keyed by ownerID + "|" + bankName
	batches  map[string]*Batch
	links    map[string]*ManualLink

	// FailConfirm forces ConfirmBatch to fail, for consistency tests.
	FailConfirm bool
	// FailUpsertMapping forces UpsertMapping to fail, for learning tests.
	FailUpsertMapping bool
}

// Compile-time check that MockRepository implements Repository
var _ Repository = (*MockRepository)(nil)

// NewMockRepository creates an empty in-memory repository.
func NewMockRepository() *MockRepository {
	return &MockRepository{
		expenses: make(map[string]*Expense),
		mappings: make(map[string]*MerchantMapping),
		batches:  make(map[string]*Batch),
		links:    make(map[string]*ManualLink),
	}
}

// Close is a no-op for the mock.
func (m *MockRepository) Close() error { return nil }

// SaveExpense inserts or replaces an expense row.
func (m *MockRepository) SaveExpense(expense *Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if expense.ID == "" {
		expense.ID = uuid.NewString()
	}
	if expense.Status == "" {
		expense.Status = StatusUnreconciled
	}

	cp := *expense
	m.expenses[expense.ID] = &cp
	return nil
}

// GetExpense retrieves one expense by ID.
func (m *MockRepository) GetExpense(id string) (*Expense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	expense, ok := m.expenses[id]
	if !ok {
		return nil, ErrExpenseNotFound
	}
	cp := *expense
	return &cp, nil
}

// ListExpenses returns an owner's expenses dated on or after since,
// newest first.
func (m *MockRepository) ListExpenses(ownerID string, since time.Time) ([]*Expense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var expenses []*Expense
	for _, expense := range m.expenses {
		if expense.OwnerID == ownerID && !expense.Date.Before(since) {
			cp := *expense
			expenses = append(expenses, &cp)
		}
	}

	sort.Slice(expenses, func(i, j int) bool {
		if !expenses[i].Date.Equal(expenses[j].Date) {
			return expenses[i].Date.After(expenses[j].Date)
		}
		return expenses[i].ID < expenses[j].ID
	})

	return expenses, nil
}

// SearchUnreconciled returns unreconciled expenses matching the query.
func (m *MockRepository) SearchUnreconciled(ownerID, query string, limit int) ([]*Expense, error) {
	if limit <= 0 {
		limit = 10
	}

	all, err := m.ListExpenses(ownerID, time.Time{})
	if err != nil {
		return nil, err
	}

	amount, amountErr := strconv.ParseFloat(query, 64)

	var matches []*Expense
	for _, expense := range all {
		if expense.Status != StatusUnreconciled {
			continue
		}
		if query != "" {
			if amountErr == nil {
				if expense.AmountCents != int64(amount*100+0.5) {
					continue
				}
			} else if !strings.Contains(strings.ToLower(expense.Merchant), strings.ToLower(query)) &&
				!strings.Contains(strings.ToLower(expense.Category), strings.ToLower(query)) {
				continue
			}
		}
		matches = append(matches, expense)
		if len(matches) >= limit {
			break
		}
	}

	return matches, nil
}

// GetMappings returns an owner's mappings as pattern -> canonical name.
func (m *MockRepository) GetMappings(ownerID string) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	mappings := make(map[string]string)
	for _, mapping := range m.mappings {
		if mapping.OwnerID == ownerID {
			mappings[mapping.BankName] = mapping.MappedName
		}
	}

	return mappings, nil
}

// ListMappings returns an owner's mappings with usage counts.
func (m *MockRepository) ListMappings(ownerID string) ([]*MerchantMapping, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var mappings []*MerchantMapping
	for _, mapping := range m.mappings {
		if mapping.OwnerID == ownerID {
			cp := *mapping
			mappings = append(mappings, &cp)
		}
	}

	sort.Slice(mappings, func(i, j int) bool {
		if mappings[i].UsageCount != mappings[j].UsageCount {
			return mappings[i].UsageCount > mappings[j].UsageCount
		}
		return mappings[i].BankName < mappings[j].BankName
	})

	return mappings, nil
}

// UpsertMapping creates a mapping or increments its usage count.
func (m *MockRepository) UpsertMapping(ownerID, bankName, mappedName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailUpsertMapping {
		return errMockFailure
	}

	key := ownerID + "|" + bankName
	if existing, ok := m.mappings[key]; ok {
		existing.MappedName = mappedName
		existing.UsageCount++
		existing.UpdatedAt = time.Now()
		return nil
	}

	m.mappings[key] = &MerchantMapping{
		ID:         uuid.NewString(),
		OwnerID:    ownerID,
		BankName:   bankName,
		MappedName: mappedName,
		UsageCount: 1,
		UpdatedAt:  time.Now(),
	}
	return nil
}

// ConfirmBatch creates a batch and marks every listed expense
// RECONCILED, or changes nothing at all.
func (m *MockRepository) ConfirmBatch(ownerID, name, fileName string, expenseIDs []string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailConfirm {
		return "", errMockFailure
	}
	if len(expenseIDs) == 0 {
		return "", errMockFailure
	}

	// Validate everything before mutating, mirroring the sqlite
	// transaction semantics.
	for _, id := range expenseIDs {
		expense, ok := m.expenses[id]
		if !ok || expense.OwnerID != ownerID {
			return "", ErrExpenseNotFound
		}
	}

	batchID := uuid.NewString()
	m.batches[batchID] = &Batch{
		ID:        batchID,
		OwnerID:   ownerID,
		Name:      name,
		FileName:  fileName,
		CreatedAt: time.Now(),
	}

	for _, id := range expenseIDs {
		m.expenses[id].Status = StatusReconciled
		m.expenses[id].BatchID = batchID
	}

	return batchID, nil
}

// DeleteBatch reverts every linked expense and removes the batch.
func (m *MockRepository) DeleteBatch(ownerID, batchID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	batch, ok := m.batches[batchID]
	if !ok || batch.OwnerID != ownerID {
		return ErrBatchNotFound
	}

	for _, expense := range m.expenses {
		if expense.BatchID == batchID {
			expense.Status = StatusUnreconciled
			expense.BatchID = ""
		}
	}

	delete(m.batches, batchID)
	return nil
}

// GetBatch retrieves a batch and its linked expenses.
func (m *MockRepository) GetBatch(ownerID, batchID string) (*Batch, []*Expense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	batch, ok := m.batches[batchID]
	if !ok || batch.OwnerID != ownerID {
		return nil, nil, ErrBatchNotFound
	}

	var expenses []*Expense
	for _, expense := range m.expenses {
		if expense.BatchID == batchID {
			cp := *expense
			expenses = append(expenses, &cp)
		}
	}
	sort.Slice(expenses, func(i, j int) bool { return expenses[i].ID < expenses[j].ID })

	cp := *batch
	cp.ExpenseCount = len(expenses)
	return &cp, expenses, nil
}

// ListBatches returns an owner's batches, newest first.
func (m *MockRepository) ListBatches(ownerID string) ([]*Batch, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var batches []*Batch
	for _, batch := range m.batches {
		if batch.OwnerID != ownerID {
			continue
		}
		cp := *batch
		for _, expense := range m.expenses {
			if expense.BatchID == batch.ID {
				cp.ExpenseCount++
			}
		}
		batches = append(batches, &cp)
	}

	sort.Slice(batches, func(i, j int) bool {
		if !batches[i].CreatedAt.Equal(batches[j].CreatedAt) {
			return batches[i].CreatedAt.After(batches[j].CreatedAt)
		}
		return batches[i].ID < batches[j].ID
	})

	return batches, nil
}

// SaveManualLink records a manual link and marks the expense RECONCILED.
func (m *MockRepository) SaveManualLink(link *ManualLink) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	expense, ok := m.expenses[link.ExpenseID]
	if !ok || expense.OwnerID != link.OwnerID {
		return ErrExpenseNotFound
	}

	if link.ID == "" {
		link.ID = uuid.NewString()
	}
	link.CreatedAt = time.Now()

	cp := *link
	m.links[link.ID] = &cp
	expense.Status = StatusReconciled
	return nil
}
