package dto

import (
	"time"

	"github.com/pennyledger/reconcile-backend/internal/infrastructure/storage"
)

// BatchResponse is one reconciliation batch in API responses.
type BatchResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	FileName     string `json:"file_name"`
	CreatedAt    string `json:"created_at"`
	ExpenseCount int    `json:"expense_count"`
}

// BatchDetailResponse is a batch with its linked expenses.
type BatchDetailResponse struct {
	BatchResponse
	Expenses []ExpenseResponse `json:"expenses"`
}

// ExpenseResponse is one ledger expense in API responses. Amount is in
// major units.
type ExpenseResponse struct {
	ID       string  `json:"id"`
	Date     string  `json:"date"`
	Merchant string  `json:"merchant"`
	Category string  `json:"category,omitempty"`
	Amount   float64 `json:"amount"`
	Status   string  `json:"reconciliation_status"`
}

// MappingResponse is one learned merchant mapping.
type MappingResponse struct {
	BankName   string `json:"bank_name"`
	MappedName string `json:"mapped_name"`
	UsageCount int    `json:"usage_count"`
}

// ToBatchResponse converts a storage batch to an API response.
func ToBatchResponse(batch *storage.Batch) BatchResponse {
	return BatchResponse{
		ID:           batch.ID,
		Name:         batch.Name,
		FileName:     batch.FileName,
		CreatedAt:    batch.CreatedAt.UTC().Format(time.RFC3339),
		ExpenseCount: batch.ExpenseCount,
	}
}

// ToExpenseResponse converts a storage expense to an API response.
func ToExpenseResponse(expense *storage.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:       expense.ID,
		Date:     expense.Date.Format("2006-01-02"),
		Merchant: expense.Merchant,
		Category: expense.Category,
		Amount:   float64(expense.AmountCents) / 100,
		Status:   string(expense.Status),
	}
}
