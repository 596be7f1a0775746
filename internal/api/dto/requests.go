package dto

import "github.com/pennyledger/reconcile-backend/internal/domain/report"

// ConfirmRequest is the body of POST /api/reconcile/confirm.
type ConfirmRequest struct {
	OwnerID  string         `json:"owner_id" binding:"required"`
	FileName string         `json:"file_name" binding:"required"`
	Nickname string         `json:"nickname"`
	Entries  []report.Entry `json:"entries" binding:"required"`
}

// ManualLinkRequest is the body of POST /api/links.
type ManualLinkRequest struct {
	OwnerID   string       `json:"owner_id" binding:"required"`
	ExpenseID string       `json:"expense_id" binding:"required"`
	Entry     report.Entry `json:"entry" binding:"required"`
}
