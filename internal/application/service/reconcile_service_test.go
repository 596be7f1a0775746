package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pennyledger/reconcile-backend/internal/domain/report"
	"github.com/pennyledger/reconcile-backend/internal/infrastructure/config"
	"github.com/pennyledger/reconcile-backend/internal/infrastructure/storage"
)

func newTestService(repo storage.Repository) *ReconcileService {
	cfg := &config.Config{}
	cfg.Reconcile.LedgerWindowDays = 90
	cfg.Reconcile.DefaultStrategy = "deterministic"
	return NewReconcileService(repo, cfg, nil)
}

func seedExpense(t *testing.T, repo *storage.MockRepository, ownerID, merchant string, cents int64, date time.Time) *storage.Expense {
	t.Helper()
	expense := &storage.Expense{
		OwnerID:     ownerID,
		Date:        date,
		AmountCents: cents,
		Merchant:    merchant,
		Category:    "Shopping",
	}
	require.NoError(t, repo.SaveExpense(expense))
	return expense
}

func TestReconcile_EndToEnd(t *testing.T) {
	// Arrange - one expense that matches the statement, one that doesn't
	repo := storage.NewMockRepository()
	svc := newTestService(repo)

	statementDate := time.Now().UTC().AddDate(0, 0, -2)
	seedExpense(t, repo, "user1", "Starbucks", 575, statementDate)
	seedExpense(t, repo, "user1", "Gym Membership", 4999, statementDate)

	content := fmt.Sprintf(`Transaction Date,Description,Amount
%s,STARBUCKS STORE 123,-5.75
%s,MYSTERY VENDOR,-88.00`,
		statementDate.Format("01/02/2006"), statementDate.Format("01/02/2006"))

	// Act
	rep, err := svc.Reconcile(context.Background(), ReconcileRequest{
		OwnerID:  "user1",
		FileName: "statement.csv",
		Content:  content,
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Chase", rep.BankDetected)
	assert.Contains(t, rep.StatementPeriod, "CSV Import")

	require.Len(t, rep.Matched, 1)
	assert.Equal(t, "STARBUCKS STORE 123", rep.Matched[0].Merchant)

	require.Len(t, rep.Unauthorized, 1)
	assert.Equal(t, "MYSTERY VENDOR", rep.Unauthorized[0].Merchant)

	require.Len(t, rep.Missing, 1)
	assert.Equal(t, "Gym Membership", rep.Missing[0].Merchant)
}

func TestReconcile_AppliesLearnedMappings(t *testing.T) {
	// Arrange - a learned mapping rewrites the descriptor before matching
	repo := storage.NewMockRepository()
	svc := newTestService(repo)

	statementDate := time.Now().UTC().AddDate(0, 0, -1)
	seedExpense(t, repo, "user1", "Corner Bakery", 1250, statementDate)
	require.NoError(t, repo.UpsertMapping("user1", "CRNR BKRY POS", "Corner Bakery"))

	content := fmt.Sprintf(`Transaction Date,Description,Amount
%s,CRNR BKRY POS 0042,-12.50`, statementDate.Format("01/02/2006"))

	// Act
	rep, err := svc.Reconcile(context.Background(), ReconcileRequest{
		OwnerID: "user1",
		Content: content,
	})

	// Assert
	require.NoError(t, err)
	require.Len(t, rep.Matched, 1)
	assert.Equal(t, "Corner Bakery", rep.Matched[0].Merchant)
	assert.Equal(t, "CRNR BKRY POS 0042", rep.Matched[0].RawBankName)
}

func TestReconcile_UnknownStrategy(t *testing.T) {
	svc := newTestService(storage.NewMockRepository())

	_, err := svc.Reconcile(context.Background(), ReconcileRequest{
		OwnerID:  "user1",
		Content:  "Transaction Date,Description,Amount\n01/01/2024,X,-1.00",
		Strategy: "psychic",
	})

	assert.Error(t, err)
}

func TestReconcile_UnparseableFile(t *testing.T) {
	svc := newTestService(storage.NewMockRepository())

	_, err := svc.Reconcile(context.Background(), ReconcileRequest{
		OwnerID: "user1",
		Content: "this is not a csv",
	})

	assert.Error(t, err)
}

func TestConfirm_PersistsBatchAndLearns(t *testing.T) {
	// Arrange
	repo := storage.NewMockRepository()
	svc := newTestService(repo)

	expense := seedExpense(t, repo, "user1", "Amazon", 4599, time.Now().UTC())

	req := ConfirmRequest{
		OwnerID:  "user1",
		FileName: "march.csv",
		Entries: []report.Entry{{
			Status:      report.StatusMatched,
			ExpenseID:   expense.ID,
			RawBankName: "AMZN MKTP US*1A2B3",
			Merchant:    "Amazon",
		}},
	}

	// Act
	result, err := svc.Confirm(context.Background(), req)

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, result.BatchID)
	assert.Equal(t, 1, result.Count)

	got, err := repo.GetExpense(expense.ID)
	require.NoError(t, err)
	assert.Equal(t, storage.StatusReconciled, got.Status)

	mappings, err := repo.ListMappings("user1")
	require.NoError(t, err)
	require.Len(t, mappings, 1)
	assert.Equal(t, "AMZN MKTP US*1A2B3", mappings[0].BankName)
	assert.Equal(t, "Amazon", mappings[0].MappedName)
	assert.Equal(t, 1, mappings[0].UsageCount)

	// A repeat confirmation of the same descriptor bumps the usage count.
	require.NoError(t, svc.Undo(context.Background(), "user1", result.BatchID))
	_, err = svc.Confirm(context.Background(), req)
	require.NoError(t, err)

	mappings, err = repo.ListMappings("user1")
	require.NoError(t, err)
	require.Len(t, mappings, 1)
	assert.Equal(t, 2, mappings[0].UsageCount)
}

func TestConfirm_UsesNicknameOverFileName(t *testing.T) {
	repo := storage.NewMockRepository()
	svc := newTestService(repo)

	expense := seedExpense(t, repo, "user1", "Shop", 100, time.Now().UTC())

	result, err := svc.Confirm(context.Background(), ConfirmRequest{
		OwnerID:  "user1",
		FileName: "march.csv",
		Nickname: "March cleanup",
		Entries: []report.Entry{{
			Status:    report.StatusNeedsReview,
			ExpenseID: expense.ID,
		}},
	})
	require.NoError(t, err)

	batch, _, err := repo.GetBatch("user1", result.BatchID)
	require.NoError(t, err)
	assert.Equal(t, "March cleanup", batch.Name)
	assert.Equal(t, "march.csv", batch.FileName)
}

func TestConfirm_NothingToConfirm(t *testing.T) {
	svc := newTestService(storage.NewMockRepository())

	// Unauthorized and missing entries carry no expense link to persist.
	_, err := svc.Confirm(context.Background(), ConfirmRequest{
		OwnerID: "user1",
		Entries: []report.Entry{
			{Status: report.StatusUnauthorized},
			{Status: report.StatusMissing, ExpenseID: "e1"},
			{Status: report.StatusMatched}, // no expense ID
		},
	})

	assert.ErrorIs(t, err, ErrNothingToConfirm)
}

func TestConfirm_ConsistencyError(t *testing.T) {
	repo := storage.NewMockRepository()
	repo.FailConfirm = true
	svc := newTestService(repo)

	_, err := svc.Confirm(context.Background(), ConfirmRequest{
		OwnerID: "user1",
		Entries: []report.Entry{{Status: report.StatusMatched, ExpenseID: "e1"}},
	})

	var consistencyErr *ConsistencyError
	require.ErrorAs(t, err, &consistencyErr)
	assert.Equal(t, "confirm batch", consistencyErr.Op)
}

func TestConfirm_LearningFailureDoesNotFailConfirm(t *testing.T) {
	repo := storage.NewMockRepository()
	repo.FailUpsertMapping = true
	svc := newTestService(repo)

	expense := seedExpense(t, repo, "user1", "Amazon", 4599, time.Now().UTC())

	result, err := svc.Confirm(context.Background(), ConfirmRequest{
		OwnerID: "user1",
		Entries: []report.Entry{{
			Status:      report.StatusMatched,
			ExpenseID:   expense.ID,
			RawBankName: "AMZN MKTP US*1A2B3",
		}},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Count)
}

func TestConfirm_NoLearningWhenNamesAlreadyAgree(t *testing.T) {
	repo := storage.NewMockRepository()
	svc := newTestService(repo)

	expense := seedExpense(t, repo, "user1", "Amazon", 4599, time.Now().UTC())

	_, err := svc.Confirm(context.Background(), ConfirmRequest{
		OwnerID: "user1",
		Entries: []report.Entry{{
			Status:      report.StatusMatched,
			ExpenseID:   expense.ID,
			RawBankName: "amazon",
		}},
	})
	require.NoError(t, err)

	mappings, err := repo.ListMappings("user1")
	require.NoError(t, err)
	assert.Empty(t, mappings)
}

func TestUndo_RevertsBatch(t *testing.T) {
	repo := storage.NewMockRepository()
	svc := newTestService(repo)

	expense := seedExpense(t, repo, "user1", "Shop", 100, time.Now().UTC())
	result, err := svc.Confirm(context.Background(), ConfirmRequest{
		OwnerID: "user1",
		Entries: []report.Entry{{Status: report.StatusMatched, ExpenseID: expense.ID}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Undo(context.Background(), "user1", result.BatchID))

	got, err := repo.GetExpense(expense.ID)
	require.NoError(t, err)
	assert.Equal(t, storage.StatusUnreconciled, got.Status)
	assert.Empty(t, got.BatchID)
}

func TestUndo_BatchNotFound(t *testing.T) {
	svc := newTestService(storage.NewMockRepository())

	err := svc.Undo(context.Background(), "user1", "ghost")
	assert.ErrorIs(t, err, storage.ErrBatchNotFound)

	var consistencyErr *ConsistencyError
	assert.False(t, errors.As(err, &consistencyErr))
}

func TestManualLink_MarksReconciledAndLearns(t *testing.T) {
	repo := storage.NewMockRepository()
	svc := newTestService(repo)

	expense := seedExpense(t, repo, "user1", "Corner Store", 2500, time.Now().UTC())

	err := svc.ManualLink(context.Background(), ManualLinkRequest{
		OwnerID:   "user1",
		ExpenseID: expense.ID,
		Entry: report.Entry{
			Date:        "2024-03-02",
			Merchant:    "CORNER STORE 042",
			Amount:      25.00,
			RawBankName: "CORNER STORE 042",
		},
	})
	require.NoError(t, err)

	got, err := repo.GetExpense(expense.ID)
	require.NoError(t, err)
	assert.Equal(t, storage.StatusReconciled, got.Status)

	mappings, err := repo.ListMappings("user1")
	require.NoError(t, err)
	require.Len(t, mappings, 1)
	assert.Equal(t, "CORNER STORE 042", mappings[0].BankName)
	assert.Equal(t, "Corner Store", mappings[0].MappedName)
}

func TestManualLink_InvalidDate(t *testing.T) {
	svc := newTestService(storage.NewMockRepository())

	err := svc.ManualLink(context.Background(), ManualLinkRequest{
		OwnerID:   "user1",
		ExpenseID: "e1",
		Entry:     report.Entry{Date: "03/02/2024"},
	})

	assert.Error(t, err)
}

func TestManualLink_UnknownExpense(t *testing.T) {
	svc := newTestService(storage.NewMockRepository())

	err := svc.ManualLink(context.Background(), ManualLinkRequest{
		OwnerID:   "user1",
		ExpenseID: "ghost",
		Entry:     report.Entry{Date: "2024-03-02"},
	})

	assert.ErrorIs(t, err, storage.ErrExpenseNotFound)
}
