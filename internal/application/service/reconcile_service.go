// Package service orchestrates reconciliation runs and the batch
// lifecycle on top of the domain packages and the storage layer.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/pennyledger/reconcile-backend/internal/domain/ingest"
	"github.com/pennyledger/reconcile-backend/internal/domain/mapping"
	"github.com/pennyledger/reconcile-backend/internal/domain/matcher"
	"github.com/pennyledger/reconcile-backend/internal/domain/report"
	"github.com/pennyledger/reconcile-backend/internal/infrastructure/config"
	"github.com/pennyledger/reconcile-backend/internal/infrastructure/storage"
)

// ReconcileRequest holds the inputs for one reconciliation run.
type ReconcileRequest struct {
	OwnerID  string
	FileName string
	Content  string
	Strategy matcher.Strategy // empty uses the configured default
}

// ConfirmRequest holds a reviewed report's accepted entries.
type ConfirmRequest struct {
	OwnerID  string
	FileName string
	Nickname string // optional batch name; file name is used if empty
	Entries  []report.Entry
}

// ConfirmResult reports what a confirm persisted.
type ConfirmResult struct {
	BatchID string `json:"batch_id"`
	Count   int    `json:"count"`
}

// ManualLinkRequest pairs an unauthorized report entry with a ledger
// expense out of band.
type ManualLinkRequest struct {
	OwnerID   string
	ExpenseID string
	Entry     report.Entry
}

// ReconcileService runs reconciliation and manages the batch lifecycle.
// Each run is a single synchronous unit of work: parse, match, classify,
// return report. Runs for different owners may execute concurrently;
// they share no state beyond the repository.
type ReconcileService struct {
	repo          storage.Repository
	logger        *slog.Logger
	matcherConfig matcher.Config
	windowDays    int
	defaultStrat  matcher.Strategy
}

// NewReconcileService creates a reconcile service.
func NewReconcileService(repo storage.Repository, cfg *config.Config, logger *slog.Logger) *ReconcileService {
	if logger == nil {
		logger = slog.Default()
	}

	return &ReconcileService{
		repo:          repo,
		logger:        logger,
		matcherConfig: matcher.DefaultConfig(),
		windowDays:    cfg.Reconcile.LedgerWindowDays,
		defaultStrat:  matcher.Strategy(cfg.Reconcile.DefaultStrategy),
	}
}

// Reconcile parses the uploaded statement, matches it against the
// owner's ledger window and returns the classified report. Matching
// never fails outright: worst case every debit is unauthorized and
// every windowed expense is missing.
func (s *ReconcileService) Reconcile(ctx context.Context, req ReconcileRequest) (*report.Report, error) {
	strategy := req.Strategy
	if strategy == "" {
		strategy = s.defaultStrat
	}

	m, err := matcher.New(strategy, s.matcherConfig)
	if err != nil {
		return nil, err
	}

	userMappings, err := s.repo.GetMappings(req.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("load merchant mappings: %w", err)
	}

	since := time.Now().AddDate(0, 0, -s.windowDays)
	expenses, err := s.repo.ListExpenses(req.OwnerID, since)
	if err != nil {
		return nil, fmt.Errorf("load ledger window: %w", err)
	}

	transactions, bankDetected, err := ingest.Parse(req.Content, mapping.NewResolver(userMappings))
	if err != nil {
		return nil, err
	}

	s.logger.Info("parsed statement",
		"owner", req.OwnerID,
		"file", req.FileName,
		"bank", bankDetected,
		"transactions", len(transactions),
		"ledger_expenses", len(expenses),
		"strategy", strategy,
	)

	result := m.Match(transactions, toMatcherExpenses(expenses))

	rep := report.Classify(result)
	rep.StatementPeriod = fmt.Sprintf("CSV Import - %s", time.Now().Format("2006-01-02"))
	rep.BankDetected = bankDetected

	return &rep, nil
}

// Confirm persists the accepted entries of a reviewed report as one
// reconciliation batch. The batch row and every expense update commit in
// a single transaction; merchant-mapping learning runs afterwards and is
// best-effort.
func (s *ReconcileService) Confirm(ctx context.Context, req ConfirmRequest) (*ConfirmResult, error) {
	var expenseIDs []string
	for _, entry := range req.Entries {
		if (entry.Status == report.StatusMatched || entry.Status == report.StatusNeedsReview) && entry.ExpenseID != "" {
			expenseIDs = append(expenseIDs, entry.ExpenseID)
		}
	}

	if len(expenseIDs) == 0 {
		return nil, ErrNothingToConfirm
	}

	name := req.Nickname
	if name == "" {
		name = req.FileName
	}

	batchID, err := s.repo.ConfirmBatch(req.OwnerID, name, req.FileName, expenseIDs)
	if err != nil {
		return nil, &ConsistencyError{Op: "confirm batch", Err: err}
	}

	s.logger.Info("batch confirmed", "owner", req.OwnerID, "batch", batchID, "expenses", len(expenseIDs))

	for _, entry := range req.Entries {
		if entry.RawBankName == "" || entry.ExpenseID == "" {
			continue
		}
		s.learnMapping(req.OwnerID, entry.RawBankName, entry.ExpenseID)
	}

	return &ConfirmResult{BatchID: batchID, Count: len(expenseIDs)}, nil
}

// Undo reverts every expense linked to the batch and removes the batch
// record, all-or-nothing.
func (s *ReconcileService) Undo(ctx context.Context, ownerID, batchID string) error {
	if err := s.repo.DeleteBatch(ownerID, batchID); err != nil {
		if errors.Is(err, storage.ErrBatchNotFound) {
			return err
		}
		return &ConsistencyError{Op: "undo batch", Err: err}
	}

	s.logger.Info("batch undone", "owner", ownerID, "batch", batchID)
	return nil
}

// ManualLink resolves an unauthorized entry by hand: records the link,
// marks the expense reconciled and learns the merchant mapping.
func (s *ReconcileService) ManualLink(ctx context.Context, req ManualLinkRequest) error {
	date, err := time.Parse("2006-01-02", req.Entry.Date)
	if err != nil {
		return fmt.Errorf("invalid entry date %q: %w", req.Entry.Date, err)
	}

	link := &storage.ManualLink{
		OwnerID:     req.OwnerID,
		ExpenseID:   req.ExpenseID,
		Date:        date,
		AmountCents: int64(math.Round(req.Entry.Amount * 100)),
		Description: req.Entry.Merchant,
	}

	if err := s.repo.SaveManualLink(link); err != nil {
		return err
	}

	s.logger.Info("manual link created", "owner", req.OwnerID, "expense", req.ExpenseID)

	if req.Entry.RawBankName != "" {
		s.learnMapping(req.OwnerID, req.Entry.RawBankName, req.ExpenseID)
	}

	return nil
}

// learnMapping upserts a merchant mapping when the raw bank descriptor
// differs from the matched expense's merchant name. Failures are logged
// and swallowed; learning must never roll back a successful commit.
func (s *ReconcileService) learnMapping(ownerID, rawBankName, expenseID string) {
	expense, err := s.repo.GetExpense(expenseID)
	if err != nil {
		s.logger.Warn("mapping not learned: expense lookup failed", "expense", expenseID, "error", err)
		return
	}

	if strings.EqualFold(rawBankName, expense.Merchant) {
		return
	}

	pattern := strings.ToUpper(strings.TrimSpace(rawBankName))
	if err := s.repo.UpsertMapping(ownerID, pattern, expense.Merchant); err != nil {
		s.logger.Warn("mapping not learned: upsert failed", "pattern", pattern, "error", err)
	}
}

// toMatcherExpenses converts ledger rows to the matcher's view.
func toMatcherExpenses(expenses []*storage.Expense) []matcher.Expense {
	out := make([]matcher.Expense, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, matcher.Expense{
			ID:          e.ID,
			Date:        e.Date,
			AmountCents: e.AmountCents,
			Merchant:    e.Merchant,
			Category:    e.Category,
		})
	}
	return out
}
