package report

import (
	"fmt"
	"math"

	"github.com/pennyledger/reconcile-backend/internal/domain/ingest"
	"github.com/pennyledger/reconcile-backend/internal/domain/matcher"
)

// Confidence thresholds
const (
	HighConfidenceThreshold = 0.90 // auto-match
	ReviewThreshold         = 0.70 // needs human review
)

// MissingLimit caps the missing-from-bank bucket so one stale ledger
// window cannot flood the report.
const MissingLimit = 20

const dateLayout = "2006-01-02"

// Classify buckets a matching result into the four report categories.
// Pairs at or above 0.90 are matched, between 0.70 and 0.90 need review.
// Unclaimed debits are unauthorized; unclaimed credits are dropped
// entirely (refunds and card payments are not unauthorized spend).
// Unclaimed ledger expenses become missing, capped at MissingLimit.
func Classify(result matcher.Result) Report {
	var r Report

	for _, pair := range result.Pairs {
		entry := Entry{
			Date:        pair.Transaction.Date.Format(dateLayout),
			Merchant:    pair.Transaction.Description,
			Amount:      pair.Transaction.Amount,
			Notes:       fmt.Sprintf("Matched to %s (%d%% confidence)", pair.Expense.Merchant, int(math.Round(pair.Confidence*100))),
			Confidence:  pair.Confidence,
			ExpenseID:   pair.Expense.ID,
			RawBankName: pair.Transaction.RawDescription,
		}

		if pair.Confidence >= HighConfidenceThreshold {
			entry.Status = StatusMatched
			r.Matched = append(r.Matched, entry)
		} else if pair.Confidence >= ReviewThreshold {
			entry.Status = StatusNeedsReview
			r.NeedsReview = append(r.NeedsReview, entry)
		}
	}

	for _, tx := range result.UnmatchedTransactions {
		if tx.Kind != ingest.Debit {
			continue
		}
		r.Unauthorized = append(r.Unauthorized, Entry{
			Date:        tx.Date.Format(dateLayout),
			Merchant:    tx.Description,
			Amount:      tx.Amount,
			Status:      StatusUnauthorized,
			Notes:       "Found in bank statement but not in ledger",
			Confidence:  1.0,
			RawBankName: tx.RawDescription,
		})
	}

	for _, expense := range result.UnmatchedExpenses {
		if len(r.Missing) >= MissingLimit {
			break
		}
		r.Missing = append(r.Missing, Entry{
			Date:       expense.Date.Format(dateLayout),
			Merchant:   expense.Merchant,
			Amount:     float64(expense.AmountCents) / 100,
			Status:     StatusMissing,
			Notes:      "In ledger but not found in bank statement (may be pending)",
			Confidence: 1.0,
			ExpenseID:  expense.ID,
		})
	}

	return r
}
