package matcher

import (
	"github.com/pennyledger/reconcile-backend/internal/domain/ingest"
)

// DeterministicMatcher is the first-fit strategy: for each bank
// transaction it scans the ledger in its given order and commits the
// first expense within 2 cents and 7 days whose confidence clears the
// acceptance threshold, without comparing against later candidates.
type DeterministicMatcher struct {
	config Config
}

// Compile-time check that DeterministicMatcher implements Matcher
var _ Matcher = (*DeterministicMatcher)(nil)

// Match pairs transactions with expenses greedily in encounter order.
// Confidence weights: amount already matched (0.4), date proximity
// (0.3), merchant similarity (0.3).
func (m *DeterministicMatcher) Match(transactions []ingest.Transaction, expenses []Expense) Result {
	var result Result
	claimed := make(map[string]bool, len(expenses))

	for _, tx := range transactions {
		matched := false

		for _, expense := range expenses {
			if claimed[expense.ID] {
				continue
			}
			if absCents(tx.AmountCents, expense.AmountCents) > int64(m.config.ExactToleranceCents) {
				continue
			}

			days := daysApart(tx.Date, expense.Date)
			if days > float64(m.config.ExactDateWindowDays) {
				continue
			}

			confidence := 0.4 + 0.3*steppedDateScore(days) + 0.3*textSimilarity(tx.Description, expense.Merchant)
			if confidence < m.config.AcceptThreshold {
				continue
			}

			result.Pairs = append(result.Pairs, Pair{
				Transaction: tx,
				Expense:     expense,
				Confidence:  confidence,
			})
			claimed[expense.ID] = true
			matched = true
			break
		}

		if !matched {
			result.UnmatchedTransactions = append(result.UnmatchedTransactions, tx)
		}
	}

	for _, expense := range expenses {
		if !claimed[expense.ID] {
			result.UnmatchedExpenses = append(result.UnmatchedExpenses, expense)
		}
	}

	return result
}

// steppedDateScore is the deterministic strategy's date component: 1.0
// same day, 0.9 one day, 0.7 up to three days, 0.5 beyond.
func steppedDateScore(days float64) float64 {
	switch {
	case days == 0:
		return 1.0
	case days <= 1:
		return 0.9
	case days <= 3:
		return 0.7
	default:
		return 0.5
	}
}
