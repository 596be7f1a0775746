package matcher

import (
	"github.com/pennyledger/reconcile-backend/internal/domain/ingest"
)

// WeightedMatcher is the best-fit strategy: every unclaimed expense is
// scored for each bank transaction and the best candidate is committed
// only if it clears the acceptance threshold. The admission window is
// wider than the deterministic strategy's ($0.05, 10 days) but the bar
// is higher.
type WeightedMatcher struct {
	config Config
}

// Compile-time check that WeightedMatcher implements Matcher
var _ Matcher = (*WeightedMatcher)(nil)

// Match scores every transaction/expense pairing and keeps the best per
// transaction. Ties keep the first candidate to reach the maximum score,
// so iteration order decides.
func (m *WeightedMatcher) Match(transactions []ingest.Transaction, expenses []Expense) Result {
	var result Result
	claimed := make(map[string]bool, len(expenses))

	for _, tx := range transactions {
		bestScore := -1.0
		var bestExpense Expense
		found := false

		for _, expense := range expenses {
			if claimed[expense.ID] {
				continue
			}

			score := m.score(tx, expense)
			if score > bestScore {
				bestScore = score
				bestExpense = expense
				found = true
			}
		}

		if found && bestScore >= m.config.AcceptThreshold {
			result.Pairs = append(result.Pairs, Pair{
				Transaction: tx,
				Expense:     bestExpense,
				Confidence:  bestScore,
			})
			claimed[bestExpense.ID] = true
		} else {
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

// score computes the weighted confidence for one pairing. Amount outside
// the admission window or date outside 10 days is a hard zero. Exact
// normalized merchant equality is near-maximal (0.9 plus date scaling);
// otherwise date decays linearly and combines 0.4 date / 0.6 text.
func (m *WeightedMatcher) score(tx ingest.Transaction, expense Expense) float64 {
	if absCents(tx.AmountCents, expense.AmountCents) > int64(m.config.FuzzyToleranceCents) {
		return 0
	}

	days := daysApart(tx.Date, expense.Date)
	window := float64(m.config.FuzzyDateWindowDays)
	if days > window {
		return 0
	}

	dateScore := 1 - days/window
	if dateScore < 0 {
		dateScore = 0
	}

	if normalizeMerchant(tx.Description) == normalizeMerchant(expense.Merchant) {
		return 0.9 + dateScore*0.1
	}

	return dateScore*0.4 + textSimilarity(tx.Description, expense.Merchant)*0.6
}
