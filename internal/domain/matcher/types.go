// Package matcher pairs parsed bank transactions with ledger expenses
// and scores each pairing with a 0-1 confidence.
//
// Two interchangeable strategies are provided:
//   - Deterministic: first-fit on a tight amount tolerance (2 cents) and
//     a 7-day date window; commits the first acceptable expense.
//   - Weighted: best-fit over every unclaimed expense inside a wider
//     admission window ($0.05, 10 days).
//
// Both strategies only emit pairs at or above the acceptance threshold
// (0.70); a transaction whose candidates all score below it stays
// unclaimed.
//
// Both enforce per-run exclusivity: once an expense is claimed it is
// unavailable to later transactions in the same run.
package matcher

import (
	"fmt"
	"time"

	"github.com/pennyledger/reconcile-backend/internal/domain/ingest"
)

// Strategy selects which matching algorithm to run. It is a stored user
// preference, not a property of the data.
type Strategy string

const (
	StrategyDeterministic Strategy = "deterministic"
	StrategyWeighted      Strategy = "weighted"
)

// Expense is the matcher's view of a ledger expense. Amounts are in
// minor units (cents), as stored by the ledger.
type Expense struct {
	ID          string
	Date        time.Time
	AmountCents int64
	Merchant    string
	Category    string
}

// Pair is one proposed pairing between a statement line and a ledger
// expense.
type Pair struct {
	Transaction ingest.Transaction
	Expense     Expense
	Confidence  float64
}

// Result holds the outcome of one matching run. Every input transaction
// and expense appears exactly once, either in a pair or in a leftover
// list.
type Result struct {
	Pairs                 []Pair
	UnmatchedTransactions []ingest.Transaction
	UnmatchedExpenses     []Expense
}

// Matcher pairs bank transactions with ledger expenses.
type Matcher interface {
	Match(transactions []ingest.Transaction, expenses []Expense) Result
}

// Config holds the tunable windows and thresholds shared by both
// strategies.
type Config struct {
	ExactToleranceCents int     // deterministic amount tolerance (default: 2)
	ExactDateWindowDays int     // deterministic date window (default: 7)
	FuzzyToleranceCents int     // weighted amount admission window (default: 5)
	FuzzyDateWindowDays int     // weighted date admission window (default: 10)
	AcceptThreshold     float64 // minimum accepted pair score (default: 0.70)
}

// DefaultConfig returns the production tolerances.
func DefaultConfig() Config {
	return Config{
		ExactToleranceCents: 2,
		ExactDateWindowDays: 7,
		FuzzyToleranceCents: 5,
		FuzzyDateWindowDays: 10,
		AcceptThreshold:     0.70,
	}
}

// New returns the matcher implementation for the given strategy.
func New(strategy Strategy, config Config) (Matcher, error) {
	switch strategy {
	case StrategyDeterministic, "":
		return &DeterministicMatcher{config: config}, nil
	case StrategyWeighted:
		return &WeightedMatcher{config: config}, nil
	default:
		return nil, fmt.Errorf("unknown matching strategy %q", strategy)
	}
}

// daysApart returns the absolute difference between two dates in days.
func daysApart(a, b time.Time) float64 {
	diff := a.Sub(b).Hours() / 24
	if diff < 0 {
		diff = -diff
	}
	return diff
}

// absCents returns the absolute difference between two minor-unit
// amounts.
func absCents(a, b int64) int64 {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d
}
