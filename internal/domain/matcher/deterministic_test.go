package matcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pennyledger/reconcile-backend/internal/domain/ingest"
)

func makeTransaction(desc string, cents int64, date time.Time) ingest.Transaction {
	return ingest.Transaction{
		Date:           date,
		Description:    desc,
		RawDescription: desc,
		Amount:         float64(cents) / 100,
		AmountCents:    cents,
		Kind:           ingest.Debit,
	}
}

func makeExpense(id, merchant string, cents int64, date time.Time) Expense {
	return Expense{
		ID:          id,
		Date:        date,
		AmountCents: cents,
		Merchant:    merchant,
	}
}

var baseDate = time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

func TestDeterministic_ExactMatch(t *testing.T) {
	// Arrange
	m := &DeterministicMatcher{config: DefaultConfig()}
	transactions := []ingest.Transaction{makeTransaction("STARBUCKS", 575, baseDate)}
	expenses := []Expense{makeExpense("e1", "Starbucks", 575, baseDate)}

	// Act
	result := m.Match(transactions, expenses)

	// Assert
	require.Len(t, result.Pairs, 1)
	assert.Equal(t, "e1", result.Pairs[0].Expense.ID)
	assert.InDelta(t, 1.0, result.Pairs[0].Confidence, 0.001)
	assert.Empty(t, result.UnmatchedTransactions)
	assert.Empty(t, result.UnmatchedExpenses)
}

func TestDeterministic_AmountToleranceBoundary(t *testing.T) {
	m := &DeterministicMatcher{config: DefaultConfig()}

	// Two cents off matches
	result := m.Match(
		[]ingest.Transaction{makeTransaction("SHOP", 10000, baseDate)},
		[]Expense{makeExpense("e1", "Shop", 10002, baseDate)},
	)
	assert.Len(t, result.Pairs, 1)

	// Three cents off does not
	result = m.Match(
		[]ingest.Transaction{makeTransaction("SHOP", 10000, baseDate)},
		[]Expense{makeExpense("e1", "Shop", 10003, baseDate)},
	)
	assert.Empty(t, result.Pairs)
	assert.Len(t, result.UnmatchedTransactions, 1)
	assert.Len(t, result.UnmatchedExpenses, 1)
}

func TestDeterministic_DateWindowBoundary(t *testing.T) {
	m := &DeterministicMatcher{config: DefaultConfig()}

	// Seven days apart matches
	result := m.Match(
		[]ingest.Transaction{makeTransaction("SHOP", 5000, baseDate)},
		[]Expense{makeExpense("e1", "Shop", 5000, baseDate.AddDate(0, 0, 7))},
	)
	assert.Len(t, result.Pairs, 1)

	// Eight days apart does not
	result = m.Match(
		[]ingest.Transaction{makeTransaction("SHOP", 5000, baseDate)},
		[]Expense{makeExpense("e1", "Shop", 5000, baseDate.AddDate(0, 0, 8))},
	)
	assert.Empty(t, result.Pairs)
}

func TestDeterministic_FirstFitNotBestFit(t *testing.T) {
	// Arrange - the first ledger expense is a worse candidate than the
	// second, but first-fit commits it anyway.
	m := &DeterministicMatcher{config: DefaultConfig()}
	transactions := []ingest.Transaction{makeTransaction("EXACT SHOP", 10000, baseDate)}
	expenses := []Expense{
		makeExpense("worse", "Exact Shoppe", 10000, baseDate.AddDate(0, 0, -3)),
		makeExpense("better", "Exact Shop", 10000, baseDate),
	}

	// Act
	result := m.Match(transactions, expenses)

	// Assert
	require.Len(t, result.Pairs, 1)
	assert.Equal(t, "worse", result.Pairs[0].Expense.ID)
}

func TestDeterministic_RejectsBelowThreshold(t *testing.T) {
	// Amount and date are within tolerance, but a distant date plus a
	// dissimilar name leaves the confidence below the acceptance bar. The
	// transaction stays unclaimed instead of pairing invisibly.
	m := &DeterministicMatcher{config: DefaultConfig()}
	result := m.Match(
		[]ingest.Transaction{makeTransaction("NETFLIX", 1599, baseDate)},
		[]Expense{makeExpense("e1", "Home Depot", 1599, baseDate.AddDate(0, 0, 5))},
	)

	assert.Empty(t, result.Pairs)
	assert.Len(t, result.UnmatchedTransactions, 1)
	assert.Len(t, result.UnmatchedExpenses, 1)
}

func TestDeterministic_Exclusivity(t *testing.T) {
	// Two identical charges, one ledger expense: only one pairs.
	m := &DeterministicMatcher{config: DefaultConfig()}
	transactions := []ingest.Transaction{
		makeTransaction("COFFEE", 450, baseDate),
		makeTransaction("COFFEE", 450, baseDate),
	}
	expenses := []Expense{makeExpense("e1", "Coffee", 450, baseDate)}

	result := m.Match(transactions, expenses)

	require.Len(t, result.Pairs, 1)
	assert.Len(t, result.UnmatchedTransactions, 1)
	assert.Empty(t, result.UnmatchedExpenses)
}

func TestDeterministic_ConfidenceComponents(t *testing.T) {
	m := &DeterministicMatcher{config: DefaultConfig()}

	// One day apart, exact name: 0.4 + 0.3*0.9 + 0.3*1.0
	result := m.Match(
		[]ingest.Transaction{makeTransaction("SHOP", 5000, baseDate)},
		[]Expense{makeExpense("e1", "Shop", 5000, baseDate.AddDate(0, 0, 1))},
	)
	require.Len(t, result.Pairs, 1)
	assert.InDelta(t, 0.97, result.Pairs[0].Confidence, 0.001)
}

func TestDeterministic_Repeatable(t *testing.T) {
	// Arrange - same inputs must produce the same pairs every run.
	m := &DeterministicMatcher{config: DefaultConfig()}
	transactions := []ingest.Transaction{
		makeTransaction("SHOP A", 1000, baseDate),
		makeTransaction("SHOP B", 1000, baseDate),
	}
	expenses := []Expense{
		makeExpense("e1", "Shop A", 1000, baseDate),
		makeExpense("e2", "Shop B", 1000, baseDate),
	}

	first := m.Match(transactions, expenses)

	// Act & Assert
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, m.Match(transactions, expenses))
	}
}

func TestSteppedDateScore(t *testing.T) {
	assert.Equal(t, 1.0, steppedDateScore(0))
	assert.Equal(t, 0.9, steppedDateScore(1))
	assert.Equal(t, 0.7, steppedDateScore(3))
	assert.Equal(t, 0.5, steppedDateScore(4))
	assert.Equal(t, 0.5, steppedDateScore(7))
}

func TestNew_Strategies(t *testing.T) {
	m, err := New(StrategyDeterministic, DefaultConfig())
	require.NoError(t, err)
	assert.IsType(t, &DeterministicMatcher{}, m)

	m, err = New(StrategyWeighted, DefaultConfig())
	require.NoError(t, err)
	assert.IsType(t, &WeightedMatcher{}, m)

	m, err = New("", DefaultConfig())
	require.NoError(t, err)
	assert.IsType(t, &DeterministicMatcher{}, m)

	_, err = New("psychic", DefaultConfig())
	assert.Error(t, err)
}
