// Package ingest parses uploaded bank-statement exports into typed
// transactions.
//
// Banks agree on no common schema, so parsing is template-driven: the
// header row is matched against known bank layouts (Chase, Bank of
// America, Wells Fargo) with a generic candidate-name fallback. Rows that
// are missing a description or a usable amount are dropped silently; only
// a nonempty file that yields zero transactions is an error.
package ingest

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNoTransactions is returned when a nonempty file produces no usable
// rows, which usually means the file is not a bank statement export.
var ErrNoTransactions = errors.New("no transactions found in file - check the file format")

// Kind indicates the direction of a bank transaction.
type Kind string

const (
	Debit  Kind = "debit"
	Credit Kind = "credit"
)

// Transaction is one parsed statement line. Amount is in major units and
// always non-negative; Kind carries the direction. AmountCents is the
// exact minor-unit value, computed before any float conversion.
type Transaction struct {
	Date           time.Time
	Description    string
	RawDescription string
	Amount         float64
	AmountCents    int64
	Kind           Kind
}

// Mapper rewrites a raw bank description into a canonical merchant name.
type Mapper interface {
	Canonical(raw string) string
}

// Parse splits raw statement text into transactions using the detected
// bank template. The mapper is applied to each description; pass nil to
// keep raw descriptions. Returns the parsed transactions and the name of
// the detected template.
func Parse(content string, mapper Mapper) ([]Transaction, string, error) {
	rows := splitRows(content)
	if len(rows) < 2 {
		return nil, "", ErrNoTransactions
	}

	headers := rows[0]
	template := DetectTemplate(headers)

	dateIdx := findColumn(headers, template.DateColumns)
	descIdx := findColumn(headers, template.DescriptionColumns)
	amountIdx := findColumn(headers, template.AmountColumns)
	debitIdx := findColumn(headers, template.DebitColumns)
	creditIdx := findColumn(headers, template.CreditColumns)

	var transactions []Transaction

	for _, row := range rows[1:] {
		if len(row) < 2 {
			continue
		}

		rawDesc := cell(row, descIdx)

		var amount decimal.Decimal
		kind := Debit

		if debitIdx >= 0 && creditIdx >= 0 {
			// Separate withdrawal/deposit columns. A nonzero debit wins
			// over a nonzero credit.
			debit := parseAmount(cell(row, debitIdx))
			credit := parseAmount(cell(row, creditIdx))

			switch {
			case !debit.IsZero():
				amount = debit.Abs()
				kind = Debit
			case !credit.IsZero():
				amount = credit.Abs()
				kind = Credit
			}
		} else if amountIdx >= 0 {
			// Single signed column: negative means money out.
			amount = parseAmount(cell(row, amountIdx))
			if amount.IsNegative() {
				kind = Debit
			} else {
				kind = Credit
			}
			amount = amount.Abs()
		}

		if rawDesc == "" || amount.IsZero() {
			continue
		}

		rawDesc = strings.TrimSpace(rawDesc)
		desc := rawDesc
		if mapper != nil {
			desc = mapper.Canonical(rawDesc)
		}

		rounded := amount.Round(2)
		transactions = append(transactions, Transaction{
			Date:           parseDate(cell(row, dateIdx)),
			Description:    desc,
			RawDescription: rawDesc,
			Amount:         rounded.InexactFloat64(),
			AmountCents:    rounded.Mul(decimal.NewFromInt(100)).IntPart(),
			Kind:           kind,
		})
	}

	if len(transactions) == 0 {
		return nil, template.Name, ErrNoTransactions
	}

	return transactions, template.Name, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// amountCleaner strips currency symbols, thousands separators and
// whitespace before numeric parsing.
var amountCleaner = strings.NewReplacer(
	"$", "", "£", "", "€", "",
	",", "", " ", "", "\t", "",
	"(", "", ")", "",
)

// parseAmount converts a raw amount cell into a decimal. A value wrapped
// in parentheses or prefixed with a minus sign is negative. Unparseable
// values come back as zero, which drops the row.
func parseAmount(raw string) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero
	}

	negative := strings.Contains(raw, "(") || strings.HasPrefix(raw, "-")

	cleaned := strings.TrimPrefix(amountCleaner.Replace(raw), "-")
	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}

	if negative {
		value = value.Neg()
	}
	return value
}

// parseDate converts a raw date cell into a calendar date. Slash dates
// are MM/DD/YYYY or MM/DD/YY; two-digit years pivot at 50 (50-99 map to
// 19xx, 00-49 to 20xx - an inherited heuristic, see DESIGN). ISO dates
// pass through with any time suffix truncated. An empty or unparseable
// date falls back to today, matching the permissive row policy.
func parseDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)

	if raw != "" {
		if parts := strings.Split(raw, "/"); len(parts) == 3 {
			year := parts[2]
			if len(year) == 2 {
				if year >= "50" {
					year = "19" + year
				} else {
					year = "20" + year
				}
			}
			if t, err := time.Parse("1/2/2006", parts[0]+"/"+parts[1]+"/"+year); err == nil {
				return t
			}
		}

		if strings.Contains(raw, "-") {
			iso := raw
			if i := strings.IndexAny(iso, "T "); i > 0 {
				iso = iso[:i]
			}
			if t, err := time.Parse("2006-01-02", iso); err == nil {
				return t
			}
		}
	}

	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
