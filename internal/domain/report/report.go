// Package report classifies matching results into the four-bucket
// reconciliation report returned to the caller.
package report

// Status is the closed set of classifications a report entry can carry.
type Status string

const (
	StatusMatched      Status = "MATCHED"
	StatusNeedsReview  Status = "NEEDS_REVIEW"
	StatusUnauthorized Status = "UNAUTHORIZED"
	StatusMissing      Status = "MISSING"
)

// Entry is one classified transaction in the report. Amount is in major
// units; Confidence for the unauthorized and missing buckets is fixed at
// 1.0, meaning "certainly unmatched", not "certainly fraudulent".
type Entry struct {
	Date        string  `json:"date"`
	Merchant    string  `json:"merchant"`
	Amount      float64 `json:"amount"`
	Status      Status  `json:"status"`
	Notes       string  `json:"notes"`
	Confidence  float64 `json:"confidence"`
	ExpenseID   string  `json:"expense_id,omitempty"`
	RawBankName string  `json:"raw_bank_name,omitempty"`
}

// Report is the four-bucket reconciliation result. It is a view only;
// confirmed matches become a persisted batch, the report itself is
// never stored.
type Report struct {
	StatementPeriod string  `json:"statement_period"`
	BankDetected    string  `json:"bank_detected,omitempty"`
	Matched         []Entry `json:"matched_transactions"`
	NeedsReview     []Entry `json:"needs_review_transactions"`
	Unauthorized    []Entry `json:"unauthorized_transactions"`
	Missing         []Entry `json:"missing_from_bank"`
}
