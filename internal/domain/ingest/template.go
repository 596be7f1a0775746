package ingest

import "strings"

// Template describes one bank's CSV column layout. Each field lists
// candidate header names in priority order; the first case-insensitive
// exact header match wins.
type Template struct {
	Name               string
	DateColumns        []string
	DescriptionColumns []string
	AmountColumns      []string
	DebitColumns       []string
	CreditColumns      []string
}

var (
	chaseTemplate = Template{
		Name:               "Chase",
		DateColumns:        []string{"Transaction Date", "Posting Date", "Date"},
		DescriptionColumns: []string{"Description", "Merchant Name", "Name"},
		AmountColumns:      []string{"Amount"},
	}

	bankOfAmericaTemplate = Template{
		Name:               "Bank of America",
		DateColumns:        []string{"Date", "Posted Date"},
		DescriptionColumns: []string{"Description", "Payee"},
		AmountColumns:      []string{"Amount"},
	}

	wellsFargoTemplate = Template{
		Name:               "Wells Fargo",
		DateColumns:        []string{"Date"},
		DescriptionColumns: []string{"Description"},
		AmountColumns:      []string{"Amount"},
		DebitColumns:       []string{"Withdrawals"},
		CreditColumns:      []string{"Deposits"},
	}

	genericTemplate = Template{
		Name:               "Generic",
		DateColumns:        []string{"Date", "Transaction Date", "Posted Date", "Trans Date"},
		DescriptionColumns: []string{"Description", "Merchant", "Name", "Payee", "Details", "Memo"},
		AmountColumns:      []string{"Amount", "Transaction Amount", "Debit", "Credit"},
	}
)

// DetectTemplate inspects the header row and picks the bank layout whose
// signature columns are present. Falls back to the Generic template, which
// tries a wider list of candidate names per field.
func DetectTemplate(headers []string) Template {
	headerSet := make(map[string]bool, len(headers))
	for _, h := range headers {
		headerSet[strings.ToLower(strings.TrimSpace(h))] = true
	}

	if headerSet["transaction date"] && headerSet["description"] {
		return chaseTemplate
	}
	if headerSet["posted date"] && headerSet["payee"] {
		return bankOfAmericaTemplate
	}
	if headerSet["withdrawals"] || headerSet["deposits"] {
		return wellsFargoTemplate
	}

	return genericTemplate
}

// findColumn returns the index of the first candidate name present in the
// header row, or -1 if none of the candidates match.
func findColumn(headers []string, candidates []string) int {
	lower := make([]string, len(headers))
	for i, h := range headers {
		lower[i] = strings.ToLower(strings.TrimSpace(h))
	}

	for _, name := range candidates {
		want := strings.ToLower(name)
		for i, h := range lower {
			if h == want {
				return i
			}
		}
	}

	return -1
}
