package mapping

// defaultMappings is the static table of well-known bank descriptor
// patterns. Loaded once at init and never mutated; per-user learned
// mappings layer on top of it.
var defaultMappings = map[string]string{
	"AMZN":             "Amazon",
	"AMAZON":           "Amazon",
	"AMZN MKTP":        "Amazon",
	"WM SUPERCENTER":   "Walmart",
	"WAL-MART":         "Walmart",
	"WMT PLUS":         "Walmart",
	"COSTCO WHSE":      "Costco",
	"TARGET T-":        "Target",
	"STARBUCKS":        "Starbucks",
	"SBUX":             "Starbucks",
	"MCDONALD'S":       "McDonald's",
	"CHICK-FIL-A":      "Chick-fil-A",
	"CHIPOTLE":         "Chipotle",
	"UBER EATS":        "Uber Eats",
	"UBER TRIP":        "Uber",
	"LYFT":             "Lyft",
	"NETFLIX":          "Netflix",
	"SPOTIFY":          "Spotify",
	"HULU":             "Hulu",
	"APPLE.COM/BILL":   "Apple",
	"GOOGLE *":         "Google",
	"PAYPAL *":         "PayPal",
	"SQ *":             "Square",
	"TST*":             "Toast",
	"SHELL OIL":        "Shell",
	"CHEVRON":          "Chevron",
	"EXXONMOBIL":       "Exxon",
	"7-ELEVEN":         "7-Eleven",
	"TRADER JOE":       "Trader Joe's",
	"WHOLEFDS":         "Whole Foods",
	"KROGER":           "Kroger",
	"SAFEWAY":          "Safeway",
	"CVS/PHARMACY":     "CVS",
	"WALGREENS":        "Walgreens",
	"HOME DEPOT":       "Home Depot",
	"LOWE'S":           "Lowe's",
	"SOUTHWES":         "Southwest Airlines",
	"DELTA AIR":        "Delta Air Lines",
	"UNITED AIRLINES":  "United Airlines",
	"AIRBNB":           "Airbnb",
	"MARRIOTT":         "Marriott",
	"DOORDASH":         "DoorDash",
	"GRUBHUB":          "Grubhub",
	"VENMO PAYMENT":    "Venmo",
	"ATM WITHDRAWAL":   "ATM Withdrawal",
	"INTEREST PAYMENT": "Interest",
}
