package extraction

import (
	"strings"
)

// DefaultCategory is used when no keyword rule matches.
const DefaultCategory = "Other"

// categoryRules maps keyword patterns to expense categories. The table is
// ordered: the first matching rule wins. It is package-level and immutable;
// nothing mutates it after init.
var categoryRules = []struct {
	pattern  string
	category string
}{
	{"swiggy", "Food"},
	{"zomato", "Food"},
	{"restaurant", "Food"},
	{"cafe", "Food"},
	{"grocery", "Groceries"},
	{"bigbasket", "Groceries"},
	{"blinkit", "Groceries"},
	{"zepto", "Groceries"},
	{"uber", "Travel"},
	{"ola", "Travel"},
	{"rapido", "Travel"},
	{"irctc", "Travel"},
	{"petrol", "Fuel"},
	{"fuel", "Fuel"},
	{"amazon", "Shopping"},
	{"flipkart", "Shopping"},
	{"myntra", "Shopping"},
	{"electricity", "Utilities"},
	{"recharge", "Utilities"},
	{"broadband", "Utilities"},
	{"jio", "Utilities"},
	{"airtel", "Utilities"},
	{"netflix", "Entertainment"},
	{"spotify", "Entertainment"},
	{"bookmyshow", "Entertainment"},
	{"pharmacy", "Health"},
	{"hospital", "Health"},
	{"apollo", "Health"},
	{"rent", "Rent"},
	{"salary", "Income"},
}

// Categorize assigns an expense category from the counterparty name and the
// block text. Received transactions with no match land in Income rather than
// Other.
func Categorize(tx Transaction) string {
	haystack := strings.ToLower(tx.Counterparty + " " + tx.RawText)
	for _, rule := range categoryRules {
		if strings.Contains(haystack, rule.pattern) {
			return rule.category
		}
	}
	if tx.Type == TypeReceived {
		return "Income"
	}
	return DefaultCategory
}
