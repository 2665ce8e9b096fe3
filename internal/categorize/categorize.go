// Package categorize assigns spending categories to transactions from a
// keyword table. It is deliberately opinionated for young salaried users;
// anything it cannot match confidently is left untouched for the consumer
// to bucket as "Other".
package categorize

import (
	"strings"

	"moneystory/internal/core"
)

type rule struct {
	keyword  string
	category string
}

// rules is scanned in order and the first match wins, so more specific
// keywords ("prime") must come before broader ones ("amazon").
var rules = []rule{
	// Food and eating out
	{"zomato", "Food"},
	{"swiggy", "Food"},
	{"blinkit", "Food"},
	{"instamart", "Food"},
	{"bigbasket", "Food"},
	{"starbucks", "Food"},
	{"cafe", "Food"},
	{"restaurant", "Food"},

	// Transport
	{"uber", "Transport"},
	{"ola", "Transport"},
	{"rapido", "Transport"},
	{"metro", "Transport"},
	{"cab", "Transport"},
	{"fuel", "Transport"},
	{"petrol", "Transport"},
	{"diesel", "Transport"},

	// Subscriptions and OTT
	{"netflix", "Subscriptions"},
	{"spotify", "Subscriptions"},
	{"hotstar", "Subscriptions"},
	{"disney", "Subscriptions"},
	{"prime", "Subscriptions"},
	{"youtube", "Subscriptions"},
	{"apple music", "Subscriptions"},

	// Shopping and lifestyle
	{"amazon", "Shopping"},
	{"flipkart", "Shopping"},
	{"myntra", "Shopping"},
	{"ajio", "Shopping"},
	{"h&m", "Shopping"},
	{"zara", "Shopping"},
	{"nykaa", "Shopping"},

	// Housing
	{"rent", "Housing"},
	{"landlord", "Housing"},
	{"maintenance", "Housing"},
	{"society", "Housing"},

	// Income
	{"salary", "Salary"},
	{"salaried", "Salary"},
	{"stipend", "Salary"},
	{"freelance", "Side Income"},
	{"consulting", "Side Income"},
	{"bonus", "Bonus"},

	// Fees and charges
	{"fee", "Fees & Charges"},
	{"charges", "Fees & Charges"},
	{"penalty", "Fees & Charges"},
	{"fine", "Fees & Charges"},
	{"interest", "Fees & Charges"},
}

// Guess returns the category for the first keyword found in the combined
// description, source and account name, or "" when nothing matches.
func Guess(description, source, accountName string) string {
	text := strings.ToLower(strings.Join([]string{description, source, accountName}, " "))
	for _, r := range rules {
		if strings.Contains(text, r.keyword) {
			return r.category
		}
	}
	return ""
}

// Apply fills in the category of every transaction that does not already
// have one. User-supplied categories are never overwritten; unmatched
// transactions keep an empty category.
func Apply(txs []core.Transaction) {
	for i := range txs {
		if strings.TrimSpace(txs[i].Category) != "" {
			continue
		}
		if cat := Guess(txs[i].Description, txs[i].Source, txs[i].AccountName); cat != "" {
			txs[i].Category = cat
		}
	}
}
