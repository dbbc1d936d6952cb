// Package reconcile classifies ledger rows into the DRE taxonomy and
// aggregates them by month with absolute and signed totals.
package reconcile

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Category is the income-statement line a taxonomy code belongs to.
type Category int

const (
	// CategoryOutOfScope matches no prefix rule.
	CategoryOutOfScope Category = iota
	// CategoryRevenue is "receita" (1.*).
	CategoryRevenue
	// CategoryCost is "custos" (2.1.*).
	CategoryCost
	// CategoryExpense is "despesas" (2.2.* and 2.3.*).
	CategoryExpense
)

func (c Category) String() string {
	switch c {
	case CategoryRevenue:
		return "receita"
	case CategoryCost:
		return "custos"
	case CategoryExpense:
		return "despesas"
	default:
		return "fora_do_escopo"
	}
}

// PrefixRule assigns codes starting with Prefix to a category.
type PrefixRule struct {
	Prefix   string
	Category Category
}

// Rules is the taxonomy and filtering configuration shared by the
// classifier, the aggregator and the diagnostics. It is passed by value
// and never mutated after construction.
type Rules struct {
	// Months are the twelve bucket codes, January first.
	Months []string
	// Prefixes are evaluated in order; the first match wins.
	Prefixes []PrefixRule
	// RevenueRoot and OutflowRoot select the 1.* and 2.* families.
	RevenueRoot string
	OutflowRoot string

	StatusMarker        string
	Stoplist            []string
	WatchList           []string
	TransferPrefixes    []string
	ReimbursementPrefix string
	FocusMonth          string
	RevenueSubgroups    []string
	SamplePrefixes      []string
	TopOutOfScope       int
}

// DefaultMonths are the pt-BR month codes.
var DefaultMonths = []string{"jan", "fev", "mar", "abr", "mai", "jun", "jul", "ago", "set", "out", "nov", "dez"}

// DefaultRules returns the DRE taxonomy used by the ledger exports.
func DefaultRules() Rules {
	return Rules{
		Months: append([]string(nil), DefaultMonths...),
		Prefixes: []PrefixRule{
			{Prefix: "1.", Category: CategoryRevenue},
			{Prefix: "2.1.", Category: CategoryCost},
			{Prefix: "2.2.", Category: CategoryExpense},
			{Prefix: "2.3.", Category: CategoryExpense},
		},
		RevenueRoot:         "1.",
		OutflowRoot:         "2.",
		StatusMarker:        "Conciliado",
		Stoplist:            []string{"locagora", "rótulos", "labels", "total", "soma", "subtotal"},
		WatchList:           []string{"2.3.17", "2.3.18", "2.3.19", "2.3.20", "2.3.21", "2.3.22", "2.3.23", "2.3.24", "2.2.3.8"},
		TransferPrefixes:    []string{"1.2.4", "2.3.24"},
		ReimbursementPrefix: "2.3.20",
		FocusMonth:          "jul",
		RevenueSubgroups:    []string{"1.1", "1.2", "1.3"},
		SamplePrefixes:      []string{"1.1.8", "1.3"},
		TopOutOfScope:       20,
	}
}

// Classify maps a taxonomy code to its category.
func (r Rules) Classify(categoria string) Category {
	for _, rule := range r.Prefixes {
		if strings.HasPrefix(categoria, rule.Prefix) {
			return rule.Category
		}
	}
	return CategoryOutOfScope
}

// MonthKey returns the bucket code for t's calendar month, or "" when
// Months has no code for it.
func (r Rules) MonthKey(t time.Time) string {
	i := int(t.Month()) - 1
	if i >= len(r.Months) {
		return ""
	}
	return r.Months[i]
}

// MonthKeyISO maps an ISO-8601 timestamp to its bucket code. Unparsable
// input falls back to now and reports degraded.
func (r Rules) MonthKeyISO(iso string, now time.Time) (key string, degraded bool) {
	t, ok := ParseISO(strings.TrimSuffix(strings.TrimSpace(iso), "Z"))
	if !ok {
		return r.MonthKey(now), true
	}
	return r.MonthKey(t), false
}

// MonthIndex returns the position of a bucket code, or -1.
func (r Rules) MonthIndex(month string) int {
	for i, m := range r.Months {
		if m == month {
			return i
		}
	}
	return -1
}

// Validate checks the rules for internal consistency.
func (r Rules) Validate() error {
	var errs []error
	if len(r.Months) != 12 {
		errs = append(errs, fmt.Errorf("months: expected 12 codes, got %d", len(r.Months)))
	}
	seen := make(map[string]bool, len(r.Months))
	for _, m := range r.Months {
		if m == "" || seen[m] {
			errs = append(errs, fmt.Errorf("months: empty or duplicate code %q", m))
		}
		seen[m] = true
	}
	if len(r.Prefixes) == 0 {
		errs = append(errs, errors.New("prefixes: at least one rule is required"))
	}
	for _, p := range r.Prefixes {
		if p.Prefix == "" {
			errs = append(errs, errors.New("prefixes: empty prefix"))
		}
	}
	if r.FocusMonth != "" && r.MonthIndex(r.FocusMonth) < 0 {
		errs = append(errs, fmt.Errorf("focus month %q is not one of %v", r.FocusMonth, r.Months))
	}
	if r.TopOutOfScope < 0 {
		errs = append(errs, fmt.Errorf("top out-of-scope must be >= 0, got %d", r.TopOutOfScope))
	}
	return errors.Join(errs...)
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
