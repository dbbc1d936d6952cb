package reconcile

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ukaji3/dreconcile-go/pkg/dreconcile/models"
)

// EmptyLabel stands in for a missing status or category.
const EmptyLabel = "(vazio)"

// CategoryTally splits a category's entries by sign.
type CategoryTally struct {
	Categoria string          `json:"categoria"`
	Positive  decimal.Decimal `json:"positive"`
	Negative  decimal.Decimal `json:"negative"`
}

// CategoryAmount is a category with one accumulated value.
type CategoryAmount struct {
	Categoria string          `json:"categoria"`
	Value     decimal.Decimal `json:"value"`
}

// MonthValue is one point of a monthly series.
type MonthValue struct {
	Month string          `json:"month"`
	Value decimal.Decimal `json:"value"`
}

// MonthSeries holds one value per month code, in calendar order.
type MonthSeries []MonthValue

func newSeries(months []string) MonthSeries {
	s := make(MonthSeries, len(months))
	for i, m := range months {
		s[i] = MonthValue{Month: m, Value: decimal.Zero}
	}
	return s
}

func (s MonthSeries) add(month string, v decimal.Decimal) {
	for i := range s {
		if s[i].Month == month {
			s[i].Value = s[i].Value.Add(v)
			return
		}
	}
}

// Get returns the value of a month code.
func (s MonthSeries) Get(month string) decimal.Decimal {
	for _, mv := range s {
		if mv.Month == month {
			return mv.Value
		}
	}
	return decimal.Zero
}

// TallyCategories splits every outflow (2.*) category by sign, in the
// order categories were first seen.
func TallyCategories(records []models.FinancialRecord, rules Rules) []CategoryTally {
	var tallies []CategoryTally
	index := make(map[string]int)
	for _, r := range records {
		if !strings.HasPrefix(r.Categoria, rules.OutflowRoot) {
			continue
		}
		i, ok := index[r.Categoria]
		if !ok {
			i = len(tallies)
			index[r.Categoria] = i
			tallies = append(tallies, CategoryTally{Categoria: r.Categoria, Positive: decimal.Zero, Negative: decimal.Zero})
		}
		if r.ValorEfetivo.IsPositive() {
			tallies[i].Positive = tallies[i].Positive.Add(r.ValorEfetivo)
		} else {
			tallies[i].Negative = tallies[i].Negative.Add(r.ValorEfetivo)
		}
	}
	return tallies
}

// PositiveCategories keeps the tallies with positive entries, largest
// positive sum first. Ties keep their original order.
func PositiveCategories(tallies []CategoryTally) []CategoryTally {
	var out []CategoryTally
	for _, t := range tallies {
		if t.Positive.IsPositive() {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Positive.GreaterThan(out[j].Positive)
	})
	return out
}

// WatchListSum is the signed sum of records in the watch-list categories.
func WatchListSum(records []models.FinancialRecord, rules Rules) decimal.Decimal {
	sum := decimal.Zero
	for _, r := range records {
		if hasAnyPrefix(r.Categoria, rules.WatchList) {
			sum = sum.Add(r.ValorEfetivo)
		}
	}
	return sum
}

// MonthlyPrefixBalance is the signed monthly balance of records whose
// category starts with any of prefixes.
func MonthlyPrefixBalance(records []models.FinancialRecord, rules Rules, prefixes ...string) MonthSeries {
	series := newSeries(rules.Months)
	for _, r := range records {
		if hasAnyPrefix(r.Categoria, prefixes) {
			series.add(rules.MonthKey(r.DataEfetiva), r.ValorEfetivo)
		}
	}
	return series
}

// OutOfScopeBalance sums records that match no prefix rule, per month and
// per category. The ranking is ordered by absolute value, largest first,
// and cut to rules.TopOutOfScope entries (0 keeps all).
func OutOfScopeBalance(records []models.FinancialRecord, rules Rules) (MonthSeries, []CategoryAmount) {
	series := newSeries(rules.Months)
	var ranking []CategoryAmount
	index := make(map[string]int)

	for _, r := range records {
		if rules.Classify(r.Categoria) != CategoryOutOfScope {
			continue
		}
		series.add(rules.MonthKey(r.DataEfetiva), r.ValorEfetivo)

		cat := r.Categoria
		if cat == "" {
			cat = EmptyLabel
		}
		i, ok := index[cat]
		if !ok {
			i = len(ranking)
			index[cat] = i
			ranking = append(ranking, CategoryAmount{Categoria: cat, Value: decimal.Zero})
		}
		ranking[i].Value = ranking[i].Value.Add(r.ValorEfetivo)
	}

	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Value.Abs().GreaterThan(ranking[j].Value.Abs())
	})
	if rules.TopOutOfScope > 0 && len(ranking) > rules.TopOutOfScope {
		ranking = ranking[:rules.TopOutOfScope]
	}
	return series, ranking
}

// RevenueBySubgroup sums revenue magnitudes of one month per subgroup.
// A category counts toward the first subgroup it starts with.
func RevenueBySubgroup(records []models.FinancialRecord, rules Rules, month string) []CategoryAmount {
	out := make([]CategoryAmount, len(rules.RevenueSubgroups))
	for i, g := range rules.RevenueSubgroups {
		out[i] = CategoryAmount{Categoria: g, Value: decimal.Zero}
	}

	for _, r := range records {
		if !strings.HasPrefix(r.Categoria, rules.RevenueRoot) || rules.MonthKey(r.DataEfetiva) != month {
			continue
		}
		for i, g := range rules.RevenueSubgroups {
			if strings.HasPrefix(r.Categoria, g) {
				out[i].Value = out[i].Value.Add(r.ValorEfetivo.Abs())
				break
			}
		}
	}
	return out
}

// RevenueByCategory sums revenue magnitudes of one month per category,
// largest first. Ties keep their first-seen order.
func RevenueByCategory(records []models.FinancialRecord, rules Rules, month string) []CategoryAmount {
	var out []CategoryAmount
	index := make(map[string]int)
	for _, r := range records {
		if !strings.HasPrefix(r.Categoria, rules.RevenueRoot) || rules.MonthKey(r.DataEfetiva) != month {
			continue
		}
		i, ok := index[r.Categoria]
		if !ok {
			i = len(out)
			index[r.Categoria] = i
			out = append(out, CategoryAmount{Categoria: r.Categoria, Value: decimal.Zero})
		}
		out[i].Value = out[i].Value.Add(r.ValorEfetivo.Abs())
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Value.GreaterThan(out[j].Value)
	})
	return out
}

// StatusCount is the number of raw records carrying one status.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// StatusDistribution counts raw records per trimmed status, in first-seen
// order. A blank status is counted as EmptyLabel.
func (c *Classifier) StatusDistribution(raws []models.RawRecord) []StatusCount {
	var out []StatusCount
	index := make(map[string]int)
	for _, raw := range raws {
		st := c.Status(raw)
		if st == "" {
			st = EmptyLabel
		}
		i, ok := index[st]
		if !ok {
			i = len(out)
			index[st] = i
			out = append(out, StatusCount{Status: st})
		}
		out[i].Count++
	}
	return out
}

// Mismatches counts raw records whose type disagrees with their category.
type Mismatches struct {
	// RevenueCategoryNotRevenue is 1.* with a type lacking "receita".
	RevenueCategoryNotRevenue int `json:"cat1TipoNaoReceita"`
	// OutflowCategoryRevenue is 2.* with a type containing "receita".
	OutflowCategoryRevenue int `json:"cat2TipoReceita"`
}

// TypeCategoryMismatches compares the exact "Tipo" and "Categoria" columns
// of every raw record, status notwithstanding.
func TypeCategoryMismatches(raws []models.RawRecord, rules Rules) Mismatches {
	var m Mismatches
	for _, raw := range raws {
		catCell, _ := raw.Get("Categoria")
		tipoCell, _ := raw.Get("Tipo")
		cat := catCell.String()
		isRevenue := strings.Contains(fold(tipoCell.String()), "receita")

		if strings.HasPrefix(cat, rules.RevenueRoot) && !isRevenue {
			m.RevenueCategoryNotRevenue++
		}
		if strings.HasPrefix(cat, rules.OutflowRoot) && isRevenue {
			m.OutflowCategoryRevenue++
		}
	}
	return m
}

// RawSample is one raw record listed for manual reconciliation.
type RawSample struct {
	Row       int             `json:"row"`
	Categoria string          `json:"categoria"`
	Status    string          `json:"status"`
	Value     decimal.Decimal `json:"value"`
}

// SampleGroup lists the raw records of one category prefix.
type SampleGroup struct {
	Prefix string          `json:"prefix"`
	Rows   []RawSample     `json:"rows"`
	Total  decimal.Decimal `json:"total"`
}

// RawCategorySample lists raw records, whatever their status, whose
// category starts with prefix and whose effective date falls in month.
// Total is the sum of magnitudes.
func (c *Classifier) RawCategorySample(raws []models.RawRecord, prefix, month string) SampleGroup {
	group := SampleGroup{Prefix: prefix, Total: decimal.Zero}
	for _, raw := range raws {
		cat := c.Fields.Categoria.Lookup(raw).String()
		if !strings.HasPrefix(cat, prefix) {
			continue
		}
		date := c.Normalizer.ParseDate(c.Fields.Data.Lookup(raw))
		if c.Rules.MonthKey(date.Time) != month {
			continue
		}
		v := ParseCurrency(c.Fields.Valor.Lookup(raw)).Value
		group.Rows = append(group.Rows, RawSample{
			Row:       raw.Row,
			Categoria: cat,
			Status:    c.Status(raw),
			Value:     v,
		})
		group.Total = group.Total.Add(v.Abs())
	}
	return group
}
