package reconcile

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/maruel/natural"
	"github.com/shopspring/decimal"

	"github.com/ukaji3/dreconcile-go/pkg/dreconcile/models"
)

// DRESummary is the income statement of a record set.
type DRESummary struct {
	ReceitaBruta  decimal.Decimal `json:"receitaBruta"`
	Custos        decimal.Decimal `json:"custos"`
	LucroBruto    decimal.Decimal `json:"lucroBruto"`
	Despesas      decimal.Decimal `json:"despesas"`
	LucroLiquido  decimal.Decimal `json:"lucroLiquido"`
	MargemLiquida decimal.Decimal `json:"margemLiquida"`
	SaidasTotais  decimal.Decimal `json:"saidasTotais"`
}

var hundred = decimal.NewFromInt(100)

// Summarize builds the income statement using magnitudes for every line.
// SaidasTotais is the magnitude of the signed outflow (2.*) sum, and the
// net margin is a percentage of gross revenue, zero without revenue.
func Summarize(records []models.FinancialRecord, rules Rules) DRESummary {
	s := DRESummary{
		ReceitaBruta: decimal.Zero,
		Custos:       decimal.Zero,
		Despesas:     decimal.Zero,
	}
	outflow := decimal.Zero

	for _, r := range records {
		switch rules.Classify(r.Categoria) {
		case CategoryRevenue:
			s.ReceitaBruta = s.ReceitaBruta.Add(r.ValorEfetivo.Abs())
		case CategoryCost:
			s.Custos = s.Custos.Add(r.ValorEfetivo.Abs())
		case CategoryExpense:
			s.Despesas = s.Despesas.Add(r.ValorEfetivo.Abs())
		}
		if strings.HasPrefix(r.Categoria, rules.OutflowRoot) {
			outflow = outflow.Add(r.ValorEfetivo)
		}
	}

	s.LucroBruto = s.ReceitaBruta.Sub(s.Custos)
	s.LucroLiquido = s.LucroBruto.Sub(s.Despesas)
	s.MargemLiquida = margin(s.LucroLiquido, s.ReceitaBruta)
	s.SaidasTotais = outflow.Abs()
	return s
}

// Pivot row groups.
const (
	GroupDespesa      = "Despesa"
	GroupReceita      = "Receita"
	GroupTotal        = "Total"
	GroupCusto        = "Custo"
	GroupLucroBruto   = "LucroBruto"
	GroupLucroLiquido = "LucroLiquido"
	// GroupMargem rows hold percentages, not amounts.
	GroupMargem = "MargemLiquida"
)

// PivotRow is one line of the monthly category pivot.
type PivotRow struct {
	Name   string          `json:"name"`
	Group  string          `json:"group"`
	Months MonthSeries     `json:"months"`
	Total  decimal.Decimal `json:"total"`
}

func newPivotRow(name, group string, months []string) *PivotRow {
	return &PivotRow{Name: name, Group: group, Months: newSeries(months), Total: decimal.Zero}
}

func (p *PivotRow) add(month string, v decimal.Decimal) {
	p.Months.add(month, v)
	p.Total = p.Total.Add(v)
}

// MonthlyByCategory pivots records into one row per category and month.
// Revenue (1.*) counts positive and outflows (2.*) negative, both by
// magnitude. Rows come in this order: the outflow total, outflow
// categories, the revenue total, revenue categories, the grand total.
// Categories are sorted by natural code order.
func MonthlyByCategory(records []models.FinancialRecord, rules Rules) []PivotRow {
	totalDespesa := newPivotRow(GroupDespesa, GroupDespesa, rules.Months)
	totalReceita := newPivotRow(GroupReceita, GroupReceita, rules.Months)
	byCategory := make(map[string]*PivotRow)
	var order []*PivotRow

	ensure := func(cat, group string) *PivotRow {
		row, ok := byCategory[cat]
		if !ok {
			row = newPivotRow(cat, group, rules.Months)
			byCategory[cat] = row
			order = append(order, row)
		}
		return row
	}

	for _, r := range records {
		cat := strings.TrimSpace(r.Categoria)
		if cat == "" || r.ValorEfetivo.IsZero() {
			continue
		}
		month := rules.MonthKey(r.DataEfetiva)
		abs := r.ValorEfetivo.Abs()

		switch {
		case strings.HasPrefix(cat, rules.RevenueRoot):
			ensure(cat, GroupReceita).add(month, abs)
			totalReceita.add(month, abs)
		case strings.HasPrefix(cat, rules.OutflowRoot):
			ensure(cat, GroupDespesa).add(month, abs.Neg())
			totalDespesa.add(month, abs.Neg())
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return natural.Less(order[i].Name, order[j].Name)
	})

	totalGeral := newPivotRow("Total Geral", GroupTotal, rules.Months)
	for i, m := range rules.Months {
		totalGeral.add(m, totalReceita.Months[i].Value.Add(totalDespesa.Months[i].Value))
	}

	rows := []PivotRow{*totalDespesa}
	for _, row := range order {
		if row.Group == GroupDespesa {
			rows = append(rows, *row)
		}
	}
	rows = append(rows, *totalReceita)
	for _, row := range order {
		if row.Group == GroupReceita {
			rows = append(rows, *row)
		}
	}
	return append(rows, *totalGeral)
}

// MonthlyDRE is the income statement per month: gross revenue, costs,
// gross profit, expenses, net profit and net margin. Costs and expenses
// are shown negative. The margin of a month without revenue is zero, and
// the total margin is taken over the yearly totals.
func MonthlyDRE(records []models.FinancialRecord, rules Rules) []PivotRow {
	receita := newPivotRow("Receita Bruta", GroupReceita, rules.Months)
	custos := newPivotRow("(-) Custos das Vendas", GroupCusto, rules.Months)
	bruto := newPivotRow("(=) Lucro Bruto", GroupLucroBruto, rules.Months)
	despesas := newPivotRow("(-) Despesas Administrativas", GroupDespesa, rules.Months)
	liquido := newPivotRow("(=) Lucro Líquido", GroupLucroLiquido, rules.Months)
	margem := newPivotRow("Margem Líquida (%)", GroupMargem, rules.Months)

	for _, b := range Aggregate(records, rules).Buckets {
		lucroBruto := b.Receita.Sub(b.CustosAbs)
		lucroLiquido := lucroBruto.Sub(b.DespesasAbs)

		receita.add(b.Month, b.Receita)
		custos.add(b.Month, b.CustosAbs.Neg())
		bruto.add(b.Month, lucroBruto)
		despesas.add(b.Month, b.DespesasAbs.Neg())
		liquido.add(b.Month, lucroLiquido)
		margem.Months.add(b.Month, margin(lucroLiquido, b.Receita))
	}
	margem.Total = margin(liquido.Total, receita.Total)

	return []PivotRow{*receita, *custos, *bruto, *despesas, *liquido, *margem}
}

func margin(profit, revenue decimal.Decimal) decimal.Decimal {
	if !revenue.IsPositive() {
		return decimal.Zero
	}
	return profit.Div(revenue).Mul(hundred)
}

// PeriodKind is the granularity of a period filter.
type PeriodKind string

const (
	PeriodMonthly   PeriodKind = "monthly"
	PeriodQuarterly PeriodKind = "quarterly"
	PeriodAnnual    PeriodKind = "annual"
)

// PeriodKey formats t as the key of a period kind: "2024-07", "2024-Q3"
// or "2024".
func PeriodKey(t time.Time, kind PeriodKind) string {
	switch kind {
	case PeriodMonthly:
		return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
	case PeriodQuarterly:
		return fmt.Sprintf("%04d-Q%d", t.Year(), (int(t.Month())+2)/3)
	case PeriodAnnual:
		return fmt.Sprintf("%04d", t.Year())
	}
	return ""
}

// FilterByPeriod keeps records whose effective date falls in period.
// An empty period or "all" returns records unchanged; an unknown kind
// keeps everything.
func FilterByPeriod(records []models.FinancialRecord, period string, kind PeriodKind) []models.FinancialRecord {
	if period == "" || period == "all" {
		return records
	}
	switch kind {
	case PeriodMonthly, PeriodQuarterly, PeriodAnnual:
	default:
		return records
	}

	var out []models.FinancialRecord
	for _, r := range records {
		if PeriodKey(r.DataEfetiva, kind) == period {
			out = append(out, r)
		}
	}
	return out
}
