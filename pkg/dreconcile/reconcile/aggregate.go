package reconcile

import (
	"github.com/shopspring/decimal"

	"github.com/ukaji3/dreconcile-go/pkg/dreconcile/models"
)

// MonthlyBucket holds the accumulators of one month under both methods.
type MonthlyBucket struct {
	Month         string          `json:"month"`
	Receita       decimal.Decimal `json:"receita"`
	CustosAbs     decimal.Decimal `json:"custosAbs"`
	DespesasAbs   decimal.Decimal `json:"despesasAbs"`
	CustosSinal   decimal.Decimal `json:"custosSinal"`
	DespesasSinal decimal.Decimal `json:"despesasSinal"`
	// Outros is the signed sum of out-of-scope categories.
	Outros decimal.Decimal `json:"outros"`
}

func newBucket(month string) MonthlyBucket {
	return MonthlyBucket{
		Month:         month,
		Receita:       decimal.Zero,
		CustosAbs:     decimal.Zero,
		DespesasAbs:   decimal.Zero,
		CustosSinal:   decimal.Zero,
		DespesasSinal: decimal.Zero,
		Outros:        decimal.Zero,
	}
}

// ProfitAbs is receita - |custos| - |despesas|.
func (b MonthlyBucket) ProfitAbs() decimal.Decimal {
	return b.Receita.Sub(b.CustosAbs).Sub(b.DespesasAbs)
}

// ProfitSigned is receita + custos + despesas with their original signs.
func (b MonthlyBucket) ProfitSigned() decimal.Decimal {
	return b.Receita.Add(b.CustosSinal).Add(b.DespesasSinal)
}

// Divergence is ProfitAbs - ProfitSigned. It is zero when every cost and
// expense entry of the month is negative.
func (b MonthlyBucket) Divergence() decimal.Decimal {
	return b.ProfitAbs().Sub(b.ProfitSigned())
}

// Monthly is the fixed set of month buckets in calendar order.
type Monthly struct {
	Buckets []MonthlyBucket `json:"buckets"`
	index   map[string]int
}

func newMonthly(months []string) *Monthly {
	m := &Monthly{
		Buckets: make([]MonthlyBucket, len(months)),
		index:   make(map[string]int, len(months)),
	}
	for i, month := range months {
		m.Buckets[i] = newBucket(month)
		m.index[month] = i
	}
	return m
}

// Bucket returns the bucket of a month code.
func (m *Monthly) Bucket(month string) (MonthlyBucket, bool) {
	i, ok := m.index[month]
	if !ok {
		return MonthlyBucket{}, false
	}
	return m.Buckets[i], true
}

// Aggregate buckets records by the month of their effective date.
// Revenue always adds its magnitude; costs and expenses feed both the
// absolute and the signed accumulators.
func Aggregate(records []models.FinancialRecord, rules Rules) *Monthly {
	m := newMonthly(rules.Months)
	for _, r := range records {
		i, ok := m.index[rules.MonthKey(r.DataEfetiva)]
		if !ok {
			continue
		}
		b := &m.Buckets[i]
		v := r.ValorEfetivo
		switch rules.Classify(r.Categoria) {
		case CategoryRevenue:
			b.Receita = b.Receita.Add(v.Abs())
		case CategoryCost:
			b.CustosAbs = b.CustosAbs.Add(v.Abs())
			b.CustosSinal = b.CustosSinal.Add(v)
		case CategoryExpense:
			b.DespesasAbs = b.DespesasAbs.Add(v.Abs())
			b.DespesasSinal = b.DespesasSinal.Add(v)
		default:
			b.Outros = b.Outros.Add(v)
		}
	}
	return m
}

// CreationBucket holds signed accumulators keyed by creation month.
type CreationBucket struct {
	Month         string          `json:"month"`
	Receita       decimal.Decimal `json:"receita"`
	CustosSinal   decimal.Decimal `json:"custosSinal"`
	DespesasSinal decimal.Decimal `json:"despesasSinal"`
}

// Result is receita + custos + despesas with their original signs.
func (b CreationBucket) Result() decimal.Decimal {
	return b.Receita.Add(b.CustosSinal).Add(b.DespesasSinal)
}

// AggregateByCreation buckets records by creation date, falling back to
// the effective date for records without one.
func AggregateByCreation(records []models.FinancialRecord, rules Rules) []CreationBucket {
	buckets := make([]CreationBucket, len(rules.Months))
	for i, month := range rules.Months {
		buckets[i] = CreationBucket{
			Month:         month,
			Receita:       decimal.Zero,
			CustosSinal:   decimal.Zero,
			DespesasSinal: decimal.Zero,
		}
	}

	for _, r := range records {
		when := r.DataEfetiva
		if r.DataCriacao != nil {
			when = *r.DataCriacao
		}
		i := rules.MonthIndex(rules.MonthKey(when))
		if i < 0 {
			continue
		}
		b := &buckets[i]
		v := r.ValorEfetivo
		switch rules.Classify(r.Categoria) {
		case CategoryRevenue:
			b.Receita = b.Receita.Add(v.Abs())
		case CategoryCost:
			b.CustosSinal = b.CustosSinal.Add(v)
		case CategoryExpense:
			b.DespesasSinal = b.DespesasSinal.Add(v)
		}
	}
	return buckets
}
