package reconcile

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/dreconcile-go/pkg/dreconcile/models"
)

func TestAggregateBucketSet(t *testing.T) {
	m := Aggregate(nil, DefaultRules())
	require.Len(t, m.Buckets, 12)
	for i, month := range DefaultMonths {
		assert.Equal(t, month, m.Buckets[i].Month)
		assert.True(t, m.Buckets[i].Divergence().IsZero())
	}
	_, ok := m.Bucket("july")
	assert.False(t, ok)
}

func TestAggregateMutualExclusivity(t *testing.T) {
	rules := DefaultRules()
	tests := []struct {
		categoria string
		field     func(MonthlyBucket) decimal.Decimal
	}{
		{"1.1.1", func(b MonthlyBucket) decimal.Decimal { return b.Receita }},
		{"2.1.4", func(b MonthlyBucket) decimal.Decimal { return b.CustosSinal }},
		{"2.2.9", func(b MonthlyBucket) decimal.Decimal { return b.DespesasSinal }},
		{"2.3.1", func(b MonthlyBucket) decimal.Decimal { return b.DespesasSinal }},
		{"2.4.1", func(b MonthlyBucket) decimal.Decimal { return b.Outros }},
		{"", func(b MonthlyBucket) decimal.Decimal { return b.Outros }},
	}

	for _, tt := range tests {
		m := Aggregate([]models.FinancialRecord{entry(tt.categoria, "-10", time.March)}, rules)
		b, ok := m.Bucket("mar")
		require.True(t, ok)

		nonZero := 0
		for _, v := range []decimal.Decimal{b.Receita, b.CustosSinal, b.DespesasSinal, b.Outros} {
			if !v.IsZero() {
				nonZero++
			}
		}
		assert.Equal(t, 1, nonZero, "categoria %q fed %d buckets", tt.categoria, nonZero)
		assert.False(t, tt.field(b).IsZero(), "categoria %q landed in the wrong bucket", tt.categoria)
	}
}

func TestAggregateDivergence(t *testing.T) {
	rules := DefaultRules()
	records := []models.FinancialRecord{
		entry("1.1.1", "1000", time.May),
		entry("2.1.1", "-200", time.May),
		entry("2.2.1", "-100", time.May),
		entry("2.3.5", "-50", time.May),
	}

	may, _ := Aggregate(records, rules).Bucket("mai")
	assertDecimal(t, "650", may.ProfitAbs())
	assertDecimal(t, "650", may.ProfitSigned())
	assert.True(t, may.Divergence().IsZero())

	records = append(records, entry("2.3.20", "80", time.May))
	may, _ = Aggregate(records, rules).Bucket("mai")
	assertDecimal(t, "570", may.ProfitAbs())
	assertDecimal(t, "730", may.ProfitSigned())
	assertDecimal(t, "-160", may.Divergence())
	assertDecimal(t, "160", may.Divergence().Abs())
}

func TestAggregateRevenueUsesMagnitude(t *testing.T) {
	m := Aggregate([]models.FinancialRecord{entry("1.2.4", "-300", time.January)}, DefaultRules())
	jan, _ := m.Bucket("jan")
	assertDecimal(t, "300", jan.Receita)
}

func TestAggregateByCreation(t *testing.T) {
	rules := DefaultRules()
	created := time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC)

	withCreation := entry("2.1.1", "-40", time.July)
	withCreation.DataCriacao = &created
	records := []models.FinancialRecord{
		withCreation,
		entry("1.1.1", "100", time.July),
		entry("2.4.1", "-5", time.July),
	}

	buckets := AggregateByCreation(records, rules)
	require.Len(t, buckets, 12)
	assertDecimal(t, "-40", buckets[5].CustosSinal)
	assertDecimal(t, "100", buckets[6].Receita)
	assertDecimal(t, "100", buckets[6].Result())
	assertDecimal(t, "-40", buckets[5].Result())
}

func TestAggregateShortMonthList(t *testing.T) {
	rules := DefaultRules()
	rules.Months = rules.Months[:6]
	records := []models.FinancialRecord{
		entry("1.1.1", "100", time.March),
		entry("2.1.1", "-40", time.December),
	}

	m := Aggregate(records, rules)
	require.Len(t, m.Buckets, 6)
	mar, _ := m.Bucket("mar")
	assertDecimal(t, "100", mar.Receita)

	byCreation := AggregateByCreation(records, rules)
	require.Len(t, byCreation, 6)
	assertDecimal(t, "100", byCreation[2].Result())

	assert.Equal(t, "", rules.MonthKey(time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC)))
}
