package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ukaji3/dreconcile-go/pkg/dreconcile/reconcile"
)

// WriteReport renders a reconciliation report as semicolon-separated
// text tables.
func WriteReport(w io.Writer, rep *reconcile.Report) error {
	bw := bufio.NewWriter(w)
	p := func(format string, args ...any) {
		fmt.Fprintf(bw, format+"\n", args...)
	}

	p("Registros totais na aba: %d", rep.TotalRecords)
	var dist []string
	for _, s := range rep.StatusDistribution {
		dist = append(dist, fmt.Sprintf("%s=%d", s.Status, s.Count))
	}
	p("Distribuição de Status (antes do filtro): %s", strings.Join(dist, ", "))
	p("Registros usados (Status conciliado, valor != 0): %d", rep.ReconciledCount)
	p("Registros usados SEM filtro de status (valor != 0): %d", rep.AllStatusCount)
	p("Inconsistências Tipo x Categoria: cat1_tipo_nao_receita=%d cat2_tipo_receita=%d",
		rep.Mismatches.RevenueCategoryNotRevenue, rep.Mismatches.OutflowCategoryRevenue)

	p("\nResumo por mês (ABS vs SINAL):")
	p("MÊS; Receita; Custos(ABS); Despesas(ABS); Lucro(ABS); Custos(sinal); Despesas(sinal); Lucro(sinal); Diferença")
	for _, b := range rep.Monthly.Buckets {
		p("%s", strings.Join([]string{
			strings.ToUpper(b.Month),
			BRL(b.Receita),
			BRL(b.CustosAbs.Neg()),
			BRL(b.DespesasAbs.Neg()),
			BRL(b.ProfitAbs()),
			BRL(b.CustosSinal.Neg()),
			BRL(b.DespesasSinal.Neg()),
			BRL(b.ProfitSigned()),
			BRL(b.Divergence()),
		}, "; "))
	}

	p("\nCategorias 2.x com valores POSITIVOS (podem causar divergência):")
	for _, t := range rep.PositiveOutflows {
		p("%s: positivos=%s | negativos=%s", t.Categoria, BRL(t.Positive), BRL(t.Negative))
	}

	p("\nSoma (com sinal) de categorias potencialmente não operacionais: %s", BRL(rep.WatchListSum))

	writeSeries(p, "\nMovimentações entre contas - saldo por mês (com sinal):", rep.Transfers)
	writeSeries(p, "\nReembolsos/Devoluções/Cashback/Estornos - saldo por mês:", rep.Reimbursements)
	writeSeries(p, "\nCategorias FORA do escopo - saldo por mês:", rep.OutOfScope)
	if len(rep.OutOfScopeTop) > 0 {
		p("\nTop categorias fora do escopo:")
		for _, c := range rep.OutOfScopeTop {
			p("%s: %s", c.Categoria, BRL(c.Value))
		}
	}

	p("\nComparativo usando DATA DE CRIAÇÃO (receita + custos + despesas com sinal):")
	p("MÊS; Receita; Custos(sinal); Despesas(sinal); Resultado")
	for _, b := range rep.ByCreation {
		p("%s", strings.Join([]string{
			strings.ToUpper(b.Month),
			BRL(b.Receita),
			BRL(b.CustosSinal.Neg()),
			BRL(b.DespesasSinal.Neg()),
			BRL(b.Result()),
		}, "; "))
	}

	p("\nResultado mensal SEM filtro de Status (data efetiva):")
	p("MÊS; Receita; Custos(sinal); Despesas(sinal); Resultado")
	for _, b := range rep.AllStatusMonthly.Buckets {
		p("%s", strings.Join([]string{
			strings.ToUpper(b.Month),
			BRL(b.Receita),
			BRL(b.CustosSinal.Neg()),
			BRL(b.DespesasSinal.Neg()),
			BRL(b.ProfitSigned()),
		}, "; "))
	}

	if rep.FocusMonth != "" {
		month := strings.ToUpper(rep.FocusMonth)
		p("\nReceita de %s por subgrupo:", month)
		for _, g := range rep.FocusSubgroups {
			p("%s.x: %s", g.Categoria, BRL(g.Value))
		}

		for _, s := range rep.FocusSamples {
			p("\nAmostra %s - %s (categoria, status, valor):", month, s.Prefix)
			if len(s.Rows) == 0 {
				p("(nenhum registro encontrado na planilha para %s em %s)", s.Prefix, month)
				continue
			}
			for _, r := range s.Rows {
				status := r.Status
				if status == "" {
					status = "(sem status)"
				}
				p("%s %s %s", r.Categoria, status, BRL(r.Value))
			}
			p("Total %s (abs) %s: %s - linhas: %d", s.Prefix, month, BRL(s.Total), len(s.Rows))
		}

		p("\nRECEITAS %s por categoria:", month)
		for _, c := range rep.FocusRevenue {
			p("%s: %s", c.Categoria, BRL(c.Value))
		}
	}

	s := rep.Summary
	p("\nDRE:")
	p("Receita Bruta; %s", BRL(s.ReceitaBruta))
	p("Custos; %s", BRL(s.Custos))
	p("Lucro Bruto; %s", BRL(s.LucroBruto))
	p("Despesas; %s", BRL(s.Despesas))
	p("Lucro Líquido; %s", BRL(s.LucroLiquido))
	p("Margem Líquida; %s", Percent(s.MargemLiquida))
	p("Saídas Totais; %s", BRL(s.SaidasTotais))

	return bw.Flush()
}

func writeSeries(p func(string, ...any), title string, series reconcile.MonthSeries) {
	p("%s", title)
	for _, mv := range series {
		p("%s: %s", strings.ToUpper(mv.Month), BRL(mv.Value))
	}
}

// WritePivot renders a monthly pivot, one row per line. Margin rows are
// shown as percentages.
func WritePivot(w io.Writer, rows []reconcile.PivotRow) error {
	bw := bufio.NewWriter(w)
	if len(rows) > 0 {
		header := []string{"Categoria"}
		for _, mv := range rows[0].Months {
			header = append(header, strings.ToUpper(mv.Month))
		}
		header = append(header, "Total")
		fmt.Fprintln(bw, strings.Join(header, "; "))
	}
	for _, r := range rows {
		format := BRL
		if r.Group == reconcile.GroupMargem {
			format = Percent
		}
		cols := []string{r.Name}
		for _, mv := range r.Months {
			cols = append(cols, format(mv.Value))
		}
		cols = append(cols, format(r.Total))
		fmt.Fprintln(bw, strings.Join(cols, "; "))
	}
	return bw.Flush()
}
