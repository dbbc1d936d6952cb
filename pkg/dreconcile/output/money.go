package output

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// BRL formats an amount in pt-BR currency notation, e.g. "R$ 1.234,56".
// Amounts are rounded to the centavo.
func BRL(amount decimal.Decimal) string {
	cur := money.GetCurrency(money.BRL)
	factor, _ := decimal.NewFromInt(10).PowInt32(int32(cur.Fraction))
	minor := amount.Mul(factor).Round(0).IntPart()

	s := money.New(minor, money.BRL).Display()
	if strings.Contains(s, cur.Grapheme+" ") {
		return s
	}
	return strings.Replace(s, cur.Grapheme, cur.Grapheme+" ", 1)
}

// Percent formats a percentage with two decimals and a decimal comma.
func Percent(p decimal.Decimal) string {
	return strings.Replace(p.StringFixed(2), ".", ",", 1) + "%"
}
