package engine

import (
	"fmt"

	"finanmaster/internal/core"
)

// Report is the output of a generated report request: the aggregates plus
// the human-readable findings derived from them.
type Report struct {
	Range           DateRange       `json:"-"`
	Totals          Totals          `json:"-"`
	Categories      []CategoryTotal `json:"-"`
	Insights        []string        `json:"insights"`
	Recommendations []string        `json:"recommendations"`
}

// Insights derives observations from the aggregated numbers. Each finding is
// a standalone sentence; the order goes from headline to detail.
func Insights(totals Totals, categories []CategoryTotal) []string {
	var out []string

	if totals.BalanceCents > 0 {
		rate := SavingsRate(totals.BalanceCents, totals.IncomeCents)
		if rate != nil {
			out = append(out, fmt.Sprintf("💰 Você economizou %s no período (%.1f%% das receitas).",
				core.FormatMoney(totals.BalanceCents, core.BRL), *rate))
		} else {
			out = append(out, fmt.Sprintf("💰 Você economizou %s no período.",
				core.FormatMoney(totals.BalanceCents, core.BRL)))
		}
	} else if totals.BalanceCents < 0 {
		out = append(out, fmt.Sprintf("⚠️ Suas despesas superaram as receitas em %s no período.",
			core.FormatMoney(-totals.BalanceCents, core.BRL)))
	}

	if len(categories) > 0 {
		best, ok := LargestCategory(categories)
		if ok {
			pct := Ratio(best.TotalCents, SumCategories(categories))
			if pct != nil {
				out = append(out, fmt.Sprintf("📊 Sua maior categoria de gastos foi %s com %s (%.1f%% do total).",
					best.Category, core.FormatMoney(best.TotalCents, core.BRL), *pct))
			}
		}
	}

	if totals.IncomeCents == 0 && totals.ExpenseCents > 0 {
		out = append(out, "📉 Nenhuma receita registrada no período — apenas despesas.")
	}

	if len(out) == 0 {
		out = append(out, "📝 Dados insuficientes para gerar insights neste período.")
	}
	return out
}

// Recommendations suggests next steps based on the same aggregates.
func Recommendations(totals Totals, categories []CategoryTotal) []string {
	var out []string

	rate := SavingsRate(totals.BalanceCents, totals.IncomeCents)
	switch {
	case totals.BalanceCents < 0:
		out = append(out, "🚨 Priorize equilibrar o orçamento: corte gastos não essenciais até receitas e despesas se igualarem.")
	case rate != nil && *rate < 10:
		out = append(out, "🎯 Tente elevar sua taxa de economia para pelo menos 10% das receitas.")
	case rate != nil && *rate >= 20:
		out = append(out, "📈 Com essa taxa de economia, considere investir parte do excedente.")
	}

	if best, ok := LargestCategory(categories); ok {
		pct := Ratio(best.TotalCents, SumCategories(categories))
		if pct != nil && *pct > 40 {
			out = append(out, fmt.Sprintf("🔍 Revise os gastos em %s — a categoria concentra %.1f%% das despesas.", best.Category, *pct))
		}
	}

	if len(out) == 0 {
		out = append(out, "✅ Continue acompanhando suas finanças regularmente para manter o controle.")
	}
	return out
}
