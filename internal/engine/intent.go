package engine

import "strings"

// Intent is the single classified purpose of a free-text query.
type Intent string

const (
	IntentHelp             Intent = "help"
	IntentOpenTransactions Intent = "open_transactions"
	IntentOpenBudget       Intent = "open_budget"
	IntentOpenGoals        Intent = "open_goals"
	IntentOpenReports      Intent = "open_reports"
	IntentOpenDashboard    Intent = "open_dashboard"
	IntentBalance          Intent = "balance"
	IntentCategories       Intent = "categories"
	IntentGoalsStatus      Intent = "goals_status"
	IntentSavings          Intent = "savings"
	IntentGreeting         Intent = "greeting"
	IntentDefault          Intent = "default"
)

type intentRule struct {
	intent   Intent
	keywords []string
}

// intentRules is evaluated top to bottom; the first rule whose keyword set
// intersects the query wins. The order is part of the observable contract:
// help overrides everything, navigational commands beat topical questions,
// so "abrir transações de despesas" opens the form instead of listing
// expenses. Matching is substring-based, so a keyword may hit inside a
// longer word (accent-free variants are listed explicitly).
var intentRules = []intentRule{
	{IntentHelp, []string{"ajuda", "help", "o que", "posso"}},
	{IntentOpenTransactions, []string{"abrir transa", "nova transa", "lançament", "lancament", "open transaction"}},
	{IntentOpenBudget, []string{"abrir orçamento", "abrir orcamento", "ver orçamento", "ver orcamento", "orçamento", "orcamento"}},
	{IntentOpenGoals, []string{"abrir metas", "abrir meta", "ver metas", "ver meta", "metas"}},
	{IntentOpenReports, []string{"relatório", "relatorio", "report", "análise completa", "analise completa"}},
	{IntentOpenDashboard, []string{"dashboard", "início", "inicio", "home"}},
	{IntentBalance, []string{"saldo", "balanço", "balanco", "situação", "situacao", "como está", "como esta", "como vai"}},
	{IntentCategories, []string{"categoria", "gastos", "despesa", "expense"}},
	{IntentGoalsStatus, []string{"meta", "objetivo"}},
	{IntentSavings, []string{"economia", "poupança", "poupanca", "economizar"}},
	{IntentGreeting, []string{"oi", "olá", "ola", "bom dia", "boa tarde", "boa noite", "hello"}},
}

// Classify maps a free-text query to exactly one intent. Queries matching no
// rule resolve to IntentDefault; that is a normal outcome, not an error.
func Classify(query string) Intent {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return IntentDefault
	}
	for _, rule := range intentRules {
		for _, kw := range rule.keywords {
			if strings.Contains(q, kw) {
				return rule.intent
			}
		}
	}
	return IntentDefault
}

// Category sub-modifiers, checked inside the categories handler only.
var (
	largestWords  = []string{"maior", "mais", "alto", "grande"}
	smallestWords = []string{"menor", "menos", "pequeno"}
)

func containsAny(q string, words []string) bool {
	for _, w := range words {
		if strings.Contains(q, w) {
			return true
		}
	}
	return false
}
