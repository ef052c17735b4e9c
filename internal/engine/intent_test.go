package engine

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  Intent
	}{
		{"balance", "qual é meu saldo?", IntentBalance},
		{"balance uppercase", "SALDO", IntentBalance},
		{"situation phrasing", "como está minha situação financeira?", IntentBalance},
		{"largest expenses", "quais são meus maiores gastos?", IntentCategories},
		{"categories", "gastos por categoria", IntentCategories},
		{"bare metas is navigation", "como estão minhas metas?", IntentOpenGoals},
		{"goal singular", "qual o progresso da meta de viagem?", IntentGoalsStatus},
		{"savings", "como posso economizar mais?", IntentHelp}, // "posso" matches help first
		{"savings direct", "quanto consigo economizar por mês?", IntentSavings},
		{"greeting", "bom dia!", IntentGreeting},
		{"help", "ajuda", IntentHelp},
		{"open transactions", "nova transação", IntentOpenTransactions},
		{"open budget", "abrir orçamento", IntentOpenBudget},
		{"open goals", "ver metas", IntentOpenGoals},
		{"reports", "gere um relatório completo", IntentOpenReports},
		{"dashboard", "voltar ao dashboard", IntentOpenDashboard},
		{"empty", "", IntentDefault},
		{"whitespace only", "   ", IntentDefault},
		{"unrecognized", "qual a previsão do tempo?", IntentDefault},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.query); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}

// A query containing both a navigation keyword and a topical keyword must
// resolve to the navigation intent: rules are checked in table order.
func TestClassifyNavigationBeatsTopical(t *testing.T) {
	if got := Classify("abrir relatório de gastos"); got != IntentOpenReports {
		t.Errorf("Classify = %q, want %q", got, IntentOpenReports)
	}
	if got := Classify("nova transação de despesa"); got != IntentOpenTransactions {
		t.Errorf("Classify = %q, want %q", got, IntentOpenTransactions)
	}
}

// Ambiguity resolves to the FIRST matching rule, deterministically.
func TestClassifyFirstRuleWins(t *testing.T) {
	// "orçamento" (budget) appears before "meta" (goals) in the table.
	if got := Classify("orçamento e metas"); got != IntentOpenBudget {
		t.Errorf("Classify = %q, want %q", got, IntentOpenBudget)
	}
	for i := 0; i < 5; i++ {
		if got := Classify("orçamento e metas"); got != IntentOpenBudget {
			t.Fatalf("classification is not deterministic: got %q on run %d", got, i)
		}
	}
}
