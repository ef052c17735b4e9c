package engine

import (
	"strings"
	"testing"

	"finanmaster/internal/core"
)

func snapshotWith(txs []core.Transaction, goals []core.Goal) Snapshot {
	return Snapshot{Current: txs, All: txs, Goals: goals}
}

func TestDispatchEmptyDataShortCircuits(t *testing.T) {
	// Any intent, even a recognized one, yields the no-data prompt when the
	// analysis window is empty.
	for _, q := range []string{"qual meu saldo?", "maiores gastos", "oi"} {
		got := Dispatch(Classify(q), q, Snapshot{})
		if len(got.Actions) != 1 || got.Actions[0].Type != ActionPromptAddData {
			t.Fatalf("Dispatch(%q) actions = %+v, want single prompt_add_data", q, got.Actions)
		}
		if got.Confidence != confidenceNoData {
			t.Errorf("Dispatch(%q) confidence = %v, want %v", q, got.Confidence, confidenceNoData)
		}
		if got.Text == "" {
			t.Errorf("Dispatch(%q) returned empty text", q)
		}
	}
}

func TestDispatchBalance(t *testing.T) {
	day := core.NewDate(2024, 3, 10)
	snap := snapshotWith([]core.Transaction{
		tx(core.Income, "Salário", 100000, day),
		tx(core.Expense, "Alimentação", 30000, day),
	}, nil)

	got := Dispatch(IntentBalance, "qual meu saldo?", snap)
	if got.Confidence != confidenceTopical {
		t.Errorf("confidence = %v, want %v", got.Confidence, confidenceTopical)
	}
	if len(got.Actions) != 1 || got.Actions[0].Type != ActionShowBalance {
		t.Fatalf("actions = %+v, want single show_balance", got.Actions)
	}
	data, ok := got.Actions[0].Data.(BalanceData)
	if !ok {
		t.Fatalf("action data is %T, want BalanceData", got.Actions[0].Data)
	}
	if data.Balance != 700.0 || data.Income != 1000.0 || data.Expense != 300.0 {
		t.Errorf("balance data = %+v", data)
	}
	if !strings.Contains(got.Text, "R$ 700,00") {
		t.Errorf("text %q should mention the formatted balance", got.Text)
	}
}

func TestDispatchLargestCategoryDeterministic(t *testing.T) {
	day := core.NewDate(2024, 3, 10)
	snap := snapshotWith([]core.Transaction{
		tx(core.Expense, "Transporte", 20000, day),
		tx(core.Expense, "Alimentação", 50000, day),
		tx(core.Income, "Salário", 100000, day),
	}, nil)

	q := "quais são meus maiores gastos?"
	first := Dispatch(Classify(q), q, snap)

	if len(first.Actions) != 1 || first.Actions[0].Type != ActionShowCategoryAnalysis {
		t.Fatalf("actions = %+v, want single show_category_analysis", first.Actions)
	}
	data := first.Actions[0].Data.(CategoryAnalysisData)
	if data.Category != "Alimentação" {
		t.Errorf("largest category = %q, want Alimentação", data.Category)
	}
	if len(data.Ranking) != 2 || data.Ranking[0].Category != "Alimentação" || data.Ranking[1].Category != "Transporte" {
		t.Errorf("ranking = %+v, want Alimentação then Transporte", data.Ranking)
	}
	if data.Percent == nil || *data.Percent != 71.4 {
		t.Errorf("percent = %v, want 71.4", data.Percent)
	}

	// Same input, same answer, every time.
	for i := 0; i < 5; i++ {
		again := Dispatch(Classify(q), q, snap)
		d := again.Actions[0].Data.(CategoryAnalysisData)
		if d.Category != data.Category || len(d.Ranking) != len(data.Ranking) {
			t.Fatalf("run %d diverged: %+v vs %+v", i, d, data)
		}
		for j := range d.Ranking {
			if d.Ranking[j] != data.Ranking[j] {
				t.Fatalf("run %d ranking[%d] = %+v, want %+v", i, j, d.Ranking[j], data.Ranking[j])
			}
		}
	}
}

func TestDispatchSmallestCategory(t *testing.T) {
	day := core.NewDate(2024, 3, 10)
	snap := snapshotWith([]core.Transaction{
		tx(core.Expense, "Transporte", 20000, day),
		tx(core.Expense, "Lazer", 5000, day),
	}, nil)

	got := Dispatch(IntentCategories, "qual minha menor categoria de gastos?", snap)
	data := got.Actions[0].Data.(CategoryAnalysisData)
	if data.Category != "Lazer" {
		t.Errorf("smallest category = %q, want Lazer", data.Category)
	}
}

func TestDispatchCategoryListingRankedDescending(t *testing.T) {
	day := core.NewDate(2024, 3, 10)
	snap := snapshotWith([]core.Transaction{
		tx(core.Expense, "Transporte", 20000, day),
		tx(core.Expense, "Alimentação", 50000, day),
		tx(core.Expense, "Lazer", 5000, day),
	}, nil)

	got := Dispatch(IntentCategories, "gastos por categoria", snap)
	if got.Actions[0].Type != ActionShowAllCategories {
		t.Fatalf("action type = %q, want show_all_categories", got.Actions[0].Type)
	}
	ranked := got.Actions[0].Data.([]CategoryRank)
	if len(ranked) != 3 || ranked[0].Category != "Alimentação" || ranked[2].Category != "Lazer" {
		t.Errorf("ranking = %+v", ranked)
	}
}

func TestDispatchCategoriesWithoutExpenses(t *testing.T) {
	day := core.NewDate(2024, 3, 10)
	snap := snapshotWith([]core.Transaction{
		tx(core.Income, "Salário", 100000, day),
	}, nil)

	got := Dispatch(IntentCategories, "maiores gastos", snap)
	if len(got.Actions) != 1 || got.Actions[0].Type != ActionPromptAddData {
		t.Errorf("actions = %+v, want prompt_add_data", got.Actions)
	}
}

func TestDispatchGoals(t *testing.T) {
	day := core.NewDate(2024, 3, 10)
	txs := []core.Transaction{tx(core.Income, "Salário", 100000, day)}

	t.Run("no goals suggests creating them", func(t *testing.T) {
		got := Dispatch(IntentGoalsStatus, "minha meta", snapshotWith(txs, nil))
		if len(got.Actions) != 1 || got.Actions[0].Type != ActionSuggestGoals {
			t.Errorf("actions = %+v, want suggest_goals", got.Actions)
		}
	})

	t.Run("progress tiers and completion rate", func(t *testing.T) {
		goals := []core.Goal{
			{Title: "Viagem", Target: core.Money{Cents: 100000}, Current: core.Money{Cents: 100000}},
			{Title: "Reserva", Target: core.Money{Cents: 200000}, Current: core.Money{Cents: 50000}},
		}
		got := Dispatch(IntentGoalsStatus, "minha meta", snapshotWith(txs, goals))
		if got.Actions[0].Type != ActionShowGoals {
			t.Fatalf("action type = %q, want show_goals", got.Actions[0].Type)
		}
		data := got.Actions[0].Data.(GoalsData)
		if data.CompletionRate != 50.0 {
			t.Errorf("completion rate = %v, want 50.0", data.CompletionRate)
		}
		if !strings.Contains(got.Text, "CONCLUÍDA") {
			t.Errorf("text should flag the completed goal: %q", got.Text)
		}
	})
}

func TestDispatchSavings(t *testing.T) {
	day := core.NewDate(2024, 3, 10)

	t.Run("positive balance shows tips", func(t *testing.T) {
		snap := snapshotWith([]core.Transaction{
			tx(core.Income, "Salário", 100000, day),
			tx(core.Expense, "Alimentação", 70000, day),
		}, nil)
		got := Dispatch(IntentSavings, "quanto consigo economizar?", snap)
		if got.Actions[0].Type != ActionShowSavingsTips {
			t.Fatalf("action type = %q, want show_savings_tips", got.Actions[0].Type)
		}
		data := got.Actions[0].Data.(SavingsTipsData)
		if data.Savings != 300.0 || data.Rate != 30.0 {
			t.Errorf("savings data = %+v, want savings 300.0, rate 30.0", data)
		}
	})

	t.Run("deficit shows deficit analysis", func(t *testing.T) {
		snap := snapshotWith([]core.Transaction{
			tx(core.Income, "Salário", 50000, day),
			tx(core.Expense, "Alimentação", 70000, day),
		}, nil)
		got := Dispatch(IntentSavings, "como economizar?", snap)
		if got.Actions[0].Type != ActionShowDeficitAnalysis {
			t.Fatalf("action type = %q, want show_deficit_analysis", got.Actions[0].Type)
		}
		data := got.Actions[0].Data.(DeficitData)
		if data.Deficit != 200.0 {
			t.Errorf("deficit = %v, want 200.0", data.Deficit)
		}
	})
}

func TestDispatchNavigation(t *testing.T) {
	day := core.NewDate(2024, 3, 10)
	snap := snapshotWith([]core.Transaction{tx(core.Income, "Salário", 100000, day)}, nil)

	tests := []struct {
		intent    Intent
		section   string
		openModal bool
	}{
		{IntentOpenTransactions, "transactions", true},
		{IntentOpenBudget, "budget", false},
		{IntentOpenGoals, "goals", false},
		{IntentOpenReports, "reports", false},
		{IntentOpenDashboard, "dashboard", false},
	}
	for _, tt := range tests {
		got := Dispatch(tt.intent, "", snap)
		if got.Confidence != confidenceNavigation {
			t.Errorf("%s confidence = %v, want %v", tt.intent, got.Confidence, confidenceNavigation)
		}
		data, ok := got.Actions[0].Data.(NavigateData)
		if !ok || data.Section != tt.section || data.OpenModal != tt.openModal {
			t.Errorf("%s navigate data = %+v, want section %q modal %v", tt.intent, got.Actions[0].Data, tt.section, tt.openModal)
		}
	}
}

func TestDispatchConversationalReport(t *testing.T) {
	day := core.NewDate(2024, 3, 10)
	snap := Snapshot{
		Current: []core.Transaction{tx(core.Income, "Salário", 100000, day)},
		All: []core.Transaction{
			tx(core.Income, "Salário", 100000, day),
			tx(core.Expense, "Alimentação", 30000, core.NewDate(2024, 1, 5)),
		},
		Conversational: true,
	}

	got := Dispatch(IntentOpenReports, "gere um relatório completo", snap)
	if len(got.Actions) != 0 {
		t.Errorf("chat report should carry no actions, got %+v", got.Actions)
	}
	for _, want := range []string{"Relatório Financeiro Completo", "R$ 1.000,00", "Alimentação"} {
		if !strings.Contains(got.Text, want) {
			t.Errorf("report text missing %q", want)
		}
	}
}

func TestDispatchGreetingAndDefault(t *testing.T) {
	day := core.NewDate(2024, 3, 10)
	snap := snapshotWith([]core.Transaction{tx(core.Income, "Salário", 100000, day)}, nil)

	greet := Dispatch(IntentGreeting, "oi", snap)
	if greet.Confidence != confidenceGreeting || len(greet.Actions) != 0 {
		t.Errorf("greeting = %+v", greet)
	}

	def := Dispatch(IntentDefault, "qual a previsão do tempo?", snap)
	if def.Confidence != confidenceDefault || len(def.Actions) != 0 {
		t.Errorf("default = %+v", def)
	}
}
