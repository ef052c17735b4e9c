package engine

import (
	"fmt"
	"strings"

	"finanmaster/internal/core"
)

// ActionType tags a structured instruction for the UI layer. The engine only
// emits these descriptors; it never executes navigation itself.
type ActionType string

const (
	ActionNavigate             ActionType = "navigate_to_section"
	ActionPromptAddData        ActionType = "prompt_add_data"
	ActionShowBalance          ActionType = "show_balance"
	ActionShowCategoryAnalysis ActionType = "show_category_analysis"
	ActionShowAllCategories    ActionType = "show_all_categories"
	ActionShowGoals            ActionType = "show_goals"
	ActionSuggestGoals         ActionType = "suggest_goals"
	ActionShowSavingsTips      ActionType = "show_savings_tips"
	ActionShowDeficitAnalysis  ActionType = "show_deficit_analysis"
)

// Action is a tagged variant: Type selects the payload shape carried in Data.
type Action struct {
	Type ActionType `json:"type"`
	Data any        `json:"data"`
}

// Action payloads. JSON field names are the UI contract and stay in
// Portuguese where the frontend expects them.
type (
	NavigateData struct {
		Section   string `json:"section"`
		OpenModal bool   `json:"openModal"`
	}

	EmptyData struct{}

	BalanceData struct {
		Balance float64 `json:"saldo"`
		Income  float64 `json:"receitas"`
		Expense float64 `json:"despesas"`
	}

	CategoryRank struct {
		Category string  `json:"categoria"`
		Total    float64 `json:"total"`
	}

	CategoryAnalysisData struct {
		Category string         `json:"categoria"`
		Value    float64        `json:"valor"`
		Percent  *float64       `json:"percentual,omitempty"`
		Ranking  []CategoryRank `json:"ranking,omitempty"`
	}

	GoalProgress struct {
		Title    string  `json:"title"`
		Target   float64 `json:"target"`
		Current  float64 `json:"current"`
		Progress float64 `json:"progress"`
	}

	GoalsData struct {
		Goals          []GoalProgress `json:"goals"`
		CompletionRate float64        `json:"completion_rate"`
	}

	SavingsTipsData struct {
		Savings float64 `json:"economia"`
		Rate    float64 `json:"taxa"`
	}

	DeficitData struct {
		Deficit float64 `json:"deficit"`
		Income  float64 `json:"receitas"`
		Expense float64 `json:"despesas"`
	}
)

// Response is the assistant's answer to one query.
type Response struct {
	Text       string   `json:"response"`
	Actions    []Action `json:"actions"`
	Confidence float64  `json:"confidence"`
}

// Confidence is static per branch: recognized intents answer with high
// confidence, the default branch admits it guessed.
const (
	confidenceNavigation = 0.95
	confidenceNoData     = 0.95
	confidenceGreeting   = 0.9
	confidenceHelp       = 0.9
	confidenceTopical    = 0.8
	confidenceDefault    = 0.6
)

// Snapshot is the data a single dispatch works on. The engine builds it per
// request; the dispatcher itself holds no state.
type Snapshot struct {
	Current        []core.Transaction // analysis window (current month)
	All            []core.Transaction // full history, for the chat report
	Goals          []core.Goal
	Conversational bool // chat phrasing instead of the terse analyze phrasing
}

func money(cents int64) string {
	return core.FormatMoney(cents, core.BRL)
}

// Dispatch turns a classified intent plus a data snapshot into a response.
// An empty analysis window short-circuits to the "no data yet" answer before
// any intent computation runs, so no handler ever divides by an empty set.
func Dispatch(intent Intent, query string, snap Snapshot) Response {
	if len(snap.Current) == 0 {
		return noDataResponse(snap.Conversational)
	}

	q := strings.ToLower(strings.TrimSpace(query))

	switch intent {
	case IntentHelp:
		return helpResponse()
	case IntentOpenTransactions:
		return navigate("transactions", true, "Abrindo Transações e o formulário de nova transação…")
	case IntentOpenBudget:
		return navigate("budget", false, "Abrindo Orçamento…")
	case IntentOpenGoals:
		return navigate("goals", false, "Abrindo Metas…")
	case IntentOpenReports:
		if snap.Conversational {
			return fullReportResponse(snap.All)
		}
		return navigate("reports", false, "Abrindo Relatórios…")
	case IntentOpenDashboard:
		return navigate("dashboard", false, "Indo para o Dashboard…")
	case IntentBalance:
		return balanceResponse(snap)
	case IntentCategories:
		return categoriesResponse(q, snap)
	case IntentGoalsStatus:
		return goalsResponse(snap)
	case IntentSavings:
		return savingsResponse(snap)
	case IntentGreeting:
		return Response{
			Text:       "Olá! 👋 Sou seu assistente financeiro pessoal. Como posso ajudar você hoje?",
			Confidence: confidenceGreeting,
		}
	default:
		return defaultResponse()
	}
}

func navigate(section string, openModal bool, text string) Response {
	return Response{
		Text:       text,
		Actions:    []Action{{Type: ActionNavigate, Data: NavigateData{Section: section, OpenModal: openModal}}},
		Confidence: confidenceNavigation,
	}
}

func noDataResponse(conversational bool) Response {
	text := "📝 Você ainda não possui dados cadastrados neste período.\n\n" +
		"Para começar a gerar insights:\n" +
		"• Adicione sua primeira transação (Receita ou Despesa)\n" +
		"• Defina um orçamento e metas financeiras\n\n" +
		"Posso abrir o formulário de nova transação para você agora."
	if conversational {
		text = "Olá! 👋 Notei que você ainda não cadastrou transações.\n\n" +
			"• Clique em “Nova Transação” para registrar sua primeira receita ou despesa.\n" +
			"• Depois disso, posso analisar seus gastos, gerar relatórios e sugerir metas.\n\n" +
			"Quer que eu abra o formulário de nova transação?"
	}
	return Response{
		Text:       text,
		Actions:    []Action{{Type: ActionPromptAddData, Data: EmptyData{}}},
		Confidence: confidenceNoData,
	}
}

func defaultResponse() Response {
	return Response{
		Text:       "Posso ajudar você com análises sobre saldo, categorias de gastos, metas financeiras e economia. O que gostaria de saber?",
		Confidence: confidenceDefault,
	}
}

func helpResponse() Response {
	text := "🤖 **Olá! Sou seu Assistente Financeiro**\n\n" +
		"Posso ajudar você com:\n\n" +
		"💰 **Análises Financeiras** — saldo atual, receitas vs despesas, tendências mensais\n" +
		"📊 **Categorias e Gastos** — maiores e menores categorias, análise por período\n" +
		"🎯 **Metas e Objetivos** — progresso das suas metas, sugestões de economia\n" +
		"📈 **Relatórios Inteligentes** — relatórios completos com insights automatizados\n\n" +
		"**Como usar:** digite sua pergunta de forma natural, como:\n" +
		"• \"Qual meu saldo atual?\"\n" +
		"• \"Quais são meus maiores gastos?\"\n" +
		"• \"Gere um relatório completo\"\n" +
		"• \"Como posso economizar mais?\"\n\n" +
		"O que gostaria de saber? 😊"
	return Response{Text: text, Confidence: confidenceHelp}
}

func balanceResponse(snap Snapshot) Response {
	totals := TotalsOf(snap.Current)

	var text string
	if snap.Conversational {
		if totals.BalanceCents > 0 {
			text = fmt.Sprintf("Ótimo! Sua situação financeira está positiva. Você tem um saldo de %s. Continue assim! 💪", money(totals.BalanceCents))
		} else {
			text = fmt.Sprintf("Precisamos dar uma atenção especial às suas finanças. Seu saldo está negativo em %s. Vamos trabalhar juntos para melhorar isso! 🎯", money(-totals.BalanceCents))
		}
	} else {
		text = fmt.Sprintf("Seu saldo atual é %s. ", money(totals.BalanceCents))
		if totals.BalanceCents > 0 {
			text += "Suas finanças estão em ordem! 🎉"
		} else {
			text += "Considere revisar seus gastos para equilibrar as contas."
		}
	}

	return Response{
		Text: text,
		Actions: []Action{{Type: ActionShowBalance, Data: BalanceData{
			Balance: core.Money{Cents: totals.BalanceCents}.Reais(),
			Income:  core.Money{Cents: totals.IncomeCents}.Reais(),
			Expense: core.Money{Cents: totals.ExpenseCents}.Reais(),
		}}},
		Confidence: confidenceTopical,
	}
}

func ranking(cats []CategoryTotal) []CategoryRank {
	ranked := RankCategories(cats)
	out := make([]CategoryRank, len(ranked))
	for i, c := range ranked {
		out[i] = CategoryRank{Category: c.Category, Total: core.Money{Cents: c.TotalCents}.Reais()}
	}
	return out
}

func categoriesResponse(q string, snap Snapshot) Response {
	cats := GroupByCategory(snap.Current, core.Expense)
	if len(cats) == 0 {
		return Response{
			Text: "📝 Não encontrei despesas registradas para analisar. Que tal começar registrando algumas transações? " +
				"Isso me ajudará a dar insights mais precisos sobre seus gastos!",
			Actions:    []Action{{Type: ActionPromptAddData, Data: EmptyData{}}},
			Confidence: confidenceTopical,
		}
	}

	switch {
	case containsAny(q, largestWords):
		best, _ := LargestCategory(cats)
		pct := Ratio(best.TotalCents, SumCategories(cats))

		text := fmt.Sprintf("🔍 **Análise de Gastos:** sua maior categoria é **%s** com %s", best.Category, money(best.TotalCents))
		if pct != nil {
			text += fmt.Sprintf(" (%.1f%% do total)", *pct)
		}
		text += ".\n\n"
		switch {
		case pct != nil && *pct > 50:
			text += "⚠️ **Atenção:** esta categoria representa mais da metade dos seus gastos. Considere revisar se todos esses gastos são realmente necessários."
		case pct != nil && *pct > 30:
			text += "📊 **Observação:** esta categoria tem um peso significativo nos seus gastos. Vale a pena revisar periodicamente."
		default:
			text += "✅ **Situação:** esta categoria está em um nível razoável. Continue monitorando para manter o controle."
		}

		return Response{
			Text: text,
			Actions: []Action{{Type: ActionShowCategoryAnalysis, Data: CategoryAnalysisData{
				Category: best.Category,
				Value:    core.Money{Cents: best.TotalCents}.Reais(),
				Percent:  pct,
				Ranking:  ranking(cats),
			}}},
			Confidence: confidenceTopical,
		}

	case containsAny(q, smallestWords):
		least, _ := SmallestCategory(cats)
		text := fmt.Sprintf("🎉 **Excelente controle!** Sua menor categoria de gastos é **%s** com %s.\n\n"+
			"Isso mostra que você está controlando bem esses gastos. Continue assim! 👏", least.Category, money(least.TotalCents))
		return Response{
			Text: text,
			Actions: []Action{{Type: ActionShowCategoryAnalysis, Data: CategoryAnalysisData{
				Category: least.Category,
				Value:    core.Money{Cents: least.TotalCents}.Reais(),
			}}},
			Confidence: confidenceTopical,
		}

	default:
		ranked := ranking(cats)
		var b strings.Builder
		b.WriteString("Suas categorias de gastos:\n")
		for _, c := range RankCategories(cats) {
			fmt.Fprintf(&b, "• %s: %s\n", c.Category, money(c.TotalCents))
		}
		return Response{
			Text:       b.String(),
			Actions:    []Action{{Type: ActionShowAllCategories, Data: ranked}},
			Confidence: confidenceTopical,
		}
	}
}

func goalsResponse(snap Snapshot) Response {
	if len(snap.Goals) == 0 {
		text := "🎯 **Você ainda não definiu metas financeiras!**\n\n" +
			"Ter objetivos claros é fundamental para o sucesso financeiro. Metas te ajudam a:\n\n" +
			"• 📈 Manter o foco nos seus objetivos\n" +
			"• 💰 Economizar de forma mais eficiente\n" +
			"• 📊 Medir seu progresso\n\n" +
			"💡 **Sugestão:** comece com metas pequenas e alcançáveis, como economizar para uma viagem ou criar uma reserva de emergência."
		return Response{
			Text:       text,
			Actions:    []Action{{Type: ActionSuggestGoals, Data: EmptyData{}}},
			Confidence: confidenceTopical,
		}
	}

	var b strings.Builder
	b.WriteString("🎯 **Suas Metas Financeiras:**\n\n")

	completed := 0
	progress := make([]GoalProgress, len(snap.Goals))
	for i, g := range snap.Goals {
		p := g.Progress()
		progress[i] = GoalProgress{
			Title:    g.Title,
			Target:   g.Target.Reais(),
			Current:  g.Current.Reais(),
			Progress: p,
		}
		switch {
		case p >= 100:
			completed++
			fmt.Fprintf(&b, "✅ **%s**: %s / %s (100%% - CONCLUÍDA! 🎉)\n\n", g.Title, money(g.Current.Cents), money(g.Target.Cents))
		case p >= 75:
			fmt.Fprintf(&b, "🟢 **%s**: %s / %s (%.1f%% - Quase lá!)\n\n", g.Title, money(g.Current.Cents), money(g.Target.Cents), p)
		case p >= 50:
			fmt.Fprintf(&b, "🟡 **%s**: %s / %s (%.1f%% - Metade do caminho)\n\n", g.Title, money(g.Current.Cents), money(g.Target.Cents), p)
		default:
			fmt.Fprintf(&b, "🔴 **%s**: %s / %s (%.1f%% - Começando)\n\n", g.Title, money(g.Current.Cents), money(g.Target.Cents), p)
		}
	}

	rate := (float64(completed) / float64(len(snap.Goals))) * 100
	fmt.Fprintf(&b, "📊 **Resumo:** %d/%d metas concluídas (%.1f%%)\n\n", completed, len(snap.Goals), rate)
	switch {
	case rate == 100:
		b.WriteString("🏆 **Parabéns!** Todas as suas metas foram alcançadas! Que tal definir novas metas para continuar evoluindo?")
	case rate >= 50:
		b.WriteString("👍 **Ótimo progresso!** Você está no caminho certo. Continue focado!")
	default:
		b.WriteString("💪 **Vamos lá!** É hora de acelerar o ritmo. Foque nas metas mais próximas de serem alcançadas.")
	}

	return Response{
		Text:       b.String(),
		Actions:    []Action{{Type: ActionShowGoals, Data: GoalsData{Goals: progress, CompletionRate: rate}}},
		Confidence: confidenceTopical,
	}
}

func savingsResponse(snap Snapshot) Response {
	totals := TotalsOf(snap.Current)

	if totals.BalanceCents <= 0 {
		deficit := -totals.BalanceCents
		text := fmt.Sprintf("⚠️ **Situação crítica:** você está gastando %s a mais do que recebe.\n\n", money(deficit)) +
			"🚨 **Ação imediata necessária!**\n\n" +
			"💡 **Estratégias para reverter:**\n" +
			"• **Corte gastos:** revise todas as despesas e elimine o que não é essencial\n" +
			"• **Aumente receitas:** considere trabalhos extras ou venda de itens\n" +
			"• **Reorganize:** priorize gastos essenciais (alimentação, moradia, saúde)\n\n" +
			"🎯 **Meta:** chegar ao equilíbrio (receitas = despesas) e depois começar a economizar."
		return Response{
			Text: text,
			Actions: []Action{{Type: ActionShowDeficitAnalysis, Data: DeficitData{
				Deficit: core.Money{Cents: deficit}.Reais(),
				Income:  core.Money{Cents: totals.IncomeCents}.Reais(),
				Expense: core.Money{Cents: totals.ExpenseCents}.Reais(),
			}}},
			Confidence: confidenceTopical,
		}
	}

	rate := SavingsRate(totals.BalanceCents, totals.IncomeCents)
	taxa := 0.0
	if rate != nil {
		taxa = *rate
	}

	var text string
	switch {
	case taxa >= 20:
		text = fmt.Sprintf("🏆 **Excelente!** Você está economizando %s por mês (%.1f%% das receitas).\n\n"+
			"✅ **Parabéns!** Você está no caminho certo para construir uma base financeira sólida.\n\n"+
			"💡 **Sugestões:**\n• Considere investir parte dessa economia\n• Mantenha uma reserva de emergência\n• Continue com essa disciplina financeira",
			money(totals.BalanceCents), taxa)
	case taxa >= 10:
		text = fmt.Sprintf("👍 **Muito bom!** Você está economizando %s por mês (%.1f%% das receitas).\n\n"+
			"✅ **Bom progresso!** Você está desenvolvendo bons hábitos financeiros.\n\n"+
			"💡 **Para melhorar:**\n• Tente aumentar essa taxa para 15-20%%\n• Revise gastos desnecessários\n• Considere fontes de renda extras",
			money(totals.BalanceCents), taxa)
	default:
		text = fmt.Sprintf("📊 **Economia atual:** %s por mês (%.1f%% das receitas).\n\n"+
			"🔄 **Há espaço para melhorar!** Tente economizar pelo menos 10%% das suas receitas.\n\n"+
			"💡 **Dicas para economizar mais:**\n• Revise assinaturas e serviços\n• Evite compras por impulso\n• Compare preços antes de comprar",
			money(totals.BalanceCents), taxa)
	}

	return Response{
		Text: text,
		Actions: []Action{{Type: ActionShowSavingsTips, Data: SavingsTipsData{
			Savings: core.Money{Cents: totals.BalanceCents}.Reais(),
			Rate:    taxa,
		}}},
		Confidence: confidenceTopical,
	}
}

func fullReportResponse(all []core.Transaction) Response {
	totals := TotalsOf(all)
	cats := RankCategories(GroupByCategory(all, core.Expense))
	if len(cats) > 3 {
		cats = cats[:3]
	}

	var b strings.Builder
	b.WriteString("📊 **Relatório Financeiro Completo**\n\n")
	b.WriteString("💰 **Resumo Geral:**\n")
	fmt.Fprintf(&b, "• Total de Receitas: %s\n", money(totals.IncomeCents))
	fmt.Fprintf(&b, "• Total de Despesas: %s\n", money(totals.ExpenseCents))
	fmt.Fprintf(&b, "• Saldo Atual: %s\n", money(totals.BalanceCents))
	fmt.Fprintf(&b, "• Total de Transações: %d\n\n", len(all))
	b.WriteString("📈 **Principais Categorias de Despesas:**")
	for _, c := range cats {
		fmt.Fprintf(&b, "\n• %s: %s", c.Category, money(c.TotalCents))
	}
	if totals.BalanceCents > 0 {
		b.WriteString("\n\n💡 **Status:** suas finanças estão em ordem! ✅")
	} else {
		b.WriteString("\n\n💡 **Status:** atenção ao saldo negativo. ⚠️")
	}
	b.WriteString("\n📋 Acesse a seção 'Relatórios' para análise detalhada.")

	return Response{Text: b.String(), Confidence: confidenceNavigation}
}
