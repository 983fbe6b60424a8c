package auth

import "github.com/bolso-dev/bolso/internal/model"

// DefaultCategories returns the starter categories seeded for a new
// user.
func DefaultCategories() []model.Category {
	return []model.Category{
		{Name: "Salário", Type: model.CategoryTypeIncome, Color: "#10B981", Icon: "briefcase"},
		{Name: "Freelance", Type: model.CategoryTypeIncome, Color: "#3B82F6", Icon: "computer"},
		{Name: "Investimentos", Type: model.CategoryTypeIncome, Color: "#8B5CF6", Icon: "chart-bar"},
		{Name: "Outros Rendimentos", Type: model.CategoryTypeIncome, Color: "#06B6D4", Icon: "cash"},
		{Name: "Alimentação", Type: model.CategoryTypeExpense, Color: "#EF4444", Icon: "cutlery"},
		{Name: "Transporte", Type: model.CategoryTypeExpense, Color: "#F59E0B", Icon: "car"},
		{Name: "Moradia", Type: model.CategoryTypeExpense, Color: "#84CC16", Icon: "home"},
		{Name: "Saúde", Type: model.CategoryTypeExpense, Color: "#EC4899", Icon: "heart"},
		{Name: "Educação", Type: model.CategoryTypeExpense, Color: "#6366F1", Icon: "academic-cap"},
		{Name: "Lazer", Type: model.CategoryTypeExpense, Color: "#F97316", Icon: "puzzle"},
		{Name: "Compras", Type: model.CategoryTypeExpense, Color: "#14B8A6", Icon: "shopping-bag"},
		{Name: "Contas", Type: model.CategoryTypeExpense, Color: "#64748B", Icon: "document-text"},
		{Name: "Transferência", Type: model.CategoryTypeBoth, Color: "#6B7280", Icon: "arrow-right"},
	}
}

// DefaultAccounts returns the starter accounts seeded for a new user.
func DefaultAccounts() []model.Account {
	return []model.Account{
		{Name: "Conta Corrente", Type: model.AccountTypeChecking},
		{Name: "Poupança", Type: model.AccountTypeSavings},
		{Name: "Carteira", Type: model.AccountTypeCash},
	}
}
